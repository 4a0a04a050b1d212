package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/catalog"
)

// Describe writes an indented dump of each column and its nested types along with the derived
// attributes. The output is stable and used by the describe command.
//
//	tags Array(Nullable(String))
//	  fixed=false estimated=1 depth=1
//	  String nullable
//	    fixed=false estimated=2
func Describe(w io.Writer, cols ...*ColumnType) error {
	var sb strings.Builder
	for _, col := range cols {
		describe(&sb, col, 0)
	}

	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "failed to write description")
}

func describe(sb *strings.Builder, c *ColumnType, level int) {
	indent := strings.Repeat("  ", level)

	sb.WriteString(indent)
	sb.WriteString(c.Declaration())
	if c.nullable {
		sb.WriteString(" nullable")
	}
	if c.lowCardinality {
		sb.WriteString(" low_cardinality")
	}
	sb.WriteString("\n")

	attrs := []string{
		fmt.Sprintf("fixed=%t", c.fixedLength),
		fmt.Sprintf("estimated=%d", c.estimatedLength),
	}
	if c.byteWidth > 0 {
		attrs = append(attrs, fmt.Sprintf("width=%d", c.byteWidth))
	}
	if c.typ == catalog.Array {
		attrs = append(attrs, fmt.Sprintf("depth=%d", c.arrayDepth), "base="+c.arrayBase.String())
	}
	if c.typ.IsDecimal() {
		attrs = append(attrs, fmt.Sprintf("precision=%d", c.precision), fmt.Sprintf("scale=%d", c.scale))
	}
	if c.typ.IsDateTime() {
		if c.typ == catalog.DateTime64 {
			attrs = append(attrs, fmt.Sprintf("scale=%d", c.scale))
		}
		attrs = append(attrs, "tz="+c.timezone.String())
	}
	if c.function != nil {
		attrs = append(attrs, "function="+c.function.Name)
		if len(c.function.Combinators) > 0 {
			attrs = append(attrs, "combinators="+strings.Join(c.function.Combinators, ","))
		}
		if vt := c.ValueType(); vt != nil {
			attrs = append(attrs, "value="+vt.String())
		}
	}

	sb.WriteString(indent)
	sb.WriteString("  ")
	sb.WriteString(strings.Join(attrs, " "))
	sb.WriteString("\n")

	for _, child := range c.children {
		describe(sb, child, level+1)
	}
}
