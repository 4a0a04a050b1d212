package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/pseudomuto/rowbinary/pkg/catalog"
	"github.com/pseudomuto/rowbinary/pkg/compare"
	"github.com/pseudomuto/rowbinary/pkg/utils"
)

// ParamKind classifies a type parameter.
type ParamKind uint8

const (
	// ParamExpr is anything that is not one of the simpler forms, kept as raw text.
	ParamExpr ParamKind = iota
	ParamNumber
	ParamString
	ParamIdent
	// ParamEnum is a 'name' = ordinal pair.
	ParamEnum
)

type (
	// Parameter is one entry of a parametric type's argument list, e.g. the 10 in FixedString(10)
	// or 'a' = 1 in Enum8('a' = 1).
	Parameter struct {
		Kind ParamKind
		// Text is the parameter exactly as written.
		Text string
		// Value is the unquoted value for numbers, strings and identifiers, and the unquoted enum name
		// for enum entries.
		Value string
		// Ordinal is the raw ordinal text of an enum entry.
		Ordinal string
	}

	// EnumEntry is one name/ordinal pair of an Enum8 or Enum16 type.
	EnumEntry struct {
		Name  string
		Value int
	}

	// ColumnType is the parsed form of a single type declaration. Nullable and LowCardinality are
	// flags on the node they wrap rather than nodes of their own. A ColumnType is never modified
	// after Parse returns and may be shared between goroutines.
	ColumnType struct {
		name           string
		typeName       string
		typ            catalog.TypeID
		nullable       bool
		lowCardinality bool
		params         []Parameter
		children       []*ColumnType
		offset         int
		original       string

		function        *catalog.Function
		functionName    string
		functionParams  []Parameter
		functionVersion int

		// set by finalize
		byteWidth       int
		fixedLength     bool
		estimatedLength int
		arrayDepth      int
		arrayBase       *ColumnType
		precision       int
		scale           int
		timezone        *time.Location
		enumEntries     []EnumEntry
		enumByName      map[string]int
		enumByValue     map[int]string
	}
)

// Name returns the column or tuple element name, or "" for an anonymous type.
func (c *ColumnType) Name() string { return c.name }

// TypeName returns the base type name as written in the declaration (e.g. "uint8").
func (c *ColumnType) TypeName() string { return c.typeName }

// Type returns the resolved type family.
func (c *ColumnType) Type() catalog.TypeID { return c.typ }

// IsNullable reports whether values may be NULL.
func (c *ColumnType) IsNullable() bool { return c.nullable }

// IsLowCardinality reports whether the type was declared LowCardinality.
func (c *ColumnType) IsLowCardinality() bool { return c.lowCardinality }

// OriginalText returns the declaration text this node was parsed from, modifiers and NULL markers
// included, without any discarded DDL clause.
func (c *ColumnType) OriginalText() string { return c.original }

// Offset returns the byte offset of the declaration within the parsed input.
func (c *ColumnType) Offset() int { return c.offset }

// Parameters returns a copy of the type parameters.
func (c *ColumnType) Parameters() []Parameter {
	return append([]Parameter(nil), c.params...)
}

// Children returns the nested types: the element of an Array, key and value of a Map, the
// elements of a Tuple, the columns of Nested or the arguments of an aggregate function.
func (c *ColumnType) Children() []*ColumnType {
	return append([]*ColumnType(nil), c.children...)
}

// NumChildren returns the number of nested types.
func (c *ColumnType) NumChildren() int { return len(c.children) }

// Child returns the i-th nested type.
func (c *ColumnType) Child(i int) *ColumnType { return c.children[i] }

// Function returns the resolved aggregate function for AggregateFunction and
// SimpleAggregateFunction types, nil otherwise.
func (c *ColumnType) Function() *catalog.Function { return c.function }

// FunctionName returns the aggregate function name as written, combinators included.
func (c *ColumnType) FunctionName() string { return c.functionName }

// FunctionParameters returns the parameters of a parametric aggregate function such as quantiles(0.5, 0.9).
func (c *ColumnType) FunctionParameters() []Parameter {
	return append([]Parameter(nil), c.functionParams...)
}

// FunctionVersion returns the optional state version of an AggregateFunction declaration, 0 when absent.
func (c *ColumnType) FunctionVersion() int { return c.functionVersion }

// ByteWidth returns the encoded width of a fixed-width leaf, 0 otherwise.
func (c *ColumnType) ByteWidth() int { return c.byteWidth }

// FixedByteLength reports whether every value of this type encodes to the same number of bytes.
func (c *ColumnType) FixedByteLength() bool { return c.fixedLength }

// EstimatedByteLength returns a lower-bound estimate of a single encoded value.
func (c *ColumnType) EstimatedByteLength() int { return c.estimatedLength }

// ArrayDepth returns how many Array levels are stacked on this node (0 for non-arrays).
func (c *ColumnType) ArrayDepth() int { return c.arrayDepth }

// ArrayBase returns the innermost non-array type, or the node itself for non-arrays.
func (c *ColumnType) ArrayBase() *ColumnType { return c.arrayBase }

// Precision returns the decimal precision.
func (c *ColumnType) Precision() int { return c.precision }

// Scale returns the decimal scale or the sub-second precision of DateTime64.
func (c *ColumnType) Scale() int { return c.scale }

// Timezone returns the zone DateTime values are expressed in.
func (c *ColumnType) Timezone() *time.Location { return c.timezone }

// EnumEntries returns the enum entries in declaration order.
func (c *ColumnType) EnumEntries() []EnumEntry {
	return append([]EnumEntry(nil), c.enumEntries...)
}

// EnumValue returns the ordinal registered for name.
func (c *ColumnType) EnumValue(name string) (int, bool) {
	v, ok := c.enumByName[name]
	return v, ok
}

// EnumName returns the name registered for ordinal.
func (c *ColumnType) EnumName(ordinal int) (string, bool) {
	n, ok := c.enumByValue[ordinal]
	return n, ok
}

// Key returns the key type of a Map.
func (c *ColumnType) Key() *ColumnType { return c.children[0] }

// Value returns the value type of a Map.
func (c *ColumnType) Value() *ColumnType { return c.children[1] }

// ValueType returns the type whose encoding an aggregate state shares. For
// SimpleAggregateFunction this is always one of the arguments; for AggregateFunction only when
// the function is single-valued (max, any, ...). Opaque states return nil. Non-aggregate types
// return themselves.
func (c *ColumnType) ValueType() *ColumnType {
	switch c.typ {
	case catalog.SimpleAggregateFunction:
		i := c.function.ValueArgIndex
		if i >= len(c.children) {
			i = 0
		}
		return c.children[i]
	case catalog.AggregateFunction:
		if c.function.SingleValue && c.function.ValueArgIndex < len(c.children) {
			return c.children[c.function.ValueArgIndex]
		}
		return nil
	}

	return c
}

// String renders the canonical declaration of the type, without its name.
//
//	Map(String, Tuple(UInt8, Nullable(String), Nullable(UInt16)))
func (c *ColumnType) String() string {
	var sb strings.Builder
	c.write(&sb, false)
	return sb.String()
}

// NormalizedName is like String but renders every decimal tier as Decimal(P, S), so
// Decimal32(4) and Decimal(9, 4) normalize to the same text.
func (c *ColumnType) NormalizedName() string {
	var sb strings.Builder
	c.write(&sb, true)
	return sb.String()
}

// Declaration renders "name Type", quoting the name with backticks when needed.
func (c *ColumnType) Declaration() string {
	if c.name == "" {
		return c.String()
	}

	return utils.QuoteIdentifier(c.name) + " " + c.String()
}

func (c *ColumnType) write(sb *strings.Builder, normalize bool) {
	if c.lowCardinality {
		sb.WriteString("LowCardinality(")
		defer sb.WriteString(")")
	}
	if c.nullable {
		sb.WriteString("Nullable(")
		defer sb.WriteString(")")
	}

	if normalize && c.typ.IsDecimal() {
		sb.WriteString("Decimal(" + strconv.Itoa(c.precision) + ", " + strconv.Itoa(c.scale) + ")")
		return
	}

	sb.WriteString(c.typ.String())

	switch c.typ {
	case catalog.AggregateFunction, catalog.SimpleAggregateFunction:
		sb.WriteString("(")
		if c.functionVersion > 0 {
			sb.WriteString(strconv.Itoa(c.functionVersion))
			sb.WriteString(", ")
		}
		sb.WriteString(c.functionName)
		if len(c.functionParams) > 0 {
			writeParams(sb, c.functionParams)
		}
		for _, child := range c.children {
			sb.WriteString(", ")
			child.write(sb, normalize)
		}
		sb.WriteString(")")
		return
	case catalog.Enum8, catalog.Enum16:
		sb.WriteString("(")
		for i, e := range c.enumEntries {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(utils.QuoteString(e.Name))
			sb.WriteString(" = ")
			sb.WriteString(strconv.Itoa(e.Value))
		}
		sb.WriteString(")")
		return
	case catalog.Decimal:
		sb.WriteString("(" + strconv.Itoa(c.precision) + ", " + strconv.Itoa(c.scale) + ")")
		return
	case catalog.Decimal32, catalog.Decimal64, catalog.Decimal128, catalog.Decimal256:
		sb.WriteString("(" + strconv.Itoa(c.scale) + ")")
		return
	}

	if len(c.children) > 0 {
		sb.WriteString("(")
		for i, child := range c.children {
			if i > 0 {
				sb.WriteString(", ")
			}
			if child.name != "" {
				sb.WriteString(utils.QuoteIdentifier(child.name))
				sb.WriteString(" ")
			}
			child.write(sb, normalize)
		}
		sb.WriteString(")")
		return
	}

	if len(c.params) > 0 {
		writeParams(sb, c.params)
	}
}

func writeParams(sb *strings.Builder, params []Parameter) {
	sb.WriteString("(")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Kind == ParamIdent {
			// DateTime(UTC) and DateTime('UTC') mean the same thing; render the quoted form
			sb.WriteString(utils.QuoteString(p.Value))
			continue
		}
		sb.WriteString(p.Text)
	}
	sb.WriteString(")")
}

// Equal reports whether two types are structurally identical: same names, families, flags,
// parameters and nested types. Declared spellings and source text are ignored.
func (c *ColumnType) Equal(other *ColumnType) bool {
	if eq, more := compare.NilCheck(c, other); !more {
		return eq
	}

	if c.name != other.name || c.typ != other.typ ||
		c.nullable != other.nullable || c.lowCardinality != other.lowCardinality {
		return false
	}

	if c.String() != other.String() {
		return false
	}

	return compare.Slices(c.children, other.children, (*ColumnType).Equal)
}
