package parser

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/pseudomuto/rowbinary/pkg/catalog"
)

// finalize derives enum tables, precision/scale, timezone and byte-length attributes bottom-up.
// It works only on the parsed tree, never on the source text.
func finalize(ct *ColumnType, p *Parser) error {
	for _, child := range ct.children {
		if err := finalize(child, p); err != nil {
			return err
		}
	}

	md := p.types.Metadata(ct.typ)
	ct.byteWidth = md.ByteWidth
	ct.arrayBase = ct

	if err := resolveParameters(ct, md, p); err != nil {
		return err
	}

	switch ct.typ {
	case catalog.Array:
		ct.arrayDepth = 1
		base := ct.children[0]
		for base.typ == catalog.Array && ct.arrayDepth < p.maxDepth {
			ct.arrayDepth++
			base = base.children[0]
		}
		if base.typ == catalog.Array {
			return paramError(ct, "array nesting exceeds %d levels", p.maxDepth)
		}
		ct.arrayBase = base
		ct.estimatedLength = 1
	case catalog.Map:
		ct.estimatedLength = 1
	case catalog.Nested:
		ct.estimatedLength = len(ct.children)
	case catalog.Tuple:
		ct.fixedLength = true
		for _, child := range ct.children {
			ct.fixedLength = ct.fixedLength && child.fixedLength
			ct.estimatedLength += child.estimatedLength
		}
	case catalog.AggregateFunction, catalog.SimpleAggregateFunction:
		if vt := ct.ValueType(); vt != nil {
			ct.fixedLength = vt.fixedLength
			ct.estimatedLength = vt.estimatedLength
		} else {
			ct.estimatedLength = 1
		}
	default:
		ct.fixedLength = ct.byteWidth > 0
		ct.estimatedLength = max(ct.byteWidth, 1)
	}

	if ct.nullable {
		ct.fixedLength = false
		ct.estimatedLength++
	}

	return nil
}

func resolveParameters(ct *ColumnType, md catalog.TypeDescriptor, p *Parser) error {
	switch {
	case ct.typ == catalog.FixedString:
		return resolveFixedString(ct)
	case ct.typ.IsEnum():
		return resolveEnum(ct)
	case ct.typ.IsDecimal():
		return resolveDecimal(ct, md)
	case ct.typ.IsDateTime():
		return resolveDateTime(ct, md, p)
	case ct.typ.IsComposite():
		return nil
	}

	if ct.params != nil {
		return paramError(ct, "%s does not accept parameters", ct.typ)
	}

	return nil
}

func resolveFixedString(ct *ColumnType) error {
	if len(ct.params) != 1 {
		return paramError(ct, "FixedString expects a length")
	}

	n, err := intParam(ct.params[0])
	if err != nil || n <= 0 {
		return paramError(ct, "invalid FixedString length %q", ct.params[0].Text)
	}

	ct.byteWidth = n
	return nil
}

func resolveEnum(ct *ColumnType) error {
	if len(ct.params) == 0 {
		return paramError(ct, "%s expects at least one entry", ct.typ)
	}

	limit := math.MaxInt8
	if ct.typ == catalog.Enum16 {
		limit = math.MaxInt16
	}

	ct.enumByName = make(map[string]int, len(ct.params))
	ct.enumByValue = make(map[int]string, len(ct.params))
	for _, param := range ct.params {
		if param.Kind != ParamEnum {
			return &Error{Kind: ErrUnknownEnumValue, Offset: ct.offset, Input: ct.original, Msg: "expected 'name' = value but found " + strconv.Quote(param.Text)}
		}

		v, err := strconv.Atoi(param.Ordinal)
		if err != nil || v < -limit-1 || v > limit {
			return &Error{Kind: ErrUnknownEnumValue, Offset: ct.offset, Input: ct.original, Msg: "enum value out of range: " + param.Text}
		}
		if _, dup := ct.enumByName[param.Value]; dup {
			return &Error{Kind: ErrUnknownEnumValue, Offset: ct.offset, Input: ct.original, Msg: "duplicate enum name " + strconv.Quote(param.Value)}
		}
		if _, dup := ct.enumByValue[v]; dup {
			return &Error{Kind: ErrUnknownEnumValue, Offset: ct.offset, Input: ct.original, Msg: "duplicate enum value " + param.Ordinal}
		}

		ct.enumByName[param.Value] = v
		ct.enumByValue[v] = param.Value
		ct.enumEntries = append(ct.enumEntries, EnumEntry{Name: param.Value, Value: v})
	}

	return nil
}

func resolveDecimal(ct *ColumnType, md catalog.TypeDescriptor) error {
	if ct.typ == catalog.Decimal {
		if len(ct.params) < 1 || len(ct.params) > 2 {
			return paramError(ct, "Decimal expects precision and optional scale")
		}

		precision, err := intParam(ct.params[0])
		if err != nil || precision < 1 || precision > md.MaxPrecision {
			return paramError(ct, "invalid Decimal precision %q", ct.params[0].Text)
		}
		ct.precision = precision

		if len(ct.params) == 2 {
			if ct.scale, err = intParam(ct.params[1]); err != nil {
				return paramError(ct, "invalid Decimal scale %q", ct.params[1].Text)
			}
		}

		ct.byteWidth = decimalWidth(precision)
	} else {
		if len(ct.params) != 1 {
			return paramError(ct, "%s expects a scale", ct.typ)
		}

		scale, err := intParam(ct.params[0])
		if err != nil {
			return paramError(ct, "invalid %s scale %q", ct.typ, ct.params[0].Text)
		}
		ct.precision, ct.scale = md.MaxPrecision, scale
	}

	if ct.scale < md.MinScale || ct.scale > ct.precision {
		return paramError(ct, "scale %d out of range [%d, %d]", ct.scale, md.MinScale, ct.precision)
	}

	return nil
}

// decimalWidth returns the storage width for a Decimal(P, S).
func decimalWidth(precision int) int {
	switch {
	case precision <= 9:
		return 4
	case precision <= 18:
		return 8
	case precision <= 38:
		return 16
	}

	return 32
}

func resolveDateTime(ct *ColumnType, md catalog.TypeDescriptor, p *Parser) error {
	params := ct.params
	if ct.typ == catalog.DateTime64 {
		if len(params) < 1 {
			return paramError(ct, "DateTime64 expects a precision")
		}

		scale, err := intParam(params[0])
		if err != nil || scale < md.MinScale || scale > md.MaxScale {
			return paramError(ct, "invalid DateTime64 precision %q", params[0].Text)
		}
		ct.scale = scale
		params = params[1:]
	}

	ct.timezone = p.timezone
	switch len(params) {
	case 0:
		return nil
	case 1:
		if params[0].Kind != ParamString && params[0].Kind != ParamIdent {
			return paramError(ct, "invalid timezone %q", params[0].Text)
		}

		loc, err := time.LoadLocation(params[0].Value)
		if err != nil {
			return paramError(ct, "unknown timezone %q", params[0].Value)
		}
		ct.timezone = loc
		return nil
	}

	return paramError(ct, "too many parameters for %s", ct.typ)
}

func intParam(p Parameter) (int, error) {
	if p.Kind != ParamNumber {
		return 0, strconv.ErrSyntax
	}

	return strconv.Atoi(p.Value)
}

func paramError(ct *ColumnType, format string, args ...any) error {
	return &Error{Kind: ErrInvalidParameter, Offset: ct.offset, Input: ct.original, Msg: fmt.Sprintf(format, args...)}
}
