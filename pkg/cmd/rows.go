package cmd

import (
	"bytes"
	"encoding/hex"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/catalog"
	"github.com/pseudomuto/rowbinary/pkg/parser"
	"github.com/pseudomuto/rowbinary/pkg/rowbinary"
	"github.com/pseudomuto/rowbinary/pkg/value"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

// orderedMap renders as a YAML mapping or JSON object with its keys in insertion order.
type orderedMap struct {
	keys   []string
	values []any
}

func (m *orderedMap) set(key string, v any) {
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
}

func (m orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[i])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal %q", k)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (m orderedMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, k := range m.keys {
		var val yaml.Node
		if err := val.Encode(m.values[i]); err != nil {
			return nil, errors.Wrapf(err, "failed to marshal %q", k)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}

	return node, nil
}

// wideInt prints a 128 or 256 bit integer as a bare number in both formats.
type wideInt string

func (w wideInt) MarshalJSON() ([]byte, error) { return []byte(w), nil }

func (w wideInt) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: string(w)}, nil
}

// renderRow turns a decoded row into a column name to value mapping.
func renderRow(columns []rowbinary.Column, row []value.Value) orderedMap {
	out := orderedMap{}
	for i, col := range columns {
		out.set(col.Name, render(col.Type, row[i]))
	}

	return out
}

// render converts v into something both encoders print losslessly. Wide integers and decimals
// stay exact, opaque aggregate states become 0x-prefixed hex.
func render(ct *parser.ColumnType, v value.Value) any {
	if vt := ct.ValueType(); vt != nil {
		ct = vt
	}

	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindFloat:
		if f := v.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return v.Float()
	case value.KindBigInt:
		return wideInt(v.BigInt().String())
	case value.KindDecimal, value.KindUUID, value.KindIP:
		return v.String()
	case value.KindBytes:
		return "0x" + hex.EncodeToString(v.Bytes())
	case value.KindArray:
		return renderItems(v.Items(), func(int) *parser.ColumnType { return ct.Child(0) })
	case value.KindTuple:
		if named(ct) {
			out := orderedMap{}
			for i, child := range ct.Children() {
				out.set(child.Name(), render(child, v.Index(i)))
			}
			return out
		}
		return renderItems(v.Items(), ct.Child)
	case value.KindNested:
		out := orderedMap{}
		for i, child := range ct.Children() {
			out.set(child.Name(), renderItems(v.Index(i).Items(), func(int) *parser.ColumnType { return child }))
		}
		return out
	case value.KindMap:
		out := orderedMap{}
		for _, p := range v.Pairs() {
			out.set(p.Key.String(), render(ct.Value(), p.Value))
		}
		return out
	}

	return v.Any()
}

func renderItems(items []value.Value, typeOf func(int) *parser.ColumnType) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = render(typeOf(i), item)
	}

	return out
}

func named(ct *parser.ColumnType) bool {
	for _, child := range ct.Children() {
		if child.Name() == "" {
			return false
		}
	}

	return ct.NumChildren() > 0
}

// rowSource yields rows as Map values keyed by column name. It returns io.EOF when exhausted.
type rowSource interface {
	next() (value.Value, error)
}

func newRowSource(r io.Reader, format string) (rowSource, error) {
	switch format {
	case formatYAML:
		return &yamlRows{dec: yaml.NewDecoder(r)}, nil
	case formatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		return &jsonRows{dec: dec}, nil
	}

	return nil, errors.Errorf("unsupported input format %q", format)
}

// yamlRows reads YAML documents holding either one row mapping or a sequence of them.
type yamlRows struct {
	dec     *yaml.Decoder
	pending []value.Value
}

func (y *yamlRows) next() (value.Value, error) {
	for len(y.pending) == 0 {
		var doc yaml.Node
		if err := y.dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return value.Value{}, io.EOF
			}
			return value.Value{}, errors.Wrap(err, "failed to read YAML row")
		}

		v, err := yamlValue(&doc)
		if err != nil {
			return value.Value{}, err
		}

		switch v.Kind() {
		case value.KindNull:
		case value.KindMap:
			y.pending = append(y.pending, v)
		case value.KindArray:
			for _, item := range v.Items() {
				if item.Kind() != value.KindMap {
					return value.Value{}, errors.Errorf("expected a row mapping, got %s", item.Kind())
				}
				y.pending = append(y.pending, item)
			}
		default:
			return value.Value{}, errors.Errorf("expected a row mapping, got %s", v.Kind())
		}
	}

	row := y.pending[0]
	y.pending = y.pending[1:]
	return row, nil
}

// yamlValue converts a node keeping mapping order and integer precision.
func yamlValue(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		items := make([]value.Value, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.Array(items...), nil
	case yaml.MappingNode:
		pairs := make([]value.Pair, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := yamlValue(n.Content[i])
			if err != nil {
				return value.Value{}, err
			}
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return value.Value{}, err
			}
			pairs = append(pairs, value.Pair{Key: k, Value: v})
		}
		return value.Map(pairs...), nil
	}

	// Integers wider than 64 bits resolve as floats.
	if tag := n.ShortTag(); tag == "!!int" || (tag == "!!float" && isInteger(n.Value)) {
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return value.Uint(u), nil
		}
		if b, ok := new(big.Int).SetString(strings.ReplaceAll(n.Value, "_", ""), 0); ok {
			return value.BigInt(b), nil
		}
	}

	var x any
	if err := n.Decode(&x); err != nil {
		return value.Value{}, errors.Wrapf(err, "line %d", n.Line)
	}

	v, err := value.FromAny(x)
	return v, errors.Wrapf(err, "line %d", n.Line)
}

func isInteger(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return s != "" && strings.Trim(s, "0123456789") == ""
}

// jsonRows reads a stream of JSON objects, one row each.
type jsonRows struct {
	dec *json.Decoder
}

func (j *jsonRows) next() (value.Value, error) {
	var row map[string]any
	if err := j.dec.Decode(&row); err != nil {
		if errors.Is(err, io.EOF) {
			return value.Value{}, io.EOF
		}
		return value.Value{}, errors.Wrap(err, "failed to read JSON row")
	}

	v, err := value.FromAny(numbers(row))
	return v, errors.Wrap(err, "failed to convert JSON row")
}

// numbers replaces json.Number with the narrowest exact Go number.
func numbers(x any) any {
	switch x := x.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(string(x), 10, 64); err == nil {
			return u
		}
		if b, ok := new(big.Int).SetString(string(x), 10); ok {
			return b
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return string(x)
	case []any:
		for i := range x {
			x[i] = numbers(x[i])
		}
	case map[string]any:
		for k := range x {
			x[k] = numbers(x[k])
		}
	}

	return x
}

// rowValues orders the fields of a row mapping by column. Missing columns are NULL.
func rowValues(columns []rowbinary.Column, row value.Value) ([]value.Value, error) {
	out := make([]value.Value, len(columns))
	for _, p := range row.Pairs() {
		name := p.Key.String()

		i := columnIndex(columns, name)
		if i < 0 {
			return nil, errors.Errorf("unknown column %q", name)
		}

		v, err := conform(columns[i].Type, p.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", name)
		}
		out[i] = v
	}

	return out, nil
}

func columnIndex(columns []rowbinary.Column, name string) int {
	for i, col := range columns {
		if col.Name == name {
			return i
		}
	}

	return -1
}

// conform reshapes generic YAML/JSON values into what the encoder expects for ct: mappings
// become named tuples or Nested columns and hex strings become aggregate states.
func conform(ct *parser.ColumnType, v value.Value) (value.Value, error) {
	if v.IsNull() {
		return v, nil
	}

	switch ct.Type() {
	case catalog.Array:
		if v.Kind() != value.KindArray {
			return v, nil
		}
		return conformItems(v.Items(), func(int) *parser.ColumnType { return ct.Child(0) }, value.Array)
	case catalog.Tuple:
		switch v.Kind() {
		case value.KindMap:
			items := make([]value.Value, ct.NumChildren())
			for i, child := range ct.Children() {
				item, err := conform(child, field(v, child.Name()))
				if err != nil {
					return value.Value{}, errors.Wrapf(err, "tuple element %q", child.Name())
				}
				items[i] = item
			}
			return value.Tuple(items...), nil
		case value.KindArray, value.KindTuple:
			if v.Len() != ct.NumChildren() {
				return v, nil
			}
			return conformItems(v.Items(), ct.Child, value.Tuple)
		}
	case catalog.Map:
		if v.Kind() != value.KindMap {
			return v, nil
		}
		pairs := v.Pairs()
		for i, p := range pairs {
			val, err := conform(ct.Value(), p.Value)
			if err != nil {
				return value.Value{}, errors.Wrapf(err, "map key %s", p.Key)
			}
			pairs[i].Value = val
		}
		return value.Map(pairs...), nil
	case catalog.Nested:
		if v.Kind() != value.KindMap {
			return v, nil
		}
		columns := make([]value.Value, ct.NumChildren())
		for i, child := range ct.Children() {
			col := field(v, child.Name())
			if col.IsNull() {
				col = value.Array()
			}
			if col.Kind() == value.KindArray {
				var err error
				col, err = conformItems(col.Items(), func(int) *parser.ColumnType { return child }, value.Array)
				if err != nil {
					return value.Value{}, errors.Wrapf(err, "nested column %q", child.Name())
				}
			}
			columns[i] = col
		}
		return value.Nested(columns...), nil
	case catalog.AggregateFunction, catalog.SimpleAggregateFunction:
		if vt := ct.ValueType(); vt != nil {
			return conform(vt, v)
		}
		if s := v.String(); v.Kind() == value.KindString && strings.HasPrefix(s, "0x") {
			data, err := hex.DecodeString(s[2:])
			if err != nil {
				return value.Value{}, errors.Wrap(err, "invalid aggregate state")
			}
			return value.Bytes(data), nil
		}
	}

	return v, nil
}

func conformItems(items []value.Value, typeOf func(int) *parser.ColumnType, build func(...value.Value) value.Value) (value.Value, error) {
	for i, item := range items {
		v, err := conform(typeOf(i), item)
		if err != nil {
			return value.Value{}, errors.Wrapf(err, "element %d", i)
		}
		items[i] = v
	}

	return build(items...), nil
}

func field(m value.Value, name string) value.Value {
	for _, p := range m.Pairs() {
		if p.Key.String() == name {
			return p.Value
		}
	}

	return value.Null()
}
