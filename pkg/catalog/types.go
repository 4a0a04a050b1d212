package catalog

import (
	"github.com/pkg/errors"
)

// ErrUnknownType is returned when a name does not resolve to any registered data type.
var ErrUnknownType = errors.New("unknown data type")

// TypeID identifies a data type family.
type TypeID uint8

const (
	Unknown TypeID = iota
	Nothing
	Bool
	Int8
	Int16
	Int32
	Int64
	Int128
	Int256
	UInt8
	UInt16
	UInt32
	UInt64
	UInt128
	UInt256
	Float32
	Float64
	Decimal
	Decimal32
	Decimal64
	Decimal128
	Decimal256
	String
	FixedString
	UUID
	IPv4
	IPv6
	Date
	Date32
	DateTime
	DateTime32
	DateTime64
	Enum8
	Enum16
	IntervalYear
	IntervalQuarter
	IntervalMonth
	IntervalWeek
	IntervalDay
	IntervalHour
	IntervalMinute
	IntervalSecond
	IntervalMillisecond
	IntervalMicrosecond
	IntervalNanosecond
	Array
	Map
	Tuple
	Nested
	AggregateFunction
	SimpleAggregateFunction
	Nullable
	LowCardinality

	numTypeIDs
)

type (
	// TypeDescriptor is the static metadata of a data type family.
	TypeDescriptor struct {
		ID            TypeID
		Name          string
		CaseSensitive bool
		Signed        bool
		// ByteWidth is the fixed encoded width in bytes, 0 when it is variable or depends on parameters.
		ByteWidth    int
		MaxPrecision int
		MinScale     int
		MaxScale     int
		Aliases      []string
	}

	// TypeCatalog resolves data type names. It is immutable once built.
	TypeCatalog struct {
		descriptors []TypeDescriptor
		byID        [numTypeIDs]int
		names       *registry
	}
)

// DefaultTypes is the catalog of all data types known to this package.
var DefaultTypes = MustTypeCatalog(builtinTypes)

var builtinTypes = []TypeDescriptor{
	{ID: Nothing, Name: "Nothing"},
	{ID: Bool, Name: "Bool", ByteWidth: 1, MaxPrecision: 1, Aliases: []string{"Boolean"}},
	{ID: Int8, Name: "Int8", Signed: true, ByteWidth: 1, MaxPrecision: 3, Aliases: []string{"TINYINT", "INT1", "BYTE"}},
	{ID: Int16, Name: "Int16", Signed: true, ByteWidth: 2, MaxPrecision: 5, Aliases: []string{"SMALLINT"}},
	{ID: Int32, Name: "Int32", Signed: true, ByteWidth: 4, MaxPrecision: 10, Aliases: []string{"INT", "INTEGER", "MEDIUMINT"}},
	{ID: Int64, Name: "Int64", Signed: true, ByteWidth: 8, MaxPrecision: 19, Aliases: []string{"BIGINT", "SIGNED"}},
	{ID: Int128, Name: "Int128", Signed: true, ByteWidth: 16, MaxPrecision: 39},
	{ID: Int256, Name: "Int256", Signed: true, ByteWidth: 32, MaxPrecision: 77},
	{ID: UInt8, Name: "UInt8", ByteWidth: 1, MaxPrecision: 3},
	{ID: UInt16, Name: "UInt16", ByteWidth: 2, MaxPrecision: 5},
	{ID: UInt32, Name: "UInt32", ByteWidth: 4, MaxPrecision: 10},
	{ID: UInt64, Name: "UInt64", ByteWidth: 8, MaxPrecision: 20, Aliases: []string{"UNSIGNED", "BIT", "SET"}},
	{ID: UInt128, Name: "UInt128", ByteWidth: 16, MaxPrecision: 39},
	{ID: UInt256, Name: "UInt256", ByteWidth: 32, MaxPrecision: 78},
	{ID: Float32, Name: "Float32", Signed: true, ByteWidth: 4, MaxPrecision: 12, MaxScale: 38, Aliases: []string{"FLOAT", "REAL", "SINGLE"}},
	{ID: Float64, Name: "Float64", Signed: true, ByteWidth: 8, MaxPrecision: 22, MaxScale: 308, Aliases: []string{"DOUBLE"}},
	{ID: Decimal, Name: "Decimal", CaseSensitive: true, Signed: true, MaxPrecision: 76, MaxScale: 76, Aliases: []string{"decimal", "DEC", "NUMERIC", "FIXED"}},
	{ID: Decimal32, Name: "Decimal32", CaseSensitive: true, Signed: true, ByteWidth: 4, MaxPrecision: 9, MaxScale: 9, Aliases: []string{"decimal32"}},
	{ID: Decimal64, Name: "Decimal64", CaseSensitive: true, Signed: true, ByteWidth: 8, MaxPrecision: 18, MaxScale: 18, Aliases: []string{"decimal64"}},
	{ID: Decimal128, Name: "Decimal128", CaseSensitive: true, Signed: true, ByteWidth: 16, MaxPrecision: 38, MaxScale: 38, Aliases: []string{"decimal128"}},
	{ID: Decimal256, Name: "Decimal256", CaseSensitive: true, Signed: true, ByteWidth: 32, MaxPrecision: 76, MaxScale: 76, Aliases: []string{"decimal256"}},
	{ID: String, Name: "String", Aliases: []string{
		"TEXT", "VARCHAR", "CHAR", "CLOB", "BLOB", "BYTEA", "NCHAR", "NVARCHAR", "VARCHAR2", "VARBINARY",
		"TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB",
	}},
	{ID: FixedString, Name: "FixedString", CaseSensitive: true, Aliases: []string{"fixed_string", "BINARY"}},
	{ID: UUID, Name: "UUID", ByteWidth: 16, MaxPrecision: 36},
	{ID: IPv4, Name: "IPv4", ByteWidth: 4, MaxPrecision: 15, Aliases: []string{"INET4"}},
	{ID: IPv6, Name: "IPv6", ByteWidth: 16, MaxPrecision: 39, Aliases: []string{"INET6"}},
	{ID: Date, Name: "Date", ByteWidth: 2, MaxPrecision: 10},
	{ID: Date32, Name: "Date32", ByteWidth: 4, MaxPrecision: 10},
	{ID: DateTime, Name: "DateTime", CaseSensitive: true, ByteWidth: 4, MaxPrecision: 29, Aliases: []string{"datetime", "TIMESTAMP"}},
	{ID: DateTime32, Name: "DateTime32", CaseSensitive: true, ByteWidth: 4, MaxPrecision: 29, Aliases: []string{"datetime32"}},
	{ID: DateTime64, Name: "DateTime64", CaseSensitive: true, ByteWidth: 8, MaxPrecision: 38, MaxScale: 9, Aliases: []string{"datetime64"}},
	{ID: Enum8, Name: "Enum8", CaseSensitive: true, Signed: true, ByteWidth: 1, Aliases: []string{"enum8"}},
	{ID: Enum16, Name: "Enum16", CaseSensitive: true, Signed: true, ByteWidth: 2, Aliases: []string{"enum16"}},
	{ID: IntervalYear, Name: "IntervalYear", Signed: true, ByteWidth: 8, MaxPrecision: 19},
	{ID: IntervalQuarter, Name: "IntervalQuarter", Signed: true, ByteWidth: 8, MaxPrecision: 19},
	{ID: IntervalMonth, Name: "IntervalMonth", Signed: true, ByteWidth: 8, MaxPrecision: 19},
	{ID: IntervalWeek, Name: "IntervalWeek", Signed: true, ByteWidth: 8, MaxPrecision: 19},
	{ID: IntervalDay, Name: "IntervalDay", Signed: true, ByteWidth: 8, MaxPrecision: 19},
	{ID: IntervalHour, Name: "IntervalHour", Signed: true, ByteWidth: 8, MaxPrecision: 19},
	{ID: IntervalMinute, Name: "IntervalMinute", Signed: true, ByteWidth: 8, MaxPrecision: 19},
	{ID: IntervalSecond, Name: "IntervalSecond", Signed: true, ByteWidth: 8, MaxPrecision: 19},
	{ID: IntervalMillisecond, Name: "IntervalMillisecond", Signed: true, ByteWidth: 8, MaxPrecision: 19},
	{ID: IntervalMicrosecond, Name: "IntervalMicrosecond", Signed: true, ByteWidth: 8, MaxPrecision: 19},
	{ID: IntervalNanosecond, Name: "IntervalNanosecond", Signed: true, ByteWidth: 8, MaxPrecision: 19},
	{ID: Array, Name: "Array", CaseSensitive: true, Aliases: []string{"array"}},
	{ID: Map, Name: "Map", CaseSensitive: true, Aliases: []string{"map"}},
	{ID: Tuple, Name: "Tuple", CaseSensitive: true, Aliases: []string{"tuple"}},
	{ID: Nested, Name: "Nested", CaseSensitive: true, Aliases: []string{"nested"}},
	{ID: AggregateFunction, Name: "AggregateFunction", CaseSensitive: true, Aliases: []string{"aggregate_function"}},
	{ID: SimpleAggregateFunction, Name: "SimpleAggregateFunction", CaseSensitive: true, Aliases: []string{"simple_aggregate_function"}},
	{ID: Nullable, Name: "Nullable"},
	{ID: LowCardinality, Name: "LowCardinality", Aliases: []string{"low_cardinality"}},
}

// NewTypeCatalog builds a catalog from the given descriptors. Every ID may appear once and every
// name or alias must be unique, otherwise an error wrapping ErrDuplicateName is returned.
func NewTypeCatalog(descriptors []TypeDescriptor) (*TypeCatalog, error) {
	c := &TypeCatalog{descriptors: make([]TypeDescriptor, len(descriptors))}
	for i := range c.byID {
		c.byID[i] = -1
	}

	spellings := make([]spelling, len(descriptors))
	for i, d := range descriptors {
		if d.ID == Unknown || d.ID >= numTypeIDs {
			return nil, errors.Errorf("invalid type id %d for %q", d.ID, d.Name)
		}
		if c.byID[d.ID] >= 0 {
			return nil, errors.Wrapf(ErrDuplicateName, "type id %d registered twice", d.ID)
		}

		d.Aliases = append([]string(nil), d.Aliases...)
		c.descriptors[i] = d
		c.byID[d.ID] = i
		spellings[i] = spelling{name: d.Name, aliases: d.Aliases, caseSensitive: d.CaseSensitive}
	}

	names, err := newRegistry(spellings)
	if err != nil {
		return nil, err
	}

	c.names = names
	return c, nil
}

// MustTypeCatalog is like NewTypeCatalog but panics on error.
func MustTypeCatalog(descriptors []TypeDescriptor) *TypeCatalog {
	c, err := NewTypeCatalog(descriptors)
	if err != nil {
		panic(err)
	}

	return c
}

// Resolve returns the ID of the data type registered under name. Exact spellings are tried
// first, then case-folded spellings of case-insensitive types.
func (c *TypeCatalog) Resolve(name string) (TypeID, error) {
	i, ok := c.names.lookup(name)
	if !ok {
		return Unknown, errors.Wrapf(ErrUnknownType, "%q", name)
	}

	return c.descriptors[i].ID, nil
}

// Metadata returns the descriptor of id. The zero descriptor is returned for unregistered IDs.
func (c *TypeCatalog) Metadata(id TypeID) TypeDescriptor {
	if id >= numTypeIDs || c.byID[id] < 0 {
		return TypeDescriptor{}
	}

	return c.descriptors[c.byID[id]]
}

// IsAlias reports whether name is a registered secondary spelling rather than a canonical name.
func (c *TypeCatalog) IsAlias(name string) bool {
	return c.names.isAlias(name)
}

// Descriptors returns a copy of all registered descriptors in registration order.
func (c *TypeCatalog) Descriptors() []TypeDescriptor {
	return append([]TypeDescriptor(nil), c.descriptors...)
}

// String returns the canonical name of the type family.
func (t TypeID) String() string {
	if d := DefaultTypes.Metadata(t); d.Name != "" {
		return d.Name
	}

	return "Unknown"
}

// IsComposite reports whether values of this family are made of child values.
func (t TypeID) IsComposite() bool {
	switch t {
	case Array, Map, Tuple, Nested, AggregateFunction, SimpleAggregateFunction:
		return true
	}

	return false
}

// IsModifier reports whether the family is a flag on another type (Nullable, LowCardinality).
func (t TypeID) IsModifier() bool {
	return t == Nullable || t == LowCardinality
}

// IsDecimal reports whether t is one of the Decimal families.
func (t TypeID) IsDecimal() bool {
	return t >= Decimal && t <= Decimal256
}

// IsDateTime reports whether t is DateTime, DateTime32 or DateTime64.
func (t TypeID) IsDateTime() bool {
	return t == DateTime || t == DateTime32 || t == DateTime64
}

// IsInterval reports whether t is one of the Interval families.
func (t TypeID) IsInterval() bool {
	return t >= IntervalYear && t <= IntervalNanosecond
}

// IsEnum reports whether t is Enum8 or Enum16.
func (t TypeID) IsEnum() bool {
	return t == Enum8 || t == Enum16
}
