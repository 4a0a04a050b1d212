package catalog

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownFunction is returned when a name does not resolve to any registered aggregate function.
var ErrUnknownFunction = errors.New("unknown aggregate function")

// UnlimitedArgs marks a function accepting any number of arguments.
const UnlimitedArgs = -1

type (
	// FunctionDescriptor is the static metadata of an aggregate function.
	FunctionDescriptor struct {
		Name          string
		CaseSensitive bool
		MaxArgs       int
		// SingleValue is set when the serialized state is exactly the value of the argument at
		// ValueArgIndex, e.g. max or any.
		SingleValue   bool
		ValueArgIndex int
		Aliases       []string
	}

	// Function is the result of resolving a possibly combinator-suffixed function name.
	Function struct {
		FunctionDescriptor
		// Combinators are the stripped suffixes, outermost first (sumIfArray => [Array, If]).
		Combinators []string
	}

	// FunctionCatalog resolves aggregate function names. It is immutable once built.
	FunctionCatalog struct {
		descriptors []FunctionDescriptor
		names       *registry
	}
)

// combinators that may be appended to an aggregate function name. Only If keeps the state layout
// of the base function.
var combinators = []string{"If", "Array", "ForEach", "OrNull", "OrDefault", "State", "Merge", "Distinct", "Resample", "SimpleState"}

// DefaultFunctions is the catalog of all aggregate functions known to this package.
var DefaultFunctions = MustFunctionCatalog(builtinFunctions)

var builtinFunctions = []FunctionDescriptor{
	{Name: "any", MaxArgs: 1, SingleValue: true, Aliases: []string{"any_value", "first_value"}},
	{Name: "anyLast", CaseSensitive: true, MaxArgs: 1, SingleValue: true, Aliases: []string{"last_value"}},
	{Name: "anyHeavy", CaseSensitive: true, MaxArgs: 1},
	{Name: "argMin", CaseSensitive: true, MaxArgs: 2},
	{Name: "argMax", CaseSensitive: true, MaxArgs: 2},
	{Name: "avg", MaxArgs: 1},
	{Name: "avgWeighted", CaseSensitive: true, MaxArgs: 2},
	{Name: "boundingRatio", CaseSensitive: true, MaxArgs: 2},
	{Name: "categoricalInformationValue", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "corr", MaxArgs: 2},
	{Name: "count", MaxArgs: 1},
	{Name: "covarPop", MaxArgs: 2},
	{Name: "covarSamp", MaxArgs: 2},
	{Name: "entropy", CaseSensitive: true, MaxArgs: 1},
	{Name: "exponentialMovingAverage", CaseSensitive: true, MaxArgs: 2},
	{Name: "groupArray", CaseSensitive: true, MaxArgs: 1},
	{Name: "groupArrayInsertAt", CaseSensitive: true, MaxArgs: 2},
	{Name: "groupArrayMovingAvg", CaseSensitive: true, MaxArgs: 1},
	{Name: "groupArrayMovingSum", CaseSensitive: true, MaxArgs: 1},
	{Name: "groupArraySample", CaseSensitive: true, MaxArgs: 1},
	{Name: "groupBitAnd", MaxArgs: 1, SingleValue: true, Aliases: []string{"BIT_AND"}},
	{Name: "groupBitOr", MaxArgs: 1, SingleValue: true, Aliases: []string{"BIT_OR"}},
	{Name: "groupBitXor", MaxArgs: 1, SingleValue: true, Aliases: []string{"BIT_XOR"}},
	{Name: "groupBitmap", CaseSensitive: true, MaxArgs: 1},
	{Name: "groupBitmapAnd", CaseSensitive: true, MaxArgs: 1},
	{Name: "groupBitmapOr", CaseSensitive: true, MaxArgs: 1},
	{Name: "groupBitmapXor", CaseSensitive: true, MaxArgs: 1},
	{Name: "groupUniqArray", CaseSensitive: true, MaxArgs: 1},
	{Name: "histogram", CaseSensitive: true, MaxArgs: 1},
	{Name: "kurtPop", CaseSensitive: true, MaxArgs: 1},
	{Name: "kurtSamp", CaseSensitive: true, MaxArgs: 1},
	{Name: "max", MaxArgs: 1, SingleValue: true},
	{Name: "maxMap", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "min", MaxArgs: 1, SingleValue: true},
	{Name: "minMap", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "quantile", CaseSensitive: true, MaxArgs: 1, Aliases: []string{"median"}},
	{Name: "quantileExact", CaseSensitive: true, MaxArgs: 1, Aliases: []string{"medianExact"}},
	{Name: "quantileTDigest", CaseSensitive: true, MaxArgs: 1, Aliases: []string{"medianTDigest"}},
	{Name: "quantileTiming", CaseSensitive: true, MaxArgs: 1, Aliases: []string{"medianTiming"}},
	{Name: "quantiles", CaseSensitive: true, MaxArgs: 1},
	{Name: "quantilesExact", CaseSensitive: true, MaxArgs: 1},
	{Name: "quantilesTDigest", CaseSensitive: true, MaxArgs: 1},
	{Name: "rankCorr", CaseSensitive: true, MaxArgs: 2},
	{Name: "simpleLinearRegression", CaseSensitive: true, MaxArgs: 2},
	{Name: "skewPop", CaseSensitive: true, MaxArgs: 1},
	{Name: "skewSamp", CaseSensitive: true, MaxArgs: 1},
	{Name: "stddevPop", MaxArgs: 1, Aliases: []string{"STDDEV_POP"}},
	{Name: "stddevSamp", MaxArgs: 1, Aliases: []string{"STDDEV_SAMP"}},
	{Name: "stochasticLinearRegression", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "stochasticLogisticRegression", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "sum", MaxArgs: 1},
	{Name: "sumMap", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "sumWithOverflow", CaseSensitive: true, MaxArgs: 1},
	{Name: "topK", CaseSensitive: true, MaxArgs: 1},
	{Name: "topKWeighted", CaseSensitive: true, MaxArgs: 2},
	{Name: "uniq", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "uniqCombined", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "uniqCombined64", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "uniqExact", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "uniqHLL12", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "uniqTheta", CaseSensitive: true, MaxArgs: UnlimitedArgs},
	{Name: "varPop", MaxArgs: 1, Aliases: []string{"VAR_POP"}},
	{Name: "varSamp", MaxArgs: 1, Aliases: []string{"VAR_SAMP"}},
}

// NewFunctionCatalog builds a catalog from the given descriptors. Every name or alias must be
// unique, otherwise an error wrapping ErrDuplicateName is returned.
func NewFunctionCatalog(descriptors []FunctionDescriptor) (*FunctionCatalog, error) {
	c := &FunctionCatalog{descriptors: make([]FunctionDescriptor, len(descriptors))}

	spellings := make([]spelling, len(descriptors))
	for i, d := range descriptors {
		if d.SingleValue && d.MaxArgs != UnlimitedArgs && d.ValueArgIndex >= d.MaxArgs {
			return nil, errors.Errorf("value argument %d out of range for %q", d.ValueArgIndex, d.Name)
		}

		d.Aliases = append([]string(nil), d.Aliases...)
		c.descriptors[i] = d
		spellings[i] = spelling{name: d.Name, aliases: d.Aliases, caseSensitive: d.CaseSensitive}
	}

	names, err := newRegistry(spellings)
	if err != nil {
		return nil, err
	}

	c.names = names
	return c, nil
}

// MustFunctionCatalog is like NewFunctionCatalog but panics on error.
func MustFunctionCatalog(descriptors []FunctionDescriptor) *FunctionCatalog {
	c, err := NewFunctionCatalog(descriptors)
	if err != nil {
		panic(err)
	}

	return c
}

// Resolve returns the descriptor registered under name.
func (c *FunctionCatalog) Resolve(name string) (FunctionDescriptor, error) {
	i, ok := c.names.lookup(name)
	if !ok {
		return FunctionDescriptor{}, errors.Wrapf(ErrUnknownFunction, "%q", name)
	}

	return c.descriptors[i], nil
}

// ResolveCombined resolves name, stripping combinator suffixes (sumIf, uniqArray, ...) until a
// registered function is found. The returned function keeps SingleValue only when every
// stripped combinator is If. If and Resample each take one extra argument.
func (c *FunctionCatalog) ResolveCombined(name string) (Function, error) {
	var stripped []string

	for rest := name; rest != ""; {
		if d, err := c.Resolve(rest); err == nil {
			fn := Function{FunctionDescriptor: d, Combinators: stripped}
			for _, comb := range stripped {
				if comb != "If" {
					fn.SingleValue = false
				}
				if (comb == "If" || comb == "Resample") && fn.MaxArgs != UnlimitedArgs {
					fn.MaxArgs++
				}
			}

			return fn, nil
		}

		comb := combinatorSuffix(rest)
		if comb == "" {
			break
		}

		stripped = append(stripped, comb)
		rest = strings.TrimSuffix(rest, comb)
	}

	return Function{}, errors.Wrapf(ErrUnknownFunction, "%q", name)
}

// IsAlias reports whether name is a registered secondary spelling rather than a canonical name.
func (c *FunctionCatalog) IsAlias(name string) bool {
	return c.names.isAlias(name)
}

// Descriptors returns a copy of all registered descriptors in registration order.
func (c *FunctionCatalog) Descriptors() []FunctionDescriptor {
	return append([]FunctionDescriptor(nil), c.descriptors...)
}

// AcceptsArgs reports whether n type arguments are within the function's limit.
func (d FunctionDescriptor) AcceptsArgs(n int) bool {
	return d.MaxArgs == UnlimitedArgs || n <= d.MaxArgs
}

func combinatorSuffix(name string) string {
	// longest match first so SimpleState wins over State
	best := ""
	for _, comb := range combinators {
		if len(name) > len(comb) && strings.HasSuffix(name, comb) && len(comb) > len(best) {
			best = comb
		}
	}

	return best
}
