package catalog_test

import (
	"testing"

	. "github.com/pseudomuto/rowbinary/pkg/catalog"
	"github.com/stretchr/testify/require"
)

func TestDefaultFunctionsIntegrity(t *testing.T) {
	t.Parallel()

	_, err := NewFunctionCatalog(DefaultFunctions.Descriptors())
	require.NoError(t, err)

	_, err = NewFunctionCatalog([]FunctionDescriptor{
		{Name: "max", MaxArgs: 1},
		{Name: "maximum", MaxArgs: 1, Aliases: []string{"max"}},
	})
	require.ErrorIs(t, err, ErrDuplicateName)

	_, err = NewFunctionCatalog([]FunctionDescriptor{
		{Name: "pick", MaxArgs: 2, SingleValue: true, ValueArgIndex: 2},
	})
	require.Error(t, err)
}

func TestFunctionCatalog_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		canonical   string
		singleValue bool
	}{
		{"max", "max", true},
		{"MAX", "max", true},
		{"any", "any", true},
		{"first_value", "any", true},
		{"anyLast", "anyLast", true},
		{"median", "quantile", false},
		{"uniqExact", "uniqExact", false},
		{"BIT_OR", "groupBitOr", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := DefaultFunctions.Resolve(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.canonical, d.Name)
			require.Equal(t, tt.singleValue, d.SingleValue)
		})
	}

	for _, name := range []string{"nope", "ANYLAST", "Quantiles", ""} {
		_, err := DefaultFunctions.Resolve(name)
		require.ErrorIs(t, err, ErrUnknownFunction, name)
	}

	require.True(t, DefaultFunctions.IsAlias("median"))
	require.False(t, DefaultFunctions.IsAlias("quantile"))
}

func TestFunctionCatalog_ResolveCombined(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		canonical   string
		combinators []string
		singleValue bool
		maxArgs     int
	}{
		{"max", "max", nil, true, 1},
		{"maxIf", "max", []string{"If"}, true, 2},
		{"sumIf", "sum", []string{"If"}, false, 2},
		{"uniqMerge", "uniq", []string{"Merge"}, false, UnlimitedArgs},
		{"anyArray", "any", []string{"Array"}, false, 1},
		{"sumIfArray", "sum", []string{"Array", "If"}, false, 2},
		{"groupArray", "groupArray", nil, false, 1},
		{"maxSimpleState", "max", []string{"SimpleState"}, false, 1},
		{"sumResample", "sum", []string{"Resample"}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fn, err := DefaultFunctions.ResolveCombined(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.canonical, fn.Name)
			require.Equal(t, tt.combinators, fn.Combinators)
			require.Equal(t, tt.singleValue, fn.SingleValue)
			require.Equal(t, tt.maxArgs, fn.MaxArgs)
		})
	}

	_, err := DefaultFunctions.ResolveCombined("fooIf")
	require.ErrorIs(t, err, ErrUnknownFunction)
}

func TestFunctionDescriptor_AcceptsArgs(t *testing.T) {
	t.Parallel()

	d, err := DefaultFunctions.Resolve("argMax")
	require.NoError(t, err)
	require.True(t, d.AcceptsArgs(2))
	require.False(t, d.AcceptsArgs(3))

	d, err = DefaultFunctions.Resolve("uniq")
	require.NoError(t, err)
	require.True(t, d.AcceptsArgs(12))
}
