package compare_test

import (
	"math/big"
	"testing"

	. "github.com/pseudomuto/rowbinary/pkg/compare"
	"github.com/pseudomuto/rowbinary/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestNilCheck(t *testing.T) {
	tests := []struct {
		name             string
		a, b             *int
		expectedEqual    bool
		expectedContinue bool
	}{
		{name: "both nil", expectedEqual: true},
		{name: "first nil", b: utils.Ptr(5)},
		{name: "second nil", a: utils.Ptr(5)},
		{name: "neither nil", a: utils.Ptr(5), b: utils.Ptr(5), expectedContinue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			equal, shouldContinue := NilCheck(tt.a, tt.b)
			require.Equal(t, tt.expectedEqual, equal)
			require.Equal(t, tt.expectedContinue, shouldContinue)
		})
	}
}

func TestPointersWithEqual(t *testing.T) {
	bigEqual := func(x, y *big.Int) bool { return x.Cmp(y) == 0 }

	tests := []struct {
		name     string
		a, b     *big.Int
		expected bool
	}{
		{name: "both nil", expected: true},
		{name: "first nil", b: big.NewInt(1)},
		{name: "second nil", a: big.NewInt(1)},
		{name: "equal values", a: big.NewInt(42), b: big.NewInt(42), expected: true},
		{name: "different values", a: big.NewInt(42), b: big.NewInt(-42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, PointersWithEqual(tt.a, tt.b, bigEqual))
		})
	}
}

func TestSlices(t *testing.T) {
	eq := func(a, b string) bool { return a == b }

	tests := []struct {
		name     string
		a, b     []string
		expected bool
	}{
		{name: "both nil", expected: true},
		{name: "nil and empty", b: []string{}, expected: true},
		{name: "same elements", a: []string{"x", "y"}, b: []string{"x", "y"}, expected: true},
		{name: "different order", a: []string{"x", "y"}, b: []string{"y", "x"}},
		{name: "different length", a: []string{"x"}, b: []string{"x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, Slices(tt.a, tt.b, eq))
		})
	}
}
