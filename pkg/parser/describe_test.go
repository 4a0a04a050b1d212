package parser_test

import (
	"bytes"
	"testing"

	. "github.com/pseudomuto/rowbinary/pkg/parser"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name  string // Test name, also used as golden file name
		input string
	}{
		{
			name:  "columns",
			input: "id UInt64, tags Array(LowCardinality(Nullable(String))), amount Decimal(18, 4), ts DateTime64(3, 'UTC'), m Map(String, Tuple(a UInt8, b Nullable(String)))",
		},
		{
			name:  "aggregates",
			input: "s SimpleAggregateFunction(sum, UInt64), q AggregateFunction(quantiles(0.5, 0.9), Float64), x AggregateFunction(maxIf, Nullable(Int32), UInt8), e Enum8('a' = 1, 'b' = 2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cols, err := ParseColumns(tt.input)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Describe(&buf, cols...))
			golden.Assert(t, buf.String(), tt.name+".golden")
		})
	}
}
