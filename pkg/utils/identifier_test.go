package utils_test

import (
	"testing"

	"github.com/pseudomuto/rowbinary/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain identifier", input: "user_id", expected: "user_id"},
		{name: "leading underscore", input: "_ts", expected: "_ts"},
		{name: "leading digit", input: "1col", expected: "`1col`"},
		{name: "with spaces", input: "user id", expected: "`user id`"},
		{name: "with dot", input: "n.key", expected: "`n.key`"},
		{name: "with backtick", input: "a`b", expected: "`a\\`b`"},
		{name: "with backslash", input: `a\b`, expected: "`a\\\\b`"},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, utils.QuoteIdentifier(tt.input))
		})
	}
}

func TestBacktickQualifiedName(t *testing.T) {
	tests := []struct {
		name     string
		database *string
		table    string
		expected string
	}{
		{name: "with database", database: utils.Ptr("analytics"), table: "events", expected: "`analytics`.`events`"},
		{name: "nil database", table: "events", expected: "`events`"},
		{name: "empty database", database: utils.Ptr(""), table: "events", expected: "`events`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, utils.BacktickQualifiedName(tt.database, tt.table))
		})
	}
}

func TestIsBackticked(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{input: "`table`", expected: true},
		{input: "`a``b`", expected: true},
		{input: "`a\\`b`", expected: true},
		{input: "table", expected: false},
		{input: "`db`.`table`", expected: false},
		{input: "`", expected: false},
		{input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, utils.IsBackticked(tt.input))
		})
	}
}

func TestUnquoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "backticked", input: "`table`", expected: "table"},
		{name: "doubled backtick", input: "`a``b`", expected: "a`b"},
		{name: "escaped backtick", input: "`a\\`b`", expected: "a`b"},
		{name: "escaped backslash", input: "`a\\\\b`", expected: `a\b`},
		{name: "with spaces", input: "`user id`", expected: "user id"},
		{name: "not backticked", input: "table", expected: "table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, utils.UnquoteIdentifier(tt.input))
		})
	}
}

func TestQuoteIdentifierRoundTrip(t *testing.T) {
	for _, name := range []string{"id", "user id", "a`b", `c\d`, "n.key"} {
		require.Equal(t, name, utils.UnquoteIdentifier(utils.QuoteIdentifier(name)))
	}
}
