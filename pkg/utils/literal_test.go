package utils_test

import (
	"testing"

	"github.com/pseudomuto/rowbinary/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestQuoteString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple", input: "abc", expected: "'abc'"},
		{name: "empty", input: "", expected: "''"},
		{name: "quote", input: "it's", expected: `'it\'s'`},
		{name: "backslash", input: `a\b`, expected: `'a\\b'`},
		{name: "control characters", input: "a\nb\tc\x00", expected: `'a\nb\tc\0'`},
		{name: "unicode", input: "héllo", expected: "'héllo'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, utils.QuoteString(tt.input))
		})
	}
}

func TestUnquoteString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple", input: "'abc'", expected: "abc"},
		{name: "empty", input: "''", expected: ""},
		{name: "escaped quote", input: `'it\'s'`, expected: "it's"},
		{name: "doubled quote", input: "'it''s'", expected: "it's"},
		{name: "escapes", input: `'a\nb\tc\rd\0e\bf\fg'`, expected: "a\nb\tc\rd\x00e\bf\fg"},
		{name: "unknown escape", input: `'\q'`, expected: "q"},
		{name: "not quoted", input: "abc", expected: "abc"},
		{name: "single quote char", input: "'", expected: "'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, utils.UnquoteString(tt.input))
		})
	}
}

func TestQuoteStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", "it's", "tab\there", `back\slash`, "nul\x00"} {
		require.Equal(t, s, utils.UnquoteString(utils.QuoteString(s)))
	}
}
