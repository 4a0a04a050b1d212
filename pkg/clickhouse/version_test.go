package clickhouse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input               string
		major, minor, patch int
		err                 bool
	}{
		{input: "21.10.3.9", major: 21, minor: 10, patch: 3},
		{input: "21.10.3.9 (official build)", major: 21, minor: 10, patch: 3},
		{input: "22.8.2.11-testing", major: 22, minor: 8, patch: 2},
		{input: "25.7.1", major: 25, minor: 7, patch: 1},
		{input: "20.3", major: 20, minor: 3},
		{input: "  24.8.4.13\n", major: 24, minor: 8, patch: 4},
		{input: "24", err: true},
		{input: "invalid", err: true},
		{input: "", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			v, err := parseVersion(tt.input)
			if tt.err {
				require.ErrorContains(t, err, "invalid version format")
				return
			}

			require.NoError(t, err)
			require.Equal(t, &VersionInfo{Major: tt.major, Minor: tt.minor, Patch: tt.patch, Raw: tt.input}, v)
		})
	}
}

func TestVersionInfo_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "24.8.4", VersionInfo{Major: 24, Minor: 8, Patch: 4, Raw: "24.8.4.13"}.String())
	require.Equal(t, "20.3.0", VersionInfo{Major: 20, Minor: 3}.String())
}

func TestVersionInfo_IsAtLeast(t *testing.T) {
	t.Parallel()

	v := VersionInfo{Major: 23, Minor: 8}
	require.True(t, v.IsAtLeast(23, 8))
	require.True(t, v.IsAtLeast(22, 12))
	require.True(t, v.IsAtLeast(23, 3))
	require.False(t, v.IsAtLeast(24, 1))
	require.False(t, v.IsAtLeast(23, 9))
}
