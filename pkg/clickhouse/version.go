package clickhouse

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// versionRegex matches 21.10.3.9, 21.10.3 and 21.10.
var versionRegex = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// VersionInfo represents parsed ClickHouse version information
type VersionInfo struct {
	Major int    // Major version number (e.g., 21)
	Minor int    // Minor version number (e.g., 10)
	Patch int    // Patch version number (e.g., 3)
	Raw   string // Raw version string from ClickHouse
}

// String returns the version as a string in format "major.minor.patch"
func (v VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsAtLeast checks if this version is at least the specified version
func (v VersionInfo) IsAtLeast(major, minor int) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// GetVersion retrieves and parses the ClickHouse version from the server
func (c *Client) GetVersion(ctx context.Context) (*VersionInfo, error) {
	var versionStr string
	if err := c.conn.QueryRow(ctx, "SELECT version()").Scan(&versionStr); err != nil {
		return nil, errors.Wrap(err, "failed to query ClickHouse version")
	}

	version, err := parseVersion(versionStr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse ClickHouse version: %s", versionStr)
	}

	c.logger.Debug("server version", zap.Stringer("version", version))
	return version, nil
}

// parseVersion parses version strings such as "21.10.3.9", "21.10.3.9-testing" or
// "21.10.3.9 (official build)".
func parseVersion(versionStr string) (*VersionInfo, error) {
	cleaned := strings.TrimSpace(versionStr)
	if i := strings.IndexAny(cleaned, " -"); i != -1 {
		cleaned = cleaned[:i]
	}

	matches := versionRegex.FindStringSubmatch(cleaned)
	if matches == nil {
		return nil, errors.Errorf("invalid version format: %q", versionStr)
	}

	v := &VersionInfo{Raw: versionStr}
	for i, dst := range []*int{&v.Major, &v.Minor, &v.Patch} {
		if matches[i+1] == "" {
			continue
		}

		n, err := strconv.Atoi(matches[i+1])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid version component %q", matches[i+1])
		}
		*dst = n
	}

	return v, nil
}
