package consts

import "os"

const (
	// ConfigFile is the configuration file looked up in the working directory.
	ConfigFile = "rowbinary.yaml"

	// ConfigEnvVar overrides the configuration file path.
	ConfigEnvVar = "ROWBINARY_CONFIG"

	// DSNEnvVar overrides the ClickHouse DSN.
	DSNEnvVar = "ROWBINARY_DSN"

	// DefaultDSN is the ClickHouse native protocol address used when none is configured.
	DefaultDSN = "localhost:9000"

	// DefaultTimezone is assigned to DateTime columns declared without a zone.
	DefaultTimezone = "UTC"

	// DefaultLogLevel is the zap level used when none is configured.
	DefaultLogLevel = "info"

	// DefaultLogEncoding is the zap encoding used when none is configured.
	DefaultLogEncoding = "console"

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)
)
