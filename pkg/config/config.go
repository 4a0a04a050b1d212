package config

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/consts"
	"github.com/pseudomuto/rowbinary/pkg/parser"
	"gopkg.in/yaml.v3"
)

type (
	// Parser holds the settings used to build a parser.Parser.
	Parser struct {
		// Timezone is the IANA zone assigned to DateTime columns declared without one.
		Timezone string `yaml:"timezone"`

		// MaxArrayDepth bounds type nesting. Zero selects parser.DefaultMaxDepth.
		MaxArrayDepth int `yaml:"max_array_depth,omitempty"`

		// StopWords are appended to the built-in alias/codec/default/materialized/ttl list.
		StopWords []string `yaml:"stop_words,omitempty"`
	}

	// TLS holds the files used for mTLS connections to ClickHouse. TLS is enabled when CertFile is
	// set.
	TLS struct {
		CertFile string `yaml:"cert_file,omitempty"`
		KeyFile  string `yaml:"key_file,omitempty"`
		CAFile   string `yaml:"ca_file,omitempty"`
	}

	// ClickHouse holds the connection settings of the metadata client.
	ClickHouse struct {
		// DSN is either host:port or a clickhouse:// URL.
		DSN string `yaml:"dsn"`

		// Database is used when a table name is not qualified.
		Database string `yaml:"database,omitempty"`

		TLS TLS `yaml:"tls,omitempty"`
	}

	// Log configures the zap logger.
	Log struct {
		Level    string `yaml:"level"`
		Encoding string `yaml:"encoding"`
	}

	// Config is the contents of rowbinary.yaml.
	Config struct {
		Parser     Parser     `yaml:"parser"`
		ClickHouse ClickHouse `yaml:"clickhouse"`
		Log        Log        `yaml:"log"`
	}
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig parses a configuration from r. Missing keys, or an empty document, take their
// default values.
//
// Example:
//
//	cfg, err := config.LoadConfig(strings.NewReader(`
//	parser:
//	  timezone: Europe/Berlin
//	clickhouse:
//	  dsn: clickhouse://default:@localhost:9000/default
//	`))
//	if err != nil {
//		return err
//	}
//
//	p, err := cfg.Parser()
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if cfg.Parser.MaxArrayDepth < 0 {
		return nil, errors.Errorf("max_array_depth must not be negative, got %d", cfg.Parser.MaxArrayDepth)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// ParserOptions converts the parser section to parser.Options.
func (c *Config) ParserOptions() (parser.Options, error) {
	loc, err := time.LoadLocation(c.Parser.Timezone)
	if err != nil {
		return parser.Options{}, errors.Wrapf(err, "invalid timezone %q", c.Parser.Timezone)
	}

	return parser.Options{
		Timezone:  loc,
		MaxDepth:  c.Parser.MaxArrayDepth,
		StopWords: append([]string(nil), c.Parser.StopWords...),
	}, nil
}

// NewParser builds a parser.Parser from the parser section.
func (c *Config) NewParser() (*parser.Parser, error) {
	opts, err := c.ParserOptions()
	if err != nil {
		return nil, err
	}

	return parser.New(opts), nil
}

func (c *Config) applyDefaults() {
	if c.Parser.Timezone == "" {
		c.Parser.Timezone = consts.DefaultTimezone
	}
	if c.ClickHouse.DSN == "" {
		c.ClickHouse.DSN = consts.DefaultDSN
	}
	if c.Log.Level == "" {
		c.Log.Level = consts.DefaultLogLevel
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = consts.DefaultLogEncoding
	}
}
