package config

import (
	"os"

	"github.com/pseudomuto/rowbinary/pkg/consts"
	"go.uber.org/fx"
)

// Module provides the *Config.
var Module = fx.Module("config", fx.Provide(
	// The file named by ROWBINARY_CONFIG, or rowbinary.yaml, is optional. Without one the defaults
	// apply so that commands like parse work anywhere.
	func() (*Config, error) {
		path := os.Getenv(consts.ConfigEnvVar)
		if path == "" {
			path = consts.ConfigFile
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return Default(), nil
			}
		}

		return LoadConfigFile(path)
	},
))
