package logger

import (
	"github.com/pseudomuto/rowbinary/pkg/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides a *zap.Logger built from the loaded configuration and flushes it on shutdown.
var Module = fx.Module("logger", fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
		l, err := New(cfg.Log)
		if err != nil {
			return nil, err
		}

		lc.Append(fx.StopHook(func() {
			_ = l.Sync()
		}))

		return l, nil
	},
))
