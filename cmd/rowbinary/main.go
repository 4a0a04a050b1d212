package main

import (
	"context"
	"os"

	"github.com/pseudomuto/rowbinary/pkg/cmd"
	"github.com/pseudomuto/rowbinary/pkg/config"
	"github.com/pseudomuto/rowbinary/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	fx.New(
		fx.Supply(
			os.Args,
			&cmd.Version{Version: version, Commit: commit, Timestamp: date},
			fx.Annotate(context.Background(), fx.As(new(context.Context))),
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			fxLogger := &fxevent.ZapLogger{Logger: l.Named("fx")}
			fxLogger.UseLogLevel(zapcore.DebugLevel)
			return fxLogger
		}),
		config.Module,
		logger.Module,
		cmd.Module,
	).Run()
}
