package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/config"
	"github.com/pseudomuto/rowbinary/pkg/consts"
	"github.com/pseudomuto/rowbinary/pkg/logger"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
		Config     *config.Config
		Logger     *zap.Logger
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run registers the rowbinary CLI application to run once the fx app has started. The
// application shuts fx down with exit code 1 when the command fails and 0 otherwise.
//
// Global Flags:
//   - --config, -c: Configuration file (also ROWBINARY_CONFIG, defaults to ./rowbinary.yaml)
//
// The config and logger are provided by fx before any flag is parsed. When --config names a
// different file, both are reloaded in place so that every command sees the same values.
//
// Example usage:
//
//	rowbinary parse 'id UInt64, tags Array(LowCardinality(String))'
//	rowbinary --config prod.yaml describe events
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := &cli.Command{
		Name:  "rowbinary",
		Usage: "Parse ClickHouse column types and read or write RowBinary streams",
		Description: `rowbinary resolves ClickHouse column type declarations into typed trees and
converts between the RowBinary family of formats and YAML or JSON rows.`,
		Version: p.Version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the rowbinary config file",
				Sources: cli.EnvVars(consts.ConfigEnvVar),
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Before:   reloadConfig(p.Config, p.Logger),
		Commands: p.Commands,
	}

	p.Lifecycle.Append(fx.StartHook(func() {
		// Commands may stream for longer than the fx start timeout.
		go func() {
			code := 0
			if err := app.Run(p.Ctx, p.Args); err != nil {
				p.Logger.Error("command failed", zap.Error(err))
				code = 1
			}

			_ = p.Shutdowner.Shutdown(fx.ExitCode(code))
		}()
	}))
}

func reloadConfig(cfg *config.Config, log *zap.Logger) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		path := cmd.String("config")
		if path == "" {
			return ctx, nil
		}

		loaded, err := config.LoadConfigFile(path)
		if err != nil {
			return ctx, err
		}

		l, err := logger.New(loaded.Log)
		if err != nil {
			return ctx, errors.Wrapf(err, "invalid log settings in %s", path)
		}

		*cfg = *loaded
		*log = *l
		log.Debug("loaded config", zap.String("path", path))
		return ctx, nil
	}
}
