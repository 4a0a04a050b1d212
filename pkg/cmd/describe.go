package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/clickhouse"
	"github.com/pseudomuto/rowbinary/pkg/config"
	"github.com/pseudomuto/rowbinary/pkg/consts"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// describeCmd creates the describe command, which resolves the column types of tables on a
// live ClickHouse server. Without a table argument it lists the tables of the database.
//
// The DSN comes from --dsn, ROWBINARY_DSN or the clickhouse.dsn config key, in that order.
// TLS files and the default database come from the config file.
//
// Examples:
//
//	rowbinary describe --dsn localhost:9000 analytics.events
//	rowbinary describe --format yaml events sessions
//	rowbinary describe --database analytics
func describeCmd(cfg *config.Config, log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "describe",
		Usage:     "Print the column types of ClickHouse tables",
		ArgsUsage: "[table...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "ClickHouse address (host:port or clickhouse://...)",
				Sources: cli.EnvVars(consts.DSNEnvVar),
			},
			&cli.StringFlag{
				Name:  "database",
				Usage: "database for unqualified table names",
			},
			outputFormatFlag("output format", formatText, formatText, formatYAML, formatJSON),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := connect(ctx, cmd, cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			version, err := client.GetVersion(ctx)
			if err != nil {
				return err
			}
			log.Debug("connected", zap.Stringer("version", version), zap.String("database", client.Database()))

			if cmd.Args().Len() == 0 {
				tables, err := client.Tables(ctx, client.Database())
				if err != nil {
					return err
				}
				for _, t := range tables {
					fmt.Fprintln(cmd.Writer, t)
				}
				return nil
			}

			for _, table := range cmd.Args().Slice() {
				cols, err := client.TableColumns(ctx, table)
				if err != nil {
					return errors.Wrapf(err, "failed to describe %s", table)
				}

				if cmd.String("format") == formatText {
					fmt.Fprintf(cmd.Writer, "-- %s\n", table)
				}
				if err := printColumns(cmd.Writer, cmd.String("format"), cols); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func connect(ctx context.Context, cmd *cli.Command, cfg *config.Config, log *zap.Logger) (*clickhouse.Client, error) {
	dsn := cmd.String("dsn")
	if dsn == "" {
		dsn = cfg.ClickHouse.DSN
	}

	database := cmd.String("database")
	if database == "" {
		database = cfg.ClickHouse.Database
	}

	p, err := cfg.NewParser()
	if err != nil {
		return nil, err
	}

	return clickhouse.NewClientWithOptions(ctx, dsn, clickhouse.ClientOptions{
		TLSSettings: clickhouse.TLSSettings{
			CertFile: cfg.ClickHouse.TLS.CertFile,
			KeyFile:  cfg.ClickHouse.TLS.KeyFile,
			CAFile:   cfg.ClickHouse.TLS.CAFile,
		},
		Database: database,
		Parser:   p,
		Logger:   log,
	})
}
