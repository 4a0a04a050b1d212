package docker

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultVersion is the ClickHouse image tag used when Options.Version is empty.
	DefaultVersion = "25.7"

	// httpPort is probed to decide when the server is ready.
	httpPort = nat.Port("8123/tcp")
)

type (
	// Options configures a ClickHouse container.
	Options struct {
		// Version is the clickhouse-server image tag, defaults to DefaultVersion.
		Version string

		// ConfigDir is mounted at /etc/clickhouse-server/config.d. Relative paths are resolved
		// against the working directory.
		ConfigDir string

		// InitScripts are .sql or .sh files run once the server is up, in order.
		InitScripts []string
	}

	// Container is a disposable ClickHouse server.
	Container struct {
		options   Options
		container *clickhouse.ClickHouseContainer
	}
)

// New returns a Container with the given options. Nothing is started until Start is called.
//
// Example:
//
//	c := docker.New(docker.Options{InitScripts: []string{"testdata/schema.sql"}})
//	if err := c.Start(ctx); err != nil {
//		return err
//	}
//	defer c.Stop(ctx)
//
//	dsn, err := c.GetDSN(ctx)
func New(opts Options) *Container {
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}

	return &Container{options: opts}
}

// Image returns the image reference the container runs.
func (c *Container) Image() string {
	return fmt.Sprintf("clickhouse/clickhouse-server:%s-alpine", c.options.Version)
}

// Start starts the ClickHouse container and waits for its HTTP interface to respond.
func (c *Container) Start(ctx context.Context) error {
	if c.container != nil {
		return errors.New("container is already running")
	}

	customizers, err := c.customizers()
	if err != nil {
		return err
	}

	ch, err := clickhouse.Run(ctx, c.Image(), customizers...)
	if err != nil {
		return errors.Wrap(err, "failed to start ClickHouse container")
	}

	c.container = ch
	return nil
}

func (c *Container) customizers() ([]testcontainers.ContainerCustomizer, error) {
	customizers := []testcontainers.ContainerCustomizer{
		clickhouse.WithUsername("default"),
		clickhouse.WithPassword(""),
		testcontainers.WithEnv(map[string]string{"CLICKHOUSE_DEFAULT_ACCESS_MANAGEMENT": "1"}),
		testcontainers.WithWaitStrategyAndDeadline(
			5*time.Minute,
			wait.
				NewHTTPStrategy("/").
				WithPort(httpPort).
				WithStatusCodeMatcher(func(status int) bool {
					return status == 200
				}),
		),
	}

	if c.options.ConfigDir != "" {
		dir, err := filepath.Abs(c.options.ConfigDir)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get absolute path for ConfigDir: %s", c.options.ConfigDir)
		}

		customizers = append(customizers, testcontainers.WithHostConfigModifier(func(hostConfig *container.HostConfig) {
			hostConfig.Mounts = append(hostConfig.Mounts, mount.Mount{
				Type:     mount.TypeBind,
				Source:   dir,
				Target:   "/etc/clickhouse-server/config.d",
				ReadOnly: true,
			})
		}))
	}

	if len(c.options.InitScripts) > 0 {
		scripts := make([]string, len(c.options.InitScripts))
		for i, s := range c.options.InitScripts {
			abs, err := filepath.Abs(s)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to get absolute path for init script: %s", s)
			}
			scripts[i] = abs
		}
		customizers = append(customizers, clickhouse.WithInitScripts(scripts...))
	}

	return customizers, nil
}

// Stop stops and removes the container. Stopping a container that is not running is a no-op.
func (c *Container) Stop(ctx context.Context) error {
	if c.container == nil {
		return nil
	}

	err := c.container.Terminate(ctx)
	c.container = nil

	return errors.Wrap(err, "failed to stop ClickHouse container")
}

// GetDSN returns a clickhouse:// DSN for the native protocol port.
func (c *Container) GetDSN(ctx context.Context) (string, error) {
	if c.container == nil {
		return "", errors.New("container is not running")
	}

	dsn, err := c.container.ConnectionString(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get connection string")
	}

	return dsn, nil
}

// GetHTTPDSN returns the base URL of the HTTP interface.
func (c *Container) GetHTTPDSN(ctx context.Context) (string, error) {
	if c.container == nil {
		return "", errors.New("container is not running")
	}

	host, err := c.container.Host(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get container host")
	}

	port, err := c.container.MappedPort(ctx, httpPort)
	if err != nil {
		return "", errors.Wrap(err, "failed to get container port")
	}

	return fmt.Sprintf("http://%s:%s", host, port.Port()), nil
}

// IsRunning returns true if the container is currently running
func (c *Container) IsRunning() bool {
	return c.container != nil
}
