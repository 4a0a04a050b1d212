package docker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pseudomuto/rowbinary/pkg/consts"
	"github.com/pseudomuto/rowbinary/pkg/docker"
	"github.com/stretchr/testify/require"
)

func TestContainer_Defaults(t *testing.T) {
	t.Parallel()

	c := docker.New(docker.Options{})
	require.Equal(t, "clickhouse/clickhouse-server:"+docker.DefaultVersion+"-alpine", c.Image())
	require.False(t, c.IsRunning())

	c = docker.New(docker.Options{Version: "24.3"})
	require.Equal(t, "clickhouse/clickhouse-server:24.3-alpine", c.Image())
}

func TestContainer_NotRunning(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := docker.New(docker.Options{})

	require.NoError(t, c.Stop(ctx))

	_, err := c.GetDSN(ctx)
	require.EqualError(t, err, "container is not running")

	_, err = c.GetHTTPDSN(ctx)
	require.EqualError(t, err, "container is not running")
}

func TestContainer_StartStop(t *testing.T) {
	docker.SkipUnlessIntegration(t)

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "config.d")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "logger.xml"), []byte(`<clickhouse>
    <logger>
        <level>warning</level>
        <console>true</console>
    </logger>
</clickhouse>`), consts.ModeFile))

	script := filepath.Join(tmpDir, "init.sql")
	require.NoError(t, os.WriteFile(script, []byte("CREATE DATABASE IF NOT EXISTS fixtures;\n"), consts.ModeFile))

	c := docker.New(docker.Options{ConfigDir: configDir, InitScripts: []string{script}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	defer func() { _ = c.Stop(context.Background()) }()

	require.NoError(t, c.Start(ctx))
	require.True(t, c.IsRunning())
	require.EqualError(t, c.Start(ctx), "container is already running")

	dsn, err := c.GetDSN(ctx)
	require.NoError(t, err)
	require.Contains(t, dsn, "clickhouse://")

	httpDSN, err := c.GetHTTPDSN(ctx)
	require.NoError(t, err)
	require.Contains(t, httpDSN, "http://")

	require.NoError(t, c.Stop(ctx))
	require.False(t, c.IsRunning())
}
