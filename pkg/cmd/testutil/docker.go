package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/pseudomuto/rowbinary/pkg/docker"
	"github.com/stretchr/testify/require"
)

// StartClickHouse starts a ClickHouse container running the given init scripts and returns its
// native protocol DSN. The test is skipped unless integration tests are enabled and the
// container is stopped during cleanup.
func StartClickHouse(t *testing.T, initScripts ...string) (*docker.Container, string) {
	t.Helper()

	docker.SkipUnlessIntegration(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container := docker.New(docker.Options{InitScripts: initScripts})
	require.NoError(t, container.Start(ctx), "Failed to start ClickHouse container")

	t.Cleanup(func() {
		_ = container.Stop(context.Background())
	})

	dsn, err := container.GetDSN(ctx)
	require.NoError(t, err, "Failed to get container DSN")

	return container, dsn
}
