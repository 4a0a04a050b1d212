// Package docker runs disposable ClickHouse servers with testcontainers.
//
// It backs the integration tests of the clickhouse and cmd packages, which compare the types a
// real server reports against what the parser resolves.
//
//	func TestSomething(t *testing.T) {
//		docker.SkipUnlessIntegration(t)
//
//		c := docker.New(docker.Options{InitScripts: []string{"testdata/schema.sql"}})
//		require.NoError(t, c.Start(ctx))
//		t.Cleanup(func() { _ = c.Stop(context.Background()) })
//
//		dsn, err := c.GetDSN(ctx)
//		...
//	}
//
// Integration tests only run when ROWBINARY_INTEGRATION is set and -short is not given.
package docker
