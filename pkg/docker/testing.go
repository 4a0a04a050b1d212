package docker

import (
	"os"
	"os/exec"
	"testing"
)

// IntegrationEnvVar enables tests that need a ClickHouse container.
const IntegrationEnvVar = "ROWBINARY_INTEGRATION"

// SkipUnlessIntegration skips t in short mode, when IntegrationEnvVar is unset or when no docker
// daemon is reachable.
func SkipUnlessIntegration(t testing.TB) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv(IntegrationEnvVar) == "" {
		t.Skipf("set %s to run integration tests", IntegrationEnvVar)
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not available")
	}
	if err := exec.Command("docker", "ps").Run(); err != nil {
		t.Skip("docker daemon not running")
	}
}
