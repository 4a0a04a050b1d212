package testutil

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
)

// RunCommand runs command as the root of a test app with stdin as its input and returns what
// it wrote to stdout.
func RunCommand(t testing.TB, command *cli.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	return RunCommandWithContext(context.Background(), t, command, stdin, args...)
}

// RunCommandWithContext is like RunCommand with a caller supplied context.
func RunCommandWithContext(ctx context.Context, t testing.TB, command *cli.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &cli.Command{
		Name:      "test",
		Flags:     command.Flags,
		Action:    command.Action,
		Reader:    strings.NewReader(stdin),
		Writer:    &out,
		ErrWriter: &out,
	}

	err := app.Run(ctx, append([]string{"test"}, args...))
	return out.String(), err
}
