package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/wavegrid/internal/cli"
)

func TestRun_ParseErrorIsUsage(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	code := run(context.Background(), &out, &errOut, []string{"run", "--this-is-not-a-valid-flag"})

	assert.Equal(t, cli.ExitUsage, code)
	assert.Contains(t, errOut.String(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_SyntaxErrorIsUsage(t *testing.T) {
	t.Parallel()

	invalidHCL := `
		task "A" {
			runner = "print"
			arguments {
		// Missing closing brace here
	`
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600))

	var out, errOut bytes.Buffer
	code := run(context.Background(), &out, &errOut, []string{"run", filePath})

	assert.Equal(t, cli.ExitUsage, code)
	assert.Contains(t, errOut.String(), "failed to load pipeline")
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(`
task "nap" {
  runner = "sleep"
  arguments {
    duration = "10ms"
  }
}
`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := run(ctx, &out, &errOut, []string{"run", filePath})

	assert.Equal(t, cli.ExitTaskFailed, code)
	assert.Contains(t, out.String(), "Cancelled:")
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	assert.Equal(t, cli.ExitOK, run(context.Background(), &out, &errOut, []string{"version"}))
	assert.Contains(t, out.String(), "wavegrid")
}
