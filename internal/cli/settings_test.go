package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommandWithArgs returns the run command with its flags parsed the way
// cobra does it when invoked from the root.
func runCommandWithArgs(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := NewRootCommand(nil, nil)
	cmd, rest, err := root.Find(append([]string{"run"}, args...))
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(rest))
	return cmd
}

func TestAppConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "wavegrid.yaml", `
workers: 3
task-timeout: 45s
log-level: warn
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := appConfig(runCommandWithArgs(t, "--config", cfgFile), []string{"p.hcl"})
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, 45*time.Second, cfg.TaskTimeout)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("env beats file", func(t *testing.T) {
		t.Setenv("WAVEGRID_WORKERS", "5")
		t.Setenv("WAVEGRID_LOG_LEVEL", "error")
		cfg, err := appConfig(runCommandWithArgs(t, "--config", cfgFile), []string{"p.hcl"})
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Workers)
		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, 45*time.Second, cfg.TaskTimeout)
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv("WAVEGRID_WORKERS", "5")
		cfg, err := appConfig(runCommandWithArgs(t, "--config", cfgFile, "--workers", "7"), []string{"p.hcl"})
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Workers)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := appConfig(runCommandWithArgs(t), []string{"p.hcl"})
		require.NoError(t, err)
		assert.Zero(t, cfg.Workers)
		assert.Zero(t, cfg.TaskTimeout)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
	})
}

func TestAppConfig_MissingConfigFile(t *testing.T) {
	_, err := appConfig(runCommandWithArgs(t, "--config", "/does/not/exist.yaml"), []string{"p.hcl"})
	assert.ErrorContains(t, err, "failed to read config file")
}
