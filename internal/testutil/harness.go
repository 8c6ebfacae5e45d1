package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/wavegrid/internal/app"
	"github.com/vk/wavegrid/internal/executor"
	"github.com/vk/wavegrid/internal/registry"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	State     *executor.ExecutionState
	Err       error
	App       *app.App
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithConfig(context.Background(), t, files, app.Config{Workers: 4}, modules...)
}

// RunIntegrationTestWithConfig writes files (relative path -> content) into a
// temp dir, points the app at that dir and runs it with the given modules.
// cfg.PipelinePaths is overwritten.
func RunIntegrationTestWithConfig(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	cfg.PipelinePaths = []string{dir}

	testApp, logBuffer := app.SetupAppTest(t, &cfg, modules...)
	state, err := testApp.Run(ctx)

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		State:     state,
		Err:       err,
		App:       testApp,
	}
}

// WriteFiles writes files under a fresh temp dir and returns the dir.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}
