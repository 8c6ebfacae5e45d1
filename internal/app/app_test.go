package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/wavegrid/internal/node"
	"github.com/vk/wavegrid/internal/pipeline"
	"github.com/vk/wavegrid/modules/fail"
	"github.com/vk/wavegrid/modules/print"
	"github.com/vk/wavegrid/modules/sleep"
)

func writePipeline(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

const failingPipeline = `
pipeline {
  workers = 2
}

task "load" {
  runner = "sleep"
  arguments {
    duration = "1ms"
    result   = "10"
  }
}

task "a" {
  runner     = "print"
  depends_on = ["load"]
  arguments {
    message = "analysis a"
  }
}

task "b" {
  runner     = "fail"
  depends_on = ["load"]
  arguments {
    message = "analysis b broke"
  }
}

task "agg" {
  runner     = "print"
  depends_on = ["a", "b"]
}
`

func TestRun_FailureIsolation(t *testing.T) {
	out := &SafeBuffer{}
	cfg := &Config{PipelinePaths: []string{writePipeline(t, failingPipeline)}}
	app, logs := SetupAppTest(t, cfg, &sleep.Module{}, &print.Module{Out: out}, &fail.Module{})

	state, err := app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, node.Succeeded, state.State("load"))
	assert.Equal(t, node.Succeeded, state.State("a"))
	assert.Equal(t, node.Failed, state.State("b"))
	assert.Equal(t, node.Skipped, state.State("agg"))

	res, ok := state.Get("agg")
	require.True(t, ok)
	assert.Equal(t, "b", res.CausedBy)

	res, ok = state.Get("b")
	require.True(t, ok)
	assert.EqualError(t, res.Err, "analysis b broke")

	assert.Contains(t, out.String(), "[a] analysis a")
	assert.Contains(t, out.String(), "load -> 10")
	assert.NotContains(t, out.String(), "[agg]")

	summary := state.Summary()
	assert.False(t, summary.OK())
	assert.Equal(t, 1, summary.Skipped)
	assert.Contains(t, logs.String(), "Execution finished.")
}

func TestRun_SettingsPrecedence(t *testing.T) {
	path := writePipeline(t, failingPipeline)

	app, logs := SetupAppTest(t, &Config{PipelinePaths: []string{path}}, &sleep.Module{}, &print.Module{Out: &bytes.Buffer{}}, &fail.Module{})
	_, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "workers=2")

	app, logs = SetupAppTest(t, &Config{PipelinePaths: []string{path}, Workers: 3}, &sleep.Module{}, &print.Module{Out: &bytes.Buffer{}}, &fail.Module{})
	_, err = app.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "workers=3")
}

func TestRun_UnknownRunner(t *testing.T) {
	path := writePipeline(t, `
task "x" {
  runner = "does_not_exist"
}
`)
	app, _ := SetupAppTest(t, &Config{PipelinePaths: []string{path}}, &sleep.Module{})

	_, err := app.Run(context.Background())
	var unknown *pipeline.UnknownRunnerError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "does_not_exist", unknown.Runner)
}

func TestRun_TaskTimeoutFromPipeline(t *testing.T) {
	path := writePipeline(t, `
pipeline {
  task_timeout = "20ms"
}

task "slow" {
  runner = "sleep"
  arguments {
    duration = "5s"
  }
}
`)
	app, _ := SetupAppTest(t, &Config{PipelinePaths: []string{path}}, &sleep.Module{})

	start := time.Now()
	state, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, node.Failed, state.State("slow"))
}

func TestRun_Trace(t *testing.T) {
	path := writePipeline(t, `
task "nap" {
  runner = "sleep"
  arguments {
    duration = "1ms"
  }
}
`)
	app, logs := SetupAppTest(t, &Config{PipelinePaths: []string{path}, Trace: true}, &sleep.Module{})

	state, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, state.Summary().OK())
	assert.Contains(t, logs.String(), `"Name":"task nap"`)
}

func TestHandler(t *testing.T) {
	path := writePipeline(t, failingPipeline)
	app, _ := SetupAppTest(t, &Config{PipelinePaths: []string{path}}, &sleep.Module{}, &print.Module{Out: &bytes.Buffer{}}, &fail.Module{})
	_, err := app.Run(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, `wavegrid_tasks_total{state="FAILED"} 1`)
	assert.Contains(t, body, `wavegrid_tasks_total{state="SKIPPED"} 1`)
	assert.Contains(t, body, `wavegrid_runs_total{outcome="completed"} 1`)
}

func TestHealthServerLifecycle(t *testing.T) {
	app, _ := SetupAppTest(t, &Config{PipelinePaths: []string{"unused"}})
	ctx := context.Background()

	require.NoError(t, app.startServer(ctx, 0))
	require.NotNil(t, app.httpServer)
	require.NoError(t, app.closeServer(ctx))
	require.NoError(t, app.closeServer(ctx))
}
