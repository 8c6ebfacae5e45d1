package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/vk/wavegrid/internal/hcl"
	"github.com/vk/wavegrid/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates an App backed by the HCL loader, logging at debug
// level into the returned buffer. Set WAVEGRID_TEST_LOGS=true to dump the
// log when the test finishes.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(logBuffer, cfg, hcl.NewLoader().WithEnv(map[string]string{}), modules...)

	t.Cleanup(func() {
		if os.Getenv("WAVEGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
