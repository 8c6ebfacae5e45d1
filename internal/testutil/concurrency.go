package testutil

import (
	"sync"
	"time"

	"github.com/vk/wavegrid/internal/registry"
	"github.com/vk/wavegrid/internal/task"
)

// MockSleeperModule is a shared, self-contained module for concurrency tests.
// Its "sleeper" runner sleeps for a fixed time and records when each task ran.
type MockSleeperModule struct {
	mu             sync.Mutex
	executionTimes map[string]ExecutionRecord
	order          []string
	sleepDuration  time.Duration
	completionChan chan<- string
}

// NewMockSleeperModule creates a new sleeper module for testing.
// completionChan, when non-nil, receives each task name as it finishes.
func NewMockSleeperModule(completionChan chan<- string, sleep time.Duration) *MockSleeperModule {
	return &MockSleeperModule{
		executionTimes: make(map[string]ExecutionRecord),
		sleepDuration:  sleep,
		completionChan: completionChan,
	}
}

// Register registers the "sleeper" runner.
func (m *MockSleeperModule) Register(r *registry.Registry) {
	r.RegisterRunner("sleeper", &registry.RegisteredRunner{
		Description: "Test runner that sleeps and records its execution window.",
		Fn: func(ctx *task.Context, _ any) (any, error) {
			start := time.Now()
			time.Sleep(m.sleepDuration)
			end := time.Now()

			m.mu.Lock()
			m.executionTimes[ctx.Task()] = ExecutionRecord{Start: start, End: end}
			m.order = append(m.order, ctx.Task())
			m.mu.Unlock()

			if m.completionChan != nil {
				m.completionChan <- ctx.Task()
			}
			return ctx.Task(), nil
		},
	})
}

// ExecutionTimes returns a copy of the recorded execution windows.
func (m *MockSleeperModule) ExecutionTimes() map[string]ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]ExecutionRecord, len(m.executionTimes))
	for k, v := range m.executionTimes {
		out[k] = v
	}
	return out
}

// Order returns task names in completion order.
func (m *MockSleeperModule) Order() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}
