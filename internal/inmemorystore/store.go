package inmemorystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/wavegrid/internal/nodestore"
	"github.com/vk/wavegrid/internal/task"
)

// Store is an in-memory nodestore.Store.
type Store struct {
	results sync.Map // Key: task name, Value: task.Result
}

// New creates a new, empty in-memory result store.
func New() *Store {
	return &Store{}
}

var _ nodestore.Store = (*Store)(nil)

// Record stores the terminal Result of the named task.
func (s *Store) Record(_ context.Context, name string, result task.Result) error {
	if _, loaded := s.results.LoadOrStore(name, result); loaded {
		return fmt.Errorf("recording %q: %w", name, nodestore.ErrAlreadyRecorded)
	}
	return nil
}

// Get returns the Result of the named task, if any.
func (s *Store) Get(_ context.Context, name string) (task.Result, bool) {
	v, ok := s.results.Load(name)
	if !ok {
		return task.Result{}, false
	}
	return v.(task.Result), true
}

// Snapshot returns a copy of every recorded Result.
func (s *Store) Snapshot(_ context.Context) map[string]task.Result {
	out := make(map[string]task.Result)
	s.results.Range(func(k, v any) bool {
		out[k.(string)] = v.(task.Result)
		return true
	})
	return out
}
