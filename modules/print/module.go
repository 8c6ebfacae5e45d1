// Package print provides the "print" runner: it writes a message and the
// values of the task's dependencies to an output stream.
package print

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/vk/wavegrid/internal/ctxlog"
	"github.com/vk/wavegrid/internal/registry"
	"github.com/vk/wavegrid/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the printed text. Nil means os.Stdout.
	Out io.Writer

	mu sync.Mutex
}

// Input defines the arguments for the print runner.
type Input struct {
	Message *string           `cty:"message"`
	Values  map[string]string `cty:"values"`
}

// Run renders the message, the extra values and every dependency result,
// writes it as one block and returns the rendered text.
func (m *Module) Run(ctx *task.Context, input *Input) (string, error) {
	ctxlog.FromContext(ctx).Debug("Printing input.")

	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", ctx.Task())
	if input.Message != nil {
		fmt.Fprintf(&b, " %s", *input.Message)
	}
	b.WriteString("\n")

	keys := make([]string, 0, len(input.Values))
	for k := range input.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "      %s = %q\n", k, input.Values[k])
	}

	for _, name := range ctx.DepNames() {
		v, err := ctx.Dep(name)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "      %s -> %v\n", name, v)
	}

	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := io.WriteString(out, b.String()); err != nil {
		return "", fmt.Errorf("writing output: %w", err)
	}
	return b.String(), nil
}

// Register registers the runner with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("print", &registry.RegisteredRunner{
		Description: "Print a message, extra values and dependency results.",
		NewInput:    func() any { return new(Input) },
		Fn: func(ctx *task.Context, in any) (any, error) {
			return m.Run(ctx, in.(*Input))
		},
	})
}
