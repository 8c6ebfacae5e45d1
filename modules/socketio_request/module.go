// Package socketio_request provides the "socketio_request" runner: connect
// to a socket.io server, emit one event and optionally wait for a reply event.
package socketio_request

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"github.com/zishang520/engine.io/v2/types"

	"github.com/vk/wavegrid/internal/ctxlog"
	"github.com/vk/wavegrid/internal/registry"
	"github.com/vk/wavegrid/internal/socketio"
	"github.com/vk/wavegrid/internal/task"
)

// DefaultTimeout bounds the connect and the wait for the reply event.
const DefaultTimeout = 10 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the runner.
type Input struct {
	URL       string     `cty:"url"`
	Namespace *string    `cty:"namespace"`
	EmitEvent string     `cty:"emit_event"`
	EmitData  *cty.Value `cty:"emit_data"`
	OnEvent   *string    `cty:"on_event"`
	Timeout   *string    `cty:"timeout"`
}

// Output is the runner's result. Response is nil unless on_event is set.
type Output struct {
	Event    string
	Response any
}

type reply struct {
	data any
}

// Run emits the event and, if on_event is set, returns the first argument of
// the reply.
func Run(ctx *task.Context, input *Input) (*Output, error) {
	timeout := DefaultTimeout
	if input.Timeout != nil {
		d, err := time.ParseDuration(*input.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timeout: %w", err)
		}
		timeout = d
	}
	data, err := toGo(input.EmitData)
	if err != nil {
		return nil, fmt.Errorf("failed to convert emit_data: %w", err)
	}

	opts := socketio.Options{ConnectTimeout: timeout}
	if input.Namespace != nil {
		opts.Namespace = *input.Namespace
	}
	client, err := socketio.Dial(ctx, input.URL, opts)
	if err != nil {
		return nil, err
	}
	defer client.Disconnect()

	logger := ctxlog.FromContext(ctx).With("runner", "socketio_request", "sid", client.Id())

	var replies chan reply
	if input.OnEvent != nil {
		replies = make(chan reply, 1)
		client.Once(types.EventName(*input.OnEvent), func(args ...any) {
			var r reply
			if len(args) > 0 {
				r.data = args[0]
			}
			select {
			case replies <- r:
			default:
			}
		})
	}

	logger.Info("Emitting event.", "event", input.EmitEvent)
	args := []any{}
	if data != nil {
		args = append(args, data)
	}
	if err := client.Emit(input.EmitEvent, args...); err != nil {
		return nil, fmt.Errorf("failed to emit %q: %w", input.EmitEvent, err)
	}

	if replies == nil {
		return &Output{Event: input.EmitEvent}, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-replies:
		logger.Info("Received response event.", "event", *input.OnEvent)
		return &Output{Event: *input.OnEvent, Response: r.data}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("timed out after %v waiting for event %q", timeout, *input.OnEvent)
	}
}

// toGo converts a cty value into plain JSON-shaped Go values.
func toGo(v *cty.Value) (any, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	raw, err := ctyjson.Marshal(*v, v.Type())
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register registers the runner with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("socketio_request", &registry.RegisteredRunner{
		Description: "Emit a socket.io event and optionally wait for a reply.",
		NewInput:    func() any { return new(Input) },
		Fn: func(ctx *task.Context, in any) (any, error) {
			return Run(ctx, in.(*Input))
		},
	})
}
