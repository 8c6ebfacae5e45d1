package events

import (
	"context"
	"time"

	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/wavegrid/internal/ctxlog"
	"github.com/vk/wavegrid/internal/socketio"
)

// DefaultSocketEvent is the socket.io event name lifecycle events are emitted under.
const DefaultSocketEvent = "wavegrid"

// SocketOptions configures DialSocket.
type SocketOptions struct {
	// Namespace defaults to "/".
	Namespace string
	// Event defaults to DefaultSocketEvent.
	Event string
	// ConnectTimeout defaults to 15s.
	ConnectTimeout     time.Duration
	InsecureSkipVerify bool
}

// SocketSink streams events to a socket.io server over a WebSocket transport.
type SocketSink struct {
	io    *socket.Socket
	event string
}

// DialSocket connects to the socket.io server at rawURL and waits for the
// connection to be acknowledged.
func DialSocket(ctx context.Context, rawURL string, opts SocketOptions) (*SocketSink, error) {
	if opts.Event == "" {
		opts.Event = DefaultSocketEvent
	}
	ctx, logger := ctxlog.With(ctx, "sink", "socketio")

	io, err := socketio.Dial(ctx, rawURL, socketio.Options{
		Namespace:          opts.Namespace,
		ConnectTimeout:     opts.ConnectTimeout,
		InsecureSkipVerify: opts.InsecureSkipVerify,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to events server.", "url", rawURL, "sid", io.Id())
	return &SocketSink{io: io, event: opts.Event}, nil
}

// Emit implements Sink. Events are dropped while the socket is disconnected.
func (s *SocketSink) Emit(ctx context.Context, e Event) {
	if !s.io.Connected() {
		ctxlog.FromContext(ctx).Debug("Dropping event, socket disconnected.", "event", string(e.Kind))
		return
	}
	if err := s.io.Emit(s.event, Payload(e)); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to emit event.", "event", string(e.Kind), "error", err)
	}
}

// Close disconnects from the server.
func (s *SocketSink) Close() error {
	s.io.Disconnect()
	return nil
}

// Payload renders e as the JSON-friendly map sent over the wire.
func Payload(e Event) map[string]any {
	p := map[string]any{
		"kind":   string(e.Kind),
		"run_id": e.RunID,
		"time":   e.Time.UTC().Format(time.RFC3339Nano),
	}
	if e.Task != "" {
		p["task"] = e.Task
		p["state"] = e.State.String()
		p["priority"] = e.Priority
	}
	if e.Worker > 0 {
		p["worker"] = e.Worker
	}
	if e.Duration > 0 {
		p["duration_ms"] = e.Duration.Milliseconds()
	}
	if e.Error != "" {
		p["error"] = e.Error
	}
	if e.CausedBy != "" {
		p["caused_by"] = e.CausedBy
	}
	if e.Kind == RunFinished {
		p["cancelled"] = e.Cancelled
	}
	return p
}
