// Package socketio connects to socket.io servers over a WebSocket transport.
// It is shared by the event stream sink and the socketio_request runner.
package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/wavegrid/internal/ctxlog"
)

// DefaultConnectTimeout bounds Dial when Options.ConnectTimeout is zero.
const DefaultConnectTimeout = 15 * time.Second

// Options configures Dial.
type Options struct {
	// Namespace defaults to "/".
	Namespace          string
	ConnectTimeout     time.Duration
	InsecureSkipVerify bool
}

// Dial connects to the socket.io server at rawURL and waits until the server
// acknowledges the connection. The URL path, if any, is used as the
// engine.io path.
func Dial(ctx context.Context, rawURL string, opts Options) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse socket.io URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("socket.io URL %q must be absolute", rawURL)
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}

	sopts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		sopts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to socket.io server.", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})
	io.Connect()

	timer := time.NewTimer(opts.ConnectTimeout)
	defer timer.Stop()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", opts.ConnectTimeout)
	}
}
