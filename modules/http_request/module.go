// Package http_request provides the "http_request" runner.
package http_request

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vk/wavegrid/internal/ctxlog"
	"github.com/vk/wavegrid/internal/registry"
	"github.com/vk/wavegrid/internal/task"
)

// maxBodyBytes caps how much of a response body is kept as the task result.
const maxBodyBytes = 1 << 20

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client performs the requests. Nil means a client with a 30s timeout.
	Client *http.Client
}

// Input defines the arguments for the http_request runner.
type Input struct {
	URL          string            `cty:"url"`
	Method       *string           `cty:"method"`
	Headers      map[string]string `cty:"headers"`
	Body         *string           `cty:"body"`
	ExpectStatus *int              `cty:"expect_status"`
}

// Output is the runner's result.
type Output struct {
	StatusCode int
	Headers    http.Header
	Body       string
}

// StatusError reports a response whose status did not match expect_status.
type StatusError struct {
	Want, Got int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: want %d, got %d", e.Want, e.Got)
}

// Run performs the request.
func (m *Module) Run(ctx *task.Context, input *Input) (*Output, error) {
	method := http.MethodGet
	if input.Method != nil && *input.Method != "" {
		method = strings.ToUpper(*input.Method)
	}
	logger := ctxlog.FromContext(ctx).With("method", method, "url", input.URL)
	logger.Info("Making HTTP request.")

	var body io.Reader
	if input.Body != nil {
		body = strings.NewReader(*input.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, input.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range input.Headers {
		req.Header.Set(k, v)
	}

	client := m.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response.", "status", resp.Status)

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if input.ExpectStatus != nil && resp.StatusCode != *input.ExpectStatus {
		return nil, &StatusError{Want: *input.ExpectStatus, Got: resp.StatusCode}
	}

	return &Output{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       string(bodyBytes),
	}, nil
}

// Register registers the runner with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("http_request", &registry.RegisteredRunner{
		Description: "Perform an HTTP request and return status and body.",
		NewInput:    func() any { return new(Input) },
		Fn: func(ctx *task.Context, in any) (any, error) {
			return m.Run(ctx, in.(*Input))
		},
	})
}
