package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitTaskFailed = 1
	ExitUsage      = 2
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// NewRootCommand builds the wavegrid command tree. Regular output goes to
// out; logs and diagnostics go to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "wavegrid",
		Short: "Run dependency-ordered task pipelines concurrently.",
		Long: `wavegrid executes the tasks declared in .hcl pipeline files. Independent
tasks run in parallel on a bounded worker pool, a failed task only takes
down the tasks that depend on it, and every outcome is reported at the end.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a YAML settings file.")
	pf.String("log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	pf.String("log-format", "text", "Log output format: 'text' or 'json'.")

	root.AddCommand(
		newRunCommand(),
		newValidateCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree with args. Every returned error is an
// *ExitError.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return usageError(err)
}
