package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vk/wavegrid/internal/app"
	"github.com/vk/wavegrid/internal/hcl"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run PATH...",
		Short: "Execute a pipeline.",
		Long: `Execute the tasks declared in PATH (an .hcl file or a directory of them).

Exit status is 0 when every task succeeded, 1 when a task failed or was
skipped or the run was interrupted, and 2 for invalid input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appConfig(cmd, args)
			if err != nil {
				return usageError(err)
			}

			a := app.NewApp(cmd.ErrOrStderr(), cfg, hcl.NewLoader(), app.CoreModules(cmd.OutOrStdout())...)
			state, err := a.Run(cmd.Context())
			if err != nil {
				return usageError(err)
			}

			summary := state.Summary()
			printSummary(cmd.OutOrStdout(), state)
			if !summary.OK() {
				return &ExitError{
					Code:    ExitTaskFailed,
					Message: fmt.Sprintf("run %s did not complete cleanly", state.RunID),
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Int("workers", 0, "Worker pool size. 0 uses the pipeline block or the number of CPUs.")
	f.Duration("task-timeout", 0, "Per-task time limit, e.g. 30s. 0 uses the pipeline block or no limit.")
	f.Int("healthcheck-port", 0, "Port for the /health and /metrics server. 0 is disabled.")
	f.String("events-url", "", "socket.io server URL to stream lifecycle events to.")
	f.Bool("trace", false, "Write an OpenTelemetry span per task to the log output.")
	return cmd
}
