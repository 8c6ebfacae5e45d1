package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/vk/wavegrid/internal/executor"
	"github.com/vk/wavegrid/internal/node"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
	skipColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

// printSummary writes one line per task, in registration order, and a
// closing tally.
func printSummary(w io.Writer, state *executor.ExecutionState) {
	fmt.Fprintf(w, "Run %s\n", state.RunID)
	for _, name := range state.Names() {
		res, ok := state.Get(name)
		if !ok {
			dimColor.Fprintf(w, "  - %-20s NOT RUN\n", name)
			continue
		}
		switch res.State {
		case node.Succeeded:
			okColor.Fprintf(w, "  ✔ %-20s %s", name, res.State)
			fmt.Fprintf(w, " (%s)\n", res.Duration().Round(time.Millisecond))
		case node.Failed:
			failColor.Fprintf(w, "  ✖ %-20s %s", name, res.State)
			fmt.Fprintf(w, ": %v\n", res.Err)
		case node.Skipped:
			skipColor.Fprintf(w, "  ↷ %-20s %s", name, res.State)
			fmt.Fprintf(w, " (caused by %s)\n", res.CausedBy)
		}
	}

	sum := state.Summary()
	tally := fmt.Sprintf("%d succeeded, %d failed, %d skipped, %d not run in %s",
		sum.Succeeded, sum.Failed, sum.Skipped, sum.NotRun, sum.Duration.Round(time.Millisecond))
	switch {
	case sum.Cancelled:
		failColor.Fprintf(w, "Cancelled: %s\n", tally)
	case sum.OK():
		okColor.Fprintf(w, "OK: %s\n", tally)
	default:
		failColor.Fprintf(w, "FAILED: %s\n", tally)
	}
}
