package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vk/wavegrid/internal/app"
	"github.com/vk/wavegrid/internal/hcl"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH...",
		Short: "Check a pipeline without running it.",
		Long:  "Parse PATH, bind every task to its runner and check the dependency graph for unknown references and cycles.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appConfig(cmd, args)
			if err != nil {
				return usageError(err)
			}

			a := app.NewApp(cmd.ErrOrStderr(), cfg, hcl.NewLoader())
			_, g, err := a.Load(cmd.Context())
			if err != nil {
				return usageError(err)
			}
			order, err := g.TopologicalOrder()
			if err != nil {
				return usageError(err)
			}

			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(out, "✔ Pipeline is valid: %d tasks.\n", g.Len())
			for i, name := range order {
				deps, _ := g.Dependencies(name)
				if len(deps) == 0 {
					fmt.Fprintf(out, "  %2d. %s\n", i+1, name)
					continue
				}
				fmt.Fprintf(out, "  %2d. %s <- %v\n", i+1, name, deps)
			}
			return nil
		},
	}
}
