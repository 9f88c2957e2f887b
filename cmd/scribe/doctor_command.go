package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/preflight"
	"scribe/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check binaries, model paths and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			colorize := shouldColorize(cmd.OutOrStdout())

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, colorStatus(resultKind(r), colorize), r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))

			failed := preflight.Failed(results)
			if len(failed) == 0 {
				fmt.Fprintln(out, "All required checks passed")
				return nil
			}
			names := make([]string, 0, len(failed))
			for _, r := range failed {
				names = append(names, r.Name)
			}
			return services.Wrap(services.ErrConfiguration, "doctor", "preflight",
				"Failed checks: "+strings.Join(names, ", "), nil)
		},
	}
}

func resultKind(r preflight.Result) statusKind {
	switch {
	case r.Skipped:
		return statusWarn
	case r.Passed:
		return statusOK
	case r.Optional:
		return statusWarn
	default:
		return statusError
	}
}
