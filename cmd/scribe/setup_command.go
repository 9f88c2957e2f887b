package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/predict"
)

func newSetupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Prepare the torch cache and install the bundled VAD model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report, err := predict.Setup(cfg, ctx.logger())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Torch cache: %s\n", report.TorchCacheDir)
			switch {
			case report.VADInstalled:
				fmt.Fprintf(out, "VAD model: installed from %s\n", report.VADSource)
			case report.VADPresent:
				fmt.Fprintln(out, "VAD model: already installed")
			default:
				fmt.Fprintf(out, "VAD model: not found at %s (whisperx will download it)\n", report.VADSource)
			}
			return nil
		},
	}
}
