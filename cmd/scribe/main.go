package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"scribe/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
			if detail := services.DetailPath(err); detail != "" {
				fmt.Fprintf(os.Stderr, "Tool output saved to %s\n", detail)
			}
		}
		os.Exit(services.ExitCode(err))
	}
}
