package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/wsltoolbar/cmd/wsltoolbar"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := wsltoolbar.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, pterm.Red(wsltoolbar.FormatError(err)))
		if wsltoolbar.ShowUsage(err) {
			fmt.Fprintln(os.Stderr)
			_ = rootCmd.Usage()
		}
		stop()
		os.Exit(wsltoolbar.ExitCode(err))
	}
}
