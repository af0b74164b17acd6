package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teamsync/teamsync/cmd"
	"github.com/teamsync/teamsync/internal/cli"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	err := cmd.Execute(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "teamsync: %v\n", err)
		os.Exit(cli.ExitCodeFor(err))
	}
}
