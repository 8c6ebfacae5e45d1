package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/wavegrid/internal/cli"
)

// main is the entrypoint for the wavegrid application.
func main() {
	// SIGINT/SIGTERM stop further dispatch; running tasks finish.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(code)
}

// run executes the CLI and maps its error to a process exit code.
func run(ctx context.Context, outW, errW io.Writer, args []string) int {
	err := cli.Execute(ctx, args, outW, errW)
	if err == nil {
		return cli.ExitOK
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(errW, exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintln(errW, err)
	return cli.ExitTaskFailed
}
