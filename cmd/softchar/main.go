// Package main is the entry point for the softchar CLI.
//
// Usage:
//
//	softchar [flags] <command> [args]
//
// Commands:
//
//	serve    - Load the softchar module and export it on a FIFO bus
//	cat      - Read the device stream to stdout
//	write    - Attempt a write (always rejected)
//	devices  - List registered character devices
//	dmesg    - Print the server's kernel log
//	demo     - Run an in-process session against a "hi\n" device
//	version  - Show version information
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardnew/softchar/cmd/softchar/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
