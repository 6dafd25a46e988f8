package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lakitu/middledrag/cli"
	"github.com/lakitu/middledrag/commands"
	"github.com/lakitu/middledrag/devices"
)

func main() {
	// create synthesizer registry for cleanup tracking
	registry := devices.NewRegistry()
	commands.SetRegistry(registry)

	// setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// run command in goroutine
	done := make(chan error, 1)
	go func() {
		done <- cli.Execute()
	}()

	// wait for command completion or signal
	select {
	case <-sigChan:
		// a held synthetic button must never outlive the process
		registry.ReleaseAll()
		os.Exit(0)
	case err := <-done:
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
