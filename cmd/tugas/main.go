// Package main is the entry point for the tugas CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tugas/internal/backend"
	"tugas/internal/cli"
	"tugas/internal/commands"
	"tugas/internal/config"
	"tugas/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		store, err := backend.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
