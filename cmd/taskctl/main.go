package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskboard/internal/config"
	"github.com/yukikurage/taskboard/internal/repository"
)

var Version = "dev"

// openFunc opens the configured collection repository.
type openFunc func(ctx context.Context) (*repository.CollectionRepository, func() error, error)

func main() {
	if err := newRootCmd(openFromConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(open openFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Taskboard storage maintenance",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(seedCmd(open))
	rootCmd.AddCommand(dumpCmd(open))
	rootCmd.AddCommand(resetSessionCmd(open))

	return rootCmd
}

func openFromConfig(ctx context.Context) (*repository.CollectionRepository, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	backend, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return repository.NewCollectionRepository(backend.KV, cfg.StorageKeyPrefix, logger), backend.Close, nil
}
