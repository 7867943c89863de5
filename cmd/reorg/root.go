package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/reorgtool/reorg/cmd/reorg/opts"
	"github.com/reorgtool/reorg/cmd/reorg/ui"
	"github.com/reorgtool/reorg/pkg/config"
	"github.com/reorgtool/reorg/pkg/history"
)

var (
	// Flags
	configFile   string
	rootOverride string
	debug        bool
)

// newRootOpts creates a new rootOpts with initialized dependencies
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	// Create user logger
	userLogger := ui.NewUserLogger(ctx)

	// Load config; a --root override with no config file is enough to run
	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		if rootOverride == "" {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = &config.Config{Root: rootOverride}
		if err := cfg.Validate(); err != nil {
			return nil, errors.Errorf("validating config: %w", err)
		}
	} else if rootOverride != "" {
		cfg.Root = rootOverride
	}

	return &opts.RootOpts{
		Config:     cfg,
		History:    history.New(cfg.LockPath()),
		UserLogger: userLogger,
	}, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".reorg.yaml", "config file path")
	cmd.PersistentFlags().StringVar(&rootOverride, "root", "", "override the managed root directory")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
