package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/reorgtool/reorg/cmd/reorg/commands"
	"github.com/reorgtool/reorg/cmd/reorg/opts"
	"github.com/reorgtool/reorg/cmd/reorg/ui"
)

func main() {
	ctx := log.Logger.WithContext(context.Background())

	// Create user logger
	userLogger := ui.NewUserLogger(ctx)

	// Filled in once flags are parsed
	rootOpts := &opts.RootOpts{}

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "reorg",
		Short: "Stage and apply reorganizations of a directory tree",
		Long: `reorg scans a directory tree, lets you stage structural edits
(moves, renames, new folders, deletions) against an in-memory draft,
previews the minimal move list needed to realize the draft on disk,
and applies it with undo support.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			loaded, err := newRootOpts(cmd.Context())
			if err != nil {
				return err
			}
			*rootOpts = *loaded
			return nil
		},
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		commands.NewTreeCmd(rootOpts),
		commands.NewPlanCmd(rootOpts),
		commands.NewApplyCmd(rootOpts),
		commands.NewUndoCmd(rootOpts),
		commands.NewOrganizeCmd(rootOpts),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userLogger.LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
