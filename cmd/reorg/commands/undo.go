package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/reorgtool/reorg/cmd/reorg/opts"
	"github.com/reorgtool/reorg/pkg/fsops"
)

// NewUndoCmd creates a new undo command
func NewUndoCmd(opts *opts.RootOpts) *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Reverse the last applied move batch",
		Long: `Undo replays the newest recorded batch with source and destination
swapped. If any reversal fails the batch stays in the lock file so a
later retry can still undo it. With --status it only reports whether
an undo batch is pending.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "undo").Logger().WithContext(ctx)

			if statusOnly {
				canUndo, pending, err := opts.History.Status(ctx)
				if err != nil {
					return errors.Errorf("reading undo status: %w", err)
				}
				if canUndo {
					opts.UserLogger.LogStateChange(fmt.Sprintf("%d batch(es) available to undo", pending))
				} else {
					opts.UserLogger.LogStateChange("nothing to undo")
				}
				return nil
			}

			results, err := opts.History.Undo(ctx, fsops.NewMover(opts.Config.Root))
			for _, result := range results {
				opts.UserLogger.LogMoveResult(result)
			}
			if err != nil {
				return errors.Errorf("undoing moves: %w", err)
			}

			opts.UserLogger.LogValidation(true, fmt.Sprintf("undone %d move(s)", len(results)), nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&statusOnly, "status", false, "report whether an undo batch is pending")

	return cmd
}
