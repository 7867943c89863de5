package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/reorgtool/reorg/cmd/reorg/opts"
	"github.com/reorgtool/reorg/pkg/fsops"
	"github.com/reorgtool/reorg/pkg/log"
	"github.com/reorgtool/reorg/pkg/reconcile"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		scriptPath string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Execute the moves a draft requires",
		Long: `Apply computes the same plan as the plan command and hands the move
list to the filesystem backend. Moves run deepest-first; successful
batches are recorded in the lock file so they can be undone. With
--dry-run every move is validated but nothing is touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

			p, err := buildPlan(ctx, opts, scriptPath)
			if err != nil {
				return err
			}

			logger := log.New(os.Stdout, zerolog.Disabled)
			if len(p.moves) == 0 {
				printPlan(p, logger)
				return nil
			}

			logger.StartBatch(ctx, log.BatchOperation{
				Root:   opts.Config.Root,
				Total:  len(p.moves),
				DryRun: dryRun,
			})

			results, err := fsops.NewMover(opts.Config.Root).Apply(ctx, p.moves, dryRun)
			if err != nil {
				return errors.Errorf("applying moves: %w", err)
			}
			for _, result := range results {
				logger.LogMoveResult(ctx, result)
			}
			logger.EndBatch(ctx)

			if !dryRun {
				applied := make([]reconcile.MoveEntry, 0, len(results))
				for _, result := range results {
					if result.Status.Succeeded() {
						applied = append(applied, reconcile.MoveEntry{
							FromPath: result.FromPath,
							ToPath:   result.ToPath,
						})
					}
				}
				if err := opts.History.Push(ctx, applied); err != nil {
					return errors.Errorf("recording undo history: %w", err)
				}
			}

			failed := 0
			for _, result := range results {
				if result.Status == fsops.StatusError {
					failed++
				}
			}
			if failed > 0 {
				logger.Errorf("%d move(s) failed", failed)
				return errors.Errorf("%d move(s) failed", failed)
			}

			if dryRun {
				logger.Success("dry run complete")
			} else {
				logger.Success("all moves applied")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "edit script file (yaml or hcl)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and preview without moving anything")

	return cmd
}
