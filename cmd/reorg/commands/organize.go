package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/reorgtool/reorg/cmd/reorg/opts"
	"github.com/reorgtool/reorg/pkg/draft"
	"github.com/reorgtool/reorg/pkg/fsops"
	"github.com/reorgtool/reorg/pkg/log"
	"github.com/reorgtool/reorg/pkg/organize"
	"github.com/reorgtool/reorg/pkg/reconcile"
)

// NewOrganizeCmd creates a new organize command
func NewOrganizeCmd(opts *opts.RootOpts) *cobra.Command {
	var execute bool

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Group files into folders named after their extensions",
		Long: `Organize generates a move per file that is not already inside its
extension folder, previews the moves and the resulting layout, and
with --apply executes them through the same backend as apply (undo
included). Already-organized extension folders are left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "organize").Logger().WithContext(ctx)

			snapshot, err := fsops.NewScanner(opts.Config).Scan(ctx)
			if err != nil {
				return errors.Errorf("scanning tree: %w", err)
			}

			moves := organize.GenerateMoves(snapshot)
			logger := log.New(os.Stdout, zerolog.Disabled)
			logger.Header("organize by file type")

			if len(moves) == 0 {
				logger.Success("nothing to organize")
				return nil
			}
			logger.Infof("%d move(s) generated", len(moves))
			for _, move := range moves {
				logger.LogPlannedMove(move.FromPath, move.ToPath)
			}

			if !execute {
				// Stage the moves against a draft so the user can see the
				// layout they would end up with.
				ws := draft.New(snapshot)
				summary := organize.ApplyToDraft(ctx, ws, moves)
				if summary.Skipped > 0 {
					logger.Warningf("%d move(s) not stageable", summary.Skipped)
				}
				logger.LogNewline()
				logger.Info("resulting layout:")
				if err := opts.UserLogger.RenderTree(ws.Draft()); err != nil {
					return errors.Errorf("rendering tree: %w", err)
				}
				logger.Info("run again with --apply to execute")
				return nil
			}

			logger.StartBatch(ctx, log.BatchOperation{
				Root:  opts.Config.Root,
				Total: len(moves),
			})
			results, err := fsops.NewMover(opts.Config.Root).Apply(ctx, moves, false)
			if err != nil {
				return errors.Errorf("applying moves: %w", err)
			}
			for _, result := range results {
				logger.LogMoveResult(ctx, result)
			}
			logger.EndBatch(ctx)

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

			logger.Successf("%d move(s) applied", len(applied))
			return nil
		},
	}

	cmd.Flags().BoolVar(&execute, "apply", false, "execute the generated moves")

	return cmd
}
