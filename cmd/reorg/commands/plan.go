package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/reorgtool/reorg/cmd/reorg/opts"
	"github.com/reorgtool/reorg/pkg/draft"
	"github.com/reorgtool/reorg/pkg/fsops"
	"github.com/reorgtool/reorg/pkg/log"
	"github.com/reorgtool/reorg/pkg/reconcile"
)

// plan is the shared front half of the plan and apply commands: scan the
// root, stage the scripted edits against a draft, diff.
type plan struct {
	workspace *draft.Workspace
	moves     []reconcile.MoveEntry
	missing   []string
	summary   draft.Summary
}

func buildPlan(ctx context.Context, o *opts.RootOpts, scriptPath string) (*plan, error) {
	snapshot, err := fsops.NewScanner(o.Config).Scan(ctx)
	if err != nil {
		return nil, errors.Errorf("scanning tree: %w", err)
	}

	p := &plan{workspace: draft.New(snapshot)}

	if scriptPath != "" {
		script, err := draft.ParseScript(ctx, scriptPath)
		if err != nil {
			return nil, errors.Errorf("loading edit script: %w", err)
		}
		p.summary = script.Apply(ctx, p.workspace)
	}

	p.moves = reconcile.ComputeMoves(p.workspace.Original(), p.workspace.Draft())
	p.missing = reconcile.MissingPaths(p.workspace.Original(), p.workspace.Draft())
	return p, nil
}

// printPlan previews the computed moves and surfaces draft deletions,
// which are never part of the move list.
func printPlan(p *plan, logger *log.Logger) {
	logger.Header("plan")
	if p.summary.Skipped > 0 {
		logger.Warningf("%d script step(s) skipped (preconditions not met)", p.summary.Skipped)
	}

	if len(p.moves) == 0 {
		logger.Success("nothing to move")
	} else {
		logger.Infof("%d move(s) planned", len(p.moves))
		for _, move := range p.moves {
			logger.LogPlannedMove(move.FromPath, move.ToPath)
		}
	}

	if len(p.missing) > 0 {
		logger.Warningf("%d path(s) removed in draft (not part of the move list):", len(p.missing))
		for _, path := range p.missing {
			logger.Infof("  %s", path)
		}
	}
}

// NewPlanCmd creates a new plan command
func NewPlanCmd(opts *opts.RootOpts) *cobra.Command {
	var scriptPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the moves a draft would require",
		Long: `Plan scans the root, stages the edit script against a draft copy of
the tree, and prints the minimal move list that would transform the
real layout into the drafted one. Nothing is executed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "plan").Logger().WithContext(ctx)

			p, err := buildPlan(ctx, opts, scriptPath)
			if err != nil {
				return err
			}

			printPlan(p, log.New(os.Stdout, zerolog.Disabled))
			return nil
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "edit script file (yaml or hcl)")

	return cmd
}
