package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/reorgtool/reorg/cmd/reorg/opts"
	"github.com/reorgtool/reorg/pkg/fsops"
)

// NewTreeCmd creates a new tree command
func NewTreeCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Scan and display the managed directory tree",
		Long: `Tree scans the configured root and renders its current layout.
Symlinks and ignored patterns are left out, exactly as every other
command sees the tree.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "tree").Logger().WithContext(ctx)

			snapshot, err := fsops.NewScanner(opts.Config).Scan(ctx)
			if err != nil {
				return errors.Errorf("scanning tree: %w", err)
			}

			if err := opts.UserLogger.RenderTree(snapshot); err != nil {
				return errors.Errorf("rendering tree: %w", err)
			}
			return nil
		},
	}

	return cmd
}
