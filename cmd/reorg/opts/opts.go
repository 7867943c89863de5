package opts

import (
	"github.com/reorgtool/reorg/cmd/reorg/ui"
	"github.com/reorgtool/reorg/pkg/config"
	"github.com/reorgtool/reorg/pkg/history"
)

// RootOpts carries the dependencies shared by every command.
type RootOpts struct {
	Config     *config.Config
	History    *history.Manager
	UserLogger *ui.UserLogger
}
