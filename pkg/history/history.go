// Package history persists the undo log: batches of successfully applied
// moves, newest last, stored in a JSON lock file next to the tree root.
// The file is replaced atomically on every write. Serializing concurrent
// reorg processes against the same root is the caller's responsibility.
package history

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/reorgtool/reorg/pkg/fsops"
	"github.com/reorgtool/reorg/pkg/reconcile"
)

// Manager reads and writes the undo lock file.
type Manager struct {
	path string
}

// lockFile is the on-disk shape of the undo log.
type lockFile struct {
	LastUpdated time.Time               `json:"last_updated"`
	Batches     [][]reconcile.MoveEntry `json:"batches"`
}

// New creates a manager for the lock file at path. The file is created
// lazily on the first Push.
func New(path string) *Manager {
	return &Manager{path: path}
}

// Push records a batch of applied moves as the newest undo candidate.
// Empty batches are dropped.
func (m *Manager) Push(ctx context.Context, batch []reconcile.MoveEntry) error {
	if len(batch) == 0 {
		return nil
	}
	lf, err := m.load(ctx)
	if err != nil {
		return err
	}
	lf.Batches = append(lf.Batches, batch)
	return m.save(ctx, lf)
}

// Pop removes and returns the newest batch. ok is false when the log is
// empty.
func (m *Manager) Pop(ctx context.Context) ([]reconcile.MoveEntry, bool, error) {
	lf, err := m.load(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(lf.Batches) == 0 {
		return nil, false, nil
	}
	last := lf.Batches[len(lf.Batches)-1]
	lf.Batches = lf.Batches[:len(lf.Batches)-1]
	if err := m.save(ctx, lf); err != nil {
		return nil, false, err
	}
	return last, true, nil
}

// Status reports whether an undo batch is pending and how many are stored.
func (m *Manager) Status(ctx context.Context) (bool, int, error) {
	lf, err := m.load(ctx)
	if err != nil {
		return false, 0, err
	}
	return len(lf.Batches) > 0, len(lf.Batches), nil
}

// Undo reverses the newest batch through the given mover. Each recorded
// move is replayed with from/to swapped, for real (never a dry run). If
// any reversal does not come back moved/moved_fallback the batch is
// restored to the log, so a later retry can still undo it.
func (m *Manager) Undo(ctx context.Context, mover *fsops.Mover) ([]fsops.MoveResult, error) {
	logger := zerolog.Ctx(ctx)

	batch, ok, err := m.Pop(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Errorf("no moves to undo")
	}

	reversed := make([]reconcile.MoveEntry, 0, len(batch))
	for _, move := range batch {
		reversed = append(reversed, reconcile.MoveEntry{FromPath: move.ToPath, ToPath: move.FromPath})
	}

	logger.Info().Int("moves", len(reversed)).Msg("undoing last move batch")

	results, err := mover.Apply(ctx, reversed, false)
	if err != nil {
		if restoreErr := m.restore(ctx, batch); restoreErr != nil {
			logger.Error().Err(restoreErr).Msg("restoring undo batch after failure")
		}
		return nil, errors.Errorf("applying reversed moves: %w", err)
	}

	failed := 0
	for _, result := range results {
		if !result.Status.Succeeded() {
			failed++
		}
	}
	if failed > 0 {
		if restoreErr := m.restore(ctx, batch); restoreErr != nil {
			logger.Error().Err(restoreErr).Msg("restoring undo batch after failure")
		}
		return results, errors.Errorf("failed to undo %d move(s); some files may have been moved", failed)
	}

	return results, nil
}

// restore puts a popped batch back on top of the log.
func (m *Manager) restore(ctx context.Context, batch []reconcile.MoveEntry) error {
	return m.Push(ctx, batch)
}

func (m *Manager) load(ctx context.Context) (*lockFile, error) {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		logger.Debug().Str("path", m.path).Msg("no lock file yet")
		return &lockFile{}, nil
	}
	if err != nil {
		return nil, errors.Errorf("reading lock file: %w", err)
	}

	var lf lockFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, errors.Errorf("parsing lock file: %w", err)
	}
	return &lf, nil
}

func (m *Manager) save(ctx context.Context, lf *lockFile) error {
	logger := zerolog.Ctx(ctx)

	lf.LastUpdated = time.Now().UTC()
	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return errors.Errorf("encoding lock file: %w", err)
	}

	// Write to a temp file, then rename over the target.
	tempPath := m.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Errorf("writing temp lock file: %w", err)
	}
	if err := os.Rename(tempPath, m.path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp lock file: %w", err)
	}

	logger.Debug().Str("path", m.path).Int("batches", len(lf.Batches)).Msg("lock file written")
	return nil
}
