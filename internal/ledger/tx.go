package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/common"
)

// TxState is the lifecycle state of one multi-table transaction.
type TxState string

// Transaction states.
const (
	TxPending    TxState = "pending"
	TxCommitted  TxState = "committed"
	TxRolledBack TxState = "rolled_back"
)

// Undo compensates one committed step. Compensations run in reverse order
// when a later step fails.
type Undo func(ctx context.Context) error

// Step is one ordered write within a transaction. Apply receives the shared
// transaction identifier and returns the compensation that reverses it, or
// nil when the step needs no compensation.
type Step struct {
	Name  string
	Apply func(ctx context.Context, txID string) (Undo, error)
}

// TxResult reports what a transaction did: which steps committed, which were
// compensated away after a failure, and which compensations themselves failed
// and left data behind.
type TxResult struct {
	TxID       string
	State      TxState
	Written    []string
	RolledBack []string
	Orphaned   []string
}

// Coordinator runs ordered multi-table writes under one shared identifier
// with compensating rollback. There is no backend transaction to lean on;
// atomicity is approximated by deleting the rows that did land whenever a
// later write fails.
type Coordinator struct {
	logger *slog.Logger
}

// NewCoordinator creates a transaction coordinator.
func NewCoordinator(logger *slog.Logger) *Coordinator {
	return &Coordinator{logger: logger}
}

// Run executes the steps in order under a fresh transaction identifier. On
// the first failure the already-committed steps are compensated in reverse
// order. A compensation failure is surfaced through common.ErrOrphanedWrites
// with the orphaned step names listed in the result, so an operator can clean
// the rows up by the shared identifier.
func (c *Coordinator) Run(ctx context.Context, steps []Step) (TxResult, error) {
	result := TxResult{
		TxID:  uuid.NewString(),
		State: TxPending,
	}

	type committed struct {
		name string
		undo Undo
	}
	var done []committed

	for _, step := range steps {
		undo, err := step.Apply(ctx, result.TxID)
		if err != nil {
			c.logger.Error("transaction step failed",
				"tx_id", result.TxID, "step", step.Name, "error", err)
			result.State = TxRolledBack

			for i := len(done) - 1; i >= 0; i-- {
				d := done[i]
				if d.undo == nil {
					result.RolledBack = append(result.RolledBack, d.name)
					continue
				}
				if undoErr := d.undo(ctx); undoErr != nil {
					c.logger.Error("compensation failed, data left behind",
						"tx_id", result.TxID, "step", d.name, "error", undoErr)
					result.Orphaned = append(result.Orphaned, d.name)
					continue
				}
				result.RolledBack = append(result.RolledBack, d.name)
			}
			result.Written = nil

			if len(result.Orphaned) > 0 {
				return result, fmt.Errorf("step %s failed and %d compensations did not complete: %w: %w",
					step.Name, len(result.Orphaned), common.ErrOrphanedWrites, err)
			}
			return result, fmt.Errorf("step %s failed, transaction rolled back: %w", step.Name, err)
		}

		done = append(done, committed{name: step.Name, undo: undo})
		result.Written = append(result.Written, step.Name)
	}

	result.State = TxCommitted
	c.logger.Debug("transaction committed",
		"tx_id", result.TxID, "steps", len(result.Written))
	return result, nil
}

// IsOrphaned reports whether an error from Run left orphaned rows behind.
func IsOrphaned(err error) bool {
	return errors.Is(err, common.ErrOrphanedWrites)
}
