package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/sheetstore"
)

func okStep(name string, applied *[]string) Step {
	return Step{
		Name: name,
		Apply: func(_ context.Context, txID string) (Undo, error) {
			*applied = append(*applied, name+":"+txID)
			return func(context.Context) error { return nil }, nil
		},
	}
}

func TestCoordinatorCommitsInOrder(t *testing.T) {
	var applied []string
	coord := NewCoordinator(testLogger())

	result, err := coord.Run(context.Background(), []Step{
		okStep("designer_orders", &applied),
		okStep("client_ledger", &applied),
		okStep("general", &applied),
	})
	require.NoError(t, err)

	assert.Equal(t, TxCommitted, result.State)
	assert.Equal(t, []string{"designer_orders", "client_ledger", "general"}, result.Written)
	assert.Empty(t, result.RolledBack)
	assert.Empty(t, result.Orphaned)

	// Every step saw the same transaction identifier.
	require.Len(t, applied, 3)
	for _, entry := range applied {
		assert.Contains(t, entry, result.TxID)
	}
}

func TestCoordinatorRollsBackOnFailure(t *testing.T) {
	var undone []string
	coord := NewCoordinator(testLogger())

	steps := []Step{
		{
			Name: "first",
			Apply: func(context.Context, string) (Undo, error) {
				return func(context.Context) error {
					undone = append(undone, "first")
					return nil
				}, nil
			},
		},
		{
			Name: "second",
			Apply: func(context.Context, string) (Undo, error) {
				return func(context.Context) error {
					undone = append(undone, "second")
					return nil
				}, nil
			},
		},
		{
			Name: "third",
			Apply: func(context.Context, string) (Undo, error) {
				return nil, errors.New("quota exceeded")
			},
		},
	}

	result, err := coord.Run(context.Background(), steps)
	require.Error(t, err)
	assert.False(t, IsOrphaned(err))

	assert.Equal(t, TxRolledBack, result.State)
	assert.Empty(t, result.Written)
	assert.Equal(t, []string{"second", "first"}, result.RolledBack,
		"compensations run in reverse order")
	assert.Equal(t, []string{"second", "first"}, undone)
}

func TestCoordinatorReportsOrphans(t *testing.T) {
	coord := NewCoordinator(testLogger())

	steps := []Step{
		{
			Name: "first",
			Apply: func(context.Context, string) (Undo, error) {
				return func(context.Context) error {
					return errors.New("delete rejected")
				}, nil
			},
		},
		{
			Name: "second",
			Apply: func(context.Context, string) (Undo, error) {
				return nil, errors.New("write failed")
			},
		},
	}

	result, err := coord.Run(context.Background(), steps)
	require.Error(t, err)
	assert.True(t, IsOrphaned(err))
	assert.ErrorIs(t, err, common.ErrOrphanedWrites)

	assert.Equal(t, TxRolledBack, result.State)
	assert.Equal(t, []string{"first"}, result.Orphaned)
	assert.Empty(t, result.RolledBack)
}

// An end-to-end shape: two table writes where the second fails, compensated
// by clearing the first row again.
func TestCoordinatorWithWriterRollback(t *testing.T) {
	ctx := context.Background()
	fake := sheetstore.NewFake()
	orders := mustTable(t, layout.DesignerOrders)
	clients := mustTable(t, layout.ClientLedger)
	writer := NewWriter(fake, testLogger())
	coord := NewCoordinator(testLogger())

	fake.FailOn("batchwrite", clients.Sheet, errors.New("backend unavailable"))

	steps := []Step{
		{
			Name: "designer_orders",
			Apply: func(ctx context.Context, txID string) (Undo, error) {
				row, err := writer.WriteRow(ctx, orders, txID, []any{"01.02.2026", "vera"})
				if err != nil {
					return nil, err
				}
				return func(ctx context.Context) error {
					return writer.ClearRow(ctx, orders, row)
				}, nil
			},
		},
		{
			Name: "client_ledger",
			Apply: func(ctx context.Context, txID string) (Undo, error) {
				row, err := writer.WriteRow(ctx, clients, txID, []any{"01.02.2026", "acme"})
				if err != nil {
					return nil, err
				}
				return func(ctx context.Context) error {
					return writer.ClearRow(ctx, clients, row)
				}, nil
			},
		},
	}

	result, err := coord.Run(ctx, steps)
	require.Error(t, err)
	assert.Equal(t, TxRolledBack, result.State)

	// The orders row that landed before the failure is gone again.
	assert.Nil(t, fake.CellValue(orders.Sheet, "A15"))
	assert.Nil(t, fake.CellValue(orders.Sheet, "F15"))
}
