package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/sheetstore"
)

func TestTotalTrackerExtendsLaggingSum(t *testing.T) {
	ctx := context.Background()
	fake := sheetstore.NewFake()
	table := mustTable(t, layout.PureIncome)
	fake.SetCell(table.Sheet, "F4", "=SUM(H10:H11)")

	tracker := NewTotalTracker(fake, testLogger())

	require.NoError(t, tracker.Ensure(ctx, table, 12))
	assert.Equal(t, "=SUM(H10:H12)", fake.CellValue(table.Sheet, "F4"))
}

func TestTotalTrackerPreservesLocalizedName(t *testing.T) {
	ctx := context.Background()
	fake := sheetstore.NewFake()
	table := mustTable(t, layout.Expenses)
	fake.SetCell(table.Sheet, "F4", "=СУММ(K12:K14)")

	tracker := NewTotalTracker(fake, testLogger())

	require.NoError(t, tracker.Ensure(ctx, table, 15))
	assert.Equal(t, "=СУММ(K12:K15)", fake.CellValue(table.Sheet, "F4"))
}

func TestTotalTrackerLeavesCoveringSumAlone(t *testing.T) {
	ctx := context.Background()
	fake := sheetstore.NewFake()
	table := mustTable(t, layout.PureIncome)
	fake.SetCell(table.Sheet, "F4", "=SUM(H10:H20)")

	tracker := NewTotalTracker(fake, testLogger())

	require.NoError(t, tracker.Ensure(ctx, table, 12))
	assert.Equal(t, "=SUM(H10:H20)", fake.CellValue(table.Sheet, "F4"),
		"a formula already covering the extent is not rewritten")
}

func TestTotalTrackerMismatch(t *testing.T) {
	ctx := context.Background()
	table := mustTable(t, layout.PureIncome)
	tracker := NewTotalTracker(sheetstore.NewFake(), testLogger())

	t.Run("empty cell", func(t *testing.T) {
		err := tracker.Ensure(ctx, table, 12)
		assert.ErrorIs(t, err, common.ErrFormulaMismatch)
	})

	t.Run("hand-entered value", func(t *testing.T) {
		fake := sheetstore.NewFake()
		fake.SetCell(table.Sheet, "F4", 1234.5)
		err := NewTotalTracker(fake, testLogger()).Ensure(ctx, table, 12)
		assert.ErrorIs(t, err, common.ErrFormulaMismatch)
	})

	t.Run("sum over the wrong column", func(t *testing.T) {
		fake := sheetstore.NewFake()
		fake.SetCell(table.Sheet, "F4", "=SUM(G10:G11)")
		err := NewTotalTracker(fake, testLogger()).Ensure(ctx, table, 12)
		assert.ErrorIs(t, err, common.ErrFormulaMismatch)
	})

	t.Run("sum from the wrong start row", func(t *testing.T) {
		fake := sheetstore.NewFake()
		fake.SetCell(table.Sheet, "F4", "=SUM(H1:H11)")
		err := NewTotalTracker(fake, testLogger()).Ensure(ctx, table, 12)
		assert.ErrorIs(t, err, common.ErrFormulaMismatch)
	})
}

func TestTotalTrackerNoTotalConfigured(t *testing.T) {
	table := mustTable(t, layout.ClientLedger)
	tracker := NewTotalTracker(sheetstore.NewFake(), testLogger())

	assert.NoError(t, tracker.Ensure(context.Background(), table, 99))
}
