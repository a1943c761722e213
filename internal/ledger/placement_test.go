package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/sheetstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustTable(t *testing.T, key string) layout.Table {
	t.Helper()
	reg, err := layout.NewRegistry(nil)
	require.NoError(t, err)
	table, err := reg.Table(key)
	require.NoError(t, err)
	return table
}

func TestFindFirstWritableRowEmptyTable(t *testing.T) {
	fake := sheetstore.NewFake()
	table := mustTable(t, layout.DesignerOrders)

	row, err := FindFirstWritableRow(context.Background(), fake, table)
	require.NoError(t, err)
	require.Equal(t, 15, row)
}

func TestFindFirstWritableRowAfterData(t *testing.T) {
	fake := sheetstore.NewFake()
	table := mustTable(t, layout.DesignerOrders)
	fake.SetCell(table.Sheet, "G15", "01.02.2026")
	fake.SetCell(table.Sheet, "G16", "02.02.2026")

	row, err := FindFirstWritableRow(context.Background(), fake, table)
	require.NoError(t, err)
	require.Equal(t, 17, row)
}

func TestFindFirstWritableRowReusesGap(t *testing.T) {
	fake := sheetstore.NewFake()
	table := mustTable(t, layout.DesignerOrders)
	fake.SetCell(table.Sheet, "G15", "01.02.2026")
	// Row 16 was cleared by a rollback; row 17 still holds data.
	fake.SetCell(table.Sheet, "G17", "03.02.2026")

	row, err := FindFirstWritableRow(context.Background(), fake, table)
	require.NoError(t, err)
	require.Equal(t, 16, row)
}

func TestFindFirstWritableRowSkipsReservedRows(t *testing.T) {
	fake := sheetstore.NewFake()
	table := mustTable(t, layout.DesignerOrders)
	table.SkipRows = []int{16, 17}
	fake.SetCell(table.Sheet, "G15", "01.02.2026")

	row, err := FindFirstWritableRow(context.Background(), fake, table)
	require.NoError(t, err)
	require.Equal(t, 18, row, "reserved rows are never offered for writing")
}

func TestFindLastDataRow(t *testing.T) {
	fake := sheetstore.NewFake()
	table := mustTable(t, layout.PureIncome)

	last, err := FindLastDataRow(context.Background(), fake, table)
	require.NoError(t, err)
	require.Equal(t, 9, last, "an empty table reports the row before its start")

	fake.SetCell(table.Sheet, "G10", "consulting")
	fake.SetCell(table.Sheet, "G12", "retainer")

	last, err = FindLastDataRow(context.Background(), fake, table)
	require.NoError(t, err)
	require.Equal(t, 12, last)
}
