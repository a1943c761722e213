// Package ledger implements the write side of the spreadsheet ledger: row
// placement, correlated multi-table writes, derived-total upkeep, and the
// transaction coordinator that rolls back partial writes.
package ledger

import (
	"context"
	"fmt"

	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/sheetstore"
)

// FindFirstWritableRow scans the table's liveness column from its start row
// and returns the first row that is empty and not reserved. When every
// returned row holds data, the next row past the data is used; the scan never
// looks further than the table's bounded window.
func FindFirstWritableRow(ctx context.Context, store sheetstore.Store, table layout.Table) (int, error) {
	grid, err := store.Read(ctx, table.Sheet, table.ColumnRange(table.Liveness, table.StartRow))
	if err != nil {
		return 0, fmt.Errorf("scanning %s for a writable row: %w", table.Key, err)
	}

	for i, cells := range grid {
		row := table.StartRow + i
		if table.IsSkipRow(row) {
			continue
		}
		if rowEmpty(cells) {
			return row, nil
		}
	}

	// Trailing empty rows are trimmed from the response, so the first row past
	// the data is writable.
	return table.NextWritable(table.StartRow + len(grid)), nil
}

// FindLastDataRow returns the last row of the table that holds data in the
// liveness column, or StartRow-1 when the table is empty.
func FindLastDataRow(ctx context.Context, store sheetstore.Store, table layout.Table) (int, error) {
	grid, err := store.Read(ctx, table.Sheet, table.ColumnRange(table.Liveness, table.StartRow))
	if err != nil {
		return 0, fmt.Errorf("scanning %s for the last data row: %w", table.Key, err)
	}

	last := table.StartRow - 1
	for i, cells := range grid {
		if !rowEmpty(cells) {
			last = table.StartRow + i
		}
	}
	return last, nil
}

func rowEmpty(cells []any) bool {
	for _, cell := range cells {
		if cell == nil {
			continue
		}
		if s, ok := cell.(string); ok && s == "" {
			continue
		}
		return false
	}
	return true
}
