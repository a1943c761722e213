package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/sheetstore"
)

// Writer performs placement-aware row writes against one table layout. The
// identifier cell and the data span are written in a single batch; protected
// columns between them are never touched.
type Writer struct {
	store  sheetstore.Store
	logger *slog.Logger
}

// NewWriter creates a Writer over the given store.
func NewWriter(store sheetstore.Store, logger *slog.Logger) *Writer {
	return &Writer{store: store, logger: logger}
}

// WriteRow appends one row to the table at the first writable position and
// returns the row it landed on. values maps positionally onto the table's
// data span and may be shorter than the span; missing trailing cells stay
// empty.
func (w *Writer) WriteRow(ctx context.Context, table layout.Table, txID string, values []any) (int, error) {
	row, err := FindFirstWritableRow(ctx, w.store, table)
	if err != nil {
		return 0, err
	}
	if err := w.writeAt(ctx, table, row, txID, values); err != nil {
		return 0, err
	}
	return row, nil
}

// WriteRowExpanding appends one row to a table that grows by row insertion:
// a new row is inserted after the current last data row so it inherits the
// formulas and formatting above it, then the identifier and data are written
// over the inherited content. An empty table takes its first row in place,
// with nothing to inherit from.
func (w *Writer) WriteRowExpanding(ctx context.Context, table layout.Table, txID string, values []any) (int, error) {
	last, err := FindLastDataRow(ctx, w.store, table)
	if err != nil {
		return 0, err
	}

	row := table.StartRow
	if last >= table.StartRow {
		if err := w.store.InsertRow(ctx, table.Sheet, last); err != nil {
			return 0, fmt.Errorf("growing %s: %w", table.Key, err)
		}
		row = last + 1
	}

	if err := w.writeAt(ctx, table, row, txID, values); err != nil {
		return 0, err
	}
	return row, nil
}

func (w *Writer) writeAt(ctx context.Context, table layout.Table, row int, txID string, values []any) error {
	if len(values) > table.Width() {
		return fmt.Errorf("table %s: %d values exceed %d data columns",
			table.Key, len(values), table.Width())
	}

	span := fmt.Sprintf("%s%d:%s%d",
		layout.Label(table.DataStart), row,
		layout.Label(table.DataStart+len(values)-1), row)

	updates := []sheetstore.RangeUpdate{
		{Range: table.IDCell(row), Values: [][]any{{txID}}},
		{Range: span, Values: [][]any{values}},
	}
	if err := w.store.BatchWrite(ctx, table.Sheet, updates); err != nil {
		return fmt.Errorf("writing %s row %d: %w", table.Key, row, err)
	}

	// Styling is cosmetic; a failure here never voids the committed write.
	if err := w.store.SetCellStyle(ctx, table.Sheet, row,
		table.IDColumn, table.IDColumn, sheetstore.HiddenIDStyle()); err != nil {
		w.logger.Warn("failed to hide identifier cell",
			"table", table.Key, "row", row, "error", err)
	}

	w.logger.Debug("wrote ledger row", "table", table.Key, "row", row, "tx_id", txID)
	return nil
}

// UpdateField overwrites one semantic field of an existing row.
func (w *Writer) UpdateField(ctx context.Context, table layout.Table, row int, field string, value any) error {
	col, err := table.FieldColumn(field)
	if err != nil {
		return err
	}
	cell := table.Cell(col, row)
	if err := w.store.Write(ctx, table.Sheet, cell, [][]any{{value}}); err != nil {
		return fmt.Errorf("updating %s!%s: %w", table.Key, cell, err)
	}
	return nil
}

// FindRowByTxID scans the identifier column for the row carrying the given
// transaction identifier.
func (w *Writer) FindRowByTxID(ctx context.Context, table layout.Table, txID string) (int, error) {
	grid, err := w.store.Read(ctx, table.Sheet, table.ColumnRange(table.IDColumn, table.StartRow))
	if err != nil {
		return 0, fmt.Errorf("scanning %s identifiers: %w", table.Key, err)
	}

	for i, cells := range grid {
		if len(cells) > 0 && fmt.Sprint(cells[0]) == txID {
			return table.StartRow + i, nil
		}
	}
	return 0, fmt.Errorf("%w: no %s row with identifier %s", common.ErrNotFound, table.Key, txID)
}

// ClearRow blanks the identifier and data cells of one row, leaving the
// physical row (and any formulas around it) in place.
func (w *Writer) ClearRow(ctx context.Context, table layout.Table, row int) error {
	if err := w.store.Clear(ctx, table.Sheet, table.IDCell(row)); err != nil {
		return fmt.Errorf("clearing %s row %d: %w", table.Key, row, err)
	}
	if err := w.store.Clear(ctx, table.Sheet, table.DataRange(row)); err != nil {
		return fmt.Errorf("clearing %s row %d: %w", table.Key, row, err)
	}
	return nil
}

// RemoveRow physically deletes one row. Used on expanding tables, where a
// cleared row would leave a hole in the summed range.
func (w *Writer) RemoveRow(ctx context.Context, table layout.Table, row int) error {
	if err := w.store.DeleteRow(ctx, table.Sheet, row); err != nil {
		return fmt.Errorf("removing %s row %d: %w", table.Key, row, err)
	}
	return nil
}
