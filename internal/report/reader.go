// Package report implements the read side of the ledger: it pulls table
// strips out of the spreadsheet, tolerates the semi-structured cells humans
// leave behind, and aggregates them into the views the bot presents.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/sheetstore"
)

// Views reads and aggregates ledger tables. All methods are safe for
// concurrent use; the store gates its own call concurrency.
type Views struct {
	store    sheetstore.Store
	registry *layout.Registry
	logger   *slog.Logger
}

// NewViews creates the read-side view layer.
func NewViews(store sheetstore.Store, registry *layout.Registry, logger *slog.Logger) *Views {
	return &Views{store: store, registry: registry, logger: logger}
}

// readStrip reads a table's identifier and data columns across its bounded
// window. Row i of the returned grid is sheet row table.StartRow+i; cells are
// indexed by absolute column via stripCell.
func (v *Views) readStrip(ctx context.Context, key string) (layout.Table, [][]any, error) {
	table, err := v.registry.Table(key)
	if err != nil {
		return layout.Table{}, nil, err
	}

	first := table.IDColumn
	if table.DataStart < first {
		first = table.DataStart
	}
	a1 := fmt.Sprintf("%s%d:%s%d",
		layout.Label(first), table.StartRow,
		layout.Label(table.DataEnd), table.StartRow+table.ScanWindow())

	grid, err := v.store.Read(ctx, table.Sheet, a1)
	if err != nil {
		return layout.Table{}, nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return table, grid, nil
}

// stripCell returns the raw value at an absolute column of one strip row, or
// nil when the row is too short.
func stripCell(table layout.Table, cells []any, col int) any {
	first := table.IDColumn
	if table.DataStart < first {
		first = table.DataStart
	}
	i := col - first
	if i < 0 || i >= len(cells) {
		return nil
	}
	return cells[i]
}

func fieldCell(table layout.Table, cells []any, field string) any {
	i := table.FieldIndex(field)
	if i < 0 {
		return nil
	}
	return stripCell(table, cells, table.DataStart+i)
}

// cellString renders a cell as trimmed text.
func cellString(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// cellDecimal coerces a cell into a decimal. Humans paste numbers with
// comma decimal separators and stray spaces; anything unparseable counts as
// zero rather than poisoning an aggregate.
func cellDecimal(v any) decimal.Decimal {
	switch value := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(value)
	case int:
		return decimal.NewFromInt(int64(value))
	case int64:
		return decimal.NewFromInt(value)
	case string:
		s := strings.TrimSpace(value)
		if s == "" {
			return decimal.Zero
		}
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, ",", ".")
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// ClientRows reads the client ledger into typed rows. Rows whose date cell is
// empty are treated as blanks and skipped.
func (v *Views) ClientRows(ctx context.Context) ([]model.ClientLedgerRow, error) {
	table, grid, err := v.readStrip(ctx, layout.ClientLedger)
	if err != nil {
		return nil, err
	}

	var rows []model.ClientLedgerRow
	for i, cells := range grid {
		date := cellString(fieldCell(table, cells, "date"))
		client := cellString(fieldCell(table, cells, "client"))
		if date == "" && client == "" {
			continue
		}

		amount := cellDecimal(fieldCell(table, cells, "amount"))
		paid := cellDecimal(fieldCell(table, cells, "paid"))
		rows = append(rows, model.ClientLedgerRow{
			Row:      table.StartRow + i,
			TxID:     cellString(stripCell(table, cells, table.IDColumn)),
			Date:     date,
			Client:   client,
			Status:   model.ListStatus(cellString(fieldCell(table, cells, "status"))),
			Amount:   amount,
			Paid:     paid,
			Debt:     cellDecimal(fieldCell(table, cells, "debt")),
			Overpaid: cellDecimal(fieldCell(table, cells, "overpaid")),
		})
	}
	return rows, nil
}

// Categories reads the registry table, optionally filtered by entry type.
func (v *Views) Categories(ctx context.Context, kind model.CategoryType) ([]model.CategoryEntry, error) {
	table, grid, err := v.readStrip(ctx, layout.Categories)
	if err != nil {
		return nil, err
	}

	var entries []model.CategoryEntry
	for _, cells := range grid {
		name := cellString(fieldCell(table, cells, "name"))
		if name == "" {
			continue
		}
		entry := model.CategoryEntry{
			TxID:      cellString(stripCell(table, cells, table.IDColumn)),
			Type:      model.CategoryType(cellString(fieldCell(table, cells, "type"))),
			Name:      name,
			Status:    model.CategoryStatus(cellString(fieldCell(table, cells, "status"))),
			CreatedAt: cellString(fieldCell(table, cells, "created_at")),
		}
		if kind != "" && entry.Type != kind {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
