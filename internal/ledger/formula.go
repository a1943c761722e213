package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/sheetstore"
)

// Localized spreadsheets spell the sum function differently; both forms carry
// the same meaning and either is accepted as-is.
var sumPattern = regexp.MustCompile(`(?i)^=(SUM|СУММ)\(\$?([A-Z]+)\$?(\d+):\$?([A-Z]+)\$?(\d+)\)$`)

// TotalTracker keeps a table's derived-total formula aligned with its live
// row extent after expanding writes.
type TotalTracker struct {
	store  sheetstore.Store
	logger *slog.Logger
}

// NewTotalTracker creates a tracker over the given store.
func NewTotalTracker(store sheetstore.Store, logger *slog.Logger) *TotalTracker {
	return &TotalTracker{store: store, logger: logger}
}

// Ensure verifies that the table's derived-total cell still holds a sum over
// the configured column and extends its end row to lastRow when it lags
// behind. A cell holding anything other than a recognizable sum formula
// reports common.ErrFormulaMismatch; the row write that preceded the check
// stays committed, so callers treat this as a warning, not a rollback
// trigger.
func (t *TotalTracker) Ensure(ctx context.Context, table layout.Table, lastRow int) error {
	if table.Total == nil {
		return nil
	}
	total := *table.Total

	grid, err := t.store.ReadFormulas(ctx, table.Sheet, total.Cell)
	if err != nil {
		return fmt.Errorf("reading derived total %s!%s: %w", table.Sheet, total.Cell, err)
	}
	if len(grid) == 0 || len(grid[0]) == 0 {
		return fmt.Errorf("%w: %s!%s is empty", common.ErrFormulaMismatch, table.Sheet, total.Cell)
	}

	formula, _ := grid[0][0].(string)
	match := sumPattern.FindStringSubmatch(strings.TrimSpace(formula))
	if match == nil {
		return fmt.Errorf("%w: %s!%s holds %q", common.ErrFormulaMismatch, table.Sheet, total.Cell, formula)
	}

	name := match[1]
	startCol, startRow := match[2], match[3]
	endCol := match[4]
	endRow, _ := strconv.Atoi(match[5])

	wantCol := layout.Label(total.SumColumn)
	if !strings.EqualFold(startCol, wantCol) || !strings.EqualFold(endCol, wantCol) ||
		startRow != strconv.Itoa(total.StartRow) {
		return fmt.Errorf("%w: %s!%s sums %s%s:%s%d, expected column %s from row %d",
			common.ErrFormulaMismatch, table.Sheet, total.Cell,
			startCol, startRow, endCol, endRow, wantCol, total.StartRow)
	}

	if endRow >= lastRow {
		return nil
	}

	updated := fmt.Sprintf("=%s(%s%d:%s%d)", name, wantCol, total.StartRow, wantCol, lastRow)
	if err := t.store.Write(ctx, table.Sheet, total.Cell, [][]any{{updated}}); err != nil {
		return fmt.Errorf("extending derived total %s!%s: %w", table.Sheet, total.Cell, err)
	}

	t.logger.Debug("extended derived total",
		"table", table.Key, "cell", total.Cell, "end_row", lastRow)
	return nil
}
