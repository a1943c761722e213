// Package service is the operation boundary of the ledger: each exported
// method validates its input, derives the financial figures, and drives the
// correlated multi-table writes through the transaction coordinator.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/report"
	"github.com/ledgerline/ledgerline/internal/sheetstore"
)

// Service exposes every user-facing ledger operation.
type Service struct {
	store    sheetstore.Store
	registry *layout.Registry
	writer   *ledger.Writer
	totals   *ledger.TotalTracker
	coord    *ledger.Coordinator
	views    *report.Views
	logger   *slog.Logger
	now      func() time.Time
}

// New wires the service over a store and table registry.
func New(store sheetstore.Store, registry *layout.Registry, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		registry: registry,
		writer:   ledger.NewWriter(store, logger),
		totals:   ledger.NewTotalTracker(store, logger),
		coord:    ledger.NewCoordinator(logger),
		views:    report.NewViews(store, registry, logger),
		logger:   logger,
		now:      time.Now,
	}
}

// Views exposes the read-side aggregations built over the same store.
func (s *Service) Views() *report.Views {
	return s.views
}

func (s *Service) table(key string) (layout.Table, error) {
	return s.registry.Table(key)
}

// OperationResult reports where a committed operation landed.
type OperationResult struct {
	TxID     string
	Rows     map[string]int // table key -> row written
	Warnings []string       // non-fatal upkeep failures, e.g. a total formula mismatch
}

// date falls back to the current day for operations entered without one.
func (s *Service) date(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

// num renders a decimal for a sheet cell.
func num(d decimal.Decimal) any {
	f, _ := d.Float64()
	return f
}

// writeStep builds a coordinator step that appends one row to a table and
// compensates by clearing it again.
func (s *Service) writeStep(key string, values func(txID string) []any, rows map[string]int) ledger.Step {
	return ledger.Step{
		Name: key,
		Apply: func(ctx context.Context, txID string) (ledger.Undo, error) {
			table, err := s.table(key)
			if err != nil {
				return nil, err
			}
			row, err := s.writer.WriteRow(ctx, table, txID, values(txID))
			if err != nil {
				return nil, err
			}
			rows[key] = row
			return func(ctx context.Context) error {
				return s.writer.ClearRow(ctx, table, row)
			}, nil
		},
	}
}

// expandingStep is writeStep for tables that grow by row insertion; the
// compensation removes the inserted row so the summed range stays contiguous.
// Derived-total upkeep runs after the write and reports through warn rather
// than failing the step: the row is already committed, a stale or hand-broken
// formula must not roll it back.
func (s *Service) expandingStep(key string, values func(txID string) []any, rows map[string]int, warn func(string)) ledger.Step {
	return ledger.Step{
		Name: key,
		Apply: func(ctx context.Context, txID string) (ledger.Undo, error) {
			table, err := s.table(key)
			if err != nil {
				return nil, err
			}
			row, err := s.writer.WriteRowExpanding(ctx, table, txID, values(txID))
			if err != nil {
				return nil, err
			}
			rows[key] = row

			if err := s.totals.Ensure(ctx, table, row); err != nil {
				s.logger.Warn("derived total out of step after write",
					"table", key, "row", row, "error", err)
				warn(fmt.Sprintf("%s: %v", key, err))
			}

			return func(ctx context.Context) error {
				return s.writer.RemoveRow(ctx, table, row)
			}, nil
		},
	}
}

// generalRow renders a general-ledger projection into the wide strip's
// column order.
func generalRow(row model.GeneralLedgerRow) []any {
	return []any{
		row.Date,
		row.Designer,
		row.Client,
		num(row.OrderAmount),
		num(row.Paid),
		num(row.Debt),
		num(row.Overpaid),
		num(row.PercentEarnings),
		num(row.SalaryEarnings),
		row.PureCategory,
		num(row.PureAmount),
		row.ExpenseCategory,
		num(row.ExpenseAmount),
		num(row.BalanceOp),
		num(row.BalanceRes),
	}
}

// plRow renders a P&L strip entry.
func plRow(row model.ProfitLossRow) []any {
	return []any{
		row.Date,
		num(row.Revenue),
		num(row.Expense),
		num(row.Profit),
	}
}
