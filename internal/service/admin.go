package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/model"
)

// SetClientStatus overrides the list status on every ledger row of the
// client, regardless of their current debt. Used for manual white/black-list
// decisions; the next payment recomputes statuses from debt again.
func (s *Service) SetClientStatus(ctx context.Context, client string, status model.ListStatus) (int, error) {
	if err := validateName("client", client); err != nil {
		return 0, err
	}
	if status != model.ListWhite && status != model.ListBlack {
		return 0, common.NewValidationError("status", "must be white or black")
	}

	rows, err := s.views.ClientRows(ctx)
	if err != nil {
		return 0, err
	}

	table, err := s.table(layout.ClientLedger)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, row := range rows {
		if !strings.EqualFold(row.Client, client) {
			continue
		}
		if err := s.writer.UpdateField(ctx, table, row.Row, "status", string(status)); err != nil {
			return updated, err
		}
		updated++
	}
	if updated == 0 {
		return 0, fmt.Errorf("%w: client %q has no ledger rows", common.ErrNotFound, client)
	}

	s.logger.Info("client status set", "client", client, "status", status, "rows", updated)
	return updated, nil
}

// AddCategory registers a name in the category table for autocomplete and
// list membership.
func (s *Service) AddCategory(ctx context.Context, kind model.CategoryType, name string) (OperationResult, error) {
	if err := validateName("name", name); err != nil {
		return OperationResult{}, err
	}
	switch kind {
	case model.CategoryDesigner, model.CategoryClient, model.CategoryExpense, model.CategoryIncome:
	default:
		return OperationResult{}, common.NewValidationError("type", "unknown category type")
	}

	// Idempotent on name+type: re-adding an existing entry is a no-op.
	existing, err := s.views.Categories(ctx, kind)
	if err != nil {
		return OperationResult{}, err
	}
	for _, entry := range existing {
		if strings.EqualFold(entry.Name, name) {
			return OperationResult{TxID: entry.TxID}, nil
		}
	}

	table, err := s.table(layout.Categories)
	if err != nil {
		return OperationResult{}, err
	}

	txID := uuid.NewString()
	row, err := s.writer.WriteRow(ctx, table, txID, []any{
		string(kind), name, string(model.StatusActive), model.FormatDate(s.now()),
	})
	if err != nil {
		return OperationResult{}, err
	}

	s.logger.Info("category added", "type", kind, "name", name, "row", row)
	return OperationResult{TxID: txID, Rows: map[string]int{layout.Categories: row}}, nil
}

// DeleteOperation removes every row carrying the given transaction
// identifier across all tables: expanding tables lose the physical row so
// their summed ranges stay contiguous, fixed tables get the identifier and
// data cells cleared for reuse. Returns the table keys touched.
func (s *Service) DeleteOperation(ctx context.Context, txID string) ([]string, error) {
	if err := validateName("transaction id", txID); err != nil {
		return nil, err
	}

	var touched []string
	for _, key := range s.registry.Keys() {
		table, err := s.table(key)
		if err != nil {
			return touched, err
		}

		row, err := s.writer.FindRowByTxID(ctx, table, txID)
		if err != nil {
			if common.IsNotFound(err) {
				continue
			}
			return touched, err
		}

		if table.Expanding {
			if err := s.writer.RemoveRow(ctx, table, row); err != nil {
				return touched, err
			}
			if err := s.totals.Ensure(ctx, table, row-1); err != nil {
				s.logger.Warn("derived total out of step after delete",
					"table", key, "error", err)
			}
		} else {
			if err := s.writer.ClearRow(ctx, table, row); err != nil {
				return touched, err
			}
		}
		touched = append(touched, key)
	}

	if len(touched) == 0 {
		return nil, fmt.Errorf("%w: no rows carry identifier %s", common.ErrNotFound, txID)
	}

	s.logger.Info("operation deleted", "tx_id", txID, "tables", touched)
	return touched, nil
}
