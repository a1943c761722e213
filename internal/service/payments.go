package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/finance"
	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/model"
)

// PaymentResult reports how an incoming payment was spread across the
// client's open orders. Leftover is whatever exceeded the total outstanding
// debt; it is returned to the caller to decide on, never silently written.
type PaymentResult struct {
	TxID        string
	Allocations []model.Allocation
	Leftover    decimal.Decimal
}

// RecordPayment distributes a client payment across their indebted ledger
// rows oldest-first, updating each row's paid, debt and list-status cells.
// The updates run as one transaction: a failure part-way restores every
// already-updated row to its previous figures.
func (s *Service) RecordPayment(ctx context.Context, client string, amount decimal.Decimal) (PaymentResult, error) {
	if err := validateName("client", client); err != nil {
		return PaymentResult{}, err
	}
	if err := validatePositive("amount", amount); err != nil {
		return PaymentResult{}, err
	}

	// Existence check up front so an unknown client is an error, not a
	// payment with nowhere to go.
	if _, err := s.views.ClientStatus(ctx, client); err != nil {
		return PaymentResult{}, err
	}

	debtRows, err := s.views.DebtRows(ctx, client)
	if err != nil {
		return PaymentResult{}, err
	}

	allocations, leftover := finance.Allocate(debtRows, amount)

	table, err := s.table(layout.ClientLedger)
	if err != nil {
		return PaymentResult{}, err
	}

	var steps []ledger.Step
	for _, alloc := range allocations {
		if !alloc.Applied.IsPositive() {
			continue
		}
		steps = append(steps, s.applyAllocationStep(table, alloc))
	}

	txResult, err := s.coord.Run(ctx, steps)
	if err != nil {
		return PaymentResult{}, err
	}

	s.logger.Info("payment distributed",
		"tx_id", txResult.TxID, "client", client, "amount", amount,
		"rows", len(steps), "leftover", leftover)

	return PaymentResult{
		TxID:        txResult.TxID,
		Allocations: allocations,
		Leftover:    leftover,
	}, nil
}

// applyAllocationStep updates one ledger row to its post-payment figures and
// compensates by restoring the old ones.
func (s *Service) applyAllocationStep(table layout.Table, alloc model.Allocation) ledger.Step {
	oldDebt := finance.Debt(alloc.Amount, alloc.OldPaid)
	oldStatus := model.StatusForDebt(oldDebt)
	newStatus := model.StatusForDebt(alloc.RemainingDebt)

	write := func(ctx context.Context, paid, debt decimal.Decimal, status model.ListStatus) error {
		for field, value := range map[string]any{
			"paid":   num(paid),
			"debt":   num(debt),
			"status": string(status),
		} {
			if err := s.writer.UpdateField(ctx, table, alloc.Row, field, value); err != nil {
				return err
			}
		}
		return nil
	}

	return ledger.Step{
		Name: fmt.Sprintf("%s row %d", table.Key, alloc.Row),
		Apply: func(ctx context.Context, _ string) (ledger.Undo, error) {
			if err := write(ctx, alloc.NewPaid, alloc.RemainingDebt, newStatus); err != nil {
				return nil, err
			}
			return func(ctx context.Context) error {
				return write(ctx, alloc.OldPaid, oldDebt, oldStatus)
			}, nil
		},
	}
}
