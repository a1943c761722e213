package finance

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/model"
)

// Allocate distributes a payment across the given ledger rows oldest-first.
// Rows must already be filtered to one client and ordered by position; rows
// without debt are skipped. Every row that carries debt gets an allocation
// entry, including zero-applied ones after the payment is exhausted, so the
// caller sees the full debt picture and can report what remains unpaid.
//
// The returned leftover is whatever part of the payment exceeded the total
// outstanding debt.
func Allocate(rows []model.ClientLedgerRow, payment decimal.Decimal) ([]model.Allocation, decimal.Decimal) {
	remaining := payment
	var allocations []model.Allocation

	for _, row := range rows {
		debt := Debt(row.Amount, row.Paid)
		if !debt.IsPositive() {
			continue
		}

		applied := remaining
		if applied.GreaterThan(debt) {
			applied = debt
		}
		if applied.IsNegative() {
			applied = decimal.Zero
		}

		allocations = append(allocations, model.Allocation{
			Row:           row.Row,
			Date:          row.Date,
			Amount:        row.Amount,
			OldPaid:       row.Paid,
			NewPaid:       row.Paid.Add(applied),
			Applied:       applied,
			RemainingDebt: debt.Sub(applied),
		})
		remaining = remaining.Sub(applied)
	}

	return allocations, remaining
}
