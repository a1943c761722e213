// Package finance holds the pure calculation core: per-order derived figures,
// wallet splits, cumulative balances, and FIFO payment allocation. Nothing in
// this package touches the spreadsheet.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/model"
)

var (
	one     = decimal.NewFromInt(1)
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// NormalizePercent maps both accepted percent notations onto a fraction:
// values above 1 are treated as a percentage ("40" -> 0.4), values at or
// below 1 as an already-normalized fraction ("0.4" -> 0.4).
func NormalizePercent(p decimal.Decimal) decimal.Decimal {
	if p.GreaterThan(one) {
		return p.Div(hundred)
	}
	return p
}

// Debt returns how much of the order amount is still unpaid, floored at zero.
func Debt(amount, paid decimal.Decimal) decimal.Decimal {
	debt := amount.Sub(paid)
	if debt.IsNegative() {
		return decimal.Zero
	}
	return debt
}

// Overpayment returns how much the payments exceed the order amount, floored
// at zero.
func Overpayment(amount, paid decimal.Decimal) decimal.Decimal {
	over := paid.Sub(amount)
	if over.IsNegative() {
		return decimal.Zero
	}
	return over
}

// DesignerEarnings computes the designer's pay for an order. Under the percent
// model the share applies to the full order amount regardless of how much has
// actually been paid. Under the salary model the fixed salary is clamped to
// the order amount, so malformed at-rest rows can never pay out more than the
// order is worth.
func DesignerEarnings(order model.Order) decimal.Decimal {
	if order.IsPure() {
		return decimal.Zero
	}
	switch order.Model {
	case model.ModelSalary:
		if order.Salary.GreaterThan(order.Amount) {
			return order.Amount
		}
		return order.Salary
	default:
		return order.Amount.Mul(NormalizePercent(order.Percent))
	}
}

// WalletSplit divides an income figure between the operational and reserve
// wallets according to the policy. Unrecognized policies fall back to
// operational.
func WalletSplit(income decimal.Decimal, policy model.WalletPolicy) (op, res decimal.Decimal) {
	switch policy {
	case model.WalletReserve:
		return decimal.Zero, income
	case model.WalletEven:
		half := income.Div(two)
		return half, income.Sub(half)
	default:
		return income, decimal.Zero
	}
}

// Calculate produces every derived figure for one order in a single pass.
func Calculate(order model.Order) model.OrderFinancials {
	earnings := DesignerEarnings(order)
	income := order.Amount.Sub(earnings)
	op, res := WalletSplit(income, order.Wallet)

	return model.OrderFinancials{
		Debt:             Debt(order.Amount, order.Paid),
		Overpayment:      Overpayment(order.Amount, order.Paid),
		DesignerEarnings: earnings,
		AgencyIncome:     income,
		WalletOp:         op,
		WalletRes:        res,
	}
}

// Balances is the running pair of wallet balances carried down the general
// ledger.
type Balances struct {
	Op  decimal.Decimal
	Res decimal.Decimal
}

// Next derives the balances for a new row from the previous row's balances
// and the new row's wallet inflows and outflows.
func (b Balances) Next(inflowOp, inflowRes, outflowOp, outflowRes decimal.Decimal) Balances {
	return Balances{
		Op:  b.Op.Add(inflowOp).Sub(outflowOp),
		Res: b.Res.Add(inflowRes).Sub(outflowRes),
	}
}
