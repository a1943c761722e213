package model

import "github.com/shopspring/decimal"

// ListStatus is the per-row white/black list marker on the client ledger.
// A row is black exactly when it carries outstanding debt.
type ListStatus string

// Client ledger list statuses.
const (
	ListWhite ListStatus = "white"
	ListBlack ListStatus = "black"
)

// StatusForDebt derives the list status from a row's debt.
func StatusForDebt(debt decimal.Decimal) ListStatus {
	if debt.IsPositive() {
		return ListBlack
	}
	return ListWhite
}

// ClientLedgerRow is one physical row of the client ledger table. Paid is
// mutated in place by later payment distributions; the rest is append-only.
type ClientLedgerRow struct {
	Row      int
	TxID     string
	Date     string
	Client   string
	Status   ListStatus
	Amount   decimal.Decimal
	Paid     decimal.Decimal
	Debt     decimal.Decimal
	Overpaid decimal.Decimal
}

// OperationType tags a general-ledger row with the user operation that
// produced it.
type OperationType string

// General ledger operation types.
const (
	OpDesignerOrder OperationType = "designer_order"
	OpPureOrder     OperationType = "pure_order"
	OpPureIncome    OperationType = "pure_income"
	OpExpense       OperationType = "expense"
	OpPayout        OperationType = "designer_payout"
)

// GeneralLedgerRow is the denormalized projection of one operation into the
// wide transactional strip of the general ledger. BalanceOp and BalanceRes are
// cumulative wallet balances derived from the immediately preceding row.
type GeneralLedgerRow struct {
	TxID            string
	Date            string
	Type            OperationType
	Designer        string
	Client          string
	OrderAmount     decimal.Decimal
	Paid            decimal.Decimal
	Debt            decimal.Decimal
	Overpaid        decimal.Decimal
	PercentEarnings decimal.Decimal // designer pay under the percent model
	SalaryEarnings  decimal.Decimal // designer pay under the salary model
	PureCategory    string
	PureAmount      decimal.Decimal
	ExpenseCategory string
	ExpenseAmount   decimal.Decimal
	BalanceOp       decimal.Decimal
	BalanceRes      decimal.Decimal
}

// ProfitLossRow is the narrow P&L strip entry written alongside every
// general-ledger row.
type ProfitLossRow struct {
	Date    string
	Revenue decimal.Decimal
	Expense decimal.Decimal
	Profit  decimal.Decimal
}
