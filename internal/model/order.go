// Package model defines the core domain types shared across the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingModel selects how a designer is paid for an order.
type PricingModel string

// Supported pricing models.
const (
	ModelPercent PricingModel = "percent"
	ModelSalary  PricingModel = "salary"
)

// WalletPolicy selects how agency income is split between the two wallets.
type WalletPolicy string

// Supported wallet policies.
const (
	WalletOperational WalletPolicy = "operational"
	WalletReserve     WalletPolicy = "reserve"
	WalletEven        WalletPolicy = "even"
)

// Order is the conceptual entity behind one order-creation operation. It
// spans three physical rows (designer orders, client ledger, general ledger)
// correlated by TxID.
type Order struct {
	Date     time.Time
	TxID     string
	Designer string // empty means a pure agency order
	Client   string
	Model    PricingModel
	Amount   decimal.Decimal
	Percent  decimal.Decimal // percent model only; "40" and "0.4" both mean 40%
	Salary   decimal.Decimal // salary model only; must not exceed Amount
	Paid     decimal.Decimal // actual payment received so far
	Wallet   WalletPolicy
}

// IsPure reports whether the order has no designer attached, meaning the full
// amount accrues to the agency.
func (o Order) IsPure() bool {
	return o.Designer == ""
}

// OrderFinancials carries every derived figure for one order. Produced by the
// finance package, consumed by the writers.
type OrderFinancials struct {
	Debt             decimal.Decimal
	Overpayment      decimal.Decimal
	DesignerEarnings decimal.Decimal
	AgencyIncome     decimal.Decimal
	WalletOp         decimal.Decimal
	WalletRes        decimal.Decimal
}

// Allocation records one FIFO payment application against a single ledger row.
type Allocation struct {
	Row           int
	Date          string
	Amount        decimal.Decimal
	OldPaid       decimal.Decimal
	NewPaid       decimal.Decimal
	Applied       decimal.Decimal
	RemainingDebt decimal.Decimal
}
