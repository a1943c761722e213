package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/finance"
	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/model"
)

// ExpenseInput is one recorded expense. Designer and DesignerAmount are
// optional, for expenses tied to a specific designer's work.
type ExpenseInput struct {
	Date           time.Time
	Category       string
	Amount         decimal.Decimal
	Designer       string
	DesignerAmount decimal.Decimal
}

// RecordExpense appends an expense to the expenses table and projects it into
// the general ledger, draining the operational wallet.
func (s *Service) RecordExpense(ctx context.Context, in ExpenseInput) (OperationResult, error) {
	if err := validateName("category", in.Category); err != nil {
		return OperationResult{}, err
	}
	if err := validatePositive("amount", in.Amount); err != nil {
		return OperationResult{}, err
	}
	if in.DesignerAmount.IsNegative() {
		return OperationResult{}, validatePositive("designer amount", in.DesignerAmount)
	}

	date := s.date(in.Date)
	total := in.Amount.Add(in.DesignerAmount)

	balances, err := s.views.LatestBalances(ctx)
	if err != nil {
		return OperationResult{}, err
	}
	balances = balances.Next(decimal.Zero, decimal.Zero, total, decimal.Zero)

	rows := make(map[string]int)
	var warnings []string
	warn := func(w string) { warnings = append(warnings, w) }

	var designerAmountCell any = ""
	if in.Designer != "" {
		designerAmountCell = num(in.DesignerAmount)
	}

	steps := []ledger.Step{
		s.expandingStep(layout.Expenses, func(string) []any {
			return []any{model.FormatDate(date), in.Category, num(in.Amount),
				in.Designer, designerAmountCell, num(total)}
		}, rows, warn),
		s.writeStep(layout.General, func(string) []any {
			return generalRow(model.GeneralLedgerRow{
				Date:            model.ShortDate(date),
				Type:            model.OpExpense,
				Designer:        in.Designer,
				ExpenseCategory: in.Category,
				ExpenseAmount:   total,
				BalanceOp:       balances.Op,
				BalanceRes:      balances.Res,
			})
		}, rows),
		s.writeStep(layout.GeneralPL, func(string) []any {
			return plRow(model.ProfitLossRow{
				Date:    model.ShortDate(date),
				Expense: total,
				Profit:  total.Neg(),
			})
		}, rows),
	}

	txResult, err := s.coord.Run(ctx, steps)
	if err != nil {
		return OperationResult{}, err
	}

	s.logger.Info("expense recorded",
		"tx_id", txResult.TxID, "category", in.Category, "amount", total)
	return OperationResult{TxID: txResult.TxID, Rows: rows, Warnings: warnings}, nil
}

// PureIncomeInput is income unrelated to any order.
type PureIncomeInput struct {
	Date     time.Time
	Category string
	Amount   decimal.Decimal
	Wallet   model.WalletPolicy
}

// RecordPureIncome appends order-free income to the pure income table and
// projects it into the general ledger under the chosen wallet policy.
func (s *Service) RecordPureIncome(ctx context.Context, in PureIncomeInput) (OperationResult, error) {
	if err := validateName("category", in.Category); err != nil {
		return OperationResult{}, err
	}
	if err := validatePositive("amount", in.Amount); err != nil {
		return OperationResult{}, err
	}

	date := s.date(in.Date)

	balances, err := s.views.LatestBalances(ctx)
	if err != nil {
		return OperationResult{}, err
	}
	// Pure income splits across the wallets the same way agency income does.
	op, res := finance.WalletSplit(in.Amount, in.Wallet)
	balances = balances.Next(op, res, decimal.Zero, decimal.Zero)

	rows := make(map[string]int)
	var warnings []string
	warn := func(w string) { warnings = append(warnings, w) }

	steps := []ledger.Step{
		s.expandingStep(layout.PureIncome, func(string) []any {
			return []any{model.FormatDate(date), in.Category, num(in.Amount)}
		}, rows, warn),
		s.writeStep(layout.General, func(string) []any {
			return generalRow(model.GeneralLedgerRow{
				Date:         model.ShortDate(date),
				Type:         model.OpPureIncome,
				PureCategory: in.Category,
				PureAmount:   in.Amount,
				BalanceOp:    balances.Op,
				BalanceRes:   balances.Res,
			})
		}, rows),
		s.writeStep(layout.GeneralPL, func(string) []any {
			return plRow(model.ProfitLossRow{
				Date:    model.ShortDate(date),
				Revenue: in.Amount,
				Profit:  in.Amount,
			})
		}, rows),
	}

	txResult, err := s.coord.Run(ctx, steps)
	if err != nil {
		return OperationResult{}, err
	}

	s.logger.Info("pure income recorded",
		"tx_id", txResult.TxID, "category", in.Category, "amount", in.Amount)
	return OperationResult{TxID: txResult.TxID, Rows: rows, Warnings: warnings}, nil
}

// PayoutInput is one cash payout to a designer.
type PayoutInput struct {
	Date     time.Time
	Designer string
	Amount   decimal.Decimal
}

// RecordDesignerPayout appends a payout to the designer salary table and
// projects the cash outflow into the general ledger.
func (s *Service) RecordDesignerPayout(ctx context.Context, in PayoutInput) (OperationResult, error) {
	if err := validateName("designer", in.Designer); err != nil {
		return OperationResult{}, err
	}
	if err := validatePositive("amount", in.Amount); err != nil {
		return OperationResult{}, err
	}

	date := s.date(in.Date)

	balances, err := s.views.LatestBalances(ctx)
	if err != nil {
		return OperationResult{}, err
	}
	balances = balances.Next(decimal.Zero, decimal.Zero, in.Amount, decimal.Zero)

	rows := make(map[string]int)

	steps := []ledger.Step{
		s.writeStep(layout.DesignerSalary, func(string) []any {
			return []any{model.FormatDate(date), in.Designer, num(in.Amount)}
		}, rows),
		s.writeStep(layout.General, func(string) []any {
			return generalRow(model.GeneralLedgerRow{
				Date:          model.ShortDate(date),
				Type:          model.OpPayout,
				Designer:      in.Designer,
				ExpenseAmount: in.Amount,
				BalanceOp:     balances.Op,
				BalanceRes:    balances.Res,
			})
		}, rows),
		s.writeStep(layout.GeneralPL, func(string) []any {
			return plRow(model.ProfitLossRow{
				Date:    model.ShortDate(date),
				Expense: in.Amount,
				Profit:  in.Amount.Neg(),
			})
		}, rows),
	}

	txResult, err := s.coord.Run(ctx, steps)
	if err != nil {
		return OperationResult{}, err
	}

	s.logger.Info("designer payout recorded",
		"tx_id", txResult.TxID, "designer", in.Designer, "amount", in.Amount)
	return OperationResult{TxID: txResult.TxID, Rows: rows}, nil
}
