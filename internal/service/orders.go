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

// OrderInput is the user-entered form of a new order.
type OrderInput struct {
	Date     time.Time
	Designer string // empty means a pure agency order
	Client   string
	Model    model.PricingModel
	Amount   decimal.Decimal
	Percent  decimal.Decimal
	Salary   decimal.Decimal
	Paid     decimal.Decimal
	Wallet   model.WalletPolicy
}

// OrderResult is what a committed order creation reports back.
type OrderResult struct {
	OperationResult
	Financials model.OrderFinancials
}

// CreateOrder records one order across the designer orders table, the client
// ledger, and the general ledger, all under one shared identifier. Either
// every row lands or none do.
func (s *Service) CreateOrder(ctx context.Context, in OrderInput) (OrderResult, error) {
	if err := s.validateOrder(in); err != nil {
		return OrderResult{}, err
	}

	date := s.date(in.Date)
	order := model.Order{
		Date:     date,
		Designer: in.Designer,
		Client:   in.Client,
		Model:    in.Model,
		Amount:   in.Amount,
		Percent:  in.Percent,
		Salary:   in.Salary,
		Paid:     in.Paid,
		Wallet:   in.Wallet,
	}
	fin := finance.Calculate(order)

	balances, err := s.views.LatestBalances(ctx)
	if err != nil {
		return OrderResult{}, err
	}
	balances = balances.Next(fin.WalletOp, fin.WalletRes, decimal.Zero, decimal.Zero)

	fullDate := model.FormatDate(date)
	status := model.StatusForDebt(fin.Debt)

	rows := make(map[string]int)
	var steps []ledger.Step

	if !order.IsPure() {
		var percentCell, salaryCell any = "", ""
		if order.Model == model.ModelSalary {
			salaryCell = num(order.Salary)
		} else {
			percentCell = num(finance.NormalizePercent(order.Percent))
		}
		steps = append(steps, s.writeStep(layout.DesignerOrders, func(string) []any {
			return []any{fullDate, order.Designer, order.Client,
				num(order.Amount), percentCell, salaryCell}
		}, rows))
	}

	steps = append(steps,
		s.writeStep(layout.ClientLedger, func(string) []any {
			return []any{fullDate, order.Client, string(status),
				num(order.Amount), num(order.Paid), num(fin.Debt), num(fin.Overpayment)}
		}, rows),
		s.writeStep(layout.General, func(string) []any {
			generalEntry := model.GeneralLedgerRow{
				Date:         model.ShortDate(date),
				Type:         model.OpDesignerOrder,
				Designer:     order.Designer,
				Client:       order.Client,
				OrderAmount:  order.Amount,
				Paid:         order.Paid,
				Debt:         fin.Debt,
				Overpaid:     fin.Overpayment,
				BalanceOp:    balances.Op,
				BalanceRes:   balances.Res,
			}
			if order.Model == model.ModelSalary {
				generalEntry.SalaryEarnings = fin.DesignerEarnings
			} else if !order.IsPure() {
				generalEntry.PercentEarnings = fin.DesignerEarnings
			}
			return generalRow(generalEntry)
		}, rows),
		s.writeStep(layout.GeneralPL, func(string) []any {
			return plRow(model.ProfitLossRow{
				Date:    model.ShortDate(date),
				Revenue: order.Amount,
				Expense: fin.DesignerEarnings,
				Profit:  fin.AgencyIncome,
			})
		}, rows),
	)

	txResult, err := s.coord.Run(ctx, steps)
	if err != nil {
		return OrderResult{}, err
	}

	s.logger.Info("order created",
		"tx_id", txResult.TxID, "client", order.Client, "designer", order.Designer,
		"amount", order.Amount, "debt", fin.Debt)

	return OrderResult{
		OperationResult: OperationResult{TxID: txResult.TxID, Rows: rows},
		Financials:      fin,
	}, nil
}

// CreatePureOrder records an order with no designer attached: the full amount
// accrues to the agency.
func (s *Service) CreatePureOrder(ctx context.Context, in OrderInput) (OrderResult, error) {
	in.Designer = ""
	in.Percent = decimal.Zero
	in.Salary = decimal.Zero
	return s.CreateOrder(ctx, in)
}
