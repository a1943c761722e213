package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/finance"
	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/model"
)

// ClientDebt is one client's aggregate debt position.
type ClientDebt struct {
	Client      string
	Orders      int
	TotalAmount decimal.Decimal
	TotalPaid   decimal.Decimal
	Debt        decimal.Decimal
}

// DesignerEarnings is one designer's aggregate pay over a period.
type DesignerEarnings struct {
	Designer    string
	Orders      int
	TotalAmount decimal.Decimal
	Earnings    decimal.Decimal
}

// CategoryTotal is one expense category's aggregate.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// PayoutEntry is one recorded designer payout.
type PayoutEntry struct {
	Date     string
	Designer string
	Amount   decimal.Decimal
}

// Dashboard is the one-screen financial summary. Revenue, Expenses, Profit
// and Margin come from the P&L strip over the requested period; TotalExpenses
// is the sheet's own all-time total cell.
type Dashboard struct {
	BalanceOp     decimal.Decimal
	BalanceRes    decimal.Decimal
	Revenue       decimal.Decimal
	Expenses      decimal.Decimal
	Profit        decimal.Decimal
	Margin        decimal.Decimal // percent of revenue
	TotalDebt     decimal.Decimal
	TotalExpenses decimal.Decimal
	Debtors       int
}

// ClientsWithDebt aggregates outstanding debt per client over the period,
// worst debtor first. Debt is recomputed from amount and paid rather than
// trusted from the sheet's own debt column, so a stale formula cannot hide a
// debtor. Grouping keys are the client names exactly as written; the sheet is
// the source of truth for spelling.
func (v *Views) ClientsWithDebt(ctx context.Context, period model.DateRange) ([]ClientDebt, error) {
	rows, err := v.ClientRows(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*ClientDebt)
	for _, row := range rows {
		debt := finance.Debt(row.Amount, row.Paid)
		if !debt.IsPositive() {
			continue
		}
		if !period.Contains(row.Date) {
			continue
		}
		entry, ok := totals[row.Client]
		if !ok {
			entry = &ClientDebt{Client: row.Client}
			totals[row.Client] = entry
		}
		entry.Orders++
		entry.TotalAmount = entry.TotalAmount.Add(row.Amount)
		entry.TotalPaid = entry.TotalPaid.Add(row.Paid)
		entry.Debt = entry.Debt.Add(debt)
	}

	result := make([]ClientDebt, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Debt.Equal(result[j].Debt) {
			return result[i].Debt.GreaterThan(result[j].Debt)
		}
		return result[i].Client < result[j].Client
	})
	return result, nil
}

// DebtRows returns the client's ledger rows that still carry debt, oldest
// first by date so FIFO allocation settles the earliest order before any
// later one. Rows without a parseable date sort last; ties keep sheet-row
// order. Lookup is case-insensitive so a payment finds the client however the
// name was typed.
func (v *Views) DebtRows(ctx context.Context, client string) ([]model.ClientLedgerRow, error) {
	rows, err := v.ClientRows(ctx)
	if err != nil {
		return nil, err
	}

	var matched []model.ClientLedgerRow
	for _, row := range rows {
		if !strings.EqualFold(row.Client, client) {
			continue
		}
		if finance.Debt(row.Amount, row.Paid).IsPositive() {
			matched = append(matched, row)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		di, iOK := model.ParseDate(matched[i].Date)
		dj, jOK := model.ParseDate(matched[j].Date)
		switch {
		case iOK && jOK && !di.Equal(dj):
			return di.Before(dj)
		case iOK != jOK:
			return iOK
		default:
			return matched[i].Row < matched[j].Row
		}
	})
	return matched, nil
}

// ClientStatus reports whether the client is currently white or black
// listed: black exactly when any of their rows carries debt.
func (v *Views) ClientStatus(ctx context.Context, client string) (model.ListStatus, error) {
	rows, err := v.ClientRows(ctx)
	if err != nil {
		return "", err
	}

	found := false
	for _, row := range rows {
		if !strings.EqualFold(row.Client, client) {
			continue
		}
		found = true
		if finance.Debt(row.Amount, row.Paid).IsPositive() {
			return model.ListBlack, nil
		}
	}
	if !found {
		return "", fmt.Errorf("%w: client %q has no ledger rows", common.ErrNotFound, client)
	}
	return model.ListWhite, nil
}

// Whitelist returns the clients whose every order is settled.
func (v *Views) Whitelist(ctx context.Context) ([]string, error) {
	return v.clientsByDebt(ctx, false)
}

// Blacklist returns the clients carrying outstanding debt.
func (v *Views) Blacklist(ctx context.Context) ([]string, error) {
	return v.clientsByDebt(ctx, true)
}

func (v *Views) clientsByDebt(ctx context.Context, withDebt bool) ([]string, error) {
	rows, err := v.ClientRows(ctx)
	if err != nil {
		return nil, err
	}

	debts := make(map[string]decimal.Decimal)
	for _, row := range rows {
		debts[row.Client] = debts[row.Client].Add(finance.Debt(row.Amount, row.Paid))
	}

	var names []string
	for client, debt := range debts {
		if debt.IsPositive() == withDebt {
			names = append(names, client)
		}
	}
	sort.Strings(names)
	return names, nil
}

// DesignersWithEarnings aggregates designer pay over the period. The pricing
// model is re-derived per row at read time: a filled salary cell means the
// salary model, clamped to the order amount; otherwise the percent share of
// the order amount applies.
func (v *Views) DesignersWithEarnings(ctx context.Context, period model.DateRange) ([]DesignerEarnings, error) {
	table, grid, err := v.readStrip(ctx, layout.DesignerOrders)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*DesignerEarnings)
	for _, cells := range grid {
		designer := cellString(fieldCell(table, cells, "designer"))
		if designer == "" {
			continue
		}
		date := cellString(fieldCell(table, cells, "date"))
		if !period.Contains(date) {
			continue
		}

		amount := cellDecimal(fieldCell(table, cells, "amount"))
		salary := cellDecimal(fieldCell(table, cells, "salary"))
		percent := cellDecimal(fieldCell(table, cells, "percent"))

		var earned decimal.Decimal
		if salary.IsPositive() {
			earned = salary
			if earned.GreaterThan(amount) {
				earned = amount
			}
		} else {
			earned = amount.Mul(finance.NormalizePercent(percent))
		}

		entry, ok := totals[designer]
		if !ok {
			entry = &DesignerEarnings{Designer: designer}
			totals[designer] = entry
		}
		entry.Orders++
		entry.TotalAmount = entry.TotalAmount.Add(amount)
		entry.Earnings = entry.Earnings.Add(earned)
	}

	result := make([]DesignerEarnings, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Earnings.Equal(result[j].Earnings) {
			return result[i].Earnings.GreaterThan(result[j].Earnings)
		}
		return result[i].Designer < result[j].Designer
	})
	return result, nil
}

// AllClients returns every known client name: the union of the registry and
// the names actually written in the client ledger, deduplicated
// case-insensitively with the registry spelling winning.
func (v *Views) AllClients(ctx context.Context) ([]string, error) {
	return v.allNames(ctx, model.CategoryClient, layout.ClientLedger, "client")
}

// AllDesigners returns every known designer name, from the registry and the
// designer orders sheet.
func (v *Views) AllDesigners(ctx context.Context) ([]string, error) {
	return v.allNames(ctx, model.CategoryDesigner, layout.DesignerOrders, "designer")
}

func (v *Views) allNames(ctx context.Context, kind model.CategoryType, key, field string) ([]string, error) {
	entries, err := v.Categories(ctx, kind)
	if err != nil {
		return nil, err
	}
	table, grid, err := v.readStrip(ctx, key)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name == "" || seen[strings.ToLower(name)] {
			return
		}
		seen[strings.ToLower(name)] = true
		names = append(names, name)
	}
	for _, entry := range entries {
		add(entry.Name)
	}
	for _, cells := range grid {
		add(cellString(fieldCell(table, cells, field)))
	}

	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

// ExpensesByCategory aggregates expenses per category over the period.
func (v *Views) ExpensesByCategory(ctx context.Context, period model.DateRange) ([]CategoryTotal, error) {
	table, grid, err := v.readStrip(ctx, layout.Expenses)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*CategoryTotal)
	for _, cells := range grid {
		category := cellString(fieldCell(table, cells, "category"))
		if category == "" {
			continue
		}
		date := cellString(fieldCell(table, cells, "date"))
		if !period.Contains(date) {
			continue
		}

		entry, ok := totals[category]
		if !ok {
			entry = &CategoryTotal{Category: category}
			totals[category] = entry
		}
		entry.Total = entry.Total.Add(cellDecimal(fieldCell(table, cells, "amount")))
		entry.Count++
	}

	result := make([]CategoryTotal, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

// DesignerPayments lists recorded payouts, optionally filtered to one
// designer (case-insensitive) and a period.
func (v *Views) DesignerPayments(ctx context.Context, designer string, period model.DateRange) ([]PayoutEntry, error) {
	table, grid, err := v.readStrip(ctx, layout.DesignerSalary)
	if err != nil {
		return nil, err
	}

	var payouts []PayoutEntry
	for _, cells := range grid {
		name := cellString(fieldCell(table, cells, "designer"))
		if name == "" {
			continue
		}
		if designer != "" && !strings.EqualFold(name, designer) {
			continue
		}
		date := cellString(fieldCell(table, cells, "date"))
		if !period.Contains(date) {
			continue
		}
		payouts = append(payouts, PayoutEntry{
			Date:     date,
			Designer: name,
			Amount:   cellDecimal(fieldCell(table, cells, "amount")),
		})
	}
	return payouts, nil
}

// TotalExpenses reads the expenses table's derived-total cell. The value is
// whatever the sheet's own formula computed, which covers rows older than the
// bounded scan window.
func (v *Views) TotalExpenses(ctx context.Context) (decimal.Decimal, error) {
	table, err := v.registry.Table(layout.Expenses)
	if err != nil {
		return decimal.Zero, err
	}
	if table.Total == nil {
		return decimal.Zero, fmt.Errorf("table %s carries no derived total", table.Key)
	}

	grid, err := v.store.Read(ctx, table.Sheet, table.Total.Cell)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reading expenses total: %w", err)
	}
	if len(grid) == 0 || len(grid[0]) == 0 {
		return decimal.Zero, nil
	}
	return cellDecimal(grid[0][0]), nil
}

// LatestBalances returns the wallet balances carried by the newest general
// ledger row, or zeros when the ledger is empty.
func (v *Views) LatestBalances(ctx context.Context) (finance.Balances, error) {
	table, grid, err := v.readStrip(ctx, layout.General)
	if err != nil {
		return finance.Balances{}, err
	}

	var balances finance.Balances
	for _, cells := range grid {
		if cellString(fieldCell(table, cells, "date")) == "" {
			continue
		}
		balances = finance.Balances{
			Op:  cellDecimal(fieldCell(table, cells, "balance_op")),
			Res: cellDecimal(fieldCell(table, cells, "balance_res")),
		}
	}
	return balances, nil
}

// Summary assembles the one-screen dashboard over the period. Wallet balances
// and the derived expenses total are point-in-time figures and ignore the
// period; revenue, expenses, profit, margin and the debt aggregate honor it.
func (v *Views) Summary(ctx context.Context, period model.DateRange) (Dashboard, error) {
	balances, err := v.LatestBalances(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	debtors, err := v.ClientsWithDebt(ctx, period)
	if err != nil {
		return Dashboard{}, err
	}
	totalDebt := decimal.Zero
	for _, debtor := range debtors {
		totalDebt = totalDebt.Add(debtor.Debt)
	}

	revenue, expense, profit, err := v.profitLoss(ctx, period)
	if err != nil {
		return Dashboard{}, err
	}
	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = profit.Div(revenue).Mul(decimal.NewFromInt(100))
	}

	expenses, err := v.TotalExpenses(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		BalanceOp:     balances.Op,
		BalanceRes:    balances.Res,
		Revenue:       revenue,
		Expenses:      expense,
		Profit:        profit,
		Margin:        margin,
		TotalDebt:     totalDebt,
		TotalExpenses: expenses,
		Debtors:       len(debtors),
	}, nil
}

// profitLoss sums the P&L strip over the period.
func (v *Views) profitLoss(ctx context.Context, period model.DateRange) (revenue, expense, profit decimal.Decimal, err error) {
	table, grid, err := v.readStrip(ctx, layout.GeneralPL)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}

	for _, cells := range grid {
		date := cellString(fieldCell(table, cells, "date"))
		if date == "" || !period.Contains(date) {
			continue
		}
		revenue = revenue.Add(cellDecimal(fieldCell(table, cells, "revenue")))
		expense = expense.Add(cellDecimal(fieldCell(table, cells, "expense")))
		profit = profit.Add(cellDecimal(fieldCell(table, cells, "profit")))
	}
	return revenue, expense, profit, nil
}
