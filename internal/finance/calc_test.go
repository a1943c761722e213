package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/ledgerline/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDebtAndOverpaymentAreExclusive(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		paid     string
		wantDebt string
		wantOver string
	}{
		{"unpaid", "1000", "0", "1000", "0"},
		{"partially paid", "1000", "400", "600", "0"},
		{"exactly paid", "1000", "1000", "0", "0"},
		{"overpaid", "1000", "1200", "0", "200"},
		{"fractional", "99.90", "100", "0", "0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, paid := dec(tt.amount), dec(tt.paid)
			debt := Debt(amount, paid)
			over := Overpayment(amount, paid)

			assert.True(t, debt.Equal(dec(tt.wantDebt)), "debt = %s", debt)
			assert.True(t, over.Equal(dec(tt.wantOver)), "overpayment = %s", over)
			assert.False(t, debt.IsPositive() && over.IsPositive(),
				"a row can never carry debt and overpayment at once")
		})
	}
}

func TestNormalizePercentBothNotations(t *testing.T) {
	// "40" and "0.4" describe the same 40% share.
	assert.True(t, NormalizePercent(dec("40")).Equal(dec("0.4")))
	assert.True(t, NormalizePercent(dec("0.4")).Equal(dec("0.4")))
	assert.True(t, NormalizePercent(dec("1")).Equal(dec("1")))
	assert.True(t, NormalizePercent(dec("100")).Equal(dec("1")))
	assert.True(t, NormalizePercent(dec("0.05")).Equal(dec("0.05")))
}

func TestDesignerEarnings(t *testing.T) {
	tests := []struct {
		name  string
		order model.Order
		want  string
	}{
		{
			name: "percent model whole notation",
			order: model.Order{
				Designer: "vera", Model: model.ModelPercent,
				Amount: dec("1000"), Percent: dec("40"),
			},
			want: "400",
		},
		{
			name: "percent model fraction notation",
			order: model.Order{
				Designer: "vera", Model: model.ModelPercent,
				Amount: dec("1000"), Percent: dec("0.4"),
			},
			want: "400",
		},
		{
			name: "salary model",
			order: model.Order{
				Designer: "vera", Model: model.ModelSalary,
				Amount: dec("1000"), Salary: dec("300"),
			},
			want: "300",
		},
		{
			name: "salary clamped to order amount",
			order: model.Order{
				Designer: "vera", Model: model.ModelSalary,
				Amount: dec("1000"), Salary: dec("1500"),
			},
			want: "1000",
		},
		{
			name:  "pure order earns nothing",
			order: model.Order{Model: model.ModelPercent, Amount: dec("1000"), Percent: dec("40")},
			want:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DesignerEarnings(tt.order)
			assert.True(t, got.Equal(dec(tt.want)), "earnings = %s", got)
		})
	}
}

func TestWalletSplitConservesIncome(t *testing.T) {
	income := dec("333.33")

	for _, policy := range []model.WalletPolicy{
		model.WalletOperational, model.WalletReserve, model.WalletEven,
	} {
		op, res := WalletSplit(income, policy)
		assert.True(t, op.Add(res).Equal(income),
			"%s split must conserve the income figure", policy)
	}

	op, res := WalletSplit(income, model.WalletOperational)
	assert.True(t, op.Equal(income) && res.IsZero())

	op, res = WalletSplit(income, model.WalletReserve)
	assert.True(t, op.IsZero() && res.Equal(income))

	op, res = WalletSplit(dec("100"), model.WalletEven)
	assert.True(t, op.Equal(dec("50")) && res.Equal(dec("50")))
}

func TestCalculate(t *testing.T) {
	order := model.Order{
		Designer: "vera",
		Client:   "acme",
		Model:    model.ModelPercent,
		Amount:   dec("1000"),
		Percent:  dec("40"),
		Paid:     dec("700"),
		Wallet:   model.WalletEven,
	}

	fin := Calculate(order)

	assert.True(t, fin.Debt.Equal(dec("300")))
	assert.True(t, fin.Overpayment.IsZero())
	assert.True(t, fin.DesignerEarnings.Equal(dec("400")))
	assert.True(t, fin.AgencyIncome.Equal(dec("600")))
	assert.True(t, fin.WalletOp.Equal(dec("300")))
	assert.True(t, fin.WalletRes.Equal(dec("300")))
}

func TestBalancesNext(t *testing.T) {
	start := Balances{Op: dec("1000"), Res: dec("500")}

	// Income lands in the wallets.
	afterIncome := start.Next(dec("300"), dec("300"), decimal.Zero, decimal.Zero)
	assert.True(t, afterIncome.Op.Equal(dec("1300")))
	assert.True(t, afterIncome.Res.Equal(dec("800")))

	// An expense drains the operational wallet only.
	afterExpense := afterIncome.Next(decimal.Zero, decimal.Zero, dec("200"), decimal.Zero)
	assert.True(t, afterExpense.Op.Equal(dec("1100")))
	assert.True(t, afterExpense.Res.Equal(dec("800")))
}
