package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/layout"
	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/sheetstore"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newService(t *testing.T) (*Service, *sheetstore.Fake) {
	t.Helper()
	registry, err := layout.NewRegistry(nil)
	require.NoError(t, err)
	fake := sheetstore.NewFake()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(fake, registry, logger)
	svc.now = func() time.Time {
		return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc, fake
}

// cellForTest resolves a table field to its A1 cell on a given row.
func (s *Service) cellForTest(t *testing.T, key, field string, row int) string {
	t.Helper()
	table, err := s.table(key)
	require.NoError(t, err)
	col, err := table.FieldColumn(field)
	require.NoError(t, err)
	return table.Cell(col, row)
}

func orderInput() OrderInput {
	return OrderInput{
		Designer: "vera",
		Client:   "acme",
		Model:    model.ModelPercent,
		Amount:   dec("1000"),
		Percent:  dec("40"),
		Paid:     dec("400"),
		Wallet:   model.WalletOperational,
	}
}

func TestCreateOrderWritesAllTables(t *testing.T) {
	svc, fake := newService(t)

	result, err := svc.CreateOrder(context.Background(), orderInput())
	require.NoError(t, err)
	require.NotEmpty(t, result.TxID)

	assert.Equal(t, map[string]int{
		layout.DesignerOrders: 15,
		layout.ClientLedger:   9,
		layout.General:        10,
		layout.GeneralPL:      13,
	}, result.Rows)

	// Every row carries the shared identifier.
	assert.Equal(t, result.TxID, fake.CellValue("Designer DATA", "A15"))
	assert.Equal(t, result.TxID, fake.CellValue("Clients DATA", "A9"))
	assert.Equal(t, result.TxID, fake.CellValue("GENERAL", "A10"))
	assert.Equal(t, result.TxID, fake.CellValue("GENERAL", "A13"))

	// Designer orders row.
	assert.Equal(t, "10.02.2026", fake.CellValue("Designer DATA", "F15"))
	assert.Equal(t, "vera", fake.CellValue("Designer DATA", "G15"))
	assert.Equal(t, 0.4, fake.CellValue("Designer DATA", "J15"))

	// Client ledger row: 600 of debt makes the client black-listed.
	assert.Equal(t, "black", fake.CellValue("Clients DATA", "H9"))
	assert.Equal(t, 600.0, fake.CellValue("Clients DATA", "K9"))

	// General strip: agency income of 600 lands in the operational wallet.
	assert.Equal(t, "10.02", fake.CellValue("GENERAL", "G10"))
	assert.Equal(t, 600.0, fake.CellValue("GENERAL", "T10"))

	assert.True(t, result.Financials.DesignerEarnings.Equal(dec("400")))
	assert.True(t, result.Financials.Debt.Equal(dec("600")))
}

func TestCreateOrderAccumulatesBalances(t *testing.T) {
	svc, fake := newService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, orderInput())
	require.NoError(t, err)

	second := orderInput()
	second.Client = "orbit"
	second.Wallet = model.WalletEven
	_, err = svc.CreateOrder(ctx, second)
	require.NoError(t, err)

	// 600 operational from the first order, plus an even 300/300 split.
	assert.Equal(t, 900.0, fake.CellValue("GENERAL", "T11"))
	assert.Equal(t, 300.0, fake.CellValue("GENERAL", "U11"))
}

func TestCreatePureOrderSkipsDesignerTable(t *testing.T) {
	svc, fake := newService(t)

	in := orderInput()
	in.Paid = dec("1000")
	result, err := svc.CreatePureOrder(context.Background(), in)
	require.NoError(t, err)

	assert.NotContains(t, result.Rows, layout.DesignerOrders)
	assert.Nil(t, fake.CellValue("Designer DATA", "A15"))

	// The full amount accrues to the agency.
	assert.True(t, result.Financials.AgencyIncome.Equal(dec("1000")))
	assert.True(t, result.Financials.DesignerEarnings.IsZero())
	assert.Equal(t, "white", fake.CellValue("Clients DATA", "H9"))
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	t.Run("salary above order amount", func(t *testing.T) {
		in := orderInput()
		in.Model = model.ModelSalary
		in.Percent = decimal.Zero
		in.Salary = dec("1500")
		_, err := svc.CreateOrder(ctx, in)
		assert.True(t, common.IsValidation(err))
		assert.ErrorContains(t, err, "salary")
	})

	t.Run("percent above 100", func(t *testing.T) {
		in := orderInput()
		in.Percent = dec("140")
		_, err := svc.CreateOrder(ctx, in)
		assert.True(t, common.IsValidation(err))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		in := orderInput()
		in.Amount = decimal.Zero
		_, err := svc.CreateOrder(ctx, in)
		assert.True(t, common.IsValidation(err))
	})

	t.Run("missing client", func(t *testing.T) {
		in := orderInput()
		in.Client = ""
		_, err := svc.CreateOrder(ctx, in)
		assert.True(t, common.IsValidation(err))
	})
}

func TestCreateOrderRollsBackOnGeneralFailure(t *testing.T) {
	svc, fake := newService(t)
	fake.FailOn("batchwrite", "GENERAL", errors.New("backend unavailable"))

	_, err := svc.CreateOrder(context.Background(), orderInput())
	require.Error(t, err)

	// The rows that landed before the failure are cleared again.
	assert.Nil(t, fake.CellValue("Designer DATA", "A15"))
	assert.Nil(t, fake.CellValue("Designer DATA", "F15"))
	assert.Nil(t, fake.CellValue("Clients DATA", "A9"))
	assert.Nil(t, fake.CellValue("Clients DATA", "F9"))
}
