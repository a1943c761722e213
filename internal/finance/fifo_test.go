package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/model"
)

func debtRows() []model.ClientLedgerRow {
	return []model.ClientLedgerRow{
		{Row: 9, Date: "01.02.2026", Amount: dec("100"), Paid: dec("0")},
		{Row: 10, Date: "03.02.2026", Amount: dec("80"), Paid: dec("30")}, // debt 50
		{Row: 11, Date: "05.02.2026", Amount: dec("30"), Paid: dec("0")},
	}
}

func TestAllocateOldestFirst(t *testing.T) {
	allocations, leftover := Allocate(debtRows(), dec("120"))

	require.Len(t, allocations, 3, "every row with debt gets an entry")
	assert.True(t, leftover.IsZero())

	first := allocations[0]
	assert.Equal(t, 9, first.Row)
	assert.True(t, first.Applied.Equal(dec("100")))
	assert.True(t, first.NewPaid.Equal(dec("100")))
	assert.True(t, first.RemainingDebt.IsZero())

	second := allocations[1]
	assert.True(t, second.Applied.Equal(dec("20")))
	assert.True(t, second.NewPaid.Equal(dec("50")))
	assert.True(t, second.RemainingDebt.Equal(dec("30")))

	// The payment is exhausted; the last debtor row is still reported.
	third := allocations[2]
	assert.True(t, third.Applied.IsZero())
	assert.True(t, third.NewPaid.IsZero())
	assert.True(t, third.RemainingDebt.Equal(dec("30")))
}

func TestAllocateLeftoverAfterAllDebtCovered(t *testing.T) {
	allocations, leftover := Allocate(debtRows(), dec("200"))

	require.Len(t, allocations, 3)
	assert.True(t, leftover.Equal(dec("20")))
	for _, alloc := range allocations {
		assert.True(t, alloc.RemainingDebt.IsZero())
	}
}

func TestAllocateSkipsSettledRows(t *testing.T) {
	rows := []model.ClientLedgerRow{
		{Row: 9, Amount: dec("100"), Paid: dec("100")},
		{Row: 10, Amount: dec("50"), Paid: dec("10")},
		{Row: 11, Amount: dec("40"), Paid: dec("60")}, // overpaid
	}

	allocations, leftover := Allocate(rows, dec("30"))

	require.Len(t, allocations, 1, "settled and overpaid rows never receive entries")
	assert.Equal(t, 10, allocations[0].Row)
	assert.True(t, allocations[0].Applied.Equal(dec("30")))
	assert.True(t, allocations[0].RemainingDebt.Equal(dec("10")))
	assert.True(t, leftover.IsZero())
}

func TestAllocateNoDebt(t *testing.T) {
	rows := []model.ClientLedgerRow{
		{Row: 9, Amount: dec("100"), Paid: dec("100")},
	}

	allocations, leftover := Allocate(rows, dec("75"))

	assert.Empty(t, allocations)
	assert.True(t, leftover.Equal(dec("75")), "undistributed payment surfaces as leftover")
}

func TestAllocateConservesPayment(t *testing.T) {
	payment := dec("137.45")
	allocations, leftover := Allocate(debtRows(), payment)

	applied := decimal.Zero
	for _, alloc := range allocations {
		applied = applied.Add(alloc.Applied)
	}
	assert.True(t, applied.Add(leftover).Equal(payment),
		"applied sum plus leftover must equal the payment")
}
