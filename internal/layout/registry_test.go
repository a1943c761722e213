package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Defaults(t *testing.T) {
	reg, err := NewRegistry(nil)
	require.NoError(t, err)

	tests := []struct {
		key      string
		sheet    string
		span     string
		startRow int
	}{
		{DesignerOrders, "Designer DATA", "F:K", 15},
		{ClientLedger, "Clients DATA", "F:L", 9},
		{Expenses, "Expenses", "F:K", 12},
		{PureIncome, "Pure Income", "F:H", 10},
		{GeneralPL, "GENERAL", "B:E", 13},
		{General, "GENERAL", "G:U", 10},
		{Categories, "Categories", "B:E", 2},
		{DesignerSalary, "Designer Salary", "F:H", 10},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			table, tblErr := reg.Table(tt.key)
			require.NoError(t, tblErr)
			assert.Equal(t, tt.sheet, table.Sheet)
			assert.Equal(t, tt.startRow, table.StartRow)
			assert.Equal(t, tt.span, Label(table.DataStart)+":"+Label(table.DataEnd))
			assert.Equal(t, 0, table.IDColumn, "identifier column is A on every table")
			assert.Len(t, table.Fields, table.Width(), "fields fill the data span exactly")
		})
	}
}

func TestNewRegistry_SheetNameOverride(t *testing.T) {
	reg, err := NewRegistry(map[string]string{
		DesignerOrders: "Дизайнер DATA",
		General:        "СВОДКА",
	})
	require.NoError(t, err)

	table, err := reg.Table(DesignerOrders)
	require.NoError(t, err)
	assert.Equal(t, "Дизайнер DATA", table.Sheet)

	general, err := reg.Table(General)
	require.NoError(t, err)
	assert.Equal(t, "СВОДКА", general.Sheet)

	// Untouched tables keep their defaults.
	clients, err := reg.Table(ClientLedger)
	require.NoError(t, err)
	assert.Equal(t, "Clients DATA", clients.Sheet)
}

func TestRegistry_UnknownTable(t *testing.T) {
	reg, err := NewRegistry(nil)
	require.NoError(t, err)

	_, err = reg.Table("no_such_table")
	assert.ErrorContains(t, err, "unknown table")
}

func TestRegistry_ExpandingTablesCarryTotals(t *testing.T) {
	reg, err := NewRegistry(nil)
	require.NoError(t, err)

	expenses, err := reg.Table(Expenses)
	require.NoError(t, err)
	assert.True(t, expenses.Expanding)
	require.NotNil(t, expenses.Total)
	assert.Equal(t, "F4", expenses.Total.Cell)
	assert.Equal(t, "K", Label(expenses.Total.SumColumn))

	income, err := reg.Table(PureIncome)
	require.NoError(t, err)
	assert.True(t, income.Expanding)
	require.NotNil(t, income.Total)
	assert.Equal(t, "H", Label(income.Total.SumColumn))

	ledger, err := reg.Table(ClientLedger)
	require.NoError(t, err)
	assert.False(t, ledger.Expanding)
	assert.Nil(t, ledger.Total)
}
