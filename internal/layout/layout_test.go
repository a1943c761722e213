package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		want  string
		index int
	}{
		{"A", 0},
		{"B", 1},
		{"Z", 25},
		{"AA", 26},
		{"AZ", 51},
		{"BA", 52},
		{"ZZ", 701},
		{"AAA", 702},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.index))
		})
	}
}

func TestIndex(t *testing.T) {
	tests := []struct {
		label   string
		want    int
		wantErr bool
	}{
		{label: "A", want: 0},
		{label: "G", want: 6},
		{label: "z", want: 25},
		{label: "AA", want: 26},
		{label: " U ", want: 20},
		{label: "", wantErr: true},
		{label: "4", wantErr: true},
		{label: "A1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := Index(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelIndexRoundTrip(t *testing.T) {
	for i := 0; i < 1000; i++ {
		got, err := Index(Label(i))
		require.NoError(t, err)
		require.Equal(t, i, got)
	}
}

func TestTable_Validate(t *testing.T) {
	valid := Table{
		Key:       "orders",
		Sheet:     "Orders",
		IDColumn:  0,
		DataStart: 5,
		DataEnd:   10,
		StartRow:  15,
		Liveness:  6,
		Fields:    []string{"date", "designer", "client", "amount", "percent", "salary"},
	}

	tests := []struct {
		mutate  func(*Table)
		name    string
		errMsg  string
		wantErr bool
	}{
		{
			name:   "valid table",
			mutate: func(*Table) {},
		},
		{
			name:    "empty sheet",
			mutate:  func(tb *Table) { tb.Sheet = "" },
			wantErr: true,
			errMsg:  "sheet name is empty",
		},
		{
			name:    "backwards data span",
			mutate:  func(tb *Table) { tb.DataEnd = 3 },
			wantErr: true,
			errMsg:  "not a valid range",
		},
		{
			name:    "zero start row",
			mutate:  func(tb *Table) { tb.StartRow = 0 },
			wantErr: true,
			errMsg:  "must be 1-based",
		},
		{
			name:    "too many fields",
			mutate:  func(tb *Table) { tb.Fields = append(tb.Fields, "extra") },
			wantErr: true,
			errMsg:  "do not fit",
		},
		{
			name:    "skip row before start row",
			mutate:  func(tb *Table) { tb.SkipRows = []int{3} },
			wantErr: true,
			errMsg:  "precedes start row",
		},
		{
			name:    "protected column inside data span",
			mutate:  func(tb *Table) { tb.Protected = []int{7} },
			wantErr: true,
			errMsg:  "overlaps the data span",
		},
		{
			name:    "derived total without cell",
			mutate:  func(tb *Table) { tb.Total = &TotalCell{SumColumn: 10, StartRow: 12} },
			wantErr: true,
			errMsg:  "cell reference is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := valid
			tt.mutate(&table)
			err := table.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTable_Ranges(t *testing.T) {
	table := Table{
		Key:       "orders",
		Sheet:     "Orders",
		IDColumn:  0,
		DataStart: 5, // F
		DataEnd:   10, // K
		StartRow:  15,
		Liveness:  6,
		Window:    100,
	}

	assert.Equal(t, "F22:K22", table.DataRange(22))
	assert.Equal(t, "A22", table.IDCell(22))
	assert.Equal(t, "A22:K22", table.RowRange(22))
	assert.Equal(t, "G15:G115", table.ColumnRange(table.Liveness, 15))
	assert.Equal(t, 6, table.Width())
}

func TestTable_NextWritable(t *testing.T) {
	table := Table{StartRow: 10, SkipRows: []int{12, 13}}

	assert.Equal(t, 10, table.NextWritable(10))
	assert.Equal(t, 14, table.NextWritable(12))
	assert.Equal(t, 14, table.NextWritable(13))
	assert.Equal(t, 20, table.NextWritable(20))
}

func TestTable_FieldColumn(t *testing.T) {
	table := Table{
		Key:       "ledger",
		DataStart: 5,
		Fields:    []string{"date", "client", "status", "amount", "paid", "debt", "overpaid"},
	}

	col, err := table.FieldColumn("paid")
	require.NoError(t, err)
	assert.Equal(t, 9, col) // column J

	_, err = table.FieldColumn("nope")
	assert.Error(t, err)
}
