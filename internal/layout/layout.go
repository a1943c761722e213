// Package layout holds the static, per-table configuration describing where
// each logical table lives inside the backing spreadsheet: its sheet, its
// identifier column, the writable column span, the first writable row, rows
// and columns that must never be touched, and the semantic field names mapped
// onto the data span.
//
// All internal logic works with zero-based integer column indices; the
// conversion to column letters happens only when building A1 ranges for the
// store boundary.
package layout

import (
	"fmt"
	"strings"
)

// DefaultWindow is how many rows past the start row the placement and read
// scans look at. Tables are small; a bounded window keeps reads cheap.
const DefaultWindow = 500

// Label converts a zero-based column index to its letter form (0 -> "A",
// 25 -> "Z", 26 -> "AA").
func Label(index int) string {
	if index < 0 {
		return ""
	}
	var b []byte
	for index >= 0 {
		b = append([]byte{byte('A' + index%26)}, b...)
		index = index/26 - 1
	}
	return string(b)
}

// Index converts a column letter label to its zero-based index.
func Index(label string) (int, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return 0, fmt.Errorf("empty column label")
	}
	index := 0
	for _, r := range label {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column label %q", label)
		}
		index = index*26 + int(r-'A') + 1
	}
	return index - 1, nil
}

// TotalCell describes a derived-total cell whose SUM range must track the
// table's live-row extent: the cell holds =SUM(<col><start>:<col><end>) and
// end grows or shrinks with the table.
type TotalCell struct {
	Cell      string // A1 reference of the formula cell, e.g. "F4"
	SumColumn int    // zero-based column the formula sums
	StartRow  int    // fixed start of the summed range
}

// Table is the immutable layout of one logical table. Construct through the
// Registry so every instance is validated once at startup.
type Table struct {
	Key       string
	Sheet     string
	IDColumn  int   // column holding the transaction identifier
	DataStart int   // first data column, inclusive
	DataEnd   int   // last data column, inclusive
	StartRow  int   // first row the bot may write, 1-based
	Liveness  int   // column whose emptiness marks a row writable
	SkipRows  []int // rows inside the window reserved for charts/reference
	Protected []int // columns that must never be written
	Fields    []string
	Window    int
	Expanding bool // grow by row insertion, inheriting formulas from above
	Total     *TotalCell
}

// Validate checks the layout for internal consistency. Registry construction
// fails fast on the first invalid table.
func (t Table) Validate() error {
	if t.Key == "" {
		return fmt.Errorf("table key is empty")
	}
	if t.Sheet == "" {
		return fmt.Errorf("table %s: sheet name is empty", t.Key)
	}
	if t.IDColumn < 0 {
		return fmt.Errorf("table %s: identifier column is negative", t.Key)
	}
	if t.DataStart < 0 || t.DataEnd < t.DataStart {
		return fmt.Errorf("table %s: data span %s:%s is not a valid range",
			t.Key, Label(t.DataStart), Label(t.DataEnd))
	}
	if t.StartRow < 1 {
		return fmt.Errorf("table %s: start row %d must be 1-based", t.Key, t.StartRow)
	}
	if t.Liveness < 0 {
		return fmt.Errorf("table %s: liveness column is negative", t.Key)
	}
	if width := t.DataEnd - t.DataStart + 1; len(t.Fields) > width {
		return fmt.Errorf("table %s: %d fields do not fit in %d data columns",
			t.Key, len(t.Fields), width)
	}
	for _, row := range t.SkipRows {
		if row < t.StartRow {
			return fmt.Errorf("table %s: skip row %d precedes start row %d", t.Key, row, t.StartRow)
		}
	}
	for _, col := range t.Protected {
		if col >= t.DataStart && col <= t.DataEnd {
			return fmt.Errorf("table %s: protected column %s overlaps the data span",
				t.Key, Label(col))
		}
	}
	if t.Total != nil {
		if t.Total.Cell == "" {
			return fmt.Errorf("table %s: derived-total cell reference is empty", t.Key)
		}
		if t.Total.StartRow < 1 {
			return fmt.Errorf("table %s: derived-total start row %d must be 1-based",
				t.Key, t.Total.StartRow)
		}
	}
	return nil
}

// Width is the number of data columns.
func (t Table) Width() int {
	return t.DataEnd - t.DataStart + 1
}

// IsSkipRow reports whether the row is reserved and must never receive data.
func (t Table) IsSkipRow(row int) bool {
	for _, r := range t.SkipRows {
		if r == row {
			return true
		}
	}
	return false
}

// NextWritable returns the first row at or after the given row that is not in
// the skip set.
func (t Table) NextWritable(row int) int {
	for t.IsSkipRow(row) {
		row++
	}
	return row
}

// Cell builds the A1 reference of a single cell.
func (t Table) Cell(col, row int) string {
	return fmt.Sprintf("%s%d", Label(col), row)
}

// DataRange builds the A1 range covering the data span of one row.
func (t Table) DataRange(row int) string {
	return fmt.Sprintf("%s%d:%s%d", Label(t.DataStart), row, Label(t.DataEnd), row)
}

// IDCell builds the A1 reference of the identifier cell in one row.
func (t Table) IDCell(row int) string {
	return t.Cell(t.IDColumn, row)
}

// ColumnRange builds the A1 range covering a single column across the scan
// window starting at the given row.
func (t Table) ColumnRange(col, fromRow int) string {
	label := Label(col)
	return fmt.Sprintf("%s%d:%s%d", label, fromRow, label, fromRow+t.window())
}

// RowRange builds the A1 range from the identifier column through the last
// data column of one row. Used for point clears.
func (t Table) RowRange(row int) string {
	first := t.IDColumn
	if t.DataStart < first {
		first = t.DataStart
	}
	return fmt.Sprintf("%s%d:%s%d", Label(first), row, Label(t.DataEnd), row)
}

func (t Table) window() int {
	if t.Window > 0 {
		return t.Window
	}
	return DefaultWindow
}

// ScanWindow is the table's bounded lookahead, exported for the placement
// engine.
func (t Table) ScanWindow() int {
	return t.window()
}

// FieldIndex returns the zero-based position of a semantic field within the
// data span, or -1 when the table has no such field.
func (t Table) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// FieldColumn returns the absolute column index of a semantic field.
func (t Table) FieldColumn(name string) (int, error) {
	i := t.FieldIndex(name)
	if i < 0 {
		return 0, fmt.Errorf("table %s has no field %q", t.Key, name)
	}
	return t.DataStart + i, nil
}
