// Package sheetstore is the boundary between the ledger and the spreadsheet
// service: a thin, grid-addressable range store with no business logic. The
// production implementation talks to the Google Sheets API; tests use the
// in-memory Fake.
package sheetstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledgerline/ledgerline/internal/layout"
)

// RangeUpdate pairs an A1 range with the values to write there. Used to batch
// several disjoint writes into one store call.
type RangeUpdate struct {
	Range  string
	Values [][]any
}

// CellStyle is the subset of cell formatting the ledger cares about. Hidden
// renders the cell visually imperceptible (the identifier-column convention);
// it is a style property, not a deletion.
type CellStyle struct {
	FontFamily string
	FontSize   int64
	Hidden     bool
}

// HiddenIDStyle is the style applied to transaction-identifier cells so they
// do not clutter the human-facing sheet.
func HiddenIDStyle() CellStyle {
	return CellStyle{FontFamily: "Roboto", FontSize: 8, Hidden: true}
}

// Store abstracts the spreadsheet service as a rectangular range store. All
// calls are blocking; implementations gate concurrency internally.
type Store interface {
	// Read returns raw, unformatted values for the range; dates come back as
	// formatted strings. A range with no data returns an empty grid, not an
	// error.
	Read(ctx context.Context, sheet, a1Range string) ([][]any, error)

	// ReadFormulas returns the textual formula form of cells instead of their
	// computed values.
	ReadFormulas(ctx context.Context, sheet, a1Range string) ([][]any, error)

	// Write overwrites the range. Values are interpreted by the backing
	// store's own rules (numbers vs. formulas vs. text).
	Write(ctx context.Context, sheet, a1Range string, values [][]any) error

	// BatchWrite applies several range updates in one call.
	BatchWrite(ctx context.Context, sheet string, updates []RangeUpdate) error

	// Clear blanks every cell in the range.
	Clear(ctx context.Context, sheet, a1Range string) error

	// InsertRow inserts one new row after afterRow, inheriting formatting and
	// formula content from it.
	InsertRow(ctx context.Context, sheet string, afterRow int) error

	// DeleteRow physically removes the row, shifting subsequent rows up.
	DeleteRow(ctx context.Context, sheet string, row int) error

	// SheetID resolves a sheet name to its numeric identifier.
	SheetID(ctx context.Context, sheet string) (int64, error)

	// SetCellStyle styles one row's column span.
	SetCellStyle(ctx context.Context, sheet string, row, startCol, endCol int, style CellStyle) error
}

// CellRef is a parsed A1 cell reference with zero-based column and 1-based
// row.
type CellRef struct {
	Col int
	Row int
}

// RangeRef is a parsed, inclusive A1 rectangle.
type RangeRef struct {
	Start CellRef
	End   CellRef
}

// ParseRange parses "F15:K15" or a single cell "F4" into a RangeRef.
func ParseRange(a1 string) (RangeRef, error) {
	parts := strings.Split(a1, ":")
	switch len(parts) {
	case 1:
		cell, err := parseCell(parts[0])
		if err != nil {
			return RangeRef{}, err
		}
		return RangeRef{Start: cell, End: cell}, nil
	case 2:
		start, err := parseCell(parts[0])
		if err != nil {
			return RangeRef{}, err
		}
		end, err := parseCell(parts[1])
		if err != nil {
			return RangeRef{}, err
		}
		if end.Row < start.Row || end.Col < start.Col {
			return RangeRef{}, fmt.Errorf("range %q runs backwards", a1)
		}
		return RangeRef{Start: start, End: end}, nil
	default:
		return RangeRef{}, fmt.Errorf("malformed range %q", a1)
	}
}

func parseCell(ref string) (CellRef, error) {
	ref = strings.TrimSpace(ref)
	split := 0
	for split < len(ref) && ref[split] >= 'A' && ref[split] <= 'Z' {
		split++
	}
	if split == 0 || split == len(ref) {
		return CellRef{}, fmt.Errorf("malformed cell reference %q", ref)
	}
	col, err := layout.Index(ref[:split])
	if err != nil {
		return CellRef{}, err
	}
	row, err := strconv.Atoi(ref[split:])
	if err != nil || row < 1 {
		return CellRef{}, fmt.Errorf("malformed cell reference %q", ref)
	}
	return CellRef{Col: col, Row: row}, nil
}
