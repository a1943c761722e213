package sheetstore

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory Store for tests. It mirrors the trimming behavior of
// the real API (trailing empty rows and cells are omitted from reads) so
// placement logic sees the same shapes it would in production.
type Fake struct {
	sheets   map[string]*fakeSheet
	failures map[string]error // op+sheet -> injected error
	Ops      []string         // chronological op log, e.g. "write:GENERAL:G10:U10"
	nextID   int64
	mu       sync.Mutex
}

type fakeSheet struct {
	cells  map[int]map[int]any  // row -> col -> value
	styles map[[3]int]CellStyle // {row, startCol, endCol} -> style
	id     int64
}

// NewFake creates an empty in-memory store.
func NewFake() *Fake {
	return &Fake{
		sheets:   make(map[string]*fakeSheet),
		failures: make(map[string]error),
	}
}

func (f *Fake) sheet(name string) *fakeSheet {
	s, ok := f.sheets[name]
	if !ok {
		f.nextID++
		s = &fakeSheet{
			cells:  make(map[int]map[int]any),
			styles: make(map[[3]int]CellStyle),
			id:     f.nextID,
		}
		f.sheets[name] = s
	}
	return s
}

// FailOn injects an error for every subsequent call of the given op
// ("write", "batchwrite", "clear", "insert", "delete") on the given sheet.
func (f *Fake) FailOn(op, sheet string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op+":"+sheet] = err
}

// ClearFailures removes all injected errors.
func (f *Fake) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]error)
}

func (f *Fake) failure(op, sheet string) error {
	return f.failures[op+":"+sheet]
}

func (f *Fake) log(op, sheet, a1 string) {
	f.Ops = append(f.Ops, fmt.Sprintf("%s:%s:%s", op, sheet, a1))
}

// SetCell seeds a single cell, e.g. SetCell("GENERAL", "G10", "01.02.2026").
func (f *Fake) SetCell(sheet, cell string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, err := ParseRange(cell)
	if err != nil {
		panic(err)
	}
	f.sheet(sheet).set(ref.Start.Row, ref.Start.Col, value)
}

// SetRow seeds consecutive cells of one row starting at the given cell.
func (f *Fake) SetRow(sheet, startCell string, values ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, err := ParseRange(startCell)
	if err != nil {
		panic(err)
	}
	s := f.sheet(sheet)
	for i, v := range values {
		s.set(ref.Start.Row, ref.Start.Col+i, v)
	}
}

// CellValue returns the current value of a cell, or nil when empty.
func (f *Fake) CellValue(sheet, cell string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, err := ParseRange(cell)
	if err != nil {
		panic(err)
	}
	return f.sheet(sheet).get(ref.Start.Row, ref.Start.Col)
}

// StyleFor returns the last style applied covering the given cell, if any.
func (f *Fake) StyleFor(sheet string, row, col int) (CellStyle, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sheet(sheet)
	for key, style := range s.styles {
		if key[0] == row && col >= key[1] && col <= key[2] {
			return style, true
		}
	}
	return CellStyle{}, false
}

func (s *fakeSheet) set(row, col int, value any) {
	if value == nil || value == "" {
		if cells, ok := s.cells[row]; ok {
			delete(cells, col)
			if len(cells) == 0 {
				delete(s.cells, row)
			}
		}
		return
	}
	if s.cells[row] == nil {
		s.cells[row] = make(map[int]any)
	}
	s.cells[row][col] = value
}

func (s *fakeSheet) get(row, col int) any {
	return s.cells[row][col]
}

// Read implements Store.
func (f *Fake) Read(ctx context.Context, sheet, a1Range string) ([][]any, error) {
	return f.read(ctx, sheet, a1Range)
}

// ReadFormulas implements Store. The fake stores formula text verbatim, so
// formula reads and value reads coincide.
func (f *Fake) ReadFormulas(ctx context.Context, sheet, a1Range string) ([][]any, error) {
	return f.read(ctx, sheet, a1Range)
}

func (f *Fake) read(_ context.Context, sheet, a1Range string) ([][]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failure("read", sheet); err != nil {
		return nil, err
	}
	f.log("read", sheet, a1Range)

	ref, err := ParseRange(a1Range)
	if err != nil {
		return nil, err
	}
	s := f.sheet(sheet)

	lastRow := ref.Start.Row - 1
	for row := ref.Start.Row; row <= ref.End.Row; row++ {
		for col := ref.Start.Col; col <= ref.End.Col; col++ {
			if s.get(row, col) != nil {
				lastRow = row
			}
		}
	}
	if lastRow < ref.Start.Row {
		return nil, nil
	}

	grid := make([][]any, 0, lastRow-ref.Start.Row+1)
	for row := ref.Start.Row; row <= lastRow; row++ {
		lastCol := ref.Start.Col - 1
		for col := ref.Start.Col; col <= ref.End.Col; col++ {
			if s.get(row, col) != nil {
				lastCol = col
			}
		}
		cells := make([]any, 0, lastCol-ref.Start.Col+1)
		for col := ref.Start.Col; col <= lastCol; col++ {
			v := s.get(row, col)
			if v == nil {
				v = ""
			}
			cells = append(cells, v)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// Write implements Store.
func (f *Fake) Write(ctx context.Context, sheet, a1Range string, values [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(sheet, a1Range, values)
}

func (f *Fake) write(sheet, a1Range string, values [][]any) error {
	if err := f.failure("write", sheet); err != nil {
		return err
	}
	f.log("write", sheet, a1Range)

	ref, err := ParseRange(a1Range)
	if err != nil {
		return err
	}
	s := f.sheet(sheet)
	for i, row := range values {
		for j, value := range row {
			s.set(ref.Start.Row+i, ref.Start.Col+j, value)
		}
	}
	return nil
}

// BatchWrite implements Store.
func (f *Fake) BatchWrite(_ context.Context, sheet string, updates []RangeUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failure("batchwrite", sheet); err != nil {
		return err
	}
	for _, update := range updates {
		if err := f.write(sheet, update.Range, update.Values); err != nil {
			return err
		}
	}
	return nil
}

// Clear implements Store.
func (f *Fake) Clear(_ context.Context, sheet, a1Range string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failure("clear", sheet); err != nil {
		return err
	}
	f.log("clear", sheet, a1Range)

	ref, err := ParseRange(a1Range)
	if err != nil {
		return err
	}
	s := f.sheet(sheet)
	for row := ref.Start.Row; row <= ref.End.Row; row++ {
		for col := ref.Start.Col; col <= ref.End.Col; col++ {
			s.set(row, col, nil)
		}
	}
	return nil
}

// InsertRow implements Store. The new row clones the row above, matching the
// copy-paste behavior the production store uses to inherit formulas.
func (f *Fake) InsertRow(_ context.Context, sheet string, afterRow int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failure("insert", sheet); err != nil {
		return err
	}
	f.log("insert", sheet, fmt.Sprintf("after=%d", afterRow))

	s := f.sheet(sheet)
	shifted := make(map[int]map[int]any, len(s.cells))
	for row, cells := range s.cells {
		if row > afterRow {
			shifted[row+1] = cells
		} else {
			shifted[row] = cells
		}
	}
	s.cells = shifted

	// Clone the source row into the inserted one.
	clone := make(map[int]any, len(s.cells[afterRow]))
	for col, value := range s.cells[afterRow] {
		clone[col] = value
	}
	if len(clone) > 0 {
		s.cells[afterRow+1] = clone
	}
	return nil
}

// DeleteRow implements Store.
func (f *Fake) DeleteRow(_ context.Context, sheet string, row int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failure("delete", sheet); err != nil {
		return err
	}
	f.log("delete", sheet, fmt.Sprintf("row=%d", row))

	s := f.sheet(sheet)
	delete(s.cells, row)
	shifted := make(map[int]map[int]any, len(s.cells))
	for r, cells := range s.cells {
		if r > row {
			shifted[r-1] = cells
		} else {
			shifted[r] = cells
		}
	}
	s.cells = shifted
	return nil
}

// SheetID implements Store.
func (f *Fake) SheetID(_ context.Context, sheet string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sheet(sheet).id, nil
}

// SetCellStyle implements Store.
func (f *Fake) SetCellStyle(_ context.Context, sheet string, row, startCol, endCol int, style CellStyle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failure("style", sheet); err != nil {
		return err
	}
	f.sheet(sheet).styles[[3]int{row, startCol, endCol}] = style
	return nil
}
