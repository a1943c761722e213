package layout

import (
	"fmt"
	"strings"
)

// Logical table keys.
const (
	DesignerOrders = "designer_orders"
	ClientLedger   = "client_ledger"
	Expenses       = "expenses"
	PureIncome     = "pure_income"
	GeneralPL      = "general_pl"
	General        = "general"
	Categories     = "categories"
	DesignerSalary = "designer_salary"
)

// tableDef is the human-readable form a table is declared in; columns are
// letter labels and spans are "F:K" strings. Compiled and validated into a
// Table by the Registry.
type tableDef struct {
	sheet     string
	idColumn  string
	dataSpan  string
	liveness  string
	protected string // comma-separated labels
	fields    []string
	startRow  int
	skipRows  []int
	expanding bool
	total     *totalDef
}

type totalDef struct {
	cell      string
	sumColumn string
	startRow  int
}

// defaults reproduces the column contract of the backing spreadsheet. Sheet
// names are the only part expected to vary between deployments; everything
// else is a fixed wire format.
func defaults() map[string]tableDef {
	return map[string]tableDef{
		DesignerOrders: {
			sheet:     "Designer DATA",
			idColumn:  "A",
			dataSpan:  "F:K",
			startRow:  15,
			liveness:  "G",
			protected: "B,C,D,E", // charts area
			fields:    []string{"date", "designer", "client", "amount", "percent", "salary"},
		},
		ClientLedger: {
			sheet:     "Clients DATA",
			idColumn:  "A",
			dataSpan:  "F:L",
			startRow:  9,
			liveness:  "G",
			protected: "B,C,D,E", // reference info
			fields:    []string{"date", "client", "status", "amount", "paid", "debt", "overpaid"},
		},
		Expenses: {
			sheet:     "Expenses",
			idColumn:  "A",
			dataSpan:  "F:K",
			startRow:  12,
			liveness:  "G",
			protected: "B,C,D,E",
			fields:    []string{"date", "category", "amount", "designer", "designer_amount", "total"},
			expanding: true,
			total:     &totalDef{cell: "F4", sumColumn: "K", startRow: 12},
		},
		PureIncome: {
			sheet:     "Pure Income",
			idColumn:  "A",
			dataSpan:  "F:H",
			startRow:  10,
			liveness:  "G",
			protected: "B,C,D,E",
			fields:    []string{"date", "category", "amount"},
			expanding: true,
			total:     &totalDef{cell: "F4", sumColumn: "H", startRow: 10},
		},
		GeneralPL: {
			sheet:    "GENERAL",
			idColumn: "A",
			dataSpan: "B:E",
			startRow: 13,
			liveness: "B",
			fields:   []string{"date", "revenue", "expense", "profit"},
		},
		General: {
			sheet:    "GENERAL",
			idColumn: "A",
			dataSpan: "G:U",
			startRow: 10,
			liveness: "G",
			fields: []string{
				"date", "designer", "client", "order_amount", "paid", "debt",
				"overpaid", "percent_earnings", "salary_earnings", "pure_category",
				"pure_amount", "expense_category", "expense_amount", "balance_op",
				"balance_res",
			},
		},
		Categories: {
			sheet:    "Categories",
			idColumn: "A",
			dataSpan: "B:E",
			startRow: 2,
			liveness: "B",
			fields:   []string{"type", "name", "status", "created_at"},
		},
		DesignerSalary: {
			sheet:     "Designer Salary",
			idColumn:  "A",
			dataSpan:  "F:H",
			startRow:  10,
			liveness:  "G",
			protected: "B,C,D,E",
			fields:    []string{"date", "designer", "amount"},
		},
	}
}

// Registry resolves logical table keys to validated, immutable layouts. Built
// once at startup; invalid declarations fail construction, not first use.
type Registry struct {
	tables map[string]Table
}

// NewRegistry compiles the built-in table layouts. sheetNames optionally
// remaps table keys to deployment-specific sheet names.
func NewRegistry(sheetNames map[string]string) (*Registry, error) {
	tables := make(map[string]Table)
	for key, def := range defaults() {
		if name, ok := sheetNames[key]; ok && name != "" {
			def.sheet = name
		}
		table, err := compile(key, def)
		if err != nil {
			return nil, fmt.Errorf("compiling table layout: %w", err)
		}
		if err := table.Validate(); err != nil {
			return nil, fmt.Errorf("validating table layout: %w", err)
		}
		tables[key] = table
	}
	return &Registry{tables: tables}, nil
}

// Table looks up a logical table by key.
func (r *Registry) Table(key string) (Table, error) {
	table, ok := r.tables[key]
	if !ok {
		return Table{}, fmt.Errorf("unknown table %q", key)
	}
	return table, nil
}

// Keys returns every registered table key.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.tables))
	for key := range r.tables {
		keys = append(keys, key)
	}
	return keys
}

func compile(key string, def tableDef) (Table, error) {
	idCol, err := Index(def.idColumn)
	if err != nil {
		return Table{}, fmt.Errorf("table %s: identifier column: %w", key, err)
	}

	start, end, err := parseSpan(def.dataSpan)
	if err != nil {
		return Table{}, fmt.Errorf("table %s: data span: %w", key, err)
	}

	liveness, err := Index(def.liveness)
	if err != nil {
		return Table{}, fmt.Errorf("table %s: liveness column: %w", key, err)
	}

	var protected []int
	if def.protected != "" {
		for _, label := range strings.Split(def.protected, ",") {
			col, colErr := Index(label)
			if colErr != nil {
				return Table{}, fmt.Errorf("table %s: protected column: %w", key, colErr)
			}
			protected = append(protected, col)
		}
	}

	var total *TotalCell
	if def.total != nil {
		sumCol, sumErr := Index(def.total.sumColumn)
		if sumErr != nil {
			return Table{}, fmt.Errorf("table %s: derived-total column: %w", key, sumErr)
		}
		total = &TotalCell{
			Cell:      def.total.cell,
			SumColumn: sumCol,
			StartRow:  def.total.startRow,
		}
	}

	return Table{
		Key:       key,
		Sheet:     def.sheet,
		IDColumn:  idCol,
		DataStart: start,
		DataEnd:   end,
		StartRow:  def.startRow,
		Liveness:  liveness,
		SkipRows:  def.skipRows,
		Protected: protected,
		Fields:    def.fields,
		Expanding: def.expanding,
		Total:     total,
	}, nil
}

func parseSpan(span string) (start, end int, err error) {
	parts := strings.Split(span, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed column span %q", span)
	}
	if start, err = Index(parts[0]); err != nil {
		return 0, 0, err
	}
	if end, err = Index(parts[1]); err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("column span %q runs backwards", span)
	}
	return start, end, nil
}
