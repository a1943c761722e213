package model

// CategoryType distinguishes the kinds of names kept in the registry table.
type CategoryType string

// Registry entry types.
const (
	CategoryDesigner CategoryType = "designer"
	CategoryClient   CategoryType = "client"
	CategoryExpense  CategoryType = "expense"
	CategoryIncome   CategoryType = "income"
)

// CategoryStatus is the registry membership status. A name holds at most one
// status at a time; updates overwrite in place.
type CategoryStatus string

// Registry statuses.
const (
	StatusActive    CategoryStatus = "active"
	StatusWhitelist CategoryStatus = "whitelist"
	StatusBlacklist CategoryStatus = "blacklist"
)

// CategoryEntry is one row of the name/category/status registry, used for
// autocomplete lists and white/black-list membership.
type CategoryEntry struct {
	TxID      string
	Type      CategoryType
	Name      string
	Status    CategoryStatus
	CreatedAt string
}
