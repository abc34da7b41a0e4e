package core

// IncomeCategory is the closed set of income buckets the member statistics
// recognize. Any stored category string outside the four labels is bucketed
// as Uncategorized rather than silently dropped, so the exclusion from
// per-member totals stays observable.
type IncomeCategory string

const (
	Tithe         IncomeCategory = "Tithe"
	Offering      IncomeCategory = "Offering"
	Vow           IncomeCategory = "Vow"
	Other         IncomeCategory = "Other"
	Uncategorized IncomeCategory = "Uncategorized"
)

// IncomeCategories lists the selectable income categories in input order.
// Uncategorized is a bucketing outcome, never a selectable label.
var IncomeCategories = []IncomeCategory{Tithe, Offering, Vow, Other}

// ExpenseCategories lists the selectable expense categories in input order.
// Aggregation groups expense entries by whatever string they carry; this
// list only bounds what normal input offers.
var ExpenseCategories = []string{
	"Rent",
	"Union tithe",
	"Blessings",
	"Events",
	"Household",
}

// ParseIncomeCategory maps a stored category string onto the closed income
// bucket set. Unknown strings map to Uncategorized; this never fails.
func ParseIncomeCategory(s string) IncomeCategory {
	switch IncomeCategory(s) {
	case Tithe, Offering, Vow, Other:
		return IncomeCategory(s)
	default:
		return Uncategorized
	}
}

// ValidIncomeCategory reports whether s is one of the four selectable labels.
func ValidIncomeCategory(s string) bool {
	return ParseIncomeCategory(s) != Uncategorized
}

// ValidExpenseCategory reports whether s is one of the selectable expense labels.
func ValidExpenseCategory(s string) bool {
	for _, c := range ExpenseCategories {
		if c == s {
			return true
		}
	}
	return false
}
