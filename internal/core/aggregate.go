package core

import (
	"sort"
	"time"
)

type (
	// CategoryTotal is one expense category with its summed amount.
	CategoryTotal struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	// MemberStat is the per-member giving summary across the fixed income
	// buckets. Total covers the four recognized buckets only; income entries
	// bucketed as Uncategorized are reported separately and excluded from
	// Total. LastGift is the most recent contribution date, empty when the
	// member has no income entries.
	MemberStat struct {
		Member        Member  `json:"member"`
		Tithe         float64 `json:"tithe"`
		Offering      float64 `json:"offering"`
		Vow           float64 `json:"vow"`
		Other         float64 `json:"other"`
		Uncategorized float64 `json:"uncategorized"`
		Total         float64 `json:"total"`
		LastGift      string  `json:"lastGift,omitempty"`
	}

	// DerivedView bundles every aggregate the presentation and report layers
	// consume, recomputed in full from raw state on every change.
	DerivedView struct {
		GeneratedAt  time.Time       `json:"generatedAt"`
		GeneratedBy  string          `json:"generatedBy"`
		TotalIncome  float64         `json:"totalIncome"`
		TotalExpense float64         `json:"totalExpense"`
		Balance      float64         `json:"balance"`
		Expenses     []CategoryTotal `json:"expenses"`
		Members      []MemberStat    `json:"members"`
		Journal      []Transaction   `json:"journal"`
	}
)

// TotalIncome sums the amounts of all income entries.
func TotalIncome(txs []Transaction) float64 {
	var sum float64
	for _, t := range txs {
		if t.Type == Income {
			sum += t.Amount
		}
	}
	return sum
}

// TotalExpense sums the amounts of all expense entries.
func TotalExpense(txs []Transaction) float64 {
	var sum float64
	for _, t := range txs {
		if t.Type == Expense {
			sum += t.Amount
		}
	}
	return sum
}

// Balance is income minus expense; it may be negative.
func Balance(txs []Transaction) float64 {
	return TotalIncome(txs) - TotalExpense(txs)
}

// ExpenseBreakdown groups expense entries by category and sums each group,
// sorted by amount descending. Equal sums order ascending by category name;
// the source system left ties to insertion order, a deterministic key keeps
// the output reproducible.
func ExpenseBreakdown(txs []Transaction) []CategoryTotal {
	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
		}
		sums[t.Category] += t.Amount
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryTotal{Category: cat, Amount: sums[cat]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MemberStats computes the giving summary for every member, including those
// with no entries at all. Income entries referencing a deleted member match
// nobody and are skipped; anonymous entries (empty MemberID) likewise.
// Sorted by Total descending, ties ascending by name.
func MemberStats(members []Member, txs []Transaction) []MemberStat {
	out := make([]MemberStat, 0, len(members))
	for _, m := range members {
		stat := MemberStat{Member: m}
		for _, t := range txs {
			if t.Type != Income || t.MemberID != m.ID {
				continue
			}
			switch ParseIncomeCategory(t.Category) {
			case Tithe:
				stat.Tithe += t.Amount
			case Offering:
				stat.Offering += t.Amount
			case Vow:
				stat.Vow += t.Amount
			case Other:
				stat.Other += t.Amount
			default:
				stat.Uncategorized += t.Amount
			}
			if t.Date > stat.LastGift {
				stat.LastGift = t.Date
			}
		}
		stat.Total = stat.Tithe + stat.Offering + stat.Vow + stat.Other
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Member.Name < out[j].Member.Name
	})
	return out
}

// Derive assembles the full derived view from raw state. The journal keeps
// the order the store delivered (date descending); it is not re-sorted here.
func Derive(members []Member, txs []Transaction, asOf time.Time, identity string) DerivedView {
	return DerivedView{
		GeneratedAt:  asOf,
		GeneratedBy:  identity,
		TotalIncome:  TotalIncome(txs),
		TotalExpense: TotalExpense(txs),
		Balance:      Balance(txs),
		Expenses:     ExpenseBreakdown(txs),
		Members:      MemberStats(members, txs),
		Journal:      txs,
	}
}
