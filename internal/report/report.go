// Package report renders the derived ledger view into the exportable
// plain-text document. The layout is fixed: header, summary, expense
// breakdown, per-member giving, then the raw journal. Output is
// byte-identical for identical input.
package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"kassa/internal/core"
)

// DefaultCurrency is the currency symbol appended to every amount.
const DefaultCurrency = "₽"

const title = "FULL BUDGET REPORT"

// Formatter renders DerivedView values as plain text. The zero value is not
// usable; construct with New.
type Formatter struct {
	currency string
	printer  *message.Printer
}

func New(currency string) *Formatter {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Formatter{
		currency: currency,
		// Russian locale: grouped thousands with non-breaking spaces and a
		// decimal comma, matching the UI the report accompanies.
		printer: message.NewPrinter(language.Russian),
	}
}

// Render produces the full report document for v. Journal entries are
// emitted in the order v carries them; the store delivers date descending
// and the formatter does not re-sort.
func (f *Formatter) Render(v core.DerivedView) string {
	var b strings.Builder

	b.WriteString(title + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", v.GeneratedAt.Format("02.01.2006"))
	fmt.Fprintf(&b, "Prepared by: %s\n", v.GeneratedBy)
	b.WriteString("\n")

	b.WriteString("SUMMARY\n")
	fmt.Fprintf(&b, "Balance: %s %s\n", f.amount(v.Balance), f.currency)
	fmt.Fprintf(&b, "Income: %s %s\n", f.amount(v.TotalIncome), f.currency)
	fmt.Fprintf(&b, "Expense: %s %s\n", f.amount(v.TotalExpense), f.currency)
	b.WriteString("\n")

	b.WriteString("EXPENSES\n")
	for _, ct := range v.Expenses {
		pct := 0.0
		if v.TotalExpense != 0 {
			pct = ct.Amount / v.TotalExpense * 100
		}
		fmt.Fprintf(&b, "%s: %s %s (%.1f%%)\n", ct.Category, f.amount(ct.Amount), f.currency, pct)
	}
	b.WriteString("\n")

	b.WriteString("PEOPLE\n")
	for _, ms := range v.Members {
		fmt.Fprintf(&b, "%s: %s %s (Tithe: %s, Offering: %s, Vow: %s)\n",
			ms.Member.Name, f.amount(ms.Total), f.currency,
			f.amount(ms.Tithe), f.amount(ms.Offering), f.amount(ms.Vow))
	}
	b.WriteString("\n")

	b.WriteString("JOURNAL\n")
	for _, t := range v.Journal {
		fmt.Fprintf(&b, "[%s] %s%s | %s | %s\n",
			t.Date, t.Type.Sign(), f.amount(t.Amount), t.Category, t.Description)
	}

	return b.String()
}

func (f *Formatter) amount(v float64) string {
	return f.printer.Sprintf("%v", number.Decimal(v))
}

// Filename names the exported artifact for the given generation time.
func Filename(t time.Time) string {
	return fmt.Sprintf("Budget_Full_%s.txt", t.Format("2006-01-02"))
}
