package core

import (
	"errors"
	"strings"
	"testing"
)

func TestTransactionTypeValid(t *testing.T) {
	if !Income.Valid() || !Expense.Valid() {
		t.Fatalf("expected income and expense to be valid")
	}
	if TransactionType("transfer").Valid() {
		t.Fatalf("expected unknown type to be invalid")
	}
}

func TestParseTransactionType(t *testing.T) {
	if tt, err := ParseTransactionType(" income "); err != nil || tt != Income {
		t.Fatalf("expected income, got %q err %v", tt, err)
	}
	if _, err := ParseTransactionType("INCOME"); err == nil {
		t.Fatalf("expected error for wrong case")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:        Income,
		Category:    "Tithe",
		Amount:      100,
		Description: "weekly",
		Date:        "2025-03-09",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: "transfer", Category: "Tithe", Amount: 1, Description: "a", Date: "2025-01-01"},
		{Type: Income, Category: "Tithe", Amount: -1, Description: "a", Date: "2025-01-01"},
		{Type: Income, Category: "Tithe", Amount: 1, Description: "  ", Date: "2025-01-01"},
		{Type: Income, Category: "Tithe", Amount: 1, Description: "a", Date: "01/01/2025"},
		{Type: Income, Category: "Tithe", Amount: 1, Description: "a", Date: ""},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	long := good
	long.Description = strings.Repeat("x", 201)
	if err := long.Validate(); !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("expected ErrDescriptionTooLong, got %v", err)
	}
}

func TestMemberValidate(t *testing.T) {
	if err := (Member{Name: "Anna"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Member{Name: "   "}).Validate(); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if err := (Member{Name: strings.Repeat("x", 101)}).Validate(); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong for over-long name")
	}
}

func TestParseIncomeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want IncomeCategory
	}{
		{"Tithe", Tithe},
		{"Offering", Offering},
		{"Vow", Vow},
		{"Other", Other},
		{"Misc", Uncategorized},
		{"", Uncategorized},
		{"tithe", Uncategorized}, // exact string equality, no folding
	}
	for i, tc := range cases {
		if got := ParseIncomeCategory(tc.in); got != tc.want {
			t.Fatalf("case %d: got %q want %q", i, got, tc.want)
		}
	}
}

func TestValidExpenseCategory(t *testing.T) {
	if !ValidExpenseCategory("Rent") {
		t.Fatalf("expected Rent to be selectable")
	}
	if ValidExpenseCategory("Tithe") {
		t.Fatalf("income label must not be a selectable expense category")
	}
}
