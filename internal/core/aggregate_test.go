package core

import (
	"reflect"
	"testing"
	"time"
)

func tx(ty TransactionType, cat string, amount float64, memberID string) Transaction {
	return Transaction{
		Type:        ty,
		Category:    cat,
		Amount:      amount,
		Description: "x",
		Date:        "2025-06-01",
		MemberID:    memberID,
	}
}

func TestTotalsAndBalance(t *testing.T) {
	if got := TotalIncome(nil); got != 0 {
		t.Fatalf("empty income: got %v", got)
	}
	if got := TotalExpense(nil); got != 0 {
		t.Fatalf("empty expense: got %v", got)
	}

	txs := []Transaction{
		tx(Income, "Tithe", 100, "m1"),
		tx(Income, "Offering", 50, ""),
		tx(Expense, "Rent", 40, ""),
		tx(Expense, "Events", 200, ""),
	}
	if got := TotalIncome(txs); got != 150 {
		t.Fatalf("income: got %v want 150", got)
	}
	if got := TotalExpense(txs); got != 240 {
		t.Fatalf("expense: got %v want 240", got)
	}
	if got := Balance(txs); got != -90 {
		t.Fatalf("balance: got %v want -90", got)
	}
	if Balance(txs) != TotalIncome(txs)-TotalExpense(txs) {
		t.Fatalf("balance must equal income minus expense")
	}
}

// Scenario: one attributed income and one expense.
func TestDeriveSmallLedger(t *testing.T) {
	m1 := Member{ID: "m1", Name: "Anna"}
	txs := []Transaction{
		tx(Income, "Tithe", 100, "m1"),
		tx(Expense, "Rent", 40, ""),
	}
	v := Derive([]Member{m1}, txs, time.Now(), "treasurer@example.com")

	if v.TotalIncome != 100 || v.TotalExpense != 40 || v.Balance != 60 {
		t.Fatalf("totals: %v %v %v", v.TotalIncome, v.TotalExpense, v.Balance)
	}
	if !reflect.DeepEqual(v.Expenses, []CategoryTotal{{Category: "Rent", Amount: 40}}) {
		t.Fatalf("breakdown: %+v", v.Expenses)
	}
	if len(v.Members) != 1 {
		t.Fatalf("members: %+v", v.Members)
	}
	if s := v.Members[0]; s.Tithe != 100 || s.Total != 100 {
		t.Fatalf("member stat: %+v", s)
	}
}

func TestExpenseBreakdownSortsDescending(t *testing.T) {
	txs := []Transaction{
		tx(Expense, "Rent", 30, ""),
		tx(Expense, "Events", 70, ""),
	}
	got := ExpenseBreakdown(txs)
	want := []CategoryTotal{{"Events", 70}, {"Rent", 30}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestExpenseBreakdownTieBreaksByName(t *testing.T) {
	txs := []Transaction{
		tx(Expense, "Rent", 50, ""),
		tx(Expense, "Blessings", 50, ""),
	}
	got := ExpenseBreakdown(txs)
	want := []CategoryTotal{{"Blessings", 50}, {"Rent", 50}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

// Partition: the breakdown sums to the expense total and every distinct
// category appears exactly once.
func TestExpenseBreakdownPartitions(t *testing.T) {
	txs := []Transaction{
		tx(Expense, "Rent", 10, ""),
		tx(Expense, "Rent", 20, ""),
		tx(Expense, "Household", 5, ""),
		tx(Income, "Tithe", 999, ""),
	}
	got := ExpenseBreakdown(txs)
	var sum float64
	seen := map[string]int{}
	for _, ct := range got {
		sum += ct.Amount
		seen[ct.Category]++
	}
	if sum != TotalExpense(txs) {
		t.Fatalf("breakdown sum %v != total expense %v", sum, TotalExpense(txs))
	}
	if seen["Rent"] != 1 || seen["Household"] != 1 || len(seen) != 2 {
		t.Fatalf("categories: %v", seen)
	}
}

func TestExpenseBreakdownEmpty(t *testing.T) {
	if got := ExpenseBreakdown([]Transaction{tx(Income, "Tithe", 5, "")}); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}

func TestMemberStatsBuckets(t *testing.T) {
	members := []Member{
		{ID: "m1", Name: "Anna"},
		{ID: "m2", Name: "Boris"},
	}
	txs := []Transaction{
		tx(Income, "Tithe", 100, "m1"),
		tx(Income, "Offering", 20, "m1"),
		tx(Income, "Vow", 5, "m1"),
		tx(Income, "Other", 1, "m1"),
		tx(Income, "Misc", 40, "m1"), // unrecognized: tracked, outside Total
		tx(Income, "Tithe", 10, "m2"),
		tx(Expense, "Rent", 500, "m1"), // expenses never count toward giving
	}
	stats := MemberStats(members, txs)
	if len(stats) != 2 {
		t.Fatalf("want 2 stats, got %d", len(stats))
	}
	anna := stats[0]
	if anna.Member.ID != "m1" {
		t.Fatalf("expected m1 first (larger total), got %+v", anna)
	}
	if anna.Tithe != 100 || anna.Offering != 20 || anna.Vow != 5 || anna.Other != 1 {
		t.Fatalf("buckets: %+v", anna)
	}
	if anna.Total != 126 {
		t.Fatalf("total must exclude unrecognized categories: %+v", anna)
	}
	if anna.Uncategorized != 40 {
		t.Fatalf("uncategorized: %+v", anna)
	}
}

// A member with no entries still appears, all sums zero, at the bottom.
func TestMemberStatsInactiveMember(t *testing.T) {
	members := []Member{
		{ID: "m1", Name: "Anna"},
		{ID: "m2", Name: "Boris"},
	}
	txs := []Transaction{tx(Income, "Tithe", 10, "m1")}
	stats := MemberStats(members, txs)
	last := stats[len(stats)-1]
	if last.Member.ID != "m2" {
		t.Fatalf("expected inactive member last, got %+v", stats)
	}
	if last.Tithe != 0 || last.Offering != 0 || last.Vow != 0 || last.Other != 0 || last.Total != 0 {
		t.Fatalf("expected zero sums: %+v", last)
	}
	if last.LastGift != "" {
		t.Fatalf("expected no last gift: %+v", last)
	}
}

// Deleting a member leaves global totals untouched; the dangling reference
// simply stops matching.
func TestMemberDeletionLeavesTotals(t *testing.T) {
	members := []Member{{ID: "m1", Name: "Anna"}}
	txs := []Transaction{
		tx(Income, "Tithe", 100, "m1"),
		tx(Expense, "Rent", 40, ""),
	}
	before := ExpenseBreakdown(txs)

	stats := MemberStats(nil, txs)
	if len(stats) != 0 {
		t.Fatalf("expected no stats after member removal, got %+v", stats)
	}
	if TotalIncome(txs) != 100 || TotalExpense(txs) != 40 {
		t.Fatalf("totals changed")
	}
	if !reflect.DeepEqual(ExpenseBreakdown(txs), before) {
		t.Fatalf("breakdown changed")
	}
	_ = members
}

func TestMemberStatsTieBreaksByName(t *testing.T) {
	members := []Member{
		{ID: "m2", Name: "Boris"},
		{ID: "m1", Name: "Anna"},
	}
	stats := MemberStats(members, nil)
	if stats[0].Member.Name != "Anna" || stats[1].Member.Name != "Boris" {
		t.Fatalf("zero-total tie must order by name: %+v", stats)
	}
}

func TestMemberStatsLastGift(t *testing.T) {
	members := []Member{{ID: "m1", Name: "Anna"}}
	txs := []Transaction{
		{Type: Income, Category: "Tithe", Amount: 1, Description: "x", Date: "2025-01-05", MemberID: "m1"},
		{Type: Income, Category: "Vow", Amount: 1, Description: "x", Date: "2025-03-02", MemberID: "m1"},
		{Type: Income, Category: "Tithe", Amount: 1, Description: "x", Date: "2024-12-31", MemberID: "m1"},
	}
	stats := MemberStats(members, txs)
	if stats[0].LastGift != "2025-03-02" {
		t.Fatalf("last gift: %+v", stats[0])
	}
}

// Member totals plus anonymous and unrecognized income account for all income.
func TestIncomeAccounting(t *testing.T) {
	members := []Member{{ID: "m1", Name: "Anna"}}
	txs := []Transaction{
		tx(Income, "Tithe", 100, "m1"),
		tx(Income, "Misc", 30, "m1"), // unrecognized
		tx(Income, "Offering", 20, ""),    // anonymous
		tx(Income, "Tithe", 15, "ghost"),  // dangling reference
	}
	stats := MemberStats(members, txs)
	var attributed float64
	for _, s := range stats {
		attributed += s.Total
	}
	if attributed > TotalIncome(txs) {
		t.Fatalf("attributed %v exceeds total income %v", attributed, TotalIncome(txs))
	}
	// difference = unrecognized (30) + anonymous (20) + dangling (15)
	if diff := TotalIncome(txs) - attributed; diff != 65 {
		t.Fatalf("unattributed income: got %v want 65", diff)
	}
}

func TestDeriveIdempotent(t *testing.T) {
	members := []Member{{ID: "m1", Name: "Anna"}, {ID: "m2", Name: "Boris"}}
	txs := []Transaction{
		tx(Income, "Tithe", 100, "m1"),
		tx(Income, "Vow", 100, "m2"),
		tx(Expense, "Rent", 70, ""),
		tx(Expense, "Events", 70, ""),
	}
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := Derive(members, txs, asOf, "treasurer@example.com")
	b := Derive(members, txs, asOf, "treasurer@example.com")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("derive is not deterministic")
	}
}
