package core

import "testing"

func sampleTransactions() []Transaction {
	return []Transaction{
		{ID: "t1", Amount: Money{Cents: 5000}, Type: Expense, Category: "餐饮"},
		{ID: "t2", Amount: Money{Cents: 1200000}, Type: Income, Category: "工资"},
		{ID: "t3", Amount: Money{Cents: 350000}, Type: Expense, Category: "住房"},
	}
}

func TestTotalsSampleScenario(t *testing.T) {
	got := Totals(sampleTransactions())
	if got.Income.Cents != 1200000 {
		t.Fatalf("income expected 1200000, got %d", got.Income.Cents)
	}
	if got.Expense.Cents != 355000 {
		t.Fatalf("expense expected 355000, got %d", got.Expense.Cents)
	}
	if got.Balance().Cents != 845000 {
		t.Fatalf("balance expected 845000, got %d", got.Balance().Cents)
	}
}

func TestTotalsEmptyInput(t *testing.T) {
	got := Totals(nil)
	if got.Income.Cents != 0 || got.Expense.Cents != 0 || got.Balance().Cents != 0 {
		t.Fatalf("expected zeros, got %+v", got)
	}
}

func TestTotalsNegativeBalance(t *testing.T) {
	txs := []Transaction{
		{Amount: Money{Cents: 100}, Type: Income},
		{Amount: Money{Cents: 300}, Type: Expense},
	}
	if got := Totals(txs).Balance().Cents; got != -200 {
		t.Fatalf("balance expected -200, got %d", got)
	}
}

func TestCategoryBreakdownOrderAndSums(t *testing.T) {
	got := CategoryBreakdown(sampleTransactions())
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %+v", len(got), got)
	}
	if got[0].Name != "餐饮" || got[0].Amount.Cents != 5000 {
		t.Fatalf("unexpected first bucket: %+v", got[0])
	}
	if got[1].Name != "住房" || got[1].Amount.Cents != 350000 {
		t.Fatalf("unexpected second bucket: %+v", got[1])
	}
}

func TestCategoryBreakdownAccumulatesSameName(t *testing.T) {
	txs := []Transaction{
		{Amount: Money{Cents: 100}, Type: Expense, Category: "餐饮"},
		{Amount: Money{Cents: 50}, Type: Expense, Category: "交通"},
		{Amount: Money{Cents: 200}, Type: Expense, Category: "餐饮"},
		{Amount: Money{Cents: 999}, Type: Income, Category: "工资"},
	}
	got := CategoryBreakdown(txs)
	if len(got) != 2 || got[0].Name != "餐饮" || got[0].Amount.Cents != 300 {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

// The breakdown never double-counts or drops an expense: its sum equals the
// expense total for any input.
func TestBreakdownSumMatchesExpenseTotal(t *testing.T) {
	inputs := [][]Transaction{
		nil,
		sampleTransactions(),
		{
			{Amount: Money{Cents: 1}, Type: Expense, Category: "a"},
			{Amount: Money{Cents: 2}, Type: Expense, Category: "b"},
			{Amount: Money{Cents: 3}, Type: Expense, Category: "a"},
			{Amount: Money{Cents: 4}, Type: Income, Category: "a"},
		},
	}
	for i, txs := range inputs {
		var sum int64
		for _, b := range CategoryBreakdown(txs) {
			sum += b.Amount.Cents
		}
		if want := Totals(txs).Expense.Cents; sum != want {
			t.Fatalf("case %d: breakdown sum %d != expense total %d", i, sum, want)
		}
	}
}
