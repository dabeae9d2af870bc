package core

// CategoryAmount is an expense amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// TotalsSummary holds the session-wide income and expense sums.
type TotalsSummary struct {
	Income  Money
	Expense Money
}

// Balance is income minus expense and may be negative.
func (t TotalsSummary) Balance() Money {
	return Money{Cents: t.Income.Cents - t.Expense.Cents}
}

// Totals sums amounts per transaction type. Empty input yields zero sums.
func Totals(txs []Transaction) TotalsSummary {
	var out TotalsSummary
	for _, t := range txs {
		if t.Type == Expense {
			out.Expense.Cents += t.Amount.Cents
		} else {
			out.Income.Cents += t.Amount.Cents
		}
	}
	return out
}

// CategoryBreakdown groups expense amounts by category name.
//
// Grouping is by name, not id: two categories sharing a name collapse into
// one bucket. Output order follows first occurrence of each name while
// scanning the input in its given order.
func CategoryBreakdown(txs []Transaction) []CategoryAmount {
	index := make(map[string]int)
	var out []CategoryAmount
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryAmount{Name: t.Category})
		}
		out[i].Amount.Cents += t.Amount.Cents
	}
	return out
}
