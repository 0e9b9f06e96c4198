package core

import "time"

// CategoryTotal is the aggregate spend for one category.
type CategoryTotal struct {
	Category string
	Total    Money
	Count    int
}

// MonthTotal is the aggregate spend for one calendar month, keyed by
// the short month name (Jan..Dec). Years are collapsed: January of any
// year lands in the same bucket.
type MonthTotal struct {
	Month string
	Total Money
}

// CategoryTotals groups expenses by exact category string. Categories
// appear in order of first occurrence.
func CategoryTotals(expenses []Expense) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(totals)
			index[e.Category] = i
			totals = append(totals, CategoryTotal{Category: e.Category})
		}
		totals[i].Total.Cents += e.Amount.Cents
		totals[i].Count++
	}
	return totals
}

// MonthTotals groups expenses by calendar month in Jan..Dec order,
// skipping months with no spend.
func MonthTotals(expenses []Expense) []MonthTotal {
	var byMonth [12]int64
	var seen [12]bool
	for _, e := range expenses {
		m := int(e.Date.Month()) - 1
		byMonth[m] += e.Amount.Cents
		seen[m] = true
	}
	var totals []MonthTotal
	for m := 0; m < 12; m++ {
		if !seen[m] {
			continue
		}
		totals = append(totals, MonthTotal{
			Month: time.Month(m + 1).String()[:3],
			Total: Money{Cents: byMonth[m]},
		})
	}
	return totals
}

// TotalAmount sums all expense amounts.
func TotalAmount(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// FilterByCategory returns the expenses whose category matches exactly.
// An empty filter returns the input unchanged.
func FilterByCategory(expenses []Expense, category string) []Expense {
	if category == "" {
		return expenses
	}
	var out []Expense
	for _, e := range expenses {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}
