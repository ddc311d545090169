// Package report is the aggregation engine: totals, category breakdowns and
// the periodic "wrapped" summary, all pure functions of an input transaction
// set.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"moneydrain/internal/core"
)

type (
	// CategoryAmount is one row of a category breakdown.
	CategoryAmount struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}

	// CategoryCount pairs a category with how often it occurred.
	CategoryCount struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}

	// SpendingDay is the day of week with the highest summed expense amount.
	// Day follows time.Weekday numbering: Sunday=0 through Saturday=6.
	SpendingDay struct {
		Day    time.Weekday    `json:"day"`
		Name   string          `json:"dayName"`
		Amount decimal.Decimal `json:"amount"`
	}

	// Summary holds the single-pass aggregates over a transaction set.
	Summary struct {
		TotalIncome       decimal.Decimal  `json:"totalIncome"`
		TotalExpense      decimal.Decimal  `json:"totalExpense"`
		Balance           decimal.Decimal  `json:"balance"`
		ExpenseByCategory []CategoryAmount `json:"expenseByCategory"`
		IncomeByCategory  []CategoryAmount `json:"incomeByCategory"`
		Count             int              `json:"count"`
	}

	// Wrapped is the periodic statistical digest, computed over the expense
	// subset of the filtered set except where a field says otherwise. Every
	// field has a well-defined zero form for an empty input.
	Wrapped struct {
		Summary
		BiggestExpense       *core.Transaction `json:"biggestExpense"`
		MostFrequentCategory *CategoryCount    `json:"mostFrequentCategory"`
		BiggestSpendingDay   SpendingDay       `json:"biggestSpendingDay"`
		AvgExpense           decimal.Decimal   `json:"avgExpense"`
		SavingsRate          decimal.Decimal   `json:"savingsRate"`
		Top3Categories       []CategoryAmount  `json:"top3Categories"`
	}
)

// Summarize computes totals and per-category sums in one pass. Breakdowns
// are sorted by amount descending; ties keep first-seen order.
func Summarize(txs []core.Transaction) Summary {
	s := Summary{
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		ExpenseByCategory: []CategoryAmount{},
		IncomeByCategory:  []CategoryAmount{},
		Count:             len(txs),
	}
	expenseTotals := map[string]decimal.Decimal{}
	incomeTotals := map[string]decimal.Decimal{}
	var expenseOrder, incomeOrder []string

	for _, t := range txs {
		if t.Type == core.Income {
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			if _, seen := incomeTotals[t.Category]; !seen {
				incomeOrder = append(incomeOrder, t.Category)
			}
			incomeTotals[t.Category] = incomeTotals[t.Category].Add(t.Amount)
		} else {
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			if _, seen := expenseTotals[t.Category]; !seen {
				expenseOrder = append(expenseOrder, t.Category)
			}
			expenseTotals[t.Category] = expenseTotals[t.Category].Add(t.Amount)
		}
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	s.ExpenseByCategory = sortedBreakdown(expenseTotals, expenseOrder)
	s.IncomeByCategory = sortedBreakdown(incomeTotals, incomeOrder)
	return s
}

// ByCategory returns the breakdown for one type out of a summary.
func (s Summary) ByCategory(t core.Type) []CategoryAmount {
	if t == core.Income {
		return s.IncomeByCategory
	}
	return s.ExpenseByCategory
}

func sortedBreakdown(totals map[string]decimal.Decimal, order []string) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryAmount{Category: cat, Amount: totals[cat]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// Recent returns a copy of txs sorted by date descending. Capping how many
// are shown is a presentation slice on the caller's side, not a re-query.
func Recent(txs []core.Transaction) []core.Transaction {
	out := append([]core.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Search keeps transactions whose description or category contains q,
// case-insensitively. An empty query returns the input unchanged.
func Search(txs []core.Transaction, q string) []core.Transaction {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return txs
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(strings.ToLower(t.Category), q) {
			out = append(out, t)
		}
	}
	return out
}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Wrap computes the wrapped statistics for a filtered set. First-encountered
// wins every tie: biggest expense, most frequent category and spending day
// all resolve to the earliest candidate.
func Wrap(txs []core.Transaction) Wrapped {
	w := Wrapped{
		Summary:            Summarize(txs),
		AvgExpense:         decimal.Zero,
		SavingsRate:        decimal.Zero,
		BiggestSpendingDay: SpendingDay{Day: time.Sunday, Name: dayNames[0], Amount: decimal.Zero},
		Top3Categories:     []CategoryAmount{},
	}

	var expenseCount int
	catCounts := map[string]int{}
	var catOrder []string
	var dayTotals [7]decimal.Decimal

	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		expenseCount++
		if w.BiggestExpense == nil || t.Amount.GreaterThan(w.BiggestExpense.Amount) {
			tx := t
			w.BiggestExpense = &tx
		}
		if _, seen := catCounts[t.Category]; !seen {
			catOrder = append(catOrder, t.Category)
		}
		catCounts[t.Category]++
		day := t.Date.Weekday()
		dayTotals[day] = dayTotals[day].Add(t.Amount)
	}

	for _, cat := range catOrder {
		if w.MostFrequentCategory == nil || catCounts[cat] > w.MostFrequentCategory.Count {
			w.MostFrequentCategory = &CategoryCount{Category: cat, Count: catCounts[cat]}
		}
	}

	for d := time.Sunday; d <= time.Saturday; d++ {
		if dayTotals[d].GreaterThan(w.BiggestSpendingDay.Amount) {
			w.BiggestSpendingDay = SpendingDay{Day: d, Name: dayNames[d], Amount: dayTotals[d]}
		}
	}

	if expenseCount > 0 {
		w.AvgExpense = w.TotalExpense.DivRound(decimal.NewFromInt(int64(expenseCount)), 2)
	}
	if w.TotalIncome.Sign() > 0 {
		w.SavingsRate = w.TotalIncome.Sub(w.TotalExpense).
			DivRound(w.TotalIncome, 4).
			Mul(decimal.NewFromInt(100))
	}
	if len(w.ExpenseByCategory) > 3 {
		w.Top3Categories = w.ExpenseByCategory[:3]
	} else {
		w.Top3Categories = w.ExpenseByCategory
	}
	return w
}
