// Package analytics derives chart and summary views from already-fetched
// transaction lists. Every function is pure: same input, same output, no
// shared state, no network access.
package analytics

import (
	"sort"
	"strings"
	"time"

	"fintrack/internal/core"
)

type (
	// Slice is one sector of a distribution chart.
	Slice struct {
		Name  string
		Value core.Money
		Fill  string
	}

	// MonthPoint is one bucket of the monthly income/expense series.
	MonthPoint struct {
		Year    int
		Month   time.Month
		Label   string
		Income  core.Money
		Expense core.Money
		Net     core.Money
	}

	// BalancePoint is one point of the running-balance series.
	BalancePoint struct {
		Label   string
		Balance core.Money
	}

	// Summary holds the headline statistics for a transaction list.
	Summary struct {
		TotalIncome  core.Money
		TotalExpense core.Money
		Net          core.Money
		Count        int
	}
)

// GroupByType sums absolute amounts per transaction type. Output order
// follows the fixed type enumeration, with absent types omitted; empty
// input yields an empty slice.
func GroupByType(txs []core.Transaction) []Slice {
	totals := make(map[core.TransactionType]int64)
	for _, tx := range txs {
		totals[tx.Type] += tx.Amount.Abs().Cents
	}
	out := make([]Slice, 0, len(totals))
	for _, tt := range core.TransactionTypes() {
		cents, ok := totals[tt]
		if !ok {
			continue
		}
		out = append(out, Slice{
			Name:  string(tt),
			Value: core.Money{Cents: cents},
			Fill:  FillForTransactionType(tt),
		})
	}
	return out
}

// GroupByAccount sums absolute amounts per owning account name. The fill
// color comes from the account's type; an account name that cannot be
// resolved in the catalog falls back to the Current color. Output order is
// first appearance in the input, so the result is deterministic.
func GroupByAccount(txs []core.Transaction, accounts []core.Account) []Slice {
	typeByName := make(map[string]core.AccountType, len(accounts))
	for _, a := range accounts {
		typeByName[a.Name] = a.Type
	}

	totals := make(map[string]int64)
	var order []string
	for _, tx := range txs {
		name := tx.Account.Name
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] += tx.Amount.Abs().Cents
	}

	out := make([]Slice, 0, len(order))
	for _, name := range order {
		out = append(out, Slice{
			Name:  name,
			Value: core.Money{Cents: totals[name]},
			Fill:  FillForAccountType(typeByName[name]),
		})
	}
	return out
}

// MonthlySeries buckets transactions by calendar year-month: Credit amounts
// accumulate as income, Debit as expense, Transfers are excluded from this
// view. Buckets are sorted by the underlying year-month key, never by the
// rendered label, so ordering holds across year boundaries regardless of
// how labels collate.
func MonthlySeries(txs []core.Transaction) []MonthPoint {
	type bucket struct {
		income  int64
		expense int64
	}
	buckets := make(map[int]bucket)
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		key := tx.Date.Year()*12 + int(tx.Date.Month()) - 1
		b := buckets[key]
		switch tx.Type {
		case core.Credit:
			b.income += tx.Amount.Cents
		case core.Debit:
			b.expense += tx.Amount.Cents
		}
		buckets[key] = b
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		year := k / 12
		month := time.Month(k%12 + 1)
		out = append(out, MonthPoint{
			Year:    year,
			Month:   month,
			Label:   monthLabel(year, month),
			Income:  core.Money{Cents: b.income},
			Expense: core.Money{Cents: b.expense},
			Net:     core.Money{Cents: b.income - b.expense},
		})
	}
	return out
}

// BalanceEvolution sorts transactions by date (stable: same-day ties keep
// input order) and scans once: Credit adds, Debit subtracts, Transfer is
// ignored since it moves funds between the user's own accounts without
// changing the overall position. One point is emitted per formatted date;
// when several transactions share a date the later one overwrites the
// earlier, so only the day's final balance is visible. That collapsing is
// the intended product behavior, not an accident.
func BalanceEvolution(txs []core.Transaction) []BalancePoint {
	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var (
		points  []BalancePoint
		index   = make(map[string]int)
		balance int64
	)
	for _, tx := range sorted {
		switch tx.Type {
		case core.Credit:
			balance += tx.Amount.Cents
		case core.Debit:
			balance -= tx.Amount.Cents
		}
		label := tx.Date.Format("02/01")
		if i, seen := index[label]; seen {
			points[i].Balance = core.Money{Cents: balance}
			continue
		}
		index[label] = len(points)
		points = append(points, BalancePoint{Label: label, Balance: core.Money{Cents: balance}})
	}
	return points
}

// Summarize computes the headline statistics: income sums Credit amounts,
// expense sums Debit amounts, net is their difference and count is the full
// list length (Transfers count but contribute to neither sum).
func Summarize(txs []core.Transaction) Summary {
	var income, expense int64
	for _, tx := range txs {
		switch tx.Type {
		case core.Credit:
			income += tx.Amount.Cents
		case core.Debit:
			expense += tx.Amount.Cents
		}
	}
	return Summary{
		TotalIncome:  core.Money{Cents: income},
		TotalExpense: core.Money{Cents: expense},
		Net:          core.Money{Cents: income - expense},
		Count:        len(txs),
	}
}

// monthLabel renders a short month/year label, e.g. "jan/25". Render-time
// only; never used as a sort key.
func monthLabel(year int, month time.Month) string {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return strings.ToLower(t.Format("Jan/06"))
}
