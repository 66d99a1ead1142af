package analytics

import (
	"testing"

	"fintrack/internal/core"
)

func tx(id int64, tt core.TransactionType, cents int64, date core.Date, account core.Account) core.Transaction {
	return core.Transaction{
		ID:          id,
		Type:        tt,
		Amount:      core.Money{Cents: cents},
		Description: "test transaction",
		Date:        date,
		Account:     account,
	}
}

var (
	mainAcct = core.Account{ID: 1, Name: "Main", Type: core.Current, Balance: core.Money{Cents: 500000}}
	reserve  = core.Account{ID: 2, Name: "Reserve", Type: core.Savings}
)

func TestGroupByTypeEmpty(t *testing.T) {
	if got := GroupByType(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	if got := GroupByType([]core.Transaction{}); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestGroupByType(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.Credit, 5000, core.NewDate(2025, 1, 1), mainAcct),
		tx(2, core.Debit, 1500, core.NewDate(2025, 1, 2), mainAcct),
		tx(3, core.Credit, 2000, core.NewDate(2025, 1, 3), mainAcct),
	}
	got := GroupByType(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(got))
	}
	// Fixed enumeration order: Debit before Credit.
	if got[0].Name != "Debit" || got[0].Value.Cents != 1500 || got[0].Fill != ColorExpense {
		t.Fatalf("unexpected debit slice: %+v", got[0])
	}
	if got[1].Name != "Credit" || got[1].Value.Cents != 7000 || got[1].Fill != ColorIncome {
		t.Fatalf("unexpected credit slice: %+v", got[1])
	}
}

func TestGroupByAccount(t *testing.T) {
	orphan := core.Account{ID: 9, Name: "Old Wallet", Type: core.AccountType("Closed")}
	txs := []core.Transaction{
		tx(1, core.Debit, 1000, core.NewDate(2025, 1, 1), mainAcct),
		tx(2, core.Debit, 2000, core.NewDate(2025, 1, 2), reserve),
		tx(3, core.Credit, 500, core.NewDate(2025, 1, 3), mainAcct),
		tx(4, core.Debit, 300, core.NewDate(2025, 1, 4), orphan),
	}
	got := GroupByAccount(txs, []core.Account{mainAcct, reserve})
	if len(got) != 3 {
		t.Fatalf("expected 3 slices, got %d", len(got))
	}
	if got[0].Name != "Main" || got[0].Value.Cents != 1500 || got[0].Fill != ColorCurrent {
		t.Fatalf("unexpected main slice: %+v", got[0])
	}
	if got[1].Name != "Reserve" || got[1].Fill != ColorSavings {
		t.Fatalf("unexpected reserve slice: %+v", got[1])
	}
	// Account missing from the catalog falls back to the Current color.
	if got[2].Name != "Old Wallet" || got[2].Fill != ColorCurrent {
		t.Fatalf("unexpected orphan slice: %+v", got[2])
	}
}

func TestMonthlySeriesCalendarOrder(t *testing.T) {
	// aug/24 must precede apr/25 even though the labels collate the other
	// way alphabetically.
	txs := []core.Transaction{
		tx(1, core.Credit, 1000, core.NewDate(2025, 4, 10), mainAcct),
		tx(2, core.Debit, 400, core.NewDate(2024, 8, 20), mainAcct),
		tx(3, core.Credit, 300, core.NewDate(2024, 8, 25), mainAcct),
		tx(4, core.Transfer, 9999, core.NewDate(2024, 8, 26), mainAcct),
	}
	got := MonthlySeries(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if got[0].Label != "aug/24" || got[1].Label != "apr/25" {
		t.Fatalf("wrong order: %q then %q", got[0].Label, got[1].Label)
	}
	if got[0].Income.Cents != 300 || got[0].Expense.Cents != 400 || got[0].Net.Cents != -100 {
		t.Fatalf("unexpected aug/24 bucket: %+v", got[0])
	}
	// Transfers never show up in income or expense.
	if got[1].Income.Cents != 1000 || got[1].Expense.Cents != 0 {
		t.Fatalf("unexpected apr/25 bucket: %+v", got[1])
	}
}

func TestBalanceEvolution(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.Credit, 100000, core.NewDate(2025, 2, 1), mainAcct),
		tx(2, core.Debit, 30000, core.NewDate(2025, 2, 2), mainAcct),
	}
	got := BalanceEvolution(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %d", len(got))
	}
	if got[0].Balance.Cents != 100000 || got[1].Balance.Cents != 70000 {
		t.Fatalf("expected [1000, 700], got [%d, %d]", got[0].Balance.Cents, got[1].Balance.Cents)
	}
}

func TestBalanceEvolutionUnsortedInput(t *testing.T) {
	txs := []core.Transaction{
		tx(2, core.Debit, 30000, core.NewDate(2025, 2, 2), mainAcct),
		tx(1, core.Credit, 100000, core.NewDate(2025, 2, 1), mainAcct),
	}
	got := BalanceEvolution(txs)
	if got[0].Balance.Cents != 100000 || got[1].Balance.Cents != 70000 {
		t.Fatalf("expected chronological scan, got %+v", got)
	}
}

func TestBalanceEvolutionCollapsesSameDay(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.Credit, 1000, core.NewDate(2025, 2, 1), mainAcct),
		tx(2, core.Debit, 400, core.NewDate(2025, 2, 1), mainAcct),
		tx(3, core.Transfer, 9999, core.NewDate(2025, 2, 1), mainAcct),
	}
	got := BalanceEvolution(txs)
	if len(got) != 1 {
		t.Fatalf("expected single collapsed point, got %d", len(got))
	}
	if got[0].Label != "01/02" || got[0].Balance.Cents != 600 {
		t.Fatalf("unexpected point: %+v", got[0])
	}
}

func TestSummarize(t *testing.T) {
	// End-to-end scenario from the product's acceptance data.
	txs := []core.Transaction{
		tx(1, core.Credit, 500000, core.NewDate(2025, 1, 1), mainAcct),
		tx(2, core.Debit, 150000, core.NewDate(2025, 1, 2), mainAcct),
		tx(3, core.Credit, 200000, core.NewDate(2025, 1, 3), mainAcct),
		tx(4, core.Debit, 80000, core.NewDate(2025, 1, 4), mainAcct),
	}
	s := Summarize(txs)
	if s.TotalIncome.Cents != 700000 {
		t.Fatalf("income: expected 700000, got %d", s.TotalIncome.Cents)
	}
	if s.TotalExpense.Cents != 230000 {
		t.Fatalf("expense: expected 230000, got %d", s.TotalExpense.Cents)
	}
	if s.Net.Cents != 470000 {
		t.Fatalf("net: expected 470000, got %d", s.Net.Cents)
	}
	if s.Count != 4 {
		t.Fatalf("count: expected 4, got %d", s.Count)
	}
}

func TestSummarizeNetIdentity(t *testing.T) {
	lists := [][]core.Transaction{
		nil,
		{tx(1, core.Credit, 123, core.NewDate(2025, 1, 1), mainAcct)},
		{
			tx(1, core.Credit, 1000, core.NewDate(2025, 1, 1), mainAcct),
			tx(2, core.Debit, 2500, core.NewDate(2025, 1, 2), mainAcct),
			tx(3, core.Transfer, 700, core.NewDate(2025, 1, 3), mainAcct),
		},
	}
	for i, txs := range lists {
		s := Summarize(txs)
		if s.Net.Cents != s.TotalIncome.Cents-s.TotalExpense.Cents {
			t.Fatalf("list %d: net identity violated: %+v", i, s)
		}
		if s.Count != len(txs) {
			t.Fatalf("list %d: count mismatch", i)
		}
	}
}

func TestSummarizeCountsTransfersButNotSums(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.Transfer, 5000, core.NewDate(2025, 1, 1), mainAcct),
	}
	s := Summarize(txs)
	if s.Count != 1 || s.TotalIncome.Cents != 0 || s.TotalExpense.Cents != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestDeterminism(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.Credit, 5000, core.NewDate(2024, 11, 5), mainAcct),
		tx(2, core.Debit, 1500, core.NewDate(2025, 1, 2), reserve),
		tx(3, core.Debit, 700, core.NewDate(2024, 12, 9), mainAcct),
	}
	accounts := []core.Account{mainAcct, reserve}
	first := MonthlySeries(txs)
	for i := 0; i < 10; i++ {
		again := MonthlySeries(txs)
		if len(again) != len(first) {
			t.Fatal("non-deterministic length")
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d differs at %d: %+v vs %+v", i, j, again[j], first[j])
			}
		}
		bySlice := GroupByAccount(txs, accounts)
		if bySlice[0].Name != "Main" || bySlice[1].Name != "Reserve" {
			t.Fatalf("run %d: account order changed", i)
		}
	}
}
