package http

import (
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/filter"
	"fintrack/internal/gateway"
	"fintrack/internal/log"
)

const recentTransactionCount = 5

type dashboardView struct {
	Accounts     []accountRow
	TotalBalance string
	AccountCount int
	TxCount      int
	TotalIncome  string
	TotalExpense string
	Recent       []transactionRow
	Error        string
}

type accountRow struct {
	ID      int64
	Name    string
	Type    string
	Balance string
}

type transactionRow struct {
	ID          int64
	Type        string
	Amount      string
	Description string
	Date        string
	Account     string
	Destination string
}

// handleDashboard renders the landing page. The four gateway reads are
// independent, so they run concurrently and the page renders only once
// all of them have arrived.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	var (
		accounts []core.Account
		acctStat gateway.AccountStatistics
		txStat   gateway.TransactionStatistics
		recent   []core.Transaction
	)

	query := filter.Build(filter.DefaultLookback, 0, time.Now())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.gw.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		acctStat, err = s.gw.AccountStatistics(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		txStat, err = s.gw.TransactionStatistics(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.gw.ListTransactions(gctx, query)
		return err
	})

	view := dashboardView{}
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "dashboard fetch failed",
			log.FieldOperation, log.OpRead, log.FieldError, err)
		view.Error = gateway.UserMessage(err, "Could not load dashboard data. Please try again.")
		s.render(w, r, "dashboard_page", view)
		return
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[j].Date.Before(recent[i].Date)
	})
	if len(recent) > recentTransactionCount {
		recent = recent[:recentTransactionCount]
	}

	view.Accounts = accountRows(accounts)
	view.TotalBalance = acctStat.TotalBalance.Format()
	view.AccountCount = acctStat.TotalAccounts
	view.TxCount = txStat.TotalTransactions
	if b, ok := txStat.ByType[string(core.Credit)]; ok {
		view.TotalIncome = b.TotalAmount.Format()
	}
	if b, ok := txStat.ByType[string(core.Debit)]; ok {
		view.TotalExpense = b.TotalAmount.Format()
	}
	view.Recent = transactionRows(recent)

	s.render(w, r, "dashboard_page", view)
}

func accountRows(accounts []core.Account) []accountRow {
	rows := make([]accountRow, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, accountRow{
			ID:      a.ID,
			Name:    a.Name,
			Type:    string(a.Type),
			Balance: a.Balance.Format(),
		})
	}
	return rows
}

func transactionRows(txs []core.Transaction) []transactionRow {
	rows := make([]transactionRow, 0, len(txs))
	for _, t := range txs {
		row := transactionRow{
			ID:          t.ID,
			Type:        string(t.Type),
			Amount:      t.Amount.Format(),
			Description: t.Description,
			Date:        t.Date.ISO(),
		}
		row.Account = t.Account.Name
		if t.DestinationAccount != nil {
			row.Destination = t.DestinationAccount.Name
		}
		rows = append(rows, row)
	}
	return rows
}
