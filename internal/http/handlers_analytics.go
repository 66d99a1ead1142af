package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/filter"
	"fintrack/internal/gateway"
	"fintrack/internal/log"
)

// analyticsSnapshot is one cached aggregation run for a period+account pair.
type analyticsSnapshot struct {
	Summary   analytics.Summary
	ByType    []analytics.Slice
	ByAccount []analytics.Slice
	Monthly   []analytics.MonthPoint
	Evolution []analytics.BalancePoint
}

type analyticsPageView struct {
	Lookbacks []lookbackOption
	Accounts  []accountOption
	Days      int
	AccountID int64
	Error     string
}

type analyticsPanelView struct {
	TotalIncome  string
	TotalExpense string
	Net          string
	NetNegative  bool
	Count        int
	ByType       []analytics.Slice
	ByAccount    []analytics.Slice
	Monthly      []monthRow
	Evolution    []balanceRow
	Empty        bool
	Error        string
}

type monthRow struct {
	Label   string
	Income  string
	Expense string
	Net     string
}

type balanceRow struct {
	Label   string
	Balance string
}

// handleAnalytics renders the page shell; the panel itself arrives via an
// HTMX request to /ui/analytics so selector changes swap only the panel.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	lookback, accountID := parseListingFilter(r)

	accounts, err := s.gw.ListAccounts(ctx)
	view := analyticsPageView{
		Lookbacks: lookbackOptions(lookback),
		Accounts:  accountOptions(accounts, accountID),
		Days:      int(lookback),
		AccountID: accountID,
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "account listing failed",
			log.FieldOperation, log.OpList, log.FieldError, err)
		view.Error = gateway.UserMessage(err, "Could not load accounts. Please try again.")
	}
	s.render(w, r, "analytics_page", view)
}

func (s *Server) handleAnalyticsPanel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	lookback, accountID := parseListingFilter(r)
	key := fmt.Sprintf("%d:%d", int(lookback), accountID)

	snapshot, ok := s.analyticsCache.Get(key)
	if !ok {
		built, err := s.buildAnalyticsSnapshot(ctx, lookback, accountID)
		if err != nil {
			s.logger.ErrorContext(ctx, "analytics fetch failed",
				log.FieldOperation, log.OpRead,
				log.FieldPeriodDays, int(lookback),
				log.FieldAccountID, accountID,
				log.FieldError, err)
			w.WriteHeader(statusForGatewayError(err))
			s.render(w, r, "analytics_panel", analyticsPanelView{
				Error: gateway.UserMessage(err, "Could not load analytics data. Please try again."),
			})
			return
		}
		snapshot = built
		s.analyticsCache.Set(key, snapshot)
	}

	s.render(w, r, "analytics_panel", panelView(snapshot))
}

func (s *Server) buildAnalyticsSnapshot(ctx context.Context, lookback filter.Lookback, accountID int64) (analyticsSnapshot, error) {
	query := filter.Build(lookback, accountID, time.Now())

	var (
		accounts []core.Account
		txs      []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.gw.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.gw.ListTransactions(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return analyticsSnapshot{}, err
	}

	s.logger.WithComponent(log.ComponentAnalytics).DebugContext(ctx, "snapshot built",
		log.FieldPeriodDays, int(lookback),
		log.FieldAccountID, accountID,
		log.FieldTxCount, len(txs))

	return analyticsSnapshot{
		Summary:   analytics.Summarize(txs),
		ByType:    analytics.GroupByType(txs),
		ByAccount: analytics.GroupByAccount(txs, accounts),
		Monthly:   analytics.MonthlySeries(txs),
		Evolution: analytics.BalanceEvolution(txs),
	}, nil
}

func panelView(s analyticsSnapshot) analyticsPanelView {
	view := analyticsPanelView{
		TotalIncome:  s.Summary.TotalIncome.Format(),
		TotalExpense: s.Summary.TotalExpense.Format(),
		Net:          s.Summary.Net.Format(),
		NetNegative:  s.Summary.Net.Cents < 0,
		Count:        s.Summary.Count,
		ByType:       s.ByType,
		ByAccount:    s.ByAccount,
		Empty:        s.Summary.Count == 0,
	}
	for _, m := range s.Monthly {
		view.Monthly = append(view.Monthly, monthRow{
			Label:   m.Label,
			Income:  m.Income.Format(),
			Expense: m.Expense.Format(),
			Net:     m.Net.Format(),
		})
	}
	for _, b := range s.Evolution {
		view.Evolution = append(view.Evolution, balanceRow{
			Label:   b.Label,
			Balance: b.Balance.Format(),
		})
	}
	return view
}
