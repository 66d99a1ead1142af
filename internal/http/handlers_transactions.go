package http

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/filter"
	"fintrack/internal/gateway"
	"fintrack/internal/log"
)

type lookbackOption struct {
	Days     int
	Label    string
	Selected bool
}

type accountOption struct {
	ID       int64
	Name     string
	Selected bool
}

type typeOption struct {
	Value    string
	Selected bool
}

type transactionsView struct {
	Transactions []transactionRow
	Lookbacks    []lookbackOption
	Accounts     []accountOption
	Types        []typeOption
	Search       string
	Error        string
}

type transactionFormView struct {
	ID          int64
	Type        string
	Amount      string
	Description string
	Date        string
	AccountID   int64
	AccountName string
	Types       []core.TransactionType
	Accounts    []accountOption
	Errors      map[string]string
	Error       string
	IsEdit      bool
}

// parseListingFilter reads the period and account selectors, falling back
// to the default period for anything out of range.
func parseListingFilter(r *http.Request) (filter.Lookback, int64) {
	lookback := filter.DefaultLookback
	if v := r.URL.Query().Get("days"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			if parsed, err := filter.Parse(days); err == nil {
				lookback = parsed
			}
		}
	}
	accountID, _ := formID(r, "accountId")
	return lookback, accountID
}

// parseTypeFilter reads the transaction-type selector; anything outside the
// enumeration means no type filter.
func parseTypeFilter(r *http.Request) core.TransactionType {
	t := core.TransactionType(sanitizeInput(r.URL.Query().Get("type")))
	if !t.IsValid() {
		return ""
	}
	return t
}

func typeOptions(selected core.TransactionType) []typeOption {
	opts := make([]typeOption, 0, len(core.TransactionTypes()))
	for _, t := range core.TransactionTypes() {
		opts = append(opts, typeOption{Value: string(t), Selected: t == selected})
	}
	return opts
}

// matchesSearch filters the fetched page by description, the same in-memory
// narrowing the search box performs.
func matchesSearch(txs []core.Transaction, term string) []core.Transaction {
	if term == "" {
		return txs
	}
	needle := strings.ToLower(term)
	matched := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if strings.Contains(strings.ToLower(t.Description), needle) {
			matched = append(matched, t)
		}
	}
	return matched
}

func lookbackOptions(selected filter.Lookback) []lookbackOption {
	opts := make([]lookbackOption, 0, len(filter.Lookbacks()))
	for _, l := range filter.Lookbacks() {
		opts = append(opts, lookbackOption{
			Days:     int(l),
			Label:    l.Label(),
			Selected: l == selected,
		})
	}
	return opts
}

func accountOptions(accounts []core.Account, selected int64) []accountOption {
	opts := make([]accountOption, 0, len(accounts))
	for _, a := range accounts {
		opts = append(opts, accountOption{ID: a.ID, Name: a.Name, Selected: a.ID == selected})
	}
	return opts
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderTransactionList(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) renderTransactionList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context30(r)
	defer cancel()

	lookback, accountID := parseListingFilter(r)
	txType := parseTypeFilter(r)
	search := sanitizeInput(r.URL.Query().Get("q"))

	query := filter.Build(lookback, accountID, time.Now())
	query.Type = txType

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

	view := transactionsView{
		Lookbacks: lookbackOptions(lookback),
		Types:     typeOptions(txType),
		Search:    search,
	}
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "transaction listing failed",
			log.FieldOperation, log.OpList, log.FieldPeriodDays, int(lookback), log.FieldError, err)
		view.Error = gateway.UserMessage(err, "Could not load transactions. Please try again.")
		s.render(w, r, "transactions_page", view)
		return
	}

	txs = matchesSearch(txs, search)
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[j].Date.Before(txs[i].Date)
	})

	view.Accounts = accountOptions(accounts, accountID)
	view.Transactions = transactionRows(txs)
	s.render(w, r, "transactions_page", view)
}

func (s *Server) handleTransactionNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	accounts, err := s.gw.ListAccounts(ctx)
	view := transactionFormView{
		Type:     string(core.Debit),
		Date:     core.Today().ISO(),
		Types:    []core.TransactionType{core.Debit, core.Credit},
		Accounts: accountOptions(accounts, 0),
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "account listing failed",
			log.FieldOperation, log.OpList, log.FieldError, err)
		view.Error = gateway.UserMessage(err, "Could not load accounts. Please try again.")
	}
	s.render(w, r, "transaction_form_page", view)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	view := transactionFormView{
		Type:        sanitizeInput(r.Form.Get("type")),
		Amount:      sanitizeInput(r.Form.Get("amount")),
		Description: sanitizeInput(r.Form.Get("description")),
		Date:        sanitizeInput(r.Form.Get("date")),
		Types:       []core.TransactionType{core.Debit, core.Credit},
		Errors:      map[string]string{},
	}
	accountID, hasAccount := formID(r, "account_id")
	view.AccountID = accountID

	txType := core.TransactionType(view.Type)
	if txType != core.Debit && txType != core.Credit {
		view.Errors["type"] = "Choose Debit or Credit."
	}
	amount, err := formAmount(r, "amount")
	if err != nil {
		view.Errors["amount"] = "Enter a positive amount."
	}
	if err := core.ValidateDescription(view.Description); err != nil {
		view.Errors["description"] = "Description must have at least 3 characters."
	}
	if !hasAccount {
		view.Errors["account_id"] = "Choose an account."
	}
	var date *core.Date
	if view.Date != "" {
		parsed, err := core.ParseDate(view.Date)
		if err != nil {
			view.Errors["date"] = "Enter a date as YYYY-MM-DD."
		} else {
			date = &parsed
		}
	}

	if len(view.Errors) > 0 {
		accounts, _ := s.gw.ListAccounts(ctx)
		view.Accounts = accountOptions(accounts, accountID)
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "transaction_form_page", view)
		return
	}

	created, err := s.gw.CreateTransaction(ctx, gateway.CreateTransactionRequest{
		Type:        txType,
		Amount:      amount,
		Description: view.Description,
		AccountID:   accountID,
		Date:        date,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "transaction creation failed",
			log.FieldOperation, log.OpCreate, log.FieldAccountID, accountID, log.FieldError, err)
		accounts, _ := s.gw.ListAccounts(ctx)
		view.Accounts = accountOptions(accounts, accountID)
		view.Error = gateway.UserMessage(err, "Could not record the transaction. Please try again.")
		w.WriteHeader(statusForGatewayError(err))
		s.render(w, r, "transaction_form_page", view)
		return
	}

	s.logger.InfoContext(ctx, "transaction created",
		log.FieldOperation, log.OpCreate,
		log.FieldTransactionID, created.ID,
		log.FieldAccountID, accountID,
		log.FieldAmountCents, amount.Cents)
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

func (s *Server) handleTransactionEdit(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderTransactionEditForm(w, r)
	case http.MethodPost:
		s.updateTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) renderTransactionEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(r, "id")
	if !ok {
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	tx, err := s.gw.GetTransaction(ctx, id)
	if err != nil {
		if gateway.IsNotFound(err) {
			http.Redirect(w, r, "/transactions", http.StatusSeeOther)
			return
		}
		s.logger.ErrorContext(ctx, "transaction fetch failed",
			log.FieldOperation, log.OpRead, log.FieldTransactionID, id, log.FieldError, err)
		s.render(w, r, "transaction_form_page", transactionFormView{
			ID:     id,
			IsEdit: true,
			Error:  gateway.UserMessage(err, "Could not load the transaction. Please try again."),
		})
		return
	}

	s.render(w, r, "transaction_form_page", transactionFormView{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      formAmountValue(tx.Amount),
		Description: tx.Description,
		Date:        tx.Date.ISO(),
		AccountID:   tx.Account.ID,
		AccountName: tx.Account.Name,
		IsEdit:      true,
	})
}

// updateTransaction submits amount, description and date. Type and owning
// account are immutable after creation, so the edit form never sends them.
func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	id, ok := formID(r, "id")
	if !ok {
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}

	view := transactionFormView{
		ID:          id,
		Type:        sanitizeInput(r.Form.Get("type")),
		Amount:      sanitizeInput(r.Form.Get("amount")),
		Description: sanitizeInput(r.Form.Get("description")),
		Date:        sanitizeInput(r.Form.Get("date")),
		AccountName: sanitizeInput(r.Form.Get("account_name")),
		Errors:      map[string]string{},
		IsEdit:      true,
	}

	amount, err := formAmount(r, "amount")
	if err != nil {
		view.Errors["amount"] = "Enter a positive amount."
	}
	if err := core.ValidateDescription(view.Description); err != nil {
		view.Errors["description"] = "Description must have at least 3 characters."
	}
	var date *core.Date
	if view.Date != "" {
		parsed, err := core.ParseDate(view.Date)
		if err != nil {
			view.Errors["date"] = "Enter a date as YYYY-MM-DD."
		} else {
			date = &parsed
		}
	}

	if len(view.Errors) > 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "transaction_form_page", view)
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	_, err = s.gw.UpdateTransaction(ctx, id, gateway.UpdateTransactionRequest{
		Amount:      &amount,
		Description: view.Description,
		Date:        date,
	})
	if err != nil {
		if gateway.IsNotFound(err) {
			http.Redirect(w, r, "/transactions", http.StatusSeeOther)
			return
		}
		s.logger.ErrorContext(ctx, "transaction update failed",
			log.FieldOperation, log.OpUpdate, log.FieldTransactionID, id, log.FieldError, err)
		view.Error = gateway.UserMessage(err, "Could not update the transaction. Please try again.")
		w.WriteHeader(statusForGatewayError(err))
		s.render(w, r, "transaction_form_page", view)
		return
	}

	s.logger.InfoContext(ctx, "transaction updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldTransactionID, id,
		log.FieldAmountCents, amount.Cents)
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

func (s *Server) handleTransactionDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	id, ok := formID(r, "id")
	if !ok {
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	if err := s.gw.DeleteTransaction(ctx, id); err != nil && !gateway.IsNotFound(err) {
		s.logger.ErrorContext(ctx, "transaction deletion failed",
			log.FieldOperation, log.OpDelete, log.FieldTransactionID, id, log.FieldError, err)
		http.Error(w, gateway.UserMessage(err, "Could not delete the transaction."),
			statusForGatewayError(err))
		return
	}

	s.logger.InfoContext(ctx, "transaction deleted",
		log.FieldOperation, log.OpDelete, log.FieldTransactionID, id)
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}
