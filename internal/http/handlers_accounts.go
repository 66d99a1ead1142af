package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/gateway"
	"fintrack/internal/log"
)

type accountsView struct {
	Accounts []accountRow
	Error    string
}

type accountFormView struct {
	Title          string
	Action         string
	ID             int64
	Name           string
	Type           string
	InitialBalance string
	Types          []core.AccountType
	Errors         map[string]string
	Error          string
	IsEdit         bool
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderAccountList(w, r)
	case http.MethodPost:
		s.createAccount(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) renderAccountList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context30(r)
	defer cancel()

	view := accountsView{}
	accounts, err := s.gw.ListAccounts(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "account listing failed",
			log.FieldOperation, log.OpList, log.FieldError, err)
		view.Error = gateway.UserMessage(err, "Could not load accounts. Please try again.")
	}
	view.Accounts = accountRows(accounts)
	s.render(w, r, "accounts_page", view)
}

func (s *Server) handleAccountNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	s.render(w, r, "account_form_page", accountFormView{
		Title:  "New account",
		Action: "/accounts",
		Type:   string(core.Current),
		Types:  core.AccountTypes(),
	})
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	view := accountFormView{
		Title:          "New account",
		Action:         "/accounts",
		Name:           sanitizeInput(r.Form.Get("name")),
		Type:           sanitizeInput(r.Form.Get("type")),
		InitialBalance: sanitizeInput(r.Form.Get("initial_balance")),
		Types:          core.AccountTypes(),
		Errors:         map[string]string{},
	}

	if view.Name == "" {
		view.Errors["name"] = "Name is required."
	}
	if !core.AccountType(view.Type).IsValid() {
		view.Errors["type"] = "Choose a valid account type."
	}
	req := gateway.CreateAccountRequest{
		Name: view.Name,
		Type: core.AccountType(view.Type),
	}
	if view.InitialBalance != "" {
		cents, err := core.ParseAmountToCents(view.InitialBalance)
		if err != nil {
			view.Errors["initial_balance"] = "Enter a valid amount."
		} else {
			req.InitialBalance = &core.Money{Cents: cents}
		}
	}
	if len(view.Errors) > 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "account_form_page", view)
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	created, err := s.gw.CreateAccount(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "account creation failed",
			log.FieldOperation, log.OpCreate, log.FieldError, err)
		view.Error = gateway.UserMessage(err, "Could not create the account. Please try again.")
		w.WriteHeader(statusForGatewayError(err))
		s.render(w, r, "account_form_page", view)
		return
	}

	s.logger.InfoContext(ctx, "account created",
		log.FieldOperation, log.OpCreate, log.FieldAccountID, created.ID)
	http.Redirect(w, r, "/accounts", http.StatusSeeOther)
}

func (s *Server) handleAccountEdit(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderAccountEditForm(w, r)
	case http.MethodPost:
		s.updateAccount(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) renderAccountEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(r, "id")
	if !ok {
		http.Redirect(w, r, "/accounts", http.StatusSeeOther)
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	account, err := s.gw.GetAccount(ctx, id)
	if err != nil {
		if gateway.IsNotFound(err) {
			http.Redirect(w, r, "/accounts", http.StatusSeeOther)
			return
		}
		s.logger.ErrorContext(ctx, "account fetch failed",
			log.FieldOperation, log.OpRead, log.FieldAccountID, id, log.FieldError, err)
		s.render(w, r, "account_form_page", accountFormView{
			Title:  "Edit account",
			Action: "/accounts/edit",
			ID:     id,
			Types:  core.AccountTypes(),
			IsEdit: true,
			Error:  gateway.UserMessage(err, "Could not load the account. Please try again."),
		})
		return
	}

	s.render(w, r, "account_form_page", accountFormView{
		Title:  "Edit account",
		Action: "/accounts/edit",
		ID:     account.ID,
		Name:   account.Name,
		Type:   string(account.Type),
		Types:  core.AccountTypes(),
		IsEdit: true,
	})
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	id, ok := formID(r, "id")
	if !ok {
		http.Redirect(w, r, "/accounts", http.StatusSeeOther)
		return
	}

	view := accountFormView{
		Title:  "Edit account",
		Action: "/accounts/edit",
		ID:     id,
		Name:   sanitizeInput(r.Form.Get("name")),
		Type:   sanitizeInput(r.Form.Get("type")),
		Types:  core.AccountTypes(),
		Errors: map[string]string{},
		IsEdit: true,
	}

	if view.Name == "" {
		view.Errors["name"] = "Name is required."
	}
	if !core.AccountType(view.Type).IsValid() {
		view.Errors["type"] = "Choose a valid account type."
	}
	if len(view.Errors) > 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "account_form_page", view)
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	_, err := s.gw.UpdateAccount(ctx, id, gateway.UpdateAccountRequest{
		Name: view.Name,
		Type: core.AccountType(view.Type),
	})
	if err != nil {
		if gateway.IsNotFound(err) {
			http.Redirect(w, r, "/accounts", http.StatusSeeOther)
			return
		}
		s.logger.ErrorContext(ctx, "account update failed",
			log.FieldOperation, log.OpUpdate, log.FieldAccountID, id, log.FieldError, err)
		view.Error = gateway.UserMessage(err, "Could not update the account. Please try again.")
		w.WriteHeader(statusForGatewayError(err))
		s.render(w, r, "account_form_page", view)
		return
	}

	http.Redirect(w, r, "/accounts", http.StatusSeeOther)
}

func (s *Server) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
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
		http.Redirect(w, r, "/accounts", http.StatusSeeOther)
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	if err := s.gw.DeleteAccount(ctx, id); err != nil && !gateway.IsNotFound(err) {
		s.logger.ErrorContext(ctx, "account deletion failed",
			log.FieldOperation, log.OpDelete, log.FieldAccountID, id, log.FieldError, err)
		s.renderAccountListError(w, r,
			gateway.UserMessage(err, "Could not delete the account. Please try again."))
		return
	}

	s.logger.InfoContext(ctx, "account deleted",
		log.FieldOperation, log.OpDelete, log.FieldAccountID, id)
	http.Redirect(w, r, "/accounts", http.StatusSeeOther)
}

func (s *Server) renderAccountListError(w http.ResponseWriter, r *http.Request, msg string) {
	ctx, cancel := context30(r)
	defer cancel()

	accounts, _ := s.gw.ListAccounts(ctx)
	s.render(w, r, "accounts_page", accountsView{
		Accounts: accountRows(accounts),
		Error:    msg,
	})
}
