package http

import (
	"errors"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/gateway"
	"fintrack/internal/log"
)

type transferView struct {
	SourceID      int64
	DestinationID int64
	Amount        string
	Description   string
	Accounts      []accountOption
	Errors        map[string]string
	Error         string
	Warning       string
	Success       string
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderTransferForm(w, r)
	case http.MethodPost:
		s.submitTransfer(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) renderTransferForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context30(r)
	defer cancel()

	accounts, err := s.gw.ListAccounts(ctx)
	view := transferView{Accounts: accountOptions(accounts, 0)}
	if err != nil {
		s.logger.ErrorContext(ctx, "account listing failed",
			log.FieldOperation, log.OpList, log.FieldError, err)
		view.Error = gateway.UserMessage(err, "Could not load accounts. Please try again.")
	}
	s.render(w, r, "transfer_page", view)
}

// submitTransfer validates locally before any gateway call: a transfer onto
// the same account never leaves the client. The insufficient-funds check is
// advisory only; the gateway stays authoritative and may still reject.
func (s *Server) submitTransfer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	ctx, cancel := context30(r)
	defer cancel()

	view := transferView{
		Amount:      sanitizeInput(r.Form.Get("amount")),
		Description: sanitizeInput(r.Form.Get("description")),
		Errors:      map[string]string{},
	}
	view.SourceID, _ = formID(r, "account_id")
	view.DestinationID, _ = formID(r, "destination_account_id")

	req := core.TransferRequest{
		AccountID:            view.SourceID,
		DestinationAccountID: view.DestinationID,
		Description:          view.Description,
	}
	if amount, err := formAmount(r, "amount"); err == nil {
		req.Amount = amount
	}

	if err := req.Validate(); err != nil {
		switch {
		case errors.Is(err, core.ErrMissingAccount):
			view.Errors["account_id"] = "Choose a source account."
		case errors.Is(err, core.ErrMissingDestination):
			view.Errors["destination_account_id"] = "Choose a destination account."
		case errors.Is(err, core.ErrSameAccount):
			view.Errors["destination_account_id"] = "Source and destination must differ."
		case errors.Is(err, core.ErrInvalidAmount):
			view.Errors["amount"] = "Enter a positive amount."
		case errors.Is(err, core.ErrShortDescription):
			view.Errors["description"] = "Description must have at least 3 characters."
		default:
			view.Error = "Invalid transfer request."
		}
		accounts, _ := s.gw.ListAccounts(ctx)
		view.Accounts = accountOptions(accounts, view.SourceID)
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "transfer_page", view)
		return
	}

	accounts, listErr := s.gw.ListAccounts(ctx)
	view.Accounts = accountOptions(accounts, view.SourceID)
	if listErr == nil {
		for _, a := range accounts {
			if a.ID == req.AccountID && req.ExceedsBalance(a.Balance) {
				view.Warning = "Amount exceeds the current balance of the source account."
				break
			}
		}
	}

	created, err := s.gw.Transfer(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "transfer failed",
			log.FieldOperation, log.OpTransfer,
			log.FieldAccountID, req.AccountID,
			log.FieldDestinationID, req.DestinationAccountID,
			log.FieldError, err)
		view.Error = gateway.UserMessage(err, "Could not complete the transfer. Please try again.")
		w.WriteHeader(statusForGatewayError(err))
		s.render(w, r, "transfer_page", view)
		return
	}

	s.logger.InfoContext(ctx, "transfer completed",
		log.FieldOperation, log.OpTransfer,
		log.FieldTransactionID, created.ID,
		log.FieldAccountID, req.AccountID,
		log.FieldDestinationID, req.DestinationAccountID,
		log.FieldAmountCents, req.Amount.Cents)

	s.render(w, r, "transfer_page", transferView{
		Accounts: accountOptions(accounts, 0),
		Warning:  view.Warning,
		Success:  "Transfer completed.",
	})
}
