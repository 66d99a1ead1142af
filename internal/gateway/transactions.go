package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"fintrack/internal/core"
)

type (
	// TransactionQuery narrows a transaction listing. Zero-valued fields are
	// omitted from the request so the gateway applies no filter for them.
	TransactionQuery struct {
		AccountID int64
		Type      core.TransactionType
		StartDate core.Date
		EndDate   core.Date
	}

	// CreateTransactionRequest records a new transaction. Date defaults to
	// today on the gateway when omitted.
	CreateTransactionRequest struct {
		Type                 core.TransactionType `json:"type"`
		Amount               core.Money           `json:"amount"`
		Description          string               `json:"description"`
		AccountID            int64                `json:"accountId"`
		DestinationAccountID *int64               `json:"destinationAccountId,omitempty"`
		Date                 *core.Date           `json:"transactionDate,omitempty"`
	}

	// UpdateTransactionRequest changes amount, description and/or date.
	// Type and accounts are immutable after creation.
	UpdateTransactionRequest struct {
		Amount      *core.Money `json:"amount,omitempty"`
		Description string      `json:"description,omitempty"`
		Date        *core.Date  `json:"transactionDate,omitempty"`
	}

	// TypeBreakdown is one entry of the per-type transaction statistics.
	TypeBreakdown struct {
		Count       int        `json:"count"`
		TotalAmount core.Money `json:"totalAmount"`
	}

	// TransactionStatistics is the gateway's aggregate over a transaction set.
	TransactionStatistics struct {
		TotalTransactions int                      `json:"totalTransactions"`
		TotalAmount       core.Money               `json:"totalAmount"`
		ByType            map[string]TypeBreakdown `json:"byType"`
	}
)

// Values renders the query as gateway request parameters.
func (q TransactionQuery) Values() url.Values {
	v := url.Values{}
	if q.AccountID > 0 {
		v.Set("accountId", strconv.FormatInt(q.AccountID, 10))
	}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	if !q.StartDate.IsZero() {
		v.Set("startDate", q.StartDate.ISO())
	}
	if !q.EndDate.IsZero() {
		v.Set("endDate", q.EndDate.ISO())
	}
	return v
}

// statsValues drops the type filter, which the statistics endpoint ignores.
func (q TransactionQuery) statsValues() url.Values {
	v := q.Values()
	v.Del("type")
	return v
}

// ListTransactions returns transactions matching the query, newest first
// per the gateway's ordering.
func (c *Client) ListTransactions(ctx context.Context, q TransactionQuery) ([]core.Transaction, error) {
	return do[[]core.Transaction](ctx, c, "transactions.list", http.MethodGet, "/transactions", q.Values(), nil)
}

// GetTransaction returns a single transaction by id.
func (c *Client) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	return do[core.Transaction](ctx, c, "transactions.get", http.MethodGet, "/transactions/"+formatID(id), nil, nil)
}

// CreateTransaction records a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (core.Transaction, error) {
	return do[core.Transaction](ctx, c, "transactions.create", http.MethodPost, "/transactions", nil, req)
}

// UpdateTransaction changes a transaction's amount, description or date.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, req UpdateTransactionRequest) (core.Transaction, error) {
	return do[core.Transaction](ctx, c, "transactions.update", http.MethodPut, "/transactions/"+formatID(id), nil, req)
}

// DeleteTransaction removes a transaction; the gateway recomputes balances.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	_, err := do[void](ctx, c, "transactions.delete", http.MethodDelete, "/transactions/"+formatID(id), nil, nil)
	return err
}

// Transfer moves funds between two distinct accounts. The request must have
// passed core validation; the gateway still enforces every rule and its
// rejection message (e.g. insufficient balance) comes back as a business
// error.
func (c *Client) Transfer(ctx context.Context, req core.TransferRequest) (core.Transaction, error) {
	return do[core.Transaction](ctx, c, "transactions.transfer", http.MethodPost, "/transactions/transfer", nil, req)
}

// TransactionsByAccount returns every transaction owned by an account.
func (c *Client) TransactionsByAccount(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	return do[[]core.Transaction](ctx, c, "transactions.by_account", http.MethodGet, "/transactions/account/"+formatID(accountID), nil, nil)
}

// TransactionStatistics returns the gateway-side aggregate for the query's
// account and date range.
func (c *Client) TransactionStatistics(ctx context.Context, q TransactionQuery) (TransactionStatistics, error) {
	return do[TransactionStatistics](ctx, c, "transactions.statistics", http.MethodGet, "/transactions/statistics", q.statsValues(), nil)
}
