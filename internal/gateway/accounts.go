package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"fintrack/internal/core"
)

type (
	// CreateAccountRequest opens a new account. InitialBalance is optional;
	// when present the gateway books it as the opening balance.
	CreateAccountRequest struct {
		Name           string           `json:"name"`
		Type           core.AccountType `json:"type"`
		InitialBalance *core.Money      `json:"initialBalance,omitempty"`
	}

	// UpdateAccountRequest changes name and/or type. Balance is deliberately
	// absent: it is server-authoritative and recomputed from transactions.
	UpdateAccountRequest struct {
		Name string           `json:"name,omitempty"`
		Type core.AccountType `json:"type,omitempty"`
	}

	// AccountTypeBreakdown is one row of the per-type account statistics.
	AccountTypeBreakdown struct {
		Type         string     `json:"type"`
		Count        int        `json:"count"`
		TotalBalance core.Money `json:"totalBalance"`
	}

	// AccountStatistics is the gateway's aggregate view over all accounts.
	AccountStatistics struct {
		TotalAccounts  int                    `json:"totalAccounts"`
		TotalBalance   core.Money             `json:"totalBalance"`
		AccountsByType []AccountTypeBreakdown `json:"accountsByType"`
	}
)

// ListAccounts returns every account.
func (c *Client) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return do[[]core.Account](ctx, c, "accounts.list", http.MethodGet, "/accounts", nil, nil)
}

// GetAccount returns a single account by id.
func (c *Client) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	return do[core.Account](ctx, c, "accounts.get", http.MethodGet, "/accounts/"+formatID(id), nil, nil)
}

// CreateAccount opens a new account.
func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) (core.Account, error) {
	return do[core.Account](ctx, c, "accounts.create", http.MethodPost, "/accounts", nil, req)
}

// UpdateAccount changes an account's name and/or type.
func (c *Client) UpdateAccount(ctx context.Context, id int64, req UpdateAccountRequest) (core.Account, error) {
	return do[core.Account](ctx, c, "accounts.update", http.MethodPut, "/accounts/"+formatID(id), nil, req)
}

// DeleteAccount removes an account.
func (c *Client) DeleteAccount(ctx context.Context, id int64) error {
	_, err := do[void](ctx, c, "accounts.delete", http.MethodDelete, "/accounts/"+formatID(id), nil, nil)
	return err
}

// AccountStatistics returns the gateway-side aggregate over all accounts.
func (c *Client) AccountStatistics(ctx context.Context) (AccountStatistics, error) {
	return do[AccountStatistics](ctx, c, "accounts.statistics", http.MethodGet, "/accounts/statistics", nil, nil)
}

// TotalBalance returns the summed balance across all accounts.
func (c *Client) TotalBalance(ctx context.Context) (core.Money, error) {
	payload, err := do[struct {
		TotalBalance core.Money `json:"totalBalance"`
	}](ctx, c, "accounts.total_balance", http.MethodGet, "/accounts/total-balance", nil, nil)
	if err != nil {
		return core.Money{}, err
	}
	return payload.TotalBalance, nil
}

// AccountsByType returns all accounts of the given type.
func (c *Client) AccountsByType(ctx context.Context, t core.AccountType) ([]core.Account, error) {
	return do[[]core.Account](ctx, c, "accounts.by_type", http.MethodGet, "/accounts/type/"+url.PathEscape(string(t)), nil, nil)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
