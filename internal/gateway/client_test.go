package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	return New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second, Logger: logger})
}

func TestListAccountsDecodesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/accounts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [
				{"id": 1, "name": "Main", "type": "Current", "balance": 5000.00,
				 "createdAt": "2025-01-01T10:00:00Z", "updatedAt": "2025-01-01T10:00:00Z"}
			]
		}`))
	})

	accounts, err := c.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(1), accounts[0].ID)
	assert.Equal(t, core.Current, accounts[0].Type)
	assert.Equal(t, int64(500000), accounts[0].Balance.Cents)
	assert.Equal(t, "2025-01-01", accounts[0].CreatedAt.ISO())
}

func TestListTransactionsSendsFilters(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	})

	q := TransactionQuery{
		AccountID: 7,
		StartDate: core.NewDate(2025, 1, 1),
		EndDate:   core.NewDate(2025, 1, 31),
	}
	_, err := c.ListTransactions(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"accountId": "7",
		"startDate": "2025-01-01",
		"endDate":   "2025-01-31",
	}, gotQuery)
}

func TestTransferPostsBodyAndSurfacesBusinessRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transactions/transfer", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(1), body["accountId"])
		assert.Equal(t, float64(2), body["destinationAccountId"])

		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success": false, "message": "insufficient balance"}`))
	})

	_, err := c.Transfer(context.Background(), core.TransferRequest{
		AccountID:            1,
		DestinationAccountID: 2,
		Amount:               core.Money{Cents: 999999},
		Description:          "big move",
	})
	require.Error(t, err)
	assert.True(t, IsBusiness(err))
	assert.Equal(t, "insufficient balance", UserMessage(err, "generic"))
}

func TestSuccessFalseIsBusinessError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "duplicate account name", "data": null}`))
	})
	_, err := c.CreateAccount(context.Background(), CreateAccountRequest{Name: "Main", Type: core.Current})
	require.Error(t, err)
	assert.True(t, IsBusiness(err))
	assert.Equal(t, "duplicate account name", UserMessage(err, "generic"))
}

func TestNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success": false, "message": "transaction not found"}`))
	})
	_, err := c.GetTransaction(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsBusiness(err))
}

func TestInternalErrorFallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`boom`))
	})
	_, err := c.ListAccounts(context.Background())
	require.Error(t, err)
	var ge *Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, KindInternal, ge.Kind)
	assert.Equal(t, "gateway internal error", ge.Message)
	// A 5xx is never surfaced as the server's business reason.
	assert.Equal(t, "generic", UserMessage(err, "generic"))
}

func TestCircuitBreakerOpensAfterTransportFailures(t *testing.T) {
	// Point at a server that is already gone: every call is a dial error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url, Timeout: time.Second})
	ctx := context.Background()

	var lastErr error
	for i := 0; i < 6; i++ {
		_, lastErr = c.ListAccounts(ctx)
		require.Error(t, lastErr)
	}
	assert.True(t, IsUnavailable(lastErr), "expected open circuit, got %v", lastErr)
}

func TestBusinessRepliesDoNotTripCircuit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success": false, "message": "no"}`))
	})
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		_, err := c.ListAccounts(ctx)
		require.Error(t, err)
		require.True(t, IsBusiness(err), "call %d: circuit must stay closed on business replies, got %v", i, err)
	}
}

func TestDeleteAccount(t *testing.T) {
	var method, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_, _ = w.Write([]byte(`{"success": true}`))
	})
	require.NoError(t, c.DeleteAccount(context.Background(), 3))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/accounts/3", path)
}

func TestAccountStatistics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/statistics", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "data": {
			"totalAccounts": 2,
			"totalBalance": 7500.50,
			"accountsByType": [{"type": "Current", "count": 1, "totalBalance": 5000.00}]
		}}`))
	})
	stats, err := c.AccountStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalAccounts)
	assert.Equal(t, int64(750050), stats.TotalBalance.Cents)
	require.Len(t, stats.AccountsByType, 1)
	assert.Equal(t, "Current", stats.AccountsByType[0].Type)
}

func TestClientLogsThroughInjectedLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	logger := log.New(log.Config{Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
	c := New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second, Logger: logger})

	_, err := c.ListAccounts(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "component=gateway")
	assert.Contains(t, out, "operation=accounts.list")
}
