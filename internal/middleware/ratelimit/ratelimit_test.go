package ratelimit

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fintrack/internal/log"
)

func newTestLimiter(t *testing.T, requestsPerMinute int) *Limiter {
	t.Helper()
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	rl := NewLimiter(requestsPerMinute, logger)
	t.Cleanup(rl.Stop)
	return rl
}

func TestAllowEnforcesPerClientBudget(t *testing.T) {
	rl := newTestLimiter(t, 2)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	// Budgets are per client IP.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestAllowResetsAfterQuietMinute(t *testing.T) {
	rl := newTestLimiter(t, 1)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	rl.mu.Lock()
	rl.clients["10.0.0.1"].lastRequest = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestActiveClientsTracksCleanup(t *testing.T) {
	rl := newTestLimiter(t, 10)

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")
	assert.Equal(t, 2, rl.ActiveClients())

	rl.mu.Lock()
	rl.clients["10.0.0.1"].lastRequest = time.Now().Add(-11 * time.Minute)
	rl.mu.Unlock()

	assert.Equal(t, 1, rl.cleanupStaleEntries())
	assert.Equal(t, 1, rl.ActiveClients())
}

func TestStopIsIdempotent(t *testing.T) {
	rl := newTestLimiter(t, 1)
	rl.Stop()
	rl.Stop()
}
