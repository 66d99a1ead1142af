// Package filter translates the UI's period and account selections into a
// gateway transaction query. Pure functions of (lookback, account, now) so
// tests can pin the clock.
package filter

import (
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/gateway"
)

// Lookback is the analytics period selector, in days.
type Lookback int

// The fixed set of periods the UI offers.
const (
	LastWeek    Lookback = 7
	LastMonth   Lookback = 30
	LastQuarter Lookback = 90
	LastYear    Lookback = 365
)

// DefaultLookback matches the UI's initial selection.
const DefaultLookback = LastMonth

// Lookbacks returns the fixed period set in display order.
func Lookbacks() []Lookback {
	return []Lookback{LastWeek, LastMonth, LastQuarter, LastYear}
}

func (l Lookback) IsValid() bool {
	switch l {
	case LastWeek, LastMonth, LastQuarter, LastYear:
		return true
	default:
		return false
	}
}

// Label returns the period's display text.
func (l Lookback) Label() string {
	switch l {
	case LastWeek:
		return "Last 7 days"
	case LastMonth:
		return "Last 30 days"
	case LastQuarter:
		return "Last 3 months"
	case LastYear:
		return "Last year"
	default:
		return fmt.Sprintf("Last %d days", int(l))
	}
}

// Parse validates a period form value against the fixed set.
func Parse(days int) (Lookback, error) {
	l := Lookback(days)
	if !l.IsValid() {
		return 0, fmt.Errorf("invalid period: %d days", days)
	}
	return l, nil
}

// Build produces the gateway query for a lookback window ending today:
// StartDate = now minus the window, EndDate = now, both plain calendar
// dates. accountID <= 0 means all accounts and adds no filter.
func Build(l Lookback, accountID int64, now time.Time) gateway.TransactionQuery {
	end := core.DateOf(now)
	q := gateway.TransactionQuery{
		StartDate: end.AddDays(-int(l)),
		EndDate:   end,
	}
	if accountID > 0 {
		q.AccountID = accountID
	}
	return q
}
