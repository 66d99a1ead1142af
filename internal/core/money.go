// Package core provides the financial domain model shared by every other
// package: accounts, transactions, money and calendar dates.
//
// This file contains money parsing and JSON conversion. The gateway speaks
// decimal amounts (e.g. 1234.56); internally everything is int64 cents so
// aggregation never accumulates floating-point error.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency amount in cents.
type Money struct {
	Cents int64
}

// ParseAmountToCents converts a user-entered decimal string to cents with
// half-up rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. The
// result is always strictly positive cents; signs, zero and invalid formats
// are rejected. Transaction amounts are non-negative by invariant, so form
// input never carries a sign.
func ParseAmountToCents(s string) (int64, error) {
	cents, err := parseDecimalCents(s, false)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// parseDecimalCents is the shared decimal-to-cents conversion. allowSign
// permits a leading minus, needed for account balances coming off the wire.
func parseDecimalCents(s string, allowSign bool) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	neg := false
	if strings.HasPrefix(s, "-") {
		if !allowSign {
			return 0, ErrInvalidAmount
		}
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// First two fractional digits, half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// MarshalJSON encodes the amount as the gateway's decimal number form.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.decimal()), nil
}

// UnmarshalJSON decodes the gateway's decimal number form (or its quoted
// variant) into cents.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		m.Cents = 0
		return nil
	}
	if strings.ContainsAny(s, "eE") {
		// Scientific notation never round-trips through the decimal parser.
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse money %q: %w", s, ErrInvalidAmount)
		}
		if f < 0 {
			m.Cents = -int64(-f*100 + 0.5)
		} else {
			m.Cents = int64(f*100 + 0.5)
		}
		return nil
	}
	cents, err := parseDecimalCents(s, true)
	if err != nil {
		return fmt.Errorf("parse money %q: %w", s, err)
	}
	m.Cents = cents
	return nil
}

// decimal renders the amount as a plain decimal string with two places.
func (m Money) decimal() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// Float64 returns the amount in currency units for chart scaling only.
// Use cents for every calculation.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns the difference of two amounts.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// Format renders the amount for display, e.g. "R$ 1234,56".
func (m Money) Format() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "," + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-R$ " + s
	}
	return "R$ " + s
}
