// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents so that sums computed by the store are
// exact. Text is coerced through shopspring/decimal, which accepts any sign.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input into Money.
//
// Only a dot is accepted as the decimal separator; grouping commas such as
// "1,000" are rejected. Values with more than two decimals are rounded half
// away from zero, so "0.004" becomes zero.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("-5")     -> -500 cents
//	ParseAmount("12.345") -> 1235 cents
//	ParseAmount("1,000")  -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.ContainsRune(s, ',') {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Round(2).Shift(2)
	if !cents.IsInteger() || cents.Abs().GreaterThan(decimal.NewFromInt(maxCents)) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

const maxCents = (1<<63 - 1) / 100

// Decimal returns the amount as a decimal with two places.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with exactly two decimals.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// GreaterThan reports whether m is strictly larger than o.
func (m Money) GreaterThan(o Money) bool {
	return m.Cents > o.Cents
}
