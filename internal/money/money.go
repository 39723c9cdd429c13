// Package money renders decimal amounts for KPI cards and statements.
// INR uses lakh/crore digit grouping (1,23,45,678.90), USD groups by
// thousands.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	INR Currency = "INR"
	USD Currency = "USD"
)

func symbol(c Currency) string {
	switch c {
	case INR:
		return "₹"
	case USD:
		return "$"
	default:
		return ""
	}
}

// Format renders amount with the currency symbol and grouping, rounded
// half-up to places decimals.
func Format(amount decimal.Decimal, c Currency, places int32) string {
	neg := amount.IsNegative()
	fixed := amount.Abs().StringFixed(places)

	whole, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		whole, frac = fixed[:i], fixed[i:]
	}

	grouped := groupThousands(whole)
	if c == INR {
		grouped = groupIndian(whole)
	}

	out := symbol(c) + grouped + frac
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a rate like 1.625 as "1.63%" at two places.
func FormatPercent(rate decimal.Decimal, places int32) string {
	return rate.StringFixed(places) + "%"
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// groupIndian groups the last three digits, then pairs: 12345678 ->
// 1,23,45,678.
func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	head, tail := digits[:n-3], digits[n-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	parts = append(parts, tail)
	return strings.Join(parts, ",")
}
