package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// FilterByRange keeps the rows whose timestamp falls inside [from, to].
// Both bounds are inclusive; a nil bound is open.
func FilterByRange[T any](rows []T, at func(T) time.Time, from, to *time.Time) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		ts := at(row)
		if from != nil && ts.Before(*from) {
			continue
		}
		if to != nil && ts.After(*to) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func Sum[T any](rows []T, value func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(value(row))
	}
	return total
}

func Count[T any](rows []T, pred func(T) bool) int {
	n := 0
	for _, row := range rows {
		if pred(row) {
			n++
		}
	}
	return n
}

// GroupBy buckets rows by key, preserving first-seen key order.
type Group[T any] struct {
	Key  string
	Rows []T
}

func GroupBy[T any](rows []T, key func(T) string) []Group[T] {
	index := make(map[string]int, len(rows))
	groups := make([]Group[T], 0)
	for _, row := range rows {
		k := key(row)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Key: k})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups
}

type DayValue struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// GroupByDay buckets rows into YYYY-MM-DD (UTC) and sums value per bucket.
// The result is sorted chronologically; the input is never reordered.
func GroupByDay[T any](rows []T, at func(T) time.Time, value func(T) decimal.Decimal) []DayValue {
	totals := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		day := at(row).UTC().Format("2006-01-02")
		totals[day] = totals[day].Add(value(row))
	}

	out := make([]DayValue, 0, len(totals))
	for day, total := range totals {
		out = append(out, DayValue{Date: day, Value: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Percent returns n/d*100, and 0 when the denominator is zero.
func Percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

// Ratio is the decimal twin of Percent, with the same zero-denominator guard.
func Ratio(n, d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return n.Div(d).Mul(decimal.NewFromInt(100))
}
