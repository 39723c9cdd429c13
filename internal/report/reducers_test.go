package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	at     time.Time
	amount decimal.Decimal
}

func at(day int) time.Time {
	return time.Date(2026, 8, day, 10, 0, 0, 0, time.UTC)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPercentZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, Percent(0, 0))
	assert.Equal(t, 0.0, Percent(42, 0))
	assert.Equal(t, 50.0, Percent(1, 2))

	assert.True(t, Ratio(amt("42"), decimal.Zero).IsZero())
	assert.True(t, Ratio(amt("1"), amt("2")).Equal(amt("50")))
}

func TestSumAndGroupByDayEmptyInput(t *testing.T) {
	assert.True(t, Sum(nil, func(s sample) decimal.Decimal { return s.amount }).IsZero())
	assert.Empty(t, GroupByDay(nil, func(s sample) time.Time { return s.at }, func(s sample) decimal.Decimal { return s.amount }))
}

func TestGroupByDaySortsAndLeavesInputAlone(t *testing.T) {
	rows := []sample{
		{at: at(3), amount: amt("30")},
		{at: at(1), amount: amt("10")},
		{at: at(3), amount: amt("5")},
		{at: at(2), amount: amt("20")},
	}

	got := GroupByDay(rows, func(s sample) time.Time { return s.at }, func(s sample) decimal.Decimal { return s.amount })
	require.Len(t, got, 3)
	assert.Equal(t, "2026-08-01", got[0].Date)
	assert.Equal(t, "2026-08-02", got[1].Date)
	assert.Equal(t, "2026-08-03", got[2].Date)
	assert.True(t, got[2].Value.Equal(amt("35")))

	// Input order untouched.
	assert.Equal(t, at(3), rows[0].at)
	assert.Equal(t, at(1), rows[1].at)

	// Idempotent: same answer on a second run.
	again := GroupByDay(rows, func(s sample) time.Time { return s.at }, func(s sample) decimal.Decimal { return s.amount })
	assert.Equal(t, got, again)
}

func TestFilterByRangeInclusiveBounds(t *testing.T) {
	rows := []sample{
		{at: at(1)}, {at: at(2)}, {at: at(3)},
	}
	atTime := func(s sample) time.Time { return s.at }

	from, to := at(1), at(3)
	assert.Len(t, FilterByRange(rows, atTime, &from, &to), 3, "both bounds are inclusive")

	from, to = at(2), at(2)
	got := FilterByRange(rows, atTime, &from, &to)
	require.Len(t, got, 1)
	assert.Equal(t, at(2), got[0].at)

	assert.Len(t, FilterByRange(rows, atTime, nil, nil), 3, "nil bounds are open")

	from = at(4)
	assert.Empty(t, FilterByRange(rows, atTime, &from, nil))
}

func TestGroupByPreservesInsertionOrder(t *testing.T) {
	rows := []sample{
		{at: at(2), amount: amt("1")},
		{at: at(1), amount: amt("2")},
		{at: at(2), amount: amt("3")},
	}
	groups := GroupBy(rows, func(s sample) string { return s.at.Format("2006-01-02") })
	require.Len(t, groups, 2)
	assert.Equal(t, "2026-08-02", groups[0].Key, "first-seen key comes first")
	assert.Len(t, groups[0].Rows, 2)
	assert.Equal(t, "2026-08-01", groups[1].Key)
}

func TestCount(t *testing.T) {
	rows := []sample{{amount: amt("1")}, {amount: amt("0")}, {amount: amt("2")}}
	n := Count(rows, func(s sample) bool { return s.amount.IsPositive() })
	assert.Equal(t, 2, n)
}
