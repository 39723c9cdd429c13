package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFormatINRLakhCrore(t *testing.T) {
	assert.Equal(t, "₹500.00", Format(dec("500"), INR, 2))
	assert.Equal(t, "₹1,000.00", Format(dec("1000"), INR, 2))
	assert.Equal(t, "₹1,00,000.00", Format(dec("100000"), INR, 2))
	assert.Equal(t, "₹1,23,45,678.90", Format(dec("12345678.9"), INR, 2))
	assert.Equal(t, "-₹12,345.00", Format(dec("-12345"), INR, 2))
}

func TestFormatUSDThousands(t *testing.T) {
	assert.Equal(t, "$500.00", Format(dec("500"), USD, 2))
	assert.Equal(t, "$12,345,678.90", Format(dec("12345678.9"), USD, 2))
	assert.Equal(t, "$1,000", Format(dec("1000"), USD, 0))
}

func TestFormatPercentRoundsHalfUp(t *testing.T) {
	assert.Equal(t, "1.63%", FormatPercent(dec("1.625"), 2))
	assert.Equal(t, "0.00%", FormatPercent(decimal.Zero, 2))
}
