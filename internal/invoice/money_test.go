package invoice

import (
	"testing"

	"vendorhub/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	t.Run("default currency is plain ASCII with two decimals", func(t *testing.T) {
		assert.Equal(t, "INR 1234.50", FormatCurrency(models.NewAmount(1234.5), "INR"))
		assert.Equal(t, "INR 1234.50", FormatCurrency(models.NewAmount(1234.5), ""))
		assert.Equal(t, "INR 0.00", FormatCurrency(models.NewAmount(0), "inr"))
	})

	t.Run("numeric strings are coerced", func(t *testing.T) {
		assert.Equal(t, "INR 999.90", FormatCurrency(models.ParseAmount(" 999.9 "), "INR"))
	})

	t.Run("malformed amount propagates NaN", func(t *testing.T) {
		assert.Equal(t, "INR NaN", FormatCurrency(models.ParseAmount("abc"), "INR"))
	})

	t.Run("other currencies are locale formatted", func(t *testing.T) {
		got := FormatCurrency(models.NewAmount(1234.5), "USD")
		assert.Contains(t, got, "$")
		assert.Contains(t, got, "1,234.50")
	})

	t.Run("unknown currency code falls back to code prefix", func(t *testing.T) {
		assert.Equal(t, "XYZ1 10.00", FormatCurrency(models.NewAmount(10), "xyz1"))
	})
}

func TestFormatCurrencyLocale(t *testing.T) {
	got := FormatCurrencyLocale(models.NewAmount(1234.5), "INR")
	assert.Contains(t, got, "1,234.50")
	assert.NotContains(t, got, "NaN")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Upi", Capitalize("upi"))
	assert.Equal(t, "Net Banking", Capitalize("net_banking"))
	assert.Equal(t, "Credit Card", Capitalize("credit card"))
	assert.Equal(t, "", Capitalize("  "))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "15 March 2024", FormatDate("2024-03-15T10:30:00.000Z"))
	assert.Equal(t, "1 January 2024", FormatDate("2024-01-01"))
	assert.Equal(t, "soon", FormatDate("soon"))
}
