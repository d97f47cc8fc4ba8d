package invoice

import (
	"fmt"
	"strings"

	"vendorhub/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCurrency formats an amount for the PDF renderer. The default currency
// is written as "<code> <amount>" with two decimals in plain ASCII because the
// core PDF fonts cannot draw the rupee glyph. Other currencies use locale-aware
// formatting.
func FormatCurrency(amount models.Amount, code string) string {
	code = normalizeCode(code)
	if code == models.DefaultCurrency || !amount.Valid {
		return fmt.Sprintf("%s %s", code, amount.Fixed(2))
	}
	return formatLocale(amount, code, language.English)
}

// FormatCurrencyLocale always formats with the currency's locale conventions.
// Used by the HTML view, which can render any glyph.
func FormatCurrencyLocale(amount models.Amount, code string) string {
	code = normalizeCode(code)
	if !amount.Valid {
		return fmt.Sprintf("%s %s", code, amount.Fixed(2))
	}
	tag := language.English
	if code == models.DefaultCurrency {
		tag = language.MustParse("en-IN")
	}
	return formatLocale(amount, code, tag)
}

func formatLocale(amount models.Amount, code string, tag language.Tag) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", code, amount.Fixed(2))
	}
	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(amount.Float64())))
}

func normalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return models.DefaultCurrency
	}
	return code
}

var titleCaser = cases.Title(language.English)

// Capitalize renders free-text values such as payment methods for display.
func Capitalize(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if value == "" {
		return ""
	}
	return titleCaser.String(value)
}
