// Package helpers formats metric values for display.
package helpers

import (
	"math"

	"github.com/cyphera/cyphera-metrics/internal/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// GetCurrencySymbol returns the symbol for a given currency code
func GetCurrencySymbol(currency string) string {
	symbols := map[string]string{
		"USD": "$",
		"CAD": "$",
		"EUR": "€",
		"GBP": "£",
		"JPY": "¥",
		"AUD": "A$",
	}
	if symbol, ok := symbols[currency]; ok {
		return symbol
	}
	return currency + " "
}

// Printer returns a printer for the locale, falling back to the default locale
// when it cannot be parsed.
func Printer(locale string) *message.Printer {
	if locale == "" {
		locale = constants.DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(constants.DefaultLocale)
	}
	return message.NewPrinter(tag)
}

// FormatMoney formats an amount with the currency symbol and two decimals.
func FormatMoney(value float64, currency, locale string) string {
	if currency == "" {
		currency = constants.USDCurrency
	}
	p := Printer(locale)
	symbol := GetCurrencySymbol(currency)
	if value < 0 {
		return "-" + symbol + p.Sprintf("%.2f", math.Abs(value))
	}
	return symbol + p.Sprintf("%.2f", value)
}

// FormatCount formats a value as a whole number.
func FormatCount(value float64, locale string) string {
	return Printer(locale).Sprintf("%d", int64(math.Round(value)))
}

// FormatPercent formats a value that is already expressed in percent.
func FormatPercent(value float64, locale string) string {
	return Printer(locale).Sprintf("%.2f", value) + "%"
}
