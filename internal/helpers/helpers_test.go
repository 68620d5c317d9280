package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", GetCurrencySymbol("USD"))
	assert.Equal(t, "€", GetCurrencySymbol("EUR"))
	assert.Equal(t, "CHF ", GetCurrencySymbol("CHF"))
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		currency string
		locale   string
		expected string
	}{
		{name: "grouped thousands", value: 1234.5, currency: "USD", locale: "en-US", expected: "$1,234.50"},
		{name: "default currency and locale", value: 100, expected: "$100.00"},
		{name: "negative", value: -42, currency: "GBP", locale: "en-GB", expected: "-£42.00"},
		{name: "unparseable locale falls back", value: 7, currency: "USD", locale: "!!", expected: "$7.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMoney(tt.value, tt.currency, tt.locale))
		})
	}
}

func TestFormatCountAndPercent(t *testing.T) {
	assert.Equal(t, "1,235", FormatCount(1234.6, "en-US"))
	assert.Equal(t, "0", FormatCount(0, ""))
	assert.Equal(t, "3.50%", FormatPercent(3.5, "en-US"))
}
