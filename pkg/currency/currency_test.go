package currency_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bankx/transactions/pkg/currency"
)

func TestIsValidFormat(t *testing.T) {
	valid := []string{"USD", "PEN", "EUR", "XAU"}
	for _, code := range valid {
		assert.True(t, currency.IsValidFormat(code), code)
	}

	invalid := []string{"", "US", "USDX", "usd", "U$D", "123"}
	for _, code := range invalid {
		assert.False(t, currency.IsValidFormat(code), code)
	}
}
