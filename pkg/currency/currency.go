// Package currency provides the currency code type shared by accounts and
// risk rules.
package currency

import "regexp"

// Code represents an ISO 4217 currency code (e.g., "USD", "PEN").
type Code string

// Common currency codes for convenience.
const (
	USD Code = "USD"
	EUR Code = "EUR"
	PEN Code = "PEN"
)

var codeFormat = regexp.MustCompile(`^[A-Z]{3}$`)

// IsValidFormat reports whether code looks like an ISO 4217 currency code:
// exactly three uppercase letters. It does not check the code against a
// registry; risk rules are keyed by whatever codes the business configures.
func IsValidFormat(code string) bool {
	return codeFormat.MatchString(code)
}

// String returns the code as a plain string.
func (c Code) String() string {
	return string(c)
}
