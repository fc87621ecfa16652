package credential

import (
	"fmt"
	"strings"
	"unicode"
)

// symbolSet is the fixed punctuation set a password must draw at least
// one character from.
const symbolSet = "!@#$%^&*()-_=+[]{};:,.<>?/"

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// ValidateStrength checks a password against the composed strength
// rule: minimum length, lowercase, uppercase, digit, and one symbol
// from the fixed set. It returns a descriptive violation, or nil when
// the password satisfies every part of the rule.
func ValidateStrength(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(symbolSet, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasLower:
		return fmt.Errorf("password must contain a lowercase letter")
	case !hasUpper:
		return fmt.Errorf("password must contain an uppercase letter")
	case !hasDigit:
		return fmt.Errorf("password must contain a digit")
	case !hasSymbol:
		return fmt.Errorf("password must contain a symbol from %q", symbolSet)
	}
	return nil
}
