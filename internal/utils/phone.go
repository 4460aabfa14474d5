package utils

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultCountryCode is applied to national-format numbers (Thailand).
const DefaultCountryCode = "66"

// NormalizePhone converts a user-entered phone number to E.164.
// Accepts "0812345678", "+66812345678", "66812345678" and common
// spacing/dash variants. Returns an error when the result is not a
// plausible phone number.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	hasPlus := false
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r == '+' && i == 0:
			hasPlus = true
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// separators are fine
		default:
			return "", fmt.Errorf("invalid character in phone number")
		}
	}

	num := digits.String()
	switch {
	case hasPlus:
		// already international
	case strings.HasPrefix(num, "0"):
		// national format: drop the trunk prefix, add country code
		num = DefaultCountryCode + num[1:]
	case strings.HasPrefix(num, DefaultCountryCode):
		// international without the plus
	default:
		return "", fmt.Errorf("unrecognized phone number format")
	}

	if len(num) < 9 || len(num) > 15 {
		return "", fmt.Errorf("phone number has invalid length")
	}
	return "+" + num, nil
}
