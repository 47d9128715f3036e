package utils

import "strings"

const minPhoneDigits = 9

// DefaultForeignCallingCodes are treated as already international when the
// number is long enough. The set is prefix-free.
var DefaultForeignCallingCodes = []string{
	"1", "33", "44", "49", "60", "61", "65", "86", "90", "91", "93", "98",
	"880", "965", "966", "968", "971", "973", "974",
}

// PhoneNormalizer turns free-form numbers into digits-only international
// form for the messaging provider.
type PhoneNormalizer struct {
	HomeCode     string
	ForeignCodes []string
}

var defaultNormalizer = PhoneNormalizer{HomeCode: "92", ForeignCodes: DefaultForeignCallingCodes}

// NormalizePhone uses the Pakistani home code and the default allow-list.
func NormalizePhone(raw string) (string, bool) {
	return defaultNormalizer.Normalize(raw)
}

// Normalize reports false when fewer than nine digits remain.
func (n PhoneNormalizer) Normalize(raw string) (string, bool) {
	digits := onlyDigits(raw)
	// 00 is the international access prefix, not a trunk zero, when a
	// full number follows it.
	if rest := strings.TrimPrefix(digits, "00"); len(rest) != len(digits) && len(rest) >= minPhoneDigits {
		digits = rest
	}
	if len(digits) < minPhoneDigits {
		return "", false
	}

	switch {
	case strings.HasPrefix(digits, n.HomeCode):
		return digits, true
	case digits[0] == '0':
		return n.HomeCode + digits[1:], true
	case n.isForeign(digits):
		return digits, true
	default:
		return n.HomeCode + digits, true
	}
}

func (n PhoneNormalizer) isForeign(digits string) bool {
	for _, code := range n.ForeignCodes {
		if strings.HasPrefix(digits, code) && len(digits)-len(code) >= minPhoneDigits {
			return true
		}
	}
	return false
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
