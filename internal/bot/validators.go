package bot

import (
	"strings"
	"unicode"
)

// NormalizePhoneNumber converts Kenyan phone input to the local 0XXXXXXXXX
// form. Accepts 07/01 local numbers, 254... and +254... international
// forms, with any separators.
func NormalizePhoneNumber(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)

	if strings.HasPrefix(cleaned, "254") && len(cleaned) == 12 {
		return "0" + cleaned[3:]
	}
	return cleaned
}

// IsValidPhoneNumber checks for a Kenyan mobile number: ten digits starting
// 07 or 01 after normalization.
func IsValidPhoneNumber(phone string) bool {
	normalized := NormalizePhoneNumber(phone)
	if len(normalized) != 10 {
		return false
	}
	if !strings.HasPrefix(normalized, "07") && !strings.HasPrefix(normalized, "01") {
		return false
	}

	badNumbers := map[string]bool{
		"0700000000": true,
		"0711111111": true,
		"0100000000": true,
	}
	return !badNumbers[normalized]
}

// FormatPhoneNumber renders a normalized number as 07XX XXX XXX.
func FormatPhoneNumber(phone string) string {
	n := NormalizePhoneNumber(phone)
	if len(n) != 10 {
		return phone
	}
	return n[:4] + " " + n[4:7] + " " + n[7:]
}
