package validators

import (
	"strings"
)

const (
	ibanMinLength = 15
	ibanMaxLength = 34
)

// NormalizeIBAN strips blanks and upper-cases s.
func NormalizeIBAN(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// ValidIBAN reports whether s is a well-formed IBAN with a correct ISO 13616
// check sum. Blanks are ignored.
func ValidIBAN(s string) bool {
	iban := NormalizeIBAN(s)
	if len(iban) < ibanMinLength || len(iban) > ibanMaxLength {
		return false
	}
	for i := 0; i < 2; i++ {
		if iban[i] < 'A' || iban[i] > 'Z' {
			return false
		}
	}
	for i := 2; i < 4; i++ {
		if iban[i] < '0' || iban[i] > '9' {
			return false
		}
	}

	// mod 97 over the rearranged string, letters expanded to 10..35,
	// computed digit by digit so the number never overflows
	rearranged := iban[4:] + iban[:4]
	remainder := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		switch {
		case c >= '0' && c <= '9':
			remainder = (remainder*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			remainder = (remainder*100 + int(c-'A') + 10) % 97
		default:
			return false
		}
	}
	return remainder == 1
}

// ValidBLZ reports whether s is a German bank code: exactly 8 digits.
func ValidBLZ(s string) bool {
	if len(s) != 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
