package phone

import "strings"

// MinDigits is the fewest digits a number may carry before a code is sent to it.
const MinDigits = 10

// Digits strips every non-digit rune from raw.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize maps a user-entered phone string onto the +<country><number> key used for
// verification lookups. North American numbers get a +1 prefix; anything else is passed
// through as +<digits> and left to fail at delivery time.
func Normalize(raw string) string {
	digits := Digits(raw)
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits
	default:
		return "+" + digits
	}
}

// Valid reports whether raw carries enough digits to be worth texting.
func Valid(raw string) bool {
	return len(Digits(raw)) >= MinDigits
}
