package pipeline

import (
	"strings"
	"unicode"
)

// siretLength is the fixed SIRET width after normalization.
const siretLength = 14

// ValidationError reports a malformed SIRET, rejected before any
// upstream call is made. The message is the user-visible text.
type ValidationError struct {
	Input string
}

func (e *ValidationError) Error() string {
	return "le SIRET doit contenir 14 chiffres (les espaces et tirets sont ignorés)"
}

// NormalizeSIRET strips every non-digit rune from a free-form
// identifier and requires exactly 14 digits to remain. "123 456 789
// 00011" and "123-456-789-00011" both normalize to "12345678900011".
func NormalizeSIRET(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	siret := b.String()
	if len(siret) != siretLength {
		return "", &ValidationError{Input: raw}
	}
	return siret, nil
}
