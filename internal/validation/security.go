// Package validation provides input validation for user-supplied fields.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Security validation errors
var (
	ErrInvalidUnicodeSecurity  = fmt.Errorf("ErrInvalidUnicodeSecurity")
	ErrHomographAttackDetected = fmt.Errorf("ErrHomographAttackDetected")
)

// Blocked Unicode categories for security
var blockedCategories = []*unicode.RangeTable{
	unicode.Cc, // Control characters
	unicode.Cf, // Format characters (zero-width, etc.)
	unicode.Cs, // Surrogate characters
	unicode.Co, // Private use characters
}

// Cyrillic characters visually identical to Latin ones, used in
// homograph impersonation.
var cyrillicHomographs = map[rune]bool{
	'а': true, 'е': true, 'о': true, 'р': true,
	'с': true, 'х': true, 'у': true,
	'А': true, 'Е': true, 'О': true, 'Р': true,
	'С': true, 'Х': true, 'У': true,
}

// ValidateUnicodeSecurity rejects control characters, format characters,
// and Latin/Cyrillic homograph mixes in user-supplied text.
func ValidateUnicodeSecurity(input string) error {
	normalized := norm.NFKC.String(input)

	for _, r := range normalized {
		if unicode.IsOneOf(blockedCategories, r) {
			return ErrInvalidUnicodeSecurity
		}
	}

	if containsHomographMix(input) || containsHomographMix(normalized) {
		return ErrHomographAttackDetected
	}

	return nil
}

// containsHomographMix reports whether a Cyrillic homograph sits directly
// adjacent to a Latin letter. Pure Cyrillic text and separated mixes
// ("Alex-Алексей") are allowed.
func containsHomographMix(input string) bool {
	runes := []rune(input)
	for i, r := range runes {
		if !cyrillicHomographs[r] {
			continue
		}
		if i > 0 && isLatinLetter(runes[i-1]) {
			return true
		}
		if i < len(runes)-1 && isLatinLetter(runes[i+1]) {
			return true
		}
	}
	return false
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// ValidateFieldSecurity validates a single field with length and security checks
func ValidateFieldSecurity(field, fieldName string, maxLen int) error {
	if len(field) > maxLen {
		return fmt.Errorf("field %s exceeds maximum length of %d characters", fieldName, maxLen)
	}

	if err := ValidateUnicodeSecurity(field); err != nil {
		return fmt.Errorf("unicode security validation failed for field %s: %w", fieldName, err)
	}

	if strings.TrimSpace(field) != field {
		return fmt.Errorf("field %s has leading or trailing whitespace", fieldName)
	}

	return nil
}
