// Package content holds the rules shared by every content entity: slug normalization,
// input decoding with optional fields, validation and the uniqueness and reference guards.
package content

import "strings"

// NormalizeSlug lowercases text, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends. It is idempotent.
func NormalizeSlug(text string) string {
	text = strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(text))
	pending := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}
