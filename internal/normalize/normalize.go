// Package normalize cleans raw extracted text for analysis and display.
package normalize

import (
	"strings"
	"unicode"
)

// Clean collapses whitespace runs to single spaces and strips characters
// outside the allowed set (letters, digits, whitespace, and . , ! ? ; : - ( )).
// A whitespace run containing two or more newlines is a paragraph break and
// collapses to a blank line instead, so paragraph structure survives cleaning.
// Empty input yields empty output. Idempotent.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	newlines := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			inSpace = true
			if r == '\n' {
				newlines++
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !allowedPunct(r) {
			continue
		}
		if inSpace && b.Len() > 0 {
			if newlines >= 2 {
				b.WriteString("\n\n")
			} else {
				b.WriteByte(' ')
			}
		}
		inSpace = false
		newlines = 0
		b.WriteRune(r)
	}
	return b.String()
}

func allowedPunct(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ';', ':', '-', '(', ')':
		return true
	}
	return false
}
