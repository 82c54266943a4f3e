package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain returns content as a string, replacing any invalid UTF-8
// sequences with the replacement character.
func extractPlain(content []byte) (string, error) {
	if !utf8.Valid(content) {
		content = []byte(strings.ToValidUTF8(string(content), "�"))
	}
	return string(content), nil
}
