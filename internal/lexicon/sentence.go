package lexicon

import (
	"regexp"
	"strings"
)

// SentenceSplitter splits text into an ordered sequence of sentences.
type SentenceSplitter interface {
	Split(text string) []string
}

// Matches a run of non-terminal characters followed by a run of terminal
// punctuation, or a trailing fragment with no terminator at all.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)

// RegexSentenceSplitter splits on runs of sentence-terminal punctuation
// (".", "!", "?"). A trailing fragment without a terminator still counts as
// a sentence. Abbreviations and decimal points are not special-cased.
type RegexSentenceSplitter struct{}

// NewSentenceSplitter returns the default regex-based splitter.
func NewSentenceSplitter() *RegexSentenceSplitter {
	return &RegexSentenceSplitter{}
}

// Split returns the trimmed, non-empty sentences of text in document order.
func (RegexSentenceSplitter) Split(text string) []string {
	matches := sentencePattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		s := strings.TrimSpace(m)
		if strings.Trim(s, ".!? \t\r\n") == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
