// Package stats computes document-level counts and averages.
package stats

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/yomitori/internal/lexicon"
	"github.com/hyperjump/yomitori/internal/models"
)

// A blank line, possibly holding spaces or tabs, separates paragraphs.
var paragraphPattern = regexp.MustCompile(`\n[ \t]*\n`)

// Analyzer derives DocumentStats from a text using the shared lexical index
// for word tokenization and a sentence splitter for sentence counts.
type Analyzer struct {
	index    *lexicon.Index
	splitter lexicon.SentenceSplitter
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSplitter replaces the default regex sentence splitter.
func WithSplitter(sp lexicon.SentenceSplitter) Option {
	return func(a *Analyzer) { a.splitter = sp }
}

// NewAnalyzer returns an Analyzer backed by the given lexical index.
func NewAnalyzer(index *lexicon.Index, opts ...Option) *Analyzer {
	a := &Analyzer{
		index:    index,
		splitter: lexicon.NewSentenceSplitter(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the counts and averages for text. Averages are 0 whenever
// their denominator is 0, so empty text yields an all-zero result instead of
// an error.
func (a *Analyzer) Analyze(text string) models.DocumentStats {
	words := a.index.Tokens(text)
	sentences := a.splitter.Split(text)

	st := models.DocumentStats{
		CharCount:      utf8.RuneCountInString(text),
		WordCount:      len(words),
		SentenceCount:  len(sentences),
		ParagraphCount: countParagraphs(text),
	}

	if len(sentences) > 0 {
		st.AvgSentenceLength = float64(len(words)) / float64(len(sentences))
	}
	if len(words) > 0 {
		runes := 0
		for _, w := range words {
			runes += utf8.RuneCountInString(w)
		}
		st.AvgWordLength = float64(runes) / float64(len(words))
	}
	return st
}

func countParagraphs(text string) int {
	n := 0
	for _, block := range paragraphPattern.Split(text, -1) {
		if strings.TrimSpace(block) != "" {
			n++
		}
	}
	return n
}
