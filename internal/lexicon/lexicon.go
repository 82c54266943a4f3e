// Package lexicon provides the lexical capabilities consumed by the analytics
// stages: word tokenization, stopword filtering, lemmatization, sentence
// splitting, and insertion-ordered frequency tables.
package lexicon

import (
	"unicode"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	unicodetokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/kljensen/snowball"
)

// Lemmatizer reduces a word to its dictionary base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// SnowballLemmatizer implements Lemmatizer with the snowball stemmer.
type SnowballLemmatizer struct {
	language string
}

// NewSnowballLemmatizer returns a lemmatizer for the given snowball language
// (e.g. "english").
func NewSnowballLemmatizer(language string) *SnowballLemmatizer {
	return &SnowballLemmatizer{language: language}
}

// Lemma returns the stemmed form of word. Words the stemmer rejects are
// returned unchanged.
func (l *SnowballLemmatizer) Lemma(word string) string {
	stemmed, err := snowball.Stem(word, l.language, true)
	if err != nil {
		return word
	}
	return stemmed
}

// Index builds frequency tables over a text. The raw table counts every
// lowercased token; the filtered table counts only tokens that pass the
// keyword policy (alphanumeric, length > 2, not a stopword), lemmatized.
// The two tables have different filtering policies and are never
// interchangeable.
type Index struct {
	tokenizer  analysis.Tokenizer
	lowercase  *lowercase.LowerCaseFilter
	stopFilter *stop.StopTokensFilter
	stopwords  analysis.TokenMap
	lemmatizer Lemmatizer
}

// Option configures an Index.
type Option func(*Index)

// WithTokenizer replaces the default unicode word tokenizer.
func WithTokenizer(t analysis.Tokenizer) Option {
	return func(ix *Index) { ix.tokenizer = t }
}

// WithStopwords replaces the default English stopword set.
func WithStopwords(m analysis.TokenMap) Option {
	return func(ix *Index) { ix.stopwords = m }
}

// WithLemmatizer replaces the default snowball English lemmatizer.
func WithLemmatizer(l Lemmatizer) Option {
	return func(ix *Index) { ix.lemmatizer = l }
}

// NewIndex returns an Index with the default capabilities: unicode word
// tokenizer, English stopwords, snowball English lemmatizer.
func NewIndex(opts ...Option) *Index {
	ix := &Index{
		tokenizer:  unicodetokenizer.NewUnicodeTokenizer(),
		lowercase:  lowercase.NewLowerCaseFilter(),
		stopwords:  EnglishStopwords(),
		lemmatizer: NewSnowballLemmatizer("english"),
	}
	for _, opt := range opts {
		opt(ix)
	}
	ix.stopFilter = stop.NewStopTokensFilter(ix.stopwords)
	return ix
}

// EnglishStopwords returns the built-in English stopword token map.
func EnglishStopwords() analysis.TokenMap {
	tm := analysis.NewTokenMap()
	_ = tm.LoadBytes(en.EnglishStopWords)
	return tm
}

// IsStopword reports whether term is in the configured stopword set.
func (ix *Index) IsStopword(term string) bool {
	return ix.stopwords[term]
}

// Tokens returns the raw lowercased word tokens of text, in order.
func (ix *Index) Tokens(text string) []string {
	if text == "" {
		return nil
	}
	stream := ix.lowercase.Filter(ix.tokenizer.Tokenize([]byte(text)))
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		out = append(out, string(tok.Term))
	}
	return out
}

// RawFrequencies counts every lowercased token of text, with no filtering.
// This is the table the summarizer scores against.
func (ix *Index) RawFrequencies(text string) *FrequencyTable {
	table := NewFrequencyTable()
	for _, term := range ix.Tokens(text) {
		table.Add(term)
	}
	return table
}

// FilteredFrequencies counts lemmatized tokens that are alphanumeric, longer
// than 2 characters, and not stopwords. The length and stopword checks apply
// to the lemma as well, since stemming can shrink a token or land it on a
// stopword ("ups" stems to "up"). This is the table the keyword ranker
// consumes.
func (ix *Index) FilteredFrequencies(text string) *FrequencyTable {
	table := NewFrequencyTable()
	if text == "" {
		return table
	}
	stream := ix.stopFilter.Filter(ix.lowercase.Filter(ix.tokenizer.Tokenize([]byte(text))))
	for _, tok := range stream {
		term := string(tok.Term)
		if !Alphanumeric(term) || runeLen(term) <= 2 {
			continue
		}
		lemma := ix.lemmatizer.Lemma(term)
		if runeLen(lemma) <= 2 || ix.IsStopword(lemma) {
			continue
		}
		table.Add(lemma)
	}
	return table
}

// Alphanumeric reports whether s is non-empty and contains only letters and
// digits.
func Alphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
