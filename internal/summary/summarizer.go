// Package summary implements extractive summarization: sentences are scored
// by the raw word frequencies of the whole text and the highest-scoring ones
// are returned in original document order.
package summary

import (
	"sort"

	"github.com/hyperjump/yomitori/internal/lexicon"
)

// Summarizer selects the highest-scoring sentences of a text. A sentence's
// score is the sum of the whole-text raw frequencies of its alphanumeric
// tokens, stopwords included, so sentences built from the text's most
// repeated words win.
type Summarizer struct {
	index    *lexicon.Index
	splitter lexicon.SentenceSplitter
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithSplitter replaces the default regex sentence splitter.
func WithSplitter(sp lexicon.SentenceSplitter) Option {
	return func(s *Summarizer) { s.splitter = sp }
}

// NewSummarizer returns a Summarizer backed by the given lexical index.
func NewSummarizer(index *lexicon.Index, opts ...Option) *Summarizer {
	s := &Summarizer{
		index:    index,
		splitter: lexicon.NewSentenceSplitter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type scoredSentence struct {
	index int
	text  string
	score int
}

// Summarize returns up to sentenceCount sentences of text, chosen by score
// and returned in their original order. Equal scores prefer the earlier
// sentence. Duplicate sentence text is unambiguous because ordering is done
// by the carried index, never by looking the text up again. A text with no
// more sentences than requested is returned whole.
func (s *Summarizer) Summarize(text string, sentenceCount int) []string {
	if sentenceCount <= 0 {
		return []string{}
	}
	sentences := s.splitter.Split(text)
	if len(sentences) == 0 {
		return []string{}
	}
	if len(sentences) <= sentenceCount {
		return sentences
	}

	raw := s.index.RawFrequencies(text)
	scored := make([]scoredSentence, len(sentences))
	for i, sentence := range sentences {
		score := 0
		for _, tok := range s.index.Tokens(sentence) {
			if lexicon.Alphanumeric(tok) {
				score += raw.Count(tok)
			}
		}
		scored[i] = scoredSentence{index: i, text: sentence, score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	selected := scored[:sentenceCount]
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].index < selected[j].index
	})

	out := make([]string, len(selected))
	for i, sc := range selected {
		out[i] = sc.text
	}
	return out
}
