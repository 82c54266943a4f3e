// Package keyword ranks the terms of a filtered frequency table.
package keyword

import (
	"sort"

	"github.com/hyperjump/yomitori/internal/lexicon"
	"github.com/hyperjump/yomitori/internal/models"
)

// Ranker orders terms by frequency. It consumes the filtered table built by
// lexicon.Index, so stopwords and short tokens never reach it.
type Ranker struct{}

// NewRanker returns a Ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank returns up to topN (term, count) pairs sorted by count descending.
// Equal counts keep the order in which terms first entered the table. A nil
// or empty table, or a non-positive topN, yields an empty list.
func (r *Ranker) Rank(table *lexicon.FrequencyTable, topN int) []models.Keyword {
	if table == nil || topN <= 0 {
		return []models.Keyword{}
	}

	terms := table.Terms()
	keywords := make([]models.Keyword, len(terms))
	for i, term := range terms {
		keywords[i] = models.Keyword{Term: term, Count: table.Count(term)}
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})

	if len(keywords) > topN {
		keywords = keywords[:topN]
	}
	return keywords
}
