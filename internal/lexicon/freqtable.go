package lexicon

// FrequencyTable maps terms to occurrence counts while remembering the order
// in which terms were first added. The insertion order is the deterministic
// tie-break for equal counts downstream.
type FrequencyTable struct {
	counts map[string]int
	order  []string
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[string]int)}
}

// Add records one occurrence of term.
func (t *FrequencyTable) Add(term string) {
	if _, seen := t.counts[term]; !seen {
		t.order = append(t.order, term)
	}
	t.counts[term]++
}

// Count returns the occurrence count for term, 0 when absent.
func (t *FrequencyTable) Count(term string) int {
	return t.counts[term]
}

// Len returns the number of distinct terms.
func (t *FrequencyTable) Len() int {
	return len(t.order)
}

// Terms returns the distinct terms in first-insertion order. The returned
// slice is a copy.
func (t *FrequencyTable) Terms() []string {
	return append([]string(nil), t.order...)
}

// Total returns the sum of all counts.
func (t *FrequencyTable) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}
