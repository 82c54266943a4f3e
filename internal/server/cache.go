package server

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/hyperjump/yomitori/internal/config"
	"github.com/hyperjump/yomitori/internal/models"
)

// ResultCache is an LRU cache of analysis results keyed by document ID plus
// the analysis options that produced them. It lets repeated views of the
// same document skip recomputation; Invalidate drops every entry.
type ResultCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
	hits     int64
	misses   int64
}

type resultEntry struct {
	key   string
	value *models.AnalysisResult
}

// NewResultCache creates a new cache with the given capacity.
func NewResultCache(capacity int) *ResultCache {
	return &ResultCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// CacheKey builds the cache key for a document analyzed under the given
// options. Two requests share an entry only when every analysis knob matches.
func CacheKey(docID string, a *config.AnalysisConfig) string {
	return fmt.Sprintf("%s|s=%d|k=%d|kw=%t|st=%t|tb=%t",
		docID,
		a.MaxSummarySentences,
		a.TopKeywordCount,
		a.IncludeKeywordsOrDefault(),
		a.IncludeStatsOrDefault(),
		a.IncludeTablesOrDefault())
}

// Get returns the cached result for key if present.
func (c *ResultCache) Get(key string) (*models.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		c.hits++
		return elem.Value.(*resultEntry).value, true
	}
	c.misses++
	return nil, false
}

// Set stores the result for key, evicting the oldest entry if at capacity.
func (c *ResultCache) Set(key string, value *models.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*resultEntry).value = value
		return
	}

	entry := &resultEntry{key: key, value: value}
	elem := c.lru.PushFront(entry)
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*resultEntry).key)
		}
	}
}

// Invalidate drops every cached entry.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string]*list.Element)
	c.lru.Init()
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns the hit and miss counters since startup.
func (c *ResultCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
