package server

import (
	"testing"

	"github.com/hyperjump/yomitori/internal/config"
	"github.com/hyperjump/yomitori/internal/models"
)

func TestResultCache_GetSet(t *testing.T) {
	c := NewResultCache(2)
	if v, ok := c.Get("a"); ok || v != nil {
		t.Fatal("expected miss")
	}
	c.Set("a", &models.AnalysisResult{RunID: "1"})
	v, ok := c.Get("a")
	if !ok || v.RunID != "1" {
		t.Errorf("Get: got %v, %v", v, ok)
	}
	c.Set("b", &models.AnalysisResult{RunID: "2"})
	c.Set("c", &models.AnalysisResult{RunID: "3"}) // evicts a
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to remain")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

func TestResultCache_recentUseBlocksEviction(t *testing.T) {
	c := NewResultCache(2)
	c.Set("a", &models.AnalysisResult{RunID: "1"})
	c.Set("b", &models.AnalysisResult{RunID: "2"})
	// a is now most recent
	c.Get("a")
	c.Set("c", &models.AnalysisResult{RunID: "3"}) // evicts b
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to remain after recent use")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
}

func TestResultCache_Invalidate(t *testing.T) {
	c := NewResultCache(4)
	c.Set("a", &models.AnalysisResult{RunID: "1"})
	c.Set("b", &models.AnalysisResult{RunID: "2"})
	if c.Len() != 2 {
		t.Fatalf("Len: got %d", c.Len())
	}
	c.Invalidate()
	if c.Len() != 0 {
		t.Errorf("Len after invalidate: got %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be gone after invalidate")
	}
}

func TestResultCache_Stats(t *testing.T) {
	c := NewResultCache(2)
	c.Get("missing")
	c.Set("a", &models.AnalysisResult{RunID: "1"})
	hits, misses := c.Stats()
	if hits != 0 || misses != 1 {
		t.Errorf("Stats: got hits=%d misses=%d", hits, misses)
	}
	c.Get("a")
	hits, misses = c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats: got hits=%d misses=%d", hits, misses)
	}
}

func TestCacheKey(t *testing.T) {
	on, off := true, false
	base := config.AnalysisConfig{MaxSummarySentences: 5, TopKeywordCount: 10}
	same := config.AnalysisConfig{MaxSummarySentences: 5, TopKeywordCount: 10, IncludeKeywords: &on}
	diff := config.AnalysisConfig{MaxSummarySentences: 5, TopKeywordCount: 10, IncludeKeywords: &off}

	if CacheKey("doc:x", &base) != CacheKey("doc:x", &same) {
		t.Error("unset and explicit-default options should share a key")
	}
	if CacheKey("doc:x", &base) == CacheKey("doc:x", &diff) {
		t.Error("different options should produce different keys")
	}
	if CacheKey("doc:x", &base) == CacheKey("doc:y", &base) {
		t.Error("different documents should produce different keys")
	}
	persisting := base
	persisting.PersistToStore = true
	if CacheKey("doc:x", &base) != CacheKey("doc:x", &persisting) {
		t.Error("persistence flag should not split the cache key")
	}
}
