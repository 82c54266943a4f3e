// Package pipeline runs one document through the full analytics flow:
// extraction, cleaning, summarization, keyword ranking, statistics, table
// extraction and transformation, dataset reporting, and optional persistence.
//
// A Pipeline holds no state between runs. Every run produces one immutable
// AnalysisResult; calling it twice with identical input yields identical
// analytics.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/yomitori/internal/config"
	"github.com/hyperjump/yomitori/internal/extract"
	"github.com/hyperjump/yomitori/internal/fileid"
	"github.com/hyperjump/yomitori/internal/invoice"
	"github.com/hyperjump/yomitori/internal/keyword"
	"github.com/hyperjump/yomitori/internal/lexicon"
	"github.com/hyperjump/yomitori/internal/models"
	"github.com/hyperjump/yomitori/internal/normalize"
	"github.com/hyperjump/yomitori/internal/stats"
	"github.com/hyperjump/yomitori/internal/storage"
	"github.com/hyperjump/yomitori/internal/summary"
	"github.com/hyperjump/yomitori/internal/table"
)

// Pipeline analyzes documents. Construct with New; the zero value is not
// usable.
type Pipeline struct {
	cfg         *config.Config
	extractor   *extract.Extractor
	index       *lexicon.Index
	summarizer  *summary.Summarizer
	ranker      *keyword.Ranker
	stats       *stats.Analyzer
	tables      *table.Extractor
	transformer *table.Transformer
	reporter    *invoice.Analyzer
	store       storage.Store // optional; required only when persistence is enabled
	logger      *zap.Logger   // optional; when set, logs debug events
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore sets the persistence collaborator used when
// analysis.persist_to_store is enabled.
func WithStore(s storage.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithLogger sets a logger for debug output (stages completed, warnings).
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithTableExtractor replaces the default layout-based table extractor.
func WithTableExtractor(e *table.Extractor) Option {
	return func(p *Pipeline) { p.tables = e }
}

// New creates a pipeline from cfg. cfg must be non-nil and defaulted (see
// config.ApplyDefaults).
func New(cfg *config.Config, opts ...Option) *Pipeline {
	ix := lexicon.NewIndex()
	p := &Pipeline{
		cfg:         cfg,
		extractor:   extract.NewExtractor(),
		index:       ix,
		summarizer:  summary.NewSummarizer(ix),
		ranker:      keyword.NewRanker(),
		stats:       stats.NewAnalyzer(ix),
		tables:      table.NewExtractor(),
		transformer: table.NewTransformer(),
		reporter:    invoice.NewAnalyzer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithConfig returns a pipeline sharing this pipeline's components, store,
// and logger but reading its settings from cfg. The receiver is unchanged.
// Callers use it to apply per-request option overrides without rebuilding
// the component stack.
func (p *Pipeline) WithConfig(cfg *config.Config) *Pipeline {
	clone := *p
	clone.cfg = cfg
	return &clone
}

// AnalyzeFile extracts the document at path and analyzes it. Extraction
// failing outright is the only error; per-page extraction problems become
// warnings on the result.
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*models.AnalysisResult, error) {
	doc, warnings, err := p.extractor.ExtractFile(path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	doc.ID = fileid.DocID(path)
	result := p.AnalyzeDocument(ctx, doc)
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

// AnalyzeBytes extracts and analyzes in-memory content, as received from an
// upload. ext selects the parser (".pdf", ".xlsx", ...); source is carried
// through for display only. The document ID is derived from the content, so
// identical uploads address the same document.
func (p *Pipeline) AnalyzeBytes(ctx context.Context, content []byte, ext, source string) (*models.AnalysisResult, error) {
	doc, warnings, err := p.extractor.ExtractBytes(content, ext, source)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", source, err)
	}
	doc.ID = fileid.ContentID(content)
	result := p.AnalyzeDocument(ctx, doc)
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

// AnalyzeDocument runs the analytics stages over an already-extracted
// document. Empty text is not an error: every stage degrades to its empty
// output. Store failures surface as warnings, never as a failed run.
func (p *Pipeline) AnalyzeDocument(ctx context.Context, doc *models.Document) *models.AnalysisResult {
	start := time.Now()
	cleaned := normalize.Clean(doc.RawText)

	result := &models.AnalysisResult{
		RunID:     uuid.New().String(),
		DocID:     doc.ID,
		Source:    doc.Source,
		PageCount: doc.PageCount(),
		Text:      cleaned,
		CreatedAt: start,
	}

	result.Summary = p.summarizer.Summarize(cleaned, p.cfg.Analysis.MaxSummarySentences)

	if p.cfg.Analysis.IncludeKeywordsOrDefault() {
		result.Keywords = p.ranker.Rank(p.index.FilteredFrequencies(cleaned), p.cfg.Analysis.TopKeywordCount)
	}
	if p.cfg.Analysis.IncludeStatsOrDefault() {
		st := p.stats.Analyze(cleaned)
		result.Stats = &st
	}
	if p.cfg.Analysis.IncludeTablesOrDefault() {
		raw, tableWarnings := p.tables.Extract(doc)
		result.Warnings = append(result.Warnings, tableWarnings...)
		result.Dataset = p.transformer.Transform(raw)
		result.Report = p.reporter.Analyze(result.Dataset)
		p.persist(ctx, result)
	}

	result.ElapsedMS = time.Since(start).Milliseconds()
	if p.logger != nil {
		p.logger.Debug("pipeline document analyzed",
			zap.String("doc_id", result.DocID),
			zap.String("run_id", result.RunID),
			zap.Int("pages", result.PageCount),
			zap.Int("summary_sentences", len(result.Summary)),
			zap.Int("dataset_rows", datasetRows(result.Dataset)),
			zap.Int("warnings", len(result.Warnings)),
			zap.Int64("elapsed_ms", result.ElapsedMS))
	}
	return result
}

// persist writes the run's dataset through the store when persistence is
// enabled. The dataset is written as-is, empty included: after a save the
// store holds exactly this run's rows and nothing older.
func (p *Pipeline) persist(ctx context.Context, result *models.AnalysisResult) {
	if !p.cfg.Analysis.PersistToStore {
		return
	}
	if p.store == nil {
		result.Warnings = append(result.Warnings, "store: persistence enabled but no store configured")
		return
	}
	if err := p.store.ReplaceAll(ctx, p.cfg.Store.Table, result.Dataset); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("store: %v", err))
		if p.logger != nil {
			p.logger.Warn("pipeline store save failed", zap.String("table", p.cfg.Store.Table), zap.Error(err))
		}
		return
	}
	if p.logger != nil {
		p.logger.Debug("pipeline dataset persisted",
			zap.String("table", p.cfg.Store.Table),
			zap.Int("rows", datasetRows(result.Dataset)))
	}
}

func datasetRows(ds *models.Dataset) int {
	if ds == nil {
		return 0
	}
	return len(ds.Records)
}
