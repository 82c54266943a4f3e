package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/yomitori/internal/config"
	"github.com/hyperjump/yomitori/internal/fileid"
)

// maxUploadBytes caps the multipart form kept in memory per analyze request.
const maxUploadBytes = 32 << 20

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	content, filename, err := readUpload(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg, err := s.requestConfig(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	docID := fileid.ContentID(content)
	key := CacheKey(docID, &cfg.Analysis)
	// A persisting run must reach the store, so it never answers from cache.
	if !cfg.Analysis.PersistToStore {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debug("analyze cache hit", zap.String("doc_id", docID))
			s.respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	s.logger.Debug("analyze request",
		zap.String("filename", filename),
		zap.String("doc_id", docID),
		zap.Int("bytes", len(content)))
	result, err := s.pipeline.WithConfig(cfg).AnalyzeBytes(r.Context(), content, filepath.Ext(filename), filename)
	if err != nil {
		s.logger.Error("analyze failed", zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if cfg.Analysis.PersistToStore {
		// The store contents changed, so every cached result predates them.
		s.cache.Invalidate()
	}
	s.cache.Set(key, result)
	s.respondJSON(w, http.StatusOK, result)
}

// readUpload returns the uploaded document bytes and filename. Multipart
// forms carry both in the "document" field; a raw body names its file
// through the filename query parameter instead.
func readUpload(r *http.Request) ([]byte, string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, "", fmt.Errorf("invalid multipart form")
		}
		file, header, err := r.FormFile("document")
		if err != nil {
			return nil, "", fmt.Errorf("document file is required")
		}
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			return nil, "", fmt.Errorf("reading upload failed")
		}
		return content, header.Filename, nil
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		return nil, "", fmt.Errorf("filename query parameter is required for raw uploads")
	}
	content, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		return nil, "", fmt.Errorf("reading upload failed")
	}
	if len(content) == 0 {
		return nil, "", fmt.Errorf("empty request body")
	}
	return content, filename, nil
}

// requestConfig derives the effective configuration for one analyze request:
// the server's configuration with any recognized query overrides applied.
func (s *Server) requestConfig(r *http.Request) (*config.Config, error) {
	cfg := *s.config
	q := r.URL.Query()

	if v := q.Get("max_summary_sentences"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("max_summary_sentences: %v", err)
		}
		cfg.Analysis.MaxSummarySentences = n
	}
	if v := q.Get("top_keyword_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("top_keyword_count: %v", err)
		}
		cfg.Analysis.TopKeywordCount = n
	}
	for param, field := range map[string]**bool{
		"include_keywords": &cfg.Analysis.IncludeKeywords,
		"include_stats":    &cfg.Analysis.IncludeStats,
		"include_tables":   &cfg.Analysis.IncludeTables,
	} {
		if v := q.Get(param); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %v", param, err)
			}
			*field = &b
		}
	}
	if v := q.Get("persist_to_store"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("persist_to_store: %v", err)
		}
		cfg.Analysis.PersistToStore = b
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, http.StatusNotImplemented, "store not configured")
		return
	}
	ds, err := s.store.ReadAll(r.Context(), s.config.Store.Table)
	if err != nil {
		s.logger.Error("dataset read failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, ds)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, http.StatusNotImplemented, "store not configured")
		return
	}
	ds, err := s.store.ReadAll(r.Context(), s.config.Store.Table)
	if err != nil {
		s.logger.Error("report read failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, s.reporter.Analyze(ds))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	hits, misses := s.cache.Stats()
	resp := map[string]interface{}{
		"cache_entries":  s.cache.Len(),
		"cache_capacity": s.config.Server.CacheSize,
		"cache_hits":     hits,
		"cache_misses":   misses,
		"config": map[string]interface{}{
			"max_summary_sentences": s.config.Analysis.MaxSummarySentences,
			"top_keyword_count":     s.config.Analysis.TopKeywordCount,
			"store_driver":          s.config.Store.Driver,
			"store_table":           s.config.Store.Table,
		},
	}
	if s.store != nil {
		if ds, err := s.store.ReadAll(r.Context(), s.config.Store.Table); err == nil {
			resp["stored_rows"] = len(ds.Records)
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.cache.Invalidate()
	s.logger.Debug("analysis cache cleared")
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
