package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// errPortMissing reports a route whose service was not wired.
func errPortMissing(name string) error {
	return fmt.Errorf("%w: %s service", domain.ErrNotImplemented, name)
}

// Documents

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.ports.Document == nil {
		writeError(w, r, errPortMissing("document"))
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, r, fmt.Errorf("%w: multipart form: %v", domain.ErrInvalidInput, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: form field \"file\": %v", domain.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	doc, err := s.ports.Document.IngestBytes(r.Context(), header.Filename, content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if s.ports.Document == nil {
		writeError(w, r, errPortMissing("document"))
		return
	}
	doc, err := s.ports.Document.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleStages(w http.ResponseWriter, r *http.Request) {
	if s.ports.Document == nil {
		writeError(w, r, errPortMissing("document"))
		return
	}
	id := chi.URLParam(r, "id")
	stages, err := s.ports.Document.Stages(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"document_id": id, "stages": stages})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if s.ports.Document == nil {
		writeError(w, r, errPortMissing("document"))
		return
	}
	if err := s.ports.Document.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cleaning

func (s *Server) cleaningOptions(q *query) domain.CleaningOptions {
	def := s.ports.defaults().Cleaning
	return domain.CleaningOptions{
		RemoveStopwords:     q.bool("remove_stopwords", def.RemoveStopwords),
		NormalizeWhitespace: q.bool("normalize_whitespace", def.NormalizeWhitespace),
		RemoveSpecialChars:  q.bool("remove_special_chars", def.RemoveSpecialChars),
		MinSentenceLength:   q.int("min_sentence_length", def.MinSentenceLength),
	}
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	if s.ports.Cleaning == nil {
		writeError(w, r, errPortMissing("cleaning"))
		return
	}
	q := newQuery(r.URL.Query())
	opts := s.cleaningOptions(q)
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	cleaned, err := s.ports.Cleaning.Clean(r.Context(), chi.URLParam(r, "id"), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cleaned)
}

func (s *Server) handleGetCleaned(w http.ResponseWriter, r *http.Request) {
	if s.ports.Cleaning == nil {
		writeError(w, r, errPortMissing("cleaning"))
		return
	}
	cleaned, err := s.ports.Cleaning.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cleaned)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if s.ports.Cleaning == nil {
		writeError(w, r, errPortMissing("cleaning"))
		return
	}
	q := newQuery(r.URL.Query())
	opts := s.cleaningOptions(q)
	size := q.int("sample_size", 0)
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	preview, err := s.ports.Cleaning.Preview(r.Context(), chi.URLParam(r, "id"), opts, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// Summaries

func (s *Server) handleExtractive(w http.ResponseWriter, r *http.Request) {
	def := s.ports.defaults().Summary
	q := newQuery(r.URL.Query())
	opts := domain.ExtractiveOptions{
		Ratio:     q.float("ratio", def.Ratio),
		Algorithm: domain.Algorithm(q.str("algorithm", def.Algorithm.String())),
		UseCache:  q.bool("use_cache", true),
	}
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	rec, err := s.ports.Summary.Extractive(r.Context(), chi.URLParam(r, "id"), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAbstractive(w http.ResponseWriter, r *http.Request) {
	def := s.ports.defaults().Summary
	q := newQuery(r.URL.Query())
	opts := domain.AbstractiveOptions{
		MaxLength: q.int("max_length", def.MaxLength),
		MinLength: q.int("min_length", def.MinLength),
		Model:     q.str("model", ""),
	}
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	rec, err := s.ports.Summary.Abstractive(r.Context(), chi.URLParam(r, "id"), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) hybridOptions(q *query) domain.HybridOptions {
	def := s.ports.defaults().Summary
	return domain.HybridOptions{
		ExtractiveRatio: q.float("extractive_ratio", 0),
		MaxLength:       q.int("max_length", def.MaxLength),
		MinLength:       q.int("min_length", def.MinLength),
	}
}

func (s *Server) handleHybrid(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r.URL.Query())
	opts := s.hybridOptions(q)
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	rec, err := s.ports.Summary.Hybrid(r.Context(), chi.URLParam(r, "id"), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleFormattedHybrid(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r.URL.Query())
	opts := s.hybridOptions(q)
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	rec, err := s.ports.Summary.FormattedHybrid(r.Context(), chi.URLParam(r, "id"), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	summaryType, err := domain.ParseSummaryType(newQuery(r.URL.Query()).str("summary_type", "extractive"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := s.ports.Summary.Get(r.Context(), chi.URLParam(r, "id"), summaryType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Translation

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if s.ports.Translation == nil {
		writeError(w, r, errPortMissing("translation"))
		return
	}
	q := newQuery(r.URL.Query())
	summaryType, err := domain.ParseSummaryType(q.str("summary_type", "hybrid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	language := q.str("target_language", "hindi")
	provider := domain.TranslationProvider(q.str("provider", ""))

	rec, err := s.ports.Translation.TranslateSummary(r.Context(), chi.URLParam(r, "id"), summaryType, language, provider)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetTranslation(w http.ResponseWriter, r *http.Request) {
	if s.ports.Translation == nil {
		writeError(w, r, errPortMissing("translation"))
		return
	}
	q := newQuery(r.URL.Query())
	summaryType, err := domain.ParseSummaryType(q.str("summary_type", "hybrid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := s.ports.Translation.Get(r.Context(), chi.URLParam(r, "id"), summaryType, q.str("target_language", "hindi"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if s.ports.Translation == nil {
		writeError(w, r, errPortMissing("translation"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"languages": s.ports.Translation.Languages()})
}
