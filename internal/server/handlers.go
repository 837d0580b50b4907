package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Shameer29/GetLandedATS--sub001/internal/analyzer"
	"github.com/Shameer29/GetLandedATS--sub001/internal/extract"
	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
	"github.com/Shameer29/GetLandedATS--sub001/internal/report"
	"github.com/Shameer29/GetLandedATS--sub001/internal/scoring"
	"github.com/Shameer29/GetLandedATS--sub001/internal/storage"
	"github.com/Shameer29/GetLandedATS--sub001/internal/textproc"
)

const (
	defaultListLimit   = 50
	maxListLimit       = 500
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	exportLimit        = 10000

	// maxFormOverhead covers multipart framing and form fields beyond the
	// file payload itself.
	maxFormOverhead = 1 << 20
)

// readUpload parses the multipart "file" field and rejects anything that is
// not a .pdf or .docx upload within the configured size bound. On failure the
// response has already been written and ok is false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*models.RawDocument, bool) {
	if limit := s.config.Parser.MaxFileSize; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+maxFormOverhead)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "uploaded file is too large")
		} else {
			s.respondError(w, http.StatusBadRequest, "multipart field 'file' is required")
		}
		return nil, false
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" && ext != ".docx" {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("%v: %s", extract.ErrUnsupportedFormat, ext))
		return nil, false
	}
	content, err := io.ReadAll(file)
	if err != nil {
		if isTooLarge(err) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "uploaded file is too large")
		} else {
			s.respondError(w, http.StatusInternalServerError, "failed to read upload")
		}
		return nil, false
	}
	return &models.RawDocument{
		Filename: filename,
		Size:     int64(len(content)),
		Content:  content,
	}, true
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	job := strings.TrimSpace(r.FormValue("job_description"))
	if job == "" {
		s.respondError(w, http.StatusBadRequest, "job_description is required")
		return
	}
	s.logger.Debug("analyze request", zap.String("filename", raw.Filename), zap.Int64("size", raw.Size))
	analysis, err := s.analyzer.Analyze(r.Context(), raw, job)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, analysis)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	s.logger.Debug("parse request", zap.String("filename", raw.Filename), zap.Int64("size", raw.Size))
	resume, err := s.analyzer.ParseResume(r.Context(), raw)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resume)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit := queryInt(r, "limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	analyses, err := s.storage.ListAnalyses(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list analyses failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountAnalyses(r.Context())
	if err != nil {
		s.logger.Error("count analyses failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": analyses,
		"total":    total,
		"offset":   offset,
		"limit":    limit,
	})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	analysis, err := s.storage.GetAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "analysis not found")
			return
		}
		s.logger.Error("get analysis failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete analysis request", zap.String("id", id))
	if err := s.analyzer.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "analysis not found")
			return
		}
		s.logger.Error("delete analysis failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleExportAnalyses(w http.ResponseWriter, r *http.Request) {
	analyses, err := s.storage.ListAnalyses(r.Context(), 0, exportLimit)
	if err != nil {
		s.logger.Error("export: list analyses failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	filename := "analyses-" + time.Now().Format("20060102-150405") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := report.Write(w, analyses); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("export: write workbook failed", zap.Error(err))
	}
}

type searchResult struct {
	Analysis *models.Analysis `json:"analysis"`
	Score    float64          `json:"score"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit := queryInt(r, "limit", defaultSearchLimit)
	if limit < 1 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}
	s.logger.Debug("search request", zap.String("q", query), zap.Int("limit", limit))
	hits, err := s.index.Search(r.Context(), query, limit)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	results := make([]searchResult, 0, len(hits))
	for _, hit := range hits {
		analysis, err := s.storage.GetAnalysis(r.Context(), hit.ID)
		if err != nil {
			// The index can hold entries for analyses deleted since indexing.
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			s.logger.Error("search: load analysis failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		results = append(results, searchResult{Analysis: analysis, Score: hit.Score})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
		"total":   len(results),
	})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	cleared, err := s.storage.ClearScoreCache(r.Context())
	if err != nil {
		s.logger.Error("clear score cache failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Debug("score cache cleared", zap.Int64("entries", cleared))
	s.respondJSON(w, http.StatusOK, map[string]int64{"cleared": cleared})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	analysisCount, err := s.storage.CountAnalyses(ctx)
	if err != nil {
		s.logger.Error("status: count analyses failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	indexed, err := s.index.DocCount()
	if err != nil {
		s.logger.Error("status: index doc count failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	model := "disabled"
	if s.scorer != nil {
		model = s.scorer.Model()
	}
	resp := map[string]interface{}{
		"analyses":        analysisCount,
		"indexed_resumes": indexed,
		"scoring_model":   model,
		"uptime_seconds":  int64(time.Since(s.startTime).Seconds()),
		"version":         s.version,
	}

	// Add configuration info
	configInfo := map[string]interface{}{
		"max_file_size":     s.config.Parser.MaxFileSize,
		"database_path":     s.config.Storage.DatabasePath,
		"search_index_path": s.config.Storage.SearchIndexPath,
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.SearchIndexPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondPipelineError maps analyzer pipeline failures to HTTP status codes.
func (s *Server) respondPipelineError(w http.ResponseWriter, err error) {
	var extractErr *extract.ExtractionError
	var scoreErr *scoring.ScoreError
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, analyzer.ErrDocumentTooLarge):
		s.respondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, textproc.ErrEmptyDocument):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &extractErr):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &scoreErr):
		s.respondError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("analysis failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
