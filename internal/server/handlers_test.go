package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Shameer29/GetLandedATS--sub001/internal/analyzer"
	"github.com/Shameer29/GetLandedATS--sub001/internal/config"
	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
	"github.com/Shameer29/GetLandedATS--sub001/internal/scoring"
	"github.com/Shameer29/GetLandedATS--sub001/internal/search"
	"github.com/Shameer29/GetLandedATS--sub001/internal/storage"
)

// resumeDocx builds minimal .docx zip bytes with one paragraph per line.
func resumeDocx(lines ...string) []byte {
	var body strings.Builder
	for _, ln := range lines {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + ln + `</w:t></w:r></w:p>`)
	}
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func sampleResumeLines() []string {
	return []string{
		"Jane Doe",
		"jane.doe@example.com | (555) 123-4567 | linkedin.com/in/janedoe",
		"PROFESSIONAL SUMMARY",
		"Engineer with 8 years building backend systems.",
		"PROFESSIONAL EXPERIENCE",
		"Senior Engineer, Acme Corp",
		"Built Go services on Kubernetes.",
		"EDUCATION",
		"BS Computer Science",
		"SKILLS",
		"Go, Python, Kubernetes, PostgreSQL",
	}
}

func testServer(t *testing.T, opts ...analyzer.Option) (*Server, storage.Storage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "analyses.db"))
	if err != nil {
		t.Fatal(err)
	}
	idx, err := search.NewBleveIndex(filepath.Join(dir, "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = idx.Close()
		_ = store.Close()
	})
	scorer := &scoring.MockScorer{}
	an := analyzer.NewAnalyzer(store, idx, scorer, opts...)
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.DatabasePath = filepath.Join(dir, "analyses.db")
	cfg.Storage.SearchIndexPath = filepath.Join(dir, "bleve")
	return NewServer(an, store, idx, scorer, cfg, zap.NewNop(), "test"), store
}

// uploadRequest builds a multipart POST with a file part plus extra fields.
func uploadRequest(t *testing.T, target, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

// withURLParam attaches a chi route parameter so handlers can be called
// without a router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func analyzeFixture(t *testing.T, srv *Server, filename, job string) *models.Analysis {
	t.Helper()
	r := uploadRequest(t, "/api/v1/analyze", filename, resumeDocx(sampleResumeLines()...),
		map[string]string{"job_description": job})
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("analyze status: got %d, body: %s", w.Code, w.Body.String())
	}
	var analysis models.Analysis
	if err := json.NewDecoder(w.Body).Decode(&analysis); err != nil {
		t.Fatal(err)
	}
	return &analysis
}

func TestHandleAnalyze(t *testing.T) {
	srv, store := testServer(t)

	analysis := analyzeFixture(t, srv, "jane.docx", "Go engineer with Kubernetes experience")
	if analysis.ID == "" {
		t.Error("expected a generated analysis ID")
	}
	if analysis.Resume == nil || analysis.Resume.Format != models.FormatDOCX {
		t.Errorf("resume format: got %+v", analysis.Resume)
	}
	if analysis.Keywords == nil {
		t.Error("expected a keyword report when job_description is set")
	}
	if analysis.Score == nil {
		t.Error("expected a score when a scorer is configured")
	}
	if analysis.Cached {
		t.Error("first analysis should not be served from cache")
	}

	stored, err := store.GetAnalysis(context.Background(), analysis.ID)
	if err != nil {
		t.Fatalf("analysis not persisted: %v", err)
	}
	if stored.Filename != "jane.docx" {
		t.Errorf("stored filename: got %q", stored.Filename)
	}
}

func TestHandleAnalyze_MissingJobDescription(t *testing.T) {
	srv, _ := testServer(t)
	r := uploadRequest(t, "/api/v1/analyze", "jane.docx", resumeDocx(sampleResumeLines()...), nil)
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleAnalyze_UnsupportedExtension(t *testing.T) {
	srv, _ := testServer(t)
	r := uploadRequest(t, "/api/v1/analyze", "resume.txt", []byte("plain text"),
		map[string]string{"job_description": "Go engineer"})
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unsupported") {
		t.Errorf("body: got %s", w.Body.String())
	}
}

func TestHandleAnalyze_MissingFileField(t *testing.T) {
	srv, _ := testServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("job_description", "Go engineer")
	_ = mw.Close()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleAnalyze_FileTooLarge(t *testing.T) {
	srv, _ := testServer(t, analyzer.WithMaxFileSize(64))
	r := uploadRequest(t, "/api/v1/analyze", "jane.docx", resumeDocx(sampleResumeLines()...),
		map[string]string{"job_description": "Go engineer"})
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, r)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", w.Code)
	}
}

func TestHandleAnalyze_CorruptUpload(t *testing.T) {
	srv, _ := testServer(t)
	r := uploadRequest(t, "/api/v1/analyze", "jane.docx", []byte("not a zip archive"),
		map[string]string{"job_description": "Go engineer"})
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, r)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", w.Code)
	}
}

func TestHandleAnalyze_EmptyDocument(t *testing.T) {
	srv, _ := testServer(t)
	r := uploadRequest(t, "/api/v1/analyze", "jane.docx", resumeDocx("Hi"),
		map[string]string{"job_description": "Go engineer"})
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, r)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", w.Code)
	}
}

func TestHandleParse(t *testing.T) {
	srv, store := testServer(t)
	r := uploadRequest(t, "/api/v1/parse", "jane.docx", resumeDocx(sampleResumeLines()...), nil)
	w := httptest.NewRecorder()
	srv.handleParse(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var resume models.ResumeDocument
	if err := json.NewDecoder(w.Body).Decode(&resume); err != nil {
		t.Fatal(err)
	}
	if len(resume.Sections) != 4 {
		t.Errorf("sections: got %d, want 4", len(resume.Sections))
	}
	if resume.FileSize == 0 {
		t.Error("parse response missing the uploaded file size")
	}

	count, err := store.CountAnalyses(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("parse must not persist anything, found %d analyses", count)
	}
}

func TestHandleGetAnalysis(t *testing.T) {
	srv, _ := testServer(t)
	analysis := analyzeFixture(t, srv, "jane.docx", "Go engineer")

	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysis.ID, nil), "id", analysis.ID)
	w := httptest.NewRecorder()
	srv.handleGetAnalysis(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var got models.Analysis
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID != analysis.ID {
		t.Errorf("id: got %q, want %q", got.ID, analysis.ID)
	}
}

func TestHandleGetAnalysis_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/nope", nil), "id", "nope")
	w := httptest.NewRecorder()
	srv.handleGetAnalysis(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}

func TestHandleDeleteAnalysis(t *testing.T) {
	srv, _ := testServer(t)
	analysis := analyzeFixture(t, srv, "jane.docx", "Go engineer")

	r := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/analyses/"+analysis.ID, nil), "id", analysis.ID)
	w := httptest.NewRecorder()
	srv.handleDeleteAnalysis(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}

	r = withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysis.ID, nil), "id", analysis.ID)
	w = httptest.NewRecorder()
	srv.handleGetAnalysis(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", w.Code)
	}
}

func TestHandleDeleteAnalysis_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	r := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/analyses/nope", nil), "id", "nope")
	w := httptest.NewRecorder()
	srv.handleDeleteAnalysis(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}

func TestHandleListAnalyses(t *testing.T) {
	srv, _ := testServer(t)
	analyzeFixture(t, srv, "jane.docx", "Go engineer")
	analyzeFixture(t, srv, "john.docx", "Go engineer")

	r := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	w := httptest.NewRecorder()
	srv.handleListAnalyses(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		Analyses []models.Analysis `json:"analyses"`
		Total    int64             `json:"total"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Total != 2 || len(out.Analyses) != 2 {
		t.Errorf("total %d with %d analyses, want 2 and 2", out.Total, len(out.Analyses))
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=1", nil)
	w = httptest.NewRecorder()
	srv.handleListAnalyses(w, r)
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Total != 2 || len(out.Analyses) != 1 {
		t.Errorf("paged: total %d with %d analyses, want 2 and 1", out.Total, len(out.Analyses))
	}
}

func TestHandleSearch(t *testing.T) {
	srv, _ := testServer(t)
	analysis := analyzeFixture(t, srv, "jane.docx", "Go engineer")

	r := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=kubernetes", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		Query   string `json:"query"`
		Total   int    `json:"total"`
		Results []struct {
			Analysis models.Analysis `json:"analysis"`
			Score    float64         `json:"score"`
		} `json:"results"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Total != 1 || len(out.Results) != 1 {
		t.Fatalf("total %d with %d results, want 1 and 1", out.Total, len(out.Results))
	}
	if out.Results[0].Analysis.ID != analysis.ID {
		t.Errorf("result id: got %q, want %q", out.Results[0].Analysis.ID, analysis.ID)
	}
	if out.Results[0].Score <= 0 {
		t.Errorf("result score: got %f, want > 0", out.Results[0].Score)
	}
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	srv, _ := testServer(t)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleSearch_SkipsDeletedAnalyses(t *testing.T) {
	srv, store := testServer(t)
	analysis := analyzeFixture(t, srv, "jane.docx", "Go engineer")

	// Delete from storage only, leaving the index entry behind.
	if err := store.DeleteAnalysis(context.Background(), analysis.ID); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=kubernetes", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Total != 0 {
		t.Errorf("total: got %d, want 0", out.Total)
	}
}

func TestHandleClearCache(t *testing.T) {
	srv, _ := testServer(t)
	first := analyzeFixture(t, srv, "jane.docx", "Go engineer")
	if first.Cached {
		t.Error("first analysis should not be cached")
	}
	second := analyzeFixture(t, srv, "jane.docx", "Go engineer")
	if !second.Cached {
		t.Error("identical re-analysis should be served from cache")
	}

	r := httptest.NewRequest(http.MethodDelete, "/api/v1/cache", nil)
	w := httptest.NewRecorder()
	srv.handleClearCache(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		Cleared int64 `json:"cleared"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Cleared != 1 {
		t.Errorf("cleared: got %d, want 1", out.Cleared)
	}

	third := analyzeFixture(t, srv, "jane.docx", "Go engineer")
	if third.Cached {
		t.Error("analysis after cache clear should not be cached")
	}
}

func TestHandleExportAnalyses(t *testing.T) {
	srv, _ := testServer(t)
	analyzeFixture(t, srv, "jane.docx", "Go engineer")

	r := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/export", nil)
	w := httptest.NewRecorder()
	srv.handleExportAnalyses(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content type: got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("content disposition: got %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a valid workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Analyses")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("rows: got %d, want header plus one analysis", len(rows))
	}
}

func TestHandleStatus(t *testing.T) {
	srv, _ := testServer(t)
	analyzeFixture(t, srv, "jane.docx", "Go engineer")

	r := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	srv.handleStatus(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		Analyses       int64  `json:"analyses"`
		IndexedResumes uint64 `json:"indexed_resumes"`
		ScoringModel   string `json:"scoring_model"`
		Version        string `json:"version"`
		DiskUsageBytes *int64 `json:"disk_usage_bytes"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Analyses != 1 {
		t.Errorf("analyses: got %d, want 1", out.Analyses)
	}
	if out.IndexedResumes != 1 {
		t.Errorf("indexed_resumes: got %d, want 1", out.IndexedResumes)
	}
	if out.ScoringModel != "mock" {
		t.Errorf("scoring_model: got %q", out.ScoringModel)
	}
	if out.Version != "test" {
		t.Errorf("version: got %q", out.Version)
	}
	if out.DiskUsageBytes == nil || *out.DiskUsageBytes < 1 {
		t.Errorf("disk_usage_bytes: got %v, want >= 1", out.DiskUsageBytes)
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := testServer(t)
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["status"] != "ok" {
		t.Errorf("body: got %v", out)
	}
}
