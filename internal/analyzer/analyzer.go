// Package analyzer orchestrates the resume pipeline: extraction,
// normalization, segmentation, keyword matching, scoring, and persistence.
package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shameer29/GetLandedATS--sub001/internal/cachekey"
	"github.com/Shameer29/GetLandedATS--sub001/internal/extract"
	"github.com/Shameer29/GetLandedATS--sub001/internal/match"
	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
	"github.com/Shameer29/GetLandedATS--sub001/internal/scoring"
	"github.com/Shameer29/GetLandedATS--sub001/internal/search"
	"github.com/Shameer29/GetLandedATS--sub001/internal/storage"
	"github.com/Shameer29/GetLandedATS--sub001/internal/textproc"
)

// Analyzer runs resumes through the deterministic pipeline and, when a
// scorer is configured, evaluates them against job descriptions.
type Analyzer struct {
	storage     storage.Storage
	index       search.CandidateIndex
	scorer      scoring.Scorer
	extractor   *extract.Extractor
	maxFileSize int64
	logger      *zap.Logger // optional; when set, logs debug events
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets a logger for debug output and non-fatal warnings.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithMaxFileSize overrides the payload size bound. Zero or negative
// disables the check.
func WithMaxFileSize(n int64) Option {
	return func(a *Analyzer) { a.maxFileSize = n }
}

// NewAnalyzer creates an analyzer with the given dependencies. Any of
// store, index, and scorer may be nil: a nil store skips persistence and
// score caching, a nil index skips candidate indexing, and a nil scorer
// leaves analyses unscored.
func NewAnalyzer(store storage.Storage, index search.CandidateIndex, scorer scoring.Scorer, opts ...Option) *Analyzer {
	a := &Analyzer{
		storage:     store,
		index:       index,
		scorer:      scorer,
		extractor:   extract.Default(),
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ParseResume runs the deterministic pipeline on a raw document: size
// guard, format detection, text extraction, structural scan, normalization,
// header reorder (PDF only), and section segmentation.
func (a *Analyzer) ParseResume(ctx context.Context, raw *models.RawDocument) (*models.ResumeDocument, error) {
	size := int64(len(raw.Content))
	if a.maxFileSize > 0 && size > a.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrDocumentTooLarge, size, a.maxFileSize)
	}

	format := extract.Detect(raw.Filename)
	text, err := a.extractor.ExtractText(raw.Content, format)
	if err != nil {
		return nil, err
	}

	// The structural scan is advisory: a malformed archive part must not
	// fail a document whose text already extracted.
	meta, err := a.extractor.ScanStructure(raw.Content, format)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("structural scan failed",
				zap.String("filename", raw.Filename), zap.Error(err))
		}
		meta = models.ExtractionMetadata{}
	}

	normalized, err := textproc.Normalize(text)
	if err != nil {
		return nil, err
	}
	if format == models.FormatPDF {
		normalized = textproc.ReorderHeader(normalized)
	}

	return &models.ResumeDocument{
		Filename:  raw.Filename,
		FileSize:  raw.Size,
		Format:    format,
		Text:      normalized,
		Sections:  textproc.Segment(normalized),
		Metadata:  meta,
		CharCount: utf8.RuneCountInString(normalized),
	}, nil
}

// Analyze parses a raw document and evaluates it against a job description.
// The keyword report and score are skipped when jobDescription is empty.
// Scores are cached by content+job so re-uploads never pay for a second
// LLM call.
func (a *Analyzer) Analyze(ctx context.Context, raw *models.RawDocument, jobDescription string) (*models.Analysis, error) {
	resume, err := a.ParseResume(ctx, raw)
	if err != nil {
		return nil, err
	}

	analysis := &models.Analysis{
		ID:             uuid.New().String(),
		Filename:       raw.Filename,
		FileSize:       int64(len(raw.Content)),
		JobDescription: jobDescription,
		Resume:         resume,
		Anchors:        match.Anchors(resume.Text),
	}
	analysis.Warnings = match.Warnings(resume.Metadata, analysis.Anchors)

	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription != "" {
		analysis.Keywords = match.Match(resume.Text, match.Keywords(jobDescription))
	}

	if a.scorer != nil && jobDescription != "" {
		if err := a.scoreAnalysis(ctx, raw, resume, jobDescription, analysis); err != nil {
			return nil, err
		}
	}

	if a.storage != nil {
		if err := a.storage.SaveAnalysis(ctx, analysis); err != nil {
			return nil, fmt.Errorf("failed to store analysis: %w", err)
		}
	}
	if a.index != nil {
		doc := &search.Document{Filename: resume.Filename, Text: resume.Text}
		if skills, ok := resume.Section(models.SectionSkills); ok {
			doc.Skills = skills
		}
		if err := a.index.Index(ctx, analysis.ID, doc); err != nil {
			return nil, fmt.Errorf("failed to index resume: %w", err)
		}
	}

	if a.logger != nil {
		a.logger.Debug("analysis complete",
			zap.String("id", analysis.ID),
			zap.String("filename", analysis.Filename),
			zap.Bool("scored", analysis.Score != nil),
			zap.Bool("cached", analysis.Cached))
	}
	return analysis, nil
}

// scoreAnalysis fills analysis.Score from the cache or the scorer.
func (a *Analyzer) scoreAnalysis(ctx context.Context, raw *models.RawDocument, resume *models.ResumeDocument, jobDescription string, analysis *models.Analysis) error {
	key := cachekey.Key(raw.Content, jobDescription)
	if a.storage != nil {
		report, ok, err := a.storage.GetCachedScore(ctx, key)
		if err != nil {
			if a.logger != nil {
				a.logger.Warn("score cache lookup failed", zap.Error(err))
			}
		} else if ok {
			analysis.Score = report
			analysis.Cached = true
			return nil
		}
	}

	report, err := a.scorer.Score(ctx, resume, jobDescription)
	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	analysis.Score = report
	if a.storage != nil {
		if err := a.storage.PutCachedScore(ctx, key, report); err != nil && a.logger != nil {
			a.logger.Warn("score cache write failed", zap.Error(err))
		}
	}
	return nil
}

// readResumeFile validates path and loads it as a raw document. Only .pdf
// and .docx files are accepted; anything else is rejected before reading.
func (a *Analyzer) readResumeFile(path string) (*models.RawDocument, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if ext != ".pdf" && ext != ".docx" {
		return nil, fmt.Errorf("%w: %s", extract.ErrUnsupportedFormat, ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}
	if a.maxFileSize > 0 && info.Size() > a.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrDocumentTooLarge, info.Size(), a.maxFileSize)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return &models.RawDocument{
		Filename: filepath.Base(absPath),
		Size:     info.Size(),
		Content:  content,
	}, nil
}

// AnalyzeFile reads a resume from path and analyzes it.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path, jobDescription string) (*models.Analysis, error) {
	raw, err := a.readResumeFile(path)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, raw, jobDescription)
}

// ParseFile reads a resume from path and runs the pipeline on it without
// storing, indexing, or scoring anything.
func (a *Analyzer) ParseFile(ctx context.Context, path string) (*models.ResumeDocument, error) {
	raw, err := a.readResumeFile(path)
	if err != nil {
		return nil, err
	}
	return a.ParseResume(ctx, raw)
}

// Delete removes an analysis from the candidate index and storage.
func (a *Analyzer) Delete(ctx context.Context, id string) error {
	if a.index != nil {
		if err := a.index.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete from index: %w", err)
		}
	}
	if a.storage != nil {
		if err := a.storage.DeleteAnalysis(ctx, id); err != nil {
			return err
		}
	}
	if a.logger != nil {
		a.logger.Debug("analysis deleted", zap.String("id", id))
	}
	return nil
}
