// Package storage provides the SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		format TEXT NOT NULL,
		job_description TEXT,
		resume_json TEXT NOT NULL,
		keywords_json TEXT,
		anchors_json TEXT,
		warnings_json TEXT,
		score_json TEXT,
		cached INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
	CREATE INDEX IF NOT EXISTS idx_analyses_filename ON analyses(filename);

	CREATE TABLE IF NOT EXISTS score_cache (
		cache_key TEXT PRIMARY KEY,
		score_json TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveAnalysis inserts an analysis.
func (s *SQLiteStorage) SaveAnalysis(ctx context.Context, analysis *models.Analysis) error {
	resumeJSON, err := json.Marshal(analysis.Resume)
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}
	anchorsJSON, err := json.Marshal(analysis.Anchors)
	if err != nil {
		return fmt.Errorf("failed to marshal anchors: %w", err)
	}
	warningsJSON, err := json.Marshal(analysis.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	var keywordsJSON sql.NullString
	if analysis.Keywords != nil {
		data, err := json.Marshal(analysis.Keywords)
		if err != nil {
			return fmt.Errorf("failed to marshal keywords: %w", err)
		}
		keywordsJSON = sql.NullString{String: string(data), Valid: true}
	}
	var scoreJSON sql.NullString
	if analysis.Score != nil {
		data, err := json.Marshal(analysis.Score)
		if err != nil {
			return fmt.Errorf("failed to marshal score: %w", err)
		}
		scoreJSON = sql.NullString{String: string(data), Valid: true}
	}

	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, filename, file_size, format, job_description,
		 resume_json, keywords_json, anchors_json, warnings_json, score_json, cached, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysis.ID, analysis.Filename, analysis.FileSize, string(analysis.Resume.Format),
		analysis.JobDescription, string(resumeJSON), keywordsJSON, string(anchorsJSON),
		string(warningsJSON), scoreJSON, analysis.Cached, analysis.CreatedAt,
	)
	return err
}

// GetAnalysis returns an analysis by ID.
func (s *SQLiteStorage) GetAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, file_size, job_description, resume_json, keywords_json,
		 anchors_json, warnings_json, score_json, cached, created_at
		 FROM analyses WHERE id = ?`, id,
	)
	analysis, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return analysis, nil
}

// ListAnalyses returns analyses with offset and limit, newest first.
func (s *SQLiteStorage) ListAnalyses(ctx context.Context, offset, limit int) ([]*models.Analysis, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, file_size, job_description, resume_json, keywords_json,
		 anchors_json, warnings_json, score_json, cached, created_at
		 FROM analyses ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*models.Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}
	return analyses, rows.Err()
}

// DeleteAnalysis removes an analysis by ID.
func (s *SQLiteStorage) DeleteAnalysis(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// CountAnalyses returns the total number of stored analyses.
func (s *SQLiteStorage) CountAnalyses(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&count)
	return count, err
}

// GetCachedScore returns the cached score for key if present.
func (s *SQLiteStorage) GetCachedScore(ctx context.Context, key string) (*models.ScoreReport, bool, error) {
	var scoreJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT score_json FROM score_cache WHERE cache_key = ?`, key,
	).Scan(&scoreJSON)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var report models.ScoreReport
	if err := json.Unmarshal([]byte(scoreJSON), &report); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached score: %w", err)
	}
	return &report, true, nil
}

// PutCachedScore stores the score for key, replacing any existing entry.
func (s *SQLiteStorage) PutCachedScore(ctx context.Context, key string, report *models.ScoreReport) error {
	scoreJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO score_cache (cache_key, score_json, created_at) VALUES (?, ?, ?)`,
		key, string(scoreJSON), time.Now(),
	)
	return err
}

// ClearScoreCache removes all cached scores and returns the number cleared.
func (s *SQLiteStorage) ClearScoreCache(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM score_cache`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(row scanner) (*models.Analysis, error) {
	var analysis models.Analysis
	var resumeJSON, anchorsJSON string
	var keywordsJSON, warningsJSON, scoreJSON sql.NullString

	err := row.Scan(&analysis.ID, &analysis.Filename, &analysis.FileSize,
		&analysis.JobDescription, &resumeJSON, &keywordsJSON, &anchorsJSON,
		&warningsJSON, &scoreJSON, &analysis.Cached, &analysis.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(resumeJSON), &analysis.Resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume: %w", err)
	}
	if err := json.Unmarshal([]byte(anchorsJSON), &analysis.Anchors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal anchors: %w", err)
	}
	if keywordsJSON.Valid && keywordsJSON.String != "" {
		if err := json.Unmarshal([]byte(keywordsJSON.String), &analysis.Keywords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
		}
	}
	if warningsJSON.Valid && warningsJSON.String != "" {
		if err := json.Unmarshal([]byte(warningsJSON.String), &analysis.Warnings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
		}
	}
	if scoreJSON.Valid && scoreJSON.String != "" {
		if err := json.Unmarshal([]byte(scoreJSON.String), &analysis.Score); err != nil {
			return nil, fmt.Errorf("failed to unmarshal score: %w", err)
		}
	}
	return &analysis, nil
}
