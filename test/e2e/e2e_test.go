package e2e

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Shameer29/GetLandedATS--sub001/internal/analyzer"
	"github.com/Shameer29/GetLandedATS--sub001/internal/config"
	"github.com/Shameer29/GetLandedATS--sub001/internal/report"
	"github.com/Shameer29/GetLandedATS--sub001/internal/scoring"
	"github.com/Shameer29/GetLandedATS--sub001/internal/search"
	"github.com/Shameer29/GetLandedATS--sub001/internal/storage"
	"github.com/Shameer29/GetLandedATS--sub001/internal/watcher"
)

const e2eSearchLimit = 30

func TestE2E_ScreenAndSearch(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			DatabasePath:    filepath.Join(dir, "db.sqlite"),
			SearchIndexPath: filepath.Join(dir, "bleve"),
		},
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	idx, err := search.NewBleveIndex(cfg.Storage.SearchIndexPath)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	an := analyzer.NewAnalyzer(store, idx, scoring.NewMockScorer())
	ctx := context.Background()

	corpus := BuildCorpus()
	if corpus.TotalCandidates == 0 {
		t.Fatal("corpus has no candidates")
	}
	if corpus.TotalQueries == 0 {
		t.Fatal("corpus has no search cases")
	}

	slugToID := make(map[string]string, corpus.TotalCandidates)
	for i := range corpus.Candidates {
		cand := &corpus.Candidates[i]
		analysis, err := an.Analyze(ctx, cand.RawDocument(), ScreeningJob)
		if err != nil {
			t.Fatalf("analyze %s: %v", cand.Slug, err)
		}
		if analysis.Score == nil {
			t.Fatalf("candidate %s came back unscored", cand.Slug)
		}
		slugToID[cand.Slug] = analysis.ID
	}

	count, err := store.CountAnalyses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != int64(corpus.TotalCandidates) {
		t.Errorf("CountAnalyses = %d, want %d", count, corpus.TotalCandidates)
	}
	docCount, err := idx.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if docCount != uint64(corpus.TotalCandidates) {
		t.Errorf("DocCount = %d, want %d", docCount, corpus.TotalCandidates)
	}

	t.Logf("screened %d candidates; running %d search cases", corpus.TotalCandidates, corpus.TotalQueries)

	for _, tc := range corpus.SearchCases {
		t.Run(tc.Description, func(t *testing.T) {
			hits, err := idx.Search(ctx, tc.Query, e2eSearchLimit)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			got := hitIDs(hits)
			want := expectedIDs(tc.ExpectedSlugs, slugToID)
			if !containsAny(got, want) {
				t.Errorf("query %q: expected at least one of %v in results, got %d hits (%v)",
					tc.Query, tc.ExpectedSlugs, len(got), got)
			}
		})
	}

	// Re-screening identical content must reuse the cached score but still
	// store a fresh record.
	first := &corpus.Candidates[0]
	again, err := an.Analyze(ctx, first.RawDocument(), ScreeningJob)
	if err != nil {
		t.Fatalf("re-analyze %s: %v", first.Slug, err)
	}
	if !again.Cached {
		t.Error("identical resume and job should hit the score cache")
	}
	if again.ID == slugToID[first.Slug] {
		t.Error("re-screening should store a new analysis record")
	}

	if err := an.Delete(ctx, again.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	count, err = store.CountAnalyses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != int64(corpus.TotalCandidates) {
		t.Errorf("after delete CountAnalyses = %d, want %d", count, corpus.TotalCandidates)
	}
}

// TestE2E_WatchedDirectoryScreening runs the drop-directory flow: resumes
// already in the inbox are screened by SyncExisting, one dropped later
// arrives through fsnotify, and everything screened is searchable and
// exportable.
func TestE2E_WatchedDirectoryScreening(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, "inbox")
	if err := os.MkdirAll(inbox, 0o755); err != nil {
		t.Fatal(err)
	}

	corpus := BuildCorpus()
	const preloaded = 40
	if corpus.TotalCandidates <= preloaded {
		t.Fatalf("corpus has only %d candidates", corpus.TotalCandidates)
	}
	for i := 0; i < preloaded; i++ {
		cand := &corpus.Candidates[i]
		path := filepath.Join(inbox, cand.Slug+".docx")
		if err := os.WriteFile(path, ResumeDOCX(cand.ResumeLines()...), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "db.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	idx, err := search.NewBleveIndex(filepath.Join(dir, "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	an := analyzer.NewAnalyzer(store, idx, scoring.NewMockScorer())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	fileIDs := make(map[string]string)
	w := watcher.NewWatcher([]string{inbox}, func(path string) {
		analysis, err := an.AnalyzeFile(ctx, path, ScreeningJob)
		if err != nil {
			t.Errorf("screen %s: %v", path, err)
			return
		}
		mu.Lock()
		fileIDs[filepath.Base(path)] = analysis.ID
		mu.Unlock()
	}, watcher.WithDebounce(50*time.Millisecond))
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// SyncExisting screens the preloaded inbox synchronously.
	w.SyncExisting()
	count, err := store.CountAnalyses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != preloaded {
		t.Fatalf("after sync CountAnalyses = %d, want %d", count, preloaded)
	}

	// A resume dropped while watching arrives through fsnotify.
	late := &corpus.Candidates[preloaded]
	latePath := filepath.Join(inbox, late.Slug+".docx")
	if err := os.WriteFile(latePath, ResumeDOCX(late.ResumeLines()...), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		_, screened := fileIDs[late.Slug+".docx"]
		mu.Unlock()
		if screened {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the dropped resume to be screened")
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Logf("screened %d resumes from %s; running search cases for the written subset", preloaded+1, inbox)

	var run int
	for _, tc := range corpus.SearchCases {
		want := make([]string, 0, len(tc.ExpectedSlugs))
		mu.Lock()
		for _, slug := range tc.ExpectedSlugs {
			if id, ok := fileIDs[slug+".docx"]; ok {
				want = append(want, id)
			}
		}
		mu.Unlock()
		if len(want) == 0 {
			continue
		}
		run++
		t.Run(tc.Description, func(t *testing.T) {
			hits, err := idx.Search(ctx, tc.Query, e2eSearchLimit)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if !containsAny(hitIDs(hits), want) {
				t.Errorf("query %q: expected at least one of %v in results", tc.Query, tc.ExpectedSlugs)
			}
		})
	}
	if run == 0 {
		t.Fatal("no search cases matched the written resumes")
	}

	// Export everything that was screened and reopen the workbook.
	analyses, err := store.ListAnalyses(ctx, 0, corpus.TotalCandidates+1)
	if err != nil {
		t.Fatal(err)
	}
	exportPath := filepath.Join(dir, "analyses.xlsx")
	if err := report.Save(exportPath, analyses); err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := excelize.OpenFile(exportPath)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Analyses")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != preloaded+2 {
		t.Errorf("workbook has %d rows, want %d (header plus one per analysis)", len(rows), preloaded+2)
	}
}

func hitIDs(hits []*search.Hit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

func expectedIDs(slugs []string, slugToID map[string]string) []string {
	ids := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if id, ok := slugToID[slug]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func containsAny(got []string, expected []string) bool {
	set := make(map[string]bool)
	for _, id := range got {
		set[id] = true
	}
	for _, id := range expected {
		if set[id] {
			return true
		}
	}
	return false
}
