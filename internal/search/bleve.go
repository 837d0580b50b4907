package search

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// BleveIndex implements CandidateIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index
// is opened and reused so analyses indexed by earlier runs stay searchable.
// If the mapping changes in code, remove the index directory to force a
// full re-index.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so skill queries
	// like "go" match the exact word instead of a stem.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	docMapping.AddFieldMappingsAt("filename", textFieldMapping)
	docMapping.AddFieldMappingsAt("skills", textFieldMapping)
	im.AddDocumentMapping("resume", docMapping)
	im.DefaultType = "resume"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes one analyzed resume by analysis ID.
func (b *BleveIndex) Index(ctx context.Context, id string, doc *Document) error {
	return b.index.Index(id, doc)
}

// Search runs a match query across all fields and returns up to limit hits.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) ([]*Hit, error) {
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*Hit, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &Hit{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// Delete removes an analysis from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// DocCount returns the total number of indexed resumes.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
