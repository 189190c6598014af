// Package textindex maintains the full-text index over listing titles and
// descriptions. Matching is lexeme-based (English analyzer with stemming) so
// word order and basic inflection variants match; category is indexed as a
// keyword field so category∧text intersection happens inside the index.
package textindex

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"

	"github.com/kailas-cloud/listdex/internal/domain"
	"github.com/kailas-cloud/listdex/internal/domain/listing"
	domquery "github.com/kailas-cloud/listdex/internal/domain/search/query"
	"github.com/kailas-cloud/listdex/internal/domain/search/result"
)

// Indexed field names.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldCategory    = "category"
)

// maxCandidates bounds the candidate set handed to the orchestrator. The
// orchestrator orders before truncating to the page size, so this only has
// to be comfortably larger than any page.
const maxCandidates = 1000

// titleBoost weights title matches over description matches.
const titleBoost = 2.0

// Index is a bleve-backed text index of the listing catalog.
type Index struct {
	idx bleve.Index
}

// New opens or creates an index at path. An empty path builds an in-memory
// index (used by tests and single-node setups that reindex at boot).
func New(path string) (*Index, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &Index{idx: idx}, nil
	}

	idx, err := bleve.Open(path)
	if err == nil {
		return &Index{idx: idx}, nil
	}

	idx, err = bleve.New(path, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index at %s: %w", path, err)
	}
	return &Index{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	docMapping.AddFieldMappingsAt(fieldTitle, titleField)

	descField := bleve.NewTextFieldMapping()
	descField.Analyzer = en.AnalyzerName
	docMapping.AddFieldMappingsAt(fieldDescription, descField)

	categoryField := bleve.NewTextFieldMapping()
	categoryField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(fieldCategory, categoryField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = en.AnalyzerName
	return indexMapping
}

// Index adds or replaces a listing in the index.
func (i *Index) Index(_ context.Context, l listing.Listing) error {
	doc := map[string]any{
		fieldTitle:       l.Title(),
		fieldDescription: l.Description(),
		fieldCategory:    l.CategoryID(),
	}
	if err := i.idx.Index(l.ID().String(), doc); err != nil {
		return fmt.Errorf("index listing %s: %w", l.ID(), err)
	}
	return nil
}

// Remove deletes a listing from the index. Removing an unknown ID is a no-op.
func (i *Index) Remove(_ context.Context, id uuid.UUID) error {
	if err := i.idx.Delete(id.String()); err != nil {
		return fmt.Errorf("remove listing %s: %w", id, err)
	}
	return nil
}

// Search returns the candidate set matching the validated query, optionally
// narrowed to one category. Hits carry opaque scores; ordering is not final.
// Failures wrap domain.ErrIndexUnavailable so the caller can degrade.
func (i *Index) Search(
	ctx context.Context, q domquery.Query, categoryID string,
) ([]result.Hit, error) {
	req := bleve.NewSearchRequestOptions(buildQuery(q, categoryID), maxCandidates, 0, false)

	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	hits := make([]result.Hit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed hit id %q", domain.ErrIndexUnavailable, hit.ID)
		}
		hits = append(hits, result.NewHit(id, hit.Score))
	}
	return hits, nil
}

func buildQuery(q domquery.Query, categoryID string) query.Query {
	titleQuery := bleve.NewMatchQuery(q.String())
	titleQuery.SetField(fieldTitle)
	titleQuery.SetBoost(titleBoost)

	descQuery := bleve.NewMatchQuery(q.String())
	descQuery.SetField(fieldDescription)

	textQuery := bleve.NewDisjunctionQuery(titleQuery, descQuery)

	if categoryID == "" {
		return textQuery
	}

	categoryQuery := bleve.NewTermQuery(categoryID)
	categoryQuery.SetField(fieldCategory)
	return bleve.NewConjunctionQuery(textQuery, categoryQuery)
}

// DocCount returns the number of indexed listings.
func (i *Index) DocCount() (uint64, error) {
	n, err := i.idx.DocCount()
	if err != nil {
		return 0, fmt.Errorf("doc count: %w", err)
	}
	return n, nil
}

// Close releases the underlying index.
func (i *Index) Close() error {
	if err := i.idx.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}
