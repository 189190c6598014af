package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listdex/internal/domain"
	domcat "github.com/kailas-cloud/listdex/internal/domain/category"
	"github.com/kailas-cloud/listdex/internal/domain/geo"
	"github.com/kailas-cloud/listdex/internal/domain/listing"
	domquery "github.com/kailas-cloud/listdex/internal/domain/search/query"
	"github.com/kailas-cloud/listdex/internal/domain/search/result"
	"github.com/kailas-cloud/listdex/internal/usecase/ranking"
)

var errInfra = errors.New("infrastructure down")

// mockCatalog serves candidate sets from an in-memory slice, applying the
// same ordering contract as the real store.
type mockCatalog struct {
	listings []listing.Listing
	err      error
}

func (m *mockCatalog) ordered() []listing.Listing {
	out := make([]listing.Listing, len(m.listings))
	copy(out, m.listings)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().After(b.CreatedAt())
		}
		return a.ID().String() > b.ID().String()
	})
	return out
}

func (m *mockCatalog) ByRecency(_ context.Context, limit int) ([]listing.Listing, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := m.ordered()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockCatalog) ByCategory(_ context.Context, categoryID string, limit int) ([]listing.Listing, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []listing.Listing
	for _, l := range m.ordered() {
		if l.CategoryID() == categoryID {
			out = append(out, l)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockCatalog) GetMany(_ context.Context, ids []uuid.UUID) ([]listing.Listing, error) {
	if m.err != nil {
		return nil, m.err
	}
	byID := make(map[uuid.UUID]listing.Listing, len(m.listings))
	for _, l := range m.listings {
		byID[l.ID()] = l
	}
	out := make([]listing.Listing, 0, len(ids))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// mockIndex returns canned hits and records what it was asked.
type mockIndex struct {
	hits        []result.Hit
	err         error
	gotQuery    string
	gotCategory string
	calls       int
}

func (m *mockIndex) Search(_ context.Context, q domquery.Query, categoryID string) ([]result.Hit, error) {
	m.calls++
	m.gotQuery = q.String()
	m.gotCategory = categoryID
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

// mockRanker delegates to the real distance ranker unless primed to fail.
type mockRanker struct {
	err error
}

func (m *mockRanker) ByDistance(
	ctx context.Context, listings []listing.Listing, point geo.Coordinate,
) ([]listing.Listing, error) {
	if m.err != nil {
		return nil, m.err
	}
	return ranking.New().ByDistance(ctx, listings, point)
}

// mockCategories accepts a fixed id set.
type mockCategories struct {
	known map[string]bool
}

func (m *mockCategories) Lookup(id string) (domcat.Category, error) {
	if !m.known[id] {
		return domcat.Category{}, fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, id)
	}
	return domcat.New(id, id)
}

type fixture struct {
	catalog    *mockCatalog
	index      *mockIndex
	ranker     *mockRanker
	categories *mockCategories
	svc        *Service
}

func newFixture(t *testing.T, listings []listing.Listing) *fixture {
	t.Helper()
	f := &fixture{
		catalog:    &mockCatalog{listings: listings},
		index:      &mockIndex{},
		ranker:     &mockRanker{},
		categories: &mockCategories{known: map[string]bool{"cycling": true, "tennis": true}},
	}
	f.svc = New(f.catalog, f.index, f.ranker, f.categories,
		Limits{Default: 50, Max: 100}, zap.NewNop())
	return f
}

func mustCoord(t *testing.T, lat, lon float64) *geo.Coordinate {
	t.Helper()
	c, err := geo.New(lat, lon)
	if err != nil {
		t.Fatalf("geo.New(%f, %f): %v", lat, lon, err)
	}
	return &c
}

func makeListing(
	t *testing.T, title, categoryID string, createdAt time.Time, coord *geo.Coordinate,
) listing.Listing {
	t.Helper()
	country := ""
	if coord != nil {
		country = "ES"
	}
	return listing.Reconstruct(
		uuid.New(), uuid.New(), title, "", 1500, categoryID,
		coord, "", "", country, createdAt, nil,
	)
}

func hitsFor(listings ...listing.Listing) []result.Hit {
	hits := make([]result.Hit, len(listings))
	for i, l := range listings {
		hits[i] = result.NewHit(l.ID(), 1.0/float64(i+1))
	}
	return hits
}

func assertOrder(t *testing.T, got []uuid.UUID, want ...listing.Listing) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d ids, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i] != w.ID() {
			t.Errorf("position %d: got %s, want %s (%s)", i, got[i], w.ID(), w.Title())
		}
	}
}

func strptr(s string) *string { return &s }
