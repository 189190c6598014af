// Package search orchestrates listing search: it validates the query, picks
// a ranking strategy, narrows the candidate set, orders it, and truncates.
package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listdex/internal/domain/geo"
	"github.com/kailas-cloud/listdex/internal/domain/listing"
	domquery "github.com/kailas-cloud/listdex/internal/domain/search/query"
	"github.com/kailas-cloud/listdex/internal/domain/search/strategy"
	"github.com/kailas-cloud/listdex/internal/metrics"
)

// Params carries one search request. A nil Query means no text search; a nil
// Point means the requester has no usable location. CategoryID is empty when
// no category filter applies. Limit <= 0 falls back to the default page size.
type Params struct {
	Query      *string
	CategoryID string
	Point      *geo.Coordinate
	Limit      int
}

// Limits is the page-size policy. Default applies when a request carries no
// limit; Max caps every request.
type Limits struct {
	Default int
	Max     int
}

// Service is the search orchestrator.
type Service struct {
	catalog    Catalog
	index      TextIndex
	ranker     DistanceRanker
	categories CategoryReader
	limits     Limits
	logger     *zap.Logger
}

// New creates a search service.
func New(
	catalog Catalog, index TextIndex, ranker DistanceRanker,
	categories CategoryReader, limits Limits, logger *zap.Logger,
) *Service {
	return &Service{
		catalog:    catalog,
		index:      index,
		ranker:     ranker,
		categories: categories,
		limits:     limits,
		logger:     logger,
	}
}

// Search returns listing identifiers ordered by the strategy the request
// selects. Only an invalid query or an unknown category reject the request;
// infrastructure failures degrade to recency ordering and a total failure
// yields an empty result.
func (s *Service) Search(ctx context.Context, p Params) ([]uuid.UUID, error) {
	if p.CategoryID != "" {
		if _, err := s.categories.Lookup(p.CategoryID); err != nil {
			return nil, fmt.Errorf("lookup category: %w", err)
		}
	}

	var q domquery.Query
	if p.Query != nil {
		parsed, err := domquery.New(*p.Query)
		if err != nil {
			metrics.SearchRejectedTotal.Inc()
			return nil, err
		}
		q = parsed
	}

	limit := s.clampLimit(p.Limit)
	strat := strategy.Select(!q.IsZero(), p.CategoryID, p.Point)
	metrics.SearchesTotal.WithLabelValues(string(strat.Kind())).Inc()

	var listings []listing.Listing
	switch strat.Kind() {
	case strategy.Recency:
		listings = s.byRecency(ctx, strat.CategoryID(), limit)
	case strategy.Distance:
		listings = s.byDistance(ctx, strat)
	case strategy.Relevance:
		listings = s.byRelevance(ctx, q, strat.CategoryID(), limit)
	case strategy.RelevanceDistance:
		listings = s.byRelevanceDistance(ctx, q, strat)
	}

	if len(listings) > limit {
		listings = listings[:limit]
	}
	return identifiers(listings), nil
}

// byRecency orders the filtered candidate set by descending creation time.
// The catalog already returns that order.
func (s *Service) byRecency(ctx context.Context, categoryID string, limit int) []listing.Listing {
	var (
		listings []listing.Listing
		err      error
	)
	if categoryID != "" {
		listings, err = s.catalog.ByCategory(ctx, categoryID, limit)
	} else {
		listings, err = s.catalog.ByRecency(ctx, limit)
	}
	if err != nil {
		s.degraded("catalog", err)
		return nil
	}
	return listings
}

// byDistance orders the full filtered candidate set by proximity; a ranker
// failure keeps the catalog's recency order.
func (s *Service) byDistance(ctx context.Context, strat strategy.Strategy) []listing.Listing {
	candidates := s.byRecency(ctx, strat.CategoryID(), 0)
	if len(candidates) == 0 {
		return nil
	}
	ranked, err := s.ranker.ByDistance(ctx, candidates, *strat.Point())
	if err != nil {
		s.degraded("ranker", err)
		return candidates
	}
	return ranked
}

// byRelevance narrows by text match through the index, then orders the
// matches by recency. Match scores never decide order when the requester has
// no location.
func (s *Service) byRelevance(
	ctx context.Context, q domquery.Query, categoryID string, limit int,
) []listing.Listing {
	matches, ok := s.matchListings(ctx, q, categoryID)
	if !ok {
		return s.byRecency(ctx, categoryID, limit)
	}
	orderByRecency(matches)
	return matches
}

// byRelevanceDistance narrows by text match, then orders the matches by
// proximity. An index failure degrades to the recency feed; a ranker failure
// keeps the text matches in recency order.
func (s *Service) byRelevanceDistance(
	ctx context.Context, q domquery.Query, strat strategy.Strategy,
) []listing.Listing {
	matches, ok := s.matchListings(ctx, q, strat.CategoryID())
	if !ok {
		return s.byRecency(ctx, strat.CategoryID(), 0)
	}
	if len(matches) == 0 {
		return nil
	}
	ranked, err := s.ranker.ByDistance(ctx, matches, *strat.Point())
	if err != nil {
		s.degraded("ranker", err)
		orderByRecency(matches)
		return matches
	}
	return ranked
}

// matchListings runs the text index and hydrates the matches. ok is false
// when the index failed and the caller should degrade; an empty match set is
// a valid result, not a degrade.
func (s *Service) matchListings(
	ctx context.Context, q domquery.Query, categoryID string,
) ([]listing.Listing, bool) {
	hits, err := s.index.Search(ctx, q, categoryID)
	if err != nil {
		s.degraded("index", err)
		return nil, false
	}

	seen := make(map[uuid.UUID]struct{}, len(hits))
	ids := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		if _, dup := seen[h.ID()]; dup {
			continue
		}
		seen[h.ID()] = struct{}{}
		ids = append(ids, h.ID())
	}

	listings, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		s.degraded("catalog", err)
		return nil, true
	}
	return listings, true
}

func (s *Service) degraded(cause string, err error) {
	metrics.SearchDegradedTotal.WithLabelValues(cause).Inc()
	s.logger.Warn("Search degraded",
		zap.String("cause", cause),
		zap.Error(err),
	)
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.limits.Default
	}
	if s.limits.Max > 0 && limit > s.limits.Max {
		limit = s.limits.Max
	}
	return limit
}

// orderByRecency sorts in place by descending creation time, ties by
// descending identifier.
func orderByRecency(listings []listing.Listing) {
	sort.Slice(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().After(b.CreatedAt())
		}
		return a.ID().String() > b.ID().String()
	})
}

func identifiers(listings []listing.Listing) []uuid.UUID {
	ids := make([]uuid.UUID, len(listings))
	for i, l := range listings {
		ids[i] = l.ID()
	}
	return ids
}
