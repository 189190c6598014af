package search

import (
	"context"

	"github.com/google/uuid"

	domcat "github.com/kailas-cloud/listdex/internal/domain/category"
	"github.com/kailas-cloud/listdex/internal/domain/geo"
	"github.com/kailas-cloud/listdex/internal/domain/listing"
	domquery "github.com/kailas-cloud/listdex/internal/domain/search/query"
	"github.com/kailas-cloud/listdex/internal/domain/search/result"
)

// Catalog reads listing candidate sets from persistence. A non-positive
// limit means the full set.
type Catalog interface {
	ByRecency(ctx context.Context, limit int) ([]listing.Listing, error)
	ByCategory(ctx context.Context, categoryID string, limit int) ([]listing.Listing, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]listing.Listing, error)
}

// TextIndex narrows the candidate set by lexical match, optionally within a
// category.
type TextIndex interface {
	Search(ctx context.Context, q domquery.Query, categoryID string) ([]result.Hit, error)
}

// DistanceRanker orders listings by proximity to a point.
type DistanceRanker interface {
	ByDistance(ctx context.Context, listings []listing.Listing, point geo.Coordinate) ([]listing.Listing, error)
}

// CategoryReader checks category existence.
type CategoryReader interface {
	Lookup(id string) (domcat.Category, error)
}
