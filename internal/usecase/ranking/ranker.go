// Package ranking orders listings by geographic proximity.
package ranking

import (
	"context"
	"sort"

	"github.com/kailas-cloud/listdex/internal/domain/geo"
	"github.com/kailas-cloud/listdex/internal/domain/listing"
)

// Ranker orders listings by ascending great-circle distance from a reference
// point. It is a pure in-memory ranker; the error return exists for the
// contract so alternative implementations (a database distance operator) can
// fail and let the orchestrator degrade.
type Ranker struct{}

// New creates a distance ranker.
func New() *Ranker {
	return &Ranker{}
}

// ByDistance returns the listings that carry a coordinate, ordered by
// ascending Haversine distance from point. Listings without a coordinate are
// excluded rather than given an arbitrary distance. Equal distances fall back
// to descending identifier, matching the recency tiebreak convention.
func (r *Ranker) ByDistance(
	_ context.Context, listings []listing.Listing, point geo.Coordinate,
) ([]listing.Listing, error) {
	type ranked struct {
		l listing.Listing
		d float64
	}

	candidates := make([]ranked, 0, len(listings))
	for _, l := range listings {
		c := l.Coordinate()
		if c == nil {
			continue
		}
		candidates = append(candidates, ranked{l: l, d: geo.Haversine(point, *c)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].d != candidates[j].d {
			return candidates[i].d < candidates[j].d
		}
		return candidates[i].l.ID().String() > candidates[j].l.ID().String()
	})

	ordered := make([]listing.Listing, len(candidates))
	for i, c := range candidates {
		ordered[i] = c.l
	}
	return ordered, nil
}
