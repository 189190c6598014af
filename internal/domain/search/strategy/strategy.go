// Package strategy models the per-request ranking strategy as a tagged
// variant chosen once and executed by a single dispatcher, instead of an
// incrementally assembled query.
package strategy

import "github.com/kailas-cloud/listdex/internal/domain/geo"

// Kind is the ranking strategy discriminant.
type Kind string

// Ranking strategy kinds. Exactly one applies per request; ordering keys are
// never blended into one scalar.
const (
	// Recency orders the candidate set by descending creation time.
	Recency Kind = "recency"
	// Distance orders the candidate set by ascending distance from the
	// requester's coordinate.
	Distance Kind = "distance"
	// Relevance narrows the candidate set by text match, then orders the
	// matches by recency (product behavior: without a location the match
	// score never decides order).
	Relevance Kind = "relevance"
	// RelevanceDistance narrows the candidate set by text match, then
	// orders the matches by distance from the requester's coordinate.
	RelevanceDistance Kind = "relevance_distance"
)

// Strategy is the chosen ranking strategy with its payload. A category
// identifier, when present, narrows the candidate set regardless of kind.
type Strategy struct {
	kind       Kind
	point      *geo.Coordinate
	categoryID string
}

// Select applies the decision table: text match when a query is present,
// distance ordering when the requester has a coordinate, recency otherwise.
func Select(hasQuery bool, categoryID string, point *geo.Coordinate) Strategy {
	switch {
	case hasQuery && point != nil:
		return Strategy{kind: RelevanceDistance, point: point, categoryID: categoryID}
	case hasQuery:
		return Strategy{kind: Relevance, categoryID: categoryID}
	case categoryID != "" && point != nil:
		return Strategy{kind: Distance, point: point, categoryID: categoryID}
	default:
		return Strategy{kind: Recency, categoryID: categoryID}
	}
}

// Kind returns the strategy discriminant.
func (s Strategy) Kind() Kind { return s.kind }

// Point returns the requester's coordinate for distance-ordered kinds,
// nil otherwise.
func (s Strategy) Point() *geo.Coordinate { return s.point }

// CategoryID returns the category filter, empty when none applies.
func (s Strategy) CategoryID() string { return s.categoryID }
