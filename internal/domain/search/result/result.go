// Package result holds the text index hit type.
package result

import "github.com/google/uuid"

// Hit is a single text index match. The score is opaque and comparable only
// within one query's hits; final ordering is imposed by the orchestrator.
type Hit struct {
	id    uuid.UUID
	score float64
}

// NewHit creates a hit.
func NewHit(id uuid.UUID, score float64) Hit {
	return Hit{id: id, score: score}
}

// ID returns the matched listing identifier.
func (h Hit) ID() uuid.UUID { return h.id }

// Score returns the relevance score.
func (h Hit) Score() float64 { return h.score }
