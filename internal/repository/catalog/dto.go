package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/kailas-cloud/listdex/internal/domain/geo"
	"github.com/kailas-cloud/listdex/internal/domain/listing"
)

// jsonListing is the persisted document shape. The coordinate is stored as a
// WKT point ("POINT (lon lat)") so the document stays portable to spatial
// tooling.
type jsonListing struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	CategoryID  string `json:"category_id"`
	Location    string `json:"location,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	CreatedAt   string `json:"created_at"`
	ModifiedAt  string `json:"modified_at,omitempty"`
}

func buildJSONListing(l listing.Listing) (jsonListing, error) {
	doc := jsonListing{
		ID:          l.ID().String(),
		OwnerID:     l.OwnerID().String(),
		Title:       l.Title(),
		Description: l.Description(),
		PriceCents:  l.PriceCents(),
		CategoryID:  l.CategoryID(),
		City:        l.City(),
		State:       l.State(),
		Country:     l.Country(),
		CreatedAt:   l.CreatedAt().Format(time.RFC3339Nano),
	}
	if c := l.Coordinate(); c != nil {
		point, err := wkt.Marshal(geom.NewPointFlat(geom.XY, []float64{c.Lon(), c.Lat()}))
		if err != nil {
			return jsonListing{}, fmt.Errorf("encode location: %w", err)
		}
		doc.Location = point
	}
	if m := l.ModifiedAt(); m != nil {
		doc.ModifiedAt = m.Format(time.RFC3339Nano)
	}
	return doc, nil
}

func (d jsonListing) toDomain() (listing.Listing, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("parse id %q: %w", d.ID, err)
	}
	ownerID, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("parse owner id %q: %w", d.OwnerID, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("parse created_at %q: %w", d.CreatedAt, err)
	}

	var modifiedAt *time.Time
	if d.ModifiedAt != "" {
		m, err := time.Parse(time.RFC3339Nano, d.ModifiedAt)
		if err != nil {
			return listing.Listing{}, fmt.Errorf("parse modified_at %q: %w", d.ModifiedAt, err)
		}
		modifiedAt = &m
	}

	var coord *geo.Coordinate
	if d.Location != "" {
		g, err := wkt.Unmarshal(d.Location)
		if err != nil {
			return listing.Listing{}, fmt.Errorf("decode location %q: %w", d.Location, err)
		}
		point, ok := g.(*geom.Point)
		if !ok {
			return listing.Listing{}, fmt.Errorf("location %q is not a point", d.Location)
		}
		c, err := geo.New(point.Y(), point.X())
		if err != nil {
			return listing.Listing{}, fmt.Errorf("invalid location %q: %w", d.Location, err)
		}
		coord = &c
	}

	return listing.Reconstruct(
		id, ownerID, d.Title, d.Description, d.PriceCents, d.CategoryID,
		coord, d.City, d.State, d.Country, createdAt, modifiedAt,
	), nil
}
