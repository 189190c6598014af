// Package listing holds the marketplace listing aggregate.
package listing

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kailas-cloud/listdex/internal/domain"
	"github.com/kailas-cloud/listdex/internal/domain/geo"
)

// Listing field limits.
const (
	MinTitleLength       = 3
	MaxTitleLength       = 80
	MaxDescriptionLength = 500
	// MaxPriceCents bounds the price at 10^10-1 whole units.
	MaxPriceCents = (10_000_000_000 - 1) * 100
)

// titlePattern restricts titles to letters, digits, dots, dashes, spaces and
// underscores, with an alphanumeric first character.
var titlePattern = regexp.MustCompile(`^[A-Za-z0-9][.\- \w]+$`)

// Listing is a marketplace item posted by a user. Immutable; the write path
// produces a new value via WithUpdate.
type Listing struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	title       string
	description string
	priceCents  int64
	categoryID  string
	coord       *geo.Coordinate
	city        string
	state       string
	country     string
	createdAt   time.Time
	modifiedAt  *time.Time
}

// New validates and creates a listing. The coordinate is optional; when
// present, the denormalized country string must be present too (city and
// state follow whatever the geolocation collaborator resolved at creation).
func New(
	id, ownerID uuid.UUID,
	title, description string,
	priceCents int64,
	categoryID string,
	coord *geo.Coordinate,
	city, state, country string,
	createdAt time.Time,
) (Listing, error) {
	if id == uuid.Nil {
		return Listing{}, fmt.Errorf("%w: id is required", domain.ErrInvalidListing)
	}
	if ownerID == uuid.Nil {
		return Listing{}, fmt.Errorf("%w: owner id is required", domain.ErrInvalidListing)
	}
	if err := validateTitle(title); err != nil {
		return Listing{}, fmt.Errorf("%w: %s", domain.ErrInvalidListing, err)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return Listing{}, fmt.Errorf(
			"%w: description must be at most %d characters", domain.ErrInvalidListing, MaxDescriptionLength)
	}
	if priceCents < 0 || priceCents > MaxPriceCents {
		return Listing{}, fmt.Errorf("%w: price out of range", domain.ErrInvalidListing)
	}
	if categoryID == "" {
		return Listing{}, fmt.Errorf("%w: category is required", domain.ErrInvalidListing)
	}
	if coord != nil && country == "" {
		return Listing{}, fmt.Errorf("%w: a located listing must carry its country", domain.ErrInvalidListing)
	}
	if createdAt.IsZero() {
		return Listing{}, fmt.Errorf("%w: creation time is required", domain.ErrInvalidListing)
	}

	return Listing{
		id: id, ownerID: ownerID,
		title: title, description: description,
		priceCents: priceCents, categoryID: categoryID,
		coord: coord, city: city, state: state, country: country,
		createdAt: createdAt.UTC(),
	}, nil
}

// Reconstruct rebuilds a listing from persistence without validation.
func Reconstruct(
	id, ownerID uuid.UUID,
	title, description string,
	priceCents int64,
	categoryID string,
	coord *geo.Coordinate,
	city, state, country string,
	createdAt time.Time,
	modifiedAt *time.Time,
) Listing {
	return Listing{
		id: id, ownerID: ownerID,
		title: title, description: description,
		priceCents: priceCents, categoryID: categoryID,
		coord: coord, city: city, state: state, country: country,
		createdAt: createdAt, modifiedAt: modifiedAt,
	}
}

// WithUpdate returns a copy with the mutable fields replaced and the
// modification timestamp set. Identity, owner, coordinate and creation time
// never change on edit.
func (l Listing) WithUpdate(
	title, description string, priceCents int64, categoryID string, now time.Time,
) (Listing, error) {
	updated, err := New(
		l.id, l.ownerID, title, description, priceCents, categoryID,
		l.coord, l.city, l.state, l.country, l.createdAt,
	)
	if err != nil {
		return Listing{}, err
	}
	mod := now.UTC()
	updated.modifiedAt = &mod
	return updated, nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < MinTitleLength {
		return fmt.Errorf("title must be at least %d characters", MinTitleLength)
	}
	if n > MaxTitleLength {
		return fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	}
	if !titlePattern.MatchString(title) {
		return fmt.Errorf("title must have only letters, numbers, dots, dashes or underscores")
	}
	return nil
}

// ID returns the listing identifier.
func (l Listing) ID() uuid.UUID { return l.id }

// OwnerID returns the posting user's identifier.
func (l Listing) OwnerID() uuid.UUID { return l.ownerID }

// Title returns the listing title.
func (l Listing) Title() string { return l.title }

// Description returns the listing description.
func (l Listing) Description() string { return l.description }

// PriceCents returns the price in minor currency units.
func (l Listing) PriceCents() int64 { return l.priceCents }

// CategoryID returns the category identifier.
func (l Listing) CategoryID() string { return l.categoryID }

// Coordinate returns the listing location, or nil when the listing has none.
func (l Listing) Coordinate() *geo.Coordinate { return l.coord }

// HasCoordinate reports whether the listing carries a location.
func (l Listing) HasCoordinate() bool { return l.coord != nil }

// City returns the denormalized city name captured at creation.
func (l Listing) City() string { return l.city }

// State returns the denormalized state code captured at creation.
func (l Listing) State() string { return l.state }

// Country returns the denormalized country code captured at creation.
func (l Listing) Country() string { return l.country }

// CreatedAt returns the creation timestamp.
func (l Listing) CreatedAt() time.Time { return l.createdAt }

// ModifiedAt returns the last edit timestamp, or nil if never edited.
func (l Listing) ModifiedAt() *time.Time { return l.modifiedAt }
