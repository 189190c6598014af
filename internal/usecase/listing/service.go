// Package listing is the write path: it validates drafts, persists listings
// and keeps the text index in step with the catalog.
package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listdex/internal/domain"
	"github.com/kailas-cloud/listdex/internal/domain/geo"
	domlist "github.com/kailas-cloud/listdex/internal/domain/listing"
)

// Draft is the caller-supplied content of a new listing. The coordinate and
// the denormalized place names come from the creator's profile at posting
// time; they are frozen afterwards.
type Draft struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	PriceCents  int64
	CategoryID  string
	Coordinate  *geo.Coordinate
	City        string
	State       string
	Country     string
}

// Update is the caller-supplied content of an edit. Identity, owner and
// location never change on edit.
type Update struct {
	Title       string
	Description string
	PriceCents  int64
	CategoryID  string
}

// Service handles the listing write path.
type Service struct {
	catalog    Catalog
	index      TextIndex
	categories CategoryReader
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a listing service.
func New(catalog Catalog, index TextIndex, categories CategoryReader, logger *zap.Logger) *Service {
	return &Service{
		catalog:    catalog,
		index:      index,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// Create validates the draft, persists it and indexes it. An index failure
// does not fail the write; search degrades until the next reindex.
func (s *Service) Create(ctx context.Context, d Draft) (domlist.Listing, error) {
	if _, err := s.categories.Lookup(d.CategoryID); err != nil {
		return domlist.Listing{}, fmt.Errorf("lookup category: %w", err)
	}

	l, err := domlist.New(
		uuid.New(), d.OwnerID,
		d.Title, d.Description, d.PriceCents, d.CategoryID,
		d.Coordinate, d.City, d.State, d.Country,
		s.now(),
	)
	if err != nil {
		return domlist.Listing{}, err
	}

	if err = s.catalog.Put(ctx, l); err != nil {
		return domlist.Listing{}, fmt.Errorf("store listing: %w", err)
	}
	s.reindex(ctx, l)
	return l, nil
}

// Edit applies an update to the caller's own listing and reindexes it.
func (s *Service) Edit(ctx context.Context, id, ownerID uuid.UUID, u Update) (domlist.Listing, error) {
	current, err := s.catalog.Get(ctx, id)
	if err != nil {
		return domlist.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	if current.OwnerID() != ownerID {
		return domlist.Listing{}, domain.ErrForbidden
	}
	if _, err = s.categories.Lookup(u.CategoryID); err != nil {
		return domlist.Listing{}, fmt.Errorf("lookup category: %w", err)
	}

	updated, err := current.WithUpdate(u.Title, u.Description, u.PriceCents, u.CategoryID, s.now())
	if err != nil {
		return domlist.Listing{}, err
	}

	if err = s.catalog.Put(ctx, updated); err != nil {
		return domlist.Listing{}, fmt.Errorf("store listing: %w", err)
	}
	s.reindex(ctx, updated)
	return updated, nil
}

// Delete removes the caller's own listing from the catalog and the index.
func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	current, err := s.catalog.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get listing: %w", err)
	}
	if current.OwnerID() != ownerID {
		return domain.ErrForbidden
	}

	if err = s.catalog.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if err = s.index.Remove(ctx, id); err != nil {
		s.logger.Warn("Removing listing from text index failed",
			zap.String("listing_id", id.String()),
			zap.Error(err),
		)
	}
	return nil
}

// Get returns one listing.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domlist.Listing, error) {
	l, err := s.catalog.Get(ctx, id)
	if err != nil {
		return domlist.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

// GetMany hydrates listings preserving input order, skipping identifiers no
// longer in the catalog.
func (s *Service) GetMany(ctx context.Context, ids []uuid.UUID) ([]domlist.Listing, error) {
	listings, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get listings: %w", err)
	}
	return listings, nil
}

func (s *Service) reindex(ctx context.Context, l domlist.Listing) {
	if err := s.index.Index(ctx, l); err != nil {
		s.logger.Warn("Indexing listing failed",
			zap.String("listing_id", l.ID().String()),
			zap.Error(err),
		)
	}
}
