// Package catalog persists listings in Redis: one JSON document per listing,
// a recency sorted set for feed ordering and one set per category.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/kailas-cloud/listdex/internal/db"
	"github.com/kailas-cloud/listdex/internal/domain"
	"github.com/kailas-cloud/listdex/internal/domain/listing"
)

// store is the consumer interface for listing persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRem(ctx context.Context, key, member string) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	SAdd(ctx context.Context, key, member string) error
	SRem(ctx context.Context, key, member string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements the catalog contracts of the search and listing use cases.
type Repo struct {
	store  store
	prefix string
}

// New creates a catalog repository. keyPrefix namespaces all keys.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) listingKey(id uuid.UUID) string { return r.prefix + "listing:" + id.String() }
func (r *Repo) recencyKey() string             { return r.prefix + "listings:recency" }
func (r *Repo) categoryKey(categoryID string) string {
	return r.prefix + "category:" + categoryID + ":listings"
}

// Put creates or replaces a listing document and keeps the recency and
// category indexes in step. A category change moves the listing between
// category sets.
func (r *Repo) Put(ctx context.Context, l listing.Listing) error {
	key := r.listingKey(l.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if exists {
		old, err := r.Get(ctx, l.ID())
		if err != nil {
			return fmt.Errorf("read previous %s: %w", key, err)
		}
		if old.CategoryID() != l.CategoryID() {
			if err := r.store.SRem(ctx, r.categoryKey(old.CategoryID()), l.ID().String()); err != nil {
				return fmt.Errorf("unlink previous category: %w", err)
			}
		}
	}

	doc, err := buildJSONListing(l)
	if err != nil {
		return fmt.Errorf("build document: %w", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	if err := r.store.ZAdd(ctx, r.recencyKey(), l.ID().String(),
		float64(l.CreatedAt().UnixNano())); err != nil {
		return fmt.Errorf("add to recency index: %w", err)
	}
	if err := r.store.SAdd(ctx, r.categoryKey(l.CategoryID()), l.ID().String()); err != nil {
		return fmt.Errorf("add to category index: %w", err)
	}
	return nil
}

// Get returns a listing by ID.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (listing.Listing, error) {
	key := r.listingKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return listing.Listing{}, domain.ErrListingNotFound
		}
		return listing.Listing{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseJSONGetResult(raw)
}

// Delete removes a listing and its index entries.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	l, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Del(ctx, r.listingKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", r.listingKey(id), err)
	}
	if err := r.store.ZRem(ctx, r.recencyKey(), id.String()); err != nil {
		return fmt.Errorf("remove from recency index: %w", err)
	}
	if err := r.store.SRem(ctx, r.categoryKey(l.CategoryID()), id.String()); err != nil {
		return fmt.Errorf("remove from category index: %w", err)
	}
	return nil
}

// ByRecency returns listings ordered by descending creation time. Equal
// timestamps fall back to descending identifier (the sorted set's reverse
// lexicographic order). limit <= 0 returns all.
func (r *Repo) ByRecency(ctx context.Context, limit int) ([]listing.Listing, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	ids, err := r.store.ZRevRange(ctx, r.recencyKey(), 0, stop)
	if err != nil {
		return nil, fmt.Errorf("recency range: %w", err)
	}
	return r.hydrate(ctx, ids)
}

// ByCategory returns the category's listings ordered by descending creation
// time, ties by descending identifier. limit <= 0 returns all.
func (r *Repo) ByCategory(ctx context.Context, categoryID string, limit int) ([]listing.Listing, error) {
	ids, err := r.store.SMembers(ctx, r.categoryKey(categoryID))
	if err != nil {
		return nil, fmt.Errorf("category members: %w", err)
	}
	listings, err := r.hydrate(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().After(b.CreatedAt())
		}
		return a.ID().String() > b.ID().String()
	})
	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}
	return listings, nil
}

// GetMany hydrates listings preserving input order. Identifiers no longer in
// the catalog are skipped: the text index may briefly run ahead of deletes.
func (r *Repo) GetMany(ctx context.Context, ids []uuid.UUID) ([]listing.Listing, error) {
	listings := make([]listing.Listing, 0, len(ids))
	for _, id := range ids {
		l, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrListingNotFound) {
				continue
			}
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func (r *Repo) hydrate(ctx context.Context, rawIDs []string) ([]listing.Listing, error) {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse listing id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return r.GetMany(ctx, ids)
}

// parseJSONGetResult unwraps the array JSON.GET returns for the "$" path.
func parseJSONGetResult(raw []byte) (listing.Listing, error) {
	var docs []jsonListing
	if err := json.Unmarshal(raw, &docs); err != nil {
		return listing.Listing{}, fmt.Errorf("unmarshal document: %w", err)
	}
	if len(docs) == 0 {
		return listing.Listing{}, domain.ErrListingNotFound
	}
	return docs[0].toDomain()
}
