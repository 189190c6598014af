package listing

import (
	"context"

	"github.com/google/uuid"

	domcat "github.com/kailas-cloud/listdex/internal/domain/category"
	domlist "github.com/kailas-cloud/listdex/internal/domain/listing"
)

// Catalog persists listings.
type Catalog interface {
	Put(ctx context.Context, l domlist.Listing) error
	Get(ctx context.Context, id uuid.UUID) (domlist.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetMany(ctx context.Context, ids []uuid.UUID) ([]domlist.Listing, error)
}

// TextIndex keeps the lexical index in step with the catalog.
type TextIndex interface {
	Index(ctx context.Context, l domlist.Listing) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// CategoryReader checks category existence.
type CategoryReader interface {
	Lookup(id string) (domcat.Category, error)
}
