package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrListingNotFound signals a missing listing.
	ErrListingNotFound = errors.New("listing not found")
	// ErrCategoryNotFound signals an unknown category identifier.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidQuery signals search input rejected by validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidListing signals listing fields rejected by validation.
	ErrInvalidListing = errors.New("invalid listing")
	// ErrForbidden signals an operation on a listing owned by someone else.
	ErrForbidden = errors.New("forbidden")
	// ErrIndexUnavailable signals a text index failure. Recoverable: the
	// search layer degrades to recency ordering instead of surfacing it.
	ErrIndexUnavailable = errors.New("text index unavailable")
	// ErrRankerUnavailable signals a distance ranker failure. Recoverable
	// the same way as ErrIndexUnavailable.
	ErrRankerUnavailable = errors.New("distance ranker unavailable")
)

// InvalidQueryError wraps ErrInvalidQuery with the human-readable reason
// shown to the user.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return ErrInvalidQuery.Error() + ": " + e.Reason
}

func (e *InvalidQueryError) Unwrap() error { return ErrInvalidQuery }

// NewInvalidQuery creates an invalid query error with a reason.
func NewInvalidQuery(reason string) error {
	return &InvalidQueryError{Reason: reason}
}
