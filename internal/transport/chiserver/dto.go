package chiserver

import (
	"time"

	domcat "github.com/kailas-cloud/listdex/internal/domain/category"
	domlist "github.com/kailas-cloud/listdex/internal/domain/listing"
)

// errorCode is the machine-readable error discriminant in error responses.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeQueryInvalid     errorCode = "query_invalid"
	codeListingNotFound  errorCode = "listing_not_found"
	codeCategoryNotFound errorCode = "category_not_found"
	codeForbidden        errorCode = "forbidden"
	codeUnauthorized     errorCode = "unauthorized"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type locationPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type itemPayload struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	PriceCents  int64            `json:"price_cents"`
	CategoryID  string           `json:"category_id"`
	Location    *locationPayload `json:"location,omitempty"`
	City        string           `json:"city,omitempty"`
	State       string           `json:"state,omitempty"`
	Country     string           `json:"country,omitempty"`
}

type itemResponse struct {
	ID          string           `json:"id"`
	OwnerID     string           `json:"owner_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	PriceCents  int64            `json:"price_cents"`
	CategoryID  string           `json:"category_id"`
	Location    *locationPayload `json:"location,omitempty"`
	City        string           `json:"city,omitempty"`
	State       string           `json:"state,omitempty"`
	Country     string           `json:"country,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	ModifiedAt  *time.Time       `json:"modified_at,omitempty"`
}

type itemListResponse struct {
	Items []itemResponse `json:"items"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type categoryListResponse struct {
	Items []categoryResponse `json:"items"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func itemToResponse(l domlist.Listing) itemResponse {
	resp := itemResponse{
		ID:          l.ID().String(),
		OwnerID:     l.OwnerID().String(),
		Title:       l.Title(),
		Description: l.Description(),
		PriceCents:  l.PriceCents(),
		CategoryID:  l.CategoryID(),
		City:        l.City(),
		State:       l.State(),
		Country:     l.Country(),
		CreatedAt:   l.CreatedAt(),
		ModifiedAt:  l.ModifiedAt(),
	}
	if c := l.Coordinate(); c != nil {
		resp.Location = &locationPayload{Lat: c.Lat(), Lon: c.Lon()}
	}
	return resp
}

func itemsToResponse(listings []domlist.Listing) itemListResponse {
	items := make([]itemResponse, len(listings))
	for i, l := range listings {
		items[i] = itemToResponse(l)
	}
	return itemListResponse{Items: items}
}

func categoryToResponse(c domcat.Category) categoryResponse {
	return categoryResponse{ID: c.ID(), Name: c.Name()}
}
