package listdex

import "time"

// Location is a WGS84 point.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Item is a marketplace listing as served by the API.
type Item struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PriceCents  int64      `json:"price_cents"`
	CategoryID  string     `json:"category_id"`
	Location    *Location  `json:"location,omitempty"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	Country     string     `json:"country,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  *time.Time `json:"modified_at,omitempty"`
}

// ItemDraft is the payload for creating or updating an item. Location and
// the place names only apply on create.
type ItemDraft struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	CategoryID  string    `json:"category_id"`
	Location    *Location `json:"location,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Country     string    `json:"country,omitempty"`
}

// Category is an entry of the category directory.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SearchParams narrows and orders a search. Zero values mean "not set".
type SearchParams struct {
	Query      string
	CategoryID string
	Location   *Location
	Limit      int
}

type itemList struct {
	Items []Item `json:"items"`
}

type categoryList struct {
	Items []Category `json:"items"`
}
