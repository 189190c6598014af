// Package category holds the category value type used as a search filter
// dimension.
package category

import "fmt"

// Category is an entry of the static category directory.
type Category struct {
	id   string
	name string
}

// New validates and creates a category.
func New(id, name string) (Category, error) {
	if id == "" {
		return Category{}, fmt.Errorf("category id is required")
	}
	if name == "" {
		return Category{}, fmt.Errorf("category name is required")
	}
	return Category{id: id, name: name}, nil
}

// ID returns the category identifier.
func (c Category) ID() string { return c.id }

// Name returns the display name.
func (c Category) Name() string { return c.name }
