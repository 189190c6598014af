// Package category exposes the static category directory, seeded once from
// an embedded one-name-per-line list.
package category

import (
	"bufio"
	"fmt"
	"strings"

	_ "embed"

	"github.com/kailas-cloud/listdex/internal/domain"
	domcat "github.com/kailas-cloud/listdex/internal/domain/category"
)

//go:embed categories.txt
var seed string

// Directory is the read-only category lookup. Built once, safe for
// concurrent use.
type Directory struct {
	byID map[string]domcat.Category
	all  []domcat.Category
}

// NewDirectory builds the directory from the embedded seed list.
func NewDirectory() (*Directory, error) {
	return newDirectoryFrom(seed)
}

func newDirectoryFrom(list string) (*Directory, error) {
	d := &Directory{byID: make(map[string]domcat.Category)}

	scanner := bufio.NewScanner(strings.NewReader(list))
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		id := slugify(name)
		if _, dup := d.byID[id]; dup {
			return nil, fmt.Errorf("duplicate category %q", id)
		}
		c, err := domcat.New(id, name)
		if err != nil {
			return nil, fmt.Errorf("seed category %q: %w", name, err)
		}
		d.byID[id] = c
		d.all = append(d.all, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read seed list: %w", err)
	}
	if len(d.all) == 0 {
		return nil, fmt.Errorf("empty category seed list")
	}
	return d, nil
}

// Lookup resolves a category by identifier.
func (d *Directory) Lookup(id string) (domcat.Category, error) {
	c, ok := d.byID[id]
	if !ok {
		return domcat.Category{}, domain.ErrCategoryNotFound
	}
	return c, nil
}

// All returns every category in seed order.
func (d *Directory) All() []domcat.Category {
	out := make([]domcat.Category, len(d.all))
	copy(out, d.all)
	return out
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
