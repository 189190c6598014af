package catalog

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/listdex/internal/db"
	"github.com/kailas-cloud/listdex/internal/domain/geo"
	"github.com/kailas-cloud/listdex/internal/domain/listing"
)

// mockStore is an in-memory stand-in for the Redis store.
type mockStore struct {
	json       map[string][]byte
	zsets      map[string]map[string]float64
	sets       map[string]map[string]struct{}
	errJSONGet error
}

func newMockStore() *mockStore {
	return &mockStore{
		json:  make(map[string][]byte),
		zsets: make(map[string]map[string]float64),
		sets:  make(map[string]map[string]struct{}),
	}
}

func (m *mockStore) JSONSet(_ context.Context, key, _ string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.json[key] = cp
	return nil
}

func (m *mockStore) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	if m.errJSONGet != nil {
		return nil, m.errJSONGet
	}
	data, ok := m.json[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	// JSON.GET with the "$" path wraps the document in an array.
	out := make([]byte, 0, len(data)+2)
	out = append(out, '[')
	out = append(out, data...)
	out = append(out, ']')
	return out, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	delete(m.json, key)
	return nil
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.json[key]
	return ok, nil
}

func (m *mockStore) ZAdd(_ context.Context, key, member string, score float64) error {
	if m.zsets[key] == nil {
		m.zsets[key] = make(map[string]float64)
	}
	m.zsets[key][member] = score
	return nil
}

func (m *mockStore) ZRem(_ context.Context, key, member string) error {
	delete(m.zsets[key], member)
	return nil
}

func (m *mockStore) ZRevRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	type entry struct {
		member string
		score  float64
	}
	entries := make([]entry, 0, len(m.zsets[key]))
	for member, score := range m.zsets[key] {
		entries = append(entries, entry{member, score})
	}
	// Descending score, ties by reverse lexicographic member (Redis order).
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].member > entries[j].member
	})
	if start >= int64(len(entries)) {
		return nil, nil
	}
	end := int64(len(entries))
	if stop >= 0 && stop+1 < end {
		end = stop + 1
	}
	members := make([]string, 0, end-start)
	for _, e := range entries[start:end] {
		members = append(members, e.member)
	}
	return members, nil
}

func (m *mockStore) ZCard(_ context.Context, key string) (int64, error) {
	return int64(len(m.zsets[key])), nil
}

func (m *mockStore) SAdd(_ context.Context, key, member string) error {
	if m.sets[key] == nil {
		m.sets[key] = make(map[string]struct{})
	}
	m.sets[key][member] = struct{}{}
	return nil
}

func (m *mockStore) SRem(_ context.Context, key, member string) error {
	delete(m.sets[key], member)
	return nil
}

func (m *mockStore) SMembers(_ context.Context, key string) ([]string, error) {
	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms, "listdex:"), ms
}

var testBase = time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC)

func makeListing(t *testing.T, title, categoryID string, createdAt time.Time) listing.Listing {
	t.Helper()
	l, err := listing.New(
		uuid.New(), uuid.New(), title, "", 1000, categoryID, nil, "", "", "", createdAt,
	)
	if err != nil {
		t.Fatalf("listing.New: %v", err)
	}
	return l
}

func makeLocatedListing(t *testing.T, title string, lat, lon float64) listing.Listing {
	t.Helper()
	coord, err := geo.New(lat, lon)
	if err != nil {
		t.Fatalf("geo.New: %v", err)
	}
	l, err := listing.New(
		uuid.New(), uuid.New(), title, "", 1000, "cycling",
		&coord, "Madrid", "", "ES", testBase,
	)
	if err != nil {
		t.Fatalf("listing.New: %v", err)
	}
	return l
}
