package listing

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/listdex/internal/domain/geo"
)

var (
	testID    = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	testOwner = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")
	testTime  = time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC)
)

func validListing(t *testing.T) Listing {
	t.Helper()
	l, err := New(testID, testOwner, "road bike", "fast and light", 25000, "cycling",
		nil, "", "", "", testTime)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestNew_Valid(t *testing.T) {
	l := validListing(t)
	if l.ID() != testID {
		t.Errorf("id = %v", l.ID())
	}
	if l.Title() != "road bike" {
		t.Errorf("title = %q", l.Title())
	}
	if l.HasCoordinate() {
		t.Error("expected no coordinate")
	}
	if l.ModifiedAt() != nil {
		t.Error("fresh listing must not carry a modification time")
	}
}

func TestNew_WithCoordinate(t *testing.T) {
	madrid, _ := geo.New(40.4168, -3.7038)
	l, err := New(testID, testOwner, "road bike", "", 0, "cycling",
		&madrid, "Madrid", "", "ES", testTime)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !l.HasCoordinate() {
		t.Fatal("expected coordinate")
	}
	if l.Coordinate().Lat() != 40.4168 {
		t.Errorf("lat = %v", l.Coordinate().Lat())
	}
	if l.City() != "Madrid" || l.Country() != "ES" {
		t.Errorf("location strings = %q/%q", l.City(), l.Country())
	}
}

func TestNew_Invalid(t *testing.T) {
	madrid, _ := geo.New(40.4168, -3.7038)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"nil id", func() error {
			_, err := New(uuid.Nil, testOwner, "bike", "", 0, "cycling", nil, "", "", "", testTime)
			return err
		}},
		{"nil owner", func() error {
			_, err := New(testID, uuid.Nil, "bike", "", 0, "cycling", nil, "", "", "", testTime)
			return err
		}},
		{"title too short", func() error {
			_, err := New(testID, testOwner, "ab", "", 0, "cycling", nil, "", "", "", testTime)
			return err
		}},
		{"title too long", func() error {
			_, err := New(testID, testOwner, strings.Repeat("a", 81), "", 0, "cycling", nil, "", "", "", testTime)
			return err
		}},
		{"title bad charset", func() error {
			_, err := New(testID, testOwner, "<script>", "", 0, "cycling", nil, "", "", "", testTime)
			return err
		}},
		{"description too long", func() error {
			_, err := New(testID, testOwner, "bike", strings.Repeat("d", 501), 0, "cycling", nil, "", "", "", testTime)
			return err
		}},
		{"negative price", func() error {
			_, err := New(testID, testOwner, "bike", "", -1, "cycling", nil, "", "", "", testTime)
			return err
		}},
		{"missing category", func() error {
			_, err := New(testID, testOwner, "bike", "", 0, "", nil, "", "", "", testTime)
			return err
		}},
		{"coordinate without country", func() error {
			_, err := New(testID, testOwner, "bike", "", 0, "cycling", &madrid, "Madrid", "", "", testTime)
			return err
		}},
		{"zero creation time", func() error {
			_, err := New(testID, testOwner, "bike", "", 0, "cycling", nil, "", "", "", time.Time{})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.fn() == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWithUpdate(t *testing.T) {
	l := validListing(t)
	now := testTime.Add(time.Hour)

	updated, err := l.WithUpdate("mtb bike", "knobby tires", 30000, "cycling", now)
	if err != nil {
		t.Fatalf("WithUpdate: %v", err)
	}
	if updated.Title() != "mtb bike" {
		t.Errorf("title = %q", updated.Title())
	}
	if updated.ModifiedAt() == nil || !updated.ModifiedAt().Equal(now) {
		t.Errorf("modifiedAt = %v, want %v", updated.ModifiedAt(), now)
	}
	if !updated.CreatedAt().Equal(l.CreatedAt()) {
		t.Error("creation time must not change on edit")
	}
	if updated.ID() != l.ID() || updated.OwnerID() != l.OwnerID() {
		t.Error("identity must not change on edit")
	}
}

func TestWithUpdate_Invalid(t *testing.T) {
	l := validListing(t)
	if _, err := l.WithUpdate("x", "", 0, "cycling", testTime); err == nil {
		t.Error("expected validation error for short title")
	}
}
