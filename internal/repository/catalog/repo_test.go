package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/listdex/internal/domain"
	"github.com/kailas-cloud/listdex/internal/domain/listing"
)

func TestPutGet_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	l := makeLocatedListing(t, "madrid bike", 40.4168, -3.7038)
	if err := repo.Put(ctx, l); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := repo.Get(ctx, l.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title() != "madrid bike" {
		t.Errorf("title = %q", got.Title())
	}
	if !got.HasCoordinate() {
		t.Fatal("coordinate lost in round trip")
	}
	if got.Coordinate().Lat() != 40.4168 || got.Coordinate().Lon() != -3.7038 {
		t.Errorf("coordinate = (%v, %v)", got.Coordinate().Lat(), got.Coordinate().Lon())
	}
	if got.City() != "Madrid" || got.Country() != "ES" {
		t.Errorf("location strings = %q/%q", got.City(), got.Country())
	}
	if !got.CreatedAt().Equal(l.CreatedAt()) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt(), l.CreatedAt())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrListingNotFound) {
		t.Errorf("err = %v, want ErrListingNotFound", err)
	}
}

func TestPut_CategoryMove(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	l := makeListing(t, "road bike", "cycling", testBase)
	if err := repo.Put(ctx, l); err != nil {
		t.Fatalf("Put: %v", err)
	}

	moved, err := l.WithUpdate("road bike", "", 1000, "soccer", testBase.Add(time.Hour))
	if err != nil {
		t.Fatalf("WithUpdate: %v", err)
	}
	if err := repo.Put(ctx, moved); err != nil {
		t.Fatalf("Put moved: %v", err)
	}

	if _, ok := ms.sets["listdex:category:cycling:listings"][l.ID().String()]; ok {
		t.Error("listing still linked to old category")
	}
	if _, ok := ms.sets["listdex:category:soccer:listings"][l.ID().String()]; !ok {
		t.Error("listing not linked to new category")
	}
}

func TestDelete(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	l := makeListing(t, "road bike", "cycling", testBase)
	if err := repo.Put(ctx, l); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := repo.Delete(ctx, l.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.Get(ctx, l.ID()); !errors.Is(err, domain.ErrListingNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
	if _, ok := ms.zsets["listdex:listings:recency"][l.ID().String()]; ok {
		t.Error("listing still in recency index")
	}
	if _, ok := ms.sets["listdex:category:cycling:listings"][l.ID().String()]; ok {
		t.Error("listing still in category index")
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	if err := repo.Delete(context.Background(), uuid.New()); !errors.Is(err, domain.ErrListingNotFound) {
		t.Errorf("err = %v, want ErrListingNotFound", err)
	}
}

func TestByRecency(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	oldest := makeListing(t, "first bike", "cycling", testBase)
	middle := makeListing(t, "second bike", "cycling", testBase.Add(time.Minute))
	newest := makeListing(t, "third bike", "cycling", testBase.Add(2*time.Minute))
	for _, l := range []listing.Listing{oldest, middle, newest} {
		if err := repo.Put(ctx, l); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	got, err := repo.ByRecency(ctx, 0)
	if err != nil {
		t.Fatalf("ByRecency: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	wantTitles := []string{"third bike", "second bike", "first bike"}
	for i, w := range wantTitles {
		if got[i].Title() != w {
			t.Errorf("position %d = %q, want %q", i, got[i].Title(), w)
		}
	}
}

func TestByRecency_Limit(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		l := makeListing(t, "bike model", "cycling", testBase.Add(time.Duration(i)*time.Minute))
		if err := repo.Put(ctx, l); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	got, err := repo.ByRecency(ctx, 2)
	if err != nil {
		t.Fatalf("ByRecency: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestByCategory(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	soccer1 := makeListing(t, "t-shirt", "soccer", testBase)
	soccer2 := makeListing(t, "cleats", "soccer", testBase.Add(time.Minute))
	bike := makeListing(t, "road bike", "cycling", testBase.Add(2*time.Minute))
	for _, l := range []listing.Listing{soccer1, soccer2, bike} {
		if err := repo.Put(ctx, l); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	got, err := repo.ByCategory(ctx, "soccer", 0)
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title() != "cleats" || got[1].Title() != "t-shirt" {
		t.Errorf("order = [%q, %q]", got[0].Title(), got[1].Title())
	}
}

func TestGetMany_SkipsMissing(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	l := makeListing(t, "road bike", "cycling", testBase)
	if err := repo.Put(ctx, l); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := repo.GetMany(ctx, []uuid.UUID{uuid.New(), l.ID()})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 1 || got[0].ID() != l.ID() {
		t.Errorf("got %d listings", len(got))
	}
}
