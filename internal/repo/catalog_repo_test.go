package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/localspot/go-directory-backend/internal/domain"
)

func TestLocationCRUD(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	loc := &domain.Location{Slug: "saint-augustine", Name: "Saint Augustine", Region: "FL", IsActive: true}
	if err := CreateLocation(ctx, db, loc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if loc.ID == "" {
		t.Fatal("ID not generated")
	}

	// Slug is globally unique across locations.
	clone := &domain.Location{Slug: "saint-augustine", Name: "St. Augustine", IsActive: true}
	if err := CreateLocation(ctx, db, clone); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}

	got, err := GetLocationBySlug(ctx, db, "saint-augustine")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != loc.ID || got.Region != "FL" {
		t.Fatalf("row = %+v", got)
	}
	if _, err := GetLocationBySlug(ctx, db, "nowhere"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
}

func TestListActiveLocations(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	for _, l := range []*domain.Location{
		{Slug: "ztown", Name: "Ztown", IsActive: true},
		{Slug: "anytown", Name: "Anytown", IsActive: true},
		{Slug: "ghost-town", Name: "Ghost Town", IsActive: false},
	} {
		if err := CreateLocation(ctx, db, l); err != nil {
			t.Fatalf("create %s: %v", l.Slug, err)
		}
	}

	got, err := ListActiveLocations(ctx, db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "anytown" || got[1].Slug != "ztown" {
		t.Fatalf("locations = %+v", got)
	}
}

// Rows created with IsActive=false must read back inactive. A column-level
// default would let GORM drop the zero-valued field from the INSERT and
// resurrect the row as active.
func TestCreate_InactiveFlagPersists(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	loc := &domain.Location{Slug: "ghost-town", Name: "Ghost Town", IsActive: false}
	if err := CreateLocation(ctx, db, loc); err != nil {
		t.Fatalf("create location: %v", err)
	}
	gotLoc, err := GetLocationBySlug(ctx, db, "ghost-town")
	if err != nil {
		t.Fatalf("get location: %v", err)
	}
	if gotLoc.IsActive {
		t.Fatal("location stored active despite IsActive=false")
	}

	dir := &domain.Directory{LocationID: loc.ID, Slug: "closed", Name: "Closed", IsActive: false}
	if err := CreateDirectory(ctx, db, dir); err != nil {
		t.Fatalf("create directory: %v", err)
	}
	gotDir, err := GetDirectoryBySlug(ctx, db, loc.ID, "closed")
	if err != nil {
		t.Fatalf("get directory: %v", err)
	}
	if gotDir.IsActive {
		t.Fatal("directory stored active despite IsActive=false")
	}

	b := newListing(loc.ID, dir.ID, "u1", "Shuttered Shop", "shuttered-shop")
	b.IsActive = false
	if err := CreateBusiness(ctx, db, b); err != nil {
		t.Fatalf("create business: %v", err)
	}
	gotBiz, err := GetBusiness(ctx, db, b.ID)
	if err != nil {
		t.Fatalf("get business: %v", err)
	}
	if gotBiz.IsActive {
		t.Fatal("business stored active despite IsActive=false")
	}
}

func TestDirectoryCRUD(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	locA := &domain.Location{Slug: "anytown", Name: "Anytown", IsActive: true}
	locB := &domain.Location{Slug: "othertown", Name: "Othertown", IsActive: true}
	for _, l := range []*domain.Location{locA, locB} {
		if err := CreateLocation(ctx, db, l); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	dir := &domain.Directory{LocationID: locA.ID, Slug: "plumbers", Name: "Plumbers", IsActive: true}
	if err := CreateDirectory(ctx, db, dir); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The slug is unique per location only.
	clash := &domain.Directory{LocationID: locA.ID, Slug: "plumbers", Name: "Plumbing", IsActive: true}
	if err := CreateDirectory(ctx, db, clash); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("same location: err = %v, want ErrDuplicate", err)
	}
	elsewhere := &domain.Directory{LocationID: locB.ID, Slug: "plumbers", Name: "Plumbers", IsActive: true}
	if err := CreateDirectory(ctx, db, elsewhere); err != nil {
		t.Fatalf("other location: %v", err)
	}

	got, err := GetDirectoryBySlug(ctx, db, locA.ID, "plumbers")
	if err != nil || got.ID != dir.ID {
		t.Fatalf("get = %+v err = %v", got, err)
	}
	if _, err := GetDirectoryBySlug(ctx, db, locA.ID, "bakers"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
}

func TestListDirectories_ActiveOnlyAndScoped(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	locA := &domain.Location{Slug: "anytown", Name: "Anytown", IsActive: true}
	locB := &domain.Location{Slug: "othertown", Name: "Othertown", IsActive: true}
	for _, l := range []*domain.Location{locA, locB} {
		if err := CreateLocation(ctx, db, l); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	for _, d := range []*domain.Directory{
		{LocationID: locA.ID, Slug: "plumbers", Name: "Plumbers", IsActive: true},
		{LocationID: locA.ID, Slug: "bakers", Name: "Bakers", IsActive: true},
		{LocationID: locA.ID, Slug: "retired", Name: "Retired", IsActive: false},
		{LocationID: locB.ID, Slug: "plumbers", Name: "Plumbers", IsActive: true},
	} {
		if err := CreateDirectory(ctx, db, d); err != nil {
			t.Fatalf("seed %s: %v", d.Slug, err)
		}
	}

	got, err := ListDirectories(ctx, db, locA.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "bakers" || got[1].Slug != "plumbers" {
		t.Fatalf("directories = %+v", got)
	}
}
