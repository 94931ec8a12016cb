package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/localspot/go-directory-backend/internal/domain"
	"github.com/localspot/go-directory-backend/internal/repo"
)

// testCatRepo adapts the repo free functions to the CatalogRepo interface.
type testCatRepo struct{}

func (testCatRepo) CreateLocation(ctx context.Context, db *gorm.DB, l *domain.Location) error {
	return repo.CreateLocation(ctx, db, l)
}
func (testCatRepo) ListActiveLocations(ctx context.Context, db *gorm.DB) ([]domain.Location, error) {
	return repo.ListActiveLocations(ctx, db)
}
func (testCatRepo) GetLocationBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Location, error) {
	return repo.GetLocationBySlug(ctx, db, slug)
}
func (testCatRepo) CreateDirectory(ctx context.Context, db *gorm.DB, d *domain.Directory) error {
	return repo.CreateDirectory(ctx, db, d)
}
func (testCatRepo) ListDirectories(ctx context.Context, db *gorm.DB, locationID string) ([]domain.Directory, error) {
	return repo.ListDirectories(ctx, db, locationID)
}
func (testCatRepo) GetDirectoryBySlug(ctx context.Context, db *gorm.DB, locationID, slug string) (*domain.Directory, error) {
	return repo.GetDirectoryBySlug(ctx, db, locationID, slug)
}
func (testCatRepo) CountVisibleBusinesses(ctx context.Context, db *gorm.DB, locationID, directoryID string) (int64, error) {
	return repo.CountVisibleBusinesses(ctx, db, locationID, directoryID)
}
func (testCatRepo) ListVisibleBusinessesPage(ctx context.Context, db *gorm.DB, locationID, directoryID string, offset, limit int) ([]domain.Business, error) {
	return repo.ListVisibleBusinessesPage(ctx, db, locationID, directoryID, offset, limit)
}

func TestCreateLocationAndDirectory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, testCatRepo{})
	ctx := context.Background()

	loc, err := svc.CreateLocation(ctx, "Saint Augustine", "FL")
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	if loc.Slug != "saint-augustine" {
		t.Fatalf("slug = %q", loc.Slug)
	}

	// Same name again collides on the slug.
	if _, err := svc.CreateLocation(ctx, "Saint Augustine", "FL"); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("err = %v, want ErrSlugTaken", err)
	}
	if _, err := svc.CreateLocation(ctx, "!!!", ""); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("err = %v, want ErrInvalidName", err)
	}

	dir, err := svc.CreateDirectory(ctx, "saint-augustine", "Health & Wellness", "")
	if err != nil {
		t.Fatalf("create directory: %v", err)
	}
	if dir.Slug != "health-and-wellness" {
		t.Fatalf("slug = %q", dir.Slug)
	}
	if _, err := svc.CreateDirectory(ctx, "nowhere", "Plumbers", ""); !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("err = %v, want ErrLocationNotFound", err)
	}

	dirs, err := svc.Directories(ctx, "saint-augustine")
	if err != nil {
		t.Fatalf("directories: %v", err)
	}
	if len(dirs) != 1 || dirs[0].ID != dir.ID {
		t.Fatalf("directories = %+v", dirs)
	}
}

func TestBrowse_OnlyVisibleListings(t *testing.T) {
	db := newTestDB(t)
	cat := NewCatalogService(db, testCatRepo{})
	biz := NewBusinessService(db, testBizRepo{})
	mod := NewModerationService(db, testModRepo{}, &fakeNotifier{})
	ctx := context.Background()

	loc, err := cat.CreateLocation(ctx, "Anytown", "FL")
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	dir, err := cat.CreateDirectory(ctx, loc.Slug, "Plumbers", "")
	if err != nil {
		t.Fatalf("directory: %v", err)
	}

	approved, err := biz.Create(ctx, submission(loc.ID, dir.ID, "u1", "Alpha Plumbing"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := biz.Create(ctx, submission(loc.ID, dir.ID, "u2", "Beta Plumbing")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	hidden, err := biz.Create(ctx, submission(loc.ID, dir.ID, "u3", "Gamma Plumbing"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := mod.Transition(ctx, "admin1", approved.Business.ID, domain.StatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := mod.Transition(ctx, "admin1", hidden.Business.ID, domain.StatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := mod.SetActive(ctx, hidden.Business.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	items, total, err := cat.Browse(ctx, loc.Slug, dir.Slug, 1, 10)
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("browse = %d/%d, want 1/1", len(items), total)
	}
	if items[0].ID != approved.Business.ID {
		t.Fatalf("visible listing = %s, want %s", items[0].ID, approved.Business.ID)
	}

	if _, _, err := cat.Browse(ctx, loc.Slug, "nowhere", 1, 10); !errors.Is(err, ErrDirectoryNotFound) {
		t.Fatalf("err = %v, want ErrDirectoryNotFound", err)
	}
	if _, _, err := cat.Browse(ctx, "nowhere", dir.Slug, 1, 10); !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("err = %v, want ErrLocationNotFound", err)
	}
}
