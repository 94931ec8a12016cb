// Package services – CatalogService
//
// This file implements the read-mostly catalog of locations and directories
// (categories) plus the public, paginated listing browse with ETag support
// data. Catalog writes are administrative and rare; slugs are derived from
// names and collisions are surfaced rather than auto-resolved.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/localspot/go-directory-backend/internal/domain"
	"github.com/localspot/go-directory-backend/internal/repo"
	"github.com/localspot/go-directory-backend/internal/slug"
)

// CatalogRepo defines the repository contract required by CatalogService.
type CatalogRepo interface {
	CreateLocation(ctx context.Context, db *gorm.DB, l *domain.Location) error
	ListActiveLocations(ctx context.Context, db *gorm.DB) ([]domain.Location, error)
	GetLocationBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Location, error)

	CreateDirectory(ctx context.Context, db *gorm.DB, d *domain.Directory) error
	ListDirectories(ctx context.Context, db *gorm.DB, locationID string) ([]domain.Directory, error)
	GetDirectoryBySlug(ctx context.Context, db *gorm.DB, locationID, slug string) (*domain.Directory, error)

	CountVisibleBusinesses(ctx context.Context, db *gorm.DB, locationID, directoryID string) (int64, error)
	ListVisibleBusinessesPage(ctx context.Context, db *gorm.DB, locationID, directoryID string, offset, limit int) ([]domain.Business, error)
}

// CatalogService provides the public browse surface and administrative
// catalog management.
type CatalogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the catalog repository used by this service.
	Repo CatalogRepo
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB, r CatalogRepo) *CatalogService {
	return &CatalogService{DB: db, Repo: r}
}

// Locations returns all active locations.
func (s *CatalogService) Locations(ctx context.Context) ([]domain.Location, error) {
	return s.Repo.ListActiveLocations(ctx, s.DB)
}

// Location resolves a location by slug.
func (s *CatalogService) Location(ctx context.Context, locSlug string) (*domain.Location, error) {
	l, err := s.Repo.GetLocationBySlug(ctx, s.DB, locSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return l, nil
}

// Directories returns the active categories under a location slug.
func (s *CatalogService) Directories(ctx context.Context, locSlug string) ([]domain.Directory, error) {
	l, err := s.Location(ctx, locSlug)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListDirectories(ctx, s.DB, l.ID)
}

// Scope resolves a (location slug, directory slug) pair to its IDs for
// browse queries and ETag stats.
func (s *CatalogService) Scope(ctx context.Context, locSlug, dirSlug string) (*domain.Location, *domain.Directory, error) {
	l, err := s.Location(ctx, locSlug)
	if err != nil {
		return nil, nil, err
	}
	d, err := s.Repo.GetDirectoryBySlug(ctx, s.DB, l.ID, dirSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDirectoryNotFound
		}
		return nil, nil, err
	}
	return l, d, nil
}

// Browse returns a page of publicly visible listings (approved and active)
// for a scope, plus the total count.
func (s *CatalogService) Browse(ctx context.Context, locSlug, dirSlug string, page, pageSize int) ([]domain.Business, int64, error) {
	_, d, err := s.Scope(ctx, locSlug, dirSlug)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountVisibleBusinesses(ctx, s.DB, d.LocationID, d.ID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Business{}, 0, nil
	}

	items, err := s.Repo.ListVisibleBusinessesPage(ctx, s.DB, d.LocationID, d.ID, offset, pageSize)
	return items, total, err
}

// CreateLocation adds a new location with a slug derived from its name.
func (s *CatalogService) CreateLocation(ctx context.Context, name, region string) (*domain.Location, error) {
	name = strings.TrimSpace(name)
	sl := slug.Base(name)
	if sl == "" {
		return nil, ErrInvalidName
	}
	l := &domain.Location{Slug: sl, Name: name, Region: strings.TrimSpace(region), IsActive: true}
	if err := s.Repo.CreateLocation(ctx, s.DB, l); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return l, nil
}

// CreateDirectory adds a new category under a location slug.
func (s *CatalogService) CreateDirectory(ctx context.Context, locSlug, name, description string) (*domain.Directory, error) {
	l, err := s.Location(ctx, locSlug)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	sl := slug.Base(name)
	if sl == "" {
		return nil, ErrInvalidName
	}
	d := &domain.Directory{
		LocationID:  l.ID,
		Slug:        sl,
		Name:        name,
		Description: strings.TrimSpace(description),
		IsActive:    true,
	}
	if err := s.Repo.CreateDirectory(ctx, s.DB, d); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return d, nil
}
