// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Location
// and Directory catalog models.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localspot/go-directory-backend/internal/domain"
)

// CreateLocation inserts a new location. Returns ErrDuplicate on a slug
// collision.
func CreateLocation(ctx context.Context, db *gorm.DB, l *domain.Location) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListActiveLocations returns all active locations ordered by name.
func ListActiveLocations(ctx context.Context, db *gorm.DB) ([]domain.Location, error) {
	var out []domain.Location
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// GetLocationBySlug fetches a location by its slug, or ErrNotFound.
func GetLocationBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Location, error) {
	var l domain.Location
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateDirectory inserts a new category under a location. Returns
// ErrDuplicate when the (location, slug) pair is already taken.
func CreateDirectory(ctx context.Context, db *gorm.DB, d *domain.Directory) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListDirectories returns all active categories under locationID, ordered
// by name.
func ListDirectories(ctx context.Context, db *gorm.DB, locationID string) ([]domain.Directory, error) {
	var out []domain.Directory
	err := db.WithContext(ctx).
		Where("location_id = ? AND is_active = ?", locationID, true).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// GetDirectoryBySlug fetches a category by its slug within a location, or
// ErrNotFound.
func GetDirectoryBySlug(ctx context.Context, db *gorm.DB, locationID, slug string) (*domain.Directory, error) {
	var d domain.Directory
	err := db.WithContext(ctx).
		Where("location_id = ? AND slug = ?", locationID, slug).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}
