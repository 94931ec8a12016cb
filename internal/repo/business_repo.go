// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Business
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a business is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - Unique-constraint violations on create are mapped to ErrDuplicate so
//     services can run retry-on-conflict slug loops and report name
//     collisions distinctly.
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localspot/go-directory-backend/internal/domain"
	"github.com/localspot/go-directory-backend/internal/match"
)

// CreateBusiness inserts a new listing. The ID is generated when empty and
// CreatedAt is set to UTC. Returns ErrDuplicate when the insert hits either
// the (location, directory, slug) or the (owner, name, location) unique
// index; callers that need to tell the two apart should check the
// owner/name tuple first (see BusinessNameTaken).
func CreateBusiness(ctx context.Context, db *gorm.DB, b *domain.Business) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetBusiness fetches a single listing by ID, or ErrNotFound.
func GetBusiness(ctx context.Context, db *gorm.DB, id string) (*domain.Business, error) {
	var b domain.Business
	if err := db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// SlugExists reports whether slug is already used in the
// (locationID, directoryID) scope, ignoring excludeID when non-empty.
// It satisfies slug.Checker.
func SlugExists(ctx context.Context, db *gorm.DB, slug, locationID, directoryID, excludeID string) (bool, error) {
	q := db.WithContext(ctx).
		Model(&domain.Business{}).
		Where("slug = ? AND location_id = ? AND directory_id = ?", slug, locationID, directoryID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountBusinessesByOwner returns how many listings ownerID currently holds.
// Used inside the creation transaction to enforce the owner cap.
func CountBusinessesByOwner(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Business{}).
		Where("owner_id = ?", ownerID).
		Count(&n).Error
	return n, err
}

// BusinessNameTaken reports whether ownerID already lists name in
// locationID. Checked inside the creation transaction so the error can be
// surfaced as a distinct name-collision condition.
func BusinessNameTaken(ctx context.Context, db *gorm.DB, ownerID, name, locationID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Business{}).
		Where("owner_id = ? AND name = ? AND location_id = ?", ownerID, name, locationID).
		Count(&n).Error
	return n > 0, err
}

// ListDuplicateCandidates returns every listing in locationID (across all
// directories) as duplicate-scan candidates, excluding excludeID when
// non-empty. Only the columns the detector needs are selected.
func ListDuplicateCandidates(ctx context.Context, db *gorm.DB, locationID, excludeID string) ([]match.Candidate, error) {
	q := db.WithContext(ctx).
		Model(&domain.Business{}).
		Select("id", "name", "owner_email").
		Where("location_id = ?", locationID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var rows []struct {
		ID         string
		Name       string
		OwnerEmail string
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]match.Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, match.Candidate{ID: r.ID, Name: r.Name, OwnerEmail: r.OwnerEmail})
	}
	return out, nil
}

// ListBusinessesByOwner returns all listings held by ownerID, newest first.
func ListBusinessesByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Business, error) {
	var out []domain.Business
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountVisibleBusinesses returns the number of approved, active listings in
// the (locationID, directoryID) scope.
func CountVisibleBusinesses(ctx context.Context, db *gorm.DB, locationID, directoryID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Business{}).
		Where("location_id = ? AND directory_id = ? AND status = ? AND is_active = ?",
			locationID, directoryID, domain.StatusApproved, true).
		Count(&n).Error
	return n, err
}

// ListVisibleBusinessesPage returns a page of approved, active listings in
// the scope, ordered by name.
func ListVisibleBusinessesPage(ctx context.Context, db *gorm.DB, locationID, directoryID string, offset, limit int) ([]domain.Business, error) {
	var out []domain.Business
	err := db.WithContext(ctx).
		Where("location_id = ? AND directory_id = ? AND status = ? AND is_active = ?",
			locationID, directoryID, domain.StatusApproved, true).
		Order("name asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountBusinessesByStatus returns the moderation-queue size for a status.
// An empty status counts all listings.
func CountBusinessesByStatus(ctx context.Context, db *gorm.DB, status domain.Status) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Business{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// ListBusinessesByStatusPage returns a page of listings filtered by status
// (all statuses when empty), oldest submissions first so the moderation
// queue is served in order.
func ListBusinessesByStatusPage(ctx context.Context, db *gorm.DB, status domain.Status, offset, limit int) ([]domain.Business, error) {
	q := db.WithContext(ctx).Model(&domain.Business{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.Business
	err := q.Order("created_at asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateBusinessFields applies a partial update to the listing row.
// If no rows are affected (listing missing), it returns ErrNotFound.
func UpdateBusinessFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Business{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteBusiness soft-deletes a listing. This is the destructive operation
// outside the moderation state machine; it returns ErrNotFound when the
// listing does not exist.
func DeleteBusiness(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Business{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
