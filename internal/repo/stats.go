// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/localspot/go-directory-backend/internal/domain"
)

// VisibleBusinessStats returns aggregate metadata for the publicly visible
// listings in a (locationID, directoryID) scope: the row count and the
// greatest UpdatedAt among them.
//
// When the scope has no visible listings, the returned count is 0 and
// maxUpdatedAt is nil.
func VisibleBusinessStats(ctx context.Context, db *gorm.DB, locationID, directoryID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).
		Model(&domain.Business{}).
		Where("location_id = ? AND directory_id = ? AND status = ? AND is_active = ?",
			locationID, directoryID, domain.StatusApproved, true)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
