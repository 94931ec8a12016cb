// Package domain defines the persistence models for locations, directories,
// and business listings. These types are mapped with GORM and form the core
// data layer of the directory application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Location is a geographic partition (typically a city or town) under which
// directories and businesses are scoped.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Slug: URL-safe identifier, unique across all locations.
//   - Name: display name (e.g. "Saint Augustine, FL").
//   - Region: free-form state/region label used for grouping.
//   - IsActive: inactive locations are hidden from public listings.
type Location struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Slug      string         `json:"slug"       gorm:"type:varchar(64);not null;uniqueIndex"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null"`
	Region    string         `json:"region,omitempty" gorm:"type:varchar(64)"`
	IsActive  bool           `json:"is_active"  gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Location.
func (Location) TableName() string { return "locations" }

// Directory is a business category scoped to a single location
// (e.g. "Health & Wellness" in one town). Slugs are unique per location,
// so the same category slug may exist in different locations.
type Directory struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	LocationID  string         `json:"location_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_location_dir_slug,priority:1"`
	Slug        string         `json:"slug"        gorm:"type:varchar(64);not null;uniqueIndex:ux_location_dir_slug,priority:2"`
	Name        string         `json:"name"        gorm:"type:varchar(255);not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	IsActive    bool           `json:"is_active"   gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`

	// Location is the owning geographic scope.
	Location Location `json:"-" gorm:"foreignKey:LocationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Directory.
func (Directory) TableName() string { return "directories" }

// Business is a single listing submitted by an owner into a directory.
//
// Invariants enforced at the storage layer:
//   - Slug is unique within (location_id, directory_id); the same slug may
//     exist in other locations or categories.
//   - (owner_id, name, location_id) is unique, so one owner cannot list the
//     same name twice in the same town.
//
// Lifecycle: created in StatusPending by an owner submission; transitions are
// driven by administrators (see services.ModerationService), except that any
// owner content edit regresses the listing back to StatusPending.
type Business struct {
	ID          string `json:"id"           gorm:"type:char(36);primaryKey"`
	Name        string `json:"name"         gorm:"type:varchar(255);not null;uniqueIndex:ux_owner_name_location,priority:2"`
	Slug        string `json:"slug"         gorm:"type:varchar(64);not null;index;uniqueIndex:ux_scope_slug,priority:3"`
	Address     string `json:"address"      gorm:"type:varchar(255);not null"`
	Phone       string `json:"phone,omitempty"       gorm:"type:varchar(32)"`
	Website     string `json:"website,omitempty"     gorm:"type:varchar(255)"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	LocationID  string `json:"location_id"  gorm:"type:char(36);not null;index;uniqueIndex:ux_scope_slug,priority:1;uniqueIndex:ux_owner_name_location,priority:3"`
	DirectoryID string `json:"directory_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_scope_slug,priority:2"`

	OwnerID    string `json:"owner_id"    gorm:"type:varchar(64);not null;index;uniqueIndex:ux_owner_name_location,priority:1"`
	OwnerEmail string `json:"owner_email" gorm:"type:varchar(255);not null"`
	OwnerName  string `json:"owner_name"  gorm:"type:varchar(255)"`

	Status   Status `json:"status"    gorm:"type:varchar(16);not null;default:'PENDING';index"`
	IsActive bool   `json:"is_active" gorm:"not null"`

	// Advisory duplicate marker; never blocks the listing.
	DuplicateFlag       bool   `json:"duplicate_flag"                 gorm:"not null;default:false"`
	PotentialDuplicates IDList `json:"potential_duplicates,omitempty" gorm:"type:text"`
	DuplicateNotes      string `json:"duplicate_notes,omitempty"      gorm:"type:text"`

	// RejectionReason is non-empty exactly while Status == StatusRejected.
	RejectionReason string `json:"rejection_reason,omitempty" gorm:"type:text"`

	// ApprovedAt/ApprovedBy are set only while Status == StatusApproved.
	ApprovedAt *time.Time `json:"approved_at,omitempty" gorm:"type:DATETIME"`
	ApprovedBy string     `json:"approved_by,omitempty" gorm:"type:varchar(64)"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Directory is the owning category. Listings are cascade-deleted if the
	// directory is removed.
	Directory Directory `json:"-" gorm:"foreignKey:DirectoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Business.
func (Business) TableName() string { return "businesses" }

// Visible reports whether the listing should appear in public directory
// pages: approved by an admin and not temporarily hidden.
func (b *Business) Visible() bool {
	return b.Status == StatusApproved && b.IsActive
}

// SubmissionReceipt records a completed business submission keyed by
// (owner_id, key), enabling safe client retries of POST /businesses without
// creating a second listing. Receipts expire after a TTL and are only
// consulted while valid.
type SubmissionReceipt struct {
	ID         string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	OwnerID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_owner_key,priority:1"`
	Key        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_owner_key,priority:2"`
	BusinessID string    `gorm:"type:TEXT NOT NULL"`
	Status     int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt  time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (SubmissionReceipt) TableName() string { return "submission_receipts" }
