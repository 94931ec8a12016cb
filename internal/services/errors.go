// Package services defines the business logic for the directory: listing
// submission, duplicate detection, moderation, and catalog management. This
// file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Listing-related errors.
var (
	// ErrBusinessNotFound indicates that the requested listing does not exist.
	ErrBusinessNotFound = errors.New("business not found")

	// ErrNotOwner is returned when an owner-scoped operation targets a
	// listing held by someone else.
	ErrNotOwner = errors.New("business does not belong to this owner")

	// ErrOwnerLimitReached is returned when a submission would exceed the
	// per-owner listing cap. Distinct from ErrNameTaken so callers can show
	// a specific, actionable message.
	ErrOwnerLimitReached = errors.New("owner has reached the listing limit")

	// ErrNameTaken is returned when the owner already lists the same name in
	// the same location.
	ErrNameTaken = errors.New("owner already lists this name in the location")

	// ErrInvalidName is returned when a business name normalizes to an empty
	// slug (no alphanumeric content).
	ErrInvalidName = errors.New("business name must contain at least one alphanumeric character")
)

// Moderation errors.
var (
	// ErrInvalidStatus is returned for an unrecognized target status value.
	ErrInvalidStatus = errors.New("unrecognized status value")

	// ErrReasonRequired is returned when a rejection carries no reason.
	ErrReasonRequired = errors.New("rejection requires a non-empty reason")
)

// Catalog errors.
var (
	// ErrLocationNotFound indicates an unknown or inactive location.
	ErrLocationNotFound = errors.New("location not found")

	// ErrDirectoryNotFound indicates an unknown category within a location.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrSlugTaken is returned when a catalog slug is already in use.
	ErrSlugTaken = errors.New("slug already in use")
)
