// Package handlers defines HTTP-layer error codes used across all API
// endpoints.
//
// These symbolic constants are mapped to HTTP responses via the `fail()`
// helper and give clients a stable, machine-readable error taxonomy.
// Generic codes mirror common HTTP status semantics; domain-specific codes
// name business conditions a status alone cannot convey (for instance the
// per-owner listing cap versus a name collision, which both map to 409).
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeOwnerLimit       = "owner_limit_reached"
	ErrCodeNameTaken        = "name_taken"
	ErrCodeInvalidName      = "invalid_name"
	ErrCodeInvalidStatus    = "invalid_status"
	ErrCodeReasonRequired   = "rejection_reason_required"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
