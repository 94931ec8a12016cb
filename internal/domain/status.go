package domain

import "strings"

// Status is the moderation state of a business listing.
//
// The lifecycle is a three-state machine: listings are created PENDING,
// administrators move them to APPROVED or REJECTED, and owner edits send
// them back to PENDING for re-review. The IsActive flag on Business is
// orthogonal and only meaningful while a listing is APPROVED.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Valid reports whether s is one of the known moderation states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (s Status) String() string { return string(s) }

// ParseStatus converts a case-insensitive string into a Status.
// The second return value is false for unrecognized input.
func ParseStatus(v string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(v)))
	return s, s.Valid()
}
