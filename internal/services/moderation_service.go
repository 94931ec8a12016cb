// Package services – ModerationService
//
// This file implements the administrative moderation workflow: the
// PENDING/APPROVED/REJECTED state machine, the orthogonal active/inactive
// toggle, and the best-effort owner notification fired on each transition.
// All validation happens before any mutation, so an invalid request never
// leaves partial state behind.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/localspot/go-directory-backend/internal/domain"
	"github.com/localspot/go-directory-backend/internal/notify"
)

// moderationTransitions counts completed status transitions by target state,
// giving dashboards a view of moderation throughput.
var moderationTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "business_status_transitions_total",
		Help: "Total number of business moderation status transitions.",
	},
	[]string{"to"},
)

func init() {
	prometheus.MustRegister(moderationTransitions)
}

// ModerationRepo defines the repository contract required by
// ModerationService.
type ModerationRepo interface {
	GetBusiness(ctx context.Context, db *gorm.DB, id string) (*domain.Business, error)
	UpdateBusinessFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error
	ListBusinessesByStatusPage(ctx context.Context, db *gorm.DB, status domain.Status, offset, limit int) ([]domain.Business, error)
	CountBusinessesByStatus(ctx context.Context, db *gorm.DB, status domain.Status) (int64, error)
}

// ModerationService drives the listing state machine on behalf of
// administrators. Authorization (who is an admin) is decided upstream; the
// service trusts the supplied actor identity.
type ModerationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the moderation repository used by this service.
	Repo ModerationRepo
	// Notifier delivers best-effort status notifications to owners.
	Notifier notify.Notifier

	// now is injectable for tests; defaults to UTC wall clock.
	now func() time.Time
}

// NewModerationService constructs a ModerationService.
func NewModerationService(db *gorm.DB, r ModerationRepo, n notify.Notifier) *ModerationService {
	return &ModerationService{
		DB:       db,
		Repo:     r,
		Notifier: n,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// TransitionResult reports a completed status transition. EmailSent is
// informational only: notification failure never rolls back the transition.
type TransitionResult struct {
	Business  *domain.Business
	EmailSent bool
}

// Transition moves a listing to the target status on behalf of adminID.
//
// Rules (validated before any mutation):
//   - target must be a recognized status
//   - REJECTED requires a non-empty reason
//
// Field effects:
//   - -> APPROVED: sets approved_at/approved_by, clears rejection_reason
//   - -> REJECTED: sets rejection_reason, clears approved_at/approved_by
//   - -> PENDING:  clears approved_at, approved_by, and rejection_reason
//
// After the row is updated, the owner is notified best-effort; a delivery
// failure is logged and surfaced via TransitionResult.EmailSent only.
func (s *ModerationService) Transition(ctx context.Context, adminID, businessID string, target domain.Status, reason string) (*TransitionResult, error) {
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}
	reason = strings.TrimSpace(reason)
	if target == domain.StatusRejected && reason == "" {
		return nil, ErrReasonRequired
	}

	if _, err := s.Repo.GetBusiness(ctx, s.DB, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	fields := map[string]any{"status": target}
	switch target {
	case domain.StatusApproved:
		fields["approved_at"] = s.now()
		fields["approved_by"] = adminID
		fields["rejection_reason"] = ""
	case domain.StatusRejected:
		fields["rejection_reason"] = reason
		fields["approved_at"] = nil
		fields["approved_by"] = ""
	case domain.StatusPending:
		fields["approved_at"] = nil
		fields["approved_by"] = ""
		fields["rejection_reason"] = ""
	}

	if err := s.Repo.UpdateBusinessFields(ctx, s.DB, businessID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	moderationTransitions.WithLabelValues(target.String()).Inc()

	updated, err := s.Repo.GetBusiness(ctx, s.DB, businessID)
	if err != nil {
		return nil, err
	}

	emailSent := s.notifyOwner(ctx, updated, target, reason)
	return &TransitionResult{Business: updated, EmailSent: emailSent}, nil
}

// SetActive flips the active/inactive visibility toggle. It is independent
// of the moderation states and only meaningful while a listing is APPROVED;
// the flag is stored regardless so it survives re-approval.
func (s *ModerationService) SetActive(ctx context.Context, businessID string, active bool) (*domain.Business, error) {
	if err := s.Repo.UpdateBusinessFields(ctx, s.DB, businessID, map[string]any{"is_active": active}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return s.Repo.GetBusiness(ctx, s.DB, businessID)
}

// Queue returns a page of the moderation queue filtered by status (all
// statuses when empty), oldest first, plus the total count.
func (s *ModerationService) Queue(ctx context.Context, status domain.Status, page, pageSize int) ([]domain.Business, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountBusinessesByStatus(ctx, s.DB, status)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Business{}, 0, nil
	}

	items, err := s.Repo.ListBusinessesByStatusPage(ctx, s.DB, status, offset, pageSize)
	return items, total, err
}

// notifyOwner delivers the transition notification and reports success.
// Failures are logged, never propagated.
func (s *ModerationService) notifyOwner(ctx context.Context, b *domain.Business, target domain.Status, reason string) bool {
	if s.Notifier == nil || b.OwnerEmail == "" {
		return false
	}
	err := s.Notifier.StatusChanged(ctx, notify.StatusNotification{
		RecipientEmail:  b.OwnerEmail,
		RecipientName:   b.OwnerName,
		BusinessName:    b.Name,
		NewStatus:       target,
		RejectionReason: reason,
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("business_id", b.ID).
			Str("status", target.String()).
			Msg("status notification failed")
		return false
	}
	return true
}
