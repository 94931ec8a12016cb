// Package services – BusinessService
//
// This file implements the BusinessService, which manages the lifecycle of
// business listings from the owner's side: submission (with the owner cap,
// name-collision check, slug assignment, and duplicate scan inside one
// transaction), content edits (with the automatic status regression), the
// advisory duplicate check, duplicate flag persistence, and deletion.
//
// Service-level errors (e.g. ErrOwnerLimitReached, ErrNameTaken) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/localspot/go-directory-backend/internal/domain"
	"github.com/localspot/go-directory-backend/internal/match"
	"github.com/localspot/go-directory-backend/internal/repo"
	"github.com/localspot/go-directory-backend/internal/slug"
)

// BusinessRepo defines the repository contract required by BusinessService.
// Implementations are responsible for persistence of listing aggregates.
type BusinessRepo interface {
	// CreateBusiness inserts a new listing row.
	CreateBusiness(ctx context.Context, db *gorm.DB, b *domain.Business) error

	// GetBusiness fetches a listing by ID.
	GetBusiness(ctx context.Context, db *gorm.DB, id string) (*domain.Business, error)

	// SlugExists reports whether a slug is taken within a scope.
	SlugExists(ctx context.Context, db *gorm.DB, slug, locationID, directoryID, excludeID string) (bool, error)

	// CountBusinessesByOwner returns the owner's current listing count.
	CountBusinessesByOwner(ctx context.Context, db *gorm.DB, ownerID string) (int64, error)

	// BusinessNameTaken reports whether the owner already lists this name in
	// the location.
	BusinessNameTaken(ctx context.Context, db *gorm.DB, ownerID, name, locationID string) (bool, error)

	// ListDuplicateCandidates returns the duplicate-scan candidate set for a
	// location.
	ListDuplicateCandidates(ctx context.Context, db *gorm.DB, locationID, excludeID string) ([]match.Candidate, error)

	// ListBusinessesByOwner returns all listings held by an owner.
	ListBusinessesByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Business, error)

	// UpdateBusinessFields applies a partial update.
	UpdateBusinessFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error

	// DeleteBusiness removes a listing (destructive, outside the state machine).
	DeleteBusiness(ctx context.Context, db *gorm.DB, id string) error
}

// BusinessService provides owner-facing listing operations. It enforces the
// per-owner cap and name uniqueness transactionally and keeps the duplicate
// flag and slug in step with content edits.
type BusinessService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the business repository used by this service.
	Repo BusinessRepo

	// MaxPerOwner caps how many listings one owner may hold.
	MaxPerOwner int
	// Threshold is the duplicate-detection similarity cutoff (0-100).
	Threshold int
	// RegressOnNoopEdit forces the status regression even when an owner edit
	// changes no field value.
	RegressOnNoopEdit bool
}

// NewBusinessService constructs a BusinessService with the default policy:
// two listings per owner, duplicate threshold 70, regression on no-op edits.
func NewBusinessService(db *gorm.DB, r BusinessRepo) *BusinessService {
	return &BusinessService{
		DB:                db,
		Repo:              r,
		MaxPerOwner:       2,
		Threshold:         match.DefaultThreshold,
		RegressOnNoopEdit: true,
	}
}

// CreateBusinessInput is the validated payload for a listing submission.
type CreateBusinessInput struct {
	Name        string
	Address     string
	Phone       string
	Website     string
	Description string
	LocationID  string
	DirectoryID string
	OwnerID     string
	OwnerEmail  string
	OwnerName   string
}

// CreateBusinessResult carries the persisted listing plus the advisory
// duplicate matches found at submission time.
type CreateBusinessResult struct {
	Business   *domain.Business
	Duplicates match.Result
}

// maxSlugRetries bounds the retry-on-conflict loop that closes the
// check-then-insert window on the slug unique index.
const maxSlugRetries = 3

// Create submits a new listing. The owner cap, the (owner, name, location)
// collision check, the duplicate scan, and the slug assignment all run
// inside a single transaction so two concurrent submissions cannot both
// observe "owner has one listing" and both succeed.
//
// Duplicates never block the submission: matches are recorded on the row as
// an advisory flag and returned to the caller.
func (s *BusinessService) Create(ctx context.Context, in CreateBusinessInput) (*CreateBusinessResult, error) {
	name := strings.TrimSpace(in.Name)
	if slug.Base(name) == "" {
		return nil, ErrInvalidName
	}

	var out CreateBusinessResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		n, err := s.Repo.CountBusinessesByOwner(ctx, tx, in.OwnerID)
		if err != nil {
			return err
		}
		if n >= int64(s.MaxPerOwner) {
			return ErrOwnerLimitReached
		}

		taken, err := s.Repo.BusinessNameTaken(ctx, tx, in.OwnerID, name, in.LocationID)
		if err != nil {
			return err
		}
		if taken {
			return ErrNameTaken
		}

		cands, err := s.Repo.ListDuplicateCandidates(ctx, tx, in.LocationID, "")
		if err != nil {
			return err
		}
		matches := match.Find(name, cands, s.Threshold)
		out.Duplicates = match.Result{HasDuplicates: len(matches) > 0, Matches: matches}

		gen := slug.NewGenerator(s.txChecker(tx))
		for attempt := 0; attempt < maxSlugRetries; attempt++ {
			sl, err := gen.Unique(ctx, name, in.Address, in.LocationID, in.DirectoryID, "")
			if err != nil {
				return err
			}

			b := &domain.Business{
				Name:        name,
				Slug:        sl,
				Address:     strings.TrimSpace(in.Address),
				Phone:       strings.TrimSpace(in.Phone),
				Website:     strings.TrimSpace(in.Website),
				Description: strings.TrimSpace(in.Description),
				LocationID:  in.LocationID,
				DirectoryID: in.DirectoryID,
				OwnerID:     in.OwnerID,
				OwnerEmail:  strings.TrimSpace(in.OwnerEmail),
				OwnerName:   strings.TrimSpace(in.OwnerName),
				Status:      domain.StatusPending,
				IsActive:    true,
			}
			if len(matches) > 0 {
				b.DuplicateFlag = true
				b.PotentialDuplicates = matchIDs(matches)
			}

			err = s.Repo.CreateBusiness(ctx, tx, b)
			if errors.Is(err, repo.ErrDuplicate) {
				// The name tuple was checked above in this transaction, so a
				// unique violation here is a concurrent claim on the slug.
				// Re-derive the next candidate and try again.
				continue
			}
			if err != nil {
				return err
			}
			out.Business = b
			return nil
		}
		return repo.ErrDuplicate
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckDuplicates runs the advisory duplicate scan for a candidate name in a
// location, excluding excludeID when re-checking an existing listing. It is
// read-only and never fails for valid input: an empty result means nothing
// resembles the candidate.
func (s *BusinessService) CheckDuplicates(ctx context.Context, name, locationID, excludeID string) (match.Result, error) {
	cands, err := s.Repo.ListDuplicateCandidates(ctx, s.DB, locationID, excludeID)
	if err != nil {
		return match.Result{}, err
	}
	matches := match.Find(name, cands, s.Threshold)
	return match.Result{HasDuplicates: len(matches) > 0, Matches: matches}, nil
}

// UpdateBusinessInput is a partial owner edit; nil fields are left unchanged.
type UpdateBusinessInput struct {
	Name        *string
	Address     *string
	Phone       *string
	Website     *string
	Description *string
}

// OwnerUpdate applies a content edit on behalf of the listing's owner.
//
// Any edit to an APPROVED or REJECTED listing forces the status back to
// PENDING and clears the approval metadata and rejection reason, so the
// listing is re-reviewed. Whether a no-op edit (no field actually differing)
// still triggers that regression is controlled by RegressOnNoopEdit.
//
// A name change regenerates the slug (excluding the listing's own row from
// the collision check) and refreshes the advisory duplicate flag.
func (s *BusinessService) OwnerUpdate(ctx context.Context, ownerID, id string, in UpdateBusinessInput) (*domain.Business, error) {
	b, err := s.Repo.GetBusiness(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	fields := map[string]any{}
	changed := false
	apply := func(col, cur string, next *string) string {
		if next == nil {
			return cur
		}
		v := strings.TrimSpace(*next)
		if v != cur {
			changed = true
		}
		fields[col] = v
		return v
	}

	newName := apply("name", b.Name, in.Name)
	apply("address", b.Address, in.Address)
	apply("phone", b.Phone, in.Phone)
	apply("website", b.Website, in.Website)
	apply("description", b.Description, in.Description)

	if in.Name != nil && newName != b.Name {
		if slug.Base(newName) == "" {
			return nil, ErrInvalidName
		}
		addr := b.Address
		if in.Address != nil {
			addr = strings.TrimSpace(*in.Address)
		}
		gen := slug.NewGenerator(s.txChecker(s.DB))
		sl, err := gen.Unique(ctx, newName, addr, b.LocationID, b.DirectoryID, b.ID)
		if err != nil {
			return nil, err
		}
		fields["slug"] = sl

		// Refresh the advisory duplicate marker for the new name.
		res, err := s.CheckDuplicates(ctx, newName, b.LocationID, b.ID)
		if err != nil {
			return nil, err
		}
		fields["duplicate_flag"] = res.HasDuplicates
		fields["potential_duplicates"] = matchIDs(res.Matches)
	}

	if (changed || s.RegressOnNoopEdit) && b.Status != domain.StatusPending {
		fields["status"] = domain.StatusPending
		fields["approved_at"] = nil
		fields["approved_by"] = ""
		fields["rejection_reason"] = ""
	}

	if err := s.Repo.UpdateBusinessFields(ctx, s.DB, b.ID, fields); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrNameTaken
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return s.Repo.GetBusiness(ctx, s.DB, b.ID)
}

// Get fetches one listing by ID.
func (s *BusinessService) Get(ctx context.Context, id string) (*domain.Business, error) {
	b, err := s.Repo.GetBusiness(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListByOwner returns every listing held by ownerID, newest first.
func (s *BusinessService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Business, error) {
	return s.Repo.ListBusinessesByOwner(ctx, s.DB, ownerID)
}

// FlagDuplicate persists the advisory duplicate marker on a listing:
// duplicate_flag, the related listing IDs, and optional reviewer notes.
func (s *BusinessService) FlagDuplicate(ctx context.Context, id string, duplicateIDs []string, notes string) error {
	err := s.Repo.UpdateBusinessFields(ctx, s.DB, id, map[string]any{
		"duplicate_flag":       true,
		"potential_duplicates": domain.IDList(duplicateIDs),
		"duplicate_notes":      strings.TrimSpace(notes),
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBusinessNotFound
	}
	return err
}

// ClearDuplicateFlag resets the duplicate marker and its companion fields.
func (s *BusinessService) ClearDuplicateFlag(ctx context.Context, id string) error {
	err := s.Repo.UpdateBusinessFields(ctx, s.DB, id, map[string]any{
		"duplicate_flag":       false,
		"potential_duplicates": nil,
		"duplicate_notes":      "",
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBusinessNotFound
	}
	return err
}

// Delete removes a listing entirely. Owners may delete their own listings;
// admins may delete any. This is destructive and outside the moderation
// state machine.
func (s *BusinessService) Delete(ctx context.Context, actorID string, isAdmin bool, id string) error {
	b, err := s.Repo.GetBusiness(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}
	if !isAdmin && b.OwnerID != actorID {
		return ErrNotOwner
	}
	if err := s.Repo.DeleteBusiness(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}
	return nil
}

// txChecker adapts the repo slug lookup to slug.Checker, bound to the given
// handle so collision checks see uncommitted rows inside a transaction.
func (s *BusinessService) txChecker(db *gorm.DB) slug.Checker {
	return slugCheckerFunc(func(ctx context.Context, sl, locationID, directoryID, excludeID string) (bool, error) {
		return s.Repo.SlugExists(ctx, db, sl, locationID, directoryID, excludeID)
	})
}

// slugCheckerFunc adapts a function literal to the slug.Checker interface.
type slugCheckerFunc func(ctx context.Context, slug, locationID, directoryID, excludeID string) (bool, error)

func (f slugCheckerFunc) SlugExists(ctx context.Context, slug, locationID, directoryID, excludeID string) (bool, error) {
	return f(ctx, slug, locationID, directoryID, excludeID)
}

// matchIDs projects the matched listing IDs for storage on the row.
func matchIDs(ms []match.Match) domain.IDList {
	if len(ms) == 0 {
		return nil
	}
	ids := make(domain.IDList, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.BusinessID)
	}
	return ids
}
