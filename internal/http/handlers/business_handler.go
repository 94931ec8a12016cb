// Business HTTP handlers.
//
// This file exposes the owner-facing REST endpoints for listings:
//   - POST   /businesses                  (submit, idempotent via receipt)
//   - POST   /businesses/check-duplicates (advisory duplicate scan)
//   - GET    /businesses/mine             (owner's listings)
//   - GET    /businesses/{id}            (fetch one)
//   - PUT    /businesses/{id}            (owner edit, forces re-review)
//   - DELETE /businesses/{id}            (destructive removal)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/localspot/go-directory-backend/internal/domain"
	"github.com/localspot/go-directory-backend/internal/http/middleware"
	"github.com/localspot/go-directory-backend/internal/match"
	"github.com/localspot/go-directory-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// BusinessService defines the owner-facing listing operations consumed by
// HTTP handlers. Implementations must be safe for concurrent use and honor
// the provided context.
type BusinessService interface {
	// Create submits a new listing and returns it with duplicate warnings.
	Create(ctx context.Context, in services.CreateBusinessInput) (*services.CreateBusinessResult, error)
	// CheckDuplicates runs the advisory duplicate scan.
	CheckDuplicates(ctx context.Context, name, locationID, excludeID string) (match.Result, error)
	// Get fetches one listing by ID.
	Get(ctx context.Context, id string) (*domain.Business, error)
	// ListByOwner returns every listing held by an owner.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Business, error)
	// OwnerUpdate applies a content edit on behalf of the owner.
	OwnerUpdate(ctx context.Context, ownerID, id string, in services.UpdateBusinessInput) (*domain.Business, error)
	// Delete removes a listing entirely.
	Delete(ctx context.Context, actorID string, isAdmin bool, id string) error
	// FlagDuplicate persists the advisory duplicate marker (admin).
	FlagDuplicate(ctx context.Context, id string, duplicateIDs []string, notes string) error
	// ClearDuplicateFlag resets the duplicate marker (admin).
	ClearDuplicateFlag(ctx context.Context, id string) error
}

// ReceiptStore persists and resolves submission receipts for idempotent
// retries of POST /businesses.
type ReceiptStore interface {
	// Get returns the receipt for (ownerID, key), or an error when none is
	// valid.
	Get(ctx context.Context, ownerID, key string, now time.Time) (*domain.SubmissionReceipt, error)
	// Create records a completed submission under (ownerID, key).
	Create(ctx context.Context, ownerID, key, businessID string, status int, ttl time.Duration) error
}

//
// DTOs
//

// CreateBusinessRequest is the JSON payload for submitting a listing.
type CreateBusinessRequest struct {
	Name        string `json:"name"         binding:"required,min=1,max=255" example:"Sunshine Cleaning"`
	Address     string `json:"address"      binding:"required,min=1,max=255" example:"123 Main St"`
	Phone       string `json:"phone"        binding:"omitempty,max=32"       example:"+1 904 555 0101"`
	Website     string `json:"website"      binding:"omitempty,max=255"      example:"https://sunshine.example"`
	Description string `json:"description"  binding:"omitempty,max=4000"`
	LocationID  string `json:"location_id"  binding:"required,uuid"`
	DirectoryID string `json:"directory_id" binding:"required,uuid"`
}

// CreateBusinessResponse wraps the created listing and the advisory
// duplicate matches found at submission time.
type CreateBusinessResponse struct {
	Business   *domain.Business `json:"business"`
	Duplicates match.Result     `json:"duplicates"`
}

// CheckDuplicatesRequest is the JSON payload for the advisory scan.
type CheckDuplicatesRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255" example:"Joe's Plumbing"`
	// LocationID scopes the candidate set.
	LocationID string `json:"location_id" binding:"required,uuid"`
	// ExcludeBusinessID omits one listing from the scan (re-checking an
	// existing listing being edited).
	ExcludeBusinessID string `json:"exclude_business_id" binding:"omitempty,uuid"`
}

// UpdateBusinessRequest is a partial owner edit; absent fields are left
// unchanged.
type UpdateBusinessRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=255"`
	Address     *string `json:"address"     binding:"omitempty,min=1,max=255"`
	Phone       *string `json:"phone"       binding:"omitempty,max=32"`
	Website     *string `json:"website"     binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=4000"`
}

//
// Handlers
//

// CreateBusiness godoc
// @ID          createBusiness
// @Summary     Submit a business listing
// @Description Creates a PENDING listing for the current owner. Duplicate matches are advisory and never block the submission. Supports Idempotency-Key for safe retries.
// @Tags        Businesses
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true   "Owner ID (set by gateway)"
// @Param       Idempotency-Key  header  string  false  "Stable key for safe retries"
// @Param       body             body    handlers.CreateBusinessRequest  true  "Listing payload"
//
// @Success     201  {object}  handlers.CreateBusinessResponse
// @Success     200  {object}  handlers.CreateBusinessResponse "Replay of a previous submission"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse "Owner limit reached or name taken"
// @Failure     429  {object}  handlers.ErrorResponse "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /businesses [post]
func (h *Handlers) CreateBusiness(c *gin.Context) {
	ctx := c.Request.Context()
	owner := middleware.UserID(c)

	// Serve a replay of a previously completed submission without
	// re-executing side effects.
	if middleware.IsReplay(c) {
		if key, okKey := middleware.SubmissionKey(c); okKey && h.receipts != nil {
			rec, err := h.receipts.Get(ctx, owner, key, time.Now().UTC())
			if err == nil && rec != nil {
				if b, err := h.biz.Get(ctx, rec.BusinessID); err == nil {
					ok(c, http.StatusOK, CreateBusinessResponse{Business: b})
					return
				}
			}
		}
	}

	var req CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.biz.Create(ctx, services.CreateBusinessInput{
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Website:     req.Website,
		Description: req.Description,
		LocationID:  req.LocationID,
		DirectoryID: req.DirectoryID,
		OwnerID:     owner,
		OwnerEmail:  middleware.UserEmail(c),
		OwnerName:   middleware.UserName(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidName):
			fail(c, http.StatusBadRequest, ErrCodeInvalidName, err.Error())
		case errors.Is(err, services.ErrOwnerLimitReached):
			fail(c, http.StatusConflict, ErrCodeOwnerLimit, err.Error())
		case errors.Is(err, services.ErrNameTaken):
			fail(c, http.StatusConflict, ErrCodeNameTaken, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	// Record the receipt best-effort so client retries replay this result.
	if key, okKey := middleware.SubmissionKey(c); okKey && h.receipts != nil {
		_ = h.receipts.Create(ctx, owner, key, res.Business.ID, http.StatusCreated, h.receiptTTL)
	}

	ok(c, http.StatusCreated, CreateBusinessResponse{Business: res.Business, Duplicates: res.Duplicates})
}

// CheckDuplicates godoc
// @ID          checkDuplicates
// @Summary     Check a name for potential duplicates
// @Description Scores the candidate name against every listing in the location. Advisory only; an empty match list means nothing resembles the name.
// @Tags        Businesses
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CheckDuplicatesRequest  true  "Scan payload"
//
// @Success     200  {object}  match.Result
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /businesses/check-duplicates [post]
func (h *Handlers) CheckDuplicates(c *gin.Context) {
	var req CheckDuplicatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	res, err := h.biz.CheckDuplicates(c.Request.Context(), req.Name, req.LocationID, req.ExcludeBusinessID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, res)
}

// MyBusinesses godoc
// @ID          myBusinesses
// @Summary     List the caller's own listings
// @Tags        Businesses
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Owner ID (set by gateway)"
//
// @Success     200  {array}   domain.Business
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /businesses/mine [get]
func (h *Handlers) MyBusinesses(c *gin.Context) {
	items, err := h.biz.ListByOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// GetBusiness godoc
// @ID          getBusiness
// @Summary     Fetch one listing
// @Description Publicly visible listings are returned to anyone; pending or hidden listings only to their owner or an admin.
// @Tags        Businesses
// @Produce     json
//
// @Param       id  path  string  true  "Business ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Business
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Router      /businesses/{id} [get]
func (h *Handlers) GetBusiness(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "business id must be a UUID")
		return
	}
	b, err := h.biz.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrBusinessNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "business not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	// Hide non-visible listings from everyone but their owner and admins.
	if !b.Visible() && b.OwnerID != middleware.UserID(c) && !middleware.IsAdmin(c) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "business not found")
		return
	}
	ok(c, http.StatusOK, b)
}

// UpdateBusiness godoc
// @ID          updateBusiness
// @Summary     Edit a listing as its owner
// @Description Applies a partial edit. Any edit to an approved or rejected listing forces it back to PENDING for re-review.
// @Tags        Businesses
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Owner ID (set by gateway)"
// @Param       id         path    string  true  "Business ID (UUID)"  format(uuid)
// @Param       body       body    handlers.UpdateBusinessRequest  true  "Partial edit"
//
// @Success     200  {object}  domain.Business
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     409  {object}  handlers.ErrorResponse "Name taken"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /businesses/{id} [put]
func (h *Handlers) UpdateBusiness(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "business id must be a UUID")
		return
	}
	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	b, err := h.biz.OwnerUpdate(c.Request.Context(), middleware.UserID(c), id, services.UpdateBusinessInput{
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Website:     req.Website,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBusinessNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "business not found")
		case errors.Is(err, services.ErrNotOwner):
			fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
		case errors.Is(err, services.ErrInvalidName):
			fail(c, http.StatusBadRequest, ErrCodeInvalidName, err.Error())
		case errors.Is(err, services.ErrNameTaken):
			fail(c, http.StatusConflict, ErrCodeNameTaken, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, b)
}

// DeleteBusiness godoc
// @ID          deleteBusiness
// @Summary     Delete a listing
// @Description Removes the listing entirely. Owners may delete their own listings; admins may delete any. This is outside the moderation state machine.
// @Tags        Businesses
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Actor ID (set by gateway)"
// @Param       id         path    string  true  "Business ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /businesses/{id} [delete]
func (h *Handlers) DeleteBusiness(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "business id must be a UUID")
		return
	}
	err := h.biz.Delete(c.Request.Context(), middleware.UserID(c), middleware.IsAdmin(c), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBusinessNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "business not found")
		case errors.Is(err, services.ErrNotOwner):
			fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}
