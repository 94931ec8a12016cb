// Administrative HTTP handlers.
//
// This file exposes the moderation surface mounted under /admin (guarded by
// RequireAdmin in the router):
//   - GET    /admin/businesses                 (moderation queue, filter by status)
//   - PUT    /admin/businesses/{id}/status     (state machine transition)
//   - PUT    /admin/businesses/{id}/active     (visibility toggle)
//   - PUT    /admin/businesses/{id}/duplicate  (set the duplicate marker)
//   - DELETE /admin/businesses/{id}/duplicate  (clear the duplicate marker)
//   - POST   /admin/locations                  (add a location)
//   - POST   /admin/locations/{loc}/directories (add a category)
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/localspot/go-directory-backend/internal/domain"
	"github.com/localspot/go-directory-backend/internal/http/middleware"
	"github.com/localspot/go-directory-backend/internal/services"
)

// ModerationService defines the administrative operations consumed by HTTP
// handlers.
type ModerationService interface {
	// Transition moves a listing to the target status.
	Transition(ctx context.Context, adminID, businessID string, target domain.Status, reason string) (*services.TransitionResult, error)
	// SetActive flips the visibility toggle.
	SetActive(ctx context.Context, businessID string, active bool) (*domain.Business, error)
	// Queue returns a page of the moderation queue plus the total count.
	Queue(ctx context.Context, status domain.Status, page, pageSize int) ([]domain.Business, int64, error)
}

//
// DTOs
//

// UpdateStatusRequest is the JSON payload for a moderation transition.
type UpdateStatusRequest struct {
	// Status is the target state: PENDING, APPROVED, or REJECTED.
	Status string `json:"status" binding:"required" example:"APPROVED"`
	// Reason is required when rejecting; ignored otherwise.
	Reason string `json:"reason" binding:"omitempty,max=1000" example:"Listing content violates guidelines"`
}

// UpdateStatusResponse reports the completed transition. EmailSent is
// informational; a failed notification never fails the request.
type UpdateStatusResponse struct {
	Business  *domain.Business `json:"business"`
	EmailSent bool             `json:"email_sent"`
}

// SetActiveRequest is the JSON payload for the visibility toggle.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// FlagDuplicateRequest marks a listing as a suspected duplicate of others.
type FlagDuplicateRequest struct {
	DuplicateIDs []string `json:"duplicate_ids" binding:"required,min=1,dive,uuid"`
	Notes        string   `json:"notes" binding:"omitempty,max=1000"`
}

// QueueResponse wraps a page of the moderation queue.
type QueueResponse struct {
	Businesses []domain.Business `json:"businesses"`
	Pagination Pagination        `json:"pagination"`
}

// CreateLocationRequest is the JSON payload for adding a location.
type CreateLocationRequest struct {
	Name   string `json:"name"   binding:"required,min=1,max=255" example:"Jacksonville"`
	Region string `json:"region" binding:"omitempty,max=255"      example:"FL"`
}

// CreateDirectoryRequest is the JSON payload for adding a category.
type CreateDirectoryRequest struct {
	Name        string `json:"name"        binding:"required,min=1,max=255" example:"Plumbers"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

//
// Handlers
//

// ModerationQueue godoc
// @ID          moderationQueue
// @Summary     List the moderation queue (paginated)
// @Description Returns listings oldest-first, optionally filtered by status. An empty status returns every listing.
// @Tags        Admin
// @Produce     json
//
// @Param       X-User-ID    header  string  true   "Admin ID (set by gateway)"
// @Param       X-User-Role  header  string  true   "Must be admin"
// @Param       status       query   string  false  "PENDING, APPROVED, or REJECTED"
// @Param       page         query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size    query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.QueueResponse
// @Failure     400  {object}  handlers.ErrorResponse "Unknown status filter"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse "Forbidden"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/businesses [get]
func (h *Handlers) ModerationQueue(c *gin.Context) {
	page, pageSize := clampPagination(c)
	status := domain.Status(c.Query("status"))

	items, total, err := h.mod.Queue(c.Request.Context(), status, page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			fail(c, http.StatusBadRequest, ErrCodeInvalidStatus, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, QueueResponse{
		Businesses: items,
		Pagination: paginate(page, pageSize, total),
	})
}

// UpdateStatus godoc
// @ID          updateBusinessStatus
// @Summary     Transition a listing's moderation status
// @Description Moves the listing to PENDING, APPROVED, or REJECTED. Rejection requires a reason. The owner is notified best-effort; email_sent reports delivery.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Admin ID (set by gateway)"
// @Param       X-User-Role  header  string  true  "Must be admin"
// @Param       id           path    string  true  "Business ID (UUID)"  format(uuid)
// @Param       body         body    handlers.UpdateStatusRequest  true  "Target status"
//
// @Success     200  {object}  handlers.UpdateStatusResponse
// @Failure     400  {object}  handlers.ErrorResponse "Unknown status or missing reason"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/businesses/{id}/status [put]
func (h *Handlers) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "business id must be a UUID")
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	target, okStatus := domain.ParseStatus(req.Status)
	if !okStatus {
		fail(c, http.StatusBadRequest, ErrCodeInvalidStatus, "status must be PENDING, APPROVED, or REJECTED")
		return
	}

	res, err := h.mod.Transition(c.Request.Context(), middleware.UserID(c), id, target, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			fail(c, http.StatusBadRequest, ErrCodeInvalidStatus, err.Error())
		case errors.Is(err, services.ErrReasonRequired):
			fail(c, http.StatusBadRequest, ErrCodeReasonRequired, err.Error())
		case errors.Is(err, services.ErrBusinessNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "business not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, UpdateStatusResponse{Business: res.Business, EmailSent: res.EmailSent})
}

// SetActive godoc
// @ID          setBusinessActive
// @Summary     Toggle a listing's visibility
// @Description Flips the active flag. Inactive listings disappear from public browse but keep their moderation status.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Admin ID (set by gateway)"
// @Param       X-User-Role  header  string  true  "Must be admin"
// @Param       id           path    string  true  "Business ID (UUID)"  format(uuid)
// @Param       body         body    handlers.SetActiveRequest  true  "Active flag"
//
// @Success     200  {object}  domain.Business
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/businesses/{id}/active [put]
func (h *Handlers) SetActive(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "business id must be a UUID")
		return
	}
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "active flag required")
		return
	}

	b, err := h.mod.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		if errors.Is(err, services.ErrBusinessNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "business not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, b)
}

// FlagDuplicate godoc
// @ID          flagDuplicate
// @Summary     Mark a listing as a suspected duplicate
// @Description Stores the duplicate marker, related listing IDs, and reviewer notes. Advisory only; visibility is unaffected.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Admin ID (set by gateway)"
// @Param       X-User-Role  header  string  true  "Must be admin"
// @Param       id           path    string  true  "Business ID (UUID)"  format(uuid)
// @Param       body         body    handlers.FlagDuplicateRequest  true  "Duplicate details"
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/businesses/{id}/duplicate [put]
func (h *Handlers) FlagDuplicate(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "business id must be a UUID")
		return
	}
	var req FlagDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "duplicate_ids required")
		return
	}

	if err := h.biz.FlagDuplicate(c.Request.Context(), id, req.DuplicateIDs, req.Notes); err != nil {
		if errors.Is(err, services.ErrBusinessNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "business not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// ClearDuplicate godoc
// @ID          clearDuplicate
// @Summary     Clear a listing's duplicate marker
// @Tags        Admin
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Admin ID (set by gateway)"
// @Param       X-User-Role  header  string  true  "Must be admin"
// @Param       id           path    string  true  "Business ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/businesses/{id}/duplicate [delete]
func (h *Handlers) ClearDuplicate(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "business id must be a UUID")
		return
	}

	if err := h.biz.ClearDuplicateFlag(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrBusinessNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "business not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// CreateLocation godoc
// @ID          createLocation
// @Summary     Add a location
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Admin ID (set by gateway)"
// @Param       X-User-Role  header  string  true  "Must be admin"
// @Param       body         body    handlers.CreateLocationRequest  true  "Location payload"
//
// @Success     201  {object}  domain.Location
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse "Slug already exists"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/locations [post]
func (h *Handlers) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	l, err := h.cat.CreateLocation(c.Request.Context(), req.Name, req.Region)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidName):
			fail(c, http.StatusBadRequest, ErrCodeInvalidName, err.Error())
		case errors.Is(err, services.ErrSlugTaken):
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, l)
}

// CreateDirectory godoc
// @ID          createDirectory
// @Summary     Add a category under a location
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "Admin ID (set by gateway)"
// @Param       X-User-Role  header  string  true  "Must be admin"
// @Param       loc          path    string  true  "Location slug"  example(jacksonville)
// @Param       body         body    handlers.CreateDirectoryRequest  true  "Category payload"
//
// @Success     201  {object}  domain.Directory
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Location not found"
// @Failure     409  {object}  handlers.ErrorResponse "Slug already exists"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/locations/{loc}/directories [post]
func (h *Handlers) CreateDirectory(c *gin.Context) {
	var req CreateDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	d, err := h.cat.CreateDirectory(c.Request.Context(), c.Param("loc"), req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLocationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "location not found")
		case errors.Is(err, services.ErrInvalidName):
			fail(c, http.StatusBadRequest, ErrCodeInvalidName, err.Error())
		case errors.Is(err, services.ErrSlugTaken):
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, d)
}
