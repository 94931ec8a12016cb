// Catalog HTTP handlers.
//
// This file exposes the public browse surface:
//   - GET /locations                                          (active locations)
//   - GET /locations/{loc}/directories                        (categories)
//   - GET /locations/{loc}/directories/{dir}/businesses       (visible listings, paginated, weak ETag)
//
// Browse responses only ever contain approved, active listings; pending and
// hidden rows are invisible here regardless of the caller.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/localspot/go-directory-backend/internal/domain"
	"github.com/localspot/go-directory-backend/internal/services"
	"github.com/localspot/go-directory-backend/internal/utils"
)

// CatalogService defines the catalog and browse operations consumed by HTTP
// handlers.
type CatalogService interface {
	// Locations returns all active locations.
	Locations(ctx context.Context) ([]domain.Location, error)
	// Directories returns the active categories under a location slug.
	Directories(ctx context.Context, locSlug string) ([]domain.Directory, error)
	// Scope resolves a (location slug, directory slug) pair.
	Scope(ctx context.Context, locSlug, dirSlug string) (*domain.Location, *domain.Directory, error)
	// Browse returns a page of visible listings plus the total count.
	Browse(ctx context.Context, locSlug, dirSlug string, page, pageSize int) ([]domain.Business, int64, error)
	// CreateLocation adds a location (admin).
	CreateLocation(ctx context.Context, name, region string) (*domain.Location, error)
	// CreateDirectory adds a category under a location (admin).
	CreateDirectory(ctx context.Context, locSlug, name, description string) (*domain.Directory, error)
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// BrowseResponse wraps a page of visible listings and pagination information.
type BrowseResponse struct {
	Businesses []domain.Business `json:"businesses"`
	Pagination Pagination        `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// paginate computes the metadata envelope for a result page.
func paginate(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Handlers
//

// ListLocations godoc
// @ID          listLocations
// @Summary     List active locations
// @Tags        Catalog
// @Produce     json
//
// @Success     200  {array}   domain.Location
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /locations [get]
func (h *Handlers) ListLocations(c *gin.Context) {
	items, err := h.cat.Locations(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// ListDirectories godoc
// @ID          listDirectories
// @Summary     List categories under a location
// @Tags        Catalog
// @Produce     json
//
// @Param       loc  path  string  true  "Location slug"  example(jacksonville)
//
// @Success     200  {array}   domain.Directory
// @Failure     404  {object}  handlers.ErrorResponse "Location not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /locations/{loc}/directories [get]
func (h *Handlers) ListDirectories(c *gin.Context) {
	items, err := h.cat.Directories(c.Request.Context(), c.Param("loc"))
	if err != nil {
		if errors.Is(err, services.ErrLocationNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "location not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// BrowseBusinesses godoc
// @ID          browseBusinesses
// @Summary     Browse visible listings in a category (paginated)
// @Description Returns approved, active listings for a (location, directory) scope, ordered by name. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Catalog
// @Produce     json
//
// @Param       loc            path    string  true  "Location slug"   example(jacksonville)
// @Param       dir            path    string  true  "Directory slug"  example(plumbers)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.BrowseResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     404  {object} handlers.ErrorResponse "Unknown location or directory"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /locations/{loc}/directories/{dir}/businesses [get]
func (h *Handlers) BrowseBusinesses(c *gin.Context) {
	ctx := c.Request.Context()
	locSlug, dirSlug := c.Param("loc"), c.Param("dir")
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if h.browseStats != nil {
		if _, d, err := h.cat.Scope(ctx, locSlug, dirSlug); err == nil {
			count, maxTS, err := h.browseStats(ctx, d.LocationID, d.ID)
			if err == nil {
				var ts int64
				if maxTS != nil {
					ts = maxTS.Unix()
				}
				etag := fmt.Sprintf(`W/"biz:%s:%s:%d:%d"`, locSlug, dirSlug, count, ts)
				c.Header("ETag", etag)
				if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
					c.Status(http.StatusNotModified)
					return
				}
			}
		}
	}

	items, total, err := h.cat.Browse(ctx, locSlug, dirSlug, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLocationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "location not found")
		case errors.Is(err, services.ErrDirectoryNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "directory not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, BrowseResponse{
		Businesses: items,
		Pagination: paginate(page, pageSize, total),
	})
}
