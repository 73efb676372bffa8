// Lead HTTP handlers.
//
// This file exposes REST endpoints for lead intake:
//   - POST /leads   (create, gated on any referenced warning's decision)
//   - GET  /leads   (list, paginated)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-crm-backend/internal/domain"
	"github.com/tbourn/go-crm-backend/internal/services"
	"github.com/tbourn/go-crm-backend/internal/utils"
)

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

//
// DTOs
//

// CreateLeadRequest is the JSON payload for creating a lead. WarningID links
// the submission to a duplicate warning the user has already resolved.
type CreateLeadRequest struct {
	// Name is the lead's full name (required).
	Name        string `json:"name" binding:"required,min=1,max=255" example:"Sarah Chen"`
	Email       string `json:"email" example:"s.chen@acme.com"`
	Phone       string `json:"phone" example:"+1 (555) 010-7788"`
	Company     string `json:"company" example:"Acme Corp"`
	LinkedInURL string `json:"linkedin_url" example:"https://www.linkedin.com/in/sarahchen"`
	Title       string `json:"title" example:"VP Engineering"`
	// WarningID references the duplicate warning raised for this submission, if any.
	WarningID string `json:"warning_id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListLeadsResponse wraps a page of leads and pagination information.
type ListLeadsResponse struct {
	Leads      []domain.Lead `json:"leads"`
	Pagination Pagination    `json:"pagination"`
}

//
// Handlers
//

// CreateLead godoc
// @ID          createLead
// @Summary     Create a new lead
// @Description Persists a lead for the current user. When warning_id is set, the referenced duplicate warning must already be resolved as PROCEEDED; a pending warning yields 412 and a cancelled one 409.
// @Tags        Leads
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateLeadRequest  true  "Lead payload"
//
// @Success     201  {object} domain.Lead
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Warning not found"
// @Failure     409  {object} handlers.ErrorResponse "Warning was cancelled"
// @Failure     412  {object} handlers.ErrorResponse "Warning still pending"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /leads [post]
func (h *Handlers) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1-255 chars)")
		return
	}

	in := services.LeadInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		LinkedInURL: req.LinkedInURL,
		Title:       req.Title,
		WarningID:   req.WarningID,
	}

	lead, err := h.leadSvc.Create(c.Request.Context(), actingUser(c), in)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, lead)
	case errors.Is(err, services.ErrNameRequired):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1-255 chars)")
	case errors.Is(err, services.ErrWarningNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "warning not found")
	case errors.Is(err, services.ErrWarningUnresolved):
		fail(c, http.StatusPreconditionFailed, ErrCodeWarningPending, "duplicate warning must be resolved before submitting")
	case errors.Is(err, services.ErrWarningCancelled):
		fail(c, http.StatusConflict, ErrCodeWarningCancelled, "duplicate warning was cancelled; submission is blocked")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
	}
}

// ListLeads godoc
// @ID          listLeads
// @Summary     List leads (paginated)
// @Description Returns a page of the user's leads, newest first.
// @Tags        Leads
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       page       query   int     false "Page number"            minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"         minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListLeadsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /leads [get]
func (h *Handlers) ListLeads(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.leadSvc.ListPage(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListLeadsResponse{
		Leads: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}
