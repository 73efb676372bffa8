// Duplicate-detection HTTP handlers.
//
// This file exposes REST endpoints for the duplicate-warning lifecycle:
//   - POST /duplicates/check           (scan a candidate, maybe raise a warning)
//   - POST /warnings/{id}/decision     (record the write-once resolution)
//   - GET  /warnings                   (recent warnings for review)
//   - GET  /warnings/stats             (aggregate outcomes for dashboards)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate service errors into stable HTTP error codes.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-crm-backend/internal/domain"
	"github.com/tbourn/go-crm-backend/internal/http/middleware"
	"github.com/tbourn/go-crm-backend/internal/match"
	"github.com/tbourn/go-crm-backend/internal/repo"
	"github.com/tbourn/go-crm-backend/internal/services"
	"github.com/tbourn/go-crm-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// DuplicateService defines the warning lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type DuplicateService interface {
	// Check scans the record registry for probable duplicates of the candidate.
	Check(ctx context.Context, c match.Candidate, user services.ActingUser) (*services.CheckResult, error)
	// Decide records the write-once resolution of a warning plus its audit entry.
	Decide(ctx context.Context, warningID string, decision domain.Decision, reason string, user services.ActingUser) error
	// Statistics aggregates warning outcomes within an optional time window.
	Statistics(ctx context.Context, from, to *time.Time) (*services.StatisticsSummary, error)
	// ListRecent returns the newest warnings, optionally including resolved ones.
	ListRecent(ctx context.Context, limit int, includeResolved bool) ([]domain.DuplicateWarning, error)
}

// LeadService defines lead intake operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type LeadService interface {
	// Create persists a new lead, gated on any referenced warning's decision.
	Create(ctx context.Context, user services.ActingUser, in services.LeadInput) (*domain.Lead, error)
	// ListPage returns a page of leads and the total count.
	ListPage(ctx context.Context, ownerID string, page, pageSize int) ([]domain.Lead, int64, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for duplicate checks, warning decisions, and
// lead intake. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	dupSvc  DuplicateService
	leadSvc LeadService

	// IdempotencyTTL bounds how long a recorded decision outcome stays
	// replayable for the same Idempotency-Key (<= 0 uses 24h).
	IdempotencyTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(dupSvc DuplicateService, leadSvc LeadService) *Handlers {
	return &Handlers{dupSvc: dupSvc, leadSvc: leadSvc}
}

// decisionDB exposes the concrete DuplicateService's DB handle for idempotency
// bookkeeping. Interface-backed stubs return nil and skip it.
func (h *Handlers) decisionDB() *gorm.DB {
	if svc, ok := h.dupSvc.(*services.DuplicateService); ok {
		return svc.DB
	}
	return nil
}

// idempotencyKey reads the validated key stashed by IdempotencyValidator,
// falling back to the raw header when the validator is not mounted.
func idempotencyKey(c *gin.Context) (string, bool) {
	if k, ok := middleware.GetIdempotencyKey(c); ok {
		return k, true
	}
	if v := strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey)); v != "" {
		return v, true
	}
	return "", false
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// actingUser assembles the acting-user identity from context and demo headers.
func actingUser(c *gin.Context) services.ActingUser {
	u := services.ActingUser{ID: userID(c)}
	if c != nil && c.Request != nil {
		u.Name = strings.TrimSpace(c.GetHeader("X-User-Name"))
		u.Role = strings.TrimSpace(c.GetHeader("X-User-Role"))
	}
	return u
}

//
// DTOs
//

// CheckRequest is the JSON payload for a duplicate check. At least one
// identity field (name, email, phone, company) must be present.
type CheckRequest struct {
	Name          string `json:"name" example:"Sarah Chen"`
	Email         string `json:"email" example:"s.chen@acme.com"`
	Phone         string `json:"phone" example:"+1 (555) 010-7788"`
	Company       string `json:"company" example:"Acme Corp Ltd."`
	LinkedInURL   string `json:"linkedin_url" example:"https://www.linkedin.com/in/sarahchen"`
	Title         string `json:"title" example:"VP Engineering"`
	RecordKind    string `json:"record_kind" example:"LEAD"`
	TriggerAction string `json:"trigger_action" example:"create_lead"`
}

// DecisionRequest is the JSON payload for resolving a warning.
type DecisionRequest struct {
	// Decision must be PROCEEDED or CANCELLED.
	Decision string `json:"decision" binding:"required" example:"PROCEEDED"`
	// Reason is mandatory when the warning (or any match) is HIGH/CRITICAL.
	Reason string `json:"reason" example:"Different person, same employer"`
}

// ListWarningsResponse wraps the recent warnings returned for review.
type ListWarningsResponse struct {
	Warnings []domain.DuplicateWarning `json:"warnings"`
}

//
// Handlers
//

// CheckDuplicates godoc
// @ID          checkDuplicates
// @Summary     Check a candidate record for duplicates
// @Description Scans existing leads, pipeline items, companies, and contacts for probable duplicates of the submitted candidate. Persists a PENDING warning when matches are found; a clean check persists nothing.
// @Tags        Duplicates
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID    header  string  false "User ID (demo header)"  example(user123)
// @Param       X-User-Role  header  string  false "User role"              example(sales_rep)
// @Param       body         body    handlers.CheckRequest  true  "Candidate record"
//
// @Success     200  {object}  services.CheckResult
// @Failure     400  {object}  handlers.ErrorResponse  "No identity fields"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /duplicates/check [post]
func (h *Handlers) CheckDuplicates(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	cand := match.Candidate{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
		Company:       strings.TrimSpace(req.Company),
		LinkedInURL:   strings.TrimSpace(req.LinkedInURL),
		Title:         strings.TrimSpace(req.Title),
		RecordKind:    domain.RecordKind(strings.TrimSpace(req.RecordKind)),
		TriggerAction: strings.TrimSpace(req.TriggerAction),
	}

	res, err := h.dupSvc.Check(c.Request.Context(), cand, actingUser(c))
	if err != nil {
		if errors.Is(err, services.ErrNoIdentityFields) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "at least one identity field (name, email, phone, company) is required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCheckFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, res)
}

// DecideWarning godoc
// @ID          decideWarning
// @Summary     Resolve a duplicate warning
// @Description Records the user's decision (PROCEEDED or CANCELLED) on a pending warning. Decisions are write-once; a second attempt returns 409. A reason is required for HIGH and CRITICAL warnings.
// @Description Supports idempotency via the Idempotency-Key header: retrying a successful decision with the same key replays the 204 instead of conflicting.
// @Tags        Duplicates
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true  "Warning ID (UUID)"      format(uuid) example(141add05-4415-4938-b5a1-17e0d3171aff)
// @Param       body             body    handlers.DecisionRequest  true  "Decision payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request or missing reason"
// @Failure     404  {object} handlers.ErrorResponse "Warning not found"
// @Failure     409  {object} handlers.ErrorResponse "Warning already decided"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /warnings/{id}/decision [post]
func (h *Handlers) DecideWarning(c *gin.Context) {
	ctx := c.Request.Context()
	warningID := c.Param("id")
	if _, err := uuid.Parse(warningID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "warning id must be a UUID")
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path): a stored record means this decision already
	// succeeded for this (user, warning, key); repeat the recorded outcome
	// instead of surfacing a conflict.
	idemKey, _ := idempotencyKey(c)
	if idemKey != "" {
		if db := h.decisionDB(); db != nil {
			if rec, err := repo.GetIdempotency(ctx, db, currentUser, warningID, idemKey, time.Now().UTC()); err == nil && rec != nil {
				c.Header("Idempotency-Replayed", "true")
				c.Status(rec.Status)
				return
			}
		}
	}

	decision := domain.Decision(strings.ToUpper(strings.TrimSpace(req.Decision)))
	err := h.dupSvc.Decide(ctx, warningID, decision, req.Reason, actingUser(c))
	switch {
	case err == nil:
		// Idempotency (store path) – best effort.
		if idemKey != "" {
			if db := h.decisionDB(); db != nil {
				ttl := h.IdempotencyTTL
				if ttl <= 0 {
					ttl = 24 * time.Hour
				}
				_, _ = repo.CreateIdempotency(ctx, db, currentUser, warningID, idemKey, http.StatusNoContent, ttl)
			}
		}
		noContent(c)
	case errors.Is(err, services.ErrInvalidDecision):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "decision must be PROCEEDED or CANCELLED")
	case errors.Is(err, services.ErrReasonRequired):
		fail(c, http.StatusBadRequest, ErrCodeReasonRequired, "a reason is required for HIGH and CRITICAL warnings")
	case errors.Is(err, services.ErrWarningNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "warning not found")
	case errors.Is(err, services.ErrAlreadyDecided):
		fail(c, http.StatusConflict, ErrCodeConflict, "warning already decided")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// ListWarnings godoc
// @ID          listWarnings
// @Summary     List recent duplicate warnings
// @Description Returns the newest warnings for review, pending-only by default.
// @Tags        Duplicates
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"            example(user123)
// @Param       limit            query   int     false "Maximum warnings to return"       minimum(1) maximum(200) default(50)
// @Param       include_resolved query   bool    false "Include decided warnings as well" default(false)
//
// @Success     200  {object} handlers.ListWarningsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /warnings [get]
func (h *Handlers) ListWarnings(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 50)
	if limit > 200 {
		limit = 200
	}
	includeResolved := strings.EqualFold(c.Query("include_resolved"), "true")

	warnings, err := h.dupSvc.ListRecent(c.Request.Context(), limit, includeResolved)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListWarningsResponse{Warnings: warnings})
}

// WarningStats godoc
// @ID          warningStats
// @Summary     Aggregate warning statistics
// @Description Returns totals, decision counts, the proceed rate, and a per-severity breakdown over an optional RFC 3339 time window.
// @Tags        Duplicates
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"           example(user123)
// @Param       from       query   string  false "Window start (RFC 3339)"         example(2026-08-01T00:00:00Z)
// @Param       to         query   string  false "Window end (RFC 3339)"           example(2026-08-31T23:59:59Z)
//
// @Success     200  {object} services.StatisticsSummary
// @Failure     400  {object} handlers.ErrorResponse "Malformed timestamp"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /warnings/stats [get]
func (h *Handlers) WarningStats(c *gin.Context) {
	var from, to *time.Time
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from must be RFC 3339")
			return
		}
		from = &t
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "to must be RFC 3339")
			return
		}
		to = &t
	}

	stats, err := h.dupSvc.Statistics(c.Request.Context(), from, to)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, stats)
}
