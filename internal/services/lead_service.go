// Package services – LeadService
//
// This file implements the LeadService, which manages lead intake. Creating a
// lead is the caller-side persistence step that follows a duplicate check:
// creation either references no warning (the check came back clean) or a
// warning the user has already resolved as PROCEEDED. The service also
// normalizes identity fields at write time so the candidate reader's
// exact-key lookups stay indexed equality scans.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-crm-backend/internal/domain"
	"github.com/tbourn/go-crm-backend/internal/match"
	"github.com/tbourn/go-crm-backend/internal/repo"
)

// LeadInput carries the form values for a new lead, plus the id of the
// duplicate warning the user resolved, when one was raised.
type LeadInput struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Company     string `json:"company,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Title       string `json:"title,omitempty"`
	WarningID   string `json:"warning_id,omitempty"`
}

// LeadService provides lead intake operations gated on the duplicate-warning
// lifecycle.
type LeadService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// MaxNameRunes caps stored names by rune length.
	MaxNameRunes int
}

// NewLeadService constructs a LeadService with sane defaults.
func NewLeadService(db *gorm.DB) *LeadService {
	return &LeadService{DB: db, MaxNameRunes: 255}
}

// Create persists a new lead owned by the acting user.
//
// Validation:
//   - Name must be non-blank; otherwise ErrNameRequired.
//   - When WarningID is set, the warning must exist (ErrWarningNotFound),
//     must be decided (ErrWarningUnresolved while PENDING), and must have
//     been resolved PROCEEDED (ErrWarningCancelled otherwise).
//
// The gate deliberately re-reads the warning at creation time rather than
// trusting the client's claim that it was resolved.
func (s *LeadService) Create(ctx context.Context, user ActingUser, in LeadInput) (*domain.Lead, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if s.MaxNameRunes > 0 && utf8.RuneCountInString(name) > s.MaxNameRunes {
		name = string([]rune(name)[:s.MaxNameRunes])
	}

	if wid := strings.TrimSpace(in.WarningID); wid != "" {
		w, err := repo.GetWarning(ctx, s.DB, wid)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrWarningNotFound
			}
			return nil, err
		}
		if !w.DecisionMade {
			return nil, ErrWarningUnresolved
		}
		if w.UserDecision != nil && *w.UserDecision == domain.DecisionCancelled {
			return nil, ErrWarningCancelled
		}
	}

	email := strings.TrimSpace(in.Email)
	if norm := match.NormalizeEmail(email); norm != "" {
		email = norm
	}

	lead := &domain.Lead{
		OwnerID:      user.ID,
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		NormPhone:    match.NormalizePhone(in.Phone),
		Company:      strings.TrimSpace(in.Company),
		LinkedInURL:  strings.TrimSpace(in.LinkedInURL),
		NormLinkedIn: match.NormalizeURL(in.LinkedInURL),
		Title:        strings.TrimSpace(in.Title),
		Status:       "new",
		IsActive:     true,
	}
	if err := repo.CreateLead(ctx, s.DB, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// ListPage returns a page of leads (all owners when ownerID is empty).
// It applies defaults for invalid page/pageSize and returns the total count.
func (s *LeadService) ListPage(ctx context.Context, ownerID string, page, pageSize int) ([]domain.Lead, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountLeads(ctx, s.DB, ownerID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Lead{}, 0, nil
	}

	items, err := repo.ListLeadsPage(ctx, s.DB, ownerID, offset, pageSize)
	return items, total, err
}
