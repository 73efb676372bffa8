// Package match implements the duplicate-detection engine: field
// normalization, deterministic match scoring, and severity classification.
// The package is pure: it performs only in-memory comparisons over a
// candidate set the repository layer has already fetched, and it never
// touches the database itself.
package match

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tbourn/go-crm-backend/internal/domain"
)

// Candidate is the not-yet-persisted record being checked for duplicates.
// It is transient: it exists only for the duration of one check and is never
// stored.
type Candidate struct {
	Name          string            `json:"name"`
	Email         string            `json:"email,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	Company       string            `json:"company,omitempty"`
	LinkedInURL   string            `json:"linkedin_url,omitempty"`
	Title         string            `json:"title,omitempty"`
	RecordKind    domain.RecordKind `json:"record_kind"`
	TriggerAction string            `json:"trigger_action"`
}

// HasIdentityFields reports whether the candidate carries at least one usable
// identity signal (name, email, phone, or company). A candidate with none is
// rejected by the service layer rather than producing a meaningless
// "no warning" result.
func (c Candidate) HasIdentityFields() bool {
	return strings.TrimSpace(c.Name) != "" ||
		strings.TrimSpace(c.Email) != "" ||
		strings.TrimSpace(c.Phone) != "" ||
		strings.TrimSpace(c.Company) != ""
}

// MeetsMinimum reports whether the candidate has enough data to be worth
// scoring: name of at least 2 runes, email of at least 5, or company of at
// least 2. The client trigger protocol uses this to avoid flooding the
// scorer with near-empty candidates while the user is still typing.
func (c Candidate) MeetsMinimum() bool {
	return utf8.RuneCountInString(strings.TrimSpace(c.Name)) >= 2 ||
		utf8.RuneCountInString(strings.TrimSpace(c.Email)) >= 5 ||
		utf8.RuneCountInString(strings.TrimSpace(c.Company)) >= 2
}

// Record is the engine's read model of an existing registry row (lead,
// pipeline item, company, or contact), flattened to the minimal shape the
// scorer needs. The repository layer builds these from the concrete tables;
// the engine never sees the underlying GORM models.
type Record struct {
	ID              string
	Kind            domain.RecordKind
	Name            string
	Email           string
	Phone           string
	Company         string
	LinkedInURL     string
	OwnerID         string
	Status          string
	IsActive        bool
	LastContactDate *time.Time
}
