// Package domain defines the persistence models for the sales CRM: the
// record registry (leads, pipeline items, companies, contacts) and the
// duplicate-detection trail (warnings, potential matches, audit log).
// These types are mapped with GORM and form the core data layer of the
// application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// RecordKind tags which registry table an existing record came from.
// Matching logic treats all kinds through the same minimal shape instead of
// probing optional fields at runtime.
type RecordKind string

// Registry record kinds.
const (
	KindLead         RecordKind = "LEAD"
	KindPipelineItem RecordKind = "PIPELINE_ITEM"
	KindCompany      RecordKind = "COMPANY"
	KindContact      RecordKind = "CONTACT"
)

// Severity ranks how likely a duplicate is genuine.
type Severity string

// Severity levels, ordered weakest to strongest.
const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// severityRank orders severities for max/escalation comparisons.
var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the numeric ordering of s (LOW=1 … CRITICAL=4, unknown=0).
func (s Severity) Rank() int { return severityRank[s] }

// Escalate returns the severity one level above s (CRITICAL stays CRITICAL).
func (s Severity) Escalate() Severity {
	switch s {
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	case SeverityHigh:
		return SeverityCritical
	default:
		return s
	}
}

// RequiresReason reports whether a decision on this severity must carry a
// non-blank reason.
func (s Severity) RequiresReason() bool { return s.Rank() >= severityRank[SeverityHigh] }

// MatchType identifies the identity dimension a potential match fired on.
type MatchType string

// Match types produced by the scorer.
const (
	MatchCompanyName     MatchType = "COMPANY_NAME"
	MatchCompanyDomain   MatchType = "COMPANY_DOMAIN"
	MatchContactEmail    MatchType = "CONTACT_EMAIL"
	MatchContactPhone    MatchType = "CONTACT_PHONE"
	MatchContactName     MatchType = "CONTACT_NAME"
	MatchLinkedInProfile MatchType = "LINKEDIN_PROFILE"
)

// Decision is the user's resolution of a duplicate warning.
type Decision string

// Terminal decisions. A warning with neither remains PENDING.
const (
	DecisionProceeded Decision = "PROCEEDED"
	DecisionCancelled Decision = "CANCELLED"
)

// Lead represents a sales lead in the registry. Leads are the primary target
// of duplicate checking at intake time.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - OwnerID: identifier of the owning sales rep; indexed for retrieval.
//   - Name / Email / Phone / Company / LinkedInURL / Title: identity fields
//     compared by the duplicate engine. Email, normalized phone, and
//     normalized LinkedIn URL are indexed for exact-key candidate lookups.
//   - NormPhone / NormLinkedIn: normalized forms persisted at write time so
//     the exact-key lookups stay indexed equality scans.
//   - Status: pipeline status (free-form, e.g. "new", "contacted").
//   - IsActive: soft activity flag; inactive rows are still scanned.
//   - LastContactDate: optional recency signal surfaced on matches.
type Lead struct {
	ID              string         `json:"id"              gorm:"type:char(36);primaryKey"`
	OwnerID         string         `json:"owner_id"        gorm:"type:varchar(64);not null;index:idx_lead_owner"`
	Name            string         `json:"name"            gorm:"type:varchar(255);not null;index:idx_lead_name"`
	Email           string         `json:"email,omitempty" gorm:"type:varchar(255);index:idx_lead_email"`
	Phone           string         `json:"phone,omitempty" gorm:"type:varchar(64)"`
	NormPhone       string         `json:"-"               gorm:"type:varchar(32);index:idx_lead_norm_phone"`
	Company         string         `json:"company,omitempty" gorm:"type:varchar(255);index:idx_lead_company"`
	LinkedInURL     string         `json:"linkedin_url,omitempty" gorm:"type:varchar(512)"`
	NormLinkedIn    string         `json:"-"               gorm:"type:varchar(512);index:idx_lead_norm_li"`
	Title           string         `json:"title,omitempty" gorm:"type:varchar(255)"`
	Status          string         `json:"status"          gorm:"type:varchar(32);not null;default:'new'"`
	IsActive        bool           `json:"is_active"       gorm:"not null;default:true"`
	LastContactDate *time.Time     `json:"last_contact_date,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-"               gorm:"index"`
}

// TableName returns the database table name for Lead.
func (Lead) TableName() string { return "leads" }

// PipelineItem represents an opportunity being worked in the sales pipeline.
// It carries the same identity fields as Lead so the duplicate engine can
// scan both through one shape.
type PipelineItem struct {
	ID              string         `json:"id"              gorm:"type:char(36);primaryKey"`
	OwnerID         string         `json:"owner_id"        gorm:"type:varchar(64);not null;index:idx_pipe_owner"`
	Name            string         `json:"name"            gorm:"type:varchar(255);not null;index:idx_pipe_name"`
	Email           string         `json:"email,omitempty" gorm:"type:varchar(255);index:idx_pipe_email"`
	Phone           string         `json:"phone,omitempty" gorm:"type:varchar(64)"`
	NormPhone       string         `json:"-"               gorm:"type:varchar(32);index:idx_pipe_norm_phone"`
	Company         string         `json:"company,omitempty" gorm:"type:varchar(255);index:idx_pipe_company"`
	LinkedInURL     string         `json:"linkedin_url,omitempty" gorm:"type:varchar(512)"`
	NormLinkedIn    string         `json:"-"               gorm:"type:varchar(512);index:idx_pipe_norm_li"`
	Stage           string         `json:"stage"           gorm:"type:varchar(32);not null;default:'prospect'"`
	Status          string         `json:"status"          gorm:"type:varchar(32);not null;default:'open'"`
	IsActive        bool           `json:"is_active"       gorm:"not null;default:true"`
	LastContactDate *time.Time     `json:"last_contact_date,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-"               gorm:"index"`
}

// TableName returns the database table name for PipelineItem.
func (PipelineItem) TableName() string { return "pipeline_items" }

// Company is a registry entry for an organisation known to the CRM.
type Company struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	OwnerID   string         `json:"owner_id"   gorm:"type:varchar(64);not null;index"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null;index:idx_company_name"`
	Domain    string         `json:"domain,omitempty" gorm:"type:varchar(255);index:idx_company_domain"`
	Status    string         `json:"status"     gorm:"type:varchar(32);not null;default:'active'"`
	IsActive  bool           `json:"is_active"  gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Company.
func (Company) TableName() string { return "companies" }

// Contact is a registry entry for an individual person, optionally attached
// to a company.
type Contact struct {
	ID              string         `json:"id"              gorm:"type:char(36);primaryKey"`
	OwnerID         string         `json:"owner_id"        gorm:"type:varchar(64);not null;index"`
	Name            string         `json:"name"            gorm:"type:varchar(255);not null;index:idx_contact_name"`
	Email           string         `json:"email,omitempty" gorm:"type:varchar(255);index:idx_contact_email"`
	Phone           string         `json:"phone,omitempty" gorm:"type:varchar(64)"`
	NormPhone       string         `json:"-"               gorm:"type:varchar(32);index:idx_contact_norm_phone"`
	Company         string         `json:"company,omitempty" gorm:"type:varchar(255);index:idx_contact_company"`
	LinkedInURL     string         `json:"linkedin_url,omitempty" gorm:"type:varchar(512)"`
	NormLinkedIn    string         `json:"-"               gorm:"type:varchar(512);index:idx_contact_norm_li"`
	Title           string         `json:"title,omitempty" gorm:"type:varchar(255)"`
	Status          string         `json:"status"          gorm:"type:varchar(32);not null;default:'active'"`
	IsActive        bool           `json:"is_active"       gorm:"not null;default:true"`
	LastContactDate *time.Time     `json:"last_contact_date,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-"               gorm:"index"`
}

// TableName returns the database table name for Contact.
func (Contact) TableName() string { return "contacts" }

// DuplicateWarning is the persisted result of one duplicate check that found
// at least one potential match. Checks that find nothing persist no row.
//
// Lifecycle: created PENDING (DecisionMade=false) and flipped exactly once to
// a decided state by a conditional update; a warning abandoned by its form
// session simply stays PENDING. DecisionMade=true implies UserDecision and
// DecisionAt are both set; false implies both unset.
type DuplicateWarning struct {
	ID            string     `json:"id"             gorm:"type:char(36);primaryKey"`
	Severity      Severity   `json:"severity"       gorm:"type:varchar(16);not null;index:idx_warning_severity"`
	TriggeredBy   string     `json:"triggered_by"   gorm:"type:varchar(64);not null;index:idx_warning_user"`
	TriggeredRole string     `json:"triggered_role" gorm:"type:varchar(32);not null"`
	TriggerAction string     `json:"trigger_action" gorm:"type:varchar(64);not null"`
	DecisionMade  bool       `json:"decision_made"  gorm:"not null;default:false;index:idx_warning_decided"`
	UserDecision  *Decision  `json:"user_decision,omitempty" gorm:"type:varchar(16)"`
	DecisionAt    *time.Time `json:"decision_at,omitempty"`
	Reason        string     `json:"reason,omitempty" gorm:"type:text"`
	CreatedAt     time.Time  `json:"created_at"     gorm:"index:idx_warning_created"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Matches are the scored relationships backing this warning, ordered by
	// descending confidence. Never empty for a persisted warning.
	Matches []PotentialMatch `json:"matches" gorm:"foreignKey:WarningID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for DuplicateWarning.
func (DuplicateWarning) TableName() string { return "duplicate_warnings" }

// PotentialMatch is one scored relationship between the checked candidate and
// a single existing record. Immutable once written; owned by exactly one
// warning.
//
// RecordName is a snapshot taken at scan time so the admin surface can render
// a match even after the underlying record has been deleted.
type PotentialMatch struct {
	ID           string     `json:"id"            gorm:"type:char(36);primaryKey"`
	WarningID    string     `json:"warning_id"    gorm:"type:char(36);not null;index:idx_match_warning"`
	MatchType    MatchType  `json:"match_type"    gorm:"type:varchar(32);not null"`
	Confidence   float64    `json:"confidence"    gorm:"not null"`
	Severity     Severity   `json:"severity"      gorm:"type:varchar(16);not null"`
	MatchDetails string     `json:"match_details" gorm:"type:varchar(255);not null"`
	RecordID     string     `json:"record_id"     gorm:"type:char(36);not null;index:idx_match_record"`
	RecordKind   RecordKind `json:"record_kind"   gorm:"type:varchar(16);not null"`
	RecordName   string     `json:"record_name"   gorm:"type:varchar(255)"`
	RecordOwner  string     `json:"record_owner"  gorm:"type:varchar(64)"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName returns the database table name for PotentialMatch.
func (PotentialMatch) TableName() string { return "potential_matches" }

// AuditLogEntry is an append-only, denormalized copy of a decided warning,
// written in the same transaction that records the decision. It backs
// long-term reporting even after the warning's source session is gone.
// Exactly one entry exists per decided warning (enforced by unique index).
type AuditLogEntry struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	WarningID     string    `json:"warning_id"     gorm:"type:char(36);not null;uniqueIndex:ux_audit_warning"`
	Severity      Severity  `json:"severity"       gorm:"type:varchar(16);not null"`
	TriggerAction string    `json:"trigger_action" gorm:"type:varchar(64);not null"`
	Decision      Decision  `json:"decision"       gorm:"type:varchar(16);not null"`
	DecidedBy     string    `json:"decided_by"     gorm:"type:varchar(64);not null;index"`
	DecidedRole   string    `json:"decided_role"   gorm:"type:varchar(32);not null"`
	Reason        string    `json:"reason,omitempty" gorm:"type:text"`
	MatchCount    int       `json:"match_count"    gorm:"not null"`
	TopMatchType  MatchType `json:"top_match_type" gorm:"type:varchar(32)"`
	CreatedAt     time.Time `json:"created_at"     gorm:"index"`
}

// TableName returns the database table name for AuditLogEntry.
func (AuditLogEntry) TableName() string { return "audit_log" }
