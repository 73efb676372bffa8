// Package services – DuplicateService
//
// This file implements the DuplicateService, which owns the warning session
// lifecycle: it runs the duplicate scan for a candidate record, persists a
// PENDING warning when matches are found, records the user's write-once
// decision together with its audit entry, and serves the admin statistics
// and review listings.
//
// Service-level errors (e.g. ErrNoIdentityFields, ErrWarningNotFound,
// ErrAlreadyDecided, ErrReasonRequired) are returned for predictable cases
// so handlers can map them to HTTP results consistently.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// the acting user, trigger action, and resulting severity where applicable.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-crm-backend/internal/domain"
	"github.com/tbourn/go-crm-backend/internal/match"
	"github.com/tbourn/go-crm-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// unknownRecordLabel is rendered when a match's record snapshot is empty
// (e.g. the source record was deleted after the scan and no name survived).
const unknownRecordLabel = "Unknown record"

// ActingUser identifies whoever triggered a check or decision. The service
// does not authenticate; it records what the session layer tells it.
type ActingUser struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// CheckResult is the outcome of one duplicate check. When HasWarning is
// false nothing was persisted and the remaining fields are zero.
type CheckResult struct {
	HasWarning bool                    `json:"has_warning"`
	Severity   domain.Severity         `json:"severity,omitempty"`
	WarningID  string                  `json:"warning_id,omitempty"`
	Message    string                  `json:"message,omitempty"`
	Matches    []domain.PotentialMatch `json:"matches,omitempty"`
}

// StatisticsSummary aggregates warning outcomes over a time window for the
// admin dashboard.
type StatisticsSummary struct {
	TotalWarnings     int64                     `json:"total_warnings"`
	ProceedCount      int64                     `json:"proceed_count"`
	CancelledCount    int64                     `json:"cancelled_count"`
	ProceedRate       float64                   `json:"proceed_rate"`
	SeverityBreakdown map[domain.Severity]int64 `json:"severity_breakdown"`
}

// RecordReader defines the candidate-lookup contract required by the
// DuplicateService. Implementations must be read-only over the registry.
type RecordReader interface {
	// CollectCandidates returns the deduplicated union of every lookup the
	// candidate's populated fields allow, capped per loose lookup.
	CollectCandidates(ctx context.Context, db *gorm.DB, c match.Candidate, looseLimit int) ([]match.Record, error)
}

// DuplicateService implements the warning session manager. Each Check call is
// an independent, stateless unit of work; repeated calls as the user types
// create new, independent warning rows and the caller treats only the latest
// as live.
type DuplicateService struct {
	// DB is the GORM handle used for warning/audit persistence.
	DB *gorm.DB
	// Reader supplies the bounded candidate set to score.
	Reader RecordReader

	// LooseLookupLimit caps each containment lookup (<= 0 uses the repo default).
	LooseLookupLimit int
	// FuzzyOverlap is the minimum company token overlap (<= 0 uses the scorer default).
	FuzzyOverlap float64
	// EscalationMinDistinct is the distinct-record MEDIUM count that escalates
	// the overall severity (<= 0 uses the classifier default of 2).
	EscalationMinDistinct int
	// MessageLocale controls headline casing in warning messages.
	MessageLocale language.Tag
}

// NewDuplicateService constructs a DuplicateService with default thresholds.
func NewDuplicateService(db *gorm.DB, reader RecordReader) *DuplicateService {
	return &DuplicateService{
		DB:            db,
		Reader:        reader,
		MessageLocale: language.English,
	}
}

// Check scans the registry for probable duplicates of the candidate.
//
// Semantics:
//   - A candidate with no identity field at all yields ErrNoIdentityFields.
//   - When no match fires, nothing is persisted and the result has
//     HasWarning=false.
//   - Otherwise a PENDING warning is persisted with its matches ordered by
//     descending confidence, and the result carries its id so the caller can
//     gate submission on the decision.
//
// Repository read failures are returned as-is; duplicate detection is
// advisory, so the caller's policy decides whether to retry or let the user
// proceed unchecked.
func (s *DuplicateService) Check(ctx context.Context, c match.Candidate, user ActingUser) (*CheckResult, error) {
	tr := otel.Tracer("services/DuplicateService")
	ctx, span := tr.Start(ctx, "Check",
		trace.WithAttributes(
			attribute.String("user.id", user.ID),
			attribute.String("trigger.action", c.TriggerAction),
		),
	)
	defer span.End()

	if !c.HasIdentityFields() {
		return nil, ErrNoIdentityFields
	}

	records, err := s.Reader.CollectCandidates(ctx, s.DB, c, s.LooseLookupLimit)
	if err != nil {
		return nil, err
	}

	matches := match.Score(c, records, s.FuzzyOverlap)
	assessment := match.Classify(matches, s.EscalationMinDistinct)
	if !assessment.HasWarning {
		checksTotal.WithLabelValues("clean").Inc()
		return &CheckResult{HasWarning: false}, nil
	}

	w := &domain.DuplicateWarning{
		Severity:      assessment.Overall,
		TriggeredBy:   user.ID,
		TriggeredRole: user.Role,
		TriggerAction: c.TriggerAction,
		Matches:       assessment.Matches,
	}
	if err := repo.CreateWarning(ctx, s.DB, w); err != nil {
		return nil, err
	}

	checksTotal.WithLabelValues("warning").Inc()
	warningsTotal.WithLabelValues(string(assessment.Overall)).Inc()
	span.SetAttributes(attribute.String("warning.severity", string(assessment.Overall)))

	return &CheckResult{
		HasWarning: true,
		Severity:   assessment.Overall,
		WarningID:  w.ID,
		Message:    s.buildMessage(assessment),
		Matches:    w.Matches,
	}, nil
}

// Decide records the user's write-once resolution of a warning and appends
// the corresponding audit entry in the same transaction.
//
// Semantics and validation:
//   - decision must be PROCEEDED or CANCELLED; otherwise ErrInvalidDecision.
//   - warningID must exist; otherwise ErrWarningNotFound.
//   - A second decision on the same warning yields ErrAlreadyDecided; the
//     conditional update makes concurrent duplicates resolve first-writer-wins.
//   - A blank reason on a warning whose overall severity (or any individual
//     match) is HIGH or CRITICAL yields ErrReasonRequired.
//
// Concurrency & atomicity:
//   - The decision flip and the audit insert run in one transaction: no audit
//     entry can exist without its warning being marked decided, and vice versa.
func (s *DuplicateService) Decide(ctx context.Context, warningID string, decision domain.Decision, reason string, user ActingUser) error {
	tr := otel.Tracer("services/DuplicateService")
	ctx, span := tr.Start(ctx, "Decide",
		trace.WithAttributes(
			attribute.String("user.id", user.ID),
			attribute.String("warning.id", warningID),
			attribute.String("decision", string(decision)),
		),
	)
	defer span.End()

	if decision != domain.DecisionProceeded && decision != domain.DecisionCancelled {
		return ErrInvalidDecision
	}
	reason = strings.TrimSpace(reason)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := repo.GetWarning(ctx, tx, warningID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrWarningNotFound
			}
			return err
		}

		if reason == "" && requiresReason(w) {
			return ErrReasonRequired
		}

		now := time.Now().UTC()
		if err := repo.MarkDecided(ctx, tx, warningID, decision, reason, now); err != nil {
			switch {
			case errors.Is(err, repo.ErrAlreadyDecided):
				return ErrAlreadyDecided
			case errors.Is(err, repo.ErrNotFound):
				return ErrWarningNotFound
			default:
				return err
			}
		}

		entry := &domain.AuditLogEntry{
			WarningID:     w.ID,
			Severity:      w.Severity,
			TriggerAction: w.TriggerAction,
			Decision:      decision,
			DecidedBy:     user.ID,
			DecidedRole:   user.Role,
			Reason:        reason,
			MatchCount:    len(w.Matches),
			CreatedAt:     now,
		}
		if len(w.Matches) > 0 {
			entry.TopMatchType = w.Matches[0].MatchType
		}
		return repo.CreateAuditEntry(ctx, tx, entry)
	})
	if err != nil {
		return err
	}

	decisionsTotal.WithLabelValues(string(decision)).Inc()
	return nil
}

// Statistics aggregates warnings created within [from, to] (either bound may
// be nil for an open range). PENDING warnings count toward the total and the
// severity breakdown but not toward the proceed rate; the rate is 0 when no
// warning has been decided yet.
func (s *DuplicateService) Statistics(ctx context.Context, from, to *time.Time) (*StatisticsSummary, error) {
	counts, err := repo.WarningStats(ctx, s.DB, from, to)
	if err != nil {
		return nil, err
	}
	out := &StatisticsSummary{
		TotalWarnings:     counts.Total,
		ProceedCount:      counts.Proceeded,
		CancelledCount:    counts.Cancelled,
		SeverityBreakdown: counts.BySeverity,
	}
	if denom := counts.Proceeded + counts.Cancelled; denom > 0 {
		out.ProceedRate = float64(counts.Proceeded) / float64(denom)
	}
	return out, nil
}

// ListRecent returns the newest warnings for the admin review surface.
// Matches referencing records deleted after the scan render from their
// snapshot; an empty snapshot is replaced with a stable placeholder instead
// of erroring.
func (s *DuplicateService) ListRecent(ctx context.Context, limit int, includeResolved bool) ([]domain.DuplicateWarning, error) {
	warnings, err := repo.ListWarnings(ctx, s.DB, limit, includeResolved)
	if err != nil {
		return nil, err
	}
	for i := range warnings {
		for j := range warnings[i].Matches {
			if strings.TrimSpace(warnings[i].Matches[j].RecordName) == "" {
				warnings[i].Matches[j].RecordName = unknownRecordLabel
			}
		}
	}
	return warnings, nil
}

// requiresReason applies the severity rule: a reason is mandatory when the
// overall severity is HIGH/CRITICAL or when any single match is.
func requiresReason(w *domain.DuplicateWarning) bool {
	if w.Severity.RequiresReason() {
		return true
	}
	for _, m := range w.Matches {
		if m.Severity.RequiresReason() {
			return true
		}
	}
	return false
}

// buildMessage renders a one-line human headline for the dialog, led by the
// strongest match.
func (s *DuplicateService) buildMessage(a match.Assessment) string {
	top := a.Matches[0]
	name := strings.TrimSpace(top.RecordName)
	if name == "" {
		name = unknownRecordLabel
	} else {
		locale := s.MessageLocale
		if locale == language.Und {
			locale = language.English
		}
		name = cases.Title(locale).String(strings.ToLower(name))
	}
	extra := ""
	if n := len(a.Matches) - 1; n > 0 {
		extra = fmt.Sprintf(" and %d more signal(s)", n)
	}
	return fmt.Sprintf("Possible duplicate of %s (%s, %.0f%% confidence)%s",
		name, top.MatchType, top.Confidence*100, extra)
}
