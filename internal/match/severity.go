package match

import (
	"sort"

	"github.com/tbourn/go-crm-backend/internal/domain"
)

// DefaultEscalationMinDistinct is the number of distinct records with MEDIUM
// matches at which the overall severity is escalated one level. Repeated weak
// signals across different records indicate a systemic near-duplicate pattern
// rather than an isolated coincidence.
const DefaultEscalationMinDistinct = 2

// Assessment is the classifier's verdict over one check's matches.
type Assessment struct {
	// HasWarning is true iff at least one match fired.
	HasWarning bool
	// Overall is the combined severity across all matches.
	Overall domain.Severity
	// Matches is the input list sorted by descending confidence, so callers
	// always present the strongest evidence first.
	Matches []domain.PotentialMatch
}

// Classify folds a check's matches into a single overall severity.
//
// Rules:
//   - no matches → no warning;
//   - overall severity is the maximum per-match severity;
//   - MEDIUM matches against minDistinct or more distinct records escalate
//     the overall severity one level (minDistinct <= 0 uses the default of 2;
//     several MEDIUM matches against the same record do not escalate);
//   - matches are sorted by descending confidence, ties broken by record id
//     for determinism.
func Classify(matches []domain.PotentialMatch, minDistinct int) Assessment {
	if len(matches) == 0 {
		return Assessment{Overall: domain.SeverityLow}
	}
	if minDistinct <= 0 {
		minDistinct = DefaultEscalationMinDistinct
	}

	sorted := make([]domain.PotentialMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		return sorted[i].RecordID < sorted[j].RecordID
	})

	overall := domain.SeverityLow
	mediumRecords := make(map[string]struct{})
	for _, m := range sorted {
		if m.Severity.Rank() > overall.Rank() {
			overall = m.Severity
		}
		if m.Severity == domain.SeverityMedium {
			mediumRecords[m.RecordID] = struct{}{}
		}
	}

	if len(mediumRecords) >= minDistinct {
		if esc := domain.SeverityMedium.Escalate(); esc.Rank() > overall.Rank() {
			overall = esc
		}
	}

	return Assessment{HasWarning: true, Overall: overall, Matches: sorted}
}

// RequiresReason reports whether a decision on this assessment must carry a
// reason: the overall severity is HIGH or CRITICAL, or any individual match
// is, regardless of the combined value.
func (a Assessment) RequiresReason() bool {
	if a.Overall.RequiresReason() {
		return true
	}
	for _, m := range a.Matches {
		if m.Severity.RequiresReason() {
			return true
		}
	}
	return false
}
