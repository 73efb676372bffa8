package match

import (
	"fmt"

	"github.com/tbourn/go-crm-backend/internal/domain"
)

// Rule confidences. Identity fields that are globally unique in practice
// (email, phone, LinkedIn) carry the highest confidence and force escalation
// regardless of other signals; company and name matches alone are weak
// evidence and are only raised when corroborated by another signal.
const (
	ConfidenceContactEmail       = 0.97
	ConfidenceContactPhone       = 0.90
	ConfidenceLinkedInProfile    = 0.90
	ConfidenceCompanyDomain      = 0.80
	ConfidenceCompanyExact       = 0.75
	ConfidenceCompanyFuzzy       = 0.55
	ConfidenceNameCorroborated   = 0.65
	ConfidenceNameUncorroborated = 0.35
)

// DefaultFuzzyOverlap is the minimum Jaccard token overlap for two distinct
// normalized company names to count as a fuzzy match.
const DefaultFuzzyOverlap = 0.70

// Score evaluates the full rule table for the candidate against every record
// and returns all matches that fired, in record order. minOverlap <= 0 falls
// back to DefaultFuzzyOverlap.
//
// Every returned match records exactly which rule fired (MatchDetails), so a
// reviewer can see why a warning was raised. A single record may produce
// several independent matches (e.g. both email and company).
func Score(c Candidate, records []Record, minOverlap float64) []domain.PotentialMatch {
	var out []domain.PotentialMatch
	for _, r := range records {
		out = append(out, ScoreRecord(c, r, minOverlap)...)
	}
	return out
}

// ScoreRecord evaluates one (candidate, record) pair against the rule table.
func ScoreRecord(c Candidate, r Record, minOverlap float64) []domain.PotentialMatch {
	if minOverlap <= 0 {
		minOverlap = DefaultFuzzyOverlap
	}

	var out []domain.PotentialMatch
	add := func(mt domain.MatchType, confidence float64, sev domain.Severity, details string) {
		out = append(out, domain.PotentialMatch{
			MatchType:    mt,
			Confidence:   confidence,
			Severity:     sev,
			MatchDetails: details,
			RecordID:     r.ID,
			RecordKind:   r.Kind,
			RecordName:   r.Name,
			RecordOwner:  r.OwnerID,
		})
	}

	candEmail := NormalizeEmail(c.Email)
	recEmail := NormalizeEmail(r.Email)
	emailEqual := candEmail != "" && candEmail == recEmail
	if emailEqual {
		add(domain.MatchContactEmail, ConfidenceContactEmail, domain.SeverityCritical,
			"exact email match")
	}

	if p := NormalizePhone(c.Phone); p != "" && p == NormalizePhone(r.Phone) {
		add(domain.MatchContactPhone, ConfidenceContactPhone, domain.SeverityHigh,
			"exact phone match")
	}

	if u := NormalizeURL(c.LinkedInURL); u != "" && u == NormalizeURL(r.LinkedInURL) {
		add(domain.MatchLinkedInProfile, ConfidenceLinkedInProfile, domain.SeverityHigh,
			"exact linkedin profile match")
	}

	candCompany := NormalizeCompany(c.Company)
	recCompany := NormalizeCompany(r.Company)
	companyExact := candCompany != "" && candCompany == recCompany
	companyFuzzy := false
	overlap := 0.0
	if !companyExact && candCompany != "" && recCompany != "" {
		overlap = tokenOverlap(candCompany, recCompany)
		companyFuzzy = overlap >= minOverlap
	}

	// Same email domain but a different address and a different company name:
	// two people filed under two spellings of the same organisation.
	if !emailEqual {
		if d := EmailDomain(candEmail); d != "" && d == EmailDomain(recEmail) && !companyExact {
			add(domain.MatchCompanyDomain, ConfidenceCompanyDomain, domain.SeverityHigh,
				fmt.Sprintf("shared email domain %q", d))
		}
	}

	switch {
	case companyExact:
		add(domain.MatchCompanyName, ConfidenceCompanyExact, domain.SeverityMedium,
			"exact company match")
	case companyFuzzy:
		add(domain.MatchCompanyName, ConfidenceCompanyFuzzy, domain.SeverityMedium,
			fmt.Sprintf("fuzzy company match (%.0f%% token overlap)", overlap*100))
	}

	if n := NormalizeName(c.Name); n != "" && n == NormalizeName(r.Name) {
		if companyExact || companyFuzzy {
			add(domain.MatchContactName, ConfidenceNameCorroborated, domain.SeverityMedium,
				"exact name match, company corroborated")
		} else {
			add(domain.MatchContactName, ConfidenceNameUncorroborated, domain.SeverityLow,
				"exact name match, no company corroboration")
		}
	}

	return out
}
