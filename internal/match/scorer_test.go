package match

import (
	"strings"
	"testing"

	"github.com/tbourn/go-crm-backend/internal/domain"
)

func findMatch(t *testing.T, ms []domain.PotentialMatch, mt domain.MatchType) domain.PotentialMatch {
	t.Helper()
	for _, m := range ms {
		if m.MatchType == mt {
			return m
		}
	}
	t.Fatalf("no %s match in %+v", mt, ms)
	return domain.PotentialMatch{}
}

func TestScoreRecord_ExactEmail(t *testing.T) {
	c := Candidate{Email: "S.Chen@Acme.com"}
	r := Record{ID: "r1", Kind: domain.KindContact, Email: "s.chen@acme.com"}

	ms := ScoreRecord(c, r, 0)
	m := findMatch(t, ms, domain.MatchContactEmail)
	if m.Confidence != ConfidenceContactEmail {
		t.Fatalf("confidence = %v; want %v", m.Confidence, ConfidenceContactEmail)
	}
	if m.Severity != domain.SeverityCritical {
		t.Fatalf("severity = %v; want CRITICAL", m.Severity)
	}
	if m.RecordID != "r1" || m.RecordKind != domain.KindContact {
		t.Fatalf("record snapshot wrong: %+v", m)
	}
}

func TestScoreRecord_ExactPhone(t *testing.T) {
	c := Candidate{Phone: "+1 (555) 010-7788"}
	r := Record{ID: "r1", Phone: "+15550107788"}

	m := findMatch(t, ScoreRecord(c, r, 0), domain.MatchContactPhone)
	if m.Confidence != ConfidenceContactPhone || m.Severity != domain.SeverityHigh {
		t.Fatalf("got %+v", m)
	}
}

func TestScoreRecord_LinkedIn(t *testing.T) {
	c := Candidate{LinkedInURL: "https://www.linkedin.com/in/sarahchen/"}
	r := Record{ID: "r1", LinkedInURL: "linkedin.com/in/sarahchen"}

	m := findMatch(t, ScoreRecord(c, r, 0), domain.MatchLinkedInProfile)
	if m.Confidence != ConfidenceLinkedInProfile || m.Severity != domain.SeverityHigh {
		t.Fatalf("got %+v", m)
	}
}

func TestScoreRecord_CompanyDomain_DifferentAddress(t *testing.T) {
	// Same domain, different mailbox, differently-spelled companies.
	c := Candidate{Email: "a.jones@acme.com", Company: "Acme Industries"}
	r := Record{ID: "r1", Email: "s.chen@acme.com", Company: "Acme Worldwide"}

	ms := ScoreRecord(c, r, 0)
	m := findMatch(t, ms, domain.MatchCompanyDomain)
	if m.Confidence != ConfidenceCompanyDomain || m.Severity != domain.SeverityHigh {
		t.Fatalf("got %+v", m)
	}
	if !strings.Contains(m.MatchDetails, "acme.com") {
		t.Fatalf("details should name the domain: %q", m.MatchDetails)
	}
	// The email rule must not also fire.
	for _, m := range ms {
		if m.MatchType == domain.MatchContactEmail {
			t.Fatalf("email match fired for different addresses")
		}
	}
}

func TestScoreRecord_CompanyDomain_SuppressedByExactEmail(t *testing.T) {
	c := Candidate{Email: "s.chen@acme.com"}
	r := Record{ID: "r1", Email: "s.chen@acme.com"}

	for _, m := range ScoreRecord(c, r, 0) {
		if m.MatchType == domain.MatchCompanyDomain {
			t.Fatalf("domain match should be subsumed by the exact email match")
		}
	}
}

func TestScoreRecord_CompanyExactVsFuzzy(t *testing.T) {
	// Exact after normalization: suffix and punctuation stripped.
	c := Candidate{Company: "Acme Corp Ltd."}
	r := Record{ID: "r1", Company: "ACME CORP"}
	m := findMatch(t, ScoreRecord(c, r, 0), domain.MatchCompanyName)
	if m.Confidence != ConfidenceCompanyExact || m.Severity != domain.SeverityMedium {
		t.Fatalf("exact: got %+v", m)
	}

	// Fuzzy: 2 shared tokens out of 4 distinct (overlap 0.5 < default 0.70,
	// so nothing with defaults; lower the threshold and it fires).
	c2 := Candidate{Company: "Global Acme Trading"}
	r2 := Record{ID: "r2", Company: "Global Acme Partners"}
	ms := ScoreRecord(c2, r2, 0)
	for _, m := range ms {
		if m.MatchType == domain.MatchCompanyName {
			t.Fatalf("fuzzy match fired below default threshold: %+v", m)
		}
	}
	m2 := findMatch(t, ScoreRecord(c2, r2, 0.5), domain.MatchCompanyName)
	if m2.Confidence != ConfidenceCompanyFuzzy {
		t.Fatalf("fuzzy: got %+v", m2)
	}
	if !strings.Contains(m2.MatchDetails, "token overlap") {
		t.Fatalf("fuzzy details = %q", m2.MatchDetails)
	}
}

func TestScoreRecord_NameCorroboration(t *testing.T) {
	// Name + same company: corroborated, MEDIUM.
	c := Candidate{Name: "Sarah Chen", Company: "Acme"}
	r := Record{ID: "r1", Name: "sarah chen", Company: "Acme"}
	m := findMatch(t, ScoreRecord(c, r, 0), domain.MatchContactName)
	if m.Confidence != ConfidenceNameCorroborated || m.Severity != domain.SeverityMedium {
		t.Fatalf("corroborated: got %+v", m)
	}

	// Name alone: weak, LOW.
	c2 := Candidate{Name: "Sarah Chen"}
	r2 := Record{ID: "r2", Name: "Sarah Chen", Company: "Initech"}
	m2 := findMatch(t, ScoreRecord(c2, r2, 0), domain.MatchContactName)
	if m2.Confidence != ConfidenceNameUncorroborated || m2.Severity != domain.SeverityLow {
		t.Fatalf("uncorroborated: got %+v", m2)
	}
}

func TestScoreRecord_MultipleRulesOneRecord(t *testing.T) {
	c := Candidate{Name: "Sarah Chen", Email: "s.chen@acme.com", Company: "Acme"}
	r := Record{ID: "r1", Name: "Sarah Chen", Email: "s.chen@acme.com", Company: "Acme"}

	ms := ScoreRecord(c, r, 0)
	if len(ms) != 3 { // email + company + corroborated name
		t.Fatalf("expected 3 matches, got %d: %+v", len(ms), ms)
	}
}

func TestScore_NoSignals(t *testing.T) {
	c := Candidate{Name: "Sarah Chen", Email: "s.chen@acme.com"}
	records := []Record{
		{ID: "r1", Name: "Bob Roe", Email: "bob@initech.io", Company: "Initech"},
	}
	if ms := Score(c, records, 0); len(ms) != 0 {
		t.Fatalf("expected no matches, got %+v", ms)
	}
}
