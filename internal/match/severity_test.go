package match

import (
	"testing"

	"github.com/tbourn/go-crm-backend/internal/domain"
)

func TestClassify_NoMatches(t *testing.T) {
	a := Classify(nil, 0)
	if a.HasWarning {
		t.Fatal("no matches must not raise a warning")
	}
}

func TestClassify_MaxSeverityWins(t *testing.T) {
	a := Classify([]domain.PotentialMatch{
		{RecordID: "r1", Severity: domain.SeverityLow, Confidence: 0.35},
		{RecordID: "r2", Severity: domain.SeverityCritical, Confidence: 0.97},
		{RecordID: "r3", Severity: domain.SeverityMedium, Confidence: 0.75},
	}, 0)
	if !a.HasWarning || a.Overall != domain.SeverityCritical {
		t.Fatalf("overall = %v; want CRITICAL", a.Overall)
	}
}

func TestClassify_MediumEscalatesAcrossDistinctRecords(t *testing.T) {
	a := Classify([]domain.PotentialMatch{
		{RecordID: "r1", Severity: domain.SeverityMedium, Confidence: 0.75},
		{RecordID: "r2", Severity: domain.SeverityMedium, Confidence: 0.55},
	}, 2)
	if a.Overall != domain.SeverityHigh {
		t.Fatalf("overall = %v; want HIGH after escalation", a.Overall)
	}
}

func TestClassify_MediumSameRecordDoesNotEscalate(t *testing.T) {
	// Two MEDIUM signals against the same record are one suspect, not a pattern.
	a := Classify([]domain.PotentialMatch{
		{RecordID: "r1", Severity: domain.SeverityMedium, Confidence: 0.75},
		{RecordID: "r1", Severity: domain.SeverityMedium, Confidence: 0.65},
	}, 2)
	if a.Overall != domain.SeverityMedium {
		t.Fatalf("overall = %v; want MEDIUM", a.Overall)
	}
}

func TestClassify_EscalationNeverLowers(t *testing.T) {
	// A CRITICAL match plus the escalation rule must stay CRITICAL.
	a := Classify([]domain.PotentialMatch{
		{RecordID: "r1", Severity: domain.SeverityCritical, Confidence: 0.97},
		{RecordID: "r2", Severity: domain.SeverityMedium, Confidence: 0.75},
		{RecordID: "r3", Severity: domain.SeverityMedium, Confidence: 0.55},
	}, 2)
	if a.Overall != domain.SeverityCritical {
		t.Fatalf("overall = %v; want CRITICAL", a.Overall)
	}
}

func TestClassify_SortsByConfidenceThenRecordID(t *testing.T) {
	a := Classify([]domain.PotentialMatch{
		{RecordID: "b", Severity: domain.SeverityMedium, Confidence: 0.55},
		{RecordID: "a", Severity: domain.SeverityCritical, Confidence: 0.97},
		{RecordID: "c", Severity: domain.SeverityMedium, Confidence: 0.55},
	}, 0)
	if a.Matches[0].RecordID != "a" {
		t.Fatalf("strongest match must come first: %+v", a.Matches)
	}
	if a.Matches[1].RecordID != "b" || a.Matches[2].RecordID != "c" {
		t.Fatalf("ties must break on record id: %+v", a.Matches)
	}
}

func TestAssessment_RequiresReason(t *testing.T) {
	low := Assessment{Overall: domain.SeverityMedium, Matches: []domain.PotentialMatch{
		{Severity: domain.SeverityMedium},
	}}
	if low.RequiresReason() {
		t.Fatal("MEDIUM overall with MEDIUM matches needs no reason")
	}

	// Overall HIGH forces a reason.
	if !(Assessment{Overall: domain.SeverityHigh}).RequiresReason() {
		t.Fatal("HIGH overall must require a reason")
	}

	// A single HIGH match forces a reason even under a lower overall.
	mixed := Assessment{Overall: domain.SeverityMedium, Matches: []domain.PotentialMatch{
		{Severity: domain.SeverityHigh},
	}}
	if !mixed.RequiresReason() {
		t.Fatal("any HIGH match must require a reason")
	}
}
