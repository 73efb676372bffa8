package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-crm-backend/internal/domain"
)

func TestCreateLead_AndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	l := &domain.Lead{OwnerID: "u1", Name: "Sarah Chen", Email: "s.chen@acme.com", Status: "new"}
	if err := CreateLead(ctx, db, l); err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	if l.ID == "" || l.CreatedAt.IsZero() {
		t.Fatalf("defaults not applied: %+v", l)
	}

	got, err := GetLead(ctx, db, l.ID)
	if err != nil {
		t.Fatalf("GetLead: %v", err)
	}
	if got.Name != "Sarah Chen" || got.OwnerID != "u1" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestGetLead_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := GetLead(context.Background(), db, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCountLeads_OwnerScope(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, owner := range []string{"u1", "u1", "u2"} {
		if err := CreateLead(ctx, db, &domain.Lead{OwnerID: owner, Name: "x"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := CountLeads(ctx, db, "")
	if err != nil || all != 3 {
		t.Fatalf("CountLeads(all) = %d, %v; want 3", all, err)
	}
	mine, err := CountLeads(ctx, db, "u1")
	if err != nil || mine != 2 {
		t.Fatalf("CountLeads(u1) = %d, %v; want 2", mine, err)
	}
}

func TestListLeadsPage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := CreateLead(ctx, db, &domain.Lead{OwnerID: "u1", Name: "x"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	page, err := ListLeadsPage(ctx, db, "u1", 0, 2)
	if err != nil {
		t.Fatalf("ListLeadsPage: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected page of 2, got %d", len(page))
	}

	rest, err := ListLeadsPage(ctx, db, "u1", 4, 2)
	if err != nil {
		t.Fatalf("ListLeadsPage(offset): %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("expected trailing page of 1, got %d", len(rest))
	}
}
