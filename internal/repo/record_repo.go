// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file is the candidate repository reader: cheap
// pre-filters that pull a bounded set of existing records worth scoring
// before the expensive matcher runs.
//
// Lookup strategy:
//   - Exact-key lookups (email, normalized phone, normalized LinkedIn URL)
//     are indexed equality scans across the registry tables.
//   - Loose lookups (company, person name) are case-insensitive containment
//     scans capped by recency to bound cost.
//   - The union of all lookups is deduplicated by (kind, id) before it is
//     returned.
//
// All functions are read-only and context-aware; a candidate missing a field
// simply skips that field's lookup.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-crm-backend/internal/domain"
	"github.com/tbourn/go-crm-backend/internal/match"
)

// DefaultLooseLookupLimit caps each containment lookup per table.
const DefaultLooseLookupLimit = 50

// leadRecord flattens a Lead row into the engine's read model.
func leadRecord(l domain.Lead) match.Record {
	return match.Record{
		ID: l.ID, Kind: domain.KindLead, Name: l.Name, Email: l.Email,
		Phone: l.Phone, Company: l.Company, LinkedInURL: l.LinkedInURL,
		OwnerID: l.OwnerID, Status: l.Status, IsActive: l.IsActive,
		LastContactDate: l.LastContactDate,
	}
}

func pipelineRecord(p domain.PipelineItem) match.Record {
	return match.Record{
		ID: p.ID, Kind: domain.KindPipelineItem, Name: p.Name, Email: p.Email,
		Phone: p.Phone, Company: p.Company, LinkedInURL: p.LinkedInURL,
		OwnerID: p.OwnerID, Status: p.Status, IsActive: p.IsActive,
		LastContactDate: p.LastContactDate,
	}
}

func companyRecord(co domain.Company) match.Record {
	return match.Record{
		ID: co.ID, Kind: domain.KindCompany, Name: co.Name, Company: co.Name,
		OwnerID: co.OwnerID, Status: co.Status, IsActive: co.IsActive,
	}
}

func contactRecord(ct domain.Contact) match.Record {
	return match.Record{
		ID: ct.ID, Kind: domain.KindContact, Name: ct.Name, Email: ct.Email,
		Phone: ct.Phone, Company: ct.Company, LinkedInURL: ct.LinkedInURL,
		OwnerID: ct.OwnerID, Status: ct.Status, IsActive: ct.IsActive,
		LastContactDate: ct.LastContactDate,
	}
}

// personTables queries leads, pipeline items, and contacts with the same
// where-clause and flattens the rows. Companies carry no person identity and
// are queried separately where relevant.
func personTables(ctx context.Context, db *gorm.DB, build func(q *gorm.DB) *gorm.DB) ([]match.Record, error) {
	var out []match.Record

	var leads []domain.Lead
	if err := build(db.WithContext(ctx).Model(&domain.Lead{})).Find(&leads).Error; err != nil {
		return nil, err
	}
	for _, l := range leads {
		out = append(out, leadRecord(l))
	}

	var items []domain.PipelineItem
	if err := build(db.WithContext(ctx).Model(&domain.PipelineItem{})).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, p := range items {
		out = append(out, pipelineRecord(p))
	}

	var contacts []domain.Contact
	if err := build(db.WithContext(ctx).Model(&domain.Contact{})).Find(&contacts).Error; err != nil {
		return nil, err
	}
	for _, ct := range contacts {
		out = append(out, contactRecord(ct))
	}

	return out, nil
}

// FindByEmail returns records whose stored email equals the given address
// (case-insensitive). The input should already be normalized.
func FindByEmail(ctx context.Context, db *gorm.DB, email string) ([]match.Record, error) {
	if email == "" {
		return nil, nil
	}
	return personTables(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where("LOWER(email) = ?", email)
	})
}

// FindByPhone returns records whose normalized phone equals the given value.
func FindByPhone(ctx context.Context, db *gorm.DB, phone string) ([]match.Record, error) {
	if phone == "" {
		return nil, nil
	}
	return personTables(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where("norm_phone = ?", phone)
	})
}

// FindByLinkedIn returns records whose normalized LinkedIn URL equals the
// given value.
func FindByLinkedIn(ctx context.Context, db *gorm.DB, url string) ([]match.Record, error) {
	if url == "" {
		return nil, nil
	}
	return personTables(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where("norm_linkedin = ?", url)
	})
}

// SearchByCompanyContains returns records whose company (or, for registry
// companies, name) contains the given text, case-insensitively, most recent
// first, capped at limit rows per table. limit <= 0 applies the default cap.
func SearchByCompanyContains(ctx context.Context, db *gorm.DB, text string, limit int) ([]match.Record, error) {
	if text == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLooseLookupLimit
	}
	pattern := "%" + text + "%"

	out, err := personTables(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where("LOWER(company) LIKE ?", pattern).
			Order("updated_at desc").
			Limit(limit)
	})
	if err != nil {
		return nil, err
	}

	var companies []domain.Company
	err = db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("updated_at desc").
		Limit(limit).
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	for _, co := range companies {
		out = append(out, companyRecord(co))
	}
	return out, nil
}

// SearchByNameContains returns records whose person name contains the given
// text, case-insensitively, most recent first, capped at limit rows per
// table. limit <= 0 applies the default cap.
func SearchByNameContains(ctx context.Context, db *gorm.DB, text string, limit int) ([]match.Record, error) {
	if text == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLooseLookupLimit
	}
	pattern := "%" + text + "%"
	return personTables(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where("LOWER(name) LIKE ?", pattern).
			Order("updated_at desc").
			Limit(limit)
	})
}

// CollectCandidates runs every lookup the candidate's fields allow and
// returns the deduplicated union. Absent fields skip their lookup; a
// candidate carrying only a name and company still completes.
func CollectCandidates(ctx context.Context, db *gorm.DB, c match.Candidate, looseLimit int) ([]match.Record, error) {
	var all []match.Record

	if email := match.NormalizeEmail(c.Email); email != "" {
		recs, err := FindByEmail(ctx, db, email)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	if phone := match.NormalizePhone(c.Phone); phone != "" {
		recs, err := FindByPhone(ctx, db, phone)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	if url := match.NormalizeURL(c.LinkedInURL); url != "" {
		recs, err := FindByLinkedIn(ctx, db, url)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	if company := match.NormalizeCompany(c.Company); company != "" {
		recs, err := SearchByCompanyContains(ctx, db, company, looseLimit)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	if name := match.NormalizeName(c.Name); name != "" {
		recs, err := SearchByNameContains(ctx, db, name, looseLimit)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}

	// Union dedup: the same row commonly surfaces from several lookups.
	seen := make(map[string]struct{}, len(all))
	out := all[:0]
	for _, r := range all {
		key := string(r.Kind) + ":" + r.ID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}
