// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Lead model.
//
// Functions:
//
//   - CreateLead(ctx, db, lead) -> error
//     Inserts a new Lead row with UUID primary key and UTC timestamp.
//
//   - GetLead(ctx, db, id) -> *domain.Lead, error
//     Fetches a single lead by ID, or ErrNotFound if missing.
//
//   - CountLeads(ctx, db, ownerID) -> (int64, error)
//     Returns the total number of leads owned by the user ("" counts all).
//
//   - ListLeadsPage(ctx, db, ownerID, offset, limit) -> []domain.Lead, error
//     Returns a paginated slice of leads, newest first.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.LeadService) which enforces the duplicate-warning gate and
// field normalization.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-crm-backend/internal/domain"
)

// CreateLead inserts a new Lead row. The lead ID is a randomly generated
// UUID when unset, and CreatedAt is set to UTC.
func CreateLead(ctx context.Context, db *gorm.DB, l *domain.Lead) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(l).Error
}

// GetLead fetches a single lead by its ID. If the record does not exist, it
// returns ErrNotFound. On other DB errors, the raw error is returned.
func GetLead(ctx context.Context, db *gorm.DB, id string) (*domain.Lead, error) {
	var l domain.Lead
	err := db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CountLeads returns the total number of leads, scoped to ownerID when it is
// non-empty. On DB error, it returns the error.
func CountLeads(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Lead{})
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// ListLeadsPage returns a paginated slice of leads ordered by creation time
// descending, scoped to ownerID when non-empty. Use CountLeads to obtain the
// total for pagination metadata.
func ListLeadsPage(ctx context.Context, db *gorm.DB, ownerID string, offset, limit int) ([]domain.Lead, error) {
	q := db.WithContext(ctx).Order("created_at desc").Offset(offset).Limit(limit)
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	var out []domain.Lead
	err := q.Find(&out).Error
	return out, err
}
