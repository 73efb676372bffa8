// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the append-only
// AuditLogEntry model.
//
// The audit log is written exclusively inside the decision transaction (see
// services.DuplicateService.Decide); nothing ever updates or deletes entries.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-crm-backend/internal/domain"
)

// CreateAuditEntry appends one audit row for a decided warning. The unique
// index on warning_id enforces the one-entry-per-decision invariant at the
// schema level; a violation surfaces as a raw DB error for the service layer
// to interpret.
func CreateAuditEntry(ctx context.Context, db *gorm.DB, e *domain.AuditLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(e).Error
}

// CountAuditEntries returns the number of audit rows for a warning.
// Used by invariant checks and tests; a decided warning has exactly one.
func CountAuditEntries(ctx context.Context, db *gorm.DB, warningID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.AuditLogEntry{}).
		Where("warning_id = ?", warningID).
		Count(&total).Error
	return total, err
}

// ListAuditEntries returns audit rows newest first, capped at limit
// (limit <= 0 defaults to 100).
func ListAuditEntries(ctx context.Context, db *gorm.DB, limit int) ([]domain.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.AuditLogEntry
	err := db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
