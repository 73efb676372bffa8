// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// DuplicateWarning and PotentialMatch models.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a warning is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - MarkDecided returns ErrAlreadyDecided when the row exists but was
//     decided by an earlier writer (write-once semantics).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-crm-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrAlreadyDecided is returned when a decision is recorded against a
// warning that has already been decided. Decisions are write-once.
var ErrAlreadyDecided = errors.New("warning already decided")

// CreateWarning inserts a new PENDING warning together with its match rows.
// The warning and match IDs are generated here; CreatedAt is set to UTC.
// Matches must already be ordered by descending confidence.
func CreateWarning(ctx context.Context, db *gorm.DB, w *domain.DuplicateWarning) error {
	now := time.Now().UTC()
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	w.DecisionMade = false
	w.CreatedAt = now
	for i := range w.Matches {
		w.Matches[i].ID = uuid.NewString()
		w.Matches[i].WarningID = w.ID
		w.Matches[i].CreatedAt = now
	}
	return db.WithContext(ctx).Create(w).Error
}

// GetWarning fetches a warning by id with its matches preloaded in
// descending-confidence order. Returns ErrNotFound if the row is missing.
func GetWarning(ctx context.Context, db *gorm.DB, id string) (*domain.DuplicateWarning, error) {
	var w domain.DuplicateWarning
	err := db.WithContext(ctx).
		Preload("Matches", func(q *gorm.DB) *gorm.DB {
			return q.Order("confidence desc, record_id asc")
		}).
		Where("id = ?", id).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// MarkDecided flips a PENDING warning to its decided state with a single
// conditional update keyed on decision_made = false, so concurrent duplicate
// calls resolve as first-writer-wins.
//
// Returns ErrNotFound when no warning with the id exists and
// ErrAlreadyDecided when the row exists but was decided earlier.
func MarkDecided(ctx context.Context, db *gorm.DB, id string, decision domain.Decision, reason string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.DuplicateWarning{}).
		Where("id = ? AND decision_made = ?", id, false).
		Updates(map[string]any{
			"decision_made": true,
			"user_decision": decision,
			"decision_at":   at,
			"reason":        reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Disambiguate: missing row vs. decided row.
		var count int64
		if err := db.WithContext(ctx).
			Model(&domain.DuplicateWarning{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrAlreadyDecided
	}
	return nil
}

// ListWarnings returns the most recent warnings, newest first, with matches
// preloaded. When includeResolved is false, only PENDING warnings are
// returned. limit <= 0 defaults to 50.
func ListWarnings(ctx context.Context, db *gorm.DB, limit int, includeResolved bool) ([]domain.DuplicateWarning, error) {
	if limit <= 0 {
		limit = 50
	}
	q := db.WithContext(ctx).
		Preload("Matches", func(q *gorm.DB) *gorm.DB {
			return q.Order("confidence desc, record_id asc")
		}).
		Order("created_at desc").
		Limit(limit)
	if !includeResolved {
		q = q.Where("decision_made = ?", false)
	}
	var out []domain.DuplicateWarning
	err := q.Find(&out).Error
	return out, err
}
