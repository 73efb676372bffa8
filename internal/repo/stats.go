// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the aggregate queries behind the admin
// dashboard's duplicate-warning statistics. Each function is context-aware
// and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-crm-backend/internal/domain"
)

// WarningCounts holds raw aggregates over duplicate warnings in a window.
// Rate computation (and its zero-denominator handling) lives in the service
// layer.
type WarningCounts struct {
	Total      int64
	Proceeded  int64
	Cancelled  int64
	BySeverity map[domain.Severity]int64
}

// warningWindow applies the optional created_at range; nil bounds leave the
// corresponding side open.
func warningWindow(q *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	return q
}

// WarningStats aggregates warnings with created_at in the given window.
//
// Semantics:
//   - Total counts every warning in range, decided or PENDING.
//   - Proceeded/Cancelled count only decided warnings by their decision.
//   - BySeverity counts every warning in range per severity level.
func WarningStats(ctx context.Context, db *gorm.DB, from, to *time.Time) (WarningCounts, error) {
	out := WarningCounts{BySeverity: make(map[domain.Severity]int64)}

	base := func() *gorm.DB {
		return warningWindow(db.WithContext(ctx).Model(&domain.DuplicateWarning{}), from, to)
	}

	if err := base().Count(&out.Total).Error; err != nil {
		return out, err
	}
	if err := base().
		Where("decision_made = ? AND user_decision = ?", true, domain.DecisionProceeded).
		Count(&out.Proceeded).Error; err != nil {
		return out, err
	}
	if err := base().
		Where("decision_made = ? AND user_decision = ?", true, domain.DecisionCancelled).
		Count(&out.Cancelled).Error; err != nil {
		return out, err
	}

	var rows []struct {
		Severity domain.Severity
		N        int64
	}
	if err := base().
		Select("severity, COUNT(*) AS n").
		Group("severity").
		Scan(&rows).Error; err != nil {
		return out, err
	}
	for _, r := range rows {
		out.BySeverity[r.Severity] = r.N
	}
	return out, nil
}
