// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the append-only admin_logs table.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/campus-resource-hub/internal/domain"
)

// InsertAdminLog appends an audit row. CreatedAt defaults to now (UTC).
func InsertAdminLog(ctx context.Context, db *gorm.DB, entry *domain.AdminLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(entry).Error
}

// ListAdminLogs returns the newest audit rows first. A non-positive limit
// returns everything.
func ListAdminLogs(ctx context.Context, db *gorm.DB, limit int) ([]domain.AdminLog, error) {
	var out []domain.AdminLog
	q := db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}
