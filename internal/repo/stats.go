// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/campus-resource-hub/internal/domain"
)

// ThreadStats returns the number of messages in threadID and the highest
// sequence number among them. Since messages are append-only, the pair
// changes exactly when a new message arrives.
//
// When the thread has no messages, both values are 0.
func ThreadStats(ctx context.Context, db *gorm.DB, threadID string) (count int64, maxSeq int64, err error) {
	q := db.WithContext(ctx).Model(&domain.Message{}).Where("thread_id = ?", threadID).Session(&gorm.Session{})

	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var row struct{ Seq int64 }
	if err = q.Select("seq").Order("seq DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.Seq, nil
}

// BookingStats returns the number of bookings requested by userID and the
// newest UpdatedAt among them as Unix nanoseconds (0 when none).
func BookingStats(ctx context.Context, db *gorm.DB, userID string) (count int64, lastUpdate int64, err error) {
	q := db.WithContext(ctx).Model(&domain.Booking{}).Where("requester_id = ?", userID).Session(&gorm.Session{})

	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	// Avoid MAX() -> TEXT in SQLite.
	var row domain.Booking
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.UpdatedAt.UnixNano(), nil
}
