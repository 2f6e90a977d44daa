// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message
// model. Messages are ordered by their per-thread sequence number, which
// follows insertion order and agrees with timestamp order.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/campus-resource-hub/internal/domain"
)

// CreateMessage inserts m as-is. Callers assign ID, Seq and Timestamp.
func CreateMessage(ctx context.Context, db *gorm.DB, m *domain.Message) error {
	return db.WithContext(ctx).Omit("Thread").Create(m).Error
}

// LastMessage returns the most recent message of threadID, or ErrNotFound.
func LastMessage(ctx context.Context, db *gorm.DB, threadID string) (*domain.Message, error) {
	var m domain.Message
	err := db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("seq DESC").
		Limit(1).
		Take(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages returns the full history of threadID in insertion order.
func ListMessages(ctx context.Context, db *gorm.DB, threadID string) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("seq ASC").
		Find(&out).Error
	return out, err
}

// ListMessagesSince returns the messages of threadID with a timestamp
// strictly after since, in insertion order.
func ListMessagesSince(ctx context.Context, db *gorm.DB, threadID string, since time.Time) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Where(clause.Gt{Column: "timestamp", Value: since.UTC()}).
		Order("seq ASC").
		Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(ctx context.Context, db *gorm.DB, threadID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM messages WHERE thread_id = ?", threadID).Scan(&total).Error
	return total, err
}

// MessageParticipants returns the distinct user IDs that have sent or
// received a message in threadID.
func MessageParticipants(ctx context.Context, db *gorm.DB, threadID string) ([]string, error) {
	var senders, receivers []string
	q := db.WithContext(ctx).Model(&domain.Message{}).Where("thread_id = ?", threadID)
	if err := q.Session(&gorm.Session{}).Distinct("sender_id").Pluck("sender_id", &senders).Error; err != nil {
		return nil, err
	}
	if err := q.Session(&gorm.Session{}).Distinct("receiver_id").Pluck("receiver_id", &receivers).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(senders)+len(receivers))
	out := make([]string, 0, len(senders)+len(receivers))
	for _, id := range append(senders, receivers...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
