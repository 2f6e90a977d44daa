// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Thread
// model and the per-thread activity projections used by inbox listings.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/campus-resource-hub/internal/domain"
)

// ThreadActivity aggregates the message history of one thread.
type ThreadActivity struct {
	ThreadID     string
	MessageCount int64
	LastMessage  *domain.Message
}

// CreateThread inserts a new thread header. The thread ID is a random UUID
// and CreatedAt is set to UTC.
func CreateThread(ctx context.Context, db *gorm.DB, contextType string, contextID *string, createdBy string) (*domain.Thread, error) {
	t := &domain.Thread{
		ID:          uuid.NewString(),
		ContextType: contextType,
		ContextID:   contextID,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetThread fetches a thread by ID, or ErrNotFound.
func GetThread(ctx context.Context, db *gorm.DB, id string) (*domain.Thread, error) {
	var t domain.Thread
	if err := db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAllThreads returns every thread header, newest first.
func ListAllThreads(ctx context.Context, db *gorm.DB) ([]domain.Thread, error) {
	var out []domain.Thread
	err := db.WithContext(ctx).Order("created_at DESC, id ASC").Find(&out).Error
	return out, err
}

// ListThreadsForParticipant returns threads in which userID has sent or
// received at least one message.
func ListThreadsForParticipant(ctx context.Context, db *gorm.DB, userID string) ([]domain.Thread, error) {
	sub := db.Model(&domain.Message{}).
		Select("thread_id").
		Where("sender_id = ? OR receiver_id = ?", userID, userID)

	var out []domain.Thread
	err := db.WithContext(ctx).
		Where("id IN (?)", sub).
		Order("created_at DESC, id ASC").
		Find(&out).Error
	return out, err
}

// LoadThreadActivity returns message counts and the latest message for each
// of threadIDs. Threads without messages are absent from the map.
func LoadThreadActivity(ctx context.Context, db *gorm.DB, threadIDs []string) (map[string]ThreadActivity, error) {
	out := make(map[string]ThreadActivity, len(threadIDs))
	if len(threadIDs) == 0 {
		return out, nil
	}

	var counts []struct {
		ThreadID     string
		MessageCount int64
	}
	if err := db.WithContext(ctx).
		Model(&domain.Message{}).
		Select("thread_id, COUNT(*) AS message_count").
		Where("thread_id IN ?", threadIDs).
		Group("thread_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	// Latest row per thread via MAX(seq); MAX(timestamp) comes back as TEXT in SQLite.
	var last []domain.Message
	if err := db.WithContext(ctx).
		Table("messages AS m").
		Select("m.*").
		Joins("JOIN (SELECT thread_id, MAX(seq) AS max_seq FROM messages GROUP BY thread_id) lm ON lm.thread_id = m.thread_id AND lm.max_seq = m.seq").
		Where("m.thread_id IN ?", threadIDs).
		Find(&last).Error; err != nil {
		return nil, err
	}

	for _, c := range counts {
		out[c.ThreadID] = ThreadActivity{ThreadID: c.ThreadID, MessageCount: c.MessageCount}
	}
	for i := range last {
		a := out[last[i].ThreadID]
		a.ThreadID = last[i].ThreadID
		a.LastMessage = &last[i]
		out[last[i].ThreadID] = a
	}
	return out, nil
}
