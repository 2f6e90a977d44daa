package repo

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/campus-resource-hub/internal/domain"
)

// newTestDB opens a private in-memory database and migrates the given models.
func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// newFullDB opens a private in-memory database with every table.
func newFullDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

var baseTime = time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, db *gorm.DB, role string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           uuid.NewString(),
		Name:         role + " user",
		Email:        uuid.NewString() + "@campus.test",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
		CreatedAt:    baseTime,
	}
	if err := CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedResource(t *testing.T, db *gorm.DB, ownerID, status string, requiresApproval bool) *domain.Resource {
	t.Helper()
	r := &domain.Resource{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		Title:            "Room " + status,
		RequiresApproval: requiresApproval,
		Status:           status,
		CreatedAt:        baseTime,
	}
	if err := CreateResource(context.Background(), db, r); err != nil {
		t.Fatalf("seed resource: %v", err)
	}
	return r
}

func seedBooking(t *testing.T, db *gorm.DB, resourceID, requesterID string, start, end time.Time, status string, createdAt time.Time) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		ID:          uuid.NewString(),
		ResourceID:  resourceID,
		RequesterID: requesterID,
		StartAt:     start,
		EndAt:       end,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := CreateBooking(context.Background(), db, b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func seedMessage(t *testing.T, db *gorm.DB, threadID string, seq int64, from, to, content string, ts time.Time) *domain.Message {
	t.Helper()
	m := &domain.Message{
		ID:         uuid.NewString(),
		ThreadID:   threadID,
		Seq:        seq,
		SenderID:   from,
		ReceiverID: to,
		Content:    content,
		Timestamp:  ts,
	}
	if err := CreateMessage(context.Background(), db, m); err != nil {
		t.Fatalf("seed message: %v", err)
	}
	return m
}
