package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
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
	if migrate {
		if err := repo.AutoMigrate(db); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// newFileDB opens a WAL-mode file database for tests with concurrent writers.
func newFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "svc.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// T is the reference instant the scenarios are expressed against.
var T = time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)

func mkUser(t *testing.T, db *gorm.DB, role string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           uuid.NewString(),
		Name:         role,
		Email:        uuid.NewString() + "@campus.test",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	if err := repo.CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mkResource(t *testing.T, db *gorm.DB, ownerID string, requiresApproval bool) *domain.Resource {
	t.Helper()
	r := &domain.Resource{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		Title:            "Study Room",
		RequiresApproval: requiresApproval,
		Status:           domain.ResourcePublished,
	}
	if err := repo.CreateResource(context.Background(), db, r); err != nil {
		t.Fatalf("create resource: %v", err)
	}
	return r
}

func strp(s string) *string { return &s }

// memAudit collects audit entries in memory.
type memAudit struct {
	mu      sync.Mutex
	entries []domain.AdminLog
}

func (m *memAudit) Record(e domain.AdminLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

func (m *memAudit) all() []domain.AdminLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AdminLog(nil), m.entries...)
}

// clock returns a Now func that advances by step on every call.
func clock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := cur
		cur = cur.Add(step)
		return now
	}
}
