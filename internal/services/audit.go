// Package services – audit trail
//
// Moderation actions (approve/reject) append a row to admin_logs. Writes are
// fire-and-forget: Record never blocks the caller and a failed or dropped
// write never affects the transition that produced it.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/repo"
)

// AuditSink accepts audit entries without blocking.
type AuditSink interface {
	Record(entry domain.AdminLog)
}

// AsyncAuditLog queues entries on a buffered channel and persists them from
// a single writer goroutine.
type AsyncAuditLog struct {
	db    *gorm.DB
	queue chan domain.AdminLog
	done  chan struct{}

	// WriteTimeout bounds each insert.
	WriteTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewAsyncAuditLog starts the writer goroutine. buffer is the number of
// entries that may wait for storage before new ones are dropped.
func NewAsyncAuditLog(db *gorm.DB, buffer int) *AsyncAuditLog {
	if buffer < 1 {
		buffer = 1
	}
	a := &AsyncAuditLog{
		db:           db,
		queue:        make(chan domain.AdminLog, buffer),
		done:         make(chan struct{}),
		WriteTimeout: 5 * time.Second,
	}
	go a.run()
	return a
}

// Record enqueues entry. When the queue is full or the sink is closed the
// entry is dropped with a warning.
func (a *AsyncAuditLog) Record(entry domain.AdminLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		auditDropped.Inc()
		log.Warn().Str("action", entry.Action).Msg("audit sink closed; entry dropped")
		return
	}
	select {
	case a.queue <- entry:
	default:
		auditDropped.Inc()
		log.Warn().Str("action", entry.Action).Msg("audit queue full; entry dropped")
	}
}

// Close stops accepting entries and waits until queued ones are written or
// ctx expires.
func (a *AsyncAuditLog) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AsyncAuditLog) run() {
	defer close(a.done)
	for entry := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.WriteTimeout)
		e := entry
		if err := repo.InsertAdminLog(ctx, a.db, &e); err != nil {
			log.Warn().Err(err).
				Str("admin_id", e.AdminID).
				Str("action", e.Action).
				Msg("audit write failed")
		}
		cancel()
	}
}

// Recent returns the newest persisted entries, newest first. Entries still
// waiting in the queue are not included.
func (a *AsyncAuditLog) Recent(ctx context.Context, limit int) ([]domain.AdminLog, error) {
	return repo.ListAdminLogs(ctx, a.db, limit)
}

// discardAudit drops every entry; used when no sink is configured.
type discardAudit struct{}

func (discardAudit) Record(domain.AdminLog) {}
