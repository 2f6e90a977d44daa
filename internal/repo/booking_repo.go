// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Booking
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only persistence and query composition.
//
// Error semantics:
//   - When a booking is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors the raw gorm error is propagated.
//
// Overlap test: an existing booking [s, e) overlaps the candidate window
// [start, end) when s < end AND e > start. Bookings that merely touch do not
// overlap.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/campus-resource-hub/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// activeWindow scopes a bookings query to active rows of resourceID that
// overlap [start, end), optionally skipping excludeID.
func activeWindow(db *gorm.DB, resourceID string, start, end time.Time, excludeID string) *gorm.DB {
	q := db.Model(&domain.Booking{}).
		Where("resource_id = ? AND status IN ?", resourceID, domain.ActiveBookingStatuses).
		Where("start_datetime < ? AND end_datetime > ?", end.UTC(), start.UTC())
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

// HasConflict reports whether any active booking of resourceID overlaps
// [start, end). A non-empty excludeID removes that booking from the check.
func HasConflict(ctx context.Context, db *gorm.DB, resourceID string, start, end time.Time, excludeID string) (bool, error) {
	var n int64
	if err := activeWindow(db.WithContext(ctx), resourceID, start, end, excludeID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// LockOverlapping returns the active bookings of resourceID that overlap
// [start, end). On PostgreSQL the matching rows are locked FOR UPDATE for
// the remainder of the surrounding transaction; SQLite serializes writers
// on its own and gets a plain read.
func LockOverlapping(ctx context.Context, tx *gorm.DB, resourceID string, start, end time.Time) ([]domain.Booking, error) {
	var out []domain.Booking
	q := activeWindow(tx.WithContext(ctx), resourceID, start, end, "")
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Order("start_datetime ASC").Find(&out).Error
	return out, err
}

// CreateBooking inserts b as-is. Callers assign ID, status and timestamps.
func CreateBooking(ctx context.Context, db *gorm.DB, b *domain.Booking) error {
	return db.WithContext(ctx).Create(b).Error
}

// GetBooking fetches a booking by ID, or ErrNotFound.
func GetBooking(ctx context.Context, db *gorm.DB, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// TransitionPending moves a booking from pending to status and records
// notes. Rows in any other status are left untouched; the returned count
// tells the caller whether the transition happened.
func TransitionPending(ctx context.Context, db *gorm.DB, id, status string, notes *string, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, domain.BookingPending).
		Updates(map[string]any{
			"status":         status,
			"approval_notes": notes,
			"updated_at":     now.UTC(),
		})
	return res.RowsAffected, res.Error
}

// SetBookingStatus overwrites the status regardless of the current value.
func SetBookingStatus(ctx context.Context, db *gorm.DB, id, status string, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": now.UTC(),
		})
	return res.RowsAffected, res.Error
}

// ListBookingsForRequester returns the bookings requested by userID, latest
// start first.
func ListBookingsForRequester(ctx context.Context, db *gorm.DB, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Where("requester_id = ?", userID).
		Order("start_datetime DESC, id ASC").
		Find(&out).Error
	return out, err
}

// ListBookingsForResource returns every booking of resourceID, latest start first.
func ListBookingsForResource(ctx context.Context, db *gorm.DB, resourceID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("start_datetime DESC, id ASC").
		Find(&out).Error
	return out, err
}

// ListPendingBookings returns all pending bookings, oldest request first.
func ListPendingBookings(ctx context.Context, db *gorm.DB) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Where("status = ?", domain.BookingPending).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListPendingBookingsForOwner returns pending bookings on resources owned by
// ownerID, oldest request first.
func ListPendingBookingsForOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Select("bookings.*").
		Joins("JOIN resources r ON r.id = bookings.resource_id").
		Where("bookings.status = ? AND r.owner_id = ?", domain.BookingPending, ownerID).
		Order("bookings.created_at ASC, bookings.id ASC").
		Find(&out).Error
	return out, err
}
