// Package services – BookingService
//
// This file implements the booking engine: conflict detection over
// half-open intervals and the pending/approved/rejected/cancelled/completed
// state machine.
//
// Creation runs as a per-resource critical section: an in-process keyed
// mutex serializes requests for the same resource, and the overlap check
// plus insert share one transaction (with row locks on PostgreSQL), so two
// concurrent requests cannot both pass the check and insert overlapping
// rows.
//
// Status transitions are conditional updates that silently no-op when the
// current status does not allow them; callers that need confirmation must
// re-read the booking.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AutoApprovedNote is stored as approval notes on bookings of resources that
// do not require approval.
const AutoApprovedNote = "Auto-approved"

// BookingService owns booking creation, conflict checks, and transitions.
type BookingService struct {
	DB    *gorm.DB
	Audit AuditSink

	// Now returns the current time; overridable in tests.
	Now func() time.Time

	locks keyedMutex
}

// NewBookingService wires a BookingService. A nil audit sink discards entries.
func NewBookingService(db *gorm.DB, audit AuditSink) *BookingService {
	if audit == nil {
		audit = discardAudit{}
	}
	return &BookingService{DB: db, Audit: audit, Now: time.Now}
}

func (s *BookingService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *BookingService) audit() AuditSink {
	if s.Audit == nil {
		return discardAudit{}
	}
	return s.Audit
}

// normalizeInstant stores instants in UTC at microsecond precision, which
// both SQLite and PostgreSQL round-trip exactly.
func normalizeInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// Create books resourceID for requesterID over [start, end). The booking
// starts approved when requiresApproval is false and pending otherwise.
//
// It returns ErrInvalidInterval when start >= end and ErrConflict when an
// active booking of the same resource overlaps the window; nothing is
// written in either case.
func (s *BookingService) Create(ctx context.Context, resourceID, requesterID string, start, end time.Time, requiresApproval bool, notes *string) (*domain.Booking, error) {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("resource.id", resourceID),
			attribute.String("user.id", requesterID),
		),
	)
	defer span.End()

	start, end = normalizeInstant(start), normalizeInstant(end)
	if !start.Before(end) {
		return nil, ErrInvalidInterval
	}

	status := domain.BookingPending
	if !requiresApproval {
		status = domain.BookingApproved
	}

	unlock := s.locks.Lock(resourceID)
	defer unlock()

	var created *domain.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overlapping, err := repo.LockOverlapping(ctx, tx, resourceID, start, end)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return ErrConflict
		}

		now := s.now()
		b := &domain.Booking{
			ID:            uuid.NewString(),
			ResourceID:    resourceID,
			RequesterID:   requesterID,
			StartAt:       start,
			EndAt:         end,
			Status:        status,
			ApprovalNotes: notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.CreateBooking(ctx, tx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			bookingConflicts.Inc()
			span.SetAttributes(attribute.Bool("booking.conflict", true))
			return nil, ErrConflict
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "create booking")
		return nil, fmt.Errorf("create booking: %w", err)
	}

	bookingsCreated.WithLabelValues(created.Status).Inc()
	log.Info().
		Str("booking_id", created.ID).
		Str("resource_id", resourceID).
		Str("status", created.Status).
		Msg("booking created")
	return created, nil
}

// Get returns a booking or ErrBookingNotFound.
func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := repo.GetBooking(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// HasConflict reports whether [start, end) overlaps an active booking of
// resourceID other than excludeID (empty for none).
func (s *BookingService) HasConflict(ctx context.Context, resourceID string, start, end time.Time, excludeID string) (bool, error) {
	start, end = normalizeInstant(start), normalizeInstant(end)
	if !start.Before(end) {
		return false, ErrInvalidInterval
	}
	return repo.HasConflict(ctx, s.DB, resourceID, start, end, excludeID)
}

// Approve moves a pending booking to approved and records notes. Bookings in
// any other status are left as they are. An audit entry is queued when the
// transition happens.
func (s *BookingService) Approve(ctx context.Context, bookingID, approverID string, notes *string) error {
	return s.decide(ctx, "Approve", bookingID, approverID, domain.BookingApproved, notes)
}

// Reject moves a pending booking to rejected and records notes. Bookings in
// any other status are left as they are. An audit entry is queued when the
// transition happens.
func (s *BookingService) Reject(ctx context.Context, bookingID, approverID string, notes *string) error {
	return s.decide(ctx, "Reject", bookingID, approverID, domain.BookingRejected, notes)
}

func (s *BookingService) decide(ctx context.Context, op, bookingID, approverID, to string, notes *string) error {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, op,
		trace.WithAttributes(
			attribute.String("booking.id", bookingID),
			attribute.String("user.id", approverID),
		),
	)
	defer span.End()

	n, err := repo.TransitionPending(ctx, s.DB, bookingID, to, notes, s.now())
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%s booking: %w", to, err)
	}
	bookingTransitions.WithLabelValues(to, appliedLabel(n)).Inc()
	span.SetAttributes(attribute.Bool("booking.applied", n > 0))
	if n == 0 {
		log.Debug().Str("booking_id", bookingID).Str("to", to).Msg("transition skipped; booking not pending")
		return nil
	}

	s.audit().Record(domain.AdminLog{
		AdminID:     approverID,
		Action:      fmt.Sprintf("%s booking %s", to, bookingID),
		TargetTable: "bookings",
		Details:     notes,
	})
	log.Info().Str("booking_id", bookingID).Str("status", to).Str("by", approverID).Msg("booking decided")
	return nil
}

// Cancel sets the booking to cancelled regardless of its current status.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) error {
	return s.force(ctx, "Cancel", bookingID, domain.BookingCancelled)
}

// Complete sets the booking to completed regardless of its current status.
func (s *BookingService) Complete(ctx context.Context, bookingID string) error {
	return s.force(ctx, "Complete", bookingID, domain.BookingCompleted)
}

func (s *BookingService) force(ctx context.Context, op, bookingID, to string) error {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, op, trace.WithAttributes(attribute.String("booking.id", bookingID)))
	defer span.End()

	n, err := repo.SetBookingStatus(ctx, s.DB, bookingID, to, s.now())
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%s booking: %w", to, err)
	}
	bookingTransitions.WithLabelValues(to, appliedLabel(n)).Inc()
	return nil
}

// ListForUser returns the caller's bookings, latest start first.
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return repo.ListBookingsForRequester(ctx, s.DB, userID)
}

// ListForResource returns all bookings of a resource, latest start first.
func (s *BookingService) ListForResource(ctx context.Context, resourceID string) ([]domain.Booking, error) {
	return repo.ListBookingsForResource(ctx, s.DB, resourceID)
}

// ListPendingApprovals returns every pending booking, oldest request first.
func (s *BookingService) ListPendingApprovals(ctx context.Context) ([]domain.Booking, error) {
	return repo.ListPendingBookings(ctx, s.DB)
}

// ListPendingForOwner returns pending bookings on resources owned by
// ownerID, oldest request first.
func (s *BookingService) ListPendingForOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	return repo.ListPendingBookingsForOwner(ctx, s.DB, ownerID)
}

// Stats returns the number of bookings requested by userID and a version
// stamp that changes whenever one of them is updated.
func (s *BookingService) Stats(ctx context.Context, userID string) (int64, int64, error) {
	return repo.BookingStats(ctx, s.DB, userID)
}
