package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/campus-resource-hub/internal/domain"
)

func TestDomainCounters(t *testing.T) {
	db := newSvcDB(t, true)
	ctx := context.Background()
	s := NewBookingService(db, nil)
	owner := mkUser(t, db, domain.RoleStaff)
	student := mkUser(t, db, domain.RoleStudent)
	r := mkResource(t, db, owner.ID, true)

	created := testutil.ToFloat64(bookingsCreated.WithLabelValues(domain.BookingPending))
	conflicts := testutil.ToFloat64(bookingConflicts)
	applied := testutil.ToFloat64(bookingTransitions.WithLabelValues(domain.BookingApproved, "true"))
	skipped := testutil.ToFloat64(bookingTransitions.WithLabelValues(domain.BookingApproved, "false"))

	b, err := s.Create(ctx, r.ID, student.ID, T, T.Add(time.Hour), true, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(ctx, r.ID, student.ID, T.Add(30*time.Minute), T.Add(2*time.Hour), true, nil); err == nil {
		t.Fatalf("expected conflict")
	}
	if err := s.Approve(ctx, b.ID, owner.ID, nil); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := s.Approve(ctx, b.ID, owner.ID, nil); err != nil {
		t.Fatalf("second Approve: %v", err)
	}

	if got := testutil.ToFloat64(bookingsCreated.WithLabelValues(domain.BookingPending)) - created; got != 1 {
		t.Fatalf("bookings_created_total{pending} delta = %v", got)
	}
	if got := testutil.ToFloat64(bookingConflicts) - conflicts; got != 1 {
		t.Fatalf("booking_conflicts_total delta = %v", got)
	}
	if got := testutil.ToFloat64(bookingTransitions.WithLabelValues(domain.BookingApproved, "true")) - applied; got != 1 {
		t.Fatalf("applied transitions delta = %v", got)
	}
	if got := testutil.ToFloat64(bookingTransitions.WithLabelValues(domain.BookingApproved, "false")) - skipped; got != 1 {
		t.Fatalf("skipped transitions delta = %v", got)
	}
}

func TestAppliedLabel(t *testing.T) {
	if appliedLabel(0) != "false" || appliedLabel(1) != "true" || appliedLabel(3) != "true" {
		t.Fatalf("unexpected labels")
	}
}
