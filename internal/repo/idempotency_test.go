package repo

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/tbourn/campus-resource-hub/internal/domain"
)

func TestGetIdempotency_EmptyScope_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	rec, err := GetIdempotency(context.Background(), db, "u1", "   ", "k1", time.Now())
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for empty scope, got (%v, %v)", rec, err)
	}
}

func TestIdempotency_CreateGetExpireAndDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "resource:r1:bookings", "k1", "b1", http.StatusCreated, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.TargetID != "b1" || !rec.ExpiresAt.After(rec.CreatedAt) {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "resource:r1:bookings", "k1", time.Now())
	if err != nil || got.TargetID != "b1" || got.Status != http.StatusCreated {
		t.Fatalf("GetIdempotency: %+v err=%v", got, err)
	}

	// Expired when "now" is past ExpiresAt.
	if _, err := GetIdempotency(ctx, db, "u1", "resource:r1:bookings", "k1", time.Now().Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired record, got %v", err)
	}

	// Same tuple twice is a duplicate; another scope is not.
	if _, err := CreateIdempotency(ctx, db, "u1", "resource:r1:bookings", "k1", "b2", http.StatusCreated, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "resource:r2:bookings", "k1", "b3", http.StatusCreated, time.Hour); err != nil {
		t.Fatalf("other scope should be accepted: %v", err)
	}
}

func TestCreateIdempotency_MissingTable_ReturnsRawError(t *testing.T) {
	db := newTestDB(t)
	_, err := CreateIdempotency(context.Background(), db, "u1", "s", "k", "t", 201, time.Hour)
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected a raw DB error, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := map[string]bool{
		"UNIQUE constraint failed: users.email":                 true,
		"constraint failed: UNIQUE constraint failed (2067)":    true,
		`ERROR: duplicate key value violates unique constraint`: true,
		"no such table: users":                                  false,
	}
	for msg, want := range cases {
		if got := IsUniqueViolation(errors.New(msg)); got != want {
			t.Fatalf("IsUniqueViolation(%q) = %v, want %v", msg, got, want)
		}
	}
	if IsUniqueViolation(nil) {
		t.Fatalf("nil error is not a violation")
	}
}
