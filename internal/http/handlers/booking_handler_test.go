package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/services"
)

func TestCreateBooking_AutoApproveAndPending(t *testing.T) {
	e := newEnv(t, true)
	owner := e.user(t, domain.RoleStaff)
	student := e.user(t, domain.RoleStudent)

	open := e.resource(t, owner.ID, domain.ResourcePublished, false)
	b := e.book(t, open.ID, student.ID, T.Add(9*time.Hour), T.Add(11*time.Hour))
	if b.Status != domain.BookingApproved || b.ApprovalNotes == nil || *b.ApprovalNotes != services.AutoApprovedNote {
		t.Fatalf("auto-approved booking = %+v", b)
	}
	if b.RequesterID != student.ID || b.ResourceID != open.ID {
		t.Fatalf("ownership fields = %+v", b)
	}

	gated := e.resource(t, owner.ID, domain.ResourcePublished, true)
	p := e.book(t, gated.ID, student.ID, T.Add(9*time.Hour), T.Add(11*time.Hour))
	if p.Status != domain.BookingPending || p.ApprovalNotes != nil {
		t.Fatalf("pending booking = %+v", p)
	}
}

func TestCreateBooking_Rejections(t *testing.T) {
	e := newEnv(t, true)
	owner := e.user(t, domain.RoleStaff)
	student := e.user(t, domain.RoleStudent)
	res := e.resource(t, owner.ID, domain.ResourcePublished, true)
	e.book(t, res.ID, student.ID, T.Add(9*time.Hour), T.Add(11*time.Hour))

	path := "/resources/" + res.ID + "/bookings"

	// Overlap with a pending booking.
	w := e.do(t, http.MethodPost, path, student.ID, window(T.Add(10*time.Hour), T.Add(12*time.Hour)))
	expectError(t, w, http.StatusConflict, ErrCodeConflict)

	// Touching endpoints do not overlap.
	e.book(t, res.ID, student.ID, T.Add(11*time.Hour), T.Add(12*time.Hour))

	w = e.do(t, http.MethodPost, path, student.ID, window(T.Add(14*time.Hour), T.Add(14*time.Hour)))
	expectError(t, w, http.StatusBadRequest, ErrCodeInvalidInterval)

	w = e.do(t, http.MethodPost, path, student.ID, `{"start_datetime":"tomorrow"}`)
	expectError(t, w, http.StatusBadRequest, ErrCodeBadRequest)

	w = e.do(t, http.MethodPost, "/resources/nope/bookings", student.ID, window(T, T.Add(time.Hour)))
	expectError(t, w, http.StatusNotFound, ErrCodeNotFound)

	archived := e.resource(t, owner.ID, domain.ResourceArchived, false)
	w = e.do(t, http.MethodPost, "/resources/"+archived.ID+"/bookings", student.ID, window(T, T.Add(time.Hour)))
	expectError(t, w, http.StatusNotFound, ErrCodeNotFound)
}

func TestCreateBooking_DraftOnlyForOwner(t *testing.T) {
	e := newEnv(t, true)
	owner := e.user(t, domain.RoleStaff)
	student := e.user(t, domain.RoleStudent)
	admin := e.user(t, domain.RoleAdmin)
	draft := e.resource(t, owner.ID, domain.ResourceDraft, false)
	path := "/resources/" + draft.ID + "/bookings"

	w := e.do(t, http.MethodPost, path, student.ID, window(T, T.Add(time.Hour)))
	expectError(t, w, http.StatusForbidden, ErrCodeForbidden)

	e.book(t, draft.ID, owner.ID, T, T.Add(time.Hour))
	e.book(t, draft.ID, admin.ID, T.Add(time.Hour), T.Add(2*time.Hour))
}

func TestCreateBooking_IdempotentReplay(t *testing.T) {
	e := newEnv(t, true)
	owner := e.user(t, domain.RoleStaff)
	student := e.user(t, domain.RoleStudent)
	res := e.resource(t, owner.ID, domain.ResourcePublished, false)
	path := "/resources/" + res.ID + "/bookings"
	body := window(T.Add(9*time.Hour), T.Add(10*time.Hour))

	first := e.do(t, http.MethodPost, path, student.ID, body, "Idempotency-Key", "book-1")
	if first.Code != http.StatusCreated || first.Header().Get("X-Idempotent-Replay") != "" {
		t.Fatalf("first: %d %v", first.Code, first.Header())
	}
	orig := decode[domain.Booking](t, first)

	// The retry would conflict with the original; it must replay instead.
	again := e.do(t, http.MethodPost, path, student.ID, body, "Idempotency-Key", "book-1")
	if again.Code != http.StatusCreated || again.Header().Get("X-Idempotent-Replay") != "true" {
		t.Fatalf("replay: %d %s", again.Code, again.Body.String())
	}
	if got := decode[domain.Booking](t, again); got.ID != orig.ID {
		t.Fatalf("replayed %s, want %s", got.ID, orig.ID)
	}

	// A fresh key is a new request and hits the conflict check.
	w := e.do(t, http.MethodPost, path, student.ID, body, "Idempotency-Key", "book-2")
	expectError(t, w, http.StatusConflict, ErrCodeConflict)
}

func TestListMyBookings_ETag(t *testing.T) {
	e := newEnv(t, true)
	owner := e.user(t, domain.RoleStaff)
	student := e.user(t, domain.RoleStudent)
	res := e.resource(t, owner.ID, domain.ResourcePublished, false)

	e.book(t, res.ID, student.ID, T.Add(9*time.Hour), T.Add(10*time.Hour))
	e.book(t, res.ID, student.ID, T.Add(24*time.Hour), T.Add(25*time.Hour))

	w := e.do(t, http.MethodGet, "/bookings/mine", student.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	list := decode[BookingListResponse](t, w)
	if len(list.Bookings) != 2 || !list.Bookings[0].StartAt.After(list.Bookings[1].StartAt) {
		t.Fatalf("want 2 bookings latest first, got %+v", list.Bookings)
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	w = e.do(t, http.MethodGet, "/bookings/mine", student.ID, nil, "If-None-Match", etag)
	if w.Code != http.StatusNotModified {
		t.Fatalf("want 304, got %d", w.Code)
	}

	other := e.user(t, domain.RoleStudent)
	w = e.do(t, http.MethodGet, "/bookings/mine", other.ID, nil)
	if got := decode[BookingListResponse](t, w); got.Bookings == nil || len(got.Bookings) != 0 {
		t.Fatalf("empty list must encode as [], got %s", w.Body.String())
	}
}

func TestGetBooking_Visibility(t *testing.T) {
	e := newEnv(t, true)
	owner := e.user(t, domain.RoleStaff)
	student := e.user(t, domain.RoleStudent)
	stranger := e.user(t, domain.RoleStudent)
	admin := e.user(t, domain.RoleAdmin)
	res := e.resource(t, owner.ID, domain.ResourcePublished, true)
	b := e.book(t, res.ID, student.ID, T, T.Add(time.Hour))

	for _, who := range []string{student.ID, owner.ID, admin.ID} {
		if w := e.do(t, http.MethodGet, "/bookings/"+b.ID, who, nil); w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d", who, w.Code)
		}
	}
	expectError(t, e.do(t, http.MethodGet, "/bookings/"+b.ID, stranger.ID, nil), http.StatusForbidden, ErrCodeForbidden)
	expectError(t, e.do(t, http.MethodGet, "/bookings/missing", student.ID, nil), http.StatusNotFound, ErrCodeNotFound)

	expectError(t, e.do(t, http.MethodGet, "/resources/"+res.ID+"/bookings", student.ID, nil), http.StatusForbidden, ErrCodeForbidden)
	w := e.do(t, http.MethodGet, "/resources/"+res.ID+"/bookings", owner.ID, nil)
	if got := decode[BookingListResponse](t, w); len(got.Bookings) != 1 || got.Bookings[0].ID != b.ID {
		t.Fatalf("resource bookings = %s", w.Body.String())
	}
}

func TestApprovals_QueueAndDecisions(t *testing.T) {
	e := newEnv(t, true)
	ownerA := e.user(t, domain.RoleStaff)
	ownerB := e.user(t, domain.RoleStaff)
	admin := e.user(t, domain.RoleAdmin)
	student := e.user(t, domain.RoleStudent)
	resA := e.resource(t, ownerA.ID, domain.ResourcePublished, true)
	resB := e.resource(t, ownerB.ID, domain.ResourcePublished, true)

	bA := e.book(t, resA.ID, student.ID, T, T.Add(time.Hour))
	bB := e.book(t, resB.ID, student.ID, T, T.Add(time.Hour))

	w := e.do(t, http.MethodGet, "/bookings/approvals", admin.ID, nil)
	if got := decode[ApprovalsResponse](t, w); len(got.Approvals) != 2 {
		t.Fatalf("admin queue = %s", w.Body.String())
	}
	w = e.do(t, http.MethodGet, "/bookings/approvals", ownerA.ID, nil)
	got := decode[ApprovalsResponse](t, w)
	if len(got.Approvals) != 1 || got.Approvals[0].Booking.ID != bA.ID || got.Approvals[0].Resource == nil || got.Approvals[0].Resource.ID != resA.ID {
		t.Fatalf("owner queue = %s", w.Body.String())
	}

	// Another owner cannot decide.
	expectError(t, e.do(t, http.MethodPost, "/bookings/"+bA.ID+"/approve", ownerB.ID, nil), http.StatusForbidden, ErrCodeForbidden)

	w = e.do(t, http.MethodPost, "/bookings/"+bA.ID+"/approve", ownerA.ID, kv("notes", "  bring your ID "))
	if w.Code != http.StatusOK {
		t.Fatalf("approve: %d %s", w.Code, w.Body.String())
	}
	approved := decode[domain.Booking](t, w)
	if approved.Status != domain.BookingApproved || approved.ApprovalNotes == nil || *approved.ApprovalNotes != "bring your ID" {
		t.Fatalf("approved = %+v", approved)
	}

	// Rejecting an already decided booking is a no-op.
	w = e.do(t, http.MethodPost, "/bookings/"+bA.ID+"/reject", ownerA.ID, nil)
	if w.Code != http.StatusOK || decode[domain.Booking](t, w).Status != domain.BookingApproved {
		t.Fatalf("late reject: %d %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/bookings/"+bB.ID+"/reject", admin.ID, nil)
	if w.Code != http.StatusOK || decode[domain.Booking](t, w).Status != domain.BookingRejected {
		t.Fatalf("admin reject: %d %s", w.Code, w.Body.String())
	}

	if n := len(e.audit.entries); n != 2 {
		t.Fatalf("audit entries = %d, want 2", n)
	}

	// The rejected window is free again.
	e.book(t, resB.ID, student.ID, T, T.Add(time.Hour))
}

func TestDecision_NotesTooLong(t *testing.T) {
	e := newEnv(t, true)
	owner := e.user(t, domain.RoleStaff)
	student := e.user(t, domain.RoleStudent)
	res := e.resource(t, owner.ID, domain.ResourcePublished, true)
	b := e.book(t, res.ID, student.ID, T, T.Add(time.Hour))

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'x'
	}
	w := e.do(t, http.MethodPost, "/bookings/"+b.ID+"/approve", owner.ID, kv("notes", string(long)))
	expectError(t, w, http.StatusBadRequest, ErrCodeBadRequest)
}

func TestCancelAndComplete(t *testing.T) {
	e := newEnv(t, true)
	owner := e.user(t, domain.RoleStaff)
	student := e.user(t, domain.RoleStudent)
	stranger := e.user(t, domain.RoleStudent)
	res := e.resource(t, owner.ID, domain.ResourcePublished, false)
	b := e.book(t, res.ID, student.ID, T, T.Add(time.Hour))

	expectError(t, e.do(t, http.MethodPost, "/bookings/"+b.ID+"/cancel", stranger.ID, nil), http.StatusForbidden, ErrCodeForbidden)
	expectError(t, e.do(t, http.MethodPost, "/bookings/"+b.ID+"/complete", student.ID, nil), http.StatusForbidden, ErrCodeForbidden)

	w := e.do(t, http.MethodPost, "/bookings/"+b.ID+"/complete", owner.ID, nil)
	if w.Code != http.StatusOK || decode[domain.Booking](t, w).Status != domain.BookingCompleted {
		t.Fatalf("complete: %d %s", w.Code, w.Body.String())
	}

	// Cancel applies regardless of the current status.
	w = e.do(t, http.MethodPost, "/bookings/"+b.ID+"/cancel", student.ID, nil)
	if w.Code != http.StatusOK || decode[domain.Booking](t, w).Status != domain.BookingCancelled {
		t.Fatalf("cancel: %d %s", w.Code, w.Body.String())
	}

	expectError(t, e.do(t, http.MethodPost, "/bookings/missing/cancel", student.ID, nil), http.StatusNotFound, ErrCodeNotFound)
}

func kv(k, v string) map[string]string { return map[string]string{k: v} }
