// Booking HTTP handlers.
//
//   - POST /resources/{id}/bookings   (request a booking; Idempotency-Key aware)
//   - GET  /resources/{id}/bookings   (owner or admin)
//   - GET  /bookings/mine             (caller's bookings, weak ETag)
//   - GET  /bookings/approvals        (pending queue; staff see their own resources)
//   - GET  /bookings/{id}             (requester, owner or admin)
//   - POST /bookings/{id}/approve|reject|cancel|complete
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/http/middleware"
	"github.com/tbourn/campus-resource-hub/internal/services"
)

//
// DTOs
//

// CreateBookingRequest is the JSON payload for requesting a booking. Times
// are RFC 3339; the window is half-open [start, end).
type CreateBookingRequest struct {
	StartAt time.Time `json:"start_datetime" binding:"required" example:"2025-10-08T09:00:00Z"`
	EndAt   time.Time `json:"end_datetime"   binding:"required" example:"2025-10-08T11:00:00Z"`
}

// DecisionRequest is the optional payload for approve and reject.
type DecisionRequest struct {
	Notes string `json:"notes" binding:"max=1000" example:"Key at the front desk"`
}

// BookingListResponse wraps a list of bookings.
type BookingListResponse struct {
	Bookings []domain.Booking `json:"bookings"`
}

// ApprovalItem is a pending booking with the resource it targets.
type ApprovalItem struct {
	Booking  domain.Booking   `json:"booking"`
	Resource *domain.Resource `json:"resource,omitempty"`
}

// ApprovalsResponse wraps the approval queue.
type ApprovalsResponse struct {
	Approvals []ApprovalItem `json:"approvals"`
}

//
// Helpers
//

// bookingWithResource loads a booking and its resource, writing 404 when
// either is missing.
func (h *Handlers) bookingWithResource(c *gin.Context) (*domain.Booking, *domain.Resource, bool) {
	ctx := c.Request.Context()
	b, err := h.bookings.Get(ctx, c.Param("id"))
	if err != nil {
		failService(c, err)
		return nil, nil, false
	}
	r, err := h.catalog.GetResource(ctx, b.ResourceID, true)
	if err != nil {
		failService(c, err)
		return nil, nil, false
	}
	return b, r, true
}

// decisionNotes binds the optional notes body. An empty body is allowed.
func decisionNotes(c *gin.Context) (*string, bool) {
	var req DecisionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "notes must be at most 1000 characters")
			return nil, false
		}
	}
	n := strings.TrimSpace(req.Notes)
	if n == "" {
		return nil, true
	}
	return &n, true
}

func nonNil(items []domain.Booking) []domain.Booking {
	if items == nil {
		return []domain.Booking{}
	}
	return items
}

//
// Handlers
//

// CreateBooking godoc
// @ID          createBooking
// @Summary     Request a booking
// @Description Books the resource for [start_datetime, end_datetime). Resources that do not require approval are approved immediately with notes "Auto-approved". A repeated Idempotency-Key replays the original booking.
// @Tags        Bookings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id               path    string  true   "Resource ID"  format(uuid)
// @Param       Idempotency-Key  header  string  false  "Replay-safe retry key"
// @Param       body             body    handlers.CreateBookingRequest  true  "Booking window"
// @Success     201  {object}  domain.Booking
// @Header      201  {string}  X-Idempotent-Replay  "true when the response is a replay"
// @Failure     400  {object}  handlers.ErrorResponse "Invalid interval or payload"
// @Failure     403  {object}  handlers.ErrorResponse "Draft resource"
// @Failure     404  {object}  handlers.ErrorResponse "Resource not found or archived"
// @Failure     409  {object}  handlers.ErrorResponse "Overlaps an active booking"
// @Router      /resources/{id}/bookings [post]
func (h *Handlers) CreateBooking(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	if target, replay := middleware.ReplayTarget(c); replay {
		if b, err := h.bookings.Get(ctx, target); err == nil && b.RequesterID == uid {
			c.Header("X-Idempotent-Replay", "true")
			ok(c, http.StatusCreated, b)
			return
		}
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start_datetime and end_datetime are required RFC 3339 times")
		return
	}

	res, err := h.catalog.GetResource(ctx, c.Param("id"), true)
	if err != nil {
		failService(c, err)
		return
	}
	switch res.Status {
	case domain.ResourceArchived:
		fail(c, http.StatusNotFound, ErrCodeNotFound, services.ErrResourceNotFound.Error())
		return
	case domain.ResourceDraft:
		if res.OwnerID != uid && !isAdmin(c) {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "resource is not published")
			return
		}
	}

	var notes *string
	if !res.RequiresApproval {
		n := services.AutoApprovedNote
		notes = &n
	}

	b, err := h.bookings.Create(ctx, res.ID, uid, req.StartAt, req.EndAt, res.RequiresApproval, notes)
	if err != nil {
		failService(c, err)
		return
	}

	if key, has := middleware.GetIdempotencyKey(c); has && h.idem != nil {
		if err := h.idem.Remember(ctx, uid, middleware.IdempotencyScope(c), key, b.ID, http.StatusCreated); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("booking_id", b.ID).Msg("idempotency record failed")
		}
	}
	ok(c, http.StatusCreated, b)
}

// ListMyBookings godoc
// @ID          listMyBookings
// @Summary     List my bookings
// @Description Caller's bookings, latest start first. Supports weak ETag via If-None-Match.
// @Tags        Bookings
// @Produce     json
// @Security    BearerAuth
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {object}  handlers.BookingListResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Router      /bookings/mine [get]
func (h *Handlers) ListMyBookings(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	if count, last, err := h.bookings.Stats(ctx, uid); err == nil {
		if notModified(c, fmt.Sprintf(`W/"bookings:%s:%d:%d"`, uid, count, last)) {
			return
		}
	}

	items, err := h.bookings.ListForUser(ctx, uid)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list bookings")
		return
	}
	ok(c, http.StatusOK, BookingListResponse{Bookings: nonNil(items)})
}

// ListResourceBookings godoc
// @ID          listResourceBookings
// @Summary     List bookings of a resource
// @Tags        Bookings
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Resource ID"  format(uuid)
// @Success     200  {object}  handlers.BookingListResponse
// @Failure     403  {object}  handlers.ErrorResponse "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse "Resource not found"
// @Router      /resources/{id}/bookings [get]
func (h *Handlers) ListResourceBookings(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := h.catalog.GetResource(ctx, c.Param("id"), true)
	if err != nil {
		failService(c, err)
		return
	}
	if res.OwnerID != userID(c) && !isAdmin(c) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the resource owner can list its bookings")
		return
	}
	items, err := h.bookings.ListForResource(ctx, res.ID)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list bookings")
		return
	}
	ok(c, http.StatusOK, BookingListResponse{Bookings: nonNil(items)})
}

// ListApprovals godoc
// @ID          listApprovals
// @Summary     Pending approval queue
// @Description Admins see every pending booking; staff see pending bookings of resources they own. Oldest request first.
// @Tags        Bookings
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  handlers.ApprovalsResponse
// @Failure     403  {object}  handlers.ErrorResponse "Students cannot approve"
// @Router      /bookings/approvals [get]
func (h *Handlers) ListApprovals(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		pending []domain.Booking
		err     error
	)
	if isAdmin(c) {
		pending, err = h.bookings.ListPendingApprovals(ctx)
	} else {
		pending, err = h.bookings.ListPendingForOwner(ctx, userID(c))
	}
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list approvals")
		return
	}

	out := make([]ApprovalItem, 0, len(pending))
	cache := map[string]*domain.Resource{}
	for _, b := range pending {
		out = append(out, ApprovalItem{Booking: b, Resource: h.cachedResource(ctx, cache, b.ResourceID)})
	}
	ok(c, http.StatusOK, ApprovalsResponse{Approvals: out})
}

func (h *Handlers) cachedResource(ctx context.Context, cache map[string]*domain.Resource, id string) *domain.Resource {
	if r, hit := cache[id]; hit {
		return r
	}
	r, err := h.catalog.GetResource(ctx, id, true)
	if err != nil {
		r = nil
	}
	cache[id] = r
	return r
}

// GetBooking godoc
// @ID          getBooking
// @Summary     Get a booking
// @Tags        Bookings
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Booking ID"  format(uuid)
// @Success     200  {object}  domain.Booking
// @Failure     403  {object}  handlers.ErrorResponse "Forbidden"
// @Failure     404  {object}  handlers.ErrorResponse "Booking not found"
// @Router      /bookings/{id} [get]
func (h *Handlers) GetBooking(c *gin.Context) {
	b, r, found := h.bookingWithResource(c)
	if !found {
		return
	}
	uid := userID(c)
	if b.RequesterID != uid && r.OwnerID != uid && !isAdmin(c) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "not your booking")
		return
	}
	ok(c, http.StatusOK, b)
}

// ApproveBooking godoc
// @ID          approveBooking
// @Summary     Approve a pending booking
// @Description Resource owner or admin. Approving a booking that is no longer pending is a no-op.
// @Tags        Bookings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string  true   "Booking ID"  format(uuid)
// @Param       body  body  handlers.DecisionRequest  false  "Optional notes"
// @Success     200  {object}  domain.Booking
// @Failure     403  {object}  handlers.ErrorResponse "Forbidden"
// @Failure     404  {object}  handlers.ErrorResponse "Booking not found"
// @Router      /bookings/{id}/approve [post]
func (h *Handlers) ApproveBooking(c *gin.Context) {
	h.decide(c, h.bookings.Approve)
}

// RejectBooking godoc
// @ID          rejectBooking
// @Summary     Reject a pending booking
// @Description Resource owner or admin. Rejecting a booking that is no longer pending is a no-op.
// @Tags        Bookings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string  true   "Booking ID"  format(uuid)
// @Param       body  body  handlers.DecisionRequest  false  "Optional notes"
// @Success     200  {object}  domain.Booking
// @Failure     403  {object}  handlers.ErrorResponse "Forbidden"
// @Failure     404  {object}  handlers.ErrorResponse "Booking not found"
// @Router      /bookings/{id}/reject [post]
func (h *Handlers) RejectBooking(c *gin.Context) {
	h.decide(c, h.bookings.Reject)
}

type decideFunc func(ctx context.Context, bookingID, approverID string, notes *string) error

func (h *Handlers) decide(c *gin.Context, fn decideFunc) {
	b, r, found := h.bookingWithResource(c)
	if !found {
		return
	}
	uid := userID(c)
	if r.OwnerID != uid && !isAdmin(c) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the resource owner can decide on this booking")
		return
	}
	notes, valid := decisionNotes(c)
	if !valid {
		return
	}
	if err := fn(c.Request.Context(), b.ID, uid, notes); err != nil {
		failService(c, err)
		return
	}
	h.respondBooking(c, b.ID)
}

// CancelBooking godoc
// @ID          cancelBooking
// @Summary     Cancel a booking
// @Description Requester or admin. Applies regardless of the current status.
// @Tags        Bookings
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Booking ID"  format(uuid)
// @Success     200  {object}  domain.Booking
// @Failure     403  {object}  handlers.ErrorResponse "Forbidden"
// @Failure     404  {object}  handlers.ErrorResponse "Booking not found"
// @Router      /bookings/{id}/cancel [post]
func (h *Handlers) CancelBooking(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := h.bookings.Get(ctx, c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	if b.RequesterID != userID(c) && !isAdmin(c) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the requester can cancel this booking")
		return
	}
	if err := h.bookings.Cancel(ctx, b.ID); err != nil {
		failService(c, err)
		return
	}
	h.respondBooking(c, b.ID)
}

// CompleteBooking godoc
// @ID          completeBooking
// @Summary     Mark a booking completed
// @Description Resource owner or admin. Applies regardless of the current status.
// @Tags        Bookings
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Booking ID"  format(uuid)
// @Success     200  {object}  domain.Booking
// @Failure     403  {object}  handlers.ErrorResponse "Forbidden"
// @Failure     404  {object}  handlers.ErrorResponse "Booking not found"
// @Router      /bookings/{id}/complete [post]
func (h *Handlers) CompleteBooking(c *gin.Context) {
	b, r, found := h.bookingWithResource(c)
	if !found {
		return
	}
	if r.OwnerID != userID(c) && !isAdmin(c) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the resource owner can complete this booking")
		return
	}
	if err := h.bookings.Complete(c.Request.Context(), b.ID); err != nil {
		failService(c, err)
		return
	}
	h.respondBooking(c, b.ID)
}

// respondBooking re-reads the booking after a transition.
func (h *Handlers) respondBooking(c *gin.Context, id string) {
	b, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}
