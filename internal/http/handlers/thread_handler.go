// Thread HTTP handlers.
//
//   - GET  /threads               (inbox; degrades to [] + warning without messaging tables)
//   - POST /threads               (start a conversation with its first message)
//   - GET  /threads/{id}          (participants or admin; weak ETag)
//   - POST /threads/{id}/messages (reply to the counterpart of the last message)
//   - GET  /threads/{id}/since    (polling; ?ts=RFC3339)
//   - GET  /admin/threads         (every thread, admin only)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
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

// InboxItem is one thread in an inbox listing.
type InboxItem struct {
	services.ThreadSummary
	HasUnread bool `json:"has_unread"`
}

// InboxResponse wraps the inbox. Warning is set when messaging is unavailable.
type InboxResponse struct {
	Threads []InboxItem `json:"threads"`
	Warning string      `json:"warning,omitempty"`
}

// StartThreadRequest opens a conversation. ContextID is required for
// resource and booking contexts and must be empty for general threads.
type StartThreadRequest struct {
	ContextType string `json:"context_type" binding:"required,oneof=resource booking general" example:"booking"`
	ContextID   string `json:"context_id"   example:"6f1c7d2e-3d7b-4a64-9d8e-1b0f3f1c2a10"`
	ReceiverID  string `json:"receiver_id"  binding:"required,notblank" example:"0d6c1a53-5e37-4a8f-8ff0-0b5f3c1d9a11"`
	Content     string `json:"content"      binding:"required,notblank" example:"Can I pick up the key at 8:45?"`
}

// StartThreadResponse carries the new thread and its first message.
type StartThreadResponse struct {
	Thread  domain.Thread  `json:"thread"`
	Message domain.Message `json:"message"`
}

// PostMessageRequest is a reply body.
type PostMessageRequest struct {
	Content string `json:"content" binding:"required,notblank" example:"Sure, see you then."`
}

// ThreadDetailResponse is a full thread view.
type ThreadDetailResponse struct {
	Thread       domain.Thread    `json:"thread"`
	Participants []string         `json:"participants"`
	Messages     []domain.Message `json:"messages"`
}

// PolledMessage is the polling tuple.
type PolledMessage struct {
	MessageID  string    `json:"message_id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

//
// Helpers
//

// threadAccess loads the thread and checks that the caller is a derived
// participant or an admin. It writes the error response itself.
func (h *Handlers) threadAccess(c *gin.Context) (*domain.Thread, []string, bool) {
	ctx := c.Request.Context()
	t, err := h.threads.Get(ctx, c.Param("id"))
	if err != nil {
		failService(c, err)
		return nil, nil, false
	}
	participants, err := h.threads.Participants(ctx, t)
	if err != nil {
		failService(c, err)
		return nil, nil, false
	}
	if !isAdmin(c) && !contains(participants, userID(c)) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "you are not a participant of this thread")
		return nil, nil, false
	}
	return t, participants, true
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func inboxItems(rows []services.ThreadSummary, caller string) []InboxItem {
	out := make([]InboxItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, InboxItem{
			ThreadSummary: r,
			HasUnread:     r.LastMessage != nil && r.LastMessage.SenderID != caller,
		})
	}
	return out
}

//
// Handlers
//

// ListThreads godoc
// @ID          listThreads
// @Summary     Inbox
// @Description Threads where the caller sent or received a message, most recent activity first. When messaging storage is missing the list is empty and a warning explains how to provision it.
// @Tags        Threads
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  handlers.InboxResponse
// @Failure     500  {object}  handlers.ErrorResponse "List failed"
// @Router      /threads [get]
func (h *Handlers) ListThreads(c *gin.Context) {
	uid := userID(c)
	rows, err := h.threads.ListForUser(c.Request.Context(), uid)
	h.respondInbox(c, rows, err, uid)
}

// ListAllThreads godoc
// @ID          listAllThreads
// @Summary     All threads (admin)
// @Description Every thread including ones without messages; inactive threads last.
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  handlers.InboxResponse
// @Failure     403  {object}  handlers.ErrorResponse "Admin only"
// @Router      /admin/threads [get]
func (h *Handlers) ListAllThreads(c *gin.Context) {
	rows, err := h.threads.ListForAdmin(c.Request.Context())
	h.respondInbox(c, rows, err, userID(c))
}

func (h *Handlers) respondInbox(c *gin.Context, rows []services.ThreadSummary, err error, caller string) {
	if errors.Is(err, services.ErrSchemaUnavailable) {
		ok(c, http.StatusOK, InboxResponse{Threads: []InboxItem{}, Warning: err.Error()})
		return
	}
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list threads")
		return
	}
	ok(c, http.StatusOK, InboxResponse{Threads: inboxItems(rows, caller)})
}

// StartThread godoc
// @ID          startThread
// @Summary     Start a conversation
// @Description Resource threads must be addressed to the resource owner. Booking threads are limited to the requester and the resource owner. General threads are admin only.
// @Tags        Threads
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  handlers.StartThreadRequest  true  "Thread context and first message"
// @Success     201  {object}  handlers.StartThreadResponse
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload, self thread or bad content"
// @Failure     403  {object}  handlers.ErrorResponse "Not allowed in this context"
// @Failure     404  {object}  handlers.ErrorResponse "Context or receiver not found"
// @Failure     503  {object}  handlers.ErrorResponse "Messaging unavailable"
// @Router      /threads [post]
func (h *Handlers) StartThread(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	var req StartThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "context_type, receiver_id and content are required")
		return
	}
	receiver := strings.TrimSpace(req.ReceiverID)
	if receiver == uid {
		failService(c, services.ErrSelfThread)
		return
	}
	if _, err := h.identity.GetUser(ctx, receiver); err != nil {
		failService(c, err)
		return
	}

	var contextID *string
	switch req.ContextType {
	case domain.ContextResource:
		res, err := h.catalog.GetResource(ctx, req.ContextID, true)
		if err != nil {
			failService(c, err)
			return
		}
		if receiver != res.OwnerID {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "resource conversations are addressed to the resource owner")
			return
		}
		contextID = &res.ID
	case domain.ContextBooking:
		b, err := h.bookings.Get(ctx, req.ContextID)
		if err != nil {
			failService(c, err)
			return
		}
		allowed := []string{b.RequesterID}
		if res, err := h.catalog.GetResource(ctx, b.ResourceID, true); err == nil {
			allowed = append(allowed, res.OwnerID)
		}
		if !contains(allowed, uid) || !contains(allowed, receiver) {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "booking conversations are limited to the requester and the resource owner")
			return
		}
		contextID = &b.ID
	default:
		if !isAdmin(c) {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only administrators can start general conversations")
			return
		}
		if req.ContextID != "" {
			failService(c, services.ErrInvalidContext)
			return
		}
	}

	t, m, err := h.threads.Start(ctx, req.ContextType, contextID, uid, receiver, req.Content)
	if err != nil {
		failService(c, err)
		return
	}
	middleware.LoggerFrom(c).Info().Str("thread_id", t.ID).Str("context_type", t.ContextType).Msg("thread started")
	ok(c, http.StatusCreated, StartThreadResponse{Thread: *t, Message: *m})
}

// GetThread godoc
// @ID          getThread
// @Summary     Get a thread with its messages
// @Tags        Threads
// @Produce     json
// @Security    BearerAuth
// @Param       id             path    string  true   "Thread ID"  format(uuid)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {object}  handlers.ThreadDetailResponse
// @Header      200  {string}  ETag  "Weak ETag for current messages"
// @Success     304  {string}  string "Not Modified"
// @Failure     403  {object}  handlers.ErrorResponse "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse "Thread not found"
// @Failure     503  {object}  handlers.ErrorResponse "Messaging unavailable"
// @Router      /threads/{id} [get]
func (h *Handlers) GetThread(c *gin.Context) {
	t, participants, allowed := h.threadAccess(c)
	if !allowed {
		return
	}
	ctx := c.Request.Context()

	if count, seq, err := h.threads.Stats(ctx, t.ID); err == nil {
		if notModified(c, fmt.Sprintf(`W/"thread:%s:%d:%d"`, t.ID, count, seq)) {
			return
		}
	}

	msgs, err := h.threads.Messages(ctx, t.ID)
	if err != nil {
		failService(c, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	ok(c, http.StatusOK, ThreadDetailResponse{Thread: *t, Participants: participants, Messages: msgs})
}

// PostMessage godoc
// @ID          postThreadMessage
// @Summary     Reply in a thread
// @Description The reply goes to the counterpart of the latest message. Threads without messages cannot be replied to.
// @Tags        Threads
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string  true  "Thread ID"  format(uuid)
// @Param       body  body  handlers.PostMessageRequest  true  "Reply"
// @Success     201  {object}  domain.Message
// @Failure     400  {object}  handlers.ErrorResponse "Empty thread or bad content"
// @Failure     403  {object}  handlers.ErrorResponse "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse "Thread not found"
// @Failure     503  {object}  handlers.ErrorResponse "Messaging unavailable"
// @Router      /threads/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	t, _, allowed := h.threadAccess(c)
	if !allowed {
		return
	}
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failService(c, services.ErrEmptyContent)
		return
	}

	ctx := c.Request.Context()
	uid := userID(c)
	last, err := h.threads.LastMessage(ctx, t.ID)
	if err != nil {
		failService(c, err)
		return
	}
	if last == nil {
		failService(c, services.ErrEmptyThread)
		return
	}
	recipient := last.SenderID
	if last.SenderID == uid {
		recipient = last.ReceiverID
	}

	m, err := h.threads.PostMessage(ctx, t.ID, uid, recipient, req.Content)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, m)
}

// PollMessages godoc
// @ID          pollThreadMessages
// @Summary     Poll for new messages
// @Description Messages strictly newer than ts, oldest first. Returns [] when messaging is unavailable.
// @Tags        Threads
// @Produce     json
// @Security    BearerAuth
// @Param       id  path   string  true  "Thread ID"  format(uuid)
// @Param       ts  query  string  true  "Timestamp of the last seen message (RFC 3339)"
// @Success     200  {array}   handlers.PolledMessage
// @Header      200  {integer} X-Poll-Interval  "Suggested seconds between polls"
// @Failure     400  {object}  handlers.ErrorResponse "Missing or malformed ts"
// @Failure     403  {object}  handlers.ErrorResponse "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse "Thread not found"
// @Router      /threads/{id}/since [get]
func (h *Handlers) PollMessages(c *gin.Context) {
	ctx := c.Request.Context()
	empty := []PolledMessage{}

	t, err := h.threads.Get(ctx, c.Param("id"))
	if errors.Is(err, services.ErrSchemaUnavailable) {
		ok(c, http.StatusOK, empty)
		return
	}
	if err != nil {
		failService(c, err)
		return
	}
	participants, err := h.threads.Participants(ctx, t)
	if errors.Is(err, services.ErrSchemaUnavailable) {
		ok(c, http.StatusOK, empty)
		return
	}
	if err != nil {
		failService(c, err)
		return
	}
	if !isAdmin(c) && !contains(participants, userID(c)) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "you are not a participant of this thread")
		return
	}

	raw := c.Query("ts")
	if raw == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ts is required")
		return
	}
	since, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ts must be an RFC 3339 timestamp")
		return
	}

	msgs, err := h.threads.MessagesSince(ctx, t.ID, since)
	if errors.Is(err, services.ErrSchemaUnavailable) {
		ok(c, http.StatusOK, empty)
		return
	}
	if err != nil {
		failService(c, err)
		return
	}
	out := make([]PolledMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, PolledMessage{
			MessageID:  m.ID,
			SenderID:   m.SenderID,
			ReceiverID: m.ReceiverID,
			Content:    m.Content,
			Timestamp:  m.Timestamp,
		})
	}
	if h.pollEvery > 0 {
		c.Header("X-Poll-Interval", strconv.Itoa(int(h.pollEvery.Seconds())))
	}
	ok(c, http.StatusOK, out)
}
