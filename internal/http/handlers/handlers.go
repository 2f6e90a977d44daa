// Package handlers holds the Request Handlers: the HTTP boundary that
// authenticates callers, enforces who may act on which booking or thread,
// and translates service results into JSON.
//
// Handlers are transport-thin. The booking and thread services contain no
// authorization logic; every ownership and participation check lives here.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/http/middleware"
	"github.com/tbourn/campus-resource-hub/internal/services"
)

//
// Service contracts (context-aware)
//

// BookingService is the Booking Engine as seen by the HTTP layer.
type BookingService interface {
	Create(ctx context.Context, resourceID, requesterID string, start, end time.Time, requiresApproval bool, notes *string) (*domain.Booking, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
	Approve(ctx context.Context, bookingID, approverID string, notes *string) error
	Reject(ctx context.Context, bookingID, approverID string, notes *string) error
	Cancel(ctx context.Context, bookingID string) error
	Complete(ctx context.Context, bookingID string) error
	ListForUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListForResource(ctx context.Context, resourceID string) ([]domain.Booking, error)
	ListPendingApprovals(ctx context.Context) ([]domain.Booking, error)
	ListPendingForOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
	// Stats returns (count, last update in unix nanos) for ETags.
	Stats(ctx context.Context, userID string) (int64, int64, error)
}

// ThreadService is the Thread Registry as seen by the HTTP layer.
type ThreadService interface {
	Start(ctx context.Context, contextType string, contextID *string, createdBy, receiverID, content string) (*domain.Thread, *domain.Message, error)
	Get(ctx context.Context, threadID string) (*domain.Thread, error)
	PostMessage(ctx context.Context, threadID, senderID, receiverID, content string) (*domain.Message, error)
	Messages(ctx context.Context, threadID string) ([]domain.Message, error)
	MessagesSince(ctx context.Context, threadID string, since time.Time) ([]domain.Message, error)
	LastMessage(ctx context.Context, threadID string) (*domain.Message, error)
	ListForUser(ctx context.Context, userID string) ([]services.ThreadSummary, error)
	ListForAdmin(ctx context.Context) ([]services.ThreadSummary, error)
	Participants(ctx context.Context, t *domain.Thread) ([]string, error)
	// Stats returns (message count, highest seq) for ETags.
	Stats(ctx context.Context, threadID string) (int64, int64, error)
}

// IdentityService authenticates and resolves users.
type IdentityService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// CatalogService resolves resources.
type CatalogService interface {
	GetResource(ctx context.Context, id string, includeUnpublished bool) (*domain.Resource, error)
}

// IdempotencyRecorder persists the entity produced under an Idempotency-Key.
type IdempotencyRecorder interface {
	Remember(ctx context.Context, userID, scope, key, targetID string, status int) error
}

// AuditReader exposes recent moderation entries.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]domain.AdminLog, error)
}

//
// Handler wiring
//

// Deps lists everything Handlers needs. Idempotency and Audit are optional.
type Deps struct {
	Bookings    BookingService
	Threads     ThreadService
	Identity    IdentityService
	Catalog     CatalogService
	Idempotency IdempotencyRecorder
	Audit       AuditReader

	JWTSecret []byte
	TokenTTL  time.Duration

	// PollInterval is advertised to polling clients via X-Poll-Interval.
	PollInterval time.Duration
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	bookings BookingService
	threads  ThreadService
	identity IdentityService
	catalog  CatalogService
	idem     IdempotencyRecorder
	audit    AuditReader

	secret    []byte
	tokenTTL  time.Duration
	pollEvery time.Duration
	now       func() time.Time
}

// New constructs Handlers from d.
func New(d Deps) *Handlers {
	ttl := d.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Handlers{
		bookings:  d.Bookings,
		threads:   d.Threads,
		identity:  d.Identity,
		catalog:   d.Catalog,
		idem:      d.Idempotency,
		audit:     d.Audit,
		secret:    d.JWTSecret,
		tokenTTL:  ttl,
		pollEvery: d.PollInterval,
		now:       time.Now,
	}
}

// userID returns the caller set by middleware.Authenticate.
func userID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

// isAdmin reports whether the caller holds the admin role.
func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.CtxRole) == domain.RoleAdmin
}
