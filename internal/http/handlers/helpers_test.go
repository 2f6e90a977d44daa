package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/http/middleware"
	"github.com/tbourn/campus-resource-hub/internal/repo"
	"github.com/tbourn/campus-resource-hub/internal/services"
)

// ---------- test environment ----------

// env is a router wired to real services over a private in-memory database.
// Callers are injected with the X-Test-User header; roles are read from the
// users table the same way middleware.Authenticate does.
type env struct {
	db      *gorm.DB
	r       *gin.Engine
	h       *Handlers
	threads *services.ThreadService
	audit   *memAudit
}

func newEnv(t *testing.T, messaging bool) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
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
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	audit := &memAudit{}
	threads := services.NewThreadService(db, messaging, 0)
	identity := &services.IdentityService{DB: db}
	idem := services.NewIdempotencyService(db, time.Hour)

	h := New(Deps{
		Bookings:    services.NewBookingService(db, audit),
		Threads:     threads,
		Identity:    identity,
		Catalog:     &services.CatalogService{DB: db},
		Idempotency: idem,
		Audit:       audit,
		JWTSecret:   []byte("test-secret"),
		TokenTTL:    time.Hour,

		PollInterval: 5 * time.Second,
	})

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			u, err := identity.GetUser(c.Request.Context(), id)
			if err != nil {
				t.Fatalf("unknown test user %q", id)
			}
			c.Set(middleware.CtxUserID, u.ID)
			c.Set(middleware.CtxRole, u.Role)
		}
		c.Next()
	})
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, idem.Lookup))

	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", h.Me)
	r.POST("/resources/:id/bookings", h.CreateBooking)
	r.GET("/resources/:id/bookings", h.ListResourceBookings)
	r.GET("/bookings/mine", h.ListMyBookings)
	r.GET("/bookings/approvals", h.ListApprovals)
	r.GET("/bookings/:id", h.GetBooking)
	r.POST("/bookings/:id/approve", h.ApproveBooking)
	r.POST("/bookings/:id/reject", h.RejectBooking)
	r.POST("/bookings/:id/cancel", h.CancelBooking)
	r.POST("/bookings/:id/complete", h.CompleteBooking)
	r.GET("/threads", h.ListThreads)
	r.POST("/threads", h.StartThread)
	r.GET("/threads/:id", h.GetThread)
	r.POST("/threads/:id/messages", h.PostMessage)
	r.GET("/threads/:id/since", h.PollMessages)
	r.GET("/admin/threads", h.ListAllThreads)
	r.GET("/admin/audit", h.ListAudit)

	return &env{db: db, r: r, h: h, threads: threads, audit: audit}
}

// do sends a request as user (empty for anonymous) and returns the recorder.
func (e *env) do(t *testing.T, method, path, user string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *env) user(t *testing.T, role string) *domain.User {
	t.Helper()
	hash, err := services.HashPassword("pw-" + role)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{
		ID:           uuid.NewString(),
		Name:         role,
		Email:        uuid.NewString() + "@campus.test",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := repo.CreateUser(context.Background(), e.db, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *env) resource(t *testing.T, ownerID, status string, requiresApproval bool) *domain.Resource {
	t.Helper()
	r := &domain.Resource{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		Title:            "Lab 3",
		RequiresApproval: requiresApproval,
		Status:           status,
	}
	if err := repo.CreateResource(context.Background(), e.db, r); err != nil {
		t.Fatalf("create resource: %v", err)
	}
	return r
}

// book creates a booking through the API and returns it.
func (e *env) book(t *testing.T, resourceID, user string, start, end time.Time) domain.Booking {
	t.Helper()
	w := e.do(t, http.MethodPost, "/resources/"+resourceID+"/bookings", user, window(start, end))
	if w.Code != http.StatusCreated {
		t.Fatalf("book: status=%d body=%s", w.Code, w.Body.String())
	}
	return decode[domain.Booking](t, w)
}

func window(start, end time.Time) gin.H {
	return gin.H{
		"start_datetime": start.Format(time.RFC3339),
		"end_datetime":   end.Format(time.RFC3339),
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body=%s)", v, err, w.Body.String())
	}
	return v
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status=%d want %d body=%s", w.Code, status, w.Body.String())
	}
	resp := decode[ErrorResponse](t, w)
	if resp.Code != code {
		t.Fatalf("code=%q want %q", resp.Code, code)
	}
	if resp.RequestID == "" {
		t.Fatalf("missing request_id in %+v", resp)
	}
}

// memAudit is an in-memory AuditSink and AuditReader.
type memAudit struct {
	entries []domain.AdminLog
}

func (m *memAudit) Record(e domain.AdminLog) { m.entries = append(m.entries, e) }

func (m *memAudit) Recent(_ context.Context, limit int) ([]domain.AdminLog, error) {
	out := make([]domain.AdminLog, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// T is the reference day the scenarios are expressed against.
var T = time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
