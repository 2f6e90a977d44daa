package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/http/middleware"
)

func TestLogin(t *testing.T) {
	e := newEnv(t, true)
	u := e.user(t, domain.RoleStudent)

	w := e.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": u.Email, "password": "pw-student"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	resp := decode[LoginResponse](t, w)
	if resp.TokenType != "Bearer" || resp.User == nil || resp.User.ID != u.ID {
		t.Fatalf("login resp = %+v", resp)
	}
	claims, err := middleware.ParseToken([]byte("test-secret"), resp.Token)
	if err != nil || claims.Subject != u.ID || claims.Role != domain.RoleStudent {
		t.Fatalf("claims=%+v err=%v", claims, err)
	}
	if !resp.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Fatalf("expires_at %v not after iat %v", resp.ExpiresAt, claims.IssuedAt.Time)
	}

	expectError(t, e.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": u.Email, "password": "nope"}), http.StatusUnauthorized, ErrCodeUnauthorized)
	expectError(t, e.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "who@campus.test", "password": "x"}), http.StatusUnauthorized, ErrCodeUnauthorized)
	expectError(t, e.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "not-an-email"}), http.StatusBadRequest, ErrCodeBadRequest)

	if err := e.db.WithContext(context.Background()).Model(&domain.User{}).Where("id = ?", u.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	expectError(t, e.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": u.Email, "password": "pw-student"}), http.StatusForbidden, ErrCodeAccountDisabled)
}

func TestMe(t *testing.T) {
	e := newEnv(t, true)
	u := e.user(t, domain.RoleStaff)

	w := e.do(t, http.MethodGet, "/auth/me", u.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: %d", w.Code)
	}
	if got := decode[domain.User](t, w); got.ID != u.ID || got.Role != domain.RoleStaff {
		t.Fatalf("me = %+v", got)
	}
	expectError(t, e.do(t, http.MethodGet, "/auth/me", "", nil), http.StatusNotFound, ErrCodeNotFound)
}
