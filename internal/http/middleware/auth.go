// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication and role gating.
// Tokens are HS256 JWTs whose subject is the user id. The role carried in the
// token is advisory only: Authenticate re-reads the account on every request
// so that deactivation and role changes take effect immediately.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Gin context keys populated by Authenticate.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

// RoleAdmin passes every RequireRole check.
const RoleAdmin = "admin"

// ErrInvalidToken is returned by ParseToken for any malformed, expired or
// badly signed token.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload issued at login.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for userID valid for ttl from now.
func IssueToken(secret []byte, userID, role string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies raw and returns its claims.
func ParseToken(secret []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// PrincipalLookup resolves the current role and activation state of a user.
// Any error is treated as "unknown user".
type PrincipalLookup func(ctx context.Context, userID string) (role string, active bool, err error)

// Authenticate requires a valid "Authorization: Bearer <jwt>" header.
//
//   - missing or invalid token: 401 unauthorized
//   - unknown user: 401 unauthorized
//   - deactivated user: 403 account_disabled
//
// On success the user id and the stored role are placed in the Gin context
// under CtxUserID and CtxRole.
func Authenticate(secret []byte, lookup PrincipalLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			authFailures.WithLabelValues("missing_token").Inc()
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		claims, err := ParseToken(secret, raw)
		if err != nil {
			authFailures.WithLabelValues("invalid_token").Inc()
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		role, active, err := lookup(c.Request.Context(), claims.Subject)
		if err != nil {
			authFailures.WithLabelValues("unknown_user").Inc()
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "unknown user")
			return
		}
		if !active {
			authFailures.WithLabelValues("disabled").Inc()
			abortJSON(c, http.StatusForbidden, "account_disabled", "account is disabled")
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, role)
		c.Next()
	}
}

// RequireRole admits callers whose role is one of roles. Admins always pass.
// It must run after Authenticate.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles)+1)
	allowed[RoleAdmin] = struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if _, ok := allowed[role]; !ok {
			authFailures.WithLabelValues("forbidden_role").Inc()
			abortJSON(c, http.StatusForbidden, "forbidden", "insufficient role")
			return
		}
		c.Next()
	}
}

func bearerToken(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

// abortJSON writes the standard error envelope. Handlers have their own copy
// of this shape; middleware cannot import them.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.GetString(requestIDKey),
		"code":       code,
		"message":    msg,
	})
}
