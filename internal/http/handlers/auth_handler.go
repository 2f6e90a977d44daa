// Auth HTTP handlers.
//
//   - POST /auth/login   (exchange email + password for a bearer token)
//   - GET  /auth/me      (current account)
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/http/middleware"
)

// LoginRequest is the JSON payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email,max=255" example:"student@campus.test"`
	Password string `json:"password" binding:"required,max=128"       example:"student123"`
}

// LoginResponse carries the issued token and the authenticated account.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type" example:"Bearer"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and returns an HS256 bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Credentials"
// @Success     200   {object}  handlers.LoginResponse
// @Failure     400   {object}  handlers.ErrorResponse "Bad request"
// @Failure     401   {object}  handlers.ErrorResponse "Invalid credentials"
// @Failure     403   {object}  handlers.ErrorResponse "Account disabled"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	u, err := h.identity.Authenticate(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		failService(c, err)
		return
	}

	now := h.now().UTC()
	tok, err := middleware.IssueToken(h.secret, u.ID, u.Role, h.tokenTTL, now)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not issue token")
		return
	}
	middleware.LoggerFrom(c).Info().Str("user_id", u.ID).Msg("login")
	ok(c, http.StatusOK, LoginResponse{
		Token:     tok,
		TokenType: "Bearer",
		ExpiresAt: now.Add(h.tokenTTL),
		User:      u,
	})
}

// Me godoc
// @ID          me
// @Summary     Current account
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	u, err := h.identity.GetUser(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
