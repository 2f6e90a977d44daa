// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on messages. Generic codes mirror HTTP status semantics, domain codes
// name the booking or messaging rule that was violated.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "conflict",
//	  "message": "this time conflicts with an existing booking"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/campus-resource-hub/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeInvalidInterval   = "invalid_interval"
	ErrCodeSchemaUnavailable = "schema_unavailable"
	ErrCodeAccountDisabled   = "account_disabled"
	ErrCodeInvalidContext    = "invalid_context"
	ErrCodeEmptyContent      = "content_empty"
	ErrCodeContentTooLong    = "content_too_long"
	ErrCodeSelfThread        = "self_thread"
	ErrCodeEmptyThread       = "empty_thread"
	ErrCodeListFailed        = "list_failed"
)

// serviceErrors maps service sentinels to (status, code). Messages come from
// the sentinel itself so clients see the same text the service produced.
var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrInvalidInterval, http.StatusBadRequest, ErrCodeInvalidInterval},
	{services.ErrConflict, http.StatusConflict, ErrCodeConflict},
	{services.ErrBookingNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrThreadNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrResourceNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrUserNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrSchemaUnavailable, http.StatusServiceUnavailable, ErrCodeSchemaUnavailable},
	{services.ErrInvalidContext, http.StatusBadRequest, ErrCodeInvalidContext},
	{services.ErrEmptyContent, http.StatusBadRequest, ErrCodeEmptyContent},
	{services.ErrTooLong, http.StatusBadRequest, ErrCodeContentTooLong},
	{services.ErrSelfThread, http.StatusBadRequest, ErrCodeSelfThread},
	{services.ErrEmptyThread, http.StatusBadRequest, ErrCodeEmptyThread},
	{services.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
	{services.ErrAccountDisabled, http.StatusForbidden, ErrCodeAccountDisabled},
}

// failService writes the envelope for a service error. Unknown errors become
// 500 with a generic message; the cause is logged by fail.
func failService(c *gin.Context, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			fail(c, m.status, m.code, m.err.Error())
			return
		}
	}
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
}
