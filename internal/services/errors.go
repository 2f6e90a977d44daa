// Package services defines the business logic for bookings, threads, and
// the identity and catalog lookups they depend on. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Booking-related errors.
var (
	// ErrInvalidInterval is returned when a booking window does not satisfy
	// start < end.
	ErrInvalidInterval = errors.New("end time must be after start time")

	// ErrConflict is returned when the requested window overlaps an active
	// (pending or approved) booking of the same resource.
	ErrConflict = errors.New("this time conflicts with an existing booking")

	// ErrBookingNotFound indicates that the requested booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
)

// Messaging errors.
var (
	// ErrSchemaUnavailable is returned by every ThreadService method when the
	// threads/messages tables were not provisioned at startup. The message
	// carries the remediation step.
	ErrSchemaUnavailable = errors.New("messaging is unavailable: threads/messages tables are missing; run `server --migrate` to create them")

	// ErrThreadNotFound indicates that the requested thread does not exist.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrInvalidContext is returned when a thread context type is unknown or
	// its context id does not match the type.
	ErrInvalidContext = errors.New("invalid thread context")

	// ErrEmptyContent is returned when a message body is blank.
	ErrEmptyContent = errors.New("message content is empty")

	// ErrTooLong is returned when a message body exceeds the configured
	// maximum length.
	ErrTooLong = errors.New("message content too long")

	// ErrSelfThread is returned when a caller tries to message themselves.
	ErrSelfThread = errors.New("cannot start a conversation with yourself")

	// ErrEmptyThread is returned when replying to a thread that has no
	// message to reply to.
	ErrEmptyThread = errors.New("thread has no messages to reply to")
)

// Identity and catalog errors.
var (
	// ErrForbidden is returned when the caller is not allowed to act on the
	// target entity.
	ErrForbidden = errors.New("forbidden")

	// ErrResourceNotFound indicates that the resource does not exist or is
	// not visible to the caller.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when an email/password pair does not
	// match a stored account.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled is returned when the credentials are valid but the
	// account has been deactivated.
	ErrAccountDisabled = errors.New("account has been deactivated")
)
