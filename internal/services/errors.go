// Package services defines the application logic that sits between the HTTP
// layer and the per-user state stores: authentication, workspace lifecycle,
// onboarding, weekly planning, the win library and the coach.
//
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"

	"github.com/tbourn/rocketmentor/internal/parser"
)

// Auth errors.
var (
	// ErrEmailTaken is returned by Signup when an account already uses the email.
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. The two cases are not distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized indicates a missing, unknown or expired session token.
	ErrUnauthorized = errors.New("not signed in")

	// ErrUserNotFound indicates the account behind a session no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// Input errors.
var (
	// ErrValidation is the parent of every ValidationError.
	ErrValidation = errors.New("validation failed")

	ErrEmptyText           = errors.New("text is empty")
	ErrTooLong             = errors.New("text too long")
	ErrInvalidScore        = errors.New("score must be between 1 and 5")
	ErrUnknownCompetency   = errors.New("unknown competency")
	ErrInvalidDay          = errors.New("day must be a weekday")
	ErrInvalidCardType     = errors.New("unknown card type")
	ErrInvalidExportFormat = errors.New("export format must be csv or markdown")
)

// State errors.
var (
	ErrWeekNotFound      = errors.New("week plan not found")
	ErrCardNotFound      = errors.New("card not found")
	ErrMoveNotFound      = errors.New("career move not found")
	ErrWinNotFound       = errors.New("win not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrNoPromotionPath   = errors.New("onboarding not completed")

	// ErrNoTasks is returned by GeneratePlan when the week has no real cards.
	ErrNoTasks = errors.New("add some tasks to your week first")

	// ErrSessionEnded is returned when a delayed operation finished after the
	// user signed out; its result was discarded.
	ErrSessionEnded = errors.New("session ended before the operation completed")
)

// ValidationError carries per-field messages. errors.Is(err, ErrValidation)
// holds for every ValidationError.
type ValidationError struct {
	Fields parser.FieldErrors
}

func (e *ValidationError) Error() string { return ErrValidation.Error() + ": " + e.Fields.Error() }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// invalid wraps fe, or returns nil when fe is empty.
func invalid(fe parser.FieldErrors) error {
	if fe.OK() {
		return nil
	}
	return &ValidationError{Fields: fe}
}
