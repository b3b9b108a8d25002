// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints:
// the error envelope, the mapping from service errors to HTTP statuses, and
// small success helpers. Every failure leaves the handler through fail() so
// that clients always receive the same shape.
//
// Example error response:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "validation_failed",
//	  "message": "validation failed",
//	  "fields": { "email": "Please enter a valid email address" }
//	}
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/rocketmentor/internal/http/middleware"
	"github.com/tbourn/rocketmentor/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"resource not found"`
	// Per-field messages for validation_failed
	Fields map[string]string `json:"fields,omitempty"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	failFields(c, status, code, msg, nil)
}

func failFields(c *gin.Context, status int, code, msg string, fields map[string]string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
		Fields:    fields,
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without directly depending on unexported helpers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failErr translates a service error into a response. Errors the services do
// not name become 500 with fallback as the code and a generic message.
func failErr(c *gin.Context, err error, fallback string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		failFields(c, http.StatusBadRequest, ErrCodeValidation, services.ErrValidation.Error(), ve.Fields)

	case errors.Is(err, services.ErrEmptyText),
		errors.Is(err, services.ErrTooLong),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrUnknownCompetency),
		errors.Is(err, services.ErrInvalidDay),
		errors.Is(err, services.ErrInvalidCardType),
		errors.Is(err, services.ErrInvalidExportFormat):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())

	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrWeekNotFound),
		errors.Is(err, services.ErrCardNotFound),
		errors.Is(err, services.ErrMoveNotFound),
		errors.Is(err, services.ErrWinNotFound),
		errors.Is(err, services.ErrMilestoneNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())

	case errors.Is(err, services.ErrNoPromotionPath):
		fail(c, http.StatusConflict, ErrCodeOnboardingRequired, err.Error())

	case errors.Is(err, services.ErrNoTasks):
		fail(c, http.StatusUnprocessableEntity, ErrCodeNoTasks, err.Error())

	case errors.Is(err, services.ErrSessionEnded):
		fail(c, http.StatusConflict, ErrCodeSessionEnded, err.Error())

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fail(c, http.StatusRequestTimeout, ErrCodeTimeout, "request cancelled")

	default:
		// Storage errors stay in the log; clients get a fixed message.
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Str("code", fallback).Msg("api error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			RequestID: c.Writer.Header().Get("X-Request-ID"),
			Code:      fallback,
			Message:   "internal server error",
		})
	}
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
