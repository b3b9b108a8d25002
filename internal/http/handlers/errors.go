// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on messages. Generic codes mirror HTTP status semantics, domain codes
// name conditions a status alone cannot convey.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "no_tasks",
//	  "message": "add some tasks to your week first"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeValidation   = "validation_failed"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeTimeout      = "request_timeout"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeOnboardingRequired = "onboarding_required"
	ErrCodeNoTasks            = "no_tasks"
	ErrCodeSessionEnded       = "session_ended"
	ErrCodeCreateFailed       = "create_failed"
	ErrCodeUpdateFailed       = "update_failed"
	ErrCodeListFailed         = "list_failed"
	ErrCodeGenerateFailed     = "generate_failed"
	ErrCodeMethodNotAllowed   = "method_not_allowed"
)
