package errors

import "fmt"

// ErrorCode represents a Lexi error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT" // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrNoActiveSession   ErrorCode = "NO_ACTIVE_SESSION"  // 409
	ErrSessionActive     ErrorCode = "SESSION_ACTIVE"     // 409
	ErrStore             ErrorCode = "STORE"              // 500, retryable store failure
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// LexiError represents a structured error with code, status, and details.
type LexiError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *LexiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *LexiError {
	return &LexiError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnsupportedFormat creates a 400 error for an unknown export format.
func NewUnsupportedFormat(format string) *LexiError {
	return &LexiError{
		Code:    ErrUnsupportedFormat,
		Status:  400,
		Message: fmt.Sprintf("unsupported format: %q", format),
		Details: map[string]any{"format": format},
	}
}

// NewWordNotFound creates a 404 error for an unknown word id.
func NewWordNotFound(userID, wordID string) *LexiError {
	return &LexiError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("word not found: %q", wordID),
		Details: map[string]any{"user_id": userID, "word_id": wordID},
	}
}

// NewNotFound creates a 404 error for a missing record.
func NewNotFound(identifier string) *LexiError {
	return &LexiError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("record not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewNoActiveSession creates a 409 error for session operations
// attempted with no session in progress for the learner.
func NewNoActiveSession(userID string) *LexiError {
	return &LexiError{
		Code:    ErrNoActiveSession,
		Status:  409,
		Message: fmt.Sprintf("no active session for learner %q", userID),
		Details: map[string]any{"user_id": userID},
	}
}

// NewSessionActive creates a 409 error for starting a session while one
// is already in progress for the learner.
func NewSessionActive(userID, sessionID string) *LexiError {
	return &LexiError{
		Code:    ErrSessionActive,
		Status:  409,
		Message: fmt.Sprintf("session already active for learner %q", userID),
		Details: map[string]any{"user_id": userID, "session_id": sessionID},
	}
}

// NewStore creates a 500 error for a state-store failure. Callers can
// distinguish it from application logic and retry or alert.
func NewStore(err error) *LexiError {
	msg := "store failure"
	if err != nil {
		msg = err.Error()
	}
	return &LexiError{
		Code:    ErrStore,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *LexiError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &LexiError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a LexiError with the given code.
func Is(err error, code ErrorCode) bool {
	if lErr, ok := err.(*LexiError); ok {
		return lErr.Code == code
	}
	return false
}
