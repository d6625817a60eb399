package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Error codes in the user-facing taxonomy.
const (
	CodeNotFound         = "PGRST116"
	CodeDuplicate        = "23505"
	CodeForeignKey       = "23503"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeAuthRequired     = "AUTH_REQUIRED"
	CodeValidation       = "VALIDATION_ERROR"
	CodeAlreadyMember    = "ALREADY_MEMBER"
	CodeInvalidInvite    = "INVALID_INVITE"
	CodeConflict         = "SCHEDULE_CONFLICT"
	CodeNetwork          = "NETWORK_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeUnknown          = "UNKNOWN"
)

var userMessages = map[string]string{
	CodeNotFound:         "No data found. Please refresh and try again.",
	CodeDuplicate:        "This item already exists.",
	CodeForeignKey:       "Cannot delete — item is in use elsewhere.",
	CodePermissionDenied: "You don't have permission to do that.",
	CodeAuthRequired:     "Please sign in to continue.",
	CodeValidation:       "Some fields are invalid. Please check and try again.",
	CodeAlreadyMember:    "You are already a member of this squad.",
	CodeInvalidInvite:    "This invite link is invalid or has expired.",
	CodeConflict:         "This child already has a camp scheduled for those dates.",
	CodeNetwork:          "Connection problem. Please check your network and try again.",
	CodeTimeout:          "The request took too long. Please try again.",
	CodeUnknown:          "Something went wrong. Please try again.",
}

// nonRetryable codes abort a retry loop immediately.
var nonRetryable = map[string]bool{
	CodeDuplicate:        true,
	CodeForeignKey:       true,
	CodePermissionDenied: true,
	CodeAuthRequired:     true,
	CodeValidation:       true,
	CodeAlreadyMember:    true,
	CodeInvalidInvite:    true,
	CodeConflict:         true,
}

// ClassifiedError is an adapter error normalized for display. Message
// is safe to show verbatim; Original keeps the cause for logging.
type ClassifiedError struct {
	Code     string
	Message  string
	Original error
}

func (e *ClassifiedError) Error() string {
	if e.Original != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Original)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// CanRetry reports whether a retry could plausibly succeed.
func (e *ClassifiedError) CanRetry() bool {
	return !nonRetryable[e.Code]
}

// NewError builds a classified error for a known code.
func NewError(code string, original error) *ClassifiedError {
	msg, ok := userMessages[code]
	if !ok {
		code = CodeUnknown
		msg = userMessages[CodeUnknown]
	}
	return &ClassifiedError{Code: code, Message: msg, Original: original}
}

// Classify normalizes an arbitrary error into the taxonomy. Already
// classified errors pass through unchanged.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return NewError(CodeNotFound, err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewError(CodeTimeout, err)
	case errors.Is(err, context.Canceled):
		return NewError(CodeNetwork, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewError(CodeTimeout, err)
		}
		return NewError(CodeNetwork, err)
	}

	// Databases surface constraint failures as text; match the SQLSTATE
	// codes and common phrasings.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "23505"), strings.Contains(msg, "unique constraint"):
		return NewError(CodeDuplicate, err)
	case strings.Contains(msg, "23503"), strings.Contains(msg, "foreign key constraint"):
		return NewError(CodeForeignKey, err)
	case strings.Contains(msg, "pgrst116"):
		return NewError(CodeNotFound, err)
	case strings.Contains(msg, "schedule conflict"):
		return NewError(CodeConflict, err)
	case strings.Contains(msg, "permission denied"):
		return NewError(CodePermissionDenied, err)
	case strings.Contains(msg, "jwt"), strings.Contains(msg, "not authenticated"):
		return NewError(CodeAuthRequired, err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return NewError(CodeTimeout, err)
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"),
		strings.Contains(msg, "network"):
		return NewError(CodeNetwork, err)
	}
	return NewError(CodeUnknown, err)
}

// Retry runs fn up to maxAttempts times with exponential backoff
// (baseDelay, 2*baseDelay, 4*baseDelay, ...). It aborts immediately on
// non-retryable errors and on context cancellation, returning the last
// classified error.
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var last *ClassifiedError
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := baseDelay * (1 << (attempt - 1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Classify(ctx.Err())
			}
		}
		err := fn()
		if err == nil {
			return nil
		}
		last = Classify(err)
		if !last.CanRetry() {
			return last
		}
	}
	return last
}
