package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable error identifiers returned to clients.
const (
	SelfConversation     = "ERR_SELF_CONVERSATION"
	UnknownUser          = "ERR_UNKNOWN_USER"
	ConversationNotFound = "ERR_CONVERSATION_NOT_FOUND"
	SenderNotParticipant = "ERR_SENDER_NOT_PARTICIPANT"
	MissingFileReference = "ERR_MISSING_FILE_REFERENCE"
	FileNotFound         = "ERR_FILE_NOT_FOUND"
	ArtifactMissing      = "ERR_ARTIFACT_MISSING"
	AccessDenied         = "ERR_ACCESS_DENIED"
	InvalidCredentials   = "ERR_INVALID_CREDENTIALS"
	DuplicateEmail       = "ERR_EMAIL_TAKEN"
	DuplicateUsername    = "ERR_USERNAME_TAKEN"
	Validation           = "ERR_VALIDATION"
	Unauthorized         = "ERR_UNAUTHORIZED"
	RateLimited          = "ERR_RATE_LIMITED"
	Internal             = "ERR_INTERNAL"
)

var messages = map[string]string{
	SelfConversation:     "cannot start a conversation with yourself",
	UnknownUser:          "one or more users do not exist",
	ConversationNotFound: "conversation not found",
	SenderNotParticipant: "sender is not part of this conversation",
	MissingFileReference: "file_id is required for file messages",
	FileNotFound:         "file not found",
	ArtifactMissing:      "file content is no longer available",
	AccessDenied:         "access denied",
	InvalidCredentials:   "invalid email or password",
	DuplicateEmail:       "email already exists",
	DuplicateUsername:    "username already exists",
	Validation:           "invalid request",
	Unauthorized:         "authentication required",
	RateLimited:          "too many requests",
	Internal:             "internal server error",
}

var statuses = map[string]int{
	SelfConversation:     http.StatusBadRequest,
	UnknownUser:          http.StatusNotFound,
	ConversationNotFound: http.StatusNotFound,
	SenderNotParticipant: http.StatusForbidden,
	MissingFileReference: http.StatusBadRequest,
	FileNotFound:         http.StatusNotFound,
	ArtifactMissing:      http.StatusGone,
	AccessDenied:         http.StatusForbidden,
	InvalidCredentials:   http.StatusUnauthorized,
	DuplicateEmail:       http.StatusConflict,
	DuplicateUsername:    http.StatusConflict,
	Validation:           http.StatusBadRequest,
	Unauthorized:         http.StatusUnauthorized,
	RateLimited:          http.StatusTooManyRequests,
	Internal:             http.StatusInternalServerError,
}

// Error carries a stable code next to a human-readable message. Err is
// the underlying cause, if any; it is never shown to clients.
type Error struct {
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) ErrorCode() string {
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an error with the default message for code.
func New(code string) *Error {
	return &Error{Code: code, Msg: Message(code)}
}

// Newf returns an error with a custom message.
func Newf(code string, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches code to an existing error, keeping it as the cause.
func Wrap(err error, code string) *Error {
	return &Error{Code: code, Msg: Message(code), Err: err}
}

// Is reports whether err, or anything it wraps, is an *Error with code.
func Is(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of err, or Internal for errors that did not
// originate in this package.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return messages[Internal]
}

func HTTPStatus(code string) int {
	if s, ok := statuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
