// Package core provides the catalog engine.
//
// # Error Codes Reference
//
// This file maps technical errors to user-friendly messages with codes for
// support reference. Codes are grouped by category.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source unreachable: the game list could not be fetched
//	         Action: Check the source address and try reloading
//	         Matches: LoadError with LoadTransport, "connection refused"
//
//	SRC002 - Malformed payload: the source answered with unusable data
//	         Action: Check that the document is a JSON list of games
//	         Matches: LoadError with LoadMalformed, "malformed payload"
//
//	SRC003 - Unknown source: the configured source kind is not registered
//	         Action: Set SOURCE_KIND to json, postgres or postgrest
//	         Matches: ErrUnknownSource, ErrNoSource
//
// # Catalog Errors (CAT001-CAT099)
//
//	CAT001 - Game not found
//	         Action: The catalog may have been reloaded; go back to the list
//	         Matches: ErrGameNotFound
//
//	CAT002 - Read-only catalog: editing games is disabled
//	         Action: Update the source data instead
//	         Matches: ErrWriteDisabled
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Matches: context.Canceled, "context canceled"
//
//	REQ002 - Request timed out
//	         Matches: context.DeadlineExceeded, "deadline exceeded", "timeout"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//	          Matches: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs for the
// technical error.
//
// # Matching
//
// Typed errors are checked first with errors.Is / errors.As, so wrapping
// keeps the code stable. Remaining errors are matched case-insensitively by
// substring; the first matching pattern wins.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgSourceUnreachable = UserMessage{
		Message: "The game list could not be fetched",
		Action:  "Check the source address and try reloading",
		Code:    "SRC001",
	}
	msgMalformedPayload = UserMessage{
		Message: "The game list is not in a readable format",
		Action:  "Check that the document is a JSON list of games",
		Code:    "SRC002",
	}
	msgUnknownSource = UserMessage{
		Message: "No data source is configured",
		Action:  "Set SOURCE_KIND to json, postgres or postgrest",
		Code:    "SRC003",
	}
	msgGameNotFound = UserMessage{
		Message: "Game not found",
		Action:  "The catalog may have been reloaded; go back to the list",
		Code:    "CAT001",
	}
	msgWriteDisabled = UserMessage{
		Message: "Editing games is disabled",
		Action:  "Update the source data instead",
		Code:    "CAT002",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Please try again in a few moments",
		Code:    "REQ002",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// typedErrors are checked with errors.Is before any pattern matching.
var typedErrors = []struct {
	target error
	msg    UserMessage
}{
	{ErrWriteDisabled, msgWriteDisabled},
	{ErrGameNotFound, msgGameNotFound},
	{ErrUnknownSource, msgUnknownSource},
	{ErrNoSource, msgUnknownSource},
	{context.Canceled, msgCancelled},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (lowercase) to user messages.
// Order matters: specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{pattern: "malformed payload", msg: msgMalformedPayload},
	{pattern: "source unreachable", msg: msgSourceUnreachable},
	{pattern: "connection refused", msg: msgSourceUnreachable},
	{pattern: "no such host", msg: msgSourceUnreachable},
	{pattern: "unknown source", msg: msgUnknownSource},
	{pattern: "write disabled", msg: msgWriteDisabled},
	{pattern: "game not found", msg: msgGameNotFound},
	{pattern: "context canceled", msg: msgCancelled},
	{pattern: "deadline exceeded", msg: msgTimeout},
	{pattern: "timeout", msg: msgTimeout},
	{pattern: "rate limit", msg: msgRateLimited},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	err := TransportError("json", errors.New("dial tcp: connection refused"))
//	msg := MapError(err)
//	// msg.Code == "SRC001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	// Timeouts and cancellations inside a load are still reported as the
	// request-level condition.
	for _, te := range typedErrors {
		if errors.Is(err, te.target) {
			return te.msg
		}
	}

	var le *LoadError
	if errors.As(err, &le) {
		switch le.Kind {
		case LoadTransport:
			return msgSourceUnreachable
		case LoadMalformed:
			return msgMalformedPayload
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
