package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "transport load error",
			err:         TransportError("json", errors.New("open games.json: no such file")),
			wantCode:    "SRC001",
			wantMessage: "The game list could not be fetched",
		},
		{
			name:        "malformed load error",
			err:         MalformedError("json", errors.New("unexpected EOF")),
			wantCode:    "SRC002",
			wantMessage: "The game list is not in a readable format",
		},
		{
			name:        "wrapped load error keeps its code",
			err:         fmt.Errorf("load json: %w", MalformedError("json", errors.New("bad"))),
			wantCode:    "SRC002",
			wantMessage: "The game list is not in a readable format",
		},
		{
			name:        "unknown source",
			err:         fmt.Errorf("%w: %q", ErrUnknownSource, "mongo"),
			wantCode:    "SRC003",
			wantMessage: "No data source is configured",
		},
		{
			name:        "no source",
			err:         ErrNoSource,
			wantCode:    "SRC003",
			wantMessage: "No data source is configured",
		},
		{
			name:        "game not found",
			err:         fmt.Errorf("game %q: %w", "x", ErrGameNotFound),
			wantCode:    "CAT001",
			wantMessage: "Game not found",
		},
		{
			name:        "write disabled",
			err:         fmt.Errorf("upsert: %w", ErrWriteDisabled),
			wantCode:    "CAT002",
			wantMessage: "Editing games is disabled",
		},
		{
			name:        "cancelled inside a load",
			err:         TransportError("postgrest", context.Canceled),
			wantCode:    "REQ001",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "deadline exceeded",
			err:         context.DeadlineExceeded,
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "connection refused text",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "SRC001",
			wantMessage: "The game list could not be fetched",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("Request TIMEOUT after 30s"),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(ErrWriteDisabled)
	if !strings.Contains(got, "Code: CAT002") {
		t.Errorf("FormatUserError() = %q, missing code", got)
	}
	if !strings.HasSuffix(got, "Update the source data instead") {
		t.Errorf("FormatUserError() = %q, missing action", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("boom"), false},
		{ErrGameNotFound, true},
		{TransportError("json", errors.New("x")), true},
	}

	for _, tt := range tests {
		if got := IsUserFacing(tt.err); got != tt.want {
			t.Errorf("IsUserFacing(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Fatal("NewUserError(nil) should be nil")
	}

	base := fmt.Errorf("lookup: %w", ErrGameNotFound)
	ue := NewUserError(base)
	if ue.Error() != "Game not found" {
		t.Errorf("Error() = %q", ue.Error())
	}
	if !errors.Is(ue, ErrGameNotFound) {
		t.Error("UserError should unwrap to the technical error")
	}
}

func TestLoadErrorKind(t *testing.T) {
	err := TransportError("json", errors.New("refused"))
	if !IsTransport(err) || IsMalformed(err) {
		t.Errorf("kind predicates wrong for %v", err)
	}
	if want := "json source unreachable: refused"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if IsTransport(errors.New("plain")) {
		t.Error("plain error reported as transport")
	}
}
