package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "format",
			err:  New(ErrCodeInvalidFormat, "unsupported format %q (must be dot or json)", "bogus"),
			want: `INVALID_FORMAT: unsupported format "bogus" (must be dot or json)`,
		},
		{
			name: "wrapped",
			err:  Wrap(ErrCodeUpstreamFailed, errors.New("exit status 1"), "deno info %s", "mod.ts"),
			want: "UPSTREAM_FAILED: deno info mod.ts: exit status 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "looking up denoland/deno_std")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidURL, "ftp://x"), ErrCodeInvalidURL, true},
		{"other code", New(ErrCodeInvalidURL, "ftp://x"), ErrCodeNotFound, false},
		{"outermost wins", Wrap(ErrCodeTimeout, New(ErrCodeNetwork, "inner"), "outer"), ErrCodeTimeout, true},
		{"fmt wrapped", fmt.Errorf("graph: %w", New(ErrCodeBadUpstream, "not json")), ErrCodeBadUpstream, true},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "x/missing")); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %q, want NOT_FOUND", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "no module at %s", "x/nope")); got != "no module at x/nope" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidFormat, http.StatusBadRequest},
		{ErrCodeInvalidURL, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeBadUpstream, http.StatusBadGateway},
		{ErrCodeUpstreamFailed, http.StatusBadGateway},
		{ErrCodeNetwork, http.StatusBadGateway},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeUnsupported, http.StatusNotImplemented},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(New(tt.code, "x")); got != tt.want {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
	if got := HTTPStatus(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("HTTPStatus(plain) = %d, want 500", got)
	}
}
