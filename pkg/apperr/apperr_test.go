package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{NotFound("x"), KindNotFound},
		{Unauthorized("x"), KindUnauthorized},
		{InvalidState("x"), KindInvalidState},
		{Validation("x"), KindValidation},
		{Conflict("x"), KindConflict},
		{errors.New("plain"), KindInternal},
		{nil, KindInternal},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := NotFound("request not found")
	wrapped := fmt.Errorf("loading request: %w", inner)

	if KindOf(wrapped) != KindNotFound {
		t.Errorf("kind lost through fmt.Errorf wrapping: got %v", KindOf(wrapped))
	}

	var appErr *Error
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As failed through the wrap chain")
	}
	if appErr.Message != "request not found" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestIsMatchesByKind(t *testing.T) {
	if !errors.Is(Validation("a"), Validation("b")) {
		t.Error("two validation errors should match by kind")
	}
	if errors.Is(Validation("a"), NotFound("a")) {
		t.Error("different kinds must not match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := Wrap(KindConflict, "department code already exists", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause must be reachable via errors.Is")
	}
	if err.Error() != "department code already exists: duplicate key value violates unique constraint" {
		t.Errorf("unexpected Error() output: %q", err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Unauthorized("x"), http.StatusForbidden},
		{InvalidState("x"), http.StatusUnprocessableEntity},
		{Validation("x"), http.StatusBadRequest},
		{Conflict("x"), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
