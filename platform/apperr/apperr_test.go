package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("lead not found"), http.StatusNotFound},
		{Validation("bad date"), http.StatusBadRequest},
		{Conflict("busy"), http.StatusConflict},
		{Forbidden("no"), http.StatusForbidden},
		{Wrap(KindUnauthorized, "invalid", nil), http.StatusUnauthorized},
		{Internal("boom"), http.StatusInternalServerError},
		{External("maps down", nil), http.StatusBadGateway},
		{&Error{Message: "unknown"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Fatalf("%q: status %d, want %d", tc.err.Message, got, tc.want)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("close job: %w", External("photo storage unavailable", cause))

	if !Is(err, KindExternal) {
		t.Fatalf("expected external kind, got %v", GetKind(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if GetKind(cause) != KindUnknown {
		t.Fatalf("plain errors have no kind")
	}
}
