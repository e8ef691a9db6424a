package httpkit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roofing_crm_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

type jwtConfig string

func (c jwtConfig) GetJWTAccessSecret() string { return string(c) }

func newTestEngine(secret string, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(jwtConfig(secret))}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		c.JSON(http.StatusOK, gin.H{"memberId": id.MemberID(), "role": id.Role()})
	})
	engine.GET("/me", handlers...)
	return engine
}

func TestAuthRequiredAcceptsSignedToken(t *testing.T) {
	token, err := SignAccessToken(7, "dealers", time.Hour, "secret")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newTestEngine("secret").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := rec.Body.String(); body != `{"memberId":7,"role":"dealers"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestAuthRequiredAcceptsQueryTokenForEventStreams(t *testing.T) {
	token, _ := SignAccessToken(3, "sales", time.Hour, "secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)
	newTestEngine("secret").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRequiredRejectsWrongSecretAndExpiredTokens(t *testing.T) {
	wrong, _ := SignAccessToken(1, "admin", time.Hour, "other")
	expired, _ := SignAccessToken(1, "admin", -time.Minute, "secret")

	for name, token := range map[string]string{"wrong secret": wrong, "expired": expired, "missing": ""} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		newTestEngine("secret").ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	token, _ := SignAccessToken(2, "sales", time.Hour, "secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newTestEngine("secret", RequireRole("admin")).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestHandleErrorMapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("lead not found"), http.StatusNotFound},
		{apperr.Forbidden("nope"), http.StatusForbidden},
		{apperr.Validation("bad"), http.StatusBadRequest},
		{apperr.External("ai failed", nil), http.StatusBadGateway},
		{http.ErrAbortHandler, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		if !HandleError(c, tc.err) {
			t.Fatalf("expected error to be handled")
		}
		if rec.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestHandleErrorAttachesExternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	cause := errors.New("dial tcp: connection refused")
	HandleError(c, apperr.External("Failed to fetch map data", cause))

	if len(c.Errors) != 1 || !errors.Is(c.Errors[0].Err, cause) {
		t.Fatalf("expected cause on gin context, got %v", c.Errors)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("cause must not leak into the response: %s", rec.Body.String())
	}
}
