package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apphttp "roofing_crm_backend/internal/http"
	"roofing_crm_backend/internal/http/router"
	"roofing_crm_backend/internal/team"
	teamdomain "roofing_crm_backend/internal/team/domain"
	teamrepo "roofing_crm_backend/internal/team/repository"
	"roofing_crm_backend/platform/config"
	"roofing_crm_backend/platform/logger"
	"roofing_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func newTestEngine(t *testing.T) (*gin.Engine, *teamrepo.Roster) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	roster := teamrepo.NewRoster([]teamdomain.Member{
		{User: teamdomain.User{ID: 2, Username: "jane", PasswordHash: string(hash), FirstName: "Jane", LastName: "Doe", Avatar: "JD", Role: teamdomain.RoleSales}},
	})

	cfg := &config.Config{
		JWTAccessSecret: "test-secret",
		AccessTokenTTL:  time.Hour,
		CORSOrigins:     []string{"http://localhost:5173"},
	}
	log := logger.Discard()
	engine := router.New(&apphttp.App{
		Config:         cfg,
		Logger:         log,
		MemberResolver: team.ResolveMember(roster),
		Modules:        []apphttp.Module{NewModule(roster, cfg, validator.New(), log)},
	})
	return engine, roster
}

func login(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestLoginIssuesTokenAcceptedByMe(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := login(engine, `{"username":"JANE","password":"password123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			FullName string `json:"fullName"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken == "" || resp.User.FullName != "Jane Doe" || resp.User.Role != "sales" {
		t.Fatalf("unexpected login response %s", w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	me := httptest.NewRecorder()
	engine.ServeHTTP(me, req)
	if me.Code != http.StatusOK || !strings.Contains(me.Body.String(), `"username":"jane"`) {
		t.Fatalf("unexpected /auth/me response %d %s", me.Code, me.Body.String())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	engine, _ := newTestEngine(t)

	if w := login(engine, `{"username":"jane","password":"wrong"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}
	if w := login(engine, `{"username":"ghost","password":"password123"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", w.Code)
	}
	if w := login(engine, `{"username":"jane"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", w.Code)
	}
}

func TestTokenOfDeletedMemberIsRejected(t *testing.T) {
	engine, roster := newTestEngine(t)

	w := login(engine, `{"username":"jane","password":"password123"}`)
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)

	if _, err := roster.Delete(2, teamdomain.RoleSales); err != nil {
		t.Fatalf("delete: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	me := httptest.NewRecorder()
	engine.ServeHTTP(me, req)
	if me.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after member deletion, got %d", me.Code)
	}
}
