package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bizdesk/api"
	"bizdesk/middleware"
	"bizdesk/models"
	"bizdesk/services"
	"bizdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type fakeAuth struct {
	profile *models.Profile
	err     error
}

func (f *fakeAuth) Authenticate(_ context.Context, login, password string) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if login != "owner" || password != "secret" {
		return nil, services.ErrInvalidCredentials
	}
	return f.profile, nil
}

func (f *fakeAuth) ResolveSession(_ context.Context, id, kind string) (*models.Profile, error) {
	if f.profile == nil || id != f.profile.ID || kind != string(f.profile.Kind) {
		return nil, services.ErrUnauthenticated
	}
	return f.profile, nil
}

type fakeSessions struct {
	recorded []models.Session
	err      error
}

func (f *fakeSessions) Record(_ context.Context, s models.Session) error {
	f.recorded = append(f.recorded, s)
	return f.err
}

func newTestHandler() (*Handler, *fakeSessions) {
	sessions := &fakeSessions{}
	return &Handler{
		Auth: &fakeAuth{profile: &models.Profile{
			ID:        "a1",
			Kind:      models.KindSuperAdmin,
			Username:  "owner",
			Name:      "Owner",
			ScopingID: "a1",
		}},
		Sessions: sessions,
		Signer:   utils.NewTokenSigner("test-secret"),
		Log:      zerolog.Nop(),
		Events:   api.NewEventHub(),
	}, sessions
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)
	r.GET("/api/auth/session", middleware.Session(h.Auth, h.Signer, h.Log, h.BearerTokens), h.CheckSession)
	r.POST("/api/whatsapp/events", h.BridgeEvents)
	r.POST("/api/whatsapp/send", func(c *gin.Context) {
		middleware.WithProfile(c, &models.Profile{ID: "s1", Kind: models.KindStaff, ScopingID: "a1"})
	}, h.SendWhatsApp)
	return r
}

func postJSON(r http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	h, sessions := newTestHandler()
	r := newTestRouter(h)

	w := postJSON(r, "/api/auth/login", `{"username":"owner","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool           `json:"success"`
		User    models.Profile `json:"user"`
		Token   string         `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.User.ID != "a1" || resp.Token != "" {
		t.Errorf("response = %+v", resp)
	}
	if len(w.Result().Cookies()) != 2 {
		t.Errorf("got %d cookies, want 2", len(w.Result().Cookies()))
	}
	if len(sessions.recorded) != 1 || sessions.recorded[0].UserID != "a1" {
		t.Errorf("recorded sessions = %+v", sessions.recorded)
	}
}

func TestLoginThenCheckSession(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	login := postJSON(r, "/api/auth/login", `{"username":"owner","password":"secret"}`)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	for _, ck := range login.Result().Cookies() {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"id":"a1"`) {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}

	anon := httptest.NewRecorder()
	r.ServeHTTP(anon, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	if anon.Code != http.StatusUnauthorized {
		t.Errorf("anonymous session status = %d", anon.Code)
	}
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{name: "missing password", body: `{"username":"owner"}`, want: http.StatusBadRequest},
		{name: "bad json", body: `{`, want: http.StatusBadRequest},
		{name: "wrong password", body: `{"username":"owner","password":"nope"}`, want: http.StatusUnauthorized},
		{name: "unknown user", body: `{"username":"ghost","password":"secret"}`, want: http.StatusUnauthorized},
		{name: "storage error", body: `{"username":"owner","password":"secret"}`, err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sessions := newTestHandler()
			h.Auth.(*fakeAuth).err = tt.err
			r := newTestRouter(h)

			w := postJSON(r, "/api/auth/login", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if len(w.Result().Cookies()) != 0 || len(sessions.recorded) != 0 {
				t.Error("failed login set cookies or recorded a session")
			}
		})
	}

	h, _ := newTestHandler()
	r := newTestRouter(h)
	wrong := postJSON(r, "/api/auth/login", `{"username":"owner","password":"nope"}`)
	unknown := postJSON(r, "/api/auth/login", `{"username":"ghost","password":"secret"}`)
	if wrong.Body.String() != unknown.Body.String() {
		t.Errorf("failure bodies differ: %s vs %s", wrong.Body.String(), unknown.Body.String())
	}
}

func TestLoginSurvivesAuditFailure(t *testing.T) {
	h, sessions := newTestHandler()
	sessions.err = errors.New("write failed")
	r := newTestRouter(h)

	if w := postJSON(r, "/api/auth/login", `{"username":"owner","password":"secret"}`); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestLogout(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	w := postJSON(r, "/api/auth/logout", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge >= 0 {
			t.Errorf("cookie %s not expired", ck.Name)
		}
	}
}

func TestSessionEndsAfterLogout(t *testing.T) {
	h, _ := newTestHandler()
	r := newTestRouter(h)

	postJSON(r, "/api/auth/login", `{"username":"owner","password":"secret"}`)
	logout := postJSON(r, "/api/auth/logout", "")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	for _, ck := range logout.Result().Cookies() {
		req.AddCookie(ck)
	}
	token, _ := h.Signer.GenerateToken("a1", string(models.KindSuperAdmin))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("session after logout: status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestLoginWithBearerTokens(t *testing.T) {
	h, _ := newTestHandler()
	h.BearerTokens = true
	r := newTestRouter(h)

	w := postJSON(r, "/api/auth/login", `{"username":"owner","password":"secret"}`)
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("token missing: %s", w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	sw := httptest.NewRecorder()
	r.ServeHTTP(sw, req)
	if sw.Code != http.StatusOK {
		t.Errorf("bearer session: status = %d", sw.Code)
	}
}

func TestLoginAuditUsesClientIP(t *testing.T) {
	h, sessions := newTestHandler()
	r := newTestRouter(h)
	if err := r.SetTrustedProxies(nil); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"owner","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "6.6.6.6")
	req.RemoteAddr = "10.0.0.7:51000"
	r.ServeHTTP(httptest.NewRecorder(), req)

	if len(sessions.recorded) != 1 || sessions.recorded[0].IP != "10.0.0.7" {
		t.Errorf("recorded sessions = %+v", sessions.recorded)
	}
}
