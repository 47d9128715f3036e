package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bizdesk/models"
	"bizdesk/services"
	"bizdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type fakeResolver struct {
	profiles map[string]*models.Profile
}

func (f *fakeResolver) ResolveSession(_ context.Context, id, kind string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok || string(p.Kind) != kind {
		return nil, services.ErrUnauthenticated
	}
	return p, nil
}

var (
	adminProfile = &models.Profile{ID: "a1", Kind: models.KindSuperAdmin, ScopingID: "a1"}
	staffProfile = &models.Profile{ID: "s1", Kind: models.KindStaff, ScopingID: "a1"}
)

func newRouter(signer *utils.TokenSigner, allowBearer bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	resolver := &fakeResolver{profiles: map[string]*models.Profile{"a1": adminProfile, "s1": staffProfile}}

	r := gin.New()
	r.GET("/me", Session(resolver, signer, zerolog.Nop(), allowBearer), func(c *gin.Context) {
		p, _ := CurrentProfile(c)
		c.String(http.StatusOK, p.ID)
	})
	r.GET("/staff", Session(resolver, signer, zerolog.Nop(), allowBearer), RequireKind(models.KindSuperAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func markerCookies(t *testing.T, signer *utils.TokenSigner, p *models.Profile) []*http.Cookie {
	t.Helper()
	return markerCookiesWith(t, signer, CookieOptions{}, p)
}

func markerCookiesWith(t *testing.T, signer *utils.TokenSigner, opts CookieOptions, p *models.Profile) []*http.Cookie {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if err := SetSessionCookies(c, signer, opts, p); err != nil {
		t.Fatalf("SetSessionCookies: %v", err)
	}
	return w.Result().Cookies()
}

func TestSessionFromCookies(t *testing.T) {
	signer := utils.NewTokenSigner("test-secret")
	r := newRouter(signer, true)

	cookies := markerCookies(t, signer, staffProfile)
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies, want 2", len(cookies))
	}
	week := int(7 * 24 * time.Hour / time.Second)
	for _, ck := range cookies {
		if !ck.HttpOnly || ck.Path != "/" || ck.SameSite != http.SameSiteLaxMode {
			t.Errorf("cookie %s attributes = %+v", ck.Name, ck)
		}
		if ck.MaxAge != week {
			t.Errorf("cookie %s MaxAge = %d, want %d", ck.Name, ck.MaxAge, week)
		}
		if ck.Secure {
			t.Errorf("cookie %s is Secure without the option", ck.Name)
		}
	}
	for _, ck := range markerCookiesWith(t, signer, CookieOptions{Secure: true}, staffProfile) {
		if !ck.Secure {
			t.Errorf("cookie %s not Secure with CookieOptions.Secure", ck.Name)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "s1" {
		t.Errorf("status = %d, body = %q", w.Code, w.Body.String())
	}
}

func TestSessionFromBearerToken(t *testing.T) {
	signer := utils.NewTokenSigner("test-secret")
	r := newRouter(signer, true)

	token, _ := signer.GenerateToken("a1", "superadmin")
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "a1" {
		t.Errorf("status = %d, body = %q", w.Code, w.Body.String())
	}
}

func TestSessionRejections(t *testing.T) {
	signer := utils.NewTokenSigner("test-secret")
	r := newRouter(signer, true)

	forged := markerCookies(t, utils.NewTokenSigner("other-secret"), adminProfile)
	unknown := markerCookies(t, signer, &models.Profile{ID: "gone", Kind: models.KindStaff})

	tests := []struct {
		name    string
		cookies []*http.Cookie
		header  string
	}{
		{name: "no markers"},
		{name: "raw id cookies", cookies: []*http.Cookie{{Name: UserIDCookie, Value: "a1"}, {Name: UserTypeCookie, Value: "superadmin"}}},
		{name: "forged markers", cookies: forged},
		{name: "deleted account", cookies: unknown},
		{name: "only one marker", cookies: markerCookies(t, signer, adminProfile)[:1]},
		{name: "malformed bearer", header: "Token abc"},
		{name: "bad bearer", header: "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			for _, ck := range tt.cookies {
				req.AddCookie(ck)
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			if w.Body.String() != `{"error":"Unauthorized","success":false}` {
				t.Errorf("body = %s", w.Body.String())
			}
		})
	}
}

func TestRequireKind(t *testing.T) {
	signer := utils.NewTokenSigner("test-secret")
	r := newRouter(signer, true)

	for _, tc := range []struct {
		profile *models.Profile
		want    int
	}{
		{adminProfile, http.StatusOK},
		{staffProfile, http.StatusForbidden},
	} {
		req := httptest.NewRequest(http.MethodGet, "/staff", nil)
		for _, ck := range markerCookies(t, signer, tc.profile) {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.profile.Kind, w.Code, tc.want)
		}
	}
}

func TestClearSessionCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ClearSessionCookies(c, CookieOptions{})

	cookies := w.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies, want 2", len(cookies))
	}
	for _, ck := range cookies {
		if ck.MaxAge >= 0 || ck.Value != "" {
			t.Errorf("cookie %s not cleared: %+v", ck.Name, ck)
		}
	}
}

func TestSessionIgnoresBearerWhenDisabled(t *testing.T) {
	signer := utils.NewTokenSigner("test-secret")
	r := newRouter(signer, false)

	token, _ := signer.GenerateToken("a1", "superadmin")
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
