package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bizdesk/models"
	"bizdesk/services"
	"bizdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	UserIDCookie   = "user_id"
	UserTypeCookie = "user_type"

	profileKey = "profile"
)

var errNoMarkers = errors.New("session markers not provided")

// SessionResolver turns the subject carried by the markers into a profile.
type SessionResolver interface {
	ResolveSession(ctx context.Context, subjectID, subjectKind string) (*models.Profile, error)
}

// CookieOptions are shared by login (set) and logout (clear).
type CookieOptions struct {
	Domain string
	Secure bool
}

// SetSessionCookies writes both markers, signed, for SessionTTL.
func SetSessionCookies(c *gin.Context, signer *utils.TokenSigner, opts CookieOptions, p *models.Profile) error {
	idToken, err := signer.SignMarker(UserIDCookie, p.ID)
	if err != nil {
		return err
	}
	kindToken, err := signer.SignMarker(UserTypeCookie, string(p.Kind))
	if err != nil {
		return err
	}
	maxAge := int(utils.SessionTTL.Seconds())
	setCookie(c, opts, UserIDCookie, idToken, maxAge)
	setCookie(c, opts, UserTypeCookie, kindToken, maxAge)
	return nil
}

func ClearSessionCookies(c *gin.Context, opts CookieOptions) {
	setCookie(c, opts, UserIDCookie, "", -1)
	setCookie(c, opts, UserTypeCookie, "", -1)
}

func setCookie(c *gin.Context, opts CookieOptions, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Domain:   opts.Domain,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session resolves the request's subject and stores the profile on the
// context. Any failure is a bare 401. Bearer tokens are only read when
// allowBearer is set; they are not cleared by logout.
func Session(resolver SessionResolver, signer *utils.TokenSigner, log zerolog.Logger, allowBearer bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		subjectID, subjectKind, err := readSubject(c, signer, allowBearer)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		profile, err := resolver.ResolveSession(c.Request.Context(), subjectID, subjectKind)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				log.Error().Err(err).Str("request_id", RequestID(c)).Msg("session resolution failed")
			}
			abortUnauthorized(c)
			return
		}

		c.Set(profileKey, profile)
		c.Next()
	}
}

// RequireKind rejects resolved sessions of any other account kind.
func RequireKind(kind models.AccountKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentProfile(c)
		if !ok || p.Kind != kind {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentProfile returns the profile stored by Session.
func CurrentProfile(c *gin.Context) (*models.Profile, bool) {
	v, ok := c.Get(profileKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*models.Profile)
	return p, ok
}

// WithProfile is used by tests and internal callers that resolve outside
// the middleware.
func WithProfile(c *gin.Context, p *models.Profile) {
	c.Set(profileKey, p)
}

func readSubject(c *gin.Context, signer *utils.TokenSigner, allowBearer bool) (string, string, error) {
	idCookie, errID := c.Cookie(UserIDCookie)
	kindCookie, errKind := c.Cookie(UserTypeCookie)
	if errID == nil && errKind == nil && idCookie != "" && kindCookie != "" {
		id, err := signer.ParseMarker(UserIDCookie, idCookie)
		if err != nil {
			return "", "", err
		}
		kind, err := signer.ParseMarker(UserTypeCookie, kindCookie)
		if err != nil {
			return "", "", err
		}
		return id, kind, nil
	}

	if !allowBearer {
		return "", "", errNoMarkers
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "", errNoMarkers
	}
	claims, err := signer.ValidateToken(parts[1])
	if err != nil {
		return "", "", err
	}
	return claims.ID, claims.Kind, nil
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
}
