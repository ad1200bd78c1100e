package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/eventsplus-api/internal/api/cookie"
	"github.com/vietanh2810/eventsplus-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventsplus-api/internal/api/reqctx"
	"github.com/vietanh2810/eventsplus-api/internal/pkg/jwthelper"
)

var (
	ErrLoginRequired = errors.New("please log in to continue")
	ErrAdminOnly     = errors.New("this area is reserved to administrators")
)

// RevocationChecker reports whether a session token was revoked at logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Authenticator struct {
	signingKey []byte
	store      RevocationChecker
	cookies    *cookie.Helper
}

func NewAuthenticator(signingKey string, store RevocationChecker, cookies *cookie.Helper) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		store:      store,
		cookies:    cookies,
	}
}

// LoadIdentity never rejects a request. A missing, invalid or revoked
// token simply leaves the request anonymous.
func (a *Authenticator) LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := a.cookies.Session(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			a.cookies.ClearSession(c)
			c.Next()
			return
		}

		revoked, err := a.store.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			zap.L().Warn("failed to check session revocation", zap.Error(err), zap.String("jti", claims.ID))
			c.Next()
			return
		}
		if revoked {
			a.cookies.ClearSession(c)
			c.Next()
			return
		}

		identity, err := claims.Identity()
		if err != nil {
			c.Next()
			return
		}

		var expiresAt time.Time
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		reqctx.SetIdentity(c, identity, reqctx.Session{TokenID: claims.ID, ExpiresAt: expiresAt})

		c.Next()
	}
}

func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := reqctx.Identity(c); !ok {
			response.RenderErr(c, response.ErrUnauthorized(ErrLoginRequired).WithRedirect("/auth/login"))
			return
		}

		c.Next()
	}
}

func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := reqctx.Identity(c)
		if !ok || !identity.IsAdmin() {
			response.RenderErr(c, response.ErrPermissionDenied(ErrAdminOnly).WithRedirect("/"))
			return
		}

		c.Next()
	}
}

// RedirectIfAuth keeps signed in users away from the login and register forms.
func (a *Authenticator) RedirectIfAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := reqctx.Identity(c); ok {
			c.Redirect(http.StatusSeeOther, "/events")
			c.Abort()
			return
		}

		c.Next()
	}
}
