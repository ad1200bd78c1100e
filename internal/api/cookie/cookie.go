package cookie

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "session"
	SessionTTL    = time.Hour
)

// Helper manages the http-only session cookie.
type Helper struct {
	secure bool
}

func NewHelper(secure bool) *Helper {
	return &Helper{secure: secure}
}

// SetSession stores token for the fixed session lifetime. It is never
// refreshed.
func (h *Helper) SetSession(c *gin.Context, token string) {
	h.set(c, token, int(SessionTTL.Seconds()))
}

func (h *Helper) ClearSession(c *gin.Context) {
	h.set(c, "", -1)
}

func (h *Helper) Session(c *gin.Context) string {
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}

	return token
}

func (h *Helper) set(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, value, maxAge, "/", "", h.secure, true)
}
