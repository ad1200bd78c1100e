package v1

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventsplus-api/internal/api/reqctx"
	"github.com/vietanh2810/eventsplus-api/internal/api/templates"
	"github.com/vietanh2810/eventsplus-api/internal/domain"
)

var (
	alice = domain.Identity{ID: 1, Name: "Alice", Email: "alice@example.com", Role: domain.RoleOrganizer}
	bob   = domain.Identity{ID: 2, Name: "Bob", Email: "bob@example.com", Role: domain.RoleParticipant}
	root  = domain.Identity{ID: 9, Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin}
)

func newTestEngine(t *testing.T, identity *domain.Identity) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := templates.Load()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	if identity != nil {
		id := *identity
		r.Use(func(c *gin.Context) {
			reqctx.SetIdentity(c, id, reqctx.Session{TokenID: "jti-" + id.Email, ExpiresAt: time.Now().Add(time.Hour)})
			c.Next()
		})
	}

	return r
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

func formRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")

	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}

	return nil
}
