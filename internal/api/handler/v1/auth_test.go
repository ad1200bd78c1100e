package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventsplus-api/internal/api/cookie"
	"github.com/vietanh2810/eventsplus-api/internal/config"
	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/eventsplus-api/internal/service"
)

const testSecret = "test-session-secret"

func newAuthHandler(svc AuthService, revoker SessionRevoker) *AuthHandler {
	return NewAuthHandler(&config.APIConfig{SessionSecret: testSecret}, svc, revoker, cookie.NewHelper(false))
}

func TestHandleRegister(t *testing.T) {
	t.Run("creates a participant and signs them in", func(t *testing.T) {
		svc := &mockAuthService{
			registerFunc: func(_ context.Context, user domain.User) (domain.User, error) {
				assert.Equal(t, "new@example.com", user.Email)
				assert.Equal(t, "secret123", user.Password)
				user.ID = 12
				user.Role = domain.RoleParticipant
				return user, nil
			},
		}
		h := newAuthHandler(svc, &mockRevoker{})
		r := newTestEngine(t, nil)
		r.POST("/auth/register", h.HandleRegister)

		w := serve(r, jsonRequest(http.MethodPost, "/auth/register",
			`{"name":"Newbie","email":"new@example.com","password":"secret123","confirm_password":"secret123"}`))
		require.Equal(t, http.StatusCreated, w.Code)

		var body SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, uint(12), body.User.ID)
		assert.NotContains(t, w.Body.String(), "secret123")

		session := findCookie(w, cookie.SessionCookie)
		require.NotNil(t, session)
		assert.True(t, session.HttpOnly)
		assert.Equal(t, 3600, session.MaxAge)

		claims, err := jwthelper.ParseToken([]byte(testSecret), session.Value)
		require.NoError(t, err)
		assert.Equal(t, "12", claims.Subject)
		assert.Equal(t, domain.RoleParticipant, claims.Role)
	})

	t.Run("invalid form is rendered again", func(t *testing.T) {
		h := newAuthHandler(&mockAuthService{}, &mockRevoker{})
		r := newTestEngine(t, nil)
		r.POST("/auth/register", h.HandleRegister)

		w := serve(r, formRequest(http.MethodPost, "/auth/register", url.Values{
			"name":            {"Newbie"},
			"email":           {"new@example.com"},
			"password":        {"short"},
			"confirmPassword": {"short"},
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `value="new@example.com"`)
		assert.Contains(t, w.Body.String(), "at least 8 characters")
		assert.Nil(t, findCookie(w, cookie.SessionCookie))
	})

	t.Run("taken email", func(t *testing.T) {
		svc := &mockAuthService{
			registerFunc: func(context.Context, domain.User) (domain.User, error) {
				return domain.User{}, service.ErrUserEmailExists
			},
		}
		h := newAuthHandler(svc, &mockRevoker{})
		r := newTestEngine(t, nil)
		r.POST("/auth/register", h.HandleRegister)

		w := serve(r, jsonRequest(http.MethodPost, "/auth/register",
			`{"name":"Newbie","email":"new@example.com","password":"secret123","confirm_password":"secret123"}`))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"conflict"`)
	})
}

func TestHandleLogin(t *testing.T) {
	svc := &mockAuthService{
		loginFunc: func(_ context.Context, email, password string) (domain.User, error) {
			if email == "alice@example.com" && password == "secret123" {
				return domain.User{ID: 1, Name: "Alice", Email: email, Role: domain.RoleOrganizer}, nil
			}
			return domain.User{}, service.ErrWrongCredentials
		},
	}
	h := newAuthHandler(svc, &mockRevoker{})
	r := newTestEngine(t, nil)
	r.POST("/auth/login", h.HandleLogin)

	t.Run("html success redirects to events", func(t *testing.T) {
		w := serve(r, formRequest(http.MethodPost, "/auth/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"secret123"},
		}))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/events", w.Header().Get("Location"))
		assert.NotNil(t, findCookie(w, cookie.SessionCookie))
	})

	t.Run("wrong password", func(t *testing.T) {
		w := serve(r, jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"nope"}`))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), service.ErrWrongCredentials.Error())
	})

	t.Run("unknown email gives the same answer", func(t *testing.T) {
		w := serve(r, jsonRequest(http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"secret123"}`))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), service.ErrWrongCredentials.Error())
	})
}

func TestHandleLogout(t *testing.T) {
	revoker := &mockRevoker{}
	h := newAuthHandler(&mockAuthService{}, revoker)
	r := newTestEngine(t, &alice)
	r.GET("/auth/logout", h.HandleLogout)

	w := serve(r, formRequest(http.MethodGet, "/auth/logout", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Contains(t, revoker.revoked, "jti-"+alice.Email)

	session := findCookie(w, cookie.SessionCookie)
	require.NotNil(t, session)
	assert.Equal(t, "", session.Value)
	assert.True(t, session.MaxAge < 0)
}
