package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventsplus-api/internal/api/cookie"
	"github.com/vietanh2810/eventsplus-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/eventsplus-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventsplus-api/internal/api/reqctx"
	"github.com/vietanh2810/eventsplus-api/internal/config"
	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/eventsplus-api/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
}

// SessionRevoker forgets a session token before it expires.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type AuthHandler struct {
	conf    *config.APIConfig
	svc     AuthService
	revoker SessionRevoker
	cookies *cookie.Helper
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, revoker SessionRevoker, cookies *cookie.Helper) *AuthHandler {
	return &AuthHandler{
		conf:    conf,
		svc:     svc,
		revoker: revoker,
		cookies: cookies,
	}
}

type SessionResponse struct {
	User      domain.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) HandleLoginForm(ctx *gin.Context) {
	response.HTML(ctx, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Form":  request.LoginRequest{},
	})
}

func (h *AuthHandler) HandleRegisterForm(ctx *gin.Context) {
	response.HTML(ctx, http.StatusOK, "register.html", gin.H{
		"Title": "Create an account",
		"Form":  request.RegisterRequest{},
	})
}

// HandleRegister godoc
// @Summary      Register a new participant and sign them in
// @Tags         auth
// @Accept       x-www-form-urlencoded,json
// @Produce      html,json
// @Param        request   body      request.RegisterRequest true "request body"
// @Success      201      {object}   SessionResponse
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      429      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	form := func() gin.H {
		req.Password, req.ConfirmPassword = "", ""
		return gin.H{"Title": "Create an account", "Form": req}
	}

	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("register.html", form()))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("register.html", form()))
		return
	}

	user, err := h.svc.Register(ctx.Request.Context(), domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserEmailExists).WithForm("register.html", form()))
			return
		}
		err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.startSession(ctx, http.StatusCreated, user, "Welcome to Events+, "+user.Name+"!")
}

// HandleLogin godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       x-www-form-urlencoded,json
// @Produce      html,json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   SessionResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      429      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	form := func() gin.H {
		req.Password = ""
		return gin.H{"Title": "Log in", "Form": req}
	}

	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("login.html", form()))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("login.html", form()))
		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrWrongCredentials) {
			response.RenderErr(ctx, response.ErrWrongCredentials(service.ErrWrongCredentials).WithForm("login.html", form()))
			return
		}
		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.startSession(ctx, http.StatusOK, user, "Welcome back, "+user.Name+"!")
}

func (h *AuthHandler) startSession(ctx *gin.Context, status int, user domain.User, message string) {
	token, claims, err := jwthelper.GenerateToken([]byte(h.conf.SessionSecret), user.Identity(), cookie.SessionTTL)
	if err != nil {
		err = fmt.Errorf("v1.startSession -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.cookies.SetSession(ctx, token)
	response.Done(ctx, status, "/events", message, SessionResponse{
		User:      user,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// HandleLogout godoc
// @Summary      Revoke the current session
// @Tags         auth
// @Produce      html,json
// @Success      200      {object}   map[string]string
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/logout [get]
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	if session, ok := reqctx.CurrentSession(ctx); ok && session.TokenID != "" {
		if err := h.revoker.Revoke(ctx.Request.Context(), session.TokenID, session.ExpiresAt); err != nil {
			err = fmt.Errorf("v1.HandleLogout -> h.revoker.Revoke -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
	}

	h.cookies.ClearSession(ctx)
	response.Done(ctx, http.StatusOK, "/", "You have been logged out.", nil)
}
