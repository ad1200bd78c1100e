package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventsplus-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/eventsplus-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventsplus-api/internal/api/reqctx"
	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/service"
)

type DashboardService interface {
	Dashboard(ctx context.Context) (service.DashboardStats, error)
}

type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id uint) (domain.User, error)
	UpdateUser(ctx context.Context, id uint, name, email string, role domain.Role) (domain.User, error)
	DeleteUser(ctx context.Context, actor domain.Identity, id uint) error
}

type LocationService interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
	GetLocation(ctx context.Context, id uint) (domain.Location, error)
	CreateLocation(ctx context.Context, location domain.Location) (domain.Location, error)
	UpdateLocation(ctx context.Context, location domain.Location) (domain.Location, error)
	DeleteLocation(ctx context.Context, id uint) error
}

// AdminHandler serves the back office under /admin.
type AdminHandler struct {
	dashboard DashboardService
	users     UserService
	locations LocationService
}

func NewAdminHandler(dashboard DashboardService, users UserService, locations LocationService) *AdminHandler {
	return &AdminHandler{
		dashboard: dashboard,
		users:     users,
		locations: locations,
	}
}

func userPath(id uint) string {
	return "/admin/users/" + strconv.FormatUint(uint64(id), 10)
}

func locationPath(id uint) string {
	return "/admin/locations/" + strconv.FormatUint(uint64(id), 10)
}

// HandleDashboard godoc
// @Summary      Count users, events and locations
// @Tags         admin
// @Produce      html,json
// @Success      200      {object}   service.DashboardStats
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin [get]
func (h *AdminHandler) HandleDashboard(ctx *gin.Context) {
	stats, err := h.dashboard.Dashboard(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleDashboard -> h.dashboard.Dashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Render(ctx, http.StatusOK, "admin_dashboard.html", gin.H{
		"Title": "Administration",
		"Stats": stats,
	}, stats)
}

// HandleListUsers godoc
// @Summary      List users, newest first
// @Tags         admin
// @Produce      html,json
// @Success      200      {array}    domain.User
// @Failure      500      {object}   response.Err
// @Router       /admin/users [get]
func (h *AdminHandler) HandleListUsers(ctx *gin.Context) {
	users, err := h.users.ListUsers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.users.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Render(ctx, http.StatusOK, "admin_users.html", gin.H{
		"Title": "Users",
		"Users": users,
	}, users)
}

func userErr(op string, id uint, err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return response.ErrNotFound("user", "id", id).WithRedirect("/admin/users")
	case errors.Is(err, service.ErrSelfDeletion),
		errors.Is(err, service.ErrUserHasEvents):
		return response.ErrConflict(err).WithRedirect(userPath(id))
	default:
		return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
	}
}

func (h *AdminHandler) loadUser(ctx *gin.Context, op string) (domain.User, bool) {
	id, ok := parseID(ctx, "id")
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("user", "id", ctx.Param("id")).WithRedirect("/admin/users"))
		return domain.User{}, false
	}

	user, err := h.users.GetUser(ctx.Request.Context(), id)
	if err != nil {
		response.RenderErr(ctx, userErr(op, id, err))
		return domain.User{}, false
	}

	return user, true
}

// HandleGetUser godoc
// @Summary      Get a user
// @Tags         admin
// @Produce      html,json
// @Param        id       path       int  true  "user ID"
// @Success      200      {object}   domain.User
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) HandleGetUser(ctx *gin.Context) {
	user, ok := h.loadUser(ctx, "v1.HandleGetUser -> h.users.GetUser")
	if !ok {
		return
	}

	response.Render(ctx, http.StatusOK, "admin_user_show.html", gin.H{
		"Title": user.Name,
		"User":  user,
	}, user)
}

func userForm(user domain.User, form request.UserUpdateRequest) gin.H {
	return gin.H{
		"Title": "Edit " + user.Name,
		"User":  user,
		"Form":  form,
		"Roles": domain.Roles,
	}
}

func (h *AdminHandler) HandleEditUserForm(ctx *gin.Context) {
	user, ok := h.loadUser(ctx, "v1.HandleEditUserForm -> h.users.GetUser")
	if !ok {
		return
	}

	response.HTML(ctx, http.StatusOK, "admin_user_edit.html", userForm(user, request.UserUpdateRequest{
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}))
}

// HandleUpdateUser godoc
// @Summary      Update a user's name, email and role
// @Tags         admin
// @Accept       x-www-form-urlencoded,json
// @Produce      html,json
// @Param        id       path       int  true  "user ID"
// @Param        request  body       request.UserUpdateRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users/{id} [post]
func (h *AdminHandler) HandleUpdateUser(ctx *gin.Context) {
	user, ok := h.loadUser(ctx, "v1.HandleUpdateUser -> h.users.GetUser")
	if !ok {
		return
	}

	var req request.UserUpdateRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("admin_user_edit.html", userForm(user, req)))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("admin_user_edit.html", userForm(user, req)))
		return
	}

	updated, err := h.users.UpdateUser(ctx.Request.Context(), user.ID, req.Name, req.Email, domain.Role(req.Role))
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserEmailExists).WithForm("admin_user_edit.html", userForm(user, req)))
			return
		}
		response.RenderErr(ctx, userErr("v1.HandleUpdateUser -> h.users.UpdateUser", user.ID, err))
		return
	}

	response.Done(ctx, http.StatusOK, userPath(updated.ID), "User updated.", updated)
}

// HandleDeleteUser godoc
// @Summary      Delete a user
// @Description  Administrators cannot delete themselves, nor a user who still organizes events.
// @Tags         admin
// @Produce      html,json
// @Param        id       path       int  true  "user ID"
// @Success      200      {object}   map[string]string
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/users/{id}/delete [post]
func (h *AdminHandler) HandleDeleteUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("user", "id", ctx.Param("id")).WithRedirect("/admin/users"))
		return
	}

	actor, _ := reqctx.Identity(ctx)
	if err := h.users.DeleteUser(ctx.Request.Context(), actor, id); err != nil {
		response.RenderErr(ctx, userErr("v1.HandleDeleteUser -> h.users.DeleteUser", id, err))
		return
	}

	response.Done(ctx, http.StatusOK, "/admin/users", "User deleted.", nil)
}

// HandleListLocations godoc
// @Summary      List locations, newest first
// @Tags         admin
// @Produce      html,json
// @Success      200      {array}    domain.Location
// @Failure      500      {object}   response.Err
// @Router       /admin/locations [get]
func (h *AdminHandler) HandleListLocations(ctx *gin.Context) {
	locations, err := h.locations.ListLocations(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListLocations -> h.locations.ListLocations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Render(ctx, http.StatusOK, "admin_locations.html", gin.H{
		"Title":     "Locations",
		"Locations": locations,
	}, locations)
}

func locationErr(op string, id uint, err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrLocationNotFound):
		return response.ErrNotFound("location", "id", id).WithRedirect("/admin/locations")
	case errors.Is(err, service.ErrLocationInUse):
		return response.ErrConflict(service.ErrLocationInUse).WithRedirect(locationPath(id))
	default:
		return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
	}
}

func (h *AdminHandler) loadLocation(ctx *gin.Context, op string) (domain.Location, bool) {
	id, ok := parseID(ctx, "id")
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("location", "id", ctx.Param("id")).WithRedirect("/admin/locations"))
		return domain.Location{}, false
	}

	location, err := h.locations.GetLocation(ctx.Request.Context(), id)
	if err != nil {
		response.RenderErr(ctx, locationErr(op, id, err))
		return domain.Location{}, false
	}

	return location, true
}

// HandleGetLocation godoc
// @Summary      Get a location
// @Tags         admin
// @Produce      html,json
// @Param        id       path       int  true  "location ID"
// @Success      200      {object}   domain.Location
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/locations/{id} [get]
func (h *AdminHandler) HandleGetLocation(ctx *gin.Context) {
	location, ok := h.loadLocation(ctx, "v1.HandleGetLocation -> h.locations.GetLocation")
	if !ok {
		return
	}

	response.Render(ctx, http.StatusOK, "admin_location_show.html", gin.H{
		"Title":    location.Name,
		"Location": location,
	}, location)
}

func locationForm(title, action string, form request.LocationRequest) gin.H {
	return gin.H{
		"Title":   title,
		"Action":  action,
		"Form":    form,
		"Sources": []domain.LocationSource{domain.SourceManual, domain.SourceOSM},
	}
}

func (h *AdminHandler) HandleNewLocationForm(ctx *gin.Context) {
	form := request.LocationRequest{Source: string(domain.SourceManual)}
	response.HTML(ctx, http.StatusOK, "admin_location_form.html", locationForm("New location", "/admin/locations/create", form))
}

// HandleCreateLocation godoc
// @Summary      Create a location
// @Tags         admin
// @Accept       x-www-form-urlencoded,json
// @Produce      html,json
// @Param        request  body       request.LocationRequest true "request body"
// @Success      201      {object}   domain.Location
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/locations/create [post]
func (h *AdminHandler) HandleCreateLocation(ctx *gin.Context) {
	const title, action = "New location", "/admin/locations/create"

	var req request.LocationRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("admin_location_form.html", locationForm(title, action, req)))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("admin_location_form.html", locationForm(title, action, req)))
		return
	}

	location, err := h.locations.CreateLocation(ctx.Request.Context(), req.ToDomain(0))
	if err != nil {
		if errors.Is(err, service.ErrLocationAddressExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrLocationAddressExists).WithForm("admin_location_form.html", locationForm(title, action, req)))
			return
		}
		err = fmt.Errorf("v1.HandleCreateLocation -> h.locations.CreateLocation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Done(ctx, http.StatusCreated, locationPath(location.ID), "Location created.", location)
}

func (h *AdminHandler) HandleEditLocationForm(ctx *gin.Context) {
	location, ok := h.loadLocation(ctx, "v1.HandleEditLocationForm -> h.locations.GetLocation")
	if !ok {
		return
	}

	response.HTML(ctx, http.StatusOK, "admin_location_form.html",
		locationForm("Edit "+location.Name, locationPath(location.ID), request.LocationRequestFrom(location)))
}

// HandleUpdateLocation godoc
// @Summary      Update a location
// @Tags         admin
// @Accept       x-www-form-urlencoded,json
// @Produce      html,json
// @Param        id       path       int  true  "location ID"
// @Param        request  body       request.LocationRequest true "request body"
// @Success      200      {object}   domain.Location
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/locations/{id} [post]
func (h *AdminHandler) HandleUpdateLocation(ctx *gin.Context) {
	location, ok := h.loadLocation(ctx, "v1.HandleUpdateLocation -> h.locations.GetLocation")
	if !ok {
		return
	}
	title, action := "Edit "+location.Name, locationPath(location.ID)

	var req request.LocationRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("admin_location_form.html", locationForm(title, action, req)))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("admin_location_form.html", locationForm(title, action, req)))
		return
	}

	updated, err := h.locations.UpdateLocation(ctx.Request.Context(), req.ToDomain(location.ID))
	if err != nil {
		response.RenderErr(ctx, locationErr("v1.HandleUpdateLocation -> h.locations.UpdateLocation", location.ID, err))
		return
	}

	response.Done(ctx, http.StatusOK, locationPath(updated.ID), "Location updated.", updated)
}

// HandleDeleteLocation godoc
// @Summary      Delete a location that no event uses
// @Tags         admin
// @Produce      html,json
// @Param        id       path       int  true  "location ID"
// @Success      200      {object}   map[string]string
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/locations/{id}/delete [post]
func (h *AdminHandler) HandleDeleteLocation(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("location", "id", ctx.Param("id")).WithRedirect("/admin/locations"))
		return
	}

	if err := h.locations.DeleteLocation(ctx.Request.Context(), id); err != nil {
		response.RenderErr(ctx, locationErr("v1.HandleDeleteLocation -> h.locations.DeleteLocation", id, err))
		return
	}

	response.Done(ctx, http.StatusOK, "/admin/locations", "Location deleted.", nil)
}
