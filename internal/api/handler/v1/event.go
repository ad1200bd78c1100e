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

type EventService interface {
	ListEvents(ctx context.Context, callerID uint) ([]domain.Event, error)
	ListMyEvents(ctx context.Context, callerID uint) ([]domain.Event, error)
	GetEvent(ctx context.Context, id, callerID uint) (domain.Event, error)
	CreateEvent(ctx context.Context, caller domain.Identity, in service.EventInput) (domain.Event, error)
	UpdateEvent(ctx context.Context, caller domain.Identity, id uint, in service.EventInput) (domain.Event, error)
	DeleteEvent(ctx context.Context, caller domain.Identity, id uint) error
	JoinEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error)
	LeaveEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error)
	CancelEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error)
	FinishEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

func eventPath(id uint) string {
	return "/events/" + strconv.FormatUint(uint64(id), 10)
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}

// eventErr maps event service errors. Rejections of a participation or
// status change send HTML clients back to the event page.
func eventErr(op string, id uint, err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return response.ErrNotFound("event", "id", id).WithRedirect("/events")
	case errors.Is(err, service.ErrForbidden):
		return response.ErrPermissionDenied(service.ErrForbidden)
	case errors.Is(err, service.ErrEventNotOpen),
		errors.Is(err, service.ErrEventFull),
		errors.Is(err, service.ErrAlreadyParticipant),
		errors.Is(err, service.ErrInvalidTransition):
		return response.ErrConflict(err).WithRedirect(eventPath(id))
	default:
		return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
	}
}

// HandleListEvents godoc
// @Summary      List all events, soonest first
// @Tags         events
// @Produce      html,json
// @Success      200      {array}    domain.Event
// @Failure      500      {object}   response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.ListEvents(ctx.Request.Context(), reqctx.CallerID(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Render(ctx, http.StatusOK, "events_index.html", gin.H{
		"Title":  "Events",
		"Events": events,
	}, events)
}

// HandleMyEvents godoc
// @Summary      List the events organized by the caller
// @Tags         events
// @Produce      html,json
// @Success      200      {array}    domain.Event
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/mine [get]
func (h *EventHandler) HandleMyEvents(ctx *gin.Context) {
	events, err := h.svc.ListMyEvents(ctx.Request.Context(), reqctx.CallerID(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleMyEvents -> h.svc.ListMyEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Render(ctx, http.StatusOK, "events_mine.html", gin.H{
		"Title":  "My events",
		"Events": events,
	}, events)
}

// HandleGetEvent godoc
// @Summary      Get an event with its participants
// @Tags         events
// @Produce      html,json
// @Param        id       path       int  true  "event ID"
// @Success      200      {object}   domain.Event
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{id} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("event", "id", ctx.Param("id")).WithRedirect("/events"))
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), id, reqctx.CallerID(ctx))
	if err != nil {
		response.RenderErr(ctx, eventErr("v1.HandleGetEvent -> h.svc.GetEvent", id, err))
		return
	}

	response.Render(ctx, http.StatusOK, "events_show.html", gin.H{
		"Title": event.Title,
		"Event": event,
	}, event)
}

func eventForm(title, action string, form request.EventRequest) gin.H {
	return gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form,
	}
}

func (h *EventHandler) HandleNewEventForm(ctx *gin.Context) {
	response.HTML(ctx, http.StatusOK, "events_form.html", eventForm("Create an event", "/events/create", request.EventRequest{}))
}

// HandleCreateEvent godoc
// @Summary      Create an event organized by the caller
// @Tags         events
// @Accept       x-www-form-urlencoded,json
// @Produce      html,json
// @Param        request  body       request.EventRequest true "request body"
// @Success      201      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/create [post]
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	var req request.EventRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("events_form.html", eventForm("Create an event", "/events/create", req)))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("events_form.html", eventForm("Create an event", "/events/create", req)))
		return
	}

	caller, _ := reqctx.Identity(ctx)
	event, err := h.svc.CreateEvent(ctx.Request.Context(), caller, req.ToInput())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Done(ctx, http.StatusCreated, eventPath(event.ID), "Event created.", event)
}

func (h *EventHandler) HandleEditEventForm(ctx *gin.Context) {
	event, _ := reqctx.Event(ctx)

	response.HTML(ctx, http.StatusOK, "events_form.html",
		eventForm("Edit "+event.Title, eventPath(event.ID)+"/edit", request.EventRequestFrom(event)))
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Only the organizer may update an event. The status follows the new capacity.
// @Tags         events
// @Accept       x-www-form-urlencoded,json
// @Produce      html,json
// @Param        id       path       int  true  "event ID"
// @Param        request  body       request.EventRequest true "request body"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{id}/edit [post]
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	event, _ := reqctx.Event(ctx)
	title, action := "Edit "+event.Title, eventPath(event.ID)+"/edit"

	var req request.EventRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("events_form.html", eventForm(title, action, req)))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err).WithForm("events_form.html", eventForm(title, action, req)))
		return
	}

	caller, _ := reqctx.Identity(ctx)
	updated, err := h.svc.UpdateEvent(ctx.Request.Context(), caller, event.ID, req.ToInput())
	if err != nil {
		response.RenderErr(ctx, eventErr("v1.HandleUpdateEvent -> h.svc.UpdateEvent", event.ID, err))
		return
	}

	response.Done(ctx, http.StatusOK, eventPath(updated.ID), "Event updated.", updated)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event and its participations
// @Tags         events
// @Produce      html,json
// @Param        id       path       int  true  "event ID"
// @Success      200      {object}   map[string]string
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{id}/delete [post]
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	event, _ := reqctx.Event(ctx)
	caller, _ := reqctx.Identity(ctx)

	if err := h.svc.DeleteEvent(ctx.Request.Context(), caller, event.ID); err != nil {
		response.RenderErr(ctx, eventErr("v1.HandleDeleteEvent -> h.svc.DeleteEvent", event.ID, err))
		return
	}

	response.Done(ctx, http.StatusOK, "/events/mine", "Event deleted.", nil)
}

type eventAction func(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error)

// transition runs a participation or status change on the event named by
// :id, which may or may not have been loaded by a middleware already.
func (h *EventHandler) transition(ctx *gin.Context, op string, action eventAction, message string) {
	id, ok := parseID(ctx, "id")
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("event", "id", ctx.Param("id")).WithRedirect("/events"))
		return
	}

	caller, _ := reqctx.Identity(ctx)
	event, err := action(ctx.Request.Context(), caller, id)
	if err != nil {
		response.RenderErr(ctx, eventErr(op, id, err))
		return
	}

	response.Done(ctx, http.StatusOK, eventPath(event.ID), message, event)
}

// HandleParticipate godoc
// @Summary      Join an event
// @Tags         events
// @Produce      html,json
// @Param        id       path       int  true  "event ID"
// @Success      200      {object}   domain.Event
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{id}/participate [post]
func (h *EventHandler) HandleParticipate(ctx *gin.Context) {
	h.transition(ctx, "v1.HandleParticipate -> h.svc.JoinEvent", h.svc.JoinEvent, "You are registered for this event.")
}

// HandleLeave godoc
// @Summary      Leave an event
// @Tags         events
// @Produce      html,json
// @Param        id       path       int  true  "event ID"
// @Success      200      {object}   domain.Event
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{id}/leave [post]
func (h *EventHandler) HandleLeave(ctx *gin.Context) {
	h.transition(ctx, "v1.HandleLeave -> h.svc.LeaveEvent", h.svc.LeaveEvent, "You are no longer registered for this event.")
}

// HandleCancelEvent godoc
// @Summary      Cancel an event
// @Tags         events
// @Produce      html,json
// @Param        id       path       int  true  "event ID"
// @Success      200      {object}   domain.Event
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{id}/cancel [post]
func (h *EventHandler) HandleCancelEvent(ctx *gin.Context) {
	h.transition(ctx, "v1.HandleCancelEvent -> h.svc.CancelEvent", h.svc.CancelEvent, "Event cancelled.")
}

// HandleFinishEvent godoc
// @Summary      Mark an event as finished
// @Tags         events
// @Produce      html,json
// @Param        id       path       int  true  "event ID"
// @Success      200      {object}   domain.Event
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{id}/finish [post]
func (h *EventHandler) HandleFinishEvent(ctx *gin.Context) {
	h.transition(ctx, "v1.HandleFinishEvent -> h.svc.FinishEvent", h.svc.FinishEvent, "Event marked as finished.")
}
