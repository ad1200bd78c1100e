package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventsplus-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventsplus-api/internal/api/reqctx"
	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/service"
)

type EventGetter interface {
	GetEvent(ctx context.Context, id, callerID uint) (domain.Event, error)
}

// RequireEventOwner loads the event named by :id and lets only its
// organizer through. It must run after RequireAuth.
func RequireEventOwner(events EventGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.RenderErr(c, response.ErrNotFound("event", "id", c.Param("id")).WithRedirect("/events"))
			return
		}

		callerID := reqctx.CallerID(c)
		event, err := events.GetEvent(c.Request.Context(), uint(id), callerID)
		if err != nil {
			if errors.Is(err, service.ErrEventNotFound) {
				response.RenderErr(c, response.ErrNotFound("event", "id", id).WithRedirect("/events"))
				return
			}
			err = fmt.Errorf("middleware.RequireEventOwner -> events.GetEvent -> %w", err)
			response.RenderErr(c, response.ErrInternalServerError(err))
			return
		}

		if !event.IsOrganizedBy(callerID) {
			response.RenderErr(c, response.ErrPermissionDenied(service.ErrForbidden))
			return
		}

		reqctx.SetEvent(c, event)
		c.Next()
	}
}
