package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventsplus-api/internal/api/reqctx"
)

// WantsJSON reports whether the client asked for JSON rather than HTML.
func WantsJSON(ctx *gin.Context) bool {
	return ctx.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// HTML renders a page with the values every layout needs.
func HTML(ctx *gin.Context, status int, template string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if identity, ok := reqctx.Identity(ctx); ok {
		data["Identity"] = identity
	}
	if flash, ok := TakeFlash(ctx); ok {
		data["Flash"] = flash
	}
	data["Path"] = ctx.Request.URL.Path

	ctx.HTML(status, template, data)
}

// Render answers JSON clients with payload and everyone else with template.
func Render(ctx *gin.Context, status int, template string, data gin.H, payload any) {
	if WantsJSON(ctx) {
		ctx.JSON(status, payload)
		return
	}

	HTML(ctx, status, template, data)
}

// Done finishes a successful write. JSON clients get payload with status;
// HTML clients are redirected with message flashed.
func Done(ctx *gin.Context, status int, redirect, message string, payload any) {
	if WantsJSON(ctx) {
		if payload == nil {
			payload = gin.H{"message": message}
		}
		ctx.JSON(status, payload)
		return
	}

	if message != "" {
		SetFlash(ctx, FlashSuccess, message)
	}
	ctx.Redirect(http.StatusSeeOther, redirect)
}
