package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "flash"

	FlashSuccess = "success"
	FlashError   = "error"
)

type Flash struct {
	Kind    string
	Message string
}

func SetFlash(ctx *gin.Context, kind, message string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(flashCookie, kind+":"+message, 60, "/", "", false, true)
}

// TakeFlash returns the pending flash and expires its cookie.
func TakeFlash(ctx *gin.Context) (Flash, bool) {
	raw, err := ctx.Cookie(flashCookie)
	if err != nil || raw == "" {
		return Flash{}, false
	}
	ctx.SetCookie(flashCookie, "", -1, "/", "", false, true)

	kind, message, ok := strings.Cut(raw, ":")
	if !ok {
		return Flash{}, false
	}

	return Flash{Kind: kind, Message: message}, true
}
