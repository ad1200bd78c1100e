package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventsplus-api/internal/api/handler/v1/response"
)

func HandleHome(ctx *gin.Context) {
	response.HTML(ctx, http.StatusOK, "home.html", gin.H{
		"Title": "Events+",
	})
}

// HandleHealthcheck godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200      {object}   map[string]string
// @Router       /healthz [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
