package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirevision/interview-service/internal/handlers"
	"github.com/hirevision/interview-service/internal/middlewares"
)

func RegisterPublicEndpoints(
	router *gin.Engine,
	inviteHandler *handlers.InviteHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret string,
) {

	public := router.Group("/api")

	public.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Candidates check their invite before they have an account
	public.GET("/invites/status/:code", inviteHandler.Status)

	// WebSocket upgrade requests can't carry an Authorization header, so
	// AuthMiddleware also accepts a token query parameter
	public.GET("/ws/interview", middlewares.AuthMiddleware(jwtSecret), webSocketHandler.HandleSession)

}
