package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hirevision/interview-service/internal/handlers"
	"github.com/hirevision/interview-service/internal/middlewares"
)

func RegisterProtectedEndpoints(
	router *gin.Engine,
	interviewHandler *handlers.InterviewHandler,
	inviteHandler *handlers.InviteHandler,
	jwtSecret string,
) {
	protected := router.Group("/api")
	protected.Use(middlewares.AuthMiddleware(jwtSecret))

	protected.GET("/devices", interviewHandler.ListDevices)

	protected.POST("/sessions", interviewHandler.CreateSession)
	protected.GET("/sessions/:id", interviewHandler.GetSession)
	protected.POST("/sessions/:id/devices", interviewHandler.SelectDevices)
	protected.POST("/sessions/:id/begin", interviewHandler.Begin)
	protected.POST("/sessions/:id/answer/start", interviewHandler.StartAnswer)
	protected.POST("/sessions/:id/answer/stop", interviewHandler.StopAnswer)
	protected.POST("/sessions/:id/next", interviewHandler.NextQuestion)
	protected.POST("/sessions/:id/preview/toggle", interviewHandler.TogglePreview)
	protected.POST("/sessions/:id/finish/request", interviewHandler.RequestFinish)
	protected.POST("/sessions/:id/finish/cancel", interviewHandler.CancelFinish)
	protected.POST("/sessions/:id/finish/confirm", interviewHandler.ConfirmFinish)

	protected.POST("/invites", inviteHandler.Issue)

}
