package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamflowdev/call-coordinator/internal/infrastructure/http/middleware"
	"github.com/teamflowdev/call-coordinator/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg         *config.Config
	callHandler *Call
	auth        *middleware.AuthMiddleware
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, callHandler *Call, auth *middleware.AuthMiddleware) *Router {
	return &Router{
		cfg:         cfg,
		callHandler: callHandler,
		auth:        auth,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")
	rt.setupCallRoutes(v1)
}

// setupCallRoutes configures video-call routes
func (rt *Router) setupCallRoutes(g *echo.Group) {
	callGroup := g.Group("/video-call", rt.auth.Authenticate)

	callGroup.POST("/join", rt.callHandler.JoinCall)
	callGroup.POST("/end", rt.callHandler.EndCall)
	callGroup.POST("/kick", rt.callHandler.KickUser)
	callGroup.POST("/unkick", rt.callHandler.UnkickUser)
	callGroup.POST("/screen-share", rt.callHandler.ScreenShare)
	callGroup.POST("/transcript", rt.callHandler.ReceiveTranscript)
	callGroup.POST("/trigger-summary", rt.callHandler.TriggerSummary)
	callGroup.GET("/call-history", rt.callHandler.CallHistory)
	callGroup.GET("/call-history/:roomId", rt.callHandler.CallHistoryByRoom)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
