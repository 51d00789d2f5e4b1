package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Message API
	s.echo.POST("/api/message", s.handleCreateMessage, newRateLimiter(s.config.SubmitRatePerSecond, s.config.SubmitBurst))
	s.echo.GET("/api/messages", s.handleListMessages)

	// Realtime channel
	s.echo.GET("/ws", s.handleWebSocket)
}
