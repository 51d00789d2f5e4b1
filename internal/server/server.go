package server

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/config"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
	apperrors "github.com/rahulvat-s/EmotiveChatFlow/internal/errors"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/hub"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/sentiment"
)

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	store     domain.MessageStore
	hub       *hub.Hub
	analyzer  *sentiment.Analyzer
	clock     clockwork.Clock
	startTime time.Time
}

func New(cfg *config.Config, store domain.MessageStore, h *hub.Hub, analyzer *sentiment.Analyzer, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		store:     store,
		hub:       h,
		analyzer:  analyzer,
		clock:     clock,
		startTime: clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
