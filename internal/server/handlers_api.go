package server

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
	apperrors "github.com/rahulvat-s/EmotiveChatFlow/internal/errors"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/metrics"
)

const maxTextLength = 2000

type createMessageRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

type createMessageResponse struct {
	Success bool           `json:"success"`
	Message domain.Message `json:"message"`
}

func validateSubmission(req createMessageRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return apperrors.ValidationError("userId is required")
	}
	if strings.TrimSpace(req.Username) == "" {
		return apperrors.ValidationError("username is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.ValidationError("text cannot be empty")
	}
	if len(req.Text) > maxTextLength {
		return apperrors.ValidationError(fmt.Sprintf("text exceeds %d characters", maxTextLength))
	}
	return nil
}

// handleCreateMessage accepts a submission, stores it pending, broadcasts it
// immediately and schedules the deferred sentiment analysis. Validation
// failures leave no state behind.
func (s *Server) handleCreateMessage(c echo.Context) error {
	var req createMessageRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := validateSubmission(req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	msg, err := s.store.Create(ctx, req.UserID, req.Username, req.Text)
	if err != nil {
		return apperrors.InternalError("failed to store message", err)
	}

	metrics.MessagesSubmittedTotal.Inc()
	s.hub.Broadcast(domain.NewNewMessageEvent(msg))
	s.analyzer.Schedule(msg.ID, msg.Text)

	if err := c.JSON(200, createMessageResponse{Success: true, Message: msg}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListMessages(c echo.Context) error {
	messages, err := s.store.List(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load messages", err)
	}

	if err := c.JSON(200, messages); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
