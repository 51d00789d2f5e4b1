package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/logging"
)

const snapshotTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // browser clients connect from the app's own origin or localhost dev servers
	},
}

// handleWebSocket drives the per-connection session protocol: register on
// accept, process inbound events until the transport closes, then tear down
// and announce the departure of joined connections.
func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	if err := s.hub.Register(conn); err != nil {
		slog.Warn("Failed to register connection", "error", err)
		_ = conn.Close()
		return nil
	}

	logger := logging.WithConnection(uuid.NewString())
	logger.Info("Client connected")

	s.readLoop(conn, logger)

	leave := s.hub.Unregister(conn)
	if leave.WasJoined {
		s.hub.Broadcast(domain.NewUserLeftEvent(leave.Username, leave.OnlineCount))
	}
	logger.Info("Client disconnected", "was_joined", leave.WasJoined)

	return nil
}

// readLoop processes inbound payloads until the transport reports an error.
// Malformed payloads are logged and ignored; the connection stays open.
func (s *Server) readLoop(conn *websocket.Conn, logger *slog.Logger) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var event domain.ClientEvent
		if err := json.Unmarshal(data, &event); err != nil {
			logger.Warn("Ignoring malformed payload", "error", err)
			continue
		}

		switch event.Type {
		case domain.EventJoin:
			s.handleJoin(conn, event, logger)
		default:
			logger.Warn("Ignoring unknown event type", "type", event.Type)
		}
	}
}

// handleJoin records the identity, sends the history snapshot to the joiner
// and announces the join to everyone. A repeated join does neither.
func (s *Server) handleJoin(conn *websocket.Conn, event domain.ClientEvent, logger *slog.Logger) {
	if event.UserID == "" || event.Username == "" {
		logger.Warn("Ignoring join with missing identity")
		return
	}

	result := s.hub.Join(conn, event.UserID, event.Username)
	if !result.FirstJoin {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	messages, err := s.store.List(ctx)
	if err != nil {
		logger.Error("Failed to load history snapshot", "error", err)
		messages = nil
	}

	s.hub.Send(conn, domain.NewInitialMessagesEvent(messages))
	s.hub.Broadcast(domain.NewUserJoinedEvent(event.Username, result.OnlineCount))

	logger.Info("Client joined", "username", event.Username, "online_count", result.OnlineCount)
}
