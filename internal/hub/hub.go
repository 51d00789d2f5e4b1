package hub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/metrics"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second
)

// client is the per-connection state. It lives entirely inside the actor
// goroutine; identity fields are set on the first join and never change.
type client struct {
	writer   *clientWriter
	joined   bool
	userID   string
	username string
}

// JoinResult reports the outcome of a join command.
type JoinResult struct {
	// FirstJoin is false for repeated joins on the same connection; the
	// caller must not resend the snapshot or rebroadcast in that case.
	FirstJoin   bool
	OnlineCount int
}

// LeaveResult reports the outcome of an unregister command so the caller can
// announce the departure of a joined connection.
type LeaveResult struct {
	WasJoined   bool
	Username    string
	OnlineCount int
}

// --- Command types ---

type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type registerCmd struct {
	baseHubCmd
	connection   *websocket.Conn
	errorChannel chan error
}

type unregisterCmd struct {
	baseHubCmd
	connection   *websocket.Conn
	replyChannel chan LeaveResult
}

type joinCmd struct {
	baseHubCmd
	connection   *websocket.Conn
	userID       string
	username     string
	replyChannel chan JoinResult
}

type sendCmd struct {
	baseHubCmd
	connection *websocket.Conn
	data       []byte
}

type broadcastCmd struct {
	baseHubCmd
	data []byte
}

type sizeCmd struct {
	baseHubCmd
	replyChannel chan int
}

type stopCmd struct {
	baseHubCmd
}

// Hub owns the set of live connections and fans events out to them.
type Hub struct {
	cmdCh      chan hubCmd
	clock      clockwork.Clock
	clients    map[*websocket.Conn]*client
	maxClients int
	done       chan struct{}
}

// New creates a hub and starts its actor goroutine. maxClients caps the
// number of registered connections; registration past the cap is rejected.
func New(clock clockwork.Clock, maxClients int) *Hub {
	h := &Hub{
		cmdCh:      make(chan hubCmd, 256),
		clock:      clock,
		clients:    make(map[*websocket.Conn]*client),
		maxClients: maxClients,
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

// Register adds a freshly accepted connection to the registry.
func (h *Hub) Register(conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- registerCmd{connection: conn, errorChannel: errCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-timer.Chan():
		return fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a connection. Safe to call on an already removed
// connection; the result then reports WasJoined false.
func (h *Hub) Unregister(conn *websocket.Conn) LeaveResult {
	replyCh := make(chan LeaveResult, 1)
	h.cmdCh <- unregisterCmd{connection: conn, replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case res := <-replyCh:
		return res
	case <-timer.Chan():
		slog.Warn("Unregister timed out", "timeout", commandTimeout)
		return LeaveResult{}
	}
}

// Join records the identity on a registered connection. Joining twice is a
// no-op reported through FirstJoin.
func (h *Hub) Join(conn *websocket.Conn, userID, username string) JoinResult {
	replyCh := make(chan JoinResult, 1)
	h.cmdCh <- joinCmd{connection: conn, userID: userID, username: username, replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case res := <-replyCh:
		return res
	case <-timer.Chan():
		slog.Warn("Join timed out", "timeout", commandTimeout)
		return JoinResult{}
	}
}

// Send delivers one event to a single connection, best-effort. Sends after
// Stop are dropped.
func (h *Hub) Send(conn *websocket.Conn, event domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal event", "event", event.Kind(), "error", err)
		return
	}
	select {
	case h.cmdCh <- sendCmd{connection: conn, data: data}:
	case <-h.done:
	}
}

// Broadcast serializes the event once and delivers it to every registered
// connection whose writer can take it right now. No retries, no queuing
// beyond each writer's bounded buffer. Broadcasts after Stop are dropped
// rather than left to pile up on the command channel.
func (h *Hub) Broadcast(event domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal event", "event", event.Kind(), "error", err)
		return
	}
	select {
	case h.cmdCh <- broadcastCmd{data: data}:
		metrics.BroadcastEventsTotal.WithLabelValues(string(event.Kind())).Inc()
	case <-h.done:
	}
}

// Size returns the number of registered connections. Returns -1 on timeout.
func (h *Hub) Size() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- sizeCmd{replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("Size timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts down the hub, closing all client connections. Blocks until the
// actor goroutine has exited or the timeout is reached.
func (h *Hub) Stop() {
	h.cmdCh <- stopCmd{}

	timer := h.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-h.done:
		slog.Info("Hub stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Hub stop timeout exceeded", "timeout", stopTimeout)
	}
}

func (h *Hub) run() {
	defer close(h.done)

	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case registerCmd:
			h.handleRegister(c)
		case unregisterCmd:
			c.replyChannel <- h.removeClient(c.connection)
		case joinCmd:
			h.handleJoin(c)
		case sendCmd:
			h.handleSend(c)
		case broadcastCmd:
			h.handleBroadcast(c.data)
		case sizeCmd:
			c.replyChannel <- len(h.clients)
		case stopCmd:
			h.handleStop()
			return
		default:
			slog.Error("Unknown hub command", "command", fmt.Sprintf("%T", cmd))
		}
	}
}

func (h *Hub) handleRegister(c registerCmd) {
	if len(h.clients) >= h.maxClients {
		slog.Warn("Rejecting client: max clients reached", "max_clients", h.maxClients)
		_ = c.connection.Close()
		c.errorChannel <- fmt.Errorf("max clients (%d) reached", h.maxClients)
		return
	}

	h.clients[c.connection] = &client{writer: newClientWriter(c.connection, h.clock)}
	metrics.WebSocketConnectedClients.Set(float64(len(h.clients)))
	c.errorChannel <- nil
}

func (h *Hub) handleJoin(c joinCmd) {
	cl, exists := h.clients[c.connection]
	if !exists {
		c.replyChannel <- JoinResult{}
		return
	}

	if cl.joined {
		c.replyChannel <- JoinResult{FirstJoin: false, OnlineCount: len(h.clients)}
		return
	}

	cl.joined = true
	cl.userID = c.userID
	cl.username = c.username
	metrics.WebSocketJoinedClients.Inc()

	c.replyChannel <- JoinResult{FirstJoin: true, OnlineCount: len(h.clients)}
}

func (h *Hub) handleSend(c sendCmd) {
	cl, exists := h.clients[c.connection]
	if !exists {
		return
	}

	select {
	case cl.writer.sendChannel <- c.data:
	default:
		slog.Warn("Dropping send to slow client")
	}
}

// handleBroadcast fans one payload out to every client. Slow clients are
// disconnected; if a disconnected client had joined, its user_left event is
// appended to the fan-out queue so remaining clients learn the new count.
func (h *Hub) handleBroadcast(data []byte) {
	pending := [][]byte{data}

	for len(pending) > 0 {
		payload := pending[0]
		pending = pending[1:]

		var slow []*websocket.Conn
		for conn, cl := range h.clients {
			select {
			case cl.writer.sendChannel <- payload:
			default:
				slow = append(slow, conn)
			}
		}

		for _, conn := range slow {
			slog.Warn("Disconnecting slow client")
			metrics.SlowClientDisconnectsTotal.Inc()
			res := h.removeClient(conn)
			if !res.WasJoined {
				continue
			}
			left := domain.NewUserLeftEvent(res.Username, res.OnlineCount)
			if b, err := json.Marshal(left); err == nil {
				metrics.BroadcastEventsTotal.WithLabelValues(string(left.Kind())).Inc()
				pending = append(pending, b)
			}
		}
	}
}

func (h *Hub) removeClient(conn *websocket.Conn) LeaveResult {
	cl, exists := h.clients[conn]
	if !exists {
		return LeaveResult{OnlineCount: len(h.clients)}
	}

	cl.writer.stop()
	delete(h.clients, conn)
	metrics.WebSocketConnectedClients.Set(float64(len(h.clients)))
	if cl.joined {
		metrics.WebSocketJoinedClients.Dec()
	}

	return LeaveResult{
		WasJoined:   cl.joined,
		Username:    cl.username,
		OnlineCount: len(h.clients),
	}
}

func (h *Hub) handleStop() {
	for conn, cl := range h.clients {
		cl.writer.stop()
		delete(h.clients, conn)
	}
	metrics.WebSocketConnectedClients.Set(0)
	metrics.WebSocketJoinedClients.Set(0)
}
