package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/config"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/hub"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/sentiment"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/store"
)

// testServer bundles everything a handler test needs. The analyzer runs on a
// fake clock so tests control when the deferred classification fires; the hub
// keeps a real clock because websocket deadlines are absolute times.
type testServer struct {
	httpServer *httptest.Server
	store      domain.MessageStore
	hub        *hub.Hub
	analyzer   *sentiment.Analyzer
	clock      *clockwork.FakeClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	// Generous limits so ordinary tests never trip the rate limiter.
	return newRateLimitedTestServer(t, 1000, 1000)
}

func newRateLimitedTestServer(t *testing.T, ratePerSecond float64, burst int) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppEnv:              "test",
		Port:                "0",
		MessageStore:        config.StoreMemory,
		SentimentDelay:      3 * time.Second,
		MaxClients:          100,
		SubmitRatePerSecond: ratePerSecond,
		SubmitBurst:         burst,
	}

	fakeClock := clockwork.NewFakeClock()
	messageStore := store.NewMemoryStore(fakeClock)
	h := hub.New(clockwork.NewRealClock(), cfg.MaxClients)
	analyzer := sentiment.NewAnalyzer(messageStore, h, fakeClock, cfg.SentimentDelay)

	srv := New(cfg, messageStore, h, analyzer, clockwork.NewRealClock())
	httpServer := httptest.NewServer(srv.echo)

	t.Cleanup(func() {
		httpServer.Close()
		analyzer.Stop()
		h.Stop()
	})

	return &testServer{
		httpServer: httpServer,
		store:      messageStore,
		hub:        h,
		analyzer:   analyzer,
		clock:      fakeClock,
	}
}

func (ts *testServer) postJSON(t *testing.T, path string, body string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Post(ts.httpServer.URL+path, "application/json", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, decodeObject(t, resp.Body)
}

func (ts *testServer) getJSON(t *testing.T, path string, out any) int {
	t.Helper()

	resp, err := http.Get(ts.httpServer.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func (ts *testServer) dialWS(t *testing.T) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.httpServer.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func decodeObject(t *testing.T, r io.Reader) map[string]any {
	t.Helper()

	var obj map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&obj))
	return obj
}

func sendJoin(t *testing.T, conn *websocket.Conn, userID, username string) {
	t.Helper()

	payload, err := json.Marshal(domain.ClientEvent{Type: domain.EventJoin, UserID: userID, Username: username})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))
}

func readServerEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event map[string]any
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

// expectNoEvent asserts that nothing arrives on the connection for a short
// window. The read timeout is fatal to the connection, so this must be the
// last read on it.
func expectNoEvent(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, data, err := conn.ReadMessage()
	require.Error(t, err, "unexpected event: %s", data)
}
