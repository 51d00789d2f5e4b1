package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/config"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/hub"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/sentiment"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/store"
)

func TestLiveness(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]any
	status := ts.getJSON(t, "/health/live", &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestReadiness_Healthy(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	status := ts.getJSON(t, "/health/ready", &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

type unreachableStore struct {
	domain.MessageStore
}

func (unreachableStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestReadiness_StoreDown(t *testing.T) {
	cfg := &config.Config{
		Port:                "0",
		MessageStore:        config.StoreMemory,
		SentimentDelay:      3 * time.Second,
		MaxClients:          100,
		SubmitRatePerSecond: 1000,
		SubmitBurst:         1000,
	}

	clock := clockwork.NewRealClock()
	messageStore := unreachableStore{MessageStore: store.NewMemoryStore(clock)}
	h := hub.New(clock, cfg.MaxClients)
	analyzer := sentiment.NewAnalyzer(messageStore, h, clock, cfg.SentimentDelay)

	srv := New(cfg, messageStore, h, analyzer, clock)
	httpServer := httptest.NewServer(srv.echo)
	t.Cleanup(func() {
		httpServer.Close()
		analyzer.Stop()
		h.Stop()
	})

	resp, err := http.Get(httpServer.URL + "/health/ready")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
