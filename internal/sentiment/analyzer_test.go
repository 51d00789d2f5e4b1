package sentiment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/store"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingBroadcaster) Broadcast(event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingBroadcaster) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out
}

// spyStore signals every UpdateSentiment call so tests can wait for the
// deferred task to reach the store without sleeping.
type spyStore struct {
	domain.MessageStore
	updated chan int64
}

func (s *spyStore) UpdateSentiment(ctx context.Context, id int64, sentiment domain.Sentiment) (domain.Message, error) {
	msg, err := s.MessageStore.UpdateSentiment(ctx, id, sentiment)
	s.updated <- id
	return msg, err
}

func TestAnalyzer_SchedulesDeferredUpdate(t *testing.T) {
	clock := clockwork.NewFakeClock()
	memStore := store.NewMemoryStore(clock)
	broadcaster := &recordingBroadcaster{}

	msg, err := memStore.Create(context.Background(), "u1", "alice", "I am happy")
	require.NoError(t, err)
	require.Equal(t, domain.SentimentPending, msg.Sentiment)

	analyzer := NewAnalyzer(memStore, broadcaster, clock, 3*time.Second)
	analyzer.Schedule(msg.ID, msg.Text)

	// Nothing happens before the delay elapses.
	clock.BlockUntil(1)
	assert.Empty(t, broadcaster.Events())

	clock.Advance(3 * time.Second)

	require.Eventually(t, func() bool {
		return len(broadcaster.Events()) == 1
	}, time.Second, 10*time.Millisecond)

	event, ok := broadcaster.Events()[0].(domain.SentimentUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, msg.ID, event.MessageID)
	assert.Equal(t, domain.SentimentPositive, event.Sentiment)

	messages, err := memStore.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentPositive, messages[0].Sentiment)
}

func TestAnalyzer_MissingMessageIsNoOp(t *testing.T) {
	clock := clockwork.NewFakeClock()
	spy := &spyStore{
		MessageStore: store.NewMemoryStore(clock),
		updated:      make(chan int64, 1),
	}
	broadcaster := &recordingBroadcaster{}

	analyzer := NewAnalyzer(spy, broadcaster, clock, 3*time.Second)
	analyzer.Schedule(42, "this is bad")

	clock.BlockUntil(1)
	clock.Advance(3 * time.Second)

	select {
	case id := <-spy.updated:
		assert.Equal(t, int64(42), id)
	case <-time.After(time.Second):
		t.Fatal("deferred update never reached the store")
	}

	// The update was a no-op, so no sentiment_update goes out.
	assert.Never(t, func() bool {
		return len(broadcaster.Events()) > 0
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestAnalyzer_StopAbandonsPendingTasks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	memStore := store.NewMemoryStore(clock)
	broadcaster := &recordingBroadcaster{}

	msg, err := memStore.Create(context.Background(), "u1", "alice", "awesome")
	require.NoError(t, err)

	analyzer := NewAnalyzer(memStore, broadcaster, clock, 3*time.Second)
	analyzer.Schedule(msg.ID, msg.Text)

	clock.BlockUntil(1)
	analyzer.Stop()

	messages, err := memStore.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentPending, messages[0].Sentiment)
	assert.Empty(t, broadcaster.Events())
}
