package sentiment

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/metrics"
)

const updateTimeout = 5 * time.Second

// Analyzer runs the deferred sentiment analysis. Each submitted message gets
// exactly one scheduled task; tasks are independent and unordered relative to
// each other, and the new_message broadcast always precedes the task's
// sentiment_update because scheduling happens after that broadcast.
type Analyzer struct {
	store       domain.MessageStore
	broadcaster domain.Broadcaster
	clock       clockwork.Clock
	delay       time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewAnalyzer(store domain.MessageStore, broadcaster domain.Broadcaster, clock clockwork.Clock, delay time.Duration) *Analyzer {
	return &Analyzer{
		store:       store,
		broadcaster: broadcaster,
		clock:       clock,
		delay:       delay,
		stopCh:      make(chan struct{}),
	}
}

// Schedule queues one deferred analysis of the given message. The task
// tolerates the message disappearing before the delay elapses: the update is
// a no-op and nothing is broadcast.
func (a *Analyzer) Schedule(messageID int64, text string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		timer := a.clock.NewTimer(a.delay)
		defer timer.Stop()

		select {
		case <-timer.Chan():
		case <-a.stopCh:
			return
		}

		a.analyze(messageID, text)
	}()
}

func (a *Analyzer) analyze(messageID int64, text string) {
	label := Classify(text)

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	msg, err := a.store.UpdateSentiment(ctx, messageID, label)
	if errors.Is(err, domain.ErrMessageNotFound) {
		metrics.SentimentUpdatesDropped.Inc()
		slog.Debug("Message gone before sentiment update, skipping", "message_id", messageID)
		return
	}
	if err != nil {
		slog.Error("Failed to update sentiment", "message_id", messageID, "error", err)
		return
	}

	metrics.SentimentLabelsTotal.WithLabelValues(string(label)).Inc()
	a.broadcaster.Broadcast(domain.NewSentimentUpdateEvent(msg.ID, msg.Sentiment))
}

// Stop abandons pending tasks and waits for in-flight ones to finish.
func (a *Analyzer) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
	})
	a.wg.Wait()
}
