package store

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
)

// MemoryStore keeps the full message history in process memory. IDs are
// assigned under the lock, so id order is creation order even when two
// messages land on the same clock tick.
type MemoryStore struct {
	mu       sync.RWMutex
	clock    clockwork.Clock
	nextID   int64
	messages []domain.Message
	index    map[int64]int
}

var _ domain.MessageStore = (*MemoryStore)(nil)

func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{
		clock:  clock,
		nextID: 1,
		index:  make(map[int64]int),
	}
}

func (s *MemoryStore) Create(_ context.Context, userID, username, text string) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := domain.Message{
		ID:        s.nextID,
		UserID:    userID,
		Username:  username,
		Text:      text,
		Sentiment: domain.SentimentPending,
		CreatedAt: s.clock.Now().UTC(),
	}
	s.nextID++

	s.index[msg.ID] = len(s.messages)
	s.messages = append(s.messages, msg)

	return msg, nil
}

func (s *MemoryStore) List(_ context.Context) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

func (s *MemoryStore) UpdateSentiment(_ context.Context, id int64, sentiment domain.Sentiment) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Message{}, domain.ErrMessageNotFound
	}

	s.messages[i].Sentiment = sentiment
	return s.messages[i], nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
