package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
)

const (
	sequenceKey   = "chat:message:seq"
	indexKey      = "chat:messages"
	messagePrefix = "chat:message:"
)

// Store implements domain.MessageStore on Redis.
type Store struct {
	rdb   *goredis.Client
	clock clockwork.Clock
}

var _ domain.MessageStore = (*Store)(nil)

func New(rdb *goredis.Client, clock clockwork.Clock) *Store {
	return &Store{rdb: rdb, clock: clock}
}

func messageKey(id int64) string {
	return fmt.Sprintf("%s%d", messagePrefix, id)
}

func (s *Store) Create(ctx context.Context, userID, username, text string) (domain.Message, error) {
	id, err := s.rdb.Incr(ctx, sequenceKey).Result()
	if err != nil {
		return domain.Message{}, fmt.Errorf("failed to allocate message id: %w", err)
	}

	msg := domain.Message{
		ID:        id,
		UserID:    userID,
		Username:  username,
		Text:      text,
		Sentiment: domain.SentimentPending,
		CreatedAt: s.clock.Now().UTC(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return domain.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, messageKey(id), payload, 0)
	pipe.ZAdd(ctx, indexKey, goredis.Z{Score: float64(id), Member: id})
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Message{}, fmt.Errorf("failed to store message: %w", err)
	}

	return msg, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Message, error) {
	ids, err := s.rdb.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list message ids: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Message{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = messagePrefix + id
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	messages := make([]domain.Message, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Index entry without a message key; tolerate and move on.
			slog.Warn("Missing message payload for indexed id", "key", keys[i])
			continue
		}
		var msg domain.Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			slog.Warn("Skipping corrupt message payload", "key", keys[i], "error", err)
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

func (s *Store) UpdateSentiment(ctx context.Context, id int64, sentiment domain.Sentiment) (domain.Message, error) {
	raw, err := s.rdb.Get(ctx, messageKey(id)).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.Message{}, domain.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("failed to load message %d: %w", id, err)
	}

	var msg domain.Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return domain.Message{}, fmt.Errorf("failed to unmarshal message %d: %w", id, err)
	}

	msg.Sentiment = sentiment

	payload, err := json.Marshal(msg)
	if err != nil {
		return domain.Message{}, fmt.Errorf("failed to marshal message %d: %w", id, err)
	}
	if err := s.rdb.Set(ctx, messageKey(id), payload, 0).Err(); err != nil {
		return domain.Message{}, fmt.Errorf("failed to update message %d: %w", id, err)
	}

	return msg, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
