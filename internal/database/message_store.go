package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
)

const messageColumns = `id, user_id, username, text, sentiment, created_at`

// MessageStore implements domain.MessageStore backed by PostgreSQL.
type MessageStore struct {
	pool  *pgxpool.Pool
	clock clockwork.Clock
}

var _ domain.MessageStore = (*MessageStore)(nil)

func NewMessageStore(pool *pgxpool.Pool, clock clockwork.Clock) *MessageStore {
	return &MessageStore{pool: pool, clock: clock}
}

func (s *MessageStore) Create(ctx context.Context, userID, username, text string) (domain.Message, error) {
	var msg domain.Message
	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (user_id, username, text, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns,
		userID, username, text, domain.SentimentPending, s.clock.Now().UTC(),
	).Scan(&msg.ID, &msg.UserID, &msg.Username, &msg.Text, &msg.Sentiment, &msg.CreatedAt)

	if err != nil {
		return domain.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}
	return msg, nil
}

func (s *MessageStore) List(ctx context.Context) ([]domain.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Username, &msg.Text, &msg.Sentiment, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return messages, nil
}

func (s *MessageStore) UpdateSentiment(ctx context.Context, id int64, sentiment domain.Sentiment) (domain.Message, error) {
	var msg domain.Message
	err := s.pool.QueryRow(ctx, `
		UPDATE messages
		SET sentiment = $1
		WHERE id = $2
		RETURNING `+messageColumns,
		sentiment, id,
	).Scan(&msg.ID, &msg.UserID, &msg.Username, &msg.Text, &msg.Sentiment, &msg.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Message{}, domain.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("failed to update sentiment for message %d: %w", id, err)
	}

	return msg, nil
}

func (s *MessageStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
