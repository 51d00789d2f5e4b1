package domain

import (
	"context"
	"time"
)

// Sentiment is the label attached to a message. A message starts out pending
// and transitions to exactly one terminal label once analysis completes.
type Sentiment string

const (
	SentimentPending  Sentiment = "pending"
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Message is a single chat message. IDs are assigned by the store,
// monotonically increasing and never reused; id order is creation order.
type Message struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageStore is the persistence contract for messages. Backends are
// interchangeable (in-memory, Redis, Postgres) as long as Create stamps
// pending sentiment and a fresh id, List returns messages in id order, and
// UpdateSentiment reports ErrMessageNotFound for unknown ids.
type MessageStore interface {
	Create(ctx context.Context, userID, username, text string) (Message, error)
	List(ctx context.Context) ([]Message, error)
	UpdateSentiment(ctx context.Context, id int64, sentiment Sentiment) (Message, error)
	Ping(ctx context.Context) error
}

// Broadcaster delivers an event to every currently connected client.
// Delivery is best-effort; clients that are not writable are skipped.
type Broadcaster interface {
	Broadcast(event Event)
}
