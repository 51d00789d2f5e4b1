package database

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
)

var (
	testPool        *pgxpool.Pool
	testDatabaseURL string
)

func TestMain(m *testing.M) {
	// Parse flags to check for -short
	flag.Parse()

	// Skip container setup if running in short mode
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to terminate postgres container: %v\n", err)
		}
	}()

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get connection string: %v\n", err)
		os.Exit(1)
	}
	testDatabaseURL = connStr

	testPool, err = Connect(ctx, testDatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to test database: %v\n", err)
		os.Exit(1)
	}
	defer testPool.Close()

	if err := RunMigrations(ctx, testPool); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupTestStore returns a store on the shared pool and registers cleanup to
// truncate the messages table.
func setupTestStore(t *testing.T) *MessageStore {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Cleanup(func() {
		ctx := context.Background()
		if _, err := testPool.Exec(ctx, "TRUNCATE messages RESTART IDENTITY"); err != nil {
			t.Logf("Failed to truncate messages: %v", err)
		}
	})

	return NewMessageStore(testPool, clockwork.NewRealClock())
}

func TestConnect_InvalidURL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	_, err := Connect(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	require.NoError(t, RunMigrations(context.Background(), testPool))
	require.NoError(t, RunMigrations(context.Background(), testPool))
}

func TestMessageStore_CreateAssignsIncreasingIDs(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, "u1", "alice", "hello")
	require.NoError(t, err)
	second, err := store.Create(ctx, "u2", "bob", "hi")
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, domain.SentimentPending, first.Sentiment)
	assert.Equal(t, "alice", first.Username)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestMessageStore_ListReturnsCreationOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	texts := []string{"one", "two", "three"}
	for _, text := range texts {
		_, err := store.Create(ctx, "u1", "alice", text)
		require.NoError(t, err)
	}

	messages, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, messages, len(texts))
	for i, msg := range messages {
		assert.Equal(t, texts[i], msg.Text)
		if i > 0 {
			assert.Greater(t, msg.ID, messages[i-1].ID)
		}
	}
}

func TestMessageStore_ListEmpty(t *testing.T) {
	store := setupTestStore(t)

	messages, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMessageStore_UpdateSentiment(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	msg, err := store.Create(ctx, "u1", "alice", "this is terrible")
	require.NoError(t, err)

	updated, err := store.UpdateSentiment(ctx, msg.ID, domain.SentimentNegative)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, updated.ID)
	assert.Equal(t, domain.SentimentNegative, updated.Sentiment)

	messages, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, domain.SentimentNegative, messages[0].Sentiment)
}

func TestMessageStore_UpdateSentimentMissingMessage(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.UpdateSentiment(context.Background(), 424242, domain.SentimentPositive)
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}
