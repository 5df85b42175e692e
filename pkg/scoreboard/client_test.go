package scoreboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient creates a test client connected to a miniredis instance
func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client, err := NewClient(&redis.Options{Addr: mr.Addr()}, "test-game")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestNewClient(t *testing.T) {
	t.Run("creates client successfully", func(t *testing.T) {
		client, _ := setupTestClient(t)
		assert.Equal(t, "test-game", client.InstanceName())
	})

	t.Run("rejects empty instance name", func(t *testing.T) {
		_, err := NewClient(&redis.Options{Addr: "localhost:6379"}, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "instance name cannot be empty")
	})
}

func TestPing(t *testing.T) {
	client, _ := setupTestClient(t)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestScores(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	scores, err := client.Scores(ctx)
	require.NoError(t, err)
	assert.Empty(t, scores)

	require.NoError(t, client.SetScore(ctx, 0, 2))
	require.NoError(t, client.SetScore(ctx, 3, 5))
	require.NoError(t, client.SetScore(ctx, 0, 3))

	scores, err = client.Scores(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 3, 3: 5}, scores)
	assert.Equal(t, "3", mr.HGet(ScoresKey("test-game"), "0"))
}

func TestScores_CorruptValue(t *testing.T) {
	client, mr := setupTestClient(t)
	mr.HSet(ScoresKey("test-game"), "0", "lots")

	_, err := client.Scores(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt value")
}

func TestPlayerNames(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SetPlayerNames(ctx, []string{"alice", "bob"}))
	require.NoError(t, client.SetPlayerNames(ctx, nil))

	names, err := client.PlayerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "alice", 1: "bob"}, names)
}

func TestBoard(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SetSlot(ctx, 0, 17))
	require.NoError(t, client.SetSlot(ctx, 4, 80))
	require.NoError(t, client.ClearSlot(ctx, 0))

	board, err := client.Board(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{4: 80}, board)
}

func TestWinners(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	_, err := client.Winners(ctx)
	assert.True(t, IsNotFound(err), "winners are absent while the game runs")

	require.NoError(t, client.SetWinners(ctx, []int{1, 3}))
	winners, err := client.Winners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, winners)
}

func TestReset(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SetScore(ctx, 0, 1))
	require.NoError(t, client.SetSlot(ctx, 2, 9))
	require.NoError(t, client.SetWinners(ctx, []int{0}))
	require.NoError(t, client.SetPlayerNames(ctx, []string{"alice"}))

	require.NoError(t, client.Reset(ctx))

	assert.False(t, mr.Exists(ScoresKey("test-game")))
	assert.False(t, mr.Exists(BoardKey("test-game")))
	assert.False(t, mr.Exists(WinnersKey("test-game")))
	assert.False(t, mr.Exists(PlayersKey("test-game")))
}

func TestPublish_RejectsInvalidEvent(t *testing.T) {
	client, _ := setupTestClient(t)

	err := client.Publish(context.Background(), &Event{ID: "nope", Type: EventScore})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid event")
}

func TestSubscribe_ReceivesPublishedEvents(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := client.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	e := NewEvent(EventScore)
	e.Player = 1
	e.Score = 4
	require.NoError(t, client.Publish(ctx, e))

	select {
	case got := <-sub.Events():
		require.NotNil(t, got)
		assert.Equal(t, e.ID, got.ID)
		assert.Equal(t, EventScore, got.Type)
		assert.Equal(t, 1, got.Player)
		assert.Equal(t, 4, got.Score)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestSubscribe_CloseStopsDelivery(t *testing.T) {
	client, _ := setupTestClient(t)

	sub, err := client.Subscribe(context.Background())
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close(), "Close is idempotent")

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok, "events channel is closed")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed after Close")
	}
}

func TestSchemaKeys(t *testing.T) {
	assert.Equal(t, "trio:g1:scores", ScoresKey("g1"))
	assert.Equal(t, "trio:g1:players", PlayersKey("g1"))
	assert.Equal(t, "trio:g1:board", BoardKey("g1"))
	assert.Equal(t, "trio:g1:winners", WinnersKey("g1"))
	assert.Equal(t, "trio:g1:events", EventsChannel("g1"))
}
