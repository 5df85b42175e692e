package watch

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/trio/pkg/scoreboard"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T) *scoreboard.Client {
	mr := miniredis.RunT(t)
	client, err := scoreboard.NewClient(&redis.Options{Addr: mr.Addr()}, "test-game")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestParseOutputFormat(t *testing.T) {
	f, err := ParseOutputFormat("json")
	require.NoError(t, err)
	assert.Equal(t, OutputFormatJSON, f)

	_, err = ParseOutputFormat("xml")
	assert.ErrorContains(t, err, "unknown format: xml")
}

func TestFormatters(t *testing.T) {
	names := map[int]string{0: "alice"}

	t.Run("defaultFormatter formats every event type", func(t *testing.T) {
		tests := []struct {
			build func() *scoreboard.Event
			want  string
		}{
			{func() *scoreboard.Event {
				e := scoreboard.NewEvent(scoreboard.EventCountdown)
				e.Millis, e.Warn = 4200, true
				return e
			}, "Countdown: 5s ⚠️"},
			{func() *scoreboard.Event {
				e := scoreboard.NewEvent(scoreboard.EventItemPlaced)
				e.Slot, e.Item = 3, 40
				return e
			}, "Dealt: slot=3 item=40"},
			{func() *scoreboard.Event {
				e := scoreboard.NewEvent(scoreboard.EventItemRemoved)
				e.Slot = 3
				return e
			}, "Cleared: slot=3"},
			{func() *scoreboard.Event {
				e := scoreboard.NewEvent(scoreboard.EventTokenPlaced)
				e.Player, e.Slot = 0, 7
				return e
			}, "Token placed: player=alice slot=7"},
			{func() *scoreboard.Event {
				e := scoreboard.NewEvent(scoreboard.EventTokenRemoved)
				e.Player, e.Slot = 2, 7
				return e
			}, "Token removed: player=player 2 slot=7"},
			{func() *scoreboard.Event {
				e := scoreboard.NewEvent(scoreboard.EventScore)
				e.Player, e.Score = 0, 4
				return e
			}, "Scored: player=alice score=4"},
			{func() *scoreboard.Event {
				e := scoreboard.NewEvent(scoreboard.EventFreeze)
				e.Player, e.Millis = 0, 3000
				return e
			}, "Frozen: player=alice remaining=3s"},
			{func() *scoreboard.Event {
				e := scoreboard.NewEvent(scoreboard.EventFreeze)
				e.Player = 0
				return e
			}, "Unfrozen: player=alice"},
			{func() *scoreboard.Event {
				e := scoreboard.NewEvent(scoreboard.EventWinners)
				e.Winners = []int{0, 1}
				return e
			}, "Game over: winners=[alice player 1]"},
		}

		for _, tt := range tests {
			buf := &bytes.Buffer{}
			f := newFormatter(OutputFormatDefault, buf, names)
			require.NoError(t, f.Format(tt.build()))
			assert.Contains(t, buf.String(), tt.want)
		}
	})

	t.Run("jsonFormatter writes one object per line", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := newFormatter(OutputFormatJSON, buf, nil)

		e := scoreboard.NewEvent(scoreboard.EventScore)
		e.Player, e.Score = 1, 2
		require.NoError(t, f.Format(e))
		require.NoError(t, f.Format(e))

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)
		assert.Contains(t, string(lines[0]), `"type":"score"`)
		assert.Contains(t, string(lines[0]), `"score":2`)
	})
}

func TestStreamEvents_StopsAtGameOver(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	sub, err := client.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	score := scoreboard.NewEvent(scoreboard.EventScore)
	score.Player, score.Score = 0, 1
	require.NoError(t, client.Publish(ctx, score))
	over := scoreboard.NewEvent(scoreboard.EventWinners)
	over.Winners = []int{0}
	require.NoError(t, client.Publish(ctx, over))

	buf := &bytes.Buffer{}
	done := make(chan error, 1)
	go func() {
		done <- StreamEvents(ctx, sub, map[int]string{0: "alice"}, OutputFormatDefault, true, buf)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop at the winners event")
	}
	assert.Contains(t, buf.String(), "Scored: player=alice score=1")
	assert.Contains(t, buf.String(), "Game over: winners=[alice]")
}

func TestStreamEvents_StopsOnCancel(t *testing.T) {
	client := setupTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := client.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	done := make(chan error, 1)
	go func() {
		done <- StreamEvents(ctx, sub, nil, OutputFormatJSON, false, &bytes.Buffer{})
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stream ignored cancellation")
	}
}

func TestPollForWinners(t *testing.T) {
	t.Run("returns winners once recorded", func(t *testing.T) {
		client := setupTestClient(t)
		ctx := context.Background()

		go func() {
			time.Sleep(300 * time.Millisecond)
			_ = client.SetWinners(ctx, []int{2})
		}()

		winners, err := PollForWinners(ctx, client, 2*time.Second)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, winners)
	})

	t.Run("times out while the game runs", func(t *testing.T) {
		client := setupTestClient(t)

		_, err := PollForWinners(context.Background(), client, 300*time.Millisecond)
		assert.ErrorContains(t, err, "timeout waiting for the game to finish")
	})

	t.Run("honours cancellation", func(t *testing.T) {
		client := setupTestClient(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := PollForWinners(ctx, client, time.Second)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
