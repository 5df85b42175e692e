package commands

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dyluth/trio/internal/watch"
	"github.com/dyluth/trio/pkg/scoreboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamGame_UntilOver(t *testing.T) {
	out, _ := capturePrinter(t)
	_, client := startRedis(t, "g")
	ctx := context.Background()
	require.NoError(t, client.SetPlayerNames(ctx, []string{"alice", "bob"}))

	// Keep announcing until the watcher has subscribed and seen it.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e := scoreboard.NewEvent(scoreboard.EventWinners)
				e.Winners = []int{1}
				_ = client.Publish(ctx, e)
			}
		}
	}()

	buf := &bytes.Buffer{}
	done := make(chan error, 1)
	go func() {
		done <- streamGame(ctx, client, watch.OutputFormatDefault, true, buf)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop at game over")
	}
	assert.Contains(t, buf.String(), "Game over: winners=[bob]")
	assert.Contains(t, out.String(), "Watching game 'g'")
}

func TestRunWatch_RejectsUnknownFormat(t *testing.T) {
	_, errOut := capturePrinter(t)
	prev := watchOutputFormat
	watchOutputFormat = "xml"
	t.Cleanup(func() { watchOutputFormat = prev })

	err := runWatch(watchCmd, nil)
	assert.EqualError(t, err, "invalid output format")
	assert.Contains(t, errOut.String(), "default, json")
}
