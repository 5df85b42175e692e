// Package watch follows a published game from the scoreboard.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dyluth/trio/pkg/scoreboard"
)

// OutputFormat selects how events are printed.
type OutputFormat string

const (
	OutputFormatDefault OutputFormat = "default"
	OutputFormatJSON    OutputFormat = "json"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatDefault, OutputFormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

type formatter interface {
	Format(e *scoreboard.Event) error
}

func newFormatter(format OutputFormat, w io.Writer, names map[int]string) formatter {
	if format == OutputFormatJSON {
		return &jsonFormatter{encoder: json.NewEncoder(w)}
	}
	return &defaultFormatter{writer: w, names: names}
}

// defaultFormatter prints one human-readable line per event.
type defaultFormatter struct {
	writer io.Writer
	names  map[int]string
}

func (f *defaultFormatter) name(player int) string {
	if name, ok := f.names[player]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("player %d", player)
}

func (f *defaultFormatter) Format(e *scoreboard.Event) error {
	ts := time.UnixMilli(e.AtMs).Format("15:04:05")

	var line string
	switch e.Type {
	case scoreboard.EventCountdown:
		warn := ""
		if e.Warn {
			warn = " ⚠️"
		}
		line = fmt.Sprintf("⏱  Countdown: %ds%s", (e.Millis+999)/1000, warn)
	case scoreboard.EventItemPlaced:
		line = fmt.Sprintf("🃏 Dealt: slot=%d item=%d", e.Slot, e.Item)
	case scoreboard.EventItemRemoved:
		line = fmt.Sprintf("🧹 Cleared: slot=%d", e.Slot)
	case scoreboard.EventTokenPlaced:
		line = fmt.Sprintf("👉 Token placed: player=%s slot=%d", f.name(e.Player), e.Slot)
	case scoreboard.EventTokenRemoved:
		line = fmt.Sprintf("👈 Token removed: player=%s slot=%d", f.name(e.Player), e.Slot)
	case scoreboard.EventScore:
		line = fmt.Sprintf("★ Scored: player=%s score=%d", f.name(e.Player), e.Score)
	case scoreboard.EventFreeze:
		if e.Millis == 0 {
			line = fmt.Sprintf("▶️  Unfrozen: player=%s", f.name(e.Player))
		} else {
			line = fmt.Sprintf("❄️  Frozen: player=%s remaining=%ds", f.name(e.Player), (e.Millis+999)/1000)
		}
	case scoreboard.EventWinners:
		winners := make([]string, 0, len(e.Winners))
		for _, p := range e.Winners {
			winners = append(winners, f.name(p))
		}
		line = fmt.Sprintf("🎉 Game over: winners=%v", winners)
	default:
		line = fmt.Sprintf("Unknown event: type=%s", e.Type)
	}

	_, err := fmt.Fprintf(f.writer, "[%s] %s\n", ts, line)
	return err
}

// jsonFormatter prints line-delimited JSON, one event per line.
type jsonFormatter struct {
	encoder *json.Encoder
}

func (f *jsonFormatter) Format(e *scoreboard.Event) error {
	return f.encoder.Encode(e)
}

// StreamEvents prints every event received on sub until ctx is cancelled,
// the subscription closes, or, when untilOver is set, the winners event
// arrives.
func StreamEvents(ctx context.Context, sub *scoreboard.Subscription, names map[int]string, format OutputFormat, untilOver bool, w io.Writer) error {
	f := newFormatter(format, w, names)
	errs := sub.Errors()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := f.Format(e); err != nil {
				return fmt.Errorf("failed to write event: %w", err)
			}
			if untilOver && e.Type == scoreboard.EventWinners {
				return nil
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Printf("[WARN] Skipping bad event: %v", err)
		}
	}
}

// PollForWinners polls the scoreboard until the game records its winners.
// Polls every 200ms for up to timeout.
func PollForWinners(ctx context.Context, client *scoreboard.Client, timeout time.Duration) ([]int, error) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	timeoutCh := time.After(timeout)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timeoutCh:
			return nil, fmt.Errorf("timeout waiting for the game to finish after %v", timeout)

		case <-ticker.C:
			winners, err := client.Winners(ctx)
			if err != nil {
				if scoreboard.IsNotFound(err) {
					continue
				}
				return nil, fmt.Errorf("failed to query winners: %w", err)
			}
			return winners, nil
		}
	}
}
