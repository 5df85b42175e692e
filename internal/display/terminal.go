package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Terminal renders events as coloured lines. Countdown updates are throttled
// to one line per displayed second; everything else is printed as it happens.
type Terminal struct {
	mu       sync.Mutex
	w        io.Writer
	names    []string
	verbose  bool
	lastTick int64

	warn   *color.Color
	score  *color.Color
	freeze *color.Color
	winner *color.Color
}

// NewTerminal creates a terminal sink. names maps player ids to display names;
// missing names fall back to "player N". When verbose is false, token and item
// movements are not printed.
func NewTerminal(w io.Writer, names []string, verbose bool) *Terminal {
	return &Terminal{
		w:        w,
		names:    names,
		verbose:  verbose,
		lastTick: -1,
		warn:     color.New(color.FgRed, color.Bold),
		score:    color.New(color.FgGreen),
		freeze:   color.New(color.FgYellow),
		winner:   color.New(color.FgCyan, color.Bold),
	}
}

func (t *Terminal) name(player int) string {
	if player >= 0 && player < len(t.names) && t.names[player] != "" {
		return t.names[player]
	}
	return fmt.Sprintf("player %d", player)
}

// ceilSeconds rounds d up to whole seconds for display.
func ceilSeconds(d time.Duration) int64 {
	return int64((d + time.Second - 1) / time.Second)
}

func (t *Terminal) SetCountdown(d time.Duration, warn bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	secs := ceilSeconds(d)
	if secs == t.lastTick {
		return
	}
	t.lastTick = secs

	if warn {
		t.warn.Fprintf(t.w, "⏱  %ds\n", secs)
		return
	}
	fmt.Fprintf(t.w, "⏱  %ds\n", secs)
}

func (t *Terminal) PlaceItem(item, slot int) {
	if !t.verbose {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "  slot %2d <- item %d\n", slot, item)
}

func (t *Terminal) RemoveItem(slot int) {
	if !t.verbose {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "  slot %2d cleared\n", slot)
}

func (t *Terminal) PlaceToken(player, slot int) {
	if !t.verbose {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "  %s marks slot %d\n", t.name(player), slot)
}

func (t *Terminal) RemoveToken(player, slot int) {
	if !t.verbose {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "  %s unmarks slot %d\n", t.name(player), slot)
}

func (t *Terminal) SetScore(player, score int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.score.Fprintf(t.w, "★ %s scores (%d)\n", t.name(player), score)
}

func (t *Terminal) SetFreeze(player int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d <= 0 {
		fmt.Fprintf(t.w, "  %s may play again\n", t.name(player))
		return
	}
	t.freeze.Fprintf(t.w, "  %s frozen %ds\n", t.name(player), ceilSeconds(d))
}

func (t *Terminal) AnnounceWinners(players []int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = t.name(p)
	}
	switch len(names) {
	case 0:
		t.winner.Fprintf(t.w, "Game over: no winner\n")
	case 1:
		t.winner.Fprintf(t.w, "Game over: %s wins!\n", names[0])
	default:
		t.winner.Fprintf(t.w, "Game over: it's a tie between %s\n", strings.Join(names, ", "))
	}
}
