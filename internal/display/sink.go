//go:generate mockgen -source=sink.go -destination=mock_sink.go -package=display

// Package display defines the event sink the game publishes to and the
// sinks shipped with trio.
//
// A sink is a pure consumer: it never feeds information back into the game,
// and implementations must not block for long because they are called from
// the dealer and player goroutines, sometimes while the board lock is held.
package display

import "time"

// Sink receives every user-visible change in the game.
type Sink interface {
	// SetCountdown shows the remaining turn time (countdown mode) or the
	// elapsed time (elapsed mode). warn is set near expiry.
	SetCountdown(d time.Duration, warn bool)

	PlaceItem(item, slot int)
	RemoveItem(slot int)
	PlaceToken(player, slot int)
	RemoveToken(player, slot int)

	SetScore(player, score int)

	// SetFreeze shows how long the player remains frozen. Zero clears it.
	SetFreeze(player int, d time.Duration)

	AnnounceWinners(players []int)
}

// Nop discards every event.
type Nop struct{}

func (Nop) SetCountdown(time.Duration, bool) {}
func (Nop) PlaceItem(int, int)                {}
func (Nop) RemoveItem(int)                    {}
func (Nop) PlaceToken(int, int)               {}
func (Nop) RemoveToken(int, int)              {}
func (Nop) SetScore(int, int)                 {}
func (Nop) SetFreeze(int, time.Duration)      {}
func (Nop) AnnounceWinners([]int)             {}

// Multi fans every event out to each sink in order.
type Multi []Sink

// NewMulti builds a fan-out sink, skipping nil entries.
func NewMulti(sinks ...Sink) Multi {
	out := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m Multi) SetCountdown(d time.Duration, warn bool) {
	for _, s := range m {
		s.SetCountdown(d, warn)
	}
}

func (m Multi) PlaceItem(item, slot int) {
	for _, s := range m {
		s.PlaceItem(item, slot)
	}
}

func (m Multi) RemoveItem(slot int) {
	for _, s := range m {
		s.RemoveItem(slot)
	}
}

func (m Multi) PlaceToken(player, slot int) {
	for _, s := range m {
		s.PlaceToken(player, slot)
	}
}

func (m Multi) RemoveToken(player, slot int) {
	for _, s := range m {
		s.RemoveToken(player, slot)
	}
}

func (m Multi) SetScore(player, score int) {
	for _, s := range m {
		s.SetScore(player, score)
	}
}

func (m Multi) SetFreeze(player int, d time.Duration) {
	for _, s := range m {
		s.SetFreeze(player, d)
	}
}

func (m Multi) AnnounceWinners(players []int) {
	for _, s := range m {
		s.AnnounceWinners(players)
	}
}
