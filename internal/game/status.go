// Package game runs one table: a dealer goroutine, one goroutine per player
// and the claim queue connecting them.
package game

// Status is where a player stands in the claim/verdict cycle.
type Status int32

const (
	// StatusNormal accepts input.
	StatusNormal Status = iota
	// StatusScored is set by the dealer on a valid claim; the player freezes
	// for the scored delay.
	StatusScored
	// StatusPenalized is set by the dealer on an invalid claim; the player
	// freezes for the penalty delay.
	StatusPenalized
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusScored:
		return "scored"
	case StatusPenalized:
		return "penalized"
	default:
		return "unknown"
	}
}
