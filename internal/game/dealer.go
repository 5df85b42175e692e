package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dyluth/trio/internal/board"
	"github.com/dyluth/trio/internal/config"
	"github.com/dyluth/trio/internal/display"
	"github.com/dyluth/trio/internal/oracle"
)

// Options tune a Dealer beyond what the configuration file covers.
type Options struct {
	Game string // name used in log events
	Seed uint64 // 0 = seeded from the clock
}

// Dealer supervises one game. It deals, runs the round timer, resolves claims
// one at a time and, at the end, announces the winners and joins every
// player.
//
// The deck and the round timer belong to the dealer goroutine alone. The
// board is shared with the players.
type Dealer struct {
	game    string
	setSize int
	timing  config.TimingConfig
	hints   bool

	oracle  oracle.Oracle
	sink    display.Sink
	board   *board.Board
	claims  *ClaimQueue
	players []*Player
	rng     *rand.Rand

	deck     []int
	deadline time.Time
	origin   time.Time

	wake      chan struct{}
	terminate atomic.Bool
	joinOnce  sync.Once
	running   atomic.Bool

	mu      sync.Mutex
	winners []int
}

// New builds a dealer, its board and its players from cfg. cfg must already
// be validated.
func New(cfg *config.Config, o oracle.Oracle, sink display.Sink, opts Options) (*Dealer, error) {
	if o == nil {
		return nil, errors.New("oracle is required")
	}
	if sink == nil {
		sink = display.Nop{}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	b, err := board.New(board.Layout{
		Slots:          cfg.Table.Slots,
		Items:          cfg.Table.DeckSize,
		Players:        len(cfg.Players),
		PlacementDelay: cfg.Timing.PlacementDelay,
	}, sink)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	d := &Dealer{
		game:    opts.Game,
		setSize: cfg.Table.SetSize,
		timing:  cfg.Timing,
		hints:   cfg.Table.Hints,
		oracle:  o,
		sink:    sink,
		board:   b,
		claims:  NewClaimQueue(),
		rng:     rand.New(rand.NewPCG(seed, seed>>1)),
		deck:    make([]int, cfg.Table.DeckSize),
		wake:    make(chan struct{}, 1),
	}
	for i := range d.deck {
		d.deck[i] = i
	}
	for i, pc := range cfg.Players {
		d.players = append(d.players, newPlayer(d, i, pc.Name, pc.Human, d.rng.Uint64()))
	}

	return d, nil
}

// Board returns the shared board.
func (d *Dealer) Board() *board.Board { return d.board }

// Claims returns the claim queue.
func (d *Dealer) Claims() *ClaimQueue { return d.claims }

// Players returns every player in seat order.
func (d *Dealer) Players() []*Player { return d.players }

// Player returns the player in seat id.
func (d *Dealer) Player(id int) (*Player, bool) {
	if id < 0 || id >= len(d.players) {
		return nil, false
	}
	return d.players[id], true
}

// Winners returns the players announced as winners, or nil while the game is
// still running.
func (d *Dealer) Winners() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.winners)
}

// Run plays the game until no set remains in the unclaimed items or until
// ctx is cancelled or Terminate is called. Every player goroutine has been
// joined by the time it returns.
func (d *Dealer) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("dealer already running")
	}

	log.Printf("[INFO] [Dealer] Starting game '%s' with %d players", d.game, len(d.players))
	for _, p := range d.players {
		p.start()
	}
	stop := context.AfterFunc(ctx, d.Terminate)
	defer stop()

	for !d.terminated() && d.poolHasSet() {
		d.deal()
		d.runTimer()
		d.clearBoard()
	}

	d.Terminate()
	d.announceWinners()
	log.Printf("[INFO] [Dealer] Game '%s' finished", d.game)
	return nil
}

// Terminate stops the game: the dealer loop unwinds at its next check and
// every player is woken, stopped and joined in reverse seat order. Safe to
// call more than once and from any goroutine; later callers block until the
// first has joined everyone.
func (d *Dealer) Terminate() {
	d.terminate.Store(true)
	d.signal()

	d.joinOnce.Do(func() {
		for i := len(d.players) - 1; i >= 0; i-- {
			p := d.players[i]
			p.wake()
			p.stop()
			p.join(d.timing.JoinRetry)
		}
		log.Printf("[INFO] [Dealer] All players joined")
	})
}

func (d *Dealer) terminated() bool {
	return d.terminate.Load()
}

// signal wakes the dealer without blocking. A wake sent while the dealer is
// busy is kept for its next wait.
func (d *Dealer) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// poolHasSet reports whether any set exists among the unclaimed items, on
// the board or not.
func (d *Dealer) poolHasSet() bool {
	pool := append(d.board.Snapshot(), d.deck...)
	return len(d.oracle.FindSets(pool, 1)) > 0
}

func (d *Dealer) boardHasSet() bool {
	return len(d.oracle.FindSets(d.board.Snapshot(), 1)) > 0
}

// deal shuffles the deck and the empty slots, fills the board and restarts
// the round timer.
func (d *Dealer) deal() {
	d.board.SetReady(false)
	d.rng.Shuffle(len(d.deck), func(i, j int) { d.deck[i], d.deck[j] = d.deck[j], d.deck[i] })
	d.board.ShuffleEmpty(d.rng)
	d.fill()
	d.resetTimer()
	d.board.SetReady(true)

	d.logEvent("round_dealt", map[string]interface{}{
		"on_board":  d.board.CountItems(),
		"remaining": len(d.deck),
	})

	if d.hints {
		for _, h := range d.board.Hints(d.oracle) {
			log.Printf("[INFO] [Dealer] Hint: slots %v features %v", h.Slots, h.Features)
		}
	}
}

// fill places deck items into every empty slot it can.
func (d *Dealer) fill() {
	n := min(d.board.EmptySlots(), len(d.deck))
	if n == 0 {
		return
	}
	placed := d.board.Fill(d.deck[:n])
	d.deck = d.deck[placed:]
}

// refill tops the board up after a successful claim.
func (d *Dealer) refill() {
	if d.board.EmptySlots() == 0 || len(d.deck) == 0 {
		return
	}
	d.board.SetReady(false)
	d.fill()
	d.board.SetReady(true)
}

func (d *Dealer) resetTimer() {
	now := time.Now()
	d.origin = now
	d.deadline = now.Add(d.timing.TurnTimeout)
	d.updateCountdown()
}

func (d *Dealer) updateCountdown() {
	switch timeout := d.timing.TurnTimeout; {
	case timeout > 0:
		remaining := max(time.Until(d.deadline), 0)
		d.sink.SetCountdown(remaining, remaining <= d.timing.TurnWarning)
	case timeout == 0:
		d.sink.SetCountdown(time.Since(d.origin), false)
	}
}

// runTimer is the body of a round: wait for a tick or a claim, refresh the
// countdown, resolve at most one claim, top the board up. It returns when the
// deadline passes, when no set can be made any more, or on terminate.
func (d *Dealer) runTimer() {
	ticker := time.NewTicker(d.timing.DealerTick)
	defer ticker.Stop()

	timeout := d.timing.TurnTimeout
	for !d.terminated() {
		if timeout > 0 && !time.Now().Before(d.deadline) {
			d.logEvent("round_expired", map[string]interface{}{})
			return
		}

		select {
		case <-d.wake:
		case <-ticker.C:
		}
		if d.terminated() {
			return
		}

		d.updateCountdown()
		scored := d.resolveClaim()
		d.refill()

		if scored && !d.poolHasSet() {
			d.logEvent("pool_exhausted", map[string]interface{}{})
			return
		}
		if timeout <= 0 && !d.boardHasSet() {
			d.logEvent("board_exhausted", map[string]interface{}{})
			return
		}
	}
}

// resolveClaim pops one claim and delivers its verdict. A claim whose token
// set is no longer full is stale: the claimant's intake is discarded and it
// is woken with its status untouched. Returns whether a set was scored.
func (d *Dealer) resolveClaim() bool {
	id, ok := d.claims.Pop()
	if !ok {
		return false
	}
	p := d.players[id]

	items, slots := d.board.Selection(id)
	if len(items) != d.setSize {
		p.drainIntake()
		p.wake()
		d.logEvent("claim_stale", map[string]interface{}{
			"player": id,
			"tokens": len(items),
		})
		return false
	}

	if !d.oracle.IsValidSet(items) {
		p.setStatus(StatusPenalized)
		p.wake()
		d.logEvent("claim_penalized", map[string]interface{}{
			"player": id,
			"slots":  slots,
			"items":  items,
		})
		return false
	}

	d.board.SetReady(false)
	for _, slot := range slots {
		d.board.RemoveItem(slot)
	}
	d.resetTimer()
	d.board.SetReady(true)

	score := int(p.score.Add(1))
	p.setStatus(StatusScored)
	d.sink.SetScore(id, score)
	p.wake()

	d.logEvent("claim_scored", map[string]interface{}{
		"player": id,
		"slots":  slots,
		"items":  items,
		"score":  score,
	})
	return true
}

// clearBoard ends a round: every player is reset, pending claims are
// dropped with their claimants woken, and all placed items go back to the
// deck.
func (d *Dealer) clearBoard() {
	d.board.SetReady(false)

	for _, p := range d.players {
		p.reset()
	}
	for {
		id, ok := d.claims.Pop()
		if !ok {
			break
		}
		d.players[id].wake()
	}

	returned := d.board.Clear()
	d.deck = append(d.deck, returned...)

	d.logEvent("round_cleared", map[string]interface{}{
		"returned":  len(returned),
		"remaining": len(d.deck),
	})
}

// announceWinners publishes every player tied at the top score.
func (d *Dealer) announceWinners() {
	best := -1
	var winners []int
	total := 0
	for _, p := range d.players {
		score := p.Score()
		total += score
		switch {
		case score > best:
			best = score
			winners = []int{p.id}
		case score == best:
			winners = append(winners, p.id)
		}
	}

	d.mu.Lock()
	d.winners = winners
	d.mu.Unlock()

	d.sink.AnnounceWinners(winners)

	onBoard := d.board.CountItems()
	d.logEvent("game_over", map[string]interface{}{
		"winners":     winners,
		"top_score":   best,
		"sets_scored": total,
		"deck_left":   len(d.deck),
		"on_board":    onBoard,
		"accounted":   total*d.setSize+len(d.deck)+onBoard == d.board.Layout().Items,
	})
}

// logEvent logs a structured event in JSON format.
func (d *Dealer) logEvent(eventType string, data map[string]interface{}) {
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	data["level"] = "info"
	data["component"] = "dealer"
	data["event_type"] = eventType
	data["game"] = d.game

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Dealer] Failed to marshal log event: %v", err)
		return
	}

	log.Println(string(jsonData))
}
