package game

import (
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dyluth/trio/internal/board"
)

// Player is one seat at the table. Its goroutine drains the intake queue,
// toggles tokens on the board and, once it holds a full set, submits a claim
// and waits for the dealer's verdict.
//
// A computer player additionally runs a generator goroutine that feeds random
// slots into the same intake queue a human's key presses go through.
type Player struct {
	id    int
	name  string
	human bool

	table *Dealer
	rng   *rand.Rand // generator goroutine only

	intake  chan int
	verdict chan struct{}

	done      chan struct{}
	stopped   chan struct{}
	stopOnce  sync.Once
	startOnce sync.Once
	wg        sync.WaitGroup

	status     atomic.Int32
	score      atomic.Int64
	blockInput atomic.Bool
}

func newPlayer(table *Dealer, id int, name string, human bool, seed uint64) *Player {
	return &Player{
		id:      id,
		name:    name,
		human:   human,
		table:   table,
		rng:     rand.New(rand.NewPCG(seed, uint64(id))),
		intake:  make(chan int, table.setSize),
		verdict: make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// ID returns the player's seat number.
func (p *Player) ID() int { return p.id }

// Name returns the configured display name.
func (p *Player) Name() string { return p.name }

// Human reports whether the player is driven by external input.
func (p *Player) Human() bool { return p.human }

// Status returns the player's current status.
func (p *Player) Status() Status { return Status(p.status.Load()) }

// Score returns how many sets the player has claimed.
func (p *Player) Score() int { return int(p.score.Load()) }

func (p *Player) setStatus(s Status) { p.status.Store(int32(s)) }

// KeyPressed offers slot as the player's next selection. The selection is
// silently dropped unless the slot holds an item, the intake has room, the
// player is Normal and not awaiting a verdict, and the board is ready.
// Returns whether it was queued.
func (p *Player) KeyPressed(slot int) bool {
	if !p.accepting(slot) {
		return false
	}
	select {
	case p.intake <- slot:
		return true
	default:
		return false
	}
}

func (p *Player) accepting(slot int) bool {
	if p.Status() != StatusNormal || p.blockInput.Load() || !p.table.board.Ready() {
		return false
	}
	_, ok := p.table.board.ItemAt(slot)
	return ok
}

// start launches the player goroutine. Only the first call has any effect,
// and none once stop has run.
func (p *Player) start() {
	p.startOnce.Do(func() {
		go p.run()
	})
}

// stop closes the player's terminate signal. A player that never started is
// marked stopped immediately.
func (p *Player) stop() {
	p.stopOnce.Do(func() { close(p.done) })
	p.startOnce.Do(func() { close(p.stopped) })
}

// wake delivers a verdict (or a plain wake-up) without blocking.
func (p *Player) wake() {
	select {
	case p.verdict <- struct{}{}:
	default:
	}
}

// join blocks until the player goroutine has exited, logging every retry
// interval while it waits.
func (p *Player) join(retry time.Duration) {
	for {
		select {
		case <-p.stopped:
			return
		case <-time.After(retry):
			log.Printf("[WARN] [Player %d] Still running after %v, waiting to join", p.id, retry)
			p.wake()
		}
	}
}

// Stopped is closed once the player goroutine has exited.
func (p *Player) Stopped() <-chan struct{} { return p.stopped }

// drainIntake discards every queued selection.
func (p *Player) drainIntake() {
	for {
		select {
		case <-p.intake:
		default:
			return
		}
	}
}

// reset returns the player to a clean Normal state for a fresh board.
func (p *Player) reset() {
	p.drainIntake()
	p.setStatus(StatusNormal)
	p.blockInput.Store(false)
}

func (p *Player) run() {
	defer close(p.stopped)

	log.Printf("[DEBUG] [Player %d] Starting (%s)", p.id, p.kind())
	defer log.Printf("[DEBUG] [Player %d] Exited cleanly", p.id)

	if !p.human {
		p.wg.Add(1)
		go p.generate()
		defer p.wg.Wait()
	}

	for !p.terminating() {
		if st := p.Status(); st != StatusNormal {
			p.freeze(st)
			continue
		}

		select {
		case <-p.done:
			return
		case slot := <-p.intake:
			p.handle(slot)
		case <-p.verdict:
			// Stray wake; re-check status.
		}
	}
}

func (p *Player) kind() string {
	if p.human {
		return "human"
	}
	return "computer"
}

func (p *Player) terminating() bool {
	select {
	case <-p.done:
		return true
	default:
		return p.table.terminated()
	}
}

// handle toggles slot and submits a claim when that completes a set.
func (p *Player) handle(slot int) {
	k := p.table.setSize
	count, result := p.table.board.Toggle(p.id, slot, k)

	switch result {
	case board.ToggleRemoved:
		p.setStatus(StatusNormal)
		p.blockInput.Store(false)
	case board.TogglePlaced:
		if count == k {
			p.blockInput.Store(true)
			if p.Status() != StatusPenalized {
				p.claim()
			}
		}
	}
}

// claim queues the player for a verdict and blocks until the dealer answers
// or the game terminates.
func (p *Player) claim() {
	// Anything already in verdict predates this claim.
	select {
	case <-p.verdict:
	default:
	}

	if !p.table.claims.Push(p.id) {
		log.Printf("[WARN] [Player %d] Claim already pending", p.id)
		return
	}
	p.table.signal()

	select {
	case <-p.verdict:
	case <-p.done:
		return
	}
	p.blockInput.Store(false)
}

// freeze holds the player out of play for the delay matching st, publishing
// the remaining time once per whole second.
func (p *Player) freeze(st Status) {
	delay := p.table.timing.ScoredFreeze
	if st == StatusPenalized {
		delay = p.table.timing.PenaltyFreeze
	}

	deadline := time.Now().Add(delay)
	for remaining := time.Until(deadline); remaining > 0; remaining = time.Until(deadline) {
		shown := remaining.Truncate(time.Second)
		if shown < remaining {
			shown += time.Second
		}
		p.table.sink.SetFreeze(p.id, shown)

		// Wake again when the displayed second changes.
		timer := time.NewTimer(remaining - (shown - time.Second))
		select {
		case <-p.done:
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	p.table.sink.SetFreeze(p.id, 0)
	p.setStatus(StatusNormal)
	p.blockInput.Store(false)
}

// generate feeds random slots to a computer player until it terminates.
// Every offer goes through KeyPressed, so the gates are checked at the moment
// the slot is queued. A refused offer (frozen, full intake, board not ready)
// backs off for one interval.
func (p *Player) generate() {
	defer p.wg.Done()

	slots := p.table.board.Layout().Slots
	interval := p.table.timing.GeneratorInterval

	for {
		if p.KeyPressed(p.rng.IntN(slots)) {
			select {
			case <-p.done:
				return
			default:
			}
			continue
		}

		select {
		case <-p.done:
			return
		case <-time.After(interval):
		}
	}
}
