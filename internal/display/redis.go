package display

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dyluth/trio/pkg/scoreboard"
)

// Redis publishes display events to a scoreboard instance.
//
// Sink calls only enqueue; a single publisher goroutine applies events in
// order. When the buffer is full, transient events (countdown, tokens,
// freezes) are dropped and counted. Events that change stored state (items,
// scores, winners) wait up to the publish timeout for room and are only
// dropped after that, so a slow Redis delays the game by a bounded amount
// and an unreachable one cannot stall it.
type Redis struct {
	client  *scoreboard.Client
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	events chan *scoreboard.Event
	done   chan struct{}

	dropped  atomic.Int64
	failed   atomic.Int64
	lastTick atomic.Int64
}

// NewRedis starts a publisher for client with the given queue size.
func NewRedis(client *scoreboard.Client, buffer int) *Redis {
	if buffer < 1 {
		buffer = 1
	}
	r := &Redis{
		client:  client,
		timeout: 2 * time.Second,
		events:  make(chan *scoreboard.Event, buffer),
		done:    make(chan struct{}),
	}
	r.lastTick.Store(-1)

	go r.publish()
	return r
}

// Close stops accepting events, flushes the queue and waits for the publisher.
// Safe to call more than once.
func (r *Redis) Close() error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
	r.mu.Unlock()

	<-r.done
	if n := r.dropped.Load(); n > 0 {
		log.Printf("[WARN] Redis display dropped %d events (queue full)", n)
	}
	return nil
}

// Dropped returns how many events were discarded because the queue was full.
func (r *Redis) Dropped() int64 {
	return r.dropped.Load()
}

// Failed returns how many events Redis rejected.
func (r *Redis) Failed() int64 {
	return r.failed.Load()
}

func (r *Redis) enqueue(e *scoreboard.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}
	select {
	case r.events <- e:
		return
	default:
	}
	if !durable(e.Type) {
		r.dropped.Add(1)
		return
	}

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()
	select {
	case r.events <- e:
	case <-timer.C:
		r.dropped.Add(1)
		log.Printf("[ERROR] Redis display queue stuck, dropped %s event", e.Type)
	}
}

// durable reports whether t updates the stored scoreboard, not just the
// live feed.
func durable(t scoreboard.EventType) bool {
	switch t {
	case scoreboard.EventItemPlaced, scoreboard.EventItemRemoved,
		scoreboard.EventScore, scoreboard.EventWinners:
		return true
	}
	return false
}

func (r *Redis) publish() {
	defer close(r.done)

	for e := range r.events {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		if err := r.apply(ctx, e); err != nil {
			r.failed.Add(1)
			log.Printf("[ERROR] Redis display failed to apply %s event: %v", e.Type, err)
		}
		cancel()
	}
}

// apply updates the durable scoreboard state for e, then publishes it.
func (r *Redis) apply(ctx context.Context, e *scoreboard.Event) error {
	var err error
	switch e.Type {
	case scoreboard.EventItemPlaced:
		err = r.client.SetSlot(ctx, e.Slot, e.Item)
	case scoreboard.EventItemRemoved:
		err = r.client.ClearSlot(ctx, e.Slot)
	case scoreboard.EventScore:
		err = r.client.SetScore(ctx, e.Player, e.Score)
	case scoreboard.EventWinners:
		err = r.client.SetWinners(ctx, e.Winners)
	}
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, e)
}

func (r *Redis) SetCountdown(d time.Duration, warn bool) {
	// One event per displayed second is plenty for spectators.
	if secs := ceilSeconds(d); r.lastTick.Swap(secs) == secs {
		return
	}
	e := scoreboard.NewEvent(scoreboard.EventCountdown)
	e.Millis = d.Milliseconds()
	e.Warn = warn
	r.enqueue(e)
}

func (r *Redis) PlaceItem(item, slot int) {
	e := scoreboard.NewEvent(scoreboard.EventItemPlaced)
	e.Item, e.Slot = item, slot
	r.enqueue(e)
}

func (r *Redis) RemoveItem(slot int) {
	e := scoreboard.NewEvent(scoreboard.EventItemRemoved)
	e.Slot = slot
	r.enqueue(e)
}

func (r *Redis) PlaceToken(player, slot int) {
	e := scoreboard.NewEvent(scoreboard.EventTokenPlaced)
	e.Player, e.Slot = player, slot
	r.enqueue(e)
}

func (r *Redis) RemoveToken(player, slot int) {
	e := scoreboard.NewEvent(scoreboard.EventTokenRemoved)
	e.Player, e.Slot = player, slot
	r.enqueue(e)
}

func (r *Redis) SetScore(player, score int) {
	e := scoreboard.NewEvent(scoreboard.EventScore)
	e.Player, e.Score = player, score
	r.enqueue(e)
}

func (r *Redis) SetFreeze(player int, d time.Duration) {
	e := scoreboard.NewEvent(scoreboard.EventFreeze)
	e.Player, e.Millis = player, d.Milliseconds()
	r.enqueue(e)
}

func (r *Redis) AnnounceWinners(players []int) {
	e := scoreboard.NewEvent(scoreboard.EventWinners)
	e.Winners = append([]int{}, players...)
	r.enqueue(e)
}
