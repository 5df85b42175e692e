package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dyluth/trio/internal/config"
	"github.com/dyluth/trio/internal/display"
	"github.com/dyluth/trio/internal/oracle"
	"github.com/stretchr/testify/require"
)

// setOracle treats any three items accepted by valid as a set.
type setOracle struct {
	valid func(items []int) bool
}

var (
	alwaysValid = setOracle{valid: func([]int) bool { return true }}
	neverValid  = setOracle{valid: func([]int) bool { return false }}
)

var _ oracle.Oracle = setOracle{}

func (o setOracle) IsValidSet(items []int) bool {
	return len(items) == 3 && o.valid(items)
}

func (o setOracle) FindSets(items []int, limit int) [][]int {
	var sets [][]int
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			for k := j + 1; k < len(items); k++ {
				candidate := []int{items[i], items[j], items[k]}
				if !o.valid(candidate) {
					continue
				}
				sets = append(sets, candidate)
				if limit > 0 && len(sets) == limit {
					return sets
				}
			}
		}
	}
	return sets
}

func (o setOracle) Features(items []int) [][]int {
	features := make([][]int, len(items))
	for i, item := range items {
		features[i] = []int{item}
	}
	return features
}

// recordingSink keeps the events the game tests assert on.
type recordingSink struct {
	display.Nop

	mu         sync.Mutex
	removed    map[int]int
	scores     map[int]int
	freezes    []time.Duration
	countdowns []countdown
	winners    []int
}

type countdown struct {
	d    time.Duration
	warn bool
}

func newRecordingSink() *recordingSink {
	return &recordingSink{removed: make(map[int]int), scores: make(map[int]int)}
}

func (s *recordingSink) RemoveItem(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed[slot]++
}

func (s *recordingSink) SetScore(player, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[player] = score
}

func (s *recordingSink) SetFreeze(_ int, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.freezes = append(s.freezes, d)
}

func (s *recordingSink) SetCountdown(d time.Duration, warn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countdowns = append(s.countdowns, countdown{d: d, warn: warn})
}

func (s *recordingSink) AnnounceWinners(players []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.winners = append([]int{}, players...)
}

func (s *recordingSink) removals() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]int, len(s.removed))
	for k, v := range s.removed {
		out[k] = v
	}
	return out
}

func (s *recordingSink) countdownLog() []countdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]countdown{}, s.countdowns...)
}

// testConfig builds a fast game: no placement delay, no freezes, uncapped
// rounds. humans lists one entry per seat.
func testConfig(t *testing.T, slots, deck int, humans ...bool) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Table.Slots = slots
	cfg.Table.DeckSize = deck
	cfg.Timing = config.TimingConfig{
		TurnTimeout:       -time.Second,
		DealerTick:        5 * time.Millisecond,
		GeneratorInterval: 5 * time.Millisecond,
		JoinRetry:         100 * time.Millisecond,
	}
	cfg.Players = nil
	for i, human := range humans {
		cfg.Players = append(cfg.Players, config.PlayerConfig{Name: fmt.Sprintf("p%d", i), Human: human})
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestDealer(t *testing.T, cfg *config.Config, o oracle.Oracle, sink display.Sink) *Dealer {
	t.Helper()

	d, err := New(cfg, o, sink, Options{Game: "test-game", Seed: 42})
	require.NoError(t, err)
	t.Cleanup(d.Terminate)
	return d
}

// startGame runs d in the background. The returned stop function cancels the
// game and waits for Run to return.
func startGame(t *testing.T, d *Dealer) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx)
	}()

	var once sync.Once
	stop = func() {
		once.Do(func() {
			cancel()
			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("Run did not return after cancellation")
			}
		})
	}
	t.Cleanup(stop)
	return stop
}

func waitForFullBoard(t *testing.T, d *Dealer, items int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return d.Board().Ready() && d.Board().CountItems() == items
	}, 2*time.Second, 2*time.Millisecond, "board never dealt")
}

// press retries until the selection is queued; the board may be briefly not
// ready while the dealer resolves someone else's claim.
func press(t *testing.T, p *Player, slot int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return p.KeyPressed(slot)
	}, 2*time.Second, time.Millisecond, "player %d could not select slot %d", p.ID(), slot)
}
