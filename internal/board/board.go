// Package board holds the shared slot/item registry and every player's
// tokens.
//
// The Board is the only state mutated by several goroutines at once. One
// mutex covers slots, items, tokens and the empty-slot pool, so a player's
// toggle is an atomic check-then-act with respect to every other player and
// the dealer.
//
// Invariant (whenever the lock is not held mid-mutation):
//
//	ItemAt(s) == i  iff  SlotOf(i) == s
//
// and a (player, slot) token is recorded in both directions or in neither.
package board

import (
	"fmt"
	"log"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dyluth/trio/internal/display"
	"github.com/dyluth/trio/internal/oracle"
)

// Empty marks a slot without an item, or an item that is not on the board.
const Empty = -1

// Layout sizes a board.
type Layout struct {
	Slots   int // number of slots on the board
	Items   int // number of distinct item ids (the deck size)
	Players int // number of players that may hold tokens

	// PlacementDelay is slept before every item placement and after every
	// removal, pacing the deal the way a human dealer would.
	PlacementDelay time.Duration
}

// Validate checks the layout is usable.
func (l Layout) Validate() error {
	if l.Slots < 1 {
		return fmt.Errorf("slots must be >= 1, got %d", l.Slots)
	}
	if l.Items < 1 {
		return fmt.Errorf("items must be >= 1, got %d", l.Items)
	}
	if l.Players < 1 {
		return fmt.Errorf("players must be >= 1, got %d", l.Players)
	}
	if l.PlacementDelay < 0 {
		return fmt.Errorf("placement delay must be >= 0, got %v", l.PlacementDelay)
	}
	return nil
}

// Board is the shared game table.
type Board struct {
	layout Layout
	sink   display.Sink

	mu           sync.Mutex
	slotToItem   []int
	itemToSlot   []int
	slotTokens   []map[int]struct{} // slot -> players holding a token on it
	playerTokens [][]int            // player -> slots in placement order
	empty        []int              // empty-slot pool

	ready atomic.Bool
}

// New creates an empty board. Every slot starts in the empty pool and the
// board starts not ready.
func New(layout Layout, sink display.Sink) (*Board, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board layout: %w", err)
	}
	if sink == nil {
		sink = display.Nop{}
	}

	b := &Board{
		layout:       layout,
		sink:         sink,
		slotToItem:   make([]int, layout.Slots),
		itemToSlot:   make([]int, layout.Items),
		slotTokens:   make([]map[int]struct{}, layout.Slots),
		playerTokens: make([][]int, layout.Players),
		empty:        make([]int, 0, layout.Slots),
	}
	for s := range b.slotToItem {
		b.slotToItem[s] = Empty
		b.slotTokens[s] = make(map[int]struct{})
		b.empty = append(b.empty, s)
	}
	for i := range b.itemToSlot {
		b.itemToSlot[i] = Empty
	}
	return b, nil
}

// Layout returns the board's dimensions.
func (b *Board) Layout() Layout {
	return b.layout
}

// Ready reports whether the board accepts new selections.
func (b *Board) Ready() bool {
	return b.ready.Load()
}

// SetReady flips the ready flag. It is written under the board lock so it can
// never interleave with the middle of a fill, clear or claim removal.
func (b *Board) SetReady(ready bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ready.Store(ready)
}

func (b *Board) validSlot(slot int) bool {
	return slot >= 0 && slot < b.layout.Slots
}

func (b *Board) validPlayer(player int) bool {
	return player >= 0 && player < b.layout.Players
}

// PlaceItem puts item on slot. It fails if the slot is occupied, the item is
// already on the board, or either index is out of range.
func (b *Board) PlaceItem(item, slot int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.placeItemLocked(item, slot)
}

func (b *Board) placeItemLocked(item, slot int) error {
	if !b.validSlot(slot) {
		return fmt.Errorf("slot %d out of range", slot)
	}
	if item < 0 || item >= b.layout.Items {
		return fmt.Errorf("item %d out of range", item)
	}
	if b.slotToItem[slot] != Empty {
		return fmt.Errorf("slot %d already holds item %d", slot, b.slotToItem[slot])
	}
	if b.itemToSlot[item] != Empty {
		return fmt.Errorf("item %d already on slot %d", item, b.itemToSlot[item])
	}

	b.pace()
	b.slotToItem[slot] = item
	b.itemToSlot[item] = slot
	b.empty = slices.DeleteFunc(b.empty, func(s int) bool { return s == slot })
	b.sink.PlaceItem(item, slot)
	return nil
}

// RemoveItem clears slot, first revoking every token on it. Returns the item
// that was removed, or false if the slot was already empty.
func (b *Board) RemoveItem(slot int) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeItemLocked(slot)
}

func (b *Board) removeItemLocked(slot int) (int, bool) {
	if !b.validSlot(slot) || b.slotToItem[slot] == Empty {
		return Empty, false
	}

	for _, player := range b.tokenHoldersLocked(slot) {
		b.removeTokenLocked(player, slot)
	}

	item := b.slotToItem[slot]
	b.sink.RemoveItem(slot)
	b.itemToSlot[item] = Empty
	b.slotToItem[slot] = Empty
	b.empty = append(b.empty, slot)
	b.pace()
	return item, true
}

func (b *Board) pace() {
	if b.layout.PlacementDelay > 0 {
		time.Sleep(b.layout.PlacementDelay)
	}
}

// PlaceToken marks slot for player. Placing on an empty slot, or placing a
// token that is already there, is a no-op returning false.
func (b *Board) PlaceToken(player, slot int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.placeTokenLocked(player, slot)
}

func (b *Board) placeTokenLocked(player, slot int) bool {
	if !b.validPlayer(player) || !b.validSlot(slot) || b.slotToItem[slot] == Empty {
		return false
	}
	if _, held := b.slotTokens[slot][player]; held {
		return false
	}
	b.slotTokens[slot][player] = struct{}{}
	b.playerTokens[player] = append(b.playerTokens[player], slot)
	b.sink.PlaceToken(player, slot)
	return true
}

// RemoveToken unmarks slot for player. Returns false if the token was not
// there.
func (b *Board) RemoveToken(player, slot int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeTokenLocked(player, slot)
}

func (b *Board) removeTokenLocked(player, slot int) bool {
	if !b.validPlayer(player) || !b.validSlot(slot) {
		return false
	}
	if _, held := b.slotTokens[slot][player]; !held {
		return false
	}
	delete(b.slotTokens[slot], player)
	b.playerTokens[player] = slices.DeleteFunc(b.playerTokens[player], func(s int) bool { return s == slot })
	b.sink.RemoveToken(player, slot)
	return true
}

// ToggleResult reports what Toggle did.
type ToggleResult int

const (
	// ToggleIgnored means nothing changed: the slot is empty or the player
	// already holds limit tokens.
	ToggleIgnored ToggleResult = iota
	// TogglePlaced means a token was added.
	TogglePlaced
	// ToggleRemoved means the player's existing token was taken back.
	ToggleRemoved
)

// Toggle removes player's token on slot if present, otherwise places one as
// long as the player holds fewer than limit tokens. The whole check-then-act
// runs under the board lock. Returns the resulting token count.
func (b *Board) Toggle(player, slot, limit int) (int, ToggleResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validPlayer(player) {
		return 0, ToggleIgnored
	}
	if b.removeTokenLocked(player, slot) {
		return len(b.playerTokens[player]), ToggleRemoved
	}
	if len(b.playerTokens[player]) < limit && b.placeTokenLocked(player, slot) {
		return len(b.playerTokens[player]), TogglePlaced
	}
	return len(b.playerTokens[player]), ToggleIgnored
}

// ClearTokens removes every token player holds.
func (b *Board) ClearTokens(player int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validPlayer(player) {
		return
	}
	for _, slot := range slices.Clone(b.playerTokens[player]) {
		b.removeTokenLocked(player, slot)
	}
}

// ShuffleEmpty shuffles the empty-slot pool, which decides where the next
// Fill places items.
func (b *Board) ShuffleEmpty(rng *rand.Rand) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rng.Shuffle(len(b.empty), func(i, j int) { b.empty[i], b.empty[j] = b.empty[j], b.empty[i] })
}

// EmptySlots returns how many slots are free.
func (b *Board) EmptySlots() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.empty)
}

// Fill places items into empty slots, consuming the empty pool and items in
// lockstep until either runs out. The whole batch holds the lock. Returns how
// many items were placed; items[n:] were not used.
func (b *Board) Fill(items []int) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	placed := 0
	for placed < len(items) && len(b.empty) > 0 {
		if err := b.placeItemLocked(items[placed], b.empty[0]); err != nil {
			// Only reachable on a caller bug (duplicate item); stop rather than
			// corrupt the pool.
			log.Printf("[ERROR] [Board] Fill stopped after %d of %d items: %v", placed, len(items), err)
			break
		}
		placed++
	}
	return placed
}

// Clear removes every placed item, revoking all tokens, and returns the items
// in slot order.
func (b *Board) Clear() []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	var removed []int
	for slot := range b.slotToItem {
		if item, ok := b.removeItemLocked(slot); ok {
			removed = append(removed, item)
		}
	}
	return removed
}

// Snapshot returns the items currently on the board in slot order.
func (b *Board) Snapshot() []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := make([]int, 0, len(b.slotToItem))
	for _, item := range b.slotToItem {
		if item != Empty {
			items = append(items, item)
		}
	}
	return items
}

// CountItems returns how many slots hold an item.
func (b *Board) CountItems() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.slotToItem) - len(b.empty)
}

// ItemAt returns the item on slot.
func (b *Board) ItemAt(slot int) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validSlot(slot) || b.slotToItem[slot] == Empty {
		return Empty, false
	}
	return b.slotToItem[slot], true
}

// SlotOf returns the slot holding item.
func (b *Board) SlotOf(item int) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if item < 0 || item >= b.layout.Items || b.itemToSlot[item] == Empty {
		return Empty, false
	}
	return b.itemToSlot[item], true
}

// Tokens returns the slots player holds tokens on, in placement order.
func (b *Board) Tokens(player int) []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validPlayer(player) {
		return nil
	}
	return slices.Clone(b.playerTokens[player])
}

// TokenCount returns how many tokens player holds.
func (b *Board) TokenCount(player int) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validPlayer(player) {
		return 0
	}
	return len(b.playerTokens[player])
}

// TokensOn returns the players holding a token on slot, sorted.
func (b *Board) TokensOn(slot int) []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validSlot(slot) {
		return nil
	}
	return b.tokenHoldersLocked(slot)
}

func (b *Board) tokenHoldersLocked(slot int) []int {
	players := make([]int, 0, len(b.slotTokens[slot]))
	for p := range b.slotTokens[slot] {
		players = append(players, p)
	}
	sort.Ints(players)
	return players
}

// Selection returns the items under player's tokens, in placement order, and
// the slots they sit on.
func (b *Board) Selection(player int) (items []int, slots []int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validPlayer(player) {
		return nil, nil
	}
	for _, slot := range b.playerTokens[player] {
		if item := b.slotToItem[slot]; item != Empty {
			items = append(items, item)
			slots = append(slots, slot)
		}
	}
	return items, slots
}

// Hint is one valid group currently on the board.
type Hint struct {
	Slots    []int   // sorted
	Items    []int   // in slot order
	Features [][]int // features of Items
}

// Hints lists every valid group on the board according to o.
func (b *Board) Hints(o oracle.Oracle) []Hint {
	items := b.Snapshot()

	var hints []Hint
	for _, set := range o.FindSets(items, 0) {
		h := Hint{}
		for _, item := range set {
			if slot, ok := b.SlotOf(item); ok {
				h.Slots = append(h.Slots, slot)
			}
		}
		sort.Ints(h.Slots)
		for _, slot := range h.Slots {
			item, _ := b.ItemAt(slot)
			h.Items = append(h.Items, item)
		}
		h.Features = o.Features(h.Items)
		hints = append(hints, h)
	}
	return hints
}
