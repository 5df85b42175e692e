package game

import "sync"

// ClaimQueue is the FIFO of players waiting for a verdict. Players push, the
// dealer pops one per evaluation cycle. A player id is never pending twice.
type ClaimQueue struct {
	mu      sync.Mutex
	queue   []int
	pending map[int]struct{}
}

// NewClaimQueue creates an empty queue.
func NewClaimQueue() *ClaimQueue {
	return &ClaimQueue{pending: make(map[int]struct{})}
}

// Push appends player. Returns false, leaving the queue unchanged, when the
// player already has a claim pending.
func (q *ClaimQueue) Push(player int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.pending[player]; ok {
		return false
	}
	q.pending[player] = struct{}{}
	q.queue = append(q.queue, player)
	return true
}

// Pop removes and returns the oldest claim.
func (q *ClaimQueue) Pop() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.queue) == 0 {
		return 0, false
	}
	player := q.queue[0]
	q.queue = q.queue[1:]
	delete(q.pending, player)
	return player, true
}

// Len returns the number of pending claims.
func (q *ClaimQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// Pending reports whether player has a claim waiting.
func (q *ClaimQueue) Pending(player int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.pending[player]
	return ok
}
