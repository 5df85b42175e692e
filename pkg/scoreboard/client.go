package scoreboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Client provides instance-scoped Redis operations for the scoreboard.
// All keys and channels are namespaced with the instance name.
// The client is safe for concurrent use.
type Client struct {
	rdb          *redis.Client
	instanceName string
}

// NewClient creates a scoreboard client for the given game instance.
// Returns an error if instanceName is not a valid instance name.
func NewClient(redisOpts *redis.Options, instanceName string) (*Client, error) {
	if err := ValidateInstanceName(instanceName); err != nil {
		return nil, err
	}

	return &Client{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
	}, nil
}

// InstanceName returns the namespace this client writes to.
func (c *Client) InstanceName() string {
	return c.instanceName
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Reset deletes every key of this instance. Called once before a game starts
// so spectators never see a previous game's board.
func (c *Client) Reset(ctx context.Context) error {
	keys := []string{
		ScoresKey(c.instanceName),
		PlayersKey(c.instanceName),
		BoardKey(c.instanceName),
		WinnersKey(c.instanceName),
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset scoreboard: %w", err)
	}
	return nil
}

// Publish validates an event and publishes it on the events channel.
func (c *Client) Publish(ctx context.Context, e *Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := c.rdb.Publish(ctx, EventsChannel(c.instanceName), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// SetPlayerNames records the display name of every player, indexed by id.
func (c *Client) SetPlayerNames(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	values := make(map[string]any, len(names))
	for id, name := range names {
		values[strconv.Itoa(id)] = name
	}
	if err := c.rdb.HSet(ctx, PlayersKey(c.instanceName), values).Err(); err != nil {
		return fmt.Errorf("failed to write player names: %w", err)
	}
	return nil
}

// PlayerNames returns the recorded player names keyed by player id.
func (c *Client) PlayerNames(ctx context.Context) (map[int]string, error) {
	raw, err := c.rdb.HGetAll(ctx, PlayersKey(c.instanceName)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read player names: %w", err)
	}

	names := make(map[int]string, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("corrupt player id %q: %w", k, err)
		}
		names[id] = v
	}
	return names, nil
}

// SetScore records a player's score.
func (c *Client) SetScore(ctx context.Context, player, score int) error {
	if err := c.rdb.HSet(ctx, ScoresKey(c.instanceName), strconv.Itoa(player), score).Err(); err != nil {
		return fmt.Errorf("failed to write score: %w", err)
	}
	return nil
}

// Scores returns every recorded score keyed by player id.
// Returns an empty map if nothing was recorded.
func (c *Client) Scores(ctx context.Context) (map[int]int, error) {
	return c.intHash(ctx, ScoresKey(c.instanceName))
}

// SetSlot records item as placed on slot.
func (c *Client) SetSlot(ctx context.Context, slot, item int) error {
	if err := c.rdb.HSet(ctx, BoardKey(c.instanceName), strconv.Itoa(slot), item).Err(); err != nil {
		return fmt.Errorf("failed to write slot: %w", err)
	}
	return nil
}

// ClearSlot records slot as empty.
func (c *Client) ClearSlot(ctx context.Context, slot int) error {
	if err := c.rdb.HDel(ctx, BoardKey(c.instanceName), strconv.Itoa(slot)).Err(); err != nil {
		return fmt.Errorf("failed to clear slot: %w", err)
	}
	return nil
}

// Board returns the published board as slot -> item.
func (c *Client) Board(ctx context.Context) (map[int]int, error) {
	return c.intHash(ctx, BoardKey(c.instanceName))
}

// SetWinners records the final winners.
func (c *Client) SetWinners(ctx context.Context, players []int) error {
	payload, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("failed to marshal winners: %w", err)
	}
	if err := c.rdb.Set(ctx, WinnersKey(c.instanceName), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write winners: %w", err)
	}
	return nil
}

// Winners returns the recorded winners.
// Returns (nil, redis.Nil) while the game is still running; use IsNotFound.
func (c *Client) Winners(ctx context.Context) ([]int, error) {
	raw, err := c.rdb.Get(ctx, WinnersKey(c.instanceName)).Result()
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read winners: %w", err)
	}

	var players []int
	if err := json.Unmarshal([]byte(raw), &players); err != nil {
		return nil, fmt.Errorf("failed to parse winners: %w", err)
	}
	return players, nil
}

func (c *Client) intHash(ctx context.Context, key string) (map[int]int, error) {
	raw, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	out := make(map[int]int, len(raw))
	for k, v := range raw {
		field, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("corrupt field %q in %s: %w", k, key, err)
		}
		value, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("corrupt value %q in %s: %w", v, key, err)
		}
		out[field] = value
	}
	return out, nil
}

// Subscription is an active Pub/Sub subscription to display events.
// Caller must call Close() when done.
type Subscription struct {
	events <-chan *Event
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of decoded events. It is closed when the
// subscription is closed or its context is cancelled.
func (s *Subscription) Events() <-chan *Event {
	return s.events
}

// Errors returns non-fatal decode errors. Bad messages are skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription. Implements io.Closer. Safe to call twice.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// Subscribe tails the instance's event channel.
//
// The subscription is confirmed with Redis before Subscribe returns, so no
// event published afterwards is missed. Delivery is at-most-once: a slow
// subscriber may lose events, as with any Redis Pub/Sub consumer.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	pubsub := c.rdb.Subscribe(ctx, EventsChannel(c.instanceName))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to events: %w", err)
	}

	eventsChan := make(chan *Event, 64)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &e:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

// IsNotFound reports whether err is Redis's "key not found" (redis.Nil).
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
