// Package scoreboard publishes a running game to Redis so that spectators
// (the `trio watch` and `trio scores` commands, or any other Redis client)
// can follow it without touching the game process.
//
// # Overview
//
// The game writes through a display sink (see internal/display.Redis). Every
// sink call becomes an Event that is published on the instance's event
// channel; the events that change durable state also update a small set of
// hashes, so a late subscriber can read the current picture before tailing
// the channel.
//
// The game never reads any of this back. Redis is an output, not the game's
// state store.
//
// # Multi-Instance Support
//
// All keys and channels are namespaced by instance name, so several games can
// share one Redis server.
//
// # Redis Schema
//
// Keys follow the pattern trio:{instance}:{entity}
//
//	Scores:  trio:{instance}:scores   HASH player id -> score
//	Players: trio:{instance}:players  HASH player id -> display name
//	Board:   trio:{instance}:board    HASH slot -> item id (absent = empty)
//	Winners: trio:{instance}:winners  STRING JSON array of player ids
//
// Events: trio:{instance}:events (Pub/Sub, JSON-encoded Event)
package scoreboard
