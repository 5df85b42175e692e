package scoreboard

import "fmt"

// Redis key pattern helpers.
//
// Key pattern: trio:{instance_name}:{entity}
// Channel pattern: trio:{instance_name}:events

// ScoresKey returns the key of the player -> score hash.
func ScoresKey(instanceName string) string {
	return fmt.Sprintf("trio:%s:scores", instanceName)
}

// PlayersKey returns the key of the player -> display name hash.
func PlayersKey(instanceName string) string {
	return fmt.Sprintf("trio:%s:players", instanceName)
}

// BoardKey returns the key of the slot -> item hash.
func BoardKey(instanceName string) string {
	return fmt.Sprintf("trio:%s:board", instanceName)
}

// WinnersKey returns the key holding the JSON list of winners.
func WinnersKey(instanceName string) string {
	return fmt.Sprintf("trio:%s:winners", instanceName)
}

// EventsChannel returns the Pub/Sub channel carrying display events.
func EventsChannel(instanceName string) string {
	return fmt.Sprintf("trio:%s:events", instanceName)
}
