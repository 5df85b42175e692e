package scoreboard

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

const (
	// GeneratedNamePrefix is the prefix for generated instance names
	GeneratedNamePrefix = "game-"

	// MaxNameLength is the maximum length for an instance name
	MaxNameLength = 63
)

// NamePattern matches valid instance names: lowercase alphanumeric with
// hyphens, not at start or end. Names become part of every key, so they are
// kept free of ':' and whitespace.
var NamePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// ValidateInstanceName checks that name can namespace a scoreboard.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("instance name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("instance name too long: %d characters (max: %d)", len(name), MaxNameLength)
	}

	if !NamePattern.MatchString(name) {
		return fmt.Errorf("invalid instance name '%s': must be lowercase alphanumeric with hyphens (not at start/end)", name)
	}

	return nil
}

// GenerateInstanceName returns a fresh name such as "game-1a2b3c4d".
func GenerateInstanceName() string {
	return GeneratedNamePrefix + uuid.NewString()[:8]
}
