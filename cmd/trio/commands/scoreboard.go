package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/trio/internal/config"
	"github.com/dyluth/trio/internal/printer"
	"github.com/dyluth/trio/pkg/scoreboard"
	"github.com/redis/go-redis/v9"
)

// resolveScoreboard fills redisURL and instance from the config file (and
// TRIO_* variables) when the flags left them empty.
func resolveScoreboard(configPath, redisURL, instance string) (string, string, error) {
	if redisURL != "" && instance != "" {
		return redisURL, instance, nil
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return "", "", printer.Error(
			"invalid configuration",
			err.Error(),
			[]string{"Fix trio.yml, or regenerate it:\n  trio init --force"},
		)
	}
	if redisURL == "" {
		redisURL = cfg.Scoreboard.RedisURL
	}
	if instance == "" {
		instance = cfg.Scoreboard.Instance
	}
	return redisURL, instance, nil
}

// connectScoreboard opens and pings a scoreboard client.
func connectScoreboard(ctx context.Context, redisURL, instance string) (*scoreboard.Client, error) {
	if redisURL == "" {
		return nil, printer.Error(
			"no scoreboard configured",
			"A Redis URL is required to reach the scoreboard.",
			[]string{
				"Pass it on the command line:\n  --redis-url redis://localhost:6379/0",
				"Set scoreboard.redis_url in trio.yml or TRIO_REDIS_URL",
			},
		)
	}
	if instance == "" {
		return nil, printer.Error(
			"no game instance given",
			"The scoreboard is namespaced by game instance.",
			[]string{"Name the game:\n  --instance <name>  (printed by 'trio play' at start)"},
		)
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client, err := scoreboard.NewClient(redisOpts, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to create scoreboard client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, printer.ErrorWithContext(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", redisURL),
			map[string]string{"instance": instance, "error": err.Error()},
			[]string{"Check that Redis is running and reachable"},
		)
	}
	return client, nil
}
