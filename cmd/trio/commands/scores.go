package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dyluth/trio/internal/config"
	"github.com/dyluth/trio/internal/printer"
	"github.com/dyluth/trio/internal/watch"
	"github.com/dyluth/trio/pkg/scoreboard"
	"github.com/spf13/cobra"
)

var (
	scoresConfigPath   string
	scoresRedisURL     string
	scoresInstanceName string
	scoresWait         time.Duration
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Print a game's scoreboard",
	Long: `Print the current scores of a game published to Redis, and its winners
once the game is over.

Use --wait to block until the game finishes before printing.

Examples:
  trio scores --instance game-1a2b3c4d
  trio scores --wait 10m`,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVarP(&scoresConfigPath, "config", "c", config.DefaultPath, "Path to trio.yml")
	scoresCmd.Flags().StringVar(&scoresRedisURL, "redis-url", "", "Scoreboard Redis URL (defaults to scoreboard.redis_url)")
	scoresCmd.Flags().StringVarP(&scoresInstanceName, "instance", "n", "", "Game instance (defaults to scoreboard.instance)")
	scoresCmd.Flags().DurationVar(&scoresWait, "wait", 0, "Wait up to this long for the game to finish")
	rootCmd.AddCommand(scoresCmd)
}

func runScores(cmd *cobra.Command, args []string) error {
	redisURL, instance, err := resolveScoreboard(scoresConfigPath, scoresRedisURL, scoresInstanceName)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := connectScoreboard(ctx, redisURL, instance)
	if err != nil {
		return err
	}
	defer client.Close()

	if scoresWait > 0 {
		if _, err := watch.PollForWinners(ctx, client, scoresWait); err != nil {
			return printer.Error(
				"game still running",
				err.Error(),
				[]string{"Wait longer:\n  trio scores --wait <duration>", "Or print the scores so far without --wait"},
			)
		}
	}

	return printScoreboard(ctx, client)
}

// printScoreboard prints the scores table followed by the winners, if any.
func printScoreboard(ctx context.Context, client *scoreboard.Client) error {
	names, err := client.PlayerNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to read player names: %w", err)
	}
	scores, err := client.Scores(ctx)
	if err != nil {
		return fmt.Errorf("failed to read scores: %w", err)
	}

	// Players who never scored have no entry in the scores hash.
	rows := make([]printer.ScoreRow, 0, len(names))
	for id, name := range names {
		rows = append(rows, printer.ScoreRow{Player: id, Name: name, Score: scores[id]})
	}
	for id, score := range scores {
		if _, ok := names[id]; !ok {
			rows = append(rows, printer.ScoreRow{Player: id, Name: fmt.Sprintf("player %d", id), Score: score})
		}
	}
	printer.Scoreboard(rows)

	winners, err := client.Winners(ctx)
	if err != nil {
		if scoreboard.IsNotFound(err) {
			printer.Info("Game in progress\n")
			return nil
		}
		return fmt.Errorf("failed to read winners: %w", err)
	}
	printer.Success("Winners: %s\n", winnerNames(winners, names))
	return nil
}

func winnerNames(winners []int, names map[int]string) string {
	sorted := append([]int(nil), winners...)
	sort.Ints(sorted)
	out := make([]string, 0, len(sorted))
	for _, id := range sorted {
		if name, ok := names[id]; ok {
			out = append(out, name)
		} else {
			out = append(out, fmt.Sprintf("player %d", id))
		}
	}
	return strings.Join(out, ", ")
}
