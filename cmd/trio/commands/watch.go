package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dyluth/trio/internal/config"
	"github.com/dyluth/trio/internal/printer"
	"github.com/dyluth/trio/internal/watch"
	"github.com/dyluth/trio/pkg/scoreboard"
	"github.com/spf13/cobra"
)

var (
	watchConfigPath   string
	watchRedisURL     string
	watchInstanceName string
	watchOutputFormat string
	watchUntilOver    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a game live from its scoreboard",
	Long: `Follow a running game through its Redis scoreboard.

Streams deals, token moves, scores, freezes and the final result as they
happen.

Output Formats:
  default - Human-readable output with timestamps and emojis
  json    - Line-delimited JSON for programmatic processing

Examples:
  # Watch the game named in trio.yml
  trio watch

  # Watch a specific game
  trio watch --redis-url redis://localhost:6379/0 --instance game-1a2b3c4d

  # Export events as JSON until the game ends
  trio watch --output=json --until-over > events.jsonl`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchConfigPath, "config", "c", config.DefaultPath, "Path to trio.yml")
	watchCmd.Flags().StringVar(&watchRedisURL, "redis-url", "", "Scoreboard Redis URL (defaults to scoreboard.redis_url)")
	watchCmd.Flags().StringVarP(&watchInstanceName, "instance", "n", "", "Game instance (defaults to scoreboard.instance)")
	watchCmd.Flags().StringVarP(&watchOutputFormat, "output", "o", "default", "Output format (default or json)")
	watchCmd.Flags().BoolVar(&watchUntilOver, "until-over", false, "Exit once the winners are announced")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	outputFormat, err := watch.ParseOutputFormat(watchOutputFormat)
	if err != nil {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", watchOutputFormat),
			[]string{"Valid formats: default, json"},
		)
	}

	redisURL, instance, err := resolveScoreboard(watchConfigPath, watchRedisURL, watchInstanceName)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := connectScoreboard(ctx, redisURL, instance)
	if err != nil {
		return err
	}
	defer client.Close()

	return streamGame(ctx, client, outputFormat, watchUntilOver, cmd.OutOrStdout())
}

// streamGame prints the game's events as they are published.
func streamGame(ctx context.Context, client *scoreboard.Client, format watch.OutputFormat, untilOver bool, w io.Writer) error {
	names, err := client.PlayerNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to read player names: %w", err)
	}

	sub, err := client.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to game events: %w", err)
	}
	defer sub.Close()

	if format == watch.OutputFormatDefault {
		printer.Info("Watching game '%s' (Ctrl-C to stop)\n", client.InstanceName())
	}
	return watch.StreamEvents(ctx, sub, names, format, untilOver, w)
}
