package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dyluth/trio/internal/config"
	"github.com/dyluth/trio/internal/display"
	"github.com/dyluth/trio/internal/game"
	"github.com/dyluth/trio/internal/oracle"
	"github.com/dyluth/trio/internal/printer"
	"github.com/dyluth/trio/pkg/scoreboard"
	"github.com/spf13/cobra"
)

var (
	playConfigPath string
	playRedisURL   string
	playInstance   string
	playQuiet      bool
	playSeed       uint64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Deal a game and play it in the terminal",
	Long: `Deal a game using trio.yml (or the built-in defaults when it is absent).

Human players select slots by typing one line per selection on stdin:

  <player> <slot>

for example "0 4" marks slot 4 for player 0; selecting a marked slot again
takes the token back. A full hand (set_size tokens) makes a claim. Computer
players play on their own.

With a scoreboard configured (--redis-url, scoreboard.redis_url or
TRIO_REDIS_URL) the game is also published to Redis for 'trio watch' and
'trio scores'.

Ctrl-C stops the game; the scores so far are still printed.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&playConfigPath, "config", "c", config.DefaultPath, "Path to trio.yml")
	playCmd.Flags().StringVar(&playRedisURL, "redis-url", "", "Publish the game to this Redis scoreboard")
	playCmd.Flags().StringVarP(&playInstance, "instance", "n", "", "Scoreboard instance name (generated if omitted)")
	playCmd.Flags().BoolVarP(&playQuiet, "quiet", "q", false, "Hide board movements and log output")
	playCmd.Flags().Uint64Var(&playSeed, "seed", 0, "Shuffle seed (0 = random)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(playConfigPath)
	if err != nil {
		return printer.Error(
			"invalid configuration",
			err.Error(),
			[]string{"Fix trio.yml, or regenerate it:\n  trio init --force"},
		)
	}
	if playRedisURL != "" {
		cfg.Scoreboard.RedisURL = playRedisURL
	}
	if playInstance != "" {
		cfg.Scoreboard.Instance = playInstance
	}

	if playQuiet {
		log.SetOutput(io.Discard)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := newSession(ctx, cfg, cmd.OutOrStdout(), !playQuiet, playSeed)
	if err != nil {
		return err
	}
	defer s.close()

	s.intro()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.run(ctx, cmd.InOrStdin())
	}()

	select {
	case sig := <-sigCh:
		printer.Warning("Received signal %v, stopping the game...\n", sig)
		cancel()
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil {
		return fmt.Errorf("game failed: %w", err)
	}

	s.printScores()
	return nil
}

// session is one game with its display sinks wired up.
type session struct {
	cfg      *config.Config
	instance string
	names    []string
	dealer   *game.Dealer
	out      io.Writer
	closers  []func() error
}

func newSession(ctx context.Context, cfg *config.Config, out io.Writer, verbose bool, seed uint64) (*session, error) {
	cards, err := oracle.New(cfg.Table.SetSize, cfg.Table.FeatureCount)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle: %w", err)
	}

	s := &session{
		cfg:      cfg,
		instance: cfg.Scoreboard.Instance,
		out:      out,
	}
	if s.instance == "" {
		s.instance = scoreboard.GenerateInstanceName()
	}
	for _, p := range cfg.Players {
		s.names = append(s.names, p.Name)
	}

	sinks := []display.Sink{display.NewTerminal(out, s.names, verbose)}
	if cfg.Scoreboard.RedisURL != "" {
		sink, err := s.openScoreboard(ctx)
		if err != nil {
			s.close()
			return nil, err
		}
		sinks = append(sinks, sink)
	}

	s.dealer, err = game.New(cfg, cards, display.NewMulti(sinks...), game.Options{Game: s.instance, Seed: seed})
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to set up game: %w", err)
	}
	return s, nil
}

// openScoreboard connects to Redis, clears any previous game under the same
// instance and returns the publishing sink.
func (s *session) openScoreboard(ctx context.Context) (display.Sink, error) {
	client, err := connectScoreboard(ctx, s.cfg.Scoreboard.RedisURL, s.instance)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, client.Close)

	if err := client.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset scoreboard: %w", err)
	}
	if err := client.SetPlayerNames(ctx, s.names); err != nil {
		return nil, fmt.Errorf("failed to publish player names: %w", err)
	}

	sink := display.NewRedis(client, 1024)
	s.closers = append(s.closers, sink.Close)
	return sink, nil
}

// close releases sinks and clients in reverse order of creation.
func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Printf("[WARN] Cleanup failed: %v", err)
		}
	}
	s.closers = nil
}

// run plays the game to the end, routing input lines to human players.
func (s *session) run(ctx context.Context, in io.Reader) error {
	if in != nil {
		go s.routeInput(in)
	}
	return s.dealer.Run(ctx)
}

func (s *session) intro() {
	printer.Step("Game '%s': %d slots, %d cards, sets of %d\n",
		s.instance, s.cfg.Table.Slots, s.cfg.Table.DeckSize, s.cfg.Table.SetSize)
	for i, p := range s.cfg.Players {
		kind := "computer"
		if p.Human {
			kind = "human"
		}
		printer.Info("  %d: %s (%s)\n", i, p.Name, kind)
	}
	if s.cfg.Scoreboard.RedisURL != "" {
		printer.Info("Spectate with: trio watch --redis-url %s --instance %s\n", s.cfg.Scoreboard.RedisURL, s.instance)
	}
}

func (s *session) printScores() {
	rows := make([]printer.ScoreRow, 0, len(s.dealer.Players()))
	for _, p := range s.dealer.Players() {
		rows = append(rows, printer.ScoreRow{Player: p.ID(), Name: p.Name(), Score: p.Score()})
	}
	printer.Println()
	printer.Scoreboard(rows)
}

// routeInput reads "<player> <slot>" lines until EOF.
func (s *session) routeInput(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := s.route(line); err != nil {
			printer.Warning("%v\n", err)
		}
	}
}

var errUsage = errors.New(`expected "<player> <slot>"`)

// parseSelection parses one input line.
func parseSelection(line string) (player, slot int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, errUsage
	}
	if player, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, errUsage
	}
	if slot, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, errUsage
	}
	return player, slot, nil
}

// route sends one line to its player. A selection the player cannot take
// right now (frozen, board being dealt, slot empty) is dropped silently.
func (s *session) route(line string) error {
	id, slot, err := parseSelection(line)
	if err != nil {
		return err
	}
	p, ok := s.dealer.Player(id)
	if !ok {
		return fmt.Errorf("no player %d", id)
	}
	if !p.Human() {
		return fmt.Errorf("player %d (%s) is computer controlled", id, p.Name())
	}
	p.KeyPressed(slot)
	return nil
}
