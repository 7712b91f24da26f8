// Package simulate parses simulate command flags and runs a full match.
package simulate

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samlindsay4/cricket-game/internal/conditions"
	"github.com/samlindsay4/cricket-game/internal/engine"
	"github.com/samlindsay4/cricket-game/internal/match"
	"github.com/samlindsay4/cricket-game/internal/platform/cmd"
	"github.com/samlindsay4/cricket-game/internal/platform/id"
	"github.com/samlindsay4/cricket-game/internal/player"
	"github.com/samlindsay4/cricket-game/internal/random"
	"github.com/samlindsay4/cricket-game/internal/roster"
	"github.com/samlindsay4/cricket-game/internal/sim"
	"github.com/samlindsay4/cricket-game/internal/storage"
	"github.com/samlindsay4/cricket-game/internal/storage/bbolt"
	"github.com/samlindsay4/cricket-game/internal/storage/memory"
	"github.com/samlindsay4/cricket-game/internal/storage/sqlite"
)

// Config holds simulate command configuration.
type Config struct {
	Format  string `env:"CRICKET_GAME_FORMAT"    envDefault:"t20"`
	Home    string `env:"CRICKET_GAME_HOME_TEAM"`
	Away    string `env:"CRICKET_GAME_AWAY_TEAM"`
	Seed    int64  `env:"CRICKET_GAME_SEED"`
	DBPath  string `env:"CRICKET_GAME_DB_PATH"`
	Driver  string `env:"CRICKET_GAME_DB_DRIVER" envDefault:"sqlite"`
	Verbose bool   `env:"CRICKET_GAME_VERBOSE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := cmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Format, "format", cfg.Format, "match format: t20, odi, or test")
	fs.StringVar(&cfg.Home, "home", cfg.Home, "home team name (generated when empty)")
	fs.StringVar(&cfg.Away, "away", cfg.Away, "away team name (generated when empty)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "simulation seed (time-based when zero)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "database path (in-memory store when empty)")
	fs.StringVar(&cfg.Driver, "db-driver", cfg.Driver, "database driver: sqlite or bolt")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "log runner transitions")
	if err := cmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run simulates one match and writes the scorecard to out.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return cmd.RunWithTelemetry(ctx, cmd.ServiceSimulate, func(ctx context.Context) error {
		return run(ctx, cfg, out, errOut)
	})
}

func run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	format, err := parseFormat(cfg.Format)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed, err = random.NewSeed()
		if err != nil {
			return err
		}
	}

	store, err := openStore(cfg.Driver, cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	matchID, err := id.NewID()
	if err != nil {
		return err
	}

	home, err := buildSide(cfg.Home, seed+1)
	if err != nil {
		return err
	}
	away, err := buildSide(cfg.Away, seed+2)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	conds := conditions.GenerateRandom(rng, format.MultiDay())

	var controller sim.Controller
	if format.MultiDay() {
		controller, err = match.NewTestMatch(home, away, rng)
	} else {
		controller, err = match.NewLimitedMatch(format, home, away, rng)
	}
	if err != nil {
		return err
	}

	var logger *log.Logger
	if cfg.Verbose {
		logger = log.New(errOut, "", 0)
	}

	runner, err := sim.New(sim.Config{
		MatchID:    matchID,
		Match:      controller,
		Engine:     engine.New(rng, engine.DefaultTuning()),
		Conditions: conds,
		RNG:        rng,
		Journal:    store,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	tracer := otel.Tracer("cricket-game/simulate")
	ctx, span := tracer.Start(ctx, "simulate.match", trace.WithAttributes(
		attribute.String("match.id", matchID),
		attribute.String("match.format", format.String()),
		attribute.Int64("match.seed", seed),
	))
	defer span.End()

	record := storage.MatchRecord{
		ID:        matchID,
		Format:    format.String(),
		HomeTeam:  home.Name,
		AwayTeam:  away.Name,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.PutMatch(ctx, record); err != nil {
		return err
	}

	for !controller.IsComplete() {
		if _, err := runner.FastForward(ctx, sim.MaxBallsPerCall); err != nil {
			return err
		}
	}

	result := controller.Result()
	summaries := make([]match.InningsSummary, 0, len(controller.Innings()))
	scorelines := make([]string, 0, len(controller.Innings()))
	for _, in := range controller.Innings() {
		s := match.Summarize(in)
		summaries = append(summaries, s)
		scorelines = append(scorelines, s.Scoreline())
		span.AddEvent("innings", trace.WithAttributes(attribute.String("scoreline", s.Scoreline())))
	}

	record.Winner = result.Winner
	record.Result = result.Summary
	record.Scorelines = strings.Join(scorelines, "\n")
	record.CompletedAt = time.Now().UTC()
	if err := store.PutMatch(ctx, record); err != nil {
		return err
	}

	printScorecard(out, matchID, seed, conds, summaries, result)
	return nil
}

func parseFormat(name string) (match.Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "t20":
		return match.FormatT20, nil
	case "odi":
		return match.FormatODI, nil
	case "test":
		return match.FormatTest, nil
	default:
		return 0, fmt.Errorf("unknown format %q (want t20, odi, or test)", name)
	}
}

func openStore(driver, path string) (storage.Store, error) {
	if path == "" {
		return memory.New(), nil
	}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return sqlite.Open(path)
	case "bolt":
		return bbolt.Open(path)
	default:
		return nil, fmt.Errorf("unknown db driver %q (want sqlite or bolt)", driver)
	}
}

func buildSide(name string, seed int64) (match.Side, error) {
	gen := roster.New(rand.New(rand.NewSource(seed)))
	if name == "" {
		name = gen.TeamName()
	}
	squad := gen.Squad(15)
	lineup, err := roster.SelectPlayingXI(squad)
	if err != nil {
		return match.Side{}, err
	}
	var bowlers []*player.Participant
	for _, p := range lineup {
		if p.Role == player.RoleBowler || p.Role == player.RoleAllRounder {
			bowlers = append(bowlers, p)
		}
	}
	return match.Side{Name: name, Lineup: lineup, Bowlers: bowlers}, nil
}

func printScorecard(out io.Writer, matchID string, seed int64, conds *conditions.Conditions, summaries []match.InningsSummary, result match.Result) {
	fmt.Fprintf(out, "Match %s (seed %d)\n", matchID, seed)
	fmt.Fprintf(out, "Conditions: %s pitch, %s, %s ground\n\n", conds.Pitch, conds.Weather, conds.Ground)
	for i, s := range summaries {
		fmt.Fprintf(out, "Innings %d: %s\n", i+1, s.Scoreline())
		for _, b := range s.TopBatters(3) {
			if b.Balls == 0 && b.Runs == 0 {
				continue
			}
			fmt.Fprintf(out, "  %-24s %4d (%d)\n", b.Player.Name, b.Runs, b.Balls)
		}
		for _, bw := range s.TopBowlers(2) {
			if bw.Balls == 0 {
				continue
			}
			fmt.Fprintf(out, "  %-24s %s-%d-%d-%d\n", bw.Player.Name, bw.Overs(), bw.Maidens, bw.Runs, bw.Wickets)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, result.Summary)
}
