package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/samlindsay4/cricket-game/internal/conditions"
	"github.com/samlindsay4/cricket-game/internal/engine"
	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
	"github.com/samlindsay4/cricket-game/internal/match"
	"github.com/samlindsay4/cricket-game/internal/player"
	"github.com/samlindsay4/cricket-game/internal/storage/memory"
)

func simSide(name string) match.Side {
	lineup := make([]*player.Participant, match.LineupSize)
	for i := 0; i < 6; i++ {
		lineup[i] = player.New(player.Config{
			Name:         fmt.Sprintf("%s bat %d", name, i+1),
			Role:         player.RoleBatter,
			BattingStyle: player.BatBalanced,
			Batting:      player.BattingRatings{Timing: 70, Power: 60, Technique: 70, Temperament: 65},
			Mental:       player.MentalRatings{Concentration: 65, Pressure: 60},
			Form:         55, Fitness: 100, Confidence: 55,
		})
	}
	lineup[6] = player.New(player.Config{
		Name: name + " keeper", Role: player.RoleKeeper,
		Batting: player.BattingRatings{Timing: 60, Power: 55, Technique: 60, Temperament: 60},
		Form:    50, Fitness: 100, Confidence: 50,
	})
	styles := []player.BowlingStyle{player.BowlFast, player.BowlFast, player.BowlMedium, player.BowlOffSpin}
	for i := 0; i < 4; i++ {
		lineup[7+i] = player.New(player.Config{
			Name:         fmt.Sprintf("%s bowl %d", name, i+1),
			Role:         player.RoleBowler,
			BowlingStyle: styles[i],
			Batting:      player.BattingRatings{Timing: 30, Power: 40, Technique: 25, Temperament: 35},
			Bowling:      player.BowlingRatings{Pace: 70, Accuracy: 68, Variation: 60, Stamina: 70},
			Form:         50, Fitness: 100, Confidence: 50,
		})
	}
	return match.Side{Name: name, Lineup: lineup, Bowlers: lineup[7:]}
}

func newT20Runner(t *testing.T, seed int64, journal *memory.Store) *Runner {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m, err := match.NewLimitedMatch(match.FormatT20, simSide("Home"), simSide("Away"), rng)
	if err != nil {
		t.Fatalf("NewLimitedMatch: %v", err)
	}
	cfg := Config{
		MatchID:    "t20-1",
		Match:      m,
		Engine:     engine.New(rng, engine.DefaultTuning()),
		Conditions: conditions.New(conditions.PitchBalanced, conditions.WeatherSunny, conditions.GroundMedium, false),
		RNG:        rng,
	}
	if journal != nil {
		cfg.Journal = journal
	}
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func runToCompletion(t *testing.T, r *Runner) Snapshot {
	t.Helper()
	ctx := context.Background()
	var snap Snapshot
	for i := 0; i < 10000; i++ {
		var err error
		snap, err = r.FastForward(ctx, MaxBallsPerCall)
		if err != nil {
			t.Fatalf("FastForward: %v", err)
		}
		if snap.Complete {
			return snap
		}
	}
	t.Fatal("match did not complete")
	return snap
}

func TestT20RunsToResult(t *testing.T) {
	journal := memory.New()
	r := newT20Runner(t, 11, journal)
	snap := runToCompletion(t, r)

	if snap.Result.Kind == match.ResultNone {
		t.Fatalf("Result = %+v, want a decided match", snap.Result)
	}
	if snap.Result.Kind == match.ResultDraw {
		t.Fatal("limited-overs match reported a draw")
	}

	journalRecords, err := journal.ListDeliveries(context.Background(), "t20-1")
	if err != nil {
		t.Fatalf("ListDeliveries: %v", err)
	}
	legal := 0
	for _, record := range journalRecords {
		if record.Outcome != "wide" && record.Outcome != "no_ball" {
			legal++
		}
	}
	balls := 0
	for _, in := range r.m.Innings() {
		balls += in.LegalBalls()
	}
	if legal != balls {
		t.Fatalf("journal legal deliveries = %d, match legal balls = %d", legal, balls)
	}
}

func TestRunnerDeterminism(t *testing.T) {
	a := runToCompletion(t, newT20Runner(t, 99, nil))
	b := runToCompletion(t, newT20Runner(t, 99, nil))
	if a != b {
		t.Fatalf("same seed diverged:\n a %+v\n b %+v", a, b)
	}
	c := runToCompletion(t, newT20Runner(t, 100, nil))
	if a == c {
		t.Fatal("different seeds produced identical final snapshots")
	}
}

func TestPlayBallAfterCompletion(t *testing.T) {
	r := newT20Runner(t, 11, nil)
	runToCompletion(t, r)
	_, err := r.PlayBall(context.Background())
	if !apperrors.IsCode(err, apperrors.CodeMatchAlreadyComplete) {
		t.Fatalf("err = %v, want CodeMatchAlreadyComplete", err)
	}
}

func TestFastForwardCeiling(t *testing.T) {
	r := newT20Runner(t, 11, nil)
	for _, n := range []int{0, -5, MaxBallsPerCall + 1} {
		_, err := r.FastForward(context.Background(), n)
		if !apperrors.IsCode(err, apperrors.CodeSimBallCeilingInvalid) {
			t.Fatalf("FastForward(%d) err = %v, want CodeSimBallCeilingInvalid", n, err)
		}
	}
}

func TestFastForwardHonorsCancellation(t *testing.T) {
	r := newT20Runner(t, 11, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.FastForward(ctx, 6)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPlayOverStopsAtBoundary(t *testing.T) {
	r := newT20Runner(t, 11, nil)
	snap, err := r.PlayOver(context.Background())
	if err != nil {
		t.Fatalf("PlayOver: %v", err)
	}
	in := r.m.Innings()[0]
	if in.OverInProgress() != 0 {
		t.Fatalf("over in progress = %d balls after PlayOver, want 0", in.OverInProgress())
	}
	if snap.Overs != "1.0" {
		t.Fatalf("Overs = %q, want %q", snap.Overs, "1.0")
	}
}

func TestFeedbackLoopTouchesPlayers(t *testing.T) {
	home := simSide("Home")
	away := simSide("Away")
	rng := rand.New(rand.NewSource(21))
	m, err := match.NewLimitedMatch(match.FormatT20, home, away, rng)
	if err != nil {
		t.Fatalf("NewLimitedMatch: %v", err)
	}
	r, err := New(Config{
		MatchID:    "t20-2",
		Match:      m,
		Engine:     engine.New(rng, engine.DefaultTuning()),
		Conditions: conditions.New(conditions.PitchBalanced, conditions.WeatherSunny, conditions.GroundMedium, false),
		RNG:        rng,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runToCompletion(t, r)

	bowlerTired := false
	for _, side := range []match.Side{home, away} {
		for _, p := range side.Bowlers {
			if p.Fitness < 100 {
				bowlerTired = true
			}
		}
	}
	if !bowlerTired {
		t.Fatal("no bowler lost fitness over a full match")
	}

	confidenceMoved := false
	for _, p := range append(home.Lineup, away.Lineup...) {
		if p.Confidence != 55 && p.Confidence != 50 {
			confidenceMoved = true
		}
	}
	if !confidenceMoved {
		t.Fatal("no player's confidence moved over a full match")
	}
}

func TestTestMatchTerminates(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m, err := match.NewTestMatch(simSide("Alpha"), simSide("Beta"), rng)
	if err != nil {
		t.Fatalf("NewTestMatch: %v", err)
	}
	r, err := New(Config{
		MatchID:    "test-1",
		Match:      m,
		Engine:     engine.New(rng, engine.DefaultTuning()),
		Conditions: conditions.GenerateRandom(rng, true),
		RNG:        rng,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	var snap Snapshot
	for i := 0; i < 10000; i++ {
		snap, err = r.FastForward(ctx, MaxBallsPerCall)
		if err != nil {
			t.Fatalf("FastForward: %v", err)
		}
		if snap.Complete || m.IsComplete() {
			break
		}
	}
	if !m.IsComplete() {
		t.Fatal("test match did not terminate inside five days")
	}
	if res := m.Result(); res.Kind == match.ResultNone {
		t.Fatalf("Result = %+v after completion", res)
	}
	if m.Day() > match.DaysPerMatch {
		t.Fatalf("Day = %d, beyond the match length", m.Day())
	}
}

func TestNewRequiresComponents(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New with empty config succeeded")
	}
}
