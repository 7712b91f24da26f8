package scenario

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/samlindsay4/cricket-game/internal/conditions"
	"github.com/samlindsay4/cricket-game/internal/engine"
	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
	"github.com/samlindsay4/cricket-game/internal/match"
	"github.com/samlindsay4/cricket-game/internal/player"
	"github.com/samlindsay4/cricket-game/internal/roster"
	"github.com/samlindsay4/cricket-game/internal/sim"
)

type scenarioState struct {
	name     string
	format   match.Format
	seed     int64
	homeSeed int64
	awaySeed int64
	homeName string
	awayName string
	conds    *conditions.Conditions

	controller sim.Controller
	runner     *sim.Runner
}

func newScenarioState(name string) *scenarioState {
	return &scenarioState{name: name, format: match.FormatT20, seed: 1}
}

func invalidStep(format string, args ...any) error {
	return apperrors.New(apperrors.CodeScenarioInvalidStep, fmt.Sprintf(format, args...))
}

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "format":
		return r.stepFormat(state, step.Args)
	case "seed":
		return r.stepSeed(state, step.Args)
	case "teams":
		return r.stepTeams(state, step.Args)
	case "conditions":
		return r.stepConditions(state, step.Args)
	case "deliver":
		return r.stepDeliver(ctx, state, step.Args)
	case "fast_forward":
		return r.stepFastForward(ctx, state, step.Args)
	case "play_over":
		return r.stepPlayOver(ctx, state)
	case "declare":
		return r.stepDeclare(state)
	case "expect_score":
		return r.stepExpectScore(state, step.Args)
	case "expect_complete":
		return r.stepExpectComplete(state)
	case "expect_result":
		return r.stepExpectResult(state, step.Args)
	default:
		return invalidStep("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) stepFormat(state *scenarioState, args map[string]any) error {
	if state.runner != nil {
		return invalidStep("format must precede the first delivery")
	}
	value, _ := args["value"].(string)
	switch value {
	case "t20":
		state.format = match.FormatT20
	case "odi":
		state.format = match.FormatODI
	case "test":
		state.format = match.FormatTest
	default:
		return invalidStep("unknown format %q", value)
	}
	return nil
}

func (r *Runner) stepSeed(state *scenarioState, args map[string]any) error {
	if state.runner != nil {
		return invalidStep("seed must precede the first delivery")
	}
	value, ok := args["value"].(int)
	if !ok {
		return invalidStep("seed requires a number")
	}
	state.seed = int64(value)
	return nil
}

func (r *Runner) stepTeams(state *scenarioState, args map[string]any) error {
	if state.runner != nil {
		return invalidStep("teams must precede the first delivery")
	}
	if name, ok := args["home"].(string); ok {
		state.homeName = name
	}
	if name, ok := args["away"].(string); ok {
		state.awayName = name
	}
	if seed, ok := args["home_seed"].(int); ok {
		state.homeSeed = int64(seed)
	}
	if seed, ok := args["away_seed"].(int); ok {
		state.awaySeed = int64(seed)
	}
	return nil
}

var pitchNames = map[string]conditions.PitchType{
	"batting":  conditions.PitchBatting,
	"bowling":  conditions.PitchBowling,
	"balanced": conditions.PitchBalanced,
	"turning":  conditions.PitchTurning,
	"slow":     conditions.PitchSlow,
	"bouncy":   conditions.PitchBouncy,
}

var weatherNames = map[string]conditions.Weather{
	"sunny":    conditions.WeatherSunny,
	"overcast": conditions.WeatherOvercast,
	"humid":    conditions.WeatherHumid,
	"rain":     conditions.WeatherRain,
	"windy":    conditions.WeatherWindy,
}

var groundNames = map[string]conditions.GroundSize{
	"small":  conditions.GroundSmall,
	"medium": conditions.GroundMedium,
	"large":  conditions.GroundLarge,
}

func (r *Runner) stepConditions(state *scenarioState, args map[string]any) error {
	if state.runner != nil {
		return invalidStep("conditions must precede the first delivery")
	}
	pitch := conditions.PitchBalanced
	weather := conditions.WeatherSunny
	ground := conditions.GroundMedium
	altitude := false
	if value, ok := args["pitch"].(string); ok {
		p, found := pitchNames[value]
		if !found {
			return invalidStep("unknown pitch %q", value)
		}
		pitch = p
	}
	if value, ok := args["weather"].(string); ok {
		w, found := weatherNames[value]
		if !found {
			return invalidStep("unknown weather %q", value)
		}
		weather = w
	}
	if value, ok := args["ground"].(string); ok {
		g, found := groundNames[value]
		if !found {
			return invalidStep("unknown ground %q", value)
		}
		ground = g
	}
	if value, ok := args["altitude"].(bool); ok {
		altitude = value
	}
	state.conds = conditions.New(pitch, weather, ground, altitude)
	return nil
}

var wicketNames = map[string]engine.WicketKind{
	"bowled":     engine.WicketBowled,
	"caught":     engine.WicketCaught,
	"lbw":        engine.WicketLBW,
	"run_out":    engine.WicketRunOut,
	"stumped":    engine.WicketStumped,
	"hit_wicket": engine.WicketHitWicket,
}

var runKinds = map[int]engine.OutcomeKind{
	0: engine.OutcomeDot,
	1: engine.OutcomeSingle,
	2: engine.OutcomeTwo,
	3: engine.OutcomeThree,
	4: engine.OutcomeFour,
	6: engine.OutcomeSix,
}

func (r *Runner) stepDeliver(ctx context.Context, state *scenarioState, args map[string]any) error {
	if err := r.ensureMatch(state); err != nil {
		return err
	}
	var outcome engine.BallOutcome
	switch {
	case truthy(args["wide"]):
		outcome = engine.BallOutcome{Kind: engine.OutcomeWide, Runs: 1}
	case truthy(args["no_ball"]):
		outcome = engine.BallOutcome{Kind: engine.OutcomeNoBall, Runs: 1}
	default:
		if name, ok := args["wicket"].(string); ok {
			kind, found := wicketNames[name]
			if !found {
				return invalidStep("unknown wicket kind %q", name)
			}
			outcome = engine.BallOutcome{Kind: engine.OutcomeWicket, Wicket: kind, IsLegalDelivery: true}
			break
		}
		runs, _ := args["runs"].(int)
		kind, found := runKinds[runs]
		if !found {
			return invalidStep("cannot deliver %d runs", runs)
		}
		outcome = engine.BallOutcome{Kind: kind, Runs: runs, IsLegalDelivery: true}
	}
	_, err := state.runner.PlayScripted(ctx, outcome)
	return err
}

func (r *Runner) stepFastForward(ctx context.Context, state *scenarioState, args map[string]any) error {
	balls, ok := args["balls"].(int)
	if !ok || balls <= 0 {
		return invalidStep("fast_forward requires a positive ball count")
	}
	if err := r.ensureMatch(state); err != nil {
		return err
	}
	for balls > 0 {
		chunk := balls
		if chunk > sim.MaxBallsPerCall {
			chunk = sim.MaxBallsPerCall
		}
		snap, err := state.runner.FastForward(ctx, chunk)
		if err != nil {
			return err
		}
		if snap.Complete {
			return nil
		}
		balls -= chunk
	}
	return nil
}

func (r *Runner) stepPlayOver(ctx context.Context, state *scenarioState) error {
	if err := r.ensureMatch(state); err != nil {
		return err
	}
	_, err := state.runner.PlayOver(ctx)
	return err
}

func (r *Runner) stepDeclare(state *scenarioState) error {
	if err := r.ensureMatch(state); err != nil {
		return err
	}
	tm, ok := state.controller.(*match.TestMatch)
	if !ok {
		return invalidStep("declare is only available in test matches")
	}
	return tm.Declare()
}

func (r *Runner) stepExpectScore(state *scenarioState, args map[string]any) error {
	if err := r.ensureMatch(state); err != nil {
		return err
	}
	innings := state.controller.Innings()
	in := innings[len(innings)-1]
	if runs, ok := args["runs"].(int); ok {
		if err := r.assertions.Check(in.Score() == runs,
			"score is %d, expected %d", in.Score(), runs); err != nil {
			return err
		}
	}
	if wickets, ok := args["wickets"].(int); ok {
		if err := r.assertions.Check(in.Wickets() == wickets,
			"wickets are %d, expected %d", in.Wickets(), wickets); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) stepExpectComplete(state *scenarioState) error {
	if err := r.ensureMatch(state); err != nil {
		return err
	}
	return r.assertions.Check(state.controller.IsComplete(), "match is not complete")
}

func (r *Runner) stepExpectResult(state *scenarioState, args map[string]any) error {
	if err := r.ensureMatch(state); err != nil {
		return err
	}
	result := state.controller.Result()
	if kind, ok := args["kind"].(string); ok {
		want, found := map[string]match.ResultKind{
			"win":  match.ResultWin,
			"tie":  match.ResultTie,
			"draw": match.ResultDraw,
		}[kind]
		if !found {
			return invalidStep("unknown result kind %q", kind)
		}
		if err := r.assertions.Check(result.Kind == want,
			"result kind is %v, expected %s", result.Kind, kind); err != nil {
			return err
		}
	}
	if winner, ok := args["winner"].(string); ok {
		if err := r.assertions.Check(result.Winner == winner,
			"winner is %q, expected %q", result.Winner, winner); err != nil {
			return err
		}
	}
	return nil
}

// ensureMatch builds the simulation on the first play or expect step.
func (r *Runner) ensureMatch(state *scenarioState) error {
	if state.runner != nil {
		return nil
	}
	if state.homeSeed == 0 {
		state.homeSeed = state.seed + 1
	}
	if state.awaySeed == 0 {
		state.awaySeed = state.seed + 2
	}

	home, err := buildSide(state.homeName, state.homeSeed)
	if err != nil {
		return err
	}
	away, err := buildSide(state.awayName, state.awaySeed)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(state.seed))
	if state.conds == nil {
		state.conds = conditions.GenerateRandom(rng, state.format.MultiDay())
	}

	var controller sim.Controller
	if state.format.MultiDay() {
		controller, err = match.NewTestMatch(home, away, rng)
	} else {
		controller, err = match.NewLimitedMatch(state.format, home, away, rng)
	}
	if err != nil {
		return err
	}

	runner, err := sim.New(sim.Config{
		MatchID:    state.name,
		Match:      controller,
		Engine:     engine.New(rng, engine.DefaultTuning()),
		Conditions: state.conds,
		RNG:        rng,
		Logger:     r.logger,
	})
	if err != nil {
		return err
	}
	state.controller = controller
	state.runner = runner
	return nil
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

func truthy(value any) bool {
	b, ok := value.(bool)
	return ok && b
}
