package sim

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/samlindsay4/cricket-game/internal/conditions"
	"github.com/samlindsay4/cricket-game/internal/engine"
	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
	"github.com/samlindsay4/cricket-game/internal/match"
	"github.com/samlindsay4/cricket-game/internal/player"
	"github.com/samlindsay4/cricket-game/internal/scheduler"
	"github.com/samlindsay4/cricket-game/internal/storage"
)

// MaxBallsPerCall caps a single FastForward call.
const MaxBallsPerCall = 180

// ErrMatchComplete indicates a delivery was requested after the result.
var ErrMatchComplete = apperrors.New(apperrors.CodeMatchAlreadyComplete, "match is complete")

// Captaincy thresholds for the built-in declaration logic. Declarations stay
// well clear of the format minimums so a declared total is defensible.
const (
	declareFirstInningsScore = 450
	declareThirdInningsLead  = 300
)

// Wear and dew advance at session and day boundaries.
const (
	wearPerSession = 2
	wearPerNight   = 5
	dewPerNight    = 10
)

// Config assembles a runner.
type Config struct {
	MatchID    string
	Match      Controller
	Engine     *engine.Engine
	Conditions *conditions.Conditions
	RNG        *rand.Rand
	Journal    storage.JournalStore // optional per-delivery sink
	Logger     *log.Logger          // optional
	Tuning     Tuning               // zero value selects DefaultTuning
}

// Runner drives a match one delivery at a time.
type Runner struct {
	matchID string
	m       Controller
	engine  *engine.Engine
	conds   *conditions.Conditions
	rng     *rand.Rand
	journal storage.JournalStore
	logger  *log.Logger
	tuning  Tuning

	scheds           map[string]*scheduler.Scheduler
	pendingOver      bool
	oversThisSession int
	fatigueBalls     map[string]int
	last             Snapshot
}

// New validates config and builds a runner. The engine, match, and
// conditions are required.
func New(cfg Config) (*Runner, error) {
	if cfg.Match == nil {
		return nil, fmt.Errorf("match is required")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if cfg.Conditions == nil {
		return nil, fmt.Errorf("conditions are required")
	}
	tuning := cfg.Tuning
	if tuning == (Tuning{}) {
		tuning = DefaultTuning()
	}
	return &Runner{
		matchID:      cfg.MatchID,
		m:            cfg.Match,
		engine:       cfg.Engine,
		conds:        cfg.Conditions,
		rng:          cfg.RNG,
		journal:      cfg.Journal,
		logger:       cfg.Logger,
		tuning:       tuning,
		scheds:       make(map[string]*scheduler.Scheduler),
		pendingOver:  true,
		fatigueBalls: make(map[string]int),
	}, nil
}

// LastSnapshot returns the snapshot of the most recent delivery.
func (r *Runner) LastSnapshot() Snapshot { return r.last }

// PlayBall advances the match by exactly one delivery, handling any innings,
// session, or day transition that is due first. It returns the post-delivery
// snapshot.
func (r *Runner) PlayBall(ctx context.Context) (Snapshot, error) {
	return r.play(ctx, nil)
}

// PlayScripted applies a predetermined outcome instead of sampling one. The
// scenario tool uses it to script exact deliveries; all bookkeeping and
// transitions behave as for a sampled ball.
func (r *Runner) PlayScripted(ctx context.Context, outcome engine.BallOutcome) (Snapshot, error) {
	return r.play(ctx, &outcome)
}

func (r *Runner) play(ctx context.Context, forced *engine.BallOutcome) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return r.last, err
	}
	var in *match.Innings
	for {
		var err error
		in, err = r.liveInnings()
		if err != nil {
			return r.last, err
		}
		if r.pendingOver {
			r.startOver(in)
			if in.IsComplete() {
				// A declaration closed the innings at the over boundary.
				continue
			}
		}
		break
	}

	striker := in.Striker()
	bowler := in.Bowler()
	overs, _ := in.Overs()
	sit := engine.Situation{
		Format:     r.m.Format().EngineFormat(),
		Over:       overs,
		OversLimit: r.m.Format().OversPerInnings(),
		BallsFaced: r.strikerBalls(in),
	}
	if tm, ok := r.m.(*match.TestMatch); ok {
		sit.Day = tm.Day()
		sit.Session = tm.Session()
	}

	var outcome engine.BallOutcome
	if forced != nil {
		outcome = *forced
	} else {
		outcome = r.engine.ComputeOutcome(striker, bowler, sit, r.conds)
	}
	if err := in.ApplyBall(outcome); err != nil {
		return r.last, err
	}

	r.applyFeedback(striker, bowler, outcome)

	if outcome.IsLegalDelivery && in.LegalBalls()%match.BallsPerOver == 0 {
		r.finishOver(in, bowler)
	}

	if r.journal != nil {
		if err := r.appendJournal(ctx, in, striker, bowler, outcome); err != nil {
			return r.last, err
		}
	}

	r.last = r.snapshot(in, outcome)
	if r.last.Complete && r.logger != nil {
		r.logger.Printf("match %s: %s", r.matchID, r.last.Result.Summary)
	}
	return r.last, nil
}

// PlayOver advances to the end of the current over, stopping early when the
// innings or the match completes.
func (r *Runner) PlayOver(ctx context.Context) (Snapshot, error) {
	for {
		snap, err := r.PlayBall(ctx)
		if err != nil {
			return snap, err
		}
		if snap.Complete || r.pendingOver {
			return snap, nil
		}
		in := r.m.CurrentInnings()
		if in == nil || in.IsComplete() {
			return snap, nil
		}
	}
}

// FastForward plays up to n deliveries, honoring context cancellation at
// delivery boundaries. It stops cleanly when the match completes. n must be
// between 1 and MaxBallsPerCall.
func (r *Runner) FastForward(ctx context.Context, n int) (Snapshot, error) {
	if n <= 0 || n > MaxBallsPerCall {
		return r.last, apperrors.WithMetadata(apperrors.CodeSimBallCeilingInvalid,
			fmt.Sprintf("ball count must be between 1 and %d", MaxBallsPerCall),
			map[string]string{"Count": fmt.Sprintf("%d", n)})
	}
	snap := r.last
	for i := 0; i < n; i++ {
		if r.m.IsComplete() {
			return snap, nil
		}
		var err error
		snap, err = r.PlayBall(ctx)
		if err != nil {
			return snap, err
		}
		if snap.Complete {
			return snap, nil
		}
	}
	return snap, nil
}

// liveInnings returns the innings to bowl at, performing innings switches
// and declaration decisions that are due.
func (r *Runner) liveInnings() (*match.Innings, error) {
	for {
		if r.m.IsComplete() {
			return nil, ErrMatchComplete
		}
		in := r.m.CurrentInnings()
		if in == nil {
			return nil, ErrMatchComplete
		}
		if !in.IsComplete() {
			return in, nil
		}
		if err := r.switchInnings(); err != nil {
			return nil, err
		}
	}
}

func (r *Runner) switchInnings() error {
	if r.logger != nil {
		s := match.Summarize(r.m.CurrentInnings())
		r.logger.Printf("match %s: innings closed, %s", r.matchID, s.Scoreline())
	}
	switch m := r.m.(type) {
	case *match.LimitedMatch:
		if err := m.SwitchInnings(); err != nil {
			return err
		}
	case *match.TestMatch:
		// The built-in captain always enforces an available follow-on.
		if err := m.SwitchInnings(m.FollowOnAvailable()); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported match controller %T", r.m)
	}
	if r.m.IsComplete() {
		// An innings victory was sealed without the final innings.
		r.last.Complete = true
		r.last.Result = r.m.Result()
		if r.logger != nil {
			r.logger.Printf("match %s: %s", r.matchID, r.last.Result.Summary)
		}
		return nil
	}
	if sched, ok := r.scheds[r.m.BowlingSide().Name]; ok {
		sched.ResetForBreak()
	}
	r.pendingOver = true
	return nil
}

func (r *Runner) startOver(in *match.Innings) {
	r.maybeDeclare(in)
	if in.IsComplete() {
		return
	}
	sched := r.schedulerFor(r.m.BowlingSide())
	overs, _ := in.Overs()
	bowler := sched.SelectNextBowler(overs, in.Bowler())
	in.StartOver(bowler)
	r.pendingOver = false
}

func (r *Runner) finishOver(in *match.Innings, bowler *player.Participant) {
	overs, _ := in.Overs()
	sched := r.schedulerFor(r.m.BowlingSide())
	sched.UpdateSpell(bowler, overs-1, in.CurrentOverConceded(), in.CurrentOverWickets())
	bowler.AdjustFitness(-r.tuning.BowlerFitnessPerOver)
	r.pendingOver = true

	if r.m.Format().MultiDay() {
		r.oversThisSession++
		if r.oversThisSession >= match.OversPerSession {
			r.endSession()
		}
	}
}

// endSession closes the session or, after the last session, the day.
func (r *Runner) endSession() {
	tm, ok := r.m.(*match.TestMatch)
	if !ok {
		return
	}
	r.oversThisSession = 0
	if tm.Session() < match.SessionsPerDay {
		if err := tm.NextSession(); err != nil {
			return
		}
		r.conds.AdvanceWear(wearPerSession)
		for _, sched := range r.scheds {
			sched.ResetForBreak()
		}
		if r.logger != nil {
			r.logger.Printf("match %s: day %d session %d", r.matchID, tm.Day(), tm.Session())
		}
		return
	}
	if err := tm.NextDay(); err != nil {
		return
	}
	r.conds.AdvanceWear(wearPerNight)
	r.conds.AdvanceDew(dewPerNight)
	for _, sched := range r.scheds {
		sched.ResetForNewDay()
	}
	if r.logger != nil && !tm.IsComplete() {
		r.logger.Printf("match %s: start of day %d", r.matchID, tm.Day())
	}
}

// maybeDeclare applies the built-in captaincy: declare once the total is
// well beyond the format minimums.
func (r *Runner) maybeDeclare(in *match.Innings) {
	tm, ok := r.m.(*match.TestMatch)
	if !ok {
		return
	}
	overs, _ := in.Overs()
	if overs < match.DeclarationMinOvers {
		return
	}
	switch len(tm.Innings()) {
	case 1:
		if in.Score() < declareFirstInningsScore {
			return
		}
	case 3:
		if tm.Lead() < declareThirdInningsLead {
			return
		}
	default:
		return
	}
	if err := tm.Declare(); err == nil && r.logger != nil {
		r.logger.Printf("match %s: %s declared at %s", r.matchID, in.BattingSideName(), match.Summarize(in).Scoreline())
	}
}

func (r *Runner) applyFeedback(striker, bowler *player.Participant, outcome engine.BallOutcome) {
	switch {
	case outcome.Kind.IsBoundary():
		striker.AdjustConfidence(r.tuning.ConfidenceBoundary)
		bowler.AdjustConfidence(-r.tuning.ConfidenceBowlerBoundary)
	case outcome.Kind == engine.OutcomeWicket:
		striker.AdjustConfidence(-r.tuning.ConfidenceDismissed)
		if outcome.Wicket != engine.WicketRunOut {
			bowler.AdjustConfidence(r.tuning.ConfidenceBowlerWicket)
		}
	}
	if outcome.IsLegalDelivery && r.tuning.BatterFitnessBalls > 0 {
		r.fatigueBalls[striker.ID]++
		if r.fatigueBalls[striker.ID] >= r.tuning.BatterFitnessBalls {
			r.fatigueBalls[striker.ID] = 0
			striker.AdjustFitness(-1)
		}
	}
}

func (r *Runner) appendJournal(ctx context.Context, in *match.Innings, striker, bowler *player.Participant, outcome engine.BallOutcome) error {
	overs, balls := in.Overs()
	wicket := ""
	if outcome.Wicket != engine.WicketNone {
		wicket = outcome.Wicket.String()
	}
	return r.journal.AppendDelivery(ctx, storage.DeliveryRecord{
		MatchID:   r.matchID,
		Innings:   len(r.m.Innings()),
		Over:      overs,
		Ball:      balls,
		Batter:    striker.Name,
		Bowler:    bowler.Name,
		Outcome:   outcome.Kind.String(),
		Runs:      outcome.Runs,
		Wicket:    wicket,
		Score:     in.Score(),
		Wickets:   in.Wickets(),
		CreatedAt: time.Now().UTC(),
	})
}

func (r *Runner) schedulerFor(side match.Side) *scheduler.Scheduler {
	if sched, ok := r.scheds[side.Name]; ok {
		return sched
	}
	pool := side.Bowlers
	if len(pool) == 0 {
		pool = side.Lineup
	}
	sched := scheduler.New(pool, scheduler.DefaultTuning())
	r.scheds[side.Name] = sched
	return sched
}

func (r *Runner) strikerBalls(in *match.Innings) int {
	striker := in.Striker()
	for _, stat := range in.Batsmen() {
		if stat.Player == striker {
			return stat.Balls
		}
	}
	return 0
}

func (r *Runner) snapshot(in *match.Innings, outcome engine.BallOutcome) Snapshot {
	overs, balls := in.Overs()
	snap := Snapshot{
		MatchID:       r.matchID,
		Format:        r.m.Format().String(),
		InningsNumber: len(r.m.Innings()),
		BattingSide:   in.BattingSideName(),
		Score:         in.Score(),
		Wickets:       in.Wickets(),
		Overs:         fmt.Sprintf("%d.%d", overs, balls),
		Target:        in.Target(),
		LastOutcome:   outcome.Kind.String(),
		LastRuns:      outcome.Runs,
		Complete:      r.m.IsComplete(),
		Result:        r.m.Result(),
	}
	if outcome.Wicket != engine.WicketNone {
		snap.LastWicket = outcome.Wicket.String()
	}
	if !snap.Complete {
		snap.BowlingSide = r.m.BowlingSide().Name
	}
	if s := in.Striker(); s != nil {
		snap.Striker = s.Name
	}
	if s := in.NonStriker(); s != nil {
		snap.NonStriker = s.Name
	}
	if b := in.Bowler(); b != nil {
		snap.Bowler = b.Name
	}
	if tm, ok := r.m.(*match.TestMatch); ok {
		snap.Day = tm.Day()
		snap.Session = tm.Session()
	}
	return snap
}
