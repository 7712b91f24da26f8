// Package engine converts skill, situation, and conditions into ball outcomes.
//
// The engine is deterministic with respect to its injected random source:
// given the same *rand.Rand state and the same inputs, ComputeOutcome returns
// the same BallOutcome. All sampling (outcome selection and wicket-kind
// selection) draws from that single source.
package engine

import (
	"math/rand"

	"github.com/samlindsay4/cricket-game/internal/conditions"
	"github.com/samlindsay4/cricket-game/internal/core/prob"
	"github.com/samlindsay4/cricket-game/internal/player"
)

// Format selects the base-rate table.
type Format int

const (
	// FormatLimited is limited-overs play: more boundaries, more wickets.
	FormatLimited Format = iota
	// FormatMultiDay is Test play: more dots, far fewer sixes.
	FormatMultiDay
)

// Tuning holds the engine's adjustable constants. The values are ad hoc by
// design; they shape the feel of the simulation rather than guarantee any
// real-world calibration.
type Tuning struct {
	// FatigueFitnessFloor is the fitness level under which a bowler leaks
	// boundaries and loses penetration.
	FatigueFitnessFloor int
	// LongInningsBalls is the balls-faced threshold after which a multi-day
	// batter tires, lifting wicket and dot rates.
	LongInningsBalls int
}

// DefaultTuning returns the stock engine constants.
func DefaultTuning() Tuning {
	return Tuning{
		FatigueFitnessFloor: 70,
		LongInningsBalls:    120,
	}
}

// Situation is the slice of match state the engine reads.
type Situation struct {
	Format Format
	// Over is the zero-based index of the over in progress.
	Over int
	// OversLimit is the innings cap in overs; zero means unlimited.
	OversLimit int
	// Day and Session are 1-based and only meaningful for multi-day play.
	Day     int
	Session int
	// BallsFaced is the striker's legal balls faced so far this innings.
	BallsFaced int
}

// Engine samples ball outcomes from a weighted table.
type Engine struct {
	rng    *rand.Rand
	tuning Tuning
}

// New creates an Engine drawing from the provided random source.
func New(rng *rand.Rand, tuning Tuning) *Engine {
	if rng == nil {
		panic("engine: rng is required")
	}
	return &Engine{rng: rng, tuning: tuning}
}

// Base rates per 100 balls, before adjustment. The limited-overs table runs
// materially hotter on boundaries and wickets; the multi-day table is
// dot-heavy with a token six rate.
func baseTable(format Format) *prob.Table {
	if format == FormatMultiDay {
		return prob.NewTable(
			prob.Entry{Label: "dot", Weight: 47},
			prob.Entry{Label: "single", Weight: 21},
			prob.Entry{Label: "two", Weight: 8},
			prob.Entry{Label: "three", Weight: 1.5},
			prob.Entry{Label: "four", Weight: 9},
			prob.Entry{Label: "six", Weight: 1.5},
			prob.Entry{Label: "wicket", Weight: 4},
			prob.Entry{Label: "wide", Weight: 4.5},
			prob.Entry{Label: "no_ball", Weight: 2.5},
		)
	}
	return prob.NewTable(
		prob.Entry{Label: "dot", Weight: 30},
		prob.Entry{Label: "single", Weight: 25},
		prob.Entry{Label: "two", Weight: 9},
		prob.Entry{Label: "three", Weight: 1.5},
		prob.Entry{Label: "four", Weight: 13},
		prob.Entry{Label: "six", Weight: 7},
		prob.Entry{Label: "wicket", Weight: 5},
		prob.Entry{Label: "wide", Weight: 5.5},
		prob.Entry{Label: "no_ball", Weight: 3},
	)
}

// BaseBoundaryRate returns the unadjusted four+six share for a format,
// as a fraction of 100.
func BaseBoundaryRate(format Format) float64 {
	table := baseTable(format)
	total := table.Total()
	return (table.Weight("four") + table.Weight("six")) / total * 100
}

var boundaryLabels = []string{"four", "six"}

// ComputeOutcome samples one ball outcome. A nil batter or bowler is a caller
// error and panics.
func (e *Engine) ComputeOutcome(batter, bowler *player.Participant, sit Situation, cond *conditions.Conditions) BallOutcome {
	if batter == nil {
		panic("engine: batter is required")
	}
	if bowler == nil {
		panic("engine: bowler is required")
	}
	if cond == nil {
		panic("engine: conditions are required")
	}

	table := baseTable(sit.Format)

	// Skill differential, scaled into roughly [-0.5, 0.5].
	diff := float64(batter.BattingRating() - bowler.BowlingRating())
	factor := diff / 200
	table.Scale("dot", 1-factor)
	table.Scale("wicket", 1-factor)
	table.ScaleEach(boundaryLabels, 1+factor)

	// Batting style. Aggression trades wickets for boundaries.
	switch batter.BattingStyle {
	case player.BatAggressive:
		table.ScaleEach(boundaryLabels, 1.25)
		table.Scale("wicket", 1.15)
		table.Scale("dot", 0.85)
	case player.BatDefensive:
		table.ScaleEach(boundaryLabels, 0.8)
		table.Scale("wicket", 0.85)
		table.Scale("dot", 1.2)
	}

	// Psychology. Patience damps the wicket rate in the long format; form and
	// confidence nudge rates in both.
	if sit.Format == FormatMultiDay {
		patience := float64(batter.Batting.Temperament+batter.Mental.Concentration) / 2
		table.Scale("wicket", 1-(patience-50)/250)
	}
	formShift := float64(batter.Form-50) / 500
	confShift := float64(batter.Confidence-50) / 500
	table.ScaleEach(boundaryLabels, 1+formShift+confShift)
	table.Scale("wicket", 1-formShift-confShift)
	table.Scale("dot", 1-confShift/2)

	// Conditions.
	mods := cond.BattingModifiers()
	table.Scale("dot", mods.Dot)
	table.ScaleEach(boundaryLabels, mods.Boundary)
	table.Scale("two", mods.TwoThree)
	table.Scale("three", mods.TwoThree)
	table.Scale("wicket", mods.Wicket)

	eff := cond.BowlingEffectiveness(bowlingKind(bowler.BowlingStyle))
	table.Scale("wicket", eff)
	table.Scale("dot", 1+(eff-1)*0.5)
	table.ScaleEach(boundaryLabels, 1-(eff-1)*0.5)

	// Situation.
	e.applyPhase(table, bowler, sit)

	// Fatigue.
	if bowler.Fitness < e.tuning.FatigueFitnessFloor {
		table.ScaleEach(boundaryLabels, 1.15)
		table.Scale("wicket", 0.85)
	}
	if sit.Format == FormatMultiDay && sit.BallsFaced > e.tuning.LongInningsBalls {
		table.Scale("wicket", 1.2)
		table.Scale("dot", 1.1)
	}

	if err := table.Normalize(); err != nil {
		// Base weights are positive constants and every factor clamps at
		// zero, so a non-positive total is unreachable.
		panic("engine: " + err.Error())
	}
	label, err := table.Sample(e.rng)
	if err != nil {
		panic("engine: " + err.Error())
	}

	outcome := outcomeFor(kindFromLabel(label))
	if outcome.Kind == OutcomeWicket {
		outcome.Wicket = e.sampleWicketKind(bowler.BowlingStyle)
	}
	return outcome
}

// applyPhase applies powerplay/death-over multipliers in limited-overs play
// and new-ball/session/day multipliers in multi-day play.
func (e *Engine) applyPhase(table *prob.Table, bowler *player.Participant, sit Situation) {
	if sit.Format == FormatLimited {
		powerplay := 10
		if sit.OversLimit > 0 && sit.OversLimit <= 20 {
			powerplay = 6
		}
		if sit.Over < powerplay {
			table.ScaleEach(boundaryLabels, 1.2)
			table.Scale("wicket", 1.1)
			table.Scale("dot", 0.85)
		}
		if sit.OversLimit > 0 && sit.Over >= sit.OversLimit-5 {
			table.ScaleEach(boundaryLabels, 1.3)
			table.Scale("wicket", 1.25)
			table.Scale("dot", 0.8)
			table.Scale("single", 0.9)
		}
		return
	}

	// New ball: the first 10 legal overs of each 80-over cycle.
	if sit.Over%80 < 10 {
		table.Scale("wicket", 1.2)
		table.Scale("dot", 1.1)
		table.ScaleEach(boundaryLabels, 0.9)
	}
	// Morning session favors the bowling side.
	if sit.Session == 1 {
		table.Scale("wicket", 1.1)
		table.Scale("dot", 1.05)
	}
	switch {
	case sit.Day >= 1 && sit.Day <= 2:
		table.Scale("wicket", 1.05)
	case sit.Day >= 4:
		if bowler.BowlingStyle.IsSpin() {
			table.Scale("wicket", 1.15)
			table.Scale("dot", 1.05)
		}
	}
}

// sampleWicketKind picks how the batter fell, weighted by the bowling family.
// Pace leans on bowled and lbw; spin adds stumpings.
func (e *Engine) sampleWicketKind(style player.BowlingStyle) WicketKind {
	var table *prob.Table
	if style.IsSpin() {
		table = prob.NewTable(
			prob.Entry{Label: "bowled", Weight: 16},
			prob.Entry{Label: "caught", Weight: 34},
			prob.Entry{Label: "lbw", Weight: 26},
			prob.Entry{Label: "stumped", Weight: 17},
			prob.Entry{Label: "run_out", Weight: 5},
			prob.Entry{Label: "hit_wicket", Weight: 2},
		)
	} else {
		table = prob.NewTable(
			prob.Entry{Label: "bowled", Weight: 32},
			prob.Entry{Label: "caught", Weight: 38},
			prob.Entry{Label: "lbw", Weight: 20},
			prob.Entry{Label: "stumped", Weight: 1},
			prob.Entry{Label: "run_out", Weight: 4},
			prob.Entry{Label: "hit_wicket", Weight: 5},
		)
	}
	if err := table.Normalize(); err != nil {
		panic("engine: " + err.Error())
	}
	label, err := table.Sample(e.rng)
	if err != nil {
		panic("engine: " + err.Error())
	}
	return wicketFromLabel(label)
}

func bowlingKind(style player.BowlingStyle) conditions.BowlingKind {
	if style.IsSpin() {
		return conditions.KindSpin
	}
	return conditions.KindPace
}
