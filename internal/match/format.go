// Package match owns score, wickets, strike, partnerships, and the innings,
// session, and day transitions of a cricket match.
//
// The state machine is single-writer: only this package (driven by the
// simulation runner) mutates match state and the short-term player state
// attached to it. Observers read between deliveries via summaries and
// snapshots, never during a step.
package match

import "github.com/samlindsay4/cricket-game/internal/engine"

// Format discriminates the match variants. Format-specific behavior hangs off
// this tag rather than an inheritance chain: limited-overs and multi-day
// matches share the same innings ball-application logic and compose it with
// their own transition rules.
type Format int

const (
	FormatT20 Format = iota
	FormatODI
	FormatTest
)

func (f Format) String() string {
	switch f {
	case FormatT20:
		return "t20"
	case FormatODI:
		return "odi"
	case FormatTest:
		return "test"
	default:
		return "unknown"
	}
}

// OversPerInnings returns the innings cap in overs; zero means uncapped.
func (f Format) OversPerInnings() int {
	switch f {
	case FormatT20:
		return 20
	case FormatODI:
		return 50
	default:
		return 0
	}
}

// MultiDay reports whether the format is played over multiple days.
func (f Format) MultiDay() bool {
	return f == FormatTest
}

// Limited reports whether the format caps each innings at a fixed over count.
func (f Format) Limited() bool {
	return f.OversPerInnings() > 0
}

// EngineFormat maps the match format onto the probability engine's
// base-rate table selector.
func (f Format) EngineFormat() engine.Format {
	if f.MultiDay() {
		return engine.FormatMultiDay
	}
	return engine.FormatLimited
}

// Test match shape constants.
const (
	DaysPerMatch    = 5
	SessionsPerDay  = 3
	OversPerSession = 30
	InningsPerTest  = 4

	// FollowOnDeficit is the first-innings lead required to enforce the
	// follow-on.
	FollowOnDeficit = 200

	// DeclarationMinOvers is the minimum overs bowled in an innings before a
	// captain may declare.
	DeclarationMinOvers = 60

	// DeclarationMinScoreFirst and DeclarationMinLeadThird gate declarations
	// in the first and third innings respectively.
	DeclarationMinScoreFirst = 300
	DeclarationMinLeadThird  = 150

	// OvernightFitnessRecovery is added to every player's fitness at the
	// start of a new day, capped at 100.
	OvernightFitnessRecovery = 10
)

// LineupSize is the number of players in a playing XI.
const LineupSize = 11

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6
