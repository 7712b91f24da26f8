// Package sim advances matches delivery by delivery. The runner is the sole
// writer of match state and of the short-term player state it feeds back
// into: confidence and fitness shift as a consequence of play, never from
// the outside.
package sim

import (
	"github.com/samlindsay4/cricket-game/internal/match"
)

// Tuning holds the feedback-loop parameters.
type Tuning struct {
	// ConfidenceBoundary is the striker's confidence gain on a boundary.
	ConfidenceBoundary int
	// ConfidenceDismissed is the confidence cost of getting out.
	ConfidenceDismissed int
	// ConfidenceBowlerWicket is the bowler's confidence gain on a wicket.
	ConfidenceBowlerWicket int
	// ConfidenceBowlerBoundary is the bowler's confidence cost when hit for
	// a boundary.
	ConfidenceBowlerBoundary int
	// BowlerFitnessPerOver is the fitness cost of bowling one over.
	BowlerFitnessPerOver int
	// BatterFitnessBalls is how many balls faced cost the striker one
	// fitness point.
	BatterFitnessBalls int
}

// DefaultTuning returns the standard feedback parameters.
func DefaultTuning() Tuning {
	return Tuning{
		ConfidenceBoundary:       3,
		ConfidenceDismissed:      10,
		ConfidenceBowlerWicket:   5,
		ConfidenceBowlerBoundary: 1,
		BowlerFitnessPerOver:     2,
		BatterFitnessBalls:       30,
	}
}

// Controller is the slice of the match state machine the runner drives.
// Both limited-overs and Test matches satisfy it; the transitions that
// differ between them are handled by the runner per concrete type.
type Controller interface {
	Format() match.Format
	CurrentInnings() *match.Innings
	BattingSide() match.Side
	BowlingSide() match.Side
	Innings() []*match.Innings
	IsComplete() bool
	Result() match.Result
}

// Snapshot is an immutable view of the match taken after a delivery.
// Observers react to snapshots; they never reach into live state.
type Snapshot struct {
	MatchID       string
	Format        string
	InningsNumber int
	BattingSide   string
	BowlingSide   string
	Score         int
	Wickets       int
	Overs         string
	Target        int
	Day           int // zero outside multi-day play
	Session       int
	Striker       string
	NonStriker    string
	Bowler        string
	LastOutcome   string
	LastRuns      int
	LastWicket    string
	Complete      bool
	Result        match.Result
}
