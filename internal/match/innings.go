package match

import (
	"fmt"
	"math/rand"

	"github.com/samlindsay4/cricket-game/internal/engine"
	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
	"github.com/samlindsay4/cricket-game/internal/player"
)

var (
	// ErrAlreadyComplete indicates a delivery was applied to a finished innings.
	ErrAlreadyComplete = apperrors.New(apperrors.CodeMatchAlreadyComplete, "innings is already complete")
	// ErrNoBatterRemaining indicates the line-up ran out before ten wickets,
	// which is a match data error.
	ErrNoBatterRemaining = apperrors.New(apperrors.CodeMatchNoBatterRemaining, "no batter remaining in line-up")
)

// InningsConfig contains the inputs for starting an innings.
type InningsConfig struct {
	Format          Format
	BattingSideName string
	BattingOrder    []*player.Participant // exactly LineupSize entries
	BowlingSide     []*player.Participant // for dismissal attribution
	Target          int                   // runs to win; zero means no target
	RNG             *rand.Rand            // fielder attribution on dismissals
}

// Innings is one team's batting turn. The first two batters in the order
// open; the rest come in as wickets fall.
type Innings struct {
	format          Format
	battingSideName string
	battingOrder    []*player.Participant
	bowlingSide     []*player.Participant
	rng             *rand.Rand

	striker    *player.Participant
	nonStriker *player.Participant
	bowler     *player.Participant
	nextBatter int

	score      int
	wickets    int
	legalBalls int
	extras     int
	wides      int
	noBalls    int
	target     int
	declared   bool

	falls        []FallOfWicket
	batsmen      []*BatsmanStat
	batsmenIndex map[string]*BatsmanStat
	bowlers      []*BowlerStat
	bowlersIndex map[string]*BowlerStat

	partnership  Partnership
	partnerships []Partnership

	overConceded int
	overWickets  int
}

// NewInnings starts an innings with the first two batters at the crease.
func NewInnings(cfg InningsConfig) (*Innings, error) {
	if len(cfg.BattingOrder) != LineupSize {
		return nil, apperrors.WithMetadata(apperrors.CodeMatchInvalidLineup,
			fmt.Sprintf("batting order has %d players, want %d", len(cfg.BattingOrder), LineupSize),
			map[string]string{"Size": fmt.Sprintf("%d", len(cfg.BattingOrder))})
	}
	for _, p := range cfg.BattingOrder {
		if p == nil {
			return nil, apperrors.New(apperrors.CodeMatchInvalidLineup, "batting order contains a nil player")
		}
	}

	in := &Innings{
		format:          cfg.Format,
		battingSideName: cfg.BattingSideName,
		battingOrder:    cfg.BattingOrder,
		bowlingSide:     cfg.BowlingSide,
		rng:             cfg.RNG,
		striker:         cfg.BattingOrder[0],
		nonStriker:      cfg.BattingOrder[1],
		nextBatter:      2,
		target:          cfg.Target,
		batsmenIndex:    make(map[string]*BatsmanStat),
		bowlersIndex:    make(map[string]*BowlerStat),
	}
	in.partnership = Partnership{First: in.striker, Second: in.nonStriker}
	in.batsmanStat(in.striker)
	in.batsmanStat(in.nonStriker)
	return in, nil
}

// StartOver assigns the bowler for the over about to start and resets the
// per-over bookkeeping. A nil bowler is a caller error and panics.
func (in *Innings) StartOver(bowler *player.Participant) {
	if bowler == nil {
		panic("match: bowler is required")
	}
	if bowler == in.striker || bowler == in.nonStriker {
		panic("match: bowler cannot be at the crease")
	}
	in.bowler = bowler
	in.bowlerStat(bowler)
	in.overConceded = 0
	in.overWickets = 0
}

// ApplyBall applies one delivery to the innings. Calling it before a striker
// and bowler are assigned is a programming error and panics; applying a ball
// to a completed innings is rejected with ErrAlreadyComplete.
func (in *Innings) ApplyBall(out engine.BallOutcome) error {
	if in.striker == nil || in.nonStriker == nil {
		panic("match: striker and non-striker must be set")
	}
	if in.bowler == nil {
		panic("match: bowler must be set")
	}
	if in.IsComplete() {
		return ErrAlreadyComplete
	}

	bw := in.bowlerStat(in.bowler)
	bw.Runs += out.Runs
	in.overConceded += out.Runs

	if !out.IsLegalDelivery {
		// Wides and no-balls: team and bowler pay, the batter faces nothing
		// and the legal-ball counter stands still.
		in.score += out.Runs
		in.extras += out.Runs
		switch out.Kind {
		case engine.OutcomeWide:
			in.wides += out.Runs
		case engine.OutcomeNoBall:
			in.noBalls += out.Runs
		}
		in.partnership.Runs += out.Runs
		return nil
	}

	bw.Balls++
	in.legalBalls++

	bs := in.batsmanStat(in.striker)
	bs.Balls++
	in.partnership.Balls++

	if out.Kind == engine.OutcomeWicket {
		in.applyWicket(out, bs, bw)
	} else {
		in.score += out.Runs
		bs.Runs += out.Runs
		in.partnership.Runs += out.Runs
		switch out.Kind {
		case engine.OutcomeFour:
			bs.Fours++
		case engine.OutcomeSix:
			bs.Sixes++
		}
		if out.Runs%2 == 1 {
			in.RotateStrike()
		}
	}

	// End of over: possible maiden, and the strike rotates again while the
	// innings is alive.
	if in.legalBalls%BallsPerOver == 0 {
		if in.overConceded == 0 {
			bw.Maidens++
		}
		if !in.IsComplete() {
			in.RotateStrike()
		}
	}

	return nil
}

func (in *Innings) applyWicket(out engine.BallOutcome, bs *BatsmanStat, bw *BowlerStat) {
	in.wickets++
	in.overWickets++
	in.falls = append(in.falls, FallOfWicket{
		Batter: in.striker,
		Score:  in.score,
		Wicket: in.wickets,
		Over:   in.legalBalls / BallsPerOver,
		Ball:   in.legalBalls % BallsPerOver,
	})

	bs.Out = true
	bs.Dismissal = in.dismissalText(out.Wicket)
	// Run-outs are not credited to the bowler.
	if out.Wicket != engine.WicketRunOut {
		bw.Wickets++
	}

	if in.partnership.Runs >= 1 {
		in.partnerships = append(in.partnerships, in.partnership)
	}

	if in.wickets < LineupSize-1 {
		in.striker = in.battingOrder[in.nextBatter]
		in.nextBatter++
		in.batsmanStat(in.striker)
		in.partnership = Partnership{First: in.striker, Second: in.nonStriker}
	}
}

// dismissalText formats the scorecard dismissal line.
func (in *Innings) dismissalText(kind engine.WicketKind) string {
	switch kind {
	case engine.WicketBowled:
		return "b " + in.bowler.Name
	case engine.WicketCaught:
		if fielder := in.pickFielder(); fielder != nil {
			return fmt.Sprintf("c %s b %s", fielder.Name, in.bowler.Name)
		}
		return "c & b " + in.bowler.Name
	case engine.WicketLBW:
		return "lbw b " + in.bowler.Name
	case engine.WicketStumped:
		if keeper := in.pickKeeper(); keeper != nil {
			return fmt.Sprintf("st %s b %s", keeper.Name, in.bowler.Name)
		}
		return "st b " + in.bowler.Name
	case engine.WicketRunOut:
		return "run out"
	case engine.WicketHitWicket:
		return "hit wicket b " + in.bowler.Name
	default:
		return "b " + in.bowler.Name
	}
}

func (in *Innings) pickFielder() *player.Participant {
	if in.rng == nil || len(in.bowlingSide) == 0 {
		return nil
	}
	candidates := make([]*player.Participant, 0, len(in.bowlingSide))
	for _, p := range in.bowlingSide {
		if p != nil && p != in.bowler {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[in.rng.Intn(len(candidates))]
}

func (in *Innings) pickKeeper() *player.Participant {
	for _, p := range in.bowlingSide {
		if p != nil && p.Role == player.RoleKeeper {
			return p
		}
	}
	return in.pickFielder()
}

// RotateStrike swaps the striker and non-striker.
func (in *Innings) RotateStrike() {
	in.striker, in.nonStriker = in.nonStriker, in.striker
}

// Declare ends the innings voluntarily. Format gating lives in the Test
// match orchestrator; the innings itself only records the fact.
func (in *Innings) Declare() {
	in.declared = true
}

// IsComplete reports whether the innings is over: all out, overs exhausted
// (limited formats), declared, or target reached.
func (in *Innings) IsComplete() bool {
	if in.wickets >= LineupSize-1 {
		return true
	}
	if limit := in.format.OversPerInnings(); limit > 0 && in.legalBalls >= limit*BallsPerOver {
		return true
	}
	if in.declared {
		return true
	}
	if in.target > 0 && in.score >= in.target {
		return true
	}
	return false
}

// AllOut reports whether ten wickets fell.
func (in *Innings) AllOut() bool {
	return in.wickets >= LineupSize-1
}

// Accessors. Score is monotonically non-decreasing; balls only count legal
// deliveries.

func (in *Innings) Score() int                      { return in.score }
func (in *Innings) Wickets() int                    { return in.wickets }
func (in *Innings) LegalBalls() int                 { return in.legalBalls }
func (in *Innings) Extras() int                     { return in.extras }
func (in *Innings) Wides() int                      { return in.wides }
func (in *Innings) NoBalls() int                    { return in.noBalls }
func (in *Innings) Target() int                     { return in.target }
func (in *Innings) Declared() bool                  { return in.declared }
func (in *Innings) Striker() *player.Participant    { return in.striker }
func (in *Innings) NonStriker() *player.Participant { return in.nonStriker }
func (in *Innings) Bowler() *player.Participant     { return in.bowler }
func (in *Innings) BattingSideName() string         { return in.battingSideName }
func (in *Innings) Format() Format                  { return in.format }

// Overs returns completed overs and balls into the current over.
func (in *Innings) Overs() (completed, balls int) {
	return in.legalBalls / BallsPerOver, in.legalBalls % BallsPerOver
}

// OverInProgress reports how many legal balls the current over has seen.
func (in *Innings) OverInProgress() int {
	return in.legalBalls % BallsPerOver
}

// CurrentOverConceded returns the runs conceded so far in the current over.
func (in *Innings) CurrentOverConceded() int { return in.overConceded }

// CurrentOverWickets returns the wickets taken so far in the current over.
func (in *Innings) CurrentOverWickets() int { return in.overWickets }

// Falls returns the fall-of-wickets list.
func (in *Innings) Falls() []FallOfWicket { return in.falls }

// Partnerships returns the archived partnerships.
func (in *Innings) Partnerships() []Partnership { return in.partnerships }

// CurrentPartnership returns the running partnership.
func (in *Innings) CurrentPartnership() Partnership { return in.partnership }

// Batsmen returns per-batter stat lines in batting order.
func (in *Innings) Batsmen() []*BatsmanStat { return in.batsmen }

// Bowlers returns per-bowler figures in first-bowled order.
func (in *Innings) Bowlers() []*BowlerStat { return in.bowlers }

// RunRate returns runs per over, or zero before the first legal ball.
func (in *Innings) RunRate() float64 {
	if in.legalBalls == 0 {
		return 0
	}
	return float64(in.score) / (float64(in.legalBalls) / BallsPerOver)
}

// RequiredRunRate returns the chase's required rate. ok is false when there
// is no target, the chase is already won, or no balls remain.
func (in *Innings) RequiredRunRate() (rate float64, ok bool) {
	if in.target <= 0 || in.score >= in.target {
		return 0, false
	}
	limit := in.format.OversPerInnings()
	if limit <= 0 {
		return 0, false
	}
	remaining := limit*BallsPerOver - in.legalBalls
	if remaining <= 0 {
		return 0, false
	}
	return float64(in.target-in.score) / (float64(remaining) / BallsPerOver), true
}

func (in *Innings) batsmanStat(p *player.Participant) *BatsmanStat {
	if stat, ok := in.batsmenIndex[p.ID]; ok {
		return stat
	}
	stat := &BatsmanStat{Player: p}
	in.batsmenIndex[p.ID] = stat
	in.batsmen = append(in.batsmen, stat)
	return stat
}

func (in *Innings) bowlerStat(p *player.Participant) *BowlerStat {
	if stat, ok := in.bowlersIndex[p.ID]; ok {
		return stat
	}
	stat := &BowlerStat{Player: p}
	in.bowlersIndex[p.ID] = stat
	in.bowlers = append(in.bowlers, stat)
	return stat
}
