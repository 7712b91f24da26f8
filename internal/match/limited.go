package match

import (
	"math/rand"

	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
	"github.com/samlindsay4/cricket-game/internal/player"
)

// ResultKind classifies a match outcome.
type ResultKind int

const (
	ResultNone ResultKind = iota // match still in progress
	ResultWin
	ResultTie
	ResultDraw // multi-day only
)

// Result describes a finished match.
type Result struct {
	Kind    ResultKind
	Winner  string // side name; empty for ties and draws
	Margin  string // "by 24 runs", "by 4 wickets", or empty
	Summary string
}

// Side pairs a team name with its playing eleven.
type Side struct {
	Name    string
	Lineup  []*player.Participant
	Bowlers []*player.Participant // bowling resources, subset of Lineup
}

// LimitedMatch runs a T20 or ODI: one innings per side, the chase gets a
// target of the first-innings score plus one.
type LimitedMatch struct {
	format Format
	home   Side
	away   Side
	rng    *rand.Rand

	innings []*Innings
	current *Innings
}

// NewLimitedMatch starts a limited-overs match with the home side batting
// first. Toss handling belongs to the caller; pass the sides in batting order.
func NewLimitedMatch(format Format, batFirst, batSecond Side, rng *rand.Rand) (*LimitedMatch, error) {
	if !format.Limited() {
		return nil, apperrors.New(apperrors.CodeMatchInvalidLineup, "format is not limited-overs")
	}
	m := &LimitedMatch{format: format, home: batFirst, away: batSecond, rng: rng}
	first, err := NewInnings(InningsConfig{
		Format:          format,
		BattingSideName: batFirst.Name,
		BattingOrder:    batFirst.Lineup,
		BowlingSide:     batSecond.Lineup,
		RNG:             rng,
	})
	if err != nil {
		return nil, err
	}
	m.innings = append(m.innings, first)
	m.current = first
	return m, nil
}

// CurrentInnings returns the innings in progress, or nil once the match is
// complete.
func (m *LimitedMatch) CurrentInnings() *Innings {
	if m.IsComplete() {
		return nil
	}
	return m.current
}

// Innings returns all innings played so far, in order.
func (m *LimitedMatch) Innings() []*Innings { return m.innings }

// Format returns the match format.
func (m *LimitedMatch) Format() Format { return m.format }

// BattingSide returns the side currently batting.
func (m *LimitedMatch) BattingSide() Side {
	if len(m.innings) == 1 {
		return m.home
	}
	return m.away
}

// BowlingSide returns the side currently bowling.
func (m *LimitedMatch) BowlingSide() Side {
	if len(m.innings) == 1 {
		return m.away
	}
	return m.home
}

// SwitchInnings closes the first innings and opens the chase. It fails if
// the current innings is still live or the match already has two innings.
func (m *LimitedMatch) SwitchInnings() error {
	if len(m.innings) >= 2 {
		return apperrors.New(apperrors.CodeMatchInningsLimit, "limited match has only two innings")
	}
	if !m.current.IsComplete() {
		return apperrors.New(apperrors.CodeMatchInningsIncomplete, "current innings is not complete")
	}
	chase, err := NewInnings(InningsConfig{
		Format:          m.format,
		BattingSideName: m.away.Name,
		BattingOrder:    m.away.Lineup,
		BowlingSide:     m.home.Lineup,
		Target:          m.innings[0].Score() + 1,
		RNG:             m.rng,
	})
	if err != nil {
		return err
	}
	m.innings = append(m.innings, chase)
	m.current = chase
	return nil
}

// IsComplete reports whether the match is decided.
func (m *LimitedMatch) IsComplete() bool {
	return len(m.innings) == 2 && m.innings[1].IsComplete()
}

// Result computes the outcome. Kind is ResultNone while the match is live.
func (m *LimitedMatch) Result() Result {
	if !m.IsComplete() {
		return Result{Kind: ResultNone}
	}
	first, chase := m.innings[0], m.innings[1]
	switch {
	case chase.Score() >= chase.Target():
		wicketsLeft := LineupSize - 1 - chase.Wickets()
		return Result{
			Kind:    ResultWin,
			Winner:  m.away.Name,
			Margin:  pluralMargin(wicketsLeft, "wicket"),
			Summary: m.away.Name + " won " + pluralMargin(wicketsLeft, "wicket"),
		}
	case chase.Score() == first.Score():
		return Result{Kind: ResultTie, Summary: "match tied"}
	default:
		margin := first.Score() - chase.Score()
		return Result{
			Kind:    ResultWin,
			Winner:  m.home.Name,
			Margin:  pluralMargin(margin, "run"),
			Summary: m.home.Name + " won " + pluralMargin(margin, "run"),
		}
	}
}
