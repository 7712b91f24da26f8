package match

import (
	"fmt"
	"math/rand"

	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
)

var (
	// ErrDeclarationClosed indicates the declaration gates are not met.
	ErrDeclarationClosed = apperrors.New(apperrors.CodeMatchDeclarationClosed, "declaration is not available")
	// ErrFollowOnUnavailable indicates the follow-on was requested without
	// the required lead.
	ErrFollowOnUnavailable = apperrors.New(apperrors.CodeMatchFollowOnUnavailable, "follow-on lead not reached")
)

// TestMatch runs a five-day Test: up to four innings, follow-on, sessions
// and days, and a draw when time expires without a result.
type TestMatch struct {
	sideA Side // bats first
	sideB Side
	rng   *rand.Rand

	innings []*Innings
	order   []Side // batting side per innings, grows as innings open
	current *Innings

	day     int // 1-based
	session int // 1..SessionsPerDay

	sessions    []SessionStat
	sessionMark [3]int // legal balls, runs, wickets at session open

	followOnEnforced bool
	done             bool
	result           Result
}

// SessionStat is an archived statistics snapshot for one completed session:
// the overs bowled in it and the runs and wickets that fell during it.
type SessionStat struct {
	Day     int
	Session int
	Overs   int
	Runs    int
	Wickets int
}

// NewTestMatch starts a Test with batFirst taking first strike.
func NewTestMatch(batFirst, batSecond Side, rng *rand.Rand) (*TestMatch, error) {
	m := &TestMatch{sideA: batFirst, sideB: batSecond, rng: rng, day: 1, session: 1}
	first, err := NewInnings(InningsConfig{
		Format:          FormatTest,
		BattingSideName: batFirst.Name,
		BattingOrder:    batFirst.Lineup,
		BowlingSide:     batSecond.Lineup,
		RNG:             rng,
	})
	if err != nil {
		return nil, err
	}
	m.innings = append(m.innings, first)
	m.order = append(m.order, batFirst)
	m.current = first
	return m, nil
}

// Format returns FormatTest.
func (m *TestMatch) Format() Format { return FormatTest }

// Day returns the current match day, 1-based.
func (m *TestMatch) Day() int { return m.day }

// Session returns the current session within the day, 1-based.
func (m *TestMatch) Session() int { return m.session }

// FollowOnEnforced reports whether the follow-on was enforced.
func (m *TestMatch) FollowOnEnforced() bool { return m.followOnEnforced }

// Innings returns all innings so far, in order.
func (m *TestMatch) Innings() []*Innings { return m.innings }

// CurrentInnings returns the innings in progress, or nil once the match is
// decided.
func (m *TestMatch) CurrentInnings() *Innings {
	if m.done {
		return nil
	}
	return m.current
}

// BattingSide returns the side batting in the current innings.
func (m *TestMatch) BattingSide() Side { return m.order[len(m.order)-1] }

// BowlingSide returns the side bowling in the current innings.
func (m *TestMatch) BowlingSide() Side {
	if m.BattingSide().Name == m.sideA.Name {
		return m.sideB
	}
	return m.sideA
}

// aggregate sums a side's completed and in-progress innings scores.
func (m *TestMatch) aggregate(name string) int {
	total := 0
	for i, in := range m.innings {
		if m.order[i].Name == name {
			total += in.Score()
		}
	}
	return total
}

// Lead returns the current innings' batting side lead over the opposition.
// Negative means a deficit.
func (m *TestMatch) Lead() int {
	bat := m.BattingSide().Name
	return m.aggregate(bat) - m.aggregate(m.BowlingSide().Name)
}

// FollowOnAvailable reports whether the side that batted first may enforce
// the follow-on: two innings complete and a lead of at least FollowOnDeficit.
func (m *TestMatch) FollowOnAvailable() bool {
	if len(m.innings) != 2 || !m.current.IsComplete() {
		return false
	}
	lead := m.aggregate(m.sideA.Name) - m.aggregate(m.sideB.Name)
	return lead >= FollowOnDeficit
}

// Declare ends the current innings voluntarily. Only the first and third
// innings of the match may declare. The gates: at least DeclarationMinOvers
// bowled, and either DeclarationMinScoreFirst runs in the first innings or a
// lead of DeclarationMinLeadThird in the third.
func (m *TestMatch) Declare() error {
	if m.done {
		return ErrAlreadyComplete
	}
	overs, _ := m.current.Overs()
	if overs < DeclarationMinOvers {
		return apperrors.WithMetadata(apperrors.CodeMatchDeclarationClosed,
			"declaration requires a minimum of overs batted",
			map[string]string{"Overs": fmt.Sprintf("%d", overs)})
	}
	switch len(m.innings) {
	case 1:
		if m.current.Score() < DeclarationMinScoreFirst {
			return ErrDeclarationClosed
		}
	case 3:
		if m.Lead() < DeclarationMinLeadThird {
			return ErrDeclarationClosed
		}
	default:
		return ErrDeclarationClosed
	}
	m.current.Declare()
	return nil
}

// SwitchInnings closes the completed innings and opens the next one.
// enforceFollowOn asks the fielding captain to make the trailing side bat
// again; it is an error when the follow-on lead is not reached. When the
// result is already decided the match ends instead of opening a dead innings.
func (m *TestMatch) SwitchInnings(enforceFollowOn bool) error {
	if m.done {
		return ErrAlreadyComplete
	}
	if !m.current.IsComplete() {
		return apperrors.New(apperrors.CodeMatchInningsIncomplete, "current innings is not complete")
	}
	n := len(m.innings)
	if n >= InningsPerTest {
		return apperrors.New(apperrors.CodeMatchInningsLimit, "a test has at most four innings")
	}
	if enforceFollowOn {
		if !m.FollowOnAvailable() {
			return ErrFollowOnUnavailable
		}
		m.followOnEnforced = true
	}

	next := m.nextBattingSide(n)
	target := 0
	if n == InningsPerTest-1 {
		// The side about to field has batted twice. If it is all out still
		// trailing the would-be chaser on aggregate, the match is over by an
		// innings and no fourth innings is played.
		fielding := m.fieldingFor(next)
		deficit := m.aggregate(next.Name) - m.aggregate(fielding.Name)
		if deficit > 0 && m.innings[n-1].AllOut() {
			m.finish(Result{
				Kind:    ResultWin,
				Winner:  next.Name,
				Margin:  fmt.Sprintf("by an innings and %d runs", deficit),
				Summary: fmt.Sprintf("%s won by an innings and %d runs", next.Name, deficit),
			})
			return nil
		}
		target = -deficit + 1
	}
	in, err := NewInnings(InningsConfig{
		Format:          FormatTest,
		BattingSideName: next.Name,
		BattingOrder:    next.Lineup,
		BowlingSide:     m.fieldingFor(next).Lineup,
		Target:          target,
		RNG:             m.rng,
	})
	if err != nil {
		return err
	}
	m.innings = append(m.innings, in)
	m.order = append(m.order, next)
	m.current = in
	return nil
}

// nextBattingSide returns who bats the innings at index n, honoring the
// follow-on swap (A, B, B, A instead of A, B, A, B).
func (m *TestMatch) nextBattingSide(n int) Side {
	if m.followOnEnforced {
		switch n {
		case 2:
			return m.sideB
		case 3:
			return m.sideA
		}
	}
	if n%2 == 0 {
		return m.sideA
	}
	return m.sideB
}

func (m *TestMatch) fieldingFor(batting Side) Side {
	if batting.Name == m.sideA.Name {
		return m.sideB
	}
	return m.sideA
}

// NextSession archives the finished session's statistics and advances to the
// next session of the day. Moving past the last session is a caller error;
// use NextDay.
func (m *TestMatch) NextSession() error {
	if m.done {
		return ErrAlreadyComplete
	}
	if m.session >= SessionsPerDay {
		return apperrors.New(apperrors.CodeMatchInningsIncomplete, "day has no session remaining")
	}
	m.archiveSession()
	m.session++
	return nil
}

// NextDay closes the day: the last session's statistics are archived,
// overnight fitness recovery applies to every player, the session counter
// resets, and at the end of the final day an undecided match is a draw.
func (m *TestMatch) NextDay() error {
	if m.done {
		return ErrAlreadyComplete
	}
	m.archiveSession()
	if m.day >= DaysPerMatch {
		m.finish(Result{Kind: ResultDraw, Summary: "match drawn"})
		return nil
	}
	m.day++
	m.session = 1
	for _, p := range m.sideA.Lineup {
		p.AdjustFitness(OvernightFitnessRecovery)
	}
	for _, p := range m.sideB.Lineup {
		p.AdjustFitness(OvernightFitnessRecovery)
	}
	return nil
}

// archiveSession closes the statistics window for the session just played by
// diffing the match totals against the marks taken when it opened.
func (m *TestMatch) archiveSession() {
	balls, runs, wickets := m.totals()
	m.sessions = append(m.sessions, SessionStat{
		Day:     m.day,
		Session: m.session,
		Overs:   (balls - m.sessionMark[0]) / BallsPerOver,
		Runs:    runs - m.sessionMark[1],
		Wickets: wickets - m.sessionMark[2],
	})
	m.sessionMark = [3]int{balls, runs, wickets}
}

func (m *TestMatch) totals() (balls, runs, wickets int) {
	for _, in := range m.innings {
		balls += in.LegalBalls()
		runs += in.Score()
		wickets += in.Wickets()
	}
	return balls, runs, wickets
}

// SessionStats returns the archived per-session snapshots, oldest first. The
// session in progress is not included until NextSession or NextDay closes it.
func (m *TestMatch) SessionStats() []SessionStat { return m.sessions }

// OversOnDay sums the archived session overs for the given day.
func (m *TestMatch) OversOnDay(day int) int {
	n := 0
	for _, s := range m.sessions {
		if s.Day == day {
			n += s.Overs
		}
	}
	return n
}

// IsComplete reports whether the match has a result or was drawn.
func (m *TestMatch) IsComplete() bool {
	if m.done {
		return true
	}
	if len(m.innings) == InningsPerTest && m.current.IsComplete() {
		return true
	}
	return false
}

// Result computes the outcome. Kind is ResultNone while the match is live.
func (m *TestMatch) Result() Result {
	if m.done {
		return m.result
	}
	if len(m.innings) != InningsPerTest || !m.current.IsComplete() {
		return Result{Kind: ResultNone}
	}
	chase := m.innings[InningsPerTest-1]
	chasing := m.order[InningsPerTest-1]
	fielding := m.fieldingFor(chasing)
	switch {
	case chase.Score() >= chase.Target():
		wicketsLeft := LineupSize - 1 - chase.Wickets()
		return Result{
			Kind:    ResultWin,
			Winner:  chasing.Name,
			Margin:  pluralMargin(wicketsLeft, "wicket"),
			Summary: chasing.Name + " won " + pluralMargin(wicketsLeft, "wicket"),
		}
	case chase.Score() == chase.Target()-1:
		return Result{Kind: ResultTie, Summary: "match tied"}
	default:
		margin := chase.Target() - 1 - chase.Score()
		return Result{
			Kind:    ResultWin,
			Winner:  fielding.Name,
			Margin:  pluralMargin(margin, "run"),
			Summary: fielding.Name + " won " + pluralMargin(margin, "run"),
		}
	}
}

func (m *TestMatch) finish(r Result) {
	m.done = true
	m.result = r
	m.current = nil
}

func pluralMargin(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("by 1 %s", unit)
	}
	return fmt.Sprintf("by %d %ss", n, unit)
}
