// Package scheduler selects who bowls each over under spell, rest, and
// two-end constraints.
//
// Two bowler slots ("ends") alternate every over, so the bowler who finished
// an over is never eligible for the next one. Spell and rest bookkeeping is
// owned entirely by this package; the match state machine only reads the
// selected bowler.
package scheduler

import (
	"sort"

	"github.com/samlindsay4/cricket-game/internal/player"
)

// Tuning holds the scheduler's adjustable constants.
//
// The pace spell cap is 8 overs (extendable to 10); the spin cap is 12
// (extendable to 15). A spell extends past its cap while the bowler has taken
// two or more wickets in the spell or concedes under EconomyExtend runs per
// over.
type Tuning struct {
	PaceSpellCap       int
	PaceSpellMax       int
	SpinSpellCap       int
	SpinSpellMax       int
	PaceRestOvers      int
	SpinRestOvers      int
	EconomyExtend      float64
	SpellWicketsExtend int
	FitnessFloor       int
}

// DefaultTuning returns the stock scheduler constants.
func DefaultTuning() Tuning {
	return Tuning{
		PaceSpellCap:       8,
		PaceSpellMax:       10,
		SpinSpellCap:       12,
		SpinSpellMax:       15,
		PaceRestOvers:      10,
		SpinRestOvers:      5,
		EconomyExtend:      3.5,
		SpellWicketsExtend: 2,
		FitnessFloor:       40,
	}
}

// track is the per-bowler spell ledger.
type track struct {
	p            *player.Participant
	spellOvers   int
	spellRuns    int
	spellWickets int
	totalOvers   int
	restedAtOver int
	resting      bool
}

// Scheduler assigns bowlers to overs for one bowling side.
type Scheduler struct {
	tuning Tuning

	openers     []*track
	firstChange []*track
	spinners    []*track
	all         []*track

	ends      [2]*track
	activeEnd int
}

// New categorizes the bowling side and creates a scheduler. The candidate
// pool is every player whose role is bowler or all-rounder; an empty pool is
// a caller error and panics.
func New(bowlingSide []*player.Participant, tuning Tuning) *Scheduler {
	var candidates []*player.Participant
	for _, p := range bowlingSide {
		if p == nil {
			continue
		}
		if p.Role == player.RoleBowler || p.Role == player.RoleAllRounder {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		panic("scheduler: bowling pool is empty")
	}

	s := &Scheduler{tuning: tuning, activeEnd: 1}

	var pace, spin []*player.Participant
	for _, p := range candidates {
		if p.BowlingStyle.IsSpin() {
			spin = append(spin, p)
		} else {
			pace = append(pace, p)
		}
	}
	sort.SliceStable(pace, func(i, j int) bool {
		return pace[i].BowlingRating() > pace[j].BowlingRating()
	})
	sort.SliceStable(spin, func(i, j int) bool {
		return spin[i].BowlingRating() > spin[j].BowlingRating()
	})

	// The two best pace bowlers open; the next three are first change. Any
	// pace bowler beyond five is reachable only through the terminal fallback.
	for i, p := range pace {
		tr := &track{p: p, restedAtOver: -1}
		s.all = append(s.all, tr)
		switch {
		case i < 2:
			s.openers = append(s.openers, tr)
		case i < 5:
			s.firstChange = append(s.firstChange, tr)
		}
	}
	for _, p := range spin {
		tr := &track{p: p, restedAtOver: -1}
		s.all = append(s.all, tr)
		s.spinners = append(s.spinners, tr)
	}

	return s
}

// SelectNextBowler flips the active end and returns the bowler for the over
// about to start, replacing the end's bowler when spell, rest, or fitness
// rules demand it. The returned bowler is never prev.
func (s *Scheduler) SelectNextBowler(currentOver int, prev *player.Participant) *player.Participant {
	s.activeEnd = 1 - s.activeEnd

	current := s.ends[s.activeEnd]
	if current != nil && current.p != prev && !s.shouldChange(current, currentOver) {
		return current.p
	}

	if current != nil {
		s.rest(current, currentOver)
	}

	replacement := s.selectReplacement(currentOver, prev)
	s.ends[s.activeEnd] = replacement
	replacement.resting = false
	return replacement.p
}

// UpdateSpell records a completed over for the bowler: one spell over, the
// runs conceded, and any wickets taken.
func (s *Scheduler) UpdateSpell(bowler *player.Participant, currentOver, runsConceded, wickets int) {
	tr := s.find(bowler)
	if tr == nil {
		return
	}
	tr.spellOvers++
	tr.totalOvers++
	tr.spellRuns += runsConceded
	tr.spellWickets += wickets
}

// CanBowlAgain reports whether the bowler could legally bowl the over about
// to start: not the previous over's bowler, and not mid-rest.
func (s *Scheduler) CanBowlAgain(bowler *player.Participant, currentOver int) bool {
	tr := s.find(bowler)
	if tr == nil {
		return false
	}
	if other := s.ends[s.activeEnd]; other != nil && other.p == bowler {
		// Bowled the over that just finished.
		return false
	}
	return s.rested(tr, currentOver)
}

// ResetForBreak starts a fresh spell for everyone after a session break.
// Total overs bowled and the two-end assignment are kept.
func (s *Scheduler) ResetForBreak() {
	for _, tr := range s.all {
		tr.spellOvers = 0
		tr.spellRuns = 0
		tr.spellWickets = 0
	}
}

// ResetForNewDay additionally clears the two-end assignment and all rest
// clocks for the new day's new-ball period.
func (s *Scheduler) ResetForNewDay() {
	s.ResetForBreak()
	for _, tr := range s.all {
		tr.resting = false
		tr.restedAtOver = -1
	}
	s.ends = [2]*track{}
	s.activeEnd = 1
}

// TotalOvers returns the total overs bowled by the bowler so far today.
func (s *Scheduler) TotalOvers(bowler *player.Participant) int {
	if tr := s.find(bowler); tr != nil {
		return tr.totalOvers
	}
	return 0
}

func (s *Scheduler) find(p *player.Participant) *track {
	for _, tr := range s.all {
		if tr.p == p {
			return tr
		}
	}
	return nil
}

func (s *Scheduler) isSpin(tr *track) bool {
	return tr.p.BowlingStyle.IsSpin()
}

func (s *Scheduler) shouldChange(tr *track, currentOver int) bool {
	if tr.p.Fitness < s.tuning.FitnessFloor {
		return true
	}

	capOvers, maxOvers := s.tuning.PaceSpellCap, s.tuning.PaceSpellMax
	if s.isSpin(tr) {
		capOvers, maxOvers = s.tuning.SpinSpellCap, s.tuning.SpinSpellMax
	}

	if tr.spellOvers >= maxOvers {
		return true
	}
	if tr.spellOvers >= capOvers {
		// A hot or miserly spell runs to the maximum band.
		if tr.spellWickets >= s.tuning.SpellWicketsExtend {
			return false
		}
		if tr.spellOvers > 0 && float64(tr.spellRuns)/float64(tr.spellOvers) < s.tuning.EconomyExtend {
			return false
		}
		return true
	}
	return false
}

func (s *Scheduler) rest(tr *track, currentOver int) {
	tr.resting = true
	tr.restedAtOver = currentOver
	tr.spellOvers = 0
	tr.spellRuns = 0
	tr.spellWickets = 0
}

func (s *Scheduler) rested(tr *track, currentOver int) bool {
	if !tr.resting {
		return true
	}
	need := s.tuning.PaceRestOvers
	if s.isSpin(tr) {
		need = s.tuning.SpinRestOvers
	}
	return currentOver-tr.restedAtOver >= need
}

// selectReplacement walks the phase-based priority order and returns the
// first eligible bowler, falling back to anyone who is not at the other end.
func (s *Scheduler) selectReplacement(currentOver int, prev *player.Participant) *track {
	// Spinners only enter the rotation from over 25; before that they are
	// reachable solely through the terminal fallback.
	var order [][]*track
	switch {
	case currentOver < 10:
		order = [][]*track{s.openers, byLeastBowled(s.firstChange)}
	case currentOver < 25:
		order = [][]*track{byLeastBowled(s.firstChange), s.openers}
	default:
		order = [][]*track{byLeastBowled(s.spinners), byLeastBowled(s.openers), byLeastBowled(s.firstChange)}
	}

	other := s.ends[1-s.activeEnd]
	excluded := func(tr *track) bool {
		if other != nil && tr == other {
			return true
		}
		return prev != nil && tr.p == prev
	}

	for _, pool := range order {
		for _, tr := range pool {
			if excluded(tr) {
				continue
			}
			if tr.p.Fitness < s.tuning.FitnessFloor {
				continue
			}
			if s.rested(tr, currentOver) {
				return tr
			}
		}
	}

	// Terminal fallback: rest clocks no longer apply, only the hard
	// no-consecutive-overs constraint does.
	var fallback *track
	for _, tr := range byLeastBowled(s.all) {
		if excluded(tr) {
			continue
		}
		fallback = tr
		break
	}
	if fallback == nil {
		panic("scheduler: no bowler available")
	}
	return fallback
}

func byLeastBowled(pool []*track) []*track {
	sorted := make([]*track, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].totalOvers < sorted[j].totalOvers
	})
	return sorted
}
