package match

import (
	"fmt"
	"sort"
)

// InningsSummary is a read-only snapshot of an innings, safe to hand to
// observers and storage between deliveries.
type InningsSummary struct {
	SideName string
	Score    int
	Wickets  int
	Overs    string
	Declared bool
	Extras   int
	Wides    int
	NoBalls  int
	RunRate  float64

	Batting      []BatsmanStat
	Bowling      []BowlerStat
	Falls        []FallOfWicket
	Partnerships []Partnership
}

// Summarize captures the innings state.
func Summarize(in *Innings) InningsSummary {
	overs, balls := in.Overs()
	s := InningsSummary{
		SideName: in.BattingSideName(),
		Score:    in.Score(),
		Wickets:  in.Wickets(),
		Overs:    fmt.Sprintf("%d.%d", overs, balls),
		Declared: in.Declared(),
		Extras:   in.Extras(),
		Wides:    in.Wides(),
		NoBalls:  in.NoBalls(),
		RunRate:  in.RunRate(),
	}
	for _, b := range in.Batsmen() {
		s.Batting = append(s.Batting, *b)
	}
	for _, b := range in.Bowlers() {
		s.Bowling = append(s.Bowling, *b)
	}
	s.Falls = append(s.Falls, in.Falls()...)
	s.Partnerships = append(s.Partnerships, in.Partnerships()...)
	return s
}

// Scoreline formats the innings in the conventional short form, for example
// "England 347/8 (91.3)" or "India 512/6d (140.0)".
func (s InningsSummary) Scoreline() string {
	decl := ""
	if s.Declared {
		decl = "d"
	}
	return fmt.Sprintf("%s %d/%d%s (%s)", s.SideName, s.Score, s.Wickets, decl, s.Overs)
}

// TopBatters returns the n highest scorers of the innings, runs descending,
// balls ascending on ties.
func (s InningsSummary) TopBatters(n int) []BatsmanStat {
	out := append([]BatsmanStat(nil), s.Batting...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Runs != out[j].Runs {
			return out[i].Runs > out[j].Runs
		}
		return out[i].Balls < out[j].Balls
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// TopBowlers returns the n best figures of the innings, wickets descending,
// runs ascending on ties.
func (s InningsSummary) TopBowlers(n int) []BowlerStat {
	out := append([]BowlerStat(nil), s.Bowling...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wickets != out[j].Wickets {
			return out[i].Wickets > out[j].Wickets
		}
		return out[i].Runs < out[j].Runs
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}
