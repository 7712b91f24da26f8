package match

import (
	"fmt"

	"github.com/samlindsay4/cricket-game/internal/player"
)

// BatsmanStat accumulates one batter's innings. It lives for exactly one
// innings and is reset when the innings switches.
type BatsmanStat struct {
	Player    *player.Participant
	Runs      int
	Balls     int
	Fours     int
	Sixes     int
	Out       bool
	Dismissal string
}

// StrikeRate returns runs per 100 balls, or zero before the first ball.
func (b *BatsmanStat) StrikeRate() float64 {
	if b.Balls == 0 {
		return 0
	}
	return float64(b.Runs) / float64(b.Balls) * 100
}

// BowlerStat accumulates one bowler's innings figures.
type BowlerStat struct {
	Player  *player.Participant
	Balls   int // legal deliveries only
	Maidens int
	Runs    int // all runs conceded, extras included
	Wickets int
}

// Overs renders the bowler's overs as the conventional "O.B" form.
func (b *BowlerStat) Overs() string {
	return fmt.Sprintf("%d.%d", b.Balls/BallsPerOver, b.Balls%BallsPerOver)
}

// Economy returns runs conceded per over, or zero before the first ball.
func (b *BowlerStat) Economy() float64 {
	if b.Balls == 0 {
		return 0
	}
	return float64(b.Runs) / (float64(b.Balls) / BallsPerOver)
}

// Partnership tracks the current pair of not-out batters. It is archived
// whenever a wicket falls and reinitialized with the incoming batter.
type Partnership struct {
	First  *player.Participant
	Second *player.Participant
	Runs   int
	Balls  int
}

// FallOfWicket records one dismissal.
type FallOfWicket struct {
	Batter *player.Participant
	Score  int // team score when the wicket fell
	Wicket int // 1-based wicket number
	Over   int // completed overs at the fall
	Ball   int // legal balls into the over
}

// String renders the entry in scorecard form, e.g. "3-145 (Stokes, 41.2)".
func (f FallOfWicket) String() string {
	return fmt.Sprintf("%d-%d (%s, %d.%d)", f.Wicket, f.Score, f.Batter.Name, f.Over, f.Ball)
}
