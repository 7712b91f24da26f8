package match

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/samlindsay4/cricket-game/internal/engine"
	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
	"github.com/samlindsay4/cricket-game/internal/player"
)

func testLineup(prefix string) []*player.Participant {
	ps := make([]*player.Participant, LineupSize)
	for i := range ps {
		role := player.RoleBatter
		switch {
		case i == 6:
			role = player.RoleKeeper
		case i > 6:
			role = player.RoleBowler
		}
		ps[i] = player.New(player.Config{
			Name:    fmt.Sprintf("%s%02d", prefix, i+1),
			Role:    role,
			Form:    50,
			Fitness: 100,
		})
	}
	return ps
}

func newTestInnings(t *testing.T, format Format, target int) (*Innings, []*player.Participant) {
	t.Helper()
	batting := testLineup("bat")
	bowling := testLineup("bwl")
	in, err := NewInnings(InningsConfig{
		Format:          format,
		BattingSideName: "Home",
		BattingOrder:    batting,
		BowlingSide:     bowling,
		Target:          target,
		RNG:             rand.New(rand.NewSource(7)),
	})
	if err != nil {
		t.Fatalf("NewInnings: %v", err)
	}
	return in, bowling
}

func legalRuns(n int) engine.BallOutcome {
	kinds := map[int]engine.OutcomeKind{
		0: engine.OutcomeDot,
		1: engine.OutcomeSingle,
		2: engine.OutcomeTwo,
		3: engine.OutcomeThree,
		4: engine.OutcomeFour,
		6: engine.OutcomeSix,
	}
	return engine.BallOutcome{Kind: kinds[n], Runs: n, IsLegalDelivery: true}
}

func fell(k engine.WicketKind) engine.BallOutcome {
	return engine.BallOutcome{Kind: engine.OutcomeWicket, Wicket: k, IsLegalDelivery: true}
}

func wideBall() engine.BallOutcome {
	return engine.BallOutcome{Kind: engine.OutcomeWide, Runs: 1}
}

func noBall() engine.BallOutcome {
	return engine.BallOutcome{Kind: engine.OutcomeNoBall, Runs: 1}
}

// drive applies a scripted sequence, assigning a fresh bowler at each over
// boundary.
func drive(t *testing.T, in *Innings, bowlers []*player.Participant, outs []engine.BallOutcome) {
	t.Helper()
	needOver := in.Bowler() == nil
	for i, o := range outs {
		if needOver {
			in.StartOver(bowlers[7+(in.LegalBalls()/BallsPerOver)%2])
			needOver = false
		}
		before := in.LegalBalls()
		if err := in.ApplyBall(o); err != nil {
			t.Fatalf("ball %d: ApplyBall: %v", i, err)
		}
		if in.LegalBalls() != before && in.LegalBalls()%BallsPerOver == 0 {
			needOver = true
		}
	}
}

func TestNewInningsRejectsShortLineup(t *testing.T) {
	_, err := NewInnings(InningsConfig{
		Format:       FormatT20,
		BattingOrder: testLineup("bat")[:10],
		BowlingSide:  testLineup("bwl"),
	})
	if !apperrors.IsCode(err, apperrors.CodeMatchInvalidLineup) {
		t.Fatalf("err = %v, want CodeMatchInvalidLineup", err)
	}
}

func TestApplyBallScoreConservation(t *testing.T) {
	in, bowling := newTestInnings(t, FormatODI, 0)
	script := []engine.BallOutcome{
		legalRuns(1), legalRuns(4), wideBall(), legalRuns(0),
		fell(engine.WicketBowled), legalRuns(2), legalRuns(6),
		noBall(), legalRuns(3), legalRuns(0), legalRuns(1), legalRuns(0),
	}
	drive(t, in, bowling, script)

	if got, want := in.Score(), 1+4+1+2+6+1+3+1; got != want {
		t.Fatalf("Score() = %d, want %d", got, want)
	}
	batterRuns := 0
	for _, b := range in.Batsmen() {
		batterRuns += b.Runs
	}
	if got, want := batterRuns+in.Extras(), in.Score(); got != want {
		t.Fatalf("batter runs + extras = %d, want score %d", got, want)
	}
	if got, want := in.Extras(), 2; got != want {
		t.Fatalf("Extras() = %d, want %d", got, want)
	}
	if in.Wides() != 1 || in.NoBalls() != 1 {
		t.Fatalf("Wides() = %d, NoBalls() = %d, want 1 and 1", in.Wides(), in.NoBalls())
	}
	if got, want := in.LegalBalls(), 10; got != want {
		t.Fatalf("LegalBalls() = %d, want %d", got, want)
	}
	if got, want := in.Wickets(), 1; got != want {
		t.Fatalf("Wickets() = %d, want %d", got, want)
	}
}

func TestStrikeRotation(t *testing.T) {
	in, bowling := newTestInnings(t, FormatODI, 0)
	opener := in.Striker()
	partner := in.NonStriker()

	drive(t, in, bowling, []engine.BallOutcome{legalRuns(1)})
	if in.Striker() != partner {
		t.Fatalf("striker after single = %s, want %s", in.Striker().Name, partner.Name)
	}
	drive(t, in, bowling, []engine.BallOutcome{legalRuns(2)})
	if in.Striker() != partner {
		t.Fatalf("striker after two = %s, want %s", in.Striker().Name, partner.Name)
	}

	// Four dots close the over; the strike rotates at the over break.
	drive(t, in, bowling, []engine.BallOutcome{legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0)})
	if in.Striker() != opener {
		t.Fatalf("striker after over break = %s, want %s", in.Striker().Name, opener.Name)
	}

	// A single off the last ball of the over rotates twice: the same batter
	// keeps strike into the new over.
	drive(t, in, bowling, []engine.BallOutcome{
		legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(1),
	})
	if in.Striker() != opener {
		t.Fatalf("striker after single off last ball = %s, want %s", in.Striker().Name, opener.Name)
	}
}

func TestWideDoesNotAdvanceOverOrStrike(t *testing.T) {
	in, bowling := newTestInnings(t, FormatT20, 0)
	striker := in.Striker()
	drive(t, in, bowling, []engine.BallOutcome{
		legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0),
		wideBall(), wideBall(),
	})
	if got, want := in.LegalBalls(), 5; got != want {
		t.Fatalf("LegalBalls() = %d, want %d", got, want)
	}
	if in.Striker() != striker {
		t.Fatalf("striker changed on a wide")
	}
	if got, want := in.Score(), 2; got != want {
		t.Fatalf("Score() = %d, want %d", got, want)
	}
}

func TestMaidenSpoiledByExtras(t *testing.T) {
	in, bowling := newTestInnings(t, FormatTest, 0)

	drive(t, in, bowling, []engine.BallOutcome{
		legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0),
	})
	if got := in.Bowlers()[0].Maidens; got != 1 {
		t.Fatalf("Maidens = %d after six dots, want 1", got)
	}

	drive(t, in, bowling, []engine.BallOutcome{
		legalRuns(0), wideBall(),
		legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0),
	})
	if got := in.Bowlers()[1].Maidens; got != 0 {
		t.Fatalf("Maidens = %d after wide-spoiled over, want 0", got)
	}
}

func TestWicketBringsNextBatter(t *testing.T) {
	in, bowling := newTestInnings(t, FormatTest, 0)
	out := in.Striker()
	third := in.battingOrder[2]

	drive(t, in, bowling, []engine.BallOutcome{legalRuns(4), fell(engine.WicketBowled)})

	if in.Striker() != third {
		t.Fatalf("striker after wicket = %s, want %s", in.Striker().Name, third.Name)
	}
	stat := in.Batsmen()[0]
	if stat.Player != out || !stat.Out {
		t.Fatalf("dismissed batter stat = %+v", stat)
	}
	if want := "b " + in.Bowler().Name; stat.Dismissal != want {
		t.Fatalf("Dismissal = %q, want %q", stat.Dismissal, want)
	}
	falls := in.Falls()
	if len(falls) != 1 {
		t.Fatalf("len(Falls()) = %d, want 1", len(falls))
	}
	if falls[0].Score != 4 || falls[0].Wicket != 1 || falls[0].Over != 0 || falls[0].Ball != 2 {
		t.Fatalf("fall = %+v", falls[0])
	}
	if got, want := falls[0].String(), fmt.Sprintf("1-4 (%s, 0.2)", out.Name); got != want {
		t.Fatalf("fall String() = %q, want %q", got, want)
	}
}

func TestRunOutNotCreditedToBowler(t *testing.T) {
	in, bowling := newTestInnings(t, FormatTest, 0)
	drive(t, in, bowling, []engine.BallOutcome{fell(engine.WicketRunOut)})

	if got := in.Bowlers()[0].Wickets; got != 0 {
		t.Fatalf("bowler wickets = %d after run out, want 0", got)
	}
	if got := in.Batsmen()[0].Dismissal; got != "run out" {
		t.Fatalf("Dismissal = %q, want %q", got, "run out")
	}
	if got := in.Wickets(); got != 1 {
		t.Fatalf("Wickets() = %d, want 1", got)
	}
}

func TestDismissalTextForms(t *testing.T) {
	in, bowling := newTestInnings(t, FormatTest, 0)
	drive(t, in, bowling, []engine.BallOutcome{
		fell(engine.WicketCaught),
		fell(engine.WicketStumped),
		fell(engine.WicketLBW),
		fell(engine.WicketHitWicket),
	})
	stats := in.Batsmen()

	if d := stats[0].Dismissal; !strings.HasPrefix(d, "c ") || !strings.Contains(d, " b ") {
		t.Errorf("caught dismissal = %q", d)
	}
	if d := stats[2].Dismissal; !strings.HasPrefix(d, "st bwl07 b ") {
		t.Errorf("stumped dismissal = %q, want keeper bwl07", d)
	}
	if d := stats[3].Dismissal; !strings.HasPrefix(d, "lbw b ") {
		t.Errorf("lbw dismissal = %q", d)
	}
	if d := stats[4].Dismissal; !strings.HasPrefix(d, "hit wicket b ") {
		t.Errorf("hit wicket dismissal = %q", d)
	}
}

func TestAllOutCompletesInnings(t *testing.T) {
	in, bowling := newTestInnings(t, FormatTest, 0)
	outs := make([]engine.BallOutcome, 0, LineupSize-1)
	for i := 0; i < LineupSize-1; i++ {
		outs = append(outs, fell(engine.WicketBowled))
	}
	drive(t, in, bowling, outs)

	if !in.IsComplete() || !in.AllOut() {
		t.Fatalf("IsComplete() = %v, AllOut() = %v, want true, true", in.IsComplete(), in.AllOut())
	}
	err := in.ApplyBall(legalRuns(0))
	if !apperrors.IsCode(err, apperrors.CodeMatchAlreadyComplete) {
		t.Fatalf("ApplyBall after all out = %v, want CodeMatchAlreadyComplete", err)
	}
}

func TestOversLimitCompletesInnings(t *testing.T) {
	in, bowling := newTestInnings(t, FormatT20, 0)
	outs := make([]engine.BallOutcome, 0, 20*BallsPerOver)
	for i := 0; i < 20*BallsPerOver; i++ {
		outs = append(outs, legalRuns(0))
	}
	drive(t, in, bowling, outs)

	if !in.IsComplete() {
		t.Fatal("IsComplete() = false after 20 overs")
	}
	if in.AllOut() {
		t.Fatal("AllOut() = true with no wickets down")
	}
}

func TestTargetReachedCompletesInnings(t *testing.T) {
	in, bowling := newTestInnings(t, FormatT20, 10)
	drive(t, in, bowling, []engine.BallOutcome{legalRuns(6), legalRuns(4)})

	if !in.IsComplete() {
		t.Fatal("IsComplete() = false at target")
	}
	if got, want := in.Score(), 10; got != want {
		t.Fatalf("Score() = %d, want %d", got, want)
	}
}

func TestPartnershipsArchiveOnWicket(t *testing.T) {
	in, bowling := newTestInnings(t, FormatTest, 0)
	drive(t, in, bowling, []engine.BallOutcome{
		legalRuns(4), legalRuns(1), wideBall(), fell(engine.WicketBowled),
	})

	ps := in.Partnerships()
	if len(ps) != 1 {
		t.Fatalf("len(Partnerships()) = %d, want 1", len(ps))
	}
	if got, want := ps[0].Runs, 6; got != want {
		t.Fatalf("partnership runs = %d, want %d (extras included)", got, want)
	}
	if got, want := ps[0].Balls, 3; got != want {
		t.Fatalf("partnership balls = %d, want %d (legal only)", got, want)
	}
	cur := in.CurrentPartnership()
	if cur.Runs != 0 || cur.Balls != 0 {
		t.Fatalf("fresh partnership = %+v", cur)
	}
}

func TestRequiredRunRate(t *testing.T) {
	in, bowling := newTestInnings(t, FormatT20, 121)
	if _, ok := in.RequiredRunRate(); !ok {
		t.Fatal("RequiredRunRate not available at innings start")
	}
	drive(t, in, bowling, []engine.BallOutcome{
		legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0), legalRuns(0),
	})
	rate, ok := in.RequiredRunRate()
	if !ok {
		t.Fatal("RequiredRunRate not available mid-chase")
	}
	// 121 needed from 19 overs.
	if want := 121.0 / 19.0; rate < want-1e-9 || rate > want+1e-9 {
		t.Fatalf("RequiredRunRate = %f, want %f", rate, want)
	}
}

func TestStartOverPanics(t *testing.T) {
	in, _ := newTestInnings(t, FormatTest, 0)
	defer func() {
		if recover() == nil {
			t.Fatal("StartOver(nil) did not panic")
		}
	}()
	in.StartOver(nil)
}

func TestApplyBallWithoutBowlerPanics(t *testing.T) {
	in, _ := newTestInnings(t, FormatTest, 0)
	defer func() {
		if recover() == nil {
			t.Fatal("ApplyBall without a bowler did not panic")
		}
	}()
	_ = in.ApplyBall(legalRuns(0))
}
