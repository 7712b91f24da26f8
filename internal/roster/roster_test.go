package roster

import (
	"math/rand"
	"testing"

	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
	"github.com/samlindsay4/cricket-game/internal/player"
)

func TestSquadDeterminism(t *testing.T) {
	a := New(rand.New(rand.NewSource(42))).Squad(15)
	b := New(rand.New(rand.NewSource(42))).Squad(15)
	if len(a) != 15 || len(b) != 15 {
		t.Fatalf("squad sizes = %d, %d, want 15", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Role != b[i].Role ||
			a[i].Batting != b[i].Batting || a[i].Bowling != b[i].Bowling {
			t.Fatalf("squads diverged at %d: %+v vs %+v", i, a[i], b[i])
		}
	}

	c := New(rand.New(rand.NewSource(43))).Squad(15)
	same := true
	for i := range a {
		if a[i].Name != c[i].Name || a[i].Batting != c[i].Batting {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical squads")
	}
}

func TestSquadRoleBalance(t *testing.T) {
	squad := New(rand.New(rand.NewSource(7))).Squad(15)
	counts := map[player.Role]int{}
	for _, p := range squad {
		counts[p.Role]++
	}
	if counts[player.RoleKeeper] == 0 {
		t.Fatal("squad has no keeper")
	}
	if counts[player.RoleBatter] < 5 {
		t.Fatalf("squad has %d batters, want at least 5", counts[player.RoleBatter])
	}
	if counts[player.RoleBowler] < 4 {
		t.Fatalf("squad has %d bowlers, want at least 4", counts[player.RoleBowler])
	}
}

func TestSquadMinimumSize(t *testing.T) {
	squad := New(rand.New(rand.NewSource(7))).Squad(3)
	if len(squad) != MinSquadSize {
		t.Fatalf("len(squad) = %d, want %d", len(squad), MinSquadSize)
	}
}

func TestSelectPlayingXI(t *testing.T) {
	squad := New(rand.New(rand.NewSource(9))).Squad(16)
	lineup, err := SelectPlayingXI(squad)
	if err != nil {
		t.Fatalf("SelectPlayingXI: %v", err)
	}
	if len(lineup) != MinSquadSize {
		t.Fatalf("len(lineup) = %d, want %d", len(lineup), MinSquadSize)
	}

	seen := map[*player.Participant]bool{}
	keepers := 0
	for _, p := range lineup {
		if seen[p] {
			t.Fatalf("player %s picked twice", p.Name)
		}
		seen[p] = true
		if p.Role == player.RoleKeeper {
			keepers++
		}
	}
	if keepers == 0 {
		t.Fatal("lineup has no keeper")
	}

	// Selection must be pure: a second pick from the same squad matches.
	again, err := SelectPlayingXI(squad)
	if err != nil {
		t.Fatalf("SelectPlayingXI again: %v", err)
	}
	for i := range lineup {
		if lineup[i] != again[i] {
			t.Fatalf("selection not pure at %d: %s vs %s", i, lineup[i].Name, again[i].Name)
		}
	}
}

func TestSelectPlayingXIRejectsShortSquad(t *testing.T) {
	squad := New(rand.New(rand.NewSource(9))).Squad(11)
	_, err := SelectPlayingXI(squad[:10])
	if !apperrors.IsCode(err, apperrors.CodeMatchInvalidLineup) {
		t.Fatalf("err = %v, want CodeMatchInvalidLineup", err)
	}
}

func TestSelectPlayingXIRequiresKeeper(t *testing.T) {
	g := New(rand.New(rand.NewSource(9)))
	squad := make([]*player.Participant, 0, 11)
	for i := 0; i < 11; i++ {
		squad = append(squad, g.Player(player.RoleBatter))
	}
	_, err := SelectPlayingXI(squad)
	if !apperrors.IsCode(err, apperrors.CodeMatchInvalidLineup) {
		t.Fatalf("err = %v, want CodeMatchInvalidLineup", err)
	}
}
