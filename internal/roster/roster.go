// Package roster generates rated squads and selects playing elevens.
package roster

import (
	"fmt"
	"math/rand"
	"sort"

	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
	"github.com/samlindsay4/cricket-game/internal/player"
)

// MinSquadSize is the smallest squad a playing eleven can be picked from.
const MinSquadSize = 11

// Generator produces named, rated players from a seeded source. Equal seeds
// yield equal squads.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator. A nil source is a caller error and panics.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		panic("roster: rng is required")
	}
	return &Generator{rng: rng}
}

// PlayerName generates a player name.
func (g *Generator) PlayerName() string {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := surnames[g.rng.Intn(len(surnames))]
	return fmt.Sprintf("%s %s", first, last)
}

// TeamName generates a club-style team name like "Harbour Kings".
func (g *Generator) TeamName() string {
	place := teamPlaces[g.rng.Intn(len(teamPlaces))]
	nick := teamNicknames[g.rng.Intn(len(teamNicknames))]
	return fmt.Sprintf("%s %s", place, nick)
}

// squadRoles is the role template for the first eleven slots; squads larger
// than eleven cycle through extraRoles.
var squadRoles = []player.Role{
	player.RoleBatter, player.RoleBatter, player.RoleBatter,
	player.RoleBatter, player.RoleBatter,
	player.RoleAllRounder,
	player.RoleKeeper,
	player.RoleBowler, player.RoleBowler, player.RoleBowler, player.RoleBowler,
}

var extraRoles = []player.Role{
	player.RoleBatter, player.RoleBowler, player.RoleAllRounder,
	player.RoleBowler, player.RoleKeeper,
}

// Squad generates a role-balanced squad. Sizes under MinSquadSize are
// raised to it.
func (g *Generator) Squad(size int) []*player.Participant {
	if size < MinSquadSize {
		size = MinSquadSize
	}
	squad := make([]*player.Participant, 0, size)
	for i := 0; i < size; i++ {
		role := extraRoles[(i-len(squadRoles))%len(extraRoles)]
		if i < len(squadRoles) {
			role = squadRoles[i]
		}
		squad = append(squad, g.Player(role))
	}
	return squad
}

// Player generates one rated player for a role.
func (g *Generator) Player(role player.Role) *player.Participant {
	cfg := player.Config{
		Name:         g.PlayerName(),
		Role:         role,
		BattingStyle: player.BattingStyle(g.rng.Intn(3)),
		Form:         40 + g.rng.Intn(31),
		Fitness:      90 + g.rng.Intn(11),
		Confidence:   40 + g.rng.Intn(31),
		Fielding: player.FieldingRatings{
			Catching: g.rating(50, 40),
			Throwing: g.rating(50, 40),
			Agility:  g.rating(50, 40),
		},
		Mental: player.MentalRatings{
			Concentration: g.rating(45, 45),
			Pressure:      g.rating(45, 45),
			Adaptability:  g.rating(45, 45),
		},
	}

	switch role {
	case player.RoleBatter, player.RoleKeeper:
		cfg.Batting = g.battingRatings(55, 40)
		cfg.Bowling = g.bowlingRatings(10, 20)
	case player.RoleBowler:
		cfg.Batting = g.battingRatings(15, 30)
		cfg.Bowling = g.bowlingRatings(55, 40)
		cfg.BowlingStyle = g.bowlingStyle()
	case player.RoleAllRounder:
		cfg.Batting = g.battingRatings(45, 35)
		cfg.Bowling = g.bowlingRatings(45, 35)
		cfg.BowlingStyle = g.bowlingStyle()
	}
	return player.New(cfg)
}

// bowlingStyle leans pace-heavy, matching typical attack shapes.
func (g *Generator) bowlingStyle() player.BowlingStyle {
	switch g.rng.Intn(6) {
	case 0:
		return player.BowlOffSpin
	case 1:
		return player.BowlLegSpin
	case 2:
		return player.BowlMedium
	default:
		return player.BowlFast
	}
}

func (g *Generator) battingRatings(base, spread int) player.BattingRatings {
	return player.BattingRatings{
		Timing:      g.rating(base, spread),
		Power:       g.rating(base, spread),
		Technique:   g.rating(base, spread),
		Temperament: g.rating(base, spread),
	}
}

func (g *Generator) bowlingRatings(base, spread int) player.BowlingRatings {
	return player.BowlingRatings{
		Pace:      g.rating(base, spread),
		Accuracy:  g.rating(base, spread),
		Variation: g.rating(base, spread),
		Stamina:   g.rating(base, spread),
	}
}

func (g *Generator) rating(base, spread int) int {
	return base + g.rng.Intn(spread+1)
}

// SelectPlayingXI picks eleven from a squad: the five best batters, the best
// keeper, the four best bowlers (keeping a spinner when the squad has one),
// and the best remaining all-rounder or batter. The pick is pure; equal
// squads yield equal elevens.
func SelectPlayingXI(squad []*player.Participant) ([]*player.Participant, error) {
	if len(squad) < MinSquadSize {
		return nil, apperrors.WithMetadata(apperrors.CodeMatchInvalidLineup,
			"squad too small for a playing eleven",
			map[string]string{"Size": fmt.Sprintf("%d", len(squad))})
	}

	var batters, keepers, bowlers, allRounders []*player.Participant
	for _, p := range squad {
		switch p.Role {
		case player.RoleBatter:
			batters = append(batters, p)
		case player.RoleKeeper:
			keepers = append(keepers, p)
		case player.RoleBowler:
			bowlers = append(bowlers, p)
		case player.RoleAllRounder:
			allRounders = append(allRounders, p)
		}
	}
	if len(keepers) == 0 {
		return nil, apperrors.New(apperrors.CodeMatchInvalidLineup, "squad has no wicket-keeper")
	}

	byBatting := func(pool []*player.Participant) {
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].BattingRating() > pool[j].BattingRating()
		})
	}
	byBowling := func(pool []*player.Participant) {
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].BowlingRating() > pool[j].BowlingRating()
		})
	}

	byBatting(batters)
	byBatting(keepers)
	byBowling(bowlers)
	byBowling(allRounders)

	picked := make(map[*player.Participant]bool)
	pick := func(pool []*player.Participant, n int) []*player.Participant {
		var out []*player.Participant
		for _, p := range pool {
			if len(out) == n {
				break
			}
			if !picked[p] {
				picked[p] = true
				out = append(out, p)
			}
		}
		return out
	}

	topBatters := pick(batters, 5)
	keeper := pick(keepers, 1)

	// Four frontline bowlers, at least one spinner when the squad has one.
	var attack []*player.Participant
	for _, p := range bowlers {
		if len(attack) == 4 {
			break
		}
		picked[p] = true
		attack = append(attack, p)
	}
	if len(attack) > 0 && !hasSpinner(attack) {
		for _, p := range bowlers {
			if !picked[p] && p.BowlingStyle.IsSpin() {
				picked[attack[len(attack)-1]] = false
				attack[len(attack)-1] = p
				picked[p] = true
				break
			}
		}
	}

	// The eleventh spot goes to the best remaining all-rounder, then batter,
	// then anyone.
	eleventh := pick(allRounders, 1)
	if len(eleventh) == 0 {
		eleventh = pick(batters, 1)
	}
	if len(eleventh) == 0 {
		eleventh = pick(keepers, 1)
	}
	if len(eleventh) == 0 {
		eleventh = pick(bowlers, 1)
	}

	lineup := make([]*player.Participant, 0, MinSquadSize)
	lineup = append(lineup, topBatters...)
	lineup = append(lineup, eleventh...)
	lineup = append(lineup, keeper...)
	lineup = append(lineup, attack...)

	// Unbalanced squads fill the remaining slots with the best of the rest.
	if len(lineup) < MinSquadSize {
		rest := make([]*player.Participant, 0, len(squad))
		for _, p := range squad {
			if !picked[p] {
				rest = append(rest, p)
			}
		}
		byBatting(rest)
		for _, p := range rest {
			if len(lineup) == MinSquadSize {
				break
			}
			picked[p] = true
			lineup = append(lineup, p)
		}
	}
	if len(lineup) != MinSquadSize {
		return nil, apperrors.WithMetadata(apperrors.CodeMatchInvalidLineup,
			"squad cannot field a playing eleven",
			map[string]string{"Picked": fmt.Sprintf("%d", len(lineup))})
	}
	return lineup, nil
}

func hasSpinner(pool []*player.Participant) bool {
	for _, p := range pool {
		if p.BowlingStyle.IsSpin() {
			return true
		}
	}
	return false
}
