// Package player models a rated cricketer and their short-term state.
//
// Ratings are fixed at construction and clamped to 1-100. Form, fitness, and
// confidence are mutable session state clamped to 0-100. Ownership contract:
// for the duration of a match the match state machine (via the simulation
// runner) is the sole writer of the mutable fields; every other component
// only reads them between deliveries.
package player

// Role describes a player's primary job in the side.
type Role int

const (
	RoleBatter Role = iota
	RoleBowler
	RoleAllRounder
	RoleKeeper
)

func (r Role) String() string {
	switch r {
	case RoleBatter:
		return "batter"
	case RoleBowler:
		return "bowler"
	case RoleAllRounder:
		return "all-rounder"
	case RoleKeeper:
		return "keeper"
	default:
		return "unknown"
	}
}

// BattingStyle tags a batter's approach.
type BattingStyle int

const (
	BatBalanced BattingStyle = iota
	BatAggressive
	BatDefensive
)

func (s BattingStyle) String() string {
	switch s {
	case BatBalanced:
		return "balanced"
	case BatAggressive:
		return "aggressive"
	case BatDefensive:
		return "defensive"
	default:
		return "unknown"
	}
}

// BowlingStyle tags a bowler's delivery type.
type BowlingStyle int

const (
	BowlFast BowlingStyle = iota
	BowlMedium
	BowlOffSpin
	BowlLegSpin
)

func (s BowlingStyle) String() string {
	switch s {
	case BowlFast:
		return "fast"
	case BowlMedium:
		return "medium"
	case BowlOffSpin:
		return "off-spin"
	case BowlLegSpin:
		return "leg-spin"
	default:
		return "unknown"
	}
}

// IsSpin reports whether the style belongs to the spin family.
func (s BowlingStyle) IsSpin() bool {
	return s == BowlOffSpin || s == BowlLegSpin
}

// Rating bounds.
const (
	RatingMin = 1
	RatingMax = 100
	StateMin  = 0
	StateMax  = 100
)

// BattingRatings groups a player's batting attributes.
type BattingRatings struct {
	Timing      int
	Power       int
	Technique   int
	Temperament int
}

// BowlingRatings groups a player's bowling attributes.
type BowlingRatings struct {
	Pace      int
	Accuracy  int
	Variation int
	Stamina   int
}

// FieldingRatings groups a player's fielding attributes.
type FieldingRatings struct {
	Catching int
	Throwing int
	Agility  int
}

// MentalRatings groups a player's mental attributes.
type MentalRatings struct {
	Concentration int
	Pressure      int
	Adaptability  int
}

// Participant is one rated player.
type Participant struct {
	ID   string
	Name string
	Role Role

	BattingStyle BattingStyle
	BowlingStyle BowlingStyle

	Batting  BattingRatings
	Bowling  BowlingRatings
	Fielding FieldingRatings
	Mental   MentalRatings

	// Mutable session state, 0-100. See the package ownership contract.
	Form       int
	Fitness    int
	Confidence int
}

// Config contains the inputs for creating a Participant.
type Config struct {
	ID           string
	Name         string
	Role         Role
	BattingStyle BattingStyle
	BowlingStyle BowlingStyle
	Batting      BattingRatings
	Bowling      BowlingRatings
	Fielding     FieldingRatings
	Mental       MentalRatings
	Form         int
	Fitness      int
	Confidence   int
}

// New creates a Participant from config. Ratings outside 1-100 are clamped at
// construction so downstream components never see out-of-range values.
// An empty name is a caller error and panics.
func New(cfg Config) *Participant {
	if cfg.Name == "" {
		panic("player: name is required")
	}

	p := &Participant{
		ID:           cfg.ID,
		Name:         cfg.Name,
		Role:         cfg.Role,
		BattingStyle: cfg.BattingStyle,
		BowlingStyle: cfg.BowlingStyle,
		Batting: BattingRatings{
			Timing:      clampRating(cfg.Batting.Timing),
			Power:       clampRating(cfg.Batting.Power),
			Technique:   clampRating(cfg.Batting.Technique),
			Temperament: clampRating(cfg.Batting.Temperament),
		},
		Bowling: BowlingRatings{
			Pace:      clampRating(cfg.Bowling.Pace),
			Accuracy:  clampRating(cfg.Bowling.Accuracy),
			Variation: clampRating(cfg.Bowling.Variation),
			Stamina:   clampRating(cfg.Bowling.Stamina),
		},
		Fielding: FieldingRatings{
			Catching: clampRating(cfg.Fielding.Catching),
			Throwing: clampRating(cfg.Fielding.Throwing),
			Agility:  clampRating(cfg.Fielding.Agility),
		},
		Mental: MentalRatings{
			Concentration: clampRating(cfg.Mental.Concentration),
			Pressure:      clampRating(cfg.Mental.Pressure),
			Adaptability:  clampRating(cfg.Mental.Adaptability),
		},
		Form:       clampState(cfg.Form),
		Fitness:    clampState(cfg.Fitness),
		Confidence: clampState(cfg.Confidence),
	}
	if p.ID == "" {
		p.ID = p.Name
	}
	return p
}

// BattingRating aggregates the batting group into a single 1-100 rating.
func (p *Participant) BattingRating() int {
	b := p.Batting
	return clampRating((b.Timing*3 + b.Power*2 + b.Technique*3 + b.Temperament*2) / 10)
}

// BowlingRating aggregates the bowling group into a single 1-100 rating.
func (p *Participant) BowlingRating() int {
	b := p.Bowling
	return clampRating((b.Pace*2 + b.Accuracy*3 + b.Variation*3 + b.Stamina*2) / 10)
}

// AdjustForm shifts form by delta, clamped to 0-100.
func (p *Participant) AdjustForm(delta int) {
	p.Form = clampState(p.Form + delta)
}

// AdjustFitness shifts fitness by delta, clamped to 0-100.
func (p *Participant) AdjustFitness(delta int) {
	p.Fitness = clampState(p.Fitness + delta)
}

// AdjustConfidence shifts confidence by delta, clamped to 0-100.
func (p *Participant) AdjustConfidence(delta int) {
	p.Confidence = clampState(p.Confidence + delta)
}

func clampRating(v int) int {
	return min(max(v, RatingMin), RatingMax)
}

func clampState(v int) int {
	return min(max(v, StateMin), StateMax)
}
