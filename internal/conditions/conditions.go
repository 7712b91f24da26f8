// Package conditions models the environment a match is played in.
//
// A Conditions value is created once per match. Pitch wear and dew are the
// only mutable fields; they advance monotonically as overs elapse and days
// pass, driven by the match state machine. Every derived modifier is a pure
// function of the current state.
package conditions

import "math/rand"

// PitchType classifies the playing surface.
type PitchType int

const (
	PitchBatting PitchType = iota
	PitchBowling
	PitchBalanced
	PitchTurning
	PitchSlow
	PitchBouncy
)

func (p PitchType) String() string {
	switch p {
	case PitchBatting:
		return "batting"
	case PitchBowling:
		return "bowling"
	case PitchBalanced:
		return "balanced"
	case PitchTurning:
		return "turning"
	case PitchSlow:
		return "slow"
	case PitchBouncy:
		return "bouncy"
	default:
		return "unknown"
	}
}

// Weather classifies the sky over the ground.
type Weather int

const (
	WeatherSunny Weather = iota
	WeatherOvercast
	WeatherHumid
	WeatherRain
	WeatherWindy
)

func (w Weather) String() string {
	switch w {
	case WeatherSunny:
		return "sunny"
	case WeatherOvercast:
		return "overcast"
	case WeatherHumid:
		return "humid"
	case WeatherRain:
		return "rain"
	case WeatherWindy:
		return "windy"
	default:
		return "unknown"
	}
}

// GroundSize classifies the boundary dimensions.
type GroundSize int

const (
	GroundSmall GroundSize = iota
	GroundMedium
	GroundLarge
)

func (g GroundSize) String() string {
	switch g {
	case GroundSmall:
		return "small"
	case GroundMedium:
		return "medium"
	case GroundLarge:
		return "large"
	default:
		return "unknown"
	}
}

// BowlingKind splits the bowling attack into the two families the pitch and
// weather treat differently.
type BowlingKind int

const (
	KindPace BowlingKind = iota
	KindSpin
)

// Wear and dew counters are percentages.
const (
	counterMin = 0
	counterMax = 100
)

// Conditions is the environmental state for one match.
type Conditions struct {
	Pitch        PitchType
	Weather      Weather
	Ground       GroundSize
	HighAltitude bool

	pitchWear int
	dewFactor int
}

// New creates match conditions with zero wear and dew.
func New(pitch PitchType, weather Weather, ground GroundSize, highAltitude bool) *Conditions {
	return &Conditions{
		Pitch:        pitch,
		Weather:      weather,
		Ground:       ground,
		HighAltitude: highAltitude,
	}
}

// GenerateRandom produces plausible conditions from the provided source.
// Multi-day matches skew toward wearing, spin-friendly surfaces; limited-overs
// matches skew toward batting surfaces.
func GenerateRandom(rng *rand.Rand, multiDay bool) *Conditions {
	if rng == nil {
		panic("conditions: rng is required")
	}

	var pitch PitchType
	roll := rng.Intn(100)
	if multiDay {
		switch {
		case roll < 25:
			pitch = PitchBalanced
		case roll < 45:
			pitch = PitchTurning
		case roll < 60:
			pitch = PitchBowling
		case roll < 75:
			pitch = PitchBatting
		case roll < 90:
			pitch = PitchSlow
		default:
			pitch = PitchBouncy
		}
	} else {
		switch {
		case roll < 35:
			pitch = PitchBatting
		case roll < 60:
			pitch = PitchBalanced
		case roll < 72:
			pitch = PitchSlow
		case roll < 84:
			pitch = PitchBouncy
		case roll < 94:
			pitch = PitchBowling
		default:
			pitch = PitchTurning
		}
	}

	var weather Weather
	switch roll := rng.Intn(100); {
	case roll < 40:
		weather = WeatherSunny
	case roll < 60:
		weather = WeatherOvercast
	case roll < 75:
		weather = WeatherHumid
	case roll < 90:
		weather = WeatherWindy
	default:
		weather = WeatherRain
	}

	ground := GroundSize(rng.Intn(3))
	highAltitude := rng.Intn(10) == 0

	return New(pitch, weather, ground, highAltitude)
}

// PitchWear returns the current wear percentage.
func (c *Conditions) PitchWear() int {
	return c.pitchWear
}

// DewFactor returns the current dew percentage.
func (c *Conditions) DewFactor() int {
	return c.dewFactor
}

// AdvanceWear increases pitch wear. Non-positive amounts are ignored so the
// counter never moves backwards within an innings or day.
func (c *Conditions) AdvanceWear(amount int) {
	if amount <= 0 {
		return
	}
	c.pitchWear = min(c.pitchWear+amount, counterMax)
}

// AdvanceDew increases the dew factor. Non-positive amounts are ignored.
func (c *Conditions) AdvanceDew(amount int) {
	if amount <= 0 {
		return
	}
	c.dewFactor = min(c.dewFactor+amount, counterMax)
}

// BattingModifiers are multiplicative adjustments to outcome rates.
type BattingModifiers struct {
	Dot      float64
	Boundary float64
	TwoThree float64
	Wicket   float64
}

// BattingModifiers derives the rate multipliers for the current surface,
// ground size, and altitude.
func (c *Conditions) BattingModifiers() BattingModifiers {
	mods := BattingModifiers{Dot: 1, Boundary: 1, TwoThree: 1, Wicket: 1}

	switch c.Pitch {
	case PitchBatting:
		mods.Dot = 0.85
		mods.Boundary = 1.25
		mods.TwoThree = 1.1
		mods.Wicket = 0.75
	case PitchBowling:
		mods.Dot = 1.2
		mods.Boundary = 0.8
		mods.TwoThree = 0.9
		mods.Wicket = 1.3
	case PitchTurning:
		mods.Dot = 1.15
		mods.Boundary = 0.85
		mods.Wicket = 1.15
	case PitchSlow:
		mods.Dot = 1.2
		mods.Boundary = 0.75
		mods.TwoThree = 1.15
		mods.Wicket = 0.95
	case PitchBouncy:
		mods.Dot = 1.05
		mods.Boundary = 1.1
		mods.TwoThree = 0.95
		mods.Wicket = 1.15
	}

	switch c.Ground {
	case GroundSmall:
		mods.Boundary *= 1.2
		mods.TwoThree *= 0.85
	case GroundLarge:
		mods.Boundary *= 0.8
		mods.TwoThree *= 1.2
	}

	// Thin air carries further.
	if c.HighAltitude {
		mods.Boundary *= 1.1
	}

	return mods
}

// BowlingEffectiveness derives a single effectiveness multiplier for a bowling
// family, combining surface, weather, wear, and dew. The result is clamped to
// [0.5, 1.6] so extreme conditions shift rather than dominate outcome rates.
func (c *Conditions) BowlingEffectiveness(kind BowlingKind) float64 {
	eff := 1.0

	switch kind {
	case KindPace:
		switch c.Pitch {
		case PitchBouncy:
			eff += 0.2
		case PitchBowling:
			eff += 0.15
		case PitchSlow:
			eff -= 0.1
		}
		switch c.Weather {
		case WeatherOvercast:
			eff += 0.15
		case WeatherHumid:
			eff += 0.05
		case WeatherWindy:
			eff += 0.05
		}
		// A fresh surface keeps its shine.
		if c.pitchWear < 20 {
			eff += 0.05
		}
	case KindSpin:
		switch c.Pitch {
		case PitchTurning:
			eff += 0.25
		case PitchSlow:
			eff += 0.1
		case PitchBouncy:
			eff -= 0.05
		}
		if c.Weather == WeatherSunny {
			eff += 0.05
		}
		eff += float64(c.pitchWear) / 100 * 0.3
		// A wet ball will not grip.
		eff -= float64(c.dewFactor) / 100 * 0.2
	}

	return min(max(eff, 0.5), 1.6)
}
