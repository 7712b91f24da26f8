package engine

// OutcomeKind identifies what happened on one delivery.
type OutcomeKind int

const (
	OutcomeDot OutcomeKind = iota
	OutcomeSingle
	OutcomeTwo
	OutcomeThree
	OutcomeFour
	OutcomeSix
	OutcomeWicket
	OutcomeWide
	OutcomeNoBall
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDot:
		return "dot"
	case OutcomeSingle:
		return "single"
	case OutcomeTwo:
		return "two"
	case OutcomeThree:
		return "three"
	case OutcomeFour:
		return "four"
	case OutcomeSix:
		return "six"
	case OutcomeWicket:
		return "wicket"
	case OutcomeWide:
		return "wide"
	case OutcomeNoBall:
		return "no_ball"
	default:
		return "unknown"
	}
}

// IsExtra reports whether the outcome is an illegal delivery.
func (k OutcomeKind) IsExtra() bool {
	return k == OutcomeWide || k == OutcomeNoBall
}

// IsBoundary reports whether the outcome is a four or a six.
func (k OutcomeKind) IsBoundary() bool {
	return k == OutcomeFour || k == OutcomeSix
}

// WicketKind identifies how a batter was dismissed.
type WicketKind int

const (
	WicketNone WicketKind = iota
	WicketBowled
	WicketCaught
	WicketLBW
	WicketRunOut
	WicketStumped
	WicketHitWicket
)

func (k WicketKind) String() string {
	switch k {
	case WicketNone:
		return ""
	case WicketBowled:
		return "bowled"
	case WicketCaught:
		return "caught"
	case WicketLBW:
		return "lbw"
	case WicketRunOut:
		return "run_out"
	case WicketStumped:
		return "stumped"
	case WicketHitWicket:
		return "hit_wicket"
	default:
		return "unknown"
	}
}

// BallOutcome is the value emitted for one delivery. Immutable once produced.
type BallOutcome struct {
	Kind            OutcomeKind
	Runs            int
	IsLegalDelivery bool
	Wicket          WicketKind // WicketNone unless Kind is OutcomeWicket
}

// outcomeFor builds the BallOutcome value for a sampled kind.
func outcomeFor(kind OutcomeKind) BallOutcome {
	switch kind {
	case OutcomeDot:
		return BallOutcome{Kind: kind, Runs: 0, IsLegalDelivery: true}
	case OutcomeSingle:
		return BallOutcome{Kind: kind, Runs: 1, IsLegalDelivery: true}
	case OutcomeTwo:
		return BallOutcome{Kind: kind, Runs: 2, IsLegalDelivery: true}
	case OutcomeThree:
		return BallOutcome{Kind: kind, Runs: 3, IsLegalDelivery: true}
	case OutcomeFour:
		return BallOutcome{Kind: kind, Runs: 4, IsLegalDelivery: true}
	case OutcomeSix:
		return BallOutcome{Kind: kind, Runs: 6, IsLegalDelivery: true}
	case OutcomeWicket:
		return BallOutcome{Kind: kind, Runs: 0, IsLegalDelivery: true}
	case OutcomeWide, OutcomeNoBall:
		// Extras always concede one run and do not count as a legal ball.
		return BallOutcome{Kind: kind, Runs: 1, IsLegalDelivery: false}
	default:
		return BallOutcome{Kind: OutcomeDot, Runs: 0, IsLegalDelivery: true}
	}
}

func kindFromLabel(label string) OutcomeKind {
	switch label {
	case "dot":
		return OutcomeDot
	case "single":
		return OutcomeSingle
	case "two":
		return OutcomeTwo
	case "three":
		return OutcomeThree
	case "four":
		return OutcomeFour
	case "six":
		return OutcomeSix
	case "wicket":
		return OutcomeWicket
	case "wide":
		return OutcomeWide
	case "no_ball":
		return OutcomeNoBall
	default:
		return OutcomeDot
	}
}

func wicketFromLabel(label string) WicketKind {
	switch label {
	case "bowled":
		return WicketBowled
	case "caught":
		return WicketCaught
	case "lbw":
		return WicketLBW
	case "run_out":
		return WicketRunOut
	case "stumped":
		return WicketStumped
	case "hit_wicket":
		return WicketHitWicket
	default:
		return WicketBowled
	}
}
