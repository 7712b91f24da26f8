// Package errors provides structured error handling for the simulation core.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Match state errors
	CodeMatchInningsLimit        Code = "MATCH_INNINGS_LIMIT_REACHED"
	CodeMatchInningsIncomplete   Code = "MATCH_INNINGS_INCOMPLETE"
	CodeMatchAlreadyComplete     Code = "MATCH_ALREADY_COMPLETE"
	CodeMatchDeclarationClosed   Code = "MATCH_DECLARATION_WINDOW_CLOSED"
	CodeMatchFollowOnUnavailable Code = "MATCH_FOLLOW_ON_UNAVAILABLE"
	CodeMatchNoBatterRemaining   Code = "MATCH_NO_BATTER_REMAINING"
	CodeMatchInvalidLineup       Code = "MATCH_INVALID_LINEUP"

	// Probability table errors
	CodeProbEmptyTable       Code = "PROB_EMPTY_TABLE"
	CodeProbNonPositiveTotal Code = "PROB_NON_POSITIVE_TOTAL"

	// Simulation errors
	CodeSimBallCeilingInvalid Code = "SIM_BALL_CEILING_INVALID"

	// Scenario errors
	CodeScenarioExpectation Code = "SCENARIO_EXPECTATION_FAILED"
	CodeScenarioInvalidStep Code = "SCENARIO_INVALID_STEP"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
