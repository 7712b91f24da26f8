package scenario

import (
	"fmt"
	"log"

	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
)

// AssertionMode controls how failed expectations are handled.
type AssertionMode int

const (
	// AssertionStrict fails the run on the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLog records unmet expectations and keeps going.
	AssertionLog
)

// Assertions evaluates scripted expectations under a mode.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger

	// Failures counts unmet expectations seen in log mode.
	Failures int
}

// Check records an expectation result. In strict mode an unmet expectation
// is returned as an error; in log mode it is logged and counted.
func (a *Assertions) Check(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	if a.Mode == AssertionStrict {
		return apperrors.New(apperrors.CodeScenarioExpectation, message)
	}
	a.Failures++
	if a.Logger != nil {
		a.Logger.Printf("expectation not met: %s", message)
	}
	return nil
}
