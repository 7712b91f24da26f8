package scenario

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
)

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Logger = log.New(io.Discard, "", 0)
	return cfg
}

func runFixture(t *testing.T, cfg Config, content string) error {
	t.Helper()
	path := writeScenarioFixture(t, "fixture.lua", content)
	return RunFile(context.Background(), cfg, path)
}

func TestRunScenarioScriptedDeliveries(t *testing.T) {
	err := runFixture(t, quietConfig(), `
return Scenario.new("scripted over")
	:format("t20")
	:seed(11)
	:teams({home = "Alpha", away = "Beta"})
	:deliver({runs = 6})
	:deliver({runs = 1})
	:deliver({wide = true})
	:deliver({wicket = "bowled"})
	:expect_score({runs = 8, wickets = 1})
`)
	if err != nil {
		t.Fatalf("RunFile() error = %v", err)
	}
}

func TestRunScenarioStrictExpectationFailure(t *testing.T) {
	err := runFixture(t, quietConfig(), `
return Scenario.new("wrong total")
	:format("t20")
	:seed(11)
	:deliver({runs = 4})
	:expect_score({runs = 99})
`)
	if err == nil {
		t.Fatal("RunFile() error = nil, want expectation failure")
	}
	if !apperrors.IsCode(err, apperrors.CodeScenarioExpectation) {
		t.Fatalf("error code = %v, want %s", err, apperrors.CodeScenarioExpectation)
	}
	if !strings.Contains(err.Error(), "step 4 (expect_score)") {
		t.Fatalf("error = %q, want step context", err.Error())
	}
}

func TestRunScenarioLogModeCountsFailures(t *testing.T) {
	path := writeScenarioFixture(t, "soft.lua", `
return Scenario.new("soft expectations")
	:format("t20")
	:seed(11)
	:deliver({runs = 4})
	:expect_score({runs = 99})
	:expect_score({runs = 4, wickets = 0})
`)
	cfg := quietConfig()
	cfg.Assertions = AssertionLog

	runner := NewRunner(cfg)
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("LoadScenarioFromFile() error = %v", err)
	}
	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("RunScenario() error = %v", err)
	}
	if got := runner.Failures(); got != 1 {
		t.Fatalf("Failures() = %d, want 1", got)
	}
}

func TestRunScenarioConfigAfterPlayRejected(t *testing.T) {
	err := runFixture(t, quietConfig(), `
return Scenario.new("late seed")
	:format("t20")
	:deliver({runs = 0})
	:seed(3)
`)
	if err == nil {
		t.Fatal("RunFile() error = nil, want invalid step")
	}
	if !apperrors.IsCode(err, apperrors.CodeScenarioInvalidStep) {
		t.Fatalf("error code = %v, want %s", err, apperrors.CodeScenarioInvalidStep)
	}
}

func TestRunScenarioUnknownFormat(t *testing.T) {
	err := runFixture(t, quietConfig(), `
return Scenario.new("bad format")
	:format("t10")
`)
	if err == nil {
		t.Fatal("RunFile() error = nil, want invalid step")
	}
	if !apperrors.IsCode(err, apperrors.CodeScenarioInvalidStep) {
		t.Fatalf("error code = %v, want %s", err, apperrors.CodeScenarioInvalidStep)
	}
}

func TestRunScenarioInvalidRuns(t *testing.T) {
	err := runFixture(t, quietConfig(), `
return Scenario.new("five runs")
	:format("t20")
	:deliver({runs = 5})
`)
	if err == nil {
		t.Fatal("RunFile() error = nil, want invalid step")
	}
	if !apperrors.IsCode(err, apperrors.CodeScenarioInvalidStep) {
		t.Fatalf("error code = %v, want %s", err, apperrors.CodeScenarioInvalidStep)
	}
}

func TestRunScenarioDeclareNeedsTestMatch(t *testing.T) {
	err := runFixture(t, quietConfig(), `
return Scenario.new("t20 declaration")
	:format("t20")
	:deliver({runs = 1})
	:declare()
`)
	if err == nil {
		t.Fatal("RunFile() error = nil, want invalid step")
	}
	if !apperrors.IsCode(err, apperrors.CodeScenarioInvalidStep) {
		t.Fatalf("error code = %v, want %s", err, apperrors.CodeScenarioInvalidStep)
	}
}

func TestRunScenarioFastForwardToCompletion(t *testing.T) {
	err := runFixture(t, quietConfig(), `
return Scenario.new("whole match")
	:format("t20")
	:seed(29)
	:conditions({pitch = "balanced", weather = "sunny", ground = "medium"})
	:fast_forward(4000)
	:expect_complete()
`)
	if err != nil {
		t.Fatalf("RunFile() error = %v", err)
	}
}
