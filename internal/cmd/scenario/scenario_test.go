package scenario

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.Assertions {
		t.Fatal("expected assertions to default to true")
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("expected 10s default timeout, got %s", cfg.Timeout)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("CRICKET_GAME_SCENARIO_FILE", "env.lua")

	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-scenario", "flag.lua", "-assert=false"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "flag.lua" {
		t.Fatalf("expected flag to override env, got %q", cfg.Scenario)
	}
	if cfg.Assertions {
		t.Fatal("expected assertions disabled")
	}
}

func TestRunRequiresScenarioPath(t *testing.T) {
	if err := Run(context.Background(), Config{}, nil, nil); err == nil {
		t.Fatal("expected missing scenario path error")
	}
}

func TestRunExecutesScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.lua")
	script := `
return Scenario.new("one over")
	:format("t20")
	:seed(5)
	:deliver({runs = 4})
	:deliver({runs = 1})
	:expect_score({runs = 5, wickets = 0})
`
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}

	var out, errOut bytes.Buffer
	cfg := Config{Scenario: path, Assertions: true, Timeout: 10 * time.Second}
	if err := Run(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}
