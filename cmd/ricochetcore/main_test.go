package main

import (
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/internal/telemetry"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/trajectory"
)

// TestRunScenarioMatchesLiteralExpectations exercises the four path
// end-to-end scenarios (the two visibility scenarios are covered by
// the next test) against small fixture scene files, checking
// runScenario's output directly rather than shelling out to the built
// binary.
func TestRunScenarioMatchesLiteralExpectations(t *testing.T) {
	tests := []struct {
		name                string
		fixture             string
		wantFullyAligned    bool
		wantCursorReachable bool
		wantTermination     trajectory.TerminationKind
	}{
		{
			name:                "direct shot, no plan",
			fixture:             "testdata/scenario1_direct_shot.yaml",
			wantFullyAligned:    true,
			wantCursorReachable: true,
			wantTermination:     trajectory.TerminationCursorReached,
		},
		{
			name:                "single horizontal bounce",
			fixture:             "testdata/scenario2_single_bounce.yaml",
			wantFullyAligned:    true,
			wantCursorReachable: true,
			wantTermination:     trajectory.TerminationCursorReached,
		},
		{
			name:                "wall blocks before plan",
			fixture:             "testdata/scenario3_wall_blocks.yaml",
			wantFullyAligned:    false,
			wantCursorReachable: false,
			wantTermination:     trajectory.TerminationWallHit,
		},
		{
			name:                "off-segment planned hit is bypassed",
			fixture:             "testdata/scenario4_offsegment_bypass.yaml",
			wantFullyAligned:    true,
			wantCursorReachable: true,
			wantTermination:     trajectory.TerminationCursorReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, elapsed, err := runScenario(tt.fixture, telemetry.NopLogger{})
			if err != nil {
				t.Fatalf("runScenario(%q): %v", tt.fixture, err)
			}
			if elapsed < 0 {
				t.Errorf("expected a non-negative elapsed duration, got %v", elapsed)
			}
			if results.Path.IsFullyAligned != tt.wantFullyAligned {
				t.Errorf("IsFullyAligned = %v, want %v", results.Path.IsFullyAligned, tt.wantFullyAligned)
			}
			if results.Path.CursorReachable != tt.wantCursorReachable {
				t.Errorf("CursorReachable = %v, want %v", results.Path.CursorReachable, tt.wantCursorReachable)
			}
			last := results.Path.Segments[len(results.Path.Segments)-1]
			if last.Termination.Kind != tt.wantTermination {
				t.Errorf("final Termination.Kind = %v, want %v", last.Termination.Kind, tt.wantTermination)
			}
		})
	}
}

func TestRunScenarioVisibilityFixturesProduceValidStages(t *testing.T) {
	for _, fixture := range []string{
		"testdata/scenario5_360_visibility.yaml",
		"testdata/scenario6_windowed_visibility.yaml",
	} {
		t.Run(fixture, func(t *testing.T) {
			results, _, err := runScenario(fixture, telemetry.NopLogger{})
			if err != nil {
				t.Fatalf("runScenario(%q): %v", fixture, err)
			}
			if len(results.VisibilityStages) == 0 {
				t.Fatalf("expected at least one visibility stage")
			}
			if !results.VisibilityStages[0].IsValid {
				t.Errorf("expected stage 0 to be valid for %q", fixture)
			}
		})
	}
}

func TestRunCommandRequiresSceneFlag(t *testing.T) {
	app := &cli.App{
		Name:     "ricochetcore",
		Commands: []*cli.Command{runCommand()},
	}

	if err := app.Run([]string{"ricochetcore", "run"}); err == nil {
		t.Errorf("expected an error when --scene is omitted")
	}
}

func TestRunCommandRejectsMissingSceneFile(t *testing.T) {
	app := &cli.App{
		Name:     "ricochetcore",
		Commands: []*cli.Command{runCommand()},
	}

	if err := app.Run([]string{"ricochetcore", "run", "--scene", "testdata/does-not-exist.yaml"}); err == nil {
		t.Errorf("expected an error for a missing scene file")
	}
}

func TestServeCommandRegistersPortFlag(t *testing.T) {
	cmd := serveCommand()
	found := false
	for _, f := range cmd.Flags {
		if f.Names()[0] == "port" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected serve command to register a --port flag")
	}
}

