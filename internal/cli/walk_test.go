package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/devsanthoshmk/home360"
	"github.com/devsanthoshmk/home360/pkg/domain"
)

func newWalkTour(t *testing.T) *home360.Tour {
	t.Helper()
	tour, err := home360.New("loft", []domain.Scene{
		{
			ID:          "loft",
			Title:       "Loft",
			Description: "Open space under the roof.",
			Image:       "img/loft.jpg",
			Hotspots: []domain.Hotspot{
				{Target: "kitchen", Label: "Kitchen Door"},
				{Target: "studio"},
			},
		},
		{
			ID:       "kitchen",
			Title:    "Kitchen",
			Image:    "img/kitchen.jpg",
			Hotspots: []domain.Hotspot{{Target: "loft"}},
		},
		{
			ID:       "studio",
			Title:    "Studio",
			Image:    "img/studio.jpg",
			Hotspots: []domain.Hotspot{{Target: "loft"}},
		},
	}, home360.WithExitDuration(0))
	if err != nil {
		t.Fatalf("building tour: %v", err)
	}
	return tour
}

func runScript(t *testing.T, tour *home360.Tour, script string) string {
	t.Helper()
	var out strings.Builder
	if err := RunWalk(context.Background(), tour, strings.NewReader(script), &out, 80); err != nil {
		t.Fatalf("RunWalk: %v", err)
	}
	return out.String()
}

func TestRunWalkScriptedVisit(t *testing.T) {
	tour := newWalkTour(t)
	defer tour.Close()

	out := runScript(t, tour, "2\nn\ng kitchen\nq\n")

	if got := tour.CurrentSceneID(); got != "kitchen" {
		t.Fatalf("final scene = %q, want kitchen", got)
	}
	for _, want := range []string{"Loft", "room 1 of 3", "Studio", "Kitchen Door", "Bye!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if visits := tour.State().Visits; visits != 3 {
		t.Errorf("visits = %d, want 3", visits)
	}
}

func TestRunWalkReportsRefusedMoves(t *testing.T) {
	tour := newWalkTour(t)
	defer tour.Close()

	out := runScript(t, tour, "g nowhere\ng loft\n5\nx\n")

	if got := tour.CurrentSceneID(); got != "loft" {
		t.Fatalf("final scene = %q, want loft", got)
	}
	for _, want := range []string{
		`No scene "nowhere" in this tour.`,
		"Already in that room.",
		"No exit 5 in this room.",
		`Unknown command "x". Type 'h' for help.`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if visits := tour.State().Visits; visits != 0 {
		t.Errorf("visits = %d, want 0", visits)
	}
}

func TestRunWalkHelp(t *testing.T) {
	tour := newWalkTour(t)
	defer tour.Close()

	out := runScript(t, tour, "h\nq\n")
	if !strings.Contains(out, "Commands:") {
		t.Errorf("help output missing command list:\n%s", out)
	}
}

func TestRunWalkEndsCleanlyOnEOF(t *testing.T) {
	tour := newWalkTour(t)
	defer tour.Close()

	out := runScript(t, tour, "")
	if !strings.Contains(out, "Loft") {
		t.Errorf("card for the entry scene not printed:\n%s", out)
	}
}

func TestRunWalkInterrupted(t *testing.T) {
	tour := newWalkTour(t)
	defer tour.Close()

	cancel := make(chan struct{})
	close(cancel)
	in := NewInterruptibleReader(strings.NewReader("n\n"), cancel)

	var out strings.Builder
	err := RunWalk(context.Background(), tour, in, &out, 80)
	if err == nil || !isInterrupted(err) {
		t.Fatalf("err = %v, want interrupted", err)
	}
	if handleExecutionError(err) != nil {
		t.Errorf("interrupt should map to a clean exit, got %v", handleExecutionError(err))
	}
}

func TestReportOutcomeFailures(t *testing.T) {
	var out strings.Builder
	reportOutcome(&out, &domain.Result{Outcome: domain.OutcomeTimedOut, To: "attic"})
	reportOutcome(&out, &domain.Result{Outcome: domain.OutcomeFailed, To: "cellar", Err: errors.New("texture decode")})
	reportOutcome(&out, &domain.Result{Outcome: domain.OutcomeCompleted, To: "hall"})

	got := out.String()
	if !strings.Contains(got, `Loading "attic" timed out`) {
		t.Errorf("timeout not reported: %q", got)
	}
	if !strings.Contains(got, `Could not enter "cellar": texture decode`) {
		t.Errorf("failure not reported: %q", got)
	}
	if strings.Contains(got, "hall") {
		t.Errorf("committed move should stay silent: %q", got)
	}
}
