package parser

import (
	"testing"

	"github.com/chrisdamba/nutriparse/internal/models"
)

const sampleDocument = "Colazione:\n- 150 gr Yogurt\nSpuntino\n*Pranzo\nProteine: (scegline uno)\n- 200 g Pollo\nCarboidrati: (scegline uno)\n- 80 g Riso\nGrassi: (scegline uno)\n- 10 g Olio"

func finderFor(t *testing.T, meal string) RegionFinder {
	t.Helper()
	for _, f := range Default().Regions() {
		if f.Meal == meal {
			return f
		}
	}
	t.Fatalf("no region finder for %s", meal)
	return RegionFinder{}
}

func TestRegionFinders(t *testing.T) {
	tests := []struct {
		meal string
		want string
	}{
		{models.MealBreakfast, "Colazione:\n- 150 gr Yogurt\n"},
		{models.MealSnack, "Spuntino\n"},
		{models.MealLunch, "*Pranzo\nProteine: (scegline uno)\n- 200 g Pollo\nCarboidrati: (scegline uno)\n- 80 g Riso\n"},
	}

	for _, tt := range tests {
		t.Run(tt.meal, func(t *testing.T) {
			got, ok := finderFor(t, tt.meal).Slice(sampleDocument)
			if !ok {
				t.Fatal("region not found")
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegionFinderMissingStart(t *testing.T) {
	if span, ok := finderFor(t, models.MealLunch).Find("Colazione:\n- 1 g Pane\n"); ok {
		t.Errorf("expected no lunch region, got %+v", span)
	}
}

func TestRegionFinderRunsToEndWithoutBoundary(t *testing.T) {
	text := "intro\ncolazione:\n- 30 g Avena\n"
	span, ok := finderFor(t, models.MealBreakfast).Find(text)
	if !ok {
		t.Fatal("expected breakfast region")
	}
	if span.Start != 6 || span.End != len(text) {
		t.Errorf("got %+v, want {6 %d}", span, len(text))
	}
}

func TestLunchBoundaryNeedsFollowingOption(t *testing.T) {
	// Grassi: with no dash anywhere after it is not a boundary.
	text := "*Pranzo\nProteine: (scegline uno)\n- 200 g Pollo\nGrassi: (scegline uno)\nOlio a piacere\n"
	got, ok := finderFor(t, models.MealLunch).Slice(text)
	if !ok {
		t.Fatal("expected lunch region")
	}
	if got != text {
		t.Errorf("expected region to run to end of text, got %q", got)
	}
}

func TestSnackRegionStopsAtFirstBoundary(t *testing.T) {
	text := "Spuntino\n- 1 Frutto\nIMPORTANTE: leggere\n*Cena\n"
	got, ok := finderFor(t, models.MealSnack).Slice(text)
	if !ok {
		t.Fatal("expected snack region")
	}
	if want := "Spuntino\n- 1 Frutto\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
