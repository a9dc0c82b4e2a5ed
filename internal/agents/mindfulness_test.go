package agents

import (
	"strings"
	"testing"
	"time"
)

func TestExerciseCatalog(t *testing.T) {
	want := map[string]int{
		"breathing":       300,
		"body_scan":       600,
		"mindful_walking": 900,
	}

	types := ExerciseTypes()
	if len(types) != len(want) {
		t.Fatalf("ExerciseTypes() returned %d entries, want %d", len(types), len(want))
	}

	for name, duration := range want {
		ex, ok := LookupExercise(name)
		if !ok {
			t.Errorf("LookupExercise(%q) not found", name)
			continue
		}
		if ex.DurationSeconds != duration {
			t.Errorf("%s duration = %d, want %d", name, ex.DurationSeconds, duration)
		}
		if len(ex.Steps) == 0 {
			t.Errorf("%s has no steps", name)
		}
	}
}

func TestExerciseTypesSorted(t *testing.T) {
	types := ExerciseTypes()
	for i := 1; i < len(types); i++ {
		if types[i-1] > types[i] {
			t.Fatalf("ExerciseTypes() not sorted: %v", types)
		}
	}
}

func TestGuideExercise(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	guide, err := GuideExercise("breathing", now)
	if err != nil {
		t.Fatalf("GuideExercise() unexpected error: %v", err)
	}
	if !strings.Contains(guide, "Duration: 5 minutes") {
		t.Error("breathing guide missing duration line")
	}
	if !strings.Contains(guide, "1. Find a comfortable position") {
		t.Error("breathing guide missing numbered first step")
	}
}

func TestGuideExerciseUnknownType(t *testing.T) {
	_, err := GuideExercise("levitation", time.Now())
	if err == nil {
		t.Fatal("GuideExercise() expected error for unknown type")
	}
	for _, name := range ExerciseTypes() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not list available exercise %q: %v", name, err)
		}
	}
}
