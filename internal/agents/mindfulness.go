package agents

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Exercise is one entry of the fixed mindfulness catalog.
type Exercise struct {
	DurationSeconds int
	Steps           []string
}

var exercises = map[string]Exercise{
	"breathing": {
		DurationSeconds: 300,
		Steps: []string{
			"Find a comfortable position",
			"Close your eyes and take a deep breath",
			"Breathe in for 4 counts",
			"Hold for 4 counts",
			"Exhale for 4 counts",
			"Repeat the cycle",
		},
	},
	"body_scan": {
		DurationSeconds: 600,
		Steps: []string{
			"Lie down comfortably",
			"Focus attention on your feet",
			"Slowly move attention up through your body",
			"Notice any sensations without judgment",
			"Release any tension you find",
		},
	},
	"mindful_walking": {
		DurationSeconds: 900,
		Steps: []string{
			"Find a quiet space to walk",
			"Walk at a natural pace",
			"Notice the sensation of each step",
			"Focus on your breathing while walking",
			"Observe your surroundings mindfully",
		},
	},
}

// ExerciseTypes lists the catalog keys in stable order.
func ExerciseTypes() []string {
	types := make([]string, 0, len(exercises))
	for name := range exercises {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// LookupExercise returns the catalog entry for exerciseType.
func LookupExercise(exerciseType string) (Exercise, bool) {
	ex, ok := exercises[exerciseType]
	return ex, ok
}

// GuideExercise renders the step-by-step guidance text for an exercise.
// Unknown types report the available catalog instead.
func GuideExercise(exerciseType string, now time.Time) (string, error) {
	ex, ok := exercises[exerciseType]
	if !ok {
		return "", fmt.Errorf("exercise type %q not found. Available exercises: %s",
			exerciseType, strings.Join(ExerciseTypes(), ", "))
	}

	lines := []string{
		fmt.Sprintf("Starting %s exercise at %s", exerciseType, now.Format(time.RFC3339)),
		fmt.Sprintf("Duration: %d minutes", ex.DurationSeconds/60),
		"",
		"Follow these steps:",
	}
	for i, step := range ex.Steps {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, step))
	}
	return strings.Join(lines, "\n"), nil
}
