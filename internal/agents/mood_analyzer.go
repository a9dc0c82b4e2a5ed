package agents

import (
	"context"
	"fmt"
	"strings"
)

const (
	moodSystem = "You are an emotion-detection classifier. Reply with short lowercase emotion labels only."

	fallbackMood     = "neutral"
	fallbackPatterns = "Not enough information to detect emotional patterns right now. Keep journaling and check back soon."
)

// AnalyzeMood extracts the primary emotions from a piece of text.
func (s *Service) AnalyzeMood(ctx context.Context, text string) string {
	prompt := fmt.Sprintf(`Analyze the following text and identify the emotional state of the writer.
Return the primary emotions detected (e.g., "anxious", "content", "sad", "hopeful"), comma-separated.

Text: %s

Primary emotions:`, text)

	result, err := s.invoke(ctx, Classification, moodSystem, prompt)
	if err != nil {
		return fallbackMood
	}
	return strings.TrimSpace(result)
}

// DetectPatterns reviews several entries chronologically and describes
// recurring emotional themes.
func (s *Service) DetectPatterns(ctx context.Context, entries []string) string {
	var b strings.Builder
	for i, entry := range entries {
		fmt.Fprintf(&b, "Entry %d: %s\n\n", i+1, entry)
	}

	prompt := fmt.Sprintf(`Review these journal entries chronologically and identify any emotional patterns or trends.
Focus on recurring themes, triggers, and changes in emotional state.

Entries:
%s
Emotional patterns detected:`, b.String())

	result, err := s.invoke(ctx, Conversation, journalSystem, prompt)
	if err != nil {
		return fallbackPatterns
	}
	return strings.TrimSpace(result)
}
