package agents

import (
	"context"
	"fmt"
	"strings"
)

const (
	companionSystem = "You are a compassionate companion in a mental-health app. Listen actively, validate feelings, and suggest gentle next steps. Never diagnose or prescribe. Keep replies under 150 words."

	fallbackReply   = "I'm having trouble responding right now, but I'm still here with you. Could you tell me a bit more about how you're feeling?"
	fallbackSummary = "We couldn't generate a summary this week, but showing up for yourself by logging moods and journaling already matters."
)

// Chat produces a single companion reply to a user message.
func (s *Service) Chat(ctx context.Context, message string) string {
	result, err := s.invoke(ctx, Conversation, companionSystem, message)
	if err != nil {
		return fallbackReply
	}
	return strings.TrimSpace(result)
}

// SummarizeWeek turns a week's worth of aggregates and entry excerpts
// into a short encouraging recap.
func (s *Service) SummarizeWeek(ctx context.Context, moodLogCount, entryCount int, averageMood string, excerpts []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Over the past week the user logged their mood %d times and wrote %d journal entries.", moodLogCount, entryCount)
	if averageMood != "" {
		fmt.Fprintf(&b, " Their average mood score was %s out of 10.", averageMood)
	}
	if len(excerpts) > 0 {
		b.WriteString("\n\nJournal excerpts:\n")
		for i, excerpt := range excerpts {
			fmt.Fprintf(&b, "Excerpt %d: %s\n", i+1, excerpt)
		}
	}
	b.WriteString("\nWrite a short (3-4 sentence) supportive summary of their week, noting one positive observation and one gentle suggestion.")

	result, err := s.invoke(ctx, Conversation, companionSystem, b.String())
	if err != nil {
		return fallbackSummary
	}
	return strings.TrimSpace(result)
}
