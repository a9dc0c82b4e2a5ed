package agents

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	journalSystem = "You are a supportive journaling companion for a mental-health app. Be warm, concise and non-judgmental. Never diagnose."

	fallbackInsights = "Thank you for writing today. Reflecting on your thoughts regularly is a meaningful step, even when it feels small."
	fallbackPrompt   = "What is one thing on your mind right now, and how does it make you feel?"
)

// AnalyzeEntry produces the ai_insights payload for a new journal entry.
// An exhausted agent degrades to canned insight text.
func (s *Service) AnalyzeEntry(ctx context.Context, content string) map[string]interface{} {
	prompt := fmt.Sprintf(`Read this journal entry and offer a short, supportive reflection (2-3 sentences).
Mention one theme you noticed and one gentle question the writer could sit with.

Entry: %s`, content)

	insights, err := s.invoke(ctx, Conversation, journalSystem, prompt)
	if err != nil {
		insights = fallbackInsights
	}
	return map[string]interface{}{"insights": strings.TrimSpace(insights)}
}

// CreatePrompt generates a journaling prompt, optionally conditioned on
// the user's current mood.
func (s *Service) CreatePrompt(ctx context.Context, mood string) string {
	var prompt string
	if mood != "" {
		prompt = fmt.Sprintf("Write a single open-ended journaling prompt for someone who is feeling %s. Reply with only the prompt.", mood)
	} else {
		prompt = "Write a single open-ended journaling prompt encouraging self-reflection. Reply with only the prompt."
	}

	result, err := s.invoke(ctx, Conversation, journalSystem, prompt)
	if err != nil {
		return fallbackPrompt
	}
	return strings.TrimSpace(result)
}

// SentimentScore rates content between -1 (very negative) and 1 (very
// positive). Returns nil when the classifier fails or replies with
// something that is not a number in range.
func (s *Service) SentimentScore(ctx context.Context, content string) *float64 {
	prompt := fmt.Sprintf(`Rate the overall sentiment of the following text as a number between -1.0 (very negative) and 1.0 (very positive).
Respond with only the number.

Text: %s`, content)

	result, err := s.invoke(ctx, Classification, safetySystem, prompt)
	if err != nil {
		return nil
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(result), 64)
	if err != nil || score < -1 || score > 1 {
		return nil
	}
	return &score
}
