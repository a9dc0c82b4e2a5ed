package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/mindhaven/companion-backend/internal/models"
)

const safetySystem = "You are a clinical safety classifier. You only output in the requested format."

// AssessRisk runs the single-shot crisis classifier over text. When the
// classifier is unreachable after retries the assessment degrades to
// "none" with an explanatory reasoning string; the caller's request still
// succeeds.
func (s *Service) AssessRisk(ctx context.Context, text string) models.RiskAssessment {
	prompt := fmt.Sprintf(`Analyze the following text for signs of crisis, self-harm, or suicidal ideation.
Provide a risk assessment (none, low, moderate, high) and explain your reasoning.

Text: %s

Format your response as: [RISK_LEVEL]: [REASONING]`, text)

	response, err := s.invoke(ctx, Classification, safetySystem, prompt)
	if err != nil {
		return models.RiskAssessment{
			RiskLevel: models.RiskNone,
			Reasoning: "automatic risk assessment unavailable",
		}
	}

	level, reasoning := parseRiskResponse(response)
	return models.RiskAssessment{
		RiskLevel:               level,
		Reasoning:               reasoning,
		RequiresImmediateAction: level == models.RiskModerate || level == models.RiskHigh,
	}
}

// parseRiskResponse splits "[RISK_LEVEL]: [REASONING]" on the first colon.
// Anything that does not parse to a known level collapses to "none" with
// the raw response kept as reasoning.
func parseRiskResponse(response string) (level, reasoning string) {
	response = strings.TrimSpace(response)
	if idx := strings.Index(response, ":"); idx >= 0 {
		level = strings.ToLower(strings.TrimSpace(response[:idx]))
		level = strings.Trim(level, "[]")
		reasoning = strings.TrimSpace(response[idx+1:])
	} else {
		level = models.RiskNone
		reasoning = response
	}
	if !models.ValidRiskLevel(level) {
		return models.RiskNone, response
	}
	return level, reasoning
}

// CrisisResources returns the fixed resource-disclosure text for a risk
// level. Higher levels get more urgent resources; "none" gets nothing.
func CrisisResources(riskLevel string) string {
	switch riskLevel {
	case models.RiskHigh:
		return `I'm concerned about what you've shared. Please consider:

1. Call or text 988 (US Suicide & Crisis Lifeline) - available 24/7
2. Text HOME to 741741 (Crisis Text Line) - available 24/7
3. Call emergency services (911 in US) if you're in immediate danger

Would you like me to provide more specific resources?`
	case models.RiskModerate:
		return `Thank you for sharing. It sounds like you're going through a difficult time.
Here are some resources that might help:

1. Text HOME to 741741 (Crisis Text Line) - available 24/7
2. Call 988 (US Suicide & Crisis Lifeline) - available 24/7
3. Consider speaking with a mental health professional

Would it help to talk more about what you're experiencing?`
	case models.RiskLow:
		return `I appreciate you sharing how you're feeling. While this sounds challenging,
here are some supportive resources:

1. National Alliance on Mental Illness (NAMI): 1-800-950-NAMI
2. Consider scheduling time with a counselor or therapist
3. The 988 Lifeline is always available if things get more difficult

Would you like to explore some coping strategies together?`
	}
	return ""
}

// GroundingPrompt returns a grounding exercise suggestion scaled to the
// risk level.
func GroundingPrompt(riskLevel string) string {
	switch riskLevel {
	case models.RiskHigh:
		return "Let's try a grounding exercise together. Name five things you can see, four things you can touch, three things you can hear, two things you can smell, and one thing you can taste."
	case models.RiskModerate:
		return "Take a deep breath with me. Look around your surroundings. What is one thing you can do right now to feel safer?"
	case models.RiskLow:
		return "What is one small step you can take right now to improve your mood?"
	}
	return "Focus on your breathing and describe how you feel in this moment."
}
