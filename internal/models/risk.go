package models

// Risk levels produced by the safety classifier, in increasing severity.
const (
	RiskNone     = "none"
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
)

// RiskAssessment is the outcome of a single-shot crisis classification.
// It is returned to callers and audited, but never stored as a first-class
// document.
type RiskAssessment struct {
	RiskLevel               string `json:"risk_level"`
	Reasoning               string `json:"reasoning"`
	RequiresImmediateAction bool   `json:"requires_immediate_action"`
}

// ValidRiskLevel reports whether level is one of the four known levels.
func ValidRiskLevel(level string) bool {
	switch level {
	case RiskNone, RiskLow, RiskModerate, RiskHigh:
		return true
	}
	return false
}
