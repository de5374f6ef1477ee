package valueobject

import "fmt"

// Credit score scale bounds.
const (
	MinCreditScore = 0
	MaxCreditScore = 850
)

// Score thresholds for risk bucketing.
const (
	highRiskBelow = 600
	lowRiskAbove  = 750
)

// RiskLevel is a coarse bucketing of a credit score.
type RiskLevel struct {
	value string
}

const (
	riskLow    = "low"
	riskMedium = "medium"
	riskHigh   = "high"
)

var (
	RiskLevelLow    = RiskLevel{value: riskLow}
	RiskLevelMedium = RiskLevel{value: riskMedium}
	RiskLevelHigh   = RiskLevel{value: riskHigh}
)

// RiskLevelFromScore derives the risk bucket: below 600 is high, above 750 is
// low, anything in between is medium.
func RiskLevelFromScore(score int) RiskLevel {
	switch {
	case score < highRiskBelow:
		return RiskLevelHigh
	case score > lowRiskAbove:
		return RiskLevelLow
	default:
		return RiskLevelMedium
	}
}

// NewRiskLevel parses a risk level name.
func NewRiskLevel(s string) (RiskLevel, error) {
	switch s {
	case riskLow:
		return RiskLevelLow, nil
	case riskMedium:
		return RiskLevelMedium, nil
	case riskHigh:
		return RiskLevelHigh, nil
	}
	return RiskLevel{}, fmt.Errorf("invalid risk level: %q", s)
}

func (r RiskLevel) String() string { return r.value }

// IsZero returns true if the risk level has not been initialised.
func (r RiskLevel) IsZero() bool { return r.value == "" }
