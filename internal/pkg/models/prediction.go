package models

// TrustLabel buckets a market's trust level
type TrustLabel string

const (
	TrustHigh   TrustLabel = "HIGH"
	TrustMedium TrustLabel = "MEDIUM"
	TrustLow    TrustLabel = "LOW"
)

// TrustLabelFor maps a 0-100 trust level to its bucket:
// 100 is HIGH, 50 to 80 is MEDIUM, everything else LOW.
func TrustLabelFor(trustLevel int) TrustLabel {
	switch {
	case trustLevel == 100:
		return TrustHigh
	case trustLevel >= 50 && trustLevel <= 80:
		return TrustMedium
	default:
		return TrustLow
	}
}

// CriterionOutcome is one evaluated sub-rule of a criteria group
type CriterionOutcome struct {
	Description string `json:"description"`
	Fulfilled   bool   `json:"fulfilled"`
	Explanation string `json:"explanation"`
}

// CriteriaGroupOutcome is an evaluated all-or-nothing bundle of sub-rules.
// Fulfilled is the AND of its items.
type CriteriaGroupOutcome struct {
	Description string             `json:"description"`
	TrustWeight int                `json:"trust_weight"`
	Fulfilled   bool               `json:"fulfilled"`
	Items       []CriterionOutcome `json:"items"`
}

// PredictionResults classifies a played-match prediction. Exactly one of the
// four flags is true: they partition (trust HIGH or not) x (outcome hit or not).
type PredictionResults struct {
	Winning     bool `json:"winning"`
	LostWinning bool `json:"lost_winning"`
	Lost        bool `json:"lost"`
	SkippedLost bool `json:"skipped_lost"`
}

// Outcome returns the ledger key of the single flag that is set.
func (r PredictionResults) Outcome() string {
	switch {
	case r.Winning:
		return "winning"
	case r.Lost:
		return "lost"
	case r.LostWinning:
		return "lostWinning"
	default:
		return "skippedLost"
	}
}

// MarketPrediction is a graded prediction produced by one market strategy.
// Results is only set for played matches.
type MarketPrediction struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	ShortName       string                 `json:"short_name"`
	TrustLevel      int                    `json:"trust_level"`
	TrustLevelLabel TrustLabel             `json:"trust_level_label"`
	Criteria        []CriteriaGroupOutcome `json:"criteria"`
	Results         *PredictionResults     `json:"results,omitempty"`
}
