package models

import "time"

// Strategy identifies a prediction heuristic. The set is closed: anything
// outside it normalizes to StrategyBalanced at the API boundary.
type Strategy string

const (
	StrategyFrequency  Strategy = "frequency_based"
	StrategyGap        Strategy = "gap_based"
	StrategyPattern    Strategy = "pattern_based"
	StrategyMonteCarlo Strategy = "monte_carlo"
	StrategyBalanced   Strategy = "balanced"
	// StrategyPortfolio cycles through the other strategies round-robin so a
	// batch of tickets is diversified by construction.
	StrategyPortfolio Strategy = "portfolio"
)

// Strategies lists the single-ticket strategies in portfolio rotation order.
var Strategies = []Strategy{
	StrategyFrequency,
	StrategyGap,
	StrategyBalanced,
	StrategyMonteCarlo,
	StrategyPattern,
}

// ParseStrategy maps a raw strategy name onto the closed Strategy set.
// Unknown names fall back to StrategyBalanced; the second return reports
// whether the input was recognized.
func ParseStrategy(raw string) (Strategy, bool) {
	switch Strategy(raw) {
	case StrategyFrequency, StrategyGap, StrategyPattern, StrategyMonteCarlo, StrategyBalanced, StrategyPortfolio:
		return Strategy(raw), true
	default:
		return StrategyBalanced, false
	}
}

// Prediction is one candidate combination plus its display metadata.
// Confidence is an arbitrary capped heuristic, not a calibrated probability.
type Prediction struct {
	ID           string   `json:"id"`
	TicketNumber int      `json:"ticket_number"`
	Numbers      []int    `json:"numbers"`
	PowerBall    int      `json:"powerball"`
	Strategy     Strategy `json:"strategy"`
	Rationale    string   `json:"rationale"`
	Confidence   float64  `json:"confidence"`
}

// PredictionSummary aggregates a batch of predictions for display.
type PredictionSummary struct {
	TotalPredictions  int        `json:"total_predictions"`
	AverageConfidence float64    `json:"average_confidence"`
	StrategiesUsed    []Strategy `json:"strategies_used"`
	DataQualityScore  float64    `json:"data_quality_score"`
	Recommendation    string     `json:"recommendation"`
}

// PredictionRequest is the API input for a prediction call.
type PredictionRequest struct {
	Tickets  int    `json:"tickets"`
	Strategy string `json:"strategy"`
}

// PredictionResponse is the API envelope for a prediction call.
type PredictionResponse struct {
	Predictions  []Prediction      `json:"predictions"`
	Summary      PredictionSummary `json:"summary"`
	AnalysisDate time.Time         `json:"analysis_date"`
	DataQuality  DataQuality       `json:"data_quality"`
}

// DataQuality describes how much history backed a prediction batch.
type DataQuality struct {
	TotalDrawings int               `json:"total_drawings"`
	DateRange     map[string]string `json:"date_range"`
}
