package models

// RankedBall pairs a ball value with a count (frequency) or a gap
// (drawings since last seen). Rankings break ties by ascending ball value so
// output is deterministic.
type RankedBall struct {
	Ball  int `json:"ball"`
	Count int `json:"count"`
}

// WindowFrequency holds frequency tables for one lookback window.
type WindowFrequency struct {
	WhiteBallFrequency map[int]int  `json:"white_ball_frequency"`
	PowerBallFrequency map[int]int  `json:"powerball_frequency"`
	TotalDrawings      int          `json:"total_drawings"`
	MostFrequentWhite  []RankedBall `json:"most_frequent_white"`
	LeastFrequentWhite []RankedBall `json:"least_frequent_white"`
	MostFrequentPower  []RankedBall `json:"most_frequent_powerball"`
	LeastFrequentPower []RankedBall `json:"least_frequent_powerball"`
}

// GapAnalysis maps each ball value to how many drawings have elapsed since it
// last appeared. Values never observed carry the maximal gap (total drawings).
type GapAnalysis struct {
	WhiteBallGaps map[int]int  `json:"white_ball_gaps"`
	PowerBallGaps map[int]int  `json:"powerball_gaps"`
	OverdueWhite  []RankedBall `json:"overdue_white"`
	OverduePower  []RankedBall `json:"overdue_powerball"`
}

// SequencePattern records one consecutive run found in a drawing's sorted
// white balls, with how often it recurred across history.
type SequencePattern struct {
	Sequence []int `json:"sequence"`
	Count    int   `json:"count"`
}

// PatternAnalysis tallies consecutive-run patterns across the snapshot.
type PatternAnalysis struct {
	MostCommonSequences []SequencePattern `json:"most_common_sequences"`
	TotalSequencesFound int               `json:"total_sequences_found"`
}

// PositionStats holds the empirical distribution for one sorted white-ball
// slot.
type PositionStats struct {
	Frequencies   map[int]int     `json:"frequencies"`
	Probabilities map[int]float64 `json:"probabilities"`
	Mean          float64         `json:"mean"`
	StdDev        float64         `json:"std_dev"`
	MostLikely    RankedBall      `json:"most_likely"`
}

// ExclusiveGroups are mutually exclusive frequent-vs-overdue candidate
// pools; overdue pools exclude anything already ranked frequent.
type ExclusiveGroups struct {
	FrequentWhite []int `json:"exclusive_frequent_white"`
	OverdueWhite  []int `json:"exclusive_overdue_white"`
	FrequentPower []int `json:"exclusive_frequent_powerball"`
	OverduePower  []int `json:"exclusive_overdue_powerball"`
}

// SimulatedCombination is one resampled ticket with how often it recurred
// across the simulation trials.
type SimulatedCombination struct {
	WhiteBalls []int `json:"white_balls"`
	PowerBall  int   `json:"powerball"`
	Count      int   `json:"count"`
}

// MonteCarloResults summarizes a weighted resampling run over the observed
// frequency distributions.
type MonteCarloResults struct {
	TotalSimulations   int                    `json:"total_simulations"`
	UniqueCombinations int                    `json:"unique_combinations"`
	MostLikely         []SimulatedCombination `json:"most_likely_combinations"`
	AvgWhiteBall       float64                `json:"avg_white_ball"`
	AvgPowerBall       float64                `json:"avg_powerball"`
}

// SumTrend tracks moving averages of the white-ball sum in chronological
// order. Descriptive only.
type SumTrend struct {
	LatestSum int     `json:"latest_sum"`
	SMA       float64 `json:"sma"`
	EMA       float64 `json:"ema"`
	Period    int     `json:"period"`
}

// DataSummary mirrors the store summary in the analysis envelope.
type DataSummary struct {
	TotalDrawings int               `json:"total_drawings"`
	DateRange     map[string]string `json:"date_range"`
}

// Analysis is the comprehensive analysis envelope: every aggregator output
// recomputed from the same snapshot.
type Analysis struct {
	DataSummary           DataSummary                `json:"data_summary"`
	FrequencyAnalysis     map[string]WindowFrequency `json:"frequency_analysis"`
	GapAnalysis           GapAnalysis                `json:"gap_analysis"`
	ExclusiveGroups       ExclusiveGroups            `json:"exclusive_groups"`
	SequentialPatterns    PatternAnalysis            `json:"sequential_patterns"`
	PositionProbabilities map[string]PositionStats   `json:"position_probabilities"`
	MonteCarloResults     MonteCarloResults          `json:"monte_carlo_results"`
	SumTrend              *SumTrend                  `json:"sum_trend,omitempty"`
}
