package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/drawlytics/powerball-edge/internal/models"
)

// Confidence heuristic parameters. The score is a capped display heuristic,
// not a calibrated probability.
const (
	confidenceBase        = 0.5
	confidenceWhiteBoost  = 0.05
	confidencePowerBoost  = 0.1
	confidenceCap         = 0.85
	whiteFrequentFraction = 0.015
	powerFrequentFraction = 0.04
)

// Candidate pool sizes per strategy, mirroring the analysis ranked lists.
const (
	frequencyWhitePool = 15
	frequencyPowerPool = 8
	gapWhitePool       = 20
	gapPowerPool       = 10
	monteCarloPool     = 10
)

// Predictor turns a comprehensive analysis into candidate ticket
// combinations.
type Predictor struct {
	analyzer *Analyzer
	rng      *rand.Rand
	logger   *logrus.Logger
}

// NewPredictor creates a predictor safe for concurrent use. The seed
// controls the randomized parts of every strategy; production passes
// time-based seeds, tests fix one.
func NewPredictor(analyzer *Analyzer, seed int64, logger *logrus.Logger) *Predictor {
	return &Predictor{
		analyzer: analyzer,
		rng:      newLockedRand(seed),
		logger:   logger,
	}
}

// GeneratePredictions produces tickets candidate combinations from the
// snapshot using the requested strategy. Portfolio rotates through the
// single-ticket strategies round-robin.
func (p *Predictor) GeneratePredictions(snapshot []models.Drawing, tickets int, strategy models.Strategy) (*models.PredictionResponse, error) {
	if tickets < 1 {
		tickets = 1
	}

	analysis, err := p.analyzer.ComprehensiveAnalysis(snapshot)
	if err != nil {
		return nil, err
	}

	predictions := make([]models.Prediction, 0, tickets)
	for i := 0; i < tickets; i++ {
		ticketStrategy := strategy
		if strategy == models.StrategyPortfolio {
			ticketStrategy = models.Strategies[i%len(models.Strategies)]
		}

		whites, power, rationale := p.runStrategy(ticketStrategy, analysis)
		predictions = append(predictions, models.Prediction{
			ID:           uuid.New().String(),
			TicketNumber: i + 1,
			Numbers:      whites,
			PowerBall:    power,
			Strategy:     ticketStrategy,
			Rationale:    rationale,
			Confidence:   p.confidenceScore(whites, power, analysis),
		})
	}

	summary := p.summarize(analysis, predictions)
	return &models.PredictionResponse{
		Predictions:  predictions,
		Summary:      summary,
		AnalysisDate: time.Now(),
		DataQuality: models.DataQuality{
			TotalDrawings: analysis.DataSummary.TotalDrawings,
			DateRange:     analysis.DataSummary.DateRange,
		},
	}, nil
}

func (p *Predictor) runStrategy(strategy models.Strategy, analysis *models.Analysis) ([]int, int, string) {
	switch strategy {
	case models.StrategyFrequency:
		return p.frequencyStrategy(analysis)
	case models.StrategyGap:
		return p.gapStrategy(analysis)
	case models.StrategyPattern:
		return p.patternStrategy(analysis)
	case models.StrategyMonteCarlo:
		return p.monteCarloStrategy(analysis)
	case models.StrategyBalanced:
		return p.balancedStrategy(analysis)
	default:
		p.logger.WithField("strategy", strategy).Warn("Unknown strategy, using balanced")
		return p.balancedStrategy(analysis)
	}
}

// frequencyStrategy samples five whites from the top frequent white balls
// and a power ball from the top frequent power balls.
func (p *Predictor) frequencyStrategy(analysis *models.Analysis) ([]int, int, string) {
	allTime := analysis.FrequencyAnalysis[windowAllTime]
	whiteCandidates := ballValues(rankByCount(allTime.WhiteBallFrequency, frequencyWhitePool, true))
	powerCandidates := ballValues(rankByCount(allTime.PowerBallFrequency, frequencyPowerPool, true))

	if len(whiteCandidates) < models.WhiteBallCount || len(powerCandidates) < 1 {
		return p.uniformFallback()
	}

	whites := p.sampleDistinct(whiteCandidates, models.WhiteBallCount)
	power := powerCandidates[p.rng.Intn(len(powerCandidates))]
	rationale := fmt.Sprintf("Selected from most frequent numbers: white balls from top %d frequent, power ball from top %d frequent",
		frequencyWhitePool, frequencyPowerPool)
	return whites, power, rationale
}

// gapStrategy samples from the most overdue numbers.
func (p *Predictor) gapStrategy(analysis *models.Analysis) ([]int, int, string) {
	overdueWhite := rankByGap(analysis.GapAnalysis.WhiteBallGaps, gapWhitePool)
	overduePower := rankByGap(analysis.GapAnalysis.PowerBallGaps, gapPowerPool)

	if len(overdueWhite) < models.WhiteBallCount || len(overduePower) < 1 {
		return p.uniformFallback()
	}

	whites := p.sampleDistinct(ballValues(overdueWhite), models.WhiteBallCount)
	power := overduePower[p.rng.Intn(len(overduePower))].Ball

	avgGap := 0.0
	for _, r := range overdueWhite[:models.WhiteBallCount] {
		avgGap += float64(r.Count)
	}
	avgGap /= models.WhiteBallCount
	rationale := fmt.Sprintf("Selected overdue numbers: white balls overdue by avg %.1f drawings", avgGap)
	return whites, power, rationale
}

// patternStrategy picks one white ball per sorted position weighted by the
// positional probability distribution, padding with uniform picks if a
// position yields nothing new.
func (p *Predictor) patternStrategy(analysis *models.Analysis) ([]int, int, string) {
	positions := analysis.PositionProbabilities
	if len(positions) == 0 {
		return p.uniformFallback()
	}

	var whites []int
	used := make(map[int]bool)
	for pos := 1; pos <= models.WhiteBallCount; pos++ {
		stats, ok := positions[fmt.Sprintf("position_%d", pos)]
		if !ok {
			continue
		}
		ball, ok := p.weightedPick(stats.Probabilities, used)
		if ok {
			whites = append(whites, ball)
			used[ball] = true
		}
	}

	for len(whites) < models.WhiteBallCount {
		candidate := p.rng.Intn(models.WhiteBallMax) + 1
		if !used[candidate] {
			whites = append(whites, candidate)
			used[candidate] = true
		}
	}
	sort.Ints(whites)

	power := p.rng.Intn(models.PowerBallMax) + 1
	return whites, power, "Selected using position-based probability distributions and pattern analysis"
}

// monteCarloStrategy picks uniformly among the top recurring simulated
// combinations.
func (p *Predictor) monteCarloStrategy(analysis *models.Analysis) ([]int, int, string) {
	combos := analysis.MonteCarloResults.MostLikely
	if len(combos) == 0 {
		return p.uniformFallback()
	}
	if len(combos) > monteCarloPool {
		combos = combos[:monteCarloPool]
	}

	combo := combos[p.rng.Intn(len(combos))]
	whites := append([]int{}, combo.WhiteBalls...)
	sort.Ints(whites)
	rationale := fmt.Sprintf("Selected from Monte Carlo simulation of %d scenarios", analysis.MonteCarloResults.TotalSimulations)
	return whites, combo.PowerBall, rationale
}

// balancedStrategy mixes frequent and overdue numbers: up to three frequent
// whites, overdue whites for the remaining slots, uniform padding after
// that. The power ball comes from the union of frequent and overdue power
// candidates.
func (p *Predictor) balancedStrategy(analysis *models.Analysis) ([]int, int, string) {
	allTime := analysis.FrequencyAnalysis[windowAllTime]
	frequentWhite := ballValues(rankByCount(allTime.WhiteBallFrequency, topWhiteRanked, true))
	overdueWhite := ballValues(analysis.GapAnalysis.OverdueWhite)

	if len(frequentWhite) == 0 && len(overdueWhite) == 0 {
		return p.uniformFallback()
	}

	var whites []int
	used := make(map[int]bool)
	for _, ball := range p.sampleDistinct(frequentWhite, minInt(3, len(frequentWhite))) {
		whites = append(whites, ball)
		used[ball] = true
	}

	var availableOverdue []int
	for _, ball := range overdueWhite {
		if !used[ball] {
			availableOverdue = append(availableOverdue, ball)
		}
	}
	remaining := models.WhiteBallCount - len(whites)
	for _, ball := range p.sampleDistinct(availableOverdue, minInt(remaining, len(availableOverdue))) {
		whites = append(whites, ball)
		used[ball] = true
	}

	for len(whites) < models.WhiteBallCount {
		candidate := p.rng.Intn(models.WhiteBallMax) + 1
		if !used[candidate] {
			whites = append(whites, candidate)
			used[candidate] = true
		}
	}
	sort.Ints(whites)

	powerCandidates := unionBalls(
		ballValues(rankByCount(allTime.PowerBallFrequency, topPowerRanked, true)),
		ballValues(analysis.GapAnalysis.OverduePower),
	)
	power := p.rng.Intn(models.PowerBallMax) + 1
	if len(powerCandidates) > 0 {
		power = powerCandidates[p.rng.Intn(len(powerCandidates))]
	}

	return whites, power, "Balanced approach: mixed frequent and overdue numbers for optimal coverage"
}

// uniformFallback draws a fully uniform ticket when the analysis cannot
// feed a strategy. The rationale states the fallback explicitly.
func (p *Predictor) uniformFallback() ([]int, int, string) {
	whites := p.sampleDistinct(uniformWhitePool(), models.WhiteBallCount)
	power := p.rng.Intn(models.PowerBallMax) + 1
	return whites, power, "Random selection (fallback due to insufficient data)"
}

// confidenceScore applies the capped frequency heuristic: a boost per white
// ball observed above the frequent threshold and one for a frequent power
// ball.
func (p *Predictor) confidenceScore(whites []int, power int, analysis *models.Analysis) float64 {
	score := confidenceBase

	allTime := analysis.FrequencyAnalysis[windowAllTime]
	total := float64(allTime.TotalDrawings)
	for _, ball := range whites {
		if float64(allTime.WhiteBallFrequency[ball]) > total*whiteFrequentFraction {
			score += confidenceWhiteBoost
		}
	}
	if float64(allTime.PowerBallFrequency[power]) > total*powerFrequentFraction {
		score += confidencePowerBoost
	}

	return math.Min(score, confidenceCap)
}

func (p *Predictor) summarize(analysis *models.Analysis, predictions []models.Prediction) models.PredictionSummary {
	avgConfidence := 0.0
	for _, prediction := range predictions {
		avgConfidence += prediction.Confidence
	}
	avgConfidence /= float64(len(predictions))
	avgConfidence = math.Round(avgConfidence*1000) / 1000

	var strategiesUsed []models.Strategy
	seen := make(map[models.Strategy]bool)
	for _, prediction := range predictions {
		if !seen[prediction.Strategy] {
			seen[prediction.Strategy] = true
			strategiesUsed = append(strategiesUsed, prediction.Strategy)
		}
	}

	total := analysis.DataSummary.TotalDrawings
	return models.PredictionSummary{
		TotalPredictions:  len(predictions),
		AverageConfidence: avgConfidence,
		StrategiesUsed:    strategiesUsed,
		DataQualityScore:  math.Min(float64(total)/100, 1.0),
		Recommendation:    recommendation(avgConfidence, total),
	}
}

// recommendation renders the four display tiers for a prediction batch.
func recommendation(confidence float64, totalDrawings int) string {
	switch {
	case totalDrawings < 50:
		return "Limited data available. Predictions are experimental."
	case confidence > 0.7:
		return "High confidence predictions based on strong statistical patterns."
	case confidence > 0.6:
		return "Moderate confidence predictions. Consider multiple tickets for better coverage."
	default:
		return "Low confidence predictions. Results are primarily educational."
	}
}

// sampleDistinct picks count distinct values uniformly from the candidate
// pool, sorted ascending.
func (p *Predictor) sampleDistinct(candidates []int, count int) []int {
	pool := append([]int{}, candidates...)
	p.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	picked := make([]int, 0, count)
	seen := make(map[int]bool, count)
	for _, ball := range pool {
		if seen[ball] {
			continue
		}
		seen[ball] = true
		picked = append(picked, ball)
		if len(picked) == count {
			break
		}
	}
	sort.Ints(picked)
	return picked
}

// weightedPick draws one ball proportionally to the probabilities,
// excluding already used balls. Returns false when nothing is available.
func (p *Predictor) weightedPick(probabilities map[int]float64, used map[int]bool) (int, bool) {
	balls := make([]int, 0, len(probabilities))
	total := 0.0
	for ball, prob := range probabilities {
		if used[ball] {
			continue
		}
		balls = append(balls, ball)
		total += prob
	}
	if len(balls) == 0 || total <= 0 {
		return 0, false
	}
	sort.Ints(balls)

	target := p.rng.Float64() * total
	for _, ball := range balls {
		target -= probabilities[ball]
		if target <= 0 {
			return ball, true
		}
	}
	return balls[len(balls)-1], true
}

func unionBalls(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	var union []int
	for _, ball := range append(append([]int{}, a...), b...) {
		if !seen[ball] {
			seen[ball] = true
			union = append(union, ball)
		}
	}
	sort.Ints(union)
	return union
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
