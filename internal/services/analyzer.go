package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/sirupsen/logrus"

	"github.com/drawlytics/powerball-edge/internal/config"
	"github.com/drawlytics/powerball-edge/internal/models"
)

// ErrNoData is returned whenever an analysis or prediction is requested
// against an empty store. It is the only no-data signal in the system.
var ErrNoData = errors.New("no data available")

// Ranked-list sizes for the frequency and gap tables.
const (
	topWhiteRanked   = 10
	topPowerRanked   = 5
	overdueWhiteSize = 10
	overduePowerSize = 5
)

// Analyzer recomputes every statistical aggregate from a snapshot of stored
// drawings. It holds no state between calls; results always reflect the
// snapshot passed in.
type Analyzer struct {
	cfg       config.AnalysisConfig
	resampler *Resampler
	logger    *logrus.Logger
}

// NewAnalyzer creates an analyzer with the given analysis settings.
func NewAnalyzer(cfg config.AnalysisConfig, resampler *Resampler, logger *logrus.Logger) *Analyzer {
	return &Analyzer{
		cfg:       cfg,
		resampler: resampler,
		logger:    logger,
	}
}

// ComprehensiveAnalysis runs every aggregator over the snapshot and returns
// the combined envelope. The snapshot must be ordered most recent first.
func (a *Analyzer) ComprehensiveAnalysis(snapshot []models.Drawing) (*models.Analysis, error) {
	if len(snapshot) == 0 {
		return nil, ErrNoData
	}

	start := time.Now()

	analysis := &models.Analysis{
		DataSummary:           a.dataSummary(snapshot),
		FrequencyAnalysis:     a.FrequencyWindows(snapshot, time.Now()),
		GapAnalysis:           a.Gaps(snapshot),
		SequentialPatterns:    a.SequentialPatterns(snapshot),
		PositionProbabilities: a.PositionDistributions(snapshot),
		SumTrend:              a.SumTrend(snapshot),
	}
	analysis.ExclusiveGroups = a.exclusiveGroups(analysis.FrequencyAnalysis, analysis.GapAnalysis)
	analysis.MonteCarloResults = a.resampler.Simulate(analysis.FrequencyAnalysis[windowAllTime], a.cfg.Simulations)

	a.logger.WithFields(logrus.Fields{
		"drawings": len(snapshot),
		"duration": time.Since(start),
	}).Debug("Computed comprehensive analysis")

	return analysis, nil
}

func (a *Analyzer) dataSummary(snapshot []models.Drawing) models.DataSummary {
	earliest := snapshot[len(snapshot)-1].DrawDate
	latest := snapshot[0].DrawDate
	return models.DataSummary{
		TotalDrawings: len(snapshot),
		DateRange: map[string]string{
			"earliest": earliest.Format("2006-01-02"),
			"latest":   latest.Format("2006-01-02"),
		},
	}
}

// windowAllTime names the unbounded frequency window.
const windowAllTime = "all_time"

// FrequencyWindows tallies white and power ball frequencies for each
// configured lookback window plus all time. Windows with no drawings are
// omitted rather than reported empty.
func (a *Analyzer) FrequencyWindows(snapshot []models.Drawing, now time.Time) map[string]models.WindowFrequency {
	windows := make(map[string]models.WindowFrequency)

	for _, days := range a.cfg.LookbackDays {
		cutoff := now.AddDate(0, 0, -days)
		var subset []models.Drawing
		for _, drawing := range snapshot {
			if !drawing.DrawDate.Before(cutoff) {
				subset = append(subset, drawing)
			}
		}
		if len(subset) == 0 {
			continue
		}
		windows[fmt.Sprintf("last_%d_days", days)] = tallyWindow(subset)
	}

	windows[windowAllTime] = tallyWindow(snapshot)
	return windows
}

func tallyWindow(subset []models.Drawing) models.WindowFrequency {
	whiteFreq := make(map[int]int)
	powerFreq := make(map[int]int)
	for _, drawing := range subset {
		for _, ball := range drawing.WhiteBalls {
			whiteFreq[ball]++
		}
		powerFreq[drawing.PowerBall]++
	}

	return models.WindowFrequency{
		WhiteBallFrequency: whiteFreq,
		PowerBallFrequency: powerFreq,
		TotalDrawings:      len(subset),
		MostFrequentWhite:  rankByCount(whiteFreq, topWhiteRanked, true),
		LeastFrequentWhite: rankByCount(whiteFreq, topWhiteRanked, false),
		MostFrequentPower:  rankByCount(powerFreq, topPowerRanked, true),
		LeastFrequentPower: rankByCount(powerFreq, topPowerRanked, false),
	}
}

// rankByCount orders observed balls by count, descending when most is true.
// Equal counts break ties by ascending ball value so rankings are
// deterministic.
func rankByCount(freq map[int]int, limit int, most bool) []models.RankedBall {
	ranked := make([]models.RankedBall, 0, len(freq))
	for ball, count := range freq {
		ranked = append(ranked, models.RankedBall{Ball: ball, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			if most {
				return ranked[i].Count > ranked[j].Count
			}
			return ranked[i].Count < ranked[j].Count
		}
		return ranked[i].Ball < ranked[j].Ball
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Gaps walks the snapshot most recent first and records, for every ball in
// the domain, how many drawings ago it last appeared. A ball in the most
// recent drawing has gap 0; a ball never observed carries the total drawing
// count.
func (a *Analyzer) Gaps(snapshot []models.Drawing) models.GapAnalysis {
	maxGap := len(snapshot)

	whiteGaps := make(map[int]int, models.WhiteBallMax)
	for i := models.WhiteBallMin; i <= models.WhiteBallMax; i++ {
		whiteGaps[i] = maxGap
	}
	powerGaps := make(map[int]int, models.PowerBallMax)
	for i := models.PowerBallMin; i <= models.PowerBallMax; i++ {
		powerGaps[i] = maxGap
	}

	for drawingsAgo, drawing := range snapshot {
		for _, ball := range drawing.WhiteBalls {
			if whiteGaps[ball] == maxGap {
				whiteGaps[ball] = drawingsAgo
			}
		}
		if powerGaps[drawing.PowerBall] == maxGap {
			powerGaps[drawing.PowerBall] = drawingsAgo
		}
	}

	return models.GapAnalysis{
		WhiteBallGaps: whiteGaps,
		PowerBallGaps: powerGaps,
		OverdueWhite:  rankByGap(whiteGaps, overdueWhiteSize),
		OverduePower:  rankByGap(powerGaps, overduePowerSize),
	}
}

// rankByGap orders balls by descending gap, ties by ascending value.
func rankByGap(gaps map[int]int, limit int) []models.RankedBall {
	ranked := make([]models.RankedBall, 0, len(gaps))
	for ball, gap := range gaps {
		ranked = append(ranked, models.RankedBall{Ball: ball, Count: gap})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Ball < ranked[j].Ball
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// SequentialPatterns finds runs of consecutive values of the configured
// length inside each drawing's sorted white balls and tallies how often each
// run recurs across the snapshot.
func (a *Analyzer) SequentialPatterns(snapshot []models.Drawing) models.PatternAnalysis {
	length := a.cfg.PatternLength
	keys := make(map[string][]int)
	counts := make(map[string]int)
	total := 0

	for _, drawing := range snapshot {
		balls := drawing.SortedWhiteBalls()
		for i := 0; i+length <= len(balls); i++ {
			run := balls[i : i+length]
			consecutive := true
			for j := 0; j < len(run)-1; j++ {
				if run[j]+1 != run[j+1] {
					consecutive = false
					break
				}
			}
			if !consecutive {
				continue
			}
			total++
			key := fmt.Sprint(run)
			if _, ok := keys[key]; !ok {
				keys[key] = append([]int{}, run...)
			}
			counts[key]++
		}
	}

	patterns := make([]models.SequencePattern, 0, len(counts))
	for key, count := range counts {
		patterns = append(patterns, models.SequencePattern{Sequence: keys[key], Count: count})
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Sequence[0] < patterns[j].Sequence[0]
	})
	if len(patterns) > 10 {
		patterns = patterns[:10]
	}

	return models.PatternAnalysis{
		MostCommonSequences: patterns,
		TotalSequencesFound: total,
	}
}

// PositionDistributions computes the empirical distribution of each sorted
// white-ball slot: frequencies, probabilities, mean, population standard
// deviation and the modal value.
func (a *Analyzer) PositionDistributions(snapshot []models.Drawing) map[string]models.PositionStats {
	stats := make(map[string]models.PositionStats, models.WhiteBallCount)

	for pos := 0; pos < models.WhiteBallCount; pos++ {
		freq := make(map[int]int)
		sum := 0.0
		for _, drawing := range snapshot {
			balls := drawing.SortedWhiteBalls()
			freq[balls[pos]]++
			sum += float64(balls[pos])
		}

		total := float64(len(snapshot))
		mean := sum / total

		variance := 0.0
		probabilities := make(map[int]float64, len(freq))
		mostLikely := models.RankedBall{}
		for ball, count := range freq {
			probabilities[ball] = float64(count) / total
			diff := float64(ball) - mean
			variance += diff * diff * float64(count)
			if count > mostLikely.Count || (count == mostLikely.Count && ball < mostLikely.Ball) {
				mostLikely = models.RankedBall{Ball: ball, Count: count}
			}
		}
		variance /= total

		stats[fmt.Sprintf("position_%d", pos+1)] = models.PositionStats{
			Frequencies:   freq,
			Probabilities: probabilities,
			Mean:          mean,
			StdDev:        math.Sqrt(variance),
			MostLikely:    mostLikely,
		}
	}
	return stats
}

// exclusiveGroups splits frequent and overdue candidates into disjoint
// pools. Overdue pools exclude anything already claimed as frequent so the
// balanced strategy mixes genuinely different numbers.
func (a *Analyzer) exclusiveGroups(windows map[string]models.WindowFrequency, gaps models.GapAnalysis) models.ExclusiveGroups {
	allTime := windows[windowAllTime]

	frequentWhite := ballValues(rankByCount(allTime.WhiteBallFrequency, 15, true))
	frequentPower := ballValues(rankByCount(allTime.PowerBallFrequency, 8, true))

	overdueWhite := excludeBalls(ballValues(gaps.OverdueWhite), frequentWhite, overdueWhiteSize)
	overduePower := excludeBalls(ballValues(gaps.OverduePower), frequentPower, overduePowerSize)

	return models.ExclusiveGroups{
		FrequentWhite: truncateBalls(frequentWhite, overdueWhiteSize),
		OverdueWhite:  overdueWhite,
		FrequentPower: truncateBalls(frequentPower, overduePowerSize),
		OverduePower:  overduePower,
	}
}

func ballValues(ranked []models.RankedBall) []int {
	values := make([]int, 0, len(ranked))
	for _, r := range ranked {
		values = append(values, r.Ball)
	}
	return values
}

func excludeBalls(candidates, taken []int, limit int) []int {
	takenSet := make(map[int]bool, len(taken))
	for _, ball := range taken {
		takenSet[ball] = true
	}
	result := make([]int, 0, limit)
	for _, ball := range candidates {
		if takenSet[ball] {
			continue
		}
		result = append(result, ball)
		if len(result) == limit {
			break
		}
	}
	return result
}

func truncateBalls(balls []int, limit int) []int {
	if len(balls) > limit {
		return balls[:limit]
	}
	return balls
}

// SumTrend computes moving averages of the white-ball sum in chronological
// order. Returns nil when the snapshot is shorter than the trend period.
func (a *Analyzer) SumTrend(snapshot []models.Drawing) *models.SumTrend {
	period := a.cfg.TrendPeriod
	if period <= 0 || len(snapshot) < period {
		return nil
	}

	// Snapshot arrives most recent first; the indicators want chronological
	// order.
	sums := make([]float64, len(snapshot))
	for i, drawing := range snapshot {
		sums[len(snapshot)-1-i] = float64(drawing.WhiteBallSum())
	}

	smaIndicator := trend.NewSmaWithPeriod[float64](period)
	smaValues := helper.ChanToSlice(smaIndicator.Compute(helper.SliceToChan(sums)))

	emaIndicator := trend.NewEmaWithPeriod[float64](period)
	emaValues := helper.ChanToSlice(emaIndicator.Compute(helper.SliceToChan(sums)))

	if len(smaValues) == 0 || len(emaValues) == 0 {
		return nil
	}

	return &models.SumTrend{
		LatestSum: int(sums[len(sums)-1]),
		SMA:       smaValues[len(smaValues)-1],
		EMA:       emaValues[len(emaValues)-1],
		Period:    period,
	}
}
