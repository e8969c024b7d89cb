package services

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/drawlytics/powerball-edge/internal/models"
)

// weightFloor keeps every ball in the domain drawable even when it was never
// observed, so the resampler explores the full combination space.
const weightFloor = 1

// mostLikelyCombos is how many recurring combinations a simulation reports.
const mostLikelyCombos = 20

// Resampler runs weighted Monte-Carlo resampling over observed frequency
// distributions.
type Resampler struct {
	rng *rand.Rand
}

// NewResampler creates a resampler seeded from the given source, safe for
// concurrent use. Tests pass a fixed seed for reproducible runs.
func NewResampler(seed int64) *Resampler {
	return &Resampler{
		rng: newLockedRand(seed),
	}
}

// Simulate draws trials tickets weighted by the all-time frequency table:
// five distinct white balls without replacement plus one power ball per
// trial. Unobserved balls carry the weight floor. Returns the recurring
// combinations ranked by simulated count.
func (r *Resampler) Simulate(freq models.WindowFrequency, trials int) models.MonteCarloResults {
	whiteWeights := buildWeights(freq.WhiteBallFrequency, models.WhiteBallMin, models.WhiteBallMax)
	powerWeights := buildWeights(freq.PowerBallFrequency, models.PowerBallMin, models.PowerBallMax)

	comboCounts := make(map[string]int)
	comboSamples := make(map[string]models.SimulatedCombination)
	whiteSum := 0.0
	powerSum := 0.0

	for i := 0; i < trials; i++ {
		whites := r.sampleWithoutReplacement(whiteWeights, models.WhiteBallMin, models.WhiteBallCount)
		power := r.sampleOne(powerWeights, models.PowerBallMin)

		for _, ball := range whites {
			whiteSum += float64(ball)
		}
		powerSum += float64(power)

		key := fmt.Sprint(whites, power)
		comboCounts[key]++
		if _, ok := comboSamples[key]; !ok {
			comboSamples[key] = models.SimulatedCombination{
				WhiteBalls: whites,
				PowerBall:  power,
			}
		}
	}

	combos := make([]models.SimulatedCombination, 0, len(comboCounts))
	for key, count := range comboCounts {
		combo := comboSamples[key]
		combo.Count = count
		combos = append(combos, combo)
	}
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].Count != combos[j].Count {
			return combos[i].Count > combos[j].Count
		}
		for k := 0; k < models.WhiteBallCount; k++ {
			if combos[i].WhiteBalls[k] != combos[j].WhiteBalls[k] {
				return combos[i].WhiteBalls[k] < combos[j].WhiteBalls[k]
			}
		}
		return combos[i].PowerBall < combos[j].PowerBall
	})

	results := models.MonteCarloResults{
		TotalSimulations:   trials,
		UniqueCombinations: len(combos),
	}
	if trials > 0 {
		results.AvgWhiteBall = whiteSum / float64(trials*models.WhiteBallCount)
		results.AvgPowerBall = powerSum / float64(trials)
	}
	if len(combos) > mostLikelyCombos {
		combos = combos[:mostLikelyCombos]
	}
	results.MostLikely = combos
	return results
}

// buildWeights converts a frequency table into a weight slice over the full
// ball domain, applying the floor to unobserved values.
func buildWeights(freq map[int]int, min, max int) []int {
	weights := make([]int, max-min+1)
	for i := range weights {
		weight := freq[min+i]
		if weight < weightFloor {
			weight = weightFloor
		}
		weights[i] = weight
	}
	return weights
}

// sampleWithoutReplacement draws count distinct balls proportionally to the
// weights, zeroing each pick's weight before the next draw. Result sorted
// ascending.
func (r *Resampler) sampleWithoutReplacement(weights []int, min, count int) []int {
	remaining := append([]int{}, weights...)
	total := 0
	for _, w := range remaining {
		total += w
	}

	picked := make([]int, 0, count)
	for len(picked) < count && total > 0 {
		target := r.rng.Intn(total)
		for i, w := range remaining {
			if w == 0 {
				continue
			}
			if target < w {
				picked = append(picked, min+i)
				total -= w
				remaining[i] = 0
				break
			}
			target -= w
		}
	}
	sort.Ints(picked)
	return picked
}

// sampleOne draws a single ball proportionally to the weights.
func (r *Resampler) sampleOne(weights []int, min int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	target := r.rng.Intn(total)
	for i, w := range weights {
		if target < w {
			return min + i
		}
		target -= w
	}
	return min
}
