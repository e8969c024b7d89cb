package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawlytics/powerball-edge/internal/models"
)

func TestResampler_Simulate_Invariants(t *testing.T) {
	freq := models.WindowFrequency{
		WhiteBallFrequency: map[int]int{1: 30, 2: 25, 3: 20, 10: 15, 20: 10},
		PowerBallFrequency: map[int]int{5: 12, 7: 8},
		TotalDrawings:      40,
	}

	results := NewResampler(7).Simulate(freq, 500)
	assert.Equal(t, 500, results.TotalSimulations)
	assert.Greater(t, results.UniqueCombinations, 0)
	require.NotEmpty(t, results.MostLikely)

	for _, combo := range results.MostLikely {
		require.Len(t, combo.WhiteBalls, models.WhiteBallCount)
		seen := make(map[int]bool)
		for i, ball := range combo.WhiteBalls {
			assert.GreaterOrEqual(t, ball, models.WhiteBallMin)
			assert.LessOrEqual(t, ball, models.WhiteBallMax)
			assert.False(t, seen[ball], "duplicate white ball %d", ball)
			seen[ball] = true
			if i > 0 {
				assert.Greater(t, ball, combo.WhiteBalls[i-1], "whites sorted ascending")
			}
		}
		assert.GreaterOrEqual(t, combo.PowerBall, models.PowerBallMin)
		assert.LessOrEqual(t, combo.PowerBall, models.PowerBallMax)
		assert.Greater(t, combo.Count, 0)
	}

	assert.InDelta(t, 35, results.AvgWhiteBall, 34)
	assert.InDelta(t, 13.5, results.AvgPowerBall, 12.5)
}

func TestResampler_Simulate_WeightFloorKeepsUnseenDrawable(t *testing.T) {
	// Every ball unobserved: the floor makes the distribution uniform and
	// the simulation must still produce full tickets.
	freq := models.WindowFrequency{
		WhiteBallFrequency: map[int]int{},
		PowerBallFrequency: map[int]int{},
	}

	results := NewResampler(3).Simulate(freq, 100)
	assert.Equal(t, 100, results.TotalSimulations)
	for _, combo := range results.MostLikely {
		assert.Len(t, combo.WhiteBalls, models.WhiteBallCount)
	}
}

func TestResampler_Simulate_Reproducible(t *testing.T) {
	freq := models.WindowFrequency{
		WhiteBallFrequency: map[int]int{4: 9, 8: 7, 15: 5},
		PowerBallFrequency: map[int]int{3: 4},
	}

	first := NewResampler(42).Simulate(freq, 200)
	second := NewResampler(42).Simulate(freq, 200)
	assert.Equal(t, first, second)
}

func TestResampler_Simulate_RanksByCount(t *testing.T) {
	freq := models.WindowFrequency{
		WhiteBallFrequency: map[int]int{1: 1000, 2: 1000, 3: 1000, 4: 1000, 5: 1000},
		PowerBallFrequency: map[int]int{1: 1000},
	}

	// Heavily skewed weights collapse most trials onto the same ticket.
	results := NewResampler(11).Simulate(freq, 300)
	require.NotEmpty(t, results.MostLikely)
	for i := 1; i < len(results.MostLikely); i++ {
		assert.GreaterOrEqual(t, results.MostLikely[i-1].Count, results.MostLikely[i].Count)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, results.MostLikely[0].WhiteBalls)
	assert.Equal(t, 1, results.MostLikely[0].PowerBall)
}

func TestResampler_Simulate_ConcurrentRuns(t *testing.T) {
	freq := models.WindowFrequency{
		WhiteBallFrequency: map[int]int{1: 30, 2: 25, 3: 20, 10: 15, 20: 10},
		PowerBallFrequency: map[int]int{5: 12, 7: 8},
		TotalDrawings:      40,
	}
	resampler := NewResampler(7)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results := resampler.Simulate(freq, 200)
			assert.Equal(t, 200, results.TotalSimulations)
			assert.Greater(t, results.UniqueCombinations, 0)
		}()
	}
	wg.Wait()
}
