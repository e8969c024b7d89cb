package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStrategy(t *testing.T) {
	t.Run("known strategies", func(t *testing.T) {
		for _, raw := range []string{
			"frequency_based", "gap_based", "pattern_based",
			"monte_carlo", "balanced", "portfolio",
		} {
			strategy, known := ParseStrategy(raw)
			assert.True(t, known, "strategy %q", raw)
			assert.Equal(t, Strategy(raw), strategy)
		}
	})

	t.Run("unknown falls back to balanced", func(t *testing.T) {
		for _, raw := range []string{"", "astrology", "FREQUENCY_BASED", "frequency"} {
			strategy, known := ParseStrategy(raw)
			assert.False(t, known, "input %q", raw)
			assert.Equal(t, StrategyBalanced, strategy)
		}
	})
}

func TestStrategies_RotationOrder(t *testing.T) {
	// Portfolio rotation covers every single-ticket strategy exactly once.
	assert.Equal(t, []Strategy{
		StrategyFrequency,
		StrategyGap,
		StrategyBalanced,
		StrategyMonteCarlo,
		StrategyPattern,
	}, Strategies)
	assert.NotContains(t, Strategies, StrategyPortfolio)
}
