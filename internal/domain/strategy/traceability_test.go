package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

func TestTraceToStrategy_PicksBestOverlap(t *testing.T) {
	entry := &strategy.PriorityEntry{
		Effect:      "Neutralize integrated air defense systems",
		Description: "Suppress adversary air defense radars and missile batteries",
	}
	candidates := []*strategy.StrategyPriority{
		{
			ID:          "sp-logistics",
			Objective:   "Sustain theater logistics",
			Description: "Maintain sealift and airlift throughput",
		},
		{
			ID:          "sp-air",
			Objective:   "Achieve air superiority",
			Description: "Degrade adversary air defense systems and radars across the theater",
		},
	}

	best := strategy.TraceToStrategy(entry, candidates)

	require.NotNil(t, best)
	assert.Equal(t, "sp-air", best.ID)
}

func TestTraceToStrategy_NoCandidateClearsThreshold(t *testing.T) {
	entry := &strategy.PriorityEntry{
		Effect:      "Deliver humanitarian relief supplies",
		Description: "Coordinate disaster response airdrops",
	}
	candidates := []*strategy.StrategyPriority{
		{
			Objective:   "Achieve maritime superiority",
			Description: "Interdict hostile surface combatants",
		},
	}

	assert.Nil(t, strategy.TraceToStrategy(entry, candidates))
}

func TestTraceToStrategy_EmptyEntryYieldsNil(t *testing.T) {
	entry := &strategy.PriorityEntry{Effect: "a b c", Description: "of in"}
	candidates := []*strategy.StrategyPriority{
		{Objective: "anything at all", Description: "whatever text"},
	}

	assert.Nil(t, strategy.TraceToStrategy(entry, candidates))
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, 1, strategy.TierFor(strategy.DocNDS))
	assert.Equal(t, 5, strategy.TierFor(strategy.DocOPLAN))
	assert.Equal(t, 0, strategy.TierFor(strategy.StrategyDocType("BOGUS")))
}

func TestStrategyDocument_ValidateParent(t *testing.T) {
	oplan := &strategy.StrategyDocument{DocType: strategy.DocOPLAN, Tier: 5}
	conplan := &strategy.StrategyDocument{DocType: strategy.DocCONPLAN, Tier: 4}
	nds := &strategy.StrategyDocument{DocType: strategy.DocNDS, Tier: 1}

	assert.NoError(t, oplan.ValidateParent(conplan))
	assert.NoError(t, oplan.ValidateParent(nil))
	assert.Error(t, oplan.ValidateParent(nds))
}
