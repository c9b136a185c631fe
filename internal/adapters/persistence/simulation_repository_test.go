package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/adapters/persistence"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/test/helpers"
)

func TestSimulationRepository_SaveAndFind(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSimulationRepository(db)
	ctx := context.Background()

	state := &scenario.SimulationState{
		ID:               "st-1",
		ScenarioID:       "scn-1",
		Status:           scenario.SimRunning,
		SimTime:          time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC),
		RealStartTime:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CompressionRatio: 720,
		CurrentATODay:    1,
	}
	require.NoError(t, repo.Save(ctx, state))

	found, err := repo.FindByScenario(ctx, "scn-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, scenario.SimRunning, found.Status)
	assert.Equal(t, 720.0, found.CompressionRatio)
	assert.True(t, found.SimTime.Equal(state.SimTime))
}

func TestSimulationRepository_SaveUpsertsSingleRowPerScenario(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSimulationRepository(db)
	ctx := context.Background()

	state := &scenario.SimulationState{
		ID:               "st-1",
		ScenarioID:       "scn-1",
		Status:           scenario.SimRunning,
		SimTime:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		RealStartTime:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CompressionRatio: 720,
		CurrentATODay:    1,
	}
	require.NoError(t, repo.Save(ctx, state))

	state.Status = scenario.SimPaused
	state.SimTime = state.SimTime.Add(12 * time.Minute)
	state.CurrentATODay = 2
	require.NoError(t, repo.Save(ctx, state))

	found, err := repo.FindByScenario(ctx, "scn-1")
	require.NoError(t, err)
	assert.Equal(t, scenario.SimPaused, found.Status)
	assert.Equal(t, 2, found.CurrentATODay)

	var count int64
	require.NoError(t, db.Model(&persistence.SimulationStateModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSimulationRepository_FindByScenario_MissingIsNilNotError(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSimulationRepository(db)

	found, err := repo.FindByScenario(context.Background(), "never-started")

	require.NoError(t, err)
	assert.Nil(t, found)
}
