package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/adapters/persistence"
	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/test/helpers"
)

func TestMissionRepository_FindByID(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMissionRepository(db)
	ctx := context.Background()

	tree := seedOrderTree(t, db, "scn-1", 1)
	missionID := tree.Packages[0].Missions[0].Mission.ID

	found, err := repo.FindByID(ctx, missionID)
	require.NoError(t, err)
	assert.Equal(t, "VIPER 11", found.Callsign)
	assert.Equal(t, mission.DomainAir, found.Domain)
	require.Len(t, found.Waypoints, 3)
	assert.Equal(t, 1, found.Waypoints[0].Sequence)
	assert.Len(t, found.TimeWindows, 1)
	assert.Len(t, found.Targets, 1)
	assert.Len(t, found.SupportReqs, 1)

	_, err = repo.FindByID(ctx, "missing")
	assert.True(t, shared.IsNotFound(err))
}

func TestMissionRepository_FindByScenarioCrossesOrderJoin(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMissionRepository(db)
	ctx := context.Background()

	seedOrderTree(t, db, "scn-1", 1)
	seedOrderTree(t, db, "scn-1", 2)
	seedOrderTree(t, db, "scn-other", 1)

	missions, err := repo.FindByScenario(ctx, "scn-1")
	require.NoError(t, err)
	assert.Len(t, missions, 2)

	other, err := repo.FindByScenario(ctx, "scn-other")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestMissionRepository_UpdateStatus(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMissionRepository(db)
	ctx := context.Background()

	tree := seedOrderTree(t, db, "scn-1", 1)
	missionID := tree.Packages[0].Missions[0].Mission.ID

	require.NoError(t, repo.UpdateStatus(ctx, missionID, mission.StatusAirborne))

	found, err := repo.FindByID(ctx, missionID)
	require.NoError(t, err)
	assert.Equal(t, mission.StatusAirborne, found.Status)

	assert.True(t, shared.IsNotFound(repo.UpdateStatus(ctx, "missing", mission.StatusLost)))
}

func TestMissionRepository_TerminalFiltering(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMissionRepository(db)
	ctx := context.Background()

	active := seedOrderTree(t, db, "scn-1", 1).Packages[0].Missions[0].Mission.ID
	done := seedOrderTree(t, db, "scn-1", 2).Packages[0].Missions[0].Mission.ID

	require.NoError(t, repo.UpdateStatus(ctx, active, mission.StatusAirborne))
	require.NoError(t, repo.UpdateStatus(ctx, done, mission.StatusRecovered))

	nonTerminal, err := repo.FindNonTerminal(ctx, "scn-1")
	require.NoError(t, err)
	require.Len(t, nonTerminal, 1)
	assert.Equal(t, active, nonTerminal[0].ID)

	inFlight, err := repo.FindActive(ctx, "scn-1")
	require.NoError(t, err)
	require.Len(t, inFlight, 1)
	assert.Equal(t, active, inFlight[0].ID)
	require.Len(t, inFlight[0].Waypoints, 3)
}
