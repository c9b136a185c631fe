package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/adapters/persistence"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/test/helpers"
)

func seedAsset(t *testing.T, repo *persistence.GormSpaceRepository, id, name string) {
	t.Helper()
	err := repo.AddAsset(context.Background(), &space.SpaceAsset{
		ID:           id,
		ScenarioID:   "scn-1",
		Name:         name,
		Affiliation:  space.AffiliationFriendly,
		Capabilities: []space.CapabilityType{space.CapabilitySATCOMWideband, space.CapabilityGPSMilitary},
		Status:       space.AssetOperational,
		PeriodMin:    1436,
		BaseLon:      121,
	})
	require.NoError(t, err)
}

func TestSpaceRepository_AssetRoundTripPreservesCapabilities(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSpaceRepository(db)
	ctx := context.Background()

	seedAsset(t, repo, "sat-1", "WGS-9")

	found, err := repo.FindAssetByID(ctx, "sat-1")
	require.NoError(t, err)
	assert.Equal(t, "WGS-9", found.Name)
	assert.Equal(t, []space.CapabilityType{space.CapabilitySATCOMWideband, space.CapabilityGPSMilitary}, found.Capabilities)
	assert.Equal(t, 1436.0, found.PeriodMin)

	_, err = repo.FindAssetByID(ctx, "missing")
	assert.True(t, shared.IsNotFound(err))
}

func TestSpaceRepository_OperationalFilter(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSpaceRepository(db)
	ctx := context.Background()

	seedAsset(t, repo, "sat-1", "WGS-9")
	seedAsset(t, repo, "sat-2", "AEHF-5")
	require.NoError(t, repo.UpdateAssetStatus(ctx, "sat-2", space.AssetDegraded))

	operational, err := repo.FindOperationalAssets(ctx, "scn-1")
	require.NoError(t, err)
	require.Len(t, operational, 1)
	assert.Equal(t, "sat-1", operational[0].ID)

	all, err := repo.FindAssets(ctx, "scn-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Sorted by name.
	assert.Equal(t, "AEHF-5", all[0].Name)

	assert.True(t, shared.IsNotFound(repo.UpdateAssetStatus(ctx, "missing", space.AssetDegraded)))
}

func TestSpaceRepository_UpdateAssetElements(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSpaceRepository(db)
	ctx := context.Background()

	seedAsset(t, repo, "sat-1", "WGS-9")

	line1 := "1 25544U 98067A   26032.50000000  .00016717  00000-0  10270-3 0  9000"
	line2 := "2 25544  51.6400 208.9163 0006317  69.9862 290.2000 15.49300070 00000"
	require.NoError(t, repo.UpdateAssetElements(ctx, "sat-1", line1, line2))

	found, err := repo.FindAssetByID(ctx, "sat-1")
	require.NoError(t, err)
	assert.Equal(t, line1, found.TLELine1)
	assert.Equal(t, line2, found.TLELine2)
	assert.True(t, found.HasTLE())
}

func TestSpaceRepository_FindNeedsInWindow(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSpaceRepository(db)
	ctx := context.Background()

	tree := seedOrderTree(t, db, "scn-1", 1)
	need := tree.Packages[0].Missions[0].SpaceNeeds[0]

	// Overlapping window finds the need.
	found, err := repo.FindNeedsInWindow(ctx, "scn-1", need.StartTime.Add(30*time.Minute), need.EndTime.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, need.ID, found[0].ID)
	assert.Equal(t, space.CapabilityGPSMilitary, found[0].CapabilityType)

	// Disjoint window does not.
	found, err = repo.FindNeedsInWindow(ctx, "scn-1", need.EndTime.Add(time.Hour), need.EndTime.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSpaceRepository_MarkNeedsFulfilled(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSpaceRepository(db)
	ctx := context.Background()

	tree := seedOrderTree(t, db, "scn-1", 1)
	need := tree.Packages[0].Missions[0].SpaceNeeds[0]

	require.NoError(t, repo.MarkNeedsFulfilled(ctx, []string{need.ID}))

	found, err := repo.FindNeedsInWindow(ctx, "scn-1", need.StartTime, need.EndTime)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].Fulfilled)

	// Empty input is a no-op, not an error.
	assert.NoError(t, repo.MarkNeedsFulfilled(ctx, nil))
}

func TestSpaceRepository_ReplaceCoverageWindows(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSpaceRepository(db)
	ctx := context.Background()

	seedAsset(t, repo, "sat-1", "WGS-9")

	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	first := []*space.CoverageWindow{
		{ID: "w-1", ScenarioID: "scn-1", AssetID: "sat-1", AssetName: "WGS-9", Capability: space.CapabilitySATCOMWideband, StartTime: t0, EndTime: t0.Add(2 * time.Hour)},
		{ID: "w-2", ScenarioID: "scn-1", AssetID: "sat-1", AssetName: "WGS-9", Capability: space.CapabilityGPSMilitary, StartTime: t0.Add(time.Hour), EndTime: t0.Add(3 * time.Hour)},
	}
	require.NoError(t, repo.ReplaceCoverageWindows(ctx, "scn-1", first))

	second := []*space.CoverageWindow{
		{ID: "w-3", ScenarioID: "scn-1", AssetID: "sat-1", AssetName: "WGS-9", Capability: space.CapabilitySATCOMWideband, StartTime: t0.Add(4 * time.Hour), EndTime: t0.Add(6 * time.Hour)},
	}
	require.NoError(t, repo.ReplaceCoverageWindows(ctx, "scn-1", second))

	windows, err := repo.FindCoverageWindows(ctx, "scn-1")
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "w-3", windows[0].ID)
	assert.Equal(t, space.CapabilitySATCOMWideband, windows[0].Capability)
}
