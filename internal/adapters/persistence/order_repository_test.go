package persistence_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/wargame-go/internal/adapters/persistence"
	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
	"github.com/andrescamacho/wargame-go/test/helpers"
)

func fptr(f float64) *float64 { return &f }

// seedOrderTree writes one ATO day with a single strike package and
// mission, route and space need included.
func seedOrderTree(t *testing.T, db *gorm.DB, scenarioID string, atoDay int) *strategy.OrderTree {
	t.Helper()

	start := time.Date(2026, 3, atoDay, 0, 0, 0, 0, time.UTC)
	tot := start.Add(6 * time.Hour)
	orderID := fmt.Sprintf("%s-order-d%d", scenarioID, atoDay)

	tree := &strategy.OrderTree{
		Order: &strategy.TaskingOrder{
			ID:             orderID,
			ScenarioID:     scenarioID,
			OrderType:      strategy.OrderATO,
			ATODayNumber:   atoDay,
			EffectiveStart: start,
			EffectiveEnd:   start.Add(24 * time.Hour),
			Source:         "GAME_MASTER",
		},
		Packages: []*strategy.PackageTree{
			{
				Package: &strategy.MissionPackage{
					ID:            orderID + "-pkg-1",
					OrderID:       orderID,
					PackageID:     "PKG-ALPHA",
					PriorityRank:  1,
					MissionType:   "OCA",
					EffectDesired: "Destroy the coastal SAM battery",
				},
				Missions: []*strategy.MissionTree{
					{
						Mission: &mission.Mission{
							ID:            orderID + "-m-1",
							PackageID:     orderID + "-pkg-1",
							MissionID:     "OCA1001",
							Callsign:      "VIPER 11",
							Domain:        mission.DomainAir,
							PlatformType:  "F-35A",
							PlatformCount: 4,
							MissionType:   "OCA",
							Status:        mission.StatusPlanned,
							Affiliation:   mission.AffiliationFriendly,
							Waypoints: []*mission.Waypoint{
								{ID: orderID + "-wp-2", MissionID: orderID + "-m-1", Sequence: 2, WaypointType: mission.WaypointTGT, Lat: 25.0, Lon: 121.5},
								{ID: orderID + "-wp-1", MissionID: orderID + "-m-1", Sequence: 1, WaypointType: mission.WaypointDEP, Lat: 26.3, Lon: 127.8, AltitudeFt: fptr(25000)},
								{ID: orderID + "-wp-3", MissionID: orderID + "-m-1", Sequence: 3, WaypointType: mission.WaypointREC, Lat: 26.3, Lon: 127.8},
							},
							TimeWindows: []*mission.TimeWindow{
								{ID: orderID + "-tw-1", MissionID: orderID + "-m-1", WindowType: mission.WindowTOT, StartTime: tot, EndTime: tot.Add(15 * time.Minute)},
							},
							Targets: []*mission.Target{
								{ID: orderID + "-tgt-1", MissionID: orderID + "-m-1", TargetName: "SAM site Alpha", TargetType: "SAM", Lat: 25.0, Lon: 121.5},
							},
							SupportReqs: []*mission.SupportRequirement{
								{ID: orderID + "-sr-1", MissionID: orderID + "-m-1", SupportType: mission.SupportTanker, Description: "Pre-strike AAR"},
							},
						},
						SpaceNeeds: []*space.SpaceNeed{
							{
								ID:                 orderID + "-need-1",
								MissionID:          orderID + "-m-1",
								CapabilityType:     space.CapabilityGPSMilitary,
								Priority:           1,
								StartTime:          tot.Add(-time.Hour),
								EndTime:            tot.Add(time.Hour),
								CoverageLat:        fptr(25.0),
								CoverageLon:        fptr(121.5),
								MissionCriticality: space.CriticalityCritical,
							},
						},
					},
				},
			},
		},
	}

	repo := persistence.NewGormOrderRepository(db)
	require.NoError(t, repo.AddTree(context.Background(), tree))
	return tree
}

func TestOrderRepository_AddTreeAndFindByDay(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormOrderRepository(db)
	ctx := context.Background()

	seeded := seedOrderTree(t, db, "scn-1", 1)

	trees, err := repo.FindByDay(ctx, "scn-1", 1)
	require.NoError(t, err)
	require.Len(t, trees, 1)

	tree := trees[0]
	assert.Equal(t, strategy.OrderATO, tree.Order.OrderType)
	assert.Equal(t, 1, tree.Order.ATODayNumber)
	require.Len(t, tree.Packages, 1)
	assert.Equal(t, "PKG-ALPHA", tree.Packages[0].Package.PackageID)

	require.Len(t, tree.Packages[0].Missions, 1)
	m := tree.Packages[0].Missions[0].Mission
	assert.Equal(t, "VIPER 11", m.Callsign)
	assert.Equal(t, mission.StatusPlanned, m.Status)

	// Waypoints come back sorted by sequence regardless of insert order.
	require.Len(t, m.Waypoints, 3)
	assert.Equal(t, 1, m.Waypoints[0].Sequence)
	assert.Equal(t, mission.WaypointDEP, m.Waypoints[0].WaypointType)
	assert.Equal(t, 3, m.Waypoints[2].Sequence)
	require.NotNil(t, m.Waypoints[0].AltitudeFt)
	assert.Equal(t, 25000.0, *m.Waypoints[0].AltitudeFt)

	require.Len(t, m.TimeWindows, 1)
	assert.Equal(t, mission.WindowTOT, m.TimeWindows[0].WindowType)
	require.Len(t, m.Targets, 1)
	assert.Equal(t, "SAM site Alpha", m.Targets[0].TargetName)
	require.Len(t, m.SupportReqs, 1)
	assert.Equal(t, mission.SupportTanker, m.SupportReqs[0].SupportType)

	needs := tree.Packages[0].Missions[0].SpaceNeeds
	require.Len(t, needs, 1)
	assert.Equal(t, seeded.Packages[0].Missions[0].SpaceNeeds[0].ID, needs[0].ID)
	assert.Equal(t, space.CriticalityCritical, needs[0].MissionCriticality)
}

func TestOrderRepository_AddTreeRejectsBrokenWaypointSequence(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormOrderRepository(db)
	ctx := context.Background()

	tree := &strategy.OrderTree{
		Order: &strategy.TaskingOrder{
			ID:             "order-bad",
			ScenarioID:     "scn-1",
			OrderType:      strategy.OrderATO,
			ATODayNumber:   1,
			EffectiveStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			EffectiveEnd:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		Packages: []*strategy.PackageTree{
			{
				Package: &strategy.MissionPackage{ID: "pkg-bad", OrderID: "order-bad", PackageID: "PKG-B", PriorityRank: 1},
				Missions: []*strategy.MissionTree{
					{
						Mission: &mission.Mission{
							ID:        "m-bad",
							PackageID: "pkg-bad",
							MissionID: "OCA1002",
							Domain:    mission.DomainAir,
							Status:    mission.StatusPlanned,
							Waypoints: []*mission.Waypoint{
								{ID: "wp-1", MissionID: "m-bad", Sequence: 1, WaypointType: mission.WaypointDEP, Lat: 26, Lon: 127},
								{ID: "wp-dup", MissionID: "m-bad", Sequence: 1, WaypointType: mission.WaypointTGT, Lat: 25, Lon: 121},
							},
						},
					},
				},
			},
		},
	}

	err := repo.AddTree(ctx, tree)
	require.Error(t, err)

	// Transaction rolled back: nothing landed.
	has, err := repo.HasOrderForDay(ctx, "scn-1", 1)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestOrderRepository_HasOrderForDay(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormOrderRepository(db)
	ctx := context.Background()

	seedOrderTree(t, db, "scn-1", 2)

	has, err := repo.HasOrderForDay(ctx, "scn-1", 2)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasOrderForDay(ctx, "scn-1", 3)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestOrderRepository_FindByScenarioOrderedByDay(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormOrderRepository(db)
	ctx := context.Background()

	seedOrderTree(t, db, "scn-1", 2)
	seedOrderTree(t, db, "scn-1", 1)
	seedOrderTree(t, db, "scn-other", 1)

	trees, err := repo.FindByScenario(ctx, "scn-1")
	require.NoError(t, err)
	require.Len(t, trees, 2)
	assert.Equal(t, 1, trees[0].Order.ATODayNumber)
	assert.Equal(t, 2, trees[1].Order.ATODayNumber)
}

func TestOrderRepository_DeleteBySource(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormOrderRepository(db)
	ctx := context.Background()

	seedOrderTree(t, db, "scn-1", 1)

	require.NoError(t, repo.DeleteBySource(ctx, "scn-1", "GAME_MASTER"))

	has, err := repo.HasOrderForDay(ctx, "scn-1", 1)
	require.NoError(t, err)
	assert.False(t, has)
}
