package generator

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

// SeedOrderTree builds a deterministic tasking order for one ATO day from
// the unit catalog and the scenario's seeded bases. The generator uses it
// for the day-one order and the game master falls back to it when the
// LLM path fails.
func SeedOrderTree(scn *scenario.Scenario, atoDay int, bases []*scenario.TheaterBase, planningDocID *string, source string) *strategy.OrderTree {
	dayStart := scn.StartDate.Add(time.Duration(atoDay-1) * 24 * time.Hour)

	home := pickBase(bases, "FRIENDLY", scenario.BaseAir)
	target := pickBase(bases, "HOSTILE", scenario.BaseAir)
	if home == nil {
		home = &scenario.TheaterBase{Name: "Forward Operating Base", Lat: 26.35, Lon: 127.77}
	}
	if target == nil {
		target = &scenario.TheaterBase{Name: "Objective Area", Lat: 27.31, Lon: 120.08}
	}

	tree := &strategy.OrderTree{
		Order: &strategy.TaskingOrder{
			ID:             uuid.NewString(),
			ScenarioID:     scn.ID,
			OrderType:      strategy.OrderATO,
			ATODayNumber:   atoDay,
			EffectiveStart: dayStart,
			EffectiveEnd:   dayStart.Add(24 * time.Hour),
			PlanningDocID:  planningDocID,
			Source:         source,
		},
	}

	strikePkg := seedPackage(tree.Order.ID, fmt.Sprintf("PKG%02dA", atoDay), 1, "STRIKE",
		fmt.Sprintf("Neutralize %s air defense and runway", target.Name))
	for i, unit := range friendlyStrikeUnits {
		tot := dayStart.Add(time.Duration(10+i) * time.Hour)
		m := seedMission(strikePkg.Package.ID, unit, atoDay)
		m.Mission.Waypoints = seedRoute(m.Mission.ID, home, target)
		m.Mission.TimeWindows = []*mission.TimeWindow{seedWindow(m.Mission.ID, mission.WindowTOT, tot, tot.Add(30*time.Minute))}
		if unit.missionType == "OCA-STRIKE" {
			m.Mission.Targets = []*mission.Target{{
				ID:          uuid.NewString(),
				MissionID:   m.Mission.ID,
				TargetName:  target.Name,
				TargetType:  "AIRFIELD",
				Lat:         target.Lat,
				Lon:         target.Lon,
				Description: "Primary runway and HAS complex",
			}}
			m.Mission.SupportReqs = []*mission.SupportRequirement{
				{ID: uuid.NewString(), MissionID: m.Mission.ID, SupportType: mission.SupportSEAD, Description: "Corridor suppression H-hour to H+30"},
				{ID: uuid.NewString(), MissionID: m.Mission.ID, SupportType: mission.SupportTanker, Description: "Pre-strike AAR track GOLD"},
			}
			gps := space.CapabilityGPS
			wideband := space.CapabilitySATCOMWideband
			m.SpaceNeeds = []*space.SpaceNeed{
				seedNeed(m.Mission.ID, space.CapabilityGPSMilitary, 1, tot.Add(-30*time.Minute), tot.Add(time.Hour),
					target.Lat, target.Lon, &gps, space.CriticalityCritical),
				seedNeed(m.Mission.ID, space.CapabilitySATCOMProtected, 2, tot.Add(-time.Hour), tot.Add(2*time.Hour),
					target.Lat, target.Lon, &wideband, space.CriticalityEssential),
			}
		}
		strikePkg.Missions = append(strikePkg.Missions, m)
	}
	tree.Packages = append(tree.Packages, strikePkg)

	isrPkg := seedPackage(tree.Order.ID, fmt.Sprintf("PKG%02dB", atoDay), 2, "C2ISR",
		"Persistent surveillance of the objective area")
	for i, unit := range friendlyISRUnits {
		onsta := dayStart.Add(time.Duration(6+2*i) * time.Hour)
		m := seedMission(isrPkg.Package.ID, unit, atoDay)
		m.Mission.Waypoints = seedOrbitRoute(m.Mission.ID, home, target)
		m.Mission.TimeWindows = []*mission.TimeWindow{seedWindow(m.Mission.ID, mission.WindowONSTA, onsta, onsta.Add(8*time.Hour))}
		if unit.missionType == "ISR" {
			m.SpaceNeeds = []*space.SpaceNeed{
				seedNeed(m.Mission.ID, space.CapabilityISRSpace, 2, onsta, onsta.Add(8*time.Hour),
					target.Lat, target.Lon, nil, space.CriticalityEssential),
				seedNeed(m.Mission.ID, space.CapabilityLink16, 3, onsta, onsta.Add(8*time.Hour),
					target.Lat, target.Lon, nil, space.CriticalityEnhancing),
			}
		}
		isrPkg.Missions = append(isrPkg.Missions, m)
	}
	tree.Packages = append(tree.Packages, isrPkg)

	dcaPkg := seedPackage(tree.Order.ID, fmt.Sprintf("PKG%02dC", atoDay), 3, "DCA",
		"Defensive counter-air over friendly basing")
	for _, unit := range friendlyDCAUnits {
		vul := dayStart.Add(8 * time.Hour)
		m := seedMission(dcaPkg.Package.ID, unit, atoDay)
		m.Mission.Waypoints = seedOrbitRoute(m.Mission.ID, home, home)
		m.Mission.TimeWindows = []*mission.TimeWindow{seedWindow(m.Mission.ID, mission.WindowVUL, vul, vul.Add(6*time.Hour))}
		dcaPkg.Missions = append(dcaPkg.Missions, m)
	}
	tree.Packages = append(tree.Packages, dcaPkg)

	redPkg := seedPackage(tree.Order.ID, fmt.Sprintf("PKG%02dR", atoDay), 9, "ADVERSARY", "Assessed adversary activity")
	redHome := pickBase(bases, "HOSTILE", scenario.BaseAir)
	if redHome == nil {
		redHome = target
	}
	for i, unit := range hostileUnits {
		tot := dayStart.Add(time.Duration(9+3*i) * time.Hour)
		m := seedMission(redPkg.Package.ID, unit, atoDay)
		m.Mission.Waypoints = seedRoute(m.Mission.ID, redHome, home)
		m.Mission.TimeWindows = []*mission.TimeWindow{seedWindow(m.Mission.ID, mission.WindowTOT, tot, tot.Add(time.Hour))}
		redPkg.Missions = append(redPkg.Missions, m)
	}
	tree.Packages = append(tree.Packages, redPkg)

	return tree
}

func seedPackage(orderID, packageID string, rank int, missionType, effect string) *strategy.PackageTree {
	return &strategy.PackageTree{
		Package: &strategy.MissionPackage{
			ID:            uuid.NewString(),
			OrderID:       orderID,
			PackageID:     packageID,
			PriorityRank:  rank,
			MissionType:   missionType,
			EffectDesired: effect,
		},
	}
}

func seedMission(packageRowID string, unit unitTemplate, atoDay int) *strategy.MissionTree {
	return &strategy.MissionTree{
		Mission: &mission.Mission{
			ID:            uuid.NewString(),
			PackageID:     packageRowID,
			MissionID:     fmt.Sprintf("%s-D%02d", unit.missionID, atoDay),
			Callsign:      unit.callsign,
			Domain:        unit.domain,
			PlatformType:  unit.platformType,
			PlatformCount: unit.platformCount,
			MissionType:   unit.missionType,
			Status:        mission.StatusPlanned,
			Affiliation:   unit.affiliation,
		},
	}
}

// seedRoute lays a five-point ingress/egress route between two points.
func seedRoute(missionID string, from, to *scenario.TheaterBase) []*mission.Waypoint {
	midLat := (from.Lat + to.Lat) / 2
	midLon := (from.Lon + to.Lon) / 2
	alt := 28000.0
	speed := 480.0
	points := []struct {
		wpType   mission.WaypointType
		lat, lon float64
	}{
		{mission.WaypointDEP, from.Lat, from.Lon},
		{mission.WaypointIP, midLat, midLon},
		{mission.WaypointTGT, to.Lat, to.Lon},
		{mission.WaypointEGR, midLat, midLon},
		{mission.WaypointREC, from.Lat, from.Lon},
	}
	wps := make([]*mission.Waypoint, 0, len(points))
	for i, p := range points {
		wps = append(wps, &mission.Waypoint{
			ID:           uuid.NewString(),
			MissionID:    missionID,
			Sequence:     i + 1,
			WaypointType: p.wpType,
			Lat:          p.lat,
			Lon:          p.lon,
			AltitudeFt:   &alt,
			SpeedKts:     &speed,
		})
	}
	return wps
}

// seedOrbitRoute lays a departure, an on-station orbit offset toward the
// objective, and a recovery.
func seedOrbitRoute(missionID string, from, toward *scenario.TheaterBase) []*mission.Waypoint {
	orbitLat := from.Lat + (toward.Lat-from.Lat)*0.6
	orbitLon := from.Lon + (toward.Lon-from.Lon)*0.6
	alt := 31000.0
	speed := 360.0
	points := []struct {
		wpType   mission.WaypointType
		lat, lon float64
	}{
		{mission.WaypointDEP, from.Lat, from.Lon},
		{mission.WaypointORBIT, orbitLat, orbitLon},
		{mission.WaypointREC, from.Lat, from.Lon},
	}
	wps := make([]*mission.Waypoint, 0, len(points))
	for i, p := range points {
		wps = append(wps, &mission.Waypoint{
			ID:           uuid.NewString(),
			MissionID:    missionID,
			Sequence:     i + 1,
			WaypointType: p.wpType,
			Lat:          p.lat,
			Lon:          p.lon,
			AltitudeFt:   &alt,
			SpeedKts:     &speed,
		})
	}
	return wps
}

func seedWindow(missionID string, windowType mission.WindowType, start, end time.Time) *mission.TimeWindow {
	return &mission.TimeWindow{
		ID:         uuid.NewString(),
		MissionID:  missionID,
		WindowType: windowType,
		StartTime:  start,
		EndTime:    end,
	}
}

func seedNeed(missionID string, capability space.CapabilityType, priority int, start, end time.Time, lat, lon float64, fallback *space.CapabilityType, criticality space.MissionCriticality) *space.SpaceNeed {
	return &space.SpaceNeed{
		ID:                 uuid.NewString(),
		MissionID:          missionID,
		CapabilityType:     capability,
		Priority:           priority,
		StartTime:          start,
		EndTime:            end,
		CoverageLat:        &lat,
		CoverageLon:        &lon,
		FallbackCapability: fallback,
		MissionCriticality: criticality,
	}
}

func pickBase(bases []*scenario.TheaterBase, affiliation string, baseType scenario.BaseType) *scenario.TheaterBase {
	for _, b := range bases {
		if b.Affiliation == affiliation && b.BaseType == baseType {
			return b
		}
	}
	for _, b := range bases {
		if b.Affiliation == affiliation {
			return b
		}
	}
	return nil
}
