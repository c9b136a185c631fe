package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
)

// GormMissionRepository reads and mutates missions inside order trees.
// Only Status is mutable; everything else is written once by AddTree.
type GormMissionRepository struct {
	db *gorm.DB
}

// NewGormMissionRepository creates a new GORM mission repository.
func NewGormMissionRepository(db *gorm.DB) *GormMissionRepository {
	return &GormMissionRepository{db: db}
}

// FindByID retrieves a mission with its route, windows, targets and
// support requirements.
func (r *GormMissionRepository) FindByID(ctx context.Context, id string) (*mission.Mission, error) {
	var model MissionModel
	result := r.db.WithContext(ctx).
		Preload("Waypoints", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Preload("TimeWindows").
		Preload("Targets").
		Preload("SupportReqs").
		Where("id = ?", id).
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("mission", id)
		}
		return nil, fmt.Errorf("failed to find mission: %w", result.Error)
	}
	return missionToEntity(&model), nil
}

// FindByScenario retrieves all missions under a scenario's orders.
func (r *GormMissionRepository) FindByScenario(ctx context.Context, scenarioID string) ([]*mission.Mission, error) {
	var models []MissionModel
	result := r.db.WithContext(ctx).
		Preload("Waypoints", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Preload("TimeWindows").
		Preload("Targets").
		Preload("SupportReqs").
		Joins("JOIN mission_packages ON mission_packages.id = missions.package_row_id").
		Joins("JOIN tasking_orders ON tasking_orders.id = mission_packages.order_id").
		Where("tasking_orders.scenario_id = ?", scenarioID).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list missions: %w", result.Error)
	}

	missions := make([]*mission.Mission, 0, len(models))
	for i := range models {
		missions = append(missions, missionToEntity(&models[i]))
	}
	return missions, nil
}

// FindNonTerminal retrieves missions that can still advance, with routes
// and windows preloaded for the tick and position loops.
func (r *GormMissionRepository) FindNonTerminal(ctx context.Context, scenarioID string) ([]*mission.Mission, error) {
	var models []MissionModel
	result := r.db.WithContext(ctx).
		Preload("Waypoints", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Preload("TimeWindows").
		Joins("JOIN mission_packages ON mission_packages.id = missions.package_row_id").
		Joins("JOIN tasking_orders ON tasking_orders.id = mission_packages.order_id").
		Where("tasking_orders.scenario_id = ?", scenarioID).
		Where("missions.status NOT IN ?", []string{
			string(mission.StatusRecovered),
			string(mission.StatusDelayed),
			string(mission.StatusLost),
		}).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list non-terminal missions: %w", result.Error)
	}

	missions := make([]*mission.Mission, 0, len(models))
	for i := range models {
		missions = append(missions, missionToEntity(&models[i]))
	}
	return missions, nil
}

// FindActive retrieves missions currently between launch and recovery.
func (r *GormMissionRepository) FindActive(ctx context.Context, scenarioID string) ([]*mission.Mission, error) {
	var models []MissionModel
	result := r.db.WithContext(ctx).
		Preload("Waypoints", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Preload("TimeWindows").
		Joins("JOIN mission_packages ON mission_packages.id = missions.package_row_id").
		Joins("JOIN tasking_orders ON tasking_orders.id = mission_packages.order_id").
		Where("tasking_orders.scenario_id = ?", scenarioID).
		Where("missions.status IN ?", []string{
			string(mission.StatusLaunched),
			string(mission.StatusAirborne),
			string(mission.StatusOnStation),
			string(mission.StatusEngaged),
			string(mission.StatusEgressing),
			string(mission.StatusRTB),
		}).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list active missions: %w", result.Error)
	}

	missions := make([]*mission.Mission, 0, len(models))
	for i := range models {
		missions = append(missions, missionToEntity(&models[i]))
	}
	return missions, nil
}

// UpdateStatus persists a mission status change.
func (r *GormMissionRepository) UpdateStatus(ctx context.Context, id string, status mission.Status) error {
	result := r.db.WithContext(ctx).Model(&MissionModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return fmt.Errorf("failed to update mission status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("mission", id)
	}
	return nil
}

func missionToModel(m *mission.Mission) *MissionModel {
	return &MissionModel{
		ID:            m.ID,
		PackageRowID:  m.PackageID,
		MissionID:     m.MissionID,
		Callsign:      m.Callsign,
		Domain:        string(m.Domain),
		PlatformType:  m.PlatformType,
		PlatformCount: m.PlatformCount,
		MissionType:   m.MissionType,
		Status:        string(m.Status),
		Affiliation:   string(m.Affiliation),
	}
}

func missionToEntity(m *MissionModel) *mission.Mission {
	entity := &mission.Mission{
		ID:            m.ID,
		PackageID:     m.PackageRowID,
		MissionID:     m.MissionID,
		Callsign:      m.Callsign,
		Domain:        mission.Domain(m.Domain),
		PlatformType:  m.PlatformType,
		PlatformCount: m.PlatformCount,
		MissionType:   m.MissionType,
		Status:        mission.Status(m.Status),
		Affiliation:   mission.Affiliation(m.Affiliation),
	}
	for i := range m.Waypoints {
		entity.Waypoints = append(entity.Waypoints, waypointToEntity(&m.Waypoints[i]))
	}
	for i := range m.TimeWindows {
		entity.TimeWindows = append(entity.TimeWindows, windowToEntity(&m.TimeWindows[i]))
	}
	for i := range m.Targets {
		entity.Targets = append(entity.Targets, targetToEntity(&m.Targets[i]))
	}
	for i := range m.SupportReqs {
		entity.SupportReqs = append(entity.SupportReqs, supportToEntity(&m.SupportReqs[i]))
	}
	return entity
}

func waypointToModel(wp *mission.Waypoint) *WaypointModel {
	return &WaypointModel{
		ID:           wp.ID,
		MissionRowID: wp.MissionID,
		Sequence:     wp.Sequence,
		WaypointType: string(wp.WaypointType),
		Lat:          wp.Lat,
		Lon:          wp.Lon,
		AltitudeFt:   wp.AltitudeFt,
		SpeedKts:     wp.SpeedKts,
	}
}

func waypointToEntity(m *WaypointModel) *mission.Waypoint {
	return &mission.Waypoint{
		ID:           m.ID,
		MissionID:    m.MissionRowID,
		Sequence:     m.Sequence,
		WaypointType: mission.WaypointType(m.WaypointType),
		Lat:          m.Lat,
		Lon:          m.Lon,
		AltitudeFt:   m.AltitudeFt,
		SpeedKts:     m.SpeedKts,
	}
}

func windowToModel(tw *mission.TimeWindow) *TimeWindowModel {
	return &TimeWindowModel{
		ID:           tw.ID,
		MissionRowID: tw.MissionID,
		WindowType:   string(tw.WindowType),
		StartTime:    tw.StartTime,
		EndTime:      tw.EndTime,
	}
}

func windowToEntity(m *TimeWindowModel) *mission.TimeWindow {
	return &mission.TimeWindow{
		ID:         m.ID,
		MissionID:  m.MissionRowID,
		WindowType: mission.WindowType(m.WindowType),
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
	}
}

func targetToModel(t *mission.Target) *MissionTargetModel {
	return &MissionTargetModel{
		ID:           t.ID,
		MissionRowID: t.MissionID,
		TargetName:   t.TargetName,
		TargetType:   t.TargetType,
		Lat:          t.Lat,
		Lon:          t.Lon,
		Description:  t.Description,
	}
}

func targetToEntity(m *MissionTargetModel) *mission.Target {
	return &mission.Target{
		ID:          m.ID,
		MissionID:   m.MissionRowID,
		TargetName:  m.TargetName,
		TargetType:  m.TargetType,
		Lat:         m.Lat,
		Lon:         m.Lon,
		Description: m.Description,
	}
}

func supportToModel(s *mission.SupportRequirement) *SupportRequirementModel {
	return &SupportRequirementModel{
		ID:           s.ID,
		MissionRowID: s.MissionID,
		SupportType:  string(s.SupportType),
		Description:  s.Description,
	}
}

func supportToEntity(m *SupportRequirementModel) *mission.SupportRequirement {
	return &mission.SupportRequirement{
		ID:          m.ID,
		MissionID:   m.MissionRowID,
		SupportType: mission.SupportType(m.SupportType),
		Description: m.Description,
	}
}
