package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
)

// GormSpaceRepository persists space assets, space needs and materialized
// coverage windows.
type GormSpaceRepository struct {
	db *gorm.DB
}

// NewGormSpaceRepository creates a new GORM space repository.
func NewGormSpaceRepository(db *gorm.DB) *GormSpaceRepository {
	return &GormSpaceRepository{db: db}
}

// AddAsset persists a space asset.
func (r *GormSpaceRepository) AddAsset(ctx context.Context, asset *space.SpaceAsset) error {
	model, err := assetToModel(asset)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add space asset: %w", err)
	}
	return nil
}

// DeleteAssetsByScenario removes every space asset for a scenario. The
// generator calls this before re-seeding the constellation.
func (r *GormSpaceRepository) DeleteAssetsByScenario(ctx context.Context, scenarioID string) error {
	if err := r.db.WithContext(ctx).Where("scenario_id = ?", scenarioID).Delete(&SpaceAssetModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete space assets: %w", err)
	}
	return nil
}

// FindAssetByID retrieves a space asset.
func (r *GormSpaceRepository) FindAssetByID(ctx context.Context, id string) (*space.SpaceAsset, error) {
	var model SpaceAssetModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("space asset", id)
		}
		return nil, fmt.Errorf("failed to find space asset: %w", result.Error)
	}
	return assetToEntity(&model)
}

// FindAssets retrieves all space assets for a scenario.
func (r *GormSpaceRepository) FindAssets(ctx context.Context, scenarioID string) ([]*space.SpaceAsset, error) {
	var models []SpaceAssetModel
	result := r.db.WithContext(ctx).Where("scenario_id = ?", scenarioID).Order("name ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list space assets: %w", result.Error)
	}

	assets := make([]*space.SpaceAsset, 0, len(models))
	for i := range models {
		asset, err := assetToEntity(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert asset %s: %w", models[i].ID, err)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// FindOperationalAssets retrieves assets that can currently provide
// coverage.
func (r *GormSpaceRepository) FindOperationalAssets(ctx context.Context, scenarioID string) ([]*space.SpaceAsset, error) {
	var models []SpaceAssetModel
	result := r.db.WithContext(ctx).
		Where("scenario_id = ? AND status = ?", scenarioID, string(space.AssetOperational)).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list operational assets: %w", result.Error)
	}

	assets := make([]*space.SpaceAsset, 0, len(models))
	for i := range models {
		asset, err := assetToEntity(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert asset %s: %w", models[i].ID, err)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// UpdateAssetStatus persists an asset status change.
func (r *GormSpaceRepository) UpdateAssetStatus(ctx context.Context, id string, status space.AssetStatus) error {
	result := r.db.WithContext(ctx).Model(&SpaceAssetModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return fmt.Errorf("failed to update asset status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("space asset", id)
	}
	return nil
}

// UpdateAssetElements overwrites an asset's TLE lines. The catalog
// refresher calls this when a newer element set arrives.
func (r *GormSpaceRepository) UpdateAssetElements(ctx context.Context, id, tleLine1, tleLine2 string) error {
	result := r.db.WithContext(ctx).Model(&SpaceAssetModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"tle_line1": tleLine1, "tle_line2": tleLine2})
	if result.Error != nil {
		return fmt.Errorf("failed to update asset elements: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("space asset", id)
	}
	return nil
}

// FindNeedsInWindow retrieves the scenario's space needs whose windows
// overlap [start, end).
func (r *GormSpaceRepository) FindNeedsInWindow(ctx context.Context, scenarioID string, start, end time.Time) ([]*space.SpaceNeed, error) {
	var models []SpaceNeedModel
	result := r.db.WithContext(ctx).
		Joins("JOIN missions ON missions.id = space_needs.mission_row_id").
		Joins("JOIN mission_packages ON mission_packages.id = missions.package_row_id").
		Joins("JOIN tasking_orders ON tasking_orders.id = mission_packages.order_id").
		Where("tasking_orders.scenario_id = ?", scenarioID).
		Where("space_needs.start_time < ? AND space_needs.end_time > ?", end, start).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list space needs: %w", result.Error)
	}

	needs := make([]*space.SpaceNeed, 0, len(models))
	for i := range models {
		needs = append(needs, needToEntity(&models[i]))
	}
	return needs, nil
}

// MarkNeedsFulfilled flips the fulfilled flag for the given need IDs.
// The flag is monotone; it is never cleared once set.
func (r *GormSpaceRepository) MarkNeedsFulfilled(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&SpaceNeedModel{}).
		Where("id IN ?", ids).
		Update("fulfilled", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark needs fulfilled: %w", result.Error)
	}
	return nil
}

// ReplaceCoverageWindows swaps the materialized windows for a scenario in
// one transaction. Each coverage cycle recomputes from scratch.
func (r *GormSpaceRepository) ReplaceCoverageWindows(ctx context.Context, scenarioID string, windows []*space.CoverageWindow) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scenario_id = ?", scenarioID).Delete(&SpaceCoverageWindowModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear coverage windows: %w", err)
		}
		for _, w := range windows {
			if err := tx.Create(windowModelFromCoverage(w)).Error; err != nil {
				return fmt.Errorf("failed to add coverage window: %w", err)
			}
		}
		return nil
	})
}

// FindCoverageWindows retrieves the scenario's materialized windows
// sorted by start time.
func (r *GormSpaceRepository) FindCoverageWindows(ctx context.Context, scenarioID string) ([]*space.CoverageWindow, error) {
	var models []SpaceCoverageWindowModel
	result := r.db.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("start_time ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list coverage windows: %w", result.Error)
	}

	windows := make([]*space.CoverageWindow, 0, len(models))
	for i := range models {
		windows = append(windows, coverageFromModel(&models[i]))
	}
	return windows, nil
}

func assetToModel(asset *space.SpaceAsset) (*SpaceAssetModel, error) {
	capsJSON, err := json.Marshal(asset.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal capabilities: %w", err)
	}
	return &SpaceAssetModel{
		ID:             asset.ID,
		ScenarioID:     asset.ScenarioID,
		Name:           asset.Name,
		Constellation:  asset.Constellation,
		Affiliation:    string(asset.Affiliation),
		Capabilities:   string(capsJSON),
		Status:         string(asset.Status),
		TLELine1:       asset.TLELine1,
		TLELine2:       asset.TLELine2,
		InclinationDeg: asset.InclinationDeg,
		PeriodMin:      asset.PeriodMin,
		Eccentricity:   asset.Eccentricity,
		BaseLon:        asset.BaseLon,
		SwathWidthKm:   asset.SwathWidthKm,
	}, nil
}

func assetToEntity(model *SpaceAssetModel) (*space.SpaceAsset, error) {
	var caps []space.CapabilityType
	if model.Capabilities != "" {
		if err := json.Unmarshal([]byte(model.Capabilities), &caps); err != nil {
			return nil, fmt.Errorf("failed to unmarshal capabilities: %w", err)
		}
	}
	return &space.SpaceAsset{
		ID:             model.ID,
		ScenarioID:     model.ScenarioID,
		Name:           model.Name,
		Constellation:  model.Constellation,
		Affiliation:    space.Affiliation(model.Affiliation),
		Capabilities:   caps,
		Status:         space.AssetStatus(model.Status),
		TLELine1:       model.TLELine1,
		TLELine2:       model.TLELine2,
		InclinationDeg: model.InclinationDeg,
		PeriodMin:      model.PeriodMin,
		Eccentricity:   model.Eccentricity,
		BaseLon:        model.BaseLon,
		SwathWidthKm:   model.SwathWidthKm,
	}, nil
}

func needToModel(n *space.SpaceNeed) *SpaceNeedModel {
	var fallback *string
	if n.FallbackCapability != nil {
		s := string(*n.FallbackCapability)
		fallback = &s
	}
	return &SpaceNeedModel{
		ID:                 n.ID,
		MissionRowID:       n.MissionID,
		CapabilityType:     string(n.CapabilityType),
		Priority:           n.Priority,
		StartTime:          n.StartTime,
		EndTime:            n.EndTime,
		CoverageLat:        n.CoverageLat,
		CoverageLon:        n.CoverageLon,
		FallbackCapability: fallback,
		MissionCriticality: string(n.MissionCriticality),
		Fulfilled:          n.Fulfilled,
	}
}

func needToEntity(m *SpaceNeedModel) *space.SpaceNeed {
	var fallback *space.CapabilityType
	if m.FallbackCapability != nil {
		c := space.CapabilityType(*m.FallbackCapability)
		fallback = &c
	}
	return &space.SpaceNeed{
		ID:                 m.ID,
		MissionID:          m.MissionRowID,
		CapabilityType:     space.CapabilityType(m.CapabilityType),
		Priority:           m.Priority,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		CoverageLat:        m.CoverageLat,
		CoverageLon:        m.CoverageLon,
		FallbackCapability: fallback,
		MissionCriticality: space.MissionCriticality(m.MissionCriticality),
		Fulfilled:          m.Fulfilled,
	}
}

func windowModelFromCoverage(w *space.CoverageWindow) *SpaceCoverageWindowModel {
	var maxAt *time.Time
	if !w.MaxElevationAt.IsZero() {
		t := w.MaxElevationAt
		maxAt = &t
	}
	return &SpaceCoverageWindowModel{
		ID:              w.ID,
		ScenarioID:      w.ScenarioID,
		AssetID:         w.AssetID,
		AssetName:       w.AssetName,
		Capability:      string(w.Capability),
		StartTime:       w.StartTime,
		EndTime:         w.EndTime,
		MaxElevationDeg: w.MaxElevationDeg,
		MaxElevationAt:  maxAt,
		CenterLat:       w.CenterLat,
		CenterLon:       w.CenterLon,
		SwathWidthKm:    w.SwathWidthKm,
	}
}

func coverageFromModel(m *SpaceCoverageWindowModel) *space.CoverageWindow {
	w := &space.CoverageWindow{
		ID:              m.ID,
		ScenarioID:      m.ScenarioID,
		AssetID:         m.AssetID,
		AssetName:       m.AssetName,
		Capability:      space.CapabilityType(m.Capability),
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		MaxElevationDeg: m.MaxElevationDeg,
		CenterLat:       m.CenterLat,
		CenterLon:       m.CenterLon,
		SwathWidthKm:    m.SwathWidthKm,
	}
	if m.MaxElevationAt != nil {
		w.MaxElevationAt = *m.MaxElevationAt
	}
	return w
}
