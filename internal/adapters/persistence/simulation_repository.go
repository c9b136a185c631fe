package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
)

// GormSimulationRepository persists per-scenario simulation clock state.
type GormSimulationRepository struct {
	db *gorm.DB
}

// NewGormSimulationRepository creates a new GORM simulation repository.
func NewGormSimulationRepository(db *gorm.DB) *GormSimulationRepository {
	return &GormSimulationRepository{db: db}
}

// Save upserts the scenario's simulation state row. One row per scenario,
// keyed on scenario_id.
func (r *GormSimulationRepository) Save(ctx context.Context, state *scenario.SimulationState) error {
	model := r.entityToModel(state)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scenario_id"}},
		UpdateAll: true,
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save simulation state: %w", result.Error)
	}
	return nil
}

// FindByScenario retrieves the simulation state for a scenario. Returns
// nil without error when no simulation has been started.
func (r *GormSimulationRepository) FindByScenario(ctx context.Context, scenarioID string) (*scenario.SimulationState, error) {
	var model SimulationStateModel
	result := r.db.WithContext(ctx).Where("scenario_id = ?", scenarioID).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find simulation state: %w", result.Error)
	}
	return r.modelToEntity(&model), nil
}

func (r *GormSimulationRepository) modelToEntity(model *SimulationStateModel) *scenario.SimulationState {
	return &scenario.SimulationState{
		ID:               model.ID,
		ScenarioID:       model.ScenarioID,
		Status:           scenario.SimStatus(model.Status),
		SimTime:          model.SimTime,
		RealStartTime:    model.RealStartTime,
		CompressionRatio: model.CompressionRatio,
		CurrentATODay:    model.CurrentATODay,
	}
}

func (r *GormSimulationRepository) entityToModel(state *scenario.SimulationState) *SimulationStateModel {
	return &SimulationStateModel{
		ID:               state.ID,
		ScenarioID:       state.ScenarioID,
		Status:           string(state.Status),
		SimTime:          state.SimTime,
		RealStartTime:    state.RealStartTime,
		CompressionRatio: state.CompressionRatio,
		CurrentATODay:    state.CurrentATODay,
	}
}
