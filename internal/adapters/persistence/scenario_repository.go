package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
)

// GormScenarioRepository implements scenario persistence using GORM.
type GormScenarioRepository struct {
	db *gorm.DB
}

// NewGormScenarioRepository creates a new GORM scenario repository.
func NewGormScenarioRepository(db *gorm.DB) *GormScenarioRepository {
	return &GormScenarioRepository{db: db}
}

// Add persists a new scenario.
func (r *GormScenarioRepository) Add(ctx context.Context, s *scenario.Scenario) error {
	result := r.db.WithContext(ctx).Create(r.entityToModel(s))
	if result.Error != nil {
		return fmt.Errorf("failed to add scenario: %w", result.Error)
	}
	return nil
}

// FindByID retrieves a scenario by ID.
func (r *GormScenarioRepository) FindByID(ctx context.Context, id string) (*scenario.Scenario, error) {
	var model ScenarioModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("scenario", id)
		}
		return nil, fmt.Errorf("failed to find scenario: %w", result.Error)
	}
	return r.modelToEntity(&model), nil
}

// FindAll retrieves all scenarios ordered by creation time, newest first.
func (r *GormScenarioRepository) FindAll(ctx context.Context) ([]*scenario.Scenario, error) {
	var models []ScenarioModel
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", result.Error)
	}

	scenarios := make([]*scenario.Scenario, 0, len(models))
	for i := range models {
		scenarios = append(scenarios, r.modelToEntity(&models[i]))
	}
	return scenarios, nil
}

// Update persists scenario field changes.
func (r *GormScenarioRepository) Update(ctx context.Context, s *scenario.Scenario) error {
	result := r.db.WithContext(ctx).Save(r.entityToModel(s))
	if result.Error != nil {
		return fmt.Errorf("failed to update scenario: %w", result.Error)
	}
	return nil
}

// UpdateGeneration updates only the generation tracking columns. The
// generator calls this between steps so progress survives restarts.
func (r *GormScenarioRepository) UpdateGeneration(ctx context.Context, id string, status scenario.GenerationStatus, step string, progress int, genError string) error {
	result := r.db.WithContext(ctx).Model(&ScenarioModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"generation_status":   string(status),
			"generation_step":     step,
			"generation_progress": progress,
			"generation_error":    genError,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update generation state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("scenario", id)
	}
	return nil
}

// Delete removes a scenario. Scenario-scoped rows cascade at the
// database level.
func (r *GormScenarioRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ScenarioModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete scenario: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("scenario", id)
	}
	return nil
}

func (r *GormScenarioRepository) modelToEntity(model *ScenarioModel) *scenario.Scenario {
	return &scenario.Scenario{
		ID:                 model.ID,
		Name:               model.Name,
		Theater:            model.Theater,
		Adversary:          model.Adversary,
		Description:        model.Description,
		StartDate:          model.StartDate,
		EndDate:            model.EndDate,
		GenerationStatus:   scenario.GenerationStatus(model.GenerationStatus),
		GenerationStep:     model.GenerationStep,
		GenerationProgress: model.GenerationProgress,
		GenerationError:    model.GenerationError,
		CreatedAt:          model.CreatedAt,
	}
}

func (r *GormScenarioRepository) entityToModel(s *scenario.Scenario) *ScenarioModel {
	return &ScenarioModel{
		ID:                 s.ID,
		Name:               s.Name,
		Theater:            s.Theater,
		Adversary:          s.Adversary,
		Description:        s.Description,
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		GenerationStatus:   string(s.GenerationStatus),
		GenerationStep:     s.GenerationStep,
		GenerationProgress: s.GenerationProgress,
		GenerationError:    s.GenerationError,
		CreatedAt:          s.CreatedAt,
	}
}
