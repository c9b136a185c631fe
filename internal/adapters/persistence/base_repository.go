package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
)

// GormBaseRepository persists theater basing locations.
type GormBaseRepository struct {
	db *gorm.DB
}

// NewGormBaseRepository creates a new GORM base repository.
func NewGormBaseRepository(db *gorm.DB) *GormBaseRepository {
	return &GormBaseRepository{db: db}
}

// AddBase persists one theater base.
func (r *GormBaseRepository) AddBase(ctx context.Context, base *scenario.TheaterBase) error {
	model := &TheaterBaseModel{
		ID:          base.ID,
		ScenarioID:  base.ScenarioID,
		Name:        base.Name,
		ICAO:        base.ICAO,
		Country:     base.Country,
		BaseType:    string(base.BaseType),
		Affiliation: base.Affiliation,
		Lat:         base.Lat,
		Lon:         base.Lon,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add theater base: %w", err)
	}
	return nil
}

// FindBases retrieves all bases for a scenario ordered by name.
func (r *GormBaseRepository) FindBases(ctx context.Context, scenarioID string) ([]*scenario.TheaterBase, error) {
	var models []TheaterBaseModel
	result := r.db.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("name ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list theater bases: %w", result.Error)
	}

	bases := make([]*scenario.TheaterBase, 0, len(models))
	for i := range models {
		m := &models[i]
		bases = append(bases, &scenario.TheaterBase{
			ID:          m.ID,
			ScenarioID:  m.ScenarioID,
			Name:        m.Name,
			ICAO:        m.ICAO,
			Country:     m.Country,
			BaseType:    scenario.BaseType(m.BaseType),
			Affiliation: m.Affiliation,
			Lat:         m.Lat,
			Lon:         m.Lon,
		})
	}
	return bases, nil
}

// DeleteByScenario removes all bases for a scenario.
func (r *GormBaseRepository) DeleteByScenario(ctx context.Context, scenarioID string) error {
	if err := r.db.WithContext(ctx).Where("scenario_id = ?", scenarioID).Delete(&TheaterBaseModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete theater bases: %w", err)
	}
	return nil
}
