package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

// GormOrderRepository persists tasking-order trees.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// AddTree persists an order with all packages, missions, waypoints,
// windows, targets, support requirements and space needs in one
// transaction. Either the whole tree lands or none of it does.
func (r *GormOrderRepository) AddTree(ctx context.Context, tree *strategy.OrderTree) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(orderToModel(tree.Order)).Error; err != nil {
			return fmt.Errorf("failed to add tasking order: %w", err)
		}
		for _, pkg := range tree.Packages {
			if err := tx.Create(packageToModel(pkg.Package)).Error; err != nil {
				return fmt.Errorf("failed to add mission package: %w", err)
			}
			for _, mt := range pkg.Missions {
				if err := mt.Mission.ValidateWaypointSequence(); err != nil {
					return err
				}
				if err := tx.Create(missionToModel(mt.Mission)).Error; err != nil {
					return fmt.Errorf("failed to add mission: %w", err)
				}
				for _, wp := range mt.Mission.Waypoints {
					if err := tx.Create(waypointToModel(wp)).Error; err != nil {
						return fmt.Errorf("failed to add waypoint: %w", err)
					}
				}
				for _, tw := range mt.Mission.TimeWindows {
					if err := tx.Create(windowToModel(tw)).Error; err != nil {
						return fmt.Errorf("failed to add time window: %w", err)
					}
				}
				for _, tgt := range mt.Mission.Targets {
					if err := tx.Create(targetToModel(tgt)).Error; err != nil {
						return fmt.Errorf("failed to add target: %w", err)
					}
				}
				for _, sr := range mt.Mission.SupportReqs {
					if err := tx.Create(supportToModel(sr)).Error; err != nil {
						return fmt.Errorf("failed to add support requirement: %w", err)
					}
				}
				for _, need := range mt.SpaceNeeds {
					if err := tx.Create(needToModel(need)).Error; err != nil {
						return fmt.Errorf("failed to add space need: %w", err)
					}
				}
			}
		}
		return nil
	})
}

// DeleteBySource removes all orders a given producer wrote for a
// scenario. Children go with them through the FK cascade. The generator
// calls this before re-seeding its day-one order.
func (r *GormOrderRepository) DeleteBySource(ctx context.Context, scenarioID, source string) error {
	if err := r.db.WithContext(ctx).
		Where("scenario_id = ? AND source = ?", scenarioID, source).
		Delete(&TaskingOrderModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete orders: %w", err)
	}
	return nil
}

// FindByDay retrieves the order trees for one ATO day, priority order
// preserved.
func (r *GormOrderRepository) FindByDay(ctx context.Context, scenarioID string, atoDay int) ([]*strategy.OrderTree, error) {
	var models []TaskingOrderModel
	result := r.db.WithContext(ctx).
		Preload("Packages", func(db *gorm.DB) *gorm.DB { return db.Order("priority_rank ASC") }).
		Preload("Packages.Missions").
		Preload("Packages.Missions.Waypoints", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Preload("Packages.Missions.TimeWindows").
		Preload("Packages.Missions.Targets").
		Preload("Packages.Missions.SupportReqs").
		Preload("Packages.Missions.SpaceNeeds").
		Where("scenario_id = ? AND ato_day_number = ?", scenarioID, atoDay).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find orders for day %d: %w", atoDay, result.Error)
	}

	trees := make([]*strategy.OrderTree, 0, len(models))
	for i := range models {
		trees = append(trees, treeFromModel(&models[i]))
	}
	return trees, nil
}

// FindByScenario retrieves all order trees for a scenario ordered by day.
func (r *GormOrderRepository) FindByScenario(ctx context.Context, scenarioID string) ([]*strategy.OrderTree, error) {
	var models []TaskingOrderModel
	result := r.db.WithContext(ctx).
		Preload("Packages", func(db *gorm.DB) *gorm.DB { return db.Order("priority_rank ASC") }).
		Preload("Packages.Missions").
		Preload("Packages.Missions.Waypoints", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Preload("Packages.Missions.TimeWindows").
		Preload("Packages.Missions.Targets").
		Preload("Packages.Missions.SupportReqs").
		Preload("Packages.Missions.SpaceNeeds").
		Where("scenario_id = ?", scenarioID).
		Order("ato_day_number ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list orders: %w", result.Error)
	}

	trees := make([]*strategy.OrderTree, 0, len(models))
	for i := range models {
		trees = append(trees, treeFromModel(&models[i]))
	}
	return trees, nil
}

// HasOrderForDay reports whether any order exists for the given ATO day.
// The game master checks this before generating to keep the day-boundary
// cycle idempotent.
func (r *GormOrderRepository) HasOrderForDay(ctx context.Context, scenarioID string, atoDay int) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&TaskingOrderModel{}).
		Where("scenario_id = ? AND ato_day_number = ?", scenarioID, atoDay).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to count orders: %w", result.Error)
	}
	return count > 0, nil
}

func treeFromModel(model *TaskingOrderModel) *strategy.OrderTree {
	tree := &strategy.OrderTree{Order: orderToEntity(model)}
	for i := range model.Packages {
		pm := &model.Packages[i]
		pkg := &strategy.PackageTree{Package: packageToEntity(pm)}
		for j := range pm.Missions {
			mm := &pm.Missions[j]
			mt := &strategy.MissionTree{Mission: missionToEntity(mm)}
			for k := range mm.SpaceNeeds {
				mt.SpaceNeeds = append(mt.SpaceNeeds, needToEntity(&mm.SpaceNeeds[k]))
			}
			pkg.Missions = append(pkg.Missions, mt)
		}
		tree.Packages = append(tree.Packages, pkg)
	}
	return tree
}

func orderToModel(o *strategy.TaskingOrder) *TaskingOrderModel {
	return &TaskingOrderModel{
		ID:             o.ID,
		ScenarioID:     o.ScenarioID,
		OrderType:      string(o.OrderType),
		ATODayNumber:   o.ATODayNumber,
		EffectiveStart: o.EffectiveStart,
		EffectiveEnd:   o.EffectiveEnd,
		PlanningDocID:  o.PlanningDocID,
		Source:         o.Source,
	}
}

func orderToEntity(m *TaskingOrderModel) *strategy.TaskingOrder {
	return &strategy.TaskingOrder{
		ID:             m.ID,
		ScenarioID:     m.ScenarioID,
		OrderType:      strategy.OrderType(m.OrderType),
		ATODayNumber:   m.ATODayNumber,
		EffectiveStart: m.EffectiveStart,
		EffectiveEnd:   m.EffectiveEnd,
		PlanningDocID:  m.PlanningDocID,
		Source:         m.Source,
	}
}

func packageToModel(p *strategy.MissionPackage) *MissionPackageModel {
	return &MissionPackageModel{
		ID:            p.ID,
		OrderID:       p.OrderID,
		PackageID:     p.PackageID,
		PriorityRank:  p.PriorityRank,
		MissionType:   p.MissionType,
		EffectDesired: p.EffectDesired,
	}
}

func packageToEntity(m *MissionPackageModel) *strategy.MissionPackage {
	return &strategy.MissionPackage{
		ID:            m.ID,
		OrderID:       m.OrderID,
		PackageID:     m.PackageID,
		PriorityRank:  m.PriorityRank,
		MissionType:   m.MissionType,
		EffectDesired: m.EffectDesired,
	}
}
