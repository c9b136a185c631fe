package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

// GormDocumentRepository persists the strategy cascade and planning
// documents with their ranked priorities.
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GORM document repository.
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// AddStrategyDocument persists a strategy document with its priorities in
// one transaction.
func (r *GormDocumentRepository) AddStrategyDocument(ctx context.Context, doc *strategy.StrategyDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r.strategyDocToModel(doc)).Error; err != nil {
			return fmt.Errorf("failed to add strategy document: %w", err)
		}
		for _, p := range doc.Priorities {
			model := &StrategyPriorityModel{
				ID:          p.ID,
				DocumentID:  doc.ID,
				Rank:        p.Rank,
				Objective:   p.Objective,
				Description: p.Description,
			}
			if err := tx.Create(model).Error; err != nil {
				return fmt.Errorf("failed to add strategy priority: %w", err)
			}
		}
		return nil
	})
}

// FindStrategyDocumentByID retrieves a strategy document with priorities.
func (r *GormDocumentRepository) FindStrategyDocumentByID(ctx context.Context, id string) (*strategy.StrategyDocument, error) {
	var model StrategyDocumentModel
	result := r.db.WithContext(ctx).Preload("Priorities").Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("strategy document", id)
		}
		return nil, fmt.Errorf("failed to find strategy document: %w", result.Error)
	}
	return r.strategyDocToEntity(&model), nil
}

// FindStrategyDocuments retrieves all strategy documents for a scenario
// ordered by tier.
func (r *GormDocumentRepository) FindStrategyDocuments(ctx context.Context, scenarioID string) ([]*strategy.StrategyDocument, error) {
	var models []StrategyDocumentModel
	result := r.db.WithContext(ctx).Preload("Priorities").
		Where("scenario_id = ?", scenarioID).
		Order("tier ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list strategy documents: %w", result.Error)
	}

	docs := make([]*strategy.StrategyDocument, 0, len(models))
	for i := range models {
		docs = append(docs, r.strategyDocToEntity(&models[i]))
	}
	return docs, nil
}

// FindDeepestStrategyDocument returns the highest-tier strategy document
// for a scenario, or nil when none exist. Ingest links new documents
// under this one.
func (r *GormDocumentRepository) FindDeepestStrategyDocument(ctx context.Context, scenarioID string, belowTier int) (*strategy.StrategyDocument, error) {
	var model StrategyDocumentModel
	result := r.db.WithContext(ctx).Preload("Priorities").
		Where("scenario_id = ? AND tier < ?", scenarioID, belowTier).
		Order("tier DESC").
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find parent strategy document: %w", result.Error)
	}
	return r.strategyDocToEntity(&model), nil
}

// AddPlanningDocument persists a planning document with its priority
// entries in one transaction.
func (r *GormDocumentRepository) AddPlanningDocument(ctx context.Context, doc *strategy.PlanningDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r.planningDocToModel(doc)).Error; err != nil {
			return fmt.Errorf("failed to add planning document: %w", err)
		}
		for _, p := range doc.Priorities {
			model := &PriorityEntryModel{
				ID:                 p.ID,
				DocumentID:         doc.ID,
				Rank:               p.Rank,
				Effect:             p.Effect,
				Description:        p.Description,
				StrategyPriorityID: p.StrategyPriorityID,
			}
			if err := tx.Create(model).Error; err != nil {
				return fmt.Errorf("failed to add priority entry: %w", err)
			}
		}
		return nil
	})
}

// FindPlanningDocuments retrieves all planning documents for a scenario,
// newest first.
func (r *GormDocumentRepository) FindPlanningDocuments(ctx context.Context, scenarioID string) ([]*strategy.PlanningDocument, error) {
	var models []PlanningDocumentModel
	result := r.db.WithContext(ctx).Preload("Priorities").
		Where("scenario_id = ?", scenarioID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list planning documents: %w", result.Error)
	}

	docs := make([]*strategy.PlanningDocument, 0, len(models))
	for i := range models {
		docs = append(docs, r.planningDocToEntity(&models[i]))
	}
	return docs, nil
}

// FindLatestPlanningDocument returns the most recent planning document of
// the given type, or nil when none exists.
func (r *GormDocumentRepository) FindLatestPlanningDocument(ctx context.Context, scenarioID string, docType strategy.PlanningDocType) (*strategy.PlanningDocument, error) {
	var model PlanningDocumentModel
	result := r.db.WithContext(ctx).Preload("Priorities").
		Where("scenario_id = ? AND doc_type = ?", scenarioID, string(docType)).
		Order("created_at DESC").
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find planning document: %w", result.Error)
	}
	return r.planningDocToEntity(&model), nil
}

// AddPriorityEntry appends a ranked effect to an existing planning
// document. The game master uses this for BDA re-strike nominations.
func (r *GormDocumentRepository) AddPriorityEntry(ctx context.Context, entry *strategy.PriorityEntry) error {
	model := &PriorityEntryModel{
		ID:                 entry.ID,
		DocumentID:         entry.DocumentID,
		Rank:               entry.Rank,
		Effect:             entry.Effect,
		Description:        entry.Description,
		StrategyPriorityID: entry.StrategyPriorityID,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add priority entry: %w", err)
	}
	return nil
}

// DeleteStrategyDocuments removes strategy documents for a scenario. With
// tiers given only those tiers go; with none the whole cascade goes.
func (r *GormDocumentRepository) DeleteStrategyDocuments(ctx context.Context, scenarioID string, tiers ...int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx.Model(&StrategyDocumentModel{}).Select("id").Where("scenario_id = ?", scenarioID)
		del := tx.Where("scenario_id = ?", scenarioID)
		if len(tiers) > 0 {
			scope = scope.Where("tier IN ?", tiers)
			del = del.Where("tier IN ?", tiers)
		}
		if err := tx.Where("document_id IN (?)", scope).Delete(&StrategyPriorityModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete strategy priorities: %w", err)
		}
		if err := del.Delete(&StrategyDocumentModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete strategy documents: %w", err)
		}
		return nil
	})
}

// DeletePlanningDocuments removes planning documents of the given types
// for a scenario, with their priority entries.
func (r *GormDocumentRepository) DeletePlanningDocuments(ctx context.Context, scenarioID string, docTypes ...strategy.PlanningDocType) error {
	types := make([]string, 0, len(docTypes))
	for _, t := range docTypes {
		types = append(types, string(t))
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id IN (?)",
			tx.Model(&PlanningDocumentModel{}).Select("id").
				Where("scenario_id = ? AND doc_type IN ?", scenarioID, types),
		).Delete(&PriorityEntryModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete priority entries: %w", err)
		}
		if err := tx.Where("scenario_id = ? AND doc_type IN ?", scenarioID, types).
			Delete(&PlanningDocumentModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete planning documents: %w", err)
		}
		return nil
	})
}

// DeleteByScenario removes all strategy and planning documents for a
// scenario. The generator calls this before re-running a step so
// generation stays idempotent.
func (r *GormDocumentRepository) DeleteByScenario(ctx context.Context, scenarioID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id IN (?)",
			tx.Model(&StrategyDocumentModel{}).Select("id").Where("scenario_id = ?", scenarioID),
		).Delete(&StrategyPriorityModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete strategy priorities: %w", err)
		}
		if err := tx.Where("scenario_id = ?", scenarioID).Delete(&StrategyDocumentModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete strategy documents: %w", err)
		}
		if err := tx.Where("document_id IN (?)",
			tx.Model(&PlanningDocumentModel{}).Select("id").Where("scenario_id = ?", scenarioID),
		).Delete(&PriorityEntryModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete priority entries: %w", err)
		}
		if err := tx.Where("scenario_id = ?", scenarioID).Delete(&PlanningDocumentModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete planning documents: %w", err)
		}
		return nil
	})
}

func (r *GormDocumentRepository) strategyDocToEntity(model *StrategyDocumentModel) *strategy.StrategyDocument {
	doc := &strategy.StrategyDocument{
		ID:               model.ID,
		ScenarioID:       model.ScenarioID,
		DocType:          strategy.StrategyDocType(model.DocType),
		Tier:             model.Tier,
		ParentDocID:      model.ParentDocID,
		Title:            model.Title,
		IssuingAuthority: model.IssuingAuthority,
		AuthorityLevel:   model.AuthorityLevel,
		Content:          model.Content,
		EffectiveDate:    model.EffectiveDate,
	}
	for i := range model.Priorities {
		p := &model.Priorities[i]
		doc.Priorities = append(doc.Priorities, &strategy.StrategyPriority{
			ID:          p.ID,
			DocumentID:  p.DocumentID,
			Rank:        p.Rank,
			Objective:   p.Objective,
			Description: p.Description,
		})
	}
	return doc
}

func (r *GormDocumentRepository) strategyDocToModel(doc *strategy.StrategyDocument) *StrategyDocumentModel {
	return &StrategyDocumentModel{
		ID:               doc.ID,
		ScenarioID:       doc.ScenarioID,
		DocType:          string(doc.DocType),
		Tier:             doc.Tier,
		ParentDocID:      doc.ParentDocID,
		Title:            doc.Title,
		IssuingAuthority: doc.IssuingAuthority,
		AuthorityLevel:   doc.AuthorityLevel,
		Content:          doc.Content,
		EffectiveDate:    doc.EffectiveDate,
	}
}

func (r *GormDocumentRepository) planningDocToEntity(model *PlanningDocumentModel) *strategy.PlanningDocument {
	doc := &strategy.PlanningDocument{
		ID:               model.ID,
		ScenarioID:       model.ScenarioID,
		DocType:          strategy.PlanningDocType(model.DocType),
		StrategyDocID:    model.StrategyDocID,
		Title:            model.Title,
		IssuingAuthority: model.IssuingAuthority,
		Content:          model.Content,
		EffectiveDate:    model.EffectiveDate,
	}
	for i := range model.Priorities {
		p := &model.Priorities[i]
		doc.Priorities = append(doc.Priorities, &strategy.PriorityEntry{
			ID:                 p.ID,
			DocumentID:         p.DocumentID,
			Rank:               p.Rank,
			Effect:             p.Effect,
			Description:        p.Description,
			StrategyPriorityID: p.StrategyPriorityID,
		})
	}
	return doc
}

func (r *GormDocumentRepository) planningDocToModel(doc *strategy.PlanningDocument) *PlanningDocumentModel {
	return &PlanningDocumentModel{
		ID:               doc.ID,
		ScenarioID:       doc.ScenarioID,
		DocType:          string(doc.DocType),
		StrategyDocID:    doc.StrategyDocID,
		Title:            doc.Title,
		IssuingAuthority: doc.IssuingAuthority,
		Content:          doc.Content,
		EffectiveDate:    doc.EffectiveDate,
	}
}
