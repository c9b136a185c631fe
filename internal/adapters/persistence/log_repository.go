package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/wargame-go/internal/application/ingest"
	"github.com/andrescamacho/wargame-go/internal/application/llm"
)

// GormGenerationLogRepository implements llm.AttemptLogger over the
// generation_logs table.
type GormGenerationLogRepository struct {
	db *gorm.DB
}

// NewGormGenerationLogRepository creates a new GORM generation log
// repository.
func NewGormGenerationLogRepository(db *gorm.DB) *GormGenerationLogRepository {
	return &GormGenerationLogRepository{db: db}
}

// LogAttempt appends one audit row.
func (r *GormGenerationLogRepository) LogAttempt(ctx context.Context, entry *llm.AttemptLog) error {
	model := &GenerationLogModel{
		ScenarioID:   entry.ScenarioID,
		Step:         entry.Step,
		Artifact:     entry.Artifact,
		Attempt:      entry.Attempt,
		Status:       string(entry.Status),
		Model:        entry.Model,
		TokenBudget:  entry.TokenBudget,
		OutputLength: entry.OutputLength,
		PromptTokens: entry.PromptTokens,
		OutputTokens: entry.OutputTokens,
		DurationMs:   entry.DurationMs,
		Message:      entry.Message,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add generation log: %w", err)
	}
	return nil
}

// FindByScenario retrieves all audit rows for a scenario in insertion
// order.
func (r *GormGenerationLogRepository) FindByScenario(ctx context.Context, scenarioID string) ([]*llm.AttemptLog, error) {
	var models []GenerationLogModel
	result := r.db.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list generation logs: %w", result.Error)
	}

	logs := make([]*llm.AttemptLog, 0, len(models))
	for i := range models {
		m := &models[i]
		logs = append(logs, &llm.AttemptLog{
			ScenarioID:   m.ScenarioID,
			Step:         m.Step,
			Artifact:     m.Artifact,
			Attempt:      m.Attempt,
			Status:       llm.AttemptStatus(m.Status),
			Model:        m.Model,
			TokenBudget:  m.TokenBudget,
			OutputLength: m.OutputLength,
			PromptTokens: m.PromptTokens,
			OutputTokens: m.OutputTokens,
			DurationMs:   m.DurationMs,
			Message:      m.Message,
		})
	}
	return logs, nil
}

// GormIngestLogRepository persists ingest run records.
type GormIngestLogRepository struct {
	db *gorm.DB
}

// NewGormIngestLogRepository creates a new GORM ingest log repository.
func NewGormIngestLogRepository(db *gorm.DB) *GormIngestLogRepository {
	return &GormIngestLogRepository{db: db}
}

// Add appends one ingest record.
func (r *GormIngestLogRepository) Add(ctx context.Context, record *ingest.Record) error {
	model := &IngestLogModel{
		ID:              record.ID,
		ScenarioID:      record.ScenarioID,
		InputHash:       record.InputHash,
		HierarchyLevel:  record.HierarchyLevel,
		DocumentType:    record.DocumentType,
		SourceFormat:    record.SourceFormat,
		Confidence:      record.Confidence,
		Title:           record.Title,
		ParentLinkID:    record.ParentLinkID,
		CreatedCounts:   record.CreatedCounts,
		ReviewFlagCount: record.ReviewFlagCount,
		ParseTimeMs:     record.ParseTimeMs,
		Status:          record.Status,
		Error:           record.Error,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add ingest log: %w", err)
	}
	return nil
}

// FindByScenario retrieves ingest records for a scenario, newest first.
func (r *GormIngestLogRepository) FindByScenario(ctx context.Context, scenarioID string) ([]*ingest.Record, error) {
	var models []IngestLogModel
	result := r.db.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list ingest logs: %w", result.Error)
	}

	records := make([]*ingest.Record, 0, len(models))
	for i := range models {
		m := &models[i]
		records = append(records, &ingest.Record{
			ID:              m.ID,
			ScenarioID:      m.ScenarioID,
			InputHash:       m.InputHash,
			HierarchyLevel:  m.HierarchyLevel,
			DocumentType:    m.DocumentType,
			SourceFormat:    m.SourceFormat,
			Confidence:      m.Confidence,
			Title:           m.Title,
			ParentLinkID:    m.ParentLinkID,
			CreatedCounts:   m.CreatedCounts,
			ReviewFlagCount: m.ReviewFlagCount,
			ParseTimeMs:     m.ParseTimeMs,
			Status:          m.Status,
			Error:           m.Error,
		})
	}
	return records, nil
}
