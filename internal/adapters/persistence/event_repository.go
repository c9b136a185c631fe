package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
)

// GormEventRepository persists MSEL injects and the append-only
// simulation event log.
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GORM event repository.
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// AddInject persists an MSEL inject.
func (r *GormEventRepository) AddInject(ctx context.Context, inject *scenario.Inject) error {
	if err := r.db.WithContext(ctx).Create(injectToModel(inject)).Error; err != nil {
		return fmt.Errorf("failed to add inject: %w", err)
	}
	return nil
}

// DeleteInjectsByScenario removes every inject for a scenario. The
// generator calls this before re-writing the MSEL.
func (r *GormEventRepository) DeleteInjectsByScenario(ctx context.Context, scenarioID string) error {
	if err := r.db.WithContext(ctx).Where("scenario_id = ?", scenarioID).Delete(&ScenarioInjectModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete injects: %w", err)
	}
	return nil
}

// FindUnfiredInjects retrieves injects that have not fired yet, ordered by
// trigger day then hour.
func (r *GormEventRepository) FindUnfiredInjects(ctx context.Context, scenarioID string) ([]*scenario.Inject, error) {
	var models []ScenarioInjectModel
	result := r.db.WithContext(ctx).
		Where("scenario_id = ? AND fired = ?", scenarioID, false).
		Order("trigger_day ASC, trigger_hour ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list unfired injects: %w", result.Error)
	}

	injects := make([]*scenario.Inject, 0, len(models))
	for i := range models {
		injects = append(injects, injectToEntity(&models[i]))
	}
	return injects, nil
}

// FindInjects retrieves all injects for a scenario.
func (r *GormEventRepository) FindInjects(ctx context.Context, scenarioID string) ([]*scenario.Inject, error) {
	var models []ScenarioInjectModel
	result := r.db.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("trigger_day ASC, trigger_hour ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list injects: %w", result.Error)
	}

	injects := make([]*scenario.Inject, 0, len(models))
	for i := range models {
		injects = append(injects, injectToEntity(&models[i]))
	}
	return injects, nil
}

// MarkInjectFired records that an inject fired at the given sim time.
func (r *GormEventRepository) MarkInjectFired(ctx context.Context, id string, firedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&ScenarioInjectModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"fired": true, "fired_at": firedAt})
	if result.Error != nil {
		return fmt.Errorf("failed to mark inject fired: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("inject", id)
	}
	return nil
}

// ResetInjectsAfter clears the fired flag on injects scheduled after the
// given ATO day and hour. Seeking backward re-arms them.
func (r *GormEventRepository) ResetInjectsAfter(ctx context.Context, scenarioID string, atoDay, hourUTC int) error {
	result := r.db.WithContext(ctx).Model(&ScenarioInjectModel{}).
		Where("scenario_id = ?", scenarioID).
		Where("trigger_day > ? OR (trigger_day = ? AND trigger_hour > ?)", atoDay, atoDay, hourUTC).
		Updates(map[string]interface{}{"fired": false, "fired_at": nil})
	if result.Error != nil {
		return fmt.Errorf("failed to reset injects: %w", result.Error)
	}
	return nil
}

// AddEvent appends a simulation event.
func (r *GormEventRepository) AddEvent(ctx context.Context, event *scenario.SimEvent) error {
	if err := r.db.WithContext(ctx).Create(eventToModel(event)).Error; err != nil {
		return fmt.Errorf("failed to add sim event: %w", err)
	}
	return nil
}

// FindEventsUpTo retrieves events with event_time <= t in chronological
// order. Seek replays these to rederive world state.
func (r *GormEventRepository) FindEventsUpTo(ctx context.Context, scenarioID string, t time.Time) ([]*scenario.SimEvent, error) {
	var models []SimEventModel
	result := r.db.WithContext(ctx).
		Where("scenario_id = ? AND event_time <= ?", scenarioID, t).
		Order("event_time ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list events: %w", result.Error)
	}

	events := make([]*scenario.SimEvent, 0, len(models))
	for i := range models {
		events = append(events, eventToEntity(&models[i]))
	}
	return events, nil
}

// FindEvents retrieves the scenario's full event log, newest first,
// capped at limit (0 means no cap).
func (r *GormEventRepository) FindEvents(ctx context.Context, scenarioID string, limit int) ([]*scenario.SimEvent, error) {
	q := r.db.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("event_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []SimEventModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]*scenario.SimEvent, 0, len(models))
	for i := range models {
		events = append(events, eventToEntity(&models[i]))
	}
	return events, nil
}

func injectToModel(i *scenario.Inject) *ScenarioInjectModel {
	return &ScenarioInjectModel{
		ID:          i.ID,
		ScenarioID:  i.ScenarioID,
		TriggerDay:  i.TriggerDay,
		TriggerHour: i.TriggerHour,
		InjectType:  string(i.InjectType),
		Title:       i.Title,
		Description: i.Description,
		Impact:      i.Impact,
		Fired:       i.Fired,
		FiredAt:     i.FiredAt,
	}
}

func injectToEntity(m *ScenarioInjectModel) *scenario.Inject {
	return &scenario.Inject{
		ID:          m.ID,
		ScenarioID:  m.ScenarioID,
		TriggerDay:  m.TriggerDay,
		TriggerHour: m.TriggerHour,
		InjectType:  scenario.InjectType(m.InjectType),
		Title:       m.Title,
		Description: m.Description,
		Impact:      m.Impact,
		Fired:       m.Fired,
		FiredAt:     m.FiredAt,
	}
}

func eventToModel(e *scenario.SimEvent) *SimEventModel {
	return &SimEventModel{
		ID:          e.ID,
		ScenarioID:  e.ScenarioID,
		EventType:   string(e.EventType),
		EventTime:   e.EventTime,
		Title:       e.Title,
		Description: e.Description,
		SubjectID:   e.SubjectID,
		Payload:     e.Payload,
	}
}

func eventToEntity(m *SimEventModel) *scenario.SimEvent {
	return &scenario.SimEvent{
		ID:          m.ID,
		ScenarioID:  m.ScenarioID,
		EventType:   scenario.EventType(m.EventType),
		EventTime:   m.EventTime,
		Title:       m.Title,
		Description: m.Description,
		SubjectID:   m.SubjectID,
		Payload:     m.Payload,
	}
}
