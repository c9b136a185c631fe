package broadcast

import (
	"github.com/andrescamacho/wargame-go/internal/application/llm"
)

// Event names delivered to scenario rooms. Payload shapes are fixed by
// the client contract.
const (
	EventSimulationTick     = "simulation:tick"
	EventMissionStatus      = "mission:status"
	EventPositionUpdate     = "position:update"
	EventSpaceCoverage      = "space:coverage"
	EventGapDetected        = "gap:detected"
	EventGapResolved        = "gap:resolved"
	EventDecisionRequired   = "decision:required"
	EventInjectFired        = "inject:fired"
	EventOrderPublished     = "order:published"
	EventGenerationProgress = "scenario:generation-progress"
	EventArtifactResult     = "scenario:artifact-result"
	EventIngestStarted      = "ingest:started"
	EventIngestClassified   = "ingest:classified"
	EventIngestNormalized   = "ingest:normalized"
	EventIngestComplete     = "ingest:complete"
	EventIngestError        = "ingest:error"
	EventGMATOComplete      = "gamemaster:ato-complete"
	EventGMBDAComplete      = "gamemaster:bda-complete"
	EventGMMAAPComplete     = "gamemaster:maap-complete"
	EventGMInject           = "gamemaster:inject"
	EventGMError            = "gamemaster:error"
)

// Publisher is the typed facade the application layer broadcasts through.
// All deliveries are best-effort.
type Publisher struct {
	hub *Hub
}

// NewPublisher wraps a hub.
func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

// Publish emits a named event to the scenario's room.
func (p *Publisher) Publish(scenarioID, event string, payload interface{}) {
	p.hub.Publish(RoomForScenario(scenarioID), event, payload)
}

// BroadcastArtifactResult implements llm.ResultBroadcaster.
func (p *Publisher) BroadcastArtifactResult(scenarioID string, result llm.ArtifactResult) {
	p.Publish(scenarioID, EventArtifactResult, result)
}
