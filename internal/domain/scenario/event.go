package scenario

import "time"

// EventType names a time-stamped simulation fact.
type EventType string

const (
	EventSatelliteDestroyed EventType = "SATELLITE_DESTROYED"
	EventSatelliteJammed    EventType = "SATELLITE_JAMMED"
	EventSatelliteDegraded  EventType = "SATELLITE_DEGRADED"
	EventMissionDelayed     EventType = "MISSION_DELAYED"
	EventMissionLost        EventType = "MISSION_LOST"
	EventBDARecorded        EventType = "BDA_RECORDED"
	EventDecisionRequired   EventType = "DECISION_REQUIRED"
	EventInjectFired        EventType = "INJECT_FIRED"
)

// SimEvent is an append-only fact about the simulated world. Seek replays
// these in chronological order to rederive asset statuses.
type SimEvent struct {
	ID          string
	ScenarioID  string
	EventType   EventType
	EventTime   time.Time
	Title       string
	Description string
	// SubjectID references the affected entity (asset or mission).
	SubjectID string
	// Payload carries event-specific JSON (decision options, BDA detail).
	Payload string
}
