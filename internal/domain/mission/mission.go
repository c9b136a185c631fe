package mission

import (
	"time"

	"github.com/andrescamacho/wargame-go/internal/domain/shared"
)

// Domain is the operating domain of a mission.
type Domain string

const (
	DomainAir      Domain = "AIR"
	DomainMaritime Domain = "MARITIME"
	DomainSpace    Domain = "SPACE"
	DomainLand     Domain = "LAND"
)

// Affiliation marks which side a mission belongs to.
type Affiliation string

const (
	AffiliationFriendly Affiliation = "FRIENDLY"
	AffiliationHostile  Affiliation = "HOSTILE"
)

// Status is a mission's position in its lifecycle state machine.
type Status string

const (
	StatusPlanned   Status = "PLANNED"
	StatusBriefed   Status = "BRIEFED"
	StatusLaunched  Status = "LAUNCHED"
	StatusAirborne  Status = "AIRBORNE"
	StatusOnStation Status = "ON_STATION"
	StatusEngaged   Status = "ENGAGED"
	StatusEgressing Status = "EGRESSING"
	StatusRTB       Status = "RTB"
	StatusRecovered Status = "RECOVERED"

	// Terminal off-ramp states.
	StatusDelayed Status = "DELAYED"
	StatusLost    Status = "LOST"
)

// transition is one row of the TOT-relative progression table.
type transition struct {
	from       Status
	to         Status
	deltaHours float64 // minimum (simTime - TOT) in hours
}

// transitionTable drives the TOT-relative mission progression. Each tick
// advances at most one row, so no transition ever skips a state.
var transitionTable = []transition{
	{StatusPlanned, StatusBriefed, -4},
	{StatusBriefed, StatusLaunched, -2},
	{StatusLaunched, StatusAirborne, -1.5},
	{StatusAirborne, StatusOnStation, -0.5},
	{StatusOnStation, StatusEngaged, 0},
	{StatusEngaged, StatusEgressing, 0.25},
	{StatusEgressing, StatusRTB, 1},
	{StatusRTB, StatusRecovered, 3},
}

// IsTerminal reports whether no further progression can occur.
func (s Status) IsTerminal() bool {
	return s == StatusRecovered || s == StatusDelayed || s == StatusLost
}

// IsActive reports whether the mission is between launch and recovery.
func (s Status) IsActive() bool {
	switch s {
	case StatusLaunched, StatusAirborne, StatusOnStation, StatusEngaged, StatusEgressing, StatusRTB:
		return true
	}
	return false
}

// Mission is a single tasked sortie under a mission package.
type Mission struct {
	ID            string
	PackageID     string
	MissionID     string
	Callsign      string
	Domain        Domain
	PlatformType  string
	PlatformCount int
	MissionType   string
	Status        Status
	Affiliation   Affiliation

	Waypoints   []*Waypoint
	TimeWindows []*TimeWindow
	Targets     []*Target
	SupportReqs []*SupportRequirement
}

// TOTWindow returns the mission's time-on-target window, or nil.
func (m *Mission) TOTWindow() *TimeWindow {
	for _, w := range m.TimeWindows {
		if w.WindowType == WindowTOT {
			return w
		}
	}
	return nil
}

// FirstWindow returns the earliest time window, or nil.
func (m *Mission) FirstWindow() *TimeWindow {
	var first *TimeWindow
	for _, w := range m.TimeWindows {
		if first == nil || w.StartTime.Before(first.StartTime) {
			first = w
		}
	}
	return first
}

// NextStatus evaluates the progression table against simTime. It returns
// the next status and true when a transition fires; missions without a
// TOT window, and missions in a terminal state, never advance.
func (m *Mission) NextStatus(simTime time.Time) (Status, bool) {
	if m.Status.IsTerminal() {
		return m.Status, false
	}
	tot := m.TOTWindow()
	if tot == nil {
		return m.Status, false
	}

	deltaHours := simTime.Sub(tot.StartTime).Hours()
	for _, row := range transitionTable {
		if row.from == m.Status && deltaHours >= row.deltaHours {
			return row.to, true
		}
	}
	return m.Status, false
}

// Advance applies NextStatus, mutating the mission. Returns true when the
// status changed.
func (m *Mission) Advance(simTime time.Time) bool {
	next, ok := m.NextStatus(simTime)
	if !ok {
		return false
	}
	m.Status = next
	return true
}

// TransitionTo forces a status change, validating it against the table
// plus the terminal off-ramps. The engine uses this for DELAYED and LOST.
func (m *Mission) TransitionTo(next Status) error {
	if next == StatusDelayed || next == StatusLost {
		if m.Status.IsTerminal() {
			return shared.NewInvalidTransitionError(string(m.Status), string(next))
		}
		m.Status = next
		return nil
	}
	for _, row := range transitionTable {
		if row.from == m.Status && row.to == next {
			m.Status = next
			return nil
		}
	}
	return shared.NewInvalidTransitionError(string(m.Status), string(next))
}

// ValidateWaypointSequence checks that ordered waypoints form a dense
// 1..N sequence.
func (m *Mission) ValidateWaypointSequence() error {
	seen := make(map[int]bool, len(m.Waypoints))
	for _, wp := range m.Waypoints {
		if wp.Sequence < 1 || wp.Sequence > len(m.Waypoints) || seen[wp.Sequence] {
			return shared.NewValidationError("waypoints", "sequence numbers must form a dense 1..N sequence")
		}
		seen[wp.Sequence] = true
	}
	return nil
}
