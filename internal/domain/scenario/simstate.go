package scenario

import "time"

// SimStatus is the run state of a scenario's simulation.
type SimStatus string

const (
	SimRunning SimStatus = "RUNNING"
	SimPaused  SimStatus = "PAUSED"
	SimStopped SimStatus = "STOPPED"
)

// SimulationState is the mutable clock state of one scenario's simulation.
// Exactly one per scenario, overwritten per tick; at most one RUNNING
// simulation exists process-wide.
type SimulationState struct {
	ID               string
	ScenarioID       string
	Status           SimStatus
	SimTime          time.Time
	RealStartTime    time.Time
	CompressionRatio float64
	CurrentATODay    int
}

// AdvanceSimTime moves the synthetic clock forward by one wall-clock tick
// scaled by the compression ratio.
func (s *SimulationState) AdvanceSimTime(tickInterval time.Duration) {
	s.SimTime = s.SimTime.Add(time.Duration(float64(tickInterval) * s.CompressionRatio))
}
