package scenario

import "time"

// GenerationStatus tracks scenario generation progress.
type GenerationStatus string

const (
	GenerationNotStarted GenerationStatus = "NOT_STARTED"
	GenerationRunning    GenerationStatus = "GENERATING"
	GenerationComplete   GenerationStatus = "COMPLETE"
	GenerationFailed     GenerationStatus = "FAILED"
)

// Scenario is the root aggregate. Every other entity is scenario-scoped
// and cascades on delete.
type Scenario struct {
	ID                 string
	Name               string
	Theater            string
	Adversary          string
	Description        string
	StartDate          time.Time
	EndDate            time.Time
	GenerationStatus   GenerationStatus
	GenerationStep     string
	GenerationProgress int
	GenerationError    string
	CreatedAt          time.Time
}

// DurationDays returns the scenario length in whole ATO days.
func (s *Scenario) DurationDays() int {
	d := int(s.EndDate.Sub(s.StartDate).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

// ClampToBounds pins t into [StartDate, EndDate].
func (s *Scenario) ClampToBounds(t time.Time) time.Time {
	if t.Before(s.StartDate) {
		return s.StartDate
	}
	if t.After(s.EndDate) {
		return s.EndDate
	}
	return t
}

// ATODayFor returns the 1-based ATO day containing t.
func (s *Scenario) ATODayFor(t time.Time) int {
	day := int(t.Sub(s.StartDate).Hours()/24) + 1
	if day < 1 {
		return 1
	}
	return day
}
