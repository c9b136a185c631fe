package scenario

import "time"

// InjectType classifies an MSEL inject.
type InjectType string

const (
	InjectFriction      InjectType = "FRICTION"
	InjectIntel         InjectType = "INTEL"
	InjectCrisis        InjectType = "CRISIS"
	InjectSpace         InjectType = "SPACE"
	InjectInformation   InjectType = "INFORMATION"
	InjectAction        InjectType = "ACTION"
	InjectDecisionPoint InjectType = "DECISION_POINT"
	InjectContingency   InjectType = "CONTINGENCY"
)

// Inject is one scheduled MSEL event. TriggerDay is relative to scenario
// start (1-based); TriggerHour is UTC.
type Inject struct {
	ID          string
	ScenarioID  string
	TriggerDay  int
	TriggerHour int
	InjectType  InjectType
	Title       string
	Description string
	Impact      string
	Fired       bool
	FiredAt     *time.Time
}

// ShouldFire reports whether the inject is due at the given ATO day and
// sim-time hour (UTC).
func (i *Inject) ShouldFire(currentATODay, simHourUTC int) bool {
	if i.Fired {
		return false
	}
	return i.TriggerDay < currentATODay ||
		(i.TriggerDay == currentATODay && i.TriggerHour <= simHourUTC)
}
