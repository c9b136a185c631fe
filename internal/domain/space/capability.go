package space

// CapabilityType identifies a space-delivered capability that a mission
// can depend on and a satellite can provide.
type CapabilityType string

const (
	CapabilityGPS             CapabilityType = "GPS"
	CapabilityGPSMilitary     CapabilityType = "GPS_MILITARY"
	CapabilitySATCOM          CapabilityType = "SATCOM"
	CapabilitySATCOMWideband  CapabilityType = "SATCOM_WIDEBAND"
	CapabilitySATCOMNarrow    CapabilityType = "SATCOM_NARROWBAND"
	CapabilitySATCOMProtected CapabilityType = "SATCOM_PROTECTED"
	CapabilityOPIR            CapabilityType = "OPIR"
	CapabilityISRSpace        CapabilityType = "ISR_SPACE"
	CapabilitySIGINTSpace     CapabilityType = "SIGINT_SPACE"
	CapabilityWeatherSpace    CapabilityType = "WEATHER_SPACE"
	CapabilityLink16          CapabilityType = "LINK16"
	CapabilityCyberSpace      CapabilityType = "CYBER_SPACE"
	CapabilitySpaceControl    CapabilityType = "SPACE_CONTROL"
	CapabilitySSA             CapabilityType = "SSA"
	CapabilityMissileWarning  CapabilityType = "MISSILE_WARNING"
	CapabilityNavwar          CapabilityType = "NAVWAR"
	CapabilityTTC             CapabilityType = "TT_C"
	CapabilityEWSpace         CapabilityType = "EW_SPACE"
)

// AllCapabilities lists every valid capability type, in catalog order.
var AllCapabilities = []CapabilityType{
	CapabilityGPS, CapabilityGPSMilitary,
	CapabilitySATCOM, CapabilitySATCOMWideband, CapabilitySATCOMNarrow, CapabilitySATCOMProtected,
	CapabilityOPIR, CapabilityISRSpace, CapabilitySIGINTSpace, CapabilityWeatherSpace,
	CapabilityLink16, CapabilityCyberSpace, CapabilitySpaceControl, CapabilitySSA,
	CapabilityMissileWarning, CapabilityNavwar, CapabilityTTC, CapabilityEWSpace,
}

// minElevationDeg is the minimum elevation angle at which each capability
// is considered usable from the ground. Values fixed by design.
var minElevationDeg = map[CapabilityType]float64{
	CapabilityGPS:             5,
	CapabilityGPSMilitary:     5,
	CapabilitySATCOM:          5,
	CapabilitySATCOMWideband:  5,
	CapabilitySATCOMNarrow:    5,
	CapabilitySATCOMProtected: 10,
	CapabilityOPIR:            10,
	CapabilityISRSpace:        20,
	CapabilitySIGINTSpace:     15,
	CapabilityWeatherSpace:    10,
	CapabilityLink16:          0,
	CapabilityCyberSpace:      0,
	CapabilitySpaceControl:    10,
	CapabilitySSA:             10,
	CapabilityMissileWarning:  10,
	CapabilityNavwar:          5,
	CapabilityTTC:             5,
	CapabilityEWSpace:         10,
}

// defaultMinElevationDeg applies to any capability missing from the table.
const defaultMinElevationDeg = 10.0

// MinElevationDeg returns the minimum usable elevation for a capability.
func MinElevationDeg(capability CapabilityType) float64 {
	if deg, ok := minElevationDeg[capability]; ok {
		return deg
	}
	return defaultMinElevationDeg
}

// IsValidCapability reports whether s names a known capability type.
func IsValidCapability(s string) bool {
	_, ok := minElevationDeg[CapabilityType(s)]
	return ok
}

// MissionCriticality is the importance tier of a space need.
type MissionCriticality string

const (
	CriticalityCritical  MissionCriticality = "CRITICAL"
	CriticalityEssential MissionCriticality = "ESSENTIAL"
	CriticalityEnhancing MissionCriticality = "ENHANCING"
	CriticalityRoutine   MissionCriticality = "ROUTINE"
)

// criticalityRank orders criticalities for contention resolution;
// lower ranks win.
var criticalityRank = map[MissionCriticality]int{
	CriticalityCritical:  0,
	CriticalityEssential: 1,
	CriticalityEnhancing: 2,
	CriticalityRoutine:   3,
}

// Rank returns the resolution ordering for a criticality. Unknown values
// sort last.
func (c MissionCriticality) Rank() int {
	if r, ok := criticalityRank[c]; ok {
		return r
	}
	return len(criticalityRank)
}
