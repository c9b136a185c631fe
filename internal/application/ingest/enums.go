package ingest

import (
	"strings"

	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
)

// Enum coercion is total: every input string maps to a valid enum value.
// Exact lookup first, then a substring fuzzy fallback, then a safe
// default with a review flag so a human can audit what the model emitted.

var waypointTypeLookup = map[string]mission.WaypointType{
	"DEP": mission.WaypointDEP, "DEPARTURE": mission.WaypointDEP,
	"IP": mission.WaypointIP, "INITIAL POINT": mission.WaypointIP,
	"CP": mission.WaypointCP, "CONTROL POINT": mission.WaypointCP,
	"TGT": mission.WaypointTGT, "TARGET": mission.WaypointTGT,
	"EGR": mission.WaypointEGR, "EGRESS": mission.WaypointEGR,
	"REC": mission.WaypointREC, "RECOVERY": mission.WaypointREC,
	"ORBIT": mission.WaypointORBIT,
	"REFUEL": mission.WaypointREFUEL, "AAR": mission.WaypointREFUEL,
	"CAP":    mission.WaypointCAP,
	"PATROL": mission.WaypointPATROL,
}

var windowTypeLookup = map[string]mission.WindowType{
	"TOT":   mission.WindowTOT,
	"ONSTA": mission.WindowONSTA, "ON-STATION": mission.WindowONSTA, "ON STATION": mission.WindowONSTA,
	"PUSH": mission.WindowPUSH,
	"VUL":  mission.WindowVUL, "VULNERABILITY": mission.WindowVUL,
}

var supportTypeLookup = map[string]mission.SupportType{
	"TANKER": mission.SupportTanker,
	"ISR":    mission.SupportISR,
	"SEAD":   mission.SupportSEAD,
	"ESCORT": mission.SupportEscort,
	"AEW":    mission.SupportAEW, "AWACS": mission.SupportAEW,
	"CSAR": mission.SupportCSAR,
	"EW":   mission.SupportEW,
}

var criticalityLookup = map[string]space.MissionCriticality{
	"CRITICAL":  space.CriticalityCritical,
	"ESSENTIAL": space.CriticalityEssential,
	"ENHANCING": space.CriticalityEnhancing,
	"ROUTINE":   space.CriticalityRoutine,
}

func normKey(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NormalizeWaypointType coerces a raw string to a waypoint type. The
// second return is false when the safe default was used.
func NormalizeWaypointType(raw string) (mission.WaypointType, bool) {
	key := normKey(raw)
	if v, ok := waypointTypeLookup[key]; ok {
		return v, true
	}
	switch {
	case strings.Contains(key, "TARGET") || strings.Contains(key, "TGT"):
		return mission.WaypointTGT, true
	case strings.Contains(key, "DEPART") || strings.Contains(key, "TAKEOFF"):
		return mission.WaypointDEP, true
	case strings.Contains(key, "RECOV") || strings.Contains(key, "LAND"):
		return mission.WaypointREC, true
	case strings.Contains(key, "REFUEL") || strings.Contains(key, "TANK") || strings.Contains(key, "AAR"):
		return mission.WaypointREFUEL, true
	case strings.Contains(key, "EGRESS"):
		return mission.WaypointEGR, true
	case strings.Contains(key, "ORBIT") || strings.Contains(key, "HOLD"):
		return mission.WaypointORBIT, true
	case strings.Contains(key, "PATROL"):
		return mission.WaypointPATROL, true
	case strings.Contains(key, "CAP"):
		return mission.WaypointCAP, true
	}
	return mission.WaypointCP, false
}

// NormalizeWindowType coerces a raw string to a window type.
func NormalizeWindowType(raw string) (mission.WindowType, bool) {
	key := normKey(raw)
	if v, ok := windowTypeLookup[key]; ok {
		return v, true
	}
	switch {
	case strings.Contains(key, "STATION") || strings.Contains(key, "ORBIT") || strings.Contains(key, "ONSTA"):
		return mission.WindowONSTA, true
	case strings.Contains(key, "PUSH"):
		return mission.WindowPUSH, true
	case strings.Contains(key, "VUL"):
		return mission.WindowVUL, true
	case strings.Contains(key, "TOT") || strings.Contains(key, "TARGET"):
		return mission.WindowTOT, true
	}
	return mission.WindowTOT, false
}

// NormalizeSupportType coerces a raw string to a support type.
func NormalizeSupportType(raw string) (mission.SupportType, bool) {
	key := normKey(raw)
	if v, ok := supportTypeLookup[key]; ok {
		return v, true
	}
	switch {
	case strings.Contains(key, "TANK") || strings.Contains(key, "REFUEL") || strings.Contains(key, "AAR"):
		return mission.SupportTanker, true
	case strings.Contains(key, "SEAD") || strings.Contains(key, "SUPPRESS"):
		return mission.SupportSEAD, true
	case strings.Contains(key, "SSURV") || strings.Contains(key, "RECON") || strings.Contains(key, "ISR"):
		return mission.SupportISR, true
	case strings.Contains(key, "ESCORT"):
		return mission.SupportEscort, true
	case strings.Contains(key, "AEW") || strings.Contains(key, "AWACS") || strings.Contains(key, "EARLY WARN"):
		return mission.SupportAEW, true
	case strings.Contains(key, "CSAR") || strings.Contains(key, "RESCUE"):
		return mission.SupportCSAR, true
	case strings.Contains(key, "JAM") || strings.Contains(key, "ELECTRONIC"):
		return mission.SupportEW, true
	}
	return mission.SupportISR, false
}

// NormalizeCapability coerces a raw string to a capability type.
func NormalizeCapability(raw string) (space.CapabilityType, bool) {
	key := normKey(raw)
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	if space.IsValidCapability(key) {
		return space.CapabilityType(key), true
	}
	switch {
	case strings.Contains(key, "GPS_M") || strings.Contains(key, "MILITARY_GPS") || strings.Contains(key, "M_CODE"):
		return space.CapabilityGPSMilitary, true
	case strings.Contains(key, "GPS") || strings.Contains(key, "PNT") || strings.Contains(key, "NAVIGATION"):
		return space.CapabilityGPS, true
	case strings.Contains(key, "PROTECTED"):
		return space.CapabilitySATCOMProtected, true
	case strings.Contains(key, "WIDEBAND"):
		return space.CapabilitySATCOMWideband, true
	case strings.Contains(key, "NARROWBAND"):
		return space.CapabilitySATCOMNarrow, true
	case strings.Contains(key, "SATCOM") || strings.Contains(key, "COMM"):
		return space.CapabilitySATCOM, true
	case strings.Contains(key, "OPIR") || strings.Contains(key, "INFRARED") || strings.Contains(key, "MISSILE_WARN"):
		return space.CapabilityOPIR, true
	case strings.Contains(key, "SIGINT"):
		return space.CapabilitySIGINTSpace, true
	case strings.Contains(key, "ISR") || strings.Contains(key, "IMAGERY") || strings.Contains(key, "RECON"):
		return space.CapabilityISRSpace, true
	case strings.Contains(key, "WEATHER") || strings.Contains(key, "METEO"):
		return space.CapabilityWeatherSpace, true
	case strings.Contains(key, "LINK16") || strings.Contains(key, "LINK_16") || strings.Contains(key, "DATALINK"):
		return space.CapabilityLink16, true
	case strings.Contains(key, "CYBER"):
		return space.CapabilityCyberSpace, true
	case strings.Contains(key, "SSA") || strings.Contains(key, "DOMAIN_AWARE"):
		return space.CapabilitySSA, true
	case strings.Contains(key, "NAVWAR"):
		return space.CapabilityNavwar, true
	case strings.Contains(key, "TT&C") || strings.Contains(key, "TTC") || strings.Contains(key, "TELEMETRY"):
		return space.CapabilityTTC, true
	case strings.Contains(key, "EW") || strings.Contains(key, "JAM"):
		return space.CapabilityEWSpace, true
	case strings.Contains(key, "CONTROL"):
		return space.CapabilitySpaceControl, true
	}
	return space.CapabilityGPS, false
}

// NormalizeCriticality coerces a raw string to a mission criticality.
func NormalizeCriticality(raw string) (space.MissionCriticality, bool) {
	key := normKey(raw)
	if v, ok := criticalityLookup[key]; ok {
		return v, true
	}
	switch {
	case strings.Contains(key, "CRIT"):
		return space.CriticalityCritical, true
	case strings.Contains(key, "ESSEN"):
		return space.CriticalityEssential, true
	case strings.Contains(key, "ENHANC"):
		return space.CriticalityEnhancing, true
	}
	return space.CriticalityRoutine, false
}
