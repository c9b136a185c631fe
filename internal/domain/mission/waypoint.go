package mission

import "time"

// WaypointType classifies a route point.
type WaypointType string

const (
	WaypointDEP    WaypointType = "DEP"
	WaypointIP     WaypointType = "IP"
	WaypointCP     WaypointType = "CP"
	WaypointTGT    WaypointType = "TGT"
	WaypointEGR    WaypointType = "EGR"
	WaypointREC    WaypointType = "REC"
	WaypointORBIT  WaypointType = "ORBIT"
	WaypointREFUEL WaypointType = "REFUEL"
	WaypointCAP    WaypointType = "CAP"
	WaypointPATROL WaypointType = "PATROL"
)

// Waypoint is one ordered point on a mission route. Sequence is unique
// and dense per mission.
type Waypoint struct {
	ID           string
	MissionID    string
	Sequence     int
	WaypointType WaypointType
	Lat          float64
	Lon          float64
	AltitudeFt   *float64
	SpeedKts     *float64
}

// WindowType classifies a mission time window.
type WindowType string

const (
	WindowTOT   WindowType = "TOT"
	WindowONSTA WindowType = "ONSTA"
	WindowPUSH  WindowType = "PUSH"
	WindowVUL   WindowType = "VUL"
)

// TimeWindow is a bounded interval attached to a mission; at most one is
// the TOT window driving the state machine.
type TimeWindow struct {
	ID         string
	MissionID  string
	WindowType WindowType
	StartTime  time.Time
	EndTime    time.Time
}

// Target is a mission objective point.
type Target struct {
	ID          string
	MissionID   string
	TargetName  string
	TargetType  string
	Lat         float64
	Lon         float64
	Description string
}

// SupportType classifies a mission support requirement.
type SupportType string

const (
	SupportTanker SupportType = "TANKER"
	SupportISR    SupportType = "ISR"
	SupportSEAD   SupportType = "SEAD"
	SupportEscort SupportType = "ESCORT"
	SupportAEW    SupportType = "AEW"
	SupportCSAR   SupportType = "CSAR"
	SupportEW     SupportType = "EW"
)

// SupportRequirement links a mission to a supporting capability.
type SupportRequirement struct {
	ID          string
	MissionID   string
	SupportType SupportType
	Description string
}
