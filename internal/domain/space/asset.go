package space

import "time"

// AssetStatus is the operational status of a space asset.
type AssetStatus string

const (
	AssetOperational AssetStatus = "OPERATIONAL"
	AssetDegraded    AssetStatus = "DEGRADED"
	AssetLost        AssetStatus = "LOST"
)

// Affiliation marks which side an asset belongs to.
type Affiliation string

const (
	AffiliationFriendly Affiliation = "FRIENDLY"
	AffiliationHostile  Affiliation = "HOSTILE"
)

// SpaceAsset is a satellite participating in the scenario. Position comes
// from SGP4 when TLE lines are present, otherwise from the analytic
// approximation over the orbital elements.
type SpaceAsset struct {
	ID            string
	ScenarioID    string
	Name          string
	Constellation string
	Affiliation   Affiliation
	Capabilities  []CapabilityType
	Status        AssetStatus

	// TLE propagation inputs (optional)
	TLELine1 string
	TLELine2 string

	// Analytic fallback elements (used when TLE is absent)
	InclinationDeg float64
	PeriodMin      float64
	Eccentricity   float64
	BaseLon        float64

	SwathWidthKm float64
}

// HasTLE reports whether the asset carries a two-line element set.
func (a *SpaceAsset) HasTLE() bool {
	return a.TLELine1 != "" && a.TLELine2 != ""
}

// HasElements reports whether the analytic approximation can run.
func (a *SpaceAsset) HasElements() bool {
	return a.InclinationDeg != 0 || a.PeriodMin > 0
}

// Provides reports whether the asset carries the given capability.
func (a *SpaceAsset) Provides(capability CapabilityType) bool {
	for _, c := range a.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// SpaceNeed is a mission's requirement for a space capability over a
// time window.
type SpaceNeed struct {
	ID                 string
	MissionID          string
	CapabilityType     CapabilityType
	Priority           int
	StartTime          time.Time
	EndTime            time.Time
	CoverageLat        *float64
	CoverageLon        *float64
	FallbackCapability *CapabilityType
	MissionCriticality MissionCriticality
	Fulfilled          bool
}

// HasCoveragePoint reports whether the need is tied to a ground point.
func (n *SpaceNeed) HasCoveragePoint() bool {
	return n.CoverageLat != nil && n.CoverageLon != nil
}

// DurationMs returns the need window length in milliseconds.
func (n *SpaceNeed) DurationMs() int64 {
	return n.EndTime.Sub(n.StartTime).Milliseconds()
}

// CoverageWindow is a materialized AOS/LOS interval during which an asset
// delivers a capability over a ground point.
type CoverageWindow struct {
	ID              string
	ScenarioID      string
	AssetID         string
	AssetName       string
	Capability      CapabilityType
	StartTime       time.Time
	EndTime         time.Time
	MaxElevationDeg float64
	MaxElevationAt  time.Time
	CenterLat       float64
	CenterLon       float64
	SwathWidthKm    float64
}

// Overlaps reports whether the window intersects [start, end).
func (w *CoverageWindow) Overlaps(start, end time.Time) bool {
	return w.StartTime.Before(end) && w.EndTime.After(start)
}
