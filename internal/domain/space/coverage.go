package space

import (
	"math"
	"sort"
	"time"

	"github.com/andrescamacho/wargame-go/internal/domain/shared"
)

// DefaultFulfillmentThreshold is the minimum coverage ratio at which a
// space need counts as fulfilled.
const DefaultFulfillmentThreshold = 0.8

// CoverageCheck is the result of a single point-in-time coverage test.
type CoverageCheck struct {
	InCoverage   bool
	ElevationDeg float64
	SlantRangeKm float64
	SubSatLat    float64
	SubSatLon    float64
	AltKm        float64
}

// CheckCoverage tests whether a satellite at satPos covers a ground point
// for the given capability. The elevation angle follows
//
//	elevation = atan2(cos(c) - R/(R+h), sin(c))
//
// where c is the central angle between the sub-satellite point and the
// ground point.
func CheckCoverage(satPos *SatellitePosition, groundLat, groundLon float64, capability CapabilityType) CoverageCheck {
	c := shared.GreatCircleAngleRad(satPos.Lat, satPos.Lon, groundLat, groundLon)

	r := shared.EarthRadiusKm
	h := satPos.AltKm
	elevationRad := math.Atan2(math.Cos(c)-r/(r+h), math.Sin(c))
	elevationDeg := elevationRad * 180 / math.Pi

	// Law of cosines on the Earth-center triangle.
	slantRangeKm := math.Sqrt(r*r + (r+h)*(r+h) - 2*r*(r+h)*math.Cos(c))

	return CoverageCheck{
		InCoverage:   elevationDeg >= MinElevationDeg(capability),
		ElevationDeg: elevationDeg,
		SlantRangeKm: slantRangeKm,
		SubSatLat:    satPos.Lat,
		SubSatLon:    satPos.Lon,
		AltKm:        satPos.AltKm,
	}
}

// ComputeCoverageWindows walks [start, end] in fixed steps and emits one
// window per AOS/LOS cycle for every capability the asset carries. A
// window still open at end closes at end. Windows per (asset, capability)
// channel are non-overlapping and sorted by start.
func ComputeCoverageWindows(prop *Propagator, asset *SpaceAsset, groundLat, groundLon float64,
	start, end time.Time, stepMin int) []*CoverageWindow {

	if stepMin <= 0 {
		stepMin = 1
	}
	step := time.Duration(stepMin) * time.Minute

	type openWindow struct {
		aos            time.Time
		maxElevation   float64
		maxElevationAt time.Time
	}

	var windows []*CoverageWindow
	open := make(map[CapabilityType]*openWindow)

	closeWindow := func(capability CapabilityType, w *openWindow, los time.Time) {
		windows = append(windows, &CoverageWindow{
			ScenarioID:      asset.ScenarioID,
			AssetID:         asset.ID,
			AssetName:       asset.Name,
			Capability:      capability,
			StartTime:       w.aos,
			EndTime:         los,
			MaxElevationDeg: w.maxElevation,
			MaxElevationAt:  w.maxElevationAt,
			CenterLat:       groundLat,
			CenterLon:       groundLon,
			SwathWidthKm:    asset.SwathWidthKm,
		})
	}

	for t := start; !t.After(end); t = t.Add(step) {
		pos := prop.PositionAt(asset, t)
		if pos == nil {
			continue
		}
		for _, capability := range asset.Capabilities {
			check := CheckCoverage(pos, groundLat, groundLon, capability)
			w := open[capability]
			if check.InCoverage {
				if w == nil {
					open[capability] = &openWindow{aos: t, maxElevation: check.ElevationDeg, maxElevationAt: t}
				} else if check.ElevationDeg > w.maxElevation {
					w.maxElevation = check.ElevationDeg
					w.maxElevationAt = t
				}
			} else if w != nil {
				closeWindow(capability, w, t)
				delete(open, capability)
			}
		}
	}

	for capability, w := range open {
		closeWindow(capability, w, end)
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartTime.Before(windows[j].StartTime)
	})
	return windows
}

// overlapMs returns the overlap in milliseconds between [aStart, aEnd)
// and [bStart, bEnd), clamped at zero.
func overlapMs(aStart, aEnd, bStart, bEnd time.Time) int64 {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Milliseconds()
}

// CheckFulfillment sums the matching-capability window overlap against
// each unfulfilled need's window and returns the ids of needs whose
// coverage ratio newly meets the threshold. Pass threshold <= 0 to use
// the default. Already-fulfilled needs are skipped.
func CheckFulfillment(needs []*SpaceNeed, windows []*CoverageWindow, threshold float64) []string {
	if threshold <= 0 {
		threshold = DefaultFulfillmentThreshold
	}

	var fulfilled []string
	for _, need := range needs {
		if need.Fulfilled {
			continue
		}
		needDuration := need.DurationMs()
		if needDuration <= 0 {
			continue
		}

		var coveredMs int64
		for _, w := range windows {
			if w.Capability != need.CapabilityType {
				continue
			}
			coveredMs += overlapMs(need.StartTime, need.EndTime, w.StartTime, w.EndTime)
		}

		if float64(coveredMs)/float64(needDuration) >= threshold {
			fulfilled = append(fulfilled, need.ID)
		}
	}
	return fulfilled
}
