package mission

import (
	"sort"
	"time"

	"github.com/andrescamacho/wargame-go/internal/domain/shared"
)

// DefaultLeadTimeFactor is the fraction of total flight time by which a
// mission's inferred start precedes its first time window. Heuristic,
// exposed through SimulationConfig.
const DefaultLeadTimeFactor = 0.3

// presumedSpeedKts is the cruise speed presumed per domain when route
// waypoints carry no speed of their own.
var presumedSpeedKts = map[Domain]float64{
	DomainAir:      450,
	DomainMaritime: 20,
	DomainLand:     120,
}

const ktsToKmH = 1.852

// InterpolatedPosition is a mission's along-route position at an instant.
type InterpolatedPosition struct {
	Lat        float64
	Lon        float64
	AltitudeFt *float64
	HeadingDeg float64
	SpeedKts   float64
	AtRouteEnd bool
}

// Interpolator paces missions along their waypoint routes.
type Interpolator struct {
	leadTimeFactor float64
}

// NewInterpolator creates an interpolator. A non-positive leadTimeFactor
// falls back to the default.
func NewInterpolator(leadTimeFactor float64) *Interpolator {
	if leadTimeFactor <= 0 {
		leadTimeFactor = DefaultLeadTimeFactor
	}
	return &Interpolator{leadTimeFactor: leadTimeFactor}
}

// routeLegs returns waypoints in sequence order plus cumulative leg
// distances in km.
func routeLegs(waypoints []*Waypoint) ([]*Waypoint, []float64, float64) {
	ordered := make([]*Waypoint, len(waypoints))
	copy(ordered, waypoints)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })

	cumulative := make([]float64, len(ordered))
	total := 0.0
	for i := 1; i < len(ordered); i++ {
		total += shared.GreatCircleDistanceKm(
			ordered[i-1].Lat, ordered[i-1].Lon, ordered[i].Lat, ordered[i].Lon)
		cumulative[i] = total
	}
	return ordered, cumulative, total
}

// PositionAt interpolates the mission's position at simTime. Returns nil
// when the route has fewer than two waypoints or no time window to anchor
// the start. Past the route end the position pins to the last waypoint
// with speed zero.
func (ip *Interpolator) PositionAt(m *Mission, simTime time.Time) *InterpolatedPosition {
	if len(m.Waypoints) < 2 {
		return nil
	}
	first := m.FirstWindow()
	if first == nil {
		return nil
	}

	ordered, cumulative, totalKm := routeLegs(m.Waypoints)
	if totalKm <= 0 {
		return nil
	}

	speedKts := presumedSpeedKts[m.Domain]
	if speedKts == 0 {
		speedKts = presumedSpeedKts[DomainAir]
	}
	speedKmH := speedKts * ktsToKmH
	totalFlight := time.Duration(totalKm / speedKmH * float64(time.Hour))

	// Mission start is inferred so that the route is underway well before
	// the first window opens.
	start := first.StartTime.Add(-time.Duration(ip.leadTimeFactor * float64(totalFlight)))

	elapsed := simTime.Sub(start)
	if elapsed < 0 {
		wp := ordered[0]
		return &InterpolatedPosition{
			Lat: wp.Lat, Lon: wp.Lon, AltitudeFt: wp.AltitudeFt,
			HeadingDeg: shared.InitialBearingDeg(wp.Lat, wp.Lon, ordered[1].Lat, ordered[1].Lon),
			SpeedKts:   0,
		}
	}

	traveledKm := elapsed.Hours() * speedKmH
	if traveledKm >= totalKm {
		wp := ordered[len(ordered)-1]
		return &InterpolatedPosition{
			Lat: wp.Lat, Lon: wp.Lon, AltitudeFt: wp.AltitudeFt,
			SpeedKts:   0,
			AtRouteEnd: true,
		}
	}

	// Locate the active leg by cumulative distance.
	seg := 1
	for seg < len(cumulative) && cumulative[seg] < traveledKm {
		seg++
	}
	from, to := ordered[seg-1], ordered[seg]
	legKm := cumulative[seg] - cumulative[seg-1]
	frac := 0.0
	if legKm > 0 {
		frac = (traveledKm - cumulative[seg-1]) / legKm
	}

	lat, lon := shared.InterpolatePosition(from.Lat, from.Lon, to.Lat, to.Lon, frac)

	alt := from.AltitudeFt
	if alt == nil {
		alt = to.AltitudeFt
	}
	spd := speedKts
	if from.SpeedKts != nil {
		spd = *from.SpeedKts
	}

	return &InterpolatedPosition{
		Lat:        lat,
		Lon:        lon,
		AltitudeFt: alt,
		HeadingDeg: shared.InitialBearingDeg(from.Lat, from.Lon, to.Lat, to.Lon),
		SpeedKts:   spd,
	}
}
