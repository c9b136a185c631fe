package space

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/andrescamacho/wargame-go/internal/domain/shared"
)

// muEarthKm3S2 is Earth's standard gravitational parameter in km^3/s^2.
const muEarthKm3S2 = 398600.4418

// geoAltitudeKm is the pinned altitude for geosynchronous-period orbits.
const geoAltitudeKm = 35786.0

// SatellitePosition is a propagated sub-satellite point.
type SatellitePosition struct {
	Lat     float64
	Lon     float64
	AltKm   float64
	VelKmS  float64
	HasVel  bool
	Instant time.Time
}

// Propagator yields geodetic sub-satellite points for scenario assets.
// TLE-bearing assets go through SGP4; assets carrying only orbital
// elements use an analytic approximation.
type Propagator struct{}

// NewPropagator creates a propagator.
func NewPropagator() *Propagator {
	return &Propagator{}
}

// PositionAt returns the asset's sub-satellite point at the given instant,
// or nil when the asset carries neither a TLE nor usable elements, or when
// SGP4 produces a non-finite state.
func (p *Propagator) PositionAt(asset *SpaceAsset, instant time.Time) *SatellitePosition {
	if asset.HasTLE() {
		if pos := p.propagateTLE(asset, instant); pos != nil {
			return pos
		}
		// Fall through to the analytic path when SGP4 rejects the elset.
	}
	if asset.HasElements() {
		return p.approximate(asset, instant)
	}
	return nil
}

// propagateTLE runs SGP4 and converts ECI through GMST to geodetic.
func (p *Propagator) propagateTLE(asset *SpaceAsset, instant time.Time) *SatellitePosition {
	sat := satellite.TLEToSat(asset.TLELine1, asset.TLELine2, satellite.GravityWGS84)

	utc := instant.UTC()
	pos, vel := satellite.Propagate(sat, utc.Year(), int(utc.Month()), utc.Day(),
		utc.Hour(), utc.Minute(), utc.Second())

	gmst := satellite.GSTimeFromDate(utc.Year(), int(utc.Month()), utc.Day(),
		utc.Hour(), utc.Minute(), utc.Second())

	altKm, _, latLon := satellite.ECIToLLA(pos, gmst)

	lat := latLon.Latitude * 180 / math.Pi
	lon := shared.NormalizeLongitude(latLon.Longitude * 180 / math.Pi)
	velKmS := math.Sqrt(vel.X*vel.X + vel.Y*vel.Y + vel.Z*vel.Z)

	if !finite(lat) || !finite(lon) || !finite(altKm) || altKm <= 0 {
		return nil
	}

	sp := &SatellitePosition{
		Lat:     lat,
		Lon:     lon,
		AltKm:   altKm,
		Instant: instant,
	}
	if finite(velKmS) {
		sp.VelKmS = velKmS
		sp.HasVel = true
	}
	return sp
}

// approximate computes a coarse sub-satellite track from inclination,
// period and eccentricity. Altitude derives from Kepler's third law;
// geosynchronous periods pin to the GEO altitude.
func (p *Propagator) approximate(asset *SpaceAsset, instant time.Time) *SatellitePosition {
	periodMin := asset.PeriodMin
	if periodMin <= 0 {
		periodMin = 90
	}

	var altKm float64
	if periodMin > 1400 && periodMin < 1500 {
		altKm = geoAltitudeKm
	} else {
		periodSec := periodMin * 60
		semiMajorKm := math.Cbrt(muEarthKm3S2 * math.Pow(periodSec/(2*math.Pi), 2))
		altKm = semiMajorKm - shared.EarthRadiusKm
	}

	periodMs := periodMin * 60 * 1000
	elapsedMs := float64(instant.UnixMilli())
	phase := 2 * math.Pi * math.Mod(elapsedMs, periodMs) / periodMs

	lat := asset.InclinationDeg * math.Sin(phase)
	lon := asset.BaseLon + asset.Eccentricity*360*math.Cos(phase)

	// Polar crossing: reflect latitude across the pole and rotate the
	// longitude 180 degrees instead of clamping.
	if lat > 90 {
		lat = 180 - lat
		lon += 180
	} else if lat < -90 {
		lat = -180 - lat
		lon += 180
	}
	if lat > 90 {
		lat = 90
	} else if lat < -90 {
		lat = -90
	}

	return &SatellitePosition{
		Lat:     lat,
		Lon:     shared.NormalizeLongitude(lon),
		AltKm:   altKm,
		Instant: instant,
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
