package shared

import "math"

// EarthRadiusKm is the mean Earth radius used by all coverage geometry.
const EarthRadiusKm = 6371.0

// GeoPoint is an immutable geodetic position.
type GeoPoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	AltKm float64 `json:"altKm"`
}

// GreatCircleAngleRad returns the central angle in radians between two
// geodetic points, in [0, pi]. Uses the Vincenty formulation, which is
// numerically stable for both near-zero and near-antipodal separations.
func GreatCircleAngleRad(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi1, cosPhi1 := math.Sincos(phi1)
	sinPhi2, cosPhi2 := math.Sincos(phi2)
	sinDL, cosDL := math.Sincos(dLambda)

	a := cosPhi2 * sinDL
	b := cosPhi1*sinPhi2 - sinPhi1*cosPhi2*cosDL
	num := math.Sqrt(a*a + b*b)
	den := sinPhi1*sinPhi2 + cosPhi1*cosPhi2*cosDL

	return math.Atan2(num, den)
}

// GreatCircleDistanceKm returns the surface distance between two points.
func GreatCircleDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	return GreatCircleAngleRad(lat1, lon1, lat2, lon2) * EarthRadiusKm
}

// InitialBearingDeg returns the forward azimuth from point 1 to point 2
// in degrees, normalized to [0, 360).
func InitialBearingDeg(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// InterpolatePosition returns the point at fraction f (0..1) along the
// great-circle segment between two points. Falls back to the start point
// when the endpoints coincide.
func InterpolatePosition(lat1, lon1, lat2, lon2, f float64) (float64, float64) {
	delta := GreatCircleAngleRad(lat1, lon1, lat2, lon2)
	if delta == 0 {
		return lat1, lon1
	}

	phi1 := lat1 * math.Pi / 180
	lambda1 := lon1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	lambda2 := lon2 * math.Pi / 180

	sinDelta := math.Sin(delta)
	a := math.Sin((1-f)*delta) / sinDelta
	b := math.Sin(f*delta) / sinDelta

	x := a*math.Cos(phi1)*math.Cos(lambda1) + b*math.Cos(phi2)*math.Cos(lambda2)
	y := a*math.Cos(phi1)*math.Sin(lambda1) + b*math.Cos(phi2)*math.Sin(lambda2)
	z := a*math.Sin(phi1) + b*math.Sin(phi2)

	lat := math.Atan2(z, math.Sqrt(x*x+y*y)) * 180 / math.Pi
	lon := math.Atan2(y, x) * 180 / math.Pi
	return lat, lon
}

// NormalizeLongitude wraps a longitude into [-180, 180].
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
