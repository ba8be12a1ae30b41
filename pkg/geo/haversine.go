package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the mean Earth radius used by every distance in the network.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Distance returns the great-circle distance in kilometers between two
// orb points (X = longitude, Y = latitude).
func Distance(a, b orb.Point) float64 {
	return Haversine(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}

// KmToDegrees converts a distance in kilometers into a latitude span in
// degrees. Longitude spans shrink with latitude, so callers that need a
// bounding box should widen the longitude side with LonDegrees.
func KmToDegrees(km float64) float64 {
	return km / (EarthRadiusKm * math.Pi / 180)
}

// LonDegrees converts a distance in kilometers into a longitude span at the
// given latitude. Near the poles the span is capped at a full turn.
func LonDegrees(km, lat float64) float64 {
	cos := math.Cos(lat * math.Pi / 180)
	if cos < 1e-6 {
		return 360
	}
	return math.Min(KmToDegrees(km)/cos, 360)
}

// Lerp linearly interpolates between two points. t=0 returns a, t=1 returns b.
func Lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
	}
}
