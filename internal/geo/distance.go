package geo

import "math"

// earthRadiusM is the mean Earth radius in meters.
const earthRadiusM = 6371000.0

// Distance returns the great-circle distance in meters between two
// coordinates using the haversine formula. Accurate to a few meters for
// distances under ~100 km, which is well inside what the UI rounds away.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	deltaLat := toRadians(lat2 - lat1)
	deltaLng := toRadians(lng2 - lng1)

	a := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Pow(math.Sin(deltaLng/2), 2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
