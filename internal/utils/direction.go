package utils

import (
	"math"
)

var compassPoints = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// BearingBetweenPoints calculates the initial bearing in degrees [0, 360) from point1 to point2
func BearingBetweenPoints(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	deltaLon := toRadians(lon2 - lon1)

	y := math.Sin(deltaLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLon)

	return math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
}

// BearingToCompass converts a bearing to an 8-point compass direction
func BearingToCompass(bearing float64) string {
	return compassPoints[int((bearing+22.5)/45.0)%len(compassPoints)]
}

// CompassDirection calculates compass direction from lat1,lon1 to lat2,lon2.
// Identical points have no direction and yield an empty string.
func CompassDirection(lat1, lon1, lat2, lon2 float64) string {
	if lat1 == lat2 && lon1 == lon2 {
		return ""
	}
	return BearingToCompass(BearingBetweenPoints(lat1, lon1, lat2, lon2))
}
