package vessel

import "math"

const (
	earthRadiusKm      = 6371.0
	nauticalMilePerKm  = 0.5399568
)

// ValidCoord reports whether lat/lon is a usable fix rather than one
// of the sentinel "unknown" values, ported from DB::isValidCoord.
func ValidCoord(lat, lon float64) bool {
	return !(lat == 0 && lon == 0) && lat != LatUndefined && lon != LonUndefined
}

// DistanceBearing computes great-circle distance (nautical miles) and
// initial bearing (degrees, 0..359) from (lat1,lon1) to (lat2,lon2),
// ported from DB::getDistanceAndBearing
// (https://www.movable-type.co.uk/scripts/latlong.html, as credited in
// the original source).
func DistanceBearing(lat1, lon1, lat2, lon2 float64) (distanceNmi float64, bearingDeg int) {
	r1, o1 := deg2rad(lat1), deg2rad(lon1)
	r2, o2 := deg2rad(lat2), deg2rad(lon2)

	dlat := r2 - r1
	dlon := o2 - o1
	a := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(r1)*math.Cos(r2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	distanceNmi = 2 * earthRadiusKm * nauticalMilePerKm * math.Asin(math.Sqrt(a))

	y := math.Sin(dlon) * math.Cos(r2)
	x := math.Cos(r1)*math.Sin(r2) - math.Sin(r1)*math.Cos(r2)*math.Cos(dlon)
	bearingDeg = rad2deg(math.Atan2(y, x))
	return distanceNmi, bearingDeg
}

func deg2rad(deg float64) float64 { return deg * math.Pi / 180 }

func rad2deg(rad float64) int {
	return (360 + int(rad*180/math.Pi)) % 360
}
