// internal/geo/geo.go
//
// Spherical geometry used to score a guess against the daily target.
// Responsibilities:
//   - Great-circle distance in whole meters (haversine, WGS84 equatorial radius).
//   - Rhumb-line bearing between two points.
//   - Quantizing a bearing to one of the 8 compass octants.
//
// Notes:
//   - All angles are degrees at the API boundary; radians internally.

package geo

import "math"

// EarthRadius is the equatorial radius in meters.
const EarthRadius = 6378137.0

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Distance returns the great-circle distance between a and b,
// rounded to the nearest meter.
func Distance(a, b Point) int {
	lat1, lat2 := toRad(a.Lat), toRad(b.Lat)
	dLat := lat2 - lat1
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h marginally past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return int(math.Round(EarthRadius * c))
}

// RhumbBearing returns the constant-heading bearing from origin to dest
// in degrees [0, 360).
func RhumbBearing(origin, dest Point) float64 {
	dLon := toRad(dest.Lon - origin.Lon)
	dPhi := math.Log(
		math.Tan(toRad(dest.Lat)/2+math.Pi/4) /
			math.Tan(toRad(origin.Lat)/2+math.Pi/4),
	)

	// Take the shorter way around the antimeridian.
	if math.Abs(dLon) > math.Pi {
		if dLon > 0 {
			dLon = -(2*math.Pi - dLon)
		} else {
			dLon = 2*math.Pi + dLon
		}
	}

	deg := math.Mod(toDeg(math.Atan2(dLon, dPhi))+360, 360)
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// Bucket rounds a bearing to the nearest multiple of 45 degrees.
// 360 wraps to 0, so the result is always one of 0,45,...,315.
func Bucket(bearing float64) int {
	b := int(math.Round(bearing/45)) * 45
	b %= 360
	if b < 0 {
		b += 360
	}
	return b
}

// ValidBucket reports whether b is one of the 8 octant values.
func ValidBucket(b int) bool {
	return b >= 0 && b < 360 && b%45 == 0
}

var (
	labels = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	arrows = [8]string{"⬆️", "↗️", "➡️", "↘️", "⬇️", "↙️", "⬅️", "↖️"}
)

// Label returns the compass abbreviation for a bucket ("N", "NE", ...).
// Invalid buckets yield "".
func Label(bucket int) string {
	if !ValidBucket(bucket) {
		return ""
	}
	return labels[bucket/45]
}

// Arrow returns the emoji arrow for a bucket.
func Arrow(bucket int) string {
	if !ValidBucket(bucket) {
		return ""
	}
	return arrows[bucket/45]
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }
