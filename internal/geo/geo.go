// Package geo computes great-circle distances between tour locations.
package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrBadPoint is returned for a malformed "lat,lng" pair.
var ErrBadPoint = errors.New("please provide latitude and longitude in the format lat,lng")

// earthRadiusMeters matches the sphere used by MongoDB's $geoNear.
const earthRadiusMeters = 6378100.0

// Unit is a distance unit accepted by the geo endpoints.
type Unit string

const (
	Miles      Unit = "mi"
	Kilometers Unit = "km"
)

// ParseUnit accepts "mi" and "km"; anything else is kilometers.
func ParseUnit(s string) Unit {
	if Unit(s) == Miles {
		return Miles
	}
	return Kilometers
}

// EarthRadius is the earth's radius expressed in u.
func (u Unit) EarthRadius() float64 {
	if u == Miles {
		return 3963.2
	}
	return 6378.1
}

// FromMeters is the factor converting meters into u.
func (u Unit) FromMeters() float64 {
	if u == Miles {
		return 0.000621371
	}
	return 0.001
}

// Point is a position in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// ParsePoint reads a "lat,lng" pair.
func ParsePoint(s string) (Point, error) {
	latS, lngS, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, ErrBadPoint
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil {
		return Point{}, ErrBadPoint
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngS), 64)
	if err != nil {
		return Point{}, ErrBadPoint
	}
	if math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		return Point{}, ErrBadPoint
	}
	return Point{Lat: lat, Lng: lng}, nil
}

// Angle returns the central angle between a and b in radians (haversine).
func Angle(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Asin(math.Min(1, math.Sqrt(h)))
}

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b Point) float64 {
	return Angle(a, b) * earthRadiusMeters
}

// Within reports whether b lies within distance (in u) of a.
func Within(a, b Point, distance float64, u Unit) bool {
	return Angle(a, b) <= distance/u.EarthRadius()
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
