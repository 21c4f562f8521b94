package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0088

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// ParseCoordinates parses the stored "<lat>,<lng>" text form.
func ParseCoordinates(text string) (Coordinates, error) {
	if strings.TrimSpace(text) == "" {
		return Coordinates{}, fmt.Errorf("parse coordinates: empty value: %w", ErrInvalidCoordinateFormat)
	}

	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("parse coordinates %q: expected \"lat,lng\": %w", text, ErrInvalidCoordinateFormat)
	}

	lat, err := parseDegrees(parts[0])
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse coordinates %q: latitude: %w", text, err)
	}
	lon, err := parseDegrees(parts[1])
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse coordinates %q: longitude: %w", text, err)
	}

	c := Coordinates{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return Coordinates{}, fmt.Errorf("parse coordinates %q: %w", text, err)
	}

	return c, nil
}

// parseDegrees accepts plain decimal notation only: an optional leading minus,
// digits and at most one dot. Hex floats, exponents and a leading plus are rejected.
func parseDegrees(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !isDecimal(s) {
		return 0, ErrInvalidCoordinateFormat
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidCoordinateFormat
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidCoordinateFormat
	}
	return v, nil
}

func isDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// Validate checks latitude and longitude ranges.
func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]: %w", c.Lat, ErrInvalidCoordinateFormat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]: %w", c.Lon, ErrInvalidCoordinateFormat)
	}
	return nil
}

// String formats coordinates as "<lat>,<lng>" using the shortest exact decimal form.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// DistanceKm returns the haversine great-circle distance between a and b.
func DistanceKm(a, b Coordinates) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	// Rounding can push near-antipodal points just past 1.
	h = math.Min(h, 1)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// A DeliveryPoint binds an order to the place it must be delivered.
// It only exists for orders whose coordinates parsed successfully.
type DeliveryPoint struct {
	OrderID int64
	Coordinates
}

func NewDeliveryPoint(orderID int64, text *string) (DeliveryPoint, error) {
	if text == nil {
		return DeliveryPoint{}, fmt.Errorf("order %d: missing delivery coordinates: %w", orderID, ErrInvalidCoordinateFormat)
	}

	c, err := ParseCoordinates(*text)
	if err != nil {
		return DeliveryPoint{}, fmt.Errorf("order %d: %w", orderID, err)
	}

	return DeliveryPoint{OrderID: orderID, Coordinates: c}, nil
}
