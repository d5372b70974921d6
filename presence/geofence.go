package presence

import "math"

// Geofence is the fixed circular campus boundary. The radius is expressed in
// raw degrees and the check is planar Euclidean on latitude/longitude, not
// geodesic; accuracy degrades toward the poles. That approximation is the
// product's documented behavior and is kept as-is.
type Geofence struct {
	Center    Coordinates
	RadiusDeg float64
}

// Classify maps a location sample to a presence state. The boundary itself
// counts as on campus.
func (g Geofence) Classify(c Coordinates) State {
	dLat := c.Lat - g.Center.Lat
	dLon := c.Lon - g.Center.Lon
	if math.Sqrt(dLat*dLat+dLon*dLon) <= g.RadiusDeg {
		return StateAvailable
	}
	return StateUnavailable
}
