package model

// Position is a geographic point on or above the globe surface.
// Latitude and longitude are in degrees, altitude in metres.
type Position struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// Location returns the surface projection of the position.
func (p Position) Location() Position {
	return Position{Latitude: p.Latitude, Longitude: p.Longitude}
}

// Camera is a viewpoint defined by the geographic position of the eye
// point. Heading and tilt are in degrees; they are carried through
// conversions but never animated by this package.
type Camera struct {
	Position Position
	Heading  float64
	Tilt     float64
}

// LookAt is a viewpoint defined by the geographic point being looked at
// plus the eye's range from that point. Range is in metres, heading and
// tilt in degrees. Converts bidirectionally with Camera via the globe.
type LookAt struct {
	Position Position
	Range    float64
	Heading  float64
	Tilt     float64
}
