package core

import (
	"github.com/tidwall/geodesic"

	"github.com/signalsfoundry/globeviewer/model"
)

// GreatCircle is a Geodesy over a sphere of the given radius, backed by
// the geodesic package's inverse and direct solvers (flattening zero
// selects the spherical fast path).
type GreatCircle struct {
	radius float64
	sphere *geodesic.Ellipsoid
}

// NewGreatCircle constructs a GreatCircle for a sphere of the given
// mean radius in metres.
func NewGreatCircle(radius float64) *GreatCircle {
	return &GreatCircle{
		radius: radius,
		sphere: geodesic.NewEllipsoid(radius, 0),
	}
}

// Distance returns the angular distance in radians between a and b.
func (g *GreatCircle) Distance(a, b model.Position) float64 {
	var s12 float64
	g.sphere.Inverse(a.Latitude, a.Longitude, b.Latitude, b.Longitude, &s12, nil, nil)
	return s12 / g.radius
}

// Azimuth returns the initial bearing in degrees from a toward b.
func (g *GreatCircle) Azimuth(a, b model.Position) float64 {
	var azi1 float64
	g.sphere.Inverse(a.Latitude, a.Longitude, b.Latitude, b.Longitude, nil, &azi1, nil)
	return azi1
}

// Destination returns the point at the given bearing (degrees) and
// angular distance (radians) from origin. A negative distance moves
// along the reciprocal bearing.
func (g *GreatCircle) Destination(origin model.Position, azimuth, distance float64) model.Position {
	var lat2, lon2 float64
	g.sphere.Direct(origin.Latitude, origin.Longitude, azimuth, distance*g.radius, &lat2, &lon2, nil)
	return model.Position{Latitude: lat2, Longitude: lon2, Altitude: origin.Altitude}
}
