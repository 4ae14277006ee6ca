package core

import (
	"math"

	"github.com/signalsfoundry/globeviewer/model"
)

// MeanEarthRadiusM is the mean Earth radius in metres, used as the
// default globe radius.
const MeanEarthRadiusM = 6371000.0

// SphereGlobe models the globe as a sphere of fixed mean radius. It is
// the default Globe implementation for viewers that do not carry a full
// ellipsoid model.
type SphereGlobe struct {
	radius  float64
	geodesy *GreatCircle
}

// NewSphereGlobe constructs a SphereGlobe with the given mean radius in
// metres. A radius of zero selects MeanEarthRadiusM.
func NewSphereGlobe(radius float64) *SphereGlobe {
	if radius <= 0 {
		radius = MeanEarthRadiusM
	}
	return &SphereGlobe{
		radius:  radius,
		geodesy: NewGreatCircle(radius),
	}
}

// Radius returns the sphere radius in metres.
func (g *SphereGlobe) Radius() float64 { return g.radius }

// CartesianAt returns the globe-centred Cartesian point for a
// geographic position, +Z through the north pole and +X through the
// prime meridian at the equator.
func (g *SphereGlobe) CartesianAt(p model.Position) model.Vec3 {
	r := g.radius + p.Altitude
	lat := p.Latitude * math.Pi / 180
	lon := p.Longitude * math.Pi / 180
	return model.Vec3{
		X: r * math.Cos(lat) * math.Cos(lon),
		Y: r * math.Cos(lat) * math.Sin(lon),
		Z: r * math.Sin(lat),
	}
}

// CameraFromLookAt converts a look-at view into the camera producing
// it. The eye sits behind the look-at point along the reciprocal
// heading, offset by the ground component of the range, at an altitude
// raised by the vertical component. With zero tilt the camera is
// directly above the look-at point at altitude + range.
func (g *SphereGlobe) CameraFromLookAt(l model.LookAt) model.Camera {
	tilt := l.Tilt * math.Pi / 180
	vertical := l.Range * math.Cos(tilt)
	horizontal := l.Range * math.Sin(tilt)

	eye := l.Position
	if horizontal != 0 {
		back := math.Mod(l.Heading+180, 360)
		eye = g.geodesy.Destination(l.Position, back, horizontal/g.radius)
	}
	eye.Altitude = l.Position.Altitude + vertical

	return model.Camera{Position: eye, Heading: l.Heading, Tilt: l.Tilt}
}
