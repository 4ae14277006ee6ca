package core

import (
	"math"
	"time"

	"github.com/signalsfoundry/globeviewer/model"
)

// Viewer is the host window the animator drives. The viewer owns the
// camera; the animator always reads it back before writing so that
// user navigation between ticks is never clobbered.
type Viewer interface {
	// Camera returns the current camera state.
	Camera() model.Camera
	// SetCamera replaces the current camera state.
	SetCamera(model.Camera)
	// LookAt returns the current view expressed as a look-at.
	LookAt() model.LookAt
	// PixelSizeAtDistance returns the metres covered by one screen
	// pixel at the given eye distance.
	PixelSizeAtDistance(distance float64) float64
	// ViewportWidth returns the viewport width in pixels.
	ViewportWidth() int
	// Redraw requests a repaint of the view.
	Redraw()
}

// Globe supplies the geometric context the animator flies over.
type Globe interface {
	// Radius returns the globe's mean radius in metres.
	Radius() float64
	// CartesianAt returns the globe-centred Cartesian point for a
	// geographic position.
	CartesianAt(p model.Position) model.Vec3
	// CameraFromLookAt converts a look-at view into the camera that
	// produces it.
	CameraFromLookAt(l model.LookAt) model.Camera
}

// Geodesy supplies great-circle operations. Angular distances are in
// radians along the globe surface; azimuths in degrees clockwise from
// north; latitudes and longitudes in degrees.
type Geodesy interface {
	// Distance returns the angular distance between two locations.
	Distance(a, b model.Position) float64
	// Azimuth returns the initial bearing from a toward b.
	Azimuth(a, b model.Position) float64
	// Destination returns the point at the given bearing and angular
	// distance from origin.
	Destination(origin model.Position, azimuth, distance float64) model.Position
}

// MetricsRecorder receives flight lifecycle events. A nil recorder
// disables reporting; implementations tolerate concurrent calls.
type MetricsRecorder interface {
	FlightStarted()
	FlightEnded(outcome string, elapsed time.Duration)
	TickObserved(d time.Duration)
}

// PixelSize returns the metres covered by one screen pixel at the given
// eye distance, for a pinhole camera with the given horizontal field of
// view rendered into a viewport of the given pixel width.
func PixelSize(distance, fovDeg float64, viewportWidthPx int) float64 {
	if viewportWidthPx <= 0 {
		return 0
	}
	return 2 * distance * math.Tan(fovDeg*math.Pi/360) / float64(viewportWidthPx)
}
