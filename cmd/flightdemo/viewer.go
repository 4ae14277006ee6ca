package main

import (
	"sync"

	"github.com/signalsfoundry/globeviewer/core"
	"github.com/signalsfoundry/globeviewer/model"
)

// simViewer is an in-memory viewer over a sphere globe: a camera, a
// pinhole pixel scale, and a redraw counter standing in for a render
// loop. The look-at is the nadir point directly below the camera.
type simViewer struct {
	globe  *core.SphereGlobe
	fovDeg float64
	width  int

	mu      sync.Mutex
	cam     model.Camera
	redraws int
}

func newSimViewer(globe *core.SphereGlobe, fovDeg float64, width int, start model.Position) *simViewer {
	return &simViewer{
		globe:  globe,
		fovDeg: fovDeg,
		width:  width,
		cam:    model.Camera{Position: start},
	}
}

func (v *simViewer) Camera() model.Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cam
}

func (v *simViewer) SetCamera(c model.Camera) {
	v.mu.Lock()
	v.cam = c
	v.mu.Unlock()
}

func (v *simViewer) LookAt() model.LookAt {
	v.mu.Lock()
	defer v.mu.Unlock()
	return model.LookAt{
		Position: v.cam.Position.Location(),
		Range:    v.cam.Position.Altitude,
		Heading:  v.cam.Heading,
		Tilt:     v.cam.Tilt,
	}
}

func (v *simViewer) PixelSizeAtDistance(distance float64) float64 {
	return core.PixelSize(distance, v.fovDeg, v.width)
}

func (v *simViewer) ViewportWidth() int { return v.width }

func (v *simViewer) Redraw() {
	v.mu.Lock()
	v.redraws++
	v.mu.Unlock()
}

func (v *simViewer) redrawCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.redraws
}
