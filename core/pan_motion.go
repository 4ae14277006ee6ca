package core

import "math"

// updateLocation advances the pan sub-motion one step and reports
// whether it is still running.
//
// The step is re-anchored to the live camera position every tick rather
// than interpolating a cached path, keeping the motion consistent with
// whatever the altitude sub-motion or external navigation did in
// between. The step distance is the remaining pan budget for the
// elapsed time, clamped to the distance still to travel; once the
// budget is exhausted it falls to or below zero and produces no further
// movement.
func (a *Animator) updateLocation(run *animationRun) bool {
	now := a.sched.Now()
	elapsed := now.Sub(run.startTime)
	cam := a.viewer.Camera()
	current := cam.Position

	travelled := a.Geodesy.Distance(run.start, current)
	remaining := a.Geodesy.Distance(current, run.target)
	azimuth := a.Geodesy.Azimuth(current, run.target)

	budget := run.panVelocity * elapsed.Seconds()
	step := math.Min(budget-travelled, remaining)

	next := a.Geodesy.Destination(current, azimuth, step)
	cam.Position.Latitude = next.Latitude
	cam.Position.Longitude = next.Longitude
	a.viewer.SetCamera(cam)

	// Done within a metre of the target, or past the safety cap that
	// guards velocity and geometry edge cases.
	if step < convergenceMeters/a.globe.Radius() {
		return false
	}
	return elapsed < safetyCap
}
