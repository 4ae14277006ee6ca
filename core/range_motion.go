package core

import "math"

// updateRange advances the altitude sub-motion one step and reports
// whether it is still running.
//
// The motion has two phases. While rising, altitude climbs at the range
// velocity toward the context altitude; the phase completes once the
// live camera altitude is within a metre of the computed value, but the
// motion still reports running on that tick. While settling, elapsed
// time is measured from the rise-completion timestamp and altitude
// moves monotonically toward the target, clamped so it never
// overshoots. Settling is also bounded by the safety cap so a
// degenerate zero range velocity cannot run forever.
func (a *Animator) updateRange(run *animationRun) bool {
	now := a.sched.Now()
	cam := a.viewer.Camera()

	if run.maxAltitudeReachedTime.IsZero() {
		elapsed := now.Sub(run.startTime).Seconds()
		next := math.Min(run.start.Altitude+run.rangeVelocity*elapsed, run.maxAltitude)
		if math.Abs(cam.Position.Altitude-next) < convergenceMeters {
			run.maxAltitudeReachedTime = now
		}
		cam.Position.Altitude = next
		a.viewer.SetCamera(cam)
		return true
	}

	elapsed := now.Sub(run.maxAltitudeReachedTime)
	secs := elapsed.Seconds()
	var next float64
	if run.maxAltitude > run.target.Altitude {
		next = math.Max(run.maxAltitude-run.rangeVelocity*secs, run.target.Altitude)
	} else {
		next = math.Min(run.maxAltitude+run.rangeVelocity*secs, run.target.Altitude)
	}
	cam.Position.Altitude = next
	a.viewer.SetCamera(cam)

	if elapsed >= safetyCap {
		return false
	}
	return math.Abs(next-run.target.Altitude) > convergenceMeters
}
