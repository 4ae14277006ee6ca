package core

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/globeviewer/internal/logging"
	"github.com/signalsfoundry/globeviewer/model"
	"github.com/signalsfoundry/globeviewer/timectrl"
)

// Argument-validation failures raised by the animator.
var (
	ErrNilViewer     = errors.New("animator: viewer is required")
	ErrNilGlobe      = errors.New("animator: globe is required")
	ErrInvalidTarget = errors.New("animator: target latitude/longitude out of range")
)

const (
	// DefaultTravelTime governs the duration of long moves.
	DefaultTravelTime = 3000 * time.Millisecond
	// DefaultTickInterval is the delay between animation steps.
	DefaultTickInterval = 20 * time.Millisecond

	// safetyCap bounds both sub-motions against velocity or geometry
	// edge cases that would otherwise never converge.
	safetyCap = 4000 * time.Millisecond

	// convergenceMeters is the termination threshold: a sub-motion is
	// done once it is within one metre of its goal.
	convergenceMeters = 1.0
)

// Outcome describes how a flight ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeCancelled
	OutcomeSuperseded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// CompletionFunc is invoked exactly once when a flight ends, on the
// tick that terminates it (or synchronously for zero-distance and
// superseded flights).
type CompletionFunc func(a *Animator, outcome Outcome)

// Target identifies where to fly. Latitude and longitude are in
// degrees. Altitude is optional; when nil, the target altitude is
// derived from the current look-at framing so heading, tilt, and range
// semantics are preserved.
type Target struct {
	Latitude  float64
	Longitude float64
	Altitude  *float64
}

func (t Target) validate() error {
	if math.IsNaN(t.Latitude) || math.IsNaN(t.Longitude) ||
		t.Latitude < -90 || t.Latitude > 90 ||
		t.Longitude < -180 || t.Longitude > 180 {
		return ErrInvalidTarget
	}
	return nil
}

// Animator flies the viewer's camera to requested positions. Long
// moves pull the camera back to a context altitude so both endpoints
// stay framed, then descend to the requested altitude near the
// destination. One flight is active at a time; starting a new one
// supersedes the old, resolving its completion callback first.
//
// TravelTime, TickInterval, Geodesy, and Metrics may be adjusted
// between flights; they must not be changed while a flight is active.
type Animator struct {
	TravelTime   time.Duration
	TickInterval time.Duration

	// Geodesy backs the great-circle math. Defaults to a GreatCircle
	// over the globe's radius.
	Geodesy Geodesy

	// Metrics, when non-nil, receives flight lifecycle events.
	Metrics MetricsRecorder

	viewer Viewer
	globe  Globe
	sched  timectrl.Scheduler
	log    logging.Logger
	tracer trace.Tracer

	mu  sync.Mutex
	run *animationRun
}

// animationRun is the state of one in-progress flight. It is created by
// GoTo, advanced by ticks, and detached from the animator exactly once:
// by the tick that terminates it or by the GoTo that supersedes it.
type animationRun struct {
	start     model.Position
	target    model.Position
	startTime time.Time

	// maxAltitude is the peak altitude of the flight; equal to the
	// start altitude for local moves.
	maxAltitude float64
	// maxAltitudeReachedTime is zero while the rising phase runs.
	maxAltitudeReachedTime time.Time

	panVelocity   float64 // radians per second
	rangeVelocity float64 // metres per second

	cancelled  bool
	resolved   bool
	onComplete CompletionFunc

	ctx  context.Context
	span trace.Span
}

// NewAnimator constructs an Animator for the given viewer and globe. A
// nil scheduler selects the system clock; a nil logger disables
// logging.
func NewAnimator(viewer Viewer, globe Globe, sched timectrl.Scheduler, log logging.Logger) (*Animator, error) {
	if viewer == nil {
		return nil, ErrNilViewer
	}
	if globe == nil {
		return nil, ErrNilGlobe
	}
	if sched == nil {
		sched = timectrl.System{}
	}
	if log == nil {
		log = logging.Noop()
	}
	return &Animator{
		TravelTime:   DefaultTravelTime,
		TickInterval: DefaultTickInterval,
		Geodesy:      NewGreatCircle(globe.Radius()),
		viewer:       viewer,
		globe:        globe,
		sched:        sched,
		log:          log,
		tracer:       otel.Tracer("globeviewer/core"),
	}, nil
}

// Active reports whether a flight is currently in progress.
func (a *Animator) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.run != nil
}

// GoTo starts a flight to the requested target, superseding any active
// flight. The completion callback, when non-nil, is invoked exactly
// once with the flight's outcome. A target that resolves to the
// current camera position completes synchronously.
func (a *Animator) GoTo(t Target, onComplete CompletionFunc) error {
	if err := t.validate(); err != nil {
		return err
	}

	// Supersede any active flight before touching shared state, so its
	// caller observes exactly one terminal notification.
	a.mu.Lock()
	prev := a.run
	a.run = nil
	a.mu.Unlock()
	if prev != nil {
		a.resolve(prev, OutcomeSuperseded)
	}

	start := a.viewer.Camera().Position
	target := a.resolveTarget(t)

	panDistance := a.Geodesy.Distance(start, target)
	if panDistance == 0 && start.Altitude == target.Altitude {
		if onComplete != nil {
			onComplete(a, OutcomeCompleted)
		}
		return nil
	}

	run := a.planRun(start, target, panDistance)
	run.onComplete = onComplete
	run.ctx, run.span = a.tracer.Start(context.Background(), "animator.flight",
		trace.WithAttributes(
			attribute.Float64("target.latitude", target.Latitude),
			attribute.Float64("target.longitude", target.Longitude),
			attribute.Float64("target.altitude", target.Altitude),
			attribute.Float64("pan.radians", panDistance),
			attribute.Float64("max.altitude", run.maxAltitude),
		))

	a.log.Debug(run.ctx, "flight started",
		logging.Float64("lat", target.Latitude),
		logging.Float64("lon", target.Longitude),
		logging.Float64("alt", target.Altitude),
		logging.Float64("pan_radians", panDistance),
		logging.Float64("max_altitude", run.maxAltitude),
	)
	if a.Metrics != nil {
		a.Metrics.FlightStarted()
	}

	a.mu.Lock()
	a.run = run
	a.mu.Unlock()
	a.sched.AfterFunc(a.TickInterval, func() { a.tick(run) })
	return nil
}

// Cancel flags the active flight for cancellation. Idempotent; safe to
// call at any time. The next tick observes the flag, performs no camera
// mutation, and resolves the flight.
func (a *Animator) Cancel() {
	a.mu.Lock()
	if a.run != nil {
		a.run.cancelled = true
	}
	a.mu.Unlock()
}

// resolveTarget maps a requested target onto the camera position that
// frames it the way the current camera frames its look-at point. The
// current look-at keeps its range, heading, and tilt; only the point
// being looked at changes.
func (a *Animator) resolveTarget(t Target) model.Position {
	lookAt := a.viewer.LookAt()
	lookAt.Position.Latitude = t.Latitude
	lookAt.Position.Longitude = t.Longitude
	if t.Altitude != nil {
		lookAt.Position.Altitude = *t.Altitude
	}
	return a.globe.CameraFromLookAt(lookAt).Position
}

// planRun derives the flight plan: the context altitude, the duration,
// and the two sub-motion velocities yoked to finish together.
func (a *Animator) planRun(start, target model.Position, panDistance float64) *animationRun {
	viewportAngular := a.viewportAngularSize(start.Altitude)
	local := viewportAngular > 0 && panDistance <= 2*viewportAngular

	maxAltitude := start.Altitude
	if !local {
		// Pull back far enough to frame both endpoints: the chord
		// between the projected surface points approximates the
		// altitude needed at a ~45 degree field of view.
		chord := a.globe.CartesianAt(start.Location()).
			DistanceTo(a.globe.CartesianAt(target.Location()))
		if chord > maxAltitude {
			maxAltitude = chord
		}
	}

	rangeDistance := math.Abs(target.Altitude - start.Altitude)
	if maxAltitude > start.Altitude {
		rangeDistance = (maxAltitude - start.Altitude) + math.Abs(target.Altitude-maxAltitude)
	}

	duration := a.TravelTime
	if local {
		// Short moves shrink proportionally to how much of the
		// viewport they sweep, never below one millisecond.
		angular := math.Max(panDistance, rangeDistance/a.globe.Radius())
		scaled := time.Duration(angular / viewportAngular * float64(a.TravelTime))
		if scaled < duration {
			duration = scaled
		}
		if duration < time.Millisecond {
			duration = time.Millisecond
		}
	}

	return &animationRun{
		start:         start,
		target:        target,
		startTime:     a.sched.Now(),
		maxAltitude:   maxAltitude,
		panVelocity:   panDistance / duration.Seconds(),
		rangeVelocity: rangeDistance / duration.Seconds(),
	}
}

// viewportAngularSize estimates the angular sweep currently on screen:
// pixel resolution at the eye altitude times the viewport width,
// expressed as radians of arc on the globe surface.
func (a *Animator) viewportAngularSize(altitude float64) float64 {
	px := a.viewer.PixelSizeAtDistance(altitude)
	return px * float64(a.viewer.ViewportWidth()) / a.globe.Radius()
}

// tick advances the flight by one step and reschedules itself while
// either sub-motion is still running. A tick whose run has been
// superseded does nothing; the superseding GoTo already resolved it.
func (a *Animator) tick(run *animationRun) {
	a.mu.Lock()
	if a.run != run {
		a.mu.Unlock()
		return
	}
	cancelled := run.cancelled
	a.mu.Unlock()

	if cancelled {
		a.finish(run, OutcomeCancelled)
		return
	}

	began := time.Now()
	rangeRunning := a.updateRange(run)
	panRunning := a.updateLocation(run)
	a.viewer.Redraw()
	if a.Metrics != nil {
		a.Metrics.TickObserved(time.Since(began))
	}

	if rangeRunning || panRunning {
		a.sched.AfterFunc(a.TickInterval, func() { a.tick(run) })
		return
	}
	a.finish(run, OutcomeCompleted)
}

// finish detaches the run and resolves it. Only called from the tick
// path; supersession detaches in GoTo instead.
func (a *Animator) finish(run *animationRun, outcome Outcome) {
	a.mu.Lock()
	if a.run == run {
		a.run = nil
	}
	a.mu.Unlock()
	a.resolve(run, outcome)
}

// resolve reports the run's terminal state and invokes its completion
// callback at most once, even when a terminating tick races a
// superseding GoTo.
func (a *Animator) resolve(run *animationRun, outcome Outcome) {
	a.mu.Lock()
	if run.resolved {
		a.mu.Unlock()
		return
	}
	run.resolved = true
	a.mu.Unlock()

	elapsed := a.sched.Now().Sub(run.startTime)

	ctx := run.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	a.log.Debug(ctx, "flight ended",
		logging.String("outcome", outcome.String()),
		logging.Any("elapsed", elapsed),
	)
	if a.Metrics != nil {
		a.Metrics.FlightEnded(outcome.String(), elapsed)
	}
	if run.span != nil {
		run.span.SetAttributes(attribute.String("outcome", outcome.String()))
		run.span.End()
	}
	if run.onComplete != nil {
		run.onComplete(a, outcome)
	}
}
