package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"net/http"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/globeviewer/core"
	"github.com/signalsfoundry/globeviewer/internal/logging"
	"github.com/signalsfoundry/globeviewer/internal/observability"
	"github.com/signalsfoundry/globeviewer/model"
)

// ISS TLE used when track mode is selected without explicit TLE lines.
const (
	defaultTLE1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	defaultTLE2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

func main() {
	planPath := flag.String("plan", "configs/flightplan.yaml", "YAML flight plan to fly")
	track := flag.Bool("track", false, "track a satellite sub-point instead of flying a plan")
	trackFor := flag.Duration("track-for", 60*time.Second, "how long to run track mode")
	trackEvery := flag.Duration("track-every", 5*time.Second, "how often to retarget in track mode")
	tle1 := flag.String("tle1", defaultTLE1, "TLE line 1 for track mode")
	tle2 := flag.String("tle2", defaultTLE2, "TLE line 2 for track mode")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus /metrics on this address when non-empty")
	flag.Parse()

	ctx := context.Background()
	log := logging.NewFromEnv()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		panic(fmt.Errorf("init tracing: %w", err))
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewFlightCollector(nil)
	if err != nil {
		panic(fmt.Errorf("register metrics: %w", err))
	}
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error(ctx, "metrics server failed", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", *metricsAddr))
	}

	plan, err := LoadPlan(*planPath)
	if err != nil {
		panic(err)
	}

	globe := core.NewSphereGlobe(core.MeanEarthRadiusM)
	viewer := newSimViewer(globe, plan.FieldOfViewDeg, plan.ViewportWidth, model.Position{
		Latitude:  plan.Start.Latitude,
		Longitude: plan.Start.Longitude,
		Altitude:  altitudeOr(plan.Start.Altitude, 10e6),
	})

	animator, err := core.NewAnimator(viewer, globe, nil, log)
	if err != nil {
		panic(err)
	}
	animator.TravelTime = plan.TravelTime()
	animator.TickInterval = plan.TickInterval()
	animator.Metrics = collector

	if *track {
		runTrack(ctx, log, animator, viewer, *tle1, *tle2, *trackFor, *trackEvery)
		return
	}
	runPlan(ctx, log, animator, viewer, plan)
}

// runPlan flies each waypoint in order, starting the next leg from the
// previous leg's completion callback.
func runPlan(ctx context.Context, log logging.Logger, animator *core.Animator, viewer *simViewer, plan *Plan) {
	for _, wp := range plan.Waypoints {
		done := make(chan core.Outcome, 1)
		err := animator.GoTo(core.Target{
			Latitude:  wp.Latitude,
			Longitude: wp.Longitude,
			Altitude:  wp.Altitude,
		}, func(_ *core.Animator, outcome core.Outcome) {
			done <- outcome
		})
		if err != nil {
			panic(fmt.Errorf("waypoint %q: %w", wp.Name, err))
		}
		outcome := <-done
		cam := viewer.Camera()
		log.Info(ctx, "leg finished",
			logging.String("waypoint", wp.Name),
			logging.String("outcome", outcome.String()),
			logging.Float64("lat", cam.Position.Latitude),
			logging.Float64("lon", cam.Position.Longitude),
			logging.Float64("alt", cam.Position.Altitude),
			logging.Int("redraws", viewer.redrawCount()),
		)
	}
}

// runTrack retargets the camera at the satellite's current sub-point on
// a fixed cadence without waiting for the previous flight to finish, so
// in-progress flights are superseded whenever the satellite outruns
// them.
func runTrack(ctx context.Context, log logging.Logger, animator *core.Animator, viewer *simViewer, tle1, tle2 string, runFor, every time.Duration) {
	sat := satellite.TLEToSat(tle1, tle2, satellite.GravityWGS72)

	deadline := time.Now().Add(runFor)
	for time.Now().Before(deadline) {
		lat, lon := subPoint(sat, time.Now().UTC())
		if err := animator.GoTo(core.Target{Latitude: lat, Longitude: lon}, nil); err != nil {
			panic(fmt.Errorf("track target: %w", err))
		}
		log.Info(ctx, "tracking sub-point",
			logging.Float64("lat", lat),
			logging.Float64("lon", lon),
			logging.Int("redraws", viewer.redrawCount()),
		)
		time.Sleep(every)
	}
	animator.Cancel()
}

// subPoint propagates the satellite to t and returns the geodetic
// latitude/longitude beneath it, in degrees.
func subPoint(sat satellite.Satellite, t time.Time) (lat, lon float64) {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(satellite.JDay(year, int(month), day, hour, min, sec))
	_, _, ll := satellite.ECIToLLA(posECI, gmst)

	const radToDeg = 180 / math.Pi
	lat = ll.Latitude * radToDeg
	lon = math.Mod(ll.Longitude*radToDeg+540, 360) - 180
	return lat, lon
}

func altitudeOr(alt *float64, fallback float64) float64 {
	if alt != nil {
		return *alt
	}
	return fallback
}
