package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FlightCollector bundles Prometheus metrics for camera flights and
// provides a ready-to-use /metrics handler. It implements the
// animator's MetricsRecorder contract; all recorder methods are
// nil-safe so a disabled collector can be passed around freely.
type FlightCollector struct {
	gatherer prometheus.Gatherer

	FlightsStarted prometheus.Counter
	FlightsEnded   *prometheus.CounterVec
	ActiveFlights  prometheus.Gauge
	TickDurations  prometheus.Histogram
	FlightSeconds  *prometheus.HistogramVec
}

// NewFlightCollector registers flight Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry
// when nil.
func NewFlightCollector(reg prometheus.Registerer) (*FlightCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	started, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "camera_flights_started_total",
		Help: "Total number of camera flights started.",
	}), "camera_flights_started_total")
	if err != nil {
		return nil, err
	}

	ended := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "camera_flights_ended_total",
		Help: "Total number of camera flights ended, labeled by outcome.",
	}, []string{"outcome"})
	ended, err = registerCounterVec(reg, ended, "camera_flights_ended_total")
	if err != nil {
		return nil, err
	}

	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "camera_flights_active",
		Help: "Number of camera flights currently in progress.",
	}), "camera_flights_active")
	if err != nil {
		return nil, err
	}

	ticks, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "camera_flight_tick_duration_seconds",
		Help:    "Compute time of a single animation tick in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
	}), "camera_flight_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	seconds := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "camera_flight_duration_seconds",
		Help:    "Wall-clock flight duration in seconds, labeled by outcome.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 4, 5, 10},
	}, []string{"outcome"})
	seconds, err = registerHistogramVec(reg, seconds, "camera_flight_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &FlightCollector{
		gatherer:       gatherer,
		FlightsStarted: started,
		FlightsEnded:   ended,
		ActiveFlights:  active,
		TickDurations:  ticks,
		FlightSeconds:  seconds,
	}, nil
}

// FlightStarted records the start of a flight.
func (c *FlightCollector) FlightStarted() {
	if c == nil {
		return
	}
	if c.FlightsStarted != nil {
		c.FlightsStarted.Inc()
	}
	if c.ActiveFlights != nil {
		c.ActiveFlights.Inc()
	}
}

// FlightEnded records a flight's terminal outcome and duration.
func (c *FlightCollector) FlightEnded(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.FlightsEnded != nil {
		c.FlightsEnded.WithLabelValues(outcome).Inc()
	}
	if c.ActiveFlights != nil {
		c.ActiveFlights.Dec()
	}
	if c.FlightSeconds != nil {
		c.FlightSeconds.WithLabelValues(outcome).Observe(elapsed.Seconds())
	}
}

// TickObserved records the compute time of one animation tick.
func (c *FlightCollector) TickObserved(d time.Duration) {
	if c == nil || c.TickDurations == nil {
		return
	}
	c.TickDurations.Observe(d.Seconds())
}

// Handler exposes a ready-to-use /metrics handler.
func (c *FlightCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
