package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestFlightCollectorCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewFlightCollector(reg)
	if err != nil {
		t.Fatalf("NewFlightCollector: %v", err)
	}

	collector.FlightStarted()
	collector.FlightStarted()
	collector.FlightEnded("completed", 3*time.Second)
	collector.FlightEnded("superseded", 500*time.Millisecond)
	collector.TickObserved(200 * time.Microsecond)

	if got := testutil.ToFloat64(collector.FlightsStarted); got != 2 {
		t.Fatalf("camera_flights_started_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.FlightsEnded.WithLabelValues("completed")); got != 1 {
		t.Fatalf("completed flights = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.FlightsEnded.WithLabelValues("superseded")); got != 1 {
		t.Fatalf("superseded flights = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.ActiveFlights); got != 0 {
		t.Fatalf("camera_flights_active = %v, want 0 after both flights ended", got)
	}

	if count := histogramSampleCount(t, reg, "camera_flight_duration_seconds", map[string]string{
		"outcome": "completed",
	}); count != 1 {
		t.Fatalf("camera_flight_duration_seconds sample_count = %d, want 1", count)
	}
	if count := histogramSampleCount(t, reg, "camera_flight_tick_duration_seconds", nil); count != 1 {
		t.Fatalf("camera_flight_tick_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestFlightCollectorNilSafe(t *testing.T) {
	var collector *FlightCollector
	collector.FlightStarted()
	collector.FlightEnded("completed", time.Second)
	collector.TickObserved(time.Millisecond)
}

func TestFlightCollectorReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewFlightCollector(reg)
	if err != nil {
		t.Fatalf("NewFlightCollector first: %v", err)
	}
	second, err := NewFlightCollector(reg)
	if err != nil {
		t.Fatalf("NewFlightCollector second: %v", err)
	}

	first.FlightStarted()
	second.FlightStarted()
	if got := testutil.ToFloat64(second.FlightsStarted); got != 2 {
		t.Fatalf("shared counter = %v, want 2", got)
	}
}

func TestMetricsHandlerExposesFlightSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewFlightCollector(reg)
	if err != nil {
		t.Fatalf("NewFlightCollector: %v", err)
	}
	collector.FlightStarted()
	collector.FlightEnded("cancelled", time.Second)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	body := rr.Body.String()
	for _, series := range []string{
		"camera_flights_started_total",
		`camera_flights_ended_total{outcome="cancelled"}`,
		"camera_flights_active",
	} {
		if !strings.Contains(body, series) {
			t.Errorf("metrics output missing %s", series)
		}
	}
}

func histogramSampleCount(t *testing.T, g prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m.GetLabel(), labels) {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(want) == 0 {
		return true
	}
	seen := make(map[string]string, len(got))
	for _, lp := range got {
		seen[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if seen[k] != v {
			return false
		}
	}
	return true
}
