package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePlan(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	return path
}

func TestLoadPlanParsesWaypoints(t *testing.T) {
	path := writePlan(t, `
viewport_width: 800
field_of_view_deg: 60
travel_time_ms: 1500
tick_interval_ms: 10
start:
  name: start
  latitude: 10
  longitude: 20
  altitude: 2000000
waypoints:
  - name: everest
    latitude: 27.9881
    longitude: 86.9250
    altitude: 12000
  - name: drift
    latitude: -5
    longitude: 100
`)

	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if plan.ViewportWidth != 800 || plan.FieldOfViewDeg != 60 {
		t.Fatalf("viewer setup = (%d, %v), want (800, 60)", plan.ViewportWidth, plan.FieldOfViewDeg)
	}
	if got := plan.TravelTime(); got != 1500*time.Millisecond {
		t.Fatalf("TravelTime = %v, want 1.5s", got)
	}
	if got := plan.TickInterval(); got != 10*time.Millisecond {
		t.Fatalf("TickInterval = %v, want 10ms", got)
	}
	if len(plan.Waypoints) != 2 {
		t.Fatalf("waypoints = %d, want 2", len(plan.Waypoints))
	}
	first := plan.Waypoints[0]
	if first.Name != "everest" || first.Altitude == nil || *first.Altitude != 12000 {
		t.Fatalf("first waypoint = %+v, want everest at 12000m", first)
	}
	if plan.Waypoints[1].Altitude != nil {
		t.Fatalf("second waypoint altitude should stay unset when omitted")
	}
}

func TestLoadPlanAppliesDefaults(t *testing.T) {
	path := writePlan(t, `
start:
  latitude: 0
  longitude: 0
waypoints:
  - latitude: 45
    longitude: 45
`)

	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if plan.ViewportWidth != 1024 {
		t.Fatalf("default viewport width = %d, want 1024", plan.ViewportWidth)
	}
	if plan.FieldOfViewDeg != 45 {
		t.Fatalf("default field of view = %v, want 45", plan.FieldOfViewDeg)
	}
	if plan.TravelTime() != 3*time.Second {
		t.Fatalf("default travel time = %v, want 3s", plan.TravelTime())
	}
	if plan.TickInterval() != 20*time.Millisecond {
		t.Fatalf("default tick interval = %v, want 20ms", plan.TickInterval())
	}
}

func TestLoadPlanRejectsEmptyWaypoints(t *testing.T) {
	path := writePlan(t, `
start:
  latitude: 0
  longitude: 0
`)
	if _, err := LoadPlan(path); err == nil {
		t.Fatal("expected error for plan with no waypoints")
	}
}

func TestLoadPlanRejectsMissingFile(t *testing.T) {
	if _, err := LoadPlan(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing plan file")
	}
}
