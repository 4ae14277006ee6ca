package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Waypoint is one stop in a flight plan. Altitude is optional; when
// omitted the animator derives it from the current framing.
type Waypoint struct {
	Name      string   `yaml:"name"`
	Latitude  float64  `yaml:"latitude"`
	Longitude float64  `yaml:"longitude"`
	Altitude  *float64 `yaml:"altitude"`
}

// Plan is a YAML flight plan: viewer setup plus an ordered list of
// waypoints to fly through.
type Plan struct {
	ViewportWidth  int      `yaml:"viewport_width"`
	FieldOfViewDeg float64  `yaml:"field_of_view_deg"`
	TravelTimeMs   int      `yaml:"travel_time_ms"`
	TickIntervalMs int      `yaml:"tick_interval_ms"`
	Start          Waypoint `yaml:"start"`
	Waypoints      []Waypoint `yaml:"waypoints"`
}

// LoadPlan reads and validates a YAML flight plan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flight plan: %w", err)
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse flight plan %q: %w", path, err)
	}
	plan.applyDefaults()
	if len(plan.Waypoints) == 0 {
		return nil, fmt.Errorf("flight plan %q has no waypoints", path)
	}
	return &plan, nil
}

func (p *Plan) applyDefaults() {
	if p.ViewportWidth <= 0 {
		p.ViewportWidth = 1024
	}
	if p.FieldOfViewDeg <= 0 {
		p.FieldOfViewDeg = 45
	}
	if p.TravelTimeMs <= 0 {
		p.TravelTimeMs = 3000
	}
	if p.TickIntervalMs <= 0 {
		p.TickIntervalMs = 20
	}
}

// TravelTime returns the plan's travel time as a duration.
func (p *Plan) TravelTime() time.Duration {
	return time.Duration(p.TravelTimeMs) * time.Millisecond
}

// TickInterval returns the plan's tick interval as a duration.
func (p *Plan) TickInterval() time.Duration {
	return time.Duration(p.TickIntervalMs) * time.Millisecond
}
