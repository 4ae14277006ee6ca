package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/globeviewer/model"
)

func TestGreatCircleDistanceQuarterArc(t *testing.T) {
	g := NewGreatCircle(MeanEarthRadiusM)

	a := model.Position{Latitude: 0, Longitude: 0}
	b := model.Position{Latitude: 0, Longitude: 90}
	if got := g.Distance(a, b); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Fatalf("Distance = %v rad, want pi/2", got)
	}
	if got := g.Distance(a, a); got != 0 {
		t.Fatalf("Distance to self = %v, want 0", got)
	}
}

func TestGreatCircleAzimuthCardinal(t *testing.T) {
	g := NewGreatCircle(MeanEarthRadiusM)
	origin := model.Position{Latitude: 0, Longitude: 0}

	cases := []struct {
		to   model.Position
		want float64
	}{
		{model.Position{Latitude: 10, Longitude: 0}, 0},   // north
		{model.Position{Latitude: 0, Longitude: 10}, 90},  // east
		{model.Position{Latitude: -10, Longitude: 0}, 180}, // south
	}
	for _, tc := range cases {
		got := g.Azimuth(origin, tc.to)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("Azimuth to (%v, %v) = %v, want %v", tc.to.Latitude, tc.to.Longitude, got, tc.want)
		}
	}
}

func TestGreatCircleDestinationRoundTrip(t *testing.T) {
	g := NewGreatCircle(MeanEarthRadiusM)

	a := model.Position{Latitude: 35.6762, Longitude: 139.6503}
	b := model.Position{Latitude: 51.5072, Longitude: -0.1276}

	got := g.Destination(a, g.Azimuth(a, b), g.Distance(a, b))
	if off := g.Distance(got, b); off > 1e-9 {
		t.Fatalf("round trip landed %v rad off target", off)
	}
}

func TestGreatCircleNegativeDistanceMovesBackwards(t *testing.T) {
	g := NewGreatCircle(MeanEarthRadiusM)
	origin := model.Position{Latitude: 0, Longitude: 0}

	forward := g.Destination(origin, 90, 0.01)
	backward := g.Destination(origin, 90, -0.01)
	if forward.Longitude <= origin.Longitude {
		t.Fatalf("forward destination longitude %v, want > 0", forward.Longitude)
	}
	if backward.Longitude >= origin.Longitude {
		t.Fatalf("backward destination longitude %v, want < 0", backward.Longitude)
	}
}
