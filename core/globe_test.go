package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/globeviewer/model"
)

func TestSphereGlobeCartesianAt(t *testing.T) {
	g := NewSphereGlobe(0)

	p := g.CartesianAt(model.Position{Latitude: 0, Longitude: 0})
	if math.Abs(p.X-MeanEarthRadiusM) > 1e-6 || math.Abs(p.Y) > 1e-6 || math.Abs(p.Z) > 1e-6 {
		t.Fatalf("equator/prime meridian point = %+v, want on +X axis", p)
	}

	p = g.CartesianAt(model.Position{Latitude: 90, Longitude: 0, Altitude: 1000})
	if math.Abs(p.Z-(MeanEarthRadiusM+1000)) > 1e-6 {
		t.Fatalf("north pole Z = %v, want radius+1000", p.Z)
	}

	// Chord between two surface points is shorter than the arc.
	a := g.CartesianAt(model.Position{Latitude: 0, Longitude: 0})
	b := g.CartesianAt(model.Position{Latitude: 0, Longitude: 90})
	chord := a.DistanceTo(b)
	want := MeanEarthRadiusM * math.Sqrt2
	if math.Abs(chord-want) > 1e-6 {
		t.Fatalf("quarter-arc chord = %v, want %v", chord, want)
	}
}

func TestCameraFromLookAtNoTilt(t *testing.T) {
	g := NewSphereGlobe(0)

	cam := g.CameraFromLookAt(model.LookAt{
		Position: model.Position{Latitude: 10, Longitude: 20, Altitude: 100},
		Range:    5000,
		Heading:  45,
	})
	if cam.Position.Latitude != 10 || cam.Position.Longitude != 20 {
		t.Fatalf("untilted camera at (%v, %v), want directly above look-at", cam.Position.Latitude, cam.Position.Longitude)
	}
	if math.Abs(cam.Position.Altitude-5100) > 1e-9 {
		t.Fatalf("untilted camera altitude %v, want 5100", cam.Position.Altitude)
	}
	if cam.Heading != 45 {
		t.Fatalf("heading %v, want carried through", cam.Heading)
	}
}

func TestCameraFromLookAtTiltedOffsetsEye(t *testing.T) {
	g := NewSphereGlobe(0)

	// Looking north with a 30 degree tilt: the eye sits south of the
	// look-at point, lower than the full range.
	cam := g.CameraFromLookAt(model.LookAt{
		Position: model.Position{Latitude: 0, Longitude: 0},
		Range:    100000,
		Heading:  0,
		Tilt:     30,
	})
	if cam.Position.Latitude >= 0 {
		t.Fatalf("tilted camera latitude %v, want south of look-at", cam.Position.Latitude)
	}
	wantAlt := 100000 * math.Cos(30*math.Pi/180)
	if math.Abs(cam.Position.Altitude-wantAlt) > 1e-6 {
		t.Fatalf("tilted camera altitude %v, want %v", cam.Position.Altitude, wantAlt)
	}

	// The ground offset matches the horizontal component of the range.
	g2 := NewGreatCircle(MeanEarthRadiusM)
	offset := g2.Distance(model.Position{}, cam.Position) * MeanEarthRadiusM
	wantOffset := 100000 * math.Sin(30*math.Pi/180)
	if math.Abs(offset-wantOffset) > 1 {
		t.Fatalf("ground offset %v m, want %v m", offset, wantOffset)
	}
}

func TestPixelSize(t *testing.T) {
	// A 45 degree field of view across 1000 pixels at 10km: the visible
	// ground span is 2*10000*tan(22.5deg).
	got := PixelSize(10000, 45, 1000)
	want := 2 * 10000 * math.Tan(22.5*math.Pi/180) / 1000
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("PixelSize = %v, want %v", got, want)
	}
	if PixelSize(10000, 45, 0) != 0 {
		t.Fatal("PixelSize with zero viewport width should be 0")
	}
}
