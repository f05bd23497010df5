package view

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"inkmark/pkg/geometry"
)

func TestScreenCanvasRoundTrip(t *testing.T) {
	states := []struct {
		name string
		v    State
	}{
		{"default", Default()},
		{"zoomed", State{Zoom: 2.5, DeviceScale: 1}},
		{"panned", State{Zoom: 1, Offset: geometry.Point2D{X: 120, Y: -45}, DeviceScale: 1}},
		{"zoomed and panned", State{Zoom: 0.5, Offset: geometry.Point2D{X: 33.3, Y: 7.7}, DeviceScale: 2}},
	}
	points := []geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: 130}, {X: -20, Y: 55.5}}

	for _, tt := range states {
		t.Run(tt.name, func(t *testing.T) {
			for _, p := range points {
				back := tt.v.ScreenToCanvas(tt.v.CanvasToScreen(p))
				if !scalar.EqualWithinAbs(back.X, p.X, 1e-9) ||
					!scalar.EqualWithinAbs(back.Y, p.Y, 1e-9) {
					t.Errorf("round trip of %v = %v", p, back)
				}
			}
		})
	}
}

func TestCanvasToScreenFormula(t *testing.T) {
	v := State{Zoom: 2, Offset: geometry.Point2D{X: 10, Y: 20}, DeviceScale: 1}
	got := v.CanvasToScreen(geometry.Point2D{X: 60, Y: 70})
	if got.X != 100 || got.Y != 100 {
		t.Errorf("CanvasToScreen = %v, want (100, 100)", got)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		v    State
		want bool
	}{
		{"default", Default(), true},
		{"zoom too small", State{Zoom: 0.01, DeviceScale: 1}, false},
		{"zoom too large", State{Zoom: 50, DeviceScale: 1}, false},
		{"nan offset", State{Zoom: 1, Offset: geometry.Point2D{X: math.NaN()}, DeviceScale: 1}, false},
		{"inf zoom", State{Zoom: math.Inf(1), DeviceScale: 1}, false},
		{"zero device scale", State{Zoom: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampZoom(t *testing.T) {
	if got := ClampZoom(0.001); got != MinZoom {
		t.Errorf("ClampZoom(0.001) = %v", got)
	}
	if got := ClampZoom(99); got != MaxZoom {
		t.Errorf("ClampZoom(99) = %v", got)
	}
	if got := ClampZoom(1.7); got != 1.7 {
		t.Errorf("ClampZoom(1.7) = %v", got)
	}
}
