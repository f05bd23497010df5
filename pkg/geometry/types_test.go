package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestDistToSegmentSquared(t *testing.T) {
	tests := []struct {
		name    string
		p, v, w Point2D
		want    float64
	}{
		{
			name: "perpendicular above midpoint",
			p:    Point2D{X: 5, Y: 3},
			v:    Point2D{X: 0, Y: 0},
			w:    Point2D{X: 10, Y: 0},
			want: 9,
		},
		{
			name: "clamped before start",
			p:    Point2D{X: -3, Y: 4},
			v:    Point2D{X: 0, Y: 0},
			w:    Point2D{X: 10, Y: 0},
			want: 25,
		},
		{
			name: "clamped past end",
			p:    Point2D{X: 13, Y: 4},
			v:    Point2D{X: 0, Y: 0},
			w:    Point2D{X: 10, Y: 0},
			want: 25,
		},
		{
			name: "on the segment",
			p:    Point2D{X: 4, Y: 0},
			v:    Point2D{X: 0, Y: 0},
			w:    Point2D{X: 10, Y: 0},
			want: 0,
		},
		{
			name: "degenerate segment",
			p:    Point2D{X: 3, Y: 4},
			v:    Point2D{X: 0, Y: 0},
			w:    Point2D{X: 0, Y: 0},
			want: 25,
		},
		{
			name: "diagonal segment",
			p:    Point2D{X: 0, Y: 2},
			v:    Point2D{X: -1, Y: -1},
			w:    Point2D{X: 1, Y: 1},
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistToSegmentSquared(tt.p, tt.v, tt.w)
			if !scalar.EqualWithinAbs(got, tt.want, 1e-12) {
				t.Errorf("DistToSegmentSquared() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAffineInverseRoundTrip(t *testing.T) {
	transforms := []struct {
		name string
		tr   AffineTransform
	}{
		{"identity", Identity()},
		{"translation", Translation(12.5, -7)},
		{"rotation", Rotation(math.Pi / 3)},
		{"scaling", Scaling(2.5, 2.5)},
		{"view-like", Scaling(1.25, 1.25).Compose(Translation(-40, -60))},
	}
	points := []Point2D{
		{X: 0, Y: 0},
		{X: 100, Y: 130},
		{X: -3.5, Y: 42.25},
	}

	for _, tt := range transforms {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.tr.Inverse()
			if !ok {
				t.Fatal("Inverse() not invertible")
			}
			for _, p := range points {
				back := inv.Apply(tt.tr.Apply(p))
				if !scalar.EqualWithinAbs(back.X, p.X, 1e-9) ||
					!scalar.EqualWithinAbs(back.Y, p.Y, 1e-9) {
					t.Errorf("round trip of %v = %v", p, back)
				}
			}
		})
	}
}

func TestAffineInverseSingular(t *testing.T) {
	if _, ok := Scaling(0, 0).Inverse(); ok {
		t.Error("zero scaling reported invertible")
	}
}

func TestRectExpandContains(t *testing.T) {
	r := NewRect(10, 10, 20, 10)
	e := r.Expand(5)

	if e.X != 5 || e.Y != 5 || e.Width != 30 || e.Height != 20 {
		t.Fatalf("Expand() = %+v", e)
	}
	if !e.Contains(Point2D{X: 6, Y: 6}) {
		t.Error("expanded rect should contain (6,6)")
	}
	if r.Contains(Point2D{X: 6, Y: 6}) {
		t.Error("original rect should not contain (6,6)")
	}
}

func TestRectIntersects(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlapping", NewRect(5, 5, 10, 10), true},
		{"disjoint", NewRect(20, 20, 5, 5), false},
		{"touching edges only", NewRect(10, 0, 5, 5), false},
		{"contained", NewRect(2, 2, 3, 3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{X: 3, Y: 7}, {X: -1, Y: 2}, {X: 5, Y: 4}}
	box := BoundingBox(pts)
	want := Rect{X: -1, Y: 2, Width: 6, Height: 5}
	if box != want {
		t.Errorf("BoundingBox() = %+v, want %+v", box, want)
	}

	if empty := BoundingBox(nil); empty != (Rect{}) {
		t.Errorf("BoundingBox(nil) = %+v", empty)
	}

	single := BoundingBox([]Point2D{{X: 4, Y: 9}})
	if single.Width != 0 || single.Height != 0 || single.X != 4 || single.Y != 9 {
		t.Errorf("BoundingBox(single) = %+v", single)
	}
}
