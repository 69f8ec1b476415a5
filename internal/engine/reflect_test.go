package engine

import (
	"math"
	"testing"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

const epsilon = 1e-9

func mustMirror(t *testing.T, x1, y1, x2, y2 float64) Mirror {
	t.Helper()
	m, err := NewMirror(x1, y1, x2, y2)
	if err != nil {
		t.Fatalf("NewMirror(%g,%g,%g,%g): %v", x1, y1, x2, y2, err)
	}
	return m
}

func pointsEqual(a, b scene.Point) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

func TestNewMirrorOrientation(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		wantErr        bool
		vertical       bool
	}{
		{"vertical", 100, 0, 100, 100, false, true},
		{"horizontal", 0, 50, 100, 50, false, false},
		{"diagonal", 0, 0, 100, 100, true, false},
		{"zero length", 10, 10, 10, 10, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMirror(tt.x1, tt.y1, tt.x2, tt.y2)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got mirror %+v", m)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.IsVertical() != tt.vertical {
				t.Errorf("IsVertical() = %v, want %v", m.IsVertical(), tt.vertical)
			}
			if m.IsHorizontal() == tt.vertical {
				t.Errorf("IsHorizontal() = %v, want %v", m.IsHorizontal(), !tt.vertical)
			}
		})
	}
}

func TestReflectPointVertical(t *testing.T) {
	// Mirror x=100, point (40,50) reflects to (160,50).
	m := mustMirror(t, 100, 0, 100, 100)
	got := ReflectPoint(scene.Point{X: 40, Y: 50}, m)
	want := scene.Point{X: 160, Y: 50}
	if !pointsEqual(got, want) {
		t.Errorf("ReflectPoint = %+v, want %+v", got, want)
	}
}

func TestReflectPointHorizontal(t *testing.T) {
	// Mirror y=50, point (40,20) reflects to (40,80).
	m := mustMirror(t, 0, 50, 100, 50)
	got := ReflectPoint(scene.Point{X: 40, Y: 20}, m)
	want := scene.Point{X: 40, Y: 80}
	if !pointsEqual(got, want) {
		t.Errorf("ReflectPoint = %+v, want %+v", got, want)
	}
}

func TestReflectPointInvolution(t *testing.T) {
	mirrors := []Mirror{
		mustMirror(t, 100, 0, 100, 100),
		mustMirror(t, 0, 50, 100, 50),
		mustMirror(t, -3.5, 0, -3.5, 10),
	}
	points := []scene.Point{
		{X: 40, Y: 50},
		{X: 0, Y: 0},
		{X: -17.25, Y: 99.5},
		{X: 100, Y: 50},
	}

	for _, m := range mirrors {
		for _, p := range points {
			twice := ReflectPoint(ReflectPoint(p, m), m)
			if !pointsEqual(twice, p) {
				t.Errorf("mirror %+v: double reflection of %+v gives %+v", m, p, twice)
			}
		}
	}
}

func TestReflectPointFixedLine(t *testing.T) {
	vertical := mustMirror(t, 100, 0, 100, 100)
	onLine := scene.Point{X: 100, Y: 73}
	if got := ReflectPoint(onLine, vertical); !pointsEqual(got, onLine) {
		t.Errorf("point on mirror line moved: %+v", got)
	}

	horizontal := mustMirror(t, 0, 50, 100, 50)
	onLine = scene.Point{X: -5, Y: 50}
	if got := ReflectPoint(onLine, horizontal); !pointsEqual(got, onLine) {
		t.Errorf("point on mirror line moved: %+v", got)
	}
}

func TestReflectPointPreservesDistance(t *testing.T) {
	m := mustMirror(t, 30, 0, 30, 10)
	p := scene.Point{X: 40, Y: 50}
	q := scene.Point{X: -12, Y: 7.5}

	dist := func(a, b scene.Point) float64 {
		return math.Hypot(a.X-b.X, a.Y-b.Y)
	}

	before := dist(p, q)
	after := dist(ReflectPoint(p, m), ReflectPoint(q, m))
	if math.Abs(before-after) > epsilon {
		t.Errorf("distance changed: %g -> %g", before, after)
	}
}

func TestReflectPointCheckedRejectsDegenerate(t *testing.T) {
	// A Mirror built by hand can bypass NewMirror's validation.
	bad := Mirror{X1: 0, Y1: 0, X2: 100, Y2: 100}
	p := scene.Point{X: 40, Y: 20}

	got, err := ReflectPointChecked(p, bad)
	if err == nil {
		t.Fatal("expected ErrUnsupportedMirrorOrientation")
	}
	// The fallback returns the input unchanged.
	if !pointsEqual(got, p) {
		t.Errorf("fallback result = %+v, want input %+v", got, p)
	}
	if got := ReflectPoint(p, bad); !pointsEqual(got, p) {
		t.Errorf("ReflectPoint fallback = %+v, want input %+v", got, p)
	}
}

func TestReflectPolygonPreservesOrder(t *testing.T) {
	m := mustMirror(t, 100, 0, 100, 100)
	vertices := []scene.Point{
		{X: 10, Y: 10},
		{X: 20, Y: 10},
		{X: 15, Y: 30},
	}

	got := ReflectPolygon(vertices, m)
	if len(got) != len(vertices) {
		t.Fatalf("got %d vertices, want %d", len(got), len(vertices))
	}
	for i, v := range vertices {
		want := ReflectPoint(v, m)
		if !pointsEqual(got[i], want) {
			t.Errorf("vertex %d = %+v, want %+v", i, got[i], want)
		}
	}

	// Input must not be mutated.
	if vertices[0].X != 10 {
		t.Error("ReflectPolygon mutated its input")
	}
}
