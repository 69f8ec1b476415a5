package engine

import "github.com/mirrorbox/mirrorbox/backend-go/internal/scene"

// ReflectPoint mirrors a point across an axis-aligned mirror line:
// x' = 2*axis - x for a vertical mirror, y' = 2*axis - y for a horizontal
// one. Mirrors built through NewMirror are always one or the other; if a
// hand-built Mirror value is neither, the point is returned unchanged —
// callers that cannot rely on the construction invariant should use
// ReflectPointChecked instead, because an unreflected chain step silently
// corrupts every chain built on top of it.
func ReflectPoint(p scene.Point, m Mirror) scene.Point {
	switch {
	case m.IsVertical():
		return scene.Point{X: 2*m.X1 - p.X, Y: p.Y}
	case m.IsHorizontal():
		return scene.Point{X: p.X, Y: 2*m.Y1 - p.Y}
	default:
		return p
	}
}

// ReflectPointChecked is ReflectPoint with the orientation check surfaced
// as an error instead of a silent identity fallback.
func ReflectPointChecked(p scene.Point, m Mirror) (scene.Point, error) {
	if m.IsVertical() == m.IsHorizontal() {
		return p, ErrUnsupportedMirrorOrientation
	}
	return ReflectPoint(p, m), nil
}

// ReflectPolygon maps ReflectPoint over every vertex, preserving vertex
// order so edge connectivity survives. The reflection flips winding, which
// is fine — only the boundary is rendered.
func ReflectPolygon(vertices []scene.Point, m Mirror) []scene.Point {
	out := make([]scene.Point, len(vertices))
	for i, v := range vertices {
		out[i] = ReflectPoint(v, m)
	}
	return out
}
