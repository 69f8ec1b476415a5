package engine

import (
	"errors"
	"fmt"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

// ErrUnsupportedMirrorOrientation is returned when a mirror segment is not
// axis-aligned. Mirrors are validated at construction so the recursive
// engine can treat orientation as an invariant.
var ErrUnsupportedMirrorOrientation = errors.New("mirror is not axis-aligned")

// Mirror is an axis-aligned reflecting segment. It is a value type; mirror
// identity within a scene is the index into the mirror slice, never
// coordinate equality, so two mirrors with identical coordinates remain
// distinct for chain-adjacency purposes.
type Mirror struct {
	X1, Y1, X2, Y2 float64
}

// NewMirror validates orientation and returns the mirror. Exactly one of
// vertical (x1==x2) or horizontal (y1==y2) must hold; a zero-length segment
// satisfies both and is rejected as well.
func NewMirror(x1, y1, x2, y2 float64) (Mirror, error) {
	m := Mirror{X1: x1, Y1: y1, X2: x2, Y2: y2}
	if m.IsVertical() == m.IsHorizontal() {
		return Mirror{}, ErrUnsupportedMirrorOrientation
	}
	return m, nil
}

// MirrorsFromScene converts the scene's mirror specs into engine mirrors,
// preserving order (and therefore identity indices).
func MirrorsFromScene(s *scene.Scene) ([]Mirror, error) {
	mirrors := make([]Mirror, 0, len(s.Mirrors))
	for _, ms := range s.Mirrors {
		m, err := NewMirror(ms.X1, ms.Y1, ms.X2, ms.Y2)
		if err != nil {
			return nil, fmt.Errorf("mirror %s: %w", ms.ID, err)
		}
		mirrors = append(mirrors, m)
	}
	return mirrors, nil
}

// IsVertical reports whether the mirror lies on a line x = const.
func (m Mirror) IsVertical() bool {
	return m.X1 == m.X2 && m.Y1 != m.Y2
}

// IsHorizontal reports whether the mirror lies on a line y = const.
func (m Mirror) IsHorizontal() bool {
	return m.Y1 == m.Y2 && m.X1 != m.X2
}

// Axis returns the coordinate that defines the reflecting line: x for a
// vertical mirror, y for a horizontal one.
func (m Mirror) Axis() float64 {
	if m.IsVertical() {
		return m.X1
	}
	return m.Y1
}
