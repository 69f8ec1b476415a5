package scene

import (
	"errors"
	"fmt"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrNoViewer       = errors.New("scene has no viewer")
)

// Point is a 2D coordinate in scene space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MirrorSpec describes one axis-aligned mirror segment as stored in the
// scene document. Exactly one of x1==x2 (vertical) or y1==y2 (horizontal)
// must hold; Validate rejects anything else.
type MirrorSpec struct {
	ID string  `json:"id"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Object is a real polygonal object. Vertex order defines the edges.
type Object struct {
	ID       string  `json:"id"`
	Vertices []Point `json:"vertices"`
	Fill     string  `json:"fill"`
}

// Viewer is the observer inside the mirror box.
type Viewer struct {
	ID       string  `json:"id"`
	Position Point   `json:"position"`
	Radius   float64 `json:"radius"`
	Fill     string  `json:"fill"`
}

// Scene is the authoritative document: the mirror box, the real objects,
// the viewer, and the reflection depth bound. Mirror order is significant
// only for identity — reflection chains refer to mirrors by index, so two
// mirrors with identical coordinates are still distinct entries.
type Scene struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Background string       `json:"background"`
	MaxDepth   int          `json:"maxDepth"`
	Mirrors    []MirrorSpec `json:"mirrors"`
	Objects    []Object     `json:"objects"`
	Viewer     *Viewer      `json:"viewer"`
}

// Validate checks the structural invariants the reflection engine relies on.
// It is called once per load/apply so the engine never has to re-check them
// mid-recursion.
func (s *Scene) Validate() error {
	if s.MaxDepth < 0 {
		return fmt.Errorf("maxDepth must be >= 0, got %d", s.MaxDepth)
	}
	for _, m := range s.Mirrors {
		vertical := m.X1 == m.X2
		horizontal := m.Y1 == m.Y2
		if vertical == horizontal {
			return fmt.Errorf("mirror %s is not axis-aligned", m.ID)
		}
	}
	for _, obj := range s.Objects {
		if len(obj.Vertices) < 3 {
			return fmt.Errorf("object %s has %d vertices, need at least 3", obj.ID, len(obj.Vertices))
		}
	}
	if s.Viewer != nil && s.Viewer.Radius <= 0 {
		return fmt.Errorf("viewer radius must be positive, got %g", s.Viewer.Radius)
	}
	return nil
}

// FindObject returns a pointer into the scene's object list, or nil.
func (s *Scene) FindObject(id string) *Object {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			return &s.Objects[i]
		}
	}
	return nil
}

// AddObject appends a real object to the scene.
func (s *Scene) AddObject(obj Object) {
	s.Objects = append(s.Objects, obj)
}

// RemoveObject deletes an object by ID.
func (s *Scene) RemoveObject(id string) error {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
			return nil
		}
	}
	return ErrObjectNotFound
}

// TranslateObject moves every vertex of an object by (dx, dy).
func (s *Scene) TranslateObject(id string, dx, dy float64) error {
	obj := s.FindObject(id)
	if obj == nil {
		return ErrObjectNotFound
	}
	for i := range obj.Vertices {
		obj.Vertices[i].X += dx
		obj.Vertices[i].Y += dy
	}
	return nil
}

// MoveViewer repositions the viewer.
func (s *Scene) MoveViewer(p Point) error {
	if s.Viewer == nil {
		return ErrNoViewer
	}
	s.Viewer.Position = p
	return nil
}

// ClearObjects removes every real object but keeps mirrors and viewer.
func (s *Scene) ClearObjects() {
	s.Objects = nil
}
