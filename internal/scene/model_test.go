package scene

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scene)
		wantErr bool
	}{
		{"default scene", func(s *Scene) {}, false},
		{"negative depth", func(s *Scene) { s.MaxDepth = -1 }, true},
		{"diagonal mirror", func(s *Scene) { s.Mirrors[0] = MirrorSpec{ID: "m", X1: 0, Y1: 0, X2: 10, Y2: 10} }, true},
		{"zero-length mirror", func(s *Scene) { s.Mirrors[0] = MirrorSpec{ID: "m", X1: 5, Y1: 5, X2: 5, Y2: 5} }, true},
		{"too few vertices", func(s *Scene) { s.Objects[0].Vertices = s.Objects[0].Vertices[:2] }, true},
		{"zero viewer radius", func(s *Scene) { s.Viewer.Radius = 0 }, true},
		{"no viewer", func(s *Scene) { s.Viewer = nil }, false},
		{"no mirrors", func(s *Scene) { s.Mirrors = nil }, false},
		{"depth zero", func(s *Scene) { s.MaxDepth = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDefaultScene("scene_test")
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTranslateObject(t *testing.T) {
	s := NewDefaultScene("scene_test")
	orig := make([]Point, len(s.Objects[0].Vertices))
	copy(orig, s.Objects[0].Vertices)

	if err := s.TranslateObject("obj_triangle", 5, -3); err != nil {
		t.Fatal(err)
	}
	for i, v := range s.Objects[0].Vertices {
		if v.X != orig[i].X+5 || v.Y != orig[i].Y-3 {
			t.Errorf("vertex %d = %+v, want {%g %g}", i, v, orig[i].X+5, orig[i].Y-3)
		}
	}

	if err := s.TranslateObject("nope", 1, 1); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("got %v, want ErrObjectNotFound", err)
	}
}

func TestMoveViewer(t *testing.T) {
	s := NewDefaultScene("scene_test")
	if err := s.MoveViewer(Point{X: 1, Y: 2}); err != nil {
		t.Fatal(err)
	}
	if s.Viewer.Position != (Point{X: 1, Y: 2}) {
		t.Errorf("viewer position = %+v", s.Viewer.Position)
	}

	s.Viewer = nil
	if err := s.MoveViewer(Point{}); !errors.Is(err, ErrNoViewer) {
		t.Errorf("got %v, want ErrNoViewer", err)
	}
}

func TestAddRemoveClear(t *testing.T) {
	s := NewDefaultScene("scene_test")
	n := len(s.Objects)

	s.AddObject(Object{ID: "obj_x", Vertices: []Point{{}, {X: 1}, {Y: 1}}})
	if len(s.Objects) != n+1 {
		t.Fatalf("got %d objects, want %d", len(s.Objects), n+1)
	}

	if err := s.RemoveObject("obj_x"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveObject("obj_x"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("got %v, want ErrObjectNotFound", err)
	}

	s.ClearObjects()
	if len(s.Objects) != 0 {
		t.Errorf("ClearObjects left %d objects", len(s.Objects))
	}
	if s.Viewer == nil || len(s.Mirrors) == 0 {
		t.Error("ClearObjects must keep viewer and mirrors")
	}
}
