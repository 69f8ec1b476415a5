package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

func TestEngineLoadDefaultScene(t *testing.T) {
	e := NewEngine()
	e.LoadDefaultScene("scene_demo")

	s := e.Scene()
	if s == nil || s.ID != "scene_demo" {
		t.Fatalf("scene = %+v", s)
	}

	refl, err := e.Reflections()
	if err != nil {
		t.Fatal(err)
	}
	// 2 objects * 16 images at depth 2 in a 4-mirror box, 16 viewer images.
	if len(refl.VirtualObjects) != 32 {
		t.Errorf("got %d virtual objects, want 32", len(refl.VirtualObjects))
	}
	if len(refl.VirtualViewers) != 16 {
		t.Errorf("got %d virtual viewers, want 16", len(refl.VirtualViewers))
	}
}

func TestEngineLoadSceneValidates(t *testing.T) {
	e := NewEngine()

	bad := scene.Scene{
		MaxDepth: 1,
		Mirrors:  []scene.MirrorSpec{{ID: "m", X1: 0, Y1: 0, X2: 10, Y2: 10}},
	}
	data, _ := json.Marshal(&bad)
	if err := e.LoadScene(string(data)); err == nil {
		t.Fatal("expected validation error for diagonal mirror")
	}

	bad = scene.Scene{MaxDepth: -1}
	data, _ = json.Marshal(&bad)
	if err := e.LoadScene(string(data)); err == nil {
		t.Fatal("expected validation error for negative maxDepth")
	}
}

func TestEngineTranslateObjectRecomputes(t *testing.T) {
	e := NewEngine()
	e.LoadDefaultScene("scene_demo")

	before, err := e.Reflections()
	if err != nil {
		t.Fatal(err)
	}
	firstBefore := before.VirtualObjects[0]

	if err := e.TranslateObject("obj_triangle", 20, 0); err != nil {
		t.Fatal(err)
	}

	after, err := e.Reflections()
	if err != nil {
		t.Fatal(err)
	}
	firstAfter := after.VirtualObjects[0]

	if firstAfter.ObjectID != firstBefore.ObjectID {
		t.Fatal("generation order changed across recompute")
	}
	// The default scene's first image is across the left (vertical)
	// mirror, so a +20 x move shifts the image by -20.
	if !pointsEqual(firstAfter.Vertices[0], scene.Point{X: firstBefore.Vertices[0].X - 20, Y: firstBefore.Vertices[0].Y}) {
		t.Errorf("image did not track the move: %+v -> %+v", firstBefore.Vertices[0], firstAfter.Vertices[0])
	}
}

func TestEngineMoveViewer(t *testing.T) {
	e := NewEngine()
	e.LoadDefaultScene("scene_demo")

	if err := e.MoveViewer(200, 200); err != nil {
		t.Fatal(err)
	}
	refl, err := e.Reflections()
	if err != nil {
		t.Fatal(err)
	}
	// Image across the left mirror (x=100) of viewer at (200,200).
	if !pointsEqual(refl.VirtualViewers[0].Position, scene.Point{X: 0, Y: 200}) {
		t.Errorf("viewer image = %+v, want {0 200}", refl.VirtualViewers[0].Position)
	}
}

func TestEngineAddRemoveObject(t *testing.T) {
	e := NewEngine()
	e.LoadDefaultScene("scene_demo")

	obj := scene.Object{
		ID:   "obj_new",
		Fill: "#00ff00",
		Vertices: []scene.Point{
			{X: 200, Y: 200}, {X: 220, Y: 200}, {X: 210, Y: 220},
		},
	}
	if err := e.AddObject(obj); err != nil {
		t.Fatal(err)
	}

	refl, err := e.Reflections()
	if err != nil {
		t.Fatal(err)
	}
	if len(refl.VirtualObjects) != 48 {
		t.Errorf("got %d virtual objects after add, want 48", len(refl.VirtualObjects))
	}

	if err := e.AddObject(scene.Object{ID: "degenerate", Vertices: []scene.Point{{X: 0, Y: 0}}}); err == nil {
		t.Error("expected error adding a 1-vertex object")
	}

	if err := e.RemoveObject("obj_new"); err != nil {
		t.Fatal(err)
	}
	if err := e.RemoveObject("obj_new"); !errors.Is(err, scene.ErrObjectNotFound) {
		t.Errorf("second remove: got %v, want ErrObjectNotFound", err)
	}

	refl, err = e.Reflections()
	if err != nil {
		t.Fatal(err)
	}
	if len(refl.VirtualObjects) != 32 {
		t.Errorf("got %d virtual objects after remove, want 32", len(refl.VirtualObjects))
	}
}

func TestEngineSetMaxDepth(t *testing.T) {
	e := NewEngine()
	e.LoadDefaultScene("scene_demo")

	if err := e.SetMaxDepth(-1); !errors.Is(err, ErrNegativeDepth) {
		t.Errorf("got %v, want ErrNegativeDepth", err)
	}

	if err := e.SetMaxDepth(0); err != nil {
		t.Fatal(err)
	}
	refl, err := e.Reflections()
	if err != nil {
		t.Fatal(err)
	}
	if len(refl.VirtualObjects) != 0 || len(refl.VirtualViewers) != 0 {
		t.Errorf("depth 0 produced %d/%d virtual entities, want none",
			len(refl.VirtualObjects), len(refl.VirtualViewers))
	}

	if err := e.SetMaxDepth(1); err != nil {
		t.Fatal(err)
	}
	refl, err = e.Reflections()
	if err != nil {
		t.Fatal(err)
	}
	if len(refl.VirtualObjects) != 8 {
		t.Errorf("depth 1: got %d virtual objects, want 8", len(refl.VirtualObjects))
	}
}

func TestEngineRenderEmptyWithoutScene(t *testing.T) {
	e := NewEngine()
	if got := e.Render(); got != "[]" {
		t.Errorf("Render() = %q, want []", got)
	}
	if got := e.HitTest(0, 0); got != "" {
		t.Errorf("HitTest = %q, want empty", got)
	}
}
