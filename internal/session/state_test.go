package session

import (
	"errors"
	"testing"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/engine"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

func newTestState(t *testing.T) *SceneState {
	t.Helper()
	st, err := NewSceneState(scene.NewDefaultScene("scene_test"), 4)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestApplyTranslate(t *testing.T) {
	st := newTestState(t)

	origX := st.Scene().Objects[0].Vertices[0].X
	seq, err := st.Apply(Operation{
		ID:       "op_1",
		Type:     OpObjectTranslate,
		ObjectID: "obj_triangle",
		DX:       15,
		DY:       -5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if seq != 1 {
		t.Errorf("serverSeq = %d, want 1", seq)
	}
	if got := st.Scene().Objects[0].Vertices[0].X; got != origX+15 {
		t.Errorf("vertex x = %g, want %g", got, origX+15)
	}
	if !st.Dirty() {
		t.Error("state not marked dirty after mutation")
	}
}

func TestApplyTranslateUnknownObject(t *testing.T) {
	st := newTestState(t)

	_, err := st.Apply(Operation{Type: OpObjectTranslate, ObjectID: "nope"})
	if !errors.Is(err, scene.ErrObjectNotFound) {
		t.Errorf("got %v, want ErrObjectNotFound", err)
	}
	if st.ServerSeq() != 0 {
		t.Error("failed op must not advance serverSeq")
	}
	if st.Dirty() {
		t.Error("failed op must not mark state dirty")
	}
}

func TestApplyViewerMoveUpdatesReflections(t *testing.T) {
	st := newTestState(t)

	if _, err := st.Apply(Operation{
		Type:     OpViewerMove,
		Position: &scene.Point{X: 200, Y: 200},
	}); err != nil {
		t.Fatal(err)
	}

	refl, err := st.Reflections()
	if err != nil {
		t.Fatal(err)
	}
	// First viewer image is across the left mirror at x=100.
	got := refl.VirtualViewers[0].Position
	if got.X != 0 || got.Y != 200 {
		t.Errorf("viewer image = %+v, want {0 200}", got)
	}
}

func TestApplyAddRemoveObject(t *testing.T) {
	st := newTestState(t)

	obj := &scene.Object{
		Fill: "#00ff00",
		Vertices: []scene.Point{
			{X: 200, Y: 200}, {X: 220, Y: 200}, {X: 210, Y: 220},
		},
	}
	if _, err := st.Apply(Operation{Type: OpObjectAdd, Object: obj}); err != nil {
		t.Fatal(err)
	}
	if len(st.Scene().Objects) != 3 {
		t.Fatalf("got %d objects, want 3", len(st.Scene().Objects))
	}

	// Server assigns an ID when the client omits one.
	added := st.Scene().Objects[2]
	if added.ID == "" {
		t.Fatal("added object has no ID")
	}

	if _, err := st.Apply(Operation{Type: OpObjectAdd, Object: &scene.Object{
		ID:       added.ID,
		Vertices: obj.Vertices,
	}}); err == nil {
		t.Error("expected error adding duplicate object ID")
	}

	if _, err := st.Apply(Operation{Type: OpObjectRemove, ObjectID: added.ID}); err != nil {
		t.Fatal(err)
	}
	if len(st.Scene().Objects) != 2 {
		t.Errorf("got %d objects after remove, want 2", len(st.Scene().Objects))
	}
}

func TestApplySceneDepth(t *testing.T) {
	st := newTestState(t)

	depth := 3
	if _, err := st.Apply(Operation{Type: OpSceneDepth, MaxDepth: &depth}); err != nil {
		t.Fatal(err)
	}
	if st.Scene().MaxDepth != 3 {
		t.Errorf("maxDepth = %d, want 3", st.Scene().MaxDepth)
	}

	negative := -1
	if _, err := st.Apply(Operation{Type: OpSceneDepth, MaxDepth: &negative}); !errors.Is(err, engine.ErrNegativeDepth) {
		t.Errorf("got %v, want ErrNegativeDepth", err)
	}

	tooDeep := 5
	if _, err := st.Apply(Operation{Type: OpSceneDepth, MaxDepth: &tooDeep}); err == nil {
		t.Error("expected error for depth above server limit")
	}
}

func TestApplySceneReset(t *testing.T) {
	st := newTestState(t)

	if _, err := st.Apply(Operation{Type: OpObjectRemove, ObjectID: "obj_triangle"}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Apply(Operation{Type: OpSceneReset}); err != nil {
		t.Fatal(err)
	}

	if st.Scene().FindObject("obj_triangle") == nil {
		t.Error("reset did not restore the default scene")
	}
	if st.ServerSeq() != 2 {
		t.Errorf("serverSeq = %d, want 2", st.ServerSeq())
	}
}

func TestApplyUnknownOp(t *testing.T) {
	st := newTestState(t)
	if _, err := st.Apply(Operation{Type: "object.explode"}); err == nil {
		t.Error("expected error for unknown op type")
	}
}

func TestReflectionsMatchSceneDepth(t *testing.T) {
	st := newTestState(t)

	refl, err := st.Reflections()
	if err != nil {
		t.Fatal(err)
	}
	// Default scene: 2 objects, 4 mirrors, depth 2.
	if len(refl.VirtualObjects) != 32 {
		t.Errorf("got %d virtual objects, want 32", len(refl.VirtualObjects))
	}
	if len(refl.VirtualViewers) != 16 {
		t.Errorf("got %d virtual viewers, want 16", len(refl.VirtualViewers))
	}

	zero := 0
	if _, err := st.Apply(Operation{Type: OpSceneDepth, MaxDepth: &zero}); err != nil {
		t.Fatal(err)
	}
	refl, err = st.Reflections()
	if err != nil {
		t.Fatal(err)
	}
	if len(refl.VirtualObjects) != 0 || len(refl.VirtualViewers) != 0 {
		t.Error("depth 0 should produce no virtual entities")
	}
}

func TestNewSceneStateRejectsInvalidScene(t *testing.T) {
	bad := scene.NewDefaultScene("scene_test")
	bad.Mirrors[0] = scene.MirrorSpec{ID: "m", X1: 0, Y1: 0, X2: 10, Y2: 10}

	if _, err := NewSceneState(bad, 4); err == nil {
		t.Fatal("expected error for diagonal mirror")
	}
}
