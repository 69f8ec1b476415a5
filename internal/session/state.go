package session

import (
	"fmt"
	"sync"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/engine"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/typeid"
)

// SceneState holds the authoritative scene for one room. Operations are
// applied under the lock; the reflection set is recomputed from the scene's
// current geometry after every mutation, never patched incrementally.
type SceneState struct {
	mu         sync.RWMutex
	scene      *scene.Scene
	mirrors    []engine.Mirror
	serverSeq  int64
	opLog      []Operation
	dirty      bool // unsaved changes
	depthLimit int  // server-side cap on scene.depth, bounds recompute cost
}

// NewSceneState validates the scene and precomputes its mirror list.
func NewSceneState(s *scene.Scene, depthLimit int) (*SceneState, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	mirrors, err := engine.MirrorsFromScene(s)
	if err != nil {
		return nil, err
	}
	return &SceneState{
		scene:      s,
		mirrors:    mirrors,
		depthLimit: depthLimit,
	}, nil
}

// Scene returns the current scene. Callers must not mutate it.
func (st *SceneState) Scene() *scene.Scene {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.scene
}

// ServerSeq returns the sequence number of the last applied operation.
func (st *SceneState) ServerSeq() int64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.serverSeq
}

// Dirty reports whether the scene has unsaved changes.
func (st *SceneState) Dirty() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.dirty
}

// MarkSaved clears the dirty flag after a successful persist.
func (st *SceneState) MarkSaved() {
	st.mu.Lock()
	st.dirty = false
	st.mu.Unlock()
}

// Apply applies one operation and returns the new server sequence.
func (st *SceneState) Apply(op Operation) (int64, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.applyLocked(op); err != nil {
		return 0, err
	}

	st.serverSeq++
	st.opLog = append(st.opLog, op)
	st.dirty = true
	return st.serverSeq, nil
}

func (st *SceneState) applyLocked(op Operation) error {
	switch op.Type {
	case OpObjectTranslate:
		return st.scene.TranslateObject(op.ObjectID, op.DX, op.DY)

	case OpObjectAdd:
		if op.Object == nil {
			return fmt.Errorf("object.add without object")
		}
		obj := *op.Object
		if len(obj.Vertices) < 3 {
			return fmt.Errorf("object has %d vertices, need at least 3", len(obj.Vertices))
		}
		if obj.ID == "" {
			obj.ID = typeid.NewObjectID()
		}
		if st.scene.FindObject(obj.ID) != nil {
			return fmt.Errorf("object %s already exists", obj.ID)
		}
		st.scene.AddObject(obj)
		return nil

	case OpObjectRemove:
		return st.scene.RemoveObject(op.ObjectID)

	case OpViewerMove:
		if op.Position == nil {
			return fmt.Errorf("viewer.move without position")
		}
		return st.scene.MoveViewer(*op.Position)

	case OpSceneDepth:
		if op.MaxDepth == nil {
			return fmt.Errorf("scene.depth without maxDepth")
		}
		depth := *op.MaxDepth
		if depth < 0 {
			return engine.ErrNegativeDepth
		}
		if depth > st.depthLimit {
			return fmt.Errorf("maxDepth %d exceeds server limit %d", depth, st.depthLimit)
		}
		st.scene.MaxDepth = depth
		return nil

	case OpSceneReset:
		fresh := scene.NewDefaultScene(st.scene.ID)
		mirrors, err := engine.MirrorsFromScene(fresh)
		if err != nil {
			return err
		}
		st.scene = fresh
		st.mirrors = mirrors
		return nil

	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

// Reflections recomputes the full reflection set from the scene's current
// geometry.
func (st *SceneState) Reflections() (*engine.ReflectionSet, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return engine.CalculateAllReflectionsWithViewer(st.scene.Objects, st.scene.Viewer, st.mirrors, st.scene.MaxDepth)
}
