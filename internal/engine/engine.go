package engine

import (
	"encoding/json"
	"fmt"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

// Engine owns a scene and its derived reflection state. It processes
// commands from the frontend (drag moves, depth changes) and answers
// queries (draw commands, hit tests). The reflection set is rebuilt lazily:
// every state-changing command marks the engine dirty, and the next query
// recomputes from the scene's current geometry — virtual entities are
// disposable projections, never patched in place.
type Engine struct {
	scene       *scene.Scene
	mirrors     []Mirror
	reflections *ReflectionSet
	dirty       bool
}

// NewEngine creates an engine with no scene loaded.
func NewEngine() *Engine {
	return &Engine{dirty: true}
}

// LoadScene loads and validates a scene from JSON.
func (e *Engine) LoadScene(jsonData string) error {
	var s scene.Scene
	if err := json.Unmarshal([]byte(jsonData), &s); err != nil {
		return err
	}
	return e.SetScene(&s)
}

// LoadDefaultScene loads the built-in demo scene.
func (e *Engine) LoadDefaultScene(sceneID string) {
	// The default scene is valid by construction.
	_ = e.SetScene(scene.NewDefaultScene(sceneID))
}

// SetScene validates and installs a scene, converting its mirror specs
// once so every later recompute can rely on the orientation invariant.
func (e *Engine) SetScene(s *scene.Scene) error {
	if err := s.Validate(); err != nil {
		return err
	}
	mirrors, err := MirrorsFromScene(s)
	if err != nil {
		return err
	}
	e.scene = s
	e.mirrors = mirrors
	e.reflections = nil
	e.dirty = true
	return nil
}

// Scene returns the current scene (may be nil).
func (e *Engine) Scene() *scene.Scene {
	return e.scene
}

// SceneJSON returns the current scene as JSON.
func (e *Engine) SceneJSON() string {
	if e.scene == nil {
		return "{}"
	}
	data, err := json.Marshal(e.scene)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// --- Commands (frontend → engine) ---

// TranslateObject moves a real object by (dx, dy) and invalidates its
// virtual images.
func (e *Engine) TranslateObject(id string, dx, dy float64) error {
	if e.scene == nil {
		return fmt.Errorf("no scene loaded")
	}
	if err := e.scene.TranslateObject(id, dx, dy); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// MoveViewer repositions the viewer.
func (e *Engine) MoveViewer(x, y float64) error {
	if e.scene == nil {
		return fmt.Errorf("no scene loaded")
	}
	if err := e.scene.MoveViewer(scene.Point{X: x, Y: y}); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// AddObject adds a real object to the scene.
func (e *Engine) AddObject(obj scene.Object) error {
	if e.scene == nil {
		return fmt.Errorf("no scene loaded")
	}
	if len(obj.Vertices) < 3 {
		return fmt.Errorf("object %s has %d vertices, need at least 3", obj.ID, len(obj.Vertices))
	}
	e.scene.AddObject(obj)
	e.dirty = true
	return nil
}

// RemoveObject removes a real object and, implicitly, all its images.
func (e *Engine) RemoveObject(id string) error {
	if e.scene == nil {
		return fmt.Errorf("no scene loaded")
	}
	if err := e.scene.RemoveObject(id); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// SetMaxDepth changes the reflection depth bound. Negative depth is a
// caller bug and is rejected, not clamped.
func (e *Engine) SetMaxDepth(depth int) error {
	if e.scene == nil {
		return fmt.Errorf("no scene loaded")
	}
	if depth < 0 {
		return ErrNegativeDepth
	}
	if e.scene.MaxDepth != depth {
		e.scene.MaxDepth = depth
		e.dirty = true
	}
	return nil
}

// --- Queries (frontend ← engine) ---

// Reflections returns the current reflection set, recomputing it if any
// command invalidated the previous one.
func (e *Engine) Reflections() (*ReflectionSet, error) {
	if e.scene == nil {
		return &ReflectionSet{}, nil
	}
	if e.dirty || e.reflections == nil {
		refl, err := CalculateAllReflectionsWithViewer(e.scene.Objects, e.scene.Viewer, e.mirrors, e.scene.MaxDepth)
		if err != nil {
			return nil, err
		}
		e.reflections = refl
		e.dirty = false
	}
	return e.reflections, nil
}

// Render recomputes if needed and returns the draw command buffer as JSON.
func (e *Engine) Render() string {
	if e.scene == nil {
		return "[]"
	}
	refl, err := e.Reflections()
	if err != nil {
		return "[]"
	}
	result, _ := DrawCommandsToJSON(CompileDrawCommands(e.scene, refl))
	return result
}

// HitTest returns the topmost real entity at the given point, or "".
func (e *Engine) HitTest(x, y float64) string {
	return HitTest(e.scene, x, y)
}
