//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/engine"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()

	mirrorboxEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	mirrorboxEngine.Set("loadScene", js.FuncOf(loadScene))
	mirrorboxEngine.Set("loadDefaultScene", js.FuncOf(loadDefaultScene))
	mirrorboxEngine.Set("translateObject", js.FuncOf(translateObject))
	mirrorboxEngine.Set("moveViewer", js.FuncOf(moveViewer))
	mirrorboxEngine.Set("addObject", js.FuncOf(addObject))
	mirrorboxEngine.Set("removeObject", js.FuncOf(removeObject))
	mirrorboxEngine.Set("setMaxDepth", js.FuncOf(setMaxDepth))

	// --- Queries (frontend ← engine) ---
	mirrorboxEngine.Set("render", js.FuncOf(render))
	mirrorboxEngine.Set("hitTest", js.FuncOf(hitTest))
	mirrorboxEngine.Set("getScene", js.FuncOf(getScene))
	mirrorboxEngine.Set("getReflections", js.FuncOf(getReflections))

	js.Global().Set("mirrorboxEngine", mirrorboxEngine)
	js.Global().Set("mirrorboxWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func loadScene(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing scene JSON")
	}
	if err := eng.LoadScene(args[0].String()); err != nil {
		return errResult(err.Error())
	}
	return okResult()
}

func loadDefaultScene(this js.Value, args []js.Value) interface{} {
	sceneID := "scene_playground"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		sceneID = args[0].String()
	}
	eng.LoadDefaultScene(sceneID)
	return okResult()
}

func translateObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errResult("need objectId, dx, dy")
	}
	if err := eng.TranslateObject(args[0].String(), args[1].Float(), args[2].Float()); err != nil {
		return errResult(err.Error())
	}
	return okResult()
}

func moveViewer(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errResult("need x, y")
	}
	if err := eng.MoveViewer(args[0].Float(), args[1].Float()); err != nil {
		return errResult(err.Error())
	}
	return okResult()
}

func addObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing object JSON")
	}
	var obj scene.Object
	if err := json.Unmarshal([]byte(args[0].String()), &obj); err != nil {
		return errResult(err.Error())
	}
	if err := eng.AddObject(obj); err != nil {
		return errResult(err.Error())
	}
	return okResult()
}

func removeObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing objectId")
	}
	if err := eng.RemoveObject(args[0].String()); err != nil {
		return errResult(err.Error())
	}
	return okResult()
}

func setMaxDepth(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing depth")
	}
	if err := eng.SetMaxDepth(args[0].Int()); err != nil {
		return errResult(err.Error())
	}
	return okResult()
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func getScene(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.SceneJSON())
}

func getReflections(this js.Value, args []js.Value) interface{} {
	refl, err := eng.Reflections()
	if err != nil {
		return errResult(err.Error())
	}
	data, err := json.Marshal(refl)
	if err != nil {
		return errResult(err.Error())
	}
	return js.ValueOf(string(data))
}

// --- helpers ---

func okResult() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func errResult(msg string) js.Value {
	return js.ValueOf(map[string]interface{}{"error": msg})
}
