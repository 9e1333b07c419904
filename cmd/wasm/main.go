//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/kimahnho/worksheet/editor-go/internal/asset"
	"github.com/kimahnho/worksheet/editor-go/internal/config"
	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/engine"
	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
	"github.com/kimahnho/worksheet/editor-go/internal/interaction"
)

var (
	eng *engine.Engine
	api js.Value
)

func main() {
	api = js.Global().Get("Object").New()

	eng = engine.NewEngine(config.DefaultEditor(), interaction.Hooks{
		OnBegin: func(s interaction.Session) { callHook("onGestureBegin", s) },
		OnEnd: func(s interaction.Session, final document.Element) {
			callHook("onGestureEnd", map[string]any{"session": s, "element": final})
		},
	})
	eng.SetTextHost(jsTextHost{})

	// --- Project ---
	api.Set("loadProject", js.FuncOf(loadProject))
	api.Set("updateProject", js.FuncOf(updateProject))
	api.Set("loadSampleProject", js.FuncOf(loadSampleProject))
	api.Set("newProject", js.FuncOf(newProject))

	// --- Commands (frontend → engine) ---
	api.Set("addElement", js.FuncOf(addElement))
	api.Set("addElementOfKind", js.FuncOf(addElementOfKind))
	api.Set("updateElement", js.FuncOf(updateElement))
	api.Set("deleteElement", js.FuncOf(deleteElement))
	api.Set("deleteSelection", js.FuncOf(deleteSelection))
	api.Set("duplicateElement", js.FuncOf(duplicateElement))
	api.Set("reorderElement", js.FuncOf(reorderElement))
	api.Set("addPage", js.FuncOf(addPage))
	api.Set("deletePage", js.FuncOf(deletePage))
	api.Set("setPage", js.FuncOf(setPage))
	api.Set("uploadCardImage", js.FuncOf(uploadCardImage))
	api.Set("commitCardLabel", js.FuncOf(commitCardLabel))
	api.Set("setSelection", js.FuncOf(setSelection))
	api.Set("clearSelection", js.FuncOf(clearSelection))
	api.Set("undo", js.FuncOf(undo))
	api.Set("redo", js.FuncOf(redo))

	// --- Pointer ---
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))

	// --- Edit mode ---
	api.Set("beginEditing", js.FuncOf(beginEditing))
	api.Set("endEditing", js.FuncOf(endEditing))
	api.Set("setTextContent", js.FuncOf(setTextContent))
	api.Set("selectText", js.FuncOf(selectText))
	api.Set("applyFontFamily", js.FuncOf(applyFontFamily))
	api.Set("applyFontSize", js.FuncOf(applyFontSize))
	api.Set("applyTextColor", js.FuncOf(applyTextColor))
	api.Set("toggleBold", js.FuncOf(toggleBold))
	api.Set("resolveImage", js.FuncOf(resolveImage))
	api.Set("imageFailed", js.FuncOf(imageFailed))

	// --- Queries (frontend ← engine) ---
	api.Set("render", js.FuncOf(func(js.Value, []js.Value) any { return eng.Render() }))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getSelectionBounds", js.FuncOf(func(js.Value, []js.Value) any { return eng.GetSelectionBounds() }))
	api.Set("getSelection", js.FuncOf(func(js.Value, []js.Value) any { return eng.GetSelection() }))
	api.Set("getDocument", js.FuncOf(func(js.Value, []js.Value) any { return eng.GetDocument() }))
	api.Set("getElement", js.FuncOf(getElement))
	api.Set("getPages", js.FuncOf(func(js.Value, []js.Value) any { return eng.GetPages() }))
	api.Set("getEditorState", js.FuncOf(func(js.Value, []js.Value) any { return eng.GetEditorState() }))
	api.Set("getPendingImage", js.FuncOf(func(js.Value, []js.Value) any { return eng.GetPendingImage() }))
	api.Set("getToolbarPosition", js.FuncOf(getToolbarPosition))

	js.Global().Set("worksheetEngine", api)
	js.Global().Set("worksheetWasmReady", js.ValueOf(true))

	select {}
}

// callHook invokes api[name](json) when the frontend registered it.
func callHook(name string, v any) {
	fn := api.Get(name)
	if fn.Type() != js.TypeFunction {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fn.Invoke(string(data))
}

func ok() any {
	return js.ValueOf(map[string]any{"ok": true})
}

func fail(msg string) any {
	return js.ValueOf(map[string]any{"error": msg})
}

func result(v any, err error) any {
	if err != nil {
		return fail(err.Error())
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fail(err.Error())
	}
	return js.ValueOf(map[string]any{"ok": true, "result": string(data)})
}

func done(err error) any {
	if err != nil {
		return fail(err.Error())
	}
	return ok()
}

func str(args []js.Value, i int) (string, bool) {
	if len(args) <= i || args[i].Type() != js.TypeString {
		return "", false
	}
	return args[i].String(), true
}

func num(args []js.Value, i int) (float64, bool) {
	if len(args) <= i || args[i].Type() != js.TypeNumber {
		return 0, false
	}
	return args[i].Float(), true
}

func decode(args []js.Value, i int, v any) error {
	s, found := str(args, i)
	if !found {
		s = "null"
	}
	return json.Unmarshal([]byte(s), v)
}

// --- Project ---

func loadProject(this js.Value, args []js.Value) any {
	data, found := str(args, 0)
	if !found {
		return fail("missing project JSON")
	}
	return done(eng.LoadProject(data))
}

func updateProject(this js.Value, args []js.Value) any {
	data, found := str(args, 0)
	if !found {
		return fail("missing project JSON")
	}
	return done(eng.UpdateProject(data))
}

func loadSampleProject(this js.Value, args []js.Value) any {
	projectID, found := str(args, 0)
	if !found {
		projectID = "proj_sample"
	}
	eng.LoadSampleProject(projectID)
	return ok()
}

func newProject(this js.Value, args []js.Value) any {
	name, found := str(args, 0)
	if !found {
		name = "Untitled"
	}
	eng.NewProject(name)
	return ok()
}

// --- Commands ---

func addElement(this js.Value, args []js.Value) any {
	var el document.Element
	if err := decode(args, 0, &el); err != nil {
		return fail("invalid element JSON")
	}
	return result(eng.AddElement(el))
}

func addElementOfKind(this js.Value, args []js.Value) any {
	kind, found := str(args, 0)
	if !found {
		return fail("missing element kind")
	}
	return result(eng.AddElementOfKind(document.ElementKind(kind)))
}

func updateElement(this js.Value, args []js.Value) any {
	id, found := str(args, 0)
	if !found {
		return fail("missing element id")
	}
	var patch document.Patch
	if err := decode(args, 1, &patch); err != nil {
		return fail("invalid patch JSON")
	}
	return result(eng.UpdateElement(id, patch))
}

func deleteElement(this js.Value, args []js.Value) any {
	id, found := str(args, 0)
	if !found {
		return fail("missing element id")
	}
	return done(eng.DeleteElement(id))
}

func deleteSelection(this js.Value, args []js.Value) any {
	return done(eng.DeleteSelection())
}

func duplicateElement(this js.Value, args []js.Value) any {
	id, found := str(args, 0)
	if !found {
		return fail("missing element id")
	}
	return result(eng.DuplicateElement(id))
}

func reorderElement(this js.Value, args []js.Value) any {
	id, _ := str(args, 0)
	dir, found := str(args, 1)
	if !found {
		return fail("missing direction")
	}
	return done(eng.ReorderElement(id, document.ZDirection(dir)))
}

func addPage(this js.Value, args []js.Value) any {
	return result(eng.AddPage())
}

func deletePage(this js.Value, args []js.Value) any {
	id, _ := str(args, 0)
	return done(eng.DeletePage(id))
}

func setPage(this js.Value, args []js.Value) any {
	id, _ := str(args, 0)
	return done(eng.SetPage(id))
}

func uploadCardImage(this js.Value, args []js.Value) any {
	id, found := str(args, 0)
	if !found {
		return fail("missing element id")
	}
	url, found := str(args, 1)
	if !found {
		return fail("missing image url")
	}
	return result(eng.UploadCardImage(id, url))
}

func commitCardLabel(this js.Value, args []js.Value) any {
	id, found := str(args, 0)
	if !found {
		return fail("missing element id")
	}
	label, _ := str(args, 1)
	return result(eng.CommitCardLabel(id, label))
}

func setSelection(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}

	arr := args[0]
	ids := make([]string, arr.Length())
	for i := range ids {
		ids[i] = arr.Index(i).String()
	}
	eng.SetSelection(ids)
	return nil
}

func clearSelection(this js.Value, args []js.Value) any {
	eng.ClearSelection()
	return nil
}

func undo(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Redo())
}

// --- Pointer ---

func pointerDown(this js.Value, args []js.Value) any {
	x, _ := num(args, 0)
	y, _ := num(args, 1)
	return result(eng.PointerDown(x, y))
}

func pointerMove(this js.Value, args []js.Value) any {
	x, _ := num(args, 0)
	y, _ := num(args, 1)
	return result(eng.PointerMove(x, y))
}

func pointerUp(this js.Value, args []js.Value) any {
	eng.PointerUp()
	return nil
}

// --- Edit mode ---

func beginEditing(this js.Value, args []js.Value) any {
	id, found := str(args, 0)
	if !found {
		return fail("missing element id")
	}
	return done(eng.BeginEditing(id))
}

func endEditing(this js.Value, args []js.Value) any {
	eng.EndEditing()
	return nil
}

func setTextContent(this js.Value, args []js.Value) any {
	markup, _ := str(args, 0)
	return done(eng.SetTextContent(markup))
}

func selectText(this js.Value, args []js.Value) any {
	start, _ := num(args, 0)
	end, _ := num(args, 1)
	return result(eng.SelectText(int(start), int(end)))
}

func applyFontFamily(this js.Value, args []js.Value) any {
	family, _ := str(args, 0)
	return done(eng.ApplyFontFamily(family))
}

func applyFontSize(this js.Value, args []js.Value) any {
	px, found := num(args, 0)
	if !found {
		return fail("missing font size")
	}
	return done(eng.ApplyFontSize(px))
}

func applyTextColor(this js.Value, args []js.Value) any {
	hex, _ := str(args, 0)
	return done(eng.ApplyTextColor(hex))
}

func toggleBold(this js.Value, args []js.Value) any {
	return done(eng.ToggleBold())
}

func resolveImage(this js.Value, args []js.Value) any {
	id, _ := str(args, 0)
	url, _ := str(args, 1)
	w, _ := num(args, 2)
	h, _ := num(args, 3)
	return js.ValueOf(eng.ResolveImage(id, url, asset.Size{Width: int(w), Height: int(h)}))
}

func imageFailed(this js.Value, args []js.Value) any {
	url, _ := str(args, 0)
	eng.ImageFailed(url)
	return nil
}

// --- Queries ---

func hitTest(this js.Value, args []js.Value) any {
	x, _ := num(args, 0)
	y, _ := num(args, 1)
	return js.ValueOf(eng.HitTest(x, y))
}

func getElement(this js.Value, args []js.Value) any {
	id, _ := str(args, 0)
	return js.ValueOf(eng.GetElement(id))
}

func getToolbarPosition(this js.Value, args []js.Value) any {
	var sel, viewport geometry.Rect
	if err := decode(args, 0, &sel); err != nil {
		return fail("invalid selection rect")
	}
	w, _ := num(args, 1)
	h, _ := num(args, 2)
	if err := decode(args, 3, &viewport); err != nil {
		return fail("invalid viewport rect")
	}
	return js.ValueOf(eng.GetToolbarPosition(sel, w, h, viewport))
}
