package events

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Bind routes window callbacks to h. Must be called from the main thread
// that owns the window.
func Bind(w *glfw.Window, h Handler) {
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		h.OnKey(Key(key), scancode, Action(action), ModifierKey(mods))
	})
	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		h.OnMouseButton(MouseButton(button), Action(action), ModifierKey(mods))
	})
	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		h.OnMouseMove(x, y)
	})
	w.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		h.OnScroll(dx, dy)
	})
	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		h.OnResize(width, height)
	})
	w.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		h.OnFocus(focused)
	})
	w.SetRefreshCallback(func(_ *glfw.Window) {
		h.Refresh()
	})
}

// Unbind removes every callback installed by Bind.
func Unbind(w *glfw.Window) {
	w.SetKeyCallback(nil)
	w.SetMouseButtonCallback(nil)
	w.SetCursorPosCallback(nil)
	w.SetScrollCallback(nil)
	w.SetFramebufferSizeCallback(nil)
	w.SetFocusCallback(nil)
	w.SetRefreshCallback(nil)
}
