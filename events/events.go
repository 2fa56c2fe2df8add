// Package events describes the callbacks a window layer delivers to the
// application. Numeric values of keys, actions and modifiers match GLFW.
package events

// Handler is implemented by the application. All methods are called from
// the single event dispatch thread.
type Handler interface {
	OnKey(key Key, scancode int, action Action, mods ModifierKey)
	OnMouseButton(button MouseButton, action Action, mods ModifierKey)
	OnMouseMove(x, y float64)
	OnScroll(dx, dy float64)
	OnResize(width, height int)
	OnFocus(focused bool)

	Initialize() error
	RedrawScene()
	Refresh()
}

type Action int

const (
	Release Action = 0
	Press   Action = 1
	Repeat  Action = 2
)

type ModifierKey int

const (
	ModShift   ModifierKey = 0x0001
	ModControl ModifierKey = 0x0002
	ModAlt     ModifierKey = 0x0004
	ModSuper   ModifierKey = 0x0008
)

func (m ModifierKey) Has(mod ModifierKey) bool {
	return m&mod == mod
}

type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)

type Key int

const (
	KeyUnknown Key = -1
	KeySpace   Key = 32
	KeyMinus   Key = 45
	KeyEqual   Key = 61

	KeyA Key = 65
	KeyD Key = 68
	KeyE Key = 69
	KeyL Key = 76
	KeyQ Key = 81
	KeyR Key = 82
	KeyS Key = 83
	KeyW Key = 87

	KeyEscape Key = 256
	KeyTab    Key = 258
	KeyRight  Key = 262
	KeyLeft   Key = 263
	KeyDown   Key = 264
	KeyUp     Key = 265

	KeyKPSubtract Key = 333
	KeyKPAdd      Key = 334
)

// HandlerFuncs adapts plain functions to Handler. Nil fields are skipped.
type HandlerFuncs struct {
	Key         func(key Key, scancode int, action Action, mods ModifierKey)
	MouseButton func(button MouseButton, action Action, mods ModifierKey)
	MouseMove   func(x, y float64)
	Scroll      func(dx, dy float64)
	Resize      func(width, height int)
	Focus       func(focused bool)
	Init        func() error
	Redraw      func()
	Refreshed   func()
}

var _ Handler = (*HandlerFuncs)(nil)

func (h *HandlerFuncs) OnKey(key Key, scancode int, action Action, mods ModifierKey) {
	if h.Key != nil {
		h.Key(key, scancode, action, mods)
	}
}

func (h *HandlerFuncs) OnMouseButton(button MouseButton, action Action, mods ModifierKey) {
	if h.MouseButton != nil {
		h.MouseButton(button, action, mods)
	}
}

func (h *HandlerFuncs) OnMouseMove(x, y float64) {
	if h.MouseMove != nil {
		h.MouseMove(x, y)
	}
}

func (h *HandlerFuncs) OnScroll(dx, dy float64) {
	if h.Scroll != nil {
		h.Scroll(dx, dy)
	}
}

func (h *HandlerFuncs) OnResize(width, height int) {
	if h.Resize != nil {
		h.Resize(width, height)
	}
}

func (h *HandlerFuncs) OnFocus(focused bool) {
	if h.Focus != nil {
		h.Focus(focused)
	}
}

func (h *HandlerFuncs) Initialize() error {
	if h.Init != nil {
		return h.Init()
	}
	return nil
}

func (h *HandlerFuncs) RedrawScene() {
	if h.Redraw != nil {
		h.Redraw()
	}
}

func (h *HandlerFuncs) Refresh() {
	if h.Refreshed != nil {
		h.Refreshed()
	}
}
