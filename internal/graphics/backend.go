// Package graphics abstracts the NES PPU frame buffer over swappable display
// backends (an ebitengine window, a headless PPM dumper, a plain terminal).
package graphics

// Backend is a renderer capable of producing a Window for a 256x240 NES
// frame buffer. Concrete backends: ebitengine (default GUI), headless
// (automated runs), terminal (ANSI fallback).
type Backend interface {
	Initialize(config Config) error

	// CreateWindow opens a window sized width x height. Headless backends
	// still return a usable Window, just one that renders nothing visible.
	CreateWindow(title string, width, height int) (Window, error)

	Cleanup() error
	IsHeadless() bool
	GetName() string
}

// Window receives frame buffers and input from one backend-specific surface.
type Window interface {
	SetTitle(title string)
	GetSize() (width, height int)
	ShouldClose() bool

	// SwapBuffers presents whatever was queued by the last RenderFrame call.
	SwapBuffers()
	PollEvents() []InputEvent

	// RenderFrame consumes one complete NES PPU frame (256x240, packed
	// 0x00RRGGBB per pixel).
	RenderFrame(frameBuffer [256 * 240]uint32) error
	Cleanup() error
}

// Config carries the window and rendering options a Backend.Initialize needs.
type Config struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool

	Filter      string // "nearest", "linear"
	AspectRatio string // "4:3", "stretch"

	Headless bool
	Debug    bool
}

// InputEvent represents an input event from the window
type InputEvent struct {
	Type      InputEventType
	Key       Key
	Button    Button
	Pressed   bool
	Modifiers ModifierKey
}

// InputEventType represents the type of input event
type InputEventType int

const (
	InputEventTypeKey InputEventType = iota
	InputEventTypeButton
	InputEventTypeQuit
)

// Key is a backend-neutral keyboard key code, translated from whatever
// native key constants the active Backend's windowing library uses.
type Key int

const (
	KeyUnknown Key = iota

	// Navigation / menu keys
	KeyEscape
	KeyEnter
	KeySpace

	// D-pad
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// WASD alternate for the D-pad
	KeyW
	KeyA
	KeyS
	KeyD

	// Face-button alternates
	KeyJ
	KeyK
	KeyX
	KeyZ

	// Save-state slots 1-8
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Button is an NES controller button, independent of the physical key or
// joypad input that produced it.
type Button int

const (
	ButtonUnknown Button = iota
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight

	// Second controller port, same bit layout as the first
	Button2A
	Button2B
	Button2Select
	Button2Start
	Button2Up
	Button2Down
	Button2Left
	Button2Right
)

// ModifierKey is a bitmask of held modifier keys accompanying a key event.
type ModifierKey int

const (
	ModifierNone  ModifierKey = 0
	ModifierShift ModifierKey = 1 << iota
	ModifierCtrl
	ModifierAlt
	ModifierSuper
)

// BackendType names one of the Backend implementations CreateBackend knows
// how to construct.
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// CreateBackend builds the named backend, falling back to the ebitengine GUI
// backend for anything unrecognized.
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	case BackendTerminal:
		return NewTerminalBackend(), nil
	default:
		return NewEbitengineBackend(), nil
	}
}

// AsEbitengineWindow narrows a Window to *EbitengineWindow, for callers that
// need backend-specific features (e.g. wiring ebitengine's own update loop).
func AsEbitengineWindow(window Window) (*EbitengineWindow, bool) {
	ebitengineWindow, ok := window.(*EbitengineWindow)
	return ebitengineWindow, ok
}

// AsHeadlessWindow narrows a Window to *HeadlessWindow, for callers that want
// to configure headless-only behavior like checkpoint-frame PPM sampling.
func AsHeadlessWindow(window Window) (*HeadlessWindow, bool) {
	headlessWindow, ok := window.(*HeadlessWindow)
	return headlessWindow, ok
}