package graphics

import "fmt"

// TerminalBackend implements the Backend interface for a plain ANSI terminal
type TerminalBackend struct {
	initialized bool
	config      Config
}

// TerminalWindow implements the Window interface for terminal rendering
type TerminalWindow struct {
	title   string
	width   int
	height  int
	running bool
}

// shadeRamp is a luminance-ordered set of glyphs, darkest to brightest, used
// to approximate a NES frame as ASCII art.
var shadeRamp = []rune(" .:-=+*#%@")

// NewTerminalBackend creates a new terminal graphics backend
func NewTerminalBackend() Backend {
	return &TerminalBackend{}
}

// Initialize initializes the terminal backend
func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("terminal backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates a terminal "window"
func (b *TerminalBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	return &TerminalWindow{
		title:   title,
		width:   width,
		height:  height,
		running: true,
	}, nil
}

// Cleanup releases all terminal resources
func (b *TerminalBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns false (terminal has basic output)
func (b *TerminalBackend) IsHeadless() bool {
	return false
}

// GetName returns the backend name
func (b *TerminalBackend) GetName() string {
	return "Terminal"
}

// SetTitle sets the window title (for terminal title)
func (w *TerminalWindow) SetTitle(title string) {
	w.title = title
	fmt.Printf("\033]0;%s\007", title)
}

// GetSize returns window dimensions
func (w *TerminalWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if window should close
func (w *TerminalWindow) ShouldClose() bool {
	return !w.running
}

// SwapBuffers does nothing for terminal
func (w *TerminalWindow) SwapBuffers() {
}

// PollEvents returns an empty events list; the terminal backend has no input
func (w *TerminalWindow) PollEvents() []InputEvent {
	return nil
}

// RenderFrame downsamples the frame to a grid of shaded glyphs by luminance
func (w *TerminalWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	fmt.Print("\033[2J\033[H")

	for y := 0; y < 240; y += 8 {
		for x := 0; x < 256; x += 4 {
			pixel := frameBuffer[y*256+x]
			fmt.Printf("%c", shadeRamp[luminanceIndex(pixel, len(shadeRamp))])
		}
		fmt.Println()
	}

	return nil
}

// luminanceIndex maps an RGB888 pixel to a shadeRamp index by perceptual
// luminance (Rec. 601 weights).
func luminanceIndex(pixel uint32, levels int) int {
	r := float64((pixel >> 16) & 0xFF)
	g := float64((pixel >> 8) & 0xFF)
	b := float64(pixel & 0xFF)
	luminance := 0.299*r + 0.587*g + 0.114*b

	index := int(luminance / 255.0 * float64(levels-1))
	if index < 0 {
		index = 0
	}
	if index >= levels {
		index = levels - 1
	}
	return index
}

// Cleanup releases window resources
func (w *TerminalWindow) Cleanup() error {
	w.running = false
	return nil
}
