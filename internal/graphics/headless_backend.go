package graphics

import (
	"fmt"
	"path/filepath"
)

// HeadlessBackend implements the Backend interface for headless operation
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// HeadlessWindow implements the Window interface for headless operation. It
// renders nothing but can sample frames to disk for automated verification.
type HeadlessWindow struct {
	title      string
	width      int
	height     int
	running    bool
	frameCount int
	outputDir  string
	sampleAt   map[int]bool
}

// NewHeadlessBackend creates a new headless graphics backend
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Initialize initializes the headless backend
func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("headless backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates a headless "window" (no actual window)
func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	return &HeadlessWindow{
		title:     title,
		width:     width,
		height:    height,
		running:   true,
		outputDir: ".",
	}, nil
}

// Cleanup releases all headless resources
func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns true (this is a headless backend)
func (b *HeadlessBackend) IsHeadless() bool {
	return true
}

// GetName returns the backend name
func (b *HeadlessBackend) GetName() string {
	return "Headless"
}

// SetTitle sets the window title (for logging purposes)
func (w *HeadlessWindow) SetTitle(title string) {
	w.title = title
}

// GetSize returns window dimensions
func (w *HeadlessWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if window should close
func (w *HeadlessWindow) ShouldClose() bool {
	return !w.running
}

// SwapBuffers does nothing in headless mode
func (w *HeadlessWindow) SwapBuffers() {
}

// PollEvents returns an empty events list; headless mode has no input source
func (w *HeadlessWindow) PollEvents() []InputEvent {
	return nil
}

// RenderFrame dumps the frame to outputDir as a PPM if its number is in
// sampleAt. With no sample set configured, RenderFrame is a no-op counter.
func (w *HeadlessWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	w.frameCount++

	if !w.sampleAt[w.frameCount] {
		return nil
	}

	path := filepath.Join(w.outputDir, fmt.Sprintf("frame_%03d.ppm", w.frameCount))
	return WriteFrameBufferPPM(frameBuffer, path)
}

// Cleanup releases window resources
func (w *HeadlessWindow) Cleanup() error {
	w.running = false
	return nil
}

// SetOutputDir sets the directory frame samples are written to
func (w *HeadlessWindow) SetOutputDir(dir string) {
	w.outputDir = dir
}

// SetSampleFrames configures which 1-indexed frame numbers RenderFrame dumps
// to disk. Passing no frames disables dumping entirely.
func (w *HeadlessWindow) SetSampleFrames(frames ...int) {
	w.sampleAt = make(map[int]bool, len(frames))
	for _, f := range frames {
		w.sampleAt[f] = true
	}
}

// GetFrameCount returns the current frame count
func (w *HeadlessWindow) GetFrameCount() int {
	return w.frameCount
}
