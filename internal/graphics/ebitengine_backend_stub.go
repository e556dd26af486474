//go:build headless
// +build headless

package graphics

import "fmt"

var errEbitengineUnavailable = fmt.Errorf("ebitengine backend not available in a headless build")

// EbitengineBackend is a no-op substitute used when the binary is built with
// the headless tag, so cmd/go8bit links without the ebitengine/GL stack.
type EbitengineBackend struct{}

// EbitengineWindow is the matching no-op Window for headless builds.
type EbitengineWindow struct{}

// NewEbitengineBackend creates a stub backend for headless builds
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

func (b *EbitengineBackend) Initialize(config Config) error {
	return errEbitengineUnavailable
}

func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	return nil, errEbitengineUnavailable
}

func (b *EbitengineBackend) Cleanup() error {
	return nil
}

func (b *EbitengineBackend) IsHeadless() bool {
	return true
}

func (b *EbitengineBackend) GetName() string {
	return "Ebitengine-Stub"
}

func (w *EbitengineWindow) SetTitle(title string)                       {}
func (w *EbitengineWindow) GetSize() (width, height int)                { return 0, 0 }
func (w *EbitengineWindow) ShouldClose() bool                           { return true }
func (w *EbitengineWindow) SwapBuffers()                                {}
func (w *EbitengineWindow) PollEvents() []InputEvent                    { return nil }
func (w *EbitengineWindow) Cleanup() error                              { return nil }
func (w *EbitengineWindow) SetEmulatorUpdateFunc(updateFunc func() error) {}

func (w *EbitengineWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	return errEbitengineUnavailable
}

func (w *EbitengineWindow) Run() error {
	return errEbitengineUnavailable
}
