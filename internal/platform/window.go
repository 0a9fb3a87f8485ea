// Package platform opens a glfw window with an OpenGL core context and
// turns glfw callbacks into scene events.
package platform

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/adinfinit/quad/internal/scene"
)

type Config struct {
	Width, Height int
	Title         string

	// GLMajor and GLMinor select the core profile context version.
	GLMajor, GLMinor int
	VSync            bool
}

// Window is a glfw window whose callbacks queue scene events.
type Window struct {
	*glfw.Window
	events []scene.Event
}

// Init initializes glfw; call Terminate when done.
// It must be called from the main thread.
func Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	return nil
}

func Terminate() { glfw.Terminate() }

// Open creates a window centered on the primary monitor and makes its
// context current.
func Open(config Config) (*Window, error) {
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.False)

	glfw.WindowHint(glfw.ContextVersionMajor, config.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, config.GLMinor)

	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	glfwWindow, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if monitor := glfw.GetPrimaryMonitor(); monitor != nil {
		if mode := monitor.GetVideoMode(); mode != nil {
			glfwWindow.SetPos((mode.Width-config.Width)/2, (mode.Height-config.Height)/2)
		}
	}
	glfwWindow.Show()
	glfwWindow.MakeContextCurrent()

	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{Window: glfwWindow}
	glfwWindow.SetKeyCallback(window.onKey)
	glfwWindow.SetCloseCallback(window.onClose)
	glfwWindow.SetFocusCallback(window.onFocus)
	return window, nil
}

func (window *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	switch action {
	case glfw.Press:
		window.events = append(window.events, scene.KeyEvent{Key: keyOf(key), Pressed: true})
	case glfw.Release:
		window.events = append(window.events, scene.KeyEvent{Key: keyOf(key), Pressed: false})
	default:
		window.events = append(window.events, scene.OtherEvent{})
	}
}

func (window *Window) onClose(*glfw.Window) {
	window.events = append(window.events, scene.QuitEvent{})
}

func (window *Window) onFocus(*glfw.Window, bool) {
	window.events = append(window.events, scene.OtherEvent{})
}

// PollEvents processes pending window events without blocking and
// returns the ones queued since the last call.
func (window *Window) PollEvents() []scene.Event {
	glfw.PollEvents()
	events := window.events
	window.events = nil
	return events
}

func keyOf(key glfw.Key) scene.Key {
	switch key {
	case glfw.KeySpace:
		return scene.KeySpace
	case glfw.KeyEscape:
		return scene.KeyEscape
	case glfw.KeyF:
		return scene.KeyF
	case glfw.KeyL:
		return scene.KeyL
	case glfw.KeyP:
		return scene.KeyP
	}
	return scene.KeyUnknown
}
