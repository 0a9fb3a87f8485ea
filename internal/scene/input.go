package scene

// Event is something the window reported since the last frame.
// It is one of QuitEvent, KeyEvent or OtherEvent.
type Event interface{ event() }

// QuitEvent is a request to close the window.
type QuitEvent struct{}

// KeyEvent is a key press or release.
type KeyEvent struct {
	Key     Key
	Pressed bool
}

// OtherEvent is any event the scene does not react to.
type OtherEvent struct{}

func (QuitEvent) event()  {}
func (KeyEvent) event()   {}
func (OtherEvent) event() {}

// Key identifies a keyboard key.
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyEscape
	KeyF
	KeyL
	KeyP
)

func (key Key) String() string {
	switch key {
	case KeySpace:
		return "Space"
	case KeyEscape:
		return "Escape"
	case KeyF:
		return "F"
	case KeyL:
		return "L"
	case KeyP:
		return "P"
	}
	return "Unknown"
}

// EventSource drains the events that are pending, without blocking.
type EventSource interface {
	PollEvents() []Event
}

// Presenter shows the frame that was just drawn.
type Presenter interface {
	SwapBuffers()
}
