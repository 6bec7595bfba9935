// Package input turns SDL2 events into per-frame input state.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Wheel  float32
	Button uint8
}

// Input collects the events of one frame and tracks which keys and buttons are held.
type Input struct {
	events  []Event
	held    map[sdl.Scancode]bool
	buttons map[uint8]bool

	// Passthrough, when set, sees every raw event first; returning true consumes it.
	Passthrough func(sdl.Event) bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		held:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events. It returns true when the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.Passthrough != nil && i.Passthrough(event) {
			continue
		}
		if i.handle(event) {
			quit = true
		}
	}
	return quit
}

func (i *Input) handle(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.push(Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			i.push(Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)})
		}
		if e.Event == sdl.WINDOWEVENT_FOCUS_LOST {
			// Key-up events are not delivered to an unfocused window.
			clear(i.held)
			clear(i.buttons)
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return false
		}
		code := e.Keysym.Scancode
		if e.Type == sdl.KEYDOWN {
			i.held[code] = true
			i.push(Event{Type: EventKeyDown, Key: code})
		} else {
			delete(i.held, code)
			i.push(Event{Type: EventKeyUp, Key: code})
		}

	case *sdl.MouseMotionEvent:
		i.push(Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		})

	case *sdl.MouseButtonEvent:
		ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			i.buttons[e.Button] = true
			ev.Type = EventMouseDown
		} else {
			delete(i.buttons, e.Button)
			ev.Type = EventMouseUp
		}
		i.push(ev)

	case *sdl.MouseWheelEvent:
		i.push(Event{Type: EventMouseWheel, Wheel: float32(e.Y)})
	}
	return false
}

func (i *Input) push(e Event) {
	i.events = append(i.events, e)
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether the key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether the key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// IsButtonHeld reports whether a mouse button is currently down.
func (i *Input) IsButtonHeld(button uint8) bool {
	return i.buttons[button]
}

// MouseDelta sums the pointer motion of this frame.
func (i *Input) MouseDelta() (dx, dy int) {
	for _, e := range i.events {
		if e.Type == EventMouseMove {
			dx += e.DeltaX
			dy += e.DeltaY
		}
	}
	return dx, dy
}

// Wheel sums the vertical scroll of this frame.
func (i *Input) Wheel() float32 {
	var w float32
	for _, e := range i.events {
		if e.Type == EventMouseWheel {
			w += e.Wheel
		}
	}
	return w
}
