package gui

import (
	"image"
)

// State is the state of the emulation as seen by the GUI
type State int

// list of emulation states
const (
	StatePaused State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateRunning:
		return "running"
	}
	return "unknown"
}

// Frame is a single frame of video output from the emulation
type Frame struct {
	Main *image.RGBA

	// description of the frame suitable for a status line
	Status string
}

// GUI is the means of communication between the emulation and the GUI
// implementation. All channels are buffered and the sender should never block
type GUI struct {
	// frames sent from the emulation
	SetImage chan Frame

	// changes of emulation state
	State chan State

	// user input that isn't a debugger command
	UserInput chan Input
}

// NewGUI is the preferred method of initialisation for the GUI type
func NewGUI() *GUI {
	return &GUI{
		SetImage:  make(chan Frame, 1),
		State:     make(chan State, 1),
		UserInput: make(chan Input, 10),
	}
}

// SendImage sends the frame to the GUI without blocking. If the GUI has not
// consumed the previous frame then the previous frame is replaced
func (g *GUI) SendImage(f Frame) {
	select {
	case g.SetImage <- f:
		return
	default:
	}

	// drain the stale frame and try again. the GUI might have consumed the
	// frame in the meantime so the drain mustn't block
	select {
	case <-g.SetImage:
	default:
	}

	select {
	case g.SetImage <- f:
	default:
	}
}

// SendState sends the state change to the GUI without blocking. A pending state
// change that has not been consumed is replaced
func (g *GUI) SendState(s State) {
	select {
	case <-g.State:
	default:
	}
	select {
	case g.State <- s:
	default:
	}
}
