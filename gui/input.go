package gui

// Action is a request made by the user through the GUI
type Action int

// Input is a single user input event
type Input struct {
	Action Action
	Data   any
}

// list of actions
const (
	Nothing Action = iota

	// toggle between running and paused emulation
	Pause

	// advance the emulation by one frame. only meaningful when paused
	StepFrame

	// save the current frame to disk
	Screenshot

	// write the test card to the framebuffer
	TestCard

	// select the next video mode
	NextMode

	// end the program
	Quit
)

func (a Action) String() string {
	switch a {
	case Pause:
		return "pause"
	case StepFrame:
		return "step frame"
	case Screenshot:
		return "screenshot"
	case TestCard:
		return "test card"
	case NextMode:
		return "next mode"
	case Quit:
		return "quit"
	}
	return "nothing"
}
