package ebiten

import (
	"github.com/dcvideo/pvrscan/gui"
	"github.com/hajimehoshi/ebiten/v2"
	input "github.com/quasilyte/ebitengine-input"
)

// actions recognised by the input handler
const (
	actionPause      = input.Action(gui.Pause)
	actionStepFrame  = input.Action(gui.StepFrame)
	actionScreenshot = input.Action(gui.Screenshot)
	actionTestCard   = input.Action(gui.TestCard)
	actionNextMode   = input.Action(gui.NextMode)
	actionQuit       = input.Action(gui.Quit)
)

// every action that is forwarded to the emulation
var forwarded = []input.Action{
	actionPause,
	actionStepFrame,
	actionScreenshot,
	actionTestCard,
	actionNextMode,
}

func (eg *guiEbiten) initialise() {
	keymap := input.Keymap{
		actionPause:      {input.KeyF3, input.KeyGamepadBack},
		actionStepFrame:  {input.KeyF5, input.KeyGamepadRight},
		actionScreenshot: {input.KeyF12},
		actionTestCard:   {input.KeyF6, input.KeyGamepadA},
		actionNextMode:   {input.KeyF7, input.KeyGamepadStart},
		actionQuit:       {input.KeyEscape},
	}
	eg.inputHandler = eg.inputSystem.NewHandler(uint8(0), keymap)
	eg.started = true
}

// input forwards just pressed actions to the emulation. returns
// ebiten.Termination if the quit action has been pressed
func (eg *guiEbiten) input() error {
	eg.inputSystem.Update()

	if eg.inputHandler.ActionIsJustPressed(actionQuit) {
		select {
		case eg.g.UserInput <- gui.Input{Action: gui.Quit}:
		default:
		}
		return ebiten.Termination
	}

	for _, a := range forwarded {
		if !eg.inputHandler.ActionIsJustPressed(a) {
			continue
		}

		inp := gui.Input{Action: gui.Action(a)}
		select {
		case eg.g.UserInput <- inp:
		default:
			return nil
		}
	}

	return nil
}
