package ebiten

import (
	"image/color"

	"github.com/dcvideo/pvrscan/gui"
	"github.com/dcvideo/pvrscan/logger"
	"github.com/dcvideo/pvrscan/version"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	input "github.com/quasilyte/ebitengine-input"
	"golang.org/x/image/font/basicfont"
)

type windowGeometry struct {
	x, y int
	w, h int
}

func (g windowGeometry) valid() bool {
	return g.x >= 0 && g.y >= 0 && g.w > 0 && g.h > 0
}

type guiEbiten struct {
	g    *gui.GUI
	geom windowGeometry

	started bool
	endGui  chan bool

	state gui.State

	main   *ebiten.Image
	status string

	// width/height of incoming image from emulation. not to be confused with window dimensions
	width  int
	height int

	inputHandler *input.Handler
	inputSystem  input.System
}

func (eg *guiEbiten) Update() error {
	if !eg.started {
		eg.initialise()
	}

	// deal with quit condition
	select {
	case <-eg.endGui:
		return ebiten.Termination
	default:
	}

	// handle user input
	err := eg.input()
	if err != nil {
		return ebiten.Termination
	}

	// change state if necessary
	select {
	case eg.state = <-eg.g.State:
	default:
	}

	// retrieve any pending images
	select {
	case img := <-eg.g.SetImage:
		eg.status = img.Status
		if img.Main != nil {
			if eg.main == nil || eg.main.Bounds() != img.Main.Bounds() {
				eg.width = img.Main.Bounds().Dx()
				eg.height = img.Main.Bounds().Dy()
				eg.main = ebiten.NewImage(eg.width, eg.height)
			}
			eg.main.WritePixels(img.Main.Pix)
		}
	default:
	}

	return nil
}

// colour of the status line
var statusColor = color.RGBA{R: 0xff, G: 0xff, B: 0x60, A: 0xff}

func (eg *guiEbiten) Draw(screen *ebiten.Image) {
	if eg.main != nil {
		var op ebiten.DrawImageOptions
		screen.DrawImage(eg.main, &op)
	}

	// the status line is only drawn when the emulation is paused
	if eg.state == gui.StatePaused {
		text.Draw(screen, eg.state.String(), basicfont.Face7x13, 4, 14, statusColor)
		if eg.status != "" {
			text.Draw(screen, eg.status, basicfont.Face7x13, 4, 28, statusColor)
		}
	}

	eg.geom.x, eg.geom.y = ebiten.WindowPosition()
	eg.geom.w, eg.geom.h = ebiten.WindowSize()
}

func (eg *guiEbiten) Layout(width, height int) (int, int) {
	if eg.main != nil {
		return eg.width, eg.height
	}
	return width, height
}

// Launch the GUI. Must be run on the main goroutine. The function returns when
// the window is closed or when the endGui channel is written to
func Launch(endGui chan bool, g *gui.GUI) error {
	ebiten.SetWindowTitle(version.Title())
	ebiten.SetVsyncEnabled(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowPosition(10, 10)
	ebiten.SetWindowSize(640, 480)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	eg := &guiEbiten{
		endGui: endGui,
		g:      g,
		state:  gui.StateRunning,
	}

	eg.inputSystem.Init(input.SystemConfig{
		DevicesEnabled: input.AnyDevice,
	})

	// wait for the first state change and a possible quit request
	select {
	case eg.state = <-g.State:
	case <-endGui:
		return nil
	}

	var err error

	eg.geom, err = onWindowOpen()
	if err != nil {
		logger.Log(logger.Allow, "gui", err.Error())
	}

	defer func() {
		err := onWindowClose(eg.geom)
		if err != nil {
			logger.Log(logger.Allow, "gui", err.Error())
			return
		}
	}()

	return ebiten.RunGame(eg)
}
