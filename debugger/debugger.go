package debugger

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dcvideo/pvrscan/gui"
	"github.com/dcvideo/pvrscan/hardware"
	"github.com/dcvideo/pvrscan/hardware/pvr"
	"github.com/dcvideo/pvrscan/hardware/spec"
	"github.com/dcvideo/pvrscan/logger"
	"github.com/dcvideo/pvrscan/version"
)

type input struct {
	s   string
	err error
}

type debugger struct {
	ctx context

	guiQuit chan bool
	sig     chan os.Signal
	input   chan input

	// the GUI can be nil, in which case there is no video output and no user
	// input other than the terminal
	g *gui.GUI

	// all debugger output is written to out
	out io.Writer

	console *hardware.Console
	watches map[pvr.Register]watch

	// rule for stepping. by default (the field is nil) the step will move
	// forward one scheduler event, which is one scanline
	stepRule func() bool
	postStep func()

	// printing styles
	styles styles

	// run the emulation at the speed of the video mode
	limit bool

	// draw the test card into the framebuffer on every reset
	testcard bool
}

func newDebugger(guiQuit chan bool, g *gui.GUI, out io.Writer, colour bool) *debugger {
	m := &debugger{
		guiQuit: guiQuit,
		sig:     make(chan os.Signal, 1),
		input:   make(chan input, 1),
		g:       g,
		out:     out,
		styles:  newStyles(colour),
		watches: make(map[pvr.Register]watch),
	}
	m.console = hardware.Create(&m.ctx, g)

	// STARTRENDER can be written by the RENDER command or by a register or
	// memory write
	m.console.TA.OnStartRender = func() {
		m.println(m.styles.reg, "render started: framebuffer extraction skipped at next vblank")
	}

	return m
}

func (m *debugger) println(style lipgloss.Style, s string) {
	fmt.Fprintln(m.out, style.Render(s))
}

func (m *debugger) reset() {
	m.ctx.Reset()

	err := m.console.Reset()
	if err != nil {
		m.println(m.styles.err, err.Error())
		return
	}
	m.println(m.styles.debugger, "console reset")

	if m.testcard {
		err = m.console.TestCard()
		if err != nil {
			m.println(m.styles.err, err.Error())
		}
	}

	m.println(m.styles.video, m.console.Mode().String())
	m.println(m.styles.video, m.console.PVR.Timing().String())
}

// the channel of user input from the GUI. the channel is nil if there is no GUI
func (m *debugger) userInput() chan gui.Input {
	if m.g == nil {
		return nil
	}
	return m.g.UserInput
}

func (m *debugger) sendState(state gui.State) {
	if m.g != nil {
		m.g.SendState(state)
	}
}

// actionCommand converts user input from the GUI into a debugger command.
// returns nil if there is no equivalent command
func actionCommand(inp gui.Input) []string {
	switch inp.Action {
	case gui.Pause:
		return []string{"RUN"}
	case gui.StepFrame:
		return []string{"STEP", "FRAME"}
	case gui.Screenshot:
		return []string{"SCREENSHOT"}
	case gui.TestCard:
		return []string{"TESTCARD"}
	case gui.NextMode:
		return []string{"MODE", "NEXT"}
	case gui.Quit:
		return []string{"QUIT"}
	}
	return nil
}

func (m *debugger) contextBreaks() error {
	if len(m.ctx.breaks) == 0 {
		return nil
	}

	// breaks have been processed and so are now cleared
	err := errors.Join(m.ctx.breaks...)
	m.ctx.breaks = m.ctx.breaks[:0]

	return err
}

// step advances the emulation by one scheduler event, or until the step rule
// is satisfied. the step rule is reset after the step has completed
//
// returns true if quit signal has been received
func (m *debugger) step() bool {
	defer func() {
		if m.postStep != nil {
			m.postStep()
		}
		m.stepRule = nil
		m.postStep = nil
	}()

	// the number of events stepped over
	var ct int

	// loop until the step rule returns true
	var done bool
	for !done {
		select {
		case <-m.sig:
			done = true
			continue // for loop
		case <-m.guiQuit:
			return true
		default:
		}

		err := m.console.Step()
		if err != nil {
			if errors.Is(err, hardware.ErrNoEvents) {
				err = fmt.Errorf("%w: the emulation has stopped. RESET to restart", err)
			}
			m.println(m.styles.err, err.Error())
			return false
		}
		ct++

		err = m.contextBreaks()
		if err != nil {
			m.println(m.styles.err, err.Error())
			return false
		}

		// apply step rule
		if m.stepRule == nil {
			done = true
		} else {
			done = m.stepRule()
		}
	}

	m.console.PushRender()

	// report how many events were stepped if it is more than one
	if ct > 1 {
		m.println(m.styles.debugger, fmt.Sprintf("%d scanlines stepped", ct))
	}

	if m.postStep == nil {
		// by default we print the timing state of the emulation
		m.println(m.styles.video, m.console.PVR.Timing().String())
		if s := m.console.LastAreaStatus(); len(s) > 0 {
			m.println(m.styles.mem, s)
		}
	}

	return false
}

// returns true if quit signal has been received
func (m *debugger) run() bool {
	m.println(m.styles.debugger, "emulation running")

	// we measure the number of scanlines in the time period of the running emulation
	var eventCt int
	var startTime time.Time

	// sentinal errors to indicate why the run ended
	var (
		watchErr   = errors.New("watch")
		contextErr = errors.New("context")
		endRunErr  = errors.New("end run")
		quitErr    = errors.New("quit")
	)

	// hook is called after every scheduler event
	hook := func() error {
		select {
		case <-m.sig:
			return endRunErr
		case <-m.guiQuit:
			return quitErr
		case inp := <-m.userInput():
			switch inp.Action {
			case gui.Pause:
				return endRunErr
			case gui.Quit:
				return quitErr
			case gui.Screenshot, gui.TestCard, gui.NextMode:
				m.commands(actionCommand(inp))
			}
		default:
		}

		eventCt++

		err := m.contextBreaks()
		if err != nil {
			return fmt.Errorf("%w: %w", contextErr, err)
		}

		if w := m.checkWatches(); w != nil {
			return fmt.Errorf("%w: %s", watchErr, w)
		}

		return nil
	}

	startTime = time.Now()

	m.console.SetLimit(m.limit)
	m.sendState(gui.StateRunning)
	err := m.console.Run(hook)
	m.sendState(gui.StatePaused)
	m.console.SetLimit(false)

	if errors.Is(err, quitErr) {
		return true
	}

	m.console.PushRender()

	if errors.Is(err, endRunErr) {
		m.println(m.styles.debugger,
			fmt.Sprintf("%d scanlines in %.02f seconds", eventCt, time.Since(startTime).Seconds()),
		)
	} else if errors.Is(err, watchErr) {
		m.println(m.styles.watch, err.Error())
	} else if errors.Is(err, contextErr) {
		s := strings.TrimPrefix(err.Error(), fmt.Sprintf("%s: ", contextErr))
		m.println(m.styles.err, s)
	} else if errors.Is(err, hardware.ErrNoEvents) {
		m.println(m.styles.err, fmt.Sprintf("%s: the emulation has stopped. RESET to restart", err))
	} else if err != nil {
		m.println(m.styles.err, err.Error())
	}

	// it's useful to see the state of the sync pulse generator at the end of the run
	m.println(m.styles.video, m.console.PVR.Timing().String())

	// consume last memory access information
	_ = m.console.LastAreaStatus()

	return false
}

func (m *debugger) prompt() string {
	tm := m.console.PVR.Timing()
	return fmt.Sprintf("%s %d:%03d", m.console.Mode().ID, tm.VBlanks, tm.Scanline)
}

func (m *debugger) loop() {
	for {
		fmt.Fprintf(m.out, "%s> ", m.prompt())

		var cmd []string

		select {
		case input := <-m.input:
			if input.err != nil {
				if !errors.Is(input.err, io.EOF) {
					m.println(m.styles.err, input.err.Error())
				}
				fmt.Fprint(m.out, "\n")
				return
			}
			cmd = strings.Fields(input.s)
			if len(cmd) == 0 {
				cmd = []string{"STEP"}
			}
		case inp := <-m.userInput():
			cmd = actionCommand(inp)
			if cmd == nil {
				fmt.Fprint(m.out, "\r")
				continue // for loop
			}
			fmt.Fprintln(m.out, strings.Join(cmd, " "))
		case <-m.sig:
			fmt.Fprint(m.out, "\r")
			return
		case <-m.guiQuit:
			fmt.Fprint(m.out, "\n")
			return
		}

		if m.commands(cmd) {
			return
		}
	}
}

// Launch the debugger. The debugger reads commands from stdin until the QUIT
// command or until the guiQuit channel is written to. The GUI argument can be
// nil
func Launch(guiQuit chan bool, g *gui.GUI, args []string) error {
	var mode string
	var profile bool
	var testcard bool
	var echo bool

	flgs := flag.NewFlagSet(version.ApplicationName, flag.ContinueOnError)
	flgs.StringVar(&mode, "mode", spec.VGA.ID, "video mode: VGA, NTSC or PAL")
	flgs.BoolVar(&profile, "profile", false, "create CPU profile for emulator")
	flgs.BoolVar(&testcard, "testcard", false, "draw test card in the framebuffer on reset")
	flgs.BoolVar(&echo, "echo", false, "echo log entries to the terminal")
	err := flgs.Parse(args)
	if err != nil {
		return err
	}
	if len(flgs.Args()) > 0 {
		return fmt.Errorf("too many arguments to debugger")
	}

	md, err := spec.Lookup(mode)
	if err != nil {
		return err
	}

	if echo {
		logger.SetEcho(os.Stdout)
	}

	m := newDebugger(guiQuit, g, os.Stdout, stdoutIsTerminal())
	m.limit = g != nil
	m.testcard = testcard

	err = m.console.SetMode(md)
	if err != nil {
		return err
	}

	signal.Notify(m.sig, syscall.SIGINT)

	go func() {
		r := bufio.NewReader(os.Stdin)
		for {
			s, err := r.ReadString('\n')
			m.input <- input{
				s:   strings.TrimSpace(s),
				err: err,
			}
			if err != nil {
				return
			}
		}
	}()

	m.reset()
	m.sendState(gui.StatePaused)
	m.console.PushRender()

	if profile {
		f, err := os.Create("cpu.profile")
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer func() {
			err := f.Close()
			if err != nil {
				logger.Log(logger.Allow, "performance", err)
			}
		}()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	m.loop()
	m.console.Destroy()

	return nil
}
