package pvr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dcvideo/pvrscan/hardware/holly"
	"github.com/dcvideo/pvrscan/hardware/scheduler"
	"github.com/dcvideo/pvrscan/logger"
)

// Context allows the PVR to signal a break
type Context interface {
	Break(error)
}

// Scheduler arranges for the scanline callback to be run in the future
type Scheduler interface {
	Start(label string, delay int64, callback func()) *scheduler.Timer
	Cancel(t *scheduler.Timer)
}

// Interrupts is the interface to the interrupt controller
type Interrupts interface {
	Raise(intr holly.Interrupt)
}

// Renderer is the interface to the tile accelerator and the rendering
// pipeline
type Renderer interface {
	SoftReset()
	StartRender()
	ListInit()
	ListCont()
	YUVInit()
}

// Presentation receives the video output of the PVR
type Presentation interface {
	VBlankIn(blankVideo bool)
	VBlankOut()

	// the data slice is only valid for the duration of the call. pixels are
	// packed as three bytes (RGB) and each line of the data is stride pixels
	// long. stride is never less than width and is one more than width for
	// some 24-bit framebuffers. pixels past the width should be ignored
	PushPixels(data []uint8, stride int, width int, height int)
}

// the wrapping error for any errors passed to Context.Break()
var ContextError = errors.New("pvr")

// list of sentinel errors
var (
	ErrUnsupportedHBlankMode = errors.New("unsupported hblank interrupt mode")
	ErrUnsupportedDepth      = errors.New("unsupported framebuffer depth")
	ErrFramebufferBounds     = errors.New("framebuffer exceeds output bounds")
	ErrUnmapped              = errors.New("unmapped register address")
)

// PVR is the video output part of the PowerVR graphics processor. It
// implements the sync pulse generator, the register block and the extraction
// of framebuffers that have been written directly by the program
type PVR struct {
	ctx   Context
	vram  *VRAM
	sched Scheduler
	intr  Interrupts
	ta    Renderer
	pres  Presentation

	// the register block. writes through the bus should be made with the
	// Write() function so that side effects are triggered
	Registers RegisterFile

	// registers with side effects on write
	handlers map[Register]handler

	// the timer for the next scanline. nil if there is no pending timer
	lineTimer *scheduler.Timer

	// the current clock frequencies in Hz
	pixelClock int
	lineClock  int

	// the current scanline
	line int

	// set by a write to STARTRENDER and reset on the next vblank
	gotStartRender bool

	// the output frame. grows as required up to the limit of
	// MaxFramebufferWidth and MaxFramebufferHeight
	framebuffer []uint8
	fbWidth     int
	fbHeight    int

	// counters
	vblanks   int
	extracted int
}

// Create is the preferred method of initialisation for the PVR type
func Create(ctx Context, vram *VRAM, sched Scheduler, intr Interrupts, ta Renderer, pres Presentation) *PVR {
	pvr := &PVR{
		ctx:   ctx,
		vram:  vram,
		sched: sched,
		intr:  intr,
		ta:    ta,
		pres:  pres,
	}
	pvr.handlers = pvr.handlerTable()
	pvr.Registers.Reset()

	// configure initial vsync interval
	pvr.reconfigure()

	return pvr
}

// Reset restores the registers to their default values and restarts the sync
// pulse generator. Video memory is not affected
func (pvr *PVR) Reset() {
	pvr.Registers.Reset()
	pvr.line = 0
	pvr.gotStartRender = false
	pvr.fbWidth = 0
	pvr.fbHeight = 0
	pvr.vblanks = 0
	pvr.extracted = 0
	pvr.reconfigure()
}

// Destroy cancels any pending scanline timer. The PVR should not be used after
// being destroyed
func (pvr *PVR) Destroy() {
	pvr.cancelTimer()
}

func (pvr *PVR) Label() string {
	return "PVR"
}

func (pvr *PVR) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s: %s line=%d/%d\n", pvr.Label(),
		SPGControl(pvr.Registers.Get(SPG_CONTROL)).Mode(),
		pvr.line, SPGLoad(pvr.Registers.Get(SPG_LOAD)).VCount()+1))
	s.WriteString(fmt.Sprintf("FB_R_CTRL: %s\n", FBRCtrl(pvr.Registers.Get(FB_R_CTRL))))
	s.WriteString(fmt.Sprintf("FB_R_SIZE: %s\n", FBRSize(pvr.Registers.Get(FB_R_SIZE))))
	s.WriteString(fmt.Sprintf("FB_R_SOF1=%08x FB_R_SOF2=%08x\n", pvr.Registers.Get(FB_R_SOF1), pvr.Registers.Get(FB_R_SOF2)))
	s.WriteString(fmt.Sprintf("SPG_STATUS: %s\n", SPGStatus(pvr.Registers.Get(SPG_STATUS))))
	s.WriteString(fmt.Sprintf("vblanks=%d extracted=%d startrender=%v", pvr.vblanks, pvr.extracted, pvr.gotStartRender))
	return s.String()
}

// Status is the same as String() but the result is also written to the log
func (pvr *PVR) Status() string {
	s := pvr.String()
	logger.Log(logger.Allow, "pvr", s)
	return s
}

// VRAM returns the video memory used by the PVR
func (pvr *PVR) VRAM() *VRAM {
	return pvr.vram
}

// break emulation with an error wrapped in ContextError
func (pvr *PVR) fatal(err error) {
	logger.Log(logger.Allow, "pvr", err)
	pvr.ctx.Break(fmt.Errorf("%w: %w", ContextError, err))
}
