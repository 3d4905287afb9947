package pvr

import (
	"fmt"

	"github.com/dcvideo/pvrscan/hardware/clocks"
	"github.com/dcvideo/pvrscan/hardware/holly"
	"github.com/dcvideo/pvrscan/logger"
)

// the hblank interrupt modes supported by the sync pulse generator
const (
	hblankModeLineComp  = 0x0
	hblankModeEveryLine = 0x2
)

const lineTimerLabel = "pvr scanline"

// Timing summarises the state of the sync pulse generator
type Timing struct {
	Mode       string
	Interlace  bool
	PixelClock int
	LineClock  int
	Lines      int
	Scanline   int
	Field      int
	VSync      bool
	VBlanks    int
	Extracted  int
}

func (t Timing) String() string {
	return fmt.Sprintf("mode=%s interlace=%v pixel_clock=%d line_clock=%d scanline=%d/%d field=%d vsync=%v vblanks=%d extracted=%d",
		t.Mode, t.Interlace, t.PixelClock, t.LineClock, t.Scanline, t.Lines,
		t.Field, t.VSync, t.VBlanks, t.Extracted)
}

// Timing returns the current state of the sync pulse generator
func (pvr *PVR) Timing() Timing {
	ctrl := SPGControl(pvr.Registers.Get(SPG_CONTROL))
	status := SPGStatus(pvr.Registers.Get(SPG_STATUS))
	return Timing{
		Mode:       ctrl.Mode(),
		Interlace:  ctrl.Interlace(),
		PixelClock: pvr.pixelClock,
		LineClock:  pvr.lineClock,
		Lines:      SPGLoad(pvr.Registers.Get(SPG_LOAD)).VCount() + 1,
		Scanline:   pvr.line,
		Field:      status.FieldNum(),
		VSync:      status.VSync(),
		VBlanks:    pvr.vblanks,
		Extracted:  pvr.extracted,
	}
}

// LineDuration returns the number of nanoseconds between scanline callbacks
func (pvr *PVR) LineDuration() int64 {
	return clocks.HzToNano(int64(pvr.lineClock))
}

func (pvr *PVR) cancelTimer() {
	if pvr.lineTimer != nil {
		pvr.sched.Cancel(pvr.lineTimer)
		pvr.lineTimer = nil
	}
}

func (pvr *PVR) startTimer() {
	pvr.lineTimer = pvr.sched.Start(lineTimerLabel, pvr.LineDuration(), pvr.nextScanline)
}

// reconfigure the sync pulse generator from the current register values. any
// pending scanline timer is replaced
func (pvr *PVR) reconfigure() {
	ctrl := SPGControl(pvr.Registers.Get(SPG_CONTROL))
	load := SPGLoad(pvr.Registers.Get(SPG_LOAD))
	hblank := SPGHBlank(pvr.Registers.Get(SPG_HBLANK))
	vblank := SPGVBlank(pvr.Registers.Get(SPG_VBLANK))

	pvr.pixelClock = clocks.PixelClock
	if FBRCtrl(pvr.Registers.Get(FB_R_CTRL)).VClkDiv() {
		pvr.pixelClock = clocks.PixelClockDouble
	}

	// hcount is the number of pixel clock cycles per line minus one
	pvr.lineClock = pvr.pixelClock / (load.HCount() + 1)
	if ctrl.Interlace() {
		pvr.lineClock *= 2
	}

	logger.Logf(logger.Allow, "pvr", "reconfigure mode=%s interlace=%v pixel_clock=%d line_clock=%d hcount=%d hbstart=%d hbend=%d vcount=%d vbstart=%d vbend=%d",
		ctrl.Mode(), ctrl.Interlace(), pvr.pixelClock, pvr.lineClock,
		load.HCount(), hblank.HBStart(), hblank.HBEnd(),
		load.VCount(), vblank.VBStart(), vblank.VBEnd())

	pvr.cancelTimer()
	pvr.startTimer()
}

// inVSync returns true if the line is inside the vertical sync window. the
// window wraps around the end of the frame if vbstart is not less than vbend
func inVSync(line int, vblank SPGVBlank) bool {
	if vblank.VBStart() < vblank.VBEnd() {
		return line >= vblank.VBStart() && line < vblank.VBEnd()
	}
	return line >= vblank.VBStart() || line < vblank.VBEnd()
}

// nextScanline is the scanline timer callback
func (pvr *PVR) nextScanline() {
	// the timer that called this function has expired
	pvr.lineTimer = nil

	if err := pvr.tick(); err != nil {
		pvr.fatal(err)
		return
	}

	pvr.startTimer()
}

// tick advances the sync pulse generator by one scanline
func (pvr *PVR) tick() error {
	numLines := SPGLoad(pvr.Registers.Get(SPG_LOAD)).VCount() + 1
	pvr.line = (pvr.line + 1) % numLines

	// hblank in
	hblankInt := SPGHBlankInt(pvr.Registers.Get(SPG_HBLANK_INT))
	switch hblankInt.Mode() {
	case hblankModeLineComp:
		if pvr.line == hblankInt.LineCompVal() {
			pvr.intr.Raise(holly.PCHIINT)
		}
	case hblankModeEveryLine:
		pvr.intr.Raise(holly.PCHIINT)
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedHBlankMode, hblankInt.Mode())
	}

	vblankInt := SPGVBlankInt(pvr.Registers.Get(SPG_VBLANK_INT))
	if pvr.line == vblankInt.VBlankIn() {
		pvr.intr.Raise(holly.PCVIINT)
	}
	if pvr.line == vblankInt.VBlankOut() {
		pvr.intr.Raise(holly.PCVOINT)
	}

	status := SPGStatus(pvr.Registers.Get(SPG_STATUS))
	wasVSync := status.VSync()
	vsync := inVSync(pvr.line, SPGVBlank(pvr.Registers.Get(SPG_VBLANK)))
	status = status.withVSync(vsync).withScanline(pvr.line)
	pvr.Registers.Set(SPG_STATUS, uint32(status))

	if !wasVSync && vsync {
		return pvr.vblankIn()
	} else if wasVSync && !vsync {
		pvr.vblankOut()
	}

	return nil
}

func (pvr *PVR) vblankIn() error {
	pvr.vblanks++

	// if STARTRENDER wasn't written to this frame, check to see if the
	// framebuffer was written to directly
	if !pvr.gotStartRender {
		if _, err := pvr.updateFramebuffer(); err != nil {
			return err
		}
	} else {
		pvr.gotStartRender = false
	}

	// flip field
	status := SPGStatus(pvr.Registers.Get(SPG_STATUS))
	if SPGControl(pvr.Registers.Get(SPG_CONTROL)).Interlace() {
		status = status.withFieldNum(status.FieldNum() ^ 1)
	} else {
		status = status.withFieldNum(0)
	}
	pvr.Registers.Set(SPG_STATUS, uint32(status))

	pvr.pres.VBlankIn(VOControl(pvr.Registers.Get(VO_CONTROL)).BlankVideo())

	return nil
}

func (pvr *PVR) vblankOut() {
	pvr.pres.VBlankOut()
}
