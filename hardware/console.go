package hardware

import (
	"errors"
	"fmt"
	"image"

	"github.com/dcvideo/pvrscan/gui"
	"github.com/dcvideo/pvrscan/hardware/holly"
	"github.com/dcvideo/pvrscan/hardware/pvr"
	"github.com/dcvideo/pvrscan/hardware/scheduler"
	"github.com/dcvideo/pvrscan/hardware/spec"
	"github.com/dcvideo/pvrscan/hardware/ta"
)

// Context allows the console to signal a break
type Context interface {
	Break(error)
}

// ErrNoEvents is returned by Step() when there is nothing left to run
var ErrNoEvents = errors.New("no pending events")

// Console is the video hardware of the Dreamcast and the devices it talks to
type Console struct {
	ctx Context

	Mem   *memory
	VRAM  *pvr.VRAM
	Sched *scheduler.Scheduler
	Holly *holly.Holly
	TA    *ta.TA
	PVR   *pvr.PVR

	pres  *presentation
	limit *limiter
	mode  spec.Mode
}

// Create a new console. The gui argument can be nil
func Create(ctx Context, g *gui.GUI) *Console {
	con := &Console{
		ctx:   ctx,
		VRAM:  pvr.NewVRAM(),
		Sched: scheduler.NewScheduler(),
		Holly: holly.Create(),
		TA:    ta.Create(),
		pres:  newPresentation(g),
		mode:  spec.VGA,
	}
	con.PVR = pvr.Create(ctx, con.VRAM, con.Sched, con.Holly, con.TA, con.pres)
	con.Mem = createMemory(con.PVR, con.VRAM)

	if err := con.Reset(); err != nil {
		ctx.Break(err)
	}

	return con
}

// Reset the console and set the video mode to the most recent mode selected
// with SetMode(). Video memory is cleared
func (con *Console) Reset() error {
	con.VRAM.Reset()
	con.Holly.Reset()
	con.TA.Reset()
	con.pres.reset()
	con.PVR.Reset()
	return con.SetMode(con.mode)
}

// Destroy the console. It should not be used afterwards
func (con *Console) Destroy() {
	con.PVR.Destroy()
	if con.limit != nil {
		con.limit.stop()
	}
}

// SetLimit turns the frame limiter on or off. When on, every vblank waits
// until it is due according to the refresh rate of the video mode
func (con *Console) SetLimit(on bool) {
	if on {
		if con.limit == nil {
			con.limit = newLimiter(con.mode.Refresh)
		}
		con.pres.limit = con.limit
	} else {
		if con.limit != nil {
			con.limit.stop()
			con.limit = nil
		}
		con.pres.limit = nil
	}
}

// Step runs the next scheduled event
func (con *Console) Step() error {
	if !con.Sched.RunNext() {
		return ErrNoEvents
	}
	return nil
}

// Run the emulation until the hook function returns an error. The hook
// function is called after every event
func (con *Console) Run(hook func() error) error {
	for {
		err := con.Step()
		if err != nil {
			return err
		}

		err = hook()
		if err != nil {
			return err
		}
	}
}

// Read data from the memory map
func (con *Console) Read(address uint32, mask uint32) (uint32, error) {
	return con.Mem.Read(address, mask)
}

// Write data to the memory map
func (con *Console) Write(address uint32, data uint32, mask uint32) error {
	return con.Mem.Write(address, data, mask)
}

// write to a PVR register through the memory map
func (con *Console) writeRegister(r pvr.Register, v uint32) error {
	return con.Mem.Write(RegisterOrigin+r.Address(), v, 0xffffffff)
}

// SetMode programs the PVR registers with the values of the video mode
func (con *Console) SetMode(mode spec.Mode) error {
	regs := []struct {
		r pvr.Register
		v uint32
	}{
		{r: pvr.SPG_HBLANK, v: mode.SPGHBlank},
		{r: pvr.SPG_VBLANK, v: mode.SPGVBlank},
		{r: pvr.SPG_HBLANK_INT, v: mode.SPGHBlankInt},
		{r: pvr.SPG_VBLANK_INT, v: mode.SPGVBlankInt},
		{r: pvr.SPG_CONTROL, v: mode.SPGControl},
		{r: pvr.VO_CONTROL, v: mode.VOControl},
		{r: pvr.VO_STARTX, v: mode.VOStartX},
		{r: pvr.VO_STARTY, v: mode.VOStartY},
		{r: pvr.SCALER_CTL, v: mode.ScalerCtl},
		{r: pvr.FB_R_SIZE, v: mode.FBRSize},
		{r: pvr.FB_R_SOF1, v: mode.Framebuffer},
		{r: pvr.FB_R_SOF2, v: mode.Field2},
		{r: pvr.FB_W_SOF1, v: mode.Framebuffer},
		{r: pvr.FB_W_SOF2, v: mode.Field2},

		// SPG_LOAD and FB_R_CTRL reconfigure the sync pulse generator so
		// they are written once everything else is in place
		{r: pvr.SPG_LOAD, v: mode.SPGLoad},
		{r: pvr.FB_R_CTRL, v: mode.FBRCtrl},
	}

	for _, r := range regs {
		if err := con.writeRegister(r.r, r.v); err != nil {
			return fmt.Errorf("console: set mode: %w", err)
		}
	}

	con.mode = mode
	con.pres.mode = mode.ID
	if con.limit != nil {
		con.limit.setRate(mode.Refresh)
	}

	return nil
}

// Mode returns the most recent video mode selected with SetMode()
func (con *Console) Mode() spec.Mode {
	return con.mode
}

// StartRender writes to the STARTRENDER register in the same way as a program
// that has finished sending a scene to the tile accelerator
func (con *Console) StartRender() error {
	return con.writeRegister(pvr.STARTRENDER, 1)
}

// Frame returns the most recent frame pushed by the PVR. Returns nil if no
// frame has been pushed since the last reset
func (con *Console) Frame() *image.RGBA {
	return con.pres.frame
}

// PushRender sends the most recent frame to the GUI
func (con *Console) PushRender() {
	con.pres.send()
}

// LastAreaStatus returns the status of the most recently written memory area.
// The status is only returned once
func (con *Console) LastAreaStatus() string {
	if con.Mem.last == nil {
		return ""
	}
	s := con.Mem.last.Status()
	con.Mem.last = nil
	return s
}

func (con *Console) String() string {
	return fmt.Sprintf("%s\n%s\n%s\n%s", con.mode, con.pres, con.Holly, con.TA)
}
