package pvr

import (
	"errors"
	"testing"

	"github.com/dcvideo/pvrscan/hardware/holly"
	"github.com/dcvideo/pvrscan/hardware/scheduler"
	"github.com/dcvideo/pvrscan/hardware/ta"
	"github.com/dcvideo/pvrscan/test"
)

type testContext struct {
	breaks []error
}

func (ctx *testContext) Break(err error) {
	ctx.breaks = append(ctx.breaks, err)
}

type testPresentation struct {
	vblankIn  int
	vblankOut int
	blank     bool

	frames int
	stride int
	width  int
	height int
	data   []uint8
}

func (pres *testPresentation) VBlankIn(blankVideo bool) {
	pres.vblankIn++
	pres.blank = blankVideo
}

func (pres *testPresentation) VBlankOut() {
	pres.vblankOut++
}

func (pres *testPresentation) PushPixels(data []uint8, stride int, width int, height int) {
	pres.frames++
	pres.stride = stride
	pres.width = width
	pres.height = height
	pres.data = append(pres.data[:0], data...)
}

type harness struct {
	ctx   *testContext
	sched *scheduler.Scheduler
	intr  *holly.Holly
	ta    *ta.TA
	pres  *testPresentation
	pvr   *PVR
}

func newHarness() *harness {
	h := &harness{
		ctx:   &testContext{},
		sched: scheduler.NewScheduler(),
		intr:  holly.Create(),
		ta:    ta.Create(),
		pres:  &testPresentation{},
	}
	h.pvr = Create(h.ctx, NewVRAM(), h.sched, h.intr, h.ta, h.pres)
	return h
}

func (h *harness) write(r Register, v uint32) {
	h.pvr.Write(r.Address(), v, 0xffffffff)
}

func (h *harness) read(r Register) uint32 {
	return h.pvr.Read(r.Address(), 0xffffffff)
}

// configure a short non-interlaced frame with no interrupts on line zero
func (h *harness) shortFrame(vcount int, vbstart int, vbend int) {
	h.write(SPG_VBLANK, uint32(vbstart)|uint32(vbend)<<16)
	h.write(SPG_VBLANK_INT, 0x03ff03ff)
	h.write(SPG_HBLANK_INT, 0x000003ff)
	h.write(SPG_CONTROL, 0)
	h.write(SPG_LOAD, uint32(vcount)<<16|0x359)
}

func TestCreate(t *testing.T) {
	h := newHarness()
	test.ExpectEquality(t, h.read(ID), uint32(0x17fd11db))
	test.ExpectEquality(t, h.read(SPG_LOAD), uint32(0x01060359))
	test.ExpectEquality(t, h.sched.Pending(), 1)

	// 13.5MHz divided by 858 clocks per line
	test.ExpectEquality(t, h.pvr.Timing().LineClock, 15734)
	test.ExpectEquality(t, h.pvr.LineDuration(), int64(63556))
	due, ok := h.sched.Next()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, due, int64(63556))

	h.pvr.Destroy()
	test.ExpectEquality(t, h.sched.Pending(), 0)
}

func TestIDReadOnly(t *testing.T) {
	h := newHarness()
	h.write(ID, 0x00000000)
	test.ExpectEquality(t, h.read(ID), uint32(0x17fd11db))
	test.ExpectEquality(t, len(h.ctx.breaks), 0)
}

func TestUnmapped(t *testing.T) {
	h := newHarness()
	h.pvr.Write(RegisterBlockSize, 0x1234, 0xffffffff)
	test.ExpectEquality(t, h.pvr.Read(RegisterBlockSize+4, 0xffffffff), uint32(0))
	test.DemandEquality(t, len(h.ctx.breaks), 2)
	test.ExpectSuccess(t, errors.Is(h.ctx.breaks[0], ErrUnmapped))
	test.ExpectSuccess(t, errors.Is(h.ctx.breaks[0], ContextError))
}

func TestPlainStorage(t *testing.T) {
	h := newHarness()
	h.write(FB_R_SOF1, 0x00200000)
	test.ExpectEquality(t, h.read(FB_R_SOF1), uint32(0x00200000))

	// the register tables are plain storage too
	h.write(PALETTE_RAM+10, 0xff00ff00)
	test.ExpectEquality(t, h.read(PALETTE_RAM+10), uint32(0xff00ff00))
	test.ExpectEquality(t, (PALETTE_RAM + 10).String(), "PALETTE_RAM[10]")
}

func TestTriggers(t *testing.T) {
	h := newHarness()

	// trigger bit clear. nothing happens and nothing is stored
	h.write(SOFTRESET, 0x00000006)
	test.ExpectEquality(t, h.ta.SoftResets, 0)
	test.ExpectEquality(t, h.read(SOFTRESET), uint32(0x00000007))

	h.write(SOFTRESET, 0x00000001)
	test.ExpectEquality(t, h.ta.SoftResets, 1)
	test.ExpectEquality(t, h.read(SOFTRESET), uint32(0x00000007))

	h.write(TA_LIST_INIT, 0x00000001)
	test.ExpectEquality(t, h.ta.ListInits, 0)
	h.write(TA_LIST_INIT, 0x80000000)
	test.ExpectEquality(t, h.ta.ListInits, 1)
	test.ExpectEquality(t, h.read(TA_LIST_INIT), uint32(0))

	h.write(TA_LIST_CONT, 0x7fffffff)
	test.ExpectEquality(t, h.ta.ListConts, 0)
	h.write(TA_LIST_CONT, 0x80000000)
	test.ExpectEquality(t, h.ta.ListConts, 1)
	test.ExpectEquality(t, h.read(TA_LIST_CONT), uint32(0))

	h.write(STARTRENDER, 0)
	test.ExpectEquality(t, h.ta.StartRenders, 0)
	test.ExpectFailure(t, h.pvr.gotStartRender)
	h.write(STARTRENDER, 0x12)
	test.ExpectEquality(t, h.ta.StartRenders, 1)
	test.ExpectSuccess(t, h.pvr.gotStartRender)
	test.ExpectEquality(t, h.read(STARTRENDER), uint32(0))

	// store-then-act handlers
	h.write(TA_YUV_TEX_BASE, 0x00123400)
	test.ExpectEquality(t, h.ta.YUVInits, 1)
	test.ExpectEquality(t, h.read(TA_YUV_TEX_BASE), uint32(0x00123400))
}

func TestReconfigure(t *testing.T) {
	h := newHarness()

	// reconfiguring leaves exactly one pending timer
	for i := 0; i < 3; i++ {
		h.write(SPG_LOAD, 0x020c0359)
		test.ExpectEquality(t, h.sched.Pending(), 1)
	}
	test.ExpectEquality(t, h.read(SPG_LOAD), uint32(0x020c0359))

	// vclk_div doubles the pixel clock
	h.write(FB_R_CTRL, 0x00800000)
	test.ExpectEquality(t, h.sched.Pending(), 1)
	test.ExpectEquality(t, h.pvr.Timing().PixelClock, 27000000)
	test.ExpectEquality(t, h.pvr.Timing().LineClock, 31468)
	test.ExpectEquality(t, h.read(FB_R_CTRL), uint32(0x00800000))

	// interlace doubles the line clock. SPG_CONTROL has no side effect so the
	// change is seen on the next reconfiguration
	h.write(FB_R_CTRL, 0)
	h.write(SPG_CONTROL, 0x150)
	test.ExpectEquality(t, h.pvr.Timing().LineClock, 15734)
	h.write(SPG_LOAD, 0x020c0359)
	test.ExpectEquality(t, h.pvr.Timing().LineClock, 31468)
	test.ExpectEquality(t, h.pvr.Timing().Mode, "ntsc")
	test.ExpectEquality(t, h.sched.Pending(), 1)

	h.pvr.Reset()
	test.ExpectEquality(t, h.sched.Pending(), 1)
	test.ExpectEquality(t, h.read(SPG_LOAD), uint32(0x01060359))
}

func TestVSyncWindow(t *testing.T) {
	h := newHarness()
	h.shortFrame(100, 10, 20)

	for line := 1; line <= 100; line++ {
		test.DemandSuccess(t, h.pvr.tick())
		status := SPGStatus(h.read(SPG_STATUS))
		test.ExpectEquality(t, status.Scanline(), line)
		test.ExpectEquality(t, status.VSync(), line >= 10 && line < 20, line)
	}
	test.ExpectEquality(t, h.pres.vblankIn, 1)
	test.ExpectEquality(t, h.pres.vblankOut, 1)

	// scanline wraps to zero after vcount
	test.DemandSuccess(t, h.pvr.tick())
	test.ExpectEquality(t, SPGStatus(h.read(SPG_STATUS)).Scanline(), 0)
}

func TestVSyncWindowWrapped(t *testing.T) {
	h := newHarness()
	h.shortFrame(100, 90, 5)

	for line := 1; line <= 100; line++ {
		test.DemandSuccess(t, h.pvr.tick())
		test.ExpectEquality(t, SPGStatus(h.read(SPG_STATUS)).VSync(), line >= 90 || line < 5, line)
	}
	test.DemandSuccess(t, h.pvr.tick())
	test.ExpectSuccess(t, SPGStatus(h.read(SPG_STATUS)).VSync())

	// vsync was high at line 1 (after the first tick) and then went low at
	// line 5. it went high again at line 90
	test.ExpectEquality(t, h.pres.vblankIn, 2)
	test.ExpectEquality(t, h.pres.vblankOut, 1)
	test.ExpectSuccess(t, h.pres.blank)
}

func TestInterrupts(t *testing.T) {
	h := newHarness()
	h.shortFrame(100, 10, 20)
	h.write(SPG_VBLANK_INT, 10|20<<16)

	// line compare mode
	h.write(SPG_HBLANK_INT, 50)
	for i := 0; i < 101; i++ {
		h.sched.RunNext()
	}
	test.ExpectEquality(t, h.intr.Count(holly.PCHIINT), 1)
	test.ExpectEquality(t, h.intr.Count(holly.PCVIINT), 1)
	test.ExpectEquality(t, h.intr.Count(holly.PCVOINT), 1)
	test.ExpectEquality(t, h.sched.Pending(), 1)

	// every line mode
	h.intr.Reset()
	h.write(SPG_HBLANK_INT, 0x2<<12)
	for i := 0; i < 101; i++ {
		h.sched.RunNext()
	}
	test.ExpectEquality(t, h.intr.Count(holly.PCHIINT), 101)
	test.ExpectEquality(t, len(h.ctx.breaks), 0)
}

func TestUnsupportedHBlankMode(t *testing.T) {
	h := newHarness()
	h.write(SPG_HBLANK_INT, 0x1<<12)
	test.ExpectSuccess(t, h.sched.RunNext())

	test.DemandEquality(t, len(h.ctx.breaks), 1)
	test.ExpectSuccess(t, errors.Is(h.ctx.breaks[0], ErrUnsupportedHBlankMode))
	test.ExpectSuccess(t, errors.Is(h.ctx.breaks[0], ContextError))

	// the timer is not rearmed
	test.ExpectEquality(t, h.sched.Pending(), 0)
}

func TestFieldFlip(t *testing.T) {
	h := newHarness()

	test.DemandSuccess(t, h.pvr.vblankIn())
	test.ExpectEquality(t, SPGStatus(h.read(SPG_STATUS)).FieldNum(), 0)

	h.write(SPG_CONTROL, 0x10)
	test.DemandSuccess(t, h.pvr.vblankIn())
	test.ExpectEquality(t, SPGStatus(h.read(SPG_STATUS)).FieldNum(), 1)
	test.DemandSuccess(t, h.pvr.vblankIn())
	test.ExpectEquality(t, SPGStatus(h.read(SPG_STATUS)).FieldNum(), 0)
	test.DemandSuccess(t, h.pvr.vblankIn())
	test.ExpectEquality(t, SPGStatus(h.read(SPG_STATUS)).FieldNum(), 1)

	h.write(SPG_CONTROL, 0)
	test.DemandSuccess(t, h.pvr.vblankIn())
	test.ExpectEquality(t, SPGStatus(h.read(SPG_STATUS)).FieldNum(), 0)
	test.ExpectEquality(t, h.pres.vblankIn, 5)
}
