package debugger

import (
	"os"
	"strings"
	"testing"

	"github.com/dcvideo/pvrscan/gui"
	"github.com/dcvideo/pvrscan/hardware/pvr"
	"github.com/dcvideo/pvrscan/hardware/spec"
	"github.com/dcvideo/pvrscan/test"
)

func newTestDebugger(t *testing.T) (*debugger, *test.CompareWriter) {
	t.Helper()
	out := &test.CompareWriter{}
	m := newDebugger(nil, nil, out, false)
	m.reset()
	out.Clear()
	return m, out
}

// run the command and return the output
func command(m *debugger, out *test.CompareWriter, cmd string) string {
	out.Clear()
	m.commands(strings.Fields(cmd))
	return out.String()
}

func TestRegisterCommand(t *testing.T) {
	m, out := newTestDebugger(t)

	s := command(m, out, "REG FB_R_SOF1 0x00300000")
	test.ExpectEquality(t, s, "FB_R_SOF1 (0x50) = 00300000\n")
	test.ExpectEquality(t, m.console.PVR.Registers.Get(pvr.FB_R_SOF1), uint32(0x00300000))

	// by address
	s = command(m, out, "REG $50")
	test.ExpectEquality(t, s, "FB_R_SOF1 (0x50) = 00300000\n")

	// ID is read only
	s = command(m, out, "REG ID 0")
	test.ExpectEquality(t, s, "ID (0x00) = 17fd11db\n")

	s = command(m, out, "REG 0x51")
	test.ExpectSuccess(t, strings.Contains(s, "not aligned"))
	s = command(m, out, "REG NOTAREGISTER")
	test.ExpectSuccess(t, strings.Contains(s, "unknown register"))
}

func TestPeekPoke(t *testing.T) {
	m, out := newTestDebugger(t)

	s := command(m, out, "POKE32 0x400000 0x11223344")
	test.ExpectEquality(t, s, "0x5400000 = 11223344 (VRAM (32-bit path), canonical 0x0004)\n")

	s = command(m, out, "PEEK64 4")
	test.ExpectEquality(t, s, "0x4000004 = 11223344 (VRAM (64-bit path))\n")

	s = command(m, out, "PEEK32 0x800000")
	test.ExpectSuccess(t, strings.Contains(s, "larger than video memory"))
	s = command(m, out, "PEEK32 2")
	test.ExpectSuccess(t, strings.Contains(s, "not aligned"))
}

func TestDump(t *testing.T) {
	m, out := newTestDebugger(t)
	m.console.VRAM.Load(0, []uint8{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	s := command(m, out, "DUMP 0x04000000 0x04000014")
	test.ExpectEquality(t, s, "04000000 04030201 08070605 00000000 00000000\n04000010 00000000 00000000\n")

	s = command(m, out, "DUMP 0x04000000 0x05000000")
	test.ExpectSuccess(t, strings.Contains(s, "different memory areas"))
	s = command(m, out, "DUMP 0x04000010 0x04000000")
	test.ExpectSuccess(t, strings.Contains(s, "less than"))
	s = command(m, out, "DUMP 0x00000000 0x04000000")
	test.ExpectSuccess(t, strings.Contains(s, "not mapped"))
}

func TestStep(t *testing.T) {
	m, _ := newTestDebugger(t)

	// the VGA vertical sync period wraps around line zero so the first vblank
	// is seen on line one
	test.ExpectFailure(t, m.commands([]string{"STEP"}))
	test.ExpectEquality(t, m.console.PVR.Timing().Scanline, 1)
	test.ExpectEquality(t, m.console.PVR.Timing().VBlanks, 1)

	test.ExpectFailure(t, m.commands([]string{"STEP", "SCANLINE", "10"}))
	test.ExpectEquality(t, m.console.PVR.Timing().Scanline, 10)

	// a scanline in the past is reached in the next frame
	test.ExpectFailure(t, m.commands([]string{"STEP", "SCANLINE", "5"}))
	test.ExpectEquality(t, m.console.PVR.Timing().Scanline, 5)
	test.ExpectEquality(t, m.console.PVR.Timing().VBlanks, 2)

	test.ExpectFailure(t, m.commands([]string{"STEP", "FRAME"}))
	test.ExpectEquality(t, m.console.PVR.Timing().VBlanks, 3)
	test.ExpectEquality(t, m.console.PVR.Timing().Scanline, 520)

	// the step rule is reset after every step
	test.ExpectEquality(t, m.stepRule == nil, true)
}

func TestStepVBlank(t *testing.T) {
	m, _ := newTestDebugger(t)

	// the VGA vertical sync period starts on line 520
	test.ExpectFailure(t, m.commands([]string{"STEP", "SCANLINE", "100"}))
	test.ExpectFailure(t, m.commands([]string{"STEP", "VBLANK"}))
	test.ExpectEquality(t, m.console.PVR.Timing().Scanline, 520)
	test.ExpectSuccess(t, m.console.PVR.Timing().VSync)
}

func TestStepInterrupt(t *testing.T) {
	m, _ := newTestDebugger(t)

	// the first VGA interrupt after line zero is vblank-out on line 21
	test.ExpectFailure(t, m.commands([]string{"STEP", "INTR"}))
	test.ExpectEquality(t, m.console.PVR.Timing().Scanline, int(spec.VGA.SPGVBlankInt>>16))
	test.ExpectEquality(t, m.console.Holly.OnRaise == nil, true)
}

func TestStepRuleErrors(t *testing.T) {
	m, out := newTestDebugger(t)

	s := command(m, out, "STEP FOO")
	test.ExpectEquality(t, s, "STEP FOO is unsupported\n")
	s = command(m, out, "STEP FRAME 0")
	test.ExpectEquality(t, s, "FRAME 0 is in the past\n")
	s = command(m, out, "STEP SCANLINE 2000")
	test.ExpectEquality(t, s, "SCANLINE 2000 is out of range\n")
	test.ExpectEquality(t, m.console.PVR.Timing().Scanline, 0)
}

func TestWatch(t *testing.T) {
	m, out := newTestDebugger(t)

	s := command(m, out, "WATCH SPG_STATUS")
	test.ExpectEquality(t, s, "added watch for SPG_STATUS\n")
	s = command(m, out, "WATCH SPG_STATUS")
	test.ExpectEquality(t, s, "watch for SPG_STATUS already present\n")

	// the status register changes every scanline
	s = command(m, out, "RUN")
	test.ExpectSuccess(t, strings.Contains(s, "watch: SPG_STATUS = 00000000 -> "))
	test.ExpectEquality(t, m.console.PVR.Timing().Scanline, 1)

	s = command(m, out, "WATCH DROP SPG_STATUS")
	test.ExpectEquality(t, s, "watch for SPG_STATUS has been removed\n")
	s = command(m, out, "WATCH")
	test.ExpectEquality(t, s, "no watches\n")
}

func TestFatalBreak(t *testing.T) {
	m, out := newTestDebugger(t)

	command(m, out, "REG SPG_HBLANK_INT 0x1000")
	s := command(m, out, "RUN")
	test.ExpectSuccess(t, strings.Contains(s, pvr.ErrUnsupportedHBlankMode.Error()))

	// the sync pulse generator has stopped
	s = command(m, out, "STEP")
	test.ExpectSuccess(t, strings.Contains(s, "RESET to restart"))

	command(m, out, "RESET")
	s = command(m, out, "STEP")
	test.ExpectEquality(t, strings.Contains(s, "RESET to restart"), false)
	test.ExpectEquality(t, m.console.PVR.Timing().Scanline, 1)
}

func TestModeCommand(t *testing.T) {
	m, out := newTestDebugger(t)

	s := command(m, out, "MODE")
	test.ExpectEquality(t, s, "VGA (640x480 progressive, 31kHz) *\nNTSC (640x480 interlaced, 15kHz)\nPAL (640x480 interlaced, 15kHz)\n")

	command(m, out, "MODE pal")
	test.ExpectEquality(t, m.console.Mode().ID, "PAL")
	test.ExpectEquality(t, m.console.PVR.Timing().Mode, "pal")

	// next mode wraps around
	command(m, out, "MODE NEXT")
	test.ExpectEquality(t, m.console.Mode().ID, "VGA")

	s = command(m, out, "MODE SECAM")
	test.ExpectSuccess(t, strings.Contains(s, "unknown video mode"))
}

func TestRenderCommand(t *testing.T) {
	m, out := newTestDebugger(t)
	s := command(m, out, "RENDER")
	test.ExpectEquality(t, m.console.TA.StartRenders, 1)
	test.ExpectSuccess(t, strings.HasPrefix(s, "render started: framebuffer extraction skipped at next vblank\n"))

	// a register write to STARTRENDER is reported in the same way
	s = command(m, out, "REG STARTRENDER 1")
	test.ExpectEquality(t, m.console.TA.StartRenders, 2)
	test.ExpectSuccess(t, strings.HasPrefix(s, "render started"))

	// the framebuffer has been marked with the cookie
	v := m.console.VRAM.Read32(m.console.PVR.Registers.Get(pvr.FB_W_SOF1), 0xffffffff)
	test.ExpectEquality(t, v, uint32(pvr.FramebufferCookie))
}

func TestTestCardAndScreenshot(t *testing.T) {
	m, out := newTestDebugger(t)

	s := command(m, out, "SCREENSHOT")
	test.ExpectSuccess(t, strings.Contains(s, "no frame"))

	command(m, out, "TESTCARD")
	command(m, out, "STEP FRAME")
	test.DemandSuccess(t, m.console.Frame() != nil)
	test.ExpectEquality(t, m.console.PVR.Timing().Extracted, 1)

	s = command(m, out, "SCREENSHOT test_card")
	test.ExpectEquality(t, s, "screenshot saved to .pvrscan/screenshots/test_card.png\n")
	test.ExpectSuccess(t, os.Remove(".pvrscan/screenshots/test_card.png"))
}

func TestActionCommand(t *testing.T) {
	test.ExpectEquality(t, strings.Join(actionCommand(gui.Input{Action: gui.StepFrame}), " "), "STEP FRAME")
	test.ExpectEquality(t, strings.Join(actionCommand(gui.Input{Action: gui.NextMode}), " "), "MODE NEXT")
	test.ExpectEquality(t, actionCommand(gui.Input{Action: gui.Nothing}) == nil, true)
}

func TestUnrecognised(t *testing.T) {
	m, out := newTestDebugger(t)
	s := command(m, out, "FOO BAR")
	test.ExpectEquality(t, s, "unrecognised command: FOO BAR\n")
	test.ExpectSuccess(t, m.commands([]string{"QUIT"}))
}
