package pvr

import (
	"errors"
	"testing"

	"github.com/dcvideo/pvrscan/test"
)

// the distinct offsets from the start of a framebuffer that are marked with
// the cookie
var markedOffsets = []uint32{0, 640, 960, 1280, 1920, 2560, 3840, 5120}

func TestMarkFramebuffer(t *testing.T) {
	h := newHarness()
	vram := h.pvr.VRAM()

	h.write(FB_W_SOF1, 0x00200000)
	h.write(FB_W_SOF2, 0x00300000)
	h.write(STARTRENDER, 1)

	for _, o := range markedOffsets {
		test.ExpectEquality(t, vram.Read32(0x00200000+o, 0xffffffff), uint32(FramebufferCookie), o)
		test.ExpectEquality(t, vram.Read32(0x00300000+o, 0xffffffff), uint32(FramebufferCookie), o)
	}

	// nothing else is marked
	test.ExpectEquality(t, vram.Read32(0x00200004, 0xffffffff), uint32(0))
	test.ExpectEquality(t, vram.Read32(0x00200000+320, 0xffffffff), uint32(0))

	test.ExpectFailure(t, h.pvr.testFramebuffer(0x00200000))
	test.ExpectSuccess(t, h.pvr.testFramebuffer(0x00200004))
}

func TestMarkFramebufferTexture(t *testing.T) {
	h := newHarness()
	vram := h.pvr.VRAM()

	// framebuffers being used as textures are not marked
	h.write(FB_W_SOF1, 0x01200000)
	h.write(FB_W_SOF2, 0x01300000)
	h.write(STARTRENDER, 1)

	for _, o := range markedOffsets {
		test.ExpectEquality(t, vram.Read32(0x00200000+o, 0xffffffff), uint32(0), o)
		test.ExpectEquality(t, vram.Read32(0x00300000+o, 0xffffffff), uint32(0), o)
	}

	// the render is still noted
	test.ExpectSuccess(t, h.pvr.gotStartRender)
}

func TestExtractionSkipped(t *testing.T) {
	h := newHarness()
	vram := h.pvr.VRAM()

	// 16-bit 565 framebuffer of 4 by 2 pixels
	h.write(FB_R_CTRL, 0x00000005)
	h.write(FB_R_SIZE, uint32(NewFBRSize(1, 1, 1)))
	h.write(FB_R_SOF1, 0x00100000)
	h.write(FB_W_SOF1, 0x00100000)

	// a render was started this frame so there is no extraction. the flag is
	// cleared
	h.write(STARTRENDER, 1)
	test.DemandSuccess(t, h.pvr.vblankIn())
	test.ExpectEquality(t, h.pres.frames, 0)
	test.ExpectFailure(t, h.pvr.gotStartRender)

	// the framebuffer is still marked so there is no extraction
	test.DemandSuccess(t, h.pvr.vblankIn())
	test.ExpectEquality(t, h.pres.frames, 0)

	// direct write to the framebuffer. the next vblank extracts the frame
	vram.Write32(0x00100000, 0x07e0f800, 0xffffffff)
	test.DemandSuccess(t, h.pvr.vblankIn())
	test.ExpectEquality(t, h.pres.frames, 1)
	test.ExpectEquality(t, h.pres.width, 4)
	test.ExpectEquality(t, h.pres.height, 2)

	w, ht := h.pvr.LastFrame()
	test.ExpectEquality(t, w, 4)
	test.ExpectEquality(t, ht, 2)
	test.ExpectEquality(t, h.pvr.Timing().Extracted, 1)
	test.ExpectEquality(t, h.pvr.Timing().VBlanks, 3)

	// framebuffer output disabled
	h.write(FB_R_CTRL, 0x00000004)
	ok, err := h.pvr.updateFramebuffer()
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, h.pres.frames, 1)
}

func TestDecode565(t *testing.T) {
	h := newHarness()
	vram := h.pvr.VRAM()

	h.write(FB_R_CTRL, 0x00000005)
	h.write(FB_R_SIZE, uint32(NewFBRSize(0, 0, 1)))
	h.write(FB_R_SOF1, 0x00000000)
	vram.Write32(0x00000000, 0x07e0f800, 0xffffffff)

	ok, err := h.pvr.updateFramebuffer()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, h.pres.width, 2)
	test.ExpectEquality(t, h.pres.height, 1)
	test.DemandEquality(t, len(h.pres.data), 6)

	// 0xf800 and 0x07e0
	test.ExpectEquality(t, string(h.pres.data), string([]uint8{248, 0, 0, 0, 252, 0}))
}

func TestDecode555(t *testing.T) {
	h := newHarness()
	vram := h.pvr.VRAM()

	h.write(FB_R_CTRL, 0x00000001)
	h.write(FB_R_SIZE, uint32(NewFBRSize(0, 0, 1)))
	h.write(FB_R_SOF1, 0x00000000)
	vram.Write32(0x00000000, 0x001f7c00, 0xffffffff)

	ok, err := h.pvr.updateFramebuffer()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, string(h.pres.data), string([]uint8{248, 0, 0, 0, 0, 248}))
}

func TestDecode888(t *testing.T) {
	h := newHarness()
	vram := h.pvr.VRAM()

	// three 32-bit units is four 24-bit pixels
	h.write(FB_R_CTRL, 0x00000009)
	h.write(FB_R_SIZE, uint32(NewFBRSize(2, 0, 1)))
	h.write(FB_R_SOF1, 0x00000000)

	// the bytes of each pixel are stored in BGR order. the decode reads three
	// bytes from the translated address of each pixel
	vram.Load(0x00000000, []uint8{0x10, 0x20, 0x30})
	vram.Load(0x00000004, []uint8{0x40, 0x50, 0x60})

	ok, err := h.pvr.updateFramebuffer()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, h.pres.width, 4)
	test.ExpectEquality(t, h.pres.height, 1)
	test.DemandEquality(t, len(h.pres.data), 12)
	test.ExpectEquality(t, string(h.pres.data[:3]), string([]uint8{0x30, 0x20, 0x10}))
}

func TestDecode888Stride(t *testing.T) {
	h := newHarness()
	vram := h.pvr.VRAM()

	// a single 32-bit unit per line decodes to two 24-bit pixels but the
	// framebuffer is only one pixel wide
	h.write(FB_R_CTRL, 0x00000009)
	h.write(FB_R_SIZE, uint32(NewFBRSize(0, 1, 1)))
	h.write(FB_R_SOF1, 0x00000000)
	vram.Load(0x00000000, []uint8{0x10, 0x20, 0x30})

	ok, err := h.pvr.updateFramebuffer()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, h.pres.width, 1)
	test.ExpectEquality(t, h.pres.height, 2)
	test.ExpectEquality(t, h.pres.stride, 2)
	test.ExpectEquality(t, len(h.pres.data), h.pres.stride*h.pres.height*3)
	test.ExpectEquality(t, string(h.pres.data[:3]), string([]uint8{0x30, 0x20, 0x10}))
}

func TestDecode565TopOfVRAM(t *testing.T) {
	h := newHarness()
	vram := h.pvr.VRAM()

	// the last two pixels of the framebuffer are in the last word of the
	// second bank
	h.write(FB_R_CTRL, 0x00000005)
	h.write(FB_R_SIZE, uint32(NewFBRSize(0, 0, 1)))
	h.write(FB_R_SOF1, VRAMSize-4)
	vram.Write32(VRAMSize-4, 0x07e0f800, 0xffffffff)

	ok, err := h.pvr.updateFramebuffer()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, h.pres.stride, 2)
	test.ExpectEquality(t, string(h.pres.data), string([]uint8{248, 0, 0, 0, 252, 0}))
}

func TestDecode0888(t *testing.T) {
	h := newHarness()
	vram := h.pvr.VRAM()

	h.write(FB_R_CTRL, 0x0000000d)
	h.write(FB_R_SIZE, uint32(NewFBRSize(1, 0, 1)))
	h.write(FB_R_SOF1, 0x00000000)
	vram.Load(0x00000000, []uint8{0x10, 0x20, 0x30, 0xff, 0x40, 0x50, 0x60, 0xff})

	ok, err := h.pvr.updateFramebuffer()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, h.pres.width, 2)
	test.ExpectEquality(t, h.pres.height, 1)
	test.ExpectEquality(t, string(h.pres.data), string([]uint8{0x30, 0x20, 0x10, 0x60, 0x50, 0x40}))
}

func TestDecodeInterlaced(t *testing.T) {
	h := newHarness()
	vram := h.pvr.VRAM()

	// one pixel wide, two lines per field
	h.write(SPG_CONTROL, 0x10)
	h.write(FB_R_CTRL, 0x0000000d)
	h.write(FB_R_SIZE, uint32(NewFBRSize(0, 1, 1)))
	h.write(FB_R_SOF1, 0x00000000)
	h.write(FB_R_SOF2, 0x00000100)

	vram.Write32(0x00000000, 0x00000001, 0xffffffff)
	vram.Write32(0x00000004, 0x00000002, 0xffffffff)
	vram.Write32(0x00000100, 0x00000003, 0xffffffff)
	vram.Write32(0x00000104, 0x00000004, 0xffffffff)

	ok, err := h.pvr.updateFramebuffer()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, h.pres.width, 1)
	test.ExpectEquality(t, h.pres.height, 4)

	// lines of each field alternate in the output
	test.ExpectEquality(t, string(h.pres.data), string([]uint8{
		0, 0, 1,
		0, 0, 3,
		0, 0, 2,
		0, 0, 4,
	}))
}

func TestLineModulo(t *testing.T) {
	h := newHarness()
	vram := h.pvr.VRAM()

	// one 32-bit unit per line with a stride of four units
	h.write(FB_R_CTRL, 0x0000000d)
	h.write(FB_R_SIZE, uint32(NewFBRSize(0, 1, 4)))
	h.write(FB_R_SOF1, 0x00000000)
	vram.Write32(0x00000000, 0x00000011, 0xffffffff)
	vram.Write32(0x00000010, 0x00000022, 0xffffffff)

	ok, err := h.pvr.updateFramebuffer()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, string(h.pres.data), string([]uint8{0, 0, 0x11, 0, 0, 0x22}))
}

func TestUnsupportedDepth(t *testing.T) {
	h := newHarness()
	_, _, err := h.pvr.decode(4, NewFBRSize(0, 0, 1), [2]uint32{0, 0}, 1)
	test.ExpectSuccess(t, errors.Is(err, ErrUnsupportedDepth))
	test.ExpectEquality(t, h.pres.frames, 0)
}

func TestFramebufferSize(t *testing.T) {
	h := newHarness()

	// 640x480 at 16-bit
	h.write(FB_R_CTRL, 0x00000005)
	h.write(FB_R_SIZE, uint32(NewFBRSize(319, 479, 1)))
	w, ht := h.pvr.FramebufferSize()
	test.ExpectEquality(t, w, 640)
	test.ExpectEquality(t, ht, 480)

	// 640x480 at 24-bit
	h.write(FB_R_CTRL, 0x00000009)
	h.write(FB_R_SIZE, uint32(NewFBRSize(479, 479, 1)))
	w, _ = h.pvr.FramebufferSize()
	test.ExpectEquality(t, w, 640)

	// 640x480 at 32-bit, interlaced
	h.write(SPG_CONTROL, 0x10)
	h.write(FB_R_CTRL, 0x0000000d)
	h.write(FB_R_SIZE, uint32(NewFBRSize(639, 239, 1)))
	w, ht = h.pvr.FramebufferSize()
	test.ExpectEquality(t, w, 640)
	test.ExpectEquality(t, ht, 480)
}

func TestVideoSize(t *testing.T) {
	h := newHarness()

	h.write(FB_R_CTRL, 0x00000005)
	h.write(FB_R_SIZE, uint32(NewFBRSize(319, 479, 1)))

	// the default scaler value is 1.0
	w, ht := h.pvr.VideoSize()
	test.ExpectEquality(t, w, 640)
	test.ExpectEquality(t, ht, 480)

	// horizontal scaling and a scale_y of 0.5
	h.write(SCALER_CTL, 0x00010800)
	w, ht = h.pvr.VideoSize()
	test.ExpectEquality(t, w, 1280)
	test.ExpectEquality(t, ht, 960)

	// flicker-free interlacing
	h.write(SCALER_CTL, 0x00030800)
	w, ht = h.pvr.VideoSize()
	test.ExpectEquality(t, w, 1280)
	test.ExpectEquality(t, ht, 480)
}

func TestLargestFramebuffer(t *testing.T) {
	h := newHarness()
	h.write(SPG_CONTROL, 0x10)
	h.write(FB_R_CTRL, 0x00000001)
	h.write(FB_R_SIZE, uint32(NewFBRSize(1023, 1023, 1)))

	ok, err := h.pvr.updateFramebuffer()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, h.pres.width, MaxFramebufferWidth)
	test.ExpectEquality(t, h.pres.height, MaxFramebufferHeight)
	test.ExpectEquality(t, len(h.pres.data), MaxFramebufferWidth*MaxFramebufferHeight*framebufferBPP)
}
