package pvr

import (
	"fmt"

	"github.com/dcvideo/pvrscan/logger"
)

// on the real hardware the rendering core copies its final accumulation buffer
// to a framebuffer in video memory, which is then read to produce the video
// output. the emulated renderer skips this and presents its output directly
//
// this doesn't work for programs that write to the framebuffer directly (the
// IP.BIN licence screen for example) because that memory is never read. to
// support these programs the framebuffer is marked with a cookie when
// STARTRENDER is written. if the cookie is missing at the next vblank then the
// framebuffer has been written to directly and it is extracted from video
// memory
const FramebufferCookie = 0xdeadbeef

// the largest possible output frame. FB_R_SIZE allows for 1024 units of 32-bit
// in each dimension, which is 2048 pixels at 16-bit depth. interlacing doubles
// the height
const (
	MaxFramebufferWidth  = 2048
	MaxFramebufferHeight = 2048
	framebufferBPP       = 3
)

// the framebuffer might be used as the second field of an interlaced frame
// next time, in which case FB_R_SOF2 would be the start address plus one line.
// the cookie is also written at the start of the second line for each of the
// possible line sizes
var (
	markWidths = []uint32{320, 640}
	markBPP    = []uint32{2, 3, 4}
	markScale  = []uint32{1, 2}
)

// framebuffers with this address bit set are being used as textures and are
// not marked
const textureBit = 0x01000000

func (pvr *PVR) markFramebuffer(addr uint32) {
	if addr&textureBit == textureBit {
		return
	}

	pvr.vram.Write32(addr, FramebufferCookie, 0xffffffff)

	for _, w := range markWidths {
		for _, b := range markBPP {
			for _, s := range markScale {
				pvr.vram.Write32(addr+w*b*s, FramebufferCookie, 0xffffffff)
			}
		}
	}
}

// testFramebuffer returns true if the framebuffer has been written to since
// it was marked
func (pvr *PVR) testFramebuffer(addr uint32) bool {
	return pvr.vram.Read32(addr, 0xffffffff) != FramebufferCookie
}

// FramebufferSize returns the size in pixels of the framebuffer described by
// the FB_R_SIZE, FB_R_CTRL and SPG_CONTROL registers
func (pvr *PVR) FramebufferSize() (int, int) {
	size := FBRSize(pvr.Registers.Get(FB_R_SIZE))
	width := size.X() + 1
	height := size.Y() + 1

	// x is measured in 32-bit units
	switch FBRCtrl(pvr.Registers.Get(FB_R_CTRL)).Depth() {
	case 0, 1:
		width *= 2
	case 2:
		width *= 4
		width /= 3
	}

	// the full height of an interlaced framebuffer is doubled
	if SPGControl(pvr.Registers.Get(SPG_CONTROL)).Interlace() {
		height *= 2
	}

	return width, height
}

// VideoSize returns the internal resolution used by the program, based on the
// size of the framebuffer and the scaler settings. This is the resolution
// used to scale screen space coordinates sent to the tile accelerator
func (pvr *PVR) VideoSize() (int, int) {
	width, height := pvr.FramebufferSize()
	scaler := ScalerCtl(pvr.Registers.Get(SCALER_CTL))

	// the accumulation buffer is halved horizontally when copied to the
	// framebuffer
	if scaler.ScaleX() {
		width *= 2
	}

	// the accumulation buffer is scaled by 1/scale_y. 0x400 is 1.0
	height = (height * scaler.ScaleY()) >> 10

	// flicker-free type B interlacing. scale the height back down
	if scaler.Interlace() {
		height /= 2
	}

	return width, height
}

// LastFrame returns the size of the most recently extracted frame. The size
// is zero if no frame has been extracted since the last reset
func (pvr *PVR) LastFrame() (int, int) {
	return pvr.fbWidth, pvr.fbHeight
}

// the number of bytes of video memory per pixel for each framebuffer depth
var depthStep = [...]int{2, 2, 3, 4}

// updateFramebuffer extracts the framebuffer from video memory and pushes it
// to the presentation layer. Returns true if a frame was pushed
func (pvr *PVR) updateFramebuffer() (bool, error) {
	ctrl := FBRCtrl(pvr.Registers.Get(FB_R_CTRL))
	if !ctrl.Enable() {
		return false, nil
	}

	fields := [2]uint32{pvr.Registers.Get(FB_R_SOF1), pvr.Registers.Get(FB_R_SOF2)}
	numFields := 1
	if SPGControl(pvr.Registers.Get(SPG_CONTROL)).Interlace() {
		numFields = 2
	}
	field := SPGStatus(pvr.Registers.Get(SPG_STATUS)).FieldNum()

	// nothing to do if the framebuffer hasn't been written to
	if !pvr.testFramebuffer(fields[field]) {
		return false, nil
	}

	width, height := pvr.FramebufferSize()
	n, stride, err := pvr.decode(ctrl.Depth(), FBRSize(pvr.Registers.Get(FB_R_SIZE)), fields, numFields)
	if err != nil {
		return false, err
	}

	// the decode of 24-bit data can produce one more pixel per line than the
	// width reports
	if stride < width || n < stride*height*framebufferBPP {
		return false, fmt.Errorf("%w: decoded %d bytes for %dx%d", ErrFramebufferBounds, n, width, height)
	}

	pvr.fbWidth = width
	pvr.fbHeight = height
	pvr.extracted++
	pvr.pres.PushPixels(pvr.framebuffer[:n], stride, width, height)

	return true, nil
}

// decode the framebuffer in video memory into the output buffer. returns the
// number of bytes written to the output buffer and the number of pixels in
// each line of the output
func (pvr *PVR) decode(depth int, size FBRSize, fields [2]uint32, numFields int) (int, int, error) {
	if depth < 0 || depth >= len(depthStep) {
		return 0, 0, fmt.Errorf("%w: %d", ErrUnsupportedDepth, depth)
	}
	step := depthStep[depth]

	// values in FB_R_SIZE are in 32-bit units. the line modulo is the
	// distance from the end of one line to the start of the next
	lineMod := uint32(size.Mod()<<2) - 4
	xSize := (size.X() + 1) << 2
	ySize := size.Y() + 1

	pixelsPerLine := (xSize + step - 1) / step
	if pixelsPerLine > MaxFramebufferWidth || ySize*numFields > MaxFramebufferHeight {
		return 0, 0, fmt.Errorf("%w: %d pixels by %d lines", ErrFramebufferBounds, pixelsPerLine, ySize*numFields)
	}

	n := pixelsPerLine * ySize * numFields * framebufferBPP
	if len(pvr.framebuffer) < n {
		pvr.framebuffer = make([]uint8, n)
	}

	dst := pvr.framebuffer[:n]
	var d int

	for y := 0; y < ySize; y++ {
		for f := 0; f < numFields; f++ {
			for x := 0; x < xSize; x += step {
				addr := fields[f]
				switch depth {
				case 0:
					// 0555 RGB
					rgb := pvr.vram.Read16(Translate(addr))
					dst[d] = uint8((rgb & 0x7c00) >> 7)
					dst[d+1] = uint8((rgb & 0x03e0) >> 2)
					dst[d+2] = uint8((rgb & 0x001f) << 3)
				case 1:
					// 565 RGB
					rgb := pvr.vram.Read16(Translate(addr))
					dst[d] = uint8((rgb & 0xf800) >> 8)
					dst[d+1] = uint8((rgb & 0x07e0) >> 3)
					dst[d+2] = uint8((rgb & 0x001f) << 3)
				case 2, 3:
					// 888 RGB and 0888 KRGB. the bytes are read contiguously
					// from the translated address
					a := Translate(addr)
					dst[d] = pvr.vram.Read8(a + 2)
					dst[d+1] = pvr.vram.Read8(a + 1)
					dst[d+2] = pvr.vram.Read8(a)
				}
				fields[f] += uint32(step)
				d += framebufferBPP
			}
			fields[f] += lineMod
		}
	}

	logger.Logf(logger.Allow, "pvr", "extracted framebuffer depth=%d %s fields=%d", depth, size, numFields)

	return n, pixelsPerLine, nil
}
