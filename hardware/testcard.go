package hardware

import (
	"encoding/binary"
	"fmt"

	"github.com/dcvideo/pvrscan/hardware/pvr"
)

// colours of the bars in the test card, from left to right
var testCardBars = [][3]uint8{
	{0xc0, 0xc0, 0xc0}, // white
	{0xc0, 0xc0, 0x00}, // yellow
	{0x00, 0xc0, 0xc0}, // cyan
	{0x00, 0xc0, 0x00}, // green
	{0xc0, 0x00, 0xc0}, // magenta
	{0xc0, 0x00, 0x00}, // red
	{0x00, 0x00, 0xc0}, // blue
	{0x00, 0x00, 0x00}, // black
}

// encode the colour as it would be stored in the framebuffer for the depth
func encodePixel(depth int, c [3]uint8) []uint8 {
	switch depth {
	case 0:
		v := uint16(c[0]>>3)<<10 | uint16(c[1]>>3)<<5 | uint16(c[2]>>3)
		return []uint8{uint8(v), uint8(v >> 8)}
	case 1:
		v := uint16(c[0]>>3)<<11 | uint16(c[1]>>2)<<5 | uint16(c[2]>>3)
		return []uint8{uint8(v), uint8(v >> 8)}
	case 2:
		return []uint8{c[2], c[1], c[0]}
	}
	return []uint8{c[2], c[1], c[0], 0x00}
}

// TestCard writes colour bars directly to the framebuffer through the 32-bit
// access path, in the same way as a program that doesn't use the tile
// accelerator. The lower quarter of the frame is a grey ramp
//
// The layout of the framebuffer is taken from the current register values
func (con *Console) TestCard() error {
	regs := &con.PVR.Registers
	ctrl := pvr.FBRCtrl(regs.Get(pvr.FB_R_CTRL))
	size := pvr.FBRSize(regs.Get(pvr.FB_R_SIZE))
	interlace := pvr.SPGControl(regs.Get(pvr.SPG_CONTROL)).Interlace()

	fields := []uint32{regs.Get(pvr.FB_R_SOF1)}
	if interlace {
		fields = append(fields, regs.Get(pvr.FB_R_SOF2))
	}

	depth := ctrl.Depth()
	bpp := len(encodePixel(depth, testCardBars[0]))
	lineBytes := (size.X() + 1) << 2
	lineMod := (size.Mod() << 2) - 4
	width := lineBytes / bpp
	height := (size.Y() + 1) * len(fields)

	line := make([]uint8, lineBytes)

	for f, origin := range fields {
		addr := origin
		for y := 0; y <= size.Y(); y++ {
			row := y*len(fields) + f

			clear(line)
			for x := 0; x < width; x++ {
				var c [3]uint8
				if row >= height*3/4 {
					v := uint8(x * 255 / max(width-1, 1))
					c = [3]uint8{v, v, v}
				} else {
					c = testCardBars[x*len(testCardBars)/width]
				}
				copy(line[x*bpp:], encodePixel(depth, c))
			}

			for i := 0; i < lineBytes; i += 4 {
				a := VRAM32Origin + ((addr + uint32(i)) & (pvr.VRAMSize - 1))
				err := con.Mem.Write(a, binary.LittleEndian.Uint32(line[i:]), 0xffffffff)
				if err != nil {
					return fmt.Errorf("console: test card: %w", err)
				}
			}

			addr += uint32(lineBytes + lineMod)
		}
	}

	return nil
}
