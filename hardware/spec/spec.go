package spec

import (
	"fmt"
	"strings"
)

// Mode is a video mode preset. The fields are the raw values written to the
// PVR registers to select the mode
type Mode struct {
	ID          string
	Description string

	// the nominal number of vblanks per second. for interlaced modes this is
	// the field rate
	Refresh float64

	SPGLoad      uint32
	SPGHBlank    uint32
	SPGVBlank    uint32
	SPGHBlankInt uint32
	SPGVBlankInt uint32
	SPGControl   uint32
	FBRCtrl      uint32
	FBRSize      uint32
	VOControl    uint32
	VOStartX     uint32
	VOStartY     uint32
	ScalerCtl    uint32

	// the address of the framebuffer on the 32-bit path. the second field of
	// an interlaced mode starts one line later
	Framebuffer uint32
	Field2      uint32
}

// the framebuffer address used by all presets
const framebufferOrigin = 0x00200000

// the size in bytes of one 640 pixel line at 16-bit depth
const lineBytes = 640 * 2

// FB_R_SIZE value. x and mod are in units of 32-bits
func fbSize(x int, y int, mod int) uint32 {
	return uint32(x&0x3ff) | uint32(y&0x3ff)<<10 | uint32(mod&0x3ff)<<20
}

// list of presets
var (
	VGA = Mode{
		ID:           "VGA",
		Description:  "640x480 progressive, 31kHz",
		Refresh:      59.94,
		SPGLoad:      0x020c0359,
		SPGHBlank:    0x007e0345,
		SPGVBlank:    0x00280208,
		SPGHBlankInt: 0x03450000,
		SPGVBlankInt: 0x00150208,
		SPGControl:   0x00000100,
		FBRCtrl:      0x00800005,
		FBRSize:      fbSize(319, 479, 1),
		VOControl:    0x00160000,
		VOStartX:     0x000000a8,
		VOStartY:     0x00280028,
		ScalerCtl:    0x00000400,
		Framebuffer:  framebufferOrigin,
		Field2:       framebufferOrigin,
	}

	NTSC = Mode{
		ID:           "NTSC",
		Description:  "640x480 interlaced, 15kHz",
		Refresh:      59.94,
		SPGLoad:      0x020c0359,
		SPGHBlank:    0x007e0345,
		SPGVBlank:    0x00240204,
		SPGHBlankInt: 0x03450000,
		SPGVBlankInt: 0x00150104,
		SPGControl:   0x00000150,
		FBRCtrl:      0x00000005,
		FBRSize:      fbSize(319, 239, 321),
		VOControl:    0x00160000,
		VOStartX:     0x000000a4,
		VOStartY:     0x00120012,
		ScalerCtl:    0x00000400,
		Framebuffer:  framebufferOrigin,
		Field2:       framebufferOrigin + lineBytes,
	}

	PAL = Mode{
		ID:           "PAL",
		Description:  "640x480 interlaced, 15kHz",
		Refresh:      50.0,
		SPGLoad:      0x0270035f,
		SPGHBlank:    0x008d034b,
		SPGVBlank:    0x002c026c,
		SPGHBlankInt: 0x034b0000,
		SPGVBlankInt: 0x00150136,
		SPGControl:   0x00000190,
		FBRCtrl:      0x00000005,
		FBRSize:      fbSize(319, 239, 321),
		VOControl:    0x00160000,
		VOStartX:     0x000000ae,
		VOStartY:     0x002e002d,
		ScalerCtl:    0x00000400,
		Framebuffer:  framebufferOrigin,
		Field2:       framebufferOrigin + lineBytes,
	}
)

// Modes lists every preset
var Modes = []Mode{VGA, NTSC, PAL}

// Lookup returns the preset with the specified ID. The ID is not case
// sensitive
func Lookup(id string) (Mode, error) {
	id = strings.ToUpper(id)
	for _, m := range Modes {
		if m.ID == id {
			return m, nil
		}
	}
	return Mode{}, fmt.Errorf("spec: unknown video mode: %s", id)
}

func (m Mode) String() string {
	return fmt.Sprintf("%s (%s)", m.ID, m.Description)
}

// Interlaced returns true if the mode is interlaced
func (m Mode) Interlaced() bool {
	return m.SPGControl&0x10 == 0x10
}
