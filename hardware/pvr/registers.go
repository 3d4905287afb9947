package pvr

import (
	"fmt"
	"strings"
)

// Register identifies a PVR register by its word offset. The word offset is
// the byte address (relative to the start of the register block) shifted
// right by two
type Register uint32

// the register block is 8KB in size
const (
	RegisterBlockSize = 0x2000
	numRegisters      = RegisterBlockSize >> 2
)

// list of registers in the PVR register block. the values are the word
// offsets of the registers
const (
	ID                Register = 0x0000 >> 2
	REVISION          Register = 0x0004 >> 2
	SOFTRESET         Register = 0x0008 >> 2
	STARTRENDER       Register = 0x0014 >> 2
	TEST_SELECT       Register = 0x0018 >> 2
	PARAM_BASE        Register = 0x0020 >> 2
	REGION_BASE       Register = 0x002c >> 2
	SPAN_SORT_CFG     Register = 0x0030 >> 2
	VO_BORDER_COL     Register = 0x0040 >> 2
	FB_R_CTRL         Register = 0x0044 >> 2
	FB_W_CTRL         Register = 0x0048 >> 2
	FB_W_LINESTRIDE   Register = 0x004c >> 2
	FB_R_SOF1         Register = 0x0050 >> 2
	FB_R_SOF2         Register = 0x0054 >> 2
	FB_R_SIZE         Register = 0x005c >> 2
	FB_W_SOF1         Register = 0x0060 >> 2
	FB_W_SOF2         Register = 0x0064 >> 2
	FB_X_CLIP         Register = 0x0068 >> 2
	FB_Y_CLIP         Register = 0x006c >> 2
	FPU_SHAD_SCALE    Register = 0x0074 >> 2
	FPU_CULL_VAL      Register = 0x0078 >> 2
	FPU_PARAM_CFG     Register = 0x007c >> 2
	HALF_OFFSET       Register = 0x0080 >> 2
	FPU_PERP_VAL      Register = 0x0084 >> 2
	ISP_BACKGND_D     Register = 0x0088 >> 2
	ISP_BACKGND_T     Register = 0x008c >> 2
	ISP_FEED_CFG      Register = 0x0098 >> 2
	SDRAM_REFRESH     Register = 0x00a0 >> 2
	SDRAM_ARB_CFG     Register = 0x00a4 >> 2
	SDRAM_CFG         Register = 0x00a8 >> 2
	FOG_COL_RAM       Register = 0x00b0 >> 2
	FOG_COL_VERT      Register = 0x00b4 >> 2
	FOG_DENSITY       Register = 0x00b8 >> 2
	FOG_CLAMP_MAX     Register = 0x00bc >> 2
	FOG_CLAMP_MIN     Register = 0x00c0 >> 2
	SPG_TRIGGER_POS   Register = 0x00c4 >> 2
	SPG_HBLANK_INT    Register = 0x00c8 >> 2
	SPG_VBLANK_INT    Register = 0x00cc >> 2
	SPG_CONTROL       Register = 0x00d0 >> 2
	SPG_HBLANK        Register = 0x00d4 >> 2
	SPG_LOAD          Register = 0x00d8 >> 2
	SPG_VBLANK        Register = 0x00dc >> 2
	SPG_WIDTH         Register = 0x00e0 >> 2
	TEXT_CONTROL      Register = 0x00e4 >> 2
	VO_CONTROL        Register = 0x00e8 >> 2
	VO_STARTX         Register = 0x00ec >> 2
	VO_STARTY         Register = 0x00f0 >> 2
	SCALER_CTL        Register = 0x00f4 >> 2
	PAL_RAM_CTRL      Register = 0x0108 >> 2
	SPG_STATUS        Register = 0x010c >> 2
	FB_BURSTCTRL      Register = 0x0110 >> 2
	FB_C_SOF          Register = 0x0114 >> 2
	Y_COEFF           Register = 0x0118 >> 2
	PT_ALPHA_REF      Register = 0x011c >> 2
	TA_OL_BASE        Register = 0x0124 >> 2
	TA_ISP_BASE       Register = 0x0128 >> 2
	TA_OL_LIMIT       Register = 0x012c >> 2
	TA_ISP_LIMIT      Register = 0x0130 >> 2
	TA_NEXT_OPB       Register = 0x0134 >> 2
	TA_ITP_CURRENT    Register = 0x0138 >> 2
	TA_GLOB_TILE_CLIP Register = 0x013c >> 2
	TA_ALLOC_CTRL     Register = 0x0140 >> 2
	TA_LIST_INIT      Register = 0x0144 >> 2
	TA_YUV_TEX_BASE   Register = 0x0148 >> 2
	TA_YUV_TEX_CTRL   Register = 0x014c >> 2
	TA_YUV_TEX_CNT    Register = 0x0150 >> 2
	TA_LIST_CONT      Register = 0x0160 >> 2
	TA_NEXT_OPB_INIT  Register = 0x0164 >> 2
	FOG_TABLE         Register = 0x0200 >> 2
	TA_OL_POINTERS    Register = 0x0600 >> 2
	PALETTE_RAM       Register = 0x1000 >> 2
)

// the tables at the end of the register block. these have no individual names
const (
	fogTableLen     = 0x80
	olPointersLen   = 0x180
	paletteRAMLen   = 0x400
	fogTableEnd     = FOG_TABLE + fogTableLen
	olPointersEnd   = TA_OL_POINTERS + olPointersLen
	paletteRAMEnd   = PALETTE_RAM + paletteRAMLen
	unnamedRegister = "?"
)

type definition struct {
	reg  Register
	name string
	def  uint32
}

// definitions lists every named register with its reset value. registers not
// listed here reset to zero
var definitions = []definition{
	{reg: ID, name: "ID", def: 0x17fd11db},
	{reg: REVISION, name: "REVISION", def: 0x00000011},
	{reg: SOFTRESET, name: "SOFTRESET", def: 0x00000007},
	{reg: STARTRENDER, name: "STARTRENDER"},
	{reg: TEST_SELECT, name: "TEST_SELECT"},
	{reg: PARAM_BASE, name: "PARAM_BASE"},
	{reg: REGION_BASE, name: "REGION_BASE"},
	{reg: SPAN_SORT_CFG, name: "SPAN_SORT_CFG"},
	{reg: VO_BORDER_COL, name: "VO_BORDER_COL"},
	{reg: FB_R_CTRL, name: "FB_R_CTRL"},
	{reg: FB_W_CTRL, name: "FB_W_CTRL"},
	{reg: FB_W_LINESTRIDE, name: "FB_W_LINESTRIDE"},
	{reg: FB_R_SOF1, name: "FB_R_SOF1"},
	{reg: FB_R_SOF2, name: "FB_R_SOF2"},
	{reg: FB_R_SIZE, name: "FB_R_SIZE"},
	{reg: FB_W_SOF1, name: "FB_W_SOF1"},
	{reg: FB_W_SOF2, name: "FB_W_SOF2"},
	{reg: FB_X_CLIP, name: "FB_X_CLIP"},
	{reg: FB_Y_CLIP, name: "FB_Y_CLIP"},
	{reg: FPU_SHAD_SCALE, name: "FPU_SHAD_SCALE"},
	{reg: FPU_CULL_VAL, name: "FPU_CULL_VAL"},
	{reg: FPU_PARAM_CFG, name: "FPU_PARAM_CFG", def: 0x0007df77},
	{reg: HALF_OFFSET, name: "HALF_OFFSET", def: 0x00000007},
	{reg: FPU_PERP_VAL, name: "FPU_PERP_VAL"},
	{reg: ISP_BACKGND_D, name: "ISP_BACKGND_D"},
	{reg: ISP_BACKGND_T, name: "ISP_BACKGND_T"},
	{reg: ISP_FEED_CFG, name: "ISP_FEED_CFG", def: 0x00402000},
	{reg: SDRAM_REFRESH, name: "SDRAM_REFRESH", def: 0x00000020},
	{reg: SDRAM_ARB_CFG, name: "SDRAM_ARB_CFG", def: 0x0000001f},
	{reg: SDRAM_CFG, name: "SDRAM_CFG", def: 0x15f28997},
	{reg: FOG_COL_RAM, name: "FOG_COL_RAM"},
	{reg: FOG_COL_VERT, name: "FOG_COL_VERT"},
	{reg: FOG_DENSITY, name: "FOG_DENSITY"},
	{reg: FOG_CLAMP_MAX, name: "FOG_CLAMP_MAX"},
	{reg: FOG_CLAMP_MIN, name: "FOG_CLAMP_MIN"},
	{reg: SPG_TRIGGER_POS, name: "SPG_TRIGGER_POS"},
	{reg: SPG_HBLANK_INT, name: "SPG_HBLANK_INT", def: 0x031d0000},
	{reg: SPG_VBLANK_INT, name: "SPG_VBLANK_INT", def: 0x00150104},
	{reg: SPG_CONTROL, name: "SPG_CONTROL"},
	{reg: SPG_HBLANK, name: "SPG_HBLANK", def: 0x007e0345},
	{reg: SPG_LOAD, name: "SPG_LOAD", def: 0x01060359},
	{reg: SPG_VBLANK, name: "SPG_VBLANK", def: 0x00150104},
	{reg: SPG_WIDTH, name: "SPG_WIDTH", def: 0x07f1933f},
	{reg: TEXT_CONTROL, name: "TEXT_CONTROL"},
	{reg: VO_CONTROL, name: "VO_CONTROL", def: 0x00000108},
	{reg: VO_STARTX, name: "VO_STARTX", def: 0x0000009d},
	{reg: VO_STARTY, name: "VO_STARTY", def: 0x00150015},
	{reg: SCALER_CTL, name: "SCALER_CTL", def: 0x00000400},
	{reg: PAL_RAM_CTRL, name: "PAL_RAM_CTRL"},
	{reg: SPG_STATUS, name: "SPG_STATUS"},
	{reg: FB_BURSTCTRL, name: "FB_BURSTCTRL", def: 0x00090639},
	{reg: FB_C_SOF, name: "FB_C_SOF"},
	{reg: Y_COEFF, name: "Y_COEFF"},
	{reg: PT_ALPHA_REF, name: "PT_ALPHA_REF", def: 0x000000ff},
	{reg: TA_OL_BASE, name: "TA_OL_BASE"},
	{reg: TA_ISP_BASE, name: "TA_ISP_BASE"},
	{reg: TA_OL_LIMIT, name: "TA_OL_LIMIT"},
	{reg: TA_ISP_LIMIT, name: "TA_ISP_LIMIT"},
	{reg: TA_NEXT_OPB, name: "TA_NEXT_OPB"},
	{reg: TA_ITP_CURRENT, name: "TA_ITP_CURRENT"},
	{reg: TA_GLOB_TILE_CLIP, name: "TA_GLOB_TILE_CLIP"},
	{reg: TA_ALLOC_CTRL, name: "TA_ALLOC_CTRL"},
	{reg: TA_LIST_INIT, name: "TA_LIST_INIT"},
	{reg: TA_YUV_TEX_BASE, name: "TA_YUV_TEX_BASE"},
	{reg: TA_YUV_TEX_CTRL, name: "TA_YUV_TEX_CTRL"},
	{reg: TA_YUV_TEX_CNT, name: "TA_YUV_TEX_CNT"},
	{reg: TA_LIST_CONT, name: "TA_LIST_CONT"},
	{reg: TA_NEXT_OPB_INIT, name: "TA_NEXT_OPB_INIT"},
}

var names map[Register]string
var lookup map[string]Register

func init() {
	names = make(map[Register]string)
	lookup = make(map[string]Register)
	for _, d := range definitions {
		names[d.reg] = d.name
		lookup[d.name] = d.reg
	}
}

// Address returns the byte address of the register, relative to the start of
// the register block
func (r Register) Address() uint32 {
	return uint32(r) << 2
}

func (r Register) String() string {
	if n, ok := names[r]; ok {
		return n
	}
	switch {
	case r >= FOG_TABLE && r < fogTableEnd:
		return fmt.Sprintf("FOG_TABLE[%d]", r-FOG_TABLE)
	case r >= TA_OL_POINTERS && r < olPointersEnd:
		return fmt.Sprintf("TA_OL_POINTERS[%d]", r-TA_OL_POINTERS)
	case r >= PALETTE_RAM && r < paletteRAMEnd:
		return fmt.Sprintf("PALETTE_RAM[%d]", r-PALETTE_RAM)
	}
	return unnamedRegister
}

// LookupRegister returns the register with the specified name. The name is
// not case sensitive
func LookupRegister(name string) (Register, bool) {
	r, ok := lookup[strings.ToUpper(name)]
	return r, ok
}

// RegisterFile is the storage for every register in the register block
type RegisterFile struct {
	reg [numRegisters]uint32
}

// Reset sets every register to its reset value
func (rf *RegisterFile) Reset() {
	clear(rf.reg[:])
	for _, d := range definitions {
		rf.reg[d.reg] = d.def
	}
}

// Get returns the value of the register
func (rf *RegisterFile) Get(r Register) uint32 {
	return rf.reg[r]
}

// Set stores the value in the register. No side effects are triggered and the
// read-only status of ID is not enforced. Bus writes should be made with
// PVR.Write()
func (rf *RegisterFile) Set(r Register, v uint32) {
	rf.reg[r] = v
}

func (rf *RegisterFile) String() string {
	var s strings.Builder
	for i, d := range definitions {
		if i > 0 {
			s.WriteString("\n")
		}
		s.WriteString(fmt.Sprintf("%-18s %#04x = %08x", d.name, d.reg.Address(), rf.reg[d.reg]))
	}
	return s.String()
}
