package pvr

import "fmt"

// extract a bit field from a raw register value
func field(raw uint32, shift uint, width uint) uint32 {
	return (raw >> shift) & ((1 << width) - 1)
}

// return raw value with the bit field replaced by v
func setField(raw uint32, shift uint, width uint, v uint32) uint32 {
	m := uint32((1<<width)-1) << shift
	return (raw &^ m) | ((v << shift) & m)
}

func bit(raw uint32, shift uint) bool {
	return field(raw, shift, 1) == 1
}

// the register view types below interpret the raw value of a register. the bit
// positions are those of the hardware and must not change

// FBRCtrl is the view of the FB_R_CTRL register
type FBRCtrl uint32

func (r FBRCtrl) Enable() bool         { return bit(uint32(r), 0) }
func (r FBRCtrl) LineDouble() bool     { return bit(uint32(r), 1) }
func (r FBRCtrl) Depth() int           { return int(field(uint32(r), 2, 2)) }
func (r FBRCtrl) Concat() int          { return int(field(uint32(r), 4, 3)) }
func (r FBRCtrl) ChromaThreshold() int { return int(field(uint32(r), 8, 8)) }
func (r FBRCtrl) StripSize() int       { return int(field(uint32(r), 16, 6)) }
func (r FBRCtrl) StripBufEnable() bool { return bit(uint32(r), 22) }
func (r FBRCtrl) VClkDiv() bool        { return bit(uint32(r), 23) }

// WithDepth returns a copy of the register value with the depth field changed
func (r FBRCtrl) WithDepth(d int) FBRCtrl {
	return FBRCtrl(setField(uint32(r), 2, 2, uint32(d)))
}

func (r FBRCtrl) String() string {
	return fmt.Sprintf("enable=%v depth=%d line_double=%v concat=%d vclk_div=%v",
		r.Enable(), r.Depth(), r.LineDouble(), r.Concat(), r.VClkDiv())
}

// FBRSize is the view of the FB_R_SIZE register. All values are in 32-bit units
type FBRSize uint32

func (r FBRSize) X() int   { return int(field(uint32(r), 0, 10)) }
func (r FBRSize) Y() int   { return int(field(uint32(r), 10, 10)) }
func (r FBRSize) Mod() int { return int(field(uint32(r), 20, 10)) }

// NewFBRSize creates a raw FB_R_SIZE value
func NewFBRSize(x int, y int, mod int) FBRSize {
	var v uint32
	v = setField(v, 0, 10, uint32(x))
	v = setField(v, 10, 10, uint32(y))
	v = setField(v, 20, 10, uint32(mod))
	return FBRSize(v)
}

func (r FBRSize) String() string {
	return fmt.Sprintf("x=%d y=%d mod=%d", r.X(), r.Y(), r.Mod())
}

// FBWCtrl is the view of the FB_W_CTRL register
type FBWCtrl uint32

func (r FBWCtrl) PackMode() int       { return int(field(uint32(r), 0, 3)) }
func (r FBWCtrl) Dither() bool        { return bit(uint32(r), 3) }
func (r FBWCtrl) KVal() int           { return int(field(uint32(r), 8, 8)) }
func (r FBWCtrl) AlphaThreshold() int { return int(field(uint32(r), 16, 8)) }

// SPGHBlankInt is the view of the SPG_HBLANK_INT register
type SPGHBlankInt uint32

func (r SPGHBlankInt) LineCompVal() int       { return int(field(uint32(r), 0, 10)) }
func (r SPGHBlankInt) Mode() int              { return int(field(uint32(r), 12, 2)) }
func (r SPGHBlankInt) HBlankInInterrupt() int { return int(field(uint32(r), 16, 10)) }

// SPGVBlankInt is the view of the SPG_VBLANK_INT register
type SPGVBlankInt uint32

func (r SPGVBlankInt) VBlankIn() int  { return int(field(uint32(r), 0, 10)) }
func (r SPGVBlankInt) VBlankOut() int { return int(field(uint32(r), 16, 10)) }

// SPGControl is the view of the SPG_CONTROL register
type SPGControl uint32

func (r SPGControl) MHSyncPol() bool     { return bit(uint32(r), 0) }
func (r SPGControl) MVSyncPol() bool     { return bit(uint32(r), 1) }
func (r SPGControl) MCSyncPol() bool     { return bit(uint32(r), 2) }
func (r SPGControl) SPGLock() bool       { return bit(uint32(r), 3) }
func (r SPGControl) Interlace() bool     { return bit(uint32(r), 4) }
func (r SPGControl) ForceField2() bool   { return bit(uint32(r), 5) }
func (r SPGControl) NTSC() bool          { return bit(uint32(r), 6) }
func (r SPGControl) PAL() bool           { return bit(uint32(r), 7) }
func (r SPGControl) SyncDirection() bool { return bit(uint32(r), 8) }
func (r SPGControl) CSyncOnH() bool      { return bit(uint32(r), 9) }

// Mode returns the name of the video mode selected by the register
func (r SPGControl) Mode() string {
	if r.NTSC() {
		return "ntsc"
	} else if r.PAL() {
		return "pal"
	}
	return "vga"
}

// SPGHBlank is the view of the SPG_HBLANK register
type SPGHBlank uint32

func (r SPGHBlank) HBStart() int { return int(field(uint32(r), 0, 10)) }
func (r SPGHBlank) HBEnd() int   { return int(field(uint32(r), 16, 10)) }

// SPGLoad is the view of the SPG_LOAD register
type SPGLoad uint32

func (r SPGLoad) HCount() int { return int(field(uint32(r), 0, 10)) }
func (r SPGLoad) VCount() int { return int(field(uint32(r), 16, 10)) }

// SPGVBlank is the view of the SPG_VBLANK register
type SPGVBlank uint32

func (r SPGVBlank) VBStart() int { return int(field(uint32(r), 0, 10)) }
func (r SPGVBlank) VBEnd() int   { return int(field(uint32(r), 16, 10)) }

// SPGStatus is the view of the SPG_STATUS register
type SPGStatus uint32

func (r SPGStatus) Scanline() int { return int(field(uint32(r), 0, 10)) }
func (r SPGStatus) FieldNum() int { return int(field(uint32(r), 10, 1)) }
func (r SPGStatus) Blank() bool   { return bit(uint32(r), 11) }
func (r SPGStatus) HSync() bool   { return bit(uint32(r), 12) }
func (r SPGStatus) VSync() bool   { return bit(uint32(r), 13) }

func (r SPGStatus) withScanline(v int) SPGStatus {
	return SPGStatus(setField(uint32(r), 0, 10, uint32(v)))
}

func (r SPGStatus) withFieldNum(v int) SPGStatus {
	return SPGStatus(setField(uint32(r), 10, 1, uint32(v)))
}

func (r SPGStatus) withVSync(v bool) SPGStatus {
	var b uint32
	if v {
		b = 1
	}
	return SPGStatus(setField(uint32(r), 13, 1, b))
}

func (r SPGStatus) String() string {
	return fmt.Sprintf("scanline=%d field=%d vsync=%v", r.Scanline(), r.FieldNum(), r.VSync())
}

// VOControl is the view of the VO_CONTROL register
type VOControl uint32

func (r VOControl) HSyncPol() bool    { return bit(uint32(r), 0) }
func (r VOControl) VSyncPol() bool    { return bit(uint32(r), 1) }
func (r VOControl) BlankPol() bool    { return bit(uint32(r), 2) }
func (r VOControl) BlankVideo() bool  { return bit(uint32(r), 3) }
func (r VOControl) FieldMode() int    { return int(field(uint32(r), 4, 4)) }
func (r VOControl) PixelDouble() bool { return bit(uint32(r), 8) }
func (r VOControl) PClkDelay() int    { return int(field(uint32(r), 16, 6)) }

// ScalerCtl is the view of the SCALER_CTL register
type ScalerCtl uint32

// ScaleY is a fixed point value with 6 integer bits and 10 fractional bits
func (r ScalerCtl) ScaleY() int       { return int(field(uint32(r), 0, 16)) }
func (r ScalerCtl) ScaleX() bool      { return bit(uint32(r), 16) }
func (r ScalerCtl) Interlace() bool   { return bit(uint32(r), 17) }
func (r ScalerCtl) FieldSelect() bool { return bit(uint32(r), 18) }
