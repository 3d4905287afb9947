package clocks

const Mhz = 1000000

// NanosecondsPerSecond is the number of nanoseconds in one second
const NanosecondsPerSecond = 1000000000

// the base pixel clock of the video output. it is doubled for VGA output by
// the vclk_div bit in FB_R_CTRL
const (
	PixelClock       = 13.5 * Mhz // 13.5MHz
	PixelClockDouble = PixelClock * 2
)

// the line frequencies of the standard video modes
const (
	NTSC = 15734.26
	PAL  = 15625.00
	VGA  = 31468.53
)

// HzToNano returns the period in nanoseconds of a frequency in Hz. Zero or
// negative frequencies have no period and return zero
func HzToNano(hz int64) int64 {
	if hz <= 0 {
		return 0
	}
	return NanosecondsPerSecond / hz
}

// NanoToHz is the inverse of HzToNano()
func NanoToHz(ns int64) int64 {
	if ns <= 0 {
		return 0
	}
	return NanosecondsPerSecond / ns
}
