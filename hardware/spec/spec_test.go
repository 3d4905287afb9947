package spec_test

import (
	"testing"

	"github.com/dcvideo/pvrscan/hardware/spec"
	"github.com/dcvideo/pvrscan/test"
)

func TestLookup(t *testing.T) {
	m, err := spec.Lookup("pal")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m.ID, "PAL")
	test.ExpectSuccess(t, m.Interlaced())

	m, err = spec.Lookup("VGA")
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, m.Interlaced())
	test.ExpectEquality(t, m.FBRSize, uint32(0x00177d3f))

	_, err = spec.Lookup("SECAM")
	test.ExpectFailure(t, err)
}

func TestFieldOffset(t *testing.T) {
	// the second field of an interlaced mode is one line after the first. the
	// line modulo skips the line belonging to the other field
	for _, m := range []spec.Mode{spec.NTSC, spec.PAL} {
		test.ExpectEquality(t, m.Field2-m.Framebuffer, uint32(1280), m.ID)
		mod := (m.FBRSize >> 20) & 0x3ff
		test.ExpectEquality(t, (mod<<2)-4, uint32(1280), m.ID)
	}
}
