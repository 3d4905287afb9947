package pvr

import (
	"encoding/binary"
	"fmt"
)

// VRAMSize is the size of video memory. two banks of 4MB each
const VRAMSize = 0x00800000

// size of a single bank of video memory
const bankSize = 0x00400000

// video memory can be accessed in two ways:
//
// * the 64-bit access path. each 4MB bank is interleaved every 32-bits,
// allowing a 64-bit data bus to be populated from both banks in parallel
//
// * the 32-bit access path. each 4MB bank is accessed sequentially, one after
// the other
//
// the tile accelerator uses the 64-bit path by default (SB_LMMODE0/1 = 0) and
// so the VRAM type stores data in the 64-bit view. accesses through the 32-bit
// path are converted to the interleaved address with Translate()

// Translate converts an address on the 32-bit access path to the equivalent
// address on the 64-bit (interleaved) access path
func Translate(addr uint32) uint32 {
	bank := addr & bankSize
	offset := addr & (bankSize - 1)
	return ((offset &^ 0x3) << 1) | (bank >> 20) | (offset & 0x3)
}

// Untranslate is the inverse of Translate(). It converts an address in the
// 64-bit view to the address that refers to the same data on the 32-bit path
func Untranslate(addr uint32) uint32 {
	addr &= VRAMSize - 1
	bank := (addr & 0x04) << 20
	offset := ((addr >> 1) &^ 0x3) | (addr & 0x3)
	return bank | offset
}

// VRAM is the video memory store. The layout of the data matches the 64-bit
// access path
type VRAM struct {
	data []uint8
}

// NewVRAM is the preferred method of initialisation for the VRAM type
func NewVRAM() *VRAM {
	return &VRAM{
		data: make([]uint8, VRAMSize),
	}
}

func (v *VRAM) Label() string {
	return "VRAM"
}

// Reset clears all video memory
func (v *VRAM) Reset() {
	clear(v.data)
}

// all addresses wrap to the size of video memory. the mirrors of the video
// memory area in the memory map are handled this way
//
// word is only used for 32-bit accesses
func (v *VRAM) word(addr uint32) []uint8 {
	addr &= VRAMSize - 1
	if addr > VRAMSize-4 {
		// unaligned access at the very end of memory. the hardware can't do
		// this so it's acceptable to move the access back to a valid position
		addr = VRAMSize - 4
	}
	return v.data[addr : addr+4]
}

// Read8 returns the byte at the canonical address
func (v *VRAM) Read8(addr uint32) uint8 {
	return v.data[addr&(VRAMSize-1)]
}

// Read16 returns the little-endian 16-bit value at the canonical address. Each
// byte wraps to the size of video memory individually
func (v *VRAM) Read16(addr uint32) uint16 {
	a := addr & (VRAMSize - 1)
	return uint16(v.data[a]) | uint16(v.data[(a+1)&(VRAMSize-1)])<<8
}

// Peek returns the 32-bit value at the canonical address without masking
func (v *VRAM) Peek(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(v.word(addr))
}

// Poke writes the 32-bit value to the canonical address without masking
func (v *VRAM) Poke(addr uint32, data uint32) {
	binary.LittleEndian.PutUint32(v.word(addr), data)
}

// the mask argument selects the byte lanes that take part in the access. a
// byte access for example will have a mask of 0x000000ff
func (v *VRAM) read(addr uint32, mask uint32) uint32 {
	return v.Peek(addr) & mask
}

func (v *VRAM) write(addr uint32, data uint32, mask uint32) {
	v.Poke(addr, (v.Peek(addr)&^mask)|(data&mask))
}

// Read32 is a read access through the 32-bit path
func (v *VRAM) Read32(addr uint32, mask uint32) uint32 {
	return v.read(Translate(addr), mask)
}

// Write32 is a write access through the 32-bit path
func (v *VRAM) Write32(addr uint32, data uint32, mask uint32) {
	v.write(Translate(addr), data, mask)
}

// Read64 is a read access through the 64-bit path
func (v *VRAM) Read64(addr uint32, mask uint32) uint32 {
	return v.read(addr, mask)
}

// Write64 is a write access through the 64-bit path
func (v *VRAM) Write64(addr uint32, data uint32, mask uint32) {
	v.write(addr, data, mask)
}

// Load copies data into video memory starting at the address on the 32-bit
// path. Each byte is translated individually
func (v *VRAM) Load(addr uint32, data []uint8) {
	for i, b := range data {
		v.data[Translate(addr+uint32(i))&(VRAMSize-1)] = b
	}
}

// Dump returns a formatted hex dump of the canonical address range
func (v *VRAM) Dump(from uint32, to uint32) string {
	var s []byte
	var column int
	for a := from; a <= to; a++ {
		if column == 0 {
			s = fmt.Appendf(s, "%08x", a)
		}
		s = fmt.Appendf(s, " %02x", v.Read8(a))
		column++
		if column > 15 {
			s = append(s, '\n')
			column = 0
		}
	}
	if column != 0 {
		s = append(s, '\n')
	}
	return string(s)
}
