package hardware

import (
	"fmt"

	"github.com/dcvideo/pvrscan/hardware/pvr"
)

// origins of the memory areas in the physical address space
const (
	RegisterOrigin = 0x005f8000
	RegisterMemtop = RegisterOrigin + pvr.RegisterBlockSize - 1
	VRAM64Origin   = 0x04000000
	VRAM64Memtop   = 0x04ffffff
	VRAM32Origin   = 0x05000000
	VRAM32Memtop   = 0x05ffffff
)

// the top three bits of an address select the access region. the physical
// address is the same in every region
const physicalMask = 0x1fffffff

type lastArea interface {
	Label() string
	Status() string
}

// Area is a region of the memory map
type Area interface {
	Label() string

	// read and write both take an index value. this is an address in the area
	// but with the area origin removed. in other words, the area doesn't need
	// to know about it's location in memory, only the relative placement of
	// addresses within the area
	Read(idx uint32, mask uint32) (uint32, error)
	Write(idx uint32, data uint32, mask uint32) error
}

type registerArea struct {
	pvr *pvr.PVR
}

func (a registerArea) Label() string {
	return "PVR registers"
}

func (a registerArea) Status() string {
	return a.pvr.Timing().String()
}

func (a registerArea) Read(idx uint32, mask uint32) (uint32, error) {
	return a.pvr.Read(idx, mask), nil
}

func (a registerArea) Write(idx uint32, data uint32, mask uint32) error {
	a.pvr.Write(idx, data, mask)
	return nil
}

// video memory through either access path. the index of both paths is
// wrapped to the size of video memory, which takes care of the mirrors
type vramArea struct {
	label string
	vram  *pvr.VRAM

	// true if the area is the 32-bit access path
	sequential bool

	// the most recently written index
	last uint32
}

func (a *vramArea) Label() string {
	return a.label
}

func (a *vramArea) Status() string {
	if a.sequential {
		return fmt.Sprintf("%s: last write %#08x (canonical %#08x)", a.label, a.last, pvr.Translate(a.last))
	}
	return fmt.Sprintf("%s: last write %#08x", a.label, a.last)
}

func (a *vramArea) Read(idx uint32, mask uint32) (uint32, error) {
	if a.sequential {
		return a.vram.Read32(idx, mask), nil
	}
	return a.vram.Read64(idx, mask), nil
}

func (a *vramArea) Write(idx uint32, data uint32, mask uint32) error {
	a.last = idx
	if a.sequential {
		a.vram.Write32(idx, data, mask)
	} else {
		a.vram.Write64(idx, data, mask)
	}
	return nil
}

type memory struct {
	Registers registerArea
	VRAM64    *vramArea
	VRAM32    *vramArea
	last      lastArea
}

func createMemory(p *pvr.PVR, vram *pvr.VRAM) *memory {
	return &memory{
		Registers: registerArea{pvr: p},
		VRAM64:    &vramArea{label: "VRAM (64-bit path)", vram: vram},
		VRAM32:    &vramArea{label: "VRAM (32-bit path)", vram: vram, sequential: true},
	}
}

// MapAddress returns the area and the index into that area for the address.
// Returns a nil area if the address is not mapped
func (mem *memory) MapAddress(address uint32) (uint32, Area) {
	address &= physicalMask

	if address >= RegisterOrigin && address <= RegisterMemtop {
		return address - RegisterOrigin, mem.Registers
	}

	// the 8MB of video memory is mirrored once in each of the 16MB areas
	if address >= VRAM64Origin && address <= VRAM64Memtop {
		return (address - VRAM64Origin) & (pvr.VRAMSize - 1), mem.VRAM64
	}
	if address >= VRAM32Origin && address <= VRAM32Memtop {
		return (address - VRAM32Origin) & (pvr.VRAMSize - 1), mem.VRAM32
	}

	return 0, nil
}

func (mem *memory) Read(address uint32, mask uint32) (uint32, error) {
	idx, area := mem.MapAddress(address)
	if area == nil {
		return 0, fmt.Errorf("memory.Read: unmapped address: %08x", address)
	}
	return area.Read(idx, mask)
}

func (mem *memory) Write(address uint32, data uint32, mask uint32) error {
	idx, area := mem.MapAddress(address)
	if area == nil {
		return fmt.Errorf("memory.Write: unmapped address: %08x", address)
	}
	if l, ok := area.(lastArea); ok {
		mem.last = l
	}
	return area.Write(idx, data, mask)
}
