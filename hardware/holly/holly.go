package holly

import (
	"fmt"
	"strings"

	"github.com/dcvideo/pvrscan/logger"
)

// Interrupt is a bit in the normal interrupt status register
type Interrupt uint32

// list of interrupts raised by the PVR
const (
	PCVIINT Interrupt = 1 << 3 // vblank in
	PCVOINT Interrupt = 1 << 4 // vblank out
	PCHIINT Interrupt = 1 << 5 // hblank in
)

func (i Interrupt) String() string {
	switch i {
	case PCVIINT:
		return "PCVIINT"
	case PCVOINT:
		return "PCVOINT"
	case PCHIINT:
		return "PCHIINT"
	}
	return fmt.Sprintf("INT(%#08x)", uint32(i))
}

var interrupts = []Interrupt{PCVIINT, PCVOINT, PCHIINT}

// Holly records the interrupts raised by the devices attached to it. Delivery
// of the interrupts to the CPU is not emulated
type Holly struct {
	// SB_ISTNRM equivalent
	pending uint32

	// number of times each interrupt has been raised
	counts map[Interrupt]int

	// optional callback run whenever an interrupt is raised
	OnRaise func(Interrupt)
}

// Create is the preferred method of initialisation for the Holly type
func Create() *Holly {
	return &Holly{
		counts: make(map[Interrupt]int),
	}
}

func (hl *Holly) Label() string {
	return "HOLLY"
}

// Reset clears pending interrupts and interrupt counts
func (hl *Holly) Reset() {
	hl.pending = 0
	clear(hl.counts)
}

// Raise an interrupt
func (hl *Holly) Raise(intr Interrupt) {
	hl.pending |= uint32(intr)
	hl.counts[intr]++
	if hl.OnRaise != nil {
		hl.OnRaise(intr)
	}
}

// Pending returns the bits of the pending interrupts
func (hl *Holly) Pending() uint32 {
	return hl.pending
}

// IsPending returns true if the interrupt has been raised and not cleared
func (hl *Holly) IsPending(intr Interrupt) bool {
	return hl.pending&uint32(intr) == uint32(intr)
}

// Clear acknowledges the interrupt bits set in the mask
func (hl *Holly) Clear(mask uint32) {
	hl.pending &^= mask
}

// Count returns the number of times the interrupt has been raised since the
// last reset
func (hl *Holly) Count(intr Interrupt) int {
	return hl.counts[intr]
}

func (hl *Holly) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s: pending=%#08x", hl.Label(), hl.pending))
	for _, i := range interrupts {
		s.WriteString(fmt.Sprintf(" %s=%d", i, hl.counts[i]))
	}
	return s.String()
}

// Status is the same as String() but also writes the result to the log
func (hl *Holly) Status() string {
	s := hl.String()
	logger.Log(logger.Allow, "holly", s)
	return s
}
