package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dcvideo/pvrscan/hardware"
	"github.com/dcvideo/pvrscan/hardware/pvr"
)

type mappedAddress struct {
	address uint32
	area    hardware.Area
	idx     uint32
}

// parse a number. a leading '$' is accepted as an alternative to '0x'
func parseNumber(s string) (uint32, error) {
	if strings.HasPrefix(s, "$") {
		s = fmt.Sprintf("0x%s", s[1:])
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("not a valid number: %s", s)
	}
	return uint32(v), nil
}

// parseAddress maps a bus address to a memory area
func (m *debugger) parseAddress(address string) (mappedAddress, error) {
	var ma mappedAddress

	addr, err := parseNumber(address)
	if err != nil {
		return ma, fmt.Errorf("address is not valid: %s", address)
	}
	ma.address = addr

	ma.idx, ma.area = m.console.Mem.MapAddress(ma.address)
	if ma.area == nil {
		return ma, fmt.Errorf("address is not mapped: %s", address)
	}

	return ma, nil
}

// parseRegister accepts either the name of a register or its address relative
// to the start of the register block
func parseRegister(s string) (pvr.Register, error) {
	if r, ok := pvr.LookupRegister(s); ok {
		return r, nil
	}

	addr, err := parseNumber(s)
	if err != nil {
		return 0, fmt.Errorf("unknown register: %s", s)
	}
	if addr&0x03 != 0 {
		return 0, fmt.Errorf("register address is not aligned: %s", s)
	}
	if addr >= pvr.RegisterBlockSize {
		return 0, fmt.Errorf("register address is out of range: %s", s)
	}

	return pvr.Register(addr >> 2), nil
}
