package pvr

import "fmt"

// a handler is run when a register is written to through the bus
type handler struct {
	// store the value in the register file before running the action. if store
	// is false the register file is never updated by a write
	store bool

	// trigger returns true if the written value should run the action. a nil
	// trigger means the action always runs
	trigger func(data uint32) bool

	action func(data uint32)
}

func triggerBit(mask uint32) func(uint32) bool {
	return func(data uint32) bool {
		return data&mask != 0
	}
}

func (pvr *PVR) handlerTable() map[Register]handler {
	return map[Register]handler{
		SOFTRESET: {
			trigger: triggerBit(0x00000001),
			action:  func(_ uint32) { pvr.ta.SoftReset() },
		},
		STARTRENDER: {
			trigger: triggerBit(0xffffffff),
			action:  func(_ uint32) { pvr.startRender() },
		},
		TA_LIST_INIT: {
			trigger: triggerBit(0x80000000),
			action:  func(_ uint32) { pvr.ta.ListInit() },
		},
		TA_LIST_CONT: {
			trigger: triggerBit(0x80000000),
			action:  func(_ uint32) { pvr.ta.ListCont() },
		},
		TA_YUV_TEX_BASE: {
			store:  true,
			action: func(_ uint32) { pvr.ta.YUVInit() },
		},
		SPG_LOAD: {
			store:  true,
			action: func(_ uint32) { pvr.reconfigure() },
		},
		FB_R_CTRL: {
			store:  true,
			action: func(_ uint32) { pvr.reconfigure() },
		},
	}
}

func (pvr *PVR) startRender() {
	pvr.ta.StartRender()
	pvr.markFramebuffer(pvr.Registers.Get(FB_W_SOF1))
	pvr.markFramebuffer(pvr.Registers.Get(FB_W_SOF2))
	pvr.gotStartRender = true
}

// resolve address to register. the address is relative to the start of the
// register block
func (pvr *PVR) resolve(addr uint32) (Register, bool) {
	r := Register(addr >> 2)
	if r >= numRegisters {
		pvr.ctx.Break(fmt.Errorf("%w: %w: %#08x", ContextError, ErrUnmapped, addr))
		return 0, false
	}
	return r, true
}

// Write is the bus write entry point for the register block. The address is
// relative to the start of the register block. The value is stored verbatim;
// the mask does not take part in register writes
func (pvr *PVR) Write(addr uint32, data uint32, mask uint32) {
	r, ok := pvr.resolve(addr)
	if !ok {
		return
	}

	// the ID register is read-only. the BIOS will fail to boot if a write goes
	// through to this register
	if r == ID {
		return
	}

	h, ok := pvr.handlers[r]
	if !ok {
		pvr.Registers.Set(r, data)
		return
	}

	if h.store {
		pvr.Registers.Set(r, data)
	}
	if h.trigger == nil || h.trigger(data) {
		h.action(data)
	}
}

// Read is the bus read entry point for the register block. The address is
// relative to the start of the register block. The stored value is returned
// directly
func (pvr *PVR) Read(addr uint32, mask uint32) uint32 {
	r, ok := pvr.resolve(addr)
	if !ok {
		return 0
	}
	return pvr.Registers.Get(r)
}
