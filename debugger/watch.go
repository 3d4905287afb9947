package debugger

import (
	"fmt"

	"github.com/dcvideo/pvrscan/hardware/pvr"
)

type watch struct {
	reg  pvr.Register
	data uint32
	prev uint32
}

func (w watch) String() string {
	return fmt.Sprintf("%s = %08x -> %08x", w.reg, w.prev, w.data)
}

// checkWatches returns the first watched register that has changed since the
// last check
func (m *debugger) checkWatches() *watch {
	for r, w := range m.watches {
		d := m.console.PVR.Registers.Get(r)
		if d != w.data {
			w.prev = w.data
			w.data = d
			m.watches[r] = w
			return &w
		}
	}
	return nil
}
