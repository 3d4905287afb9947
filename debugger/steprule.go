package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dcvideo/pvrscan/hardware/holly"
)

// parseStepRule sets the step rule according to the arguments of the STEP
// command. returns false if the rule is not valid
func (m *debugger) parseStepRule(cmd []string) bool {
	rule := strings.ToUpper(cmd[0])

	switch rule {
	case "FRAME", "FR":
		var tgt int
		vblanks := m.console.PVR.Timing().VBlanks
		if len(cmd) > 1 {
			var err error
			tgt, err = strconv.Atoi(cmd[1])
			if err != nil {
				m.println(m.styles.err, err.Error())
				return false
			}
			if tgt <= vblanks {
				m.println(m.styles.err, fmt.Sprintf("FRAME %d is in the past", tgt))
				return false
			}
		} else {
			tgt = vblanks + 1
		}
		m.stepRule = func() bool {
			return m.console.PVR.Timing().VBlanks >= tgt
		}
		m.postStep = func() {
			m.println(m.styles.video, m.console.PVR.Timing().String())
		}

	case "SCANLINE", "SL":
		tm := m.console.PVR.Timing()
		tgt := (tm.Scanline + 1) % tm.Lines
		if len(cmd) > 1 {
			var err error
			tgt, err = strconv.Atoi(cmd[1])
			if err != nil {
				m.println(m.styles.err, err.Error())
				return false
			}
			if tgt < 0 || tgt >= tm.Lines {
				m.println(m.styles.err, fmt.Sprintf("SCANLINE %d is out of range", tgt))
				return false
			}
		}

		// the scanline counter wraps so a target at or before the current
		// scanline is reached in the next frame
		m.stepRule = func() bool {
			return m.console.PVR.Timing().Scanline == tgt
		}

	case "VBLANK", "VB":
		// step until the start of the next vertical sync period
		vsync := m.console.PVR.Timing().VSync
		m.stepRule = func() bool {
			v := m.console.PVR.Timing().VSync
			defer func() { vsync = v }()
			return v && !vsync
		}

	case "INTERRUPT", "INTR":
		var raised bool
		m.console.Holly.OnRaise = func(_ holly.Interrupt) {
			raised = true
		}
		m.stepRule = func() bool {
			return raised
		}
		m.postStep = func() {
			m.console.Holly.OnRaise = nil
			m.println(m.styles.intr, m.console.Holly.String())
		}

	default:
		m.println(m.styles.err, fmt.Sprintf("STEP %s is unsupported", rule))
		return false
	}

	return true
}
