package debugger

import (
	"fmt"
	"strings"

	"github.com/dcvideo/pvrscan/hardware"
	"github.com/dcvideo/pvrscan/hardware/pvr"
	"github.com/dcvideo/pvrscan/hardware/spec"
	"github.com/dcvideo/pvrscan/logger"
)

// returns true if debugger is to quit
func (m *debugger) commands(cmd []string) bool {
	if len(cmd) == 0 {
		return false
	}

	switch strings.ToUpper(cmd[0]) {
	case "R", "RUN":
		return m.run()

	case "ST", "STEP":
		if len(cmd) > 1 {
			if !m.parseStepRule(cmd[1:]) {
				break // switch
			}
		}
		return m.step()

	case "RESET":
		m.reset()

	case "PVR":
		m.println(m.styles.video, m.console.PVR.String())

	case "SPG":
		m.println(m.styles.video, m.console.PVR.Timing().String())
		w, h := m.console.PVR.FramebufferSize()
		vw, vh := m.console.PVR.VideoSize()
		m.println(m.styles.video, fmt.Sprintf("framebuffer=%dx%d video=%dx%d line=%dns",
			w, h, vw, vh, m.console.PVR.LineDuration()))

	case "REG":
		m.register(cmd[1:])

	case "PEEK32", "PEEK64":
		if len(cmd) < 2 {
			m.println(m.styles.err, fmt.Sprintf("%s requires an offset into video memory", strings.ToUpper(cmd[0])))
			break // switch
		}

		address, err := vramAddress(cmd[0], cmd[1])
		if err != nil {
			m.println(m.styles.err, fmt.Sprintf("peek: %s", err.Error()))
			break // switch
		}

		data, err := m.console.Read(address, 0xffffffff)
		if err != nil {
			m.println(m.styles.err, fmt.Sprintf("peek: %s", err.Error()))
			break // switch
		}

		m.println(m.styles.mem, m.vramStatus(address, data))

	case "POKE32", "POKE64":
		if len(cmd) < 3 {
			m.println(m.styles.err, fmt.Sprintf("%s requires an offset into video memory and a value", strings.ToUpper(cmd[0])))
			break // switch
		}

		address, err := vramAddress(cmd[0], cmd[1])
		if err != nil {
			m.println(m.styles.err, fmt.Sprintf("poke: %s", err.Error()))
			break // switch
		}

		data, err := parseNumber(cmd[2])
		if err != nil {
			m.println(m.styles.err, fmt.Sprintf("poke: %s", err.Error()))
			break // switch
		}

		err = m.console.Write(address, data, 0xffffffff)
		if err != nil {
			m.println(m.styles.err, fmt.Sprintf("poke: %s", err.Error()))
			break // switch
		}

		m.println(m.styles.mem, m.vramStatus(address, data))

	case "DUMP":
		if len(cmd) < 3 {
			m.println(m.styles.err, "DUMP requires a 'from' and a 'to' address")
			break // switch
		}

		from, err := m.parseAddress(cmd[1])
		if err != nil {
			m.println(m.styles.err, fmt.Sprintf("dump: %s", err.Error()))
			break // switch
		}

		to, err := m.parseAddress(cmd[2])
		if err != nil {
			m.println(m.styles.err, fmt.Sprintf("dump: %s", err.Error()))
			break // switch
		}

		if to.address < from.address {
			m.println(m.styles.err, "dump: the 'to' address is less than the 'from' address")
			break // switch
		}

		if from.area != to.area {
			m.println(m.styles.err, "dump: the 'from' and 'to' addresses are in different memory areas")
			break // switch
		}

		m.dump(from, to)

	case "MODE":
		if len(cmd) < 2 {
			for _, md := range spec.Modes {
				s := md.String()
				if md.ID == m.console.Mode().ID {
					s = fmt.Sprintf("%s *", s)
				}
				m.println(m.styles.video, s)
			}
			break // switch
		}

		var md spec.Mode
		if strings.ToUpper(cmd[1]) == "NEXT" {
			md = nextMode(m.console.Mode())
		} else {
			var err error
			md, err = spec.Lookup(cmd[1])
			if err != nil {
				m.println(m.styles.err, err.Error())
				break // switch
			}
		}

		err := m.console.SetMode(md)
		if err != nil {
			m.println(m.styles.err, err.Error())
			break // switch
		}
		m.println(m.styles.video, md.String())

	case "TESTCARD":
		err := m.console.TestCard()
		if err != nil {
			m.println(m.styles.err, err.Error())
			break // switch
		}
		m.println(m.styles.debugger, fmt.Sprintf("test card drawn at %#08x", m.console.PVR.Registers.Get(pvr.FB_R_SOF1)))

	case "RENDER":
		err := m.console.StartRender()
		if err != nil {
			m.println(m.styles.err, err.Error())
			break // switch
		}
		m.println(m.styles.reg, m.console.TA.String())

	case "INTR":
		if len(cmd) > 1 {
			if strings.ToUpper(cmd[1]) != "CLEAR" {
				m.println(m.styles.err, fmt.Sprintf("unrecognised argument for INTR command: %s", cmd[1]))
				break // switch
			}
			m.console.Holly.Clear(m.console.Holly.Pending())
		}
		m.println(m.styles.intr, m.console.Holly.String())

	case "WATCH":
		m.watch(cmd[1:])

	case "SCREENSHOT":
		var filename string
		if len(cmd) > 1 {
			filename = cmd[1]
		}
		pth, err := m.screenshot(filename)
		if err != nil {
			m.println(m.styles.err, err.Error())
			break // switch
		}
		m.println(m.styles.debugger, fmt.Sprintf("screenshot saved to %s", pth))

	case "LOG":
		logger.Tail(m.out, -1)

	case "QUIT":
		return true

	default:
		m.println(m.styles.err, fmt.Sprintf("unrecognised command: %s", strings.Join(cmd, " ")))
	}

	return false
}

// the mode that follows the specified mode in the list of presets
func nextMode(md spec.Mode) spec.Mode {
	for i, n := range spec.Modes {
		if n.ID == md.ID {
			return spec.Modes[(i+1)%len(spec.Modes)]
		}
	}
	return spec.Modes[0]
}

// vramAddress returns the bus address for the offset into video memory. the
// access path is selected by the suffix of the command
func vramAddress(command string, offset string) (uint32, error) {
	off, err := parseNumber(offset)
	if err != nil {
		return 0, err
	}
	if off >= pvr.VRAMSize {
		return 0, fmt.Errorf("offset is larger than video memory: %s", offset)
	}
	if off&0x03 != 0 {
		return 0, fmt.Errorf("offset is not aligned: %s", offset)
	}
	if strings.HasSuffix(command, "64") {
		return hardware.VRAM64Origin + off, nil
	}
	return hardware.VRAM32Origin + off, nil
}

func (m *debugger) vramStatus(address uint32, data uint32) string {
	idx, area := m.console.Mem.MapAddress(address)
	if address >= hardware.VRAM32Origin {
		return fmt.Sprintf("%#08x = %08x (%s, canonical %#06x)", address, data, area.Label(), pvr.Translate(idx))
	}
	return fmt.Sprintf("%#08x = %08x (%s)", address, data, area.Label())
}

func (m *debugger) dump(from mappedAddress, to mappedAddress) {
	var column int
	for i := from.idx &^ 0x03; i <= to.idx; i += 4 {
		address := from.address + i - from.idx

		if column == 0 {
			fmt.Fprintf(m.out, "%08x", address)
		}

		data, err := from.area.Read(i, 0xffffffff)
		if err != nil {
			fmt.Fprintln(m.out)
			m.println(m.styles.err, fmt.Sprintf("dump address is not readable: %08x", address))
			return
		}
		fmt.Fprintf(m.out, " %08x", data)

		column++
		if column > 3 {
			fmt.Fprintf(m.out, "\n")
			column = 0
		}
	}
	if column != 0 {
		fmt.Fprintf(m.out, "\n")
	}
}

func (m *debugger) register(args []string) {
	if len(args) == 0 {
		m.println(m.styles.reg, m.console.PVR.Registers.String())
		return
	}

	r, err := parseRegister(args[0])
	if err != nil {
		m.println(m.styles.err, fmt.Sprintf("reg: %s", err.Error()))
		return
	}

	if len(args) > 1 {
		v, err := parseNumber(args[1])
		if err != nil {
			m.println(m.styles.err, fmt.Sprintf("reg: %s", err.Error()))
			return
		}

		// registers are written through the bus so that side effects happen
		err = m.console.Write(hardware.RegisterOrigin+r.Address(), v, 0xffffffff)
		if err != nil {
			m.println(m.styles.err, fmt.Sprintf("reg: %s", err.Error()))
			return
		}

		err = m.contextBreaks()
		if err != nil {
			m.println(m.styles.err, err.Error())
		}
	}

	m.println(m.styles.reg, fmt.Sprintf("%s (%#04x) = %08x", r, r.Address(), m.console.PVR.Registers.Get(r)))
}

func (m *debugger) watch(args []string) {
	if len(args) == 0 {
		if len(m.watches) == 0 {
			m.println(m.styles.debugger, "no watches")
			return
		}
		for _, w := range m.watches {
			m.println(m.styles.watch, fmt.Sprintf("%s = %08x", w.reg, w.data))
		}
		return
	}

	// we check the first argument for special keywords before assuming it is
	// a register. the keywords are case insensitive
	if strings.ToUpper(args[0]) == "DROP" {
		if len(args) < 2 {
			m.println(m.styles.err, "WATCH DROP requires a register")
			return
		}

		if strings.ToUpper(args[1]) == "ALL" {
			clear(m.watches)
			m.println(m.styles.debugger, "all watches have been removed")
			return
		}

		r, err := parseRegister(args[1])
		if err != nil {
			m.println(m.styles.err, fmt.Sprintf("watch: %s", err.Error()))
			return
		}
		if _, ok := m.watches[r]; !ok {
			m.println(m.styles.debugger, fmt.Sprintf("watch for %s not present", r))
			return
		}
		delete(m.watches, r)
		m.println(m.styles.debugger, fmt.Sprintf("watch for %s has been removed", r))
		return
	}

	r, err := parseRegister(args[0])
	if err != nil {
		m.println(m.styles.err, fmt.Sprintf("watch: %s", err.Error()))
		return
	}

	if _, ok := m.watches[r]; ok {
		m.println(m.styles.err, fmt.Sprintf("watch for %s already present", r))
		return
	}

	m.watches[r] = watch{
		reg:  r,
		data: m.console.PVR.Registers.Get(r),
	}
	m.println(m.styles.debugger, fmt.Sprintf("added watch for %s", r))
}
