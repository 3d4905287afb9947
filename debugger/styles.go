package debugger

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type styles struct {
	video    lipgloss.Style
	mem      lipgloss.Style
	reg      lipgloss.Style
	intr     lipgloss.Style
	err      lipgloss.Style
	watch    lipgloss.Style
	debugger lipgloss.Style
}

// ANSI Color reference
// 0	Black
// 1	Red
// 2	Green
// 3	Yellow
// 4	Blue
// 5	Magenta
// 6	Cyan
// 7	White
// 8	Bright Black (Gray)
// 9	Bright Red
// 10	Bright Green
// 11	Bright Yellow
// 12	Bright Blue
// 13	Bright Magenta
// 14	Bright Cyan
// 15	Bright White

// newStyles returns the styles for debugger output. plain styles are returned
// if colour is false
func newStyles(colour bool) styles {
	if !colour {
		plain := lipgloss.NewStyle()
		return styles{
			video:    plain,
			mem:      plain,
			reg:      plain,
			intr:     plain,
			err:      plain,
			watch:    plain,
			debugger: plain,
		}
	}

	return styles{
		video:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		mem:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(5)),
		reg:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		intr:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(4)),
		err:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		watch:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)),
		debugger: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(2)),
	}
}

// stdoutIsTerminal returns true if output is to an interactive terminal
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
