package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name to use when referring to the application
const ApplicationName = "pvrscan"

// number is set by the linker for release builds
var number string

// the vcs revision, suffixed with "+dirty" if the source had uncommitted
// changes at build time
var revision string

// the version string. "unreleased" if the program was built from a vcs
// checkout without a version number and "local" if there is no version number
// and no vcs information
var version string

// Version returns the version string, the revision string and whether this is a
// numbered release
func Version() (string, string, bool) {
	return version, revision, number != "" && version == number
}

// Title returns a string suitable for a window title
func Title() string {
	ver, rev, rel := Version()
	if rel {
		return fmt.Sprintf("%s (%s)", ApplicationName, ver)
	}
	return fmt.Sprintf("%s (%s)", ApplicationName, rev)
}

// the version and revision strings from the build settings
func fromBuildInfo(number string, settings []debug.BuildSetting) (string, string) {
	var vcs bool
	var rev string
	var modified bool

	for _, s := range settings {
		switch s.Key {
		case "vcs":
			vcs = true
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if rev == "" {
		rev = "no revision information"
	} else if modified {
		rev = fmt.Sprintf("%s+dirty", rev)
	}

	switch {
	case number != "":
		return number, rev
	case vcs:
		return "unreleased", rev
	}
	return "local", rev
}

func init() {
	var settings []debug.BuildSetting
	if info, ok := debug.ReadBuildInfo(); ok {
		settings = info.Settings
	}
	version, revision = fromBuildInfo(number, settings)
}
