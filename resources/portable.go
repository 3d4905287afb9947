package resources

import (
	"os"
	"path/filepath"
)

const (
	portableIndicator = "portable.txt"
	portableDir       = "pvrscan_UserData"
)

// the directory containing the program binary. empty if it can't be found
func executableDir() string {
	ex, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(ex)
}

func checkPortable() bool {
	d := executableDir()
	if d == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(d, portableIndicator))
	return err == nil
}

func portablePath() string {
	return filepath.Join(executableDir(), portableDir)
}
