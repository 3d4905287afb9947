package debugger

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dcvideo/pvrscan/resources"
)

// screenshots are saved in this subdirectory of the resources directory
const screenshotDir = "screenshots"

// screenshot saves the most recent frame as a PNG file. if filename is empty
// then a name is generated from the video mode and the current time. returns
// the path of the saved file
func (m *debugger) screenshot(filename string) (string, error) {
	img := m.console.Frame()
	if img == nil {
		return "", errors.New("screenshot: no frame has been output")
	}

	if filename == "" {
		filename = fmt.Sprintf("%s_%s.png", strings.ToLower(m.console.Mode().ID),
			time.Now().Format("20060102_150405"))
	} else if filepath.Ext(filename) == "" {
		filename = fmt.Sprintf("%s.png", filename)
	}

	pth, err := resources.JoinPath(screenshotDir, filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	f, err := os.Create(pth)
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	defer f.Close()

	err = png.Encode(f, img)
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	return pth, nil
}
