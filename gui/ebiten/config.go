package ebiten

import (
	"fmt"

	"github.com/dcvideo/pvrscan/resources"
	"github.com/hajimehoshi/ebiten/v2"
)

// the name of the resource file in which the window geometry is stored
const windowResource = "window"

// onWindowOpen restores the window geometry saved by onWindowClose()
func onWindowOpen() (windowGeometry, error) {
	var geom windowGeometry

	s, err := resources.Read(windowResource)
	if err != nil {
		return geom, err
	}

	_, err = fmt.Sscanf(s, "%d %d %d %d", &geom.x, &geom.y, &geom.w, &geom.h)
	if err != nil {
		return geom, fmt.Errorf("window geometry: %w", err)
	}

	if !geom.valid() {
		return geom, fmt.Errorf("window geometry: invalid values: %s", s)
	}

	ebiten.SetWindowPosition(geom.x, geom.y)
	ebiten.SetWindowSize(geom.w, geom.h)

	return geom, nil
}

func onWindowClose(geom windowGeometry) error {
	if !geom.valid() {
		return nil
	}
	s := fmt.Sprintf("%d %d %d %d", geom.x, geom.y, geom.w, geom.h)
	return resources.Write(windowResource, s)
}
