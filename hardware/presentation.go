package hardware

import (
	"fmt"
	"image"

	"github.com/dcvideo/pvrscan/gui"
)

type frameLimiter interface {
	Wait()
}

// presentation receives video output from the PVR and forwards it to the GUI
type presentation struct {
	g     *gui.GUI
	limit frameLimiter

	// the most recent frame pushed by the PVR. frames are converted to RGBA
	// as they are pushed
	frame *image.RGBA

	// a frame has been pushed since the last vblank
	pushed bool

	// the most recent value of VO_CONTROL.blank_video seen at vblank
	blank bool

	vblanks  int
	frames   int
	inVBlank bool

	// description of the current video mode for the GUI status line
	mode string
}

func newPresentation(g *gui.GUI) *presentation {
	return &presentation{
		g: g,
	}
}

func (p *presentation) reset() {
	p.frame = nil
	p.pushed = false
	p.blank = false
	p.vblanks = 0
	p.frames = 0
	p.inVBlank = false
}

func (p *presentation) String() string {
	var sz string
	if p.frame != nil {
		sz = fmt.Sprintf("%dx%d", p.frame.Bounds().Dx(), p.frame.Bounds().Dy())
	} else {
		sz = "no frame"
	}
	return fmt.Sprintf("%s %s vblanks=%d frames=%d blank=%v", p.mode, sz, p.vblanks, p.frames, p.blank)
}

// VBlankIn implements the pvr.Presentation interface
func (p *presentation) VBlankIn(blankVideo bool) {
	p.vblanks++
	p.inVBlank = true
	p.blank = blankVideo

	if p.pushed || p.blank {
		p.pushed = false
		p.send()
	}

	if p.limit != nil {
		p.limit.Wait()
	}
}

// VBlankOut implements the pvr.Presentation interface
func (p *presentation) VBlankOut() {
	p.inVBlank = false
}

// PushPixels implements the pvr.Presentation interface
func (p *presentation) PushPixels(data []uint8, stride int, width int, height int) {
	if width <= 0 || height <= 0 || stride < width {
		return
	}
	if len(data) < stride*height*3 {
		return
	}

	if p.frame == nil || p.frame.Bounds().Dx() != width || p.frame.Bounds().Dy() != height {
		p.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	}

	for y := 0; y < height; y++ {
		src := data[y*stride*3:]
		dst := p.frame.Pix[y*p.frame.Stride:]
		for x := 0; x < width; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}

	p.frames++
	p.pushed = true
}

// the image sent to the GUI when video output is blanked
func (p *presentation) blankImage() *image.RGBA {
	r := image.Rect(0, 0, 640, 480)
	if p.frame != nil {
		r = p.frame.Bounds()
	}
	img := image.NewRGBA(r)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+3] = 0xff
	}
	return img
}

// send the current frame to the GUI
func (p *presentation) send() {
	if p.g == nil {
		return
	}

	var img *image.RGBA
	if p.blank {
		img = p.blankImage()
	} else if p.frame != nil {
		// the GUI runs in a different goroutine so it must be sent a copy
		img = image.NewRGBA(p.frame.Bounds())
		copy(img.Pix, p.frame.Pix)
	} else {
		return
	}

	p.g.SendImage(gui.Frame{
		Main:   img,
		Status: p.String(),
	})
}
