package ta

import (
	"fmt"

	"github.com/dcvideo/pvrscan/logger"
)

// TA stands in for the tile accelerator and the rendering core. Requests from
// the PVR are counted but nothing is rendered
type TA struct {
	SoftResets   int
	StartRenders int
	ListInits    int
	ListConts    int
	YUVInits     int

	// optional callback run when a render is started
	OnStartRender func()
}

// Create is the preferred method of initialisation for the TA type
func Create() *TA {
	return &TA{}
}

func (ta *TA) Label() string {
	return "TA"
}

// Reset the request counters
func (ta *TA) Reset() {
	ta.SoftResets = 0
	ta.StartRenders = 0
	ta.ListInits = 0
	ta.ListConts = 0
	ta.YUVInits = 0
}

func (ta *TA) String() string {
	return fmt.Sprintf("%s: softreset=%d startrender=%d listinit=%d listcont=%d yuvinit=%d",
		ta.Label(), ta.SoftResets, ta.StartRenders, ta.ListInits, ta.ListConts, ta.YUVInits)
}

func (ta *TA) SoftReset() {
	ta.SoftResets++
	logger.Log(logger.Allow, "ta", "soft reset")
}

func (ta *TA) StartRender() {
	ta.StartRenders++
	logger.Log(logger.Allow, "ta", "start render")
	if ta.OnStartRender != nil {
		ta.OnStartRender()
	}
}

func (ta *TA) ListInit() {
	ta.ListInits++
	logger.Log(logger.Allow, "ta", "list init")
}

func (ta *TA) ListCont() {
	ta.ListConts++
	logger.Log(logger.Allow, "ta", "list continue")
}

func (ta *TA) YUVInit() {
	ta.YUVInits++
	logger.Log(logger.Allow, "ta", "yuv init")
}
