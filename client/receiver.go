package client

import (
	"strings"
	"time"

	"github.com/lixenwraith/coin-collector/network"
)

// Receiver turns inbound lines into scene updates
type Receiver struct {
	scene *Scene
}

func NewReceiver(scene *Scene) *Receiver {
	return &Receiver{scene: scene}
}

// Apply parses one line received at now and reports whether it carried state
// Known notices replace the status text; anything else unparseable is dropped
func (r *Receiver) Apply(line string, now time.Time) bool {
	st, err := network.ParseStateLine(line)
	if err != nil {
		switch line {
		case network.NoticeGameStart:
			r.scene.Rearm()
			r.scene.SetNotice(strings.TrimSuffix(line, "\n"))
		case network.NoticeWaiting, network.NoticeServerFull, network.NoticeGameOver:
			r.scene.SetNotice(strings.TrimSuffix(line, "\n"))
		}
		return false
	}
	r.scene.ApplyState(st, now)
	return true
}
