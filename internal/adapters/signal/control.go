package signal

import "github.com/gauravkharai149-boop/voice-roooom/internal/core"

func (ctl *Controller) handlePing(sig core.SignalConnection) {
	ctl.sendJSON(sig, struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	})
}
