package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/gauravkharai149-boop/voice-roooom/internal/domain"
)

func (ctl *Controller) handleChat(sid domain.ConnID, data []byte) {
	var p struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad chat payload")
		return
	}
	if p.Text == "" {
		return
	}
	if !ctl.chatLimiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("chat rate limited")
		return
	}
	ctl.Relay.Chat(sid, p.Text)
}
