package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/gauravkharai149-boop/voice-roooom/internal/domain"
)

// handleHandshake relays one offer/answer/candidate to its target. The
// payload is opaque; only the envelope is decoded.
func (ctl *Controller) handleHandshake(sid domain.ConnID, data []byte, kind string) {
	var p struct {
		Type     string          `json:"type"`
		TargetID string          `json:"targetId"`
		Payload  json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("kind", kind).Msg("bad handshake payload")
		return
	}
	if p.TargetID == "" {
		log.Warn().Str("module", "signal").Str("kind", kind).Msg("handshake without target")
		return
	}
	ctl.Relay.Handshake(kind, sid, domain.ConnID(p.TargetID), p.Payload)
}
