package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/gauravkharai149-boop/voice-roooom/internal/domain"
)

// Relay is the stateless message router. It only reads manager state and
// never mutates membership.
type Relay struct {
	m *Manager
}

func NewRelay(m *Manager) *Relay {
	return &Relay{m: m}
}

// Handshake forwards an offer, answer or connectivity candidate to its
// target connection, tagged with the sender. The payload is opaque and
// never inspected. A target that is gone means the message is silently
// dropped: signaling inherently races disconnects, and the sender learns
// about the peer through member-left instead.
func (r *Relay) Handshake(kind string, from, target domain.ConnID, payload json.RawMessage) {
	sig, ok := r.m.SignalOf(target)
	if !ok {
		log.Debug().Str("module", "app.relay").
			Str("kind", kind).Str("target", string(target)).Msg("handshake target gone, dropped")
		return
	}
	send(sig, handshakeEvent{Type: kind, FromID: from, Payload: payload})
}

// Chat broadcasts a text message to every member of the sender's current
// room, the sender included, so all UIs render through the same path.
// Unjoined senders are dropped silently.
func (r *Relay) Chat(from domain.ConnID, text string) {
	name, audience, ok := r.m.RoomAudience(from)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("from", string(from)).Msg("chat from unjoined conn, dropped")
		return
	}
	evt := chatEvent{Type: EvtChat, Name: name, Text: text}
	for _, sig := range audience {
		send(sig, evt)
	}
}
