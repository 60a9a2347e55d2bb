// Package app holds the membership manager and the relay router: every
// mutation of room and connection state, and every routing decision over
// it, goes through here.
package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/gauravkharai149-boop/voice-roooom/internal/core"
	"github.com/gauravkharai149-boop/voice-roooom/internal/domain"
)

// Outbound event types pushed to clients.
const (
	EvtRoomsUpdate  = "rooms-update"
	EvtMemberJoined = "member-joined"
	EvtMemberLeft   = "member-left"
	EvtOffer        = "offer"
	EvtAnswer       = "answer"
	EvtCandidate    = "candidate"
	EvtChat         = "chat"
)

type roomsUpdateEvent struct {
	Type  string              `json:"type"`
	Rooms []core.RoomSnapshot `json:"rooms"`
}

type memberJoinedEvent struct {
	Type   string        `json:"type"`
	ID     domain.ConnID `json:"id"`
	Name   string        `json:"name"`
	Avatar string        `json:"avatar,omitempty"`
}

type memberLeftEvent struct {
	Type string        `json:"type"`
	ID   domain.ConnID `json:"id"`
	Name string        `json:"name"`
}

type handshakeEvent struct {
	Type    string          `json:"type"`
	FromID  domain.ConnID   `json:"fromId"`
	Payload json.RawMessage `json:"payload"`
}

type chatEvent struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// send marshals v and hands it to the connection without blocking. Delivery
// is best-effort: a full buffer or closed peer drops the frame.
func send(sig core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app").Msg("event marshal")
		return
	}
	if err := sig.TrySend(core.Frame(b)); err != nil {
		log.Debug().Err(err).Str("module", "app").Msg("event dropped")
	}
}
