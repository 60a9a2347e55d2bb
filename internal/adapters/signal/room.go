package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/gauravkharai149-boop/voice-roooom/internal/core"
	"github.com/gauravkharai149-boop/voice-roooom/internal/domain"
)

// Acks sent to the caller only; every push to other members goes through
// the manager/relay.
type createRoomAck struct {
	Type   string        `json:"type"`
	OK     bool          `json:"ok"`
	RoomID domain.RoomID `json:"roomId,omitempty"`
	Topic  string        `json:"topic,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type joinRoomAck struct {
	Type    string        `json:"type"`
	OK      bool          `json:"ok"`
	Topic   string        `json:"topic,omitempty"`
	Members []core.Member `json:"members,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func (ctl *Controller) handleListRooms(sig core.SignalConnection) {
	ctl.sendJSON(sig, struct {
		Type  string              `json:"type"`
		Rooms []core.RoomSnapshot `json:"rooms"`
	}{
		Type:  "rooms-update",
		Rooms: ctl.Manager.Rooms(),
	})
}

func (ctl *Controller) handleCreateRoom(sid domain.ConnID, sig core.SignalConnection, data []byte) {
	var p struct {
		Type     string `json:"type"`
		Topic    string `json:"topic"`
		Name     string `json:"name"`
		Language string `json:"language,omitempty"`
		Level    string `json:"level,omitempty"`
		Limit    int    `json:"limit,omitempty"`
		Avatar   string `json:"avatar,omitempty"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad create-room payload")
		ctl.sendJSON(sig, createRoomAck{Type: "room-created", Error: "Failed to create room"})
		return
	}

	attrs := domain.RoomAttrs{Language: p.Language, Level: p.Level, Limit: p.Limit}
	res, err := ctl.Manager.CreateAndJoin(sid, p.Name, p.Topic, attrs, p.Avatar)
	if err != nil {
		ctl.sendJSON(sig, createRoomAck{Type: "room-created", Error: err.Error()})
		return
	}
	ctl.sendJSON(sig, createRoomAck{
		Type:   "room-created",
		OK:     true,
		RoomID: res.RoomID,
		Topic:  res.Topic,
	})
}

func (ctl *Controller) handleJoinRoom(sid domain.ConnID, sig core.SignalConnection, data []byte) {
	var p struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		Name   string `json:"name"`
		Avatar string `json:"avatar,omitempty"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join-room payload")
		ctl.sendJSON(sig, joinRoomAck{Type: "room-joined", Error: "Failed to join room"})
		return
	}

	res, err := ctl.Manager.Join(sid, domain.RoomID(p.RoomID), p.Name, p.Avatar)
	if err != nil {
		log.Info().Err(err).Str("module", "signal").
			Str("sid", string(sid)).Str("room", p.RoomID).Msg("join rejected")
		ctl.sendJSON(sig, joinRoomAck{Type: "room-joined", Error: err.Error()})
		return
	}
	ctl.sendJSON(sig, joinRoomAck{
		Type:    "room-joined",
		OK:      true,
		Topic:   res.Topic,
		Members: res.Others,
	})
}

func (ctl *Controller) handleLeaveRoom(sid domain.ConnID) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	ctl.Manager.Leave(sid)
}
