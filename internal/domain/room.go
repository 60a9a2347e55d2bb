package domain

import "time"

const (
	DefaultRoomLimit = 4
	DefaultLanguage  = "Other"
	DefaultLevel     = "Any"

	MaxTopicLen = 128
)

// RoomAttrs are the optional tags attached to a room at creation.
type RoomAttrs struct {
	Language string `json:"language"`
	Level    string `json:"level"`
	Limit    int    `json:"limit"`
}

// Normalize fills in defaults for unset attributes.
func (a RoomAttrs) Normalize() RoomAttrs {
	if a.Language == "" {
		a.Language = DefaultLanguage
	}
	if a.Level == "" {
		a.Level = DefaultLevel
	}
	if a.Limit <= 0 {
		a.Limit = DefaultRoomLimit
	}
	return a
}

// Room is the immutable metadata of a chat/voice session. Membership lives
// in the store, not here.
type Room struct {
	ID        RoomID    `json:"id"`
	Topic     string    `json:"topic"`
	Attrs     RoomAttrs `json:"attrs"`
	CreatedAt time.Time `json:"createdAt"`
}
