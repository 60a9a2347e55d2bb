package domain

import (
	"errors"
	"strings"
)

const MaxNameLen = 64

var (
	ErrNameEmpty   = errors.New("name empty")
	ErrNameTooLong = errors.New("name too long")
)

// Profile is what a member shows to the rest of a room: the display name
// picked at join/create time and an optional opaque avatar reference.
type Profile struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// NewProfile trims the name and validates it; the avatar is carried as-is.
func NewProfile(name, avatar string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return Profile{}, ErrNameTooLong
	}
	return Profile{Name: name, Avatar: avatar}, nil
}
