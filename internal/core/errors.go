package core

import "errors"

// Caller-facing failures. The adapter maps these onto {ok:false, error}
// acks; the reason strings are part of the wire contract.
var (
	ErrTopicRequired  = errors.New("Topic and name are required")
	ErrRoomIDRequired = errors.New("Room ID and name are required")
	ErrRoomNotFound   = errors.New("Room not found")
	ErrRoomFull       = errors.New("Room is full")
)
