package core

// Frame is a raw encoded payload bound for one connection.
type Frame []byte

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend must not block; it fails when the peer's buffer is full
	// or the connection is closed.
	TrySend(Frame) error
	Close()
}
