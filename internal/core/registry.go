package core

import (
	"context"

	"github.com/gauravkharai149-boop/voice-roooom/internal/domain"
)

// Conn is one active transport session and its attributes. Room must
// always equal the member set the connection appears in, or be empty;
// the membership manager keeps the two in step.
type Conn struct {
	ID      domain.ConnID
	Profile domain.Profile
	Room    domain.RoomID // empty while unjoined

	signal SignalConnection
	cancel context.CancelFunc
}

// Signal returns the adapter-owned transport endpoint.
func (c *Conn) Signal() SignalConnection { return c.signal }

// Cancel tears down the connection-scoped context.
func (c *Conn) Cancel() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Registry maps connection ids to their session attributes. It exclusively
// owns Conn entities. Like Store it carries no lock of its own; see the
// package comment.
type Registry struct {
	conns map[domain.ConnID]*Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*Conn)}
}

// Register creates the entry with no room.
func (r *Registry) Register(id domain.ConnID, signal SignalConnection, cancel context.CancelFunc) {
	r.conns[id] = &Conn{ID: id, signal: signal, cancel: cancel}
}

// Unregister removes the entry entirely. The caller must have removed the
// connection from any room first.
func (r *Registry) Unregister(id domain.ConnID) {
	delete(r.conns, id)
}

func (r *Registry) Get(id domain.ConnID) (*Conn, bool) {
	c, ok := r.conns[id]
	return c, ok
}

func (r *Registry) SetProfile(id domain.ConnID, p domain.Profile) {
	if c, ok := r.conns[id]; ok {
		c.Profile = p
	}
}

// All returns every live connection, for global fanout.
func (r *Registry) All() []*Conn {
	out := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}
