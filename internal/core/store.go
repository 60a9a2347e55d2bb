// Package core owns the in-memory room and connection state. None of it is
// self-synchronizing: the membership manager in internal/app is the single
// mutual-exclusion domain for every read and write, because a join and a
// concurrent disconnect on the same room must never interleave.
package core

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/gauravkharai149-boop/voice-roooom/internal/domain"
)

// maxIDAttempts bounds collision retries on room creation. With a 36^7 id
// space this is never reached in practice.
const maxIDAttempts = 16

var errIDSpaceExhausted = errors.New("could not generate unique room id")

// Member is a read-only view of one room member for APIs.
type Member struct {
	ID     domain.ConnID `json:"id"`
	Name   string        `json:"name"`
	Avatar string        `json:"avatar,omitempty"`
}

// RoomSnapshot is the listing projection of a room: derived on demand,
// never stored.
type RoomSnapshot struct {
	ID       domain.RoomID `json:"id"`
	Topic    string        `json:"topic"`
	Language string        `json:"language"`
	Level    string        `json:"level"`
	Limit    int           `json:"limit"`
	Count    int           `json:"participantCount"`
	Avatars  []string      `json:"avatars"`
}

// RoomState pairs immutable room metadata with the live member set. The
// profile of each member is captured at join time.
type RoomState struct {
	Meta    domain.Room
	members map[domain.ConnID]domain.Profile
}

func (r *RoomState) MemberCount() int { return len(r.members) }

func (r *RoomState) Full() bool { return len(r.members) >= r.Meta.Attrs.Limit }

func (r *RoomState) AddMember(id domain.ConnID, p domain.Profile) {
	r.members[id] = p
}

func (r *RoomState) RemoveMember(id domain.ConnID) {
	delete(r.members, id)
}

func (r *RoomState) HasMember(id domain.ConnID) bool {
	_, ok := r.members[id]
	return ok
}

// Members returns the member views, excluding the given connection.
// Ordered by id so callers see a stable listing.
func (r *RoomState) Members(exclude domain.ConnID) []Member {
	out := make([]Member, 0, len(r.members))
	for id, p := range r.members {
		if id == exclude {
			continue
		}
		out = append(out, Member{ID: id, Name: p.Name, Avatar: p.Avatar})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MemberIDs returns the ids of all members except the given one.
func (r *RoomState) MemberIDs(exclude domain.ConnID) []domain.ConnID {
	out := make([]domain.ConnID, 0, len(r.members))
	for id := range r.members {
		if id == exclude {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (r *RoomState) snapshot() RoomSnapshot {
	snap := RoomSnapshot{
		ID:       r.Meta.ID,
		Topic:    r.Meta.Topic,
		Language: r.Meta.Attrs.Language,
		Level:    r.Meta.Attrs.Level,
		Limit:    r.Meta.Attrs.Limit,
		Count:    len(r.members),
		Avatars:  make([]string, 0, 3),
	}
	for _, m := range r.Members("") {
		if len(snap.Avatars) == 3 {
			break
		}
		if m.Avatar != "" {
			snap.Avatars = append(snap.Avatars, m.Avatar)
		}
	}
	return snap
}

// Store maps room ids to room state. It exclusively owns Room entities.
type Store struct {
	rooms map[domain.RoomID]*RoomState

	// genID is swappable in tests to force collisions.
	genID func() string
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[domain.RoomID]*RoomState),
		genID: newRoomID,
		now:   time.Now,
	}
}

// Create inserts a new empty room. The topic is trimmed and required; ids
// are regenerated on collision so an existing room is never overwritten.
func (s *Store) Create(topic string, attrs domain.RoomAttrs) (*RoomState, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrTopicRequired
	}
	if len(topic) > domain.MaxTopicLen {
		topic = topic[:domain.MaxTopicLen]
	}

	var id domain.RoomID
	for i := 0; ; i++ {
		if i == maxIDAttempts {
			return nil, errIDSpaceExhausted
		}
		id = domain.RoomID(s.genID())
		if _, taken := s.rooms[id]; !taken {
			break
		}
	}

	room := &RoomState{
		Meta: domain.Room{
			ID:        id,
			Topic:     topic,
			Attrs:     attrs.Normalize(),
			CreatedAt: s.now(),
		},
		members: make(map[domain.ConnID]domain.Profile),
	}
	s.rooms[id] = room
	return room, nil
}

func (s *Store) Get(id domain.RoomID) (*RoomState, bool) {
	room, ok := s.rooms[id]
	return room, ok
}

// Delete removes the room only if it is still empty, guarding against a
// cleanup timer racing a just-completed join.
func (s *Store) Delete(id domain.RoomID) bool {
	room, ok := s.rooms[id]
	if !ok || room.MemberCount() > 0 {
		return false
	}
	delete(s.rooms, id)
	return true
}

// Snapshots lists rooms with at least one member, ordered by creation time
// (id as tie-break) so one broadcast is reproducible.
func (s *Store) Snapshots() []RoomSnapshot {
	states := make([]*RoomState, 0, len(s.rooms))
	for _, room := range s.rooms {
		if room.MemberCount() > 0 {
			states = append(states, room)
		}
	}
	sort.Slice(states, func(i, j int) bool {
		a, b := states[i].Meta, states[j].Meta
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	out := make([]RoomSnapshot, len(states))
	for i, room := range states {
		out[i] = room.snapshot()
	}
	return out
}
