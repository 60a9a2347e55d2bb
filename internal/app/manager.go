package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gauravkharai149-boop/voice-roooom/internal/core"
	"github.com/gauravkharai149-boop/voice-roooom/internal/domain"
)

// DefaultGrace is how long an emptied room survives before deletion, so a
// user mid-refresh can come back to it.
const DefaultGrace = 5 * time.Second

var errNotConnected = errors.New("connection not registered")

// CreateResult acknowledges a successful create-room.
type CreateResult struct {
	RoomID domain.RoomID
	Topic  string
}

// JoinResult acknowledges a successful join: the topic plus the other
// current members, so the caller can dial a peer connection to each.
type JoinResult struct {
	Topic  string
	Others []core.Member
}

// Manager is the only writer that touches the room store and the
// connection registry together. A single RWMutex serializes both, and
// membership notifications go out inside the critical section so members
// of one room observe changes in the order they were applied.
type Manager struct {
	mu       sync.RWMutex
	store    *core.Store
	registry *core.Registry
	grace    time.Duration
}

func NewManager(grace time.Duration) *Manager {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Manager{
		store:    core.NewStore(),
		registry: core.NewRegistry(),
		grace:    grace,
	}
}

// Connect registers a new transport session and pushes the current room
// list to it.
func (m *Manager) Connect(id domain.ConnID, sig core.SignalConnection, cancel context.CancelFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry.Register(id, sig, cancel)
	send(sig, roomsUpdateEvent{Type: EvtRoomsUpdate, Rooms: m.store.Snapshots()})
	log.Info().Str("module", "app.manager").Str("conn", string(id)).Msg("connected")
}

// CreateAndJoin creates a room and puts the caller in it as first member.
// The creator implicitly joins; there is no separate join step.
func (m *Manager) CreateAndJoin(id domain.ConnID, name, topic string, attrs domain.RoomAttrs, avatar string) (CreateResult, error) {
	if strings.TrimSpace(topic) == "" || strings.TrimSpace(name) == "" {
		return CreateResult{}, core.ErrTopicRequired
	}
	profile, err := domain.NewProfile(name, avatar)
	if err != nil {
		return CreateResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.registry.Get(id)
	if !ok {
		return CreateResult{}, errNotConnected
	}
	// No Joined -> Joined transition: leave the old room first.
	if conn.Room != "" {
		m.leaveLocked(conn)
	}

	room, err := m.store.Create(topic, attrs)
	if err != nil {
		return CreateResult{}, err
	}
	room.AddMember(id, profile)
	conn.Profile = profile
	conn.Room = room.Meta.ID

	m.broadcastRoomsLocked()
	log.Info().Str("module", "app.manager").
		Str("conn", string(id)).Str("room", string(room.Meta.ID)).
		Str("topic", room.Meta.Topic).Msg("room created")
	return CreateResult{RoomID: room.Meta.ID, Topic: room.Meta.Topic}, nil
}

// Join adds the caller to an existing room. On success the other members
// are notified and the returned JoinResult lists them.
func (m *Manager) Join(id domain.ConnID, roomID domain.RoomID, name, avatar string) (JoinResult, error) {
	if roomID == "" || strings.TrimSpace(name) == "" {
		return JoinResult{}, core.ErrRoomIDRequired
	}
	profile, err := domain.NewProfile(name, avatar)
	if err != nil {
		return JoinResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.registry.Get(id)
	if !ok {
		return JoinResult{}, errNotConnected
	}
	room, ok := m.store.Get(roomID)
	if !ok {
		return JoinResult{}, core.ErrRoomNotFound
	}
	if room.Full() {
		return JoinResult{}, core.ErrRoomFull
	}
	// No Joined -> Joined transition: leave the old room first. Rooms are
	// only deleted by the cleanup timer, so the target stays valid.
	if conn.Room != "" {
		m.leaveLocked(conn)
	}

	others := room.Members(id)
	room.AddMember(id, profile)
	conn.Profile = profile
	conn.Room = roomID

	joined := memberJoinedEvent{Type: EvtMemberJoined, ID: id, Name: profile.Name, Avatar: profile.Avatar}
	for _, other := range others {
		if peer, ok := m.registry.Get(other.ID); ok {
			send(peer.Signal(), joined)
		}
	}
	m.broadcastRoomsLocked()
	log.Info().Str("module", "app.manager").
		Str("conn", string(id)).Str("room", string(roomID)).Msg("joined room")
	return JoinResult{Topic: room.Meta.Topic, Others: others}, nil
}

// Leave removes the caller from its current room, if any. Idempotent.
func (m *Manager) Leave(id domain.ConnID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conn, ok := m.registry.Get(id); ok {
		m.leaveLocked(conn)
	}
}

// Disconnect is Leave plus full teardown of the registry entry.
func (m *Manager) Disconnect(id domain.ConnID) {
	m.mu.Lock()
	conn, ok := m.registry.Get(id)
	if ok {
		m.leaveLocked(conn)
		m.registry.Unregister(id)
	}
	m.mu.Unlock()
	if ok {
		conn.Cancel()
		log.Info().Str("module", "app.manager").Str("conn", string(id)).Msg("disconnected")
	}
}

// leaveLocked runs the shared leave path: drop membership, notify the rest
// of the room, refresh room lists, and arm cleanup if the room emptied.
func (m *Manager) leaveLocked(conn *core.Conn) {
	if conn.Room == "" {
		return
	}
	roomID := conn.Room
	conn.Room = ""
	room, ok := m.store.Get(roomID)
	if !ok {
		return
	}
	room.RemoveMember(conn.ID)

	left := memberLeftEvent{Type: EvtMemberLeft, ID: conn.ID, Name: conn.Profile.Name}
	for _, peerID := range room.MemberIDs(conn.ID) {
		if peer, ok := m.registry.Get(peerID); ok {
			send(peer.Signal(), left)
		}
	}
	m.broadcastRoomsLocked()
	log.Info().Str("module", "app.manager").
		Str("conn", string(conn.ID)).Str("room", string(roomID)).Msg("left room")

	if room.MemberCount() == 0 {
		m.scheduleCleanup(roomID)
	}
}

// scheduleCleanup arms the delayed deletion of an emptied room. The timer
// re-checks live membership at fire time, so a rejoin during the grace
// period cancels the deletion implicitly, and overlapping timers for the
// same room cannot double-delete.
func (m *Manager) scheduleCleanup(roomID domain.RoomID) {
	log.Debug().Str("module", "app.manager").Str("room", string(roomID)).
		Dur("grace", m.grace).Msg("room empty, cleanup scheduled")
	time.AfterFunc(m.grace, func() {
		m.mu.Lock()
		deleted := m.store.Delete(roomID)
		if deleted {
			m.broadcastRoomsLocked()
		}
		m.mu.Unlock()
		if deleted {
			log.Info().Str("module", "app.manager").Str("room", string(roomID)).Msg("empty room deleted")
		}
	})
}

func (m *Manager) broadcastRoomsLocked() {
	evt := roomsUpdateEvent{Type: EvtRoomsUpdate, Rooms: m.store.Snapshots()}
	for _, conn := range m.registry.All() {
		send(conn.Signal(), evt)
	}
}

// Rooms returns the current listing snapshot.
func (m *Manager) Rooms() []core.RoomSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Snapshots()
}

// SignalOf resolves a connection id to its transport endpoint.
func (m *Manager) SignalOf(id domain.ConnID) (core.SignalConnection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.registry.Get(id)
	if !ok {
		return nil, false
	}
	return conn.Signal(), true
}

// RoomAudience returns the sender's display name and the transport
// endpoints of every member of its current room, the sender included.
func (m *Manager) RoomAudience(id domain.ConnID) (string, []core.SignalConnection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.registry.Get(id)
	if !ok || conn.Room == "" {
		return "", nil, false
	}
	room, ok := m.store.Get(conn.Room)
	if !ok {
		return "", nil, false
	}
	sigs := make([]core.SignalConnection, 0, room.MemberCount())
	for _, peerID := range room.MemberIDs("") {
		if peer, ok := m.registry.Get(peerID); ok {
			sigs = append(sigs, peer.Signal())
		}
	}
	return conn.Profile.Name, sigs, true
}
