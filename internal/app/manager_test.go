package app

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gauravkharai149-boop/voice-roooom/internal/core"
	"github.com/gauravkharai149-boop/voice-roooom/internal/domain"
)

// fakeSignal records every frame pushed to a connection.
type fakeSignal struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (f *fakeSignal) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeSignal) Close() {}

// events decodes recorded frames into generic maps.
func (f *fakeSignal) events(t *testing.T) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.frames))
	for _, fr := range f.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(fr, &m))
		out = append(out, m)
	}
	return out
}

func (f *fakeSignal) eventsOfType(t *testing.T, typ string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, m := range f.events(t) {
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSignal) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = nil
}

func connect(m *Manager, id domain.ConnID) *fakeSignal {
	sig := &fakeSignal{}
	m.Connect(id, sig, func() {})
	return sig
}

func TestManager_Connect_PushesInitialRoomList(t *testing.T) {
	req := require.New(t)
	m := NewManager(time.Minute)

	sig := connect(m, "c1")

	updates := sig.eventsOfType(t, EvtRoomsUpdate)
	req.Len(updates, 1)
	req.Empty(updates[0]["rooms"])
}

func TestManager_CreateAndJoin_CreatorIsFirstMember(t *testing.T) {
	req := require.New(t)
	m := NewManager(time.Minute)
	creator := connect(m, "c1")
	watcher := connect(m, "c2")
	creator.reset()
	watcher.reset()

	res, err := m.CreateAndJoin("c1", "Ana", "  Spanish Practice ", domain.RoomAttrs{Limit: 2}, "ava")
	req.NoError(err)
	req.Len(string(res.RoomID), 7)
	req.Equal("Spanish Practice", res.Topic)

	// The room is listed everywhere, creator counted as member
	rooms := m.Rooms()
	req.Len(rooms, 1)
	req.Equal(1, rooms[0].Count)
	req.Equal(2, rooms[0].Limit)

	// Every connected client saw the refresh, not just room members
	req.Len(creator.eventsOfType(t, EvtRoomsUpdate), 1)
	req.Len(watcher.eventsOfType(t, EvtRoomsUpdate), 1)
}

func TestManager_CreateAndJoin_RequiresTopicAndName(t *testing.T) {
	req := require.New(t)
	m := NewManager(time.Minute)
	connect(m, "c1")

	_, err := m.CreateAndJoin("c1", "Ana", "   ", domain.RoomAttrs{}, "")
	req.ErrorIs(err, core.ErrTopicRequired)

	_, err = m.CreateAndJoin("c1", "", "Topic", domain.RoomAttrs{}, "")
	req.ErrorIs(err, core.ErrTopicRequired)

	// Nothing was partially applied
	req.Empty(m.Rooms())
}

func TestManager_Join_ReturnsOthersAndNotifiesRoom(t *testing.T) {
	req := require.New(t)
	m := NewManager(time.Minute)
	creator := connect(m, "c1")
	joiner := connect(m, "c2")

	res, err := m.CreateAndJoin("c1", "Ana", "Spanish Practice", domain.RoomAttrs{Limit: 2}, "ava1")
	req.NoError(err)
	creator.reset()
	joiner.reset()

	// When a second user joins
	jr, err := m.Join("c2", res.RoomID, "Bob", "ava2")
	req.NoError(err)
	req.Equal("Spanish Practice", jr.Topic)

	// Then the join result lists exactly the creator
	req.Len(jr.Others, 1)
	req.Equal(domain.ConnID("c1"), jr.Others[0].ID)
	req.Equal("Ana", jr.Others[0].Name)
	req.Equal("ava1", jr.Others[0].Avatar)

	// And the creator, not the joiner, got member-joined
	joined := creator.eventsOfType(t, EvtMemberJoined)
	req.Len(joined, 1)
	req.Equal("c2", joined[0]["id"])
	req.Equal("Bob", joined[0]["name"])
	req.Empty(joiner.eventsOfType(t, EvtMemberJoined))
}

func TestManager_Join_RoomFull(t *testing.T) {
	req := require.New(t)
	m := NewManager(time.Minute)
	connect(m, "c1")
	connect(m, "c2")
	third := connect(m, "c3")

	res, err := m.CreateAndJoin("c1", "Ana", "Spanish Practice", domain.RoomAttrs{Limit: 2}, "")
	req.NoError(err)
	_, err = m.Join("c2", res.RoomID, "Bob", "")
	req.NoError(err)
	third.reset()

	// The third join is rejected without touching membership
	_, err = m.Join("c3", res.RoomID, "Eve", "")
	req.ErrorIs(err, core.ErrRoomFull)
	req.EqualError(err, "Room is full")

	rooms := m.Rooms()
	req.Len(rooms, 1)
	req.Equal(2, rooms[0].Count)
	_, _, joined := m.RoomAudience("c3")
	req.False(joined)
}

func TestManager_Join_UnknownRoom(t *testing.T) {
	req := require.New(t)
	m := NewManager(time.Minute)
	connect(m, "c1")

	_, err := m.Join("c1", "NOPE123", "Ana", "")

	req.ErrorIs(err, core.ErrRoomNotFound)
	// A failed join never conjures a room into existence
	req.Empty(m.Rooms())
}

func TestManager_Join_RequiresRoomIDAndName(t *testing.T) {
	req := require.New(t)
	m := NewManager(time.Minute)
	connect(m, "c1")

	_, err := m.Join("c1", "", "Ana", "")
	req.ErrorIs(err, core.ErrRoomIDRequired)

	_, err = m.Join("c1", "ABCDEFG", " ", "")
	req.ErrorIs(err, core.ErrRoomIDRequired)
}

func TestManager_Leave_NotifiesRemainderAndRefreshesLists(t *testing.T) {
	req := require.New(t)
	m := NewManager(time.Minute)
	creator := connect(m, "c1")
	joiner := connect(m, "c2")

	res, err := m.CreateAndJoin("c1", "Ana", "Topic", domain.RoomAttrs{}, "")
	req.NoError(err)
	_, err = m.Join("c2", res.RoomID, "Bob", "")
	req.NoError(err)
	creator.reset()
	joiner.reset()

	m.Leave("c2")

	left := creator.eventsOfType(t, EvtMemberLeft)
	req.Len(left, 1)
	req.Equal("c2", left[0]["id"])
	req.Equal("Bob", left[0]["name"])

	rooms := m.Rooms()
	req.Len(rooms, 1)
	req.Equal(1, rooms[0].Count)

	// Leaving again is a no-op
	creator.reset()
	m.Leave("c2")
	req.Empty(creator.eventsOfType(t, EvtMemberLeft))
}

func TestManager_SoleMemberLeave_RoomUnlistedThenDeletedAfterGrace(t *testing.T) {
	req := require.New(t)
	m := NewManager(20 * time.Millisecond)
	sole := connect(m, "c1")
	connect(m, "c2")

	res, err := m.CreateAndJoin("c1", "Ana", "Topic", domain.RoomAttrs{}, "")
	req.NoError(err)
	sole.reset()

	m.Leave("c1")

	// Unlisted immediately
	updates := sole.eventsOfType(t, EvtRoomsUpdate)
	req.NotEmpty(updates)
	req.Empty(updates[len(updates)-1]["rooms"])

	// Still present internally during the grace window
	_, err = m.Join("c2", res.RoomID, "Bob", "")
	req.NoError(err)
	m.Leave("c2")

	// After the grace delay with no rejoin the entry is gone for good
	time.Sleep(80 * time.Millisecond)
	_, err = m.Join("c2", res.RoomID, "Bob", "")
	req.ErrorIs(err, core.ErrRoomNotFound)
}

func TestManager_RejoinDuringGraceCancelsDeletion(t *testing.T) {
	req := require.New(t)
	m := NewManager(30 * time.Millisecond)
	connect(m, "c1")
	connect(m, "c2")

	res, err := m.CreateAndJoin("c1", "Ana", "Topic", domain.RoomAttrs{}, "")
	req.NoError(err)
	m.Leave("c1")

	// A rejoin during the grace period makes the timer's re-check observe
	// nonzero membership
	_, err = m.Join("c2", res.RoomID, "Bob", "")
	req.NoError(err)

	time.Sleep(90 * time.Millisecond)
	rooms := m.Rooms()
	req.Len(rooms, 1)
	req.Equal(res.RoomID, rooms[0].ID)
	req.Equal(1, rooms[0].Count)
}

func TestManager_JoinWhileJoined_MovesRooms(t *testing.T) {
	req := require.New(t)
	m := NewManager(time.Minute)
	first := connect(m, "c1")
	connect(m, "c2")
	connect(m, "c3")

	a, err := m.CreateAndJoin("c1", "Ana", "Room A", domain.RoomAttrs{}, "")
	req.NoError(err)
	b, err := m.CreateAndJoin("c2", "Bob", "Room B", domain.RoomAttrs{}, "")
	req.NoError(err)
	_, err = m.Join("c3", a.RoomID, "Eve", "")
	req.NoError(err)
	first.reset()

	// When a joined connection joins a different room
	jr, err := m.Join("c3", b.RoomID, "Eve", "")
	req.NoError(err)
	req.Equal("Room B", jr.Topic)

	// Then it left the old room first
	left := first.eventsOfType(t, EvtMemberLeft)
	req.Len(left, 1)
	req.Equal("c3", left[0]["id"])

	for _, room := range m.Rooms() {
		if room.ID == a.RoomID {
			req.Equal(1, room.Count)
		}
		if room.ID == b.RoomID {
			req.Equal(2, room.Count)
		}
	}
}

func TestManager_Disconnect_TearsDownEverything(t *testing.T) {
	req := require.New(t)
	m := NewManager(time.Minute)
	sig := &fakeSignal{}
	canceled := false
	m.Connect("c1", sig, func() { canceled = true })

	_, err := m.CreateAndJoin("c1", "Ana", "Topic", domain.RoomAttrs{}, "")
	req.NoError(err)

	m.Disconnect("c1")

	req.True(canceled)
	_, ok := m.SignalOf("c1")
	req.False(ok)
	req.Empty(m.Rooms())

	// Disconnecting an unknown connection is harmless
	m.Disconnect("c1")
}

func TestManager_MembershipStaysConsistentAcrossOps(t *testing.T) {
	req := require.New(t)
	m := NewManager(time.Minute)
	ids := []domain.ConnID{"c1", "c2", "c3", "c4"}
	for _, id := range ids {
		connect(m, id)
	}

	a, err := m.CreateAndJoin("c1", "Ana", "A", domain.RoomAttrs{Limit: 3}, "")
	req.NoError(err)
	_, err = m.Join("c2", a.RoomID, "Bob", "")
	req.NoError(err)
	_, err = m.Join("c3", a.RoomID, "Eve", "")
	req.NoError(err)
	m.Leave("c2")
	_, err = m.Join("c4", a.RoomID, "Dan", "")
	req.NoError(err)
	m.Disconnect("c3")

	// At every point the member count must equal the number of
	// connections whose current room is this room.
	joined := 0
	for _, id := range ids {
		if _, _, ok := m.RoomAudience(id); ok {
			joined++
		}
	}
	rooms := m.Rooms()
	req.Len(rooms, 1)
	req.Equal(joined, rooms[0].Count)
	req.Equal(2, rooms[0].Count)
}
