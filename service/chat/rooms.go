package chat

import "sync"

// RoomTracker maps a room ID to the connections currently subscribed to it.
// Rooms have no lifecycle of their own: one exists exactly while at least one
// connection has joined it. Membership is per connection, not per user, so
// one tab leaving never evicts another tab's subscription.
type RoomTracker struct {
	mu     sync.RWMutex
	byRoom map[string]map[string]*Client  // room -> conn_id -> client
	byConn map[string]map[string]struct{} // conn_id -> joined rooms
}

func NewRoomTracker() *RoomTracker {
	return &RoomTracker{
		byRoom: make(map[string]map[string]*Client),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Join adds the connection to the room. Idempotent.
func (t *RoomTracker) Join(c *Client, roomID string) {
	if c == nil || roomID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	m := t.byRoom[roomID]
	if m == nil {
		m = make(map[string]*Client)
		t.byRoom[roomID] = m
	}
	m[c.ConnID] = c

	rs := t.byConn[c.ConnID]
	if rs == nil {
		rs = make(map[string]struct{})
		t.byConn[c.ConnID] = rs
	}
	rs[roomID] = struct{}{}
}

// MembersOf returns the room's live connections; empty when nobody joined.
func (t *RoomTracker) MembersOf(roomID string) []*Client {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m := t.byRoom[roomID]
	if len(m) == 0 {
		return nil
	}
	out := make([]*Client, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

// LeaveAll removes the connection from every room it joined. Must run before
// the connection is unregistered so no room transiently holds a dead member
// at the moment presence is announced. Unknown connections are a no-op.
func (t *RoomTracker) LeaveAll(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rooms := t.byConn[connID]
	if rooms == nil {
		return
	}
	for roomID := range rooms {
		if m := t.byRoom[roomID]; m != nil {
			delete(m, connID)
			if len(m) == 0 {
				delete(t.byRoom, roomID)
			}
		}
	}
	delete(t.byConn, connID)
}

// Rooms lists the rooms a connection has joined.
func (t *RoomTracker) Rooms(connID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rs := t.byConn[connID]
	if len(rs) == 0 {
		return nil
	}
	out := make([]string, 0, len(rs))
	for roomID := range rs {
		out = append(out, roomID)
	}
	return out
}
