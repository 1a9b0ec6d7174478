package chat

import (
	"sort"
	"sync"
)

// Registry maps connection IDs to clients and user IDs to their live
// connection set. It is the single source of truth for presence: a user is
// online exactly while it owns at least one registered connection.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]*Client            // conn_id -> client
	byUser map[string]map[string]*Client // user -> conn_id -> client
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*Client),
		byUser: make(map[string]map[string]*Client),
	}
}

// Register binds a connection. Re-registering the same conn ID overwrites
// the previous binding (last write wins, tolerates reconnect races) and
// returns the displaced client so the caller can tear it down fully; nil
// when the conn ID was fresh. Anonymous clients are indexed by connection
// only.
func (r *Registry) Register(c *Client) *Client {
	if c == nil || c.ConnID == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var displaced *Client
	if prev, ok := r.byConn[c.ConnID]; ok && prev != c {
		r.dropUserIndexLocked(prev)
		displaced = prev
	}
	r.byConn[c.ConnID] = c

	if c.UserID == "" {
		return displaced
	}
	m := r.byUser[c.UserID]
	if m == nil {
		m = make(map[string]*Client)
		r.byUser[c.UserID] = m
	}
	m[c.ConnID] = c
	return displaced
}

// Unregister removes the binding and returns the removed client.
// Unknown conn IDs are a no-op, not an error.
func (r *Registry) Unregister(connID string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byConn[connID]
	if !ok {
		return nil
	}
	delete(r.byConn, connID)
	r.dropUserIndexLocked(c)
	return c
}

func (r *Registry) dropUserIndexLocked(c *Client) {
	if c.UserID == "" {
		return
	}
	if m := r.byUser[c.UserID]; m != nil {
		delete(m, c.ConnID)
		if len(m) == 0 {
			delete(r.byUser, c.UserID)
		}
	}
}

// Lookup returns the live connections for a user; empty if none.
func (r *Registry) Lookup(userID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.byUser[userID]
	if len(m) == 0 {
		return nil
	}
	out := make([]*Client, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

// GetByConn returns the client for a connection ID, or nil.
func (r *Registry) GetByConn(connID string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byConn[connID]
}

// Snapshot returns the current presence set, sorted for a stable wire order.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byUser))
	for user := range r.byUser {
		out = append(out, user)
	}
	sort.Strings(out)
	return out
}

// All lists every registered connection, anonymous ones included.
func (r *Registry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.byConn))
	for _, c := range r.byConn {
		out = append(out, c)
	}
	return out
}
