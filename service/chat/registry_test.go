package chat

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(connID, userID string) *Client {
	return NewClient(connID, userID, nil, 8)
}

func TestRegistry_SnapshotTracksLiveUsers(t *testing.T) {
	r := NewRegistry()

	r.Register(newTestClient("c1", "u1"))
	require.Equal(t, []string{"u1"}, r.Snapshot())

	// second connection for the same user must not duplicate presence
	r.Register(newTestClient("c2", "u1"))
	require.Equal(t, []string{"u1"}, r.Snapshot())

	r.Register(newTestClient("c3", "u2"))
	require.Equal(t, []string{"u1", "u2"}, r.Snapshot())

	// dropping one of two connections keeps the user online
	r.Unregister("c1")
	require.Equal(t, []string{"u1", "u2"}, r.Snapshot())

	// dropping the last connection removes the user
	r.Unregister("c2")
	require.Equal(t, []string{"u2"}, r.Snapshot())
}

func TestRegistry_AnonymousConnectionsNeverInPresence(t *testing.T) {
	r := NewRegistry()
	r.Register(newTestClient("c1", ""))
	require.Empty(t, r.Snapshot())
	require.Len(t, r.All(), 1)
}

func TestRegistry_DuplicateConnIDLastWriteWins(t *testing.T) {
	r := NewRegistry()
	old := newTestClient("c1", "u1")
	require.Nil(t, r.Register(old))

	// reconnect race: same conn id, new binding; the stale client comes back
	// so the caller can purge its room memberships and release its writer
	displaced := r.Register(newTestClient("c1", "u2"))
	require.Same(t, old, displaced)

	require.Equal(t, []string{"u2"}, r.Snapshot())
	require.Empty(t, r.Lookup("u1"))
	require.Len(t, r.Lookup("u2"), 1)

	// re-registering the very same client is not a displacement
	c := newTestClient("c2", "u3")
	require.Nil(t, r.Register(c))
	require.Nil(t, r.Register(c))
}

func TestRegistry_UnregisterUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	require.Nil(t, r.Unregister("nope"))
	require.Empty(t, r.Snapshot())
}

// Randomized register/unregister sequences: the snapshot must always equal
// the exact set of users with at least one live connection.
func TestRegistry_FuzzSnapshotMatchesModel(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := NewRegistry()
	model := make(map[string]string) // conn -> user

	for i := 0; i < 5000; i++ {
		connID := fmt.Sprintf("c%d", rng.Intn(50))
		userID := fmt.Sprintf("u%d", rng.Intn(10))
		if rng.Intn(2) == 0 {
			r.Register(newTestClient(connID, userID))
			model[connID] = userID
		} else {
			r.Unregister(connID)
			delete(model, connID)
		}

		want := make(map[string]struct{})
		for _, u := range model {
			want[u] = struct{}{}
		}
		expected := make([]string, 0, len(want))
		for u := range want {
			expected = append(expected, u)
		}
		sort.Strings(expected)
		require.Equal(t, expected, r.Snapshot(), "step %d", i)
	}
}

func TestRegistry_LookupReturnsAllConnections(t *testing.T) {
	r := NewRegistry()
	r.Register(newTestClient("c1", "u1"))
	r.Register(newTestClient("c2", "u1"))

	conns := r.Lookup("u1")
	require.Len(t, conns, 2)
	require.Empty(t, r.Lookup("ghost"))
}
