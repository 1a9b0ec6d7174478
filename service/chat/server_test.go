package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recvFrame drains one payload from a client's send queue, or fails.
func recvFrame(t *testing.T, c *Client) *Frame {
	t.Helper()
	select {
	case raw := <-c.Send:
		f, err := ParseFrame(raw)
		require.NoError(t, err)
		return f
	case <-time.After(2 * time.Second):
		t.Fatalf("conn %s: expected a frame, got none", c.ConnID)
		return nil
	}
}

// expectSilence asserts nothing lands on the client's send queue.
func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.Send:
		t.Fatalf("conn %s: expected silence, got %s", c.ConnID, raw)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestServer_DeliverDirectReachesEveryConnectionOfRecipient(t *testing.T) {
	s := NewServer()
	defer s.Close()

	phone := newTestClient("c1", "u2")
	laptop := newTestClient("c2", "u2")
	other := newTestClient("c3", "u3")
	s.Registry().Register(phone)
	s.Registry().Register(laptop)
	s.Registry().Register(other)

	s.DeliverDirect("u2", map[string]string{"text": "hey"})

	for _, c := range []*Client{phone, laptop} {
		f := recvFrame(t, c)
		require.Equal(t, EventNewMessage, f.Event)
	}
	expectSilence(t, other)
}

func TestServer_DeliverDirectToOfflineUserIsDropped(t *testing.T) {
	s := NewServer()
	defer s.Close()

	bystander := newTestClient("c1", "u1")
	s.Registry().Register(bystander)

	s.DeliverDirect("offline-user", map[string]string{"text": "hey"})
	expectSilence(t, bystander)
}

func TestServer_BroadcastGroupHitsMembersOnly(t *testing.T) {
	s := NewServer()
	defer s.Close()

	a := newTestClient("c1", "u1")
	b := newTestClient("c2", "u2")
	outsider := newTestClient("c3", "u3")
	for _, c := range []*Client{a, b, outsider} {
		s.Registry().Register(c)
	}
	s.Rooms().Join(a, "g1")
	s.Rooms().Join(b, "g1")

	env := GroupEnvelope{RoomID: "g1", Text: "hi", SenderID: "u1", CreatedAt: time.Now().UTC()}
	s.BroadcastGroup(env)

	// sender's own connection gets the message too
	for _, c := range []*Client{a, b} {
		f := recvFrame(t, c)
		require.Equal(t, EventGroupMessage, f.Event)

		var got GroupEnvelope
		require.NoError(t, json.Unmarshal(f.Data, &got))
		require.Equal(t, "g1", got.RoomID)
		require.Equal(t, "hi", got.Text)
		require.Equal(t, "u1", got.SenderID)
	}
	expectSilence(t, outsider)
}

func TestServer_BroadcastGroupValidation(t *testing.T) {
	s := NewServer()
	defer s.Close()

	a := newTestClient("c1", "u1")
	s.Registry().Register(a)
	s.Rooms().Join(a, "g1")

	// no room id
	s.BroadcastGroup(GroupEnvelope{Text: "hi", SenderID: "u1"})
	// neither text nor image
	s.BroadcastGroup(GroupEnvelope{RoomID: "g1", SenderID: "u1"})
	// room nobody joined
	s.BroadcastGroup(GroupEnvelope{RoomID: "g1176", Text: "hi", SenderID: "u1"})

	expectSilence(t, a)

	// image-only messages are valid
	s.BroadcastGroup(GroupEnvelope{RoomID: "g1", Image: "https://cdn/x.png", SenderID: "u1"})
	f := recvFrame(t, a)
	require.Equal(t, EventGroupMessage, f.Event)
}

func TestServer_PropagateDeleteDirect(t *testing.T) {
	s := NewServer()
	defer s.Close()

	sender := newTestClient("c1", "u1")
	receiver := newTestClient("c2", "u2")
	other := newTestClient("c3", "u3")
	for _, c := range []*Client{sender, receiver, other} {
		s.Registry().Register(c)
	}

	s.PropagateDelete("m42", "u1", "u2", "")

	for _, c := range []*Client{sender, receiver} {
		f := recvFrame(t, c)
		require.Equal(t, EventMessageDeleted, f.Event)

		var notice DeleteNotice
		require.NoError(t, json.Unmarshal(f.Data, &notice))
		require.Equal(t, "m42", notice.MessageID)
	}
	expectSilence(t, other)
}

func TestServer_PropagateDeleteSelfDMNotifiesOnce(t *testing.T) {
	s := NewServer()
	defer s.Close()

	// note-to-self conversation: sender and receiver are the same user
	me := newTestClient("c1", "u1")
	s.Registry().Register(me)

	s.PropagateDelete("m42", "u1", "u1", "")

	f := recvFrame(t, me)
	require.Equal(t, EventMessageDeleted, f.Event)
	expectSilence(t, me)
}

func TestServer_PropagateDeleteGroupTargetsCurrentMembers(t *testing.T) {
	s := NewServer()
	defer s.Close()

	a := newTestClient("c1", "u1")
	b := newTestClient("c2", "u2")
	gone := newTestClient("c3", "u3")
	for _, c := range []*Client{a, b, gone} {
		s.Registry().Register(c)
	}
	s.Rooms().Join(a, "g1")
	s.Rooms().Join(b, "g1")

	s.PropagateDelete("m42", "u1", "", "g1")

	for _, c := range []*Client{a, b} {
		f := recvFrame(t, c)
		require.Equal(t, EventMessageDeleted, f.Event)
	}
	expectSilence(t, gone)
}

func TestFanout_SlowClientIsSkippedNotBlocked(t *testing.T) {
	s := NewServer()
	defer s.Close()

	slow := NewClient("c1", "u1", nil, 1)
	fast := newTestClient("c2", "u2")
	s.Registry().Register(slow)
	s.Registry().Register(fast)
	s.Rooms().Join(slow, "g1")
	s.Rooms().Join(fast, "g1")

	// fill the slow client's queue, then broadcast twice more; the
	// fan-out worker must keep serving the fast client
	s.BroadcastGroup(GroupEnvelope{RoomID: "g1", Text: "1", SenderID: "u2"})
	recvFrame(t, fast)
	s.BroadcastGroup(GroupEnvelope{RoomID: "g1", Text: "2", SenderID: "u2"})
	recvFrame(t, fast)
	s.BroadcastGroup(GroupEnvelope{RoomID: "g1", Text: "3", SenderID: "u2"})
	recvFrame(t, fast)

	// slow holds exactly its buffered frame; the overflow was dropped
	f := recvFrame(t, slow)
	require.Equal(t, EventGroupMessage, f.Event)
}

func TestFanout_PreservesBroadcastOrder(t *testing.T) {
	s := NewServer()
	defer s.Close()

	c := newTestClient("c1", "u1")
	s.Registry().Register(c)
	s.Rooms().Join(c, "g1")

	for i := 0; i < 50; i++ {
		s.BroadcastGroup(GroupEnvelope{RoomID: "g1", Text: string(rune('a' + i%26)), SenderID: "u1", CreatedAt: time.Unix(int64(i), 0)})
	}
	for i := 0; i < 50; i++ {
		f := recvFrame(t, c)
		var got GroupEnvelope
		require.NoError(t, json.Unmarshal(f.Data, &got))
		require.Equal(t, int64(i), got.CreatedAt.Unix(), "frame %d out of order", i)
	}
}

func TestPresence_PublishBroadcastsFullSnapshot(t *testing.T) {
	s := NewServer()
	defer s.Close()

	a := newTestClient("c1", "u1")
	b := newTestClient("c2", "u2")
	s.Registry().Register(a)
	s.Registry().Register(b)

	s.Presence().Publish()

	for _, c := range []*Client{a, b} {
		f := recvFrame(t, c)
		require.Equal(t, EventOnlineUsers, f.Event)

		var users []string
		require.NoError(t, json.Unmarshal(f.Data, &users))
		require.Equal(t, []string{"u1", "u2"}, users)
	}
}
