package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame([]byte(`{"event":"joinRoom","data":"g1"}`))
	require.NoError(t, err)
	require.Equal(t, EventJoinRoom, f.Event)
	require.JSONEq(t, `"g1"`, string(f.Data))

	// data is optional
	f, err = ParseFrame([]byte(`{"event":"ping"}`))
	require.NoError(t, err)
	require.Equal(t, "ping", f.Event)

	_, err = ParseFrame([]byte(`{not json`))
	require.Error(t, err)

	_, err = ParseFrame([]byte(`{"data":"g1"}`))
	require.Error(t, err)
}

func TestDecodeRoomID(t *testing.T) {
	require.Equal(t, "g1", DecodeRoomID(json.RawMessage(`"g1"`)))
	require.Equal(t, "g1", DecodeRoomID(json.RawMessage(`{"roomId":"g1"}`)))
	require.Equal(t, "", DecodeRoomID(json.RawMessage(`{"room":"g1"}`)))
	require.Equal(t, "", DecodeRoomID(json.RawMessage(`42`)))
	require.Equal(t, "", DecodeRoomID(nil))
}

func TestEncodeFrameRoundTrips(t *testing.T) {
	raw := encodeFrame(EventOnlineUsers, []string{"u1", "u2"})
	require.NotNil(t, raw)

	f, err := ParseFrame(raw)
	require.NoError(t, err)
	require.Equal(t, EventOnlineUsers, f.Event)

	var users []string
	require.NoError(t, json.Unmarshal(f.Data, &users))
	require.Equal(t, []string{"u1", "u2"}, users)
}
