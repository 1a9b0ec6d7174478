package chat

import (
	"encoding/json"
	"time"

	"github.com/SHANKAR-YADAVA/ChatApp/logger"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

// Wire events. The names are part of the client contract and mirror the
// Socket.io event names the web client listens on.
const (
	EventOnlineUsers    = "getOnlineUsers" // server -> all, full presence snapshot
	EventJoinRoom       = "joinRoom"       // client -> server
	EventGroupMessage   = "groupMessage"   // bidirectional
	EventNewMessage     = "newMessage"     // server -> recipient conns (direct)
	EventMessageDeleted = "messageDeleted" // server -> affected conns
)

// Frame is the envelope for every websocket message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	f := &Frame{}
	if err := json.Unmarshal(raw, f); err != nil {
		return nil, errs.WrapMsg(err, "unmarshal frame")
	}
	if f.Event == "" {
		return nil, errs.New("frame without event")
	}
	return f, nil
}

// GroupEnvelope is the in-flight form of a group message. SenderID and
// CreatedAt are stamped by the server; client-supplied values for these two
// fields are never trusted.
type GroupEnvelope struct {
	RoomID    string    `json:"roomId"`
	Text      string    `json:"text,omitempty"`
	Image     string    `json:"image,omitempty"`
	SenderID  string    `json:"senderId"`
	CreatedAt time.Time `json:"createdAt"`
}

// DeleteNotice tells clients to drop a message from their local view.
type DeleteNotice struct {
	MessageID string `json:"messageId"`
}

// JoinRoomPayload accepts both the bare-string form the web client sends and
// an object form.
type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

func DecodeRoomID(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	var p JoinRoomPayload
	if err := json.Unmarshal(data, &p); err == nil {
		return p.RoomID
	}
	return ""
}

// encodeFrame marshals an outbound frame; a marshal failure is logged and
// yields nil, which every broadcast path treats as "nothing to send".
func encodeFrame(event string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		logger.Errorf("[frames] marshal %s payload: %v", event, err)
		return nil
	}
	out, err := json.Marshal(Frame{Event: event, Data: raw})
	if err != nil {
		logger.Errorf("[frames] marshal %s frame: %v", event, err)
		return nil
	}
	return out
}
