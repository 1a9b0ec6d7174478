package handlers

import (
	"encoding/json"
	"time"

	"github.com/SHANKAR-YADAVA/ChatApp/service/chat"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

// GroupMessageHandler rebroadcasts an inbound group message to the room.
// The sender ID and timestamp are stamped here from the connection's own
// handshake binding; whatever the client put in those fields is discarded.
type GroupMessageHandler struct{}

func NewGroupMessageHandler() chat.Handler { return &GroupMessageHandler{} }

func (h *GroupMessageHandler) Event() string { return chat.EventGroupMessage }

func (h *GroupMessageHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	var in chat.GroupEnvelope
	if err := json.Unmarshal(f.Data, &in); err != nil {
		return errs.WrapMsg(err, "decode groupMessage payload")
	}
	env := chat.GroupEnvelope{
		RoomID:    in.RoomID,
		Text:      in.Text,
		Image:     in.Image,
		SenderID:  c.UserID,
		CreatedAt: time.Now().UTC(),
	}
	// validation (room ID, text/image presence) happens inside BroadcastGroup;
	// invalid envelopes are dropped without an error per the delivery contract
	ctx.S.BroadcastGroup(env)
	return nil
}
