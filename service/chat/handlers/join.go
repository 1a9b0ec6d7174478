package handlers

import (
	"github.com/SHANKAR-YADAVA/ChatApp/logger"
	"github.com/SHANKAR-YADAVA/ChatApp/service/chat"
)

// JoinRoomHandler subscribes the calling connection to a room. No ack is
// sent; a missing room ID is silently ignored.
type JoinRoomHandler struct{}

func NewJoinRoomHandler() chat.Handler { return &JoinRoomHandler{} }

func (h *JoinRoomHandler) Event() string { return chat.EventJoinRoom }

func (h *JoinRoomHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	roomID := chat.DecodeRoomID(f.Data)
	if roomID == "" {
		return nil
	}
	ctx.S.Rooms().Join(c, roomID)
	logger.Infof("[joinRoom] user=%s conn=%s room=%s", c.UserID, c.ConnID, roomID)
	return nil
}
