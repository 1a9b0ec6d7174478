package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MsgTableName = "messages"

// Message is one persisted chat message. Exactly one of ReceiverID (direct)
// and RoomID (group) is set; Text and Image are both optional but a valid
// message carries at least one.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SenderID   string             `bson:"sender_id" json:"senderId"`
	ReceiverID string             `bson:"receiver_id,omitempty" json:"receiverId,omitempty"` // direct only
	RoomID     string             `bson:"room_id,omitempty" json:"roomId,omitempty"`         // group only
	Text       string             `bson:"text,omitempty" json:"text,omitempty"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"` // asset host URL
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}
