package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const GroupTableName = "groups"

// Group holds group-chat metadata. Its ID doubles as the realtime room ID;
// live room membership itself lives only in the gateway while connections
// are joined.
type Group struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Icon      string             `bson:"icon,omitempty" json:"icon,omitempty"`
	Members   []string           `bson:"members" json:"members"` // user IDs, creator included
	CreatedBy string             `bson:"created_by" json:"createdBy"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
