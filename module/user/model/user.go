package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const UserTableName = "users"

// User is an account document. Password stores the bcrypt hash and is never
// serialized into responses.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email      string             `bson:"email" json:"email"`
	FullName   string             `bson:"full_name" json:"fullName"`
	Password   string             `bson:"password" json:"-"`
	ProfilePic string             `bson:"profile_pic" json:"profilePic"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}
