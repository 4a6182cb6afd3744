package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourx/src/types"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Role      types.Role         `bson:"role" json:"role"`
	Photo     string             `bson:"photo,omitempty" json:"photo,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}
