package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Guide struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Experience string             `bson:"experience,omitempty" json:"experience,omitempty"`
	Photo      string             `bson:"photo,omitempty" json:"photo,omitempty"`
}
