package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Package struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	TourType    string             `bson:"tourType,omitempty" json:"tourType,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
}
