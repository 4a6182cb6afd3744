package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	GuideEmail string             `bson:"guideEmail" json:"guideEmail"`
	Reviewer   string             `bson:"reviewer,omitempty" json:"reviewer,omitempty"`
	Rating     float64            `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
}
