package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// HiredGuide.Email is the guide's own address; BookedBy identifies the
// customer who made the assignment.
type HiredGuide struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	GuideID  string             `bson:"guideId" json:"guideId"`
	Date     string             `bson:"date" json:"date"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	BookedBy string             `bson:"bookedBy" json:"bookedBy"`
}
