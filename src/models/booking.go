package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Booking has no paid state of its own. Its presence in the bookings
// collection is its pending state; settlement retires it by deletion.
type Booking struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email       string             `bson:"email" json:"email"`
	PackageID   string             `bson:"packageId" json:"packageId"`
	PackageName string             `bson:"packageName,omitempty" json:"packageName,omitempty"`
	Date        string             `bson:"date,omitempty" json:"date,omitempty"`
	Price       float64            `bson:"price" json:"price"`
}
