package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourx/src/types"
)

type Payment struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	Email          string              `bson:"email" json:"email"`
	Price          float64             `bson:"price" json:"price"`
	BookingItemIDs []string            `bson:"bookingItemIds" json:"bookingItemIDs"`
	IdempotencyKey string              `bson:"idempotencyKey,omitempty" json:"idempotencyKey,omitempty"`
	Status         types.PaymentStatus `bson:"status" json:"status"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}
