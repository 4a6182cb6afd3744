package common

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourx/src/db"
	"tourx/src/models"
	"tourx/src/types"
)

// ReconcileSettlements re-runs the retirement step for recent Paid payments
// whose bookings survived an interrupted settle call, and logs Pending
// payments old enough that no settle call is coming. It never mutates
// payment status; stale Pending records are an operator decision.
func ReconcileSettlements(ctx context.Context, store db.Store) error {
	now := time.Now().UTC()

	var paid []models.Payment
	err := store.Find(ctx, db.COLLECTION_PAYMENTS, bson.M{
		"status":    types.PAYMENT_PAID,
		"createdAt": bson.M{"$gte": now.Add(-24 * time.Hour)},
	}, &paid)
	if err != nil {
		log.Printf("[reconcile] error listing paid payments: %s\n", err.Error())
		return err
	}
	for _, payment := range paid {
		if len(payment.BookingItemIDs) == 0 {
			continue
		}
		ids := make([]primitive.ObjectID, 0, len(payment.BookingItemIDs))
		for _, hex := range payment.BookingItemIDs {
			oid, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				log.Printf("[reconcile] payment %s has malformed booking id %q\n", payment.ID.Hex(), hex)
				continue
			}
			ids = append(ids, oid)
		}
		retired, err := RetireBookings(ctx, store, ids)
		if err != nil {
			log.Printf("[reconcile] error retiring bookings for payment %s: %s\n", payment.ID.Hex(), err.Error())
			continue
		}
		if retired > 0 {
			log.Printf("[reconcile] retired %d leftover bookings for payment %s\n", retired, payment.ID.Hex())
		}
	}

	var stale []models.Payment
	err = store.Find(ctx, db.COLLECTION_PAYMENTS, bson.M{
		"status":    types.PAYMENT_PENDING,
		"createdAt": bson.M{"$lt": now.Add(-1 * time.Hour)},
	}, &stale)
	if err != nil {
		log.Printf("[reconcile] error listing pending payments: %s\n", err.Error())
		return err
	}
	for _, payment := range stale {
		log.Printf("[reconcile] payment %s for %s still Pending since %s\n", payment.ID.Hex(), payment.Email, payment.CreatedAt.Format(time.RFC3339))
	}
	return nil
}
