package common

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourx/src/db"
	"tourx/src/models"
	"tourx/src/types"
)

// Settle drives a settlement attempt through its states: record a Pending
// payment, mark it Paid, then retire the covered bookings. The processor
// charge has already happened on the caller's side, so once the payment
// document exists every failure surfaces the payment id for manual
// recovery instead of rolling anything back.
func Settle(ctx context.Context, store db.Store, email string, price float64, bookingIDs []primitive.ObjectID, idempotencyKey string) (*types.SettlementResult, error) {
	hexIDs := make([]string, 0, len(bookingIDs))
	for _, id := range bookingIDs {
		hexIDs = append(hexIDs, id.Hex())
	}

	paymentID := ""
	if idempotencyKey != "" {
		var existing models.Payment
		err := store.FindOne(ctx, db.COLLECTION_PAYMENTS, bson.M{"idempotencyKey": idempotencyKey}, &existing)
		if err == nil {
			// Keys are bound to the account they were recorded for. Adopting
			// another account's record would let the MarkedPaid update
			// overwrite its email and price.
			if existing.Email != email {
				return nil, &types.SettlementError{
					Code: types.SETTLEMENT_ERR_PERSIST_FAILED,
					Step: types.SETTLEMENT_INITIATED,
					Err:  errors.New("idempotency key belongs to another account"),
				}
			}
			if existing.Status == types.PAYMENT_PAID {
				log.Printf("[settle] payment %s already settled for key %s\n", existing.ID.Hex(), idempotencyKey)
				return &types.SettlementResult{
					PaymentID:      existing.ID.Hex(),
					RetiredCount:   0,
					Step:           types.SETTLEMENT_RETIRED,
					AlreadySettled: true,
				}, nil
			}
			paymentID = existing.ID.Hex()
		} else if err != db.ErrNotFound {
			return nil, &types.SettlementError{
				Code: types.SETTLEMENT_ERR_PERSIST_FAILED,
				Step: types.SETTLEMENT_INITIATED,
				Err:  err,
			}
		}
	}

	if paymentID == "" {
		payment := models.Payment{
			Email:          email,
			Price:          price,
			BookingItemIDs: hexIDs,
			IdempotencyKey: idempotencyKey,
			Status:         types.PAYMENT_PENDING,
			CreatedAt:      time.Now().UTC(),
		}
		id, err := store.InsertOne(ctx, db.COLLECTION_PAYMENTS, &payment)
		if err != nil {
			log.Printf("[settle] failed to record payment for %s: %s\n", email, err.Error())
			return nil, &types.SettlementError{
				Code: types.SETTLEMENT_ERR_PERSIST_FAILED,
				Step: types.SETTLEMENT_INITIATED,
				Err:  err,
			}
		}
		paymentID = id
	}

	oid, err := primitive.ObjectIDFromHex(paymentID)
	if err != nil {
		return nil, &types.SettlementError{
			Code:      types.SETTLEMENT_ERR_RECONCILIATION_FAILED,
			Step:      types.SETTLEMENT_RECORDED,
			PaymentID: paymentID,
			Err:       err,
		}
	}
	_, err = store.UpdateOne(ctx, db.COLLECTION_PAYMENTS, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":         types.PAYMENT_PAID,
		"email":          email,
		"price":          price,
		"bookingItemIds": hexIDs,
	}})
	if err != nil {
		log.Printf("[settle] failed to mark payment %s as paid: %s\n", paymentID, err.Error())
		return nil, &types.SettlementError{
			Code:      types.SETTLEMENT_ERR_RECONCILIATION_FAILED,
			Step:      types.SETTLEMENT_RECORDED,
			PaymentID: paymentID,
			Err:       err,
		}
	}

	retired, err := RetireBookings(ctx, store, bookingIDs)
	if err != nil {
		log.Printf("[settle] failed to retire bookings for payment %s: %s\n", paymentID, err.Error())
		return nil, &types.SettlementError{
			Code:      types.SETTLEMENT_ERR_RECONCILIATION_FAILED,
			Step:      types.SETTLEMENT_MARKED_PAID,
			PaymentID: paymentID,
			Err:       err,
		}
	}

	step := types.SETTLEMENT_RETIRED
	if retired != int64(len(bookingIDs)) {
		// Some bookings were gone already, e.g. cancelled between intent
		// creation and settlement. The money has moved and the payment is
		// Paid, so this is degraded success, not an error.
		step = types.SETTLEMENT_PARTIALLY_RETIRED
		log.Printf("[settle] payment %s retired %d of %d bookings\n", paymentID, retired, len(bookingIDs))
	}
	return &types.SettlementResult{
		PaymentID:    paymentID,
		RetiredCount: retired,
		Step:         step,
	}, nil
}

// RetireBookings deletes the given bookings in one bulk operation. Deleting
// an already-deleted booking is a no-op, so the call is idempotent and the
// returned count may be lower than len(ids).
func RetireBookings(ctx context.Context, store db.Store, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return store.DeleteMany(ctx, db.COLLECTION_BOOKINGS, bson.M{"_id": bson.M{"$in": ids}})
}

// RecordPendingIntent persists a Pending payment keyed by the client's
// idempotency key before the processor secret is handed out, so a charge
// that succeeds without a follow-up settle call still has a local trace.
// Repeated intent requests with the same key reuse the same record.
func RecordPendingIntent(ctx context.Context, store db.Store, email string, price float64, idempotencyKey string) (string, error) {
	var existing models.Payment
	err := store.FindOne(ctx, db.COLLECTION_PAYMENTS, bson.M{"idempotencyKey": idempotencyKey}, &existing)
	if err == nil {
		if existing.Email != email {
			return "", errors.New("idempotency key belongs to another account")
		}
		return existing.ID.Hex(), nil
	}
	if err != db.ErrNotFound {
		return "", err
	}
	payment := models.Payment{
		Email:          email,
		Price:          price,
		IdempotencyKey: idempotencyKey,
		Status:         types.PAYMENT_PENDING,
		CreatedAt:      time.Now().UTC(),
	}
	return store.InsertOne(ctx, db.COLLECTION_PAYMENTS, &payment)
}
