package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourx/src/common"
	"tourx/src/config"
	"tourx/src/db"
	"tourx/src/lib"
	"tourx/src/models"
	"tourx/src/types"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/create-payment-intent", func(ctx *gin.Context) {
			var body types.CreatePaymentIntentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			key := body.IdempotencyKey
			if key == "" {
				key = uuid.NewString()
			}
			// The Pending record must exist before the client ever sees the
			// secret: a charge that completes without a settle call then
			// still has a local trace keyed by the idempotency key.
			store := db.GetStore()
			if _, err := common.RecordPendingIntent(ctx.Request.Context(), store, email, body.Price, key); err != nil {
				log.Printf("Error recording pending intent for %s: %s\n", email, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Payment intent"})
				return
			}
			clientSecret, err := lib.CreatePaymentIntent(ctx.Request.Context(), body.Price, config.PAYMENT_CURRENCY)
			if err != nil {
				log.Printf("Error creating intent: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Payment intent"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"clientSecret": clientSecret, "idempotencyKey": key})
		}).
		POST("/payments", func(ctx *gin.Context) {
			var body types.CreatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			bookingIDs := make([]primitive.ObjectID, 0, len(body.BookingItemIDs))
			for _, hex := range body.BookingItemIDs {
				oid, err := primitive.ObjectIDFromHex(hex)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking ID format"})
					return
				}
				bookingIDs = append(bookingIDs, oid)
			}
			store := db.GetStore()
			result, err := common.Settle(ctx.Request.Context(), store, body.Email, body.Price, bookingIDs, body.IdempotencyKey)
			if err != nil {
				log.Printf("Failed to process payment: %s\n", err.Error())
				var se *types.SettlementError
				if errors.As(err, &se) {
					ctx.JSON(http.StatusInternalServerError, gin.H{
						"error":     "Failed to process payment",
						"code":      se.Code,
						"step":      se.Step,
						"paymentId": se.PaymentID,
					})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"paymentResult": gin.H{"insertedId": result.PaymentID},
				"deleteResult":  gin.H{"deletedCount": result.RetiredCount},
				"status":        result.Step,
			})
		}).
		GET("/payments/:email", func(ctx *gin.Context) {
			email := ctx.Param("email")
			if email != ctx.GetString("email") {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden Access"})
				return
			}
			store := db.GetStore()
			var payments []models.Payment
			if err := store.Find(ctx.Request.Context(), db.COLLECTION_PAYMENTS, bson.M{"email": email}, &payments); err != nil {
				log.Printf("Error fetching payments for %s: %s\n", email, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, payments)
		})
	return g
}
