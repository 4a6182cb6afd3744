package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourx/src/db"
	"tourx/src/models"
	"tourx/src/types"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			email := ctx.Query("email")
			store := db.GetStore()
			var bookings []models.Booking
			filter := bson.M{}
			if email != "" {
				filter["email"] = email
			}
			if err := store.Find(ctx.Request.Context(), db.COLLECTION_BOOKINGS, filter, &bookings); err != nil {
				log.Printf("Error fetching bookings for %s: %s\n", email, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, bookings)
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking := models.Booking{
				Email:       body.Email,
				PackageID:   body.PackageID,
				PackageName: body.PackageName,
				Date:        body.Date,
				Price:       body.Price,
			}
			store := db.GetStore()
			id, err := store.InsertOne(ctx.Request.Context(), db.COLLECTION_BOOKINGS, &booking)
			if err != nil {
				log.Printf("Error inserting booking for %s: %s\n", body.Email, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"insertedId": id})
		}).
		DELETE("/bookings/:id", func(ctx *gin.Context) {
			oid, err := primitive.ObjectIDFromHex(ctx.Param("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID format"})
				return
			}
			store := db.GetStore()
			deleted, err := store.DeleteOne(ctx.Request.Context(), db.COLLECTION_BOOKINGS, bson.M{"_id": oid})
			if err != nil {
				log.Printf("Error deleting booking %s: %s\n", oid.Hex(), err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if deleted == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"deletedCount": 0})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
		})
	return g
}
