package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"tourx/src/db"
	"tourx/src/models"
)

func reviewPublicRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/reviews", func(ctx *gin.Context) {
			store := db.GetStore()
			var reviews []models.Review
			if err := store.Find(ctx.Request.Context(), db.COLLECTION_REVIEWS, bson.M{}, &reviews); err != nil {
				log.Printf("Error fetching reviews: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, reviews)
		}).
		POST("/reviews", func(ctx *gin.Context) {
			var review models.Review
			if err := ctx.ShouldBindJSON(&review); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			store := db.GetStore()
			id, err := store.InsertOne(ctx.Request.Context(), db.COLLECTION_REVIEWS, &review)
			if err != nil {
				log.Printf("Error adding review: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add review"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"insertedId": id})
		})
	return g
}
