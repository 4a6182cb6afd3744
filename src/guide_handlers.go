package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourx/src/db"
	"tourx/src/middlewares"
	"tourx/src/models"
	"tourx/src/types"
)

func guidePublicRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/guides", func(ctx *gin.Context) {
			store := db.GetStore()
			var guides []models.Guide
			if err := store.Find(ctx.Request.Context(), db.COLLECTION_GUIDES, bson.M{}, &guides); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, guides)
		}).
		GET("/guides/:id", func(ctx *gin.Context) {
			oid, err := primitive.ObjectIDFromHex(ctx.Param("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid guide ID"})
				return
			}
			store := db.GetStore()
			var guide models.Guide
			err = store.FindOne(ctx.Request.Context(), db.COLLECTION_GUIDES, bson.M{"_id": oid}, &guide)
			if err == db.ErrNotFound {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "guide not found"})
				return
			}
			if err != nil {
				log.Printf("Error fetching guide %s: %s\n", oid.Hex(), err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, guide)
		}).
		POST("/guide", func(ctx *gin.Context) {
			var body types.HireGuideRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
				return
			}
			hired := models.HiredGuide{
				GuideID:  body.GuideID,
				Date:     body.Date,
				Name:     body.Name,
				Email:    body.Email,
				BookedBy: body.BookedBy,
			}
			store := db.GetStore()
			id, err := store.InsertOne(ctx.Request.Context(), db.COLLECTION_HIRED_GUIDES, &hired)
			if err != nil {
				log.Printf("Error hiring guide %s: %s\n", body.GuideID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hire guide"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"message": "Guide hired successfully", "data": id})
		})
	return g
}

func guideHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/guides", middlewares.RoleMiddleware(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var guide models.Guide
			if err := ctx.ShouldBindJSON(&guide); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			store := db.GetStore()
			id, err := store.InsertOne(ctx.Request.Context(), db.COLLECTION_GUIDES, &guide)
			if err != nil {
				log.Printf("Error inserting guide: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"insertedId": id})
		}).
		// Assigned tours for the calling guide.
		GET("/guide/:email", middlewares.RoleMiddleware(types.ROLE_GUIDE), func(ctx *gin.Context) {
			email := ctx.Param("email")
			store := db.GetStore()
			var assigned []models.HiredGuide
			if err := store.Find(ctx.Request.Context(), db.COLLECTION_HIRED_GUIDES, bson.M{"email": email}, &assigned); err != nil {
				log.Printf("Error fetching assigned tours for %s: %s\n", email, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assigned tours"})
				return
			}
			if len(assigned) == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "No tours assigned to this guide"})
				return
			}
			ctx.JSON(http.StatusOK, assigned)
		})
	return g
}
