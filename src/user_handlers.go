package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourx/src/db"
	"tourx/src/middlewares"
	"tourx/src/models"
	"tourx/src/types"
)

func userPublicRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		// Idempotent insert keyed by email. First sign-in creates the
		// record; later sign-ins are acknowledged without a write.
		POST("/users", func(ctx *gin.Context) {
			var body struct {
				Email string `json:"email" binding:"required,email"`
				Name  string `json:"name"`
				Photo string `json:"photo"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			store := db.GetStore()
			var existing models.User
			err := store.FindOne(ctx.Request.Context(), db.COLLECTION_USERS, bson.M{"email": body.Email}, &existing)
			if err == nil {
				ctx.JSON(http.StatusOK, gin.H{"message": "user already exists", "insertedId": nil})
				return
			}
			if err != db.ErrNotFound {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			user := models.User{
				Email:     body.Email,
				Name:      body.Name,
				Photo:     body.Photo,
				Role:      types.ROLE_CUSTOMER,
				CreatedAt: time.Now().UTC(),
			}
			id, err := store.InsertOne(ctx.Request.Context(), db.COLLECTION_USERS, &user)
			if err != nil {
				log.Printf("Error inserting user %s: %s\n", body.Email, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"insertedId": id})
		})
	return g
}

func userHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users", middlewares.RoleMiddleware(types.ROLE_ADMIN), func(ctx *gin.Context) {
			store := db.GetStore()
			var users []models.User
			if err := store.Find(ctx.Request.Context(), db.COLLECTION_USERS, bson.M{}, &users); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, users)
		}).
		DELETE("/users/:id", middlewares.RoleMiddleware(types.ROLE_ADMIN), func(ctx *gin.Context) {
			oid, err := primitive.ObjectIDFromHex(ctx.Param("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID format"})
				return
			}
			store := db.GetStore()
			deleted, err := store.DeleteOne(ctx.Request.Context(), db.COLLECTION_USERS, bson.M{"_id": oid})
			if err != nil {
				log.Printf("Error deleting user %s: %s\n", oid.Hex(), err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
		}).
		// Self-access only: a caller may ask about their own role flag,
		// never probe another account's.
		GET("/users/admin/:email", func(ctx *gin.Context) {
			email := ctx.Param("email")
			if email != ctx.GetString("email") {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden access"})
				return
			}
			store := db.GetStore()
			var user models.User
			err := store.FindOne(ctx.Request.Context(), db.COLLECTION_USERS, bson.M{"email": email}, &user)
			if err != nil && err != db.ErrNotFound {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"admin": user.Role == types.ROLE_ADMIN})
		}).
		GET("/users/guide/:email", func(ctx *gin.Context) {
			email := ctx.Param("email")
			if email != ctx.GetString("email") {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden access"})
				return
			}
			store := db.GetStore()
			var user models.User
			err := store.FindOne(ctx.Request.Context(), db.COLLECTION_USERS, bson.M{"email": email}, &user)
			if err != nil && err != db.ErrNotFound {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"guide": user.Role == types.ROLE_GUIDE})
		}).
		PATCH("/users/admin/:id", middlewares.RoleMiddleware(types.ROLE_ADMIN), func(ctx *gin.Context) {
			updateUserRole(ctx, types.ROLE_ADMIN)
		}).
		PATCH("/users/guide/:id", middlewares.RoleMiddleware(types.ROLE_ADMIN), func(ctx *gin.Context) {
			updateUserRole(ctx, types.ROLE_GUIDE)
		})
	return g
}

func updateUserRole(ctx *gin.Context, role types.Role) {
	oid, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID format"})
		return
	}
	store := db.GetStore()
	modified, err := store.UpdateOne(
		ctx.Request.Context(),
		db.COLLECTION_USERS,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		log.Printf("Error assigning role %s to user %s: %s\n", role, oid.Hex(), err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"modifiedCount": modified})
}
