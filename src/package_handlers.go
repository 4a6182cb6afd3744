package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourx/src/db"
	"tourx/src/lib"
	"tourx/src/middlewares"
	"tourx/src/models"
	"tourx/src/types"
)

const packagesCacheKey = "packages"

// cachePackages serves the public package list from redis when available
// and falls back to the store otherwise. Package writes drop the key.
func cachePackages(ctx context.Context) ([]models.Package, error) {
	rd := lib.GetRedisClient()
	if rd != nil {
		val, err := rd.Get(ctx, packagesCacheKey).Result()
		if err == nil && val != "" {
			var cached []models.Package
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}
	store := db.GetStore()
	var packages []models.Package
	if err := store.Find(ctx, db.COLLECTION_PACKAGES, bson.M{}, &packages); err != nil {
		return nil, err
	}
	if rd != nil {
		if raw, err := json.Marshal(packages); err == nil {
			if err := rd.Set(ctx, packagesCacheKey, raw, 5*time.Minute).Err(); err != nil {
				log.Printf("Error caching packages: %s\n", err.Error())
			}
		}
	}
	return packages, nil
}

func invalidatePackagesCache(ctx context.Context) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.Del(ctx, packagesCacheKey).Err(); err != nil {
		log.Printf("Error invalidating packages cache: %s\n", err.Error())
	}
}

func packagePublicRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/package", func(ctx *gin.Context) {
			packages, err := cachePackages(ctx.Request.Context())
			if err != nil {
				log.Printf("Error fetching packages: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, packages)
		}).
		GET("/package/:id", func(ctx *gin.Context) {
			oid, err := primitive.ObjectIDFromHex(ctx.Param("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid package ID"})
				return
			}
			store := db.GetStore()
			var pkg models.Package
			err = store.FindOne(ctx.Request.Context(), db.COLLECTION_PACKAGES, bson.M{"_id": oid}, &pkg)
			if err == db.ErrNotFound {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
				return
			}
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, pkg)
		})
	return g
}

func packageHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	admin := middlewares.RoleMiddleware(types.ROLE_ADMIN)
	g.
		POST("/package", admin, func(ctx *gin.Context) {
			var pkg models.Package
			if err := ctx.ShouldBindJSON(&pkg); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			store := db.GetStore()
			id, err := store.InsertOne(ctx.Request.Context(), db.COLLECTION_PACKAGES, &pkg)
			if err != nil {
				log.Printf("Error inserting package: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			invalidatePackagesCache(ctx.Request.Context())
			ctx.JSON(http.StatusOK, gin.H{"insertedId": id})
		}).
		PATCH("/package/:id", admin, func(ctx *gin.Context) {
			oid, err := primitive.ObjectIDFromHex(ctx.Param("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid package ID"})
				return
			}
			var item models.Package
			if err := ctx.ShouldBindJSON(&item); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			store := db.GetStore()
			modified, err := store.UpdateOne(
				ctx.Request.Context(),
				db.COLLECTION_PACKAGES,
				bson.M{"_id": oid},
				bson.M{"$set": bson.M{
					"name":        item.Name,
					"tourType":    item.TourType,
					"price":       item.Price,
					"description": item.Description,
					"image":       item.Image,
				}},
			)
			if err != nil {
				log.Printf("Error updating package %s: %s\n", oid.Hex(), err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			invalidatePackagesCache(ctx.Request.Context())
			ctx.JSON(http.StatusOK, gin.H{"modifiedCount": modified})
		}).
		DELETE("/package/:id", admin, func(ctx *gin.Context) {
			oid, err := primitive.ObjectIDFromHex(ctx.Param("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid package ID"})
				return
			}
			store := db.GetStore()
			deleted, err := store.DeleteOne(ctx.Request.Context(), db.COLLECTION_PACKAGES, bson.M{"_id": oid})
			if err != nil {
				log.Printf("Error deleting package %s: %s\n", oid.Hex(), err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if deleted == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
				return
			}
			invalidatePackagesCache(ctx.Request.Context())
			ctx.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
		})
	return g
}
