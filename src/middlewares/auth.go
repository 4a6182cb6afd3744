package middlewares

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"

	"tourx/src/db"
	"tourx/src/models"
	"tourx/src/types"
	"tourx/src/utils"
)

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Forbidden Access"})
		return
	}
	parts := strings.Split(bearerToken, " ")
	if len(parts) < 2 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Forbidden Access"})
		return
	}
	reqToken := parts[1]
	if reqToken == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Forbidden Access"})
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return utils.JwtKey(), nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
		return
	}

	email := claims.Email
	if email == "" {
		email = claims.Subject
	}
	if email == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
		return
	}
	ctx.Set("email", email)
}

// RoleMiddleware re-resolves the caller's role from the users collection on
// every request. A role revoked mid-session takes effect on the caller's
// next request; nothing from the token payload is trusted for authorization.
func RoleMiddleware(role types.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		email := ctx.GetString("email")
		store := db.GetStore()
		var user models.User
		err := store.FindOne(ctx.Request.Context(), db.COLLECTION_USERS, bson.M{"email": email}, &user)
		if err != nil || user.Role != role {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
			return
		}
	}
}
