package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tourx/src/types"
)

func JwtKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateJWT signs a 1-hour HS256 token carrying the email claim. The role
// is deliberately not embedded; it is re-resolved from the users collection
// on every protected request.
func GenerateJWT(email, name string) (string, error) {
	now := time.Now()
	claims := types.Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(JwtKey())
}

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}
