package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"tourx/src/types"
)

func TestIsProd(t *testing.T) {
	t.Setenv("API_ENV", "production")
	assert.True(t, IsProd())

	t.Setenv("API_ENV", "local")
	assert.False(t, IsProd())

	t.Setenv("API_ENV", "")
	assert.False(t, IsProd())
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	token, err := GenerateJWT("c@x.com", "Customer")
	assert.Nil(t, err)

	claims := &types.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tk *jwt.Token) (any, error) {
		return JwtKey(), nil
	})
	assert.Nil(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "c@x.com", claims.Email)
	assert.Equal(t, "c@x.com", claims.Subject)
	assert.Equal(t, "Customer", claims.Name)
}
