package config

import (
	"fmt"
	"os"
)

var API_ENV = os.Getenv("API_ENV")

// GetMongoURI builds the connection string from the environment. MONGODB_URI
// wins when set so local setups can point at a plain mongod.
func GetMongoURI() string {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}
	DB_USER := os.Getenv("DB_USER")
	DB_PASS := os.Getenv("DB_PASS")
	DB_HOST := os.Getenv("DB_HOST")
	uri := fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority", DB_USER, DB_PASS, DB_HOST)
	return uri
}

func GetDatabaseName() string {
	name := os.Getenv("DATABASE_NAME")
	if name == "" {
		name = "tourx"
	}
	return name
}

const PAYMENT_CURRENCY = "usd"
