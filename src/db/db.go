package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"tourx/src/config"
)

var database *mongo.Database

func GetDb() *mongo.Database {
	if database != nil {
		return database
	}
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().
		ApplyURI(config.GetMongoURI()).
		SetServerAPIOptions(serverAPI)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Printf("Error connecting to database: %s\n", err.Error())
		panic(err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Printf("Error pinging database: %s\n", err.Error())
		panic(err)
	}
	database = client.Database(config.GetDatabaseName())
	return database
}

func NewDB(d *mongo.Database) {
	database = d
}
