package boot

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourx/src/common"
	"tourx/src/db"
	"tourx/src/lib"
)

func InitDb() db.Store {
	database := db.GetDb()

	// Users are keyed by email; POST /users relies on this for its
	// idempotent insert.
	_, err := database.Collection(db.COLLECTION_USERS).Indexes().CreateOne(
		context.Background(),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	)
	if err != nil {
		log.Printf("Error creating users email index: %s\n", err.Error())
	}
	_, err = database.Collection(db.COLLECTION_PAYMENTS).Indexes().CreateOne(
		context.Background(),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "idempotencyKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	)
	if err != nil {
		log.Printf("Error creating payments idempotencyKey index: %s\n", err.Error())
	}

	return db.GetStore()
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateCronJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := common.ReconcileSettlements(ctx, db.GetStore()); err != nil {
			log.Printf("Error running settlement reconcile sweep: %s\n", err.Error())
		}
	}, 10*time.Minute)
	if err != nil {
		log.Printf("Error scheduling reconcile sweep: %s\n", err.Error())
		return
	}
	log.Printf("Scheduled reconcile sweep job: %s\n", *id)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}
