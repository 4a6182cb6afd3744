package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	COLLECTION_USERS        = "users"
	COLLECTION_PACKAGES     = "packages"
	COLLECTION_BOOKINGS     = "bookings"
	COLLECTION_PAYMENTS     = "payments"
	COLLECTION_GUIDES       = "guides"
	COLLECTION_HIRED_GUIDES = "hiredguides"
	COLLECTION_REVIEWS      = "reviews"
)

var ErrNotFound = errors.New("document not found")

// Store is the document-store boundary. Handlers and the settlement code go
// through it instead of *mongo.Database so tests can swap in a fake via
// NewStore, the same way NewDB swaps the database handle.
type Store interface {
	InsertOne(ctx context.Context, coll string, doc any) (string, error)
	FindOne(ctx context.Context, coll string, filter bson.M, out any) error
	Find(ctx context.Context, coll string, filter bson.M, out any) error
	UpdateOne(ctx context.Context, coll string, filter bson.M, update bson.M) (int64, error)
	DeleteOne(ctx context.Context, coll string, filter bson.M) (int64, error)
	DeleteMany(ctx context.Context, coll string, filter bson.M) (int64, error)
	CountDocuments(ctx context.Context, coll string, filter bson.M) (int64, error)
	EstimatedCount(ctx context.Context, coll string) (int64, error)
	Aggregate(ctx context.Context, coll string, pipeline mongo.Pipeline, out any) error
}

var store Store

func GetStore() Store {
	if store != nil {
		return store
	}
	store = &mongoStore{database: GetDb()}
	return store
}

func NewStore(s Store) {
	store = s
}

type mongoStore struct {
	database *mongo.Database
}

func (m *mongoStore) InsertOne(ctx context.Context, coll string, doc any) (string, error) {
	res, err := m.database.Collection(coll).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (m *mongoStore) FindOne(ctx context.Context, coll string, filter bson.M, out any) error {
	err := m.database.Collection(coll).FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *mongoStore) Find(ctx context.Context, coll string, filter bson.M, out any) error {
	cursor, err := m.database.Collection(coll).Find(ctx, filter)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (m *mongoStore) UpdateOne(ctx context.Context, coll string, filter bson.M, update bson.M) (int64, error) {
	res, err := m.database.Collection(coll).UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (m *mongoStore) DeleteOne(ctx context.Context, coll string, filter bson.M) (int64, error) {
	res, err := m.database.Collection(coll).DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *mongoStore) DeleteMany(ctx context.Context, coll string, filter bson.M) (int64, error) {
	res, err := m.database.Collection(coll).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *mongoStore) CountDocuments(ctx context.Context, coll string, filter bson.M) (int64, error) {
	return m.database.Collection(coll).CountDocuments(ctx, filter)
}

func (m *mongoStore) EstimatedCount(ctx context.Context, coll string) (int64, error) {
	return m.database.Collection(coll).EstimatedDocumentCount(ctx)
}

func (m *mongoStore) Aggregate(ctx context.Context, coll string, pipeline mongo.Pipeline, out any) error {
	cursor, err := m.database.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("Error aggregating %s: %s\n", coll, err.Error())
		return err
	}
	return cursor.All(ctx, out)
}
