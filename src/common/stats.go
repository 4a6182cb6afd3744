package common

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tourx/src/db"
	"tourx/src/types"
)

// Statistics readers are on-demand projections over the live collections.
// Two reads in sequence see the collections as of each read; there is no
// snapshot isolation and no materialized cache.

func UserStats(ctx context.Context, store db.Store, email string) (*types.UserStatsResponse, error) {
	totalBookings, err := store.CountDocuments(ctx, db.COLLECTION_BOOKINGS, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	var rows []struct {
		TotalSpent float64 `bson:"totalSpent"`
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"email": email}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "totalSpent": bson.M{"$sum": "$price"}}}},
	}
	if err := store.Aggregate(ctx, db.COLLECTION_PAYMENTS, pipeline, &rows); err != nil {
		return nil, err
	}
	stats := types.UserStatsResponse{
		Email:         email,
		TotalBookings: totalBookings,
	}
	if len(rows) > 0 {
		stats.TotalSpent = rows[0].TotalSpent
	}
	return &stats, nil
}

func GuideStats(ctx context.Context, store db.Store, email string) (*types.GuideStatsResponse, error) {
	totalAssigned, err := store.CountDocuments(ctx, db.COLLECTION_HIRED_GUIDES, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	var rows []struct {
		TotalReviews int64   `bson:"totalReviews"`
		AvgRating    float64 `bson:"avgRating"`
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"guideEmail": email}}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalReviews": bson.M{"$sum": 1},
			"avgRating":    bson.M{"$avg": "$rating"},
		}}},
	}
	if err := store.Aggregate(ctx, db.COLLECTION_REVIEWS, pipeline, &rows); err != nil {
		return nil, err
	}
	stats := types.GuideStatsResponse{
		Email:              email,
		TotalAssignedTours: totalAssigned,
	}
	if len(rows) > 0 {
		stats.TotalReviews = rows[0].TotalReviews
		stats.AvgRating = rows[0].AvgRating
	}
	return &stats, nil
}

func AdminStats(ctx context.Context, store db.Store) (*types.AdminStatsResponse, error) {
	totalUsers, err := store.EstimatedCount(ctx, db.COLLECTION_USERS)
	if err != nil {
		return nil, err
	}
	totalGuides, err := store.EstimatedCount(ctx, db.COLLECTION_GUIDES)
	if err != nil {
		return nil, err
	}
	totalPackages, err := store.EstimatedCount(ctx, db.COLLECTION_PACKAGES)
	if err != nil {
		return nil, err
	}
	totalBookings, err := store.EstimatedCount(ctx, db.COLLECTION_BOOKINGS)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		TotalRevenue float64 `bson:"totalRevenue"`
	}
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "totalRevenue": bson.M{"$sum": "$price"}}}},
	}
	if err := store.Aggregate(ctx, db.COLLECTION_PAYMENTS, pipeline, &rows); err != nil {
		return nil, err
	}
	stats := types.AdminStatsResponse{
		TotalUsers:    totalUsers,
		TotalGuides:   totalGuides,
		TotalPackages: totalPackages,
		TotalBookings: totalBookings,
	}
	if len(rows) > 0 {
		stats.TotalRevenue = rows[0].TotalRevenue
	}
	return &stats, nil
}
