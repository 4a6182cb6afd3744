package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tourx/src/db"
	"tourx/src/models"
	"tourx/src/types"
)

func TestUserStats(t *testing.T) {
	store := db.NewMemoryStore()
	ctx := context.Background()
	seedBooking(t, store, "c@x.com", 50)
	seedBooking(t, store, "c@x.com", 30)
	seedBooking(t, store, "other@x.com", 99)
	for _, price := range []float64{80.00, 19.99} {
		_, err := store.InsertOne(ctx, db.COLLECTION_PAYMENTS, &models.Payment{
			Email:  "c@x.com",
			Price:  price,
			Status: types.PAYMENT_PAID,
		})
		assert.Nil(t, err)
	}

	stats, err := UserStats(ctx, store, "c@x.com")
	assert.Nil(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.InDelta(t, 99.99, stats.TotalSpent, 1e-9)
}

func TestUserStatsEmpty(t *testing.T) {
	store := db.NewMemoryStore()

	stats, err := UserStats(context.Background(), store, "nobody@x.com")
	assert.Nil(t, err)
	assert.Equal(t, int64(0), stats.TotalBookings)
	assert.Equal(t, 0.0, stats.TotalSpent)
}

func TestGuideStats(t *testing.T) {
	store := db.NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := store.InsertOne(ctx, db.COLLECTION_HIRED_GUIDES, &models.HiredGuide{
			GuideID:  "g-1",
			Email:    "g@x.com",
			Name:     "Guide",
			Date:     "2026-09-01",
			BookedBy: "c@x.com",
		})
		assert.Nil(t, err)
	}
	for _, rating := range []float64{4, 5} {
		_, err := store.InsertOne(ctx, db.COLLECTION_REVIEWS, &models.Review{
			GuideEmail: "g@x.com",
			Rating:     rating,
		})
		assert.Nil(t, err)
	}

	stats, err := GuideStats(ctx, store, "g@x.com")
	assert.Nil(t, err)
	assert.Equal(t, int64(3), stats.TotalAssignedTours)
	assert.Equal(t, int64(2), stats.TotalReviews)
	assert.InDelta(t, 4.5, stats.AvgRating, 1e-9)
}

func TestAdminStats(t *testing.T) {
	store := db.NewMemoryStore()
	ctx := context.Background()
	_, err := store.InsertOne(ctx, db.COLLECTION_USERS, &models.User{Email: "c@x.com", Role: types.ROLE_CUSTOMER})
	assert.Nil(t, err)
	_, err = store.InsertOne(ctx, db.COLLECTION_GUIDES, &models.Guide{Name: "Guide"})
	assert.Nil(t, err)
	_, err = store.InsertOne(ctx, db.COLLECTION_PACKAGES, &models.Package{Name: "Pkg", Price: 80})
	assert.Nil(t, err)
	seedBooking(t, store, "c@x.com", 50)
	_, err = store.InsertOne(ctx, db.COLLECTION_PAYMENTS, &models.Payment{
		Email:  "c@x.com",
		Price:  80.00,
		Status: types.PAYMENT_PAID,
	})
	assert.Nil(t, err)

	stats, err := AdminStats(ctx, store)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalGuides)
	assert.Equal(t, int64(1), stats.TotalPackages)
	assert.Equal(t, int64(1), stats.TotalBookings)
	assert.InDelta(t, 80.00, stats.TotalRevenue, 1e-9)
}
