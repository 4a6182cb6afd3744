package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82"
	"github.com/tidwall/gjson"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourx/src/db"
	"tourx/src/lib"
	"tourx/src/models"
	"tourx/src/types"
	"tourx/src/utils"
)

type TestSuite struct {
	suite.Suite
	Store         *db.MemoryStore
	Router        *gin.Engine
	CustomerToken string
	GuideToken    string
	AdminToken    string
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "secret")
	registerValidations()

	var err error
	s.CustomerToken, err = utils.GenerateJWT("c@x.com", "Customer")
	assert.Nil(s.T(), err)
	s.GuideToken, err = utils.GenerateJWT("g@x.com", "Guide")
	assert.Nil(s.T(), err)
	s.AdminToken, err = utils.GenerateJWT("a@x.com", "Admin")
	assert.Nil(s.T(), err)
}

func (s *TestSuite) SetupTest() {
	s.Store = db.NewMemoryStore()
	db.NewStore(s.Store)

	ctx := context.Background()
	for _, u := range []models.User{
		{Email: "c@x.com", Name: "Customer", Role: types.ROLE_CUSTOMER},
		{Email: "g@x.com", Name: "Guide", Role: types.ROLE_GUIDE},
		{Email: "a@x.com", Name: "Admin", Role: types.ROLE_ADMIN},
	} {
		_, err := s.Store.InsertOne(ctx, db.COLLECTION_USERS, &u)
		assert.Nil(s.T(), err)
	}

	s.Router = setupRouter()
	registerRoutes(s.Router)
}

func (s *TestSuite) request(method, url, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.Nil(s.T(), err)
		reader = strings.NewReader(string(raw))
	}
	req, err := http.NewRequest(method, url, reader)
	assert.Nil(s.T(), err)
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) seedBooking(email string, price float64) string {
	w := s.request("POST", "/bookings", "", map[string]any{
		"email":     email,
		"packageId": "pkg-1",
		"price":     price,
	})
	assert.Equal(s.T(), 200, w.Code)
	id := gjson.Get(w.Body.String(), "insertedId").String()
	assert.NotEmpty(s.T(), id)
	return id
}

func (s *TestSuite) TestPingRoute() {
	w := s.request("GET", "/", "", nil)
	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestJwtIssueAndUse() {
	w := s.request("POST", "/jwt", "", map[string]any{"email": "c@x.com"})
	assert.Equal(s.T(), 200, w.Code)
	token := gjson.Get(w.Body.String(), "token").String()
	assert.NotEmpty(s.T(), token)

	w = s.request("GET", "/user-stats/c@x.com", token, nil)
	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestAuthorization() {
	s.Run("missing credential returns 401", func() {
		w := s.request("GET", "/payments/c@x.com", "", nil)
		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("garbage credential returns 401", func() {
		w := s.request("GET", "/payments/c@x.com", "not-a-token", nil)
		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("wrong role returns 403", func() {
		w := s.request("GET", "/admin-stats", s.CustomerToken, nil)
		assert.Equal(s.T(), 403, w.Code)

		w = s.request("GET", "/guide-stats/c@x.com", s.CustomerToken, nil)
		assert.Equal(s.T(), 403, w.Code)
	})

	s.Run("payments of another user are forbidden regardless of role", func() {
		w := s.request("GET", "/payments/c@x.com", s.AdminToken, nil)
		assert.Equal(s.T(), 403, w.Code)
	})

	s.Run("role flag probing is self-access only", func() {
		w := s.request("GET", "/users/admin/a@x.com", s.CustomerToken, nil)
		assert.Equal(s.T(), 403, w.Code)

		w = s.request("GET", "/users/admin/c@x.com", s.CustomerToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.False(s.T(), gjson.Get(w.Body.String(), "admin").Bool())
	})
}

func (s *TestSuite) TestRoleRevocationTakesEffectNextRequest() {
	w := s.request("GET", "/admin-stats", s.AdminToken, nil)
	assert.Equal(s.T(), 200, w.Code)

	// Revoke the role in the store; the same still-valid token must now be
	// rejected because the role is re-resolved on every request.
	_, err := s.Store.UpdateOne(
		context.Background(),
		db.COLLECTION_USERS,
		bson.M{"email": "a@x.com"},
		bson.M{"$set": bson.M{"role": types.ROLE_CUSTOMER}},
	)
	assert.Nil(s.T(), err)

	w = s.request("GET", "/admin-stats", s.AdminToken, nil)
	assert.Equal(s.T(), 403, w.Code)
}

func (s *TestSuite) TestUserIdempotentInsert() {
	w := s.request("POST", "/users", "", map[string]any{"email": "new@x.com", "name": "New"})
	assert.Equal(s.T(), 200, w.Code)
	assert.NotEmpty(s.T(), gjson.Get(w.Body.String(), "insertedId").String())

	w = s.request("POST", "/users", "", map[string]any{"email": "new@x.com", "name": "New"})
	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "user already exists", gjson.Get(w.Body.String(), "message").String())
	assert.Equal(s.T(), gjson.Null, gjson.Get(w.Body.String(), "insertedId").Type)
}

func (s *TestSuite) TestSettlementEndToEnd() {
	b1 := s.seedBooking("c@x.com", 50)
	b2 := s.seedBooking("c@x.com", 30)

	w := s.request("POST", "/payments", s.CustomerToken, map[string]any{
		"email":          "c@x.com",
		"price":          80.00,
		"bookingItemIDs": []string{b1, b2},
	})
	assert.Equal(s.T(), 200, w.Code)
	body := w.Body.String()
	assert.NotEmpty(s.T(), gjson.Get(body, "paymentResult.insertedId").String())
	assert.Equal(s.T(), int64(2), gjson.Get(body, "deleteResult.deletedCount").Int())
	assert.Equal(s.T(), string(types.SETTLEMENT_RETIRED), gjson.Get(body, "status").String())

	w = s.request("GET", "/payments/c@x.com", s.CustomerToken, nil)
	assert.Equal(s.T(), 200, w.Code)
	payments := gjson.Parse(w.Body.String()).Array()
	assert.Len(s.T(), payments, 1)
	assert.Equal(s.T(), 80.00, payments[0].Get("price").Float())
	assert.Equal(s.T(), string(types.PAYMENT_PAID), payments[0].Get("status").String())

	w = s.request("GET", "/user-stats/c@x.com", s.CustomerToken, nil)
	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), int64(0), gjson.Get(w.Body.String(), "totalBookings").Int())
	assert.InDelta(s.T(), 80.00, gjson.Get(w.Body.String(), "totalSpent").Float(), 1e-9)
}

func (s *TestSuite) TestSettlementPartialRetirement() {
	b1 := s.seedBooking("c@x.com", 50)
	gone := primitive.NewObjectID().Hex()

	w := s.request("POST", "/payments", s.CustomerToken, map[string]any{
		"email":          "c@x.com",
		"price":          80.00,
		"bookingItemIDs": []string{b1, gone},
	})
	assert.Equal(s.T(), 200, w.Code)
	body := w.Body.String()
	assert.Equal(s.T(), int64(1), gjson.Get(body, "deleteResult.deletedCount").Int())
	assert.Equal(s.T(), string(types.SETTLEMENT_PARTIALLY_RETIRED), gjson.Get(body, "status").String())
}

func (s *TestSuite) TestSettlementRejectsMalformedBookingID() {
	w := s.request("POST", "/payments", s.CustomerToken, map[string]any{
		"email":          "c@x.com",
		"price":          80.00,
		"bookingItemIDs": []string{"zzz"},
	})
	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestCreatePaymentIntentValidation() {
	s.Run("rejects more than 2 fraction digits", func() {
		w := s.request("POST", "/create-payment-intent", s.CustomerToken, map[string]any{"price": 19.999})
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("rejects non-positive price", func() {
		w := s.request("POST", "/create-payment-intent", s.CustomerToken, map[string]any{"price": -5})
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("rejects missing price", func() {
		w := s.request("POST", "/create-payment-intent", s.CustomerToken, map[string]any{})
		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestCreatePaymentIntentRecordsPendingTrace() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"pi_1","client_secret":"cs_test_123"}`)
	}))
	defer srv.Close()
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{URL: stripe.String(srv.URL)})
	lib.NewStripeClient(stripe.NewClient("sk_test", stripe.WithBackends(&stripe.Backends{
		API: backend, Connect: backend, Uploads: backend,
	})))
	defer lib.NewStripeClient(nil)

	w := s.request("POST", "/create-payment-intent", s.CustomerToken, map[string]any{"price": 19.99})
	assert.Equal(s.T(), 200, w.Code)
	body := w.Body.String()
	assert.Equal(s.T(), "cs_test_123", gjson.Get(body, "clientSecret").String())
	key := gjson.Get(body, "idempotencyKey").String()
	assert.NotEmpty(s.T(), key)

	var payments []models.Payment
	err := s.Store.Find(context.Background(), db.COLLECTION_PAYMENTS, bson.M{"idempotencyKey": key}, &payments)
	assert.Nil(s.T(), err)
	assert.Len(s.T(), payments, 1)
	assert.Equal(s.T(), types.PAYMENT_PENDING, payments[0].Status)
	assert.Equal(s.T(), 19.99, payments[0].Price)
	assert.Equal(s.T(), "c@x.com", payments[0].Email)
}

func (s *TestSuite) TestBookingDelete() {
	s.Run("malformed id returns 400", func() {
		w := s.request("DELETE", "/bookings/zzz", "", nil)
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("missing booking returns 404", func() {
		w := s.request("DELETE", fmt.Sprintf("/bookings/%s", primitive.NewObjectID().Hex()), "", nil)
		assert.Equal(s.T(), 404, w.Code)
		assert.Equal(s.T(), int64(0), gjson.Get(w.Body.String(), "deletedCount").Int())
	})

	s.Run("existing booking is deleted", func() {
		id := s.seedBooking("c@x.com", 50)
		w := s.request("DELETE", fmt.Sprintf("/bookings/%s", id), "", nil)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), int64(1), gjson.Get(w.Body.String(), "deletedCount").Int())
	})
}

func (s *TestSuite) TestGuideStats() {
	ctx := context.Background()
	_, err := s.Store.InsertOne(ctx, db.COLLECTION_HIRED_GUIDES, &models.HiredGuide{
		GuideID: "g-1", Email: "g@x.com", Name: "Guide", Date: "2026-09-01", BookedBy: "c@x.com",
	})
	assert.Nil(s.T(), err)
	_, err = s.Store.InsertOne(ctx, db.COLLECTION_REVIEWS, &models.Review{GuideEmail: "g@x.com", Rating: 5})
	assert.Nil(s.T(), err)

	w := s.request("GET", "/guide-stats/g@x.com", s.GuideToken, nil)
	assert.Equal(s.T(), 200, w.Code)
	body := w.Body.String()
	assert.Equal(s.T(), int64(1), gjson.Get(body, "totalAssignedTours").Int())
	assert.Equal(s.T(), int64(1), gjson.Get(body, "totalReviews").Int())
	assert.InDelta(s.T(), 5.0, gjson.Get(body, "avgRating").Float(), 1e-9)
}

func (s *TestSuite) TestAdminStats() {
	s.seedBooking("c@x.com", 50)

	w := s.request("GET", "/admin-stats", s.AdminToken, nil)
	assert.Equal(s.T(), 200, w.Code)
	body := w.Body.String()
	assert.Equal(s.T(), int64(3), gjson.Get(body, "totalUsers").Int())
	assert.Equal(s.T(), int64(1), gjson.Get(body, "totalBookings").Int())
}

func (s *TestSuite) TestPackagesCache() {
	mockClient, mock := redismock.NewClientMock()
	lib.NewRedisClient(mockClient)
	defer func() {
		lib.NewRedisClient(nil)
	}()

	// Cold cache: miss, read from store, fill.
	mock.ExpectGet(packagesCacheKey).RedisNil()
	mock.ExpectSet(packagesCacheKey, []byte("[]"), 5*time.Minute).SetVal("OK")
	w := s.request("GET", "/package", "", nil)
	assert.Equal(s.T(), 200, w.Code)

	// Warm cache: served without touching the store.
	mock.ExpectGet(packagesCacheKey).SetVal(`[{"name":"cached","price":80}]`)
	w = s.request("GET", "/package", "", nil)
	assert.Equal(s.T(), 200, w.Code)
	assert.Contains(s.T(), w.Body.String(), "cached")

	assert.Nil(s.T(), mock.ExpectationsWereMet())
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
