package types

import "fmt"

type Role string

const (
	ROLE_CUSTOMER Role = "customer"
	ROLE_GUIDE    Role = "guide"
	ROLE_ADMIN    Role = "admin"
)

type PaymentStatus string

const (
	PAYMENT_PENDING PaymentStatus = "Pending"
	PAYMENT_PAID    PaymentStatus = "Paid"
)

// SettlementStep is how far a settlement attempt got. Recorded means the
// payment document exists, MarkedPaid means its status flipped, Retired
// means every booking it covered is gone.
type SettlementStep string

const (
	SETTLEMENT_INITIATED         SettlementStep = "initiated"
	SETTLEMENT_RECORDED          SettlementStep = "recorded"
	SETTLEMENT_MARKED_PAID       SettlementStep = "marked_paid"
	SETTLEMENT_RETIRED           SettlementStep = "retired"
	SETTLEMENT_PARTIALLY_RETIRED SettlementStep = "partially_retired"
)

const (
	SETTLEMENT_ERR_PERSIST_FAILED        = "PersistFailed"
	SETTLEMENT_ERR_RECONCILIATION_FAILED = "ReconciliationFailed"
)

// SettlementError carries the payment id and the step reached so an
// operator can re-run just the missing step. PaymentID is empty only when
// the initial insert never happened.
type SettlementError struct {
	Code      string
	Step      SettlementStep
	PaymentID string
	Err       error
}

func (e *SettlementError) Error() string {
	if e.PaymentID != "" {
		return fmt.Sprintf("settlement %s at step %s (payment %s): %v", e.Code, e.Step, e.PaymentID, e.Err)
	}
	return fmt.Sprintf("settlement %s at step %s: %v", e.Code, e.Step, e.Err)
}

func (e *SettlementError) Unwrap() error {
	return e.Err
}

type SettlementResult struct {
	PaymentID      string         `json:"paymentId"`
	RetiredCount   int64          `json:"retiredCount"`
	Step           SettlementStep `json:"step"`
	AlreadySettled bool           `json:"alreadySettled,omitempty"`
}

type CreatePaymentIntentRequestBody struct {
	Price          float64 `json:"price" binding:"required,gt=0,price2dp"`
	IdempotencyKey string  `json:"idempotencyKey"`
}

type CreatePaymentRequestBody struct {
	Email          string   `json:"email" binding:"required,email"`
	Price          float64  `json:"price" binding:"required,gt=0,price2dp"`
	BookingItemIDs []string `json:"bookingItemIDs" binding:"required,min=1"`
	IdempotencyKey string   `json:"idempotencyKey"`
}

type CreateBookingRequestBody struct {
	Email       string  `json:"email" binding:"required,email"`
	PackageID   string  `json:"packageId" binding:"required"`
	PackageName string  `json:"packageName"`
	Date        string  `json:"date"`
	Price       float64 `json:"price" binding:"required,gt=0,price2dp"`
}

type HireGuideRequestBody struct {
	GuideID  string `json:"guideId" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	BookedBy string `json:"bookedBy" binding:"required"`
}

type UserStatsResponse struct {
	Email         string  `json:"email"`
	TotalBookings int64   `json:"totalBookings"`
	TotalSpent    float64 `json:"totalSpent"`
}

type GuideStatsResponse struct {
	Email              string  `json:"email"`
	TotalAssignedTours int64   `json:"totalAssignedTours"`
	TotalReviews       int64   `json:"totalReviews"`
	AvgRating          float64 `json:"avgRating"`
}

type AdminStatsResponse struct {
	TotalUsers    int64   `json:"totalUsers"`
	TotalGuides   int64   `json:"totalGuides"`
	TotalPackages int64   `json:"totalPackages"`
	TotalBookings int64   `json:"totalBookings"`
	TotalRevenue  float64 `json:"totalRevenue"`
}
