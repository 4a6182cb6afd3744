package lib

import (
	"context"
	"math"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// ToMinorUnits converts a major-unit price to the processor's integer
// representation. Prices carry at most 2 fraction digits, so rounding is
// exact; plain truncation is not (float64(19.99)*100 == 1998.99...).
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

func CreatePaymentIntent(ctx context.Context, price float64, currency string) (string, error) {
	sc := GetStripeClient()
	params := stripe.PaymentIntentCreateParams{
		Amount:             stripe.Int64(ToMinorUnits(price)),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	pi, err := sc.V1PaymentIntents.Create(ctx, &params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}
