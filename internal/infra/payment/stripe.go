package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
)

type stripeRefunds interface {
	New(params *stripe.RefundParams) (*stripe.Refund, error)
}

// Stripe refunds deposits captured as payment intents.
type Stripe struct {
	refunds stripeRefunds
}

var _ domain.RefundGateway = (*Stripe)(nil)

func NewStripe(secretKey string) *Stripe {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &Stripe{refunds: sc.Refunds}
}

func (g *Stripe) Refund(ctx context.Context, paymentID string, amount decimal.Decimal) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentID),
		Amount:        stripe.Int64(amount.Round(2).Shift(2).IntPart()),
	}
	params.Context = ctx

	r, err := g.refunds.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe refund: %w", err)
	}
	return r.ID, nil
}
