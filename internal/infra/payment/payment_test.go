package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/refund"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

type fakeMP struct {
	paymentID int
	amount    float64
	err       error
}

func (f *fakeMP) CreatePartialRefund(_ context.Context, paymentID int, amount float64) (*refund.Response, error) {
	f.paymentID, f.amount = paymentID, amount
	if f.err != nil {
		return nil, f.err
	}
	return &refund.Response{ID: 555}, nil
}

func TestMercadoPagoRefund(t *testing.T) {
	fake := &fakeMP{}
	g := &MercadoPago{refunds: fake}

	ref, err := g.Refund(context.Background(), "1234", decimal.RequireFromString("39.99"))
	require.NoError(t, err)
	assert.Equal(t, "555", ref)
	assert.Equal(t, 1234, fake.paymentID)
	assert.InDelta(t, 39.99, fake.amount, 1e-9)
}

func TestMercadoPagoRejectsNonNumericPayment(t *testing.T) {
	g := &MercadoPago{refunds: &fakeMP{}}
	_, err := g.Refund(context.Background(), "pi_abc", decimal.NewFromInt(10))
	assert.Error(t, err)
}

func TestMercadoPagoPropagatesErrors(t *testing.T) {
	g := &MercadoPago{refunds: &fakeMP{err: errors.New("503")}}
	_, err := g.Refund(context.Background(), "1", decimal.NewFromInt(10))
	assert.ErrorContains(t, err, "503")
}

type fakeStripe struct {
	params *stripe.RefundParams
}

func (f *fakeStripe) New(params *stripe.RefundParams) (*stripe.Refund, error) {
	f.params = params
	return &stripe.Refund{ID: "re_1"}, nil
}

func TestStripeRefundInCents(t *testing.T) {
	fake := &fakeStripe{}
	g := &Stripe{refunds: fake}

	ref, err := g.Refund(context.Background(), "pi_42", decimal.RequireFromString("60.60"))
	require.NoError(t, err)
	assert.Equal(t, "re_1", ref)
	assert.Equal(t, "pi_42", *fake.params.PaymentIntent)
	assert.Equal(t, int64(6060), *fake.params.Amount)
}

func TestNewSelectsProvider(t *testing.T) {
	g, err := New("stripe", "", "sk_test", zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Stripe{}, g)

	g, err = New("none", "", "", zap.NewNop())
	require.NoError(t, err)
	ref, err := g.Refund(context.Background(), "x", decimal.NewFromInt(1))
	assert.NoError(t, err)
	assert.Empty(t, ref)

	_, err = New("mercadopago", "", "", zap.NewNop())
	assert.Error(t, err)

	_, err = New("paypal", "", "", zap.NewNop())
	assert.Error(t, err)
}
