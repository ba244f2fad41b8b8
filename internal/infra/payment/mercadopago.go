package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/refund"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
)

type mercadoPagoRefunds interface {
	CreatePartialRefund(ctx context.Context, paymentID int, amount float64) (*refund.Response, error)
}

// MercadoPago refunds deposits captured through Mercado Pago. Payment ids are
// the numeric ids Mercado Pago assigns.
type MercadoPago struct {
	refunds mercadoPagoRefunds
}

var _ domain.RefundGateway = (*MercadoPago)(nil)

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{refunds: refund.NewClient(cfg)}, nil
}

func (g *MercadoPago) Refund(ctx context.Context, paymentID string, amount decimal.Decimal) (string, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return "", fmt.Errorf("mercadopago payment id %q: %w", paymentID, err)
	}

	resp, err := g.refunds.CreatePartialRefund(ctx, id, amount.Round(2).InexactFloat64())
	if err != nil {
		return "", fmt.Errorf("mercadopago refund: %w", err)
	}
	return strconv.Itoa(resp.ID), nil
}
