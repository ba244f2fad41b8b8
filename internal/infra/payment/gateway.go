package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
)

const (
	ProviderMercadoPago = "mercadopago"
	ProviderStripe      = "stripe"
	ProviderNone        = "none"
)

// New picks the refund gateway named by provider.
func New(provider, mercadoPagoToken, stripeKey string, log *zap.Logger) (domain.RefundGateway, error) {
	switch provider {
	case ProviderMercadoPago:
		if mercadoPagoToken == "" {
			return nil, fmt.Errorf("payment provider %q needs an access token", provider)
		}
		return NewMercadoPago(mercadoPagoToken)
	case ProviderStripe:
		if stripeKey == "" {
			return nil, fmt.Errorf("payment provider %q needs a secret key", provider)
		}
		return NewStripe(stripeKey), nil
	case ProviderNone, "":
		return LogOnly{log: log}, nil
	}
	return nil, fmt.Errorf("unknown payment provider %q", provider)
}

// LogOnly records refunds that must be settled by hand.
type LogOnly struct {
	log *zap.Logger
}

func (g LogOnly) Refund(_ context.Context, paymentID string, amount decimal.Decimal) (string, error) {
	g.log.Warn("no payment provider configured, refund needs manual settlement",
		zap.String("payment_id", paymentID),
		zap.String("amount", amount.StringFixed(2)),
	)
	return "", nil
}
