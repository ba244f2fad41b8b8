package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/domain/pricing"
)

type PreviewPriceInput struct {
	UserID    uint
	ShopID    uint
	ServiceID *uint
	QuoteID   *uint
	Method    string
}

// PreviewPrice returns the breakdown a reservation would snapshot, without
// reserving anything.
type PreviewPrice struct {
	repo domain.Repository
	calc *pricing.Calculator
	log  *zap.Logger
	now  func() time.Time
}

func NewPreviewPrice(
	repo domain.Repository,
	calc *pricing.Calculator,
	log *zap.Logger,
) *PreviewPrice {
	return &PreviewPrice{repo: repo, calc: calc, log: log, now: time.Now}
}

func (uc *PreviewPrice) Execute(
	ctx context.Context,
	in PreviewPriceInput,
) (pricing.Breakdown, error) {

	shop, err := uc.repo.GetShop(ctx, in.ShopID)
	if err != nil {
		return pricing.Breakdown{}, domain.NotFoundAs(err, domain.ErrShopNotFound)
	}

	return priceFor(ctx, uc.repo, uc.calc, uc.log, shop, priceRequest{
		UserID:    in.UserID,
		ServiceID: in.ServiceID,
		QuoteID:   in.QuoteID,
		Method:    in.Method,
	}, uc.now())
}
