package shop

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/shop-booking/internal/audit"
	"github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/domain/pricing"
	domain "github.com/BruksfildServices01/shop-booking/internal/domain/shop"
	"github.com/BruksfildServices01/shop-booking/internal/httperr"
	"github.com/BruksfildServices01/shop-booking/internal/models"
	"github.com/BruksfildServices01/shop-booking/internal/timezone"
)

var ErrInvalidTimezone = httperr.ErrBusiness("invalid_timezone")

func loadShop(ctx context.Context, repo domain.Repository, id uint) (*models.Shop, error) {
	s, err := repo.GetShop(ctx, id)
	if errors.Is(err, booking.ErrRecordNotFound) {
		return nil, domain.ErrShopNotFound
	}
	return s, err
}

type GetShop struct {
	repo domain.Repository
}

func NewGetShop(repo domain.Repository) *GetShop {
	return &GetShop{repo: repo}
}

func (uc *GetShop) Execute(ctx context.Context, shopID uint) (*models.Shop, error) {
	return loadShop(ctx, uc.repo, shopID)
}

// UpdatePricingInput is a partial update; nil fields keep their value.
type UpdatePricingInput struct {
	Timezone       *string
	LaborRate      *decimal.Decimal
	DepositPercent *decimal.Decimal
	TaxApplicable  *bool
	TaxRate        *decimal.Decimal
	TowingFee      *decimal.Decimal
	MobileFee      *decimal.Decimal
}

type UpdatePricing struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewUpdatePricing(repo domain.Repository, audit audit.Sink) *UpdatePricing {
	return &UpdatePricing{repo: repo, audit: audit}
}

// Execute rejects configurations the price calculator would refuse, so a shop
// can never be left unbookable by its own settings.
func (uc *UpdatePricing) Execute(
	ctx context.Context,
	shopID uint,
	userID uint,
	in UpdatePricingInput,
) (*models.Shop, error) {

	s, err := loadShop(ctx, uc.repo, shopID)
	if err != nil {
		return nil, err
	}

	if in.Timezone != nil {
		if !timezone.IsValid(*in.Timezone) {
			return nil, ErrInvalidTimezone
		}
		s.Timezone = *in.Timezone
	}
	if in.LaborRate != nil {
		s.LaborRate = *in.LaborRate
	}
	if in.DepositPercent != nil {
		s.DepositPercent = decimal.NewNullDecimal(*in.DepositPercent)
	}
	if in.TaxApplicable != nil {
		s.TaxApplicable = *in.TaxApplicable
	}
	if in.TaxRate != nil {
		s.TaxRate = *in.TaxRate
	}
	if in.TowingFee != nil {
		s.TowingFee = decimal.NewNullDecimal(*in.TowingFee)
	}
	if in.MobileFee != nil {
		s.MobileFee = decimal.NewNullDecimal(*in.MobileFee)
	}

	if err := pricing.ValidateShopConfig(pricing.ShopConfig{
		LaborRate:      s.LaborRate,
		DepositPercent: s.DepositPercent,
		TaxApplicable:  s.TaxApplicable,
		TaxRate:        s.TaxRate,
		TowingFee:      s.TowingFee,
		MobileFee:      s.MobileFee,
	}); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateShopPricing(ctx, s); err != nil {
		return nil, err
	}

	id := s.ID
	uc.audit.Dispatch(audit.Event{
		ShopID:   s.ID,
		UserID:   &userID,
		Action:   "shop_pricing_updated",
		Entity:   "shop",
		EntityID: &id,
	})

	return s, nil
}
