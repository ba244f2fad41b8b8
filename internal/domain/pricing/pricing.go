// Package pricing computes the price snapshot of a reservation.
//
// All arithmetic is fixed-point. Rounding (half up, to the cent) happens once,
// on the total, and the deposit is rounded from that total; remaining is the
// exact difference so deposit + remaining always equals total.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/shop-booking/internal/httperr"
)

const (
	ModeService = "service"
	ModeQuote   = "quote"
)

var (
	ErrInvalidConfiguration = httperr.ErrBusiness("invalid_configuration")
	ErrServiceOrQuote       = httperr.ErrBusiness("service_or_quote_required")

	hundred = decimal.NewFromInt(100)
)

// ShopConfig is the per-shop fee configuration.
type ShopConfig struct {
	LaborRate      decimal.Decimal
	DepositPercent decimal.NullDecimal
	TaxApplicable  bool
	TaxRate        decimal.Decimal
	TowingFee      decimal.NullDecimal
	MobileFee      decimal.NullDecimal
}

// Defaults are marketplace-wide values applied when a shop leaves a field unset.
type Defaults struct {
	PlatformFee    decimal.Decimal
	DepositPercent decimal.Decimal
	TowingFee      decimal.Decimal
	MobileFee      decimal.Decimal
}

type ServicePrice struct {
	Price          decimal.NullDecimal
	EstimatedHours decimal.NullDecimal
}

type QuoteTerms struct {
	EstimatedTotal decimal.Decimal
	DepositPercent decimal.NullDecimal
}

// Input selects exactly one of Service or Quote.
type Input struct {
	Shop    ShopConfig
	Method  Method
	Service *ServicePrice
	Quote   *QuoteTerms
}

type Breakdown struct {
	Mode           string          `json:"mode"`
	Base           decimal.Decimal `json:"base"`
	Surcharge      decimal.Decimal `json:"surcharge"`
	Tax            decimal.Decimal `json:"tax"`
	PlatformFee    decimal.Decimal `json:"platform_fee"`
	Total          decimal.Decimal `json:"total"`
	DepositPercent decimal.Decimal `json:"deposit_percent"`
	Deposit        decimal.Decimal `json:"deposit"`
	Remaining      decimal.Decimal `json:"remaining"`
}

type Calculator struct {
	defaults Defaults
}

func NewCalculator(d Defaults) (*Calculator, error) {
	if d.PlatformFee.IsNegative() || d.TowingFee.IsNegative() || d.MobileFee.IsNegative() {
		return nil, fmt.Errorf("%w: negative default fee", ErrInvalidConfiguration)
	}
	if err := checkPercent(d.DepositPercent); err != nil {
		return nil, err
	}
	return &Calculator{defaults: d}, nil
}

func (c *Calculator) Compute(in Input) (Breakdown, error) {
	if (in.Service == nil) == (in.Quote == nil) {
		return Breakdown{}, ErrServiceOrQuote
	}
	if err := ValidateShopConfig(in.Shop); err != nil {
		return Breakdown{}, err
	}

	surcharge, err := c.surcharge(in.Shop, in.Method)
	if err != nil {
		return Breakdown{}, err
	}

	depositPct := c.defaults.DepositPercent
	if in.Shop.DepositPercent.Valid {
		depositPct = in.Shop.DepositPercent.Decimal
	}

	b := Breakdown{
		Surcharge:   surcharge,
		PlatformFee: c.defaults.PlatformFee,
		Tax:         decimal.Zero,
	}

	var total decimal.Decimal

	if in.Service != nil {
		base, err := serviceBase(in.Shop, *in.Service)
		if err != nil {
			return Breakdown{}, err
		}
		subtotal := base.Add(surcharge)
		tax := decimal.Zero
		if in.Shop.TaxApplicable {
			tax = subtotal.Mul(in.Shop.TaxRate).Div(hundred)
		}

		b.Mode = ModeService
		b.Base = base
		b.Tax = tax.Round(2)
		total = subtotal.Add(tax).Add(b.PlatformFee)
	} else {
		if in.Quote.EstimatedTotal.IsNegative() {
			return Breakdown{}, fmt.Errorf("%w: negative quote total", ErrInvalidConfiguration)
		}
		if in.Quote.DepositPercent.Valid {
			depositPct = in.Quote.DepositPercent.Decimal
		}

		// the quote already carries the shop's own tax
		b.Mode = ModeQuote
		b.Base = in.Quote.EstimatedTotal
		total = b.Base.Add(surcharge).Add(b.PlatformFee)
	}

	if err := checkPercent(depositPct); err != nil {
		return Breakdown{}, err
	}

	b.Total = total.Round(2)
	b.DepositPercent = depositPct
	b.Deposit = b.Total.Mul(depositPct).Div(hundred).Round(2)
	b.Remaining = b.Total.Sub(b.Deposit)

	return b, nil
}

func (c *Calculator) surcharge(shop ShopConfig, m Method) (decimal.Decimal, error) {
	switch m {
	case MethodInShop:
		return decimal.Zero, nil
	case MethodTowing:
		if shop.TowingFee.Valid {
			return shop.TowingFee.Decimal, nil
		}
		return c.defaults.TowingFee, nil
	case MethodMobile:
		if shop.MobileFee.Valid {
			return shop.MobileFee.Decimal, nil
		}
		return c.defaults.MobileFee, nil
	}
	return decimal.Zero, ErrInvalidMethod
}

func serviceBase(shop ShopConfig, svc ServicePrice) (decimal.Decimal, error) {
	if svc.Price.Valid {
		if svc.Price.Decimal.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: negative service price", ErrInvalidConfiguration)
		}
		return svc.Price.Decimal, nil
	}
	if svc.EstimatedHours.Valid && shop.LaborRate.IsPositive() {
		if svc.EstimatedHours.Decimal.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: negative estimated hours", ErrInvalidConfiguration)
		}
		return shop.LaborRate.Mul(svc.EstimatedHours.Decimal), nil
	}
	return decimal.Zero, fmt.Errorf("%w: service has no price and no labor estimate", ErrInvalidConfiguration)
}

// ValidateShopConfig rejects configurations the calculator cannot price with.
func ValidateShopConfig(cfg ShopConfig) error {
	if cfg.DepositPercent.Valid {
		if err := checkPercent(cfg.DepositPercent.Decimal); err != nil {
			return err
		}
	}
	if cfg.TaxRate.IsNegative() {
		return fmt.Errorf("%w: tax rate %s is negative", ErrInvalidConfiguration, cfg.TaxRate)
	}
	if cfg.LaborRate.IsNegative() {
		return fmt.Errorf("%w: labor rate %s is negative", ErrInvalidConfiguration, cfg.LaborRate)
	}
	if cfg.TowingFee.Valid && cfg.TowingFee.Decimal.IsNegative() {
		return fmt.Errorf("%w: towing fee is negative", ErrInvalidConfiguration)
	}
	if cfg.MobileFee.Valid && cfg.MobileFee.Decimal.IsNegative() {
		return fmt.Errorf("%w: mobile fee is negative", ErrInvalidConfiguration)
	}
	return nil
}

func checkPercent(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return fmt.Errorf("%w: deposit percent %s outside [0,100]", ErrInvalidConfiguration, p)
	}
	return nil
}
