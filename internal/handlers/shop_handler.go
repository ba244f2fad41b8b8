package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/httpresp"
	ucShop "github.com/BruksfildServices01/shop-booking/internal/usecase/shop"
)

// ShopHandler is the shop staff's configuration surface: pricing settings and
// the weekly slot schedule.
type ShopHandler struct {
	getShop         *ucShop.GetShop
	updatePricing   *ucShop.UpdatePricing
	getSchedule     *ucShop.GetSchedule
	replaceSchedule *ucShop.ReplaceSchedule
	log             *zap.Logger
}

func NewShopHandler(
	getShop *ucShop.GetShop,
	updatePricing *ucShop.UpdatePricing,
	getSchedule *ucShop.GetSchedule,
	replaceSchedule *ucShop.ReplaceSchedule,
	log *zap.Logger,
) *ShopHandler {
	return &ShopHandler{
		getShop:         getShop,
		updatePricing:   updatePricing,
		getSchedule:     getSchedule,
		replaceSchedule: replaceSchedule,
		log:             log,
	}
}

type UpdatePricingRequest struct {
	Timezone       *string          `json:"timezone"`
	LaborRate      *decimal.Decimal `json:"labor_rate"`
	DepositPercent *decimal.Decimal `json:"deposit_percent"`
	TaxApplicable  *bool            `json:"tax_applicable"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	TowingFee      *decimal.Decimal `json:"towing_fee"`
	MobileFee      *decimal.Decimal `json:"mobile_fee"`
}

type SlotRequest struct {
	Weekday int    `json:"weekday" binding:"min=0,max=6"`
	Start   string `json:"start" binding:"required"`
	End     string `json:"end"`
}

type ReplaceSlotsRequest struct {
	Slots []SlotRequest `json:"slots" binding:"required,dive"`
}

// staffShop returns the shop the caller administers, or writes 403.
func (h *ShopHandler) staffShop(c *gin.Context) (uint, bool) {
	req := requester(c)
	if !req.IsShopStaff(req.ShopID) {
		respondError(c, h.log, domain.ErrForbidden)
		return 0, false
	}
	return req.ShopID, true
}

// ======================================================
// PRICING
// ======================================================

func (h *ShopHandler) GetPricing(c *gin.Context) {
	shopID, ok := h.staffShop(c)
	if !ok {
		return
	}

	s, err := h.getShop.Execute(c.Request.Context(), shopID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, s)
}

func (h *ShopHandler) UpdatePricing(c *gin.Context) {
	shopID, ok := h.staffShop(c)
	if !ok {
		return
	}

	var req UpdatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	s, err := h.updatePricing.Execute(c.Request.Context(), shopID, requester(c).UserID, ucShop.UpdatePricingInput{
		Timezone:       req.Timezone,
		LaborRate:      req.LaborRate,
		DepositPercent: req.DepositPercent,
		TaxApplicable:  req.TaxApplicable,
		TaxRate:        req.TaxRate,
		TowingFee:      req.TowingFee,
		MobileFee:      req.MobileFee,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, s)
}

// ======================================================
// SLOTS
// ======================================================

func (h *ShopHandler) GetSlots(c *gin.Context) {
	shopID, ok := h.staffShop(c)
	if !ok {
		return
	}

	slots, err := h.getSchedule.Execute(c.Request.Context(), shopID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, slots)
}

func (h *ShopHandler) ReplaceSlots(c *gin.Context) {
	shopID, ok := h.staffShop(c)
	if !ok {
		return
	}

	var req ReplaceSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	in := make([]ucShop.SlotInput, 0, len(req.Slots))
	for _, s := range req.Slots {
		in = append(in, ucShop.SlotInput{Weekday: s.Weekday, Start: s.Start, End: s.End})
	}

	slots, err := h.replaceSchedule.Execute(c.Request.Context(), shopID, requester(c).UserID, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, slots)
}
