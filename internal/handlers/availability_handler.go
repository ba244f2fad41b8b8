package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/shop-booking/internal/httperr"
	"github.com/BruksfildServices01/shop-booking/internal/httpresp"
	ucBooking "github.com/BruksfildServices01/shop-booking/internal/usecase/booking"
)

// AvailabilityHandler serves the marketplace views of a shop: which slots are
// free on a date and what a booking would cost.
type AvailabilityHandler struct {
	availability *ucBooking.GetAvailability
	preview      *ucBooking.PreviewPrice
	log          *zap.Logger
}

func NewAvailabilityHandler(
	availability *ucBooking.GetAvailability,
	preview *ucBooking.PreviewPrice,
	log *zap.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		preview:      preview,
		log:          log,
	}
}

func shopIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("shopId"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid shop id.")
		return 0, false
	}
	return uint(id), true
}

func optionalUint(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+key, "Invalid "+key+".")
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func (h *AvailabilityHandler) Availability(c *gin.Context) {
	shopID, ok := shopIDParam(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), shopID, date)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, slots)
}

func (h *AvailabilityHandler) PricePreview(c *gin.Context) {
	shopID, ok := shopIDParam(c)
	if !ok {
		return
	}

	serviceID, ok := optionalUint(c, "serviceId")
	if !ok {
		return
	}
	quoteID, ok := optionalUint(c, "quoteId")
	if !ok {
		return
	}

	method := c.DefaultQuery("method", "IN_SHOP")

	breakdown, err := h.preview.Execute(c.Request.Context(), ucBooking.PreviewPriceInput{
		UserID:    requester(c).UserID,
		ShopID:    shopID,
		ServiceID: serviceID,
		QuoteID:   quoteID,
		Method:    method,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, breakdown)
}
