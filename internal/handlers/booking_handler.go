package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/httperr"
	"github.com/BruksfildServices01/shop-booking/internal/httpresp"
	"github.com/BruksfildServices01/shop-booking/internal/middleware"
	ucBooking "github.com/BruksfildServices01/shop-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingUseCases struct {
	Reserve         *ucBooking.Reserve
	Get             *ucBooking.GetBooking
	Cancel          *ucBooking.CancelBooking
	Advance         *ucBooking.AdvanceStatus
	RecordDeposit   *ucBooking.RecordDeposit
	Propose         *ucBooking.ProposeReschedule
	Accept          *ucBooking.AcceptReschedule
	Decline         *ucBooking.DeclineReschedule
	ListMine        *ucBooking.ListMyBookings
	ListShopByDate  *ucBooking.ListShopBookingsByDate
	ListShopByMonth *ucBooking.ListShopBookingsByMonth
}

type BookingHandler struct {
	uc  BookingUseCases
	log *zap.Logger
}

func NewBookingHandler(uc BookingUseCases, log *zap.Logger) *BookingHandler {
	return &BookingHandler{uc: uc, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type ReserveRequest struct {
	ShopID        uint   `json:"shopId" binding:"required"`
	SlotID        uint   `json:"slotId" binding:"required"`
	VehicleID     uint   `json:"vehicleId" binding:"required"`
	ServiceID     *uint  `json:"serviceId"`
	QuoteID       *uint  `json:"quoteId"`
	Method        string `json:"method" binding:"required"`
	ScheduledDate string `json:"scheduledDate" binding:"required"`
	Notes         string `json:"notes" binding:"max=1000"`
}

type ProposeRescheduleRequest struct {
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
	Message string `json:"message" binding:"max=500"`
}

type RecordDepositRequest struct {
	PaymentID string `json:"paymentId"`
}

type CancelResponse struct {
	Message      string `json:"message"`
	RefundStatus string `json:"refundStatus"`
}

// ======================================================
// HELPERS
// ======================================================

func requester(c *gin.Context) domain.Requester {
	req, _ := middleware.RequesterFrom(c)
	return req
}

func bookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// RESERVE
// ======================================================

func (h *BookingHandler) Reserve(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	b, err := h.uc.Reserve.Execute(c.Request.Context(), ucBooking.ReserveInput{
		UserID:        requester(c).UserID,
		ShopID:        req.ShopID,
		SlotID:        req.SlotID,
		VehicleID:     req.VehicleID,
		ServiceID:     req.ServiceID,
		QuoteID:       req.QuoteID,
		Method:        req.Method,
		ScheduledDate: req.ScheduledDate,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// READ
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.uc.Get.Execute(c.Request.Context(), id, requester(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	list, err := h.uc.ListMine.Execute(c.Request.Context(), requester(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}

func (h *BookingHandler) ListShopByDate(c *gin.Context) {
	req := requester(c)
	if !req.IsShopStaff(req.ShopID) {
		respondError(c, h.log, domain.ErrForbidden)
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	list, err := h.uc.ListShopByDate.Execute(c.Request.Context(), req.ShopID, date)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}

func (h *BookingHandler) ListShopByMonth(c *gin.Context) {
	req := requester(c)
	if !req.IsShopStaff(req.ShopID) {
		respondError(c, h.log, domain.ErrForbidden)
		return
	}

	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "year and month are required.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		respondError(c, h.log, ucBooking.ErrInvalidMonth)
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		respondError(c, h.log, ucBooking.ErrInvalidMonth)
		return
	}

	list, err := h.uc.ListShopByMonth.Execute(c.Request.Context(), req.ShopID, year, month)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":     year,
		"month":    month,
		"bookings": list,
	})
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	res, err := h.uc.Cancel.Execute(c.Request.Context(), id, requester(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	msg := "Booking cancelled. The deposit is not refundable."
	if res.RefundStatus == domain.Refundable {
		msg = "Booking cancelled. The deposit will be refunded."
	}

	httpresp.OK(c, CancelResponse{
		Message:      msg,
		RefundStatus: string(res.RefundStatus),
	})
}

// ======================================================
// STATUS (shop)
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context)  { h.advance(c, domain.StatusConfirmed) }
func (h *BookingHandler) Start(c *gin.Context)    { h.advance(c, domain.StatusInProgress) }
func (h *BookingHandler) Complete(c *gin.Context) { h.advance(c, domain.StatusCompleted) }

func (h *BookingHandler) advance(c *gin.Context, to domain.Status) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.uc.Advance.Execute(c.Request.Context(), id, requester(c), to)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// DEPOSIT
// ======================================================

func (h *BookingHandler) RecordDeposit(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req RecordDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	b, err := h.uc.RecordDeposit.Execute(c.Request.Context(), id, requester(c), req.PaymentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *BookingHandler) ProposeReschedule(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req ProposeRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	b, err := h.uc.Propose.Execute(c.Request.Context(), id, requester(c), ucBooking.ProposeRescheduleInput{
		Date:    req.Date,
		Time:    req.Time,
		Message: req.Message,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) AcceptReschedule(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.uc.Accept.Execute(c.Request.Context(), id, requester(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) DeclineReschedule(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.uc.Decline.Execute(c.Request.Context(), id, requester(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, b)
}
