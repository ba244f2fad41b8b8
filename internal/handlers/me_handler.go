package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ucShop "github.com/BruksfildServices01/shop-booking/internal/usecase/shop"
)

type MeHandler struct {
	getShop *ucShop.GetShop
	log     *zap.Logger
}

func NewMeHandler(getShop *ucShop.GetShop, log *zap.Logger) *MeHandler {
	return &MeHandler{getShop: getShop, log: log}
}

// GetMe echoes the caller's identity and, for shop staff, the shop they act for.
func (h *MeHandler) GetMe(c *gin.Context) {
	req := requester(c)

	body := gin.H{
		"user": gin.H{
			"id":   req.UserID,
			"role": req.Role,
		},
	}

	if req.IsShopStaff(req.ShopID) {
		s, err := h.getShop.Execute(c.Request.Context(), req.ShopID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		body["shop"] = gin.H{
			"id":       s.ID,
			"name":     s.Name,
			"phone":    s.Phone,
			"timezone": s.Timezone,
		}
	}

	c.JSON(http.StatusOK, body)
}
