package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hazlamahedich/shop-sub002/services"
)

// PollingController exposes polling health and a manual trigger for
// operators.
type PollingController struct {
	polling *services.OrderPollingService
}

func NewPollingController(polling *services.OrderPollingService) *PollingController {
	return &PollingController{polling: polling}
}

// Health handles GET /health/polling
func (pc *PollingController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, pc.polling.Health())
}

// TriggerPoll handles POST /internal/poll/:merchant_id, forcing one
// reconciliation cycle outside the schedule. The per-merchant lock still
// applies, so a manual trigger cannot overlap a scheduled one.
func (pc *PollingController) TriggerPoll(ctx *gin.Context) {
	merchantID := ctx.Param("merchant_id")
	if merchantID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "merchant id is required"})
		return
	}

	result := pc.polling.PollRecentOrders(ctx.Request.Context(), merchantID)
	ctx.JSON(http.StatusOK, result)
}
