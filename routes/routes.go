package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hazlamahedich/shop-sub002/controllers"
)

// Register wires all HTTP routes for the order pipeline service.
func Register(
	r *gin.Engine,
	webhooks *controllers.WebhookController,
	checkout *controllers.CheckoutController,
	polling *controllers.PollingController,
) {
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/polling", polling.Health)

	r.POST("/webhooks/:merchant_id/orders", webhooks.HandleOrderWebhook)
	r.POST("/checkout/:shopper_id", checkout.GenerateCheckout)
	r.POST("/internal/poll/:merchant_id", polling.TriggerPoll)
}
