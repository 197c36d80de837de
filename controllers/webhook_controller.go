package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hazlamahedich/shop-sub002/models"
	"github.com/hazlamahedich/shop-sub002/services"
)

// WebhookController receives commerce-platform order webhooks.
type WebhookController struct {
	confirmations *services.OrderConfirmationService
	logger        *zap.Logger
}

func NewWebhookController(confirmations *services.OrderConfirmationService, logger *zap.Logger) *WebhookController {
	return &WebhookController{confirmations: confirmations, logger: logger}
}

// HandleOrderWebhook handles POST /webhooks/:merchant_id/orders.
// The platform always gets a 200 back, even when processing failed:
// failures are logged for operator follow-up instead of triggering the
// platform's webhook retry storm, and redelivery is safe regardless
// because confirmation is idempotent.
func (wc *WebhookController) HandleOrderWebhook(ctx *gin.Context) {
	merchantID := ctx.Param("merchant_id")

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		wc.logger.Error("failed to read webhook body", zap.Error(err))
		ctx.JSON(http.StatusOK, gin.H{"status": models.ConfirmationStatusFailed})
		return
	}

	result := wc.confirmations.ConfirmOrder(ctx.Request.Context(), merchantID, body)
	if result.Status == models.ConfirmationStatusFailed {
		wc.logger.Error("order confirmation failed",
			zap.String("merchant_id", merchantID),
			zap.Int64("order_id", result.OrderID),
			zap.String("message", result.Message),
		)
	}

	ctx.JSON(http.StatusOK, result)
}
