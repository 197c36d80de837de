package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hazlamahedich/shop-sub002/models"
	"github.com/hazlamahedich/shop-sub002/services"
)

// CheckoutController exposes checkout-URL generation to the conversation
// layer.
type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// GenerateCheckout handles POST /checkout/:shopper_id
func (cc *CheckoutController) GenerateCheckout(ctx *gin.Context) {
	shopperID := ctx.Param("shopper_id")
	if shopperID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "shopper id is required"})
		return
	}

	result := cc.checkout.GenerateCheckoutURL(ctx.Request.Context(), shopperID)

	switch result.Status {
	case models.CheckoutStatusSuccess:
		ctx.JSON(http.StatusOK, result)
	case models.CheckoutStatusEmptyCart:
		ctx.JSON(http.StatusUnprocessableEntity, result)
	default:
		ctx.JSON(http.StatusBadGateway, result)
	}
}
