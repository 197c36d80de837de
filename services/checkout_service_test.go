package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/hazlamahedich/shop-sub002/models"
	"github.com/hazlamahedich/shop-sub002/platform"
	"github.com/hazlamahedich/shop-sub002/services"
)

func newCheckoutService(carts *mockCartStore, client *mockPlatformClient, validator *mockURLValidator) *services.CheckoutService {
	logger, _ := zap.NewDevelopment()
	return services.NewCheckoutService(
		carts, client, validator, &mockProducer{},
		platform.Credentials{ShopDomain: "demo.myshopify.com", AccessToken: "token"},
		3, logger,
	)
}

func twoItemCart() *models.Cart {
	return &models.Cart{
		ShopperID: "psid-1",
		Items: []models.CartItem{
			{ProductID: "p1", VariantID: "v1", Price: 89.99, Quantity: 2, Currency: "USD"},
			{ProductID: "p2", VariantID: "v2", Price: 12.99, Quantity: 3, Currency: "USD"},
		},
		Subtotal: 217.95,
		Currency: "USD",
	}
}

func TestGenerateCheckoutURL_EmptyCart(t *testing.T) {
	carts := &mockCartStore{cart: nil}
	client := &mockPlatformClient{}
	svc := newCheckoutService(carts, client, &mockURLValidator{})

	result := svc.GenerateCheckoutURL(context.Background(), "psid-1")

	assert.Equal(t, models.CheckoutStatusEmptyCart, result.Status)
	assert.Equal(t, 0, client.createCalls)
}

func TestGenerateCheckoutURL_SuccessFirstAttempt(t *testing.T) {
	carts := &mockCartStore{cart: twoItemCart()}
	client := &mockPlatformClient{checkoutURL: "https://demo.myshopify.com/checkouts/abc123def456"}
	svc := newCheckoutService(carts, client, &mockURLValidator{})

	result := svc.GenerateCheckoutURL(context.Background(), "psid-1")

	assert.Equal(t, models.CheckoutStatusSuccess, result.Status)
	assert.Equal(t, 0, result.RetryCount)
	assert.Equal(t, "abc123def456", result.CheckoutToken)
	assert.Equal(t, 1, client.createCalls)

	// Token snapshot carries the cart totals.
	assert.NotNil(t, carts.savedToken)
	assert.Equal(t, 5, carts.savedToken.ItemCount)
	assert.Equal(t, 217.95, carts.savedToken.Subtotal)
	assert.Equal(t, "USD", carts.savedToken.Currency)
}

func TestGenerateCheckoutURL_CartSurvivesSuccess(t *testing.T) {
	carts := &mockCartStore{cart: twoItemCart()}
	client := &mockPlatformClient{checkoutURL: "https://demo.myshopify.com/checkouts/abc123def456"}
	svc := newCheckoutService(carts, client, &mockURLValidator{})

	_ = svc.GenerateCheckoutURL(context.Background(), "psid-1")

	// The cart backs abandoned-checkout recovery until confirmation.
	assert.False(t, carts.cartDeleted)
}

func TestGenerateCheckoutURL_ValidationRetryThenSuccess(t *testing.T) {
	carts := &mockCartStore{cart: twoItemCart()}
	client := &mockPlatformClient{checkoutURL: "https://demo.myshopify.com/checkouts/abc123def456"}
	validator := &mockURLValidator{failures: 2}
	svc := newCheckoutService(carts, client, validator)

	result := svc.GenerateCheckoutURL(context.Background(), "psid-1")

	assert.Equal(t, models.CheckoutStatusSuccess, result.Status)
	assert.Equal(t, 2, result.RetryCount)
	assert.Equal(t, 3, client.createCalls)
}

func TestGenerateCheckoutURL_ValidationExhausted(t *testing.T) {
	carts := &mockCartStore{cart: twoItemCart()}
	client := &mockPlatformClient{checkoutURL: "https://demo.myshopify.com/checkouts/abc123def456"}
	validator := &mockURLValidator{failures: 10}
	svc := newCheckoutService(carts, client, validator)

	result := svc.GenerateCheckoutURL(context.Background(), "psid-1")

	assert.Equal(t, models.CheckoutStatusFailed, result.Status)
	assert.Equal(t, 3, result.RetryCount)
	assert.Equal(t, 4, client.createCalls)
	assert.Nil(t, carts.savedToken)
}

func TestGenerateCheckoutURL_APIErrorAbortsWithoutRetry(t *testing.T) {
	carts := &mockCartStore{cart: twoItemCart()}
	client := &mockPlatformClient{checkoutErr: &platform.APIError{StatusCode: 429, Message: "throttled"}}
	svc := newCheckoutService(carts, client, &mockURLValidator{})

	result := svc.GenerateCheckoutURL(context.Background(), "psid-1")

	assert.Equal(t, models.CheckoutStatusFailed, result.Status)
	assert.Equal(t, 0, result.RetryCount)
	assert.Equal(t, 1, client.createCalls)
}

func TestGenerateCheckoutURL_ShortTokenTreatedAsValidationFailure(t *testing.T) {
	carts := &mockCartStore{cart: twoItemCart()}
	client := &mockPlatformClient{checkoutURL: "https://demo.myshopify.com/checkouts/ab"}
	svc := newCheckoutService(carts, client, &mockURLValidator{})

	result := svc.GenerateCheckoutURL(context.Background(), "psid-1")

	assert.Equal(t, models.CheckoutStatusFailed, result.Status)
	assert.Equal(t, 3, result.RetryCount)
	assert.Equal(t, 4, client.createCalls)
}
