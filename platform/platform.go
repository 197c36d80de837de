package platform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hazlamahedich/shop-sub002/models"
)

// Credentials identify one merchant's shop on the commerce platform.
type Credentials struct {
	ShopDomain  string
	AccessToken string
}

// CheckoutItem is a single (variant, quantity) line sent to the
// checkout-creation API.
type CheckoutItem struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// ValidationError marks the transient checkout failure class: the platform
// returned a URL that is malformed or not reachable. Only this class is
// retried by the checkout flow.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout validation failed: %s", e.Reason)
}

// IsValidationError reports whether err belongs to the retryable
// URL-validation failure class.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// APIError is any non-validation platform failure (rate limit, malformed
// request, outage). It aborts the checkout flow immediately.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform api error (%d): %s", e.StatusCode, e.Message)
}

// Client is the outbound commerce-platform API surface.
type Client interface {
	// CreateCheckout builds a checkout for the given line items and returns
	// its web URL.
	CreateCheckout(ctx context.Context, creds Credentials, items []CheckoutItem) (string, error)
	// ListOrders fetches orders created at or after since via the admin API.
	ListOrders(ctx context.Context, creds Credentials, since time.Time) ([]models.OrderPayload, error)
}

// URLValidator checks that a generated checkout URL is reachable before it
// is handed to a shopper.
type URLValidator interface {
	Validate(ctx context.Context, checkoutURL string) error
}
