package platform

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/hazlamahedich/shop-sub002/models"
)

const apiVersion = "2024-01"

// RestClient implements Client against the platform's admin REST API.
type RestClient struct {
	http *resty.Client
	// Admin API calls are throttled client-side to stay under the
	// platform's per-shop request budget.
	limiter *rate.Limiter
}

// NewRestClient creates a RestClient with a 15s request timeout and a
// 2 req/s admin-API throttle.
func NewRestClient() *RestClient {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &RestClient{
		http:    client,
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

type checkoutRequest struct {
	Checkout struct {
		LineItems []CheckoutItem `json:"line_items"`
	} `json:"checkout"`
}

type checkoutResponse struct {
	Checkout struct {
		Token  string `json:"token"`
		WebURL string `json:"web_url"`
	} `json:"checkout"`
	Errors map[string]interface{} `json:"errors"`
}

// CreateCheckout calls the checkout-creation API once. Errors are returned
// as *APIError; retry policy is owned by the caller.
func (c *RestClient) CreateCheckout(ctx context.Context, creds Credentials, items []CheckoutItem) (string, error) {
	var req checkoutRequest
	req.Checkout.LineItems = items

	var resp checkoutResponse
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", creds.AccessToken).
		SetBody(&req).
		SetResult(&resp).
		Post(fmt.Sprintf("https://%s/admin/api/%s/checkouts.json", creds.ShopDomain, apiVersion))
	if err != nil {
		return "", &APIError{StatusCode: 0, Message: err.Error()}
	}
	if httpResp.StatusCode() != http.StatusCreated && httpResp.StatusCode() != http.StatusOK {
		return "", &APIError{StatusCode: httpResp.StatusCode(), Message: httpResp.String()}
	}
	if resp.Checkout.WebURL == "" {
		return "", &APIError{StatusCode: httpResp.StatusCode(), Message: "checkout response missing web_url"}
	}
	return resp.Checkout.WebURL, nil
}

type ordersResponse struct {
	Orders []models.OrderPayload `json:"orders"`
}

// ListOrders fetches orders created at or after since from the admin API.
func (c *RestClient) ListOrders(ctx context.Context, creds Credentials, since time.Time) ([]models.OrderPayload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp ordersResponse
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", creds.AccessToken).
		SetQueryParams(map[string]string{
			"status":         "any",
			"created_at_min": since.UTC().Format(time.RFC3339),
		}).
		SetResult(&resp).
		Get(fmt.Sprintf("https://%s/admin/api/%s/orders.json", creds.ShopDomain, apiVersion))
	if err != nil {
		return nil, &APIError{StatusCode: 0, Message: err.Error()}
	}
	if httpResp.StatusCode() != http.StatusOK {
		return nil, &APIError{StatusCode: httpResp.StatusCode(), Message: httpResp.String()}
	}
	return resp.Orders, nil
}
