package platform

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPURLValidator checks checkout-URL reachability with a HEAD request.
// Redirects are followed; only a final 200 counts as valid. Timeouts,
// connection errors and non-200 statuses all map to *ValidationError so
// the checkout flow treats them as one retryable class.
type HTTPURLValidator struct {
	client *http.Client
}

func NewHTTPURLValidator(timeout time.Duration) *HTTPURLValidator {
	return &HTTPURLValidator{
		client: &http.Client{Timeout: timeout},
	}
}

func (v *HTTPURLValidator) Validate(ctx context.Context, checkoutURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, checkoutURL, nil)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("invalid url: %v", err)}
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ValidationError{Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return nil
}
