package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hazlamahedich/shop-sub002/database"
	"github.com/hazlamahedich/shop-sub002/kafka"
	"github.com/hazlamahedich/shop-sub002/models"
	"github.com/hazlamahedich/shop-sub002/platform"
)

const (
	checkoutFailureMessage = "We couldn't complete your checkout. Please try again."
	minTokenLength         = 5
)

// CheckoutService turns a shopper's cart into a validated checkout URL.
// Only the URL-validation failure class is retried; every other platform
// error aborts on the first attempt.
type CheckoutService struct {
	carts      database.CartStore
	platform   platform.Client
	validator  platform.URLValidator
	producer   kafka.ProducerAPI
	creds      platform.Credentials
	maxRetries int
	logger     *zap.Logger
}

func NewCheckoutService(
	carts database.CartStore,
	platformClient platform.Client,
	validator platform.URLValidator,
	producer kafka.ProducerAPI,
	creds platform.Credentials,
	maxRetries int,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:      carts,
		platform:   platformClient,
		validator:  validator,
		producer:   producer,
		creds:      creds,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// GenerateCheckoutURL loads the shopper's cart, creates a checkout on the
// commerce platform and validates the returned URL before handing it out.
// The cart is deliberately kept after success: it backs abandoned-checkout
// recovery until the order is confirmed paid.
func (s *CheckoutService) GenerateCheckoutURL(ctx context.Context, shopperID string) *models.CheckoutResult {
	cart, err := s.carts.GetCart(ctx, shopperID)
	if err != nil {
		s.logger.Error("failed to load cart", zap.String("shopper_id", shopperID), zap.Error(err))
		return &models.CheckoutResult{
			Status:  models.CheckoutStatusFailed,
			Message: checkoutFailureMessage,
		}
	}
	if cart.IsEmpty() {
		return &models.CheckoutResult{
			Status:  models.CheckoutStatusEmptyCart,
			Message: "Your cart is empty. Add something before checking out!",
		}
	}

	items := make([]platform.CheckoutItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, platform.CheckoutItem{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		checkoutURL, err := s.platform.CreateCheckout(ctx, s.creds, items)
		if err != nil {
			// Non-validation platform errors never spend the retry budget.
			s.logger.Error("checkout creation failed",
				zap.String("shopper_id", shopperID),
				zap.Error(err),
			)
			return &models.CheckoutResult{
				Status:  models.CheckoutStatusFailed,
				Message: checkoutFailureMessage,
			}
		}

		if err := s.validateCheckout(ctx, checkoutURL); err != nil {
			s.logger.Warn("checkout URL validation failed",
				zap.String("shopper_id", shopperID),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			if attempt == s.maxRetries {
				return &models.CheckoutResult{
					Status:     models.CheckoutStatusFailed,
					Message:    checkoutFailureMessage,
					RetryCount: s.maxRetries,
				}
			}
			continue
		}

		token := tokenFromURL(checkoutURL)
		record := &models.CheckoutToken{
			Token:       token,
			CheckoutURL: checkoutURL,
			ShopperID:   shopperID,
			ItemCount:   cart.ItemCount(),
			Subtotal:    cart.Subtotal,
			Currency:    cart.Currency,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.carts.SaveCheckoutToken(ctx, record); err != nil {
			s.logger.Error("failed to store checkout token",
				zap.String("shopper_id", shopperID),
				zap.Error(err),
			)
			return &models.CheckoutResult{
				Status:     models.CheckoutStatusFailed,
				Message:    checkoutFailureMessage,
				RetryCount: attempt,
			}
		}

		s.publishCheckoutEvent(ctx, record)

		return &models.CheckoutResult{
			Status:        models.CheckoutStatusSuccess,
			CheckoutURL:   checkoutURL,
			CheckoutToken: token,
			Message:       "Here's your secure checkout link!",
			RetryCount:    attempt,
		}
	}

	// Unreachable: the loop always returns.
	return &models.CheckoutResult{Status: models.CheckoutStatusFailed, Message: checkoutFailureMessage}
}

// validateCheckout runs the reachability check and the token sanity check.
// Both failures belong to the retryable validation class.
func (s *CheckoutService) validateCheckout(ctx context.Context, checkoutURL string) error {
	if err := s.validator.Validate(ctx, checkoutURL); err != nil {
		return err
	}
	if len(tokenFromURL(checkoutURL)) < minTokenLength {
		return &platform.ValidationError{Reason: "malformed checkout token"}
	}
	return nil
}

// tokenFromURL extracts the checkout token from the URL's final path
// segment, ignoring any query string.
func tokenFromURL(checkoutURL string) string {
	trimmed := checkoutURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func (s *CheckoutService) publishCheckoutEvent(ctx context.Context, token *models.CheckoutToken) {
	if s.producer == nil {
		return
	}
	event := models.CheckoutCreatedEvent{
		EventType: "checkout_created",
		ShopperID: token.ShopperID,
		Token:     token.Token,
		ItemCount: token.ItemCount,
		Subtotal:  token.Subtotal,
		Currency:  token.Currency,
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.producer.Publish(ctx, token.ShopperID, data); err != nil {
		s.logger.Warn("failed to publish checkout event", zap.Error(err))
	}
}
