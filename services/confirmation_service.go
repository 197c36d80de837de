package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hazlamahedich/shop-sub002/database"
	"github.com/hazlamahedich/shop-sub002/kafka"
	"github.com/hazlamahedich/shop-sub002/models"
	"github.com/hazlamahedich/shop-sub002/repository"
	"github.com/hazlamahedich/shop-sub002/sender"
)

// OrderConfirmationService processes order webhooks idempotently. The
// confirmation cache entry is the LAST write, so a crash mid-flow causes
// safe reprocessing on webhook redelivery.
type OrderConfirmationService struct {
	carts         database.CartStore
	confirmations database.ConfirmationStore
	orders        repository.OrderRepository
	merchants     repository.MerchantRepository
	sender        sender.MessageSender
	producer      kafka.ProducerAPI
	logger        *zap.Logger
}

func NewOrderConfirmationService(
	carts database.CartStore,
	confirmations database.ConfirmationStore,
	orders repository.OrderRepository,
	merchants repository.MerchantRepository,
	messageSender sender.MessageSender,
	producer kafka.ProducerAPI,
	logger *zap.Logger,
) *OrderConfirmationService {
	return &OrderConfirmationService{
		carts:         carts,
		confirmations: confirmations,
		orders:        orders,
		merchants:     merchants,
		sender:        messageSender,
		producer:      producer,
		logger:        logger,
	}
}

// ConfirmOrder consumes one webhook delivery and confirms the order at
// most once per (shopper, order) pair.
func (s *OrderConfirmationService) ConfirmOrder(ctx context.Context, merchantID string, raw []byte) *models.ConfirmationResult {
	var payload models.OrderPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.ID == 0 {
		s.logger.Error("invalid order webhook payload", zap.Error(err))
		return &models.ConfirmationResult{
			Status:  models.ConfirmationStatusFailed,
			Message: "invalid order payload",
		}
	}

	shopperID, ok := payload.ShopperID()
	if !ok {
		// Not cached: if the attribute shows up on a redelivery, processing
		// resumes normally.
		s.logger.Info("order has no shopper attribute, skipping",
			zap.Int64("order_id", payload.ID),
		)
		return &models.ConfirmationResult{
			Status:      models.ConfirmationStatusSkipped,
			OrderID:     payload.ID,
			OrderNumber: payload.OrderNumber,
			Message:     "no shopper identity on order",
		}
	}

	cached, err := s.confirmations.GetConfirmation(ctx, shopperID, payload.ID)
	if err != nil {
		s.logger.Error("confirmation cache lookup failed",
			zap.String("shopper_id", shopperID),
			zap.Int64("order_id", payload.ID),
			zap.Error(err),
		)
		return &models.ConfirmationResult{
			Status:    models.ConfirmationStatusFailed,
			OrderID:   payload.ID,
			ShopperID: shopperID,
			Message:   "confirmation state unavailable",
		}
	}
	if cached != nil {
		return cached
	}

	if payload.FinancialStatus != models.FinancialStatusPaid {
		// Not cached either: a later "paid" webhook for this order id must
		// be processed fresh.
		return &models.ConfirmationResult{
			Status:      models.ConfirmationStatusSkipped,
			OrderID:     payload.ID,
			OrderNumber: payload.OrderNumber,
			ShopperID:   shopperID,
			Message:     "order not paid",
		}
	}

	// The cart must be gone before the shopper hears "order confirmed",
	// otherwise their cart still shows charged items.
	if err := s.carts.DeleteCheckoutToken(ctx, shopperID); err != nil {
		s.logger.Error("failed to clear checkout token", zap.String("shopper_id", shopperID), zap.Error(err))
		return s.failed(payload, shopperID, "failed to clear checkout state")
	}
	if err := s.carts.DeleteCart(ctx, shopperID); err != nil {
		s.logger.Error("failed to clear cart", zap.String("shopper_id", shopperID), zap.Error(err))
		return s.failed(payload, shopperID, "failed to clear cart")
	}

	ref := &models.OrderReference{
		ShopperID:   shopperID,
		OrderID:     payload.ID,
		OrderNumber: payload.OrderNumber,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.confirmations.SaveOrderReference(ctx, ref); err != nil {
		s.logger.Warn("failed to save order reference", zap.Int64("order_id", payload.ID), zap.Error(err))
	}

	s.upsertOrderRow(ctx, merchantID, shopperID, &payload)

	personality := s.resolvePersonality(ctx, merchantID)
	eta := estimatedDelivery(payload.CreatedAt)
	message := confirmationMessage(personality, payload.OrderNumber, eta)

	if _, err := s.sender.SendText(ctx, shopperID, message); err != nil {
		s.logger.Error("failed to send confirmation message",
			zap.String("shopper_id", shopperID),
			zap.Int64("order_id", payload.ID),
			zap.Error(err),
		)
		return s.failed(payload, shopperID, "failed to deliver confirmation")
	}

	result := &models.ConfirmationResult{
		Status:      models.ConfirmationStatusConfirmed,
		OrderID:     payload.ID,
		OrderNumber: payload.OrderNumber,
		ShopperID:   shopperID,
		Message:     message,
		CartCleared: true,
		ConfirmedAt: time.Now().UTC(),
	}

	s.publishConfirmedEvent(ctx, result)

	// Last write: everything before this point is safe to re-execute on
	// redelivery. A crash between send and this mark can duplicate the
	// confirmation message on the next delivery.
	if err := s.confirmations.SaveConfirmation(ctx, result); err != nil {
		s.logger.Error("failed to cache confirmation result",
			zap.String("shopper_id", shopperID),
			zap.Int64("order_id", payload.ID),
			zap.Error(err),
		)
	}

	return result
}

func (s *OrderConfirmationService) failed(payload models.OrderPayload, shopperID, msg string) *models.ConfirmationResult {
	return &models.ConfirmationResult{
		Status:      models.ConfirmationStatusFailed,
		OrderID:     payload.ID,
		OrderNumber: payload.OrderNumber,
		ShopperID:   shopperID,
		Message:     msg,
	}
}

// upsertOrderRow records the first durable sighting of the order. Failures
// are logged only: the polling path reconciles any drift.
func (s *OrderConfirmationService) upsertOrderRow(ctx context.Context, merchantID, shopperID string, payload *models.OrderPayload) {
	existing, err := s.orders.FindByPlatformID(ctx, payload.ID)
	if err != nil {
		s.logger.Warn("order row lookup failed", zap.Int64("order_id", payload.ID), zap.Error(err))
		return
	}
	if existing != nil {
		return
	}

	row := orderRowFromPayload(merchantID, shopperID, payload)
	if err := s.orders.Create(ctx, row); err != nil {
		s.logger.Warn("order row insert failed", zap.Int64("order_id", payload.ID), zap.Error(err))
	}
}

func (s *OrderConfirmationService) resolvePersonality(ctx context.Context, merchantID string) string {
	merchant, err := s.merchants.FindByMerchantID(ctx, merchantID)
	if err != nil || merchant == nil || merchant.Personality == "" {
		return personalityFriendly
	}
	return merchant.Personality
}

func (s *OrderConfirmationService) publishConfirmedEvent(ctx context.Context, result *models.ConfirmationResult) {
	if s.producer == nil {
		return
	}
	event := models.OrderConfirmedEvent{
		EventType:   "order_confirmed",
		ShopperID:   result.ShopperID,
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
		Timestamp:   time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.producer.Publish(ctx, result.ShopperID, data); err != nil {
		s.logger.Warn("failed to publish confirmation event", zap.Error(err))
	}
}

// orderRowFromPayload maps a platform order payload onto a durable row.
func orderRowFromPayload(merchantID, shopperID string, payload *models.OrderPayload) *models.Order {
	row := &models.Order{
		PlatformOrderID:   payload.ID,
		OrderNumber:       payload.OrderNumber,
		MerchantID:        merchantID,
		ShopperID:         shopperID,
		FinancialStatus:   payload.FinancialStatus,
		FulfillmentStatus: payload.FulfillmentStatus,
		PlatformUpdatedAt: payload.UpdatedAt,
	}
	if f, ok := payload.PrimaryFulfillment(); ok {
		row.TrackingNumber = f.TrackingNumber
		row.TrackingURL = f.TrackingURL
	}
	return row
}

// estimatedDelivery is the order date plus five business days, capped at
// seven calendar days so the estimate stays inside a bounded window.
func estimatedDelivery(orderDate time.Time) time.Time {
	eta := orderDate
	business := 0
	for days := 0; days < 7 && business < 5; days++ {
		eta = eta.AddDate(0, 0, 1)
		if wd := eta.Weekday(); wd != time.Saturday && wd != time.Sunday {
			business++
		}
	}
	return eta
}

const (
	personalityFriendly     = "friendly"
	personalityProfessional = "professional"
)

// confirmationMessage renders the order-confirmed copy in the merchant's
// configured tone.
func confirmationMessage(personality, orderNumber string, eta time.Time) string {
	when := eta.Format("Monday, Jan 2")
	switch personality {
	case personalityProfessional:
		return fmt.Sprintf("Your order %s has been confirmed. Estimated delivery: %s.", orderNumber, when)
	default:
		return fmt.Sprintf("Woohoo! Order %s is confirmed \U0001F389 Expect it around %s!", orderNumber, when)
	}
}
