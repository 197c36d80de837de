package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hazlamahedich/shop-sub002/database"
	"github.com/hazlamahedich/shop-sub002/models"
	awspkg "github.com/hazlamahedich/shop-sub002/pkg/aws"
	"github.com/hazlamahedich/shop-sub002/repository"
	"github.com/hazlamahedich/shop-sub002/sender"
)

const notificationTypeShipping = "order_shipped"

// ShippingNotifier is the single choke point both the webhook and polling
// paths go through for "your order shipped" messages.
type ShippingNotifier interface {
	SendShippingNotification(ctx context.Context, order *models.Order, fulfillmentID string) models.NotificationResult
}

// ShippingNotificationService enforces consent, per-fulfillment idempotency
// and a daily per-shopper rate cap before any message leaves the system.
// It never returns an error: a notification failure must never abort the
// webhook or polling cycle that triggered it.
type ShippingNotificationService struct {
	consents repository.ConsentRepository
	store    database.NotificationStore
	sender   sender.MessageSender
	logs     repository.NotificationLogRepository
	sns      awspkg.SNSPublisher
	snsTopic string
	dailyCap int64
	logger   *zap.Logger
}

func NewShippingNotificationService(
	consents repository.ConsentRepository,
	store database.NotificationStore,
	messageSender sender.MessageSender,
	logs repository.NotificationLogRepository,
	sns awspkg.SNSPublisher,
	snsTopic string,
	dailyCap int64,
	logger *zap.Logger,
) *ShippingNotificationService {
	return &ShippingNotificationService{
		consents: consents,
		store:    store,
		sender:   messageSender,
		logs:     logs,
		sns:      sns,
		snsTopic: snsTopic,
		dailyCap: dailyCap,
		logger:   logger,
	}
}

// SendShippingNotification evaluates the gates in order: consent, then
// duplicate suppression, then the rate cap, then the send itself.
func (s *ShippingNotificationService) SendShippingNotification(ctx context.Context, order *models.Order, fulfillmentID string) models.NotificationResult {
	result := models.NotificationResult{
		ShopperID:   order.ShopperID,
		OrderNumber: order.OrderNumber,
	}

	granted, err := s.consents.HasNotificationConsent(ctx, order.ShopperID)
	if err != nil {
		s.logger.Error("consent lookup failed", zap.String("shopper_id", order.ShopperID), zap.Error(err))
		result.Status = models.NotificationStatusFailed
		result.ErrorCode = models.NotificationErrorStateFailed
		return result
	}
	if !granted {
		result.Status = models.NotificationStatusSkippedNoConsent
		return result
	}

	key := fulfillmentID
	if key == "" {
		// No explicit fulfillment id: fall back to a composite that still
		// distinguishes re-shipments with new tracking numbers.
		key = fmt.Sprintf("%d:%s", order.PlatformOrderID, order.TrackingNumber)
	}

	sent, err := s.store.IsSent(ctx, key)
	if err != nil {
		s.logger.Error("notification idempotency lookup failed", zap.String("key", key), zap.Error(err))
		result.Status = models.NotificationStatusFailed
		result.ErrorCode = models.NotificationErrorStateFailed
		return result
	}
	if sent {
		result.Status = models.NotificationStatusSkippedDuplicate
		return result
	}

	count, err := s.store.DailyCount(ctx, order.ShopperID)
	if err != nil {
		s.logger.Error("rate counter lookup failed", zap.String("shopper_id", order.ShopperID), zap.Error(err))
		result.Status = models.NotificationStatusFailed
		result.ErrorCode = models.NotificationErrorStateFailed
		return result
	}
	if count >= s.dailyCap {
		s.logger.Info("shipping notification rate limited",
			zap.String("shopper_id", order.ShopperID),
			zap.Int64("count", count),
		)
		result.Status = models.NotificationStatusSkippedRateLimited
		return result
	}

	text := shippingMessage(order)
	if _, err := s.sender.SendText(ctx, order.ShopperID, text); err != nil {
		s.logger.Error("shipping notification send failed",
			zap.String("shopper_id", order.ShopperID),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
		result.Status = models.NotificationStatusFailed
		result.ErrorCode = models.NotificationErrorSendFailed
		s.saveLog(ctx, order, result.Status, err.Error())
		return result
	}

	if err := s.store.MarkSent(ctx, key, order.ShopperID); err != nil {
		// The message is out; a mark failure only risks a duplicate on the
		// next trigger, which is preferable to failing the whole cycle.
		s.logger.Error("failed to mark notification sent", zap.String("key", key), zap.Error(err))
	}

	s.saveLog(ctx, order, models.NotificationStatusSuccess, "")
	s.publishShippedEvent(ctx, order)

	result.Status = models.NotificationStatusSuccess
	return result
}

func (s *ShippingNotificationService) saveLog(ctx context.Context, order *models.Order, status, errMsg string) {
	if s.logs == nil {
		return
	}
	entry := &models.NotificationLog{
		ShopperID:   order.ShopperID,
		OrderNumber: order.OrderNumber,
		Type:        notificationTypeShipping,
		Status:      status,
		Error:       errMsg,
	}
	if err := s.logs.SaveLog(ctx, entry); err != nil {
		s.logger.Error("failed to save notification log", zap.Error(err))
	}
}

func (s *ShippingNotificationService) publishShippedEvent(ctx context.Context, order *models.Order) {
	if s.sns == nil || s.snsTopic == "" {
		return
	}
	event := models.ShippingNotifiedEvent{
		EventType:      "shipping_notification_sent",
		ShopperID:      order.ShopperID,
		OrderNumber:    order.OrderNumber,
		TrackingNumber: order.TrackingNumber,
		Timestamp:      time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.sns.Publish(ctx, s.snsTopic, event.EventType, data); err != nil {
		s.logger.Warn("failed to publish shipping event", zap.Error(err))
	}
}

// shippingMessage renders the shipped-order copy, including tracking when
// the platform supplied it.
func shippingMessage(order *models.Order) string {
	if order.TrackingNumber != "" && order.TrackingURL != "" {
		return fmt.Sprintf("Good news! Order %s has shipped. Track it here: %s (tracking #%s)",
			order.OrderNumber, order.TrackingURL, order.TrackingNumber)
	}
	if order.TrackingNumber != "" {
		return fmt.Sprintf("Good news! Order %s has shipped. Tracking number: %s",
			order.OrderNumber, order.TrackingNumber)
	}
	return fmt.Sprintf("Good news! Order %s has shipped and is on its way.", order.OrderNumber)
}
