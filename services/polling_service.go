package services

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hazlamahedich/shop-sub002/database"
	"github.com/hazlamahedich/shop-sub002/models"
	"github.com/hazlamahedich/shop-sub002/platform"
	"github.com/hazlamahedich/shop-sub002/repository"
)

// OrderPollingService is the pull-based fallback that repairs order state
// the webhook path dropped or delayed. Reconciliation is idempotent: rows
// are only written when the platform's own updated_at watermark advances,
// and notifications go through the per-fulfillment idempotency gate.
type OrderPollingService struct {
	lock          database.PollingLock
	merchants     repository.MerchantRepository
	platform      platform.Client
	orders        repository.OrderRepository
	notifications ShippingNotifier
	health        *PollingHealthState
	window        time.Duration
	merchantDelay time.Duration
	logger        *zap.Logger
}

func NewOrderPollingService(
	lock database.PollingLock,
	merchants repository.MerchantRepository,
	platformClient platform.Client,
	orders repository.OrderRepository,
	notifications ShippingNotifier,
	health *PollingHealthState,
	window time.Duration,
	merchantDelay time.Duration,
	logger *zap.Logger,
) *OrderPollingService {
	return &OrderPollingService{
		lock:          lock,
		merchants:     merchants,
		platform:      platformClient,
		orders:        orders,
		notifications: notifications,
		health:        health,
		window:        window,
		merchantDelay: merchantDelay,
		logger:        logger,
	}
}

// PollRecentOrders runs one reconciliation cycle for a merchant. API and
// store failures are contained in the result so the scheduler can simply
// retry on its next tick.
func (s *OrderPollingService) PollRecentOrders(ctx context.Context, merchantID string) models.PollingResult {
	result := models.PollingResult{MerchantID: merchantID}

	acquired, err := s.lock.Acquire(ctx, merchantID)
	if err != nil {
		s.logger.Error("polling lock acquire failed", zap.String("merchant_id", merchantID), zap.Error(err))
		s.health.RecordError()
		result.Status = models.PollingStatusErrorAPI
		return result
	}
	if !acquired {
		s.logger.Info("poll cycle already running, skipping", zap.String("merchant_id", merchantID))
		result.Status = models.PollingStatusSkippedLock
		return result
	}

	merchant, err := s.merchants.FindByMerchantID(ctx, merchantID)
	if err != nil || merchant == nil {
		s.logger.Error("merchant credentials unavailable", zap.String("merchant_id", merchantID), zap.Error(err))
		s.health.RecordError()
		result.Status = models.PollingStatusErrorAPI
		return result
	}

	since := time.Now().UTC().Add(-s.window)
	creds := platform.Credentials{ShopDomain: merchant.ShopDomain, AccessToken: merchant.AccessToken}
	payloads, err := s.platform.ListOrders(ctx, creds, since)
	if err != nil {
		s.logger.Error("order listing failed", zap.String("merchant_id", merchantID), zap.Error(err))
		s.health.RecordError()
		result.Status = models.PollingStatusErrorAPI
		return result
	}

	for i := range payloads {
		payload := &payloads[i]
		// Older orders are assumed already reconciled; the webhook path is
		// the source of truth beyond this horizon.
		if payload.CreatedAt.Before(since) {
			continue
		}
		result.OrdersPolled++
		s.reconcile(ctx, merchantID, payload, &result)
	}

	s.health.RecordPoll(result.OrdersCreated + result.OrdersUpdated)
	result.Status = models.PollingStatusSuccess
	return result
}

// reconcile applies one polled order against the durable table, using the
// platform order id as the natural key and updated_at as the watermark.
func (s *OrderPollingService) reconcile(ctx context.Context, merchantID string, payload *models.OrderPayload, result *models.PollingResult) {
	existing, err := s.orders.FindByPlatformID(ctx, payload.ID)
	if err != nil {
		s.logger.Error("order lookup failed", zap.Int64("order_id", payload.ID), zap.Error(err))
		s.health.RecordError()
		return
	}

	shopperID, _ := payload.ShopperID()

	if existing == nil {
		row := orderRowFromPayload(merchantID, shopperID, payload)
		if err := s.orders.Create(ctx, row); err != nil {
			s.logger.Error("order insert failed", zap.Int64("order_id", payload.ID), zap.Error(err))
			s.health.RecordError()
			return
		}
		result.OrdersCreated++
		if row.FulfillmentStatus == models.FulfillmentStatusFulfilled {
			s.notifyShipped(ctx, row, payload, result)
		}
		return
	}

	// Watermark compare: repeated polls of an unchanged order are a no-op.
	if !payload.UpdatedAt.After(existing.PlatformUpdatedAt) {
		return
	}

	wasFulfilled := existing.FulfillmentStatus == models.FulfillmentStatusFulfilled
	existing.OrderNumber = payload.OrderNumber
	existing.FinancialStatus = payload.FinancialStatus
	existing.FulfillmentStatus = payload.FulfillmentStatus
	existing.PlatformUpdatedAt = payload.UpdatedAt
	if shopperID != "" {
		existing.ShopperID = shopperID
	}
	if f, ok := payload.PrimaryFulfillment(); ok {
		existing.TrackingNumber = f.TrackingNumber
		existing.TrackingURL = f.TrackingURL
	}

	if err := s.orders.Update(ctx, existing); err != nil {
		s.logger.Error("order update failed", zap.Int64("order_id", payload.ID), zap.Error(err))
		s.health.RecordError()
		return
	}
	result.OrdersUpdated++

	if !wasFulfilled && existing.FulfillmentStatus == models.FulfillmentStatusFulfilled {
		s.notifyShipped(ctx, existing, payload, result)
	}
}

func (s *OrderPollingService) notifyShipped(ctx context.Context, order *models.Order, payload *models.OrderPayload, result *models.PollingResult) {
	fulfillmentID := ""
	if f, ok := payload.PrimaryFulfillment(); ok && f.ID != 0 {
		fulfillmentID = strconv.FormatInt(f.ID, 10)
	}
	res := s.notifications.SendShippingNotification(ctx, order, fulfillmentID)
	if res.Status == models.NotificationStatusSuccess {
		result.NotificationsSent++
	}
}

// PollAllMerchants runs one cycle per merchant sequentially with a small
// delay between them. One merchant's failure never stops the batch.
func (s *OrderPollingService) PollAllMerchants(ctx context.Context, merchantIDs []string) []models.PollingResult {
	results := make([]models.PollingResult, 0, len(merchantIDs))
	for i, merchantID := range merchantIDs {
		if i > 0 && s.merchantDelay > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(s.merchantDelay):
			}
		}
		results = append(results, s.PollRecentOrders(ctx, merchantID))
	}
	return results
}

// Health returns the current scheduler health snapshot.
func (s *OrderPollingService) Health() models.PollingHealth {
	return s.health.Snapshot()
}
